package server

import (
	"encoding/json"
	"net/http"

	"jokebox/internal/model"

	"go.uber.org/zap"
)

func (s *Server) handleListJokes(w http.ResponseWriter, r *http.Request) {
	jokes, err := s.store.ListJokes(r.Context())
	if err != nil {
		s.logger.Error("Failed to fetch jokes",
			zap.String("request_id", requestID(r.Context())),
			zap.Error(err),
		)

		resp := model.Response{
			Status:  model.StatusError,
			Message: "Internal server error",
		}
		if !s.production {
			resp.Details = err.Error()
		}
		s.writeJSON(w, http.StatusInternalServerError, resp)
		return
	}

	if len(jokes) == 0 {
		s.writeJSON(w, http.StatusNotFound, model.Response{
			Status:  model.StatusError,
			Message: "No jokes found",
		})
		return
	}

	s.writeJSON(w, http.StatusOK, model.Response{
		Status: model.StatusSuccess,
		Data:   jokes,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Warn("Failed to write response", zap.Error(err))
	}
}
