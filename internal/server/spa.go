package server

import (
	"io/fs"
	"net/http"
	"path"
	"strings"
)

// handleSPA serves real asset files and falls back to index.html so the
// client can route the path itself.
func (s *Server) handleSPA(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(path.Clean(r.URL.Path), "/")

	if name != "" && name != "index.html" && strings.Contains(path.Base(name), ".") && fs.ValidPath(name) {
		if info, err := fs.Stat(s.assets, name); err == nil && !info.IsDir() {
			http.ServeFileFS(w, r, s.assets, name)
			return
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		w.Write(s.index)
	}
}
