package model

// Joke is a single title/body record. IDs are assigned by the store.
type Joke struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Response is the JSON envelope returned by the content service.
type Response struct {
	Status  string `json:"status"`
	Data    []Joke `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Details string `json:"details,omitempty"`
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)
