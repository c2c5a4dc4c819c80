package httpx

import (
	"encoding/json"
	"net/http"
	"time"
)

// ErrorBody is the structured payload returned on every failed request.
type ErrorBody struct {
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// WriteJSON encodes v with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes the structured error body for the given status.
func Error(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorBody{
		Status:    status,
		Error:     http.StatusText(status),
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}
