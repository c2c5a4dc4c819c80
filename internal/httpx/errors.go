package httpx

import (
	"errors"
	"log"
	"net/http"
)

// ErrorMapping binds one error kind to the status it surfaces as.
type ErrorMapping struct {
	Err    error
	Status int
}

// ErrorMapper translates domain errors into HTTP responses from a single
// dispatch table, so the mapping stays exhaustive and testable away from
// transport code. Unmapped errors become a generic 500.
type ErrorMapper struct {
	table []ErrorMapping
}

func NewErrorMapper(table ...ErrorMapping) *ErrorMapper {
	return &ErrorMapper{table: table}
}

// Status resolves err against the table. The second return reports whether
// the error was mapped.
func (m *ErrorMapper) Status(err error) (int, bool) {
	for _, e := range m.table {
		if errors.Is(err, e.Err) {
			return e.Status, true
		}
	}
	return http.StatusInternalServerError, false
}

// Write resolves err and writes the structured error body. Internal details
// are logged, never returned to the client.
func (m *ErrorMapper) Write(w http.ResponseWriter, r *http.Request, err error) {
	status, mapped := m.Status(err)
	if !mapped || status >= http.StatusInternalServerError {
		log.Printf("internal error: request_id=%s err=%v", RequestIDFrom(r), err)
		Error(w, status, "An unexpected error occurred")
		return
	}
	Error(w, status, err.Error())
}
