package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// MaxTaskIDLength bounds the path parameter before it reaches the store.
const MaxTaskIDLength = 64

// getTaskID extracts the task ID from the URL path. The boolean is false
// when the parameter is missing or too long to name any task.
func getTaskID(r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if id == "" || len(id) > MaxTaskIDLength {
		return "", false
	}
	return id, true
}
