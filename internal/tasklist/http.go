package tasklist

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type deleteResponse struct {
	Removed int `json:"removed"`
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type errResponse struct {
	Error   string       `json:"error"`
	Details []fieldError `json:"details,omitempty"`
}

func RegisterRoutes(r chi.Router, store *Store) {
	r.Post("/tasks", createTask(store))
	r.Get("/tasks", listTasks(store))
	r.Delete("/tasks", deleteTasksByTitle(store))
	r.Delete("/tasks/{id}", deleteTaskByID(store))
}

// createTask validates input and dispatches an add action. Validation lives
// here, not in the reducer: the reducer accepts any strings.
func createTask(store *Store) http.HandlerFunc {
	const maxTitleLen = 200

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		var req createTaskRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errResponse{Error: "invalid_json"})
			return
		}

		if vErrs := validateCreateTask(req.Title, maxTitleLen); len(vErrs) > 0 {
			writeJSON(w, http.StatusUnprocessableEntity, errResponse{
				Error:   "validation_error",
				Details: vErrs,
			})
			return
		}

		next, _, err := store.Dispatch(Add(req.Title, req.Description))
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errResponse{Error: "journal_error"})
			return
		}

		// add appends, so the created task is the last element
		writeJSON(w, http.StatusCreated, next[len(next)-1])
	}
}

func listTasks(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		list := store.List()
		if list == nil {
			list = List{} // render [] rather than null
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// deleteTasksByTitle removes every task matching ?title=. Duplicate titles all
// go at once; a title matching nothing is still a 200 with removed=0.
func deleteTasksByTitle(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		title := r.URL.Query().Get("title")
		if title == "" {
			writeJSON(w, http.StatusUnprocessableEntity, errResponse{
				Error: "validation_error",
				Details: []fieldError{
					{Field: "title", Message: "title query parameter is required"},
				},
			})
			return
		}

		_, delta, err := store.Dispatch(DeleteTitle(title))
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errResponse{Error: "journal_error"})
			return
		}
		writeJSON(w, http.StatusOK, deleteResponse{Removed: -delta})
	}
}

func deleteTaskByID(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		id := chi.URLParam(r, "id")
		_, delta, err := store.Dispatch(DeleteID(id))
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errResponse{Error: "journal_error"})
			return
		}
		if delta == 0 {
			writeJSON(w, http.StatusNotFound, errResponse{Error: "task_not_found"})
			return
		}
		writeJSON(w, http.StatusOK, deleteResponse{Removed: -delta})
	}
}

func validateCreateTask(title string, maxLen int) []fieldError {
	var errs []fieldError

	if strings.TrimSpace(title) == "" {
		errs = append(errs, fieldError{
			Field:   "title",
			Message: "title is required",
		})
	}

	if l := len(title); l > maxLen {
		errs = append(errs, fieldError{
			Field:   "title",
			Message: fmt.Sprintf("title must be at most %d characters", maxLen),
		})
	}

	return errs
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
