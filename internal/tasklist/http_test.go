package tasklist

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func newTestServer() (*chi.Mux, *Store) {
	store := NewStore()
	r := chi.NewRouter()
	RegisterRoutes(r, store)
	return r, store
}

func TestPostTasks_Success(t *testing.T) {
	r, _ := newTestServer()

	body := []byte(`{"title":"Buy milk","description":"2%"}`)
	req := httptest.NewRequest(http.MethodPost, "/tasks", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d, body=%s", rec.Code, rec.Body.String())
	}

	var got Task
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to parse JSON: %v", err)
	}
	if got.ID == "" {
		t.Errorf("expected non-empty ID")
	}
	if got.Title != "Buy milk" {
		t.Errorf("expected Title=Buy milk, got %q", got.Title)
	}
	if got.Description != "2%" {
		t.Errorf("expected Description=2%%, got %q", got.Description)
	}
	if got.CreatedAt.IsZero() {
		t.Errorf("expected CreatedAt to be set")
	}
}

func TestPostTasks_TitleRequired(t *testing.T) {
	r, _ := newTestServer()

	body := []byte(`{"title":"  "}`)
	req := httptest.NewRequest(http.MethodPost, "/tasks", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d, body=%s", rec.Code, rec.Body.String())
	}

	var errResp errResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("failed to parse error JSON: %v", err)
	}
	if errResp.Error != "validation_error" {
		t.Errorf("expected error 'validation_error', got %q", errResp.Error)
	}
	if len(errResp.Details) != 1 || errResp.Details[0].Field != "title" {
		t.Errorf("expected a title field error, got %+v", errResp.Details)
	}
}

func TestPostTasks_InvalidJSON(t *testing.T) {
	r, _ := newTestServer()

	body := []byte(`{"title":`) // truncated/invalid JSON
	req := httptest.NewRequest(http.MethodPost, "/tasks", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d, body=%s", rec.Code, rec.Body.String())
	}
}

func TestGetTasks_EmptyListIsArray(t *testing.T) {
	r, _ := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if got := rec.Body.String(); got != "[]\n" {
		t.Fatalf("expected empty JSON array, got %q", got)
	}
}

func TestGetTasks_HappyPath(t *testing.T) {
	r, store := newTestServer()
	mustAdd(t, store, "seeded task")

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d, body=%s", rec.Code, rec.Body.String())
	}

	var list []Task
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("failed to parse JSON: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 task, got %d", len(list))
	}
	if list[0].Title != "seeded task" {
		t.Errorf("expected first task title 'seeded task', got %q", list[0].Title)
	}
}

func TestDeleteTasks_ByTitleRemovesDuplicates(t *testing.T) {
	r, store := newTestServer()
	mustAdd(t, store, "A")
	mustAdd(t, store, "A")
	mustAdd(t, store, "B")

	req := httptest.NewRequest(http.MethodDelete, "/tasks?title=A", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d, body=%s", rec.Code, rec.Body.String())
	}

	var resp deleteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse JSON: %v", err)
	}
	if resp.Removed != 2 {
		t.Errorf("expected removed=2, got %d", resp.Removed)
	}

	list := store.List()
	if len(list) != 1 || list[0].Title != "B" {
		t.Errorf("unexpected remainder: %+v", list)
	}
}

func TestDeleteTasks_ByTitleNoMatch(t *testing.T) {
	r, store := newTestServer()
	mustAdd(t, store, "A")

	req := httptest.NewRequest(http.MethodDelete, "/tasks?title=Z", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d, body=%s", rec.Code, rec.Body.String())
	}

	var resp deleteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse JSON: %v", err)
	}
	if resp.Removed != 0 {
		t.Errorf("expected removed=0, got %d", resp.Removed)
	}
	if len(store.List()) != 1 {
		t.Errorf("list should be unchanged")
	}
}

func TestDeleteTasks_MissingTitleParam(t *testing.T) {
	r, _ := newTestServer()

	req := httptest.NewRequest(http.MethodDelete, "/tasks", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d, body=%s", rec.Code, rec.Body.String())
	}
}

func TestDeleteTask_ByID(t *testing.T) {
	r, store := newTestServer()
	mustAdd(t, store, "A")
	mustAdd(t, store, "A") // duplicate title, distinct id
	id := store.List()[0].ID

	req := httptest.NewRequest(http.MethodDelete, "/tasks/"+id, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d, body=%s", rec.Code, rec.Body.String())
	}

	list := store.List()
	if len(list) != 1 {
		t.Fatalf("expected 1 task left, got %d", len(list))
	}
	if list[0].ID == id {
		t.Errorf("wrong task removed")
	}
}

func TestDeleteTask_ByIDNotFound(t *testing.T) {
	r, _ := newTestServer()

	req := httptest.NewRequest(http.MethodDelete, "/tasks/nope", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d, body=%s", rec.Code, rec.Body.String())
	}
}
