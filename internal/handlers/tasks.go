package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/listoapp/listo/internal/engine"
)

// TasksHandler serves read access and completion/flag toggles over the
// reminder collection.
type TasksHandler struct {
	store *engine.Store
}

// NewTasksHandler creates a new tasks handler.
func NewTasksHandler(store *engine.Store) *TasksHandler {
	return &TasksHandler{store: store}
}

// RegisterRoutes registers task routes.
func (h *TasksHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/tasks", h.ListTasks).Methods("GET")
	r.HandleFunc("/tasks/{id}/complete", h.ToggleComplete).Methods("POST")
	r.HandleFunc("/tasks/{id}/flag", h.ToggleFlag).Methods("POST")
	r.HandleFunc("/lists", h.ListLists).Methods("GET")
}

// ListTasks returns a snapshot of all tasks.
func (h *TasksHandler) ListTasks(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, h.store.Tasks())
}

// ListLists returns a snapshot of all lists with their derived counts.
func (h *TasksHandler) ListLists(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, h.store.Lists())
}

// ToggleComplete flips a task's completion state.
func (h *TasksHandler) ToggleComplete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.taskID(w, r)
	if !ok {
		return
	}
	task, err := h.store.ToggleComplete(id)
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Task not found")
		return
	}
	respondJSON(w, http.StatusOK, task)
}

// ToggleFlag flips a task's flagged state.
func (h *TasksHandler) ToggleFlag(w http.ResponseWriter, r *http.Request) {
	id, ok := h.taskID(w, r)
	if !ok {
		return
	}
	task, err := h.store.ToggleFlag(id)
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Task not found")
		return
	}
	respondJSON(w, http.StatusOK, task)
}

func (h *TasksHandler) taskID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid task ID")
		return uuid.Nil, false
	}
	return id, true
}
