package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/StricklySoft/taskhub/pkg/auth"
	taskerr "github.com/StricklySoft/taskhub/pkg/errors"
	"github.com/StricklySoft/taskhub/pkg/task"
)

// TaskService is the task operation surface the handler needs.
// Implemented by [task.Service].
type TaskService interface {
	Create(ctx context.Context, identity auth.Identity, ownerID string, in task.CreateInput) (*task.Task, error)
	Get(ctx context.Context, identity auth.Identity, ownerID string, id uuid.UUID) (*task.Task, error)
	List(ctx context.Context, identity auth.Identity, ownerID string) ([]*task.Task, error)
	Update(ctx context.Context, identity auth.Identity, ownerID string, id uuid.UUID, in task.UpdateInput) (*task.Task, error)
	Delete(ctx context.Context, identity auth.Identity, ownerID string, id uuid.UUID) error
}

// TaskHandler serves the /api/{userID}/tasks routes.
type TaskHandler struct {
	service TaskService
}

// NewTaskHandler constructs a TaskHandler over the given service.
func NewTaskHandler(service TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// List handles GET /api/{userID}/tasks.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustIdentityFromContext(r.Context())
	ownerID := chi.URLParam(r, "userID")

	tasks, err := h.service.List(r.Context(), identity, ownerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, tasks, len(tasks))
}

// Get handles GET /api/{userID}/tasks/{taskID}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustIdentityFromContext(r.Context())
	ownerID := chi.URLParam(r, "userID")

	taskID, err := parseTaskID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	t, err := h.service.Get(r.Context(), identity, ownerID, taskID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, t)
}

// Create handles POST /api/{userID}/tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustIdentityFromContext(r.Context())
	ownerID := chi.URLParam(r, "userID")

	var in task.CreateInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	t, err := h.service.Create(r.Context(), identity, ownerID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeDataMessage(w, http.StatusCreated, t, "task created")
}

// Update handles PATCH /api/{userID}/tasks/{taskID}.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustIdentityFromContext(r.Context())
	ownerID := chi.URLParam(r, "userID")

	taskID, err := parseTaskID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var in task.UpdateInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	t, err := h.service.Update(r.Context(), identity, ownerID, taskID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeDataMessage(w, http.StatusOK, t, "task updated")
}

// Delete handles DELETE /api/{userID}/tasks/{taskID}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustIdentityFromContext(r.Context())
	ownerID := chi.URLParam(r, "userID")

	taskID, err := parseTaskID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), identity, ownerID, taskID); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Status: statusSuccess, Message: "task deleted"})
}

// parseTaskID reads the taskID path parameter. A malformed ID maps to
// not-found: an ID that cannot exist behaves like one that does not.
func parseTaskID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "taskID")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, taskerr.Newf(taskerr.CodeNotFoundTask,
			"task %q not found", raw)
	}
	return id, nil
}

// decodeBody parses the JSON request body into dst.
func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return taskerr.Wrap(err, taskerr.CodeValidation,
			"request body must be valid JSON")
	}
	return nil
}
