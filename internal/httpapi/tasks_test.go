package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	taskerr "github.com/StricklySoft/taskhub/pkg/errors"
	"github.com/StricklySoft/taskhub/pkg/task"
)

func createTask(t *testing.T, router http.Handler, title string) task.Task {
	t.Helper()
	rec, env := doRequest(t, router, http.MethodPost, "/api/user-a/tasks",
		map[string]string{"title": title})
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())

	var created task.Task
	require.NoError(t, json.Unmarshal(env.Data, &created))
	return created
}

// ===========================================================================
// Create
// ===========================================================================

func TestTasks_Create(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t, "user-a")

	rec, env := doRequest(t, router, http.MethodPost, "/api/user-a/tasks", map[string]string{
		"title":       "  write report  ",
		"description": "quarterly numbers",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "success", env.Status)
	assert.Equal(t, "task created", env.Message)

	var created task.Task
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "write report", created.Title)
	assert.Equal(t, "user-a", created.OwnerID)
	assert.Equal(t, task.StatusPending, created.Status)
	assert.Equal(t, task.PriorityMedium, created.Priority)
}

func TestTasks_Create_BlankTitle(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t, "user-a")

	rec, env := doRequest(t, router, http.MethodPost, "/api/user-a/tasks",
		map[string]string{"title": "   "})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, taskerr.CodeValidationRequired.String(), env.Code)
}

func TestTasks_Create_InvalidJSON(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t, "user-a")

	req := httptest.NewRequest(http.MethodPost, "/api/user-a/tasks", strings.NewReader(`{"title": `))
	req.Header.Set("Authorization", "Bearer test-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var env respEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, taskerr.CodeValidation.String(), env.Code)
}

// ===========================================================================
// List
// ===========================================================================

func TestTasks_List(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t, "user-a")
	createTask(t, router, "first")
	createTask(t, router, "second")

	rec, env := doRequest(t, router, http.MethodGet, "/api/user-a/tasks", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, env.Meta)
	assert.Equal(t, 2, env.Meta.Total)

	var tasks []task.Task
	require.NoError(t, json.Unmarshal(env.Data, &tasks))
	assert.Len(t, tasks, 2)
}

func TestTasks_List_ExcludesDeleted(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t, "user-a")
	keep := createTask(t, router, "keep")
	gone := createTask(t, router, "gone")

	rec, _ := doRequest(t, router, http.MethodDelete, "/api/user-a/tasks/"+gone.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	_, env := doRequest(t, router, http.MethodGet, "/api/user-a/tasks", nil)
	require.NotNil(t, env.Meta)
	assert.Equal(t, 1, env.Meta.Total)

	var tasks []task.Task
	require.NoError(t, json.Unmarshal(env.Data, &tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, keep.ID, tasks[0].ID)
}

func TestTasks_List_Empty(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t, "user-a")

	rec, env := doRequest(t, router, http.MethodGet, "/api/user-a/tasks", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, env.Meta)
	assert.Equal(t, 0, env.Meta.Total)
	assert.Equal(t, "[]", string(env.Data), "empty list should serialize as [], not null")
}

// ===========================================================================
// Get
// ===========================================================================

func TestTasks_Get(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t, "user-a")
	created := createTask(t, router, "findable")

	rec, env := doRequest(t, router, http.MethodGet, "/api/user-a/tasks/"+created.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got task.Task
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, created.ID, got.ID)
}

// Soft-deleted tasks remain readable by ID.
func TestTasks_Get_DeletedTask(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t, "user-a")
	created := createTask(t, router, "doomed")

	rec, _ := doRequest(t, router, http.MethodDelete, "/api/user-a/tasks/"+created.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env := doRequest(t, router, http.MethodGet, "/api/user-a/tasks/"+created.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got task.Task
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, task.StatusDeleted, got.Status)
}

func TestTasks_Get_NotFound(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t, "user-a")

	rec, env := doRequest(t, router, http.MethodGet,
		"/api/user-a/tasks/4dfdbbd0-9df5-4d45-a8f1-52d6b2b4f3a1", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, taskerr.CodeNotFoundTask.String(), env.Code)
}

// A malformed ID cannot exist, so it behaves like an absent one.
func TestTasks_Get_MalformedID(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t, "user-a")

	rec, env := doRequest(t, router, http.MethodGet, "/api/user-a/tasks/not-a-uuid", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, taskerr.CodeNotFoundTask.String(), env.Code)
}

// ===========================================================================
// Update
// ===========================================================================

func TestTasks_Update(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t, "user-a")
	created := createTask(t, router, "original")

	rec, env := doRequest(t, router, http.MethodPatch, "/api/user-a/tasks/"+created.ID.String(),
		map[string]string{"title": "renamed", "status": "completed"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "task updated", env.Message)

	var updated task.Task
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "renamed", updated.Title)
	assert.Equal(t, task.StatusCompleted, updated.Status)
}

func TestTasks_Update_DeletedTask(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t, "user-a")
	created := createTask(t, router, "doomed")

	rec, _ := doRequest(t, router, http.MethodDelete, "/api/user-a/tasks/"+created.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env := doRequest(t, router, http.MethodPatch, "/api/user-a/tasks/"+created.ID.String(),
		map[string]string{"title": "resurrect"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, taskerr.CodeValidationState.String(), env.Code)
	assert.Contains(t, env.Message, "cannot update a deleted task")
}

func TestTasks_Update_MalformedID(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t, "user-a")

	rec, env := doRequest(t, router, http.MethodPatch, "/api/user-a/tasks/42",
		map[string]string{"title": "t"})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, taskerr.CodeNotFoundTask.String(), env.Code)
}

// ===========================================================================
// Delete
// ===========================================================================

func TestTasks_Delete(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t, "user-a")
	created := createTask(t, router, "doomed")

	rec, env := doRequest(t, router, http.MethodDelete, "/api/user-a/tasks/"+created.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", env.Status)
	assert.Equal(t, "task deleted", env.Message)
}

func TestTasks_Delete_Idempotent(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t, "user-a")
	created := createTask(t, router, "doomed")

	for i := 0; i < 2; i++ {
		rec, env := doRequest(t, router, http.MethodDelete, "/api/user-a/tasks/"+created.ID.String(), nil)
		require.Equal(t, http.StatusOK, rec.Code, "delete attempt %d", i+1)
		assert.Equal(t, "task deleted", env.Message)
	}
}

// ===========================================================================
// Ownership
// ===========================================================================

// A token for user-a touching user-b's path is forbidden on every verb.
func TestTasks_CrossOwnerPathForbidden(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t, "user-a")
	taskPath := "/api/user-b/tasks/4dfdbbd0-9df5-4d45-a8f1-52d6b2b4f3a1"

	tests := []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodGet, "/api/user-b/tasks", nil},
		{http.MethodPost, "/api/user-b/tasks", map[string]string{"title": "t"}},
		{http.MethodGet, taskPath, nil},
		{http.MethodPatch, taskPath, map[string]string{"title": "t"}},
		{http.MethodDelete, taskPath, nil},
	}

	for _, tt := range tests {
		rec, env := doRequest(t, router, tt.method, tt.path, tt.body)
		assert.Equal(t, http.StatusForbidden, rec.Code, "%s %s", tt.method, tt.path)
		assert.Equal(t, taskerr.CodeAuthorizationOwnership.String(), env.Code)
	}
}
