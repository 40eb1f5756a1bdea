package server

import (
	"net/http"
	"testing"

	"kanban/internal/api"
	"kanban/internal/models"
	"kanban/internal/service"
)

func TestTaskTypeHandlers(t *testing.T) {
	ts := newTestServer(t)
	manager := ts.login(t, "admin")
	dev := ts.login(t, "dev1")

	w := ts.do(t, http.MethodPost, "/v1/task-types", manager, api.TaskTypeCreateRequest{Name: "  Bug  "})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d (%s)", w.Code, w.Body.String())
	}
	var bug models.TaskType
	decodeBody(t, w, &bug)
	if bug.Name != "Bug" || bug.Color != "#ef4444" {
		t.Fatalf("expected trimmed name and second palette color, got %+v", bug)
	}

	w = ts.do(t, http.MethodGet, "/v1/task-types", dev, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	var types []models.TaskType
	decodeBody(t, w, &types)
	if len(types) != 2 || types[0].Name != "Bug" || types[1].Name != "Feature" {
		t.Fatalf("expected types sorted by name, got %+v", types)
	}

	w = ts.do(t, http.MethodPatch, "/v1/task-types/"+bug.ID, manager, api.TaskTypeUpdateRequest{Color: ptr("#000000")})
	if w.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	var updated models.TaskType
	decodeBody(t, w, &updated)
	if updated.Name != "Bug" || updated.Color != "#000000" {
		t.Fatalf("expected recolored type, got %+v", updated)
	}

	tests := []struct {
		name      string
		method    string
		path      string
		token     string
		body      any
		status    int
		errorCode int
	}{
		{
			name:      "developer cannot create",
			method:    http.MethodPost,
			path:      "/v1/task-types",
			token:     dev,
			body:      api.TaskTypeCreateRequest{Name: "Chore"},
			status:    http.StatusForbidden,
			errorCode: ErrCodeForbidden,
		},
		{
			name:      "missing name",
			method:    http.MethodPost,
			path:      "/v1/task-types",
			token:     manager,
			body:      api.TaskTypeCreateRequest{Color: "#ffffff"},
			status:    http.StatusBadRequest,
			errorCode: service.CodeMissingRequired,
		},
		{
			name:      "empty update",
			method:    http.MethodPatch,
			path:      "/v1/task-types/" + bug.ID,
			token:     manager,
			body:      map[string]any{},
			status:    http.StatusBadRequest,
			errorCode: service.CodeMissingRequired,
		},
		{
			name:      "developer cannot delete",
			method:    http.MethodDelete,
			path:      "/v1/task-types/" + bug.ID,
			token:     dev,
			status:    http.StatusForbidden,
			errorCode: ErrCodeForbidden,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := ts.do(t, tc.method, tc.path, tc.token, tc.body)
			requireError(t, w, tc.status, tc.errorCode)
		})
	}

	w = ts.do(t, http.MethodDelete, "/v1/task-types/"+bug.ID, manager, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d (%s)", w.Code, w.Body.String())
	}
	w = ts.do(t, http.MethodDelete, "/v1/task-types/"+bug.ID, manager, nil)
	requireError(t, w, http.StatusNotFound, service.CodeTaskTypeNotFound)
}

func TestDeleteReferencedTaskTypeConflicts(t *testing.T) {
	ts := newTestServer(t)
	manager := ts.login(t, "admin")

	task := ts.createTask(t, manager, ts.dev.ID, 1)

	w := ts.do(t, http.MethodDelete, "/v1/task-types/"+ts.taskType.ID, manager, nil)
	requireError(t, w, http.StatusConflict, service.CodeStillReferenced)

	w = ts.do(t, http.MethodDelete, "/v1/tasks/"+task.ID, manager, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete task: expected 204, got %d (%s)", w.Code, w.Body.String())
	}
	w = ts.do(t, http.MethodDelete, "/v1/task-types/"+ts.taskType.ID, manager, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete type: expected 204, got %d (%s)", w.Code, w.Body.String())
	}
}
