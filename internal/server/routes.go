package server

import (
	"net/http"
)

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	// Health check and info.
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /v1/info", s.handleInfo)

	// Sessions.
	mux.HandleFunc("POST /v1/auth/login", s.handleAuthLogin)
	mux.HandleFunc("POST /v1/auth/logout", s.handleAuthLogout)
	mux.HandleFunc("GET /v1/auth/me", s.handleAuthMe)

	// Tasks.
	mux.HandleFunc("GET /v1/tasks", s.handleListTasks)
	mux.HandleFunc("POST /v1/tasks", s.handleCreateTask)
	mux.HandleFunc("PATCH /v1/tasks/{id}", s.handleUpdateTask)
	mux.HandleFunc("DELETE /v1/tasks/{id}", s.handleDeleteTask)
	mux.HandleFunc("PATCH /v1/tasks/{id}/move", s.handleMoveTask)

	// Users.
	mux.HandleFunc("GET /v1/users", s.handleListUsers)
	mux.HandleFunc("POST /v1/users", s.handleCreateUser)
	mux.HandleFunc("GET /v1/users/{id}", s.handleGetUser)
	mux.HandleFunc("PATCH /v1/users/{id}", s.handleUpdateUser)
	mux.HandleFunc("DELETE /v1/users/{id}", s.handleDeleteUser)

	// Task types.
	mux.HandleFunc("GET /v1/task-types", s.handleListTaskTypes)
	mux.HandleFunc("POST /v1/task-types", s.handleCreateTaskType)
	mux.HandleFunc("PATCH /v1/task-types/{id}", s.handleUpdateTaskType)
	mux.HandleFunc("DELETE /v1/task-types/{id}", s.handleDeleteTaskType)

	// Reports.
	mux.HandleFunc("GET /v1/reports/completed", s.handleCompletedReport)
	mux.HandleFunc("GET /v1/reports/in-progress", s.handleInProgressReport)

	return mux
}
