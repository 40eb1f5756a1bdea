package server

import (
	"net/http"

	"kanban/internal/api"
	"kanban/internal/models"
)

func (s *Server) handleListTaskTypes(w http.ResponseWriter, r *http.Request) {
	types, err := s.types.ListTaskTypes(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if types == nil {
		types = []models.TaskType{}
	}
	s.writeJSON(w, http.StatusOK, types)
}

func (s *Server) handleCreateTaskType(w http.ResponseWriter, r *http.Request) {
	if !s.requireManager(w, r) {
		return
	}
	var body api.TaskTypeCreateRequest
	if !s.decodeJSONReq(w, r, &body) {
		return
	}
	taskType, err := s.types.CreateTaskType(r.Context(), body.Name, body.Color)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, taskType)
}

func (s *Server) handleUpdateTaskType(w http.ResponseWriter, r *http.Request) {
	if !s.requireManager(w, r) {
		return
	}
	id, ok := s.pathIDOrBadRequest(w, r)
	if !ok {
		return
	}
	var body api.TaskTypeUpdateRequest
	if !s.decodeJSONReq(w, r, &body) {
		return
	}
	taskType, err := s.types.UpdateTaskType(r.Context(), id, body.Name, body.Color)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, taskType)
}

func (s *Server) handleDeleteTaskType(w http.ResponseWriter, r *http.Request) {
	if !s.requireManager(w, r) {
		return
	}
	id, ok := s.pathIDOrBadRequest(w, r)
	if !ok {
		return
	}
	if err := s.types.DeleteTaskType(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
