package server

import (
	"net/http"
	"strings"
	"time"

	"kanban/internal/api"
	"kanban/internal/models"
	"kanban/internal/service"
)

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	req, ok := s.requester(w, r)
	if !ok {
		return
	}
	tasks, err := s.tasks.ListTasks(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if tasks == nil {
		tasks = []models.TaskDetail{}
	}
	s.writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	req, ok := s.requester(w, r)
	if !ok {
		return
	}
	var body api.TaskCreateRequest
	if !s.decodeJSONReq(w, r, &body) {
		return
	}

	in := service.CreateTaskInput{
		Title:          body.Title,
		Description:    body.Description,
		StoryPoints:    body.StoryPoints,
		ExecutionOrder: body.ExecutionOrder,
		TaskTypeID:     body.TaskTypeID,
	}
	if body.DeveloperID != nil {
		in.DeveloperID = *body.DeveloperID
	}
	var err error
	if in.PlannedStartDate, err = optionalTime("plannedStartDate", body.PlannedStartDate); err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, err)
		return
	}
	if in.PlannedEndDate, err = optionalTime("plannedEndDate", body.PlannedEndDate); err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, err)
		return
	}
	in.PlannedStartDate = nilIfZero(in.PlannedStartDate)
	in.PlannedEndDate = nilIfZero(in.PlannedEndDate)

	task, err := s.tasks.CreateTask(r.Context(), in, req.ID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, task)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	req, ok := s.requester(w, r)
	if !ok {
		return
	}
	id, ok := s.pathIDOrBadRequest(w, r)
	if !ok {
		return
	}
	var body api.TaskUpdateRequest
	if !s.decodeJSONReq(w, r, &body) {
		return
	}

	edit := service.TaskEdit{
		Title:          body.Title,
		Description:    body.Description,
		StoryPoints:    body.StoryPoints,
		ExecutionOrder: body.ExecutionOrder,
		DeveloperID:    body.DeveloperID,
		TaskTypeID:     body.TaskTypeID,
	}
	var err error
	if edit.PlannedStartDate, err = optionalTime("plannedStartDate", body.PlannedStartDate); err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, err)
		return
	}
	if edit.PlannedEndDate, err = optionalTime("plannedEndDate", body.PlannedEndDate); err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, err)
		return
	}

	task, err := s.tasks.EditTask(r.Context(), id, edit, req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleMoveTask(w http.ResponseWriter, r *http.Request) {
	req, ok := s.requester(w, r)
	if !ok {
		return
	}
	id, ok := s.pathIDOrBadRequest(w, r)
	if !ok {
		return
	}
	var body api.TaskMoveRequest
	if !s.decodeJSONReq(w, r, &body) {
		return
	}

	status := models.TaskStatus(strings.ToUpper(strings.TrimSpace(body.Status)))
	task, err := s.tasks.MoveTask(r.Context(), id, status, req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	req, ok := s.requester(w, r)
	if !ok {
		return
	}
	id, ok := s.pathIDOrBadRequest(w, r)
	if !ok {
		return
	}
	if err := s.tasks.DeleteTask(r.Context(), id, req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func nilIfZero(t *time.Time) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	return t
}
