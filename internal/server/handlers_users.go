package server

import (
	"net/http"

	"kanban/internal/api"
	"kanban/internal/service"
)

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.ListUsers(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	out := make([]api.User, 0, len(users))
	for _, user := range users {
		out = append(out, api.NewUser(user))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathIDOrBadRequest(w, r)
	if !ok {
		return
	}
	user, err := s.users.GetUser(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.NewUser(*user))
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	if !s.requireManager(w, r) {
		return
	}
	var body api.UserCreateRequest
	if !s.decodeJSONReq(w, r, &body) {
		return
	}

	user, err := s.users.CreateUser(r.Context(), service.CreateUserInput{
		Name:            body.Name,
		Username:        body.Username,
		Password:        body.Password,
		Role:            body.Role,
		ExperienceLevel: body.ExperienceLevel,
		Department:      body.Department,
		ManagerID:       body.ManagerID,
		AvatarURL:       body.AvatarURL,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, api.NewUser(*user))
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	if !s.requireManager(w, r) {
		return
	}
	id, ok := s.pathIDOrBadRequest(w, r)
	if !ok {
		return
	}
	var body api.UserUpdateRequest
	if !s.decodeJSONReq(w, r, &body) {
		return
	}

	user, err := s.users.UpdateUser(r.Context(), id, service.UserPatch{
		Name:            body.Name,
		Username:        body.Username,
		Password:        body.Password,
		Role:            body.Role,
		ExperienceLevel: body.ExperienceLevel,
		Department:      body.Department,
		ManagerID:       body.ManagerID,
		AvatarURL:       body.AvatarURL,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.NewUser(*user))
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if !s.requireManager(w, r) {
		return
	}
	id, ok := s.pathIDOrBadRequest(w, r)
	if !ok {
		return
	}
	if err := s.users.DeleteUser(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
