package server

import (
	"fmt"
	"net/http"

	"kanban/internal/service"
)

// requester returns the authenticated caller or writes 401.
func (s *Server) requester(w http.ResponseWriter, r *http.Request) (service.Requester, bool) {
	req, ok := requesterFromContext(r.Context())
	if !ok {
		s.writeErrorReq(w, r, http.StatusUnauthorized, unauthorized(fmt.Errorf("authentication required")))
		return service.Requester{}, false
	}
	return req, true
}

// requireManager gates user and task type administration.
func (s *Server) requireManager(w http.ResponseWriter, r *http.Request) bool {
	req, ok := s.requester(w, r)
	if !ok {
		return false
	}
	if !req.IsManager() {
		s.writeErrorReq(w, r, http.StatusForbidden, makeAPIError(http.StatusForbidden, "forbidden", ErrCodeForbidden, fmt.Errorf("manager role required")))
		return false
	}
	return true
}
