package server

import "net/http"

func (s *Server) handleCompletedReport(w http.ResponseWriter, r *http.Request) {
	req, ok := s.requester(w, r)
	if !ok {
		return
	}
	report, err := s.reports.CompletedReport(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleInProgressReport(w http.ResponseWriter, r *http.Request) {
	req, ok := s.requester(w, r)
	if !ok {
		return
	}
	report, err := s.reports.InProgressReport(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}
