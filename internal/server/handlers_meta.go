package server

import (
	"net/http"

	"kanban/internal/api"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	info, err := s.store.StoreInfo(r.Context())
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, api.InfoResponse{
		SchemaVersion: info.SchemaVersion,
		TotalTasks:    info.TotalTasks,
		TaskCounts:    info.TaskCounts,
		Users:         info.Users,
		TaskTypes:     info.TaskTypes,
	})
}
