package store

import (
	"context"
	"fmt"
)

// StoreInfo summarizes the database contents.
type StoreInfo struct {
	SchemaVersion int            `json:"schema_version" yaml:"schema_version"`
	TotalTasks    int            `json:"total_tasks" yaml:"total_tasks"`
	TaskCounts    map[string]int `json:"task_counts" yaml:"task_counts"`
	Users         int            `json:"users" yaml:"users"`
	TaskTypes     int            `json:"task_types" yaml:"task_types"`
}

// StoreInfo returns schema version and row counts.
func (s *Store) StoreInfo(ctx context.Context) (*StoreInfo, error) {
	version, err := currentVersion(s.db)
	if err != nil {
		return nil, fmt.Errorf("schema version: %w", err)
	}

	info := &StoreInfo{SchemaVersion: version, TaskCounts: map[string]int{}}

	rows, err := s.db.QueryContext(ctx, "SELECT status, COUNT(*) FROM tasks GROUP BY status")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		info.TaskCounts[status] = count
		info.TotalTasks += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&info.Users); err != nil {
		return nil, err
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM task_types").Scan(&info.TaskTypes); err != nil {
		return nil, err
	}
	return info, nil
}

// SnapshotTo writes a consistent, compacted copy of the database to path.
// The destination must not exist.
func (s *Store) SnapshotTo(ctx context.Context, path string) error {
	if path == "" {
		return fmt.Errorf("snapshot path is required")
	}
	if _, err := s.db.ExecContext(ctx, "VACUUM INTO ?", path); err != nil {
		return fmt.Errorf("vacuum into %s: %w", path, err)
	}
	return nil
}
