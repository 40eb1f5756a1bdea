package api

import "time"

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	ErrorCode int    `json:"error_code,omitempty"`
}

// InfoResponse is the response from GET /v1/info.
type InfoResponse struct {
	SchemaVersion int            `json:"schemaVersion" yaml:"schema_version"`
	TotalTasks    int            `json:"totalTasks" yaml:"total_tasks"`
	TaskCounts    map[string]int `json:"taskCounts" yaml:"task_counts"`
	Users         int            `json:"users" yaml:"users"`
	TaskTypes     int            `json:"taskTypes" yaml:"task_types"`
}

// LoginRequest is the payload for POST /v1/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the session token and the authenticated user.
type LoginResponse struct {
	Token     string    `json:"token" yaml:"token"`
	ExpiresAt time.Time `json:"expiresAt" yaml:"expires_at"`
	User      User      `json:"user" yaml:"user"`
}
