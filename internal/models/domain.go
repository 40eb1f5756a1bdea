package models

import (
	"fmt"
	"strings"
)

// TaskStatus defines the board columns a task moves through.
type TaskStatus string

const (
	StatusTodo  TaskStatus = "TODO"
	StatusDoing TaskStatus = "DOING"
	StatusDone  TaskStatus = "DONE"
)

// Role separates task owners from task executors.
type Role string

const (
	RoleManager   Role = "MANAGER"
	RoleDeveloper Role = "DEVELOPER"
)

// ExperienceLevel is informational seniority for a user.
type ExperienceLevel string

const (
	LevelJunior ExperienceLevel = "JUNIOR"
	LevelMid    ExperienceLevel = "MID"
	LevelSenior ExperienceLevel = "SENIOR"
)

const (
	// MaxDoingPerDeveloper caps concurrent in-progress work per developer.
	MaxDoingPerDeveloper = 2

	UnassignedDeveloperName = "Unassigned"
	NeutralTaskTypeColor    = "#cbd5e1"
)

var validTaskStatuses = map[TaskStatus]struct{}{
	StatusTodo:  {},
	StatusDoing: {},
	StatusDone:  {},
}

var validRoles = map[Role]struct{}{
	RoleManager:   {},
	RoleDeveloper: {},
}

var validExperienceLevels = map[ExperienceLevel]struct{}{
	LevelJunior: {},
	LevelMid:    {},
	LevelSenior: {},
}

// allowedTransitions lists moves accepted by the board. Same-status moves are
// handled by callers as no-ops. DONE exits are the correction path and are
// further gated by configuration.
var allowedTransitions = map[TaskStatus]map[TaskStatus]struct{}{
	StatusTodo: {
		StatusDoing: {},
		StatusDone:  {},
	},
	StatusDoing: {
		StatusTodo: {},
		StatusDone: {},
	},
	StatusDone: {
		StatusTodo:  {},
		StatusDoing: {},
	},
}

func IsValidTaskStatus(status TaskStatus) bool {
	_, ok := validTaskStatuses[status]
	return ok
}

func IsValidRole(role Role) bool {
	_, ok := validRoles[role]
	return ok
}

func IsValidExperienceLevel(level ExperienceLevel) bool {
	_, ok := validExperienceLevels[level]
	return ok
}

// CanTransition reports whether from -> to is a defined board move.
func CanTransition(from, to TaskStatus) bool {
	next, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	_, ok = next[to]
	return ok
}

// IsActive reports whether a task in this status still occupies its execution order slot.
func (s TaskStatus) IsActive() bool {
	return s != StatusDone
}

func ParseTaskStatus(raw string) (TaskStatus, error) {
	value := TaskStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if value == "" {
		return "", fmt.Errorf("status is required")
	}
	if !IsValidTaskStatus(value) {
		return "", fmt.Errorf("invalid status: %s", raw)
	}
	return value, nil
}

func ParseRole(raw string) (Role, error) {
	value := Role(strings.ToUpper(strings.TrimSpace(raw)))
	if value == "" {
		return "", fmt.Errorf("role is required")
	}
	if !IsValidRole(value) {
		return "", fmt.Errorf("invalid role: %s", raw)
	}
	return value, nil
}

func ParseExperienceLevel(raw string) (ExperienceLevel, error) {
	value := ExperienceLevel(strings.ToUpper(strings.TrimSpace(raw)))
	if value == "" {
		return "", fmt.Errorf("experience level is required")
	}
	if !IsValidExperienceLevel(value) {
		return "", fmt.Errorf("invalid experience level: %s", raw)
	}
	return value, nil
}
