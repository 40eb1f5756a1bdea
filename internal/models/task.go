package models

import "time"

// Task is one card on the board.
type Task struct {
	ID               string     `json:"id" yaml:"id"`
	Title            string     `json:"title" yaml:"title"`
	Description      string     `json:"description" yaml:"description"`
	StoryPoints      int        `json:"storyPoints" yaml:"story_points"`
	Status           TaskStatus `json:"status" yaml:"status"`
	ExecutionOrder   int        `json:"executionOrder" yaml:"execution_order"`
	PlannedStartDate *time.Time `json:"plannedStartDate,omitempty" yaml:"planned_start_date,omitempty"`
	PlannedEndDate   *time.Time `json:"plannedEndDate,omitempty" yaml:"planned_end_date,omitempty"`
	RealStartDate    *time.Time `json:"realStartDate,omitempty" yaml:"real_start_date,omitempty"`
	RealEndDate      *time.Time `json:"realEndDate,omitempty" yaml:"real_end_date,omitempty"`
	ManagerID        string     `json:"managerId" yaml:"manager_id"`
	DeveloperID      string     `json:"developerId,omitempty" yaml:"developer_id,omitempty"`
	TaskTypeID       string     `json:"taskTypeId" yaml:"task_type_id"`
}

// TaskDetail is a task enriched with display fields from related users and task types.
type TaskDetail struct {
	Task `yaml:",inline"`

	DeveloperName   string `json:"developerName" yaml:"developer_name"`
	DeveloperAvatar string `json:"developerAvatar,omitempty" yaml:"developer_avatar,omitempty"`
	ManagerName     string `json:"managerName" yaml:"manager_name"`
	TaskTypeName    string `json:"taskTypeName" yaml:"task_type_name"`
	TaskTypeColor   string `json:"taskTypeColor" yaml:"task_type_color"`
}

// HasDeveloper reports whether the task is assigned.
func (t Task) HasDeveloper() bool {
	return t.DeveloperID != ""
}
