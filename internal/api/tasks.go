package api

// TaskCreateRequest is the payload for POST /v1/tasks. Dates are RFC3339 or
// YYYY-MM-DD strings.
type TaskCreateRequest struct {
	Title            string  `json:"title"`
	Description      string  `json:"description,omitempty"`
	StoryPoints      int     `json:"storyPoints"`
	PlannedStartDate *string `json:"plannedStartDate,omitempty"`
	PlannedEndDate   *string `json:"plannedEndDate,omitempty"`
	ExecutionOrder   int     `json:"executionOrder"`
	DeveloperID      *string `json:"developerId,omitempty"`
	TaskTypeID       string  `json:"taskTypeId"`
}

// TaskUpdateRequest is the payload for PATCH /v1/tasks/{id}. An empty
// developerId unassigns the task and an empty date clears it.
type TaskUpdateRequest struct {
	Title            *string `json:"title,omitempty"`
	Description      *string `json:"description,omitempty"`
	StoryPoints      *int    `json:"storyPoints,omitempty"`
	PlannedStartDate *string `json:"plannedStartDate,omitempty"`
	PlannedEndDate   *string `json:"plannedEndDate,omitempty"`
	ExecutionOrder   *int    `json:"executionOrder,omitempty"`
	DeveloperID      *string `json:"developerId,omitempty"`
	TaskTypeID       *string `json:"taskTypeId,omitempty"`
}

// TaskMoveRequest is the payload for PATCH /v1/tasks/{id}/move.
type TaskMoveRequest struct {
	Status string `json:"status"`
}

// TaskTypeCreateRequest is the payload for POST /v1/task-types. An empty
// color picks one from the palette.
type TaskTypeCreateRequest struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// TaskTypeUpdateRequest is the payload for PATCH /v1/task-types/{id}.
type TaskTypeUpdateRequest struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
}
