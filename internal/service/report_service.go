package service

import (
	"context"
	"math"
	"time"

	"kanban/internal/models"
	"kanban/internal/store"
)

// CompletedTaskReport is one DONE task with planned versus real duration in days.
type CompletedTaskReport struct {
	models.TaskDetail `yaml:",inline"`

	PlannedDays int  `json:"plannedDays" yaml:"planned_days"`
	RealDays    int  `json:"realDays" yaml:"real_days"`
	Variance    int  `json:"variance" yaml:"variance"`
	Delayed     bool `json:"delayed" yaml:"delayed"`
}

// CompletedReport summarizes a manager's finished work.
type CompletedReport struct {
	Tasks            []CompletedTaskReport `json:"tasks" yaml:"tasks"`
	Total            int                   `json:"total" yaml:"total"`
	OnTime           int                   `json:"onTime" yaml:"on_time"`
	Delayed          int                   `json:"delayed" yaml:"delayed"`
	TotalStoryPoints int                   `json:"totalStoryPoints" yaml:"total_story_points"`
}

// InProgressTaskReport is one unfinished task with its schedule position.
type InProgressTaskReport struct {
	models.TaskDetail `yaml:",inline"`

	DaysRemaining int  `json:"daysRemaining" yaml:"days_remaining"`
	DaysLate      int  `json:"daysLate" yaml:"days_late"`
	Late          bool `json:"late" yaml:"late"`
}

// InProgressReport summarizes a manager's unfinished work.
type InProgressReport struct {
	Tasks []InProgressTaskReport `json:"tasks" yaml:"tasks"`
	Total int                    `json:"total" yaml:"total"`
	Todo  int                    `json:"todo" yaml:"todo"`
	Doing int                    `json:"doing" yaml:"doing"`
	Late  int                    `json:"late" yaml:"late"`
}

// ReportService builds manager reports over owned tasks.
type ReportService struct {
	store store.Repository
	now   func() time.Time
}

// NewReportService constructs a ReportService. A nil now uses the wall clock.
func NewReportService(repo store.Repository, now func() time.Time) *ReportService {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &ReportService{store: repo, now: now}
}

// CompletedReport lists the requester's DONE tasks with duration variance.
func (s *ReportService) CompletedReport(ctx context.Context, req Requester) (*CompletedReport, error) {
	if !req.IsManager() {
		return nil, forbidden("only managers can view reports")
	}
	tasks, err := s.store.ListTasks(ctx, store.TaskFilter{
		ManagerID: req.ID,
		Statuses:  []models.TaskStatus{models.StatusDone},
	})
	if err != nil {
		return nil, storeFailure("list completed tasks", err)
	}

	report := &CompletedReport{Tasks: make([]CompletedTaskReport, 0, len(tasks))}
	for _, task := range tasks {
		row := CompletedTaskReport{
			TaskDetail:  task,
			PlannedDays: spanDays(task.PlannedStartDate, task.PlannedEndDate),
			RealDays:    spanDays(task.RealStartDate, task.RealEndDate),
		}
		if row.PlannedDays > 0 {
			row.Variance = row.RealDays - row.PlannedDays
		}
		row.Delayed = row.Variance > 0

		report.Tasks = append(report.Tasks, row)
		report.Total++
		report.TotalStoryPoints += task.StoryPoints
		if row.Delayed {
			report.Delayed++
		} else {
			report.OnTime++
		}
	}
	return report, nil
}

// InProgressReport lists the requester's unfinished tasks with days remaining
// until the planned end date. Negative remaining days count as late.
func (s *ReportService) InProgressReport(ctx context.Context, req Requester) (*InProgressReport, error) {
	if !req.IsManager() {
		return nil, forbidden("only managers can view reports")
	}
	tasks, err := s.store.ListTasks(ctx, store.TaskFilter{
		ManagerID: req.ID,
		Statuses:  []models.TaskStatus{models.StatusTodo, models.StatusDoing},
	})
	if err != nil {
		return nil, storeFailure("list unfinished tasks", err)
	}

	now := s.now()
	report := &InProgressReport{Tasks: make([]InProgressTaskReport, 0, len(tasks))}
	for _, task := range tasks {
		row := InProgressTaskReport{TaskDetail: task}
		if task.PlannedEndDate != nil {
			row.DaysRemaining = ceilDays(task.PlannedEndDate.Sub(now))
		}
		if row.DaysRemaining < 0 {
			row.DaysLate = -row.DaysRemaining
			row.Late = true
			report.Late++
		}

		report.Tasks = append(report.Tasks, row)
		report.Total++
		switch task.Status {
		case models.StatusTodo:
			report.Todo++
		case models.StatusDoing:
			report.Doing++
		}
	}
	return report, nil
}

// spanDays returns the whole days between start and end, rounded up. Missing
// dates yield zero.
func spanDays(start, end *time.Time) int {
	if start == nil || end == nil {
		return 0
	}
	d := end.Sub(*start)
	if d < 0 {
		d = -d
	}
	return ceilDays(d)
}

func ceilDays(d time.Duration) int {
	return int(math.Ceil(d.Hours() / 24))
}
