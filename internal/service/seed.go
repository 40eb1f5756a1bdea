package service

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"time"

	"gopkg.in/yaml.v3"

	"kanban/internal/auth"
	"kanban/internal/models"
	"kanban/internal/store"
)

//go:embed fixtures/seed.yaml
var defaultSeed []byte

// SeedData is a board fixture. Records refer to each other by key.
type SeedData struct {
	Users     []SeedUser     `yaml:"users"`
	TaskTypes []SeedTaskType `yaml:"task_types"`
	Tasks     []SeedTask     `yaml:"tasks"`
}

type SeedUser struct {
	Key             string `yaml:"key"`
	Name            string `yaml:"name"`
	Username        string `yaml:"username"`
	Password        string `yaml:"password"`
	Role            string `yaml:"role"`
	ExperienceLevel string `yaml:"experience_level"`
	Department      string `yaml:"department"`
	Manager         string `yaml:"manager"`
	AvatarURL       string `yaml:"avatar_url"`
}

type SeedTaskType struct {
	Key   string `yaml:"key"`
	Name  string `yaml:"name"`
	Color string `yaml:"color"`
}

type SeedTask struct {
	Title           string `yaml:"title"`
	Description     string `yaml:"description"`
	StoryPoints     int    `yaml:"story_points"`
	Status          string `yaml:"status"`
	ExecutionOrder  int    `yaml:"execution_order"`
	Manager         string `yaml:"manager"`
	Developer       string `yaml:"developer"`
	Type            string `yaml:"type"`
	StartedDaysAgo  *int   `yaml:"started_days_ago"`
	FinishedDaysAgo *int   `yaml:"finished_days_ago"`
}

// SeedResult counts inserted records.
type SeedResult struct {
	Skipped   bool `json:"skipped" yaml:"skipped"`
	Users     int  `json:"users" yaml:"users"`
	TaskTypes int  `json:"task_types" yaml:"task_types"`
	Tasks     int  `json:"tasks" yaml:"tasks"`
}

// DefaultSeed returns the embedded demo fixture.
func DefaultSeed() (*SeedData, error) {
	return parseSeed(defaultSeed)
}

// LoadSeed decodes a YAML fixture.
func LoadSeed(r io.Reader) (*SeedData, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	return parseSeed(raw)
}

func parseSeed(raw []byte) (*SeedData, error) {
	var data SeedData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	return &data, nil
}

// Seeder loads fixtures into an empty store.
type Seeder struct {
	store  store.DataStore
	hasher PasswordHasher
	now    func() time.Time
	logger *slog.Logger
}

// NewSeeder constructs a Seeder. A nil hasher uses auth.DefaultHasher.
func NewSeeder(ds store.DataStore, hasher PasswordHasher, logger *slog.Logger) *Seeder {
	if hasher == nil {
		hasher = auth.DefaultHasher
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{
		store:  ds,
		hasher: hasher,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger.With("component", "seed"),
	}
}

// Seed inserts data in one transaction. A store that already has users is left
// untouched and reported as skipped.
func (s *Seeder) Seed(ctx context.Context, data *SeedData) (*SeedResult, error) {
	if data == nil {
		return nil, fmt.Errorf("seed data is required")
	}
	result := &SeedResult{}
	now := s.now()

	err := s.store.InTx(ctx, func(repo store.Repository) error {
		existing, err := repo.ListUsers(ctx)
		if err != nil {
			return fmt.Errorf("list users: %w", err)
		}
		if len(existing) > 0 {
			result.Skipped = true
			return nil
		}

		userIDs := map[string]string{}
		for _, su := range data.Users {
			user, err := s.seedUser(su, userIDs)
			if err != nil {
				return err
			}
			if err := repo.CreateUser(ctx, user); err != nil {
				return fmt.Errorf("create user %s: %w", su.Key, err)
			}
			userIDs[su.Key] = user.ID
			result.Users++
		}

		typeIDs := map[string]string{}
		for i, st := range data.TaskTypes {
			color := st.Color
			if color == "" {
				color = paletteColor(i)
			}
			taskType := &models.TaskType{ID: store.NewID(), Name: st.Name, Color: color}
			if err := repo.CreateTaskType(ctx, taskType); err != nil {
				return fmt.Errorf("create task type %s: %w", st.Key, err)
			}
			typeIDs[st.Key] = taskType.ID
			result.TaskTypes++
		}

		for _, st := range data.Tasks {
			task, err := seedTask(st, userIDs, typeIDs, now)
			if err != nil {
				return err
			}
			if err := repo.CreateTask(ctx, task); err != nil {
				return fmt.Errorf("create task %q: %w", st.Title, err)
			}
			result.Tasks++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Skipped {
		s.logger.Info("seed skipped, store already has users")
	} else {
		s.logger.Info("seed loaded", "users", result.Users, "task_types", result.TaskTypes, "tasks", result.Tasks)
	}
	return result, nil
}

func (s *Seeder) seedUser(su SeedUser, userIDs map[string]string) (*models.User, error) {
	username, err := auth.NormalizeUsername(su.Username)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", su.Key, err)
	}
	role, err := models.ParseRole(su.Role)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", su.Key, err)
	}
	level, err := models.ParseExperienceLevel(su.ExperienceLevel)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", su.Key, err)
	}
	hash, err := s.hasher.Hash(su.Password)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", su.Key, err)
	}
	managerID := ""
	if su.Manager != "" {
		var ok bool
		if managerID, ok = userIDs[su.Manager]; !ok {
			return nil, fmt.Errorf("user %s: unknown manager %q", su.Key, su.Manager)
		}
	}
	return &models.User{
		ID:              store.NewID(),
		Name:            su.Name,
		Username:        username,
		PasswordHash:    hash,
		Role:            role,
		ExperienceLevel: level,
		Department:      su.Department,
		ManagerID:       managerID,
		AvatarURL:       su.AvatarURL,
	}, nil
}

func seedTask(st SeedTask, userIDs, typeIDs map[string]string, now time.Time) (*models.Task, error) {
	status, err := models.ParseTaskStatus(st.Status)
	if err != nil {
		return nil, fmt.Errorf("task %q: %w", st.Title, err)
	}
	managerID, ok := userIDs[st.Manager]
	if !ok {
		return nil, fmt.Errorf("task %q: unknown manager %q", st.Title, st.Manager)
	}
	developerID := ""
	if st.Developer != "" {
		if developerID, ok = userIDs[st.Developer]; !ok {
			return nil, fmt.Errorf("task %q: unknown developer %q", st.Title, st.Developer)
		}
	}
	typeID, ok := typeIDs[st.Type]
	if !ok {
		return nil, fmt.Errorf("task %q: unknown type %q", st.Title, st.Type)
	}

	return &models.Task{
		ID:             store.NewID(),
		Title:          st.Title,
		Description:    st.Description,
		StoryPoints:    st.StoryPoints,
		Status:         status,
		ExecutionOrder: st.ExecutionOrder,
		RealStartDate:  daysAgo(now, st.StartedDaysAgo),
		RealEndDate:    daysAgo(now, st.FinishedDaysAgo),
		ManagerID:      managerID,
		DeveloperID:    developerID,
		TaskTypeID:     typeID,
	}, nil
}

func daysAgo(now time.Time, days *int) *time.Time {
	if days == nil {
		return nil
	}
	t := now.Add(-time.Duration(*days) * 24 * time.Hour)
	return &t
}
