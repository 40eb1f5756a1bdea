package service

import (
	"context"
	"log/slog"
	"strings"

	"kanban/internal/auth"
	"kanban/internal/models"
	"kanban/internal/store"
)

// PasswordHasher hashes plaintext passwords for storage.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// UserService manages board members. Returned users never carry a password hash.
type UserService struct {
	store  store.DataStore
	hasher PasswordHasher
	logger *slog.Logger
}

// NewUserService constructs a UserService. A nil hasher uses auth.DefaultHasher.
func NewUserService(ds store.DataStore, hasher PasswordHasher, logger *slog.Logger) *UserService {
	if hasher == nil {
		hasher = auth.DefaultHasher
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{store: ds, hasher: hasher, logger: logger.With("component", "users")}
}

// CreateUserInput carries the fields of a new user.
type CreateUserInput struct {
	Name            string
	Username        string
	Password        string
	Role            string
	ExperienceLevel string
	Department      string
	ManagerID       string
	AvatarURL       string
}

// UserPatch is the allow-list of user fields that may change. ManagerID or
// AvatarURL pointing at "" clears the value.
type UserPatch struct {
	Name            *string
	Username        *string
	Password        *string
	Role            *string
	ExperienceLevel *string
	Department      *string
	ManagerID       *string
	AvatarURL       *string
}

func (p UserPatch) isEmpty() bool {
	return p.Name == nil && p.Username == nil && p.Password == nil && p.Role == nil &&
		p.ExperienceLevel == nil && p.Department == nil && p.ManagerID == nil && p.AvatarURL == nil
}

// CreateUser validates input, hashes the password and stores the user.
func (s *UserService) CreateUser(ctx context.Context, in CreateUserInput) (*models.User, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalidArgument(CodeMissingRequired, "name is required")
	}
	username, err := auth.NormalizeUsername(in.Username)
	if err != nil {
		return nil, invalidArgument(CodeInvalidUsername, "%s", err.Error())
	}
	role, err := models.ParseRole(in.Role)
	if err != nil {
		return nil, invalidArgument(CodeInvalidRole, "%s", err.Error())
	}
	level, err := models.ParseExperienceLevel(in.ExperienceLevel)
	if err != nil {
		return nil, invalidArgument(CodeInvalidExperienceLevel, "%s", err.Error())
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, invalidArgument(CodeInvalidPassword, "%s", err.Error())
	}

	user := &models.User{
		ID:              store.NewID(),
		Name:            name,
		Username:        username,
		PasswordHash:    hash,
		Role:            role,
		ExperienceLevel: level,
		Department:      strings.TrimSpace(in.Department),
		ManagerID:       strings.TrimSpace(in.ManagerID),
		AvatarURL:       strings.TrimSpace(in.AvatarURL),
	}

	err = s.store.InTx(ctx, func(repo store.Repository) error {
		existing, err := repo.GetUserByUsername(ctx, username)
		if err != nil {
			return storeFailure("get user by username", err)
		}
		if existing != nil {
			return conflict(CodeUsernameTaken, "username already taken")
		}
		if user.ManagerID != "" {
			if err := requireManager(ctx, repo, user.ManagerID); err != nil {
				return err
			}
		}
		if err := repo.CreateUser(ctx, user); err != nil {
			if store.IsUniqueViolation(err) {
				return conflict(CodeUsernameTaken, "username already taken")
			}
			return storeFailure("create user", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user created", "user_id", user.ID, "username", user.Username, "role", user.Role)
	return sanitizeUser(user), nil
}

// GetUser returns one user by id.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, storeFailure("get user", err)
	}
	if user == nil {
		return nil, notFound(CodeUserNotFound, "user not found")
	}
	return sanitizeUser(user), nil
}

// ListUsers returns all users.
func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, storeFailure("list users", err)
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

// UpdateUser applies the allow-listed fields in patch.
func (s *UserService) UpdateUser(ctx context.Context, id string, patch UserPatch) (*models.User, error) {
	if patch.isEmpty() {
		return nil, invalidArgument(CodeMissingRequired, "at least one field is required")
	}

	update := store.UserUpdate{Department: trimmedPtr(patch.Department), AvatarURL: trimmedPtr(patch.AvatarURL)}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, invalidArgument(CodeMissingRequired, "name cannot be empty")
		}
		update.Name = &name
	}
	if patch.Username != nil {
		username, err := auth.NormalizeUsername(*patch.Username)
		if err != nil {
			return nil, invalidArgument(CodeInvalidUsername, "%s", err.Error())
		}
		update.Username = &username
	}
	if patch.Role != nil {
		role, err := models.ParseRole(*patch.Role)
		if err != nil {
			return nil, invalidArgument(CodeInvalidRole, "%s", err.Error())
		}
		update.Role = &role
	}
	if patch.ExperienceLevel != nil {
		level, err := models.ParseExperienceLevel(*patch.ExperienceLevel)
		if err != nil {
			return nil, invalidArgument(CodeInvalidExperienceLevel, "%s", err.Error())
		}
		update.ExperienceLevel = &level
	}
	if patch.Password != nil {
		hash, err := s.hasher.Hash(*patch.Password)
		if err != nil {
			return nil, invalidArgument(CodeInvalidPassword, "%s", err.Error())
		}
		update.PasswordHash = &hash
	}
	update.ManagerID = trimmedPtr(patch.ManagerID)

	var updated *models.User
	err := s.store.InTx(ctx, func(repo store.Repository) error {
		current, err := repo.GetUser(ctx, id)
		if err != nil {
			return storeFailure("get user", err)
		}
		if current == nil {
			return notFound(CodeUserNotFound, "user not found")
		}

		if update.Username != nil && *update.Username != current.Username {
			existing, err := repo.GetUserByUsername(ctx, *update.Username)
			if err != nil {
				return storeFailure("get user by username", err)
			}
			if existing != nil {
				return conflict(CodeUsernameTaken, "username already taken")
			}
		}
		if update.ManagerID != nil && *update.ManagerID != "" {
			if *update.ManagerID == id {
				return invalidArgument(CodeInvalidArgument, "user cannot report to themselves")
			}
			if err := requireManager(ctx, repo, *update.ManagerID); err != nil {
				return err
			}
		}
		if update.Role != nil && *update.Role != current.Role {
			if err := requireRoleChangeAllowed(ctx, repo, current.ID); err != nil {
				return err
			}
		}

		if _, err := repo.UpdateUser(ctx, id, update); err != nil {
			if store.IsUniqueViolation(err) {
				return conflict(CodeUsernameTaken, "username already taken")
			}
			return storeFailure("update user", err)
		}
		updated, err = repo.GetUser(ctx, id)
		return storeFailure("load user", err)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user updated", "user_id", id)
	return sanitizeUser(updated), nil
}

// DeleteUser removes a user that no task references.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	err := s.store.InTx(ctx, func(repo store.Repository) error {
		user, err := repo.GetUser(ctx, id)
		if err != nil {
			return storeFailure("get user", err)
		}
		if user == nil {
			return notFound(CodeUserNotFound, "user not found")
		}
		refs, err := repo.CountTasksForUser(ctx, id)
		if err != nil {
			return storeFailure("count user tasks", err)
		}
		if refs > 0 {
			return conflict(CodeStillReferenced, "user is referenced by %d task(s)", refs)
		}
		deleted, err := repo.DeleteUser(ctx, id)
		if err != nil {
			return storeFailure("delete user", err)
		}
		if !deleted {
			return notFound(CodeUserNotFound, "user not found")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("user deleted", "user_id", id)
	return nil
}

// requireRoleChangeAllowed keeps references consistent: a user who owns or is
// assigned tasks, or who still has reports, cannot switch roles.
func requireRoleChangeAllowed(ctx context.Context, repo store.Repository, userID string) error {
	refs, err := repo.CountTasksForUser(ctx, userID)
	if err != nil {
		return storeFailure("count user tasks", err)
	}
	if refs > 0 {
		return conflict(CodeStillReferenced, "cannot change role of a user referenced by %d task(s)", refs)
	}
	reports, err := repo.CountSubordinates(ctx, userID)
	if err != nil {
		return storeFailure("count subordinates", err)
	}
	if reports > 0 {
		return conflict(CodeStillReferenced, "cannot change role of a manager with %d report(s)", reports)
	}
	return nil
}

func requireManager(ctx context.Context, repo store.Repository, id string) error {
	manager, err := repo.GetUser(ctx, id)
	if err != nil {
		return storeFailure("get manager", err)
	}
	if manager == nil {
		return notFound(CodeUserNotFound, "manager not found")
	}
	if !manager.IsManager() {
		return invalidArgument(CodeInvalidRole, "managerId must reference a manager")
	}
	return nil
}

func sanitizeUser(user *models.User) *models.User {
	if user == nil {
		return nil
	}
	clean := *user
	clean.PasswordHash = ""
	return &clean
}
