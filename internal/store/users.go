package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"kanban/internal/models"
)

// UserUpdate holds the user fields that may change after creation.
// A pointer to "" clears ManagerID and AvatarURL.
type UserUpdate struct {
	Name            *string
	Username        *string
	PasswordHash    *string
	Role            *models.Role
	ExperienceLevel *models.ExperienceLevel
	Department      *string
	ManagerID       *string
	AvatarURL       *string
}

// IsEmpty reports whether the update carries no changes.
func (u UserUpdate) IsEmpty() bool {
	return u.Name == nil && u.Username == nil && u.PasswordHash == nil && u.Role == nil &&
		u.ExperienceLevel == nil && u.Department == nil && u.ManagerID == nil && u.AvatarURL == nil
}

const userColumns = "id, name, username, password_hash, role, experience_level, department, manager_id, avatar_url"

// CreateUser inserts a user. The username is stored normalized.
func (q *Queries) CreateUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return fmt.Errorf("user is required")
	}
	if user.ID == "" {
		user.ID = NewID()
	}
	user.Username = NormalizeUsername(user.Username)

	_, err := q.db.ExecContext(ctx, `
		INSERT INTO users (id, name, username, password_hash, role, experience_level, department, manager_id, avatar_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		user.ID,
		user.Name,
		user.Username,
		user.PasswordHash,
		string(user.Role),
		string(user.ExperienceLevel),
		user.Department,
		nullIfEmpty(user.ManagerID),
		nullIfEmpty(user.AvatarURL),
	)
	return err
}

// GetUser returns a user by id, or nil when absent.
func (q *Queries) GetUser(ctx context.Context, id string) (*models.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}
	row := q.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	return scanUser(row)
}

// GetUserByUsername returns a user by normalized username, or nil when absent.
func (q *Queries) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	username = NormalizeUsername(username)
	if username == "" {
		return nil, nil
	}
	row := q.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE username = ? LIMIT 1", username)
	return scanUser(row)
}

// ListUsers returns all users sorted by name.
func (q *Queries) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := q.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY name ASC, username ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUser applies update to a user. It returns false when the user does not exist.
func (q *Queries) UpdateUser(ctx context.Context, id string, update UserUpdate) (bool, error) {
	if id == "" {
		return false, fmt.Errorf("id is required")
	}

	set := []string{}
	args := []any{}

	if update.Name != nil {
		set = append(set, "name = ?")
		args = append(args, *update.Name)
	}
	if update.Username != nil {
		set = append(set, "username = ?")
		args = append(args, NormalizeUsername(*update.Username))
	}
	if update.PasswordHash != nil {
		set = append(set, "password_hash = ?")
		args = append(args, *update.PasswordHash)
	}
	if update.Role != nil {
		set = append(set, "role = ?")
		args = append(args, string(*update.Role))
	}
	if update.ExperienceLevel != nil {
		set = append(set, "experience_level = ?")
		args = append(args, string(*update.ExperienceLevel))
	}
	if update.Department != nil {
		set = append(set, "department = ?")
		args = append(args, *update.Department)
	}
	if update.ManagerID != nil {
		set = append(set, "manager_id = ?")
		args = append(args, nullIfEmpty(*update.ManagerID))
	}
	if update.AvatarURL != nil {
		set = append(set, "avatar_url = ?")
		args = append(args, nullIfEmpty(*update.AvatarURL))
	}

	if len(set) == 0 {
		user, err := q.GetUser(ctx, id)
		return user != nil, err
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE users SET %s WHERE id = ?", strings.Join(set, ", "))
	result, err := q.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// DeleteUser removes a user. It returns false when the user does not exist.
func (q *Queries) DeleteUser(ctx context.Context, id string) (bool, error) {
	result, err := q.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// CountSubordinates counts users that report to managerID.
func (q *Queries) CountSubordinates(ctx context.Context, managerID string) (int, error) {
	var count int
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE manager_id = ?", managerID).Scan(&count)
	return count, err
}

// NormalizeUsername lowercases and trims a username.
func NormalizeUsername(username string) string {
	return strings.TrimSpace(strings.ToLower(username))
}

func scanUser(scanner interface {
	Scan(dest ...any) error
}) (*models.User, error) {
	var user models.User
	var role, level string
	var managerID, avatarURL sql.NullString
	if err := scanner.Scan(
		&user.ID,
		&user.Name,
		&user.Username,
		&user.PasswordHash,
		&role,
		&level,
		&user.Department,
		&managerID,
		&avatarURL,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	user.Role = models.Role(role)
	user.ExperienceLevel = models.ExperienceLevel(level)
	user.ManagerID = managerID.String
	user.AvatarURL = avatarURL.String
	return &user, nil
}
