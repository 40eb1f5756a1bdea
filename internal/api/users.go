package api

import "kanban/internal/models"

// User is the public view of a board member. It has no password field.
type User struct {
	ID              string `json:"id" yaml:"id"`
	Name            string `json:"name" yaml:"name"`
	Username        string `json:"username" yaml:"username"`
	Role            string `json:"role" yaml:"role"`
	ExperienceLevel string `json:"experienceLevel" yaml:"experience_level"`
	Department      string `json:"department" yaml:"department"`
	ManagerID       string `json:"managerId,omitempty" yaml:"manager_id,omitempty"`
	AvatarURL       string `json:"avatarUrl,omitempty" yaml:"avatar_url,omitempty"`
}

// NewUser converts a stored user into its public view.
func NewUser(user models.User) User {
	return User{
		ID:              user.ID,
		Name:            user.Name,
		Username:        user.Username,
		Role:            string(user.Role),
		ExperienceLevel: string(user.ExperienceLevel),
		Department:      user.Department,
		ManagerID:       user.ManagerID,
		AvatarURL:       user.AvatarURL,
	}
}

// UserCreateRequest is the payload for POST /v1/users.
type UserCreateRequest struct {
	Name            string `json:"name"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	Role            string `json:"role"`
	ExperienceLevel string `json:"experienceLevel"`
	Department      string `json:"department,omitempty"`
	ManagerID       string `json:"managerId,omitempty"`
	AvatarURL       string `json:"avatarUrl,omitempty"`
}

// UserUpdateRequest is the payload for PATCH /v1/users/{id}. Only listed
// fields can change; an empty managerId or avatarUrl clears it.
type UserUpdateRequest struct {
	Name            *string `json:"name,omitempty"`
	Username        *string `json:"username,omitempty"`
	Password        *string `json:"password,omitempty"`
	Role            *string `json:"role,omitempty"`
	ExperienceLevel *string `json:"experienceLevel,omitempty"`
	Department      *string `json:"department,omitempty"`
	ManagerID       *string `json:"managerId,omitempty"`
	AvatarURL       *string `json:"avatarUrl,omitempty"`
}
