package models

// User is a board member. PasswordHash never leaves the store/auth boundary.
type User struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Username        string          `json:"username"`
	PasswordHash    string          `json:"-"`
	Role            Role            `json:"role"`
	ExperienceLevel ExperienceLevel `json:"experienceLevel"`
	Department      string          `json:"department"`
	ManagerID       string          `json:"managerId,omitempty"`
	AvatarURL       string          `json:"avatarUrl,omitempty"`
}

func (u User) IsManager() bool {
	return u.Role == RoleManager
}

func (u User) IsDeveloper() bool {
	return u.Role == RoleDeveloper
}
