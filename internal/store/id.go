package store

import "github.com/google/uuid"

// NewID returns a new random entity id.
func NewID() string {
	return uuid.NewString()
}

// IsValidID reports whether id is a canonical UUID string.
func IsValidID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
