package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string

	// Account state flags. A user may authenticate only when all of them allow it.
	Enabled               bool
	AccountNonExpired     bool
	AccountNonLocked      bool
	CredentialsNonExpired bool

	Roles []Role

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RoleNames returns the authority strings of the user's roles
func (u User) RoleNames() []RoleName {
	names := make([]RoleName, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

func (u User) HasRole(name RoleName) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}
