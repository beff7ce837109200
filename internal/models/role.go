package models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Authority string of a role
// Role checks compare these strings verbatim (case sensitive), so the value
// must follow the 'ROLE_' naming convention to be usable at all
type RoleName string

const RoleNamePrefix = "ROLE_"

// Roles known at seed time
const (
	RoleUser      RoleName = "ROLE_USER"
	RoleModerator RoleName = "ROLE_MODERATOR"
	RoleAdmin     RoleName = "ROLE_ADMIN"
)

// ParseRoleName validates the 'ROLE_' convention for authority strings
func ParseRoleName(s string) (RoleName, error) {
	if !strings.HasPrefix(s, RoleNamePrefix) || len(s) == len(RoleNamePrefix) {
		return "", fmt.Errorf("role name %q must start with %q and not be empty after it", s, RoleNamePrefix)
	}
	return RoleName(s), nil
}

func (n RoleName) String() string {
	return string(n)
}

type Role struct {
	ID          uuid.UUID
	Name        RoleName
	Description string
}
