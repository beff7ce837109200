package models

import (
	"github.com/google/uuid"
)

// Principal is the authenticated identity derived from a validated access token
// It carries everything role based guards need without another storage roundtrip
type Principal struct {
	UserID   uuid.UUID
	Username string
	Email    string
	Roles    []RoleName
}

func (p Principal) hasRole(name RoleName) bool {
	for _, r := range p.Roles {
		if r == name {
			return true
		}
	}
	return false
}

// HasAny reports whether the principal holds at least one of the required roles
func (p Principal) HasAny(names ...RoleName) bool {
	for _, name := range names {
		if p.hasRole(name) {
			return true
		}
	}
	return false
}

// HasAll reports whether the principal holds every required role
func (p Principal) HasAll(names ...RoleName) bool {
	for _, name := range names {
		if !p.hasRole(name) {
			return false
		}
	}
	return true
}

// HasExactly reports whether the principal's role set equals the required set
// Order is not significant; duplicates on either side are ignored
func (p Principal) HasExactly(names ...RoleName) bool {
	required := make(map[RoleName]struct{}, len(names))
	for _, name := range names {
		required[name] = struct{}{}
	}

	held := make(map[RoleName]struct{}, len(p.Roles))
	for _, r := range p.Roles {
		held[r] = struct{}{}
	}

	if len(required) != len(held) {
		return false
	}
	for name := range required {
		if _, ok := held[name]; !ok {
			return false
		}
	}
	return true
}
