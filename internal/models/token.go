package models

import (
	"time"

	"github.com/google/uuid"
)

type RefreshToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Token     string
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
}

// Valid reports whether the token may still be exchanged for access tokens
func (t RefreshToken) Valid(now time.Time) bool {
	return !t.Revoked && now.Before(t.ExpiresAt)
}

type IssuedToken struct {
	Value     string
	ExpiresAt time.Time
}

// Token pair issued by TokenManager or AuthService
type TokenPair struct {
	Access  IssuedToken
	Refresh IssuedToken
}
