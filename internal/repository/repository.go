package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kyedev/authd/internal/models"
)

type CreateUserParams struct {
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string

	// Roles to link the user with. Must exist already
	Roles []models.Role
}

// User repository interface
type UserRepo interface {
	// Create user with role links
	// Has to return apperrors.ErrUsernameTaken or apperrors.ErrEmailTaken on
	// unique constraint violation
	CreateUser(ctx context.Context, params CreateUserParams) (models.User, error)

	// Get user by id or username, roles included
	// If user not found must return apperrors.ErrUserNotFound
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)

	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)

	ListUsers(ctx context.Context) ([]models.User, error)
}

// Role repository interface
type RoleRepo interface {
	Create(ctx context.Context, role models.Role) (models.Role, error)

	// If role not found must return apperrors.ErrRoleNotFound
	GetByName(ctx context.Context, name models.RoleName) (models.Role, error)

	List(ctx context.Context) ([]models.Role, error)
}

// RefreshToken repository interface
type RefreshTokenRepo interface {
	// Persist token record. The write must be durable before Save returns
	Save(ctx context.Context, token models.RefreshToken) (models.RefreshToken, error)

	// Return the record whatever its state (expired and revoked included)
	// If no record exists must return apperrors.ErrRefreshTokenNotFound
	Get(ctx context.Context, tokenString string) (models.RefreshToken, error)

	// Set revoked flag. Already revoked tokens stay revoked
	// If no record exists must return apperrors.ErrRefreshTokenNotFound
	Revoke(ctx context.Context, tokenString string) error

	// Delete every record with expires_at before now, return how many
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Storage aggregates the repositories over a single connection or transaction
type Storage interface {
	User() UserRepo
	Role() RoleRepo
	Refresh() RefreshTokenRepo

	// InTx runs fn against a Storage bound to one database transaction
	InTx(ctx context.Context, fn func(Storage) error) error
}
