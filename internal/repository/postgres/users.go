package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/kyedev/authd/internal/apperrors"
	"github.com/kyedev/authd/internal/models"
	"github.com/kyedev/authd/internal/repository"
)

type UserRepo struct {
	db DBTX
}

const createUser = `-- name: CreateUser
INSERT INTO users (username, email, password_hash, first_name, last_name)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, username, email, password_hash, first_name, last_name,
          enabled, account_non_expired, account_non_locked, credentials_non_expired,
          created_at, updated_at
`

const linkUserRole = `-- name: LinkUserRole
INSERT INTO user_roles (user_id, role_id)
VALUES ($1, $2)
`

// CreateUser inserts the user row and its role links in a single transaction
// A user without role links must never become visible
func (r *UserRepo) CreateUser(ctx context.Context, params repository.CreateUserParams) (models.User, error) {
	var user models.User

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return user, fmt.Errorf("db tx error: %w", err)
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	rows, _ := tx.Query(ctx, createUser,
		params.Username, params.Email, params.PasswordHash, params.FirstName, params.LastName,
	)
	user, err = pgx.CollectOneRow(rows, rowToUser)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			switch pgErr.ConstraintName {
			case "users_username_key":
				return user, fmt.Errorf("repo error: %w", apperrors.ErrUsernameTaken)
			case "users_email_key":
				return user, fmt.Errorf("repo error: %w", apperrors.ErrEmailTaken)
			}
		}
		return user, fmt.Errorf("db error: %w", err)
	}

	for _, role := range params.Roles {
		if _, err := tx.Exec(ctx, linkUserRole, user.ID, role.ID); err != nil {
			return user, fmt.Errorf("db error: %w", err)
		}
	}
	user.Roles = params.Roles

	if err := tx.Commit(ctx); err != nil {
		return user, fmt.Errorf("db tx error: %w", err)
	}

	return user, nil
}

const getUserByID = `-- name: GetUserByID
SELECT id, username, email, password_hash, first_name, last_name,
       enabled, account_non_expired, account_non_locked, credentials_non_expired,
       created_at, updated_at
FROM users
WHERE id = $1
`

func (r *UserRepo) GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error) {
	rows, _ := r.db.Query(ctx, getUserByID, userID)
	return r.collectUserWithRoles(ctx, rows)
}

const getUserByUsername = `-- name: GetUserByUsername
SELECT id, username, email, password_hash, first_name, last_name,
       enabled, account_non_expired, account_non_locked, credentials_non_expired,
       created_at, updated_at
FROM users
WHERE username = $1
`

func (r *UserRepo) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	rows, _ := r.db.Query(ctx, getUserByUsername, username)
	return r.collectUserWithRoles(ctx, rows)
}

const usernameExists = `-- name: UsernameExists
SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)
`

func (r *UserRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, usernameExists, username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

const emailExists = `-- name: EmailExists
SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)
`

func (r *UserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, emailExists, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

const listUsers = `-- name: ListUsers
SELECT id, username, email, password_hash, first_name, last_name,
       enabled, account_non_expired, account_non_locked, credentials_non_expired,
       created_at, updated_at
FROM users
ORDER BY created_at
`

func (r *UserRepo) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, _ := r.db.Query(ctx, listUsers)
	users, err := pgx.CollectRows(rows, rowToUser)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	for i := range users {
		roles, err := r.userRoles(ctx, users[i].ID)
		if err != nil {
			return nil, err
		}
		users[i].Roles = roles
	}

	return users, nil
}

const getUserRoles = `-- name: GetUserRoles
SELECT r.id, r.name, r.description
FROM roles r
JOIN user_roles ur ON ur.role_id = r.id
WHERE ur.user_id = $1
ORDER BY r.name
`

func (r *UserRepo) userRoles(ctx context.Context, userID uuid.UUID) ([]models.Role, error) {
	rows, _ := r.db.Query(ctx, getUserRoles, userID)
	roles, err := pgx.CollectRows(rows, rowToRole)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return roles, nil
}

func (r *UserRepo) collectUserWithRoles(ctx context.Context, rows pgx.Rows) (models.User, error) {
	user, err := pgx.CollectOneRow(rows, rowToUser)

	switch {
	case err == nil:
	case errors.Is(err, pgx.ErrNoRows):
		return user, fmt.Errorf("repo error: %w", apperrors.ErrUserNotFound)
	default:
		return user, fmt.Errorf("db error: %w", err)
	}

	user.Roles, err = r.userRoles(ctx, user.ID)
	return user, err
}

func rowToUser(row pgx.CollectableRow) (models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.Enabled, &u.AccountNonExpired, &u.AccountNonLocked, &u.CredentialsNonExpired,
		&u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}
