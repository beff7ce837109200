package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/kyedev/authd/internal/apperrors"
	"github.com/kyedev/authd/internal/models"
)

type RoleRepo struct {
	db DBTX
}

const createRole = `-- name: CreateRole
INSERT INTO roles (name, description)
VALUES ($1, $2)
RETURNING id, name, description
`

func (r *RoleRepo) Create(ctx context.Context, role models.Role) (models.Role, error) {
	rows, _ := r.db.Query(ctx, createRole, role.Name.String(), role.Description)
	created, err := pgx.CollectOneRow(rows, rowToRole)
	if err != nil {
		return created, fmt.Errorf("db error: %w", err)
	}
	return created, nil
}

const getRoleByName = `-- name: GetRoleByName
SELECT id, name, description
FROM roles
WHERE name = $1
`

func (r *RoleRepo) GetByName(ctx context.Context, name models.RoleName) (models.Role, error) {
	rows, _ := r.db.Query(ctx, getRoleByName, name.String())
	role, err := pgx.CollectOneRow(rows, rowToRole)

	switch {
	case err == nil:
		return role, nil
	case errors.Is(err, pgx.ErrNoRows):
		return role, fmt.Errorf("repo error: %w", apperrors.ErrRoleNotFound)
	default:
		return role, fmt.Errorf("db error: %w", err)
	}
}

const listRoles = `-- name: ListRoles
SELECT id, name, description
FROM roles
ORDER BY name
`

func (r *RoleRepo) List(ctx context.Context) ([]models.Role, error) {
	rows, _ := r.db.Query(ctx, listRoles)
	roles, err := pgx.CollectRows(rows, rowToRole)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return roles, nil
}

func rowToRole(row pgx.CollectableRow) (models.Role, error) {
	var r models.Role
	var name string
	err := row.Scan(&r.ID, &name, &r.Description)
	r.Name = models.RoleName(name)
	return r, err
}
