package seed

import (
	"context"
	"fmt"

	"github.com/kyedev/authd/internal/logger"
	"github.com/kyedev/authd/internal/models"
	"github.com/kyedev/authd/internal/repository"
)

type hasher interface {
	Hash(password string) (string, error)
}

// Seeder creates the built-in roles and demo accounts on first start
// Runs are idempotent: nothing is touched when records already exist
type Seeder struct {
	storage repository.Storage
	hasher  hasher
	logger  logger.Logger
}

func New(storage repository.Storage, hasher hasher, l logger.Logger) *Seeder {
	if l == nil {
		l = logger.NewNoOpLogger()
	}
	return &Seeder{storage: storage, hasher: hasher, logger: l}
}

// Run seeds the built-in roles and the demo accounts
func (s *Seeder) Run(ctx context.Context) error {
	if err := s.SeedRoles(ctx); err != nil {
		return err
	}
	if err := s.seedUsers(ctx); err != nil {
		return fmt.Errorf("error while seeding users. Err: %w", err)
	}
	return nil
}

// SeedRoles creates the built-in roles only. Registration depends on
// ROLE_USER existing, so this runs on every start
func (s *Seeder) SeedRoles(ctx context.Context) error {
	existing, err := s.storage.Role().List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	roles := []models.Role{
		{Name: models.RoleUser, Description: "Default user role"},
		{Name: models.RoleModerator, Description: "Moderator role"},
		{Name: models.RoleAdmin, Description: "Administrator role"},
	}
	for _, role := range roles {
		if _, err := s.storage.Role().Create(ctx, role); err != nil {
			return err
		}
	}

	s.logger.Info("Roles seeded", "count", len(roles))
	return nil
}

type seedAccount struct {
	username  string
	email     string
	password  string
	firstName string
	lastName  string
	role      models.RoleName
}

func (s *Seeder) seedUsers(ctx context.Context) error {
	existing, err := s.storage.User().ListUsers(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	accounts := []seedAccount{
		{username: "admin", email: "admin@example.com", password: "admin123", firstName: "Admin", lastName: "User", role: models.RoleAdmin},
		{username: "moderator", email: "moderator@example.com", password: "moderator123", firstName: "Moderator", lastName: "User", role: models.RoleModerator},
		{username: "user", email: "user@example.com", password: "user123", firstName: "Regular", lastName: "User", role: models.RoleUser},
	}

	for _, account := range accounts {
		role, err := s.storage.Role().GetByName(ctx, account.role)
		if err != nil {
			return err
		}

		hash, err := s.hasher.Hash(account.password)
		if err != nil {
			return err
		}

		_, err = s.storage.User().CreateUser(ctx, repository.CreateUserParams{
			Username:     account.username,
			Email:        account.email,
			PasswordHash: hash,
			FirstName:    account.firstName,
			LastName:     account.lastName,
			Roles:        []models.Role{role},
		})
		if err != nil {
			return err
		}

		s.logger.Info("Seeded account", "username", account.username, "role", account.role.String())
	}

	return nil
}
