package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/kyedev/authd/internal/apperrors"
	"github.com/kyedev/authd/internal/models"
	"github.com/kyedev/authd/internal/repository"
	"github.com/kyedev/authd/internal/service/auth/tokenmanager"
)

type Config struct {
	// Hasher to use during registration and login
	// BcryptHasher is used when not set
	Hasher PasswordHasher
}

type RegisterParams struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// AuthResult carries the issued pair together with the user the response
// envelope is shaped from
type AuthResult struct {
	User models.User
	Pair models.TokenPair
}

type AuthService struct {
	token   *tokenmanager.TokenManager
	hasher  PasswordHasher
	storage repository.Storage

	// Hash compared against when the username is unknown, so login latency
	// does not reveal whether the account exists
	dummyHash string
}

func NewService(cfg Config, token *tokenmanager.TokenManager, storage repository.Storage) (*AuthService, error) {
	hasher := cfg.Hasher
	if hasher == nil {
		hasher = BcryptHasher{}
	}

	if token == nil || storage == nil {
		return nil, errors.New("token manager and storage must not be nil")
	}

	dummyHash, err := hasher.Hash("authd-dummy-credential")
	if err != nil {
		return nil, fmt.Errorf("error while preparing hasher. Err: %w", err)
	}

	return &AuthService{
		token:     token,
		hasher:    hasher,
		storage:   storage,
		dummyHash: dummyHash,
	}, nil
}

func (s *AuthService) AccessTTL() int64 {
	return int64(s.token.AccessTTL().Seconds())
}

// Register creates the user with the default role and issues the first pair
func (s *AuthService) Register(ctx context.Context, params RegisterParams) (AuthResult, error) {
	var result AuthResult

	// Both uniqueness checks run independently, the first violated is reported
	// The unique constraints in CreateUser back them up under concurrency
	taken, err := s.storage.User().UsernameExists(ctx, params.Username)
	if err != nil {
		return result, err
	}
	if taken {
		return result, fmt.Errorf("register: %w", apperrors.ErrUsernameTaken)
	}

	taken, err = s.storage.User().EmailExists(ctx, params.Email)
	if err != nil {
		return result, err
	}
	if taken {
		return result, fmt.Errorf("register: %w", apperrors.ErrEmailTaken)
	}

	// Missing default role is a seed error, nothing a client can fix
	defaultRole, err := s.storage.Role().GetByName(ctx, models.RoleUser)
	if err != nil {
		return result, err
	}

	hash, err := s.hasher.Hash(params.Password)
	if err != nil {
		return result, fmt.Errorf("can't use this as password. Err: %w", err)
	}

	user, err := s.storage.User().CreateUser(ctx, repository.CreateUserParams{
		Username:     params.Username,
		Email:        params.Email,
		PasswordHash: hash,
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		Roles:        []models.Role{defaultRole},
	})
	if err != nil {
		return result, err
	}

	pair, err := s.token.GeneratePair(ctx, user)
	if err != nil {
		return result, err
	}

	return AuthResult{User: user, Pair: pair}, nil
}

// Login verifies credentials and account state, then issues a fresh pair
// The bad-credentials error never tells whether the username existed
func (s *AuthService) Login(ctx context.Context, username string, password string) (AuthResult, error) {
	var result AuthResult

	user, err := s.storage.User().GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			// Burn the same compare work as the found path
			_ = s.hasher.Compare(s.dummyHash, password)
			return result, fmt.Errorf("login: %w", apperrors.ErrBadCredentials)
		}
		return result, err
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return result, fmt.Errorf("login: %w", apperrors.ErrBadCredentials)
	}

	if err := checkAccountState(user); err != nil {
		return result, err
	}

	pair, err := s.token.GeneratePair(ctx, user)
	if err != nil {
		return result, err
	}

	return AuthResult{User: user, Pair: pair}, nil
}

// Refresh exchanges a valid refresh token for a new access token
// Roles are re-read from storage, so a role change takes effect here even
// though outstanding access tokens keep their embedded set until expiry
func (s *AuthService) Refresh(ctx context.Context, refresh string) (AuthResult, error) {
	var result AuthResult

	record, err := s.token.VerifyRefresh(ctx, refresh)
	if err != nil {
		return result, err
	}

	user, err := s.storage.User().GetUserByID(ctx, record.UserID)
	if err != nil {
		return result, err
	}

	if s.token.RotateOnRefresh() {
		if err := s.token.RevokeRefresh(ctx, refresh); err != nil {
			return result, err
		}
		pair, err := s.token.GeneratePair(ctx, user)
		if err != nil {
			return result, err
		}
		return AuthResult{User: user, Pair: pair}, nil
	}

	// Default mode: the refresh record is neither rotated nor consumed,
	// the caller keeps using the same string until expiry or logout
	access, err := s.token.GenerateAccess(user)
	if err != nil {
		return result, err
	}

	return AuthResult{
		User: user,
		Pair: models.TokenPair{
			Access:  access,
			Refresh: models.IssuedToken{Value: record.Token, ExpiresAt: record.ExpiresAt},
		},
	}, nil
}

// Logout revokes the refresh token
// Idempotent: unknown or already revoked tokens succeed silently
func (s *AuthService) Logout(ctx context.Context, refresh string) error {
	return s.token.RevokeRefresh(ctx, refresh)
}

// Authenticate validates a bearer access token into a principal
func (s *AuthService) Authenticate(ctx context.Context, access string) (models.Principal, error) {
	return s.token.ParseAccess(access)
}

func checkAccountState(user models.User) error {
	switch {
	case !user.Enabled:
		return fmt.Errorf("login: %w", apperrors.ErrAccountDisabled)
	case !user.AccountNonLocked:
		return fmt.Errorf("login: %w", apperrors.ErrAccountLocked)
	case !user.AccountNonExpired:
		return fmt.Errorf("login: %w", apperrors.ErrAccountExpired)
	case !user.CredentialsNonExpired:
		return fmt.Errorf("login: %w", apperrors.ErrCredentialsExpired)
	}
	return nil
}
