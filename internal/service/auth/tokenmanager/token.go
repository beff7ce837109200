package tokenmanager

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kyedev/authd/internal/apperrors"
	"github.com/kyedev/authd/internal/models"
	"github.com/kyedev/authd/internal/repository"
)

const (
	defaultAccessTokenTTL  = 15 * time.Minute
	defaultSigningMethod   = "HS256"
	defaultRefreshTokenTTL = 7 * 24 * time.Hour

	// 16 random bytes give 128 bits of entropy per refresh token
	refreshTokenBytesLen = 16
)

// AccessTokenClaims is the closed claim set embedded in every access token
// Subject carries the username
type AccessTokenClaims struct {
	jwt.RegisteredClaims
	UserID    uuid.UUID `json:"userId"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName,omitempty"`
	LastName  string    `json:"lastName,omitempty"`
	Roles     []string  `json:"roles"`
}

// Token manager config with sensible defaults
type Config struct {
	// Secret key to sign access tokens
	// Required to be set
	SecretKey string

	// JWT MAC (Message Authentication Code) algorithm
	// If not set then default is used
	Alg string

	// Access and refresh token lifetimes
	// If not set then defaults are used
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// RotateRefresh revokes the presented refresh token on every refresh and
	// issues a replacement. Off keeps the original single-token behavior where
	// the same refresh string stays usable until expiry or logout
	RotateRefresh bool
}

type TokenManager struct {
	// Secret key to sign access tokens
	// Loaded once at startup, never mutated afterwards
	key string

	// JWT MAC algorithm
	alg jwt.SigningMethod

	accessTTL  time.Duration
	refreshTTL time.Duration

	rotateRefresh bool

	refreshRepo repository.RefreshTokenRepo
}

func New(cfg Config, refreshRepo repository.RefreshTokenRepo) (*TokenManager, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("secret key must not be empty")
	}

	if cfg.Alg == "" {
		cfg.Alg = defaultSigningMethod
	}

	setDefaultDuration := func(field *time.Duration, def time.Duration) {
		if *field == 0 {
			*field = def
		}
	}
	setDefaultDuration(&cfg.AccessTTL, defaultAccessTokenTTL)
	setDefaultDuration(&cfg.RefreshTTL, defaultRefreshTokenTTL)

	return &TokenManager{
		key:           cfg.SecretKey,
		alg:           jwt.GetSigningMethod(cfg.Alg),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		rotateRefresh: cfg.RotateRefresh,
		refreshRepo:   refreshRepo,
	}, nil
}

func (m *TokenManager) AccessTTL() time.Duration {
	return m.accessTTL
}

func (m *TokenManager) RotateOnRefresh() bool {
	return m.rotateRefresh
}

// GenerateAccess signs a new access token for the user
// Pure of storage: nothing is persisted
func (m *TokenManager) GenerateAccess(user models.User) (models.IssuedToken, error) {
	now := time.Now().Truncate(time.Second)
	expiresAt := now.Add(m.accessTTL)

	roles := make([]string, 0, len(user.Roles))
	for _, r := range user.Roles {
		roles = append(roles, r.Name.String())
	}

	token := jwt.NewWithClaims(
		m.alg,
		AccessTokenClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        uuid.NewString(),
				Subject:   user.Username,
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(expiresAt),
			},
			UserID:    user.ID,
			Email:     user.Email,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Roles:     roles,
		},
	)
	access, err := token.SignedString([]byte(m.key))
	if err != nil {
		return models.IssuedToken{}, fmt.Errorf("error while signing access token. Err: %w", err)
	}

	return models.IssuedToken{Value: access, ExpiresAt: expiresAt}, nil
}

// GeneratePair signs an access token and creates a refresh token record
// The refresh record is persisted before the pair is returned
func (m *TokenManager) GeneratePair(ctx context.Context, user models.User) (models.TokenPair, error) {
	var pair models.TokenPair

	access, err := m.GenerateAccess(user)
	if err != nil {
		return pair, err
	}

	b := make([]byte, refreshTokenBytesLen)
	_, err = rand.Read(b)
	if err != nil {
		return pair, fmt.Errorf("error while generating refresh token. Err: %w", err)
	}
	refresh := hex.EncodeToString(b)

	now := time.Now().Truncate(time.Second)
	saved, err := m.refreshRepo.Save(ctx, models.RefreshToken{
		ID:        uuid.New(),
		Token:     refresh,
		UserID:    user.ID,
		ExpiresAt: now.Add(m.refreshTTL),
		Revoked:   false,
		CreatedAt: now,
	})
	if err != nil {
		return pair, fmt.Errorf("error while saving refresh token. Err: %w", err)
	}

	return models.TokenPair{
		Access:  access,
		Refresh: models.IssuedToken{Value: saved.Token, ExpiresAt: saved.ExpiresAt},
	}, nil
}

// VerifyRefresh loads the record and checks it is still exchangeable
// Expired and revoked records produce distinct errors for diagnostics even
// though the boundary maps both to the same status
func (m *TokenManager) VerifyRefresh(ctx context.Context, refresh string) (models.RefreshToken, error) {
	token, err := m.refreshRepo.Get(ctx, refresh)
	if err != nil {
		return token, err
	}

	if !token.ExpiresAt.After(time.Now()) {
		return token, fmt.Errorf("refresh verification: %w", apperrors.ErrRefreshTokenExpired)
	}
	if token.Revoked {
		return token, fmt.Errorf("refresh verification: %w", apperrors.ErrRefreshTokenRevoked)
	}

	return token, nil
}

// RevokeRefresh marks the record revoked
// Unknown tokens are fine: revoking an already invalid token is not an error
func (m *TokenManager) RevokeRefresh(ctx context.Context, refresh string) error {
	err := m.refreshRepo.Revoke(ctx, refresh)
	if err != nil && !errors.Is(err, apperrors.ErrRefreshTokenNotFound) {
		return err
	}
	return nil
}

// PurgeExpired deletes records past expiry, returns how many were removed
func (m *TokenManager) PurgeExpired(ctx context.Context) (int64, error) {
	return m.refreshRepo.DeleteExpired(ctx, time.Now())
}

// ParseAccess verifies signature and expiry, then builds the principal
func (m *TokenManager) ParseAccess(access string) (models.Principal, error) {
	claims := &AccessTokenClaims{}

	_, err := jwt.ParseWithClaims(
		access,
		claims,
		func(t *jwt.Token) (any, error) { return []byte(m.key), nil },
		jwt.WithValidMethods([]string{m.alg.Alg()}),
		jwt.WithExpirationRequired(),
	)

	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenMalformed):
		return models.Principal{}, fmt.Errorf("access parsing: %w", apperrors.ErrAccessTokenMalformed)
	case errors.Is(err, jwt.ErrTokenExpired):
		return models.Principal{}, fmt.Errorf("access parsing: %w", apperrors.ErrAccessTokenExpired)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return models.Principal{}, fmt.Errorf("access parsing: %w", apperrors.ErrAccessTokenSignatureInvalid)
	default:
		return models.Principal{}, fmt.Errorf("access parsing: %w. Details: %w", apperrors.ErrAccessTokenMalformed, err)
	}

	roles := make([]models.RoleName, 0, len(claims.Roles))
	for _, r := range claims.Roles {
		roles = append(roles, models.RoleName(r))
	}

	return models.Principal{
		UserID:   claims.UserID,
		Username: claims.Subject,
		Email:    claims.Email,
		Roles:    roles,
	}, nil
}
