package apperrors

import (
	"errors"
)

var (
	ErrUsernameTaken = errors.New("username is already in use")
	ErrEmailTaken    = errors.New("email is already in use")
	ErrUserNotFound  = errors.New("user not found")

	ErrBadCredentials     = errors.New("invalid username or password")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrAccountLocked      = errors.New("account is locked")
	ErrAccountExpired     = errors.New("account is expired")
	ErrCredentialsExpired = errors.New("credentials are expired")

	ErrRoleNotFound = errors.New("role not found")

	ErrRefreshTokenNotFound = errors.New("refresh token not recognized")
	ErrRefreshTokenExpired  = errors.New("refresh token is expired")
	ErrRefreshTokenRevoked  = errors.New("refresh token is revoked")

	ErrAccessTokenMalformed        = errors.New("access token is malformed")
	ErrAccessTokenSignatureInvalid = errors.New("access token signature is invalid")
	ErrAccessTokenExpired          = errors.New("access token is expired")
)
