package handlers

import (
	"errors"
	"net/http"

	"github.com/kyedev/authd/internal/apperrors"
	"github.com/kyedev/authd/internal/handlers/render"
	"github.com/kyedev/authd/internal/logger"
	"github.com/kyedev/authd/internal/service/auth"
)

// tokenResponse is the envelope returned by register, login and refresh
type tokenResponse struct {
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
	ExpiresIn    int64    `json:"expiresIn"`
	Username     string   `json:"username"`
	Email        string   `json:"email"`
	Roles        []string `json:"roles"`
}

func newTokenResponse(result auth.AuthResult, expiresIn int64) tokenResponse {
	roles := make([]string, 0, len(result.User.Roles))
	for _, name := range result.User.RoleNames() {
		roles = append(roles, string(name))
	}

	return tokenResponse{
		AccessToken:  result.Pair.Access.Value,
		RefreshToken: result.Pair.Refresh.Value,
		ExpiresIn:    expiresIn,
		Username:     result.User.Username,
		Email:        result.User.Email,
		Roles:        roles,
	}
}

func handleRegister(authService authService, l logger.Logger) http.Handler {
	type request struct {
		Username  string `json:"username" validate:"required,min=3,max=20"`
		Email     string `json:"email" validate:"required,email,max=50"`
		Password  string `json:"password" validate:"required,min=6,max=40"`
		FirstName string `json:"firstName" validate:"max=50"`
		LastName  string `json:"lastName" validate:"max=50"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		result, err := authService.Register(r.Context(), auth.RegisterParams{
			Username:  data.Username,
			Email:     data.Email,
			Password:  data.Password,
			FirstName: data.FirstName,
			LastName:  data.LastName,
		})

		switch {
		case err == nil:
			render.JSONWithStatus(w, newTokenResponse(result, authService.AccessTTL()), http.StatusCreated)
		case errors.Is(err, apperrors.ErrUsernameTaken):
			render.ServiceError(w, "Username is already taken", http.StatusBadRequest)
		case errors.Is(err, apperrors.ErrEmailTaken):
			render.ServiceError(w, "Email is already in use", http.StatusBadRequest)
		case errors.Is(err, apperrors.ErrRoleNotFound):
			render.ServiceError(w, "Role is not found", http.StatusNotFound)
		default:
			l.Error("Failed to register user", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleLogin(authService authService, l logger.Logger) http.Handler {
	type request struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		result, err := authService.Login(r.Context(), data.Username, data.Password)

		switch {
		case err == nil:
			render.JSON(w, newTokenResponse(result, authService.AccessTTL()))
		case errors.Is(err, apperrors.ErrBadCredentials):
			render.ServiceError(w, "Invalid username or password", http.StatusUnauthorized)
		case errors.Is(err, apperrors.ErrAccountDisabled):
			render.ServiceError(w, "Account is disabled", http.StatusUnauthorized)
		case errors.Is(err, apperrors.ErrAccountLocked):
			render.ServiceError(w, "Account is locked", http.StatusUnauthorized)
		case errors.Is(err, apperrors.ErrAccountExpired):
			render.ServiceError(w, "Account has expired", http.StatusUnauthorized)
		case errors.Is(err, apperrors.ErrCredentialsExpired):
			render.ServiceError(w, "Credentials have expired", http.StatusUnauthorized)
		default:
			l.Error("Failed to login user", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleRefresh(authService authService, l logger.Logger) http.Handler {
	type request struct {
		RefreshToken string `json:"refreshToken" validate:"required"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		result, err := authService.Refresh(r.Context(), data.RefreshToken)

		switch {
		case err == nil:
			render.JSON(w, newTokenResponse(result, authService.AccessTTL()))
		case errors.Is(err, apperrors.ErrRefreshTokenExpired):
			render.ServiceError(w, "Refresh token expired", http.StatusForbidden)
		case errors.Is(err, apperrors.ErrRefreshTokenRevoked):
			render.ServiceError(w, "Refresh token revoked", http.StatusForbidden)
		case errors.Is(err, apperrors.ErrRefreshTokenNotFound):
			render.ServiceError(w, "Refresh token not recognized", http.StatusForbidden)
		default:
			l.Error("Failed to refresh tokens", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleLogout(authService authService, l logger.Logger) http.Handler {
	type request struct {
		RefreshToken string `json:"refreshToken" validate:"required"`
	}
	type response struct {
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		if err := authService.Logout(r.Context(), data.RefreshToken); err != nil {
			l.Error("Failed to logout", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, response{Message: "Logged out successfully"})
	})
}
