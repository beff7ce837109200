package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/kyedev/authd/internal/apperrors"
	"github.com/kyedev/authd/internal/handlers/render"
	"github.com/kyedev/authd/internal/handlers/userctx"
	"github.com/kyedev/authd/internal/logger"
	"github.com/kyedev/authd/internal/models"
)

// userInfo is the admin view of an account
type userInfo struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName,omitempty"`
	LastName  string    `json:"lastName,omitempty"`
	Enabled   bool      `json:"enabled"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"createdAt"`
}

func newUserInfo(user models.User) userInfo {
	roles := make([]string, 0, len(user.Roles))
	for _, name := range user.RoleNames() {
		roles = append(roles, string(name))
	}

	return userInfo{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Enabled:   user.Enabled,
		Roles:     roles,
		CreatedAt: user.CreatedAt,
	}
}

func handleAdminDashboard() http.Handler {
	type response struct {
		Message  string `json:"message"`
		Username string `json:"username"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, _ := userctx.FromContext(r.Context())
		render.JSON(w, response{
			Message:  "Welcome to the admin dashboard",
			Username: principal.Username,
		})
	})
}

func handleModeratorDashboard() http.Handler {
	type response struct {
		Message  string `json:"message"`
		Username string `json:"username"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, _ := userctx.FromContext(r.Context())
		render.JSON(w, response{
			Message:  "Welcome to the moderator dashboard",
			Username: principal.Username,
		})
	})
}

func handleListUsers(userService userService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		users, err := userService.ListUsers(r.Context())
		if err != nil {
			l.Error("Failed to list users", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		infos := make([]userInfo, 0, len(users))
		for _, user := range users {
			infos = append(infos, newUserInfo(user))
		}

		render.JSON(w, infos)
	})
}

func handleGetUser(userService userService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			render.ServiceError(w, "Invalid user id", http.StatusBadRequest)
			return
		}

		user, err := userService.GetUserByID(r.Context(), id)

		switch {
		case err == nil:
			render.JSON(w, newUserInfo(user))
		case errors.Is(err, apperrors.ErrUserNotFound):
			render.ServiceError(w, "User not found", http.StatusNotFound)
		default:
			l.Error("Failed to get user", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}
