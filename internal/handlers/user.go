package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/kyedev/authd/internal/handlers/render"
	"github.com/kyedev/authd/internal/handlers/userctx"
)

func handleUserProfile() http.Handler {
	type response struct {
		ID       uuid.UUID `json:"id"`
		Username string    `json:"username"`
		Email    string    `json:"email"`
		Roles    []string  `json:"roles"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		roles := make([]string, 0, len(principal.Roles))
		for _, name := range principal.Roles {
			roles = append(roles, string(name))
		}

		render.JSON(w, response{
			ID:       principal.UserID,
			Username: principal.Username,
			Email:    principal.Email,
			Roles:    roles,
		})
	})
}

func handleUserDashboard() http.Handler {
	type response struct {
		Message  string `json:"message"`
		Username string `json:"username"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, _ := userctx.FromContext(r.Context())
		render.JSON(w, response{
			Message:  "Welcome to the user dashboard",
			Username: principal.Username,
		})
	})
}

func handleUserData() http.Handler {
	type response struct {
		Message  string `json:"message"`
		Username string `json:"username"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, _ := userctx.FromContext(r.Context())
		render.JSON(w, response{
			Message:  "User data available to users and admins",
			Username: principal.Username,
		})
	})
}
