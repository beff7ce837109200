package middleware

import (
	"net/http"

	"github.com/kyedev/authd/internal/handlers/render"
	"github.com/kyedev/authd/internal/handlers/userctx"
	"github.com/kyedev/authd/internal/models"
)

// RequireAuth rejects anonymous requests with 401
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := userctx.FromContext(r.Context()); !ok {
			render.ServiceError(w, "Authentication required", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAnyRole allows the request if the principal holds at least one of the roles.
// Anonymous requests get 401, authenticated ones without the roles get 403.
func RequireAnyRole(roles ...models.RoleName) func(http.Handler) http.Handler {
	return requireRoles(func(p models.Principal) bool { return p.HasAny(roles...) })
}

// RequireAllRoles allows the request only if the principal holds every role
func RequireAllRoles(roles ...models.RoleName) func(http.Handler) http.Handler {
	return requireRoles(func(p models.Principal) bool { return p.HasAll(roles...) })
}

// RequireExactRoles allows the request only if the principal's role set
// matches the given roles exactly
func RequireExactRoles(roles ...models.RoleName) func(http.Handler) http.Handler {
	return requireRoles(func(p models.Principal) bool { return p.HasExactly(roles...) })
}

func requireRoles(allowed func(models.Principal) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := userctx.FromContext(r.Context())
			if !ok {
				render.ServiceError(w, "Authentication required", http.StatusUnauthorized)
				return
			}
			if !allowed(principal) {
				render.ServiceError(w, "Insufficient permissions", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
