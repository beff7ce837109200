package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/kyedev/authd/internal/apperrors"
	"github.com/kyedev/authd/internal/handlers/render"
	"github.com/kyedev/authd/internal/handlers/userctx"
	"github.com/kyedev/authd/internal/models"
)

type authenticator interface {
	Authenticate(ctx context.Context, access string) (models.Principal, error)
}

// Authn verifies the Authorization header if it is present.
//
// Requests without the header pass through anonymously and are rejected
// later by the role guards if the route requires authentication. A header
// that is present but does not carry a valid bearer token fails the whole
// request with 401 right away.
func Authn(as authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			access, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				render.ServiceError(w, "Authorization header must use the Bearer scheme", http.StatusUnauthorized)
				return
			}

			principal, err := as.Authenticate(r.Context(), access)
			if err != nil {
				render.ServiceError(w, authErrorMessage(err), http.StatusUnauthorized)
				return
			}

			ctx := userctx.New(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// authErrorMessage maps token verification errors to safe client messages.
// The raw token and the underlying error never reach the response.
func authErrorMessage(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrAccessTokenExpired):
		return "Access token expired"
	case errors.Is(err, apperrors.ErrAccessTokenSignatureInvalid):
		return "Invalid token signature"
	default:
		return "Invalid access token"
	}
}
