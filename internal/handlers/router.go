package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/kyedev/authd/internal/handlers/middleware"
	"github.com/kyedev/authd/internal/logger"
	"github.com/kyedev/authd/internal/models"
	"github.com/kyedev/authd/internal/service/auth"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

func NewRouter(
	authService authService,
	userService userService,
	logger logger.Logger,
) http.Handler {
	authn := middleware.Authn(authService)

	apiauth := http.NewServeMux()
	apiauth.Handle("POST /register", handleRegister(authService, logger))
	apiauth.Handle("POST /login", handleLogin(authService, logger))
	apiauth.Handle("POST /refresh-token", handleRefresh(authService, logger))
	apiauth.Handle("POST /logout", handleLogout(authService, logger))

	apiuser := http.NewServeMux()
	apiuser.Handle("GET /profile", middleware.RequireAuth(handleUserProfile()))
	apiuser.Handle("GET /dashboard", chain(handleUserDashboard(),
		middleware.RequireAnyRole(models.RoleUser),
	))
	apiuser.Handle("GET /data", chain(handleUserData(),
		middleware.RequireAnyRole(models.RoleUser, models.RoleAdmin),
	))

	apiadmin := http.NewServeMux()
	apiadmin.Handle("GET /dashboard", handleAdminDashboard())
	apiadmin.Handle("GET /users", handleListUsers(userService, logger))
	apiadmin.Handle("GET /users/{id}", handleGetUser(userService, logger))

	apimoderator := http.NewServeMux()
	apimoderator.Handle("GET /dashboard", handleModeratorDashboard())

	apipublic := http.NewServeMux()
	apipublic.Handle("GET /health", handleHealth())
	apipublic.Handle("GET /info", handleInfo())

	adminOnly := middleware.RequireAnyRole(models.RoleAdmin)
	moderatorOrAdmin := middleware.RequireAnyRole(models.RoleModerator, models.RoleAdmin)

	apiv1 := http.NewServeMux()
	apiv1.Handle("/auth/", http.StripPrefix("/auth", apiauth))
	apiv1.Handle("/user/", http.StripPrefix("/user", apiuser))
	apiv1.Handle("/admin/", http.StripPrefix("/admin", adminOnly(apiadmin)))
	apiv1.Handle("/moderator/", http.StripPrefix("/moderator", moderatorOrAdmin(apimoderator)))
	apiv1.Handle("/public/", http.StripPrefix("/public", apipublic))

	root := http.NewServeMux()
	root.Handle("/api/v1/", http.StripPrefix("/api/v1", apiv1))

	handler := chain(root,
		middleware.LoggerMiddleware(logger),
		authn,
	)

	return handler
}

type authService interface {
	// Register a new user and issue a token pair
	// Has to return apperrors.ErrUsernameTaken or apperrors.ErrEmailTaken on duplicates
	Register(ctx context.Context, params auth.RegisterParams) (auth.AuthResult, error)

	// Login user with username and password
	// Has to return apperrors.ErrBadCredentials for unknown user or wrong password
	Login(ctx context.Context, username string, password string) (auth.AuthResult, error)

	// Refresh issues a new access token for a valid refresh token
	// If token expired: has to return apperrors.ErrRefreshTokenExpired
	// If token revoked: has to return apperrors.ErrRefreshTokenRevoked
	// If token not found: has to return apperrors.ErrRefreshTokenNotFound
	Refresh(ctx context.Context, refresh string) (auth.AuthResult, error)

	// Logout revokes the refresh token. Unknown tokens are not an error
	Logout(ctx context.Context, refresh string) error

	// Authenticate verifies an access token and returns the principal
	Authenticate(ctx context.Context, access string) (models.Principal, error)

	// Access token lifetime in seconds, reported to clients as expiresIn
	AccessTTL() int64
}

type userService interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (models.User, error)
}
