package e2e

import (
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stretchr/testify/require"

	"github.com/kyedev/authd/internal/handlers"
	"github.com/kyedev/authd/internal/logger"
	"github.com/kyedev/authd/internal/repository"
	"github.com/kyedev/authd/internal/repository/postgres"
	"github.com/kyedev/authd/internal/seed"
	"github.com/kyedev/authd/internal/service/auth"
	"github.com/kyedev/authd/internal/service/auth/tokenmanager"
	"github.com/kyedev/authd/internal/testutil"
)

type Services struct {
	AuthService *auth.AuthService
	Storage     repository.Storage
}

// Create db transaction and run server with that connection (one connection cause one transaction).
// Built-in roles are seeded before the server starts.
// The created transaction passed to inner function: so, you can safely modify data with it
func ServeWithTx(dbpool *pgxpool.Pool, t *testing.T, fn func(tx pgx.Tx, srvURL string, services Services)) {
	testutil.WithTx(dbpool, t, func(tx pgx.Tx) {
		// Initialize repositories
		storage := postgres.NewStorage(tx)

		// Registration expects the built-in roles to exist
		seeder := seed.New(storage, auth.BcryptHasher{}, nil)
		require.NoError(t, seeder.SeedRoles(t.Context()), "roles should be seeded")

		// Initialize services
		tokenManager, err := tokenmanager.New(tokenmanager.Config{SecretKey: "test-secret"}, storage.Refresh())
		require.NoError(t, err, "token manager should be created without errors")

		as, err := auth.NewService(auth.Config{}, tokenManager, storage)
		require.NoError(t, err, "auth service starting error", err)

		// Run http server with the full router in transaction
		router := handlers.NewRouter(as, storage.User(), logger.NewNoOpLogger())
		srv := httptest.NewServer(router)
		defer srv.Close()

		fn(tx, srv.URL, Services{
			AuthService: as,
			Storage:     storage,
		})
	})
}
