package seed

import (
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyedev/authd/internal/models"
	"github.com/kyedev/authd/internal/repository/postgres"
	"github.com/kyedev/authd/internal/service/auth"
	"github.com/kyedev/authd/internal/testutil"
)

func Test_Seeder(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	t.Run("seeds roles and demo accounts", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			storage := postgres.NewStorage(tx)
			seeder := New(storage, auth.BcryptHasher{}, nil)

			require.NoError(t, seeder.Run(t.Context()))

			roles, err := storage.Role().List(t.Context())
			require.NoError(t, err)
			require.Len(t, roles, 3)

			users, err := storage.User().ListUsers(t.Context())
			require.NoError(t, err)
			require.Len(t, users, 3)

			admin, err := storage.User().GetUserByUsername(t.Context(), "admin")
			require.NoError(t, err)
			assert.Equal(t, []models.RoleName{models.RoleAdmin}, admin.RoleNames())
			assert.NotEqual(t, "admin123", admin.PasswordHash)
			require.NoError(t, auth.BcryptHasher{}.Compare(admin.PasswordHash, "admin123"))
		})
	})

	t.Run("second run is a no-op", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			storage := postgres.NewStorage(tx)
			seeder := New(storage, auth.BcryptHasher{}, nil)

			require.NoError(t, seeder.Run(t.Context()))
			require.NoError(t, seeder.Run(t.Context()))

			users, err := storage.User().ListUsers(t.Context())
			require.NoError(t, err)
			require.Len(t, users, 3, "seeding twice should not duplicate accounts")
		})
	})
}
