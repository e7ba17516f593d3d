package repository

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestGormRepo_Contract runs the store contract against a real Postgres.
// Set TEST_DATABASE_DSN to enable it.
func TestGormRepo_Contract(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}

	db, err := OpenPostgres(dsn)
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	require.NoError(t, db.Exec("TRUNCATE watchlists, bids, auctions RESTART IDENTITY").Error)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	runStoreContract(t, NewGormRepo(db))
}
