// Package dbtest provides migrated in-memory databases for tests.
package dbtest

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"storefront-orders/db"
)

// NewPrimary returns an in-memory database with the primary schema applied
func NewPrimary(t testing.TB) *sql.DB {
	return open(t, db.PrimaryMigrations)
}

// NewSecondary returns an in-memory database with the unified order schema applied
func NewSecondary(t testing.TB) *sql.DB {
	return open(t, db.SecondaryMigrations)
}

func open(t testing.TB, set string) *sql.DB {
	t.Helper()

	ctx := context.Background()
	conn, err := db.OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, db.Migrate(ctx, conn, set, zaptest.NewLogger(t).Sugar()))
	return conn
}
