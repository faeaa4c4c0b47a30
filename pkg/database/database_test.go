package database

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func TestOpenSQLiteMemoryMigrates(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, err := Open(ctx, Config{Driver: "sqlite", DSN: ":memory:"}, zerolog.Nop())
	require.NoError(t, err)
	defer db.Close()

	var tables []string
	err = db.NewSelect().
		TableExpr("sqlite_master").
		Column("name").
		Where("type = ?", "table").
		Where("name IN (?)", bun.In([]string{"customers", "tickets"})).
		OrderExpr("name").
		Scan(ctx, &tables)
	require.NoError(t, err)
	assert.Equal(t, []string{"customers", "tickets"}, tables)

	// a second run finds nothing pending
	require.NoError(t, Migrate(ctx, db.DB, DriverSQLite, zerolog.Nop()))
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), Config{Driver: "oracle"}, zerolog.Nop())
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestDriverAliases(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DriverSQLite, Config{}.driver())
	assert.Equal(t, DriverSQLite, Config{Driver: "SQLite3"}.driver())
	assert.Equal(t, DriverPostgres, Config{Driver: "postgresql"}.driver())
}
