package sqlitemigrate

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func TestApplyMigrationsRunsEachFileOnce(t *testing.T) {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "migrate.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	migrations := fstest.MapFS{
		"0002_seed.sql": {Data: []byte("-- +migrate Up\nINSERT INTO items (name) VALUES ('a');\n-- +migrate Down\nDELETE FROM items;\n")},
		"0001_init.sql": {Data: []byte("CREATE TABLE items (name TEXT NOT NULL);")},
		"README.md":     {Data: []byte("ignored")},
	}

	ctx := context.Background()
	require.NoError(t, ApplyMigrations(ctx, db, migrations, "."))
	require.NoError(t, ApplyMigrations(ctx, db, migrations, ""))

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM items").Scan(&count))
	require.Equal(t, 1, count)

	var applied int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&applied))
	require.Equal(t, 2, applied)
}

func TestExtractUpMigration(t *testing.T) {
	require.Equal(t, "SELECT 1;", ExtractUpMigration("SELECT 1;"))
	require.Equal(t, "\nSELECT 1;\n", ExtractUpMigration("-- +migrate Up\nSELECT 1;\n-- +migrate Down\nSELECT 2;"))
}

func TestApplyMigrationsRequiresDB(t *testing.T) {
	require.Error(t, ApplyMigrations(context.Background(), nil, fstest.MapFS{}, "."))
}
