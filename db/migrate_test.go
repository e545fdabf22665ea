package db

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenWithMigrations(t *testing.T) {
	db, err := OpenWithMigrations(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	defer db.Close()

	for _, table := range []string{"schema_migrations", "accounts", "records", "record_edges"} {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count, "table %s", table)
	}

	files, err := Migrations()
	require.NoError(t, err)
	versions, err := AppliedVersions(db)
	require.NoError(t, err)
	assert.Len(t, versions, len(files))
	assert.Equal(t, "000", versions[0])
}

func TestMigrate(t *testing.T) {
	t.Run("is idempotent", func(t *testing.T) {
		db, err := Open(filepath.Join(t.TempDir(), "test.db"), nil)
		require.NoError(t, err)
		defer db.Close()

		require.NoError(t, Migrate(db, nil))
		require.NoError(t, Migrate(db, nil), "running migrations multiple times should be safe")

		versions, err := AppliedVersions(db)
		require.NoError(t, err)
		files, err := Migrations()
		require.NoError(t, err)
		assert.Len(t, versions, len(files))
	})

	t.Run("records foreign key to accounts", func(t *testing.T) {
		db, err := OpenWithMigrations(filepath.Join(t.TempDir(), "test.db"), nil)
		require.NoError(t, err)
		defer db.Close()

		_, err = db.Exec(`INSERT INTO records (base_id, version, kind, owned_by_id, created_by_id, body, created_at)
			VALUES ('https://example.com/x/', 1, 'dataType', 'nobody', 'nobody', '{}', '2024-01-01T00:00:00Z')`)
		require.Error(t, err)
		assert.True(t, IsForeignKeyViolation(err), "got %v", err)
	})

	t.Run("duplicate revision is a constraint violation", func(t *testing.T) {
		db, err := OpenWithMigrations(filepath.Join(t.TempDir(), "test.db"), nil)
		require.NoError(t, err)
		defer db.Close()

		_, err = db.Exec(`INSERT INTO accounts (account_id) VALUES ('owner')`)
		require.NoError(t, err)
		insert := `INSERT INTO records (base_id, version, kind, owned_by_id, created_by_id, body, created_at)
			VALUES ('https://example.com/x/', 1, 'dataType', 'owner', 'owner', '{}', '2024-01-01T00:00:00Z')`
		_, err = db.Exec(insert)
		require.NoError(t, err)
		_, err = db.Exec(insert)
		require.Error(t, err)
		assert.True(t, IsConstraintViolation(err), "got %v", err)
	})

	t.Run("closed database fails with context", func(t *testing.T) {
		db, err := Open(filepath.Join(t.TempDir(), "test.db"), nil)
		require.NoError(t, err)
		db.Close()

		err = Migrate(db, nil)
		require.Error(t, err)
		assert.Contains(t, fmt.Sprintf("%+v", err), "migrate.go")
	})
}
