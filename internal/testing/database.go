package testing

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/teranos/ontograph/db"
)

// CreateTestDB creates a migrated SQLite database in a temporary directory.
// Automatically registers cleanup via t.Cleanup().
func CreateTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.OpenWithMigrations(filepath.Join(t.TempDir(), "ontograph.db"), nil)
	if err != nil {
		t.Fatalf("Failed to create test database: %+v", err)
	}
	t.Cleanup(func() {
		conn.Close()
	})
	return conn
}
