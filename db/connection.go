package db

import (
	"database/sql"
	"strconv"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/teranos/ontograph/errors"
	"github.com/teranos/ontograph/logger"
)

// SQLiteBusyTimeoutMS is how long a connection waits on a locked database.
const SQLiteBusyTimeoutMS = 5000

var pragmas = []struct {
	statement string
	what      string
}{
	// WAL lets readers run while a writer commits
	{"PRAGMA journal_mode = WAL", "enable WAL mode"},
	{"PRAGMA foreign_keys = ON", "enable foreign keys"},
	{"PRAGMA busy_timeout = " + strconv.Itoa(SQLiteBusyTimeoutMS), "set busy timeout"},
}

// Open opens a SQLite database at the specified path with optimized settings.
// If log is provided, logs database operations; otherwise operates silently.
//
// The pragmas are part of the DSN as well so every pooled connection gets
// them, not only the one the PRAGMA statements ran on.
func Open(path string, log *zap.SugaredLogger) (*sql.DB, error) {
	if log != nil {
		log.Debugw("Opening database", logger.FieldPath, path)
	}
	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}

	for _, p := range pragmas {
		if _, err := db.Exec(p.statement); err != nil {
			db.Close()
			return nil, errors.Wrapf(err, "%s for %s", p.what, path)
		}
	}

	if log != nil {
		log.Infow("Database opened",
			logger.FieldPath, path,
			"wal_mode", true,
			"foreign_keys", true,
		)
	}
	return db, nil
}

// OpenWithMigrations opens the database and applies pending migrations.
func OpenWithMigrations(path string, log *zap.SugaredLogger) (*sql.DB, error) {
	db, err := Open(path, log)
	if err != nil {
		return nil, errors.Wrap(err, "open database for migration")
	}
	if err := Migrate(db, log); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "migrate %s", path)
	}
	return db, nil
}

func dsn(path string) string {
	params := "_foreign_keys=on&_busy_timeout=" + strconv.Itoa(SQLiteBusyTimeoutMS)
	if path == ":memory:" {
		// every pooled connection must see the same in-memory database
		return "file::memory:?cache=shared&" + params
	}
	return "file:" + path + "?" + params + "&_journal_mode=WAL"
}
