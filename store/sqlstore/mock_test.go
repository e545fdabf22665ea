package sqlstore

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/teranos/ontograph/errors"
	"github.com/teranos/ontograph/query"
	"github.com/teranos/ontograph/types"
)

// newMockStore returns a store over a sqlmock connection.
func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	conn, err := db.Conn(t.Context())
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return &Store{conn: conn, release: func() {}, logger: zaptest.NewLogger(t).Sugar()}, mock
}

func expectRevision(mock sqlmock.Sqlmock, latest int64, archived bool) {
	mock.ExpectQuery("SELECT").
		WillReturnRows(sqlmock.NewRows([]string{"latest", "kind", "archived"}).
			AddRow(latest, "dataType", archived))
}

func TestInsertAccountDriverErrors(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO accounts").
		WillReturnError(sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintPrimaryKey})
	err := s.InsertAccountID(t.Context(), uuid.New())
	assert.True(t, errors.Is(err, errors.ErrIdentityConflict))

	mock.ExpectExec("INSERT INTO accounts").
		WillReturnError(sqlite3.Error{Code: sqlite3.ErrIoErr})
	err = s.InsertAccountID(t.Context(), uuid.New())
	assert.True(t, errors.Is(err, errors.ErrInternalStore))
	assert.False(t, errors.Is(err, errors.ErrIdentityConflict))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindRootsDriverError(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT r.base_id, r.version FROM records r").
		WithArgs("dataType").
		WillReturnError(sqlite3.Error{Code: sqlite3.ErrCorrupt})

	_, err := s.FindRoots(t.Context(), types.KindDataType, query.Erase(query.All[query.DataTypePath]()))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInternalStore))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestArchiveBusyIsRace(t *testing.T) {
	s, mock := newMockStore(t)
	id := types.NewVersionedID("https://example.com/data-type/text/", 1)

	mock.ExpectBegin()
	expectRevision(mock, 1, false)
	mock.ExpectExec("UPDATE records SET archived").
		WillReturnError(sqlite3.Error{Code: sqlite3.ErrBusy})
	mock.ExpectRollback()

	_, err := s.Archive(t.Context(), types.KindDataType, id, uuid.New())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrRaceCondition))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestArchiveLostUpdateIsRace(t *testing.T) {
	s, mock := newMockStore(t)
	id := types.NewVersionedID("https://example.com/data-type/text/", 1)

	mock.ExpectBegin()
	expectRevision(mock, 1, false)
	mock.ExpectExec("UPDATE records SET archived").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := s.Archive(t.Context(), types.KindDataType, id, uuid.New())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrRaceCondition))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBeginFailureIsInternal(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin().WillReturnError(sqlite3.Error{Code: sqlite3.ErrIoErr})

	_, err := s.Unarchive(t.Context(), types.KindDataType, types.NewVersionedID("https://example.com/data-type/text/", 1), uuid.New())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInternalStore))
	require.NoError(t, mock.ExpectationsWereMet())
}
