package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teranos/ontograph/db"
	"github.com/teranos/ontograph/errors"
	"github.com/teranos/ontograph/logger"
	"github.com/teranos/ontograph/query"
	"github.com/teranos/ontograph/store"
	"github.com/teranos/ontograph/subgraph"
	"github.com/teranos/ontograph/types"
)

// Store is a store handle pinned to one connection.
type Store struct {
	conn    *sql.Conn
	release func()
	logger  *zap.SugaredLogger
	now     func() time.Time
}

var _ store.Store = (*Store)(nil)

// Release returns the connection to the pool. Safe to call more than once.
func (s *Store) Release() {
	s.release()
}

func (s *Store) timestamp() string {
	now := time.Now
	if s.now != nil {
		now = s.now
	}
	return now().UTC().Format(time.RFC3339Nano)
}

// FindRoots returns the versioned ids of records of kind matching filter.
func (s *Store) FindRoots(ctx context.Context, kind types.RecordKind, filter query.Filter[query.Path]) ([]types.VersionedID, error) {
	stmt, args, err := compileRoots(kind, filter)
	if err != nil {
		return nil, err
	}
	if logger.ShouldLogTrace(logger.Verbosity) {
		s.logger.Debugw("Finding roots", logger.FieldRecordKind, kind, logger.FieldSQL, stmt, "args", args)
	}

	rows, err := s.conn.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, errors.WrapInternal(err, "query roots")
	}
	return scanVersionedIDs(rows)
}

func scanVersionedIDs(rows *sql.Rows) ([]types.VersionedID, error) {
	defer rows.Close()

	ids := []types.VersionedID{}
	for rows.Next() {
		var (
			base    string
			version int64
		)
		if err := rows.Scan(&base, &version); err != nil {
			return nil, errors.WrapInternal(err, "scan versioned id")
		}
		ids = append(ids, types.NewVersionedID(types.BaseID(base), types.Version(version)))
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapInternal(err, "iterate versioned ids")
	}
	return ids, nil
}

// FetchEdges returns the neighbours of id over kind. Outgoing references
// without a pinned version resolve to the target's current latest
// version; incoming ones match only when id is that latest version.
func (s *Store) FetchEdges(ctx context.Context, id types.VersionedID, kind types.EdgeKind, dir subgraph.Direction) ([]types.VersionedID, error) {
	var (
		rows *sql.Rows
		err  error
	)
	switch dir {
	case subgraph.Outgoing:
		rows, err = s.conn.QueryContext(ctx, `
			SELECT target_base_id, resolved_version FROM (
				SELECT e.target_base_id,
					COALESCE(e.target_version, (SELECT MAX(v.version) FROM records v WHERE v.base_id = e.target_base_id)) AS resolved_version
				FROM record_edges e
				WHERE e.source_base_id = ? AND e.source_version = ? AND e.edge_kind = ?
			)
			WHERE resolved_version IS NOT NULL
			ORDER BY target_base_id, resolved_version`,
			string(id.BaseID), int64(id.Version), string(kind))
	case subgraph.Incoming:
		rows, err = s.conn.QueryContext(ctx, `
			SELECT e.source_base_id, e.source_version
			FROM record_edges e
			WHERE e.target_base_id = ?1 AND e.edge_kind = ?3
				AND (e.target_version = ?2
					OR (e.target_version IS NULL AND ?2 = (SELECT MAX(v.version) FROM records v WHERE v.base_id = ?1)))
			ORDER BY e.source_base_id, e.source_version`,
			string(id.BaseID), int64(id.Version), string(kind))
	default:
		return nil, errors.AssertionFailedf("unknown direction %q", dir)
	}
	if err != nil {
		return nil, errors.WrapInternal(err, "query edges")
	}
	return scanVersionedIDs(rows)
}

// LoadVertex loads the record and metadata stored under id.
func (s *Store) LoadVertex(ctx context.Context, id types.VersionedID) (subgraph.Vertex, error) {
	return loadVertex(ctx, s.conn, id)
}

// InsertAccountID registers an account.
func (s *Store) InsertAccountID(ctx context.Context, id uuid.UUID) error {
	_, err := s.conn.ExecContext(ctx, "INSERT INTO accounts (account_id) VALUES (?)", id.String())
	if db.IsConstraintViolation(err) {
		return errors.Mark(errors.Newf("account %s already exists", id), errors.ErrIdentityConflict)
	}
	if err != nil {
		return errors.WrapInternal(err, "insert account")
	}
	s.logger.Infow("Account registered", logger.FieldAccountID, id)
	return nil
}

func (s *Store) begin(ctx context.Context) (*sql.Tx, error) {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.WrapInternal(err, "begin transaction")
	}
	return tx, nil
}
