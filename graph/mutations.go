package graph

import (
	"context"

	"github.com/google/uuid"

	"github.com/teranos/ontograph/logger"
	"github.com/teranos/ontograph/store"
	"github.com/teranos/ontograph/types"
)

// CreateRecords validates every submission, then inserts them together.
// Nothing is stored if any record is invalid or the insert fails.
func (s *Service) CreateRecords(ctx context.Context, submissions []store.Submission, onConflict store.ConflictBehavior) ([]types.Metadata, error) {
	for _, sub := range submissions {
		if err := s.validate(sub.Record); err != nil {
			return nil, s.fail("create", err)
		}
	}

	var created []types.Metadata
	err := s.withStore(ctx, func(st store.Store) error {
		var err error
		created, err = st.Create(ctx, submissions, onConflict)
		return err
	})
	if err != nil {
		return nil, s.fail("create", err)
	}
	s.logger.Debugw("Records created", logger.FieldBatchSize, len(submissions), logger.FieldCount, len(created), "on_conflict", onConflict)
	return created, nil
}

// UpdateRecord stores record as the version after prior. The record's own
// id is replaced, so callers only name the version they started from.
func (s *Service) UpdateRecord(ctx context.Context, prior types.VersionedID, record types.Record, actor uuid.UUID) (types.Metadata, error) {
	if err := store.CheckSuccessor(prior); err != nil {
		return types.Metadata{}, s.fail("update", err)
	}
	next := types.WithID(record, prior.Next())
	if err := s.validate(next); err != nil {
		return types.Metadata{}, s.fail("update", err)
	}

	var md types.Metadata
	err := s.withStore(ctx, func(st store.Store) error {
		var err error
		md, err = st.Update(ctx, prior, next, actor)
		return err
	})
	if err != nil {
		return types.Metadata{}, s.fail("update", err)
	}
	return md, nil
}

// Archive archives the latest version id, a record of kind.
func (s *Service) Archive(ctx context.Context, kind types.RecordKind, id types.VersionedID, actor uuid.UUID) (types.Metadata, error) {
	return s.setArchived(ctx, "archive", kind, id, actor, store.Store.Archive)
}

// Unarchive restores the latest version id, a record of kind.
func (s *Service) Unarchive(ctx context.Context, kind types.RecordKind, id types.VersionedID, actor uuid.UUID) (types.Metadata, error) {
	return s.setArchived(ctx, "unarchive", kind, id, actor, store.Store.Unarchive)
}

type archiveFunc func(store.Store, context.Context, types.RecordKind, types.VersionedID, uuid.UUID) (types.Metadata, error)

func (s *Service) setArchived(ctx context.Context, operation string, kind types.RecordKind, id types.VersionedID, actor uuid.UUID, fn archiveFunc) (types.Metadata, error) {
	var md types.Metadata
	err := s.withStore(ctx, func(st store.Store) error {
		var err error
		md, err = fn(st, ctx, kind, id, actor)
		return err
	})
	if err != nil {
		return types.Metadata{}, s.fail(operation, err)
	}
	return md, nil
}

// InsertAccount registers an account that may own records.
func (s *Service) InsertAccount(ctx context.Context, id uuid.UUID) error {
	err := s.withStore(ctx, func(st store.Store) error {
		return st.InsertAccountID(ctx, id)
	})
	if err != nil {
		return s.fail("insert account", err)
	}
	return nil
}
