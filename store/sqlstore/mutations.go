package sqlstore

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/teranos/ontograph/db"
	"github.com/teranos/ontograph/errors"
	"github.com/teranos/ontograph/logger"
	"github.com/teranos/ontograph/store"
	"github.com/teranos/ontograph/types"
)

const insertRecord = `
	INSERT INTO records (
		base_id, version, kind, owned_by_id, created_by_id, archived,
		title, description, json_type, label_property,
		entity_type_id, left_entity_id, right_entity_id, properties,
		body, created_at
	) VALUES (?, ?, ?, ?, ?, 0, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// Create inserts every submission in one transaction. Nothing is stored
// unless everything is.
func (s *Store) Create(ctx context.Context, submissions []store.Submission, onConflict store.ConflictBehavior) ([]types.Metadata, error) {
	for _, sub := range submissions {
		if err := store.CheckCreate(sub.Record); err != nil {
			return nil, err
		}
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	created := make([]types.Metadata, 0, len(submissions))
	var inserted []types.Record
	for _, sub := range submissions {
		id := sub.Record.RecordID()

		exists, err := baseIDExists(ctx, tx, id.BaseID)
		if err != nil {
			return nil, err
		}
		if exists {
			if onConflict == store.Skip {
				s.logger.Debugw("Skipping existing base id", logger.FieldBaseID, id.BaseID)
				continue
			}
			return nil, &store.BaseIDAlreadyExistsError{BaseID: id.BaseID}
		}
		if err := requireAccount(ctx, tx, sub.OwnedByID); err != nil {
			return nil, err
		}

		if err := s.insert(ctx, tx, sub.Record, sub.OwnedByID, sub.ActorID); err != nil {
			if db.IsConstraintViolation(err) {
				return nil, &store.BaseIDAlreadyExistsError{BaseID: id.BaseID}
			}
			return nil, errors.WrapInternal(err, "insert record")
		}
		inserted = append(inserted, sub.Record)
	}

	// References are checked once the whole batch is in, so records may
	// refer to each other regardless of their order.
	for _, record := range inserted {
		if err := checkReferences(ctx, tx, record); err != nil {
			return nil, err
		}
		md, err := loadMetadata(ctx, tx, record.RecordID())
		if err != nil {
			return nil, err
		}
		created = append(created, md)
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.WrapInternal(err, "commit create")
	}
	s.logger.Infow("Records created", logger.FieldCount, len(created), logger.FieldBatchSize, len(submissions))
	return created, nil
}

// Update stores record as the version after prior. The prior version must
// still be the latest when the transaction commits.
func (s *Store) Update(ctx context.Context, prior types.VersionedID, record types.Record, actor uuid.UUID) (types.Metadata, error) {
	tx, err := s.begin(ctx)
	if err != nil {
		return types.Metadata{}, err
	}
	defer tx.Rollback()

	state, kind, err := revisionState(ctx, tx, prior)
	if err != nil {
		return types.Metadata{}, err
	}
	next := record.RecordID()
	if err := store.CheckUpdate(prior, next, state); err != nil {
		return types.Metadata{}, err
	}
	if err := store.CheckKind(prior, kind, record.RecordKind()); err != nil {
		return types.Metadata{}, err
	}

	priorMetadata, err := loadMetadata(ctx, tx, prior)
	if err != nil {
		return types.Metadata{}, err
	}
	if err := s.insert(ctx, tx, record, priorMetadata.OwnedByID, actor); err != nil {
		if db.IsConstraintViolation(err) || db.IsBusy(err) {
			return types.Metadata{}, &store.RaceConditionError{ID: prior}
		}
		return types.Metadata{}, errors.WrapInternal(err, "insert version")
	}
	if err := checkReferences(ctx, tx, record); err != nil {
		return types.Metadata{}, err
	}
	md, err := loadMetadata(ctx, tx, next)
	if err != nil {
		return types.Metadata{}, err
	}

	if err := tx.Commit(); err != nil {
		if db.IsBusy(err) {
			return types.Metadata{}, &store.RaceConditionError{ID: prior}
		}
		return types.Metadata{}, errors.WrapInternal(err, "commit update")
	}
	s.logger.Infow("Record updated", logger.FieldVersionedID, next.String(), logger.FieldActorID, actor)
	return md, nil
}

// Archive marks the latest version id as archived.
func (s *Store) Archive(ctx context.Context, kind types.RecordKind, id types.VersionedID, actor uuid.UUID) (types.Metadata, error) {
	return s.setArchived(ctx, kind, id, true, actor)
}

// Unarchive clears the archived flag of the latest version id.
func (s *Store) Unarchive(ctx context.Context, kind types.RecordKind, id types.VersionedID, actor uuid.UUID) (types.Metadata, error) {
	return s.setArchived(ctx, kind, id, false, actor)
}

func (s *Store) setArchived(ctx context.Context, want types.RecordKind, id types.VersionedID, archived bool, actor uuid.UUID) (types.Metadata, error) {
	tx, err := s.begin(ctx)
	if err != nil {
		return types.Metadata{}, err
	}
	defer tx.Rollback()

	state, kind, err := revisionState(ctx, tx, id)
	if err != nil {
		return types.Metadata{}, err
	}
	if state.Exists {
		if err := store.CheckKind(id, kind, want); err != nil {
			return types.Metadata{}, err
		}
	}
	if err := store.CheckArchive(id, archived, state); err != nil {
		return types.Metadata{}, err
	}

	var archivedBy sql.NullString
	if archived {
		archivedBy = nullString(actor.String())
	}
	res, err := tx.ExecContext(ctx, `
		UPDATE records SET archived = ?, archived_by_id = ?
		WHERE base_id = ? AND version = ? AND archived = ?
			AND version = (SELECT MAX(version) FROM records WHERE base_id = ?)`,
		archived, archivedBy, string(id.BaseID), int64(id.Version), !archived, string(id.BaseID))
	if err != nil {
		if db.IsBusy(err) {
			return types.Metadata{}, &store.RaceConditionError{ID: id}
		}
		return types.Metadata{}, errors.WrapInternal(err, "update archived flag")
	}
	if n, err := res.RowsAffected(); err != nil {
		return types.Metadata{}, errors.WrapInternal(err, "update archived flag")
	} else if n != 1 {
		return types.Metadata{}, &store.RaceConditionError{ID: id}
	}

	md, err := loadMetadata(ctx, tx, id)
	if err != nil {
		return types.Metadata{}, err
	}
	if err := tx.Commit(); err != nil {
		if db.IsBusy(err) {
			return types.Metadata{}, &store.RaceConditionError{ID: id}
		}
		return types.Metadata{}, errors.WrapInternal(err, "commit archive")
	}
	s.logger.Infow("Archived flag changed", logger.FieldVersionedID, id.String(), "archived", archived, logger.FieldActorID, actor)
	return md, nil
}

func (s *Store) insert(ctx context.Context, tx *sql.Tx, record types.Record, owner, actor uuid.UUID) error {
	row, err := columnsFor(record)
	if err != nil {
		return err
	}
	id := record.RecordID()
	if _, err := tx.ExecContext(ctx, insertRecord,
		string(id.BaseID), int64(id.Version), string(record.RecordKind()), owner.String(), actor.String(),
		row.title, row.description, row.jsonType, row.labelProperty,
		row.entityTypeID, row.leftEntityID, row.rightEntityID, row.properties,
		row.body, s.timestamp(),
	); err != nil {
		return err
	}

	for _, ref := range record.References() {
		var version sql.NullInt64
		if ref.Version != nil {
			version = sql.NullInt64{Int64: int64(*ref.Version), Valid: true}
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO record_edges (source_base_id, source_version, edge_kind, target_base_id, target_version)
			VALUES (?, ?, ?, ?, ?)`,
			string(id.BaseID), int64(id.Version), string(ref.Kind), string(ref.Target), version,
		); err != nil {
			return errors.WrapInternal(err, "insert edge")
		}
	}
	return nil
}

func baseIDExists(ctx context.Context, q querier, base types.BaseID) (bool, error) {
	var exists bool
	if err := q.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM records WHERE base_id = ?)", string(base)).Scan(&exists); err != nil {
		return false, errors.WrapInternal(err, "check base id")
	}
	return exists, nil
}

func requireAccount(ctx context.Context, q querier, id uuid.UUID) error {
	var exists bool
	if err := q.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM accounts WHERE account_id = ?)", id.String()).Scan(&exists); err != nil {
		return errors.WrapInternal(err, "check account")
	}
	if !exists {
		return &store.AccountNotFoundError{AccountID: id.String()}
	}
	return nil
}

// checkReferences requires every reference of record to point at a stored
// record: pinned references at that exact version, others at any version.
func checkReferences(ctx context.Context, q querier, record types.Record) error {
	for _, ref := range record.References() {
		if target, pinned := ref.TargetID(); pinned {
			var exists bool
			if err := q.QueryRowContext(ctx,
				"SELECT EXISTS(SELECT 1 FROM records WHERE base_id = ? AND version = ?)",
				string(target.BaseID), int64(target.Version),
			).Scan(&exists); err != nil {
				return errors.WrapInternal(err, "check reference")
			}
			if !exists {
				return errors.Wrapf(&store.VersionNotFoundError{ID: target}, "%s of %s", ref.Kind, record.RecordID())
			}
			continue
		}

		exists, err := baseIDExists(ctx, q, ref.Target)
		if err != nil {
			return err
		}
		if !exists {
			return errors.Wrapf(errors.NewNotFoundError("record %s", ref.Target), "%s of %s", ref.Kind, record.RecordID())
		}
	}
	return nil
}
