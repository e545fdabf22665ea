package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/teranos/ontograph/errors"
	"github.com/teranos/ontograph/store"
	"github.com/teranos/ontograph/subgraph"
	"github.com/teranos/ontograph/types"
)

// querier is satisfied by *sql.Conn and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// recordRow holds the queryable columns extracted from a record.
type recordRow struct {
	title         sql.NullString
	description   sql.NullString
	jsonType      sql.NullString
	labelProperty sql.NullString
	entityTypeID  sql.NullString
	leftEntityID  sql.NullString
	rightEntityID sql.NullString
	properties    sql.NullString
	body          string
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}

func optionalString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return nullString(*s)
}

func propertiesColumn(props map[string]any) (sql.NullString, error) {
	if props == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(props)
	if err != nil {
		return sql.NullString{}, errors.Wrap(err, "encode properties")
	}
	return nullString(string(data)), nil
}

func columnsFor(record types.Record) (recordRow, error) {
	var (
		row recordRow
		err error
	)
	switch r := record.(type) {
	case *types.DataType:
		row.title = nullString(r.Title)
		row.description = optionalString(r.Description)
		row.jsonType = nullString(r.Type)
	case *types.PropertyType:
		row.title = nullString(r.Title)
		row.description = optionalString(r.Description)
	case *types.EntityType:
		row.title = nullString(r.Title)
		row.description = optionalString(r.Description)
		if r.LabelProperty != nil {
			row.labelProperty = nullString(string(*r.LabelProperty))
		}
	case *types.Entity:
		row.entityTypeID = nullString(r.EntityTypeID.String())
		if row.properties, err = propertiesColumn(r.Properties); err != nil {
			return recordRow{}, err
		}
	case *types.Link:
		row.entityTypeID = nullString(r.LinkTypeID.String())
		row.leftEntityID = nullString(r.LeftEntityID.String())
		row.rightEntityID = nullString(r.RightEntityID.String())
		if row.properties, err = propertiesColumn(r.Properties); err != nil {
			return recordRow{}, err
		}
	default:
		return recordRow{}, errors.AssertionFailedf("unsupported record type %T", record)
	}

	body, err := json.Marshal(record)
	if err != nil {
		return recordRow{}, errors.Wrap(err, "encode record")
	}
	row.body = string(body)
	return row, nil
}

const metadataColumns = "base_id, version, kind, owned_by_id, created_by_id, archived_by_id, archived, entity_type_id, created_at"

type scanner interface {
	Scan(dest ...any) error
}

func scanMetadata(s scanner, extra ...any) (types.Metadata, error) {
	var (
		base, kind, owner, creator, createdAt string
		version                               int64
		archiver, entityType                  sql.NullString
		archived                              bool
	)
	dest := append([]any{&base, &version, &kind, &owner, &creator, &archiver, &archived, &entityType, &createdAt}, extra...)
	if err := s.Scan(dest...); err != nil {
		return types.Metadata{}, err
	}

	md := types.Metadata{
		RecordID:   types.NewVersionedID(types.BaseID(base), types.Version(version)),
		RecordKind: types.RecordKind(kind),
		Archived:   archived,
	}
	var err error
	if md.OwnedByID, err = uuid.Parse(owner); err != nil {
		return types.Metadata{}, errors.Wrapf(err, "owner of %s", md.RecordID)
	}
	if md.Provenance.CreatedByID, err = uuid.Parse(creator); err != nil {
		return types.Metadata{}, errors.Wrapf(err, "creator of %s", md.RecordID)
	}
	if archiver.Valid {
		id, err := uuid.Parse(archiver.String)
		if err != nil {
			return types.Metadata{}, errors.Wrapf(err, "archiver of %s", md.RecordID)
		}
		md.Provenance.ArchivedByID = &id
	}
	if entityType.Valid {
		id, err := types.ParseVersionedID(entityType.String)
		if err != nil {
			return types.Metadata{}, errors.Wrapf(err, "entity type of %s", md.RecordID)
		}
		md.EntityTypeID = &id
	}
	if md.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return types.Metadata{}, errors.Wrapf(err, "creation time of %s", md.RecordID)
	}
	return md, nil
}

func loadMetadata(ctx context.Context, q querier, id types.VersionedID) (types.Metadata, error) {
	row := q.QueryRowContext(ctx,
		"SELECT "+metadataColumns+" FROM records WHERE base_id = ? AND version = ?",
		string(id.BaseID), int64(id.Version))
	md, err := scanMetadata(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Metadata{}, &store.VersionNotFoundError{ID: id}
	}
	if err != nil {
		return types.Metadata{}, errors.WrapInternal(err, "load metadata")
	}
	return md, nil
}

func loadVertex(ctx context.Context, q querier, id types.VersionedID) (subgraph.Vertex, error) {
	var body string
	row := q.QueryRowContext(ctx,
		"SELECT "+metadataColumns+", body FROM records WHERE base_id = ? AND version = ?",
		string(id.BaseID), int64(id.Version))
	md, err := scanMetadata(row, &body)
	if errors.Is(err, sql.ErrNoRows) {
		return subgraph.Vertex{}, &store.VersionNotFoundError{ID: id}
	}
	if err != nil {
		return subgraph.Vertex{}, errors.WrapInternal(err, "load vertex")
	}

	record, err := types.DecodeRecord(md.RecordKind, []byte(body))
	if err != nil {
		return subgraph.Vertex{}, errors.WrapInternal(err, "decode stored record")
	}
	return subgraph.Vertex{Kind: md.RecordKind, Inner: record, Metadata: md}, nil
}

// revisionState reads what the lifecycle checks need about id, plus the
// kind of the stored revision.
func revisionState(ctx context.Context, q querier, id types.VersionedID) (store.RevisionState, types.RecordKind, error) {
	var (
		latest   sql.NullInt64
		kind     sql.NullString
		archived sql.NullBool
	)
	err := q.QueryRowContext(ctx, `
		SELECT
			(SELECT MAX(version) FROM records WHERE base_id = ?1),
			(SELECT kind FROM records WHERE base_id = ?1 AND version = ?2),
			(SELECT archived FROM records WHERE base_id = ?1 AND version = ?2)`,
		string(id.BaseID), int64(id.Version),
	).Scan(&latest, &kind, &archived)
	if err != nil {
		return store.RevisionState{}, "", errors.WrapInternal(err, "read revision state")
	}
	state := store.RevisionState{
		Exists:   kind.Valid,
		Latest:   types.Version(latest.Int64),
		Archived: archived.Bool,
	}
	return state, types.RecordKind(kind.String), nil
}
