// Package store defines the storage collaborator the query engine and the
// versioning contract run against.
package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/teranos/ontograph/query"
	"github.com/teranos/ontograph/subgraph"
	"github.com/teranos/ontograph/types"
)

// ConflictBehavior decides what create does with a base id that already exists.
type ConflictBehavior int

const (
	// Fail rejects the whole batch.
	Fail ConflictBehavior = iota
	// Skip leaves the existing record untouched and creates the rest.
	Skip
)

func (c ConflictBehavior) String() string {
	if c == Skip {
		return "skip"
	}
	return "fail"
}

// ParseConflictBehavior reads "fail" or "skip"; empty means fail.
func ParseConflictBehavior(s string) (ConflictBehavior, bool) {
	switch s {
	case "", "fail":
		return Fail, true
	case "skip":
		return Skip, true
	}
	return Fail, false
}

// Submission is one record to create.
type Submission struct {
	Record    types.Record
	OwnedByID uuid.UUID
	ActorID   uuid.UUID
}

// Store is a handle on the backing storage, valid until Release.
type Store interface {
	subgraph.EdgeSource

	// FindRoots returns the versioned ids of the records of kind matching
	// filter. Parameters must already be converted.
	FindRoots(ctx context.Context, kind types.RecordKind, filter query.Filter[query.Path]) ([]types.VersionedID, error)

	// Create inserts every submission at version 1 in one transaction.
	// With Skip, submissions whose base id exists are left out of the result.
	Create(ctx context.Context, submissions []Submission, onConflict ConflictBehavior) ([]types.Metadata, error)

	// Update stores record as the version following prior.
	Update(ctx context.Context, prior types.VersionedID, record types.Record, actor uuid.UUID) (types.Metadata, error)

	// Archive and Unarchive flip the archived flag of the latest version
	// id, which must be a record of kind.
	Archive(ctx context.Context, kind types.RecordKind, id types.VersionedID, actor uuid.UUID) (types.Metadata, error)
	Unarchive(ctx context.Context, kind types.RecordKind, id types.VersionedID, actor uuid.UUID) (types.Metadata, error)

	// InsertAccountID registers an account that may own records.
	InsertAccountID(ctx context.Context, id uuid.UUID) error

	Release()
}

// Pool hands out stores.
type Pool interface {
	// Acquire blocks until a store is available, ctx is done or the pool's
	// timeout passes. Failures wrap errors.ErrStoreAcquisition.
	Acquire(ctx context.Context) (Store, error)
	Close() error
}
