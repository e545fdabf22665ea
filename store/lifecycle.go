package store

import (
	"github.com/teranos/ontograph/errors"
	"github.com/teranos/ontograph/types"
)

// RevisionState is what a backend knows about a base id when checking a
// mutation.
type RevisionState struct {
	// Exists reports whether the requested version is stored.
	Exists bool
	// Latest is the newest stored version, 0 when the base id is unknown.
	Latest types.Version
	// Archived is the archived flag of the requested version.
	Archived bool
}

// CheckCreate validates a record about to be created.
func CheckCreate(record types.Record) error {
	id := record.RecordID()
	if id.Version != 1 {
		return errors.Mark(
			errors.Newf("%s: new records start at version 1", id),
			errors.ErrInvalidRecord,
		)
	}
	return nil
}

// CheckSuccessor reports whether a version can follow prior.
func CheckSuccessor(prior types.VersionedID) error {
	if prior.Version == types.MaxVersion {
		return errors.Mark(
			errors.Newf("%s is the last version %s can have", prior, prior.BaseID),
			errors.ErrInvalidRecord,
		)
	}
	return nil
}

// CheckKind rejects a mutation addressed to kind want on a revision stored
// as kind stored.
func CheckKind(id types.VersionedID, stored, want types.RecordKind) error {
	if stored != want {
		return errors.Mark(
			errors.Newf("%s is a %s, not a %s", id, stored, want),
			errors.ErrInvalidRecord,
		)
	}
	return nil
}

// CheckUpdate validates moving from prior to next given the stored state
// of prior.
func CheckUpdate(prior, next types.VersionedID, state RevisionState) error {
	if !state.Exists {
		return &VersionNotFoundError{ID: prior}
	}
	if err := CheckSuccessor(prior); err != nil {
		return err
	}
	if next.BaseID != prior.BaseID {
		return errors.Mark(
			errors.Newf("%s cannot update %s: base ids differ", next, prior),
			errors.ErrInvalidRecord,
		)
	}
	if next.Version != prior.Version+1 {
		return &RaceConditionError{ID: prior, Latest: state.Latest}
	}
	if state.Latest != prior.Version {
		return &RaceConditionError{ID: prior, Latest: state.Latest}
	}
	return nil
}

// CheckArchive validates setting the archived flag of id to archived.
func CheckArchive(id types.VersionedID, archived bool, state RevisionState) error {
	if !state.Exists {
		return &VersionNotFoundError{ID: id}
	}
	if state.Latest != id.Version {
		return &RaceConditionError{ID: id, Latest: state.Latest}
	}
	if state.Archived == archived {
		return &AlreadyInStateError{ID: id, Archived: archived}
	}
	return nil
}
