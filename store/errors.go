package store

import (
	"fmt"

	"github.com/teranos/ontograph/errors"
	"github.com/teranos/ontograph/types"
)

// BaseIDAlreadyExistsError is returned by create when a base id is taken.
type BaseIDAlreadyExistsError struct {
	BaseID types.BaseID
}

func (e *BaseIDAlreadyExistsError) Error() string {
	return fmt.Sprintf("base id %s already exists", e.BaseID)
}

func (e *BaseIDAlreadyExistsError) Unwrap() error { return errors.ErrIdentityConflict }

// VersionNotFoundError is returned when a versioned id does not exist.
type VersionNotFoundError struct {
	ID types.VersionedID
}

func (e *VersionNotFoundError) Error() string {
	return fmt.Sprintf("version %s does not exist", e.ID)
}

func (e *VersionNotFoundError) Unwrap() error { return errors.ErrNotFound }

// RaceConditionError is returned when the version a mutation was based on
// is no longer the latest.
type RaceConditionError struct {
	ID     types.VersionedID
	Latest types.Version
}

func (e *RaceConditionError) Error() string {
	if e.Latest == 0 {
		return fmt.Sprintf("%s was modified concurrently", e.ID)
	}
	return fmt.Sprintf("%s is not the latest version, latest is %d", e.ID, e.Latest)
}

func (e *RaceConditionError) Unwrap() error { return errors.ErrRaceCondition }

// AlreadyInStateError is returned by archive on an archived record and by
// unarchive on a live one.
type AlreadyInStateError struct {
	ID       types.VersionedID
	Archived bool
}

func (e *AlreadyInStateError) Error() string {
	if e.Archived {
		return fmt.Sprintf("%s is already archived", e.ID)
	}
	return fmt.Sprintf("%s is not archived", e.ID)
}

func (e *AlreadyInStateError) Unwrap() error { return errors.ErrAlreadyInState }

// AccountNotFoundError is returned when an owner is not a registered account.
type AccountNotFoundError struct {
	AccountID string
}

func (e *AccountNotFoundError) Error() string {
	return fmt.Sprintf("account %s is not registered", e.AccountID)
}

func (e *AccountNotFoundError) Unwrap() error { return errors.ErrNotFound }
