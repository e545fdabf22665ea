// Package errors provides error handling for ontograph.
//
// This package re-exports github.com/cockroachdb/errors, providing stack
// traces, wrapping with context, hints and details, and error marks. On top
// of that it declares the error taxonomy every store and query operation
// reports through.
//
// Usage:
//
//	if err := store.Archive(ctx, kind, id, actor); err != nil {
//	    if errors.Is(err, errors.ErrAlreadyInState) {
//	        // nothing to do
//	    }
//	    return errors.Wrap(err, "archive entity type")
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint           = crdb.WithHint
	WithHintf          = crdb.WithHintf
	WithDetail         = crdb.WithDetail
	WithDetailf        = crdb.WithDetailf
	WithSecondaryError = crdb.WithSecondaryError
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapOnce     = crdb.UnwrapOnce
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Marks let an error satisfy Is for a sentinel without wrapping it,
// so the original message stays intact.
var (
	Mark = crdb.Mark
)

// GetStack is an alias for GetReportableStackTrace for convenience.
var GetStack = crdb.GetReportableStackTrace

// Assertions
var (
	AssertionFailedf = crdb.AssertionFailedf
)

// Taxonomy sentinels. Every failure surfaced by the query engine or the
// store maps to exactly one of these; use Is to classify.
var (
	// ErrDeserialization: the wire filter or structural query is not a valid shape.
	ErrDeserialization = New("malformed query")

	// ErrParameterConversion: a parameter cannot be coerced to its path's type.
	ErrParameterConversion = New("parameter conversion failed")

	// ErrIdentityConflict: the base id already exists on create.
	ErrIdentityConflict = New("base id already exists")

	// ErrNotFound: a referenced versioned id, base id or account is absent.
	ErrNotFound = New("not found")

	// ErrRaceCondition: the optimistic version check failed at commit.
	ErrRaceCondition = New("concurrent modification")

	// ErrAlreadyInState: archive on archived, unarchive on unarchived.
	ErrAlreadyInState = New("record already in requested state")

	// ErrStoreAcquisition: no store handle could be acquired. Retryable.
	ErrStoreAcquisition = New("could not acquire store")

	// ErrInternalStore: unexpected backend failure.
	ErrInternalStore = New("internal store error")

	// ErrInvalidRecord: a submitted record failed schema or domain validation.
	ErrInvalidRecord = New("invalid record")
)

// IsNotFoundError checks if an error is or wraps ErrNotFound.
func IsNotFoundError(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// IsRetryable reports whether the caller may simply retry the operation.
// Only acquisition failures qualify; race conditions need a re-fetch first.
func IsRetryable(err error) bool {
	return err != nil && Is(err, ErrStoreAcquisition)
}

// NewNotFoundError creates a not-found error with a formatted message
func NewNotFoundError(format string, args ...interface{}) error {
	return Wrap(ErrNotFound, Newf(format, args...).Error())
}

// MarkDeserialization marks err as a deserialization failure, keeping its message.
func MarkDeserialization(err error) error {
	if err == nil {
		return nil
	}
	return Mark(err, ErrDeserialization)
}

// WrapInternal wraps a backend failure as an internal store error.
func WrapInternal(err error, context string) error {
	if err == nil {
		return nil
	}
	return Mark(Wrap(err, context), ErrInternalStore)
}
