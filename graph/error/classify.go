package grapherror

import (
	"strings"

	"github.com/teranos/ontograph/errors"
	"github.com/teranos/ontograph/query"
	"github.com/teranos/ontograph/store"
	"github.com/teranos/ontograph/types"
)

// Classify maps err to its taxonomy category. Errors that match no
// sentinel are internal. A nil error classifies as nil.
func Classify(err error) *GraphError {
	if err == nil {
		return nil
	}
	var ge *GraphError
	if errors.As(err, &ge) {
		return ge
	}

	switch {
	case errors.Is(err, errors.ErrParameterConversion):
		ge = New(CategoryParameter, err, "")
		var conv *query.ConversionError
		if errors.As(err, &conv) {
			ge.WithMetadata("actual", conv.Actual.String()).
				WithMetadata("expected", conv.Expected.String())
		}
	case errors.Is(err, errors.ErrDeserialization):
		ge = New(CategoryDeserialization, err, "")
	case errors.Is(err, errors.ErrInvalidRecord):
		ge = New(CategoryValidation, err, "")
		var invalid *types.ValidationError
		if errors.As(err, &invalid) {
			if invalid.Reason != "" {
				ge.WithReason(invalid.Reason)
			}
			ge.WithMetadata("versionedId", invalid.RecordID.String())
			if len(invalid.Fields) > 0 {
				ge.WithMetadata("fields", strings.Join(invalid.Fields, "; "))
			}
		}
	case errors.Is(err, errors.ErrIdentityConflict):
		ge = New(CategoryConflict, err, "")
		var exists *store.BaseIDAlreadyExistsError
		if errors.As(err, &exists) {
			ge.WithMetadata("baseUrl", string(exists.BaseID))
		}
	case errors.Is(err, errors.ErrNotFound):
		ge = New(CategoryNotFound, err, "")
		var missing *store.VersionNotFoundError
		if errors.As(err, &missing) {
			ge.WithMetadata("versionedId", missing.ID.String())
		}
		var account *store.AccountNotFoundError
		if errors.As(err, &account) {
			ge.WithMetadata("accountId", account.AccountID)
		}
	case errors.Is(err, errors.ErrRaceCondition):
		ge = New(CategoryRace, err, "")
		var race *store.RaceConditionError
		if errors.As(err, &race) {
			ge.WithMetadata("versionedId", race.ID.String())
		}
	case errors.Is(err, errors.ErrAlreadyInState):
		ge = New(CategoryState, err, "")
		var state *store.AlreadyInStateError
		if errors.As(err, &state) {
			ge.WithMetadata("versionedId", state.ID.String())
		}
	case errors.Is(err, errors.ErrStoreAcquisition):
		ge = New(CategoryAcquisition, err, "")
	default:
		ge = New(CategoryInternal, err, "")
	}
	return ge
}
