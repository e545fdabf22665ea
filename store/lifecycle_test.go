package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/ontograph/errors"
	"github.com/teranos/ontograph/types"
)

var personBase = types.BaseID("https://example.com/entity-type/person/")

func TestCheckCreate(t *testing.T) {
	assert.NoError(t, CheckCreate(&types.EntityType{ID: types.NewVersionedID(personBase, 1)}))

	err := CheckCreate(&types.EntityType{ID: types.NewVersionedID(personBase, 2)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidRecord))
}

func TestCheckUpdate(t *testing.T) {
	v1 := types.NewVersionedID(personBase, 1)
	v2 := types.NewVersionedID(personBase, 2)
	v3 := types.NewVersionedID(personBase, 3)

	tests := []struct {
		name  string
		prior types.VersionedID
		next  types.VersionedID
		state RevisionState
		want  error
	}{
		{"latest prior", v1, v2, RevisionState{Exists: true, Latest: 1}, nil},
		{"missing prior", v1, v2, RevisionState{}, errors.ErrNotFound},
		{"stale prior", v1, v2, RevisionState{Exists: true, Latest: 2}, errors.ErrRaceCondition},
		{"skipped version", v1, v3, RevisionState{Exists: true, Latest: 1}, errors.ErrRaceCondition},
		{"other base", v1, types.NewVersionedID("https://example.com/entity-type/agent/", 2), RevisionState{Exists: true, Latest: 1}, errors.ErrInvalidRecord},
		{"exhausted versions", types.NewVersionedID(personBase, types.MaxVersion), types.NewVersionedID(personBase, types.MaxVersion).Next(), RevisionState{Exists: true, Latest: types.MaxVersion}, errors.ErrInvalidRecord},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckUpdate(tt.prior, tt.next, tt.state)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestCheckKind(t *testing.T) {
	v1 := types.NewVersionedID(personBase, 1)

	assert.NoError(t, CheckKind(v1, types.KindEntityType, types.KindEntityType))

	err := CheckKind(v1, types.KindEntityType, types.KindEntity)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidRecord))
	assert.Contains(t, err.Error(), "not a entity")
}

func TestCheckArchive(t *testing.T) {
	v1 := types.NewVersionedID(personBase, 1)

	assert.NoError(t, CheckArchive(v1, true, RevisionState{Exists: true, Latest: 1}))
	assert.NoError(t, CheckArchive(v1, false, RevisionState{Exists: true, Latest: 1, Archived: true}))

	err := CheckArchive(v1, true, RevisionState{})
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	err = CheckArchive(v1, true, RevisionState{Exists: true, Latest: 2})
	var race *RaceConditionError
	require.True(t, errors.As(err, &race))
	assert.Equal(t, types.Version(2), race.Latest)

	err = CheckArchive(v1, true, RevisionState{Exists: true, Latest: 1, Archived: true})
	var inState *AlreadyInStateError
	require.True(t, errors.As(err, &inState))
	assert.True(t, inState.Archived)
	assert.Contains(t, err.Error(), "already archived")

	err = CheckArchive(v1, false, RevisionState{Exists: true, Latest: 1})
	assert.True(t, errors.Is(err, errors.ErrAlreadyInState))
	assert.Contains(t, err.Error(), "not archived")
}

func TestTypedErrorsUnwrapToTaxonomy(t *testing.T) {
	id := types.NewVersionedID(personBase, 1)

	assert.True(t, errors.Is(errors.Wrap(&BaseIDAlreadyExistsError{BaseID: personBase}, "create"), errors.ErrIdentityConflict))
	assert.True(t, errors.Is(&VersionNotFoundError{ID: id}, errors.ErrNotFound))
	assert.True(t, errors.Is(&RaceConditionError{ID: id}, errors.ErrRaceCondition))
	assert.True(t, errors.Is(&AlreadyInStateError{ID: id}, errors.ErrAlreadyInState))
	assert.True(t, errors.Is(&AccountNotFoundError{AccountID: "x"}, errors.ErrNotFound))

	var conflict *BaseIDAlreadyExistsError
	require.True(t, errors.As(errors.Wrap(&BaseIDAlreadyExistsError{BaseID: personBase}, "create"), &conflict))
	assert.Equal(t, personBase, conflict.BaseID)
}

func TestParseConflictBehavior(t *testing.T) {
	b, ok := ParseConflictBehavior("skip")
	assert.True(t, ok)
	assert.Equal(t, Skip, b)

	b, ok = ParseConflictBehavior("")
	assert.True(t, ok)
	assert.Equal(t, Fail, b)

	_, ok = ParseConflictBehavior("overwrite")
	assert.False(t, ok)
}
