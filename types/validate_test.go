package types

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/ontograph/errors"
)

func newTestValidator(t *testing.T, pattern string) *Validator {
	t.Helper()
	v, err := NewValidator(pattern)
	require.NoError(t, err)
	return v
}

func TestValidateDataType(t *testing.T) {
	v := newTestValidator(t, "")

	tests := []struct {
		name    string
		record  *DataType
		wantErr bool
	}{
		{
			name:   "valid",
			record: &DataType{ID: NewVersionedID("https://example.com/data-type/text/", 1), Title: "Text", Type: "string"},
		},
		{
			name:    "missing title",
			record:  &DataType{ID: NewVersionedID("https://example.com/data-type/text/", 1), Type: "string"},
			wantErr: true,
		},
		{
			name:    "unknown json type",
			record:  &DataType{ID: NewVersionedID("https://example.com/data-type/text/", 1), Title: "Text", Type: "date"},
			wantErr: true,
		},
		{
			name:    "base without trailing slash",
			record:  &DataType{ID: NewVersionedID("https://example.com/data-type/text", 1), Title: "Text", Type: "string"},
			wantErr: true,
		},
		{
			name:    "relative base",
			record:  &DataType{ID: NewVersionedID("data-type/text/", 1), Title: "Text", Type: "string"},
			wantErr: true,
		},
		{
			name:    "version zero",
			record:  &DataType{ID: NewVersionedID("https://example.com/data-type/text/", 0), Title: "Text", Type: "string"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.record)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrInvalidRecord))

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, ReasonInvalidSchema, verr.Reason)
		})
	}
}

func TestValidateReferencesAreChecked(t *testing.T) {
	v := newTestValidator(t, "")

	pt := &PropertyType{
		ID:        NewVersionedID("https://example.com/property-type/name/", 1),
		Title:     "Name",
		DataTypes: []VersionedID{NewVersionedID("not a url/", 1)},
	}

	err := v.Validate(pt)
	require.Error(t, err)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Fields, 1)
	assert.Contains(t, verr.Fields[0], "DataTypes[0]")
}

func TestValidateEntity(t *testing.T) {
	v := newTestValidator(t, "")
	typeID := NewVersionedID("https://example.com/entity-type/person/", 1)

	ok := &Entity{ID: NewVersionedID(EntityBaseID(uuid.New()), 1), EntityTypeID: typeID}
	assert.NoError(t, v.Validate(ok))

	bad := &Entity{ID: NewVersionedID("person-1", 1), EntityTypeID: typeID}
	assert.Error(t, v.Validate(bad))

	link := &Link{
		ID:           NewVersionedID(EntityBaseID(uuid.New()), 1),
		LinkTypeID:   typeID,
		LeftEntityID: uuid.New(),
	}
	assert.Error(t, v.Validate(link), "right entity is required")
}

func TestValidateDomain(t *testing.T) {
	v := newTestValidator(t, `^https://example\.com/`)

	hosted := &DataType{ID: NewVersionedID("https://example.com/data-type/text/", 1), Title: "Text", Type: "string"}
	assert.NoError(t, v.Validate(hosted))

	foreign := &DataType{ID: NewVersionedID("https://other.org/data-type/text/", 1), Title: "Text", Type: "string"}
	err := v.Validate(foreign)
	require.Error(t, err)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, ReasonInvalidTypeID, verr.Reason)

	entity := &Entity{
		ID:           NewVersionedID(EntityBaseID(uuid.New()), 1),
		EntityTypeID: NewVersionedID("https://other.org/entity-type/person/", 1),
	}
	assert.NoError(t, v.Validate(entity), "domain applies to ontology ids only")
}

func TestNewValidatorRejectsBadPattern(t *testing.T) {
	_, err := NewValidator("([")
	assert.Error(t, err)
}
