package types

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/ontograph/errors"
)

func TestEntityTypeReferences(t *testing.T) {
	name := NewVersionedID("https://example.com/property-type/name/", 1)
	agent := NewVersionedID("https://example.com/entity-type/agent/", 2)
	knows := NewVersionedID("https://example.com/entity-type/knows/", 1)

	et := &EntityType{
		ID:           NewVersionedID("https://example.com/entity-type/person/", 1),
		Title:        "Person",
		Properties:   []VersionedID{name},
		InheritsFrom: []VersionedID{agent},
		Links:        []VersionedID{knows},
	}

	refs := et.References()
	require.Len(t, refs, 3)
	assert.Equal(t, EdgeConstrainsPropertiesOn, refs[0].Kind)
	target, ok := refs[1].TargetID()
	require.True(t, ok)
	assert.Equal(t, agent, target)
	assert.Equal(t, EdgeInheritsFrom, refs[1].Kind)
	assert.Equal(t, EdgeConstrainsLinksOn, refs[2].Kind)
}

func TestLinkReferencesFollowLatestEndpoints(t *testing.T) {
	left, right := uuid.New(), uuid.New()
	link := &Link{
		ID:            NewVersionedID(EntityBaseID(uuid.New()), 1),
		LinkTypeID:    NewVersionedID("https://example.com/entity-type/knows/", 1),
		LeftEntityID:  left,
		RightEntityID: right,
	}

	refs := link.References()
	require.Len(t, refs, 3)

	_, pinnedType := refs[0].TargetID()
	assert.True(t, pinnedType)

	_, pinnedLeft := refs[1].TargetID()
	assert.False(t, pinnedLeft)
	assert.Equal(t, EntityBaseID(left), refs[1].Target)
	assert.Equal(t, EdgeHasRightEntity, refs[2].Kind)
	assert.Equal(t, EntityBaseID(right), refs[2].Target)
}

func TestDecodeRecord(t *testing.T) {
	record, err := DecodeRecord(KindDataType, []byte(`{
		"$id": "https://example.com/data-type/text/v/1",
		"title": "Text",
		"type": "string"
	}`))
	require.NoError(t, err)

	dt, ok := record.(*DataType)
	require.True(t, ok)
	assert.Equal(t, "Text", dt.Title)
	assert.Nil(t, dt.Description)
	assert.Equal(t, Version(1), dt.RecordID().Version)

	_, err = DecodeRecord(KindDataType, []byte(`{"$id": 5}`))
	assert.Error(t, err)

	_, err = DecodeRecord("widget", []byte(`{}`))
	assert.Error(t, err)
}

func TestWithIDCopies(t *testing.T) {
	original := &DataType{ID: NewVersionedID("https://example.com/data-type/text/", 1), Title: "Text", Type: "string"}

	next := WithID(original, original.ID.Next())

	assert.Equal(t, Version(2), next.RecordID().Version)
	assert.Equal(t, Version(1), original.ID.Version)
}

func TestDecodeRecords(t *testing.T) {
	text := `{"$id": "https://example.com/data-type/text/v/1", "title": "Text", "type": "string"}`

	records, single, err := DecodeRecords(KindDataType, []byte("  "+text+"\n"))
	require.NoError(t, err)
	assert.True(t, single)
	require.Len(t, records, 1)
	assert.Equal(t, "Text", records[0].(*DataType).Title)

	records, single, err = DecodeRecords(KindDataType, []byte("["+text+","+text+"]"))
	require.NoError(t, err)
	assert.False(t, single)
	assert.Len(t, records, 2)

	_, _, err = DecodeRecords(KindDataType, []byte("  "))
	assert.True(t, errors.Is(err, errors.ErrDeserialization))

	_, _, err = DecodeRecords(KindDataType, []byte(`[{"title": 3}]`))
	assert.True(t, errors.Is(err, errors.ErrDeserialization))
	assert.ErrorContains(t, err, "record 0")
}
