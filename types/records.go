package types

import (
	"bytes"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/teranos/ontograph/errors"
)

// Record is one revision of anything the store holds.
type Record interface {
	RecordID() VersionedID
	RecordKind() RecordKind
	// References lists the outgoing edges this revision declares.
	References() []Reference
}

// DataType describes a primitive value shape.
type DataType struct {
	ID          VersionedID `json:"$id" validate:"versioned_url"`
	Title       string      `json:"title" validate:"required"`
	Description *string     `json:"description,omitempty"`
	Type        string      `json:"type" validate:"required,oneof=string number boolean object array null"`
}

func (d *DataType) RecordID() VersionedID   { return d.ID }
func (d *DataType) RecordKind() RecordKind  { return KindDataType }
func (d *DataType) References() []Reference { return nil }

// PropertyType constrains the values a property may hold.
type PropertyType struct {
	ID            VersionedID   `json:"$id" validate:"versioned_url"`
	Title         string        `json:"title" validate:"required"`
	Description   *string       `json:"description,omitempty"`
	DataTypes     []VersionedID `json:"dataTypes,omitempty" validate:"dive,versioned_url"`
	PropertyTypes []VersionedID `json:"propertyTypes,omitempty" validate:"dive,versioned_url"`
}

func (p *PropertyType) RecordID() VersionedID  { return p.ID }
func (p *PropertyType) RecordKind() RecordKind { return KindPropertyType }

func (p *PropertyType) References() []Reference {
	refs := make([]Reference, 0, len(p.DataTypes)+len(p.PropertyTypes))
	for _, id := range p.DataTypes {
		refs = append(refs, pinned(EdgeConstrainsValuesOn, id))
	}
	for _, id := range p.PropertyTypes {
		refs = append(refs, pinned(EdgeConstrainsPropertiesOn, id))
	}
	return refs
}

// EntityType describes the properties and links an entity may carry.
type EntityType struct {
	ID               VersionedID   `json:"$id" validate:"versioned_url"`
	Title            string        `json:"title" validate:"required"`
	Description      *string       `json:"description,omitempty"`
	Properties       []VersionedID `json:"properties,omitempty" validate:"dive,versioned_url"`
	InheritsFrom     []VersionedID `json:"inheritsFrom,omitempty" validate:"dive,versioned_url"`
	Links            []VersionedID `json:"links,omitempty" validate:"dive,versioned_url"`
	LinkDestinations []VersionedID `json:"linkDestinations,omitempty" validate:"dive,versioned_url"`
	LabelProperty    *BaseID       `json:"labelProperty,omitempty"`
}

func (e *EntityType) RecordID() VersionedID  { return e.ID }
func (e *EntityType) RecordKind() RecordKind { return KindEntityType }

func (e *EntityType) References() []Reference {
	var refs []Reference
	for _, id := range e.Properties {
		refs = append(refs, pinned(EdgeConstrainsPropertiesOn, id))
	}
	for _, id := range e.InheritsFrom {
		refs = append(refs, pinned(EdgeInheritsFrom, id))
	}
	for _, id := range e.Links {
		refs = append(refs, pinned(EdgeConstrainsLinksOn, id))
	}
	for _, id := range e.LinkDestinations {
		refs = append(refs, pinned(EdgeConstrainsLinkDestinationsOn, id))
	}
	return refs
}

// Entity is an instance of an entity type.
type Entity struct {
	ID           VersionedID    `json:"id" validate:"entity_id"`
	EntityTypeID VersionedID    `json:"entityTypeId" validate:"versioned_url"`
	Properties   map[string]any `json:"properties"`
}

func (e *Entity) RecordID() VersionedID  { return e.ID }
func (e *Entity) RecordKind() RecordKind { return KindEntity }

func (e *Entity) References() []Reference {
	return []Reference{pinned(EdgeIsOfType, e.EntityTypeID)}
}

// Link connects two entities through a link type.
// Endpoints always follow the latest version of the entity they name.
type Link struct {
	ID            VersionedID    `json:"id" validate:"entity_id"`
	LinkTypeID    VersionedID    `json:"linkTypeId" validate:"versioned_url"`
	LeftEntityID  uuid.UUID      `json:"leftEntityId" validate:"required"`
	RightEntityID uuid.UUID      `json:"rightEntityId" validate:"required"`
	Properties    map[string]any `json:"properties,omitempty"`
}

func (l *Link) RecordID() VersionedID  { return l.ID }
func (l *Link) RecordKind() RecordKind { return KindLink }

func (l *Link) References() []Reference {
	return []Reference{
		pinned(EdgeIsOfType, l.LinkTypeID),
		latest(EdgeHasLeftEntity, EntityBaseID(l.LeftEntityID)),
		latest(EdgeHasRightEntity, EntityBaseID(l.RightEntityID)),
	}
}

// NewRecord returns an empty record of the given kind, ready to decode into.
func NewRecord(kind RecordKind) (Record, error) {
	switch kind {
	case KindDataType:
		return &DataType{}, nil
	case KindPropertyType:
		return &PropertyType{}, nil
	case KindEntityType:
		return &EntityType{}, nil
	case KindEntity:
		return &Entity{}, nil
	case KindLink:
		return &Link{}, nil
	}
	return nil, errors.Newf("unknown record kind %q", kind)
}

// DecodeRecord decodes a JSON body into a record of the given kind.
func DecodeRecord(kind RecordKind, data []byte) (Record, error) {
	record, err := NewRecord(kind)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, record); err != nil {
		return nil, errors.Wrapf(err, "decode %s", kind)
	}
	return record, nil
}

// DecodeRecords reads a single record or a JSON list of records of kind.
// single reports which shape the input had. Failures are marked as
// deserialization errors.
func DecodeRecords(kind RecordKind, data []byte) (records []Record, single bool, err error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, false, errors.MarkDeserialization(errors.New("missing record"))
	}
	if data[0] != '[' {
		record, err := DecodeRecord(kind, data)
		if err != nil {
			return nil, true, errors.MarkDeserialization(err)
		}
		return []Record{record}, true, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, false, errors.MarkDeserialization(errors.Wrap(err, "decode record list"))
	}
	records = make([]Record, len(items))
	for i, item := range items {
		record, err := DecodeRecord(kind, item)
		if err != nil {
			return nil, false, errors.MarkDeserialization(errors.Wrapf(err, "record %d", i))
		}
		records[i] = record
	}
	return records, false, nil
}

// WithID returns a copy of r carrying id. Used when the store assigns
// the next version on update.
func WithID(r Record, id VersionedID) Record {
	switch rec := r.(type) {
	case *DataType:
		c := *rec
		c.ID = id
		return &c
	case *PropertyType:
		c := *rec
		c.ID = id
		return &c
	case *EntityType:
		c := *rec
		c.ID = id
		return &c
	case *Entity:
		c := *rec
		c.ID = id
		return &c
	case *Link:
		c := *rec
		c.ID = id
		return &c
	}
	return r
}
