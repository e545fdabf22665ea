package types

import (
	"time"

	"github.com/google/uuid"
)

// ProvenanceMetadata records which actors touched a revision.
type ProvenanceMetadata struct {
	CreatedByID  uuid.UUID  `json:"recordCreatedById"`
	ArchivedByID *uuid.UUID `json:"recordArchivedById,omitempty"`
}

// Metadata describes one stored revision. Ownership is fixed when the
// base id is created and copied onto every later version.
type Metadata struct {
	RecordID     VersionedID        `json:"recordId"`
	RecordKind   RecordKind         `json:"kind"`
	OwnedByID    uuid.UUID          `json:"ownedById"`
	Provenance   ProvenanceMetadata `json:"provenance"`
	Archived     bool               `json:"archived"`
	CreatedAt    time.Time          `json:"createdAt"`
	EntityTypeID *VersionedID       `json:"entityTypeId,omitempty"`
}

// OntologyElementMetadata is the metadata of a data, property or entity type.
type OntologyElementMetadata = Metadata

// EntityMetadata is the metadata of an entity or link; EntityTypeID is set.
type EntityMetadata = Metadata
