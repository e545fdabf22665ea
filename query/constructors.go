package query

import (
	"github.com/google/uuid"

	"github.com/teranos/ontograph/types"
)

// identityField is the token naming a record's base id for its kind.
func identityField(kind types.RecordKind) Field {
	if kind.IsOntology() {
		return FieldBaseID
	}
	return FieldUUID
}

// ForLatestVersion selects the latest version of every record of kind P.
func ForLatestVersion[P Path]() Filter[P] {
	return PathEquals(MustParsePath[P](string(FieldVersion)), LatestVersion)
}

// ForVersionedID selects exactly the revision id.
func ForVersionedID[P Path](id types.VersionedID) Filter[P] {
	var zero P
	return All(
		PathEquals(MustParsePath[P](string(identityField(zero.RecordKind()))), Text(id.BaseID)),
		PathEquals(MustParsePath[P](string(FieldVersion)), SignedInteger(id.Version)),
	)
}

// ForBaseID selects every version of base.
func ForBaseID[P Path](base types.BaseID) Filter[P] {
	var zero P
	return PathEquals(MustParsePath[P](string(identityField(zero.RecordKind()))), Text(base))
}

// ForAllLatestEntities selects the latest version of every entity.
func ForAllLatestEntities() Filter[EntityPath] {
	return ForLatestVersion[EntityPath]()
}

// ForLatestEntityByID selects the latest version of one entity.
func ForLatestEntityByID(id uuid.UUID) Filter[EntityPath] {
	return All(
		ForAllLatestEntities(),
		PathEquals(EntityPath{Field: FieldUUID}, UUID(id)),
	)
}

// ForLinksByLeftEntity selects links whose left endpoint is entity id.
func ForLinksByLeftEntity(id uuid.UUID) Filter[LinkPath] {
	return PathEquals(
		LinkPath{Field: FieldLeftEntity, Entity: &EntityPath{Field: FieldUUID}},
		UUID(id),
	)
}

// ForLinksByRightEntity selects links whose right endpoint is entity id.
func ForLinksByRightEntity(id uuid.UUID) Filter[LinkPath] {
	return PathEquals(
		LinkPath{Field: FieldRightEntity, Entity: &EntityPath{Field: FieldUUID}},
		UUID(id),
	)
}
