package types

import "github.com/teranos/ontograph/errors"

// RecordKind names one of the record families held by the store.
type RecordKind string

const (
	KindDataType     RecordKind = "dataType"
	KindPropertyType RecordKind = "propertyType"
	KindEntityType   RecordKind = "entityType"
	KindEntity       RecordKind = "entity"
	KindLink         RecordKind = "link"
)

// RecordKinds lists every kind in a stable order.
var RecordKinds = []RecordKind{KindDataType, KindPropertyType, KindEntityType, KindEntity, KindLink}

// IsOntology reports whether records of this kind are ontology elements.
func (k RecordKind) IsOntology() bool {
	return k == KindDataType || k == KindPropertyType || k == KindEntityType
}

// ParseRecordKind accepts both the camelCase kind and its REST resource name.
func ParseRecordKind(s string) (RecordKind, error) {
	switch s {
	case "dataType", "data-types", "data-type":
		return KindDataType, nil
	case "propertyType", "property-types", "property-type":
		return KindPropertyType, nil
	case "entityType", "entity-types", "entity-type":
		return KindEntityType, nil
	case "entity", "entities":
		return KindEntity, nil
	case "link", "links":
		return KindLink, nil
	}
	return "", errors.Newf("unknown record kind %q", s)
}

// Resource returns the REST resource name for the kind.
func (k RecordKind) Resource() string {
	switch k {
	case KindDataType:
		return "data-types"
	case KindPropertyType:
		return "property-types"
	case KindEntityType:
		return "entity-types"
	case KindEntity:
		return "entities"
	case KindLink:
		return "links"
	}
	return string(k)
}

// EdgeKind names a typed relation between two records.
type EdgeKind string

const (
	EdgeInheritsFrom                 EdgeKind = "inheritsFrom"
	EdgeConstrainsValuesOn           EdgeKind = "constrainsValuesOn"
	EdgeConstrainsPropertiesOn       EdgeKind = "constrainsPropertiesOn"
	EdgeConstrainsLinksOn            EdgeKind = "constrainsLinksOn"
	EdgeConstrainsLinkDestinationsOn EdgeKind = "constrainsLinkDestinationsOn"
	EdgeIsOfType                     EdgeKind = "isOfType"
	EdgeHasLeftEntity                EdgeKind = "hasLeftEntity"
	EdgeHasRightEntity               EdgeKind = "hasRightEntity"
)

// EdgeKinds lists every edge kind in a stable order.
var EdgeKinds = []EdgeKind{
	EdgeInheritsFrom,
	EdgeConstrainsValuesOn,
	EdgeConstrainsPropertiesOn,
	EdgeConstrainsLinksOn,
	EdgeConstrainsLinkDestinationsOn,
	EdgeIsOfType,
	EdgeHasLeftEntity,
	EdgeHasRightEntity,
}

// ParseEdgeKind accepts the camelCase name of an edge kind.
func ParseEdgeKind(s string) (EdgeKind, error) {
	for _, k := range EdgeKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", errors.Newf("unknown edge kind %q", s)
}

// Reference is an outgoing edge declared by a record.
// A nil Version points at whatever the latest version of Target is.
type Reference struct {
	Kind    EdgeKind
	Target  BaseID
	Version *Version
}

// TargetID returns the pinned target, or false for latest-version references.
func (r Reference) TargetID() (VersionedID, bool) {
	if r.Version == nil {
		return VersionedID{}, false
	}
	return VersionedID{BaseID: r.Target, Version: *r.Version}, true
}

func pinned(kind EdgeKind, id VersionedID) Reference {
	v := id.Version
	return Reference{Kind: kind, Target: id.BaseID, Version: &v}
}

func latest(kind EdgeKind, base BaseID) Reference {
	return Reference{Kind: kind, Target: base}
}
