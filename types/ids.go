package types

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/teranos/ontograph/errors"
)

// BaseID is the stable identifier shared by every version of a record.
// Ontology base ids are absolute URLs ending in '/'; entity and link
// base ids are UUIDs.
type BaseID string

// Version counts revisions of a BaseID, starting at 1.
type Version uint32

// MaxVersion is the last version a base id can reach.
const MaxVersion Version = math.MaxUint32

// versionSeparator joins a base id and its version in textual form.
const versionSeparator = "v/"

// VersionedID identifies exactly one immutable revision.
type VersionedID struct {
	BaseID  BaseID
	Version Version
}

// NewVersionedID builds a VersionedID.
func NewVersionedID(base BaseID, version Version) VersionedID {
	return VersionedID{BaseID: base, Version: version}
}

// EntityBaseID returns the base id of an entity or link.
func EntityBaseID(id uuid.UUID) BaseID {
	return BaseID(id.String())
}

// String renders the id as "<base>v/<version>".
func (id VersionedID) String() string {
	return string(id.BaseID) + versionSeparator + strconv.FormatUint(uint64(id.Version), 10)
}

// IsZero reports whether id is unset.
func (id VersionedID) IsZero() bool {
	return id.BaseID == "" && id.Version == 0
}

// Next returns the id of the revision following id. It wraps to 0 after
// MaxVersion; store.CheckSuccessor guards updates against that.
func (id VersionedID) Next() VersionedID {
	return VersionedID{BaseID: id.BaseID, Version: id.Version + 1}
}

// ParseVersionedID is the inverse of VersionedID.String.
func ParseVersionedID(s string) (VersionedID, error) {
	idx := strings.LastIndex(s, versionSeparator)
	if idx <= 0 {
		return VersionedID{}, errors.Newf("versioned id %q has no %q separator", s, versionSeparator)
	}
	version, err := strconv.ParseUint(s[idx+len(versionSeparator):], 10, 32)
	if err != nil {
		return VersionedID{}, errors.Wrapf(err, "versioned id %q has an invalid version", s)
	}
	if version == 0 {
		return VersionedID{}, errors.Newf("versioned id %q: versions start at 1", s)
	}
	return VersionedID{BaseID: BaseID(s[:idx]), Version: Version(version)}, nil
}

// MarshalJSON encodes the textual form.
func (id VersionedID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

// UnmarshalJSON decodes the textual form.
func (id *VersionedID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Wrap(err, "versioned id must be a string")
	}
	parsed, err := ParseVersionedID(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// MarshalText lets VersionedID key JSON maps.
func (id VersionedID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}
