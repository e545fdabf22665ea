// Package query holds the filter algebra used to select records: typed
// query paths per record kind, loosely typed parameters, the coercion that
// reconciles the two, and the wire and text forms filters arrive in.
package query

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/google/uuid"

	"github.com/teranos/ontograph/errors"
)

// Parameter is a leaf value in a filter. The set of implementations is closed.
type Parameter interface {
	String() string
	parameter()
}

// Boolean is a boolean parameter.
type Boolean bool

// Number is a numeric parameter as it arrives on the wire.
type Number float64

// Text is a string parameter.
type Text string

// UUID is produced by coercing Text against a Uuid path.
type UUID uuid.UUID

// SignedInteger is produced by coercing Number against an UnsignedInteger path.
type SignedInteger int64

func (Boolean) parameter()       {}
func (Number) parameter()        {}
func (Text) parameter()          {}
func (UUID) parameter()          {}
func (SignedInteger) parameter() {}

func (b Boolean) String() string       { return strconv.FormatBool(bool(b)) }
func (n Number) String() string        { return strconv.FormatFloat(float64(n), 'g', -1, 64) }
func (t Text) String() string          { return string(t) }
func (u UUID) String() string          { return uuid.UUID(u).String() }
func (i SignedInteger) String() string { return strconv.FormatInt(int64(i), 10) }

// ParameterType is the type a path expects its parameter to have.
type ParameterType int

const (
	TypeAny ParameterType = iota
	TypeBoolean
	TypeNumber
	TypeText
	TypeBaseID
	TypeVersionedID
	TypeUUID
	TypeUnsignedInteger
	TypeTimestamp
)

func (t ParameterType) String() string {
	switch t {
	case TypeAny:
		return "Any"
	case TypeBoolean:
		return "Boolean"
	case TypeNumber:
		return "Number"
	case TypeText:
		return "Text"
	case TypeBaseID:
		return "BaseId"
	case TypeVersionedID:
		return "VersionedId"
	case TypeUUID:
		return "Uuid"
	case TypeUnsignedInteger:
		return "UnsignedInteger"
	case TypeTimestamp:
		return "Timestamp"
	}
	return "ParameterType(" + strconv.Itoa(int(t)) + ")"
}

// parameterValue returns the JSON value a parameter encodes as.
func parameterValue(p Parameter) any {
	switch v := p.(type) {
	case Boolean:
		return bool(v)
	case Number:
		return float64(v)
	case Text:
		return string(v)
	case UUID:
		return uuid.UUID(v).String()
	case SignedInteger:
		return int64(v)
	}
	return nil
}

// decodeParameter accepts a JSON boolean, number or string. Uuids and
// integers never come off the wire; they only appear after coercion.
func decodeParameter(data []byte) (Parameter, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, errors.MarkDeserialization(errors.New("parameter must not be null"))
	}

	var value any
	if err := json.Unmarshal(trimmed, &value); err != nil {
		return nil, errors.MarkDeserialization(errors.Wrap(err, "decode parameter"))
	}
	switch v := value.(type) {
	case bool:
		return Boolean(v), nil
	case float64:
		return Number(v), nil
	case string:
		return Text(v), nil
	}
	return nil, errors.MarkDeserialization(errors.Newf("parameter must be a boolean, number or string, got %s", trimmed))
}
