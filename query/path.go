package query

import (
	"fmt"
	"strings"

	"github.com/teranos/ontograph/errors"
	"github.com/teranos/ontograph/types"
)

// Path addresses a value on a record, possibly through references to
// other records.
type Path interface {
	// ExpectedType is the type a parameter compared against this path must have.
	ExpectedType() ParameterType
	RecordKind() types.RecordKind
	Tokens() []string
	String() string
}

// Field is the first token of a path.
type Field string

// Fields shared by every record kind.
const (
	FieldVersion      Field = "version"
	FieldVersionedID  Field = "versionedId"
	FieldOwnedByID    Field = "ownedById"
	FieldCreatedByID  Field = "recordCreatedById"
	FieldArchivedByID Field = "recordArchivedById"
	FieldArchived     Field = "archived"
	FieldCreatedAt    Field = "createdAt"
)

// Ontology fields.
const (
	FieldBaseID           Field = "baseId"
	FieldTitle            Field = "title"
	FieldDescription      Field = "description"
	FieldType             Field = "type"
	FieldDataTypes        Field = "dataTypes"
	FieldPropertyTypes    Field = "propertyTypes"
	FieldProperties       Field = "properties"
	FieldInheritsFrom     Field = "inheritsFrom"
	FieldLinks            Field = "links"
	FieldLinkDestinations Field = "linkDestinations"
	FieldLabelProperty    Field = "labelProperty"
)

// Knowledge fields.
const (
	FieldUUID        Field = "uuid"
	FieldLeftEntity  Field = "leftEntity"
	FieldRightEntity Field = "rightEntity"
)

// metadataFieldType reports the type of the fields every kind shares.
func metadataFieldType(f Field) (ParameterType, bool) {
	switch f {
	case FieldVersion:
		return TypeUnsignedInteger, true
	case FieldVersionedID:
		return TypeVersionedID, true
	case FieldOwnedByID, FieldCreatedByID, FieldArchivedByID:
		return TypeUUID, true
	case FieldArchived:
		return TypeBoolean, true
	case FieldCreatedAt:
		return TypeTimestamp, true
	}
	return TypeAny, false
}

// ontologyFieldType covers the fields all ontology kinds share.
func ontologyFieldType(f Field) (ParameterType, bool) {
	switch f {
	case FieldBaseID:
		return TypeBaseID, true
	case FieldTitle, FieldDescription:
		return TypeText, true
	}
	return metadataFieldType(f)
}

// UnknownTokenError is returned when a path token is not valid at its position.
type UnknownTokenError struct {
	Kind  types.RecordKind
	Token string
	Path  []string
}

func (e *UnknownTokenError) Error() string {
	return fmt.Sprintf("unknown %s path token %q in %q", e.Kind, e.Token, strings.Join(e.Path, "."))
}

func (e *UnknownTokenError) Unwrap() error { return errors.ErrDeserialization }

// tokenParser is implemented by pointers to every concrete path type.
type tokenParser interface {
	parseTokens(tokens []string) error
}

// ParsePath builds a path of type P from its token form.
func ParsePath[P Path](tokens []string) (P, error) {
	var p P
	parser, ok := any(&p).(tokenParser)
	if !ok {
		return p, errors.AssertionFailedf("path type %T cannot be parsed", p)
	}
	if len(tokens) == 0 {
		return p, errors.MarkDeserialization(errors.New("path must have at least one token"))
	}
	if err := parser.parseTokens(tokens); err != nil {
		return p, err
	}
	return p, nil
}

// MustParsePath is ParsePath for paths known to be valid.
func MustParsePath[P Path](tokens ...string) P {
	p, err := ParsePath[P](tokens)
	if err != nil {
		panic(err)
	}
	return p
}

// parseLeaf accepts a single token that is valid for the kind.
func parseLeaf(kind types.RecordKind, tokens []string, valid func(Field) bool) (Field, error) {
	field := Field(tokens[0])
	if !valid(field) {
		return "", &UnknownTokenError{Kind: kind, Token: tokens[0], Path: tokens}
	}
	if len(tokens) > 1 {
		return "", &UnknownTokenError{Kind: kind, Token: tokens[1], Path: tokens}
	}
	return field, nil
}

// parseNested parses the tail after a reference token. An empty tail
// leaves the target nil, addressing the target's identity.
func parseNested[P Path](tail []string) (*P, error) {
	if len(tail) == 0 {
		return nil, nil
	}
	nested, err := ParsePath[P](tail)
	if err != nil {
		return nil, err
	}
	return &nested, nil
}

// propertyKey parses `properties.<key>`.
func propertyKey(kind types.RecordKind, tokens []string) (string, error) {
	if len(tokens) != 2 || tokens[1] == "" {
		return "", &UnknownTokenError{Kind: kind, Token: strings.Join(tokens[1:], "."), Path: tokens}
	}
	return tokens[1], nil
}

// nestedTokens renders a reference token followed by its target's tail.
func nestedTokens[P Path](field Field, nested *P) []string {
	if nested == nil {
		return []string{string(field)}
	}
	return append([]string{string(field)}, (*nested).Tokens()...)
}

func joinTokens(tokens []string) string {
	return strings.Join(tokens, ".")
}
