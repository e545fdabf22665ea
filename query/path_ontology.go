package query

import "github.com/teranos/ontograph/types"

// DataTypePath addresses a field of a data type.
type DataTypePath struct {
	Field Field
}

func (p DataTypePath) RecordKind() types.RecordKind { return types.KindDataType }
func (p DataTypePath) Tokens() []string             { return []string{string(p.Field)} }
func (p DataTypePath) String() string               { return string(p.Field) }

func (p DataTypePath) ExpectedType() ParameterType {
	if p.Field == FieldType {
		return TypeText
	}
	t, _ := ontologyFieldType(p.Field)
	return t
}

func (p *DataTypePath) parseTokens(tokens []string) error {
	field, err := parseLeaf(types.KindDataType, tokens, func(f Field) bool {
		_, ok := ontologyFieldType(f)
		return ok || f == FieldType
	})
	if err != nil {
		return err
	}
	*p = DataTypePath{Field: field}
	return nil
}

// PropertyTypePath addresses a field of a property type. DataType and
// PropertyType hold the tail after a dataTypes or propertyTypes token.
type PropertyTypePath struct {
	Field        Field
	DataType     *DataTypePath
	PropertyType *PropertyTypePath
}

func (p PropertyTypePath) RecordKind() types.RecordKind { return types.KindPropertyType }

func (p PropertyTypePath) Tokens() []string {
	switch p.Field {
	case FieldDataTypes:
		return nestedTokens(p.Field, p.DataType)
	case FieldPropertyTypes:
		return nestedTokens(p.Field, p.PropertyType)
	}
	return []string{string(p.Field)}
}

func (p PropertyTypePath) String() string { return joinTokens(p.Tokens()) }

func (p PropertyTypePath) ExpectedType() ParameterType {
	switch p.Field {
	case FieldDataTypes:
		if p.DataType != nil {
			return p.DataType.ExpectedType()
		}
		return TypeVersionedID
	case FieldPropertyTypes:
		if p.PropertyType != nil {
			return p.PropertyType.ExpectedType()
		}
		return TypeVersionedID
	}
	t, _ := ontologyFieldType(p.Field)
	return t
}

func (p *PropertyTypePath) parseTokens(tokens []string) error {
	switch Field(tokens[0]) {
	case FieldDataTypes:
		nested, err := parseNested[DataTypePath](tokens[1:])
		if err != nil {
			return err
		}
		*p = PropertyTypePath{Field: FieldDataTypes, DataType: nested}
		return nil
	case FieldPropertyTypes:
		nested, err := parseNested[PropertyTypePath](tokens[1:])
		if err != nil {
			return err
		}
		*p = PropertyTypePath{Field: FieldPropertyTypes, PropertyType: nested}
		return nil
	}

	field, err := parseLeaf(types.KindPropertyType, tokens, func(f Field) bool {
		_, ok := ontologyFieldType(f)
		return ok
	})
	if err != nil {
		return err
	}
	*p = PropertyTypePath{Field: field}
	return nil
}

// EntityTypePath addresses a field of an entity type. Property holds the
// tail after a properties token; EntityType the tail after inheritsFrom,
// links or linkDestinations.
type EntityTypePath struct {
	Field      Field
	Property   *PropertyTypePath
	EntityType *EntityTypePath
}

func (p EntityTypePath) RecordKind() types.RecordKind { return types.KindEntityType }

func (p EntityTypePath) Tokens() []string {
	switch p.Field {
	case FieldProperties:
		return nestedTokens(p.Field, p.Property)
	case FieldInheritsFrom, FieldLinks, FieldLinkDestinations:
		return nestedTokens(p.Field, p.EntityType)
	}
	return []string{string(p.Field)}
}

func (p EntityTypePath) String() string { return joinTokens(p.Tokens()) }

func (p EntityTypePath) ExpectedType() ParameterType {
	switch p.Field {
	case FieldProperties:
		if p.Property != nil {
			return p.Property.ExpectedType()
		}
		return TypeVersionedID
	case FieldInheritsFrom, FieldLinks, FieldLinkDestinations:
		if p.EntityType != nil {
			return p.EntityType.ExpectedType()
		}
		return TypeVersionedID
	case FieldLabelProperty:
		return TypeBaseID
	}
	t, _ := ontologyFieldType(p.Field)
	return t
}

func (p *EntityTypePath) parseTokens(tokens []string) error {
	switch field := Field(tokens[0]); field {
	case FieldProperties:
		nested, err := parseNested[PropertyTypePath](tokens[1:])
		if err != nil {
			return err
		}
		*p = EntityTypePath{Field: field, Property: nested}
		return nil
	case FieldInheritsFrom, FieldLinks, FieldLinkDestinations:
		nested, err := parseNested[EntityTypePath](tokens[1:])
		if err != nil {
			return err
		}
		*p = EntityTypePath{Field: field, EntityType: nested}
		return nil
	}

	field, err := parseLeaf(types.KindEntityType, tokens, func(f Field) bool {
		_, ok := ontologyFieldType(f)
		return ok || f == FieldLabelProperty
	})
	if err != nil {
		return err
	}
	*p = EntityTypePath{Field: field}
	return nil
}
