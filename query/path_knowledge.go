package query

import "github.com/teranos/ontograph/types"

// knowledgeFieldType covers the fields entities and links share.
func knowledgeFieldType(f Field) (ParameterType, bool) {
	if f == FieldUUID {
		return TypeUUID, true
	}
	return metadataFieldType(f)
}

// EntityPath addresses a field of an entity. Type holds the tail after a
// type token; PropertyKey names the property after a properties token.
type EntityPath struct {
	Field       Field
	Type        *EntityTypePath
	PropertyKey string
}

func (p EntityPath) RecordKind() types.RecordKind { return types.KindEntity }

func (p EntityPath) Tokens() []string {
	switch p.Field {
	case FieldType:
		return nestedTokens(p.Field, p.Type)
	case FieldProperties:
		return []string{string(p.Field), p.PropertyKey}
	}
	return []string{string(p.Field)}
}

func (p EntityPath) String() string { return joinTokens(p.Tokens()) }

func (p EntityPath) ExpectedType() ParameterType {
	switch p.Field {
	case FieldType:
		if p.Type != nil {
			return p.Type.ExpectedType()
		}
		return TypeVersionedID
	case FieldProperties:
		return TypeAny
	}
	t, _ := knowledgeFieldType(p.Field)
	return t
}

func (p *EntityPath) parseTokens(tokens []string) error {
	switch field := Field(tokens[0]); field {
	case FieldType:
		nested, err := parseNested[EntityTypePath](tokens[1:])
		if err != nil {
			return err
		}
		*p = EntityPath{Field: field, Type: nested}
		return nil
	case FieldProperties:
		key, err := propertyKey(types.KindEntity, tokens)
		if err != nil {
			return err
		}
		*p = EntityPath{Field: field, PropertyKey: key}
		return nil
	}

	field, err := parseLeaf(types.KindEntity, tokens, func(f Field) bool {
		_, ok := knowledgeFieldType(f)
		return ok
	})
	if err != nil {
		return err
	}
	*p = EntityPath{Field: field}
	return nil
}

// LinkPath addresses a field of a link. Entity holds the tail after a
// leftEntity or rightEntity token.
type LinkPath struct {
	Field       Field
	Type        *EntityTypePath
	Entity      *EntityPath
	PropertyKey string
}

func (p LinkPath) RecordKind() types.RecordKind { return types.KindLink }

func (p LinkPath) Tokens() []string {
	switch p.Field {
	case FieldType:
		return nestedTokens(p.Field, p.Type)
	case FieldLeftEntity, FieldRightEntity:
		return nestedTokens(p.Field, p.Entity)
	case FieldProperties:
		return []string{string(p.Field), p.PropertyKey}
	}
	return []string{string(p.Field)}
}

func (p LinkPath) String() string { return joinTokens(p.Tokens()) }

func (p LinkPath) ExpectedType() ParameterType {
	switch p.Field {
	case FieldType:
		if p.Type != nil {
			return p.Type.ExpectedType()
		}
		return TypeVersionedID
	case FieldLeftEntity, FieldRightEntity:
		if p.Entity != nil {
			return p.Entity.ExpectedType()
		}
		return TypeUUID
	case FieldProperties:
		return TypeAny
	}
	t, _ := knowledgeFieldType(p.Field)
	return t
}

func (p *LinkPath) parseTokens(tokens []string) error {
	switch field := Field(tokens[0]); field {
	case FieldType:
		nested, err := parseNested[EntityTypePath](tokens[1:])
		if err != nil {
			return err
		}
		*p = LinkPath{Field: field, Type: nested}
		return nil
	case FieldLeftEntity, FieldRightEntity:
		nested, err := parseNested[EntityPath](tokens[1:])
		if err != nil {
			return err
		}
		*p = LinkPath{Field: field, Entity: nested}
		return nil
	case FieldProperties:
		key, err := propertyKey(types.KindLink, tokens)
		if err != nil {
			return err
		}
		*p = LinkPath{Field: field, PropertyKey: key}
		return nil
	}

	field, err := parseLeaf(types.KindLink, tokens, func(f Field) bool {
		_, ok := knowledgeFieldType(f)
		return ok
	})
	if err != nil {
		return err
	}
	*p = LinkPath{Field: field}
	return nil
}
