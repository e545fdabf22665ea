package sqlstore

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/teranos/ontograph/errors"
	"github.com/teranos/ontograph/query"
	"github.com/teranos/ontograph/types"
)

// rootAlias is the alias of the records table in root lookups.
const rootAlias = "r"

// leaf is the field a path ends on, on a record of kind.
type leaf struct {
	kind  types.RecordKind
	field query.Field
	key   string
}

// resolvedPath is a path flattened into the edges it follows and the
// field it ends on.
type resolvedPath struct {
	hops []types.EdgeKind
	leaf leaf
}

func identityLeaf(kind types.RecordKind) leaf {
	if kind.IsOntology() {
		return leaf{kind: kind, field: query.FieldVersionedID}
	}
	return leaf{kind: kind, field: query.FieldUUID}
}

func through[P query.Path](edge types.EdgeKind, target types.RecordKind, nested *P) (resolvedPath, error) {
	if nested == nil {
		return resolvedPath{hops: []types.EdgeKind{edge}, leaf: identityLeaf(target)}, nil
	}
	inner, err := resolvePath(*nested)
	if err != nil {
		return resolvedPath{}, err
	}
	return resolvedPath{hops: append([]types.EdgeKind{edge}, inner.hops...), leaf: inner.leaf}, nil
}

func resolvePath(p query.Path) (resolvedPath, error) {
	switch path := p.(type) {
	case query.DataTypePath:
		return resolvedPath{leaf: leaf{kind: types.KindDataType, field: path.Field}}, nil
	case query.PropertyTypePath:
		switch path.Field {
		case query.FieldDataTypes:
			return through(types.EdgeConstrainsValuesOn, types.KindDataType, path.DataType)
		case query.FieldPropertyTypes:
			return through(types.EdgeConstrainsPropertiesOn, types.KindPropertyType, path.PropertyType)
		}
		return resolvedPath{leaf: leaf{kind: types.KindPropertyType, field: path.Field}}, nil
	case query.EntityTypePath:
		switch path.Field {
		case query.FieldProperties:
			return through(types.EdgeConstrainsPropertiesOn, types.KindPropertyType, path.Property)
		case query.FieldInheritsFrom:
			return through(types.EdgeInheritsFrom, types.KindEntityType, path.EntityType)
		case query.FieldLinks:
			return through(types.EdgeConstrainsLinksOn, types.KindEntityType, path.EntityType)
		case query.FieldLinkDestinations:
			return through(types.EdgeConstrainsLinkDestinationsOn, types.KindEntityType, path.EntityType)
		}
		return resolvedPath{leaf: leaf{kind: types.KindEntityType, field: path.Field}}, nil
	case query.EntityPath:
		if path.Field == query.FieldType {
			return through(types.EdgeIsOfType, types.KindEntityType, path.Type)
		}
		return resolvedPath{leaf: leaf{kind: types.KindEntity, field: path.Field, key: path.PropertyKey}}, nil
	case query.LinkPath:
		switch path.Field {
		case query.FieldType:
			return through(types.EdgeIsOfType, types.KindEntityType, path.Type)
		case query.FieldLeftEntity:
			return through(types.EdgeHasLeftEntity, types.KindEntity, path.Entity)
		case query.FieldRightEntity:
			return through(types.EdgeHasRightEntity, types.KindEntity, path.Entity)
		}
		return resolvedPath{leaf: leaf{kind: types.KindLink, field: path.Field, key: path.PropertyKey}}, nil
	}
	return resolvedPath{}, errors.AssertionFailedf("cannot compile path of type %T", p)
}

// compiler turns a filter into a SQL condition, collecting bind arguments
// in the order their placeholders appear.
type compiler struct {
	args    []any
	aliases int
}

// compileRoots builds the statement selecting the versioned ids of records
// of kind matching f.
func compileRoots(kind types.RecordKind, f query.Filter[query.Path]) (string, []any, error) {
	c := &compiler{args: []any{string(kind)}}
	cond, err := c.filter(kind, f, rootAlias)
	if err != nil {
		return "", nil, err
	}
	stmt := fmt.Sprintf(
		"SELECT %[1]s.base_id, %[1]s.version FROM records %[1]s WHERE %[1]s.kind = ? AND (%[2]s) ORDER BY %[1]s.base_id, %[1]s.version",
		rootAlias, cond,
	)
	return stmt, c.args, nil
}

func (c *compiler) alias(prefix string) string {
	c.aliases++
	return prefix + strconv.Itoa(c.aliases)
}

func (c *compiler) filter(kind types.RecordKind, f query.Filter[query.Path], alias string) (string, error) {
	switch f.Op {
	case query.OpAll, query.OpAny:
		if len(f.Filters) == 0 {
			if f.Op == query.OpAll {
				return "1=1", nil
			}
			return "1=0", nil
		}
		parts := make([]string, 0, len(f.Filters))
		for _, sub := range f.Filters {
			cond, err := c.filter(kind, sub, alias)
			if err != nil {
				return "", err
			}
			parts = append(parts, "("+cond+")")
		}
		joiner := " AND "
		if f.Op == query.OpAny {
			joiner = " OR "
		}
		return strings.Join(parts, joiner), nil
	case query.OpNot:
		if f.Negated == nil {
			return "", errors.MarkDeserialization(errors.New("not without a filter"))
		}
		cond, err := c.filter(kind, *f.Negated, alias)
		if err != nil {
			return "", err
		}
		return "NOT (" + cond + ")", nil
	case query.OpEqual, query.OpNotEqual:
		return c.comparison(kind, f.Op == query.OpEqual, f.LHS, f.RHS, alias)
	}
	return "", errors.AssertionFailedf("unknown filter operator %d", f.Op)
}

func (c *compiler) comparison(kind types.RecordKind, equal bool, lhs, rhs *query.FilterExpression[query.Path], alias string) (string, error) {
	if !lhs.IsPath() && rhs.IsPath() {
		lhs, rhs = rhs, lhs
	}
	for _, side := range []*query.FilterExpression[query.Path]{lhs, rhs} {
		if side.IsPath() && (*side.Path).RecordKind() != kind {
			return "", errors.MarkDeserialization(errors.Newf("path %s does not address a %s", *side.Path, kind))
		}
	}

	switch {
	case lhs == nil && rhs == nil:
		return truth(equal), nil
	case rhs == nil:
		if lhs.IsPath() {
			return c.nullCheck(*lhs.Path, equal, alias)
		}
		// a parameter is never null
		return truth(!equal), nil
	case lhs.IsPath() && rhs.IsPath():
		return c.pathPath(*lhs.Path, *rhs.Path, equal, alias)
	case lhs.IsPath():
		return c.pathParameter(*lhs.Path, rhs.Parameter, equal, alias)
	}
	c.args = append(c.args, bindValue(lhs.Parameter), bindValue(rhs.Parameter))
	return "? " + operator(equal) + " ?", nil
}

func (c *compiler) nullCheck(p query.Path, isNull bool, alias string) (string, error) {
	resolved, err := resolvePath(p)
	if err != nil {
		return "", err
	}
	if len(resolved.hops) == 0 {
		col, err := c.column(alias, resolved.leaf)
		if err != nil {
			return "", err
		}
		if isNull {
			return col + " IS NULL", nil
		}
		return col + " IS NOT NULL", nil
	}

	// Through references a path has a value when any reachable target has one.
	exists, err := c.chain(resolved.hops, alias, func(target string) (string, error) {
		col, err := c.column(target, resolved.leaf)
		if err != nil {
			return "", err
		}
		return col + " IS NOT NULL", nil
	})
	if err != nil {
		return "", err
	}
	if isNull {
		return "NOT " + exists, nil
	}
	return exists, nil
}

func (c *compiler) pathParameter(p query.Path, param query.Parameter, equal bool, alias string) (string, error) {
	resolved, err := resolvePath(p)
	if err != nil {
		return "", err
	}
	compare := func(target string) (string, error) {
		if resolved.leaf.field == query.FieldVersion && param == query.LatestVersion {
			return fmt.Sprintf("%[1]s.version %[2]s (SELECT MAX(%[3]s.version) FROM records %[3]s WHERE %[3]s.base_id = %[1]s.base_id)",
				target, operator(equal), c.alias("m")), nil
		}
		col, err := c.column(target, resolved.leaf)
		if err != nil {
			return "", err
		}
		c.args = append(c.args, bindValue(param))
		return col + " " + operator(equal) + " ?", nil
	}

	if len(resolved.hops) == 0 {
		return compare(alias)
	}
	return c.chain(resolved.hops, alias, compare)
}

func (c *compiler) pathPath(lhs, rhs query.Path, equal bool, alias string) (string, error) {
	left, err := resolvePath(lhs)
	if err != nil {
		return "", err
	}
	right, err := resolvePath(rhs)
	if err != nil {
		return "", err
	}
	if len(left.hops) > 0 || len(right.hops) > 0 {
		return "", errors.Wrapf(query.ErrUnsupportedExpression, "comparing %s with %s: only fields of the record itself can be compared", lhs, rhs)
	}
	l, err := c.column(alias, left.leaf)
	if err != nil {
		return "", err
	}
	r, err := c.column(alias, right.leaf)
	if err != nil {
		return "", err
	}
	return l + " " + operator(equal) + " " + r, nil
}

// chain wraps inner in an EXISTS that follows hops outward from alias.
// References without a pinned version resolve to the target's latest version.
func (c *compiler) chain(hops []types.EdgeKind, alias string, inner func(target string) (string, error)) (string, error) {
	edge, target, latest := c.alias("e"), c.alias("t"), c.alias("m")
	c.args = append(c.args, string(hops[0]))

	var (
		cond string
		err  error
	)
	if len(hops) == 1 {
		cond, err = inner(target)
	} else {
		cond, err = c.chain(hops[1:], target, inner)
	}
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(
		"EXISTS (SELECT 1 FROM record_edges %[1]s JOIN records %[2]s ON %[2]s.base_id = %[1]s.target_base_id"+
			" AND %[2]s.version = COALESCE(%[1]s.target_version, (SELECT MAX(%[3]s.version) FROM records %[3]s WHERE %[3]s.base_id = %[1]s.target_base_id))"+
			" WHERE %[1]s.source_base_id = %[4]s.base_id AND %[1]s.source_version = %[4]s.version AND %[1]s.edge_kind = ? AND (%[5]s))",
		edge, target, latest, alias, cond,
	), nil
}

// column maps a leaf to the SQL expression holding its value.
func (c *compiler) column(alias string, l leaf) (string, error) {
	switch l.field {
	case query.FieldBaseID, query.FieldUUID:
		return alias + ".base_id", nil
	case query.FieldVersion:
		return alias + ".version", nil
	case query.FieldVersionedID:
		return "(" + alias + ".base_id || 'v/' || " + alias + ".version)", nil
	case query.FieldOwnedByID:
		return alias + ".owned_by_id", nil
	case query.FieldCreatedByID:
		return alias + ".created_by_id", nil
	case query.FieldArchivedByID:
		return alias + ".archived_by_id", nil
	case query.FieldArchived:
		return alias + ".archived", nil
	case query.FieldCreatedAt:
		return alias + ".created_at", nil
	case query.FieldTitle:
		return alias + ".title", nil
	case query.FieldDescription:
		return alias + ".description", nil
	case query.FieldType:
		return alias + ".json_type", nil
	case query.FieldLabelProperty:
		return alias + ".label_property", nil
	case query.FieldProperties:
		c.args = append(c.args, jsonPath(l.key))
		return "json_extract(" + alias + ".properties, ?)", nil
	}
	return "", errors.AssertionFailedf("no column for %s field %q", l.kind, l.field)
}

// jsonPath quotes key as a single JSON path member.
func jsonPath(key string) string {
	return `$."` + strings.ReplaceAll(key, `"`, `\"`) + `"`
}

func bindValue(p query.Parameter) any {
	switch v := p.(type) {
	case query.Boolean:
		if v {
			return 1
		}
		return 0
	case query.Number:
		return float64(v)
	case query.Text:
		return string(v)
	case query.UUID:
		return v.String()
	case query.SignedInteger:
		return int64(v)
	}
	return nil
}

func operator(equal bool) string {
	if equal {
		return "="
	}
	return "!="
}

func truth(b bool) string {
	if b {
		return "1=1"
	}
	return "1=0"
}
