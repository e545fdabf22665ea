package query

import (
	"github.com/teranos/ontograph/errors"
)

// ErrUnsupportedExpression is returned for expressions that have no
// filter equivalent. It classifies as a deserialization failure.
var ErrUnsupportedExpression = errors.Mark(errors.New("unsupported expression"), errors.ErrDeserialization)

// Expression is a node of the intermediate form filters can be built from.
type Expression interface {
	expression()
}

// EqExpr compares its operands for equality.
type EqExpr struct{ Operands []Expression }

// NeExpr compares its operands for inequality.
type NeExpr struct{ Operands []Expression }

// AllExpr is a conjunction.
type AllExpr struct{ Expressions []Expression }

// AnyExpr is a disjunction.
type AnyExpr struct{ Expressions []Expression }

// LiteralExpr is a constant. Value is nil, bool, float64 or string; any
// other value is a composite the filter algebra cannot express.
type LiteralExpr struct{ Value any }

// PathExpr addresses a path by its tokens.
type PathExpr struct{ Tokens []string }

// FieldExpr is a bare identifier.
type FieldExpr struct{ Name string }

func (EqExpr) expression()      {}
func (NeExpr) expression()      {}
func (AllExpr) expression()     {}
func (AnyExpr) expression()     {}
func (LiteralExpr) expression() {}
func (PathExpr) expression()    {}
func (FieldExpr) expression()   {}

// FromExpression converts an expression tree into a filter over P.
//
// A comparison with more than two operands becomes the conjunction of
// comparisons between adjacent operands, so Eq(a, b, c) is a=b and b=c,
// and Ne(a, b, c) is a!=b and b!=c (which does not imply a!=c).
func FromExpression[P Path](expr Expression) (Filter[P], error) {
	switch e := expr.(type) {
	case EqExpr:
		return comparison[P](OpEqual, e.Operands)
	case NeExpr:
		return comparison[P](OpNotEqual, e.Operands)
	case AllExpr:
		filters, err := fromExpressions[P](e.Expressions)
		if err != nil {
			return Filter[P]{}, err
		}
		return All(filters...), nil
	case AnyExpr:
		filters, err := fromExpressions[P](e.Expressions)
		if err != nil {
			return Filter[P]{}, err
		}
		return Any(filters...), nil
	case nil:
		return Filter[P]{}, errors.Wrap(ErrUnsupportedExpression, "empty expression")
	}
	return Filter[P]{}, errors.Wrapf(ErrUnsupportedExpression, "%T outside a comparison", expr)
}

func fromExpressions[P Path](exprs []Expression) ([]Filter[P], error) {
	filters := make([]Filter[P], 0, len(exprs))
	for _, expr := range exprs {
		f, err := FromExpression[P](expr)
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}
	return filters, nil
}

func comparison[P Path](op Operator, operands []Expression) (Filter[P], error) {
	if len(operands) < 2 {
		return Filter[P]{}, errors.Wrapf(ErrUnsupportedExpression, "%s needs at least two operands, got %d", op, len(operands))
	}

	sides := make([]*FilterExpression[P], len(operands))
	for i, operand := range operands {
		side, err := operandFromExpression[P](operand)
		if err != nil {
			return Filter[P]{}, err
		}
		sides[i] = side
	}

	if len(sides) == 2 {
		return Filter[P]{Op: op, LHS: sides[0], RHS: sides[1]}, nil
	}
	pairs := make([]Filter[P], 0, len(sides)-1)
	for i := 0; i+1 < len(sides); i++ {
		pairs = append(pairs, Filter[P]{Op: op, LHS: cloneSide(sides[i]), RHS: cloneSide(sides[i+1])})
	}
	return All(pairs...), nil
}

// cloneSide copies a side so each comparison converts its own parameter.
func cloneSide[P Path](side *FilterExpression[P]) *FilterExpression[P] {
	if side == nil {
		return nil
	}
	c := *side
	return &c
}

func operandFromExpression[P Path](expr Expression) (*FilterExpression[P], error) {
	switch e := expr.(type) {
	case LiteralExpr:
		switch v := e.Value.(type) {
		case nil:
			return nil, nil
		case bool:
			return ParameterOperand[P](Boolean(v)), nil
		case float64:
			return ParameterOperand[P](Number(v)), nil
		case string:
			return ParameterOperand[P](Text(v)), nil
		}
		return nil, errors.Wrapf(ErrUnsupportedExpression, "composite literal %T", e.Value)
	case PathExpr:
		path, err := ParsePath[P](e.Tokens)
		if err != nil {
			return nil, err
		}
		return PathOperand(path), nil
	}
	return nil, errors.Wrapf(ErrUnsupportedExpression, "%T as a comparison operand", expr)
}
