package query

import (
	"fmt"
	"strings"

	"github.com/teranos/ontograph/errors"
)

// Operator selects the shape of a Filter node.
type Operator int

const (
	OpAll Operator = iota
	OpAny
	OpNot
	OpEqual
	OpNotEqual
)

func (o Operator) String() string {
	switch o {
	case OpAll:
		return "all"
	case OpAny:
		return "any"
	case OpNot:
		return "not"
	case OpEqual:
		return "equal"
	case OpNotEqual:
		return "notEqual"
	}
	return fmt.Sprintf("Operator(%d)", int(o))
}

// Filter is a predicate over records whose fields are addressed by P.
//
// All and Any use Filters, Not uses Negated, Equal and NotEqual compare
// LHS with RHS. A nil side stands for "no value", so Equal(path, nil) is a
// null check. All of nothing matches everything, Any of nothing matches
// nothing.
type Filter[P Path] struct {
	Op      Operator
	Filters []Filter[P]
	Negated *Filter[P]
	LHS     *FilterExpression[P]
	RHS     *FilterExpression[P]
}

// FilterExpression is one side of a comparison: exactly one of Path and
// Parameter is set.
type FilterExpression[P Path] struct {
	Path      *P
	Parameter Parameter
}

// IsPath reports whether the expression addresses a path.
func (e *FilterExpression[P]) IsPath() bool { return e != nil && e.Path != nil }

func (e *FilterExpression[P]) String() string {
	switch {
	case e == nil:
		return "null"
	case e.Path != nil:
		return "." + (*e.Path).String()
	case e.Parameter != nil:
		return fmt.Sprintf("%q", e.Parameter.String())
	}
	return "<empty>"
}

// All matches when every filter matches.
func All[P Path](filters ...Filter[P]) Filter[P] {
	return Filter[P]{Op: OpAll, Filters: filters}
}

// Any matches when at least one filter matches.
func Any[P Path](filters ...Filter[P]) Filter[P] {
	return Filter[P]{Op: OpAny, Filters: filters}
}

// Not negates f.
func Not[P Path](f Filter[P]) Filter[P] {
	return Filter[P]{Op: OpNot, Negated: &f}
}

// Equal compares two sides for equality.
func Equal[P Path](lhs, rhs *FilterExpression[P]) Filter[P] {
	return Filter[P]{Op: OpEqual, LHS: lhs, RHS: rhs}
}

// NotEqual compares two sides for inequality.
func NotEqual[P Path](lhs, rhs *FilterExpression[P]) Filter[P] {
	return Filter[P]{Op: OpNotEqual, LHS: lhs, RHS: rhs}
}

// PathOperand wraps a path as a comparison side.
func PathOperand[P Path](path P) *FilterExpression[P] {
	return &FilterExpression[P]{Path: &path}
}

// ParameterOperand wraps a parameter as a comparison side. The path type
// cannot be inferred and must be given explicitly.
func ParameterOperand[P Path](p Parameter) *FilterExpression[P] {
	return &FilterExpression[P]{Parameter: p}
}

// PathEquals matches records whose path equals p.
func PathEquals[P Path](path P, p Parameter) Filter[P] {
	return Equal(PathOperand(path), ParameterOperand[P](p))
}

// PathNotEquals matches records whose path differs from p.
func PathNotEquals[P Path](path P, p Parameter) Filter[P] {
	return NotEqual(PathOperand(path), ParameterOperand[P](p))
}

// PathIsNull matches records without a value at path.
func PathIsNull[P Path](path P) Filter[P] {
	return Equal(PathOperand(path), nil)
}

// PathIsNotNull matches records with a value at path.
func PathIsNotNull[P Path](path P) Filter[P] {
	return NotEqual(PathOperand(path), nil)
}

// ConvertParameters coerces every parameter compared against a path to the
// type the path expects. Parameters compared with other parameters or with
// null are left alone.
func (f *Filter[P]) ConvertParameters() error {
	switch f.Op {
	case OpAll, OpAny:
		for i := range f.Filters {
			if err := f.Filters[i].ConvertParameters(); err != nil {
				return err
			}
		}
	case OpNot:
		if f.Negated != nil {
			return f.Negated.ConvertParameters()
		}
	case OpEqual, OpNotEqual:
		switch {
		case f.LHS.IsPath() && f.RHS != nil && f.RHS.Parameter != nil:
			return convertSide(f.RHS, *f.LHS.Path)
		case f.RHS.IsPath() && f.LHS != nil && f.LHS.Parameter != nil:
			return convertSide(f.LHS, *f.RHS.Path)
		}
	}
	return nil
}

func convertSide[P Path](side *FilterExpression[P], path P) error {
	converted, err := Convert(side.Parameter, path.ExpectedType())
	if err != nil {
		return errors.Wrapf(err, "parameter for %s", path)
	}
	side.Parameter = converted
	return nil
}

// Erase drops the concrete path type so the filter can cross the
// non-generic store boundary.
func Erase[P Path](f Filter[P]) Filter[Path] {
	erased := Filter[Path]{Op: f.Op}
	if f.Filters != nil {
		erased.Filters = make([]Filter[Path], len(f.Filters))
		for i, sub := range f.Filters {
			erased.Filters[i] = Erase(sub)
		}
	}
	if f.Negated != nil {
		negated := Erase(*f.Negated)
		erased.Negated = &negated
	}
	erased.LHS = eraseExpression(f.LHS)
	erased.RHS = eraseExpression(f.RHS)
	return erased
}

func eraseExpression[P Path](e *FilterExpression[P]) *FilterExpression[Path] {
	if e == nil {
		return nil
	}
	if e.Path != nil {
		var path Path = *e.Path
		return &FilterExpression[Path]{Path: &path}
	}
	return &FilterExpression[Path]{Parameter: e.Parameter}
}

// String renders the filter in the text form ParseExpression reads where
// possible, for logs.
func (f Filter[P]) String() string {
	switch f.Op {
	case OpAll, OpAny:
		parts := make([]string, len(f.Filters))
		for i, sub := range f.Filters {
			parts[i] = "(" + sub.String() + ")"
		}
		if len(parts) == 0 {
			return f.Op.String() + "()"
		}
		joiner := " and "
		if f.Op == OpAny {
			joiner = " or "
		}
		return strings.Join(parts, joiner)
	case OpNot:
		if f.Negated == nil {
			return "not()"
		}
		return "not(" + f.Negated.String() + ")"
	case OpEqual:
		return f.LHS.String() + " = " + f.RHS.String()
	case OpNotEqual:
		return f.LHS.String() + " != " + f.RHS.String()
	}
	return f.Op.String()
}
