package query

import (
	"bytes"
	"encoding/json"

	"github.com/teranos/ontograph/errors"
)

// DecodeFilter decodes the wire form of a filter over P.
func DecodeFilter[P Path](data []byte) (Filter[P], error) {
	var f Filter[P]
	if err := json.Unmarshal(data, &f); err != nil {
		return Filter[P]{}, errors.MarkDeserialization(err)
	}
	return f, nil
}

// MarshalJSON encodes the filter as a single-key object.
func (f Filter[P]) MarshalJSON() ([]byte, error) {
	switch f.Op {
	case OpAll, OpAny:
		filters := f.Filters
		if filters == nil {
			filters = []Filter[P]{}
		}
		return json.Marshal(map[string]any{f.Op.String(): filters})
	case OpNot:
		return json.Marshal(map[string]any{f.Op.String(): f.Negated})
	case OpEqual, OpNotEqual:
		return json.Marshal(map[string]any{f.Op.String(): []*FilterExpression[P]{f.LHS, f.RHS}})
	}
	return nil, errors.Newf("cannot encode filter operator %s", f.Op)
}

// UnmarshalJSON decodes a single-key filter object.
func (f *Filter[P]) UnmarshalJSON(data []byte) error {
	key, value, err := singleKey(data, "filter")
	if err != nil {
		return err
	}

	switch key {
	case "all", "any":
		var filters []Filter[P]
		if err := json.Unmarshal(value, &filters); err != nil {
			return errors.MarkDeserialization(errors.Wrapf(err, "decode %q", key))
		}
		op := OpAll
		if key == "any" {
			op = OpAny
		}
		*f = Filter[P]{Op: op, Filters: filters}
	case "not":
		if isNull(value) {
			return errors.MarkDeserialization(errors.New(`"not" requires a filter`))
		}
		var negated Filter[P]
		if err := json.Unmarshal(value, &negated); err != nil {
			return errors.MarkDeserialization(errors.Wrap(err, `decode "not"`))
		}
		*f = Not(negated)
	case "equal", "notEqual":
		var sides []json.RawMessage
		if err := json.Unmarshal(value, &sides); err != nil {
			return errors.MarkDeserialization(errors.Wrapf(err, "decode %q", key))
		}
		if len(sides) > 2 {
			return errors.MarkDeserialization(errors.Newf("%q takes two operands, got %d", key, len(sides)))
		}
		var lhs, rhs *FilterExpression[P]
		if len(sides) > 0 {
			if lhs, err = decodeExpression[P](sides[0]); err != nil {
				return err
			}
		}
		if len(sides) > 1 {
			if rhs, err = decodeExpression[P](sides[1]); err != nil {
				return err
			}
		}
		if key == "equal" {
			*f = Equal(lhs, rhs)
		} else {
			*f = NotEqual(lhs, rhs)
		}
	default:
		return errors.MarkDeserialization(errors.Newf("unknown filter operator %q", key))
	}
	return nil
}

// MarshalJSON encodes the side as {"path": [...]} or {"parameter": value}.
func (e FilterExpression[P]) MarshalJSON() ([]byte, error) {
	if e.Path != nil {
		return json.Marshal(map[string][]string{"path": (*e.Path).Tokens()})
	}
	if e.Parameter != nil {
		return json.Marshal(map[string]any{"parameter": parameterValue(e.Parameter)})
	}
	return []byte("null"), nil
}

func decodeExpression[P Path](data json.RawMessage) (*FilterExpression[P], error) {
	if isNull(data) {
		return nil, nil
	}
	key, value, err := singleKey(data, "filter expression")
	if err != nil {
		return nil, err
	}

	switch key {
	case "path":
		var tokens []string
		if err := json.Unmarshal(value, &tokens); err != nil {
			return nil, errors.MarkDeserialization(errors.Wrap(err, "decode path"))
		}
		path, err := ParsePath[P](tokens)
		if err != nil {
			return nil, errors.MarkDeserialization(err)
		}
		return &FilterExpression[P]{Path: &path}, nil
	case "parameter":
		p, err := decodeParameter(value)
		if err != nil {
			return nil, err
		}
		return &FilterExpression[P]{Parameter: p}, nil
	}
	return nil, errors.MarkDeserialization(errors.Newf("unknown filter expression %q", key))
}

// singleKey decodes an object that must carry exactly one key.
func singleKey(data []byte, what string) (string, json.RawMessage, error) {
	var object map[string]json.RawMessage
	if err := json.Unmarshal(data, &object); err != nil {
		return "", nil, errors.MarkDeserialization(errors.Wrapf(err, "decode %s", what))
	}
	if object == nil {
		return "", nil, errors.MarkDeserialization(errors.Newf("%s must be an object", what))
	}
	if len(object) != 1 {
		return "", nil, errors.MarkDeserialization(errors.Newf("%s must have exactly one key, got %d", what, len(object)))
	}
	for key, value := range object {
		return key, value, nil
	}
	return "", nil, nil
}

func isNull(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
