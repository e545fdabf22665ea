package query

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/teranos/ontograph/errors"
)

// LatestVersion is the text parameter that selects the newest version
// when compared against a version path.
const LatestVersion Text = "latest"

// ConversionError reports a parameter that cannot be coerced to the type
// its path expects.
type ConversionError struct {
	Actual   Parameter
	Expected ParameterType
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("could not convert %T %q to %s", e.Actual, e.Actual.String(), e.Expected)
}

func (e *ConversionError) Unwrap() error { return errors.ErrParameterConversion }

// Convert coerces p to the expected type. Converting an already converted
// parameter returns it unchanged.
//
// BaseId, VersionedId and Timestamp targets accept their input without
// checking its format.
func Convert(p Parameter, expected ParameterType) (Parameter, error) {
	if expected == TypeAny || expected == TypeTimestamp {
		return p, nil
	}

	switch v := p.(type) {
	case Boolean:
		if expected == TypeBoolean {
			return v, nil
		}
	case Number:
		switch expected {
		case TypeNumber:
			return v, nil
		case TypeUnsignedInteger:
			return numberToUnsigned(v)
		}
	case Text:
		switch expected {
		case TypeText, TypeBaseID, TypeVersionedID:
			return v, nil
		case TypeUUID:
			parsed, err := uuid.Parse(string(v))
			if err != nil {
				return nil, errors.WithSecondaryError(&ConversionError{Actual: v, Expected: expected}, err)
			}
			return UUID(parsed), nil
		case TypeUnsignedInteger:
			if v == LatestVersion {
				return v, nil
			}
		}
	case UUID:
		if expected == TypeUUID {
			return v, nil
		}
	case SignedInteger:
		if expected == TypeUnsignedInteger && v >= 0 {
			return v, nil
		}
	}
	return nil, &ConversionError{Actual: p, Expected: expected}
}

func numberToUnsigned(n Number) (Parameter, error) {
	rounded := math.Round(float64(n))
	// float64(math.MaxInt64) is 2^63, which int64 cannot hold
	if math.IsNaN(rounded) || rounded < 0 || rounded >= math.MaxInt64 {
		return nil, &ConversionError{Actual: n, Expected: TypeUnsignedInteger}
	}
	return SignedInteger(int64(rounded)), nil
}
