package types

import (
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/teranos/ontograph/errors"
)

// Validation failure reasons.
const (
	ReasonInvalidSchema = "INVALID_SCHEMA"
	ReasonInvalidTypeID = "INVALID_TYPE_ID"
)

// ValidationError reports a record rejected before reaching the store.
type ValidationError struct {
	RecordID VersionedID
	Reason   string
	Fields   []string
	Message  string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("%s: %s (%s)", e.RecordID, e.Message, strings.Join(e.Fields, ", "))
	}
	return fmt.Sprintf("%s: %s", e.RecordID, e.Message)
}

func (e *ValidationError) Unwrap() error { return errors.ErrInvalidRecord }

// Validator checks records structurally and ontology ids against the
// domain the service is allowed to host.
type Validator struct {
	validate *validator.Validate
	domain   *regexp.Regexp
}

// NewValidator compiles domainPattern; an empty pattern accepts every domain.
func NewValidator(domainPattern string) (*Validator, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if id, ok := field.Interface().(VersionedID); ok {
			return id.String()
		}
		return nil
	}, VersionedID{})
	if err := v.RegisterValidation("versioned_url", validateVersionedURL); err != nil {
		return nil, errors.Wrap(err, "register versioned_url")
	}
	if err := v.RegisterValidation("entity_id", validateEntityID); err != nil {
		return nil, errors.Wrap(err, "register entity_id")
	}

	var domain *regexp.Regexp
	if domainPattern != "" {
		compiled, err := regexp.Compile(domainPattern)
		if err != nil {
			return nil, errors.Wrapf(err, "compile domain pattern %q", domainPattern)
		}
		domain = compiled
	}
	return &Validator{validate: v, domain: domain}, nil
}

// Validate runs the structural checks and, for ontology records, the domain check.
func (v *Validator) Validate(r Record) error {
	if err := v.validate.Struct(r); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			fields := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				fields = append(fields, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
			}
			return &ValidationError{
				RecordID: r.RecordID(),
				Reason:   ReasonInvalidSchema,
				Fields:   fields,
				Message:  fmt.Sprintf("provided schema is not a valid %s", r.RecordKind()),
			}
		}
		return errors.Wrap(err, "validate record")
	}
	return v.ValidateDomain(r)
}

// ValidateDomain checks an ontology record's base id against the domain pattern.
func (v *Validator) ValidateDomain(r Record) error {
	if v.domain == nil || !r.RecordKind().IsOntology() {
		return nil
	}
	id := r.RecordID()
	if !v.domain.MatchString(string(id.BaseID)) {
		return &ValidationError{
			RecordID: id,
			Reason:   ReasonInvalidTypeID,
			Message:  "type id does not match the domain this service hosts",
		}
	}
	return nil
}

func validateVersionedURL(fl validator.FieldLevel) bool {
	id, err := ParseVersionedID(fl.Field().String())
	if err != nil {
		return false
	}
	base := string(id.BaseID)
	if !strings.HasSuffix(base, "/") {
		return false
	}
	u, err := url.Parse(base)
	return err == nil && u.IsAbs() && u.Host != ""
}

func validateEntityID(fl validator.FieldLevel) bool {
	id, err := ParseVersionedID(fl.Field().String())
	if err != nil {
		return false
	}
	_, err = uuid.Parse(string(id.BaseID))
	return err == nil
}
