package grapherror

import "net/http"

// Category is the taxonomy kind an error belongs to. Every error surfaced
// by the service maps to exactly one category.
type Category string

const (
	// CategoryDeserialization indicates a malformed filter or structural query
	CategoryDeserialization Category = "deserialization"

	// CategoryParameter indicates a parameter that cannot be coerced to its path's type
	CategoryParameter Category = "parameter_conversion"

	// CategoryValidation indicates a record rejected by schema or domain checks
	CategoryValidation Category = "validation"

	// CategoryConflict indicates a base id that already exists
	CategoryConflict Category = "identity_conflict"

	// CategoryNotFound indicates a missing versioned id, base id or account
	CategoryNotFound Category = "not_found"

	// CategoryRace indicates the optimistic version check failed
	CategoryRace Category = "race_condition"

	// CategoryState indicates archive of an archived record or the reverse
	CategoryState Category = "already_in_state"

	// CategoryAcquisition indicates no store could be acquired; retryable
	CategoryAcquisition Category = "store_acquisition"

	// CategoryInternal indicates an unexpected failure
	CategoryInternal Category = "internal"
)

// String returns the string representation of the category
func (c Category) String() string {
	return string(c)
}

// Reasons carried in status payloads.
const (
	ReasonInvalidQuery            = "INVALID_QUERY"
	ReasonInvalidParameter        = "INVALID_PARAMETER"
	ReasonInvalidSchema           = "INVALID_SCHEMA"
	ReasonInvalidTypeID           = "INVALID_TYPE_ID"
	ReasonBaseURIAlreadyExists    = "BASE_URI_ALREADY_EXISTS"
	ReasonNotFound                = "NOT_FOUND"
	ReasonRaceCondition           = "RACE_CONDITION"
	ReasonAlreadyInState          = "ALREADY_IN_STATE"
	ReasonStoreAcquisitionFailure = "STORE_ACQUISITION_FAILURE"
	ReasonInternal                = "INTERNAL"
)

type categoryInfo struct {
	status  int
	code    string
	reason  string
	message string
}

var categories = map[Category]categoryInfo{
	CategoryDeserialization: {http.StatusUnprocessableEntity, "INVALID_ARGUMENT", ReasonInvalidQuery, "The query could not be read"},
	CategoryParameter:       {http.StatusUnprocessableEntity, "INVALID_ARGUMENT", ReasonInvalidParameter, "A query parameter has the wrong type"},
	CategoryValidation:      {http.StatusBadRequest, "INVALID_ARGUMENT", ReasonInvalidSchema, "The record is not valid"},
	CategoryConflict:        {http.StatusConflict, "ALREADY_EXISTS", ReasonBaseURIAlreadyExists, "A record with this base id already exists"},
	CategoryNotFound:        {http.StatusNotFound, "NOT_FOUND", ReasonNotFound, "The requested record does not exist"},
	CategoryRace:            {http.StatusLocked, "ABORTED", ReasonRaceCondition, "The record was modified concurrently, fetch the latest version and retry"},
	CategoryState:           {http.StatusConflict, "FAILED_PRECONDITION", ReasonAlreadyInState, "The record is already in the requested state"},
	CategoryAcquisition:     {http.StatusServiceUnavailable, "UNAVAILABLE", ReasonStoreAcquisitionFailure, "The store is busy, try again shortly"},
	CategoryInternal:        {http.StatusInternalServerError, "INTERNAL", ReasonInternal, "An internal error occurred"},
}

func infoFor(c Category) categoryInfo {
	if info, ok := categories[c]; ok {
		return info
	}
	return categories[CategoryInternal]
}

// HTTPStatus returns the HTTP status code for the category.
func (c Category) HTTPStatus() int {
	return infoFor(c).status
}

// Retryable reports whether a caller may retry without changing anything.
func (c Category) Retryable() bool {
	return c == CategoryAcquisition
}
