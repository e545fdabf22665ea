package grapherror

import (
	"time"

	"github.com/teranos/ontograph/errors"
)

// GraphError is an error classified into the service taxonomy, carrying
// the detail a client needs to react to it.
type GraphError struct {
	Err         error             // Underlying error
	Category    Category          // Taxonomy kind
	Reason      string            // Reason code for status payloads
	UserMessage string            // Client-facing message
	Metadata    map[string]string // Structured detail, e.g. baseUrl or versionedId
	Timestamp   time.Time         // When the error was classified
}

// Error implements the error interface
func (e *GraphError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.UserMessage
}

// Unwrap returns the underlying error for errors.Is/As compatibility
func (e *GraphError) Unwrap() error {
	return e.Err
}

// New creates a GraphError with the category's default reason.
func New(category Category, err error, userMsg string) *GraphError {
	return &GraphError{
		Err:         err,
		Category:    category,
		Reason:      infoFor(category).reason,
		UserMessage: userMsg,
		Metadata:    make(map[string]string),
		Timestamp:   time.Now(),
	}
}

// Newf creates a GraphError with a formatted underlying error.
func Newf(category Category, userMsg, format string, args ...interface{}) *GraphError {
	return New(category, errors.Newf(format, args...), userMsg)
}

// WithReason overrides the reason code.
func (e *GraphError) WithReason(reason string) *GraphError {
	e.Reason = reason
	return e
}

// WithMetadata adds a key-value pair to the status metadata.
func (e *GraphError) WithMetadata(key, value string) *GraphError {
	e.Metadata[key] = value
	return e
}

// IsCategory checks if the error matches a specific category
func (e *GraphError) IsCategory(cat Category) bool {
	return e.Category == cat
}
