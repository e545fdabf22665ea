package logger

import (
	"context"

	"go.uber.org/zap"
)

// Standard field names for consistent structured logging.
// Use these constants instead of raw strings.
const (
	// Identity and context
	FieldRequestID = "request_id"
	FieldActorID   = "actor_id"
	FieldAccountID = "account_id"

	// Components
	FieldComponent = "component"

	// Operations
	FieldOperation = "operation"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldQuery     = "query"
	FieldSQL       = "sql"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError    = "error"
	FieldCategory = "category"
	FieldReason   = "reason"

	// Counts and sizes
	FieldCount     = "count"
	FieldBatchSize = "batch_size"

	// Status
	FieldStatus = "status"

	// Network
	FieldAddress = "address"
	FieldPort    = "port"

	// Graph store
	FieldBaseID      = "base_id"
	FieldVersionedID = "versioned_id"
	FieldVersion     = "version"
	FieldRecordKind  = "record_kind"
	FieldEdgeKind    = "edge_kind"
	FieldDirection   = "direction"
	FieldDepths      = "depths"
	FieldRoots       = "roots"
	FieldVertices    = "vertices"
	FieldEdges       = "edges"
)

// Context keys for propagating logging context
type contextKey string

const (
	requestIDKey contextKey = "logger_request_id"
	componentKey contextKey = "logger_component"
)

// WithRequestID adds a request ID to the context for logging
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// WithComponent adds a component name to the context for logging
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, componentKey, component)
}

// FieldsFromContext extracts logging fields from context.
// Returns key-value pairs suitable for use with Infow/Errorw/etc.
func FieldsFromContext(ctx context.Context) []interface{} {
	var fields []interface{}

	if requestID, ok := ctx.Value(requestIDKey).(string); ok && requestID != "" {
		fields = append(fields, FieldRequestID, requestID)
	}
	if component, ok := ctx.Value(componentKey).(string); ok && component != "" {
		fields = append(fields, FieldComponent, component)
	}

	return fields
}

// FromContext returns base enriched with the fields carried by ctx.
func FromContext(ctx context.Context, base *zap.SugaredLogger) *zap.SugaredLogger {
	fields := FieldsFromContext(ctx)
	if len(fields) == 0 {
		return base
	}
	return base.With(fields...)
}

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	type Service struct {
//	    logger *zap.SugaredLogger
//	}
//
//	func NewService() *Service {
//	    return &Service{logger: logger.ComponentLogger("graph.service")}
//	}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}
