package grapherror

import "time"

// Status is the error body returned to clients.
type Status struct {
	Code     string          `json:"code"`
	Message  string          `json:"message"`
	Contents []StatusContent `json:"contents"`
}

// StatusContent is one reason with its metadata.
type StatusContent struct {
	Reason   string            `json:"reason"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// ToUIMessage returns the client-facing message, falling back to the
// category default.
func (e *GraphError) ToUIMessage() string {
	if e.UserMessage != "" {
		return e.UserMessage
	}
	return infoFor(e.Category).message
}

// HTTPStatus returns the HTTP status code for the error.
func (e *GraphError) HTTPStatus() int {
	return e.Category.HTTPStatus()
}

// ToStatus formats the error as a status payload. Internal errors do not
// leak the underlying message.
func (e *GraphError) ToStatus() Status {
	message := e.ToUIMessage()
	if e.Category != CategoryInternal && e.Err != nil {
		message = e.Err.Error()
	}

	content := StatusContent{Reason: e.Reason}
	if len(e.Metadata) > 0 {
		content.Metadata = e.Metadata
	}
	return Status{
		Code:     infoFor(e.Category).code,
		Message:  message,
		Contents: []StatusContent{content},
	}
}

// ToLogFields converts error to structured log fields
// This is useful for passing to logger.Errorw()
func (e *GraphError) ToLogFields() []interface{} {
	fields := []interface{}{
		"error_category", e.Category,
		"error_reason", e.Reason,
		"error_message", e.Error(),
		"error_time", e.Timestamp.Format(time.RFC3339),
	}
	for k, v := range e.Metadata {
		fields = append(fields, k, v)
	}
	return fields
}
