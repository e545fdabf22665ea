package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/teranos/ontograph/errors"
	grapherr "github.com/teranos/ontograph/graph/error"
	"github.com/teranos/ontograph/logger"
	"github.com/teranos/ontograph/types"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 8 << 20

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeError writes a status payload for failures raised by the server itself.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, grapherr.Status{
		Code:     strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_")),
		Message:  message,
		Contents: []grapherr.StatusContent{},
	})
}

// writeFailure classifies err and writes its status payload.
func (s *OntographServer) writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	ge := grapherr.Classify(err)
	if ge.Category.Retryable() {
		w.Header().Set("Retry-After", "1")
	}
	if ge.Category == grapherr.CategoryInternal {
		logger.FromContext(r.Context(), s.logger).Errorw("Request failed",
			append([]interface{}{logger.FieldPath, r.URL.Path}, ge.ToLogFields()...)...)
	}
	writeJSON(w, ge.HTTPStatus(), ge.ToStatus())
}

// readJSON decodes a JSON request body. Malformed bodies are deserialization errors.
func readJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return errors.MarkDeserialization(errors.Wrap(err, "read request body"))
	}
	if err := json.Unmarshal(body, v); err != nil {
		return errors.MarkDeserialization(errors.Wrap(err, "invalid request body"))
	}
	return nil
}

// readBody returns the raw request body.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.MarkDeserialization(errors.Wrap(err, "read request body"))
	}
	return body, nil
}

// recordKind reads the {kind} path segment. Unknown kinds are 404.
func recordKind(w http.ResponseWriter, r *http.Request) (types.RecordKind, bool) {
	kind, err := types.ParseRecordKind(r.PathValue("kind"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return "", false
	}
	return kind, true
}
