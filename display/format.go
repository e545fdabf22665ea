// Package display renders command output as JSON, YAML or terminal tables.
package display

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/teranos/ontograph/errors"
)

// Format selects how a value is rendered.
type Format string

const (
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatTable Format = "table"
)

// ParseFormat accepts json, yaml or table, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatYAML, FormatTable:
		return f, nil
	default:
		return "", errors.Newf("unsupported format: %s (supported: json, yaml, table)", s)
	}
}

// Render writes v to w as JSON or YAML. Values are passed through their
// JSON encoding first so YAML output uses the same keys as the HTTP API.
// FormatTable falls back to JSON; use the table helpers for tabular output.
func Render(w io.Writer, format Format, v interface{}) error {
	data, err := MarshalJSON(v)
	if err != nil {
		return errors.Wrap(err, "failed to marshal JSON")
	}

	if format == FormatYAML {
		data, err = jsonToYAML(data)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}

	_, err = fmt.Fprintln(w, string(data))
	return err
}

func jsonToYAML(data []byte) ([]byte, error) {
	var generic interface{}
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, errors.Wrap(err, "failed to reparse JSON")
	}
	out, err := yaml.Marshal(generic)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal YAML")
	}
	return out, nil
}
