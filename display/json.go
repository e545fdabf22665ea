package display

import (
	"encoding/json"
	"os"
)

// CompactEnv switches MarshalJSON to single-line output when set to any
// non-empty value, for piping into tools that re-indent anyway.
const CompactEnv = "ONTOGRAPH_COMPACT_JSON"

// MarshalJSON marshals JSON with pretty formatting for human-readable
// output, or compact formatting when CompactEnv is set.
func MarshalJSON(v interface{}) ([]byte, error) {
	if os.Getenv(CompactEnv) != "" {
		return json.Marshal(v)
	}
	return json.MarshalIndent(v, "", "  ")
}
