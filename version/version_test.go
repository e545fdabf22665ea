package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfoString(t *testing.T) {
	info := Info{Version: "v0.4.1", CommitHash: "abcdef0123", BuildTime: "2026-01-01"}
	assert.Equal(t, "ontograph v0.4.1 (commit abcdef0123, built 2026-01-01)", info.String())
	assert.Equal(t, "abcdef0", info.Short())

	dev := Info{Version: "dev", CommitHash: "dev", BuildTime: "unknown"}
	assert.Equal(t, "ontograph dev (commit dev, built unknown)", dev.String())
	assert.Equal(t, "dev", dev.Short())
}

func TestSatisfies(t *testing.T) {
	tests := []struct {
		version    string
		constraint string
		want       bool
	}{
		{"v0.4.1", ">= 0.4", true},
		{"v0.3.9", ">= 0.4", false},
		{"1.2.0", "~1.2", true},
		{"1.3.0", "~1.2", false},
		{"dev", ">= 9", true},
		{"0.1.0", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.version+" "+tt.constraint, func(t *testing.T) {
			ok, err := Info{Version: tt.version}.Satisfies(tt.constraint)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestSatisfiesInvalid(t *testing.T) {
	_, err := Info{Version: "not-a-version"}.Satisfies(">= 1")
	assert.Error(t, err)

	_, err = Info{Version: "1.0.0"}.Satisfies("at least one")
	assert.Error(t, err)
}

func TestGet(t *testing.T) {
	info := Get()
	assert.NotEmpty(t, info.GoVersion)
	assert.Contains(t, info.Platform, "/")
}
