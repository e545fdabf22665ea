package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/ontograph/errors"
	"github.com/teranos/ontograph/subgraph"
	"github.com/teranos/ontograph/types"
)

const textType = `{"$id": "https://example.com/types/data-type/text/v/1", "title": "Text", "type": "string"}`

// env is a throwaway config file pointing at a fresh database.
type env struct {
	dir    string
	config string
}

func newEnv(t *testing.T) env {
	t.Helper()
	dir := t.TempDir()
	config := filepath.Join(dir, "am.toml")
	content := "[database]\npath = " + strconvQuote(filepath.Join(dir, "graph.db")) + "\n"
	require.NoError(t, os.WriteFile(config, []byte(content), 0644))
	return env{dir: dir, config: config}
}

func strconvQuote(s string) string {
	data, _ := json.Marshal(s)
	return string(data)
}

func (e env) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config", e.config}, args...))
	err := root.Execute()
	return out.String(), err
}

func (e env) write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(e.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestCreateQueryArchive(t *testing.T) {
	e := newEnv(t)
	owner := uuid.New()

	out, err := e.run(t, "account", "create", owner.String())
	require.NoError(t, err)
	assert.Equal(t, owner.String()+"\n", out)

	file := e.write(t, "text.json", textType)
	out, err = e.run(t, "create", "--kind", "dataType", "--file", file, "--owner", owner.String(), "--format", "json")
	require.NoError(t, err)
	var created []types.Metadata
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	require.Len(t, created, 1)
	textID := created[0].RecordID
	assert.Equal(t, "https://example.com/types/data-type/text/v/1", textID.String())
	assert.Equal(t, owner, created[0].OwnedByID)

	out, err = e.run(t, "query", "--kind", "dataType", "--where", ".title = Text", "--json")
	require.NoError(t, err)
	var sg struct {
		Roots []types.VersionedID `json:"roots"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &sg))
	assert.Equal(t, []types.VersionedID{textID}, sg.Roots)

	out, err = e.run(t, "query", "--kind", "dataType", "--where", ".title = Number", "--json")
	require.NoError(t, err)
	sg.Roots = nil
	require.NoError(t, json.Unmarshal([]byte(out), &sg))
	assert.Empty(t, sg.Roots)

	_, err = e.run(t, "archive", textID.String(), "--kind", "entity", "--actor", owner.String())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidRecord), "a data type is not an entity")

	out, err = e.run(t, "archive", textID.String(), "--kind", "dataType", "--actor", owner.String(), "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "archived: true")

	_, err = e.run(t, "archive", textID.String(), "--kind", "dataType", "--actor", owner.String())
	assert.Error(t, err, "archiving twice is rejected")

	out, err = e.run(t, "unarchive", textID.String(), "--kind", "dataType", "--actor", owner.String())
	require.NoError(t, err)
	assert.Contains(t, out, "active")
}

func TestCreateConflict(t *testing.T) {
	e := newEnv(t)
	owner := uuid.New()
	_, err := e.run(t, "account", "create", owner.String())
	require.NoError(t, err)

	file := e.write(t, "text.json", textType)
	args := []string{"create", "--kind", "data-types", "--file", file, "--owner", owner.String(), "--format", "json"}

	_, err = e.run(t, args...)
	require.NoError(t, err)

	_, err = e.run(t, args...)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrIdentityConflict), "got %v", err)

	out, err := e.run(t, append(args, "--on-conflict", "skip")...)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)
}

func TestCreateRequiresRegisteredOwner(t *testing.T) {
	e := newEnv(t)
	file := e.write(t, "text.json", textType)

	_, err := e.run(t, "create", "--kind", "dataType", "--file", file, "--owner", uuid.NewString())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound), "got %v", err)
}

func TestQueryFromFile(t *testing.T) {
	e := newEnv(t)
	file := e.write(t, "query.json", `{
		"filter": {"equal": [{"path": ["version"]}, {"parameter": "latest"}]},
		"graphResolveDepths": {}
	}`)

	_, err := e.run(t, "query", "--kind", "entity", "--file", file, "--json")
	require.NoError(t, err)

	_, err = e.run(t, "query", "--kind", "entity", "--file", file, "--where", ".version = latest")
	assert.Error(t, err, "--file and --where are exclusive")
}

func TestDbStatusAndMigrate(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "db", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "pending")
	assert.NotContains(t, out, "applied")

	out, err = e.run(t, "db", "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "003")

	out, err = e.run(t, "db", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "applied")
	assert.NotContains(t, out, "pending")
}

func TestAmCommands(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "am", "show", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"max_resolve_depth": 255`)

	_, err = e.run(t, "am", "set", "query.max_resolve_depth", "8")
	require.NoError(t, err)

	out, err = e.run(t, "am", "show", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "max_resolve_depth: 8")

	out, err = e.run(t, "am", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "valid")

	_, err = e.run(t, "am", "set", "database.max_connections", "0")
	require.NoError(t, err, "set writes even when the result is invalid")
	_, err = e.run(t, "am", "validate")
	assert.ErrorContains(t, err, "database.max_connections")

	_, err = e.run(t, "am", "show", "--format", "ini")
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	e := newEnv(t)
	out, err := e.run(t, "version", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"go_version"`)

	out, err = e.run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "ontograph "))
}

func TestParseDepths(t *testing.T) {
	depths, err := parseDepths([]string{"inheritsFrom=1/2", "isOfType=3"})
	require.NoError(t, err)
	assert.Equal(t, subgraph.EdgeResolveDepths{Incoming: 1, Outgoing: 2}, depths.InheritsFrom)
	assert.Equal(t, subgraph.EdgeResolveDepths{Incoming: 0, Outgoing: 3}, depths.IsOfType)
	assert.Equal(t, subgraph.EdgeResolveDepths{}, depths.HasLeftEntity)

	for _, bad := range []string{"inheritsFrom", "nope=1/1", "inheritsFrom=1/256", "isOfType=x/1"} {
		_, err := parseDepths([]string{bad})
		assert.Error(t, err, bad)
	}
}
