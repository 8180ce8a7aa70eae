package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pagedScript = `name: paged
steps:
  - {op: limit, args: [10]}
  - {op: start, args: [0]}
  - {op: triple, args: ["v:X", "type", "scm:Report"]}
`

func TestRenderText(t *testing.T) {
	path := writeFile(t, t.TempDir(), "paged.yaml", pagedScript)

	out, err := runCommand(NewRenderCommand(&RootOptions{Format: "text"}), path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"limit":[10,{"start":[0,{"triple":["v:X","rdf:type","scm:Report"]}]}]}`, out)
	assert.Contains(t, out, "\n  \"limit\": [", "indented for humans")
}

func TestRenderPage(t *testing.T) {
	path := writeFile(t, t.TempDir(), "paged.yaml", pagedScript)

	out, err := runCommand(NewRenderCommand(&RootOptions{Format: "text"}), "--page", "3", path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"limit":[10,{"start":[20,{"triple":["v:X","rdf:type","scm:Report"]}]}]}`, out)
}

func TestRenderPageNotPaged(t *testing.T) {
	path := writeFile(t, t.TempDir(), "plain.yaml",
		"name: plain\nsteps:\n  - {op: triple, args: [\"v:X\", \"v:P\", \"v:O\"]}\n")

	out, err := runCommand(NewRenderCommand(&RootOptions{Format: "text"}), "--page", "2", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "cannot select page 2")
}

func TestRenderJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "update.yaml",
		"name: update\nsteps:\n  - {op: add_triple, args: [\"Report1\", \"label\", \"Q1\"]}\n")

	out, err := runCommand(NewRenderCommand(&RootOptions{Format: "json"}), path)
	require.NoError(t, err)

	var resp struct {
		Status string       `json:"status"`
		Data   RenderResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "update", resp.Data.Name)
	assert.True(t, resp.Data.ContainsUpdate)
	assert.Len(t, resp.Data.ID, 64)
	assert.Contains(t, resp.Data.Document, "add_triple")
}

func TestRenderContext(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir, "https://db.example.com")
	path := writeFile(t, dir, "paged.yaml", pagedScript)

	out, err := runCommand(NewRenderCommand(&RootOptions{Format: "text", ConfigPath: cfg}), "--context", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"scm": "https://db.example.com/admin/reports/schema#"`)
}

func TestRenderContextNeedsConfig(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, t.TempDir(), "paged.yaml", pagedScript)

	out, err := runCommand(NewRenderCommand(&RootOptions{Format: "text"}), "--context", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E003]")
}

func TestRenderStoredVocabulary(t *testing.T) {
	dir := t.TempDir()
	srv := newFakeServer(t)
	cfg := writeConfig(t, dir, srv.URL)
	path := writeFile(t, dir, "reports.yaml", reportsScript)

	// Without a stored vocabulary the class name is a plain literal.
	out, err := runCommand(NewRenderCommand(&RootOptions{Format: "text", ConfigPath: cfg}), "--vocab", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"@value": "Report"`)

	_, err = runCommand(NewVocabCommand(&RootOptions{Format: "text", ConfigPath: cfg}))
	require.NoError(t, err)

	out, err = runCommand(NewRenderCommand(&RootOptions{Format: "text", ConfigPath: cfg}), "--vocab", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"scm:Report"`)
	assert.Contains(t, out, `"rdf:type"`)
}

func TestRenderErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name     string
		path     string
		wantCode string
	}{
		{"missing script", dir + "/missing.yaml", ErrCodeNotFound},
		{"unknown op", writeFile(t, dir, "bad.yaml", "name: bad\nsteps:\n  - {op: tripple}\n"), ErrCodeScript},
		{"build error", writeFile(t, dir, "orphan.yaml", "name: orphan\nsteps:\n  - {op: label, args: [\"x\"]}\n"), ErrCodeBuild},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCommand(NewRenderCommand(&RootOptions{Format: "json"}), tt.path)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))

			var resp CLIResponse
			require.NoError(t, json.Unmarshal([]byte(out), &resp))
			assert.Equal(t, "error", resp.Status)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}
