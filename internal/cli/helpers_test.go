package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/roach88/woql/internal/config"
	"github.com/roach88/woql/internal/ir"
)

const reportsScript = `name: reports
steps:
  - {op: limit, args: [10]}
  - {op: start, args: [0]}
  - {op: triple, args: ["v:X", "type", "Report"]}
`

// schemaBindings is what the fake server returns for vocabulary discovery.
var schemaBindings = []map[string]any{
	{"S": "scm:Report", "P": "rdf:type", "O": "owl:Class"},
	{"S": "scm:title", "P": "rdf:type", "O": "owl:DatatypeProperty"},
}

// fakeServer answers /woql requests, treating a root quad as vocabulary
// discovery. Documents it receives are kept in order.
type fakeServer struct {
	*httptest.Server

	mu        sync.Mutex
	documents []ir.IRObject
	status    int
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()
	fs := &fakeServer{status: http.StatusOK}
	fs.Server = httptest.NewServer(http.HandlerFunc(fs.handle))
	t.Cleanup(fs.Close)
	return fs
}

func (fs *fakeServer) handle(w http.ResponseWriter, r *http.Request) {
	var body map[string]string
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	v, err := ir.UnmarshalIRValue([]byte(body["terminus:query"]))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	doc := v.(ir.IRObject)

	fs.mu.Lock()
	fs.documents = append(fs.documents, doc)
	status := fs.status
	fs.mu.Unlock()

	if status != http.StatusOK {
		http.Error(w, "Unauthorized", status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, ok := doc["quad"]; ok {
		_ = json.NewEncoder(w).Encode(map[string]any{"bindings": schemaBindings})
		return
	}
	_, _ = io.WriteString(w, `{"bindings":[{"X":"doc:Report1"},{"X":"doc:Report2"}]}`)
}

func (fs *fakeServer) received() []ir.IRObject {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return append([]ir.IRObject(nil), fs.documents...)
}

func (fs *fakeServer) setStatus(status int) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.status = status
}

// clearEnv keeps the developer's environment out of config loading.
func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(config.EnvServer, "")
	t.Setenv(config.EnvDatabase, "")
	t.Setenv(config.EnvKey, "")
}

// writeConfig writes a config for server with a store in dir.
func writeConfig(t *testing.T, dir, server string) string {
	t.Helper()
	clearEnv(t)
	path := filepath.Join(dir, "woql.yaml")
	content := fmt.Sprintf("server: %s\ndatabase: admin/reports\nkey: secret\ntimeout: 5s\nstore: %s\n",
		server, filepath.Join(dir, "woql.db"))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// runCommand executes cmd with args and returns its stdout.
func runCommand(cmd *cobra.Command, args ...string) (string, error) {
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}
