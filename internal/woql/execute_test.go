package woql_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/woql/internal/ir"
	"github.com/roach88/woql/internal/testutil"
	"github.com/roach88/woql/internal/vocab"
	"github.com/roach88/woql/internal/woql"
)

func TestExecuteAddsDefaultContext(t *testing.T) {
	exec := testutil.NewFakeExecutor("https://x/db1")
	q := woql.New().Limit(10).Triple("v:X", "type", "scm:Report")
	before := q.String()

	_, err := q.Execute(context.Background(), exec)
	require.NoError(t, err)

	sent := exec.Last()
	require.NotNil(t, sent)
	ctx, ok := sent["@context"].(ir.IRObject)
	require.True(t, ok)
	assert.Equal(t, ir.IRString("https://x/db1/schema#"), ctx["scm"])
	assert.Equal(t, ir.IRString("https://x/db1/document/"), ctx["doc"])
	assert.Equal(t, ir.IRString("https://x/db1/"), ctx["db"])
	assert.Contains(t, sent, "limit")

	// The builder is untouched.
	assert.Equal(t, before, q.String())
	_, has := q.GetContext()
	assert.False(t, has)
}

func TestExecuteKeepsExistingContext(t *testing.T) {
	exec := testutil.NewFakeExecutor("https://x/db1")
	custom := ir.IRObject{"scm": ir.IRString("https://other/schema#")}

	_, err := woql.Execute(context.Background(),
		woql.New().Context(custom).Triple("v:X", "v:P", "v:O"), exec)
	require.NoError(t, err)

	assert.Equal(t, custom, exec.Last()["@context"])
}

func TestExecuteReturnsResult(t *testing.T) {
	exec := testutil.NewFakeExecutor("https://x/db1")
	exec.Result = &woql.Result{
		Bindings: []map[string]any{{"X": "doc:Doc1"}},
		Inserts:  2,
	}

	res, err := woql.New().AddTriple("Doc1", "label", "x").Execute(context.Background(), exec)
	require.NoError(t, err)
	assert.Equal(t, exec.Result, res)
}

func TestExecutePropagatesExecutorError(t *testing.T) {
	boom := errors.New("connection refused")
	exec := testutil.NewFakeExecutor("https://x/db1")
	exec.Err = boom

	_, err := woql.New().Triple("v:X", "v:P", "v:O").Execute(context.Background(), exec)
	assert.Same(t, boom, err)
}

func TestExecuteBuildErrorSkipsSubmit(t *testing.T) {
	exec := testutil.NewFakeExecutor("https://x/db1")

	_, err := woql.New().Label("orphan").Execute(context.Background(), exec)
	assert.True(t, woql.IsNoActiveSubject(err))
	assert.Empty(t, exec.Submitted())
}

func TestLoadVocabulary(t *testing.T) {
	exec := testutil.NewFakeExecutor("https://x/db1")
	exec.Result = &woql.Result{Bindings: []map[string]any{
		{"S": "scm:Report", "P": "rdf:type", "O": "owl:Class"},
		{"S": "scm:author", "P": "rdfs:range", "O": "scm:Person"},
		{"S": "_:blank", "P": "rdf:type", "O": "http://example.com/a/b"},
	}}

	q := woql.New()
	require.NoError(t, q.LoadVocabulary(context.Background(), exec))

	v := q.Vocabulary()
	assert.Equal(t, "scm:Report", v["Report"])
	assert.Equal(t, "scm:author", v["author"])
	assert.Equal(t, "scm:Person", v["Person"])
	assert.NotContains(t, v, "blank")

	// The discovery query itself reads the schema graph.
	sent := exec.Last()
	assert.Equal(t,
		ir.IRArray{ir.IRString("v:S"), ir.IRString("v:P"), ir.IRString("v:O"), ir.IRString("db:schema")},
		sent["quad"])

	doc, err := q.Triple("v:X", "author", "v:Y").Document()
	require.NoError(t, err)
	assert.Equal(t, ir.IRString("scm:author"), doc["triple"].(ir.IRArray)[1])
}

func TestDiscoverVocabularyError(t *testing.T) {
	exec := testutil.NewFakeExecutor("https://x/db1")
	exec.Err = errors.New("unauthorized")

	v, err := woql.DiscoverVocabulary(context.Background(), exec)
	assert.Nil(t, v)
	assert.ErrorIs(t, err, exec.Err)

	q := woql.New()
	assert.Error(t, q.LoadVocabulary(context.Background(), exec))
	assert.Equal(t, vocab.Default(), q.Vocabulary())
}
