package woql

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/woql/internal/ir"
	"github.com/roach88/woql/internal/vocab"
)

// Executor submits finished documents to a WOQL server.
type Executor interface {
	// Submit sends doc and returns the decoded response.
	Submit(ctx context.Context, doc ir.IRObject) (*Result, error)

	// BaseURL is the database root, e.g. "https://host/db1".
	BaseURL() string
}

// Result is a query response.
type Result struct {
	// Bindings holds one map of variable name to value per solution.
	Bindings []map[string]any `json:"bindings"`

	// Inserts and Deletes count triples changed by an update.
	Inserts int `json:"inserts,omitempty"`
	Deletes int `json:"deletes,omitempty"`
}

// Execute submits q through exec. See Query.Execute.
func Execute(ctx context.Context, q *Query, exec Executor) (*Result, error) {
	return q.Execute(ctx, exec)
}

// Execute submits a copy of the document, adding the default @context
// for exec's database when the document has none. The builder itself is
// not modified. Executor errors are returned unchanged.
func (q *Query) Execute(ctx context.Context, exec Executor) (*Result, error) {
	doc, err := q.Document()
	if err != nil {
		return nil, err
	}
	if _, ok := doc[contextKey]; !ok {
		doc[contextKey] = vocab.DefaultContext(exec.BaseURL())
	}

	slog.Debug("submitting woql query",
		"base_url", exec.BaseURL(),
		"contains_update", q.containsUpdate,
	)
	return exec.Submit(ctx, doc)
}

// LoadVocabulary discovers the schema vocabulary of exec's database and
// merges it into q's vocabulary.
func (q *Query) LoadVocabulary(ctx context.Context, exec Executor) error {
	v, err := DiscoverVocabulary(ctx, exec)
	if err != nil {
		return err
	}
	q.vocab.Merge(v)
	return nil
}

// DiscoverVocabulary runs quad(v:S, v:P, v:O, db:schema) and extracts
// every prefixed schema identifier from the bindings.
func DiscoverVocabulary(ctx context.Context, exec Executor) (vocab.Vocabulary, error) {
	res, err := New().Quad("v:S", "v:P", "v:O", schemaGraph).Execute(ctx, exec)
	if err != nil {
		return nil, fmt.Errorf("discover vocabulary: %w", err)
	}
	if res == nil {
		return vocab.Vocabulary{}, nil
	}
	return vocab.FromBindings(res.Bindings), nil
}
