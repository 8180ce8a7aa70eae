package testutil

import (
	"context"
	"sync"

	"github.com/roach88/woql/internal/ir"
	"github.com/roach88/woql/internal/woql"
)

// FakeExecutor records submitted documents and replays a canned response.
// It satisfies woql.Executor.
type FakeExecutor struct {
	URL    string
	Result *woql.Result
	Err    error

	mu        sync.Mutex
	submitted []ir.IRObject
}

// NewFakeExecutor returns an executor for baseURL that answers with an
// empty result.
func NewFakeExecutor(baseURL string) *FakeExecutor {
	return &FakeExecutor{
		URL:    baseURL,
		Result: &woql.Result{Bindings: []map[string]any{}},
	}
}

// Submit records a copy of doc and returns the configured result or error.
func (f *FakeExecutor) Submit(ctx context.Context, doc ir.IRObject) (*woql.Result, error) {
	f.mu.Lock()
	f.submitted = append(f.submitted, ir.CloneObject(doc))
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Result, nil
}

// BaseURL implements woql.Executor.
func (f *FakeExecutor) BaseURL() string {
	return f.URL
}

// Submitted returns every document received so far.
func (f *FakeExecutor) Submitted() []ir.IRObject {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]ir.IRObject, len(f.submitted))
	copy(out, f.submitted)
	return out
}

// Last returns the most recent document, or nil.
func (f *FakeExecutor) Last() ir.IRObject {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.submitted) == 0 {
		return nil
	}
	return f.submitted[len(f.submitted)-1]
}
