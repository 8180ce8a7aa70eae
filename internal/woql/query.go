package woql

import (
	"fmt"
	"strings"

	"github.com/roach88/woql/internal/ir"
	"github.com/roach88/woql/internal/vocab"
)

// Query is a fluent WOQL query builder.
//
// It owns a document tree and a cursor, the path of the slot where the
// next operator is written. Terminal operators (Triple, Eq, ...) write at
// the cursor. Container operators (Select, Limit, ...) write their node
// and move the cursor into its empty continuation, so
//
//	woql.New().Limit(10).Select("v:X").Triple("v:X", "type", "Report")
//
// nests rather than sequences.
//
// A Query is not safe for concurrent use. Documents returned by Document
// are deep copies and may be shared freely.
type Query struct {
	doc            ir.IRObject
	cursor         path
	chainEnded     bool
	containsUpdate bool
	vocab          vocab.Vocabulary
	frag           *fragment
	err            error
}

// New returns an empty query with a private copy of the default vocabulary.
func New() *Query {
	return &Query{
		doc:   ir.IRObject{},
		vocab: vocab.Default(),
	}
}

// FromDocument wraps an existing document. The document is copied and
// must pass Validate; the cursor starts at the root.
func FromDocument(doc ir.IRObject) (*Query, error) {
	result := Validate(doc)
	if !result.Valid {
		code := ErrCodeInvalidArgument
		if result.multipleOperators {
			code = ErrCodeMultipleOperators
		}
		return nil, &BuildError{
			Code:    code,
			Op:      "FromDocument",
			Index:   -1,
			Message: strings.Join(result.Errors, "; "),
		}
	}
	q := New()
	q.doc = ir.CloneObject(doc)
	q.containsUpdate = containsUpdate(q.doc)
	return q, nil
}

// fresh returns an empty query sharing q's vocabulary.
func (q *Query) fresh() *Query {
	return &Query{doc: ir.IRObject{}, vocab: q.vocab}
}

// Clone returns an independent deep copy, cursor and pending shorthand
// subject included. The vocabulary is copied too.
func (q *Query) Clone() *Query {
	c := &Query{
		doc:            ir.CloneObject(q.doc),
		cursor:         q.cursor.clone(),
		chainEnded:     q.chainEnded,
		containsUpdate: q.containsUpdate,
		vocab:          q.vocab.Clone(),
		err:            q.err,
	}
	if q.frag != nil {
		f := *q.frag
		f.slot = q.frag.slot.clone()
		c.frag = &f
	}
	return c
}

// Err returns the first error recorded while building, if any.
func (q *Query) Err() error {
	return q.err
}

// Document returns a deep copy of the query document.
func (q *Query) Document() (ir.IRObject, error) {
	if q.err != nil {
		return nil, q.err
	}
	return ir.CloneObject(q.doc), nil
}

// JSON returns the canonical JSON encoding of the document.
func (q *Query) JSON() ([]byte, error) {
	if q.err != nil {
		return nil, q.err
	}
	return ir.MarshalCanonical(q.doc)
}

// String renders the document for debugging.
func (q *Query) String() string {
	data, err := q.JSON()
	if err != nil {
		return fmt.Sprintf("<invalid query: %v>", err)
	}
	return string(data)
}

// ContainsUpdate reports whether any update operator was written,
// directly or through a spliced sub-query.
func (q *Query) ContainsUpdate() bool {
	return q.containsUpdate
}

// ChainEnded reports whether the last write was a terminal operator.
func (q *Query) ChainEnded() bool {
	return q.chainEnded
}

// Cursor returns a copy of the cursor path.
func (q *Query) Cursor() []int {
	return q.cursor.clone()
}

// Vocabulary returns the builder's vocabulary. The map is live: passing
// it to another builder's SetVocabulary shares it.
func (q *Query) Vocabulary() vocab.Vocabulary {
	return q.vocab
}

// SetVocabulary replaces the builder's vocabulary. A nil vocabulary
// disables short-name lookup.
func (q *Query) SetVocabulary(v vocab.Vocabulary) *Query {
	if v == nil {
		v = vocab.Vocabulary{}
	}
	q.vocab = v
	return q
}

// fail records err unless an earlier error is already held.
func (q *Query) fail(err error) *Query {
	if q.err == nil && err != nil {
		q.err = err
	}
	return q
}

// emit writes a terminal operator at the cursor. When subject is non-nil
// a fragment builder is seeded for it; otherwise the fragment builder is
// cleared.
func (q *Query) emit(op string, args ir.IRArray, subject ir.IRValue) *Query {
	if _, err := q.writeAt(q.cursor, op, args); err != nil {
		return q.fail(err)
	}
	q.chainEnded = true
	if updateOperators[op] {
		q.containsUpdate = true
	}
	if subject != nil {
		q.frag = &fragment{mode: op, subject: subject, slot: q.cursor.clone()}
	} else {
		q.frag = nil
	}
	return q
}

// place writes a complete operator node at the cursor without advancing.
func (q *Query) place(op string, args ir.IRArray) *Query {
	if _, err := q.writeAt(q.cursor, op, args); err != nil {
		return q.fail(err)
	}
	q.frag = nil
	return q
}

// open writes a container operator whose continuation sits at args[cont]
// and moves the cursor into it. A non-nil sub is spliced as the
// continuation and the cursor continues at sub's own cursor.
func (q *Query) open(op string, args ir.IRArray, cont int, sub *Query) *Query {
	var tail path
	if sub != nil {
		doc, err := q.splice(op, cont, sub)
		if err != nil {
			return q.fail(err)
		}
		args[cont] = doc
		tail = sub.cursor
	} else {
		args[cont] = ir.IRObject{}
	}

	at, err := q.writeAt(q.cursor, op, args)
	if err != nil {
		return q.fail(err)
	}
	q.cursor = append(at.child(cont), tail...)
	q.chainEnded = false
	q.frag = nil
	return q
}

// optionalSub validates an optional trailing sub-query argument.
func optionalSub(op string, index int, subs []*Query) (*Query, error) {
	switch len(subs) {
	case 0:
		return nil, nil
	case 1:
		if subs[0] == nil {
			return nil, NewInvalidArgument(op, index, "nil sub-query")
		}
		return subs[0], nil
	default:
		return nil, NewInvalidArgument(op, index, "at most one sub-query, got %d", len(subs))
	}
}

// updateOperators mark a document as a mutation.
var updateOperators = map[string]bool{
	"add_triple":    true,
	"add_quad":      true,
	"delete_triple": true,
	"delete_quad":   true,
	"delete":        true,
	"update":        true,
}

// containsUpdate reports whether any update operator appears in v.
func containsUpdate(v ir.IRValue) bool {
	switch val := v.(type) {
	case ir.IRObject:
		for k, child := range val {
			if updateOperators[k] || containsUpdate(child) {
				return true
			}
		}
	case ir.IRArray:
		for _, child := range val {
			if containsUpdate(child) {
				return true
			}
		}
	}
	return false
}
