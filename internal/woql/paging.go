package woql

import (
	"github.com/roach88/woql/internal/ir"
)

// transitive operators carry their continuation as the last argument.
// Paging and context lookups only descend through these.
var transitive = map[string]bool{
	"select": true,
	"from":   true,
	"start":  true,
	"when":   true,
	"opt":    true,
	"limit":  true,
}

// IsTransitive reports whether op belongs to the paging walk set.
func IsTransitive(op string) bool {
	return transitive[op]
}

// walk visits nodes along the transitive chain from the root, stopping
// when visit returns true.
func walk(doc ir.IRObject, visit func(op string, node ir.IRObject) bool) {
	node := doc
	for node != nil {
		keys := operatorKeys(node)
		if len(keys) != 1 {
			return
		}
		op := keys[0]
		if visit(op, node) || !transitive[op] {
			return
		}
		args, ok := node[op].(ir.IRArray)
		if !ok || len(args) == 0 {
			return
		}
		node, _ = args[len(args)-1].(ir.IRObject)
	}
}

// GetPagingProperty returns the first argument of the first prop operator
// on the transitive chain.
func (q *Query) GetPagingProperty(prop string) (ir.IRValue, bool) {
	var found ir.IRValue
	walk(q.doc, func(op string, node ir.IRObject) bool {
		if op != prop {
			return false
		}
		if args, ok := node[op].(ir.IRArray); ok && len(args) > 0 {
			found = args[0]
		}
		return true
	})
	return found, found != nil
}

// SetPagingProperty overwrites the first argument of the first prop
// operator on the transitive chain. It does nothing when none exists.
func (q *Query) SetPagingProperty(prop string, value any) *Query {
	if q.err != nil {
		return q
	}
	v, err := q.arg(prop, 0, value, roleRaw)
	if err != nil {
		return q.fail(err)
	}
	walk(q.doc, func(op string, node ir.IRObject) bool {
		if op != prop {
			return false
		}
		if args, ok := node[op].(ir.IRArray); ok && len(args) > 0 {
			args[0] = v
		}
		return true
	})
	return q
}

func (q *Query) intProperty(prop string) (int, bool) {
	v, ok := q.GetPagingProperty(prop)
	if !ok {
		return 0, false
	}
	n, ok := v.(ir.IRInt)
	return int(n), ok
}

// IsPaged reports whether a limit sits on the transitive chain.
func (q *Query) IsPaged() bool {
	_, ok := q.GetPagingProperty("limit")
	return ok
}

// GetLimit returns the page size.
func (q *Query) GetLimit() (int, bool) {
	return q.intProperty("limit")
}

// SetLimit overwrites the page size.
func (q *Query) SetLimit(n int) *Query {
	return q.SetPagingProperty("limit", n)
}

// HasStart reports whether a start sits on the transitive chain.
func (q *Query) HasStart() bool {
	_, ok := q.GetPagingProperty("start")
	return ok
}

// GetStart returns the offset.
func (q *Query) GetStart() (int, bool) {
	return q.intProperty("start")
}

// SetStart overwrites the offset.
func (q *Query) SetStart(n int) *Query {
	return q.SetPagingProperty("start", n)
}

// AddStart sets the offset, prepending a start node as the new root when
// the query has none. The root @context stays on the root.
func (q *Query) AddStart(n int) *Query {
	if q.err != nil {
		return q
	}
	if q.HasStart() {
		return q.SetStart(n)
	}
	q.prependRoot("start", ir.IRInt(n))
	return q
}

// GetPage returns start/limit + 1, or 1 when there is no start.
func (q *Query) GetPage() (int, error) {
	if q.err != nil {
		return 0, q.err
	}
	limit, err := q.pageSize("GetPage")
	if err != nil {
		return 0, err
	}
	start, ok := q.GetStart()
	if !ok {
		return 1, nil
	}
	return start/limit + 1, nil
}

func (q *Query) pageSize(method string) (int, error) {
	v, ok := q.GetPagingProperty("limit")
	if !ok {
		return 0, NewNotPaged(method)
	}
	limit, ok := v.(ir.IRInt)
	if !ok || limit <= 0 {
		return 0, NewInvalidArgument(method, -1, "limit must be a positive integer, got %v", v)
	}
	return int(limit), nil
}

// SetPage moves to page n (1-based) by writing start = limit * (n-1).
func (q *Query) SetPage(n int) *Query {
	if q.err != nil {
		return q
	}
	limit, err := q.pageSize("SetPage")
	if err != nil {
		return q.fail(err)
	}
	if n < 1 {
		return q.fail(NewInvalidArgument("SetPage", 0, "page must be at least 1, got %d", n))
	}
	return q.AddStart(limit * (n - 1))
}

// NextPage advances one page.
func (q *Query) NextPage() *Query {
	page, err := q.GetPage()
	if err != nil {
		return q.fail(err)
	}
	return q.SetPage(page + 1)
}

// FirstPage returns to page 1.
func (q *Query) FirstPage() *Query {
	return q.SetPage(1)
}

// PreviousPage steps back one page, staying on page 1.
func (q *Query) PreviousPage() *Query {
	page, err := q.GetPage()
	if err != nil {
		return q.fail(err)
	}
	if page > 1 {
		return q.SetPage(page - 1)
	}
	return q
}

// SetPageSize changes the limit and resets to the first page.
func (q *Query) SetPageSize(size int) *Query {
	if q.err != nil {
		return q
	}
	if !q.IsPaged() {
		return q.fail(NewNotPaged("SetPageSize"))
	}
	if size <= 0 {
		return q.fail(NewInvalidArgument("SetPageSize", 0, "page size must be positive, got %d", size))
	}
	return q.SetLimit(size).AddStart(0)
}

// HasSelect reports whether a select sits on the transitive chain.
func (q *Query) HasSelect() bool {
	_, ok := q.GetPagingProperty("select")
	return ok
}

// GetSelectVariables returns the projected variables of the first select
// on the transitive chain.
func (q *Query) GetSelectVariables() ([]string, bool) {
	var vars []string
	found := false
	walk(q.doc, func(op string, node ir.IRObject) bool {
		if op != "select" {
			return false
		}
		found = true
		args, _ := node[op].(ir.IRArray)
		for i := 0; i < len(args)-1; i++ {
			if s, ok := args[i].(ir.IRString); ok {
				vars = append(vars, string(s))
			}
		}
		return true
	})
	return vars, found
}

// GetContext returns the first @context found at the root or on a node
// of the transitive chain.
func (q *Query) GetContext() (ir.IRObject, bool) {
	var ctx ir.IRObject
	check := func(node ir.IRObject) bool {
		if c, ok := node[contextKey].(ir.IRObject); ok {
			ctx = c
			return true
		}
		return false
	}
	if check(q.doc) {
		return ctx, true
	}
	walk(q.doc, func(op string, node ir.IRObject) bool {
		return check(node)
	})
	return ctx, ctx != nil
}

// Context sets the root @context.
func (q *Query) Context(ctx ir.IRObject) *Query {
	if q.err != nil {
		return q
	}
	if ctx == nil {
		return q.fail(NewInvalidArgument("Context", 0, "nil context"))
	}
	q.doc[contextKey] = ir.CloneObject(ctx)
	return q
}
