package script

import (
	"fmt"

	"github.com/roach88/woql/internal/vocab"
	"github.com/roach88/woql/internal/woql"
)

// Build replays s on a new builder. A non-nil vocabulary is shared by the
// builder and every sub-query. It returns the first error, naming the
// step that raised it.
func Build(s *Script, v vocab.Vocabulary) (*woql.Query, error) {
	q, err := buildSteps("steps", s.Steps, v)
	if err != nil {
		return nil, fmt.Errorf("script %s: %w", s.Name, err)
	}
	return q, nil
}

func buildSteps(where string, steps []Step, v vocab.Vocabulary) (*woql.Query, error) {
	q := woql.New()
	if v != nil {
		q.SetVocabulary(v)
	}
	for i, step := range steps {
		at := fmt.Sprintf("%s[%d] %s", where, i, step.Op)
		fn, ok := operations[step.Op]
		if !ok {
			return nil, fmt.Errorf("%s: unknown op", at)
		}

		c := &call{op: step.Op, args: step.Args}
		for j, sub := range step.Queries {
			sq, err := buildSteps(fmt.Sprintf("%s.queries[%d]", at, j), sub, v)
			if err != nil {
				return nil, err
			}
			c.subs = append(c.subs, sq)
		}

		q = fn(q, c)
		if c.err != nil {
			return nil, fmt.Errorf("%s: %w", at, c.err)
		}
		if err := q.Err(); err != nil {
			return nil, fmt.Errorf("%s: %w", at, err)
		}
	}
	return q, nil
}

// call carries one step's arguments. Accessors record the first shape
// error in err and return zero values after it.
type call struct {
	op   string
	args []any
	subs []*woql.Query
	err  error
}

func (c *call) fail(index int, format string, args ...any) {
	if c.err == nil {
		c.err = woql.NewInvalidArgument(c.op, index, format, args...)
	}
}

func (c *call) arg(i int) any {
	if i >= len(c.args) {
		c.fail(i, "missing argument")
		return ""
	}
	return c.args[i]
}

func (c *call) str(i int) string {
	v := c.arg(i)
	s, ok := v.(string)
	if !ok {
		c.fail(i, "expected string, got %T", v)
	}
	return s
}

func (c *call) optStr(i int) string {
	if i >= len(c.args) {
		return ""
	}
	return c.str(i)
}

func (c *call) int(i int) int {
	v := c.arg(i)
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		if n == float64(int(n)) {
			return int(n)
		}
	}
	c.fail(i, "expected integer, got %v", v)
	return 0
}

// strs returns every argument from index on as strings.
func (c *call) strs(from int) []string {
	var out []string
	for i := from; i < len(c.args); i++ {
		out = append(out, c.str(i))
	}
	return out
}

// rest returns the arguments from index on.
func (c *call) rest(from int) []any {
	if from >= len(c.args) {
		return nil
	}
	return c.args[from:]
}

// sub returns sub-query i, or nil when absent.
func (c *call) sub(i int) *woql.Query {
	if i < len(c.subs) {
		return c.subs[i]
	}
	return nil
}

// optSubs returns the first sub-query as a variadic tail.
func (c *call) optSubs() []*woql.Query {
	if len(c.subs) > 1 {
		c.fail(-1, "at most one sub-query, got %d", len(c.subs))
	}
	if len(c.subs) == 0 {
		return nil
	}
	return c.subs[:1]
}

type operation func(q *woql.Query, c *call) *woql.Query

// operations maps step names to builder calls.
var operations map[string]operation

func init() {
	operations = map[string]operation{
		// Triple family
		"triple": func(q *woql.Query, c *call) *woql.Query {
			return q.Triple(c.arg(0), c.arg(1), c.arg(2))
		},
		"quad": func(q *woql.Query, c *call) *woql.Query {
			return q.Quad(c.arg(0), c.arg(1), c.arg(2), c.arg(3))
		},
		"add_triple": func(q *woql.Query, c *call) *woql.Query {
			return q.AddTriple(c.arg(0), c.arg(1), c.arg(2))
		},
		"add_quad": func(q *woql.Query, c *call) *woql.Query {
			return q.AddQuad(c.arg(0), c.arg(1), c.arg(2), c.arg(3))
		},
		"delete_triple": func(q *woql.Query, c *call) *woql.Query {
			return q.DeleteTriple(c.arg(0), c.arg(1), c.arg(2))
		},
		"delete_quad": func(q *woql.Query, c *call) *woql.Query {
			return q.DeleteQuad(c.arg(0), c.arg(1), c.arg(2), c.arg(3))
		},
		"isa": func(q *woql.Query, c *call) *woql.Query { return q.Isa(c.arg(0), c.arg(1)) },
		"sub": func(q *woql.Query, c *call) *woql.Query { return q.Sub(c.arg(0), c.arg(1)) },

		// Terminals
		"eq":       func(q *woql.Query, c *call) *woql.Query { return q.Eq(c.arg(0), c.arg(1)) },
		"less":     func(q *woql.Query, c *call) *woql.Query { return q.Less(c.arg(0), c.arg(1)) },
		"greater":  func(q *woql.Query, c *call) *woql.Query { return q.Greater(c.arg(0), c.arg(1)) },
		"trim":     func(q *woql.Query, c *call) *woql.Query { return q.Trim(c.arg(0), c.arg(1)) },
		"eval":     func(q *woql.Query, c *call) *woql.Query { return q.Eval(c.arg(0), c.arg(1)) },
		"plus":     func(q *woql.Query, c *call) *woql.Query { return q.Plus(c.rest(0)...) },
		"minus":    func(q *woql.Query, c *call) *woql.Query { return q.Minus(c.rest(0)...) },
		"times":    func(q *woql.Query, c *call) *woql.Query { return q.Times(c.rest(0)...) },
		"divide":   func(q *woql.Query, c *call) *woql.Query { return q.Divide(c.rest(0)...) },
		"div":      func(q *woql.Query, c *call) *woql.Query { return q.Div(c.rest(0)...) },
		"exp":      func(q *woql.Query, c *call) *woql.Query { return q.Exp(c.arg(0), c.arg(1)) },
		"length":   func(q *woql.Query, c *call) *woql.Query { return q.Length(c.arg(0), c.arg(1)) },
		"lower":    func(q *woql.Query, c *call) *woql.Query { return q.Lower(c.arg(0), c.arg(1)) },
		"remote":   func(q *woql.Query, c *call) *woql.Query { return q.Remote(c.arg(0)) },
		"file":     func(q *woql.Query, c *call) *woql.Query { return q.File(c.arg(0)) },
		"delete":   func(q *woql.Query, c *call) *woql.Query { return q.Delete(c.arg(0)) },
		"typecast": func(q *woql.Query, c *call) *woql.Query { return q.Typecast(c.arg(0), c.arg(1), c.arg(2)) },
		"pad": func(q *woql.Query, c *call) *woql.Query {
			return q.Pad(c.arg(0), c.arg(1), c.arg(2), c.arg(3))
		},
		"join":   func(q *woql.Query, c *call) *woql.Query { return q.Join(c.arg(0), c.arg(1), c.arg(2)) },
		"concat": func(q *woql.Query, c *call) *woql.Query { return q.Concat(c.arg(0), c.str(1)) },
		"unique": func(q *woql.Query, c *call) *woql.Query { return q.Unique(c.arg(0), c.arg(1), c.arg(2)) },
		"idgen": func(q *woql.Query, c *call) *woql.Query {
			if mode := c.optStr(3); mode != "" {
				return q.IDGen(c.arg(0), c.arg(1), c.arg(2), mode)
			}
			return q.IDGen(c.arg(0), c.arg(1), c.arg(2))
		},
		"update": func(q *woql.Query, c *call) *woql.Query {
			if c.sub(0) == nil {
				c.fail(0, "update needs a sub-query")
				return q
			}
			return q.Update(c.sub(0))
		},

		// Containers
		"select": func(q *woql.Query, c *call) *woql.Query {
			vars := c.rest(0)
			if s := c.optSubs(); s != nil {
				vars = append(append([]any{}, vars...), s[0])
			}
			return q.Select(vars...)
		},
		"limit": func(q *woql.Query, c *call) *woql.Query { return q.Limit(c.int(0), c.optSubs()...) },
		"start": func(q *woql.Query, c *call) *woql.Query { return q.Start(c.int(0), c.optSubs()...) },
		"from":  func(q *woql.Query, c *call) *woql.Query { return q.From(c.str(0), c.optSubs()...) },
		"into":  func(q *woql.Query, c *call) *woql.Query { return q.Into(c.str(0), c.optSubs()...) },
		"when": func(q *woql.Query, c *call) *woql.Query {
			// Either when(bool) with an optional update query, or a
			// condition query followed by an optional update query.
			if len(c.args) > 0 {
				b, ok := c.args[0].(bool)
				if !ok {
					c.fail(0, "expected bool, got %T", c.args[0])
					return q
				}
				return q.When(b, c.optSubs()...)
			}
			if c.sub(0) == nil {
				c.fail(0, "when needs a bool argument or a condition query")
				return q
			}
			if len(c.subs) > 1 {
				return q.When(c.sub(0), c.sub(1))
			}
			return q.When(c.sub(0))
		},
		"opt": func(q *woql.Query, c *call) *woql.Query { return q.Opt(c.optSubs()...) },
		"not": func(q *woql.Query, c *call) *woql.Query { return q.Not(c.optSubs()...) },
		"and": func(q *woql.Query, c *call) *woql.Query { return q.And(c.subs...) },
		"or":  func(q *woql.Query, c *call) *woql.Query { return q.Or(c.subs...) },
		"group_by": func(q *woql.Query, c *call) *woql.Query {
			return q.GroupBy(c.arg(0), c.arg(1), c.str(2), c.optSubs()...)
		},
		"comment": func(q *woql.Query, c *call) *woql.Query { return q.Comment(c.str(0), c.optSubs()...) },
		"get": func(q *woql.Query, c *call) *woql.Query {
			return q.Get(asClauses(c), c.optSubs()...)
		},

		// Shorthand
		"node": func(q *woql.Query, c *call) *woql.Query {
			return q.Node(c.arg(0), c.strs(1)...)
		},
		"graph":        func(q *woql.Query, c *call) *woql.Query { return q.Graph(c.str(0)) },
		"label":        func(q *woql.Query, c *call) *woql.Query { return q.Label(c.str(0), c.strs(1)...) },
		"description":  func(q *woql.Query, c *call) *woql.Query { return q.Description(c.str(0), c.strs(1)...) },
		"domain":       func(q *woql.Query, c *call) *woql.Query { return q.Domain(c.str(0)) },
		"parent":       func(q *woql.Query, c *call) *woql.Query { return q.Parent(c.strs(0)...) },
		"entity":       func(q *woql.Query, c *call) *woql.Query { return q.Entity() },
		"relationship": func(q *woql.Query, c *call) *woql.Query { return q.Relationship() },
		"property":     func(q *woql.Query, c *call) *woql.Query { return q.Property(c.str(0), c.arg(1)) },
		"node_isa":     func(q *woql.Query, c *call) *woql.Query { return q.NodeIsa(c.str(0)) },
		"node_sub":     func(q *woql.Query, c *call) *woql.Query { return q.NodeSub(c.str(0)) },
		"abstract":     func(q *woql.Query, c *call) *woql.Query { return q.Abstract(c.strs(0)...) },
		"max":          func(q *woql.Query, c *call) *woql.Query { return q.Max(c.int(0)) },
		"min":          func(q *woql.Query, c *call) *woql.Query { return q.Min(c.int(0)) },
		"cardinality":  func(q *woql.Query, c *call) *woql.Query { return q.Cardinality(c.int(0)) },

		// Schema
		"add_class":    func(q *woql.Query, c *call) *woql.Query { return q.AddClass(c.str(0), c.strs(1)...) },
		"delete_class": func(q *woql.Query, c *call) *woql.Query { return q.DeleteClass(c.str(0), c.strs(1)...) },
		"add_property": func(q *woql.Query, c *call) *woql.Query {
			return q.AddProperty(c.str(0), c.optStr(1), c.strs(2)...)
		},
		"delete_property": func(q *woql.Query, c *call) *woql.Query {
			return q.DeleteProperty(c.str(0), c.strs(1)...)
		},

		// Library
		"star": func(q *woql.Query, c *call) *woql.Query {
			return q.Star(c.optStr(0), c.optStr(1), c.optStr(2), c.optStr(3))
		},
		"get_everything":            func(q *woql.Query, c *call) *woql.Query { return q.GetEverything(c.strs(0)...) },
		"get_all_documents":         func(q *woql.Query, c *call) *woql.Query { return q.GetAllDocuments() },
		"document_metadata":         func(q *woql.Query, c *call) *woql.Query { return q.DocumentMetadata() },
		"concrete_document_classes": func(q *woql.Query, c *call) *woql.Query { return q.ConcreteDocumentClasses() },
		"property_metadata":         func(q *woql.Query, c *call) *woql.Query { return q.PropertyMetadata() },
		"element_metadata":          func(q *woql.Query, c *call) *woql.Query { return q.ElementMetadata() },
		"class_metadata":            func(q *woql.Query, c *call) *woql.Query { return q.ClassMetadata() },
		"get_data_of_class":         func(q *woql.Query, c *call) *woql.Query { return q.GetDataOfClass(c.str(0)) },
		"get_data_of_property":      func(q *woql.Query, c *call) *woql.Query { return q.GetDataOfProperty(c.str(0)) },
		"document_properties":       func(q *woql.Query, c *call) *woql.Query { return q.DocumentProperties(c.str(0)) },
		"get_document_connections":  func(q *woql.Query, c *call) *woql.Query { return q.GetDocumentConnections(c.str(0)) },
		"get_instance_meta":         func(q *woql.Query, c *call) *woql.Query { return q.GetInstanceMeta(c.str(0)) },
		"simple_graph_query":        func(q *woql.Query, c *call) *woql.Query { return q.SimpleGraphQuery() },

		// Paging
		"set_page":      func(q *woql.Query, c *call) *woql.Query { return q.SetPage(c.int(0)) },
		"set_page_size": func(q *woql.Query, c *call) *woql.Query { return q.SetPageSize(c.int(0)) },
		"next_page":     func(q *woql.Query, c *call) *woql.Query { return q.NextPage() },
		"previous_page": func(q *woql.Query, c *call) *woql.Query { return q.PreviousPage() },
		"first_page":    func(q *woql.Query, c *call) *woql.Query { return q.FirstPage() },
		"add_start":     func(q *woql.Query, c *call) *woql.Query { return q.AddStart(c.int(0)) },
	}
}

// asClauses reads get columns given as {column, variable} mappings or
// [column, variable] pairs.
func asClauses(c *call) []woql.AsClause {
	var out []woql.AsClause
	for i, raw := range c.args {
		switch v := raw.(type) {
		case map[string]any:
			col, _ := v["column"].(string)
			variable, _ := v["variable"].(string)
			out = append(out, woql.As(col, variable))
		case []any:
			if len(v) != 2 {
				c.fail(i, "as pair needs [column, variable], got %d items", len(v))
				return nil
			}
			col, _ := v[0].(string)
			variable, _ := v[1].(string)
			out = append(out, woql.As(col, variable))
		default:
			c.fail(i, "expected column mapping, got %T", raw)
			return nil
		}
	}
	return out
}
