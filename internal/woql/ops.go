package woql

import (
	"regexp"
	"strings"

	"github.com/roach88/woql/internal/ir"
	"github.com/roach88/woql/internal/vocab"
)

var (
	tripleRoles = []vocab.Role{vocab.RoleSubject, vocab.RolePredicate, vocab.RoleObject}
	quadRoles   = []vocab.Role{vocab.RoleSubject, vocab.RolePredicate, vocab.RoleObject, vocab.RoleGraph}
)

// Triple matches subject, predicate and object in the default graph.
func (q *Query) Triple(subject, predicate, object any) *Query {
	return q.pattern("triple", tripleRoles, subject, predicate, object)
}

// Quad matches a triple in graph.
func (q *Query) Quad(subject, predicate, object, graph any) *Query {
	return q.pattern("quad", quadRoles, subject, predicate, object, graph)
}

// AddTriple inserts a triple.
func (q *Query) AddTriple(subject, predicate, object any) *Query {
	return q.pattern("add_triple", tripleRoles, subject, predicate, object)
}

// AddQuad inserts a triple into graph.
func (q *Query) AddQuad(subject, predicate, object, graph any) *Query {
	return q.pattern("add_quad", quadRoles, subject, predicate, object, graph)
}

// DeleteTriple removes a triple.
func (q *Query) DeleteTriple(subject, predicate, object any) *Query {
	return q.pattern("delete_triple", tripleRoles, subject, predicate, object)
}

// DeleteQuad removes a triple from graph.
func (q *Query) DeleteQuad(subject, predicate, object, graph any) *Query {
	return q.pattern("delete_quad", quadRoles, subject, predicate, object, graph)
}

// Isa matches instances of class.
func (q *Query) Isa(instance, class any) *Query {
	return q.pattern("isa", []vocab.Role{vocab.RoleSubject, vocab.RoleClass}, instance, class)
}

// Sub matches a subclass relationship.
func (q *Query) Sub(child, parent any) *Query {
	return q.pattern("sub", []vocab.Role{vocab.RoleClass, vocab.RoleClass}, child, parent)
}

// pattern writes a triple-family operator and makes its resolved subject
// the target of shorthand calls.
func (q *Query) pattern(op string, roles []vocab.Role, values ...any) *Query {
	if q.err != nil {
		return q
	}
	args, err := q.args(op, values, roles...)
	if err != nil {
		return q.fail(err)
	}
	return q.emit(op, args, args[0])
}

// terminal writes op with every argument in the given roles (raw by default).
func (q *Query) terminal(op string, values []any, roles ...vocab.Role) *Query {
	if q.err != nil {
		return q
	}
	args, err := q.args(op, values, roles...)
	if err != nil {
		return q.fail(err)
	}
	return q.emit(op, args, nil)
}

// Eq unifies two values.
func (q *Query) Eq(a, b any) *Query {
	return q.terminal("eq", []any{a, b}, vocab.RoleObject, vocab.RoleObject)
}

// Less compares a < b.
func (q *Query) Less(a, b any) *Query {
	return q.terminal("less", []any{a, b})
}

// Greater compares a > b.
func (q *Query) Greater(a, b any) *Query {
	return q.terminal("greater", []any{a, b})
}

// Trim strips whitespace from input into output.
func (q *Query) Trim(input, output any) *Query {
	return q.terminal("trim", []any{input, output})
}

// Eval evaluates an arithmetic expression into result.
func (q *Query) Eval(expr, result any) *Query {
	return q.terminal("eval", []any{expr, result})
}

// Plus adds its operands.
func (q *Query) Plus(operands ...any) *Query {
	return q.terminal("plus", operands)
}

// Minus subtracts its operands left to right.
func (q *Query) Minus(operands ...any) *Query {
	return q.terminal("minus", operands)
}

// Times multiplies its operands.
func (q *Query) Times(operands ...any) *Query {
	return q.terminal("times", operands)
}

// Divide divides its operands.
func (q *Query) Divide(operands ...any) *Query {
	return q.terminal("divide", operands)
}

// Div is integer division.
func (q *Query) Div(operands ...any) *Query {
	return q.terminal("div", operands)
}

// Exp raises base to exponent.
func (q *Query) Exp(base, exponent any) *Query {
	return q.terminal("exp", []any{base, exponent})
}

// Typecast casts input to typ into output.
func (q *Query) Typecast(input, typ, output any) *Query {
	return q.terminal("typecast", []any{input, typ, output}, roleRaw, vocab.RoleClass, roleRaw)
}

// Length binds the length of a list.
func (q *Query) Length(list, length any) *Query {
	return q.terminal("length", []any{list, length})
}

// Lower lowercases input into output.
func (q *Query) Lower(input, output any) *Query {
	return q.terminal("lower", []any{input, output})
}

// Pad left-pads input with char repeated times.
func (q *Query) Pad(input, char, times, output any) *Query {
	return q.terminal("pad", []any{input, char, times, output})
}

// Join concatenates list elements separated by glue.
func (q *Query) Join(list, glue, output any) *Query {
	return q.terminal("join", []any{list, glue, output})
}

// Remote reads data from a URL.
func (q *Query) Remote(source any) *Query {
	return q.terminal("remote", []any{source})
}

// File reads data from a server-side file.
func (q *Query) File(source any) *Query {
	return q.terminal("file", []any{source})
}

// Delete removes a document or IRI.
func (q *Query) Delete(target any) *Query {
	return q.terminal("delete", []any{target})
}

// Update runs sub as an update.
func (q *Query) Update(sub *Query) *Query {
	return q.terminal("update", []any{sub})
}

// Unique generates a deterministic ID from prefix and keys.
func (q *Query) Unique(prefix, keys, output any) *Query {
	if q.err != nil {
		return q
	}
	pre, err := q.arg("unique", 0, prefix, roleRaw)
	if err != nil {
		return q.fail(err)
	}
	list, err := q.listArg("unique", 1, keys)
	if err != nil {
		return q.fail(err)
	}
	out, err := q.arg("unique", 2, output, roleRaw)
	if err != nil {
		return q.fail(err)
	}
	return q.emit("unique", ir.IRArray{pre, list, out}, nil)
}

// IDGen generates an ID from prefix and keys. An optional mode is written
// before the output.
func (q *Query) IDGen(prefix, keys, output any, mode ...string) *Query {
	if q.err != nil {
		return q
	}
	pre, err := q.arg("idgen", 0, prefix, roleRaw)
	if err != nil {
		return q.fail(err)
	}
	list, err := q.listArg("idgen", 1, keys)
	if err != nil {
		return q.fail(err)
	}
	args := ir.IRArray{pre, list}
	switch len(mode) {
	case 0:
	case 1:
		args = append(args, ir.IRString(mode[0]))
	default:
		return q.fail(NewInvalidArgument("idgen", 3, "at most one mode, got %d", len(mode)))
	}
	out, err := q.arg("idgen", 2, output, roleRaw)
	if err != nil {
		return q.fail(err)
	}
	return q.emit("idgen", append(args, out), nil)
}

// listArg renders v as a {"list": [...]} wrapper, wrapping single values.
func (q *Query) listArg(op string, index int, v any) (ir.IRValue, error) {
	rendered, err := q.arg(op, index, v, roleRaw)
	if err != nil {
		return nil, err
	}
	if obj, ok := rendered.(ir.IRObject); ok {
		if _, isList := obj["list"]; isList {
			return obj, nil
		}
	}
	return ir.IRObject{"list": ir.IRArray{rendered}}, nil
}

// concatVar splits a template string around "v:Name" references.
var concatVar = regexp.MustCompile(`v:[\w_]+\b`)

// Concat joins parts into output. A string template such as
// "v:First v:Last" is split around its variables; plain text becomes
// xsd:string literals.
func (q *Query) Concat(parts any, output string) *Query {
	if q.err != nil {
		return q
	}
	var items []any
	switch val := parts.(type) {
	case string:
		items = splitTemplate(val)
	default:
		t, err := toTerm("concat", 0, parts)
		if err != nil {
			return q.fail(err)
		}
		list, ok := t.(List)
		if !ok {
			list = List{t}
		}
		for _, elem := range list {
			items = append(items, elem)
		}
	}

	rendered := make(ir.IRArray, 0, len(items))
	for _, item := range items {
		if s, ok := item.(Str); ok {
			item = string(s)
		}
		if s, ok := item.(string); ok {
			if s == "" {
				continue
			}
			if !strings.HasPrefix(s, varPrefix) {
				item = String(s)
			}
		}
		v, err := q.arg("concat", 0, item, roleRaw)
		if err != nil {
			return q.fail(err)
		}
		rendered = append(rendered, v)
	}

	out := output
	if !vocab.IsQualified(out) {
		out = varPrefix + out
	}
	return q.emit("concat", ir.IRArray{ir.IRObject{"list": rendered}, ir.IRString(out)}, nil)
}

func splitTemplate(s string) []any {
	var parts []any
	last := 0
	for _, loc := range concatVar.FindAllStringIndex(s, -1) {
		if loc[0] > last {
			parts = append(parts, s[last:loc[0]])
		}
		parts = append(parts, s[loc[0]:loc[1]])
		last = loc[1]
	}
	if last < len(s) {
		parts = append(parts, s[last:])
	}
	return parts
}

// Select projects vars over the continuation. A trailing *Query is
// spliced as the continuation.
func (q *Query) Select(vars ...any) *Query {
	if q.err != nil {
		return q
	}
	var sub *Query
	if n := len(vars); n > 0 {
		if s, ok := vars[n-1].(*Query); ok {
			if s == nil {
				return q.fail(NewInvalidArgument("select", n-1, "nil sub-query"))
			}
			sub = s
			vars = vars[:n-1]
		}
	}

	args := make(ir.IRArray, 0, len(vars)+1)
	for i, v := range vars {
		name, err := variableArg("select", i, v)
		if err != nil {
			return q.fail(err)
		}
		args = append(args, ir.IRString(name))
	}
	args = append(args, nil)
	return q.open("select", args, len(args)-1, sub)
}

// variableArg accepts a string or Var and returns a qualified variable.
// Names that already carry a prefix are kept as written.
func variableArg(op string, index int, v any) (string, error) {
	var name string
	switch val := v.(type) {
	case string:
		name = val
	case Var:
		name = string(val)
	default:
		return "", NewInvalidArgument(op, index, "expected variable name, got %T", v)
	}
	if name == "" {
		return "", NewInvalidArgument(op, index, "empty variable name")
	}
	if vocab.IsQualified(name) {
		return name, nil
	}
	return varPrefix + name, nil
}

// Limit restricts the continuation to n results.
func (q *Query) Limit(n int, sub ...*Query) *Query {
	return q.advance("limit", ir.IRInt(n), sub)
}

// Start skips the first n results of the continuation.
func (q *Query) Start(n int, sub ...*Query) *Query {
	return q.advance("start", ir.IRInt(n), sub)
}

// From runs the continuation against graph.
func (q *Query) From(graph string, sub ...*Query) *Query {
	return q.advance("from", ir.IRString(graph), sub)
}

// Into writes the continuation's updates into graph.
func (q *Query) Into(graph string, sub ...*Query) *Query {
	return q.advance("into", ir.IRString(graph), sub)
}

func (q *Query) advance(op string, value ir.IRValue, subs []*Query) *Query {
	if q.err != nil {
		return q
	}
	sub, err := optionalSub(op, 1, subs)
	if err != nil {
		return q.fail(err)
	}
	return q.open(op, ir.IRArray{value, nil}, 1, sub)
}

// When runs the continuation for each solution of cond. cond is a bool or
// a query. An optional update is spliced as the continuation.
func (q *Query) When(cond any, update ...*Query) *Query {
	if q.err != nil {
		return q
	}
	var condition ir.IRValue
	switch val := cond.(type) {
	case bool:
		key := "false"
		if val {
			key = "true"
		}
		condition = ir.IRObject{key: ir.IRArray{}}
	default:
		rendered, err := q.arg("when", 0, cond, roleRaw)
		if err != nil {
			return q.fail(err)
		}
		condition = rendered
	}
	sub, err := optionalSub("when", 1, update)
	if err != nil {
		return q.fail(err)
	}
	return q.open("when", ir.IRArray{condition, nil}, 1, sub)
}

// Opt makes a pattern optional. With a sub-query it is spliced in place;
// without one the cursor moves into the optional slot.
func (q *Query) Opt(sub ...*Query) *Query {
	return q.wrapper("opt", sub)
}

// Not negates a pattern, with the same call shapes as Opt.
func (q *Query) Not(sub ...*Query) *Query {
	return q.wrapper("not", sub)
}

func (q *Query) wrapper(op string, subs []*Query) *Query {
	if q.err != nil {
		return q
	}
	sub, err := optionalSub(op, 0, subs)
	if err != nil {
		return q.fail(err)
	}
	if sub == nil {
		return q.open(op, ir.IRArray{nil}, 0, nil)
	}
	doc, err := q.splice(op, 0, sub)
	if err != nil {
		return q.fail(err)
	}
	return q.place(op, ir.IRArray{doc})
}

// And conjoins complete sub-queries.
func (q *Query) And(subs ...*Query) *Query {
	return q.junction("and", subs)
}

// Or disjoins complete sub-queries.
func (q *Query) Or(subs ...*Query) *Query {
	return q.junction("or", subs)
}

func (q *Query) junction(op string, subs []*Query) *Query {
	if q.err != nil {
		return q
	}
	args := make(ir.IRArray, len(subs))
	for i, sub := range subs {
		doc, err := q.splice(op, i, sub)
		if err != nil {
			return q.fail(err)
		}
		args[i] = doc
	}
	return q.place(op, args)
}

// GroupBy groups solutions of the continuation by groupVars, collecting
// grouped into output.
func (q *Query) GroupBy(groupVars, grouped any, output string, sub ...*Query) *Query {
	if q.err != nil {
		return q
	}
	group, err := variableList("group_by", 0, groupVars)
	if err != nil {
		return q.fail(err)
	}

	var collected ir.IRValue
	switch val := grouped.(type) {
	case []string, []any:
		list, err := variableList("group_by", 1, val)
		if err != nil {
			return q.fail(err)
		}
		collected = list
	default:
		name, err := variableArg("group_by", 1, grouped)
		if err != nil {
			return q.fail(err)
		}
		collected = ir.IRString(name)
	}

	out, err := variableArg("group_by", 3, output)
	if err != nil {
		return q.fail(err)
	}
	s, err := optionalSub("group_by", 2, sub)
	if err != nil {
		return q.fail(err)
	}
	return q.open("group_by", ir.IRArray{group, collected, nil, ir.IRString(out)}, 2, s)
}

// variableList renders a string, Var or slice of them as {"list": [vars]}.
func variableList(op string, index int, v any) (ir.IRObject, error) {
	var raw []any
	switch val := v.(type) {
	case []string:
		for _, s := range val {
			raw = append(raw, s)
		}
	case []any:
		raw = val
	default:
		raw = []any{v}
	}
	items := make(ir.IRArray, len(raw))
	for i, elem := range raw {
		name, err := variableArg(op, index, elem)
		if err != nil {
			return nil, err
		}
		items[i] = ir.IRString(name)
	}
	return ir.IRObject{"list": items}, nil
}

// Comment attaches a note to the continuation.
func (q *Query) Comment(text string, sub ...*Query) *Query {
	if q.err != nil {
		return q
	}
	s, err := optionalSub("comment", 1, sub)
	if err != nil {
		return q.fail(err)
	}
	return q.open("comment", ir.IRArray{vocab.LangLiteral(text, vocab.DefaultLanguage), nil}, 1, s)
}

// AsClause maps a result column to a variable for Get.
type AsClause struct {
	Column   string
	Variable string
}

// As builds a column mapping. An empty column maps by position.
func As(column, variable string) AsClause {
	return AsClause{Column: column, Variable: variable}
}

func (a AsClause) render() (ir.IRObject, error) {
	if a.Variable == "" {
		return nil, NewInvalidArgument("get", 0, "as clause for column %q has no variable", a.Column)
	}
	name := a.Variable
	if !vocab.IsQualified(name) {
		name = varPrefix + name
	}
	if a.Column == "" {
		return ir.IRObject{"as": ir.IRArray{ir.IRString(name)}}, nil
	}
	col := ir.IRObject{"@value": ir.IRString(a.Column)}
	return ir.IRObject{"as": ir.IRArray{col, ir.IRString(name)}}, nil
}

// Get binds columns of a resource (Remote or File) to variables.
func (q *Query) Get(columns []AsClause, source ...*Query) *Query {
	if q.err != nil {
		return q
	}
	clauses := make(ir.IRArray, len(columns))
	for i, c := range columns {
		rendered, err := c.render()
		if err != nil {
			return q.fail(err)
		}
		clauses[i] = rendered
	}
	s, err := optionalSub("get", 1, source)
	if err != nil {
		return q.fail(err)
	}
	return q.open("get", ir.IRArray{clauses, nil}, 1, s)
}
