package woql

import (
	"encoding/json"
	"strings"

	"github.com/roach88/woql/internal/ir"
	"github.com/roach88/woql/internal/vocab"
)

// Term is an operator argument. The set is closed: Var, Str, Literal,
// List and *Query.
//
// Builder methods take plain Go values and convert them once on entry:
// strings starting with "v:" become Var, other strings become Str,
// integers and booleans become Literal, slices become List.
type Term interface {
	isTerm()
}

// Var is a query variable. The "v:" prefix is added when missing.
type Var string

// Str is an identifier subject to vocabulary and prefix resolution.
type Str string

// Literal is a value written verbatim: a typed or language-tagged
// literal object, an integer or a boolean.
type Literal struct {
	Value ir.IRValue
}

// List is rendered as {"list": [...]}.
type List []Term

func (Var) isTerm()     {}
func (Str) isTerm()     {}
func (Literal) isTerm() {}
func (List) isTerm()    {}
func (*Query) isTerm()  {}

const varPrefix = "v:"

// V returns the variable name, prefixed with "v:" if needed.
func V(name string) Var {
	return Var(varName(name))
}

func varName(name string) string {
	if strings.HasPrefix(name, varPrefix) {
		return name
	}
	return varPrefix + name
}

// String builds an xsd:string literal.
func String(s string) Literal {
	return Typed(s, "xsd:string")
}

// Lang builds a language-tagged string literal.
func Lang(s, lang string) Literal {
	return Literal{Value: vocab.LangLiteral(s, lang)}
}

// Typed builds {"@value": value, "@type": typ}.
func Typed(value, typ string) Literal {
	return Literal{Value: ir.Obj(ir.O("@value", ir.IRString(value)), ir.O("@type", ir.IRString(typ)))}
}

// Decimal builds an xsd:decimal literal from its lexical form.
// Fractional numbers are never encoded as JSON numbers.
func Decimal(lexical string) Literal {
	return Typed(lexical, "xsd:decimal")
}

// Integer builds a bare integer argument.
func Integer(n int64) Literal {
	return Literal{Value: ir.IRInt(n)}
}

// Bool builds a bare boolean argument.
func Bool(b bool) Literal {
	return Literal{Value: ir.IRBool(b)}
}

// Items builds a List from terms.
func Items(terms ...Term) List {
	return List(terms)
}

// roleRaw writes strings unresolved.
const roleRaw vocab.Role = -1

// toTerm converts a Go value into a Term.
func toTerm(op string, index int, v any) (Term, error) {
	switch val := v.(type) {
	case nil:
		return nil, NewInvalidArgument(op, index, "nil argument")
	case *Query:
		if val == nil {
			return nil, NewInvalidArgument(op, index, "nil sub-query")
		}
		return val, nil
	case Term:
		return val, nil
	case string:
		if strings.HasPrefix(val, varPrefix) {
			return Var(val), nil
		}
		return Str(val), nil
	case int:
		return Integer(int64(val)), nil
	case int32:
		return Integer(int64(val)), nil
	case int64:
		return Integer(val), nil
	case bool:
		return Bool(val), nil
	case []string:
		list := make(List, len(val))
		for i, s := range val {
			t, err := toTerm(op, index, s)
			if err != nil {
				return nil, err
			}
			list[i] = t
		}
		return list, nil
	case []any:
		list := make(List, len(val))
		for i, elem := range val {
			t, err := toTerm(op, index, elem)
			if err != nil {
				return nil, err
			}
			list[i] = t
		}
		return list, nil
	case ir.IRString:
		return toTerm(op, index, string(val))
	case ir.IRArray:
		list := make(List, len(val))
		for i, elem := range val {
			t, err := toTerm(op, index, elem)
			if err != nil {
				return nil, err
			}
			list[i] = t
		}
		return list, nil
	case ir.IRValue:
		return Literal{Value: val}, nil
	case map[string]any, json.Number, float64:
		irVal, err := ir.FromAny(val)
		if err != nil {
			return nil, NewInvalidArgument(op, index, "%v", err)
		}
		if s, ok := irVal.(ir.IRString); ok {
			return toTerm(op, index, string(s))
		}
		return Literal{Value: irVal}, nil
	default:
		return nil, NewInvalidArgument(op, index, "unsupported argument type %T", v)
	}
}

// render turns a term into document form. Str terms are resolved for
// role unless role is roleRaw. Sub-queries are spliced as deep copies and
// their update flag propagates to q.
func (q *Query) render(op string, index int, t Term, role vocab.Role) (ir.IRValue, error) {
	switch val := t.(type) {
	case Var:
		return ir.IRString(varName(string(val))), nil
	case Str:
		if role == roleRaw {
			return ir.IRString(val), nil
		}
		return vocab.Resolve(q.vocab, string(val), role), nil
	case Literal:
		if val.Value == nil {
			return nil, NewInvalidArgument(op, index, "empty literal")
		}
		return ir.Clone(val.Value), nil
	case List:
		items := make(ir.IRArray, len(val))
		for i, elem := range val {
			v, err := q.render(op, index, elem, roleRaw)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return ir.IRObject{"list": items}, nil
	case *Query:
		return q.splice(op, index, val)
	default:
		return nil, NewInvalidArgument(op, index, "unsupported term %T", t)
	}
}

// splice returns a copy of sub's document for embedding in q.
func (q *Query) splice(op string, index int, sub *Query) (ir.IRObject, error) {
	if sub == nil {
		return nil, NewInvalidArgument(op, index, "nil sub-query")
	}
	if sub.err != nil {
		return nil, newSubqueryFailed(op, index, sub.err)
	}
	if sub.containsUpdate {
		q.containsUpdate = true
	}
	return ir.CloneObject(sub.doc), nil
}

// arg converts and renders one argument.
func (q *Query) arg(op string, index int, v any, role vocab.Role) (ir.IRValue, error) {
	t, err := toTerm(op, index, v)
	if err != nil {
		return nil, err
	}
	return q.render(op, index, t, role)
}

// args renders a positional argument list with one role per position.
func (q *Query) args(op string, values []any, roles ...vocab.Role) (ir.IRArray, error) {
	out := make(ir.IRArray, len(values))
	for i, v := range values {
		role := roleRaw
		if i < len(roles) {
			role = roles[i]
		}
		rendered, err := q.arg(op, i, v, role)
		if err != nil {
			return nil, err
		}
		out[i] = rendered
	}
	return out, nil
}
