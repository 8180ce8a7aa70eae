package vocab

import (
	"strings"

	"github.com/roach88/woql/internal/ir"
)

// Role is the position a term occupies in an operator.
type Role int

const (
	RoleSubject Role = iota
	RolePredicate
	RoleObject
	RoleGraph
	RoleClass
)

func (r Role) String() string {
	switch r {
	case RoleSubject:
		return "subject"
	case RolePredicate:
		return "predicate"
	case RoleObject:
		return "object"
	case RoleGraph:
		return "graph"
	case RoleClass:
		return "class"
	default:
		return "unknown"
	}
}

// DefaultLanguage tags bare object strings.
const DefaultLanguage = "en"

// IsQualified reports whether term carries a namespace prefix.
func IsQualified(term string) bool {
	return strings.Contains(term, ":")
}

// Resolve applies the resolution rules for role. Only RoleObject can
// produce a non-string value: unknown bare objects become
// {"@value": term, "@language": "en"}.
func Resolve(v Vocabulary, term string, role Role) ir.IRValue {
	if IsQualified(term) {
		return ir.IRString(term)
	}
	if mapped, ok := v[term]; ok {
		return ir.IRString(mapped)
	}
	if role == RoleObject {
		return LangLiteral(term, DefaultLanguage)
	}
	return ir.IRString(prefixFor(role) + term)
}

// ResolveIRI is Resolve for roles that always yield an identifier.
// RoleObject is treated like RoleSubject here.
func ResolveIRI(v Vocabulary, term string, role Role) string {
	if role == RoleObject {
		role = RoleSubject
	}
	return string(Resolve(v, term, role).(ir.IRString))
}

func prefixFor(role Role) string {
	switch role {
	case RolePredicate, RoleClass:
		return "scm:"
	case RoleGraph:
		return "db:"
	default:
		return "doc:"
	}
}

// LangLiteral builds a language-tagged string literal.
func LangLiteral(value, lang string) ir.IRObject {
	return ir.Obj(ir.O("@value", ir.IRString(value)), ir.O("@language", ir.IRString(lang)))
}

// literalNamespaces hold data value types rather than identifiers.
var literalNamespaces = map[string]bool{
	"xsd": true,
	"xdd": true,
}

// IsLiteralType reports whether a qualified type term names a datatype.
func IsLiteralType(t string) bool {
	if t == "" {
		return false
	}
	prefix, _, _ := strings.Cut(t, ":")
	return literalNamespaces[prefix]
}
