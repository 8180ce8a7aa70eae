package woql

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/woql/internal/ir"
)

// ValidationResult reports structural problems in a query document.
type ValidationResult struct {
	// Valid is true when Errors is empty. Warnings do not affect it.
	Valid bool

	// Errors lists violations the server is certain to reject.
	Errors []string

	// Warnings lists suspicious but accepted shapes.
	Warnings []string

	multipleOperators bool
}

// knownOperators are the operators this package can emit, plus the
// wrapper keys that appear inside arguments.
var knownOperators = map[string]bool{
	"select": true, "from": true, "into": true, "start": true, "limit": true,
	"when": true, "opt": true, "not": true, "and": true, "or": true,
	"group_by": true, "comment": true, "get": true, "as": true, "list": true,
	"true": true, "false": true,
	"triple": true, "quad": true, "add_triple": true, "add_quad": true,
	"delete_triple": true, "delete_quad": true, "delete": true, "update": true,
	"isa": true, "sub": true, "eq": true, "less": true, "greater": true,
	"trim": true, "eval": true, "plus": true, "minus": true, "times": true,
	"divide": true, "div": true, "exp": true, "typecast": true, "length": true,
	"lower": true, "pad": true, "concat": true, "join": true, "unique": true,
	"idgen": true, "remote": true, "file": true,
}

// Validate checks the structural rules of a query document:
//  1. Each operator node holds exactly one operator key (plus @context)
//  2. Operator arguments are lists
//  3. Transitive operators end in a mapping continuation
//
// Unknown operators and empty continuations are reported as warnings.
// Objects with "@" keys such as {"@value": ...} are literals and are not
// descended into.
//
// Validate is a pure function with no side effects.
func Validate(doc ir.IRObject) ValidationResult {
	v := &validator{
		errors:   []string{},
		warnings: []string{},
	}
	v.validateNode(doc, "")

	return ValidationResult{
		Valid:             len(v.errors) == 0,
		Errors:            v.errors,
		Warnings:          v.warnings,
		multipleOperators: v.multipleOperators,
	}
}

// validator accumulates findings during traversal.
type validator struct {
	errors            []string
	warnings          []string
	multipleOperators bool
}

func (v *validator) addError(format string, args ...any) {
	v.errors = append(v.errors, fmt.Sprintf(format, args...))
}

func (v *validator) addWarning(format string, args ...any) {
	v.warnings = append(v.warnings, fmt.Sprintf(format, args...))
}

func location(where string) string {
	if where == "" {
		return "/"
	}
	return where
}

// isLiteral reports whether node is a value object rather than an operator.
func isLiteral(node ir.IRObject) bool {
	for k := range node {
		if k != contextKey && strings.HasPrefix(k, "@") {
			return true
		}
	}
	return false
}

// validateNode checks one mapping.
func (v *validator) validateNode(node ir.IRObject, where string) {
	if isLiteral(node) {
		return
	}
	ops := operatorKeys(node)
	if len(ops) > 1 {
		v.multipleOperators = true
		v.addError("%s: %d operators %v in one node", location(where), len(ops), ops)
	}

	for _, op := range ops {
		at := where + "/" + op
		if !knownOperators[op] {
			v.addWarning("%s: unknown operator %q", at, op)
		}
		args, ok := node[op].(ir.IRArray)
		if !ok {
			v.addError("%s: arguments must be a list, got %T", at, node[op])
			continue
		}
		if transitive[op] {
			v.checkContinuation(op, args, at)
		}
		for i, arg := range args {
			v.validateValue(arg, at+"/"+strconv.Itoa(i))
		}
	}
}

func (v *validator) checkContinuation(op string, args ir.IRArray, at string) {
	if len(args) == 0 {
		v.addError("%s: %s needs a continuation", at, op)
		return
	}
	cont, ok := args[len(args)-1].(ir.IRObject)
	if !ok {
		v.addError("%s: %s continuation must be a mapping, got %T", at, op, args[len(args)-1])
		return
	}
	if len(operatorKeys(cont)) == 0 {
		v.addWarning("%s: %s has an empty continuation", at, op)
	}
}

func (v *validator) validateValue(val ir.IRValue, where string) {
	switch value := val.(type) {
	case ir.IRObject:
		v.validateNode(value, where)
	case ir.IRArray:
		for i, elem := range value {
			v.validateValue(elem, where+"/"+strconv.Itoa(i))
		}
	}
}
