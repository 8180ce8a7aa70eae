package woql

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/roach88/woql/internal/ir"
)

// contextKey may sit beside the operator key on the root node.
const contextKey = "@context"

// path addresses a node by argument indexes from the root: at each step
// take the node's operator, then args[i].
type path []int

func (p path) child(i int) path {
	out := make(path, len(p), len(p)+1)
	copy(out, p)
	return append(out, i)
}

func (p path) clone() path {
	return slices.Clone(p)
}

// under reports whether p runs strictly through prefix.
func (p path) under(prefix path) bool {
	return len(p) > len(prefix) && slices.Equal(p[:len(prefix)], prefix)
}

func (p path) String() string {
	parts := make([]string, len(p))
	for i, idx := range p {
		parts[i] = strconv.Itoa(idx)
	}
	return "/" + strings.Join(parts, "/")
}

// operatorKeys returns the non-@context keys of node in canonical order.
func operatorKeys(node ir.IRObject) []string {
	keys := make([]string, 0, 1)
	for _, k := range node.SortedKeys() {
		if k != contextKey {
			keys = append(keys, k)
		}
	}
	return keys
}

// operatorOf returns the operator of node, or "" for an empty slot.
func operatorOf(node ir.IRObject, where string) (string, error) {
	keys := operatorKeys(node)
	switch len(keys) {
	case 0:
		return "", nil
	case 1:
		return keys[0], nil
	default:
		return "", newMultipleOperators(where, keys)
	}
}

// nodeAt walks p from the root of doc.
func nodeAt(doc ir.IRObject, p path) (ir.IRObject, error) {
	node := doc
	for depth, idx := range p {
		where := p[:depth].String()
		op, err := operatorOf(node, where)
		if err != nil {
			return nil, err
		}
		if op == "" {
			return nil, fmt.Errorf("cursor %s: empty node at %s", p, where)
		}
		args, ok := node[op].(ir.IRArray)
		if !ok || idx >= len(args) {
			return nil, fmt.Errorf("cursor %s: %s has no argument %d", p, op, idx)
		}
		child, ok := args[idx].(ir.IRObject)
		if !ok {
			return nil, fmt.Errorf("cursor %s: %s argument %d is not a mapping", p, op, idx)
		}
		node = child
	}
	return node, nil
}

// writeAt places {op: args} in the slot at p, applying the conjunction
// merge: an empty slot takes the operator, a slot holding "and" gains a
// conjunct, and a slot holding any other operator becomes
// {"and": [previous, new]}. It returns the path of the written node.
func (q *Query) writeAt(slot path, op string, args ir.IRArray) (path, error) {
	target, err := nodeAt(q.doc, slot)
	if err != nil {
		return nil, err
	}
	existing, err := operatorOf(target, slot.String())
	if err != nil {
		return nil, err
	}

	node := ir.IRObject{op: args}
	switch existing {
	case "":
		target[op] = args
		return slot.clone(), nil
	case "and":
		conj, ok := target["and"].(ir.IRArray)
		if !ok {
			return nil, fmt.Errorf("slot %s: and arguments are not a list", slot)
		}
		target["and"] = append(conj, node)
		return slot.child(len(conj)), nil
	default:
		prev := ir.IRObject{existing: target[existing]}
		delete(target, existing)
		target["and"] = ir.IRArray{prev, node}
		q.rebase(slot)
		return slot.child(1), nil
	}
}

// rebase shifts tracked paths that ran through the operator just wrapped
// at slot; that operator is now conjunct 0 of the new "and".
func (q *Query) rebase(slot path) {
	insert := func(p path) path {
		if !p.under(slot) {
			return p
		}
		out := make(path, 0, len(p)+1)
		out = append(out, p[:len(slot)]...)
		out = append(out, 0)
		return append(out, p[len(slot):]...)
	}
	q.cursor = insert(q.cursor)
	if q.frag != nil {
		q.frag.slot = insert(q.frag.slot)
	}
}

// prependRoot makes the current root the last argument of a new root
// operator. @context stays on the root.
func (q *Query) prependRoot(op string, leading ...ir.IRValue) {
	ctx, hasCtx := q.doc[contextKey]
	tail := make(ir.IRObject, len(q.doc))
	for k, v := range q.doc {
		if k != contextKey {
			tail[k] = v
		}
	}

	args := make(ir.IRArray, 0, len(leading)+1)
	args = append(args, leading...)
	args = append(args, tail)
	root := ir.IRObject{op: args}
	if hasCtx {
		root[contextKey] = ctx
	}
	q.doc = root

	tailIndex := len(leading)
	q.cursor = append(path{tailIndex}, q.cursor...)
	if q.frag != nil {
		q.frag.slot = append(path{tailIndex}, q.frag.slot...)
	}
}
