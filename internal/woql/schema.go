package woql

import (
	"github.com/roach88/woql/internal/ir"
	"github.com/roach88/woql/internal/vocab"
)

// schemaTerm qualifies a bare class or property name with scm:.
func schemaTerm(name string) string {
	if vocab.IsQualified(name) {
		return name
	}
	return "scm:" + name
}

func (q *Query) schemaGraphArg(graph []string) string {
	if len(graph) > 0 && graph[0] != "" {
		return vocab.ResolveIRI(q.vocab, graph[0], vocab.RoleGraph)
	}
	return schemaGraph
}

// AddClass declares class as an owl:Class. Shorthand calls that follow
// (Label, Parent, ...) describe the new class.
func (q *Query) AddClass(class string, graph ...string) *Query {
	if q.err != nil {
		return q
	}
	if class == "" {
		return q.fail(NewInvalidArgument("AddClass", 0, "empty class name"))
	}
	g := q.schemaGraphArg(graph)
	q.AddQuad(schemaTerm(class), "rdf:type", "owl:Class", g)
	if q.frag != nil {
		q.frag.graph = g
	}
	return q
}

// DeleteClass removes class and every triple pointing at it.
func (q *Query) DeleteClass(class string, graph ...string) *Query {
	if q.err != nil {
		return q
	}
	if class == "" {
		return q.fail(NewInvalidArgument("DeleteClass", 0, "empty class name"))
	}
	c := schemaTerm(class)
	g := q.schemaGraphArg(graph)
	return q.And(
		q.fresh().DeleteQuad(c, "v:All", "v:Al2", g),
		q.fresh().Opt().DeleteQuad("v:Al3", "v:Al4", c, g),
	)
}

// AddProperty declares property with range typ. Datatype ranges (xsd:,
// xdd:) make an owl:DatatypeProperty, anything else an owl:ObjectProperty.
// An empty typ means xsd:string. Shorthand calls that follow describe the
// property.
func (q *Query) AddProperty(property, typ string, graph ...string) *Query {
	if q.err != nil {
		return q
	}
	if property == "" {
		return q.fail(NewInvalidArgument("AddProperty", 0, "empty property name"))
	}
	if typ == "" {
		typ = "xsd:string"
	}
	p := schemaTerm(property)
	t := vocab.ResolveIRI(q.vocab, typ, vocab.RoleClass)
	g := q.schemaGraphArg(graph)

	kind := "owl:ObjectProperty"
	if vocab.IsLiteralType(t) {
		kind = "owl:DatatypeProperty"
	}
	q.And(
		q.fresh().AddQuad(p, "rdf:type", kind, g),
		q.fresh().AddQuad(p, "rdfs:range", t, g),
	)
	if q.err != nil {
		return q
	}
	q.containsUpdate = true
	q.chainEnded = true
	q.frag = &fragment{mode: "add_quad", subject: ir.IRString(p), graph: g, slot: q.cursor.clone()}
	return q
}

// DeleteProperty removes property and every triple pointing at it.
func (q *Query) DeleteProperty(property string, graph ...string) *Query {
	if q.err != nil {
		return q
	}
	if property == "" {
		return q.fail(NewInvalidArgument("DeleteProperty", 0, "empty property name"))
	}
	p := schemaTerm(property)
	g := q.schemaGraphArg(graph)
	return q.And(
		q.fresh().DeleteQuad(p, "v:All", "v:Al2", g),
		q.fresh().DeleteQuad("v:Al3", "v:Al4", p, g),
	)
}
