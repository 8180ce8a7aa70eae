package woql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/woql/internal/ir"
)

func TestShorthandWithoutSubjectFails(t *testing.T) {
	calls := map[string]func(q *Query) *Query{
		"Label":       func(q *Query) *Query { return q.Label("x") },
		"Description": func(q *Query) *Query { return q.Description("x") },
		"Domain":      func(q *Query) *Query { return q.Domain("Report") },
		"Parent":      func(q *Query) *Query { return q.Parent("Document") },
		"Property":    func(q *Query) *Query { return q.Property("p", "v") },
		"Max":         func(q *Query) *Query { return q.Max(1) },
		"Graph":       func(q *Query) *Query { return q.Graph("schema") },
		"NodeIsa":     func(q *Query) *Query { return q.NodeIsa("Report") },
		"Abstract":    func(q *Query) *Query { return q.Abstract() },
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			q := call(New())
			require.Error(t, q.Err())
			assert.True(t, IsNoActiveSubject(q.Err()))
			assert.Contains(t, q.Err().Error(), name)
		})
	}
}

func TestShorthandClearedByOtherTerminals(t *testing.T) {
	q := New().Triple("Doc1", "type", "scm:Report").Eq("v:A", "v:B").Label("x")
	assert.True(t, IsNoActiveSubject(q.Err()))

	q2 := New().Triple("Doc1", "type", "scm:Report").Select("v:X").Label("x")
	assert.True(t, IsNoActiveSubject(q2.Err()))
}

func TestLabelLanguageAndVariable(t *testing.T) {
	q := New().
		Node("Doc1").
		Label("Rapport", "fr").
		Description("v:Desc")

	assert.Equal(t, node("and",
		node("triple", s("doc:Doc1"), s("rdfs:label"), ir.Obj(ir.O("@value", s("Rapport")), ir.O("@language", s("fr")))),
		node("triple", s("doc:Doc1"), s("rdfs:comment"), s("v:Desc")),
	), mustDoc(t, q))
}

func TestShorthandFollowsOperatorFamily(t *testing.T) {
	tests := []struct {
		name     string
		q        *Query
		expected ir.IRObject
	}{
		{
			name: "add_triple stays add_triple",
			q:    New().AddTriple("Doc1", "type", "scm:Report").Label("Q1"),
			expected: node("and",
				node("add_triple", s("doc:Doc1"), s("rdf:type"), s("scm:Report")),
				node("add_triple", s("doc:Doc1"), s("rdfs:label"), en("Q1")),
			),
		},
		{
			name: "quad defaults to schema graph",
			q:    New().Quad("Doc1", "type", "scm:Report", "db:instance").Label("Q1"),
			expected: node("and",
				node("quad", s("doc:Doc1"), s("rdf:type"), s("scm:Report"), s("db:instance")),
				node("quad", s("doc:Doc1"), s("rdfs:label"), en("Q1"), s("db:schema")),
			),
		},
		{
			name: "graph turns triple into quad",
			q:    New().Triple("Doc1", "type", "scm:Report").Graph("instance").Label("Q1"),
			expected: node("and",
				node("triple", s("doc:Doc1"), s("rdf:type"), s("scm:Report")),
				node("quad", s("doc:Doc1"), s("rdfs:label"), en("Q1"), s("db:instance")),
			),
		},
		{
			name: "delete_triple with graph",
			q:    New().DeleteTriple("Doc1", "label", "v:L").Graph("db:g").Property("comment", "v:C"),
			expected: node("and",
				node("delete_triple", s("doc:Doc1"), s("rdfs:label"), s("v:L")),
				node("delete_quad", s("doc:Doc1"), s("rdfs:comment"), s("v:C"), s("db:g")),
			),
		},
		{
			name: "isa fragment writes triples",
			q:    New().Isa("Doc1", "Report").Label("Q1"),
			expected: node("and",
				node("isa", s("doc:Doc1"), s("scm:Report")),
				node("triple", s("doc:Doc1"), s("rdfs:label"), en("Q1")),
			),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, mustDoc(t, tt.q))
		})
	}
}

func TestAddPOMarksUpdateFromMode(t *testing.T) {
	q := New().Node("Doc1", "add_triple").Label("x")
	assert.True(t, q.ContainsUpdate())
	assert.Equal(t, node("add_triple", s("doc:Doc1"), s("rdfs:label"), en("x")), mustDoc(t, q))
}

func TestNodeDoesNotWrite(t *testing.T) {
	q := New().Node("Doc1")
	assert.Equal(t, ir.IRObject{}, mustDoc(t, q))
	assert.NoError(t, q.Err())
}

func TestParentEntityRelationship(t *testing.T) {
	q := New().
		Node("scm:Person").
		Parent("Agent", "owl:Thing").
		Entity().
		Relationship()

	assert.Equal(t, node("and",
		node("triple", s("scm:Person"), s("rdfs:subClassOf"), s("scm:Agent")),
		node("triple", s("scm:Person"), s("rdfs:subClassOf"), s("owl:Thing")),
		node("triple", s("scm:Person"), s("rdfs:subClassOf"), s("tcs:Entity")),
		node("triple", s("scm:Person"), s("rdfs:subClassOf"), s("tcs:Relationship")),
	), mustDoc(t, q))
}

func TestNodeIsaAndNodeSub(t *testing.T) {
	q := New().Node("Doc1").NodeIsa("Report").NodeSub("Document")

	assert.Equal(t, node("and",
		node("isa", s("doc:Doc1"), s("scm:Report")),
		node("sub", s("doc:Doc1"), s("tcs:Document")),
	), mustDoc(t, q))
}

func TestAbstract(t *testing.T) {
	named := New().Abstract("Report")
	assert.Equal(t, node("quad", s("doc:Report"), s("tcs:tag"), s("tcs:abstract"), s("db:schema")), mustDoc(t, named))

	frag := New().AddClass("Report").Abstract()
	assert.Equal(t, node("and",
		node("add_quad", s("scm:Report"), s("rdf:type"), s("owl:Class"), s("db:schema")),
		node("add_quad", s("scm:Report"), s("tcs:tag"), s("tcs:abstract"), s("db:schema")),
	), mustDoc(t, frag))
}

func TestCardinalityWithoutDomain(t *testing.T) {
	q := New().Node("scm:author", "add_quad").Min(2)

	count := ir.Obj(ir.O("@value", ir.IRInt(2)), ir.O("@type", s("xsd:nonNegativeInteger")))
	assert.Equal(t, node("and",
		node("add_quad", s("scm:author_min"), s("rdf:type"), s("owl:Restriction"), s("db:schema")),
		node("add_quad", s("scm:author_min"), s("owl:onProperty"), s("scm:author"), s("db:schema")),
		node("add_quad", s("scm:author_min"), s("owl:minCardinality"), count, s("db:schema")),
	), mustDoc(t, q))
}

func TestCardinalityExactWithDomain(t *testing.T) {
	q := New().
		AddQuad("scm:author", "rdfs:domain", "scm:Report", "schema").
		Cardinality(1)

	doc := mustDoc(t, q)
	conj := doc["and"].(ir.IRArray)
	require.Len(t, conj, 5)
	assert.Equal(t,
		node("add_quad", s("scm:author_cardinality"), s("owl:cardinality"),
			ir.Obj(ir.O("@value", ir.IRInt(1)), ir.O("@type", s("xsd:nonNegativeInteger"))), s("db:schema")),
		conj[3])
	assert.Equal(t,
		node("add_quad", s("scm:Report"), s("rdfs:subClassOf"), s("scm:author_cardinality"), s("db:schema")),
		conj[4])
}

func TestCardinalityRejectsNegative(t *testing.T) {
	q := New().Node("scm:p").Max(-1)
	assert.True(t, IsInvalidArgument(q.Err()))
}

func TestNodeRejectsExtraModes(t *testing.T) {
	q := New().Node("Doc1", "triple", "quad")
	assert.True(t, IsInvalidArgument(q.Err()))
}
