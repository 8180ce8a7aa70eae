package woql

import (
	"strings"

	"github.com/roach88/woql/internal/ir"
	"github.com/roach88/woql/internal/vocab"
)

// schemaGraph is the graph fragments default to in quad form.
const schemaGraph = "db:schema"

// fragment accumulates predicate/object pairs for one subject into the
// slot where its seeding operator was written.
type fragment struct {
	mode    string
	subject ir.IRValue
	graph   string
	slot    path
}

// quadForms maps triple operators to their graph-scoped equivalents.
var quadForms = map[string]string{
	"triple":        "quad",
	"add_triple":    "add_quad",
	"delete_triple": "delete_quad",
}

// unit builds the full operator for (subject, predicate, object) under
// the fragment's mode. isa and sub fragments emit plain triples. A graph,
// explicit or set with Graph, turns triple modes into their quad form;
// quad modes default to the schema graph.
func (f *fragment) unit(subject ir.IRValue, predicate string, object ir.IRValue, graph string) (string, ir.IRArray) {
	op := f.mode
	if op == "" || op == "isa" || op == "sub" {
		op = "triple"
	}
	if graph == "" {
		graph = f.graph
	}
	if quad, ok := quadForms[op]; ok && graph != "" {
		op = quad
	}

	args := ir.IRArray{subject, ir.IRString(predicate), object}
	if strings.HasSuffix(op, "quad") {
		if graph == "" {
			graph = schemaGraph
		}
		args = append(args, ir.IRString(graph))
	}
	return op, args
}

// addPO merges one predicate/object pair for subject into the fragment slot.
func (q *Query) addPO(subject ir.IRValue, predicate string, object ir.IRValue) error {
	op, args := q.frag.unit(subject, predicate, object, "")
	if _, err := q.writeAt(q.frag.slot, op, args); err != nil {
		return err
	}
	if updateOperators[op] {
		q.containsUpdate = true
	}
	return nil
}

// shorthand runs fn against the active fragment.
func (q *Query) shorthand(method string, fn func(f *fragment) error) *Query {
	if q.err != nil {
		return q
	}
	if q.frag == nil {
		return q.fail(NewNoActiveSubject(method))
	}
	return q.fail(fn(q.frag))
}

// Node makes subject the target of shorthand calls without writing
// anything. mode selects the operator family (default "triple").
func (q *Query) Node(subject any, mode ...string) *Query {
	if q.err != nil {
		return q
	}
	m := "triple"
	switch len(mode) {
	case 0:
	case 1:
		m = mode[0]
	default:
		return q.fail(NewInvalidArgument("Node", 1, "at most one mode, got %d", len(mode)))
	}
	s, err := q.arg("Node", 0, subject, vocab.RoleSubject)
	if err != nil {
		return q.fail(err)
	}
	q.frag = &fragment{mode: m, subject: s, slot: q.cursor.clone()}
	return q
}

// Graph scopes subsequent shorthand writes to graph.
func (q *Query) Graph(graph string) *Query {
	return q.shorthand("Graph", func(f *fragment) error {
		f.graph = vocab.ResolveIRI(q.vocab, graph, vocab.RoleGraph)
		return nil
	})
}

// Label adds an rdfs:label. lang defaults to "en"; a "v:" text is bound
// as a variable.
func (q *Query) Label(text string, lang ...string) *Query {
	return q.shorthand("Label", func(f *fragment) error {
		return q.addPO(f.subject, "rdfs:label", textObject(text, lang))
	})
}

// Description adds an rdfs:comment, with the same rules as Label.
func (q *Query) Description(text string, lang ...string) *Query {
	return q.shorthand("Description", func(f *fragment) error {
		return q.addPO(f.subject, "rdfs:comment", textObject(text, lang))
	})
}

func textObject(text string, lang []string) ir.IRValue {
	if strings.HasPrefix(text, varPrefix) {
		return ir.IRString(text)
	}
	l := vocab.DefaultLanguage
	if len(lang) > 0 && lang[0] != "" {
		l = lang[0]
	}
	return vocab.LangLiteral(text, l)
}

// Domain adds an rdfs:domain.
func (q *Query) Domain(class string) *Query {
	return q.shorthand("Domain", func(f *fragment) error {
		return q.addPO(f.subject, "rdfs:domain", ir.IRString(vocab.ResolveIRI(q.vocab, class, vocab.RoleClass)))
	})
}

// Parent adds an rdfs:subClassOf for each parent.
func (q *Query) Parent(parents ...string) *Query {
	return q.shorthand("Parent", func(f *fragment) error {
		for _, p := range parents {
			class := vocab.ResolveIRI(q.vocab, p, vocab.RoleClass)
			if err := q.addPO(f.subject, "rdfs:subClassOf", ir.IRString(class)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Entity declares the subject a subclass of tcs:Entity.
func (q *Query) Entity() *Query {
	return q.Parent("tcs:Entity")
}

// Relationship declares the subject a subclass of tcs:Relationship.
func (q *Query) Relationship() *Query {
	return q.Parent("tcs:Relationship")
}

// Property adds an arbitrary predicate/object pair.
func (q *Query) Property(predicate string, value any) *Query {
	return q.shorthand("Property", func(f *fragment) error {
		p := vocab.ResolveIRI(q.vocab, predicate, vocab.RolePredicate)
		o, err := q.arg("Property", 1, value, vocab.RoleObject)
		if err != nil {
			return err
		}
		return q.addPO(f.subject, p, o)
	})
}

// NodeIsa types the subject with class.
func (q *Query) NodeIsa(class string) *Query {
	return q.shorthand("NodeIsa", func(f *fragment) error {
		return q.fragmentOp("isa", f.subject, class)
	})
}

// NodeSub declares the subject a subclass of class.
func (q *Query) NodeSub(class string) *Query {
	return q.shorthand("NodeSub", func(f *fragment) error {
		return q.fragmentOp("sub", f.subject, class)
	})
}

func (q *Query) fragmentOp(op string, subject ir.IRValue, class string) error {
	c := ir.IRString(vocab.ResolveIRI(q.vocab, class, vocab.RoleClass))
	_, err := q.writeAt(q.frag.slot, op, ir.IRArray{subject, c})
	return err
}

// Abstract tags a class as abstract. With a name it writes the schema quad
// directly; without one it applies to the active subject.
func (q *Query) Abstract(class ...string) *Query {
	if q.err != nil {
		return q
	}
	switch len(class) {
	case 0:
		return q.shorthand("Abstract", func(f *fragment) error {
			return q.addPO(f.subject, "tcs:tag", ir.IRString("tcs:abstract"))
		})
	case 1:
		return q.Quad(class[0], "tcs:tag", "tcs:abstract", schemaGraph)
	default:
		return q.fail(NewInvalidArgument("Abstract", 1, "at most one class, got %d", len(class)))
	}
}

// Max adds an owl:maxCardinality restriction on the subject property.
func (q *Query) Max(n int) *Query {
	return q.card("Max", n, "max")
}

// Min adds an owl:minCardinality restriction.
func (q *Query) Min(n int) *Query {
	return q.card("Min", n, "min")
}

// Cardinality adds an exact owl:cardinality restriction.
func (q *Query) Cardinality(n int) *Query {
	return q.card("Cardinality", n, "cardinality")
}

// card writes the OWL restriction pattern for the subject property:
//
//	<subject>_<kind> rdf:type owl:Restriction
//	<subject>_<kind> owl:onProperty <subject>
//	<subject>_<kind> owl:<kind>Cardinality n
//
// and, when the slot already declares an rdfs:domain for the subject,
// <domain> rdfs:subClassOf <subject>_<kind>.
func (q *Query) card(method string, n int, kind string) *Query {
	return q.shorthand(method, func(f *fragment) error {
		property, ok := f.subject.(ir.IRString)
		if !ok {
			return NewInvalidArgument(method, -1, "cardinality needs an IRI subject, got %T", f.subject)
		}
		if n < 0 {
			return NewInvalidArgument(method, 0, "cardinality must be non-negative, got %d", n)
		}

		restriction := ir.IRString(string(property) + "_" + kind)
		predicate := "owl:cardinality"
		if kind != "cardinality" {
			predicate = "owl:" + kind + "Cardinality"
		}
		count := ir.Obj(ir.O("@value", ir.IRInt(n)), ir.O("@type", ir.IRString("xsd:nonNegativeInteger")))

		domain, hasDomain, err := q.findObject(property, "rdfs:domain")
		if err != nil {
			return err
		}

		pairs := []struct {
			p string
			o ir.IRValue
		}{
			{"rdf:type", ir.IRString("owl:Restriction")},
			{"owl:onProperty", property},
			{predicate, count},
		}
		for _, pair := range pairs {
			if err := q.addPO(restriction, pair.p, pair.o); err != nil {
				return err
			}
		}
		if hasDomain {
			return q.addPO(domain, "rdfs:subClassOf", restriction)
		}
		return nil
	})
}

// findObject looks for a (subject, predicate, object) clause in the
// fragment slot, either as its single operator or among its conjuncts.
func (q *Query) findObject(subject ir.IRString, predicate string) (ir.IRValue, bool, error) {
	slot, err := nodeAt(q.doc, q.frag.slot)
	if err != nil {
		return nil, false, err
	}
	op, err := operatorOf(slot, q.frag.slot.String())
	if err != nil || op == "" {
		return nil, false, err
	}

	clauses := []ir.IRObject{slot}
	if op == "and" {
		clauses = clauses[:0]
		conj, _ := slot["and"].(ir.IRArray)
		for _, c := range conj {
			if obj, ok := c.(ir.IRObject); ok {
				clauses = append(clauses, obj)
			}
		}
	}

	for _, clause := range clauses {
		for _, k := range operatorKeys(clause) {
			args, ok := clause[k].(ir.IRArray)
			if !ok || len(args) < 3 {
				continue
			}
			if ir.Equal(args[0], subject) && ir.Equal(args[1], ir.IRString(predicate)) {
				return args[2], true, nil
			}
		}
	}
	return nil, false, nil
}
