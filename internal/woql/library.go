package woql

// Ready-made schema and instance queries. Each writes at the cursor like
// any other operator, so they compose with Limit, Select and friends.

// Star matches every triple, optionally narrowed by any of its arguments.
// Empty strings keep the corresponding variable (v:Subject, v:Predicate,
// v:Object); a non-empty graph turns the pattern into a quad.
func (q *Query) Star(graph, subject, predicate, object string) *Query {
	s := orDefault(subject, "v:Subject")
	p := orDefault(predicate, "v:Predicate")
	o := orDefault(object, "v:Object")
	if graph != "" {
		return q.Quad(s, p, o, graph)
	}
	return q.Triple(s, p, o)
}

// GetEverything matches every triple, in graph when one is given.
func (q *Query) GetEverything(graph ...string) *Query {
	if len(graph) > 0 && graph[0] != "" {
		return q.Quad("v:Subject", "v:Predicate", "v:Object", graph[0])
	}
	return q.Triple("v:Subject", "v:Predicate", "v:Object")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// GetAllDocuments binds every document and its type.
func (q *Query) GetAllDocuments() *Query {
	return q.And(
		q.fresh().Triple("v:Subject", "rdf:type", "v:Type"),
		q.fresh().Sub("v:Type", "tcs:Document"),
	)
}

// DocumentMetadata binds documents with their class, labels and comments.
func (q *Query) DocumentMetadata() *Query {
	return q.And(
		q.fresh().Triple("v:ID", "rdf:type", "v:Class"),
		q.fresh().Sub("v:Class", "tcs:Document"),
		q.fresh().Opt().Triple("v:ID", "rdfs:label", "v:Label"),
		q.fresh().Opt().Triple("v:ID", "rdfs:comment", "v:Comment"),
		q.fresh().Opt().Quad("v:Class", "rdfs:label", "v:Type", schemaGraph),
		q.fresh().Opt().Quad("v:Class", "rdfs:comment", "v:Type_Comment", schemaGraph),
	)
}

// ConcreteDocumentClasses binds document classes not tagged abstract.
func (q *Query) ConcreteDocumentClasses() *Query {
	return q.And(
		q.fresh().Sub("v:Class", "tcs:Document"),
		q.fresh().Not().Abstract("v:Class"),
		q.fresh().Opt().Quad("v:Class", "rdfs:label", "v:Label", schemaGraph),
		q.fresh().Opt().Quad("v:Class", "rdfs:comment", "v:Comment", schemaGraph),
	)
}

// PropertyMetadata binds every schema property with its range, type,
// label, comment and domain.
func (q *Query) PropertyMetadata() *Query {
	return q.And(
		q.fresh().Or(
			q.fresh().Quad("v:Property", "rdf:type", "owl:DatatypeProperty", schemaGraph),
			q.fresh().Quad("v:Property", "rdf:type", "owl:ObjectProperty", schemaGraph),
		),
		q.fresh().Opt().Quad("v:Property", "rdfs:range", "v:Range", schemaGraph),
		q.fresh().Opt().Quad("v:Property", "rdf:type", "v:Type", schemaGraph),
		q.fresh().Opt().Quad("v:Property", "rdfs:label", "v:Label", schemaGraph),
		q.fresh().Opt().Quad("v:Property", "rdfs:comment", "v:Comment", schemaGraph),
		q.fresh().Opt().Quad("v:Property", "rdfs:domain", "v:Domain", schemaGraph),
	)
}

// ElementMetadata binds every schema element with its descriptive triples.
func (q *Query) ElementMetadata() *Query {
	return q.And(
		q.fresh().Quad("v:Element", "rdf:type", "v:Type", schemaGraph),
		q.fresh().Opt().Quad("v:Element", "tcs:tag", "v:Abstract", schemaGraph),
		q.fresh().Opt().Quad("v:Element", "rdfs:label", "v:Label", schemaGraph),
		q.fresh().Opt().Quad("v:Element", "rdfs:comment", "v:Comment", schemaGraph),
		q.fresh().Opt().Quad("v:Element", "rdfs:subClassOf", "v:Parent", schemaGraph),
		q.fresh().Opt().Quad("v:Element", "rdfs:domain", "v:Domain", schemaGraph),
		q.fresh().Opt().Quad("v:Element", "rdfs:range", "v:Range", schemaGraph),
	)
}

// ClassMetadata binds every owl:Class with label, comment and abstract tag.
func (q *Query) ClassMetadata() *Query {
	return q.And(
		q.fresh().Quad("v:Element", "rdf:type", "owl:Class", schemaGraph),
		q.fresh().Opt().Quad("v:Element", "rdfs:label", "v:Label", schemaGraph),
		q.fresh().Opt().Quad("v:Element", "rdfs:comment", "v:Comment", schemaGraph),
		q.fresh().Opt().Quad("v:Element", "tcs:tag", "v:Abstract", schemaGraph),
	)
}

// GetDataOfClass binds instances of class and their property values.
func (q *Query) GetDataOfClass(class string) *Query {
	return q.And(
		q.fresh().Triple("v:Subject", "rdf:type", class),
		q.fresh().Opt().Triple("v:Subject", "v:Property", "v:Value"),
	)
}

// GetDataOfProperty binds every value of property with its subject label.
func (q *Query) GetDataOfProperty(property string) *Query {
	return q.And(
		q.fresh().Triple("v:Subject", property, "v:Value"),
		q.fresh().Opt().Triple("v:Subject", "rdfs:label", "v:Label"),
	)
}

// DocumentProperties binds the properties of document id.
func (q *Query) DocumentProperties(id string) *Query {
	return q.And(
		q.fresh().Triple(id, "v:Property", "v:Property_Value"),
		q.fresh().Opt().Quad("v:Property", "rdfs:label", "v:Property_Label", schemaGraph),
		q.fresh().Opt().Quad("v:Property", "rdf:type", "v:Property_Type", schemaGraph),
	)
}

// GetDocumentConnections binds documents linked to or from id.
func (q *Query) GetDocumentConnections(id string) *Query {
	return q.And(
		q.fresh().Or(
			q.fresh().Triple(id, "v:Outgoing", "v:Entid"),
			q.fresh().Triple("v:Entid", "v:Incoming", id),
		),
		q.fresh().Isa("v:Entid", "v:Enttype"),
		q.fresh().Sub("v:Enttype", "tcs:Document"),
		q.fresh().Opt().Triple("v:Entid", "rdfs:label", "v:Label"),
		q.fresh().Opt().Quad("v:Enttype", "rdfs:label", "v:Class_Label", schemaGraph),
	)
}

// GetInstanceMeta binds the type, label and comment of instance url.
func (q *Query) GetInstanceMeta(url string) *Query {
	return q.And(
		q.fresh().Triple(url, "rdf:type", "v:InstanceType"),
		q.fresh().Opt().Triple(url, "rdfs:label", "v:InstanceLabel"),
		q.fresh().Opt().Triple(url, "rdfs:comment", "v:InstanceComment"),
		q.fresh().Opt().Quad("v:InstanceType", "rdfs:label", "v:ClassLabel", schemaGraph),
	)
}

// SimpleGraphQuery binds every document-to-document edge with labels.
func (q *Query) SimpleGraphQuery() *Query {
	return q.And(
		q.fresh().Triple("v:Source", "v:Edge", "v:Target"),
		q.fresh().Isa("v:Source", "v:Source_Class"),
		q.fresh().Sub("v:Source_Class", "tcs:Document"),
		q.fresh().Isa("v:Target", "v:Target_Class"),
		q.fresh().Sub("v:Target_Class", "tcs:Document"),
		q.fresh().Opt().Triple("v:Source", "rdfs:label", "v:Source_Label"),
		q.fresh().Opt().Triple("v:Source", "rdfs:comment", "v:Source_Comment"),
		q.fresh().Opt().Quad("v:Source_Class", "rdfs:label", "v:Source_Type", schemaGraph),
		q.fresh().Opt().Quad("v:Source_Class", "rdfs:comment", "v:Source_Type_Comment", schemaGraph),
		q.fresh().Opt().Triple("v:Target", "rdfs:label", "v:Target_Label"),
		q.fresh().Opt().Triple("v:Target", "rdfs:comment", "v:Target_Comment"),
		q.fresh().Opt().Quad("v:Target_Class", "rdfs:label", "v:Target_Type", schemaGraph),
		q.fresh().Opt().Quad("v:Target_Class", "rdfs:comment", "v:Target_Type_Comment", schemaGraph),
		q.fresh().Opt().Quad("v:Edge", "rdfs:label", "v:Edge_Type", schemaGraph),
		q.fresh().Opt().Quad("v:Edge", "rdfs:comment", "v:Edge_Type_Comment", schemaGraph),
	)
}
