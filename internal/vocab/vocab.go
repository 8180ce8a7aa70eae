package vocab

import (
	"maps"
	"strings"
)

// Vocabulary maps short names to prefixed terms.
type Vocabulary map[string]string

// defaultTerms is never mutated. Default hands out copies.
var defaultTerms = map[string]string{
	"type":             "rdf:type",
	"label":            "rdfs:label",
	"Class":            "owl:Class",
	"DatatypeProperty": "owl:DatatypeProperty",
	"ObjectProperty":   "owl:ObjectProperty",
	"Entity":           "tcs:Entity",
	"Document":         "tcs:Document",
	"Relationship":     "tcs:Relationship",
	"temporality":      "tcs:temporality",
	"geotemporality":   "tcs:geotemporality",
	"geography":        "tcs:geography",
	"abstract":         "tcs:abstract",
	"comment":          "rdfs:comment",
	"range":            "rdfs:range",
	"domain":           "rdfs:domain",
	"subClassOf":       "rdfs:subClassOf",
	"string":           "xsd:string",
	"integer":          "xsd:integer",
	"decimal":          "xsd:decimal",
	"email":            "xdd:email",
	"json":             "xdd:json",
	"dateTime":         "xsd:dateTime",
	"date":             "xsd:date",
	"coordinate":       "xdd:coordinate",
	"line":             "xdd:coordinatePolyline",
	"polygon":          "xdd:coordinatePolygon",
}

// Default returns a fresh copy of the default vocabulary.
func Default() Vocabulary {
	return Vocabulary(maps.Clone(defaultTerms))
}

// Clone returns an independent copy. A nil vocabulary clones to an empty one.
func (v Vocabulary) Clone() Vocabulary {
	out := make(Vocabulary, len(v))
	maps.Copy(out, v)
	return out
}

// Merge adds every entry of other, overwriting existing short names.
func (v Vocabulary) Merge(other Vocabulary) {
	maps.Copy(v, other)
}

// Lookup returns the mapped term for a short name.
func (v Vocabulary) Lookup(short string) (string, bool) {
	term, ok := v[short]
	return term, ok
}

// FromBindings extracts vocabulary entries from query result bindings.
//
// Every bound string value of the form "prefix:suffix" (exactly one colon,
// non-empty suffix, prefix other than the blank-node prefix "_") yields
// the entry suffix -> value. Later bindings overwrite earlier ones.
func FromBindings(bindings []map[string]any) Vocabulary {
	out := Vocabulary{}
	for _, row := range bindings {
		for _, raw := range row {
			value, ok := raw.(string)
			if !ok {
				continue
			}
			parts := strings.Split(value, ":")
			if len(parts) != 2 || parts[1] == "" || parts[0] == "_" {
				continue
			}
			out[parts[1]] = value
		}
	}
	return out
}
