package vocab

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultReturnsIndependentCopies(t *testing.T) {
	a := Default()
	b := Default()

	a["label"] = "scm:myLabel"
	a["extra"] = "scm:extra"

	assert.Equal(t, "rdfs:label", b["label"])
	assert.NotContains(t, b, "extra")
	assert.Equal(t, "rdfs:label", Default()["label"])
}

func TestDefaultTable(t *testing.T) {
	v := Default()
	assert.Len(t, v, 26)
	assert.Equal(t, "xdd:coordinatePolyline", v["line"])
	assert.Equal(t, "tcs:Document", v["Document"])
}

func TestCloneAndMerge(t *testing.T) {
	v := Vocabulary{"a": "scm:a"}
	c := v.Clone()
	c.Merge(Vocabulary{"b": "scm:b", "a": "scm:A"})

	assert.Equal(t, Vocabulary{"a": "scm:a"}, v)
	assert.Equal(t, Vocabulary{"a": "scm:A", "b": "scm:b"}, c)

	var empty Vocabulary
	assert.NotNil(t, empty.Clone())

	term, ok := c.Lookup("b")
	assert.True(t, ok)
	assert.Equal(t, "scm:b", term)
}

func TestFromBindings(t *testing.T) {
	bindings := []map[string]any{
		{"S": "scm:Report", "P": "rdf:type", "O": "owl:Class"},
		{"S": "_:blank1", "P": "rdfs:label", "O": map[string]any{"@value": "Report"}},
		{"S": "a:b:c", "P": "scm:", "O": 42},
	}

	v := FromBindings(bindings)
	assert.Equal(t, Vocabulary{
		"Report": "scm:Report",
		"type":   "rdf:type",
		"Class":  "owl:Class",
		"label":  "rdfs:label",
	}, v)
}

func TestFromBindingsEmpty(t *testing.T) {
	assert.Empty(t, FromBindings(nil))
}
