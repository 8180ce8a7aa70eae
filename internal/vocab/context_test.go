package vocab

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/woql/internal/ir"
)

func TestDefaultContextDatabasePrefixes(t *testing.T) {
	ctx := DefaultContext("https://x/db1")

	assert.Equal(t, ir.IRString("https://x/db1/schema#"), ctx["scm"])
	assert.Equal(t, ir.IRString("https://x/db1/document/"), ctx["doc"])
	assert.Equal(t, ir.IRString("https://x/db1/"), ctx["db"])
}

func TestDefaultContextStandardPrefixes(t *testing.T) {
	ctx := DefaultContext("https://x/db1")

	for _, prefix := range []string{"rdf", "rdfs", "xsd", "owl", "xdd", "tcs", "tbs", "v", "terminus", "vio", "docs"} {
		assert.Contains(t, ctx, prefix)
	}
	assert.Len(t, ctx, 14)
	assert.Equal(t, ir.IRString("http://www.w3.org/2002/07/owl#"), ctx["owl"])
}

func TestDefaultContextTrailingSlash(t *testing.T) {
	assert.Equal(t, DefaultContext("https://x/db1"), DefaultContext("https://x/db1/"))
}

func TestStandardPrefixesIsCopy(t *testing.T) {
	p := StandardPrefixes()
	p["rdf"] = "changed"
	assert.Equal(t, "http://www.w3.org/1999/02/22-rdf-syntax-ns#", StandardPrefixes()["rdf"])
}
