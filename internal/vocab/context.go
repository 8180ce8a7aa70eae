package vocab

import (
	"maps"
	"strings"

	"github.com/roach88/woql/internal/ir"
)

// standardPrefixes are present in every default context.
var standardPrefixes = map[string]string{
	"rdf":      "http://www.w3.org/1999/02/22-rdf-syntax-ns#",
	"rdfs":     "http://www.w3.org/2000/01/rdf-schema#",
	"xsd":      "http://www.w3.org/2001/XMLSchema#",
	"owl":      "http://www.w3.org/2002/07/owl#",
	"tcs":      "http://terminusdb.com/schema/tcs#",
	"tbs":      "http://terminusdb.com/schema/tbs#",
	"xdd":      "http://terminusdb.com/schema/xdd#",
	"v":        "http://terminusdb.com/woql/variable/",
	"terminus": "http://terminusdb.com/schema/terminus#",
	"vio":      "http://terminusdb.com/schema/vio#",
	"docs":     "http://terminusdb.com/schema/documentation#",
}

// StandardPrefixes returns a copy of the well-known prefix table.
func StandardPrefixes() map[string]string {
	return maps.Clone(standardPrefixes)
}

// DefaultContext builds the @context for a database rooted at baseURL.
// A trailing slash on baseURL is ignored.
//
//	scm = base + "/schema#"
//	doc = base + "/document/"
//	db  = base + "/"
func DefaultContext(baseURL string) ir.IRObject {
	base := strings.TrimSuffix(baseURL, "/")
	ctx := make(ir.IRObject, len(standardPrefixes)+3)
	for prefix, url := range standardPrefixes {
		ctx[prefix] = ir.IRString(url)
	}
	ctx["scm"] = ir.IRString(base + "/schema#")
	ctx["doc"] = ir.IRString(base + "/document/")
	ctx["db"] = ir.IRString(base + "/")
	return ctx
}
