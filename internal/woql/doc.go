// Package woql builds WOQL query documents through chained method calls.
//
// A Query owns a document tree and a cursor. Terminal operators write at
// the cursor; container operators write their node and move the cursor
// into its continuation:
//
//	q := woql.New().
//		Limit(10).
//		Select("v:Doc").
//		Triple("v:Doc", "type", "scm:Report").
//		Label("v:Title")
//
// Identifiers are resolved through the builder's vocabulary (see package
// vocab). Writing a second operator into an occupied slot turns the slot
// into an "and" of both, in call order.
//
// Errors are recorded, not returned: the first failure is kept and every
// later call is a no-op. Err, Document, JSON and Execute report it.
package woql
