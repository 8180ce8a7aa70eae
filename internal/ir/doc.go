// Package ir holds the value model for WOQL query documents.
//
// A query document is a tree of IRValue nodes. Operator nodes are IRObject
// values with a single operator key mapped to an IRArray of arguments;
// literals are IRObject values keyed by "@value", "@type" and "@language".
//
// ir imports nothing internal. Every other package builds on it.
//
// Key constraints:
//   - NO float types anywhere - decimals travel as typed literals
//   - NO null - absent values are simply not written
//   - Serialization for the wire and for hashing is MarshalCanonical
package ir
