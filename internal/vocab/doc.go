// Package vocab resolves short WOQL identifiers to prefixed terms.
//
// A Vocabulary maps short names ("label", "Class") to prefixed terms
// ("rdfs:label", "owl:Class"). Builders own a private copy taken from the
// immutable default table, so mutating one builder's vocabulary never
// leaks into another.
//
// Resolution rules, in order:
//  1. A term containing ":" is already qualified and returned unchanged.
//  2. A known short name is replaced by its mapped term.
//  3. Otherwise a role prefix is applied: doc: for subjects, scm: for
//     predicates and classes, db: for graphs. Objects become English
//     language-tagged literals instead.
package vocab
