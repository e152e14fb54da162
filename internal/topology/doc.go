// Package topology stores the structure of a job graph: which logical nodes
// exist and the parent/child relationships between them.
//
// # Why an arena
//
// Nodes never hold pointers to each other. Every node lives in a Store entry
// addressed by a stable nodeid.Key, and adjacency is recorded as ordered key
// lists on each entry. The parent/child relation is symmetric: Link validates
// both endpoints first and only then appends to both lists, so a caller can
// never observe one side of an edge without the other.
//
// # Ordering
//
// Parent and child lists keep insertion order. The compiler walks them to
// emit dependency lines, so the order here is the order in the artifact.
//
// # Thread-Safety
//
// A Store has a single owner. It performs no locking; concurrent mutation is
// undefined and must be serialized by the caller.
package topology
