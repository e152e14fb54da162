// internal/nodeid/doc.go

/*
Package nodeid provides the identifier schema for graph nodes.

Two kinds of identifiers exist. A Key is the stable, arena-assigned handle of
a logical node (a unit or a workflow) and never changes once issued. A
compiled name is the string the scheduler sees: the node's own name, optionally
decorated with a date and sequence number, and suffixed per argument record
when a unit fans out into several schedulable sub-nodes.

This package centralizes all formatting of compiled names so that the
declaration pass and the dependency pass of the compiler can never disagree.
*/
package nodeid
