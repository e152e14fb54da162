package topology

import (
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/jobgraph/internal/nodeid"
)

// Kind distinguishes the variants a logical node can take.
type Kind int

const (
	// KindUnit is an executable with its argument records.
	KindUnit Kind = iota + 1
	// KindWorkflow is a container of other nodes.
	KindWorkflow
)

// String returns the lower-case kind name.
func (k Kind) String() string {
	switch k {
	case KindUnit:
		return "unit"
	case KindWorkflow:
		return "workflow"
	default:
		return "unknown"
	}
}

var (
	// ErrUnknownKey is returned when a key was not issued by this store.
	ErrUnknownKey = errors.New("unknown node key")
	// ErrSelfLink is returned when a node is linked to itself.
	ErrSelfLink = errors.New("node cannot depend on itself")
	// ErrCycle is returned by DetectCycle.
	ErrCycle = errors.New("dependency cycle")
)

// entry is one arena slot. Adjacency is kept both as an ordered list and as a
// set so that membership checks stay O(1).
type entry struct {
	name      string
	kind      Kind
	parents   []nodeid.Key
	children  []nodeid.Key
	parentSet map[nodeid.Key]struct{}
	childSet  map[nodeid.Key]struct{}
}

// Store is an in-memory arena of logical nodes.
type Store struct {
	entries []*entry
}

// New creates an empty store.
func New() *Store {
	return &Store{}
}

// Add registers a new node and returns its key. Names are not required to be
// unique at this level.
func (s *Store) Add(name string, kind Kind) nodeid.Key {
	s.entries = append(s.entries, &entry{
		name:      name,
		kind:      kind,
		parentSet: make(map[nodeid.Key]struct{}),
		childSet:  make(map[nodeid.Key]struct{}),
	})
	return nodeid.Key(len(s.entries))
}

// Len returns the number of registered nodes.
func (s *Store) Len() int {
	return len(s.entries)
}

// Has reports whether k was issued by this store.
func (s *Store) Has(k nodeid.Key) bool {
	return k.Valid() && int(k) <= len(s.entries)
}

func (s *Store) get(k nodeid.Key) (*entry, error) {
	if !s.Has(k) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKey, k)
	}
	return s.entries[k-1], nil
}

// Name returns the logical name of k, or "" for unknown keys.
func (s *Store) Name(k nodeid.Key) string {
	e, err := s.get(k)
	if err != nil {
		return ""
	}
	return e.name
}

// Kind returns the variant of k.
func (s *Store) Kind(k nodeid.Key) Kind {
	e, err := s.get(k)
	if err != nil {
		return 0
	}
	return e.kind
}

// Link records parent as a parent of child and child as a child of parent.
// It reports false without error when the edge already exists.
func (s *Store) Link(parent, child nodeid.Key) (bool, error) {
	p, err := s.get(parent)
	if err != nil {
		return false, err
	}
	c, err := s.get(child)
	if err != nil {
		return false, err
	}
	if parent == child {
		return false, ErrSelfLink
	}
	if _, exists := c.parentSet[parent]; exists {
		return false, nil
	}

	c.parents = append(c.parents, parent)
	c.parentSet[parent] = struct{}{}
	p.children = append(p.children, child)
	p.childSet[child] = struct{}{}
	return true, nil
}

// Parents returns the parents of k in insertion order.
func (s *Store) Parents(k nodeid.Key) []nodeid.Key {
	e, err := s.get(k)
	if err != nil {
		return nil
	}
	return append([]nodeid.Key(nil), e.parents...)
}

// Children returns the children of k in insertion order.
func (s *Store) Children(k nodeid.Key) []nodeid.Key {
	e, err := s.get(k)
	if err != nil {
		return nil
	}
	return append([]nodeid.Key(nil), e.children...)
}

// HasParents reports whether k has at least one parent.
func (s *Store) HasParents(k nodeid.Key) bool {
	e, err := s.get(k)
	return err == nil && len(e.parents) > 0
}

// HasChildren reports whether k has at least one child.
func (s *Store) HasChildren(k nodeid.Key) bool {
	e, err := s.get(k)
	return err == nil && len(e.children) > 0
}

// IsParent reports whether parent is registered as a parent of child.
func (s *Store) IsParent(parent, child nodeid.Key) bool {
	c, err := s.get(child)
	if err != nil {
		return false
	}
	_, ok := c.parentSet[parent]
	return ok
}

// DetectCycle checks the subgraph induced by keys for a cycle. Edges leaving
// the key set are ignored. The returned error names the nodes on the cycle.
func (s *Store) DetectCycle(keys []nodeid.Key) error {
	inSet := make(map[nodeid.Key]bool, len(keys))
	for _, k := range keys {
		if !s.Has(k) {
			return fmt.Errorf("%w: %s", ErrUnknownKey, k)
		}
		inSet[k] = true
	}

	// permanent: fully visited, known to be acyclic.
	// onStack: part of the current DFS path.
	permanent := make(map[nodeid.Key]bool)
	onStack := make(map[nodeid.Key]bool)
	var path []nodeid.Key

	var visit func(k nodeid.Key) error
	visit = func(k nodeid.Key) error {
		if permanent[k] {
			return nil
		}
		if onStack[k] {
			return s.cycleError(path, k)
		}
		onStack[k] = true
		path = append(path, k)

		for _, child := range s.entries[k-1].children {
			if !inSet[child] {
				continue
			}
			if err := visit(child); err != nil {
				return err
			}
		}

		path = path[:len(path)-1]
		delete(onStack, k)
		permanent[k] = true
		return nil
	}

	for _, k := range keys {
		if err := visit(k); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) cycleError(path []nodeid.Key, back nodeid.Key) error {
	start := 0
	for i, k := range path {
		if k == back {
			start = i
			break
		}
	}
	names := make([]string, 0, len(path)-start+1)
	for _, k := range path[start:] {
		names = append(names, s.Name(k))
	}
	names = append(names, s.Name(back))
	return fmt.Errorf("%w: %s", ErrCycle, strings.Join(names, " -> "))
}
