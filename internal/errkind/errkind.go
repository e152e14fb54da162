// Package errkind defines the error taxonomy shared by the graph model, the
// compiler and the dispatcher. Every error carries a Kind so callers can react
// to the class of failure with errors.Is instead of matching message text.
package errkind

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind int

const (
	// Unknown is returned by KindOf for errors that carry no Kind.
	Unknown Kind = iota
	// TypeKind marks a wrong argument passed to a graph-mutation call.
	TypeKind
	// NotFoundKind marks a missing executable, directory or referenced node.
	NotFoundKind
	// UnsupportedKind marks a feature combination that is only valid in another context.
	UnsupportedKind
	// ConflictKind marks colliding names, self references and dependency cycles.
	ConflictKind
)

var (
	ErrType        = errors.New("invalid node type")
	ErrNotFound    = errors.New("not found")
	ErrUnsupported = errors.New("unsupported")
	ErrConflict    = errors.New("conflict")
)

// String returns the human-readable name of the kind.
func (k Kind) String() string {
	switch k {
	case TypeKind:
		return "type"
	case NotFoundKind:
		return "not-found"
	case UnsupportedKind:
		return "unsupported"
	case ConflictKind:
		return "conflict"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case TypeKind:
		return ErrType
	case NotFoundKind:
		return ErrNotFound
	case UnsupportedKind:
		return ErrUnsupported
	case ConflictKind:
		return ErrConflict
	default:
		return nil
	}
}

// Error is a classified failure tied to a node name.
type Error struct {
	Kind Kind
	// Node is the name of the offending node. It may be empty for failures
	// that are not tied to a single node.
	Node string
	Msg  string
	// Err is an optional underlying cause.
	Err error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Msg
	if e.Node != "" {
		msg = fmt.Sprintf("node %q: %s", e.Node, e.Msg)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

// Unwrap exposes the underlying cause, if any.
func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel matching the error's Kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// New creates a classified error for the named node.
func New(kind Kind, node, format string, args ...any) error {
	return &Error{Kind: kind, Node: node, Msg: fmt.Sprintf(format, args...)}
}

// Wrap creates a classified error for the named node around cause.
func Wrap(kind Kind, node string, cause error, format string, args ...any) error {
	return &Error{Kind: kind, Node: node, Msg: fmt.Sprintf(format, args...), Err: cause}
}

// KindOf returns the Kind of the first classified error in err's tree.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}
