// Package latticescan enumerates the integer lattice points of a bounded
// rational polyhedron by sweeping a reduced basis with an incremental
// simplex tableau, and offers a counting specialization that replaces the
// innermost per-point walk with an arithmetic range update.
package latticescan

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind classifies the failures the enumerator and identifier registry
// can surface. Callers switch on Kind rather than matching error strings.
type ErrorKind int

const (
	// KindAlloc reports memory exhaustion.
	KindAlloc ErrorKind = iota
	// KindInvalidInput reports a nil input where non-nil is required, or a
	// dimension mismatch between cooperating values.
	KindInvalidInput
	// KindUnbounded reports that the tableau found the polyhedron unbounded
	// along some basis direction, violating the caller's boundedness
	// precondition.
	KindUnbounded
	// KindLPInternal reports a tableau or basis-reduction fault.
	KindLPInternal
	// KindNotFound reports an attempt to free an identifier absent from its
	// context's interning table.
	KindNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindAlloc:
		return "alloc"
	case KindInvalidInput:
		return "invalid-input"
	case KindUnbounded:
		return "unbounded"
	case KindLPInternal:
		return "lp-internal"
	case KindNotFound:
		return "not-found"
	default:
		return "unknown"
	}
}

// Error is the typed error surfaced by every fallible operation in this
// package. Op names the failing operation, so a logged error identifies
// its call site without a stack trace; Err is the underlying cause,
// wrapped with github.com/pkg/errors so callers can still recover a stack
// trace or the original tableau/basis-reduction fault via errors.Cause.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

// Unwrap exposes the underlying cause to errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.Err }

func newErr(kind ErrorKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func newErrf(kind ErrorKind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Err: errors.Errorf(format, args...)}
}

func wrapErr(kind ErrorKind, op string, err error, msg string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: errors.Wrap(err, msg)}
}

// IsKind reports whether err (or any error in its chain) is a *Error of
// the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
