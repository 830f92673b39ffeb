package latticescan

import (
	"math/big"

	"github.com/pkg/errors"
)

// Constraint is a single linear (in)equality over a basic set's variables,
// stored in homogeneous form: Coeffs[0] is the constant term and
// Coeffs[1:] are the variable coefficients. An inequality reads
// Coeffs·[1,x] >= 0; an equality reads Coeffs·[1,x] == 0.
type Constraint struct {
	Coeffs []*big.Int
	Eq     bool
}

// IneqFromInts builds an inequality constraint from plain int64
// coefficients, constant first.
func IneqFromInts(coeffs ...int64) Constraint { return fromInts(coeffs, false) }

// EqFromInts builds an equality constraint from plain int64 coefficients,
// constant first.
func EqFromInts(coeffs ...int64) Constraint { return fromInts(coeffs, true) }

func fromInts(coeffs []int64, eq bool) Constraint {
	c := make([]*big.Int, len(coeffs))
	for i, v := range coeffs {
		c[i] = big.NewInt(v)
	}
	return Constraint{Coeffs: c, Eq: eq}
}

// BasicSet is a conjunction of linear constraints over a fixed number of
// integer variables. This package ships a minimal in-module
// representation sufficient to drive a Tableau; the full polyhedral
// algebra (projection, image, coalescing, printing) lives outside this
// package, since it operates purely on Constraints and never needs the
// enumerator's internals.
type BasicSet struct {
	Dim         int
	Constraints []Constraint
}

// NewBasicSet creates an empty (universe) basic set of the given
// dimension.
func NewBasicSet(dim int) *BasicSet {
	return &BasicSet{Dim: dim}
}

// AddInequality appends Coeffs·[1,x] >= 0 and returns the receiver for
// chaining.
func (b *BasicSet) AddInequality(coeffs ...int64) *BasicSet {
	b.Constraints = append(b.Constraints, IneqFromInts(coeffs...))
	return b
}

// AddEquality appends Coeffs·[1,x] == 0 and returns the receiver for
// chaining.
func (b *BasicSet) AddEquality(coeffs ...int64) *BasicSet {
	b.Constraints = append(b.Constraints, EqFromInts(coeffs...))
	return b
}

// BuildTableau asks factory to build a Tableau representing b. factory is
// supplied by the caller, keeping this package free of any dependency on
// a concrete simplex implementation; this method only validates shapes.
func (b *BasicSet) BuildTableau(factory TableauFactory) (Tableau, error) {
	if factory == nil {
		return nil, newErr(KindInvalidInput, "BuildTableau", errors.New("nil tableau factory"))
	}
	for i, c := range b.Constraints {
		if len(c.Coeffs) != b.Dim+1 {
			return nil, newErrf(KindInvalidInput, "BuildTableau",
				"constraint %d has %d coefficients, want %d", i, len(c.Coeffs), b.Dim+1)
		}
	}
	tab, err := factory(b.Dim, b.Constraints)
	if err != nil {
		return nil, wrapErr(KindLPInternal, "BuildTableau", err, "tableau factory failed")
	}
	return tab, nil
}

// Set is a finite union of basic sets. Scanning visits each piece
// independently and does not split overlapping pieces, so a point shared
// by two pieces is visited (and counted) once per piece.
type Set struct {
	Pieces []*BasicSet
}

// NewSet wraps the given basic sets into a Set.
func NewSet(pieces ...*BasicSet) *Set {
	return &Set{Pieces: pieces}
}

// Normalize clones the pieces (clone-on-write, so mutating the result
// never affects s) and validates that they agree on dimension. The full
// pairwise-disjoint decomposition and existential-divisor elimination are
// not performed here: callers are responsible for supplying an
// already-disjoint Set, and divisors already present as equality rows are
// left untouched, since they need no further materialization once they
// appear as ordinary equality constraints.
func (s *Set) Normalize() (*Set, error) {
	if s == nil {
		return nil, newErr(KindInvalidInput, "Normalize", errors.New("nil set"))
	}
	out := &Set{Pieces: make([]*BasicSet, 0, len(s.Pieces))}
	var dim = -1
	for i, p := range s.Pieces {
		if p == nil {
			return nil, newErrf(KindInvalidInput, "Normalize", "piece %d is nil", i)
		}
		if dim == -1 {
			dim = p.Dim
		} else if p.Dim != dim {
			return nil, newErrf(KindInvalidInput, "Normalize",
				"piece %d has dimension %d, want %d", i, p.Dim, dim)
		}
		clone := &BasicSet{Dim: p.Dim, Constraints: make([]Constraint, len(p.Constraints))}
		for j, c := range p.Constraints {
			coeffs := make([]*big.Int, len(c.Coeffs))
			for k, v := range c.Coeffs {
				coeffs[k] = new(big.Int).Set(v)
			}
			clone.Constraints[j] = Constraint{Coeffs: coeffs, Eq: c.Eq}
		}
		out.Pieces = append(out.Pieces, clone)
	}
	return out, nil
}
