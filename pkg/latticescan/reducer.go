package latticescan

// BasisReducer computes a unimodular basis in which a tableau's feasible
// region has short extent along each direction, from the tableau's own
// geometry. A short-extent basis means the DFS sweep examines far fewer
// candidate coordinates per direction than it would against the raw
// identity basis. Its internals — the lattice reduction algorithm — live
// outside this package; package internal/reduction ships a reference
// implementation.
type BasisReducer interface {
	Reduce(t Tableau, dim int) (*BasisMatrix, error)
}

// IdentityReducer is a BasisReducer that performs no reduction at all: it
// always returns the identity basis. It backs the explicit
// WithUnreducedBasis option; it is never selected implicitly.
type IdentityReducer struct{}

func (IdentityReducer) Reduce(t Tableau, dim int) (*BasisMatrix, error) {
	return IdentityBasis(dim), nil
}

var _ BasisReducer = IdentityReducer{}
