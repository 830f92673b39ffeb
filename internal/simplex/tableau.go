package simplex

import (
	"math/big"
	"sync"

	"github.com/pkg/errors"

	"github.com/gitrdm/latticescan/pkg/latticescan"
)

// Tableau is the reference latticescan.Tableau implementation: the
// original basic set's constraints are kept permanently, and equality
// rows added by the enumerator live on a trail that Snapshot/Rollback
// slice in O(1) — a snapshot is just a trail length, so undoing back to
// it is a single re-slice with no per-row bookkeeping.
type Tableau struct {
	mu    sync.Mutex
	dim   int
	perm  []row
	trail []row
	basis *latticescan.BasisMatrix
}

// New builds a Tableau for a basic set of the given dimension and
// constraints. Its signature matches latticescan.TableauFactory.
func New(dim int, constraints []latticescan.Constraint) (latticescan.Tableau, error) {
	if dim < 0 {
		return nil, errors.Errorf("simplex: negative dimension %d", dim)
	}
	perm := make([]row, len(constraints))
	for i, c := range constraints {
		if len(c.Coeffs) != dim+1 {
			return nil, errors.Errorf("simplex: constraint %d has %d coefficients, want %d", i, len(c.Coeffs), dim+1)
		}
		coeffs := make([]*big.Rat, len(c.Coeffs))
		for j, v := range c.Coeffs {
			coeffs[j] = new(big.Rat).SetInt(v)
		}
		perm[i] = row{coeffs: coeffs, eq: c.Eq}
	}
	return &Tableau{dim: dim, perm: perm}, nil
}

var _ latticescan.TableauFactory = New

func (t *Tableau) allRows() []row {
	out := make([]row, 0, len(t.perm)+len(t.trail))
	out = append(out, t.perm...)
	out = append(out, t.trail...)
	return out
}

// ExtendConstraintCapacity preallocates room on the equality trail.
func (t *Tableau) ExtendConstraintCapacity(k int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if k < 0 {
		return errors.Errorf("simplex: negative capacity request %d", k)
	}
	if cap(t.trail)-len(t.trail) < k {
		grown := make([]row, len(t.trail), len(t.trail)+k)
		copy(grown, t.trail)
		t.trail = grown
	}
	return nil
}

func (t *Tableau) SetBasis(b *latticescan.BasisMatrix) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if b == nil || b.Dim != t.dim {
		return errors.Errorf("simplex: basis dimension mismatch")
	}
	t.basis = b
	return nil
}

func (t *Tableau) Basis() *latticescan.BasisMatrix {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.basis
}

func (t *Tableau) ComputeReducedBasis(reducer latticescan.BasisReducer) error {
	t.mu.Lock()
	dim := t.dim
	t.mu.Unlock()

	if reducer == nil {
		return errors.New("simplex: nil basis reducer")
	}
	b, err := reducer.Reduce(t, dim)
	if err != nil {
		return errors.Wrap(err, "simplex: compute_reduced_basis")
	}

	t.mu.Lock()
	t.basis = b
	t.mu.Unlock()
	return nil
}

// Min minimizes objective·[1,x]/denom over the tableau's current rows.
func (t *Tableau) Min(objective []*big.Int, denom *big.Int) (*big.Int, latticescan.LPResult, error) {
	t.mu.Lock()
	rows := t.allRows()
	dim := t.dim
	t.mu.Unlock()

	if len(objective) != dim+1 {
		return nil, latticescan.LPError, errors.Errorf("simplex: objective has %d entries, want %d", len(objective), dim+1)
	}
	if denom == nil || denom.Sign() == 0 {
		return nil, latticescan.LPError, errors.New("simplex: nil or zero denominator")
	}

	obj := make([]*big.Rat, dim+1)
	for i, v := range objective {
		obj[i] = new(big.Rat).SetInt(v)
	}

	value, _, st := solveLP(dim, rows, obj)
	switch st {
	case statusInfeasible:
		return nil, latticescan.LPEmpty, nil
	case statusUnbounded:
		return nil, latticescan.LPUnbounded, nil
	}

	value.Quo(value, new(big.Rat).SetInt(denom))
	return ceilRat(value), latticescan.LPOptimal, nil
}

// ceilRat returns the smallest integer >= r.
func ceilRat(r *big.Rat) *big.Int {
	q, rem := new(big.Int), new(big.Int)
	q.QuoRem(r.Num(), r.Denom(), rem)
	if rem.Sign() != 0 && r.Sign() > 0 {
		q.Add(q, big.NewInt(1))
	}
	return q
}

// AddValidEquality pushes row·[1,x] == 0 onto the equality trail. The
// caller (the enumerator) guarantees it is implied by the current
// feasible region.
func (t *Tableau) AddValidEquality(rowCoeffs []*big.Int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(rowCoeffs) != t.dim+1 {
		return errors.Errorf("simplex: equality row has %d entries, want %d", len(rowCoeffs), t.dim+1)
	}
	coeffs := make([]*big.Rat, len(rowCoeffs))
	for i, v := range rowCoeffs {
		coeffs[i] = new(big.Rat).SetInt(v)
	}
	t.trail = append(t.trail, row{coeffs: coeffs, eq: true})
	return nil
}

// Snapshot returns the current trail length; Rollback truncates back to
// it. The trail never reorders entries, so a length is a sufficient and
// O(1) undo token.
func (t *Tableau) Snapshot() (latticescan.Snapshot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.trail), nil
}

func (t *Tableau) Rollback(snap latticescan.Snapshot) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	n, ok := snap.(int)
	if !ok || n < 0 || n > len(t.trail) {
		return errors.Errorf("simplex: invalid snapshot token %v", snap)
	}
	t.trail = t.trail[:n]
	return nil
}

// SampleValue extracts a feasible point by minimizing the zero objective;
// once every basis coordinate has been pinned by an equality the feasible
// region is a single point and any vertex the solver lands on is it.
func (t *Tableau) SampleValue() ([]*big.Int, error) {
	t.mu.Lock()
	rows := t.allRows()
	dim := t.dim
	t.mu.Unlock()

	zero := make([]*big.Rat, dim+1)
	for i := range zero {
		zero[i] = new(big.Rat)
	}
	_, x, st := solveLP(dim, rows, zero)
	if st != statusOptimal {
		return nil, errors.Errorf("simplex: sample_value found no feasible point (status %d)", st)
	}

	out := make([]*big.Int, dim+1)
	out[0] = big.NewInt(1)
	for i, v := range x {
		if !v.IsInt() {
			return nil, errors.Errorf("simplex: sample point is not integral at coordinate %d (%s)", i+1, v.String())
		}
		out[i+1] = new(big.Int).Set(v.Num())
	}
	return out, nil
}

var _ latticescan.Tableau = (*Tableau)(nil)
