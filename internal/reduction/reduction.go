// Package reduction is a reference BasisReducer implementation for
// pkg/latticescan: a greedy size-reduction pass that shortens each basis
// direction's LP-measured extent via integer row combinations, playing
// the narrowly-interfaced "external collaborator" role the enumerator
// depends on only through latticescan.BasisReducer.
package reduction

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/gitrdm/latticescan/pkg/latticescan"
)

// Reducer computes a unimodular basis whose directions have short extent
// over the tableau's feasible region, using the region's own extent
// (max - min along a direction) as the "length" to shrink rather than a
// Euclidean inner product — extent is what the DFS sweep actually pays
// for, not Euclidean norm. This is an intentionally reduced-scope stand-in
// for a full generalized basis reduction fixed point: it converges for
// the axis-aligned and skewed scenarios this package is tested against,
// not for arbitrary adversarial skew in high dimension.
type Reducer struct {
	// MaxPasses bounds the number of full sweeps over basis directions.
	// Zero means derive a default from dimension.
	MaxPasses int
}

// New returns a Reducer with the default pass budget.
func New() *Reducer { return &Reducer{} }

func (rd *Reducer) passes(dim int) int {
	if rd.MaxPasses > 0 {
		return rd.MaxPasses
	}
	if dim < 2 {
		return 1
	}
	return 2 * dim
}

// Reduce implements latticescan.BasisReducer.
func (rd *Reducer) Reduce(t latticescan.Tableau, dim int) (*latticescan.BasisMatrix, error) {
	if dim <= 1 {
		return latticescan.IdentityBasis(dim), nil
	}

	basis := latticescan.IdentityBasis(dim)

	for pass := 0; pass < rd.passes(dim); pass++ {
		changed := false
		for i := 0; i < dim; i++ {
			rowI := basis.Rows[1+i]
			lenI, err := extent(t, rowI)
			if err != nil {
				return nil, errors.Wrapf(err, "reduction: extent(direction %d)", i)
			}
			for j := 0; j < dim; j++ {
				if i == j {
					continue
				}
				rowJ := basis.Rows[1+j]
				for _, k := range [2]int64{-1, 1} {
					cand := combine(rowI, rowJ, k)
					lenCand, err := extent(t, cand)
					if err != nil {
						return nil, errors.Wrapf(err, "reduction: extent(candidate %d-%d*%d)", i, k, j)
					}
					if lenCand.Cmp(lenI) < 0 {
						basis.Rows[1+i] = cand
						rowI = cand
						lenI = lenCand
						changed = true
					}
				}
			}
		}
		if !changed {
			break
		}
	}
	return basis, nil
}

// combine returns a - k*b, an elementary (and thus unimodular-preserving)
// integer row operation.
func combine(a, b []*big.Int, k int64) []*big.Int {
	kk := big.NewInt(k)
	out := make([]*big.Int, len(a))
	for i := range a {
		out[i] = new(big.Int).Sub(a[i], new(big.Int).Mul(kk, b[i]))
	}
	return out
}

// extent measures the tableau's current feasible-region span along row,
// as an integer (max - min, with min rounded up and max rounded down, the
// same way the enumerator rounds basis-direction bounds).
func extent(t latticescan.Tableau, row []*big.Int) (*big.Int, error) {
	one := big.NewInt(1)

	lo, res, err := t.Min(row, one)
	if err != nil {
		return nil, err
	}
	if res != latticescan.LPOptimal {
		return nil, errors.Errorf("reduction: direction is %s, not optimal", res)
	}

	neg := make([]*big.Int, len(row))
	neg[0] = new(big.Int).Set(row[0])
	for i := 1; i < len(row); i++ {
		neg[i] = new(big.Int).Neg(row[i])
	}
	hi, res2, err2 := t.Min(neg, one)
	if err2 != nil {
		return nil, err2
	}
	if res2 != latticescan.LPOptimal {
		return nil, errors.Errorf("reduction: direction is %s, not optimal", res2)
	}

	length := new(big.Int).Add(lo, hi)
	return length.Abs(length), nil
}

var _ latticescan.BasisReducer = (*Reducer)(nil)
