package latticescan

import (
	"math/big"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ScanOptions bundles the external collaborators an enumeration needs.
// Context owns the arithmetic pool and configuration; Factory builds the
// Tableau from a BasicSet; Reducer computes the reduced basis (required
// unless the Context was built with WithUnreducedBasis).
type ScanOptions struct {
	Context *Context
	Factory TableauFactory
	Reducer BasisReducer
}

func (o ScanOptions) validate(op string) error {
	if o.Context == nil {
		return newErr(KindInvalidInput, op, errors.New("nil context"))
	}
	if o.Factory == nil {
		return newErr(KindInvalidInput, op, errors.New("nil tableau factory"))
	}
	if o.Context.Config().EnableReducedBasis && o.Reducer == nil {
		return newErr(KindInvalidInput, op, errors.New("nil basis reducer"))
	}
	return nil
}

// ScanBasicSet visits every integer point of bset. For each point it calls
// cb.Add; if cb also implements RangeScanner, the innermost basis
// coordinate is settled with a single AddRange call instead of one Add
// per point. It returns the last Signal the callback produced (so ScanSet
// can propagate a stop across sibling pieces) and a non-nil *Error only on
// a genuine tableau, basis-reduction, or callback failure — a callback
// asking to stop is reported via SignalStop with a nil error, not as an
// error, since "the caller asked to stop early" and "something actually
// broke" are different outcomes a caller needs to handle differently, and
// Go's separate error and Signal return values let each be reported on
// its own channel instead of overloading a single status code for both.
func ScanBasicSet(bset *BasicSet, cb Callback, opts ScanOptions) (Signal, error) {
	const op = "ScanBasicSet"
	if err := opts.validate(op); err != nil {
		return SignalContinue, err
	}
	if bset == nil {
		return SignalContinue, newErr(KindInvalidInput, op, errors.New("nil basic set"))
	}
	if cb == nil {
		return SignalContinue, newErr(KindInvalidInput, op, errors.New("nil callback"))
	}

	logger := opts.Context.Logger()
	logger.Debug("scan_basic_set", zap.Int("dim", bset.Dim))

	if bset.Dim == 0 {
		sig, err := cb.Add([]*big.Int{big.NewInt(1)})
		if err != nil {
			return SignalContinue, wrapErr(KindLPInternal, op, err, "callback failed on zero-dimensional sample")
		}
		return sig, nil
	}

	tab, err := bset.BuildTableau(opts.Factory)
	if err != nil {
		return SignalContinue, err
	}
	if err := tab.ExtendConstraintCapacity(bset.Dim + 1); err != nil {
		return SignalContinue, wrapErr(KindLPInternal, op, err, "extend_constraint_capacity failed")
	}
	if err := tab.SetBasis(IdentityBasis(bset.Dim)); err != nil {
		return SignalContinue, wrapErr(KindLPInternal, op, err, "set_basis failed")
	}

	reducer := opts.Reducer
	if !opts.Context.Config().EnableReducedBasis {
		reducer = IdentityReducer{}
	}
	if err := tab.ComputeReducedBasis(reducer); err != nil {
		return SignalContinue, wrapErr(KindLPInternal, op, err, "compute_reduced_basis failed")
	}
	basis := tab.Basis().Clone()

	return sweep(tab, basis, bset.Dim, cb, opts.Context)
}

// sweep performs a depth-first search over the reduced basis directions:
// at each level it computes the feasible range along the current
// direction by minimizing the tableau twice (once as given, once
// negated), fixes a coordinate within that range as an equality, and
// recurses into the next direction. Backtracking rolls the tableau back
// to the snapshot taken before that level's equality was added.
func sweep(tab Tableau, basis *BasisMatrix, dim int, cb Callback, ctx *Context) (Signal, error) {
	const op = "sweep"

	rangeScan, hasRangeScan := cb.(RangeScanner)

	min := make([]*big.Int, dim)
	max := make([]*big.Int, dim)
	snap := make([]Snapshot, dim)

	level := 0
	init := true

	for level >= 0 {
		empty := false

		if init {
			row := basis.Rows[1+level]

			lo, res, err := tab.Min(row, ctx.One)
			if err != nil {
				return SignalContinue, wrapErr(KindLPInternal, op, err, "min (lower bound) failed")
			}
			switch res {
			case LPEmpty:
				empty = true
			case LPUnbounded:
				return SignalContinue, newErrf(KindUnbounded, op, "basis direction %d is unbounded below", level)
			case LPError:
				return SignalContinue, newErr(KindLPInternal, op, errors.New("tableau fault computing lower bound"))
			}

			negateVariablePart(row)
			hi, res2, err2 := tab.Min(row, ctx.One)
			negateVariablePart(row)
			if err2 != nil {
				return SignalContinue, wrapErr(KindLPInternal, op, err2, "min (upper bound) failed")
			}
			switch res2 {
			case LPEmpty:
				empty = true
			case LPUnbounded:
				return SignalContinue, newErrf(KindUnbounded, op, "basis direction %d is unbounded above", level)
			case LPError:
				return SignalContinue, newErr(KindLPInternal, op, errors.New("tableau fault computing upper bound"))
			}

			if !empty {
				min[level] = lo
				max[level] = new(big.Int).Neg(hi)
			}

			tok, err := tab.Snapshot()
			if err != nil {
				return SignalContinue, wrapErr(KindLPInternal, op, err, "snapshot failed")
			}
			snap[level] = tok

			tracef("level=%d init range=[%v,%v] empty=%v", level, min[level], max[level], empty)
		} else {
			min[level].Add(min[level], big.NewInt(1))
			tracef("level=%d advance min=%v max=%v", level, min[level], max[level])
		}

		if empty || min[level].Cmp(max[level]) > 0 {
			level--
			init = false
			if level >= 0 {
				if err := tab.Rollback(snap[level]); err != nil {
					return SignalContinue, wrapErr(KindLPInternal, op, err, "rollback on backtrack failed")
				}
			}
			continue
		}

		if level == dim-1 && hasRangeScan {
			sig, err := rangeScan.AddRange(min[level], max[level])
			if err != nil {
				return SignalContinue, wrapErr(KindLPInternal, op, err, "AddRange failed")
			}
			level--
			init = false
			if level >= 0 {
				if err := tab.Rollback(snap[level]); err != nil {
					return SignalContinue, wrapErr(KindLPInternal, op, err, "rollback after AddRange failed")
				}
			}
			if sig == SignalStop {
				return SignalStop, nil
			}
			continue
		}

		row := basis.Rows[1+level]
		row[0].Neg(min[level])
		addErr := tab.AddValidEquality(row)
		row[0].SetInt64(0)
		if addErr != nil {
			return SignalContinue, wrapErr(KindLPInternal, op, addErr, "add_valid_equality failed")
		}

		if level < dim-1 {
			level++
			init = true
			continue
		}

		sample, err := tab.SampleValue()
		if err != nil {
			return SignalContinue, wrapErr(KindLPInternal, op, err, "sample_value failed")
		}
		sig, err := cb.Add(sample)
		if err != nil {
			return SignalContinue, wrapErr(KindLPInternal, op, err, "Add failed")
		}
		init = false
		if err := tab.Rollback(snap[level]); err != nil {
			return SignalContinue, wrapErr(KindLPInternal, op, err, "rollback after Add failed")
		}
		if sig == SignalStop {
			return SignalStop, nil
		}
	}

	return SignalContinue, nil
}

func negateVariablePart(row []*big.Int) {
	for i := 1; i < len(row); i++ {
		row[i].Neg(row[i])
	}
}

// ScanSet clones and dimension-checks set via Set.Normalize and scans each
// piece in order, stopping early if cb ever signals Stop. Pieces are not
// made disjoint: a point lying in two pieces is visited once per piece.
func ScanSet(set *Set, cb Callback, opts ScanOptions) (Signal, error) {
	const op = "ScanSet"
	if set == nil {
		return SignalContinue, newErr(KindInvalidInput, op, errors.New("nil set"))
	}
	if cb == nil {
		return SignalContinue, newErr(KindInvalidInput, op, errors.New("nil callback"))
	}
	norm, err := set.Normalize()
	if err != nil {
		return SignalContinue, err
	}
	for _, piece := range norm.Pieces {
		sig, err := ScanBasicSet(piece, cb, opts)
		if err != nil {
			return SignalContinue, err
		}
		if sig == SignalStop {
			return SignalStop, nil
		}
	}
	return SignalContinue, nil
}

// CountBasicSetUpto counts bset's integer points, stopping early once the
// count reaches cap (cap == 0 means unlimited).
func CountBasicSetUpto(bset *BasicSet, cap *big.Int, opts ScanOptions) (*big.Int, error) {
	counter := NewCounter(cap)
	if _, err := ScanBasicSet(bset, counter, opts); err != nil {
		return nil, err
	}
	return counter.Count, nil
}

// CountSetUpto counts set's integer points, stopping early once the count
// reaches cap (cap == 0 means unlimited).
func CountSetUpto(set *Set, cap *big.Int, opts ScanOptions) (*big.Int, error) {
	counter := NewCounter(cap)
	if _, err := ScanSet(set, counter, opts); err != nil {
		return nil, err
	}
	return counter.Count, nil
}

// CountSet counts all of set's integer points with no cap.
func CountSet(set *Set, opts ScanOptions) (*big.Int, error) {
	return CountSetUpto(set, big.NewInt(0), opts)
}
