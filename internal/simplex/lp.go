// Package simplex is a reference Tableau implementation for
// pkg/latticescan: a dense, exact-rational two-phase simplex solver with
// trail-based equality rows, wired to play the "external collaborator"
// role pkg/latticescan's Tableau interface describes.
package simplex

import "math/big"

type status int

const (
	statusOptimal status = iota
	statusInfeasible
	statusUnbounded
)

// row is one constraint in homogeneous form: coeffs[0] + coeffs[1:]·x is
// constrained to be >= 0 (eq == false) or == 0 (eq == true).
type row struct {
	coeffs []*big.Rat
	eq     bool
}

// solveLP minimizes objective[0] + objective[1:]·x over the feasible
// region described by rows, where x has dim unconstrained-sign
// components.
//
// The method is the classic two-phase simplex: each free variable x_j is
// split into p_j - q_j with p_j, q_j >= 0; every row gets an artificial
// variable (uniformly, rather than sign-casing which rows need one);
// inequality rows additionally get a slack. Phase 1 drives the sum of
// artificials to zero (or reports infeasibility); phase 2 then optimizes
// the real objective from the phase-1 basis, with artificial columns
// barred from re-entering. Bland's rule (lowest index among eligible
// entering/leaving candidates) is used throughout to guarantee
// termination without degeneracy cycling.
func solveLP(dim int, rows []row, objective []*big.Rat) (*big.Rat, []*big.Rat, status) {
	m := len(rows)

	pCol := func(j int) int { return j - 1 }       // j in 1..dim
	qCol := func(j int) int { return dim + j - 1 } // j in 1..dim

	slackCol := make([]int, m)
	numS := 0
	for i, r := range rows {
		if r.eq {
			slackCol[i] = -1
		} else {
			slackCol[i] = 2*dim + numS
			numS++
		}
	}
	artStart := 2*dim + numS
	n := artStart + m

	tab := make([][]*big.Rat, m)
	basis := make([]int, m)

	for i, r := range rows {
		vec := make([]*big.Rat, n+1)
		for j := range vec {
			vec[j] = new(big.Rat)
		}

		rhsRaw := new(big.Rat).Neg(r.coeffs[0])
		sign := big.NewRat(1, 1)
		if rhsRaw.Sign() < 0 {
			sign = big.NewRat(-1, 1)
		}

		for j := 1; j <= dim; j++ {
			c := new(big.Rat).Mul(r.coeffs[j], sign)
			vec[pCol(j)].Set(c)
			vec[qCol(j)].Neg(c)
		}
		if !r.eq {
			vec[slackCol[i]].Neg(sign)
		}
		vec[artStart+i] = big.NewRat(1, 1)
		vec[n].Mul(rhsRaw, sign)

		tab[i] = vec
		basis[i] = artStart + i
	}

	cost1 := make([]*big.Rat, n)
	for j := range cost1 {
		cost1[j] = new(big.Rat)
	}
	for i := 0; i < m; i++ {
		cost1[artStart+i] = big.NewRat(1, 1)
	}
	obj1 := priceOut(tab, basis, cost1, m, n)
	if runSimplex(tab, basis, obj1, m, n) == statusUnbounded {
		// Minimizing a sum of nonnegative artificials is always bounded
		// below by zero; a reported unbounded phase-1 means the caller's
		// rows were malformed. Treat conservatively as infeasible.
		return nil, nil, statusInfeasible
	}
	if phase1Value := new(big.Rat).Neg(obj1[n]); phase1Value.Sign() > 0 {
		return nil, nil, statusInfeasible
	}
	// Pivot every artificial still basic (at zero after a feasible phase
	// 1) out on any nonzero real column, so phase 2 cannot raise it.
	for i := 0; i < m; i++ {
		if basis[i] < artStart {
			continue
		}
		for j := 0; j < artStart; j++ {
			if tab[i][j].Sign() != 0 {
				pivot(tab, obj1, i, j, m, n)
				basis[i] = j
				break
			}
		}
	}

	cost2 := make([]*big.Rat, n)
	for j := range cost2 {
		cost2[j] = new(big.Rat)
	}
	for j := 1; j <= dim; j++ {
		c := objective[j]
		cost2[pCol(j)] = new(big.Rat).Set(c)
		cost2[qCol(j)] = new(big.Rat).Neg(c)
	}
	obj2 := priceOut(tab, basis, cost2, m, n)
	if runSimplexLimited(tab, basis, obj2, m, n, artStart) == statusUnbounded {
		return nil, nil, statusUnbounded
	}

	value := new(big.Rat).Sub(objective[0], obj2[n])

	rowOfVar := make([]int, n)
	for j := range rowOfVar {
		rowOfVar[j] = -1
	}
	for i := 0; i < m; i++ {
		rowOfVar[basis[i]] = i
	}
	x := make([]*big.Rat, dim)
	for j := 1; j <= dim; j++ {
		pv, qv := new(big.Rat), new(big.Rat)
		if r := rowOfVar[pCol(j)]; r >= 0 {
			pv.Set(tab[r][n])
		}
		if r := rowOfVar[qCol(j)]; r >= 0 {
			qv.Set(tab[r][n])
		}
		x[j-1] = new(big.Rat).Sub(pv, qv)
	}
	return value, x, statusOptimal
}

// priceOut computes the reduced-cost row for cost against the tableau's
// current basis: objRow[j] = cost[j] - sum_i cost[basis[i]] * tab[i][j].
func priceOut(tab [][]*big.Rat, basis []int, cost []*big.Rat, m, n int) []*big.Rat {
	objRow := make([]*big.Rat, n+1)
	for j := 0; j < n; j++ {
		objRow[j] = new(big.Rat).Set(cost[j])
	}
	objRow[n] = new(big.Rat)
	for i := 0; i < m; i++ {
		cb := cost[basis[i]]
		if cb.Sign() == 0 {
			continue
		}
		for j := 0; j <= n; j++ {
			t := new(big.Rat).Mul(cb, tab[i][j])
			objRow[j].Sub(objRow[j], t)
		}
	}
	return objRow
}

func runSimplex(tab [][]*big.Rat, basis []int, objRow []*big.Rat, m, n int) status {
	return runSimplexLimited(tab, basis, objRow, m, n, n)
}

// runSimplexLimited runs primal simplex with Bland's rule, restricting
// entering-variable candidates to columns below limit (used in phase 2 to
// permanently exclude artificial columns).
func runSimplexLimited(tab [][]*big.Rat, basis []int, objRow []*big.Rat, m, n, limit int) status {
	for {
		enter := -1
		for j := 0; j < limit; j++ {
			if objRow[j].Sign() < 0 {
				enter = j
				break
			}
		}
		if enter == -1 {
			return statusOptimal
		}

		leave := -1
		var bestRatio *big.Rat
		for i := 0; i < m; i++ {
			a := tab[i][enter]
			if a.Sign() <= 0 {
				continue
			}
			ratio := new(big.Rat).Quo(tab[i][n], a)
			if leave == -1 || ratio.Cmp(bestRatio) < 0 ||
				(ratio.Cmp(bestRatio) == 0 && basis[i] < basis[leave]) {
				leave, bestRatio = i, ratio
			}
		}
		if leave == -1 {
			return statusUnbounded
		}

		pivot(tab, objRow, leave, enter, m, n)
		basis[leave] = enter
	}
}

func pivot(tab [][]*big.Rat, objRow []*big.Rat, pivotRow, pivotCol, m, n int) {
	piv := new(big.Rat).Set(tab[pivotRow][pivotCol])
	for j := 0; j <= n; j++ {
		tab[pivotRow][j].Quo(tab[pivotRow][j], piv)
	}
	for i := 0; i < m; i++ {
		if i == pivotRow {
			continue
		}
		factor := new(big.Rat).Set(tab[i][pivotCol])
		if factor.Sign() == 0 {
			continue
		}
		for j := 0; j <= n; j++ {
			t := new(big.Rat).Mul(factor, tab[pivotRow][j])
			tab[i][j].Sub(tab[i][j], t)
		}
	}
	if factor := new(big.Rat).Set(objRow[pivotCol]); factor.Sign() != 0 {
		for j := 0; j <= n; j++ {
			t := new(big.Rat).Mul(factor, tab[pivotRow][j])
			objRow[j].Sub(objRow[j], t)
		}
	}
}
