package simplex

import (
	"math/big"
	"testing"
)

func rat(n int64) *big.Rat { return big.NewRat(n, 1) }

func TestSolveLPMinimizesOverBoundedRegion(t *testing.T) {
	// 0 <= x <= 3, 0 <= y <= 3 ; minimize x + y -> 0 at (0,0)
	rows := []row{
		{coeffs: []*big.Rat{rat(0), rat(1), rat(0)}},  // x >= 0
		{coeffs: []*big.Rat{rat(3), rat(-1), rat(0)}}, // 3 - x >= 0
		{coeffs: []*big.Rat{rat(0), rat(0), rat(1)}},  // y >= 0
		{coeffs: []*big.Rat{rat(3), rat(0), rat(-1)}}, // 3 - y >= 0
	}
	value, x, st := solveLP(2, rows, []*big.Rat{rat(0), rat(1), rat(1)})
	if st != statusOptimal {
		t.Fatalf("status = %v, want optimal", st)
	}
	if value.Cmp(rat(0)) != 0 {
		t.Fatalf("value = %v, want 0", value)
	}
	if x[0].Sign() != 0 || x[1].Sign() != 0 {
		t.Fatalf("x = %v, want (0,0)", x)
	}
}

func TestSolveLPReportsInfeasible(t *testing.T) {
	rows := []row{
		{coeffs: []*big.Rat{rat(0), rat(1)}},  // x >= 0
		{coeffs: []*big.Rat{rat(-1), rat(-1)}}, // -1 - x >= 0 -> x <= -1
	}
	_, _, st := solveLP(1, rows, []*big.Rat{rat(0), rat(1)})
	if st != statusInfeasible {
		t.Fatalf("status = %v, want infeasible", st)
	}
}

func TestSolveLPReportsUnbounded(t *testing.T) {
	rows := []row{
		{coeffs: []*big.Rat{rat(0), rat(1)}}, // x >= 0, no upper bound
	}
	_, _, st := solveLP(1, rows, []*big.Rat{rat(0), rat(-1)}) // minimize -x
	if st != statusUnbounded {
		t.Fatalf("status = %v, want unbounded", st)
	}
}

func TestSolveLPHandlesEqualityRow(t *testing.T) {
	// x + y == 2, x >= 0, y >= 0 ; minimize x -> 0 at (0, 2)
	rows := []row{
		{coeffs: []*big.Rat{rat(-2), rat(1), rat(1)}, eq: true},
		{coeffs: []*big.Rat{rat(0), rat(1), rat(0)}},
		{coeffs: []*big.Rat{rat(0), rat(0), rat(1)}},
	}
	value, x, st := solveLP(2, rows, []*big.Rat{rat(0), rat(1), rat(0)})
	if st != statusOptimal {
		t.Fatalf("status = %v, want optimal", st)
	}
	if value.Cmp(rat(0)) != 0 {
		t.Fatalf("value = %v, want 0", value)
	}
	if x[0].Sign() != 0 || x[1].Cmp(rat(2)) != 0 {
		t.Fatalf("x = %v, want (0,2)", x)
	}
}
