package simplex_test

import (
	"math/big"
	"testing"

	"github.com/gitrdm/latticescan/internal/simplex"
	"github.com/gitrdm/latticescan/pkg/latticescan"
)

func mustTableau(t *testing.T, dim int, cs []latticescan.Constraint) latticescan.Tableau {
	t.Helper()
	tab, err := simplex.New(dim, cs)
	if err != nil {
		t.Fatalf("simplex.New: %v", err)
	}
	return tab
}

func big1(n int64) *big.Int { return big.NewInt(n) }

func TestTableauMinOverUnitSquare(t *testing.T) {
	cs := []latticescan.Constraint{
		latticescan.IneqFromInts(0, 1, 0),
		latticescan.IneqFromInts(1, -1, 0),
		latticescan.IneqFromInts(0, 0, 1),
		latticescan.IneqFromInts(1, 0, -1),
	}
	tab := mustTableau(t, 2, cs)

	val, res, err := tab.Min([]*big.Int{big1(0), big1(1), big1(1)}, big1(1))
	if err != nil {
		t.Fatalf("Min: %v", err)
	}
	if res != latticescan.LPOptimal {
		t.Fatalf("result = %v, want optimal", res)
	}
	if val.Cmp(big1(0)) != 0 {
		t.Fatalf("val = %v, want 0", val)
	}
}

func TestTableauRollbackUndoesEquality(t *testing.T) {
	cs := []latticescan.Constraint{
		latticescan.IneqFromInts(0, 1, 0),
		latticescan.IneqFromInts(3, -1, 0),
		latticescan.IneqFromInts(0, 0, 1),
		latticescan.IneqFromInts(3, 0, -1),
	}
	tab := mustTableau(t, 2, cs)
	if err := tab.ExtendConstraintCapacity(2); err != nil {
		t.Fatalf("ExtendConstraintCapacity: %v", err)
	}

	snap, err := tab.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	// Pin x == 0.
	if err := tab.AddValidEquality([]*big.Int{big1(0), big1(1), big1(0)}); err != nil {
		t.Fatalf("AddValidEquality: %v", err)
	}
	val, res, err := tab.Min([]*big.Int{big1(0), big1(1), big1(0)}, big1(1))
	if err != nil || res != latticescan.LPOptimal || val.Cmp(big1(0)) != 0 {
		t.Fatalf("Min after pin: val=%v res=%v err=%v, want 0/optimal", val, res, err)
	}

	if err := tab.Rollback(snap); err != nil {
		t.Fatalf("Rollback: %v", err)
	}
	val2, res2, err2 := tab.Min([]*big.Int{big1(0), big1(-1), big1(0)}, big1(1))
	if err2 != nil || res2 != latticescan.LPOptimal {
		t.Fatalf("Min after rollback: val=%v res=%v err=%v", val2, res2, err2)
	}
	if val2.Cmp(big1(-3)) != 0 {
		t.Fatalf("after rollback, max-x bound = %v, want -3 (x range restored to [0,3])", val2)
	}
}

func TestTableauMinEmptyRegion(t *testing.T) {
	cs := []latticescan.Constraint{
		latticescan.IneqFromInts(0, 1),
		latticescan.IneqFromInts(-1, -1),
	}
	tab := mustTableau(t, 1, cs)
	_, res, err := tab.Min([]*big.Int{big1(0), big1(1)}, big1(1))
	if err != nil {
		t.Fatalf("Min: %v", err)
	}
	if res != latticescan.LPEmpty {
		t.Fatalf("result = %v, want empty", res)
	}
}

func TestTableauSampleValueAfterFullyPinned(t *testing.T) {
	cs := []latticescan.Constraint{
		latticescan.IneqFromInts(0, 1, 0),
		latticescan.IneqFromInts(3, -1, 0),
		latticescan.IneqFromInts(0, 0, 1),
		latticescan.IneqFromInts(3, 0, -1),
	}
	tab := mustTableau(t, 2, cs)
	if err := tab.ExtendConstraintCapacity(2); err != nil {
		t.Fatalf("ExtendConstraintCapacity: %v", err)
	}
	if err := tab.AddValidEquality([]*big.Int{big1(-2), big1(1), big1(0)}); err != nil {
		t.Fatalf("AddValidEquality(x): %v", err)
	}
	if err := tab.AddValidEquality([]*big.Int{big1(-1), big1(0), big1(1)}); err != nil {
		t.Fatalf("AddValidEquality(y): %v", err)
	}
	sample, err := tab.SampleValue()
	if err != nil {
		t.Fatalf("SampleValue: %v", err)
	}
	want := []*big.Int{big1(1), big1(2), big1(1)}
	for i := range want {
		if sample[i].Cmp(want[i]) != 0 {
			t.Fatalf("sample = %v, want %v", sample, want)
		}
	}
}
