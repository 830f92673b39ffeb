package latticescan

import "math/big"

// Counter is the counting specialization of Callback: it tallies visited
// points (or, via AddRange, whole ranges of them) into Count, stopping
// once Count reaches Cap. Cap == 0 means unlimited.
type Counter struct {
	Count *big.Int
	Cap   *big.Int
}

// NewCounter creates a Counter with Count = 0 and the given cap. A nil or
// zero cap means unlimited.
func NewCounter(cap *big.Int) *Counter {
	c := &Counter{Count: big.NewInt(0), Cap: big.NewInt(0)}
	if cap != nil {
		c.Cap.Set(cap)
	}
	return c
}

// Add implements Callback: it increments Count by one and stops once Cap
// (if nonzero) is reached.
func (c *Counter) Add(sample []*big.Int) (Signal, error) {
	c.Count.Add(c.Count, big.NewInt(1))
	if c.Cap.Sign() != 0 && c.Count.Cmp(c.Cap) >= 0 {
		return SignalStop, nil
	}
	return SignalContinue, nil
}

// AddRange implements RangeScanner: it adds the whole span [min, max] to
// Count in one step, without materializing any individual sample. If that
// would cross Cap, Count is clamped to Cap and scanning stops.
func (c *Counter) AddRange(min, max *big.Int) (Signal, error) {
	span := new(big.Int).Sub(max, min)
	span.Add(span, big.NewInt(1))
	c.Count.Add(c.Count, span)
	if c.Cap.Sign() != 0 && c.Count.Cmp(c.Cap) >= 0 {
		c.Count.Set(c.Cap)
		return SignalStop, nil
	}
	return SignalContinue, nil
}

var (
	_ Callback     = (*Counter)(nil)
	_ RangeScanner = (*Counter)(nil)
)
