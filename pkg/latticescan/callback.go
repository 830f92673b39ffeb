package latticescan

import "math/big"

// Signal is the callback's verdict after visiting a point or a range.
type Signal int

const (
	// SignalContinue asks the enumerator to keep searching.
	SignalContinue Signal = iota
	// SignalStop asks the enumerator to abort the current scan immediately.
	SignalStop
)

// Callback receives one homogeneous-coordinate sample per visited integer
// point. Sample[0] is always 1; Sample[1:] are the point's original-basis
// coordinates. The sample is borrowed: the enumerator owns its backing
// array and may reuse or overwrite it after Add returns, so a callback
// that needs to retain a point past the call must copy it first.
type Callback interface {
	Add(sample []*big.Int) (Signal, error)
}

// RangeScanner is an optional capability a Callback may additionally
// implement. When the enumerator reaches the innermost basis coordinate
// and the callback is a RangeScanner, it calls AddRange instead of
// emitting every point in [min, max] individually, letting a callback
// that only cares about counts or spans skip materializing each point on
// the innermost axis. This is a Go optional interface (a type assertion
// against Callback), the idiomatic analogue of dispatching on a known
// function pointer.
type RangeScanner interface {
	Callback
	AddRange(min, max *big.Int) (Signal, error)
}

// CallbackFunc adapts a plain function to Callback, mirroring the
// standard library's http.HandlerFunc idiom for the common case of a
// callback with no AddRange specialization.
type CallbackFunc func(sample []*big.Int) (Signal, error)

// Add calls f.
func (f CallbackFunc) Add(sample []*big.Int) (Signal, error) { return f(sample) }

var _ Callback = CallbackFunc(nil)
