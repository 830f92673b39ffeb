package latticescan

import (
	"log"
	"os"
	"sync/atomic"
)

// Lightweight, opt-in tracing for the enumerator's DFS sweep. Enable by
// setting env var LATTICESCAN_TRACE=1, by passing WithTrace(true) to
// NewContext, or by calling EnableTrace() directly. Kept as plain
// log.Printf rather than structured zap fields deliberately: this is the
// hottest loop in the package, and per-node structured fields would add
// allocation and formatting overhead on every DFS step for a facility
// that is off by default and only ever read by a human during debugging.
var traceEnabled atomic.Bool

func init() {
	if os.Getenv("LATTICESCAN_TRACE") == "1" {
		traceEnabled.Store(true)
	}
}

// EnableTrace turns on the DFS step trace.
func EnableTrace() { traceEnabled.Store(true) }

// DisableTrace turns off the DFS step trace.
func DisableTrace() { traceEnabled.Store(false) }

func tracef(format string, args ...any) {
	if !traceEnabled.Load() {
		return
	}
	log.Printf("[latticescan] "+format, args...)
}
