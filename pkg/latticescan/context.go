package latticescan

import (
	"math/big"
	"sync/atomic"

	"go.uber.org/zap"
)

// Config holds the process-scoped knobs for a Context. The zero value is
// not ready to use; build one with DefaultConfig and Options.
type Config struct {
	// MaxEqualityRows is stored on the Context but not read by the
	// enumerator: a scan always requests dimension+1 rows of capacity and
	// adds at most one equality row per basis direction, whatever this
	// field holds.
	MaxEqualityRows int

	// EnableReducedBasis gates the basis-reduction pass. It defaults to
	// true; turning it off requires the explicit WithUnreducedBasis()
	// option, so an unreduced scan (which can examine far more candidate
	// coordinates per direction) is never a silent default.
	EnableReducedBasis bool

	// Logger receives a debug entry when a basic-set scan starts and an
	// error entry when an identifier finalizer panics. Defaults to a no-op
	// logger.
	Logger *zap.Logger

	// Trace additionally enables the lightweight per-step DFS trace (see
	// trace.go). Equivalent to calling EnableTrace().
	Trace bool
}

// DefaultConfig returns the baseline Config: reduced basis on, no-op
// logger, tracing off.
func DefaultConfig() Config {
	return Config{
		MaxEqualityRows:    0,
		EnableReducedBasis: true,
		Logger:             zap.NewNop(),
	}
}

// Option mutates a Config during Context construction.
type Option func(*Config)

// WithLogger installs a structured logger on the Context.
func WithLogger(l *zap.Logger) Option {
	return func(c *Config) {
		if l != nil {
			c.Logger = l
		}
	}
}

// WithTrace(true) turns on the process-wide DFS step trace when the
// Context is built; WithTrace(false) leaves the trace as it is.
func WithTrace(on bool) Option {
	return func(c *Config) { c.Trace = on }
}

// WithUnreducedBasis disables basis reduction. This must be requested
// explicitly; there is no implicit way to reach the unreduced sweep.
func WithUnreducedBasis() Option {
	return func(c *Config) { c.EnableReducedBasis = false }
}

// WithMaxEqualityRows sets Config.MaxEqualityRows, which the enumerator
// does not read.
func WithMaxEqualityRows(n int) Option {
	return func(c *Config) { c.MaxEqualityRows = n }
}

// identifierTable is the hash-consing interning table owned by a Context.
// It is intentionally not mutex-protected: the context and identifier
// table are process-wide but not thread-safe, and callers sharing a
// Context across goroutines must serialize their own access to it.
type identifierTable struct {
	entries map[internKey]*Identifier
}

func newIdentifierTable() *identifierTable {
	return &identifierTable{entries: make(map[internKey]*Identifier)}
}

// Context is the process-scoped owner of the identifier table, the
// arithmetic constant pool, and the enumerator's configuration. It is
// reference-counted: Ref acquires a handle, Close releases one, and the
// table is torn down when the last handle drops.
type Context struct {
	cfg      Config
	registry *identifierTable

	// Zero and One are shared arithmetic constants. The sweep passes One
	// as the Min denominator instead of allocating a fresh big.Int on
	// every call; Zero is not used by the enumerator (CountSet builds its
	// own zero cap).
	Zero *big.Int
	One  *big.Int

	refcount atomic.Int64
}

// NewContext creates a Context with refcount 1, ready for identifiers to be
// interned against it.
func NewContext(opts ...Option) *Context {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Trace {
		EnableTrace()
	}
	ctx := &Context{
		cfg:      cfg,
		registry: newIdentifierTable(),
		Zero:     big.NewInt(0),
		One:      big.NewInt(1),
	}
	ctx.refcount.Store(1)
	return ctx
}

// Ref increments the Context's refcount and returns it, mirroring the
// identifier's own Copy semantics: an identifier holds a reference to its
// owning Context for as long as the identifier itself is alive.
func (c *Context) Ref() *Context {
	c.refcount.Add(1)
	return c
}

// Close releases one reference. When the last reference drops, the
// identifier table is cleared; any identifiers still outstanding become
// invalid to Free (their back-reference is gone).
func (c *Context) Close() {
	if c.refcount.Add(-1) > 0 {
		return
	}
	c.registry.entries = nil
}

// Logger returns the Context's structured logger (never nil).
func (c *Context) Logger() *zap.Logger { return c.cfg.Logger }

// Config returns a copy of the Context's configuration.
func (c *Context) Config() Config { return c.cfg }
