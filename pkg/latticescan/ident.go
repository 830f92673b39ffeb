package latticescan

import (
	"fmt"
	"hash/fnv"
	"reflect"
	"strings"
	"sync/atomic"

	"github.com/pkg/errors"
)

// internKey is the interning equivalence class: two identifiers are the
// same identifier iff they share both name and user, with both absent
// counting as equal names. user must be a comparable value (a pointer, or
// any other comparable Go value used as an opaque tag) — this is the Go
// analogue of C's void* identity comparison.
type internKey struct {
	name    string
	hasName bool
	user    any
}

// Identifier is a hash-consed symbolic name, optionally carrying an opaque
// user payload and a finalizer run on that payload when the last reference
// drops. Hash-consing means two Interns of the same (name, user) pair
// always return the same instance, so identifier equality reduces to
// pointer equality and a dimension tag can safely be used as a map key.
type Identifier struct {
	ctx       *Context
	name      string
	hasName   bool
	user      any
	hasUser   bool
	finalizer func(any)
	hash      uint64
	refcount  atomic.Int64
}

// None is the sentinel identifier: it carries a negative refcount, so Copy
// and Free are no-ops on it, and it is never placed in an interning table.
var None = newSentinel()

func newSentinel() *Identifier {
	id := &Identifier{}
	id.refcount.Store(-1)
	return id
}

func (id *Identifier) key() internKey {
	return internKey{name: id.name, hasName: id.hasName, user: id.user}
}

// addressOf extracts an identity-bearing bit pattern from a user payload,
// when the payload's kind carries one (pointer, map, channel, func,
// unsafe.Pointer). Other comparable kinds (string, int, struct of
// comparable fields, ...) fall back to their formatted value, which is
// still a stable, content-derived hash input.
func addressOf(user any) (uintptr, bool) {
	if user == nil {
		return 0, false
	}
	v := reflect.ValueOf(user)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return v.Pointer(), true
	default:
		return 0, false
	}
}

// computeHash mixes either the name bytes or the raw bits of the user
// payload into a fresh hash, matching isl_id_alloc's
// isl_hash_string/isl_hash_builtin split on the presence of a name.
func computeHash(name string, hasName bool, user any, hasUser bool) uint64 {
	h := fnv.New64a()
	if hasName {
		h.Write([]byte(name))
		return h.Sum64()
	}
	if hasUser {
		if addr, ok := addressOf(user); ok {
			fmt.Fprintf(h, "%x", addr)
		} else {
			fmt.Fprintf(h, "%#v", user)
		}
	}
	return h.Sum64()
}

// Intern returns the unique Identifier for (name, user) within ctx,
// creating it if absent. A second Intern with the same pair returns the
// same instance with its refcount incremented.
func Intern(ctx *Context, name string, hasName bool, user any) (*Identifier, error) {
	if ctx == nil {
		return nil, newErr(KindInvalidInput, "Intern", errors.New("nil context"))
	}
	if ctx.registry == nil || ctx.registry.entries == nil {
		return nil, newErr(KindInvalidInput, "Intern", errors.New("context already closed"))
	}
	hasUser := user != nil
	key := internKey{name: name, hasName: hasName, user: user}
	if existing, ok := ctx.registry.entries[key]; ok {
		return existing.Copy(), nil
	}

	id := &Identifier{
		ctx:     ctx.Ref(),
		name:    name,
		hasName: hasName,
		user:    user,
		hasUser: hasUser,
		hash:    computeHash(name, hasName, user, hasUser),
	}
	id.refcount.Store(1)
	// get-or-try-insert: the slot only becomes visible after the
	// identifier is fully built, so a failed construction never leaves a
	// partial entry in the table.
	ctx.registry.entries[key] = id
	return id, nil
}

// InternName is a convenience for the common case of interning a plain
// name with no user payload.
func InternName(ctx *Context, name string) (*Identifier, error) {
	return Intern(ctx, name, true, nil)
}

// Copy increments id's refcount and returns id itself (identifiers are
// hash-consed, never duplicated). The sentinel None is inert.
func (id *Identifier) Copy() *Identifier {
	if id == nil || id == None || id.refcount.Load() < 0 {
		return id
	}
	id.refcount.Add(1)
	return id
}

// Free decrements id's refcount. When it reaches zero, id is removed from
// its context's interning table, its finalizer (if any) runs on the user
// payload, and the context reference is dropped. Free on None is a no-op.
// Freeing an identifier not present in its context's table (a double free)
// reports KindNotFound.
func (id *Identifier) Free() error {
	if id == nil || id == None || id.refcount.Load() < 0 {
		return nil
	}
	n := id.refcount.Add(-1)
	if n > 0 {
		return nil
	}
	if n < 0 {
		return newErr(KindNotFound, "Free", errors.New("identifier already freed"))
	}

	ctx := id.ctx
	if ctx == nil || ctx.registry == nil || ctx.registry.entries == nil {
		return newErr(KindNotFound, "Free", errors.New("owning context already closed"))
	}
	k := id.key()
	if _, ok := ctx.registry.entries[k]; !ok {
		return newErr(KindNotFound, "Free", errors.New("identifier not present in interning table"))
	}
	delete(ctx.registry.entries, k)

	if id.finalizer != nil {
		func() {
			defer func() {
				if r := recover(); r != nil {
					ctx.Logger().Error("identifier finalizer panicked",
						zapIdentifierField(id), zapAnyField("panic", r))
				}
			}()
			id.finalizer(id.user)
		}()
	}
	id.ctx = nil
	ctx.Close()
	return nil
}

// SetFinalizer installs fn as id's user-payload destructor, to be invoked
// exactly once when id's last reference is freed. It returns id so callers
// can chain it onto Intern.
func (id *Identifier) SetFinalizer(fn func(any)) *Identifier {
	if id == nil || id == None {
		return id
	}
	id.finalizer = fn
	return id
}

// Name returns id's name and whether one is present.
func (id *Identifier) Name() (string, bool) {
	if id == nil {
		return "", false
	}
	return id.name, id.hasName
}

// User returns id's opaque payload and whether one is present.
func (id *Identifier) User() (any, bool) {
	if id == nil {
		return nil, false
	}
	return id.user, id.hasUser
}

// Ctx returns the Context that owns id.
func (id *Identifier) Ctx() *Context {
	if id == nil {
		return nil
	}
	return id.ctx
}

// mixHash folds v into the running hash seed, using the same
// multiplicative mixing constant as the classic hash_combine idiom.
func mixHash(seed, v uint64) uint64 {
	seed ^= v + 0x9e3779b97f4a7c15 + (seed << 6) + (seed >> 2)
	return seed
}

// Hash mixes id's precomputed hash into seed, for use when an identifier
// is one component of a larger hashed key (e.g. a dimension tag within a
// hashed constraint set).
func Hash(seed uint64, id *Identifier) uint64 {
	if id == nil {
		return seed
	}
	return mixHash(seed, id.hash)
}

// String renders id as "name" followed by "@<hex-address>" when a user
// payload is present, matching isl_printer_print_id's fixed textual form.
// Either part may be empty.
func (id *Identifier) String() string {
	if id == nil {
		return ""
	}
	var sb strings.Builder
	if id.hasName {
		sb.WriteString(id.name)
	}
	if id.hasUser {
		if addr, ok := addressOf(id.user); ok {
			fmt.Fprintf(&sb, "@%#x", addr)
		} else {
			fmt.Fprintf(&sb, "@%p", &id.user)
		}
	}
	return sb.String()
}

// Fprint writes id's textual form to p.
func (id *Identifier) Fprint(p *strings.Builder) {
	p.WriteString(id.String())
}
