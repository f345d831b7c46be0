package gcptr

import (
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"unsafe"
)

// Registry tracks the allocations of one pointee type and decides when
// they are freed. Every Pointer to a T is bound to exactly one Registry.
//
// Records are kept in insertion order. Lookups go through an address
// index instead of scanning the records, so every lifecycle event costs
// O(1) rather than O(records).
//
// All operations are serialized by a single mutex. Releasers run after
// the mutex is dropped, so a Releaser (or a Disposer) may itself release
// other Pointers, including Pointers of the same registry.
type Registry[T any] struct {
	mu       sync.Mutex
	name     string
	records  []*record[T]
	index    map[*T]int
	releaser Releaser[T]
	logger   *slog.Logger

	// zeros counts records at refcount 0; sweeps with none are O(1).
	zeros int

	// arm is installed by the owning Context and called once, on the
	// first Pointer construction.
	arm   func()
	armed bool

	stats counters
}

// NewRegistry creates a standalone registry. A nil releaser selects
// HeapReleaser. Standalone registries are not drained by any Context;
// call Shutdown on them directly.
func NewRegistry[T any](rel Releaser[T], opts ...Option) *Registry[T] {
	o := buildOptions(opts)
	if rel == nil {
		rel = HeapReleaser[T]{}
	}
	if o.name == "" {
		o.name = reflect.TypeFor[T]().String()
	}
	return &Registry[T]{
		name:     o.name,
		index:    make(map[*T]int),
		releaser: rel,
		logger:   o.logger,
	}
}

// Name returns the registry name.
func (r *Registry[T]) Name() string { return r.name }

// Size returns the number of records currently in the registry.
func (r *Registry[T]) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// Records returns a snapshot of all records in insertion order.
func (r *Registry[T]) Records() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Record, len(r.records))
	for i, rec := range r.records {
		out[i] = rec.snapshot()
	}
	return out
}

// RefCount returns the count recorded for addr and whether addr is tracked.
func (r *Registry[T]) RefCount(addr *T) (uint64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec := r.lookupLocked(addr)
	if rec == nil {
		return 0, false
	}
	return rec.refs, true
}

func (r *Registry[T]) lookupLocked(addr *T) *record[T] {
	if i, ok := r.index[addr]; ok {
		return r.records[i]
	}
	return nil
}

// acquireLocked adds one reference to addr, inserting a record with the
// classification implied by n if none exists. It returns the record's
// classification, which wins over n when the two disagree.
func (r *Registry[T]) acquireLocked(addr *T, n int) (isArray bool, length int) {
	if addr == nil {
		return false, 0
	}
	rec := r.lookupLocked(addr)
	if rec != nil {
		if rec.isArray != (n > 0) || (rec.isArray && rec.n != n) {
			r.faultLocked(ErrClassMismatch, addr)
		}
		r.incLocked(rec)
	} else {
		rec = newRecord(addr, n)
		r.index[addr] = len(r.records)
		r.records = append(r.records, rec)
	}
	return rec.isArray, rec.n
}

// retainLocked adds one reference to an address that must already be tracked.
func (r *Registry[T]) retainLocked(addr *T) {
	if addr == nil {
		return
	}
	rec := r.lookupLocked(addr)
	if rec == nil {
		r.faultLocked(ErrDangling, addr)
		return
	}
	r.incLocked(rec)
}

// dropLocked removes one reference from addr. Missing records and zero
// counts are absorbed.
func (r *Registry[T]) dropLocked(addr *T) {
	if addr == nil {
		return
	}
	rec := r.lookupLocked(addr)
	switch {
	case rec == nil:
		r.faultLocked(ErrDangling, addr)
	case rec.refs == 0:
		r.faultLocked(ErrUnderflow, addr)
	default:
		rec.refs--
		if rec.refs == 0 {
			r.zeros++
		}
	}
}

func (r *Registry[T]) incLocked(rec *record[T]) {
	if rec.refs == 0 {
		r.zeros--
	}
	rec.refs++
}

// armLocked returns the arming hook the first time it is called.
func (r *Registry[T]) armLocked() func() {
	if r.armed {
		return nil
	}
	r.armed = true
	return r.arm
}

func (r *Registry[T]) faultLocked(err error, addr *T) {
	r.stats.faults++
	r.logger.Warn("tracked pointer fault",
		"registry", r.name,
		"addr", fmt.Sprintf("%p", addr),
		"err", err)
}

func addrOf[T any](addr *T) uintptr {
	return uintptr(unsafe.Pointer(addr))
}
