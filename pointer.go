package gcptr

import "unsafe"

// Pointer is a tracked reference to a T (or to an array of T) owned by a
// Registry. Pointers do not own memory themselves: each live Pointer
// accounts for one count on its allocation's record, and the registry
// frees the allocation once the count reaches zero.
//
// A Pointer must not be copied by value; use Copy. It is created through
// a Registry (or the package-level New functions) and ends with Release.
//
// A Pointer has a fixed shape chosen at construction: 0 for scalars,
// n for arrays of n elements. Assign re-derives the array classification
// of the new address from that shape. An address that is already tracked
// keeps its record's classification, and the Pointer mirrors it.
type Pointer[T any] struct {
	_ noCopy

	reg      *Registry[T]
	addr     *T
	isArray  bool
	n        int
	size     int
	released bool
}

// New wraps a single value. A nil addr yields a null Pointer that never
// touches the registry.
func (r *Registry[T]) New(addr *T) *Pointer[T] {
	return r.newPointer(addr, 0)
}

// NewArray wraps an array of n elements starting at addr. n <= 0 makes
// the Pointer scalar-shaped.
func (r *Registry[T]) NewArray(addr *T, n int) *Pointer[T] {
	if n < 0 {
		n = 0
	}
	return r.newPointer(addr, n)
}

// NewSlice wraps the backing array of s, with len(s) elements.
// An empty slice yields a null Pointer.
func (r *Registry[T]) NewSlice(s []T) *Pointer[T] {
	if len(s) == 0 {
		return r.newPointer(nil, 0)
	}
	return r.newPointer(unsafe.SliceData(s), len(s))
}

func (r *Registry[T]) newPointer(addr *T, size int) *Pointer[T] {
	r.mu.Lock()
	r.stats.constructed++
	isArray, n := r.acquireLocked(addr, size)
	arm := r.armLocked()
	r.mu.Unlock()
	if arm != nil {
		arm()
	}

	p := &Pointer[T]{reg: r, size: size}
	p.set(addr, isArray, n)
	return p
}

// set points p at addr, mirroring the classification of addr's record.
func (p *Pointer[T]) set(addr *T, isArray bool, n int) {
	p.addr = addr
	p.isArray = isArray
	p.n = 0
	if isArray {
		p.n = n
	}
}

// Copy returns a new Pointer to the same allocation and adds one count.
func (p *Pointer[T]) Copy() *Pointer[T] {
	r := p.registry()
	r.mu.Lock()
	r.stats.copied++
	r.retainLocked(p.addr)
	r.mu.Unlock()
	return &Pointer[T]{reg: r, addr: p.addr, isArray: p.isArray, n: p.n, size: p.size}
}

// Assign points p at addr. The previous allocation loses one count and
// addr gains one (a record is created if addr is untracked). Anything
// left unreferenced is collected afterwards.
func (p *Pointer[T]) Assign(addr *T) {
	r := p.registry()
	r.mu.Lock()
	r.stats.assigned++
	r.dropLocked(p.addr)
	isArray, n := r.acquireLocked(addr, p.size)
	freed := r.sweepLocked()
	r.mu.Unlock()

	p.set(addr, isArray, n)
	r.release(freed)
}

// AssignPointer points p at q's allocation and adopts q's shape.
// q must belong to the same registry. Memory released by the reassignment
// is freed by the collection that follows it, never before.
func (p *Pointer[T]) AssignPointer(q *Pointer[T]) {
	r := p.registry()
	if q.registry() != r {
		panic(ErrForeignPointer)
	}
	r.mu.Lock()
	r.stats.assigned++
	r.retainLocked(q.addr)
	r.dropLocked(p.addr)
	freed := r.sweepLocked()
	r.mu.Unlock()

	p.addr, p.isArray, p.n, p.size = q.addr, q.isArray, q.n, q.size
	r.release(freed)
}

// Release drops p's count and collects. Releasing twice, or releasing a
// nil Pointer, is a no-op; any other use after Release panics.
func (p *Pointer[T]) Release() {
	if p == nil || p.released {
		return
	}
	p.released = true
	r := p.reg
	if r == nil {
		return
	}

	r.mu.Lock()
	r.stats.released++
	r.dropLocked(p.addr)
	freed := r.sweepLocked()
	r.mu.Unlock()

	p.addr, p.isArray, p.n = nil, false, 0
	r.release(freed)
}

func (p *Pointer[T]) registry() *Registry[T] {
	if p.released {
		panic(ErrReleased)
	}
	if p.reg == nil {
		panic("gcptr: Pointer not created by a Registry")
	}
	return p.reg
}

// Get returns the wrapped address. It is the Pointer's dereference and
// member access; a null Pointer returns nil and the caller's access
// faults as usual.
func (p *Pointer[T]) Get() *T {
	if p.released {
		panic(ErrReleased)
	}
	return p.addr
}

// Load returns the pointee (the first element for arrays).
func (p *Pointer[T]) Load() T { return *p.Get() }

// Store overwrites the pointee (the first element for arrays).
func (p *Pointer[T]) Store(v T) { *p.Get() = v }

// Index returns the address of element i.
func (p *Pointer[T]) Index(i int) *T { return &p.Slice()[i] }

// Slice returns the wrapped memory as a slice of Len elements.
func (p *Pointer[T]) Slice() []T {
	addr := p.Get()
	if addr == nil {
		return nil
	}
	return unsafe.Slice(addr, p.Len())
}

// Len is the effective element count: 0 for null, 1 for scalars.
func (p *Pointer[T]) Len() int {
	switch {
	case p.addr == nil:
		return 0
	case p.isArray:
		return p.n
	default:
		return 1
	}
}

// IsNil reports whether p wraps the null address.
func (p *Pointer[T]) IsNil() bool { return p.Get() == nil }

// IsArray reports whether p wraps an array.
func (p *Pointer[T]) IsArray() bool { return p.isArray }

// RefCount returns the count of p's allocation; 0 for null Pointers.
func (p *Pointer[T]) RefCount() uint64 {
	n, _ := p.registry().RefCount(p.addr)
	return n
}

// Registry returns the registry p is bound to.
func (p *Pointer[T]) Registry() *Registry[T] { return p.reg }

// noCopy makes go vet's copylocks check flag Pointer copies.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
