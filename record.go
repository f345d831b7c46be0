package gcptr

import "unsafe"

// record is the registry entry for one tracked allocation.
// Two records are equal when their addresses are.
type record[T any] struct {
	addr    *T
	refs    uint64
	isArray bool
	n       int // element count, meaningful only when isArray
	pins    int // diagnostics rendering the value; defers the free
}

// newRecord creates a record owned by a single reference. The allocation
// is classified as an array iff n > 0.
func newRecord[T any](addr *T, n int) *record[T] {
	r := &record[T]{addr: addr, refs: 1}
	if n > 0 {
		r.isArray = true
		r.n = n
	}
	return r
}

func (r *record[T]) is(addr *T) bool {
	return r.addr == addr
}

// length is the effective element count: 1 for scalars.
func (r *record[T]) length() int {
	if r.isArray {
		return r.n
	}
	return 1
}

func (r *record[T]) snapshot() Record {
	return Record{
		Addr:     uintptr(unsafe.Pointer(r.addr)),
		RefCount: r.refs,
		IsArray:  r.isArray,
		Len:      r.length(),
	}
}

// Record is a read-only copy of a registry entry.
type Record struct {
	Addr     uintptr // address of the tracked allocation
	RefCount uint64  // live Pointers referencing Addr
	IsArray  bool    // released with array deallocation
	Len      int     // element count (1 for scalars)
}
