package gcptr

import "unsafe"

// Releaser frees tracked memory once its record has been collected.
// Scalars and arrays are released through different methods; a Releaser
// is never asked to release the null address.
type Releaser[T any] interface {
	Release(addr *T)
	ReleaseArray(addr *T, n int)
}

// Disposer is implemented by pointees that own tracked Pointers of their
// own. Dispose is called once, right before the pointee's memory is
// released, and typically calls Release on the owned Pointers.
type Disposer interface {
	Dispose()
}

// HeapReleaser releases Go heap memory: it disposes the value, zeroes it
// and leaves the storage to the Go runtime. Zeroing makes reads through a
// stale raw pointer observe the release.
type HeapReleaser[T any] struct{}

// Release disposes and zeroes a single value.
func (HeapReleaser[T]) Release(addr *T) {
	dispose(addr)
	var zero T
	*addr = zero
}

// ReleaseArray disposes and zeroes n contiguous values starting at addr.
func (HeapReleaser[T]) ReleaseArray(addr *T, n int) {
	s := unsafe.Slice(addr, n)
	for i := range s {
		dispose(&s[i])
	}
	clear(s)
}

func dispose[T any](addr *T) {
	// *T's method set includes T's, so this covers both receiver kinds.
	if d, ok := any(addr).(Disposer); ok {
		d.Dispose()
	}
}

// ReleaserFuncs adapts a pair of functions to a Releaser. A nil function
// is skipped.
type ReleaserFuncs[T any] struct {
	Scalar func(addr *T)
	Array  func(addr *T, n int)
}

// Release calls f.Scalar.
func (f ReleaserFuncs[T]) Release(addr *T) {
	if f.Scalar != nil {
		f.Scalar(addr)
	}
}

// ReleaseArray calls f.Array.
func (f ReleaserFuncs[T]) ReleaseArray(addr *T, n int) {
	if f.Array != nil {
		f.Array(addr, n)
	}
}
