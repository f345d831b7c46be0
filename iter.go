package gcptr

import (
	"iter"
	"unsafe"
)

// Iter walks the contiguous memory behind a Pointer. It is a plain
// position over [base, base+n) and owns nothing; it stays valid only while
// some Pointer keeps the allocation alive.
type Iter[T any] struct {
	base *T
	n    int
	pos  int
}

// Begin returns an Iter at the first element.
func (p *Pointer[T]) Begin() Iter[T] {
	return Iter[T]{base: p.Get(), n: p.Len()}
}

// End returns an Iter one past the last element.
func (p *Pointer[T]) End() Iter[T] {
	n := p.Len()
	return Iter[T]{base: p.Get(), n: n, pos: n}
}

// Next returns the Iter advanced by one element.
func (it Iter[T]) Next() Iter[T] {
	it.pos++
	return it
}

// Prev returns the Iter moved back by one element.
func (it Iter[T]) Prev() Iter[T] {
	it.pos--
	return it
}

// Equal reports whether both iterators walk the same memory and sit at
// the same position.
func (it Iter[T]) Equal(o Iter[T]) bool {
	return it.base == o.base && it.pos == o.pos
}

// Pos returns the element offset of the iterator.
func (it Iter[T]) Pos() int { return it.pos }

// Get returns the address of the current element. It panics with
// ErrOutOfRange outside [Begin, End).
func (it Iter[T]) Get() *T {
	if it.base == nil || it.pos < 0 || it.pos >= it.n {
		panic(ErrOutOfRange)
	}
	return (*T)(unsafe.Add(unsafe.Pointer(it.base), uintptr(it.pos)*unsafe.Sizeof(*it.base)))
}

// All yields the index and address of every element of p.
func (p *Pointer[T]) All() iter.Seq2[int, *T] {
	begin, end := p.Begin(), p.End()
	return func(yield func(int, *T) bool) {
		for it := begin; !it.Equal(end); it = it.Next() {
			if !yield(it.Pos(), it.Get()) {
				return
			}
		}
	}
}
