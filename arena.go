package gcptr

import (
	"math"
	"sync"
	"unsafe"
)

// DefaultChunkSize is the default chunk size for new arenas (64 KiB).
const DefaultChunkSize = 1 << 16

// chunk is a single block of arena memory.
type chunk struct {
	buf    []byte  // backing memory
	offset uintptr // next free byte within buf
}

// Arena is a chunked bump allocator whose allocations are handed to
// tracked Pointers. It counts live allocations; once the last one is
// released through ArenaReleaser the offsets rewind and the chunks are
// reused. Arena is safe for concurrent use.
//
// Arena memory is invisible to the Go garbage collector, so T must not
// contain Go pointers (no pointers, slices, maps, strings or interfaces).
type Arena struct {
	mu        sync.Mutex
	chunks    []chunk
	chunkSize int
	cur       int // index of the chunk allocations come from
	live      int
	resets    uint64
}

// NewArena creates an arena with the given chunk size.
// If chunkSize <= 0, DefaultChunkSize is used.
func NewArena(chunkSize int) *Arena {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	a := &Arena{chunkSize: chunkSize}
	a.grow(chunkSize)
	return a
}

// ArenaNew allocates a zeroed T in the arena.
func ArenaNew[T any](a *Arena) *T {
	var zero T
	b := a.alloc(unsafe.Sizeof(zero), unsafe.Alignof(zero))
	return (*T)(unsafe.Pointer(unsafe.SliceData(b)))
}

// ArenaNewArray allocates n zeroed elements of T in the arena and returns
// the address of the first one. Returns nil if n <= 0.
func ArenaNewArray[T any](a *Arena, n int) *T {
	if n <= 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	if size > 0 && uintptr(n) > math.MaxInt/size {
		panic("gcptr: arena allocation overflows")
	}
	b := a.alloc(size*uintptr(n), unsafe.Alignof(zero))
	return (*T)(unsafe.Pointer(unsafe.SliceData(b)))
}

// alloc carves a zeroed, aligned block of at least one byte and counts it
// as live.
func (a *Arena) alloc(size, align uintptr) []byte {
	size = max(size, 1)
	align = max(align, unsafe.Sizeof(uintptr(0)))

	a.mu.Lock()
	defer a.mu.Unlock()
	a.panicIfReleased()

	c := &a.chunks[a.cur]
	off := alignUp(c.offset, align)
	if off+size > uintptr(len(c.buf)) {
		a.advance(size + align)
		c = &a.chunks[a.cur]
		off = alignUp(c.offset, align)
	}
	c.offset = off + size
	a.live++

	b := c.buf[off : off+size : off+size]
	clear(b)
	return b
}

// advance moves to the next chunk that can hold need bytes, growing the
// arena if no retained chunk is large enough.
func (a *Arena) advance(need uintptr) {
	for i := a.cur + 1; i < len(a.chunks); i++ {
		if uintptr(len(a.chunks[i].buf)) >= need {
			a.cur = i
			return
		}
	}
	a.grow(int(need))
}

// free records the release of one allocation and rewinds the arena when
// nothing is live any more.
func (a *Arena) free() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.chunks == nil || a.live == 0 {
		return
	}
	a.live--
	if a.live == 0 {
		a.rewind()
	}
}

// Reset rewinds all chunks regardless of live allocations. Memory handed
// out earlier will be reused; callers must know it is unreferenced.
func (a *Arena) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.panicIfReleased()
	a.live = 0
	a.rewind()
}

// Release drops all chunks and makes the arena unusable.
// Any subsequent allocation will panic.
func (a *Arena) Release() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.chunks = nil
	a.cur = 0
	a.live = 0
}

func (a *Arena) rewind() {
	for i := range a.chunks {
		a.chunks[i].offset = 0
	}
	a.cur = 0
	a.resets++
}

// grow appends a new chunk of at least min bytes and makes it current.
func (a *Arena) grow(min int) {
	size := max(a.chunkSize, min)
	a.chunks = append(a.chunks, chunk{buf: make([]byte, size)})
	a.cur = len(a.chunks) - 1
}

func (a *Arena) panicIfReleased() {
	if a.chunks == nil {
		panic("gcptr: arena used after Release()")
	}
}

// alignUp rounds off up to a multiple of align (a power of two).
func alignUp(off, align uintptr) uintptr {
	mask := align - 1
	return (off + mask) &^ mask
}

// ArenaReleaser returns a Releaser for allocations made with ArenaNew and
// ArenaNewArray. Released memory is disposed and zeroed before the arena
// is told about it.
func ArenaReleaser[T any](a *Arena) Releaser[T] {
	return arenaReleaser[T]{a: a}
}

type arenaReleaser[T any] struct {
	a *Arena
}

func (r arenaReleaser[T]) Release(addr *T) {
	HeapReleaser[T]{}.Release(addr)
	r.a.free()
}

func (r arenaReleaser[T]) ReleaseArray(addr *T, n int) {
	HeapReleaser[T]{}.ReleaseArray(addr, n)
	r.a.free()
}
