package gcptr

import "sync"

// releaseLog is a Releaser that records what it was asked to free
// without touching memory.
type releaseLog[T any] struct {
	mu      sync.Mutex
	scalars []*T
	arrays  []*T
	lens    map[*T]int
}

func newReleaseLog[T any]() *releaseLog[T] {
	return &releaseLog[T]{lens: make(map[*T]int)}
}

func (l *releaseLog[T]) Release(addr *T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.scalars = append(l.scalars, addr)
}

func (l *releaseLog[T]) ReleaseArray(addr *T, n int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.arrays = append(l.arrays, addr)
	l.lens[addr] = n
}

// times returns how often addr was released, scalar and array combined.
func (l *releaseLog[T]) times(addr *T) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, a := range l.scalars {
		if a == addr {
			n++
		}
	}
	for _, a := range l.arrays {
		if a == addr {
			n++
		}
	}
	return n
}

func (l *releaseLog[T]) total() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.scalars) + len(l.arrays)
}
