package gcptr

import (
	"strconv"
	"testing"
)

// BenchmarkLifecycle measures the cost of tracked pointer operations
func BenchmarkLifecycle(b *testing.B) {
	type payload struct {
		ID   int64
		Data [56]byte // Total 64 bytes
	}

	b.Run("NewRelease/Heap", func(b *testing.B) {
		r := NewRegistry[payload](nil)
		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			p := r.New(&payload{ID: int64(i)})
			p.Release()
		}
	})

	b.Run("NewRelease/Arena", func(b *testing.B) {
		a := NewArena(64 * 1024)
		r := NewRegistry[payload](ArenaReleaser[payload](a))
		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			p := r.New(ArenaNew[payload](a))
			p.Release()
		}
	})

	b.Run("CopyRelease", func(b *testing.B) {
		r := NewRegistry[payload](nil)
		root := r.New(&payload{})
		defer root.Release()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			root.Copy().Release()
		}
	})

	// Lookups stay flat as the registry grows.
	for _, size := range []int{10, 1000, 100000} {
		b.Run("CopyRelease/Records="+strconv.Itoa(size), func(b *testing.B) {
			r := NewRegistry[payload](nil)
			vals := make([]payload, size)
			for i := range vals {
				r.New(&vals[i])
			}
			last := r.New(&vals[size-1])
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				last.Copy().Release()
			}
			b.StopTimer()
			r.Shutdown()
		})
	}

	b.Run("Shutdown/1000", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			b.StopTimer()
			r := NewRegistry[payload](nil)
			vals := make([]payload, 1000)
			for j := range vals {
				r.New(&vals[j])
			}
			b.StartTimer()
			r.Shutdown()
		}
	})
}
