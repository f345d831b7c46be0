// Package gcptr implements deterministic, reference-counted collection of
// explicitly tracked allocations.
//
// # Overview
//
// Memory wrapped in a Pointer is recorded in a per-type Registry together
// with a count of the live Pointers that reference it. Every Pointer
// lifecycle event updates that count synchronously:
//
//   - constructing a Pointer adds one count (creating the record on first use)
//   - Copy adds one count to the shared record
//   - Assign and AssignPointer move one count from the old allocation to the new
//   - Release removes one count
//
// Release and the assignments then run a collection, which frees every
// allocation whose count is zero. There is no tracing: reference cycles are
// never freed until Shutdown.
//
// # Basic Usage
//
//	reg := gcptr.NewRegistry[Node](nil)
//	defer reg.Shutdown()
//
//	p := reg.New(&Node{ID: 1})
//	q := p.Copy()      // count 2
//	p.Release()        // count 1, nothing freed
//	q.Release()        // count 0, freed
//
//	arr := reg.NewSlice(make([]Node, 5)) // array of 5, freed as an array
//	defer arr.Release()
//
// # Registries and Contexts
//
// A Context owns one registry per pointee type. The package-level New,
// NewArray and NewSlice use Default:
//
//	func main() {
//		defer gcptr.Shutdown()
//		p := gcptr.New(&Config{})
//		defer p.Release()
//	}
//
// Shutdown forces every count to zero and collects, so nothing tracked
// outlives the program unnoticed.
//
// # Releasing Memory
//
// A Registry frees memory through a Releaser, which has separate scalar and
// array methods. HeapReleaser, the default, calls Dispose on pointees
// implementing Disposer and zeroes the memory; the Go runtime reclaims it.
// ArenaReleaser pairs with ArenaNew and ArenaNewArray to reuse arena chunks
// once every tracked allocation in them is gone.
//
// # Thread Safety
//
// Each Registry serializes its operations with a mutex. A single Pointer
// value must not be used from several goroutines at once; give each
// goroutine its own Copy.
//
// # Diagnostics
//
//	reg.Show(os.Stdout)  // address, count and value of each record
//	reg.Dump(os.Stdout)  // deep rendering via go-spew
//	reg.Stats()          // counts of constructions, sweeps, frees, faults
//
// Package gcmetrics exports the same statistics to Prometheus.
package gcptr
