package gcptr_test

import (
	"fmt"
	"os"

	"github.com/pavanmanishd/gcptr"
)

// Example demonstrates the basic pointer lifecycle
func Example() {
	var freed []int
	reg := gcptr.NewRegistry[int](gcptr.ReleaserFuncs[int]{
		Scalar: func(addr *int) { freed = append(freed, *addr) },
	})

	x := 42
	p1 := reg.New(&x)
	fmt.Printf("p1: refs=%d\n", p1.RefCount())

	p2 := p1.Copy()
	fmt.Printf("p2: refs=%d\n", p2.RefCount())

	p1.Release()
	fmt.Printf("after p1.Release: records=%d freed=%v\n", reg.Size(), freed)

	p2.Release()
	fmt.Printf("after p2.Release: records=%d freed=%v\n", reg.Size(), freed)

	// Output:
	// p1: refs=1
	// p2: refs=2
	// after p1.Release: records=1 freed=[]
	// after p2.Release: records=0 freed=[42]
}

// ExampleRegistry_NewSlice shows that arrays are released as arrays
func ExampleRegistry_NewSlice() {
	reg := gcptr.NewRegistry[int](gcptr.ReleaserFuncs[int]{
		Scalar: func(*int) { fmt.Println("scalar release") },
		Array:  func(_ *int, n int) { fmt.Printf("array release of %d elements\n", n) },
	})

	p := reg.NewSlice(make([]int, 5))
	for i, v := range p.All() {
		*v = i * 10
	}
	fmt.Println(p.Slice())
	p.Release()

	// Output:
	// [0 10 20 30 40]
	// array release of 5 elements
}

// ExampleRegistry_Shutdown demonstrates draining a registry
func ExampleRegistry_Shutdown() {
	reg := gcptr.NewRegistry[string](nil)

	a, b := "a", "b"
	reg.New(&a)
	reg.New(&b).Copy()
	reg.New(&a)

	fmt.Println("records:", reg.Size())
	fmt.Println("freed:", reg.Shutdown())
	fmt.Println("freed again:", reg.Shutdown())
	fmt.Printf("values after shutdown: %q %q\n", a, b)

	// Output:
	// records: 2
	// freed: 2
	// freed again: 0
	// values after shutdown: "" ""
}

// ExampleArena demonstrates arena-backed tracked allocations
func ExampleArena() {
	a := gcptr.NewArena(1024)
	defer a.Release()

	reg := gcptr.NewRegistry[int64](gcptr.ArenaReleaser[int64](a))
	p := reg.New(gcptr.ArenaNew[int64](a))
	q := reg.NewArray(gcptr.ArenaNewArray[int64](a, 4), 4)
	p.Store(7)

	fmt.Printf("live: %d\n", a.Live())
	p.Release()
	q.Release()
	m := a.Metrics()
	fmt.Printf("live: %d, in use: %d bytes, rewinds: %d\n", m.Live, m.SizeInUse, m.Resets)

	// Output:
	// live: 2
	// live: 0, in use: 0 bytes, rewinds: 1
}

// ExampleContext shows the per-type registries of a context
func ExampleContext() {
	ctx := gcptr.NewContext()

	n := 1
	s := "one"
	pn := gcptr.For[int](ctx).New(&n)
	ps := gcptr.For[string](ctx).New(&s)
	defer pn.Release()
	defer ps.Release()

	for _, st := range ctx.Stats() {
		fmt.Printf("%s: %d record(s)\n", st.Name, st.Records)
	}

	fmt.Println("freed at shutdown:", ctx.Shutdown())

	// Output:
	// int: 1 record(s)
	// string: 1 record(s)
	// freed at shutdown: 2
}

func ExamplePointer_Begin() {
	p := gcptr.NewRegistry[rune](nil).NewSlice([]rune("gc"))
	defer p.Release()

	for it := p.Begin(); !it.Equal(p.End()); it = it.Next() {
		fmt.Printf("%c", *it.Get())
	}
	fmt.Println()

	// Output:
	// gc
}

func ExampleRegistry_Show() {
	reg := gcptr.NewRegistry[int](nil, gcptr.WithName("demo"))
	reg.Show(os.Stdout)

	// Output:
	// registry[demo]: 0 record(s)
	//   (empty)
}
