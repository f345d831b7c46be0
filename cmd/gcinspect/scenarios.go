package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pavanmanishd/gcptr"
)

var (
	scenarioArena bool
	scenarioDump  bool
)

func init() {
	cmd := newScenariosCmd()
	cmd.Flags().BoolVar(&scenarioArena, "arena", false, "Allocate tracked values from an arena")
	cmd.Flags().BoolVar(&scenarioDump, "dump", false, "Deep-dump values instead of the compact table")
	rootCmd.AddCommand(cmd)
}

func newScenariosCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenarios",
		Short: "Replay the reference lifecycle scenarios",
		Long: `The scenarios command replays the canonical lifecycle sequences
(copy, array release, shared raw address, shutdown) and shows the
registry after each step.

Example:
  gcinspect scenarios
  gcinspect scenarios --arena --dump`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(cmd.Context(), out())
		},
	}
}

// harness builds registries whose releases are reported on w.
type harness struct {
	w     io.Writer
	arena *gcptr.Arena
}

func (h *harness) registry(name string) *gcptr.Registry[int64] {
	var inner gcptr.Releaser[int64] = gcptr.HeapReleaser[int64]{}
	if h.arena != nil {
		inner = gcptr.ArenaReleaser[int64](h.arena)
	}
	rel := gcptr.ReleaserFuncs[int64]{
		Scalar: func(addr *int64) {
			fmt.Fprintf(h.w, "  -> scalar release %p (value %d)\n", addr, *addr)
			inner.Release(addr)
		},
		Array: func(addr *int64, n int) {
			fmt.Fprintf(h.w, "  -> array release %p (%d elements)\n", addr, n)
			inner.ReleaseArray(addr, n)
		},
	}
	return gcptr.NewRegistry[int64](rel, gcptr.WithName(name))
}

func (h *harness) value(v int64) *int64 {
	if h.arena != nil {
		p := gcptr.ArenaNew[int64](h.arena)
		*p = v
		return p
	}
	return &v
}

func (h *harness) values(n int) *int64 {
	if h.arena != nil {
		return gcptr.ArenaNewArray[int64](h.arena, n)
	}
	return &make([]int64, n)[0]
}

func (h *harness) show(r *gcptr.Registry[int64], step string) error {
	fmt.Fprintf(h.w, "%s\n", step)
	if scenarioDump {
		return r.Dump(h.w)
	}
	return r.Show(h.w)
}

func runScenarios(ctx context.Context, w io.Writer) error {
	h := &harness{w: w}
	if scenarioArena {
		h.arena = gcptr.NewArena(0)
		defer h.arena.Release()
	}

	scenarios := []struct {
		name string
		run  func(*harness) error
	}{
		{"copy and release", scenarioCopy},
		{"array release", scenarioArray},
		{"shared raw address", scenarioShared},
		{"shutdown", scenarioShutdown},
	}
	for _, s := range scenarios {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprintf(w, "=== %s\n", s.name)
		if err := s.run(h); err != nil {
			return fmt.Errorf("scenario %q: %w", s.name, err)
		}
	}
	if h.arena != nil {
		m := h.arena.Metrics()
		printInfo("arena: %d live, %d rewinds, %d chunk(s)\n", m.Live, m.Resets, m.NumChunks)
	}
	return nil
}

func scenarioCopy(h *harness) error {
	r := h.registry("copy")
	p1 := r.New(h.value(42))
	if err := h.show(r, "wrap X in p1"); err != nil {
		return err
	}
	p2 := p1.Copy()
	if err := h.show(r, "copy p1 to p2"); err != nil {
		return err
	}
	p1.Release()
	if err := h.show(r, "release p1"); err != nil {
		return err
	}
	p2.Release()
	return h.show(r, "release p2")
}

func scenarioArray(h *harness) error {
	r := h.registry("array")
	addr := h.values(5)
	p := r.NewArray(addr, 5)
	for i, v := range p.All() {
		*v = int64(i * i)
	}
	if err := h.show(r, "wrap 5-element array in p"); err != nil {
		return err
	}
	p.Release()
	return h.show(r, "release p")
}

func scenarioShared(h *harness) error {
	r := h.registry("shared")
	y := h.value(7)
	p1 := r.New(y)
	p2 := r.New(y)
	if err := h.show(r, "wrap Y twice"); err != nil {
		return err
	}
	p1.Release()
	p2.Release()
	return h.show(r, "release both")
}

func scenarioShutdown(h *harness) error {
	r := h.registry("shutdown")
	a := r.New(h.value(1))
	b := r.New(h.value(2))
	c := b.Copy()
	if err := h.show(r, "three pointers, two allocations"); err != nil {
		return err
	}
	fmt.Fprintf(h.w, "shutdown freed %d\n", r.Shutdown())
	fmt.Fprintf(h.w, "second shutdown freed %d\n", r.Shutdown())
	// The pointers outlived their records; releasing them is absorbed.
	a.Release()
	b.Release()
	c.Release()
	return h.show(r, "after shutdown")
}
