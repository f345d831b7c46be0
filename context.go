package gcptr

import (
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"slices"
	"sync"
)

// Context owns one Registry per pointee type. A registry is created on
// first use and armed for shutdown when its first Pointer is constructed;
// Shutdown drains every armed registry.
//
// Programs normally use Default through the package-level helpers and
// defer Shutdown in main. Tests create their own Context (or standalone
// registries) to stay independent of each other.
type Context struct {
	mu         sync.Mutex
	logger     *slog.Logger
	registries map[reflect.Type]managed
	order      []managed
	armed      []managed
}

// managed is the type-erased view of a Registry.
type managed interface {
	Name() string
	Size() int
	Stats() Stats
	Show(w io.Writer) error
	shutdown() int
	setArm(fn func())
	setName(name string)
}

// Default is the process-wide context used by New, NewArray, NewSlice,
// Collect and Shutdown.
var Default = NewContext()

// NewContext creates an empty context. Only WithLogger is meaningful here;
// the logger is handed to every registry the context creates.
func NewContext(opts ...Option) *Context {
	o := buildOptions(opts)
	return &Context{
		logger:     o.logger,
		registries: make(map[reflect.Type]managed),
	}
}

// For returns the registry for T in c, creating it with the heap releaser
// if needed.
func For[T any](c *Context) *Registry[T] {
	t := reflect.TypeFor[T]()

	c.mu.Lock()
	defer c.mu.Unlock()
	if m, ok := c.registries[t]; ok {
		return m.(*Registry[T])
	}
	r := NewRegistry[T](nil, WithLogger(c.logger))
	c.adoptLocked(t, r)
	return r
}

// Install creates the registry for T with a custom releaser and options.
// It fails with ErrRegistryExists if T already has a registry in c.
func Install[T any](c *Context, rel Releaser[T], opts ...Option) (*Registry[T], error) {
	t := reflect.TypeFor[T]()

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.registries[t]; ok {
		return nil, fmt.Errorf("%w: %s", ErrRegistryExists, t)
	}
	r := NewRegistry[T](rel, append([]Option{WithLogger(c.logger)}, opts...)...)
	c.adoptLocked(t, r)
	return r, nil
}

// adoptLocked registers r under t. Names are unique within a context, so
// distinct types that print alike (local types, same-named packages) or
// share a WithName get a "#n" suffix.
func (c *Context) adoptLocked(t reflect.Type, r managed) {
	if name := c.uniqueNameLocked(r.Name()); name != r.Name() {
		c.logger.Debug("registry renamed", "type", t.String(), "name", name)
		r.setName(name)
	}
	c.registries[t] = r
	c.order = append(c.order, r)
	r.setArm(func() { c.arm(r) })
}

func (c *Context) uniqueNameLocked(name string) string {
	taken := func(n string) bool {
		return slices.ContainsFunc(c.order, func(m managed) bool { return m.Name() == n })
	}
	if !taken(name) {
		return name
	}
	for i := 2; ; i++ {
		if n := fmt.Sprintf("%s#%d", name, i); !taken(n) {
			return n
		}
	}
}

func (r *Registry[T]) setArm(fn func()) { r.arm = fn }

func (r *Registry[T]) setName(name string) { r.name = name }

func (c *Context) arm(r managed) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.armed) == 0 {
		c.logger.Debug("shutdown armed", "registry", r.Name())
	}
	c.armed = append(c.armed, r)
}

// Armed reports whether any Pointer has been constructed in c, i.e.
// whether Shutdown has work to consider.
func (c *Context) Armed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.armed) > 0
}

// Shutdown drains every armed registry, most recently armed first, and
// repeats until a full pass frees nothing (disposers may release Pointers
// of registries drained earlier). It returns the number of allocations
// freed and is a no-op on a drained context.
func (c *Context) Shutdown() int {
	total := 0
	for {
		c.mu.Lock()
		armed := slices.Clone(c.armed)
		c.mu.Unlock()

		n := 0
		for i := len(armed) - 1; i >= 0; i-- {
			n += armed[i].shutdown()
		}
		if n == 0 {
			if total > 0 {
				c.logger.Info("tracked pointers shut down", "freed", total)
			}
			return total
		}
		total += n
	}
}

// Stats returns one snapshot per registry, in creation order.
func (c *Context) Stats() []Stats {
	c.mu.Lock()
	regs := slices.Clone(c.order)
	c.mu.Unlock()

	out := make([]Stats, 0, len(regs))
	for _, r := range regs {
		out = append(out, r.Stats())
	}
	return out
}

// Show writes the diagnostics of every registry in creation order.
func (c *Context) Show(w io.Writer) error {
	c.mu.Lock()
	regs := slices.Clone(c.order)
	c.mu.Unlock()

	for _, r := range regs {
		if err := r.Show(w); err != nil {
			return err
		}
	}
	return nil
}

// New wraps a single value in the Default context.
func New[T any](addr *T) *Pointer[T] { return For[T](Default).New(addr) }

// NewArray wraps an array of n elements in the Default context.
func NewArray[T any](addr *T, n int) *Pointer[T] { return For[T](Default).NewArray(addr, n) }

// NewSlice wraps the backing array of s in the Default context.
func NewSlice[T any](s []T) *Pointer[T] { return For[T](Default).NewSlice(s) }

// Collect runs a collection on T's registry in the Default context.
func Collect[T any]() bool { return For[T](Default).Collect() }

// Shutdown drains the Default context. Call it once on the way out of
// main; it stands in for a process-exit hook.
func Shutdown() int { return Default.Shutdown() }
