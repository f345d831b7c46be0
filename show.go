package gcptr

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"unsafe"

	"github.com/davecgh/go-spew/spew"
)

// view is a record copied out of the registry for rendering.
type view[T any] struct {
	addr    *T
	refs    uint64
	isArray bool
	n       int
}

// views copies the records and pins them; the returned func unpins.
// Pinned values stay allocated while they are rendered, even if their last
// Pointer is released concurrently.
func (r *Registry[T]) views() ([]view[T], func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	recs := slices.Clone(r.records)
	r.pinLocked(recs)
	out := make([]view[T], len(recs))
	for i, rec := range recs {
		out[i] = view[T]{addr: rec.addr, refs: rec.refs, isArray: rec.isArray, n: rec.n}
	}
	return out, func() { r.unpin(recs) }
}

func (v view[T]) value() any {
	if v.isArray {
		return unsafe.Slice(v.addr, v.n)
	}
	return *v.addr
}

// Show writes each tracked address with its count and current value.
// Values are rendered after the registry lock is dropped, so a String
// method on T may use Pointers freely. A value whose last Pointer is
// released during rendering is freed once Show returns.
func (r *Registry[T]) Show(w io.Writer) error {
	views, done := r.views()
	defer done()

	var b strings.Builder
	fmt.Fprintf(&b, "registry[%s]: %d record(s)\n", r.name, len(views))
	if len(views) == 0 {
		b.WriteString("  (empty)\n\n")
		_, err := io.WriteString(w, b.String())
		return err
	}
	fmt.Fprintf(&b, "  %-18s %6s  %s\n", "addr", "refs", "value")
	for _, v := range views {
		val := "---"
		if v.addr != nil {
			val = fmt.Sprint(v.value())
		}
		fmt.Fprintf(&b, "  %#-18x %6d  %s\n", addrOf(v.addr), v.refs, val)
	}
	b.WriteString("\n")
	_, err := io.WriteString(w, b.String())
	return err
}

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisableCapacities:       true,
	DisablePointerAddresses: true,
	SortKeys:                true,
}

// Dump writes a deep rendering of every tracked value.
func (r *Registry[T]) Dump(w io.Writer) error {
	views, done := r.views()
	defer done()
	if _, err := fmt.Fprintf(w, "registry[%s]: %d record(s)\n", r.name, len(views)); err != nil {
		return err
	}
	for _, v := range views {
		if _, err := fmt.Fprintf(w, "%#x refs=%d array=%t\n", addrOf(v.addr), v.refs, v.isArray); err != nil {
			return err
		}
		if v.addr != nil {
			dumpConfig.Fdump(w, v.value())
		}
	}
	return nil
}
