package gcptr

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShowEmpty(t *testing.T) {
	r := NewRegistry[int](nil)
	var buf bytes.Buffer
	require.NoError(t, r.Show(&buf))
	assert.Equal(t, "registry[int]: 0 record(s)\n  (empty)\n\n", buf.String())
}

func TestShowRecords(t *testing.T) {
	r := NewRegistry[int](newReleaseLog[int]())
	x := 42
	arr := []int{1, 2, 3}
	p := r.New(&x)
	q := p.Copy()
	a := r.NewSlice(arr)
	defer func() {
		p.Release()
		q.Release()
		a.Release()
	}()

	var buf bytes.Buffer
	require.NoError(t, r.Show(&buf))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "registry[int]: 2 record(s)", lines[0])
	assert.Contains(t, lines[1], "refs")

	xFields := strings.Fields(lines[2])
	assert.Equal(t, []string{fmt.Sprintf("%#x", addrOf(&x)), "2", "42"}, xFields)
	assert.True(t, strings.HasSuffix(lines[3], "[1 2 3]"), lines[3])

	before := r.Stats()
	require.NoError(t, r.Show(&buf))
	assert.Equal(t, before, r.Stats(), "Show must not mutate the registry")
}

// selfReporting renders itself through a Pointer of the same registry,
// which must not deadlock.
type selfReporting struct {
	self *Pointer[selfReporting]
}

func (s selfReporting) String() string {
	if s.self == nil {
		return "unbound"
	}
	return fmt.Sprintf("refs=%d", s.self.RefCount())
}

func TestShowRendersOutsideLock(t *testing.T) {
	r := NewRegistry[selfReporting](nil)
	v := &selfReporting{}
	p := r.New(v)
	v.self = p
	defer r.Shutdown()

	var buf bytes.Buffer
	require.NoError(t, r.Show(&buf))
	assert.Contains(t, buf.String(), "refs=1")
}

// dropOnRender releases its own last Pointer while being formatted.
type dropOnRender struct {
	owner *Pointer[dropOnRender]
	log   *releaseLog[dropOnRender]
	seen  *int
	ID    int
}

func (d dropOnRender) String() string {
	if d.owner != nil {
		d.owner.Release()
		*d.seen = d.log.total()
	}
	return fmt.Sprintf("id=%d", d.ID)
}

func TestShowDefersFreeUntilRendered(t *testing.T) {
	for _, render := range []struct {
		name string
		fn   func(*Registry[dropOnRender], io.Writer) error
	}{
		{"show", (*Registry[dropOnRender]).Show},
		{"dump", (*Registry[dropOnRender]).Dump},
	} {
		t.Run(render.name, func(t *testing.T) {
			rel := newReleaseLog[dropOnRender]()
			r := NewRegistry[dropOnRender](rel)
			seen := -1
			v := &dropOnRender{log: rel, seen: &seen, ID: 7}
			v.owner = r.New(v)

			var buf bytes.Buffer
			require.NoError(t, render.fn(r, &buf))
			assert.Contains(t, buf.String(), "id=7")
			assert.Equal(t, 0, seen, "freed while rendering")
			assert.Equal(t, 1, rel.times(v))
			assert.Equal(t, 0, r.Size())
			assert.Equal(t, uint64(0), r.Stats().Faults)
		})
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, fmt.Errorf("disk full") }

func TestShowPropagatesWriteErrors(t *testing.T) {
	r := NewRegistry[int](nil)
	assert.EqualError(t, r.Show(failingWriter{}), "disk full")
	assert.EqualError(t, r.Dump(failingWriter{}), "disk full")
}

func TestDump(t *testing.T) {
	type point struct{ X, Y int }
	r := NewRegistry[point](nil)
	p := r.New(&point{X: 1, Y: 2})
	defer p.Release()

	var buf bytes.Buffer
	require.NoError(t, r.Dump(&buf))
	out := buf.String()
	assert.Contains(t, out, "registry[gcptr.point]: 1 record(s)")
	assert.Contains(t, out, "refs=1 array=false")
	assert.Contains(t, out, "X: (int) 1")
	assert.Contains(t, out, "Y: (int) 2")
}
