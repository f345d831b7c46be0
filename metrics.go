package gcptr

// counters are the running totals kept by a Registry. Guarded by the
// registry mutex.
type counters struct {
	constructed  uint64
	copied       uint64
	assigned     uint64
	released     uint64
	collections  uint64
	freedScalars uint64
	freedArrays  uint64
	faults       uint64
}

// Stats is a snapshot of a registry's state and lifetime totals.
type Stats struct {
	Name         string // Registry name
	Records      int    // Tracked allocations
	Refs         uint64 // Sum of all record counts
	Constructed  uint64 // Pointers constructed
	Copied       uint64 // Pointers copy-constructed
	Assigned     uint64 // Assign and AssignPointer calls
	Released     uint64 // Pointers released
	Collections  uint64 // Sweeps run
	FreedScalars uint64 // Scalar allocations freed
	FreedArrays  uint64 // Array allocations freed
	Faults       uint64 // Dangling, underflow and classification faults absorbed
}

// Freed returns the total number of allocations freed.
func (s Stats) Freed() uint64 {
	return s.FreedScalars + s.FreedArrays
}

// Stats returns a snapshot of registry statistics.
func (r *Registry[T]) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	var refs uint64
	for _, rec := range r.records {
		refs += rec.refs
	}
	return Stats{
		Name:         r.name,
		Records:      len(r.records),
		Refs:         refs,
		Constructed:  r.stats.constructed,
		Copied:       r.stats.copied,
		Assigned:     r.stats.assigned,
		Released:     r.stats.released,
		Collections:  r.stats.collections,
		FreedScalars: r.stats.freedScalars,
		FreedArrays:  r.stats.freedArrays,
		Faults:       r.stats.faults,
	}
}

// SizeInUse returns the bytes handed out since the last rewind, including
// alignment padding.
func (a *Arena) SizeInUse() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	sum := 0
	for _, c := range a.chunks {
		sum += int(c.offset)
	}
	return sum
}

// Capacity returns the total capacity (in bytes) of all chunks.
func (a *Arena) Capacity() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.capacityLocked()
}

func (a *Arena) capacityLocked() int {
	sum := 0
	for _, c := range a.chunks {
		sum += len(c.buf)
	}
	return sum
}

// NumChunks returns the number of chunks currently held by the arena.
func (a *Arena) NumChunks() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.chunks)
}

// Live returns the number of allocations not yet released.
func (a *Arena) Live() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.live
}

// ChunkSize returns the default chunk size used by this arena.
func (a *Arena) ChunkSize() int { return a.chunkSize }

// Utilization returns the ratio of bytes in use to total capacity (0.0 to 1.0).
// Returns 0.0 if the arena has no capacity.
func (a *Arena) Utilization() float64 {
	m := a.Metrics()
	return m.Utilization
}

// Metrics returns a snapshot of arena statistics.
func (a *Arena) Metrics() ArenaMetrics {
	a.mu.Lock()
	defer a.mu.Unlock()
	m := ArenaMetrics{
		Capacity:  a.capacityLocked(),
		NumChunks: len(a.chunks),
		ChunkSize: a.chunkSize,
		Live:      a.live,
		Resets:    a.resets,
	}
	for _, c := range a.chunks {
		m.SizeInUse += int(c.offset)
	}
	if m.Capacity > 0 {
		m.Utilization = float64(m.SizeInUse) / float64(m.Capacity)
	}
	return m
}

// ArenaMetrics contains statistical information about an arena.
type ArenaMetrics struct {
	SizeInUse   int     // Bytes handed out since the last rewind
	Capacity    int     // Total capacity in bytes
	NumChunks   int     // Number of chunks
	ChunkSize   int     // Default chunk size
	Live        int     // Allocations not yet released
	Resets      uint64  // Times the arena rewound
	Utilization float64 // Ratio of used to total capacity (0.0-1.0)
}
