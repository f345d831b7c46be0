package gcptr

// Collect frees every allocation whose count has dropped to zero and
// reports whether anything was freed. Allocations still referenced are
// never touched.
func (r *Registry[T]) Collect() bool {
	r.mu.Lock()
	freed := r.sweepLocked()
	r.mu.Unlock()
	r.release(freed)
	return len(freed) > 0
}

// Shutdown forces every count to zero and collects. It returns the number
// of allocations freed; on an empty registry it does nothing and returns 0.
func (r *Registry[T]) Shutdown() int {
	r.mu.Lock()
	if len(r.records) == 0 {
		r.mu.Unlock()
		return 0
	}
	for _, rec := range r.records {
		rec.refs = 0
	}
	r.zeros = len(r.records)
	freed := r.sweepLocked()
	r.mu.Unlock()
	r.release(freed)
	return len(freed)
}

func (r *Registry[T]) shutdown() int { return r.Shutdown() }

// sweepLocked removes zero-count records in one compacting pass and
// returns them. Survivors keep their relative order. Removal happens under
// the lock, which makes the later release exactly-once. Pinned records
// survive with their zero count until unpinned.
func (r *Registry[T]) sweepLocked() []*record[T] {
	r.stats.collections++
	if r.zeros == 0 {
		return nil
	}
	r.zeros = 0

	var freed []*record[T]
	first := -1 // first removed position; later indexes shift
	kept := r.records[:0]
	for i, rec := range r.records {
		if rec.refs > 0 {
			kept = append(kept, rec)
			continue
		}
		if rec.pins > 0 {
			r.zeros++
			kept = append(kept, rec)
			continue
		}
		if first < 0 {
			first = i
		}
		delete(r.index, rec.addr)
		freed = append(freed, rec)
		if rec.isArray {
			r.stats.freedArrays++
		} else {
			r.stats.freedScalars++
		}
	}
	clear(r.records[len(kept):])
	r.records = kept
	if first < 0 {
		return nil
	}
	for i := first; i < len(kept); i++ {
		r.index[kept[i].addr] = i
	}
	return freed
}

// release hands collected records to the releaser. Must be called without
// holding r.mu.
func (r *Registry[T]) release(freed []*record[T]) {
	for _, rec := range freed {
		if rec.addr == nil {
			continue
		}
		r.logger.Debug("releasing allocation",
			"registry", r.name,
			"addr", addrOf(rec.addr),
			"array", rec.isArray,
			"len", rec.length())
		if rec.isArray {
			r.releaser.ReleaseArray(rec.addr, rec.n)
		} else {
			r.releaser.Release(rec.addr)
		}
	}
}

// pinLocked keeps the given records from being freed until unpin.
func (r *Registry[T]) pinLocked(recs []*record[T]) {
	for _, rec := range recs {
		rec.pins++
	}
}

// unpin undoes pinLocked and frees whatever was released in the meantime.
func (r *Registry[T]) unpin(recs []*record[T]) {
	r.mu.Lock()
	due := false
	for _, rec := range recs {
		rec.pins--
		if rec.pins == 0 && rec.refs == 0 {
			due = true
		}
	}
	var freed []*record[T]
	if due {
		freed = r.sweepLocked()
	}
	r.mu.Unlock()
	r.release(freed)
}
