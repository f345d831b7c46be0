package gcptr

import "errors"

// Lifecycle faults. These are never returned from pointer operations; the
// offending operation becomes a no-op and the fault is logged and counted.
var (
	// ErrDangling reports a lifecycle operation on an address that has no
	// record in the registry.
	ErrDangling = errors.New("gcptr: no record for address")

	// ErrUnderflow reports a decrement of a record whose count is already zero.
	ErrUnderflow = errors.New("gcptr: refcount underflow")

	// ErrClassMismatch reports an address wrapped once as a scalar and once
	// as an array (or with a different element count). The record keeps the
	// classification it was created with.
	ErrClassMismatch = errors.New("gcptr: array classification mismatch")
)

var (
	// ErrRegistryExists is returned by Install when the pointee type already
	// has a registry in the context.
	ErrRegistryExists = errors.New("gcptr: registry already installed")

	// ErrForeignPointer is the panic value when a Pointer is assigned from a
	// Pointer bound to a different registry.
	ErrForeignPointer = errors.New("gcptr: pointer belongs to a different registry")

	// ErrReleased is the panic value for any use of a released Pointer
	// other than a repeated Release.
	ErrReleased = errors.New("gcptr: use of released Pointer")
)

// ErrOutOfRange is the panic value when an Iter is dereferenced outside
// the allocation it walks.
var ErrOutOfRange = errors.New("gcptr: iterator out of range")
