// Package pool provides the plumbing layer: a scoped byte-slice arena and
// a small generic LRU used by the display cache.
//
// spec.md §6.3 models the host allocator as alloc/realloc/free with
// session- or process-scoped lifetimes; Go has no manual free, so Arena
// is a sync.Pool-backed recycler for the one allocation-heavy path in
// this engine (per-keystroke scratch buffers in display).
package pool

import "sync"

// Arena recycles fixed-purpose byte slices across readline sessions.
type Arena struct {
	pool sync.Pool
}

// NewArena creates an Arena whose slices start at the given capacity.
func NewArena(initialCap int) *Arena {
	return &Arena{
		pool: sync.Pool{
			New: func() any {
				b := make([]byte, 0, initialCap)
				return &b
			},
		},
	}
}

// Get returns a zero-length slice with at least its configured capacity.
func (a *Arena) Get() []byte {
	p := a.pool.Get().(*[]byte)
	return (*p)[:0]
}

// Put returns b to the arena for reuse. Callers must not use b afterward.
func (a *Arena) Put(b []byte) {
	a.pool.Put(&b)
}

// Alloc satisfies collab.Allocator: it returns a slice of length size,
// reusing a pooled backing array when one with enough capacity is
// available. The bytes of a reused array are not cleared.
func (a *Arena) Alloc(size int) []byte {
	b := a.Get()
	if cap(b) < size {
		return make([]byte, size)
	}
	return b[:size]
}

// Realloc grows or shrinks buf to newSize, copying its existing
// contents, and returns the old buffer to the pool before returning the
// replacement (Go has no in-place manual realloc; this approximates the
// collaborator contract by recycling the old backing array).
func (a *Arena) Realloc(buf []byte, newSize int) []byte {
	out := a.Alloc(newSize)
	copy(out, buf)
	a.Free(buf)
	return out
}

// Free returns buf to the arena for reuse.
func (a *Arena) Free(buf []byte) { a.Put(buf) }
