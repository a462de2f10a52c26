package buffer

import "github.com/berrym/lle/lleerr"

// ChangeKind distinguishes the three mutating operations a ChangeOp can
// record (spec.md §3.1).
type ChangeKind int

const (
	OpInsert ChangeKind = iota
	OpDelete
	OpReplace
)

// ChangeOp is one undo/redo record (spec.md §3.1).
//
// Before is the byte range that existed at BytePos prior to the change
// (non-empty for Delete/Replace); After is the byte range that exists at
// BytePos once the change is applied (non-empty for Insert/Replace).
// Storing both directions makes Undo and Redo symmetric: Undo replaces
// After with Before at BytePos, Redo replaces Before with After.
type ChangeOp struct {
	Kind        ChangeKind
	BytePos     int
	Before      []byte
	After       []byte
	SavedCursor Cursor
}

// ChangeTracker owns the undo and redo stacks. Every mutation pushes to
// undo and clears redo (spec.md §4.3.4); entries are owned by the
// tracker and freed in order when the cap is hit.
type ChangeTracker struct {
	undo     []ChangeOp
	redo     []ChangeOp
	maxDepth int
}

func newChangeTracker(maxDepth int) *ChangeTracker {
	return &ChangeTracker{maxDepth: maxDepth}
}

func (t *ChangeTracker) push(op ChangeOp) {
	t.undo = append(t.undo, op)
	if len(t.undo) > t.maxDepth {
		// Oldest entries freed when the cap is hit.
		t.undo = t.undo[len(t.undo)-t.maxDepth:]
	}
	t.redo = t.redo[:0]
}

func (t *ChangeTracker) clear() {
	t.undo = t.undo[:0]
	t.redo = t.redo[:0]
}

// CanUndo reports whether Undo would succeed.
func (b *Buffer) CanUndo() bool { return len(b.changes.undo) > 0 }

// CanRedo reports whether Redo would succeed.
func (b *Buffer) CanRedo() bool { return len(b.changes.redo) > 0 }

// Undo pops the most recent change and replaces its After range with its
// Before range, restoring the cursor position the record carries
// (spec.md §4.3.4, §8.1 "undo followed by redo is the identity").
func (b *Buffer) Undo() error {
	const op = "buffer.Undo"
	if len(b.changes.undo) == 0 {
		return lleerr.New(lleerr.StateError, op, "undo stack is empty")
	}
	n := len(b.changes.undo) - 1
	change := b.changes.undo[n]

	if err := b.applyRange(change.BytePos, len(change.After), change.Before); err != nil {
		return lleerr.Wrap(lleerr.StateError, op, err)
	}

	b.changes.undo = b.changes.undo[:n]
	b.cursor = change.SavedCursor
	b.changes.redo = append(b.changes.redo, change)
	return nil
}

// Redo re-applies the most recently undone change: replaces its Before
// range with its After range and moves the cursor the way the original
// change did.
func (b *Buffer) Redo() error {
	const op = "buffer.Redo"
	if len(b.changes.redo) == 0 {
		return lleerr.New(lleerr.StateError, op, "redo stack is empty")
	}
	n := len(b.changes.redo) - 1
	change := b.changes.redo[n]

	if err := b.applyRange(change.BytePos, len(change.Before), change.After); err != nil {
		return lleerr.Wrap(lleerr.StateError, op, err)
	}

	b.changes.redo = b.changes.redo[:n]
	b.changes.undo = append(b.changes.undo, change)
	if len(change.Before) > 0 {
		b.adjustForDelete(change.BytePos, len(change.Before))
	}
	if len(change.After) > 0 {
		b.adjustForInsert(change.BytePos, len(change.After))
	}
	return nil
}

// applyRange replaces the oldLen bytes at pos with newBytes, without
// pushing a new undo record or advancing the modification counter —
// Undo/Redo manage the stacks directly so replaying a record never
// creates a spurious new entry, and an Undo followed by a Redo leaves
// ModCounter where it was.
func (b *Buffer) applyRange(pos, oldLen int, newBytes []byte) error {
	tail := make([]byte, b.lengthBytes-(pos+oldLen))
	copy(tail, b.bytes[pos+oldLen:b.lengthBytes])

	b.growIfNeeded((pos + len(newBytes) + len(tail)) - b.lengthBytes)
	b.lengthBytes = pos + len(newBytes) + len(tail)
	b.bytes = b.bytes[:b.lengthBytes]
	copy(b.bytes[pos:], newBytes)
	copy(b.bytes[pos+len(newBytes):], tail)

	b.utf8IndexStale = true
	b.checksumStale = true
	b.rebuildLines()
	b.ensureIndex()
	b.multiline.Reparse(b.Bytes())
	return nil
}
