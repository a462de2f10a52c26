// Package buffer implements the UTF-8 text store, cursor, undo/redo, and
// shell-aware multiline parsing at the heart of the line editor.
//
// This is the largest package in the engine (spec.md §4.3). It keeps the
// "keep the ownership graph trivial" rule from spec.md §9: the Buffer
// owns its bytes, line table, UTF-8 index, and change tracker outright;
// nothing here is reference-counted.
package buffer

import (
	"unicode/utf8"

	"github.com/berrym/lle/lleerr"
)

const (
	initialCapacity = 256
	// maxUndoDepth bounds the undo/redo stacks (spec.md §4.3.4).
	maxUndoDepth = 1024
	// dirtyMergeThreshold is unused here directly but documents the
	// byte-count relationship with display.DirtyTracker (spec.md §4.5.3).
	_ = 64
)

// Buffer is a contiguous, growable UTF-8 byte store with cursor, undo, and
// multiline-parse metadata attached (spec.md §3.1).
type Buffer struct {
	bytes []byte

	lengthBytes      int
	lengthCodepoints int
	lengthGraphemes  int

	lines []Line

	utf8Index      []int // byte offset of the lead byte of each codepoint
	utf8IndexStale bool

	modCounter uint64

	multiline MultilineContext
	cursor    Cursor
	changes   *ChangeTracker

	checksum      uint32
	checksumStale bool
}

// New creates an empty Buffer ready for editing.
func New() *Buffer {
	b := &Buffer{
		bytes:   make([]byte, 0, initialCapacity),
		lines:   []Line{{}},
		changes: newChangeTracker(maxUndoDepth),
	}
	b.cursor.valid = true
	b.utf8IndexStale = true
	b.checksumStale = true
	return b
}

// Reset clears the buffer back to its just-created state, for session
// reuse (spec.md §3.3).
func (b *Buffer) Reset() {
	b.bytes = b.bytes[:0]
	b.lengthBytes, b.lengthCodepoints, b.lengthGraphemes = 0, 0, 0
	b.lines = []Line{{}}
	b.utf8Index = nil
	b.utf8IndexStale = true
	b.modCounter = 0
	b.multiline = MultilineContext{}
	b.cursor = Cursor{valid: true}
	b.changes.clear()
	b.checksumStale = true
}

// Bytes returns the buffer's current contents. Callers must not mutate
// the returned slice.
func (b *Buffer) Bytes() []byte { return b.bytes[:b.lengthBytes] }

// String returns the buffer's current contents as a string.
func (b *Buffer) String() string { return string(b.Bytes()) }

// Len returns the buffer length in bytes, codepoints, and graphemes.
func (b *Buffer) Len() (bytesLen, codepoints, graphemes int) {
	b.ensureIndex()
	return b.lengthBytes, b.lengthCodepoints, b.lengthGraphemes
}

// ModCounter returns the monotonically increasing mutation counter.
// Insert, Delete and Replace advance it; Undo and Redo leave it unchanged.
func (b *Buffer) ModCounter() uint64 { return b.modCounter }

// Cursor returns a copy of the current cursor state.
func (b *Buffer) Cursor() Cursor { return b.cursor }

// Multiline returns the current shell-lexer multiline state.
func (b *Buffer) Multiline() MultilineContext { return b.multiline }

// Lines returns the current line table. Callers must not mutate it.
func (b *Buffer) Lines() []Line { return b.lines }

// growIfNeeded doubles capacity up to no explicit ceiling beyond what the
// Go runtime allocator itself enforces (spec.md §4.3.1: "grows by
// doubling, up to a configurable ceiling" — this engine leaves the
// ceiling to the host process's memory limits, since Go has no separate
// allocator to cap).
func (b *Buffer) growIfNeeded(extra int) {
	need := b.lengthBytes + extra
	if need <= cap(b.bytes) {
		return
	}
	newCap := cap(b.bytes)
	if newCap == 0 {
		newCap = initialCapacity
	}
	for newCap < need {
		newCap *= 2
	}
	grown := make([]byte, b.lengthBytes, newCap)
	copy(grown, b.bytes[:b.lengthBytes])
	b.bytes = grown
}

// Insert validates pos as a UTF-8 boundary and text as well-formed UTF-8,
// then splices text into the buffer at pos. Either the whole operation
// applies — bytes, line table, cursor, undo record, mod counter — or
// nothing does (spec.md §4.3.2, §4.3.7).
func (b *Buffer) Insert(pos int, text string) error {
	const op = "buffer.Insert"
	if pos < 0 || pos > b.lengthBytes {
		return lleerr.New(lleerr.InvalidArgument, op, "position out of range")
	}
	if !isBoundary(b.bytes[:b.lengthBytes], pos) {
		return lleerr.New(lleerr.InvalidArgument, op, "position is not a UTF-8 boundary")
	}
	if !utf8.ValidString(text) {
		return lleerr.New(lleerr.UTF8Error, op, "inserted text is not valid UTF-8")
	}
	if text == "" {
		return nil
	}

	savedCursor := b.cursor
	b.growIfNeeded(len(text))
	b.bytes = b.bytes[:b.lengthBytes+len(text)]
	copy(b.bytes[pos+len(text):], b.bytes[pos:b.lengthBytes])
	copy(b.bytes[pos:], text)
	b.lengthBytes += len(text)

	b.changes.push(ChangeOp{
		Kind:        OpInsert,
		BytePos:     pos,
		After:       []byte(text),
		SavedCursor: savedCursor,
	})

	b.afterMutate(pos, len(text), 0)
	b.multiline.Feed(b.Bytes())
	b.adjustForInsert(pos, len(text))
	return nil
}

// Delete removes the length-byte range starting at start. The range must
// land on grapheme boundaries at both ends (spec.md §4.3.2, §8.2).
func (b *Buffer) Delete(start, length int) error {
	const op = "buffer.Delete"
	if start < 0 || length < 0 || start+length > b.lengthBytes {
		return lleerr.New(lleerr.InvalidArgument, op, "range out of bounds")
	}
	if length == 0 {
		return nil
	}
	text := b.bytes[:b.lengthBytes]
	startOK, endOK := start == 0, start+length == len(text)
	at := 0
	for _, cluster := range graphemeClusters(string(text)) {
		at += len(cluster)
		startOK = startOK || at == start
		endOK = endOK || at == start+length
	}
	if !startOK || !endOK {
		return lleerr.New(lleerr.InvalidArgument, op, "range is not on grapheme boundaries")
	}

	savedCursor := b.cursor
	saved := make([]byte, length)
	copy(saved, text[start:start+length])

	copy(b.bytes[start:], b.bytes[start+length:b.lengthBytes])
	b.lengthBytes -= length
	b.bytes = b.bytes[:b.lengthBytes]

	b.changes.push(ChangeOp{
		Kind:        OpDelete,
		BytePos:     start,
		Before:      saved,
		SavedCursor: savedCursor,
	})

	b.afterMutate(start, 0, length)
	b.multiline.Reparse(b.Bytes())
	b.adjustForDelete(start, length)
	return nil
}

// Replace deletes length bytes at pos and inserts text in their place, as
// a single undoable change (spec.md §4.3.2).
func (b *Buffer) Replace(pos, length int, text string) error {
	const op = "buffer.Replace"
	if pos < 0 || length < 0 || pos+length > b.lengthBytes {
		return lleerr.New(lleerr.InvalidArgument, op, "range out of bounds")
	}
	if !utf8.ValidString(text) {
		return lleerr.New(lleerr.UTF8Error, op, "replacement text is not valid UTF-8")
	}
	buf := b.bytes[:b.lengthBytes]
	if length > 0 && (!isBoundary(buf, pos) || !isBoundary(buf, pos+length)) {
		return lleerr.New(lleerr.InvalidArgument, op, "range is not on UTF-8 boundaries")
	}

	savedCursor := b.cursor
	saved := make([]byte, length)
	copy(saved, buf[pos:pos+length])

	tail := make([]byte, b.lengthBytes-(pos+length))
	copy(tail, buf[pos+length:b.lengthBytes])

	b.growIfNeeded(len(text) - length)
	b.lengthBytes = pos + len(text) + len(tail)
	if cap(b.bytes) < b.lengthBytes {
		b.growIfNeeded(b.lengthBytes - cap(b.bytes))
	}
	b.bytes = b.bytes[:b.lengthBytes]
	copy(b.bytes[pos:], text)
	copy(b.bytes[pos+len(text):], tail)

	b.changes.push(ChangeOp{
		Kind:        OpReplace,
		BytePos:     pos,
		Before:      saved,
		After:       []byte(text),
		SavedCursor: savedCursor,
	})

	b.afterMutate(pos, len(text), length)
	b.multiline.Reparse(b.Bytes())
	if length > 0 {
		b.adjustForDelete(pos, length)
	}
	if len(text) > 0 {
		b.adjustForInsert(pos, len(text))
	}
	return nil
}

// afterMutate rebuilds the line table and marks caches stale. It is the
// one seam every mutating operation funnels through.
func (b *Buffer) afterMutate(pos, inserted, deleted int) {
	b.utf8IndexStale = true
	b.checksumStale = true
	b.modCounter++
	b.rebuildLines()
	b.ensureIndex()
}

// isBoundary reports whether pos lands on a UTF-8 lead byte (or at the
// very start/end of buf).
func isBoundary(buf []byte, pos int) bool {
	if pos == 0 || pos == len(buf) {
		return true
	}
	if pos < 0 || pos > len(buf) {
		return false
	}
	b := buf[pos]
	return b < 0x80 || b >= 0xC0
}

// ensureIndex rebuilds the UTF-8 codepoint index and grapheme/codepoint
// counts in a single pass if marked stale (spec.md §4.3.1: "rebuilt
// lazily... next query rebuilds it in a single pass").
func (b *Buffer) ensureIndex() {
	if !b.utf8IndexStale {
		return
	}
	text := b.bytes[:b.lengthBytes]
	idx := make([]int, 0, b.lengthBytes)
	codepoints := 0
	for i := 0; i < len(text); {
		idx = append(idx, i)
		_, size := utf8.DecodeRune(text[i:])
		if size == 0 {
			size = 1
		}
		i += size
		codepoints++
	}
	b.utf8Index = idx
	b.lengthCodepoints = codepoints
	b.lengthGraphemes = len(graphemeClusters(string(text)))
	b.utf8IndexStale = false
}

// Checksum recomputes (if stale) and returns an integrity hash over the
// buffer contents, for use by Validate.
func (b *Buffer) Checksum() uint32 {
	if b.checksumStale {
		b.checksum = fnv32(b.bytes[:b.lengthBytes])
		b.checksumStale = false
	}
	return b.checksum
}

func fnv32(data []byte) uint32 {
	const (
		offset32 = 2166136261
		prime32  = 16777619
	)
	h := uint32(offset32)
	for _, c := range data {
		h ^= uint32(c)
		h *= prime32
	}
	return h
}
