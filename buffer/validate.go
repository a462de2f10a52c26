package buffer

import (
	"unicode/utf8"

	"github.com/berrym/lle/lleerr"
)

// Validate runs the on-demand integrity check described in spec.md
// §4.3.6. It never attempts automatic repair; a failure is always a
// typed error describing exactly which invariant broke.
func (b *Buffer) Validate() error {
	const op = "buffer.Validate"
	text := b.bytes[:b.lengthBytes]

	if !utf8.Valid(text) {
		return lleerr.New(lleerr.ValidationFailure, op, "buffer contents are not valid UTF-8")
	}

	if err := b.validateLineTable(text); err != nil {
		return lleerr.Wrap(lleerr.ValidationFailure, op, err)
	}

	if err := b.validateCursor(); err != nil {
		return lleerr.Wrap(lleerr.ValidationFailure, op, err)
	}

	if err := b.validateUTF8Index(text); err != nil {
		return lleerr.Wrap(lleerr.ValidationFailure, op, err)
	}

	want := b.checksum
	haveCached := !b.checksumStale
	b.checksumStale = true
	got := b.Checksum()
	if haveCached && got != want {
		return lleerr.New(lleerr.ValidationFailure, op, "checksum mismatch")
	}

	return nil
}

// validateLineTable confirms the line table partitions [0, length_bytes]
// with no gaps or overlap (spec.md §4.3.6).
func (b *Buffer) validateLineTable(text []byte) error {
	if len(b.lines) == 0 {
		return lleerr.New(lleerr.ValidationFailure, "buffer.validateLineTable", "line table is empty")
	}
	expect := 0
	for i, ln := range b.lines {
		if ln.StartByte != expect {
			return lleerr.New(lleerr.ValidationFailure, "buffer.validateLineTable", "gap or overlap in line table")
		}
		if ln.EndByte < ln.StartByte || ln.EndByte > len(text) {
			return lleerr.New(lleerr.ValidationFailure, "buffer.validateLineTable", "line bounds out of range")
		}
		if ln.ByteLength != ln.EndByte-ln.StartByte {
			return lleerr.New(lleerr.ValidationFailure, "buffer.validateLineTable", "ByteLength inconsistent with bounds")
		}
		isLast := i == len(b.lines)-1
		if !isLast && ln.EndByte >= len(text) {
			return lleerr.New(lleerr.ValidationFailure, "buffer.validateLineTable", "non-final line reaches buffer end")
		}
		expect = ln.EndByte
		if !isLast {
			expect++ // skip the newline separator
		}
	}
	if last := b.lines[len(b.lines)-1]; last.EndByte != len(text) {
		return lleerr.New(lleerr.ValidationFailure, "buffer.validateLineTable", "line table does not cover the buffer")
	}
	return nil
}

// validateCursor confirms the cursor's coordinates are mutually
// consistent with the current buffer contents (spec.md §4.3.6).
func (b *Buffer) validateCursor() error {
	const op = "buffer.validateCursor"
	if !b.cursor.valid {
		return lleerr.New(lleerr.ValidationFailure, op, "cursor is not marked valid")
	}
	if b.cursor.ByteOffset < 0 || b.cursor.ByteOffset > b.lengthBytes {
		return lleerr.New(lleerr.ValidationFailure, op, "cursor byte offset out of range")
	}
	if !isBoundary(b.bytes[:b.lengthBytes], b.cursor.ByteOffset) {
		return lleerr.New(lleerr.ValidationFailure, op, "cursor does not lie on a UTF-8 boundary")
	}
	if b.cursor.LineNumber < 0 || b.cursor.LineNumber >= len(b.lines) {
		return lleerr.New(lleerr.ValidationFailure, op, "cursor line number out of range")
	}
	line := b.lines[b.cursor.LineNumber]
	if b.cursor.ByteOffset < line.StartByte || b.cursor.ByteOffset > line.EndByte {
		return lleerr.New(lleerr.ValidationFailure, op, "cursor line number disagrees with byte offset")
	}
	b.ensureIndex()
	if b.cursor.CodepointIndex != indexOf(b.utf8Index, b.cursor.ByteOffset) {
		return lleerr.New(lleerr.ValidationFailure, op, "cursor codepoint index disagrees with byte offset")
	}
	prefix := b.bytes[line.StartByte:b.cursor.ByteOffset]
	if b.cursor.GraphemeIndex != graphemeIndexWithin(prefix) {
		return lleerr.New(lleerr.ValidationFailure, op, "cursor grapheme index disagrees with byte offset")
	}
	if b.cursor.VisualColumn != stringWidth(string(prefix), 0) {
		return lleerr.New(lleerr.ValidationFailure, op, "cursor visual column disagrees with byte offset")
	}
	return nil
}

// validateUTF8Index spot-checks that the UTF-8 index's entries land on
// lead bytes, sampling rather than walking the full index on every
// validation call (spec.md §4.3.6: "spot-sampled").
func (b *Buffer) validateUTF8Index(text []byte) error {
	const op = "buffer.validateUTF8Index"
	b.ensureIndex()
	if len(b.utf8Index) != b.lengthCodepoints {
		return lleerr.New(lleerr.ValidationFailure, op, "UTF-8 index length disagrees with codepoint count")
	}
	n := len(b.utf8Index)
	if n == 0 {
		return nil
	}
	step := n/16 + 1
	for i := 0; i < n; i += step {
		off := b.utf8Index[i]
		if off < 0 || off >= len(text) {
			return lleerr.New(lleerr.ValidationFailure, op, "UTF-8 index entry out of range")
		}
		if !isBoundary(text, off) {
			return lleerr.New(lleerr.ValidationFailure, op, "UTF-8 index entry is not a lead byte")
		}
	}
	return nil
}
