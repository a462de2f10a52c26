package buffer

import "github.com/berrym/lle/lleerr"

// Cursor carries the five coordinates spec.md §3.1 requires to always
// describe the same position, plus a sticky preferred column for
// vertical movement.
type Cursor struct {
	ByteOffset      int
	CodepointIndex  int
	GraphemeIndex   int
	LineNumber      int
	VisualColumn    int
	PreferredColumn int
	valid           bool
}

// Valid reports whether the cursor's coordinates are known to be
// mutually consistent (spec.md §3.1).
func (c Cursor) Valid() bool { return c.valid }

// MoveTo derives every coordinate from a validated byte offset (spec.md
// §4.3.3). Rejects offsets that do not fall on a UTF-8 lead byte.
func (b *Buffer) MoveTo(byteOffset int) error {
	const op = "buffer.MoveTo"
	if byteOffset < 0 || byteOffset > b.lengthBytes {
		return lleerr.New(lleerr.InvalidArgument, op, "offset out of range")
	}
	text := b.bytes[:b.lengthBytes]
	if !isBoundary(text, byteOffset) {
		return lleerr.New(lleerr.InvalidArgument, op, "offset is not a UTF-8 boundary")
	}

	b.ensureIndex()
	lineIdx := b.LineAt(byteOffset)
	line := b.lines[lineIdx]

	codepointIdx := indexOf(b.utf8Index, byteOffset)
	graphemeIdx := graphemeIndexWithin(text[line.StartByte:byteOffset])
	visualCol := stringWidth(string(text[line.StartByte:byteOffset]), 0)

	b.cursor = Cursor{
		ByteOffset:      byteOffset,
		CodepointIndex:  codepointIdx,
		GraphemeIndex:   graphemeIdx,
		LineNumber:      lineIdx,
		VisualColumn:    visualCol,
		PreferredColumn: visualCol,
		valid:           true,
	}
	return nil
}

func indexOf(idx []int, offset int) int {
	lo, hi := 0, len(idx)
	for lo < hi {
		mid := (lo + hi) / 2
		if idx[mid] < offset {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

func graphemeIndexWithin(seg []byte) int {
	return len(graphemeClusters(string(seg)))
}

// MoveByGraphemes steps the cursor n grapheme clusters forward (n > 0) or
// backward (n < 0), clamping at the buffer ends rather than wrapping or
// erroring (spec.md §8.2).
func (b *Buffer) MoveByGraphemes(n int) error {
	if n == 0 {
		return nil
	}
	text := string(b.Bytes())
	clusters := graphemeClusters(text)

	// Map current byte offset to a grapheme boundary list.
	bounds := make([]int, 0, len(clusters)+1)
	pos := 0
	bounds = append(bounds, 0)
	for _, c := range clusters {
		pos += len(c)
		bounds = append(bounds, pos)
	}

	cur := 0
	for i, bo := range bounds {
		if bo >= b.cursor.ByteOffset {
			cur = i
			break
		}
		cur = i
	}

	target := cur + n
	if target < 0 {
		target = 0
	}
	if target >= len(bounds) {
		target = len(bounds) - 1
	}
	return b.MoveTo(bounds[target])
}

// adjustForInsert shifts the cursor by len when an insertion happened at
// or before its current position (spec.md §4.3.3).
func (b *Buffer) adjustForInsert(pos, length int) {
	if pos <= b.cursor.ByteOffset {
		_ = b.MoveTo(b.cursor.ByteOffset + length)
	}
}

// adjustForDelete shifts or clamps the cursor when a deletion happened
// at, before, or around its current position (spec.md §4.3.3).
func (b *Buffer) adjustForDelete(start, length int) {
	end := start + length
	switch {
	case b.cursor.ByteOffset >= end:
		_ = b.MoveTo(b.cursor.ByteOffset - length)
	case b.cursor.ByteOffset > start:
		_ = b.MoveTo(start)
	default:
		// cursor lay entirely before the deleted range: unaffected, but
		// the line table shifted under it, so re-derive coordinates.
		_ = b.MoveTo(b.cursor.ByteOffset)
	}
}

// MoveVertical moves the cursor up (n < 0) or down (n > 0) n lines,
// re-targeting the buffer's sticky PreferredColumn rather than the
// cursor's current VisualColumn (spec.md §3.1).
func (b *Buffer) MoveVertical(n int) error {
	if n == 0 {
		return nil
	}
	target := b.cursor.LineNumber + n
	if target < 0 {
		target = 0
	}
	if target >= len(b.lines) {
		target = len(b.lines) - 1
	}
	line := b.lines[target]
	col := b.cursor.PreferredColumn

	text := b.bytes[line.StartByte:line.EndByte]
	offset := line.StartByte
	curCol := 0
	for i := 0; i < len(text); {
		if curCol >= col {
			break
		}
		_, size := decodeRuneSize(text[i:])
		if size == 0 {
			size = 1
		}
		curCol += runeWidthAt(text, i, curCol)
		i += size
		offset = line.StartByte + i
	}
	if offset > line.EndByte {
		offset = line.EndByte
	}

	preferred := b.cursor.PreferredColumn
	if err := b.MoveTo(offset); err != nil {
		return err
	}
	b.cursor.PreferredColumn = preferred
	return nil
}

// isWordByte classifies a byte as part of a "word" for Ctrl/Meta word
// motions: alphanumerics and underscore, matching shell identifier
// characters rather than Unicode word-break rules (spec.md §4.6
// "Ctrl-Left/Right by word").
func isWordByte(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

// MoveByWord moves the cursor to the start of the next word (n > 0) or
// the start of the previous word (n < 0), one word per unit of n. Moving
// forward skips the rest of the current word and then the non-word run
// after it; moving backward skips non-word bytes and then the word
// before them.
func (b *Buffer) MoveByWord(n int) error {
	if n == 0 {
		return nil
	}
	text := b.Bytes()
	pos := b.cursor.ByteOffset
	for ; n > 0; n-- {
		pos = wordForward(text, pos)
	}
	for ; n < 0; n++ {
		pos = wordBackward(text, pos)
	}
	return b.MoveTo(pos)
}

func wordForward(text []byte, pos int) int {
	n := len(text)
	for pos < n && isWordByte(text[pos]) {
		pos++
	}
	for pos < n && !isWordByte(text[pos]) {
		pos++
	}
	return pos
}

func wordBackward(text []byte, pos int) int {
	for pos > 0 && !isWordByte(text[pos-1]) {
		pos--
	}
	for pos > 0 && isWordByte(text[pos-1]) {
		pos--
	}
	return pos
}

// WordEndForward returns the byte offset one past the end of the next
// word from pos, without moving the cursor — used by kill-word actions
// that need the deletion's end boundary (spec.md §4.6 "Meta-d kill next
// word").
func WordEndForward(text []byte, pos int) int {
	n := len(text)
	for pos < n && !isWordByte(text[pos]) {
		pos++
	}
	for pos < n && isWordByte(text[pos]) {
		pos++
	}
	return pos
}

// WordStartBackward returns the byte offset of the start of the word
// immediately before pos, without moving the cursor — used by Ctrl-W
// (kill previous word).
func WordStartBackward(text []byte, pos int) int {
	return wordBackward(text, pos)
}
