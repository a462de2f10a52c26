package buffer

// LineType classifies a line's role in the shell-aware multiline view
// (spec.md §3.1 Line record).
type LineType int

const (
	LineCommand LineType = iota
	LineContinuation
	LineOpenQuote
	LineHeredoc
	LineOpenSubshellOrBrace
)

// Line is one entry in a Buffer's line table (spec.md §3.1).
type Line struct {
	StartByte      int
	EndByte        int
	ByteLength     int
	CodepointCount int
	GraphemeCount  int
	VisualWidth    int
	Type           LineType
	MultilineState MultilineState
	IndentLevel    int
}

// rebuildLines recomputes the full line table from scratch.
//
// spec.md §4.3.1 allows incremental rebuild of only the affected range;
// this engine always rebuilds the whole table on mutation. Readline
// buffers are small enough (interactive command lines, not files) that a
// full rebuild costs the same order of work as locating the affected
// range would, and it keeps the table trivially correct after every
// insert/delete/replace.
func (b *Buffer) rebuildLines() {
	text := b.bytes[:b.lengthBytes]
	var lines []Line
	start := 0
	col := 0
	indent := 0
	countingIndent := true

	// Each line's Type/MultilineState reflects the multiline context as
	// of that line's own end, not the final state after the whole
	// buffer — so re-feed the prefix up to end rather than reuse
	// b.multiline, which only holds the state after the last line.
	// Re-walking a prefix per line is the same "buffers are small, a
	// full rescan costs nothing observable" tradeoff Feed itself makes
	// on every mutation.
	flush := func(end int) {
		seg := text[start:end]
		var lineCtx MultilineContext
		lineCtx.Feed(text[:end])
		lines = append(lines, Line{
			StartByte:      start,
			EndByte:        end,
			ByteLength:     end - start,
			CodepointCount: codepointCount(seg),
			GraphemeCount:  len(graphemeClusters(string(seg))),
			VisualWidth:    col,
			Type:           classifyLine(seg, &lineCtx),
			MultilineState: lineCtx.State,
			IndentLevel:    indent,
		})
	}

	for i := 0; i < len(text); i++ {
		c := text[i]
		if countingIndent {
			if c == ' ' || c == '\t' {
				indent++
				continue
			}
			countingIndent = false
		}
		if c == '\n' {
			flush(i)
			start = i + 1
			col = 0
			indent = 0
			countingIndent = true
			continue
		}
		col += runeWidthAt(text, i, col)
	}
	flush(len(text))

	b.lines = lines
}

func codepointCount(b []byte) int {
	n := 0
	for i := 0; i < len(b); {
		_, size := decodeRuneSize(b[i:])
		i += size
		n++
	}
	return n
}

// runeWidthAt is a cheap per-byte width contribution used while scanning
// a line for its visual width; multi-byte runes only contribute on their
// lead byte, continuation bytes contribute zero.
func runeWidthAt(b []byte, i, col int) int {
	c := b[i]
	if c < 0x80 {
		if c == '\t' {
			next := ((col + 8) / 8) * 8
			return next - col
		}
		return 1
	}
	if c >= 0xC0 {
		// Lead byte of a multi-byte rune: charge this rune's width here,
		// continuation bytes below contribute 0 so the running total
		// stays correct without re-scanning.
		end := i + 1
		for end < len(b) && b[end] >= 0x80 && b[end] < 0xC0 {
			end++
		}
		return stringWidthFast(string(b[i:end]))
	}
	return 0 // continuation byte, already counted at its lead byte
}

func decodeRuneSize(b []byte) (rune, int) {
	if len(b) == 0 {
		return 0, 0
	}
	c := b[0]
	switch {
	case c < 0x80:
		return rune(c), 1
	case c < 0xE0:
		return 0, 2
	case c < 0xF0:
		return 0, 3
	default:
		return 0, 4
	}
}

// classifyLine derives a Line's LineType from the multiline context as
// of the end of that line.
func classifyLine(seg []byte, ctx *MultilineContext) LineType {
	switch ctx.State {
	case StateHeredoc:
		return LineHeredoc
	case StateSingleQuote, StateDoubleQuote:
		return LineOpenQuote
	case StateSubshell, StateBrace:
		return LineOpenSubshellOrBrace
	}
	if ctx.NestingLevel > 0 {
		return LineOpenSubshellOrBrace
	}
	if len(seg) > 0 && seg[len(seg)-1] == '\\' {
		return LineContinuation
	}
	return LineCommand
}

// LineAt returns the index of the line containing byte offset pos via
// binary search over the line table (spec.md §4.3.3).
func (b *Buffer) LineAt(pos int) int {
	lines := b.lines
	lo, hi := 0, len(lines)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if lines[mid].StartByte <= pos {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	if lo < 0 {
		return 0
	}
	return lo
}
