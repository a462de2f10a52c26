package display

import (
	"hash/fnv"

	"github.com/berrym/lle/buffer"
	"github.com/berrym/lle/collab"
)

// RenderOutput is what one pipeline run (or a cache hit) produces: the
// serialized command-layer content plus where the terminal cursor
// belongs once that content is submitted.
type RenderOutput struct {
	Content    []byte // null-terminated at the logical end (spec.md §4.5.4)
	CursorRow  int
	CursorCol  int
	FromCache  bool
	Fallback   bool
}

// preprocessResult is stage 1's output: everything later stages need
// about the buffer/cursor without re-deriving it.
type preprocessResult struct {
	bufferHash uint64
	cursorHash uint64
	text       []byte
	cursor     buffer.Cursor
}

func preprocess(b *buffer.Buffer) preprocessResult {
	text := b.Bytes()
	return preprocessResult{
		bufferHash: fnvHash(text),
		cursorHash: hashCursor(b.Cursor()),
		text:       text,
		cursor:     b.Cursor(),
	}
}

// syntaxStage requests color/attribute spans for the visible region
// when a highlighter is attached; a nil highlighter is not an error.
func syntaxStage(highlighter collab.SyntaxHighlighter, text []byte) ([]collab.StyleSpan, error) {
	if highlighter == nil {
		return nil, nil
	}
	return highlighter.Highlight(text)
}

// formatStage serializes buffer bytes into the display controller's
// command-layer representation. spans are currently carried alongside
// the content rather than interleaved into it; the concrete
// DisplayController decides how to apply them.
//
// The trailing NUL is mandatory (spec.md §4.5.4): the downstream
// command layer diffs old vs new content byte-wise up to the
// terminator, and a missing terminator after a shortening edit leaves
// stale bytes being compared, producing the "N backspaces to delete N
// chars" bug class.
//
// out is drawn from alloc rather than made fresh: this runs on every
// keystroke's refresh and the result is handed to the cache, which
// holds it for the rest of the session or until evicted — exactly the
// session-scoped lifetime collab.Allocator models (spec.md §6.3).
func formatStage(alloc collab.Allocator, text []byte, _ []collab.StyleSpan) []byte {
	out := alloc.Alloc(len(text) + 1)
	copy(out, text)
	out[len(text)] = 0
	return out
}

// composeStage computes the terminal cursor position from the cursor's
// visual coordinates and the prompt's reported metrics (spec.md
// §4.5.5).
func composeStage(content []byte, cur buffer.Cursor, metrics collab.PromptMetrics) RenderOutput {
	return RenderOutput{
		Content:   content,
		CursorRow: metrics.LastLine + cur.LineNumber,
		CursorCol: metrics.CommandStartCol + cur.VisualColumn,
	}
}

// fallbackRender produces the minimal valid output a stage error falls
// back to: raw buffer bytes, cursor at the end of the command (spec.md
// §4.5.1 "A stage error invokes a fallback renderer").
func fallbackRender(alloc collab.Allocator, b *buffer.Buffer) RenderOutput {
	text := b.Bytes()
	out := alloc.Alloc(len(text) + 1)
	copy(out, text)
	out[len(text)] = 0
	_, codepoints, _ := b.Len()
	return RenderOutput{
		Content:   out,
		CursorRow: 0,
		CursorCol: codepoints,
		Fallback:  true,
	}
}

func fnvHash(b []byte) uint64 {
	h := fnv.New64a()
	h.Write(b)
	return h.Sum64()
}

func hashCursor(c buffer.Cursor) uint64 {
	h := fnv.New64a()
	var buf [4 * 8]byte
	putInt(buf[0:8], c.ByteOffset)
	putInt(buf[8:16], c.CodepointIndex)
	putInt(buf[16:24], c.LineNumber)
	putInt(buf[24:32], c.VisualColumn)
	h.Write(buf[:])
	return h.Sum64()
}

func putInt(dst []byte, v int) {
	u := uint64(v)
	for i := 0; i < 8; i++ {
		dst[i] = byte(u >> (8 * i))
	}
}
