package display

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berrym/lle/buffer"
	"github.com/berrym/lle/collab"
	"github.com/berrym/lle/pool"
)

type stubHighlighter struct {
	spans []collab.StyleSpan
	err   error
}

func (s stubHighlighter) Highlight(buf []byte) ([]collab.StyleSpan, error) {
	return s.spans, s.err
}

func TestFormatStage_AppendsMandatoryNullTerminator(t *testing.T) {
	out := formatStage(pool.NewArena(64), []byte("echo hi"), nil)
	require.Len(t, out, len("echo hi")+1)
	assert.Equal(t, byte(0), out[len(out)-1])
	assert.Equal(t, "echo hi", string(out[:len(out)-1]))
}

func TestFormatStage_ShorteningEditStillTerminatesAtNewLength(t *testing.T) {
	alloc := pool.NewArena(64)
	long := formatStage(alloc, []byte("echo hello world"), nil)
	short := formatStage(alloc, []byte("echo hi"), nil)
	assert.Equal(t, byte(0), short[len(short)-1])
	assert.Less(t, len(short), len(long))
}

func TestSyntaxStage_NilHighlighterIsNotAnError(t *testing.T) {
	spans, err := syntaxStage(nil, []byte("ls"))
	require.NoError(t, err)
	assert.Nil(t, spans)
}

func TestSyntaxStage_PropagatesHighlighterError(t *testing.T) {
	h := stubHighlighter{err: assert.AnError}
	_, err := syntaxStage(h, []byte("ls"))
	assert.ErrorIs(t, err, assert.AnError)
}

func TestComposeStage_AddsPromptMetricsToCursorCoordinates(t *testing.T) {
	b := buffer.New()
	require.NoError(t, b.Insert(0, "echo hi"))
	require.NoError(t, b.MoveTo(4))

	metrics := collab.PromptMetrics{CommandStartCol: 8, LastLine: 2}
	out := composeStage([]byte("echo hi\x00"), b.Cursor(), metrics)

	assert.Equal(t, 2+b.Cursor().LineNumber, out.CursorRow)
	assert.Equal(t, 8+b.Cursor().VisualColumn, out.CursorCol)
}

func TestFallbackRender_PlacesCursorAtEndOfBuffer(t *testing.T) {
	b := buffer.New()
	require.NoError(t, b.Insert(0, "hello"))

	out := fallbackRender(pool.NewArena(64), b)
	assert.True(t, out.Fallback)
	assert.Equal(t, byte(0), out.Content[len(out.Content)-1])
	assert.Equal(t, 5, out.CursorCol)
}

func TestPreprocess_HashesChangeWithContent(t *testing.T) {
	a := buffer.New()
	require.NoError(t, a.Insert(0, "abc"))
	b := buffer.New()
	require.NoError(t, b.Insert(0, "xyz"))

	pa := preprocess(a)
	pb := preprocess(b)
	assert.NotEqual(t, pa.bufferHash, pb.bufferHash)
}

func TestPreprocess_SameContentSameHash(t *testing.T) {
	a := buffer.New()
	require.NoError(t, a.Insert(0, "abc"))
	b := buffer.New()
	require.NoError(t, b.Insert(0, "abc"))

	assert.Equal(t, preprocess(a).bufferHash, preprocess(b).bufferHash)
}
