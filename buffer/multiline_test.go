package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMultiline_SimpleCommandIsComplete(t *testing.T) {
	var ctx MultilineContext
	ctx.Feed([]byte("echo hello"))
	assert.True(t, ctx.Complete())
}

func TestMultiline_OpenSingleQuoteIsIncomplete(t *testing.T) {
	var ctx MultilineContext
	ctx.Feed([]byte("echo 'hello"))
	assert.False(t, ctx.Complete())
	assert.Equal(t, StateSingleQuote, ctx.State)
}

func TestMultiline_ClosedQuoteIsComplete(t *testing.T) {
	var ctx MultilineContext
	ctx.Feed([]byte("echo 'hello'"))
	assert.True(t, ctx.Complete())
}

func TestMultiline_DoubleQuoteIgnoresSingleQuoteInside(t *testing.T) {
	var ctx MultilineContext
	ctx.Feed([]byte(`echo "it's fine"`))
	assert.True(t, ctx.Complete())
}

func TestMultiline_NestingCountsParensAndBraces(t *testing.T) {
	var ctx MultilineContext
	ctx.Feed([]byte("if true; then ("))
	assert.False(t, ctx.Complete())
	assert.Equal(t, 1, ctx.NestingLevel)

	ctx.Feed([]byte("if true; then ()"))
	assert.True(t, ctx.Complete())
}

func TestMultiline_HeredocWaitsForDelimiter(t *testing.T) {
	var ctx MultilineContext
	ctx.Feed([]byte("cat <<EOF\nsome text\n"))
	assert.False(t, ctx.Complete())
	assert.Equal(t, StateHeredoc, ctx.State)

	ctx.Feed([]byte("cat <<EOF\nsome text\nEOF\n"))
	assert.True(t, ctx.Complete())
}

func TestMultiline_HeredocStripTabsDelimiter(t *testing.T) {
	var ctx MultilineContext
	ctx.Feed([]byte("cat <<-EOF\n\t\tbody\n\tEOF\n"))
	assert.True(t, ctx.Complete())
}

func TestMultiline_TrailingBackslashContinuesLine(t *testing.T) {
	var ctx MultilineContext
	ctx.Feed([]byte("echo hello \\\nworld"))
	assert.True(t, ctx.Complete())
}

func TestMultiline_BackslashEscapesQuoteCharacter(t *testing.T) {
	var ctx MultilineContext
	ctx.Feed([]byte(`echo \'`))
	assert.True(t, ctx.Complete())
	assert.Equal(t, StateNormal, ctx.State)
}

// spec.md §8.3.4: each line ends with |, not complete -> continue.
func TestMultiline_TrailingPipeIsIncomplete(t *testing.T) {
	var ctx MultilineContext
	ctx.Feed([]byte("echo one two three |"))
	assert.False(t, ctx.Complete())
	assert.Equal(t, StateNormal, ctx.State)

	ctx.Feed([]byte("echo one two three | wc -l"))
	assert.True(t, ctx.Complete())
}

func TestMultiline_TrailingLogicalAndIsIncomplete(t *testing.T) {
	var ctx MultilineContext
	ctx.Feed([]byte("make build &&"))
	assert.False(t, ctx.Complete())

	ctx.Feed([]byte("make build && make test"))
	assert.True(t, ctx.Complete())
}

func TestMultiline_TrailingLogicalOrIsIncomplete(t *testing.T) {
	var ctx MultilineContext
	ctx.Feed([]byte("make build ||"))
	assert.False(t, ctx.Complete())

	ctx.Feed([]byte("make build || make fallback"))
	assert.True(t, ctx.Complete())
}

func TestMultiline_TrailingPipeSurvivesTrailingWhitespaceAndNewline(t *testing.T) {
	var ctx MultilineContext
	ctx.Feed([]byte("echo one |   \n"))
	assert.False(t, ctx.Complete())
}

func TestMultiline_PipeInsideQuotesIsLiteral(t *testing.T) {
	var ctx MultilineContext
	ctx.Feed([]byte(`echo "a | b"`))
	assert.True(t, ctx.Complete())
}
