package input

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feedString(p *Parser, s string) []InputEvent {
	now := time.Unix(1700000000, 0)
	return p.Feed([]byte(s), now)
}

func TestParser_PlainASCIICharacter(t *testing.T) {
	p := NewParser()
	evs := feedString(p, "a")
	require.Len(t, evs, 1)
	assert.Equal(t, EventCharacter, evs[0].Kind)
	assert.Equal(t, 'a', evs[0].Rune)
}

func TestParser_CtrlLetterSurfacesAsCharacter(t *testing.T) {
	p := NewParser()
	evs := feedString(p, "\x01") // Ctrl-A
	require.Len(t, evs, 1)
	assert.Equal(t, EventCharacter, evs[0].Kind)
	assert.Equal(t, rune(1), evs[0].Rune)
	assert.True(t, evs[0].Mods.Ctrl)
}

func TestParser_EnterAndBackspace(t *testing.T) {
	p := NewParser()
	evs := feedString(p, "\r\x7f")
	require.Len(t, evs, 2)
	assert.Equal(t, KeyEnter, evs[0].Key)
	assert.Equal(t, KeyBackspace, evs[1].Key)
}

func TestParser_ArrowKeys(t *testing.T) {
	cases := map[string]Key{
		"\x1b[A": KeyUp,
		"\x1b[B": KeyDown,
		"\x1b[C": KeyRight,
		"\x1b[D": KeyLeft,
	}
	for seq, want := range cases {
		p := NewParser()
		evs := feedString(p, seq)
		require.Len(t, evs, 1, "sequence %q", seq)
		assert.Equal(t, EventSpecialKey, evs[0].Kind)
		assert.Equal(t, want, evs[0].Key)
	}
}

func TestParser_EditingKeysAcceptsBothEncodings(t *testing.T) {
	cases := map[string]Key{
		"\x1b[H":  KeyHome,
		"\x1b[1~": KeyHome,
		"\x1b[F":  KeyEnd,
		"\x1b[4~": KeyEnd,
		"\x1b[3~": KeyDelete,
		"\x1b[2~": KeyInsert,
		"\x1b[5~": KeyPgUp,
		"\x1b[6~": KeyPgDown,
	}
	for seq, want := range cases {
		p := NewParser()
		evs := feedString(p, seq)
		require.Len(t, evs, 1, "sequence %q", seq)
		assert.Equal(t, want, evs[0].Key)
	}
}

func TestParser_FunctionKeysSS3AndTilde(t *testing.T) {
	cases := map[string]Key{
		"\x1bOP":   KeyF1,
		"\x1bOQ":   KeyF2,
		"\x1b[15~": KeyF5,
		"\x1b[24~": KeyF12,
	}
	for seq, want := range cases {
		p := NewParser()
		evs := feedString(p, seq)
		require.Len(t, evs, 1, "sequence %q", seq)
		assert.Equal(t, want, evs[0].Key)
	}
}

func TestParser_BareEscFlushesOnTimeout(t *testing.T) {
	p := NewParser()
	evs := feedString(p, "\x1b")
	assert.Empty(t, evs) // still waiting inside Escape state

	later := time.Unix(1700000000, 0).Add(100 * time.Millisecond)
	evs = p.Tick(later)
	require.Len(t, evs, 1)
	assert.Equal(t, KeyEsc, evs[0].Key)
}

func TestParser_UTF8MultibyteCharacter(t *testing.T) {
	p := NewParser()
	evs := feedString(p, "世")
	require.Len(t, evs, 1)
	assert.Equal(t, EventCharacter, evs[0].Kind)
	assert.Equal(t, '世', evs[0].Rune)
}

func TestParser_InvalidUTF8ContinuationIsDropped(t *testing.T) {
	p := NewParser()
	evs := feedString(p, string([]byte{0xE4, 0x20})) // lead byte then non-continuation
	assert.Empty(t, evs)
	assert.Equal(t, uint64(1), p.InvalidSequenceCount())
}

func TestParser_BracketedPasteAccumulatesUntilEndMarker(t *testing.T) {
	p := NewParser()
	evs := feedString(p, "\x1b[200~hello world\x1b[201~")
	require.Len(t, evs, 1)
	assert.Equal(t, EventPaste, evs[0].Kind)
	assert.Equal(t, "hello world", evs[0].Paste)
}

func TestParser_SGRMousePress(t *testing.T) {
	p := NewParser()
	evs := feedString(p, "\x1b[<0;10;5M")
	require.Len(t, evs, 1)
	assert.Equal(t, EventMouse, evs[0].Kind)
	assert.Equal(t, MousePress, evs[0].Mouse.Action)
	assert.Equal(t, MouseButtonLeft, evs[0].Mouse.Button)
	assert.Equal(t, 9, evs[0].Mouse.Column)
	assert.Equal(t, 4, evs[0].Mouse.Row)
}

func TestParser_SGRMouseRelease(t *testing.T) {
	p := NewParser()
	evs := feedString(p, "\x1b[<0;10;5m")
	require.Len(t, evs, 1)
	assert.Equal(t, MouseRelease, evs[0].Mouse.Action)
}

func TestParser_SGRMouseWheel(t *testing.T) {
	p := NewParser()
	evs := feedString(p, "\x1b[<64;3;3M")
	require.Len(t, evs, 1)
	assert.Equal(t, MouseWheelUp, evs[0].Mouse.Action)
}

func TestParser_X10MousePress(t *testing.T) {
	p := NewParser()
	evs := feedString(p, string([]byte{0x1b, '[', 'M', 32, 32 + 11, 32 + 6}))
	require.Len(t, evs, 1)
	assert.Equal(t, EventMouse, evs[0].Kind)
	assert.Equal(t, MouseButtonLeft, evs[0].Mouse.Button)
	assert.Equal(t, 10, evs[0].Mouse.Column)
	assert.Equal(t, 5, evs[0].Mouse.Row)
}

func TestParser_MetaLetterSurfacesAsAltCharacter(t *testing.T) {
	p := NewParser()
	evs := feedString(p, "\x1bf")
	require.Len(t, evs, 1)
	assert.Equal(t, EventCharacter, evs[0].Kind)
	assert.Equal(t, 'f', evs[0].Rune)
	assert.True(t, evs[0].Mods.Alt)
}
