package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuffer_InsertAppendsAndTracksLength(t *testing.T) {
	b := New()
	require.NoError(t, b.Insert(0, "hello"))

	bytesLen, codepoints, graphemes := b.Len()
	assert.Equal(t, 5, bytesLen)
	assert.Equal(t, 5, codepoints)
	assert.Equal(t, 5, graphemes)
	assert.Equal(t, "hello", b.String())
}

func TestBuffer_InsertMidBuffer(t *testing.T) {
	b := New()
	require.NoError(t, b.Insert(0, "helo"))
	require.NoError(t, b.Insert(3, "l"))
	assert.Equal(t, "hello", b.String())
}

func TestBuffer_InsertRejectsNonBoundaryPosition(t *testing.T) {
	b := New()
	require.NoError(t, b.Insert(0, "héllo")) // 'é' is two bytes

	err := b.Insert(2, "x") // lands inside the 'é' encoding
	assert.Error(t, err)
}

func TestBuffer_InsertRejectsInvalidUTF8(t *testing.T) {
	b := New()
	err := b.Insert(0, string([]byte{0xff, 0xfe}))
	assert.Error(t, err)
}

func TestBuffer_DeleteRemovesRange(t *testing.T) {
	b := New()
	require.NoError(t, b.Insert(0, "hello world"))
	require.NoError(t, b.Delete(5, 6))
	assert.Equal(t, "hello", b.String())
}

func TestBuffer_DeleteRejectsOutOfBoundaryRange(t *testing.T) {
	b := New()
	require.NoError(t, b.Insert(0, "héllo"))
	err := b.Delete(0, 2) // would split the 'é' in the middle
	assert.Error(t, err)
}

func TestBuffer_ReplaceSwapsRangeAtomically(t *testing.T) {
	b := New()
	require.NoError(t, b.Insert(0, "hello world"))
	require.NoError(t, b.Replace(6, 5, "there"))
	assert.Equal(t, "hello there", b.String())
}

func TestBuffer_ModCounterIncreasesOnEveryMutation(t *testing.T) {
	b := New()
	start := b.ModCounter()
	require.NoError(t, b.Insert(0, "a"))
	require.NoError(t, b.Insert(1, "b"))
	require.NoError(t, b.Delete(0, 1))
	assert.Equal(t, start+3, b.ModCounter())
}

func TestBuffer_ResetClearsEverything(t *testing.T) {
	b := New()
	require.NoError(t, b.Insert(0, "hello"))
	require.NoError(t, b.MoveTo(3))
	b.Reset()

	bytesLen, _, _ := b.Len()
	assert.Equal(t, 0, bytesLen)
	assert.Equal(t, "", b.String())
	assert.False(t, b.CanUndo())
	assert.Equal(t, uint64(0), b.ModCounter())
}

func TestBuffer_ValidatePassesOnWellFormedBuffer(t *testing.T) {
	b := New()
	require.NoError(t, b.Insert(0, "hello 世界"))
	require.NoError(t, b.MoveTo(len("hello 世界")))
	assert.NoError(t, b.Validate())
}
