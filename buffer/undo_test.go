package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUndo_InsertThenUndoRestoresPriorText(t *testing.T) {
	b := New()
	require.NoError(t, b.Insert(0, "hello"))
	require.NoError(t, b.Insert(5, " world"))

	require.True(t, b.CanUndo())
	require.NoError(t, b.Undo())
	assert.Equal(t, "hello", b.String())
}

func TestUndo_DeleteThenUndoRestoresDeletedBytes(t *testing.T) {
	b := New()
	require.NoError(t, b.Insert(0, "hello world"))
	require.NoError(t, b.Delete(5, 6))
	require.Equal(t, "hello", b.String())

	require.NoError(t, b.Undo())
	assert.Equal(t, "hello world", b.String())
}

func TestUndo_ReplaceThenUndoRestoresOriginal(t *testing.T) {
	b := New()
	require.NoError(t, b.Insert(0, "hello world"))
	require.NoError(t, b.Replace(6, 5, "there"))
	require.Equal(t, "hello there", b.String())

	require.NoError(t, b.Undo())
	assert.Equal(t, "hello world", b.String())
}

func TestUndo_UndoThenRedoIsIdentity(t *testing.T) {
	b := New()
	require.NoError(t, b.Insert(0, "hello"))
	require.NoError(t, b.Insert(5, " world"))
	require.NoError(t, b.Delete(0, 1))

	before := b.String()
	beforeCounter := b.ModCounter()

	require.NoError(t, b.Undo())
	require.NoError(t, b.Undo())
	require.NoError(t, b.Redo())
	require.NoError(t, b.Redo())

	assert.Equal(t, before, b.String())
	assert.Equal(t, beforeCounter, b.ModCounter())
}

func TestUndo_NewMutationClearsRedoStack(t *testing.T) {
	b := New()
	require.NoError(t, b.Insert(0, "hello"))
	require.NoError(t, b.Insert(5, " world"))
	require.NoError(t, b.Undo())
	require.True(t, b.CanRedo())

	require.NoError(t, b.Insert(5, "!"))
	assert.False(t, b.CanRedo())
}

func TestUndo_EmptyStackReturnsError(t *testing.T) {
	b := New()
	assert.Error(t, b.Undo())
	assert.Error(t, b.Redo())
}

func TestUndo_RestoresCursorPosition(t *testing.T) {
	b := New()
	require.NoError(t, b.Insert(0, "hello"))
	require.NoError(t, b.MoveTo(2))
	savedOffset := b.Cursor().ByteOffset

	require.NoError(t, b.Insert(5, " world"))
	require.NoError(t, b.Undo())
	assert.Equal(t, savedOffset, b.Cursor().ByteOffset)
}

func TestUndo_StackBoundedAtMaxDepth(t *testing.T) {
	b := New()
	for i := 0; i < maxUndoDepth+10; i++ {
		require.NoError(t, b.Insert(b.lengthBytes, "a"))
	}
	assert.LessOrEqual(t, len(b.changes.undo), maxUndoDepth)
}
