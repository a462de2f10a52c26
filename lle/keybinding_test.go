package lle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berrym/lle/input"
)

func TestKeymap_CtrlWordLeftRightBound(t *testing.T) {
	km := NewKeymap()

	_, ok := km.lookupSpecial(input.KeyLeft, input.Modifiers{Ctrl: true})
	assert.True(t, ok)

	_, ok = km.lookupSpecial(input.KeyRight, input.Modifiers{Ctrl: true})
	assert.True(t, ok)

	_, ok = km.lookupSpecial(input.KeyLeft, input.Modifiers{})
	assert.True(t, ok, "plain Left should also be bound")
}

func TestKeymap_PlainCharacterIsNeverLookedUp(t *testing.T) {
	km := NewKeymap()
	_, ok := km.lookupChar('a', input.Modifiers{})
	assert.False(t, ok, "plain characters route through insert, not the keymap")
}

func TestKeymap_CtrlWBoundToKillWordBack(t *testing.T) {
	km := NewKeymap()
	a, ok := km.lookupChar(23, input.Modifiers{Ctrl: true})
	require.True(t, ok)

	e := newTestEditor(t, "echo hi")
	require.NoError(t, e.Buf.MoveTo(len(e.Buf.Bytes())))
	_, err := a(e)
	require.NoError(t, err)
	assert.Equal(t, "echo ", e.Buf.String())
}

func TestKeymap_MetaLettersBoundWithAltModifier(t *testing.T) {
	km := NewKeymap()
	_, ok := km.lookupChar('b', input.Modifiers{Alt: true})
	assert.True(t, ok)
	_, ok = km.lookupChar('f', input.Modifiers{Alt: true})
	assert.True(t, ok)
	_, ok = km.lookupChar('d', input.Modifiers{Alt: true})
	assert.True(t, ok)
}

func TestKeymap_BindOverridesDefault(t *testing.T) {
	km := NewKeymap()
	called := false
	km.Bind(specialBinding(input.KeyHome, input.Modifiers{}), func(e *Editor) (bool, error) {
		called = true
		return true, nil
	})
	a, ok := km.lookupSpecial(input.KeyHome, input.Modifiers{})
	require.True(t, ok)
	_, _ = a(newTestEditor(t, ""))
	assert.True(t, called)
}
