package lle

import "github.com/berrym/lle/input"

// bindingKey is the lookup key into the keybinding table: either a
// special key (with modifiers) or a printable character carrying
// Ctrl/Alt (spec.md §4.6 "Keybindings").
type bindingKey struct {
	special bool
	key     input.Key
	r       rune
	ctrl    bool
	alt     bool
}

func specialBinding(k input.Key, mods input.Modifiers) bindingKey {
	return bindingKey{special: true, key: k, ctrl: mods.Ctrl, alt: mods.Alt}
}

func charBinding(r rune, mods input.Modifiers) bindingKey {
	return bindingKey{r: r, ctrl: mods.Ctrl, alt: mods.Alt}
}

// Keymap is the fixed (key, modifiers) -> Action table the readline
// loop consults for every SpecialKey and non-insert Character event.
type Keymap struct {
	bindings map[bindingKey]Action
}

// NewKeymap builds the default binding table required by spec.md §4.6.
// Every entry here is a free function over *Editor, matching the
// "actions are free functions taking &editor" contract.
func NewKeymap() *Keymap {
	km := &Keymap{bindings: make(map[bindingKey]Action, 32)}

	km.Bind(specialBinding(input.KeyLeft, input.Modifiers{}), actionMoveLeft)
	km.Bind(specialBinding(input.KeyRight, input.Modifiers{}), actionMoveRight)
	km.Bind(specialBinding(input.KeyLeft, input.Modifiers{Ctrl: true}), actionMoveWordLeft)
	km.Bind(specialBinding(input.KeyRight, input.Modifiers{Ctrl: true}), actionMoveWordRight)
	km.Bind(specialBinding(input.KeyHome, input.Modifiers{}), actionMoveHome)
	km.Bind(specialBinding(input.KeyEnd, input.Modifiers{}), actionMoveEnd)
	km.Bind(specialBinding(input.KeyBackspace, input.Modifiers{}), actionBackspace)
	km.Bind(specialBinding(input.KeyDelete, input.Modifiers{}), actionDeleteForward)

	// Ctrl-letters: the parser surfaces these as EventCharacter with
	// Mods.Ctrl set and Rune equal to the control code (spec.md §4.2
	// "Control-character convention").
	km.Bind(charBinding(1, input.Modifiers{Ctrl: true}), actionMoveHome)    // Ctrl-A
	km.Bind(charBinding(5, input.Modifiers{Ctrl: true}), actionMoveEnd)     // Ctrl-E
	km.Bind(charBinding(23, input.Modifiers{Ctrl: true}), actionKillWordBack) // Ctrl-W
	km.Bind(charBinding(11, input.Modifiers{Ctrl: true}), actionKillToEOL)  // Ctrl-K
	km.Bind(charBinding(21, input.Modifiers{Ctrl: true}), actionKillToBOL)  // Ctrl-U
	km.Bind(charBinding(25, input.Modifiers{Ctrl: true}), actionYank)       // Ctrl-Y
	// Ctrl-_ and Ctrl-/ both encode to ASCII 0x1F; the parser does not
	// set Ctrl for this one (0x1F falls outside its 1..26 fast path), so
	// it is matched as a plain control-code rune.
	km.Bind(charBinding(0x1F, input.Modifiers{}), actionUndo)

	// Meta-letters arrive as the plain rune with Alt set.
	km.Bind(charBinding('b', input.Modifiers{Alt: true}), actionMoveWordLeft)
	km.Bind(charBinding('f', input.Modifiers{Alt: true}), actionMoveWordRight)
	km.Bind(charBinding('d', input.Modifiers{Alt: true}), actionKillWordForward)

	km.Bind(specialBinding(input.KeyTab, input.Modifiers{}), actionComplete)
	km.Bind(specialBinding(input.KeyUp, input.Modifiers{}), actionHistoryPrev)
	km.Bind(specialBinding(input.KeyDown, input.Modifiers{}), actionHistoryNext)

	return km
}

// Bind installs or replaces the action for a binding key; used both by
// NewKeymap and by hosts that want to override a default.
func (km *Keymap) Bind(k bindingKey, a Action) { km.bindings[k] = a }

// lookupSpecial finds the action for a SpecialKey event, if any.
func (km *Keymap) lookupSpecial(k input.Key, mods input.Modifiers) (Action, bool) {
	a, ok := km.bindings[specialBinding(k, mods)]
	return a, ok
}

// lookupChar finds the action for a control/meta character event, if
// any. Plain printable characters (no Ctrl, no Alt) are never looked up
// here — the loop routes those straight to the insert handler. Control
// codes below 0x20 that arrive without modifiers, such as Ctrl-_, are.
func (km *Keymap) lookupChar(r rune, mods input.Modifiers) (Action, bool) {
	if !mods.Ctrl && !mods.Alt && r >= 0x20 {
		return nil, false
	}
	a, ok := km.bindings[charBinding(r, mods)]
	return a, ok
}
