// Package lle implements the readline loop orchestrator: it owns the
// buffer, drives the input parser and event dispatcher, and talks to
// the display bridge and the external collaborators (history,
// completion, syntax highlighting) that give the line editor its shell
// behavior.
package lle

import (
	"github.com/berrym/lle/buffer"
	"github.com/berrym/lle/collab"
)

// Editor is the mutable state a keybinding Action operates on: the
// buffer plus the small amount of readline-loop-local state (kill ring,
// completion menu, history cursor) that lives above the buffer but
// below the full session.
type Editor struct {
	Buf *buffer.Buffer

	killRing []byte

	completion   collab.CompletionSource
	menu         *completionMenu
	history      collab.HistoryStore
	historyState any

	// dirty is recorded by actions so the bridge only re-renders the
	// byte ranges that actually changed (spec.md §4.5.3).
	dirty func(start, end int)
}

// newEditor creates an Editor over a fresh buffer.
func newEditor(completion collab.CompletionSource, history collab.HistoryStore, markDirty func(start, end int)) *Editor {
	return &Editor{
		Buf:        buffer.New(),
		completion: completion,
		history:    history,
		dirty:      markDirty,
	}
}

func (e *Editor) markDirty(start, end int) {
	if e.dirty != nil {
		e.dirty(start, end)
	}
}

// menuActive reports whether a completion menu is currently presented.
func (e *Editor) menuActive() bool { return e.menu != nil && e.menu.active }

// dismissMenu closes any active completion menu without touching the buffer.
func (e *Editor) dismissMenu() { e.menu = nil }

// completionMenu is the minimal state the loop needs to route Up/Down/
// Enter/Escape while a completion list is open (spec.md §4.6
// "Completion menu interaction"); the presentation itself belongs to
// whatever collaborator renders it — this just tracks selection.
type completionMenu struct {
	active    bool
	items     []collab.Completion
	selected  int
	startByte int // where the replaced token begins
	endByte   int // where the replaced token ends
}
