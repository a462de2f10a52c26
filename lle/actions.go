package lle

import (
	"github.com/berrym/lle/buffer"
	"github.com/berrym/lle/collab"
	"github.com/berrym/lle/lleerr"
)

// Action mutates an Editor in response to a keybinding. The bool return
// reports whether the action already performed its own display refresh
// (e.g. toggling a completion menu); when true, the loop skips its own
// post-dispatch refresh (spec.md §4.6 "Actions that perform their own
// refresh").
type Action func(e *Editor) (selfRefreshed bool, err error)

func actionMoveLeft(e *Editor) (bool, error) {
	return false, e.Buf.MoveByGraphemes(-1)
}

func actionMoveRight(e *Editor) (bool, error) {
	return false, e.Buf.MoveByGraphemes(1)
}

func actionMoveWordLeft(e *Editor) (bool, error) {
	return false, e.Buf.MoveByWord(-1)
}

func actionMoveWordRight(e *Editor) (bool, error) {
	return false, e.Buf.MoveByWord(1)
}

func actionMoveHome(e *Editor) (bool, error) {
	line := e.Buf.Lines()[e.Buf.Cursor().LineNumber]
	return false, e.Buf.MoveTo(line.StartByte)
}

func actionMoveEnd(e *Editor) (bool, error) {
	line := e.Buf.Lines()[e.Buf.Cursor().LineNumber]
	return false, e.Buf.MoveTo(line.EndByte)
}

func actionBackspace(e *Editor) (bool, error) {
	pos := e.Buf.Cursor().ByteOffset
	if pos == 0 {
		return false, nil
	}
	prevOffset := graphemeBack(e.Buf, pos)
	length := pos - prevOffset
	if err := e.Buf.Delete(prevOffset, length); err != nil {
		return false, err
	}
	e.markDirty(prevOffset, prevOffset)
	return false, nil
}

func actionDeleteForward(e *Editor) (bool, error) {
	pos := e.Buf.Cursor().ByteOffset
	total, _, _ := e.Buf.Len()
	if pos >= total {
		return false, nil
	}
	nextOffset := graphemeForward(e.Buf, pos)
	if err := e.Buf.Delete(pos, nextOffset-pos); err != nil {
		return false, err
	}
	e.markDirty(pos, pos)
	return false, nil
}

// graphemeBack and graphemeForward locate the neighboring grapheme
// boundary without moving the cursor, by delegating to a scratch move
// and reading back the resulting offset. Buffer does not expose a pure
// boundary query, so this trades one throwaway MoveTo for not having to
// duplicate MoveByGraphemes' cluster-boundary math here.
func graphemeBack(b *buffer.Buffer, pos int) int {
	saved := b.Cursor().ByteOffset
	_ = b.MoveTo(pos)
	_ = b.MoveByGraphemes(-1)
	result := b.Cursor().ByteOffset
	_ = b.MoveTo(saved)
	return result
}

func graphemeForward(b *buffer.Buffer, pos int) int {
	saved := b.Cursor().ByteOffset
	_ = b.MoveTo(pos)
	_ = b.MoveByGraphemes(1)
	result := b.Cursor().ByteOffset
	_ = b.MoveTo(saved)
	return result
}

// actionKillWordBack implements Ctrl-W: delete from the cursor back to
// the start of the previous word, storing the deleted text in the kill
// ring in place of whatever it held.
func actionKillWordBack(e *Editor) (bool, error) {
	pos := e.Buf.Cursor().ByteOffset
	start := buffer.WordStartBackward(e.Buf.Bytes(), pos)
	if start == pos {
		return false, nil
	}
	e.killRing = append([]byte(nil), e.Buf.Bytes()[start:pos]...)
	if err := e.Buf.Delete(start, pos-start); err != nil {
		return false, err
	}
	e.markDirty(start, start)
	return false, nil
}

// actionKillWordForward implements Meta-d: delete from the cursor to
// the end of the next word, storing the deleted text in the kill ring
// in place of whatever it held.
func actionKillWordForward(e *Editor) (bool, error) {
	pos := e.Buf.Cursor().ByteOffset
	end := buffer.WordEndForward(e.Buf.Bytes(), pos)
	if end == pos {
		return false, nil
	}
	e.killRing = append([]byte(nil), e.Buf.Bytes()[pos:end]...)
	if err := e.Buf.Delete(pos, end-pos); err != nil {
		return false, err
	}
	e.markDirty(pos, pos)
	return false, nil
}

// actionKillToEOL implements Ctrl-K: delete from the cursor to the end
// of the current line.
func actionKillToEOL(e *Editor) (bool, error) {
	pos := e.Buf.Cursor().ByteOffset
	line := e.Buf.Lines()[e.Buf.Cursor().LineNumber]
	if pos >= line.EndByte {
		return false, nil
	}
	e.killRing = append([]byte(nil), e.Buf.Bytes()[pos:line.EndByte]...)
	if err := e.Buf.Delete(pos, line.EndByte-pos); err != nil {
		return false, err
	}
	e.markDirty(pos, pos)
	return false, nil
}

// actionKillToBOL implements Ctrl-U: delete from the start of the
// current line to the cursor.
func actionKillToBOL(e *Editor) (bool, error) {
	pos := e.Buf.Cursor().ByteOffset
	line := e.Buf.Lines()[e.Buf.Cursor().LineNumber]
	if pos <= line.StartByte {
		return false, nil
	}
	e.killRing = append([]byte(nil), e.Buf.Bytes()[line.StartByte:pos]...)
	if err := e.Buf.Delete(line.StartByte, pos-line.StartByte); err != nil {
		return false, err
	}
	e.markDirty(line.StartByte, line.StartByte)
	return false, nil
}

// actionYank implements Ctrl-Y: insert the kill ring's contents at the
// cursor.
func actionYank(e *Editor) (bool, error) {
	if len(e.killRing) == 0 {
		return false, nil
	}
	pos := e.Buf.Cursor().ByteOffset
	if err := e.Buf.Insert(pos, string(e.killRing)); err != nil {
		return false, err
	}
	e.markDirty(pos, pos+len(e.killRing))
	return false, nil
}

func actionUndo(e *Editor) (bool, error) {
	if !e.Buf.CanUndo() {
		return false, nil
	}
	if err := e.Buf.Undo(); err != nil {
		return false, err
	}
	e.markDirty(0, len(e.Buf.Bytes()))
	return false, nil
}

func actionRedo(e *Editor) (bool, error) {
	if !e.Buf.CanRedo() {
		return false, nil
	}
	if err := e.Buf.Redo(); err != nil {
		return false, err
	}
	e.markDirty(0, len(e.Buf.Bytes()))
	return false, nil
}

// actionHistoryPrev implements Up: replace the buffer atomically with
// the previous history entry, when a HistoryStore is attached.
func actionHistoryPrev(e *Editor) (bool, error) {
	if e.menuActive() {
		navigateMenu(e, -1)
		return true, nil
	}
	if e.history == nil {
		return false, e.Buf.MoveVertical(-1)
	}
	line, state, ok := e.history.Previous(e.historyState)
	if !ok {
		return false, nil
	}
	e.historyState = state
	return false, replaceBuffer(e.Buf, line)
}

// actionHistoryNext implements Down: replace the buffer atomically with
// the next history entry.
func actionHistoryNext(e *Editor) (bool, error) {
	if e.menuActive() {
		navigateMenu(e, 1)
		return true, nil
	}
	if e.history == nil {
		return false, e.Buf.MoveVertical(1)
	}
	line, state, ok := e.history.Next(e.historyState)
	if !ok {
		return false, nil
	}
	e.historyState = state
	return false, replaceBuffer(e.Buf, line)
}

func replaceBuffer(b *buffer.Buffer, line []byte) error {
	n, _, _ := b.Len()
	if n == 0 && len(line) == 0 {
		return nil
	}
	return b.Replace(0, n, string(line))
}

func navigateMenu(e *Editor, delta int) {
	m := e.menu
	if m == nil || len(m.items) == 0 {
		return
	}
	m.selected = (m.selected + delta + len(m.items)) % len(m.items)
}

// actionComplete implements Tab: consults the completion source and
// opens (or advances) the completion menu. Deduplication is by
// (text, kind), not text alone (spec.md §6.3), so distinct collaborators
// offering the same literal text for different reasons both survive.
func actionComplete(e *Editor) (bool, error) {
	if e.completion == nil {
		return false, nil
	}
	pos := e.Buf.Cursor().ByteOffset
	items, err := e.completion.Complete(e.Buf.Bytes(), pos)
	if err != nil {
		return false, lleerr.Wrap(lleerr.CollaboratorFailure, "lle.actionComplete", err)
	}
	items = dedupCompletions(items)
	if len(items) == 0 {
		return false, nil
	}
	if len(items) == 1 {
		return false, applyCompletion(e, items[0], pos)
	}
	start := buffer.WordStartBackward(e.Buf.Bytes(), pos)
	e.menu = &completionMenu{active: true, items: items, startByte: start, endByte: pos}
	return false, nil
}

func dedupCompletions(items []collab.Completion) []collab.Completion {
	type key struct {
		text string
		kind collab.CompletionKind
	}
	seen := make(map[key]bool, len(items))
	out := items[:0]
	for _, it := range items {
		k := key{it.Text, it.Kind}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, it)
	}
	return out
}

func applyCompletion(e *Editor, c collab.Completion, cursorPos int) error {
	start := buffer.WordStartBackward(e.Buf.Bytes(), cursorPos)
	if err := e.Buf.Replace(start, cursorPos-start, c.Text); err != nil {
		return err
	}
	e.markDirty(start, start+len(c.Text))
	return nil
}

// acceptMenuSelection implements Enter while a completion menu is open.
func acceptMenuSelection(e *Editor) error {
	m := e.menu
	if m == nil {
		return nil
	}
	choice := m.items[m.selected]
	e.dismissMenu()
	return applyCompletion(e, choice, m.endByte)
}
