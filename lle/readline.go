package lle

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log"
	"time"

	"github.com/berrym/lle/input"
	"github.com/berrym/lle/lleerr"
	"github.com/berrym/lle/term"
)

// housekeepingInterval is the input-read timeout spec.md §4.6 calls
// "100 ms timeout → housekeeping, continue" and §5 calls the loop's
// only blocking call.
const housekeepingInterval = 100 * time.Millisecond

// ErrInterrupted is returned when Ctrl-C discards the in-progress line.
var ErrInterrupted = errors.New("lle: line editing interrupted")

// readResult is what the background byte pump delivers to the loop.
type readResult struct {
	data []byte
	err  error
}

// Readline runs one interactive line-editing session: it installs the
// prompt, enters raw mode, drives the input parser and keybinding table
// until the command is accepted or cancelled, then restores the
// terminal (spec.md §4.6).
//
// Returns io.EOF when Ctrl-D is pressed on an empty buffer, and
// ErrInterrupted when Ctrl-C is pressed, discarding whatever the buffer
// holds.
func (s *Session) Readline(ctx context.Context, prompt string) (string, error) {
	const op = "lle.Session.Readline"
	if err := s.init(); err != nil {
		return "", err
	}

	ed := newEditor(s.completion, s.history, s.bridge.MarkDirty)
	promptBytes := []byte(prompt)

	rawFD := term.StdinFD()
	if term.IsTerminal(rawFD) {
		raw := term.NewRaw(rawFD)
		if err := raw.Enter(); err != nil {
			return "", lleerr.Wrap(lleerr.IOError, op, err)
		}
		defer func() {
			if err := raw.Exit(); err != nil {
				log.Printf("lle: leaving raw mode: %v", err)
			}
		}()
	}

	if err := s.bridge.Refresh(ed.Buf, promptBytes); err != nil {
		return "", err
	}

	reads := make(chan readResult, 1)
	readerCtx, cancelReader := context.WithCancel(ctx)
	defer cancelReader()
	go pumpInput(readerCtx, s.input, reads)

	parser := input.NewParser()
	signals := s.signals.Signals()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()

		case sig, ok := <-signals:
			if !ok {
				continue
			}
			if err := s.handleSignal(ed, sig); err != nil {
				return "", err
			}
			switch sig {
			case term.SignalInterrupt:
				// Ctrl-C as a trapped signal discards the buffer
				// unconditionally, same as the Character{3} path.
				return "", ErrInterrupted
			case term.SignalTerminate:
				return "", lleerr.New(lleerr.StateError, op, "terminated")
			}
			if err := s.bridge.Refresh(ed.Buf, promptBytes); err != nil {
				return "", err
			}

		case r, ok := <-reads:
			if !ok {
				continue
			}
			if r.err != nil {
				if n, _, _ := ed.Buf.Len(); n == 0 && errors.Is(r.err, io.EOF) {
					return "", io.EOF
				}
				if errors.Is(r.err, io.EOF) {
					return ed.Buf.String(), nil
				}
				return "", lleerr.Wrap(lleerr.IOError, op, r.err)
			}
			events := parser.Feed(r.data, time.Now())
			line, done, err := s.dispatchEvents(ed, events, promptBytes)
			if err != nil {
				switch {
				case errors.Is(err, errEOFMarker):
					return "", io.EOF
				case errors.Is(err, errInterruptMarker):
					return "", ErrInterrupted
				default:
					return "", err
				}
			}
			if done {
				return line, nil
			}

		case <-time.After(housekeepingInterval):
			events := parser.Tick(time.Now())
			if len(events) > 0 {
				line, done, err := s.dispatchEvents(ed, events, promptBytes)
				if err != nil {
					switch {
					case errors.Is(err, errEOFMarker):
						return "", io.EOF
					case errors.Is(err, errInterruptMarker):
						return "", ErrInterrupted
					default:
						return "", err
					}
				}
				if done {
					return line, nil
				}
			}
			s.dispatcher.ProcessPending()
		}
	}
}

// pumpInput turns a blocking io.Reader into a channel of reads so the
// select-based loop above never blocks on anything but the 100ms
// housekeeping timer itself (spec.md §5 "the only blocking call is the
// bounded terminal read"); the actual fd-level read still blocks, but it
// does so on this goroutine, not the loop thread that owns buffer state.
func pumpInput(ctx context.Context, r io.Reader, out chan<- readResult) {
	br := bufio.NewReaderSize(r, 256)
	buf := make([]byte, 256)
	for {
		if ctx.Err() != nil {
			return
		}
		n, err := br.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			select {
			case out <- readResult{data: chunk}:
			case <-ctx.Done():
				return
			}
		}
		if err != nil {
			select {
			case out <- readResult{err: err}:
			case <-ctx.Done():
			}
			return
		}
	}
}

// dispatchEvents applies every parsed InputEvent in order, refreshing
// the display after any that mutated the buffer (spec.md §4.6 step 6).
// Returns (line, true, nil) when the line should be accepted.
func (s *Session) dispatchEvents(ed *Editor, events []input.InputEvent, promptBytes []byte) (string, bool, error) {
	for _, ev := range events {
		line, done, refreshed, err := s.dispatchOne(ed, ev)
		if err != nil {
			return "", false, err
		}
		if done {
			return line, true, nil
		}
		if !refreshed {
			if err := s.bridge.Refresh(ed.Buf, promptBytes); err != nil {
				return "", false, err
			}
		}
	}
	return "", false, nil
}

func (s *Session) dispatchOne(ed *Editor, ev input.InputEvent) (line string, done bool, selfRefreshed bool, err error) {
	switch ev.Kind {
	case input.EventSpecialKey:
		return s.dispatchSpecialKey(ed, ev)

	case input.EventCharacter:
		return s.dispatchCharacter(ed, ev)

	case input.EventPaste:
		pos := ed.Buf.Cursor().ByteOffset
		if err := ed.Buf.Insert(pos, ev.Paste); err != nil {
			return "", false, false, err
		}
		ed.markDirty(pos, pos+len(ev.Paste))
		return "", false, false, nil

	case input.EventMouse, input.EventResize, input.EventParseError:
		// Mouse and parse-error events have no core binding; resize is
		// sourced from SIGWINCH, not the byte parser, in this engine.
		return "", false, true, nil
	}
	return "", false, true, nil
}

func (s *Session) dispatchSpecialKey(ed *Editor, ev input.InputEvent) (string, bool, bool, error) {
	if ev.Key == input.KeyEnter {
		if ed.menuActive() {
			if err := acceptMenuSelection(ed); err != nil {
				return "", false, false, err
			}
			return "", false, false, nil
		}
		if ev.Mods.Shift || ev.Mods.Alt {
			pos := ed.Buf.Cursor().ByteOffset
			if err := ed.Buf.Insert(pos, "\n"); err != nil {
				return "", false, false, err
			}
			ed.markDirty(pos, pos+1)
			return "", false, false, nil
		}
		if ed.Buf.Multiline().Complete() {
			n, _, _ := ed.Buf.Len()
			_ = ed.Buf.MoveTo(n)
			return ed.Buf.String(), true, false, nil
		}
		pos := ed.Buf.Cursor().ByteOffset
		if err := ed.Buf.Insert(pos, "\n"); err != nil {
			return "", false, false, err
		}
		ed.markDirty(pos, pos+1)
		return "", false, false, nil
	}

	if ev.Key == input.KeyEsc && ed.menuActive() {
		ed.dismissMenu()
		return "", false, false, nil
	}

	if a, ok := s.keymap.lookupSpecial(ev.Key, ev.Mods); ok {
		refreshed, err := a(ed)
		return "", false, refreshed, err
	}
	return "", false, true, nil
}

func (s *Session) dispatchCharacter(ed *Editor, ev input.InputEvent) (string, bool, bool, error) {
	if ev.Mods.Ctrl && ev.Rune == 3 {
		return "", false, false, errInterruptMarker
	}
	if ev.Mods.Ctrl && ev.Rune == 4 { // Ctrl-D
		if n, _, _ := ed.Buf.Len(); n == 0 {
			return "", false, false, errEOFMarker
		}
		refreshed, err := actionDeleteForward(ed)
		return "", false, refreshed, err
	}

	if a, ok := s.keymap.lookupChar(ev.Rune, ev.Mods); ok {
		refreshed, err := a(ed)
		return "", false, refreshed, err
	}

	if ev.Mods.Ctrl || ev.Mods.Alt {
		// Unbound control/meta character: ignored rather than inserted.
		return "", false, true, nil
	}

	if ed.menuActive() {
		ed.dismissMenu()
	}
	pos := ed.Buf.Cursor().ByteOffset
	if err := ed.Buf.Insert(pos, string(ev.Rune)); err != nil {
		return "", false, false, err
	}
	ed.markDirty(pos, pos+len(string(ev.Rune)))
	return "", false, false, nil
}

// errInterruptMarker and errEOFMarker let dispatchCharacter signal these
// two special outcomes through the same error return dispatchEvents
// already plumbs, without adding a second control-flow channel.
var (
	errInterruptMarker = errors.New("lle: interrupt")
	errEOFMarker       = errors.New("lle: eof on empty buffer")
)

func (s *Session) handleSignal(ed *Editor, sig term.SignalKind) error {
	switch sig {
	case term.SignalResize:
		cols, rows := term.QuerySize(term.StdinFD())
		if err := s.dispatcher.Enqueue(newResizeEvent(cols, rows)); err != nil {
			return err
		}
		s.dispatcher.ProcessPending()
		return nil
	case term.SignalInterrupt, term.SignalTerminate:
		return nil
	case term.SignalSuspend, term.SignalContinue:
		return nil
	}
	return nil
}
