package lle

import (
	"io"
	"os"

	"github.com/berrym/lle/collab"
	"github.com/berrym/lle/display"
	"github.com/berrym/lle/event"
	"github.com/berrym/lle/lleerr"
	"github.com/berrym/lle/pool"
	"github.com/berrym/lle/term"
)

const defaultCacheCapacity = 256

// Session holds everything a readline_init…readline_shutdown scope
// acquires once and reuses across repeated Readline calls: signal
// trapping, the display bridge, and the event dispatcher (spec.md §5
// "Resource acquisition"). Raw mode is entered and left within each
// Readline call.
type Session struct {
	input io.Reader

	controller  collab.DisplayController
	allocator   collab.Allocator
	highlighter collab.SyntaxHighlighter
	completion  collab.CompletionSource
	history     collab.HistoryStore

	cacheCapacity int
	keymap        *Keymap

	bridge   *display.Bridge
	signals  *term.SignalWatcher
	detector *term.Detector
	caps     term.Capabilities

	dispatcher *event.Dispatcher

	initialized bool
}

// NewSession constructs a Session from the given options. Construction
// never touches the terminal; that happens lazily on the first
// Readline call (spec.md §4.6 step 1 "Verify system initialized").
func NewSession(opts ...Option) *Session {
	s := &Session{
		input:         os.Stdin,
		cacheCapacity: defaultCacheCapacity,
		keymap:        NewKeymap(),
		detector:      term.NewDetector(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// init lazily performs the one-time acquisitions a session needs before
// its first Readline call: arena, bridge, capability detection, signal
// trapping.
func (s *Session) init() error {
	if s.initialized {
		return nil
	}
	const op = "lle.Session.init"
	if s.controller == nil {
		return lleerr.New(lleerr.StateError, op, "no DisplayController configured")
	}
	if s.allocator == nil {
		s.allocator = pool.NewArena(256)
	}
	s.bridge = display.NewBridge(s.controller, s.highlighter, s.allocator, s.cacheCapacity)
	s.caps = s.detector.Detect()
	s.signals = term.NewSignalWatcher()

	queue := event.NewQueue(64)
	registry := event.NewRegistry()
	s.dispatcher = event.NewDispatcher(queue, registry)
	registry.Register(evResize, "session.resize-invalidate", event.PriorityHigh, nil, func(ev event.Event) event.Result {
		if sz, ok := ev.Payload.(resizePayload); ok {
			s.caps.Columns, s.caps.Rows = sz.cols, sz.rows
		}
		s.bridge.InvalidateAll()
		return event.ResultPass
	})

	s.initialized = true
	return nil
}

// Close releases session-scoped resources: signal trapping and the
// render cache. Safe to call once a Session is no longer needed.
func (s *Session) Close() {
	if s.signals != nil {
		s.signals.Stop()
	}
	if s.bridge != nil {
		s.bridge.InvalidateAll()
	}
}

const (
	evResize event.Type = "resize"
)

// resizePayload carries the new geometry on a resize event (spec.md
// §4.6 "Window resize: update capabilities cols/rows").
type resizePayload struct {
	cols, rows int
}

func newResizeEvent(cols, rows int) event.Event {
	return event.New(evResize, event.PriorityHigh, resizePayload{cols: cols, rows: rows})
}
