// Package input turns a raw terminal byte stream into typed InputEvents:
// characters, special keys, mouse actions, resize notifications, and
// bracketed-paste blocks. It never blocks on its own; Feed is driven by
// whatever owns the file descriptor (term.Raw read loop, a test harness
// replaying a byte fixture, etc).
package input

// Key enumerates the special (non-printable-character) keys the parser
// can classify (spec.md §4.2 "Key classification").
type Key int

const (
	KeyNone Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyInsert
	KeyDelete
	KeyPgUp
	KeyPgDown
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyEsc
	KeyEnter
	KeyTab
	KeyBackspace
)

// EventKind discriminates the variants of InputEvent.
type EventKind int

const (
	EventCharacter EventKind = iota
	EventSpecialKey
	EventMouse
	EventResize
	EventPaste
	EventParseError
)

// MouseAction enumerates what a mouse event represents.
type MouseAction int

const (
	MousePress MouseAction = iota
	MouseRelease
	MouseMotion
	MouseWheelUp
	MouseWheelDown
)

// MouseButton enumerates which button a mouse event reports.
type MouseButton int

const (
	MouseButtonNone MouseButton = iota
	MouseButtonLeft
	MouseButtonMiddle
	MouseButtonRight
)

// Modifiers are the shift/alt/ctrl bits carried by CSI-encoded keys and
// mouse reports.
type Modifiers struct {
	Shift bool
	Alt   bool
	Ctrl  bool
}

// MouseEvent is the decoded payload of an EventMouse InputEvent.
type MouseEvent struct {
	Action    MouseAction
	Button    MouseButton
	Column    int // 0-based
	Row       int // 0-based
	Modifiers Modifiers
}

// InputEvent is the tagged union the parser emits. Exactly one of
// Rune/Key/Mouse/Paste/Err is meaningful, selected by Kind.
type InputEvent struct {
	Kind  EventKind
	Rune  rune
	Key   Key
	Mods  Modifiers
	Mouse MouseEvent
	Paste string
	Err   error
}
