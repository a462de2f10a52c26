package input

import (
	"errors"
	"strconv"
	"strings"
)

var (
	errIncompleteSequence  = errors.New("input: escape sequence abandoned after timeout")
	errMalformedCSI        = errors.New("input: malformed CSI sequence")
	errBracketedPasteStart = errors.New("input: bracketed paste start marker")
)

// cursorKeyTable covers the CSI letter-terminated editing and cursor
// keys, including the ASCII encodings a terminal may send for Home/End;
// the numeric "CSI <n> ~" encodings of the same keys are in
// tildeKeyTable (spec.md §4.2: "Parsers MUST accept both... this is
// not optional").
var cursorKeyTable = map[byte]Key{
	'A': KeyUp,
	'B': KeyDown,
	'C': KeyRight,
	'D': KeyLeft,
	'H': KeyHome,
	'F': KeyEnd,
}

// tildeKeyTable covers the "CSI <n> ~" family: Home/End/Insert/Delete/
// PageUp/PageDown and the F5-F12 numeric encodings.
var tildeKeyTable = map[string]Key{
	"1":  KeyHome,
	"2":  KeyInsert,
	"3":  KeyDelete,
	"4":  KeyEnd,
	"5":  KeyPgUp,
	"6":  KeyPgDown,
	"7":  KeyHome,
	"8":  KeyEnd,
	"11": KeyF1,
	"12": KeyF2,
	"13": KeyF3,
	"14": KeyF4,
	"15": KeyF5,
	"17": KeyF6,
	"18": KeyF7,
	"19": KeyF8,
	"20": KeyF9,
	"21": KeyF10,
	"23": KeyF11,
	"24": KeyF12,
}

// modifiersFromParam decodes the "CSI 1;<mod><letter>" extended form
// some terminals use for Shift/Alt/Ctrl + arrow or editing keys.
func modifiersFromParam(param string) Modifiers {
	n, err := strconv.Atoi(param)
	if err != nil || n < 1 {
		return Modifiers{}
	}
	bits := n - 1
	return Modifiers{
		Shift: bits&1 != 0,
		Alt:   bits&2 != 0,
		Ctrl:  bits&4 != 0,
	}
}

// classifyCSI interprets a complete CSI sequence (full bytes, including
// the leading ESC and '[') into an InputEvent.
func classifyCSI(full []byte) (InputEvent, bool) {
	if len(full) < 3 {
		return InputEvent{Kind: EventParseError, Err: errMalformedCSI}, false
	}
	body := full[2:] // drop ESC, '['
	final := body[len(body)-1]
	params := string(body[:len(body)-1])

	if params == "200" && final == '~' {
		return InputEvent{Kind: EventPaste, Err: errBracketedPasteStart}, true
	}
	if params == "201" && final == '~' {
		// End marker seen outside of an active paste: ignore.
		return InputEvent{}, false
	}

	if strings.HasPrefix(params, "<") {
		// SGR mouse report, e.g. "<0;10;5M" / "<0;10;5m".
		return parseSGRMouse(params, final)
	}

	switch final {
	case 'A', 'B', 'C', 'D', 'H', 'F':
		if key, ok := cursorKeyTable[final]; ok {
			mods := Modifiers{}
			if idx := strings.IndexByte(params, ';'); idx >= 0 {
				mods = modifiersFromParam(params[idx+1:])
			}
			return InputEvent{Kind: EventSpecialKey, Key: key, Mods: mods}, true
		}
	case '~':
		num := params
		mods := Modifiers{}
		if idx := strings.IndexByte(params, ';'); idx >= 0 {
			num = params[:idx]
			mods = modifiersFromParam(params[idx+1:])
		}
		if key, ok := tildeKeyTable[num]; ok {
			return InputEvent{Kind: EventSpecialKey, Key: key, Mods: mods}, true
		}
	case 'P', 'Q', 'R', 'S':
		// "CSI 1;<mod>P".."S" extended F1-F4 encoding.
		if idx := strings.IndexByte(params, ';'); idx >= 0 {
			mods := modifiersFromParam(params[idx+1:])
			key := map[byte]Key{'P': KeyF1, 'Q': KeyF2, 'R': KeyF3, 'S': KeyF4}[final]
			return InputEvent{Kind: EventSpecialKey, Key: key, Mods: mods}, true
		}
	}

	return InputEvent{Kind: EventParseError, Err: errMalformedCSI}, false
}

// parseSGRMouse decodes "<btn;col;row" + M(press)/m(release), grounded
// on the SGR(1006) button-code layout: bits 0-1 and 5-6 select the
// button, bits 2-4 are modifiers.
func parseSGRMouse(params string, final byte) (InputEvent, bool) {
	body := strings.TrimPrefix(params, "<")
	parts := strings.Split(body, ";")
	if len(parts) != 3 {
		return InputEvent{Kind: EventParseError, Err: errMalformedCSI}, false
	}
	code, err1 := strconv.Atoi(parts[0])
	col, err2 := strconv.Atoi(parts[1])
	row, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return InputEvent{Kind: EventParseError, Err: errMalformedCSI}, false
	}

	button, mods := decodeMouseButtonCode(code)
	isMotion := code&0x63 == 32 || code&0x63 == 35
	var action MouseAction
	switch {
	case button == MouseButtonNone && (code&0x63 == 64 || code&0x63 == 65):
		if code&0x63 == 64 {
			action = MouseWheelUp
		} else {
			action = MouseWheelDown
		}
	case isMotion:
		action = MouseMotion
	case final == 'M':
		action = MousePress
	default:
		action = MouseRelease
	}

	return InputEvent{
		Kind: EventMouse,
		Mouse: MouseEvent{
			Action:    action,
			Button:    button,
			Column:    col - 1,
			Row:       row - 1,
			Modifiers: mods,
		},
	}, true
}

// parseX10Mouse decodes the legacy 3-raw-byte X10 mouse report
// (spec.md §4.2 "Mouse"). full is exactly the 3 data bytes.
func parseX10Mouse(full []byte) InputEvent {
	code := int(full[0]) - 32
	col := int(full[1]) - 32 - 1
	row := int(full[2]) - 32 - 1

	button, mods := decodeMouseButtonCode(code)
	base := code & 0x63
	var action MouseAction
	switch {
	case base == 64:
		action = MouseWheelUp
	case base == 65:
		action = MouseWheelDown
	case base == 32 || base == 35:
		action = MouseMotion
	default:
		action = MousePress
	}

	return InputEvent{
		Kind: EventMouse,
		Mouse: MouseEvent{
			Action:    action,
			Button:    button,
			Column:    col,
			Row:       row,
			Modifiers: mods,
		},
	}
}

// decodeMouseButtonCode extracts the base button and Shift/Alt/Ctrl
// modifiers from an X10/SGR mouse button code.
func decodeMouseButtonCode(code int) (MouseButton, Modifiers) {
	mods := Modifiers{
		Shift: code&4 != 0,
		Alt:   code&8 != 0,
		Ctrl:  code&16 != 0,
	}
	switch code & 0x63 {
	case 0:
		return MouseButtonLeft, mods
	case 1:
		return MouseButtonMiddle, mods
	case 2:
		return MouseButtonRight, mods
	default:
		return MouseButtonNone, mods
	}
}
