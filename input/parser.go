package input

import "time"

// parseState is the parser's state machine position (spec.md §4.2).
type parseState int

const (
	stateGround parseState = iota
	stateEscape
	stateCSI
	stateOSC
	stateDCS
	stateSS2
	stateSS3
	stateUTF8Continuation
	stateBracketedPaste
	stateX10Mouse
)

// escapeTimeout bounds how long the parser waits inside a non-Ground
// state before flushing its best interpretation (spec.md §4.2 "Timeout
// policy"). Keystrokes from a real terminal arrive as whole escape
// sequences in one read; 50ms is long enough to absorb a slow pty but
// short enough that a bare Esc key feels instant.
const escapeTimeout = 50 * time.Millisecond

// Parser is a byte-stream-to-InputEvent state machine. It owns a small
// fixed-size accumulator for the sequence currently being recognized;
// callers drive it with Feed and collect emitted events from the slice
// Feed returns. The parser never allocates once warmed up, beyond the
// event slice returned per call and occasional string conversions for
// multi-byte runes and paste payloads.
type Parser struct {
	state      parseState
	seq        []byte // bytes of the sequence-in-progress, including the leading ESC when applicable
	utf8Need   int    // continuation bytes still expected
	utf8Buf    []byte
	pasteBuf   []byte
	lastByte   time.Time
	invalidSeq uint64 // count of dropped malformed sequences (spec.md §4.2 "Failure semantics")
}

// NewParser returns a ready-to-use Parser in the Ground state.
func NewParser() *Parser {
	return &Parser{seq: make([]byte, 0, 32)}
}

// InvalidSequenceCount returns how many malformed sequences have been
// dropped since the parser was created.
func (p *Parser) InvalidSequenceCount() uint64 { return p.invalidSeq }

// Feed advances the parser over in, returning any events it produced.
// now is supplied by the caller rather than read from the clock so a
// timeout tick can be injected deterministically as well as driven by a
// live read loop.
func (p *Parser) Feed(in []byte, now time.Time) []InputEvent {
	var out []InputEvent
	for _, b := range in {
		if p.state != stateGround && !p.lastByte.IsZero() && now.Sub(p.lastByte) > escapeTimeout {
			out = append(out, p.timeoutFlush())
		}
		p.lastByte = now
		if ev, ok := p.step(b); ok {
			out = append(out, ev)
		}
	}
	return out
}

// Tick lets the owning read loop push a timeout check even when no new
// bytes have arrived (e.g. a standalone Esc key with nothing following
// it within the pty's read granularity).
func (p *Parser) Tick(now time.Time) []InputEvent {
	if p.state == stateGround || p.lastByte.IsZero() {
		return nil
	}
	if now.Sub(p.lastByte) > escapeTimeout {
		return []InputEvent{p.timeoutFlush()}
	}
	return nil
}

func (p *Parser) timeoutFlush() InputEvent {
	switch p.state {
	case stateEscape:
		p.reset()
		return InputEvent{Kind: EventSpecialKey, Key: KeyEsc}
	default:
		// CSI/OSC/DCS/SS2/SS3/paste/utf8 left incomplete: the sequence is
		// abandoned as malformed rather than guessed at.
		p.invalidSeq++
		p.reset()
		return InputEvent{Kind: EventParseError, Err: errIncompleteSequence}
	}
}

func (p *Parser) reset() {
	p.state = stateGround
	p.seq = p.seq[:0]
	p.utf8Need = 0
	p.utf8Buf = p.utf8Buf[:0]
	p.lastByte = time.Time{}
}

// step feeds a single byte through the state machine.
func (p *Parser) step(b byte) (InputEvent, bool) {
	switch p.state {
	case stateGround:
		return p.stepGround(b)
	case stateEscape:
		return p.stepEscape(b)
	case stateCSI:
		return p.stepCSI(b)
	case stateOSC:
		return p.stepOSC(b)
	case stateDCS:
		return p.stepDCS(b)
	case stateSS2:
		return p.stepSS2SS3(b, false)
	case stateSS3:
		return p.stepSS2SS3(b, true)
	case stateUTF8Continuation:
		return p.stepUTF8(b)
	case stateBracketedPaste:
		return p.stepPaste(b)
	case stateX10Mouse:
		return p.stepX10Mouse(b)
	}
	return InputEvent{}, false
}

func (p *Parser) stepGround(b byte) (InputEvent, bool) {
	switch {
	case b == 0x1B:
		p.state = stateEscape
		p.seq = append(p.seq[:0], b)
		return InputEvent{}, false
	case b >= 0xC2 && b <= 0xF4:
		p.utf8Need = utf8ContinuationLen(b)
		p.utf8Buf = append(p.utf8Buf[:0], b)
		if p.utf8Need == 0 {
			p.invalidSeq++
			return InputEvent{}, false
		}
		p.state = stateUTF8Continuation
		return InputEvent{}, false
	case b == 0x0D, b == 0x0A:
		return InputEvent{Kind: EventSpecialKey, Key: KeyEnter}, true
	case b == 0x7F, b == 0x08:
		return InputEvent{Kind: EventSpecialKey, Key: KeyBackspace}, true
	case b == 0x09:
		return InputEvent{Kind: EventSpecialKey, Key: KeyTab}, true
	case b >= 1 && b <= 26:
		// Ctrl-A..Ctrl-Z surface as a character; readline decides what to
		// do with it (spec.md §4.2 "Control-character convention").
		return InputEvent{Kind: EventCharacter, Rune: rune(b), Mods: Modifiers{Ctrl: true}}, true
	case b < 0x80:
		return InputEvent{Kind: EventCharacter, Rune: rune(b)}, true
	default:
		// 0x80-0xC1 and 0xF5-0xFF are never valid UTF-8 lead bytes.
		p.invalidSeq++
		return InputEvent{}, false
	}
}

func (p *Parser) stepEscape(b byte) (InputEvent, bool) {
	switch b {
	case '[':
		p.state = stateCSI
		p.seq = append(p.seq, b)
		return InputEvent{}, false
	case 'O':
		p.state = stateSS3
		p.seq = append(p.seq, b)
		return InputEvent{}, false
	case 'N':
		p.state = stateSS2
		p.seq = append(p.seq, b)
		return InputEvent{}, false
	case ']':
		p.state = stateOSC
		p.seq = append(p.seq, b)
		return InputEvent{}, false
	case 'P':
		p.state = stateDCS
		p.seq = append(p.seq, b)
		return InputEvent{}, false
	case 0x1B:
		// A second ESC: the first was a standalone Esc keypress.
		p.seq = append(p.seq[:0], b)
		return InputEvent{Kind: EventSpecialKey, Key: KeyEsc}, true
	default:
		p.reset()
		if b < 0x80 {
			// Meta-letter (Alt+key): surfaced as the plain character with
			// Alt set, letting readline apply its own Meta bindings.
			return InputEvent{Kind: EventCharacter, Rune: rune(b), Mods: Modifiers{Alt: true}}, true
		}
		p.invalidSeq++
		return InputEvent{}, false
	}
}

func (p *Parser) stepSS2SS3(b byte, isSS3 bool) (InputEvent, bool) {
	p.reset()
	if !isSS3 {
		p.invalidSeq++
		return InputEvent{}, false
	}
	key, ok := ss3KeyTable[b]
	if !ok {
		p.invalidSeq++
		return InputEvent{}, false
	}
	return InputEvent{Kind: EventSpecialKey, Key: key}, true
}

func (p *Parser) stepCSI(b byte) (InputEvent, bool) {
	if b == 'M' && len(p.seq) == 2 {
		// X10 mouse report: "CSI M" is followed by 3 raw data bytes, not
		// further CSI parameter syntax (spec.md §4.2 "Mouse").
		p.state = stateX10Mouse
		p.seq = p.seq[:0]
		return InputEvent{}, false
	}
	p.seq = append(p.seq, b)
	if b >= 0x40 && b <= 0x7E {
		ev, ok := classifyCSI(p.seq)
		if !ok {
			p.invalidSeq++
		}
		if ev.Kind == EventPaste && ev.Err == errBracketedPasteStart {
			p.state = stateBracketedPaste
			p.pasteBuf = p.pasteBuf[:0]
			p.seq = p.seq[:0]
			return InputEvent{}, false
		}
		p.reset()
		return ev, ok
	}
	if len(p.seq) > 64 {
		// Runaway CSI sequence: abandon it rather than grow unbounded
		// (spec.md §4.2 "no allocation in the hot path").
		p.invalidSeq++
		p.reset()
	}
	return InputEvent{}, false
}

func (p *Parser) stepOSC(b byte) (InputEvent, bool) {
	p.seq = append(p.seq, b)
	if b == 0x07 || (len(p.seq) >= 2 && p.seq[len(p.seq)-2] == 0x1B && b == '\\') {
		p.reset()
		return InputEvent{}, false
	}
	if len(p.seq) > 256 {
		p.invalidSeq++
		p.reset()
	}
	return InputEvent{}, false
}

func (p *Parser) stepDCS(b byte) (InputEvent, bool) {
	p.seq = append(p.seq, b)
	if len(p.seq) >= 2 && p.seq[len(p.seq)-2] == 0x1B && b == '\\' {
		p.reset()
		return InputEvent{}, false
	}
	if len(p.seq) > 256 {
		p.invalidSeq++
		p.reset()
	}
	return InputEvent{}, false
}

func (p *Parser) stepUTF8(b byte) (InputEvent, bool) {
	if b < 0x80 || b > 0xBF {
		p.invalidSeq++
		p.reset()
		return InputEvent{}, false
	}
	p.utf8Buf = append(p.utf8Buf, b)
	p.utf8Need--
	if p.utf8Need > 0 {
		return InputEvent{}, false
	}
	r, size := decodeRune(p.utf8Buf)
	p.reset()
	if size == 0 {
		p.invalidSeq++
		return InputEvent{}, false
	}
	return InputEvent{Kind: EventCharacter, Rune: r}, true
}

func (p *Parser) stepPaste(b byte) (InputEvent, bool) {
	p.pasteBuf = append(p.pasteBuf, b)
	if len(p.pasteBuf) >= 6 &&
		p.pasteBuf[len(p.pasteBuf)-6] == 0x1B &&
		string(p.pasteBuf[len(p.pasteBuf)-5:]) == "[201~" {
		text := string(p.pasteBuf[:len(p.pasteBuf)-6])
		p.reset()
		return InputEvent{Kind: EventPaste, Paste: text}, true
	}
	return InputEvent{}, false
}

func (p *Parser) stepX10Mouse(b byte) (InputEvent, bool) {
	p.seq = append(p.seq, b)
	if len(p.seq) < 3 {
		return InputEvent{}, false
	}
	ev := parseX10Mouse(p.seq)
	p.reset()
	return ev, true
}

func utf8ContinuationLen(lead byte) int {
	switch {
	case lead >= 0xC2 && lead <= 0xDF:
		return 1
	case lead >= 0xE0 && lead <= 0xEF:
		return 2
	case lead >= 0xF0 && lead <= 0xF4:
		return 3
	default:
		return 0
	}
}

func decodeRune(b []byte) (rune, int) {
	switch len(b) {
	case 2:
		return rune(b[0]&0x1F)<<6 | rune(b[1]&0x3F), 2
	case 3:
		return rune(b[0]&0x0F)<<12 | rune(b[1]&0x3F)<<6 | rune(b[2]&0x3F), 3
	case 4:
		return rune(b[0]&0x07)<<18 | rune(b[1]&0x3F)<<12 | rune(b[2]&0x3F)<<6 | rune(b[3]&0x3F), 4
	default:
		return 0, 0
	}
}

var ss3KeyTable = map[byte]Key{
	'P': KeyF1,
	'Q': KeyF2,
	'R': KeyF3,
	'S': KeyF4,
}
