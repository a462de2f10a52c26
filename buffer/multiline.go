package buffer

// MultilineState enumerates the shell-lexer states tracked while a
// command line is being composed (spec.md §3.1 Multiline context).
type MultilineState int

const (
	StateNormal MultilineState = iota
	StateBackslash
	StateSingleQuote
	StateDoubleQuote
	StateHeredoc
	StateSubshell
	StateBrace
)

// MultilineContext is the single-pass shell-lexer state machine that
// decides whether a buffer's contents are a syntactically complete
// command (spec.md §4.3.5).
type MultilineContext struct {
	State        MultilineState
	NestingLevel int
	Delimiter    string // active heredoc delimiter, when State == StateHeredoc
	stripTabs    bool   // true for <<-WORD heredocs

	priorState MultilineState // state to resume after a backslash escape

	// trailingOperator is true when the last significant token seen
	// (ignoring trailing whitespace) was a top-level |, &&, or || — a
	// command that ends in one of these still expects more input
	// (spec.md §8.3.4: "Each line ends with |, not complete → continue").
	trailingOperator bool
}

// Complete reports whether the buffer is a syntactically complete shell
// command: NORMAL state, zero nesting, no active heredoc, and not ending
// in a dangling pipe or logical operator (spec.md §3.1).
func (m MultilineContext) Complete() bool {
	return m.State == StateNormal && m.NestingLevel == 0 && !m.trailingOperator
}

// Reparse recomputes the multiline state from scratch over the full
// buffer contents. Used after Delete/Replace, where resuming from a mid-
// buffer state machine snapshot would require tracking per-byte
// checkpoints this engine does not keep.
func (m *MultilineContext) Reparse(text []byte) {
	*m = MultilineContext{}
	m.Feed(text)
}

// Feed advances the state machine over text from scratch. Called after
// every mutation (spec.md §4.3.5); since the state is purely a function
// of the text contents, re-walking from the start is both simplest and
// always correct — shell command lines are short enough that this costs
// nothing observable.
func (m *MultilineContext) Feed(text []byte) {
	*m = MultilineContext{}
	var heredocLine []byte

	flushHeredocCheck := func() {
		if m.State != StateHeredoc {
			return
		}
		line := heredocLine
		if m.stripTabs {
			for len(line) > 0 && line[0] == '\t' {
				line = line[1:]
			}
		}
		if string(line) == m.Delimiter {
			m.State = StateNormal
			m.Delimiter = ""
			m.stripTabs = false
		}
		heredocLine = heredocLine[:0]
	}

	i := 0
	for i < len(text) {
		c := text[i]

		// Any significant byte clears a pending trailing-operator flag;
		// whitespace (including newlines, so a bare continuation line
		// doesn't erase it) leaves it as is, and the pipe/&&/|| cases
		// below set it again when they match.
		if c != ' ' && c != '\t' && c != '\n' {
			m.trailingOperator = false
		}

		if m.State == StateHeredoc {
			if c == '\n' {
				flushHeredocCheck()
			} else {
				heredocLine = append(heredocLine, c)
			}
			i++
			continue
		}

		if m.State == StateBackslash {
			m.State = m.priorState
			i++
			continue
		}

		switch {
		case c == '\\' && m.State != StateSingleQuote:
			// Backslash at end of line escapes the newline; outside of
			// that, it just escapes the following byte. Both cases pop
			// back to the state that was active before the backslash.
			m.priorState = m.State
			m.State = StateBackslash
			i++
			continue

		case c == '\'' && m.State != StateDoubleQuote:
			if m.State == StateSingleQuote {
				m.State = StateNormal
			} else {
				m.State = StateSingleQuote
			}

		case c == '"' && m.State != StateSingleQuote:
			if m.State == StateDoubleQuote {
				m.State = StateNormal
			} else {
				m.State = StateDoubleQuote
			}

		case m.State == StateNormal || m.State == StateSubshell || m.State == StateBrace:
			switch c {
			case '(':
				m.NestingLevel++
				m.State = StateSubshell
			case ')':
				if m.NestingLevel > 0 {
					m.NestingLevel--
				}
				if m.NestingLevel == 0 {
					m.State = StateNormal
				}
			case '{':
				m.NestingLevel++
				m.State = StateBrace
			case '}':
				if m.NestingLevel > 0 {
					m.NestingLevel--
				}
				if m.NestingLevel == 0 {
					m.State = StateNormal
				}
			case '<':
				if word, stripTabs, consumed, ok := scanHeredocOperator(text[i:]); ok {
					m.State = StateHeredoc
					m.Delimiter = word
					m.stripTabs = stripTabs
					i += consumed
					continue
				}
			case '|':
				m.trailingOperator = true
				if i+1 < len(text) && text[i+1] == '|' {
					i++
				}
			case '&':
				if i+1 < len(text) && text[i+1] == '&' {
					m.trailingOperator = true
					i++
				}
			}
		}

		i++
	}
}

// scanHeredocOperator recognizes "<<[-]WORD" at the start of in and
// returns the delimiter word, whether tabs should be stripped (<<-), and
// how many bytes of in were consumed by the operator and word.
func scanHeredocOperator(in []byte) (word string, stripTabs bool, consumed int, ok bool) {
	if len(in) < 3 || in[0] != '<' || in[1] != '<' {
		return "", false, 0, false
	}
	i := 2
	if i < len(in) && in[i] == '-' {
		stripTabs = true
		i++
	}
	for i < len(in) && (in[i] == ' ' || in[i] == '\t') {
		i++
	}
	start := i
	for i < len(in) && in[i] != '\n' && in[i] != ' ' && in[i] != '\t' {
		i++
	}
	if i == start {
		return "", false, 0, false
	}
	return string(in[start:i]), stripTabs, i, true
}
