package term

import (
	"os"

	"golang.org/x/term"

	"github.com/berrym/lle/lleerr"
)

// Raw enters raw mode on fd for the lifetime of the readline session
// and restores the prior terminal state on Exit. Exiting a session
// that never entered raw mode is treated as success (spec.md §7: "exit
// raw mode when never entered — treated as success").
type Raw struct {
	fd    int
	state *term.State
}

// NewRaw wraps the given file descriptor (typically int(os.Stdin.Fd())).
func NewRaw(fd int) *Raw { return &Raw{fd: fd} }

// Enter puts the terminal into raw mode, disabling line buffering and
// echo so every keystroke reaches the parser immediately.
func (r *Raw) Enter() error {
	const op = "term.Raw.Enter"
	state, err := term.MakeRaw(r.fd)
	if err != nil {
		return lleerr.Wrap(lleerr.IOError, op, err)
	}
	r.state = state
	return nil
}

// Exit restores the terminal to the state captured by Enter. Calling
// Exit without a prior successful Enter is a no-op, not an error.
func (r *Raw) Exit() error {
	const op = "term.Raw.Exit"
	if r.state == nil {
		return nil
	}
	if err := term.Restore(r.fd, r.state); err != nil {
		return lleerr.Wrap(lleerr.IOError, op, err)
	}
	r.state = nil
	return nil
}

// IsTerminal reports whether fd refers to an interactive terminal, so
// callers can skip raw-mode entry entirely when stdin is a pipe or file.
func IsTerminal(fd int) bool { return term.IsTerminal(fd) }

// StdinFD is a convenience accessor used by the readline loop; broken
// out so tests can substitute a different descriptor.
func StdinFD() int { return int(os.Stdin.Fd()) }
