package term

import (
	"os"
	"strconv"

	"golang.org/x/sys/unix"

	"github.com/berrym/lle/lleerr"
)

// QuerySize returns the terminal's current column and row count via
// ioctl(TIOCGWINSZ), falling back to the COLUMNS/LINES environment
// variables (and finally a conservative 80x24) when the ioctl fails —
// e.g. stdin has been redirected from a file.
func QuerySize(fd int) (cols, rows int) {
	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err == nil && ws.Col > 0 && ws.Row > 0 {
		return int(ws.Col), int(ws.Row)
	}

	cols = envInt("COLUMNS", 80)
	rows = envInt("LINES", 24)
	return cols, rows
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// ForegroundPgrp transfers terminal foreground control to pgid, the
// pattern required so job-control signals (Ctrl+Z) land on the correct
// process group rather than the shell's own.
func ForegroundPgrp(fd, pgid int) error {
	const op = "term.ForegroundPgrp"
	if err := unix.Tcsetpgrp(fd, int32(pgid)); err != nil {
		return lleerr.Wrap(lleerr.IOError, op, err)
	}
	return nil
}

// CurrentForegroundPgrp reads the terminal's current foreground process
// group, to be restored later via ForegroundPgrp.
func CurrentForegroundPgrp(fd int) (int, error) {
	const op = "term.CurrentForegroundPgrp"
	pgid, err := unix.Tcgetpgrp(fd)
	if err != nil {
		return 0, lleerr.Wrap(lleerr.IOError, op, err)
	}
	return int(pgid), nil
}
