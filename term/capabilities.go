// Package term detects terminal capabilities, enters/exits raw mode,
// queries window size, and wires the signals a readline session cares
// about (SIGWINCH, SIGTSTP/SIGCONT, SIGINT, SIGTERM).
package term

import "strings"

// ColorDepth is how many distinct colors the attached terminal can
// render.
type ColorDepth int

const (
	ColorDepthNone ColorDepth = iota
	ColorDepth8
	ColorDepth256
	ColorDepthTrueColor
)

// Capabilities describes what the attached terminal supports.
type Capabilities struct {
	Color        bool
	ColorDepth   ColorDepth
	UnicodeWide  bool
	Mouse        bool
	BracketPaste bool
	Columns      int
	Rows         int
}

// EnvironmentProvider abstracts environment-variable lookup so
// detection can be unit tested without mutating process-global state.
type EnvironmentProvider interface {
	Get(key string) string
}

// osEnv reads from the real process environment.
type osEnv struct{}

func (osEnv) Get(key string) string { return getenv(key) }

// Detector determines Capabilities from environment variables, in the
// priority order every terminal capability library in this ecosystem
// converges on: NO_COLOR, then FORCE_COLOR, then terminal-specific
// signals, then a conservative default.
type Detector struct {
	env EnvironmentProvider
}

// NewDetector returns a Detector reading from the real process
// environment.
func NewDetector() *Detector { return &Detector{env: osEnv{}} }

// NewDetectorWithEnv returns a Detector reading from a supplied
// EnvironmentProvider, for tests.
func NewDetectorWithEnv(env EnvironmentProvider) *Detector { return &Detector{env: env} }

// Detect runs the priority chain and returns the resulting
// Capabilities. Columns/Rows are left at zero; callers fill them in
// from QuerySize.
func (d *Detector) Detect() Capabilities {
	if d.env.Get("NO_COLOR") != "" {
		return Capabilities{Color: false, ColorDepth: ColorDepthNone}
	}
	if fc := d.env.Get("FORCE_COLOR"); fc != "" {
		return d.parseForceColor(fc)
	}

	term := d.env.Get("TERM")
	if term == "dumb" || term == "" {
		return Capabilities{Color: false, ColorDepth: ColorDepthNone}
	}

	return Capabilities{
		Color:        true,
		ColorDepth:   d.detectColorDepth(),
		UnicodeWide:  true,
		Mouse:        true,
		BracketPaste: true,
	}
}

func (d *Detector) detectColorDepth() ColorDepth {
	if ct := strings.ToLower(d.env.Get("COLORTERM")); ct == "truecolor" || ct == "24bit" {
		return ColorDepthTrueColor
	}

	switch d.env.Get("TERM_PROGRAM") {
	case "iTerm.app", "vscode", "Hyper", "WarpTerminal":
		return ColorDepthTrueColor
	case "Apple_Terminal":
		return ColorDepth256
	}

	t := d.env.Get("TERM")
	switch {
	case strings.Contains(t, "256color"):
		return ColorDepth256
	case strings.Contains(t, "color"):
		return ColorDepth8
	case t == "dumb" || t == "":
		return ColorDepthNone
	default:
		return ColorDepth8
	}
}

func (d *Detector) parseForceColor(fc string) Capabilities {
	base := Capabilities{Color: true, UnicodeWide: true, Mouse: true, BracketPaste: true}
	switch fc {
	case "0":
		return Capabilities{Color: false, ColorDepth: ColorDepthNone}
	case "1":
		base.ColorDepth = ColorDepth8
	case "2":
		base.ColorDepth = ColorDepth256
	default: // "3", "true", or anything unrecognized
		base.ColorDepth = ColorDepthTrueColor
	}
	return base
}
