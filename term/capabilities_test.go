package term

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeEnv map[string]string

func (f fakeEnv) Get(key string) string { return f[key] }

func TestDetector_NoColorDisablesEverything(t *testing.T) {
	d := NewDetectorWithEnv(fakeEnv{"NO_COLOR": "1", "TERM": "xterm-256color"})
	caps := d.Detect()
	assert.False(t, caps.Color)
	assert.Equal(t, ColorDepthNone, caps.ColorDepth)
}

func TestDetector_ForceColorOverridesTerm(t *testing.T) {
	d := NewDetectorWithEnv(fakeEnv{"FORCE_COLOR": "3", "TERM": "dumb"})
	caps := d.Detect()
	assert.True(t, caps.Color)
	assert.Equal(t, ColorDepthTrueColor, caps.ColorDepth)
}

func TestDetector_DumbTermDisablesColor(t *testing.T) {
	d := NewDetectorWithEnv(fakeEnv{"TERM": "dumb"})
	caps := d.Detect()
	assert.False(t, caps.Color)
}

func TestDetector_ColortermTruecolor(t *testing.T) {
	d := NewDetectorWithEnv(fakeEnv{"TERM": "xterm", "COLORTERM": "truecolor"})
	caps := d.Detect()
	assert.Equal(t, ColorDepthTrueColor, caps.ColorDepth)
}

func TestDetector_256ColorTerm(t *testing.T) {
	d := NewDetectorWithEnv(fakeEnv{"TERM": "xterm-256color"})
	caps := d.Detect()
	assert.Equal(t, ColorDepth256, caps.ColorDepth)
}

func TestDetector_TermProgramKnownTerminal(t *testing.T) {
	d := NewDetectorWithEnv(fakeEnv{"TERM": "xterm", "TERM_PROGRAM": "iTerm.app"})
	caps := d.Detect()
	assert.Equal(t, ColorDepthTrueColor, caps.ColorDepth)
}

func TestDetector_ConservativeDefault(t *testing.T) {
	d := NewDetectorWithEnv(fakeEnv{"TERM": "xterm"})
	caps := d.Detect()
	assert.True(t, caps.Color)
	assert.Equal(t, ColorDepth8, caps.ColorDepth)
}
