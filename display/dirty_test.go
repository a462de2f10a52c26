package display

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirtyTracker_MergesNearbyIntervals(t *testing.T) {
	tr := NewDirtyTracker()
	tr.Mark(10, 20)
	tr.Mark(30, 40)
	require.Len(t, tr.Intervals(), 1)
	assert.Equal(t, Interval{Start: 10, End: 40}, tr.Intervals()[0])
}

func TestDirtyTracker_KeepsDistantIntervalsSeparate(t *testing.T) {
	tr := NewDirtyTracker()
	tr.Mark(0, 5)
	tr.Mark(1000, 1005)
	assert.Len(t, tr.Intervals(), 2)
}

func TestDirtyTracker_PromotesToFullRedrawPastThreshold(t *testing.T) {
	tr := NewDirtyTracker()
	tr.Mark(0, 60)
	tr.PromoteIfDirtyBufferFractionExceeds(100, false)
	assert.True(t, tr.FullRedraw())
}

func TestDirtyTracker_DoesNotPromoteBelowThreshold(t *testing.T) {
	tr := NewDirtyTracker()
	tr.Mark(0, 10)
	tr.PromoteIfDirtyBufferFractionExceeds(100, false)
	assert.False(t, tr.FullRedraw())
}

func TestDirtyTracker_ForcedPromotesRegardless(t *testing.T) {
	tr := NewDirtyTracker()
	tr.PromoteIfDirtyBufferFractionExceeds(100, true)
	assert.True(t, tr.FullRedraw())
}

func TestDirtyTracker_ResetClearsFullAndIntervals(t *testing.T) {
	tr := NewDirtyTracker()
	tr.Mark(0, 10)
	tr.InvalidateAll()
	tr.Reset()
	assert.False(t, tr.FullRedraw())
	assert.Empty(t, tr.Intervals())
}

func TestDirtyTracker_InvalidateAllForcesFull(t *testing.T) {
	tr := NewDirtyTracker()
	tr.InvalidateAll()
	assert.True(t, tr.FullRedraw())
}
