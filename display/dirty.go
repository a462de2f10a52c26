package display

// dirtyMergeThreshold is how close two dirty intervals must be (in
// bytes) before the tracker merges them into one (spec.md §4.5.3).
const dirtyMergeThreshold = 64

// fullRedrawFraction is the fraction of the buffer that must be dirty
// before the tracker promotes to a full-buffer redraw rather than
// tracking ever more granular spans (spec.md §4.5.3).
const fullRedrawFraction = 0.5

// Interval is a half-open byte range [Start, End) that changed.
type Interval struct {
	Start, End int
}

// DirtyTracker accumulates edited byte ranges between renders and
// decides whether the bridge should do a partial or full-buffer render.
type DirtyTracker struct {
	intervals []Interval
	full      bool
}

// NewDirtyTracker returns an empty tracker.
func NewDirtyTracker() *DirtyTracker { return &DirtyTracker{} }

// Mark records that [start, end) changed, merging it with any existing
// interval within dirtyMergeThreshold bytes.
func (t *DirtyTracker) Mark(start, end int) {
	if t.full {
		return
	}
	iv := Interval{Start: start, End: end}
	merged := make([]Interval, 0, len(t.intervals)+1)
	for _, existing := range t.intervals {
		if overlapsOrNear(existing, iv, dirtyMergeThreshold) {
			iv = union(existing, iv)
			continue
		}
		merged = append(merged, existing)
	}
	merged = append(merged, iv)
	t.intervals = merged
}

// PromoteIfDirtyBufferFractionExceeds checks accumulated dirty coverage
// against bufferLen and switches the tracker to full-redraw mode if the
// fullRedrawFraction threshold is exceeded, or if forced is true (e.g.
// under memory pressure).
func (t *DirtyTracker) PromoteIfDirtyBufferFractionExceeds(bufferLen int, forced bool) {
	if t.full {
		return
	}
	if forced {
		t.full = true
		return
	}
	if bufferLen == 0 {
		return
	}
	dirty := 0
	for _, iv := range t.intervals {
		dirty += iv.End - iv.Start
	}
	if float64(dirty) > fullRedrawFraction*float64(bufferLen) {
		t.full = true
	}
}

// FullRedraw reports whether a full-buffer render is required.
func (t *DirtyTracker) FullRedraw() bool { return t.full }

// Intervals returns the current set of dirty intervals. Meaningless
// once FullRedraw reports true.
func (t *DirtyTracker) Intervals() []Interval { return t.intervals }

// Reset clears all tracked dirtiness after a render has completed.
func (t *DirtyTracker) Reset() {
	t.intervals = t.intervals[:0]
	t.full = false
}

// InvalidateAll forces the next render to be a full redraw: theme
// change, window resize, or prompt change (spec.md §4.5.2).
func (t *DirtyTracker) InvalidateAll() { t.full = true }

func overlapsOrNear(a, b Interval, threshold int) bool {
	return a.Start-threshold <= b.End && b.Start-threshold <= a.End
}

func union(a, b Interval) Interval {
	start := a.Start
	if b.Start < start {
		start = b.Start
	}
	end := a.End
	if b.End > end {
		end = b.End
	}
	return Interval{Start: start, End: end}
}
