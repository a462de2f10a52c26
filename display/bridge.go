package display

import (
	"github.com/berrym/lle/buffer"
	"github.com/berrym/lle/collab"
	"github.com/berrym/lle/lleerr"
	"github.com/berrym/lle/perf"
)

// Bridge converts (buffer, cursor) into a RenderOutput and submits it
// to the external display controller (spec.md §4.5). It owns the
// render cache and dirty tracker; the controller, and optionally a
// syntax highlighter, are supplied by the caller.
type Bridge struct {
	controller  collab.DisplayController
	highlighter collab.SyntaxHighlighter
	alloc       collab.Allocator
	cache       *Cache
	dirty       *DirtyTracker
	hist        *perf.Histogram
	promptHash  uint64
}

// NewBridge wires a DisplayController into a Bridge with a cache of
// the given capacity. highlighter may be nil. alloc backs the
// per-refresh formatted-content buffers (spec.md §6.3).
func NewBridge(controller collab.DisplayController, highlighter collab.SyntaxHighlighter, alloc collab.Allocator, cacheCapacity int) *Bridge {
	return &Bridge{
		controller:  controller,
		highlighter: highlighter,
		alloc:       alloc,
		cache:       NewCache(cacheCapacity),
		dirty:       NewDirtyTracker(),
		hist:        perf.NewHistogram(),
	}
}

// MarkDirty records an edited byte range since the last render.
func (br *Bridge) MarkDirty(start, end int) { br.dirty.Mark(start, end) }

// InvalidateAll drops the cache and forces a full redraw: theme
// change, window resize, or prompt change (spec.md §4.5.2, §4.5.6).
func (br *Bridge) InvalidateAll() {
	br.cache.InvalidateAll()
	br.dirty.InvalidateAll()
}

// Stats exposes per-stage timing for diagnostics.
func (br *Bridge) Stats() *perf.Histogram { return br.hist }

// Render runs the pipeline (or serves a cache hit) and returns the
// RenderOutput without submitting it — used by tests and by Refresh.
func (br *Bridge) Render(b *buffer.Buffer, promptContent []byte) (RenderOutput, error) {
	stop := br.hist.Timer("display.preprocess")
	pre := preprocess(b)
	stop()

	br.promptHash = fnvHash(promptContent)
	if out, ok := br.cache.Lookup(pre.bufferHash, pre.cursorHash, br.promptHash); ok {
		out.FromCache = true
		return out, nil
	}

	metrics, err := br.controller.PromptMetrics()
	if err != nil {
		return fallbackRender(br.alloc, b), nil
	}

	stopSyntax := br.hist.Timer("display.syntax")
	spans, err := syntaxStage(br.highlighter, pre.text)
	stopSyntax()
	if err != nil {
		return fallbackRender(br.alloc, b), nil
	}

	stopFormat := br.hist.Timer("display.format")
	content := formatStage(br.alloc, pre.text, spans)
	stopFormat()

	stopCompose := br.hist.Timer("display.compose")
	out := composeStage(content, pre.cursor, metrics)
	stopCompose()

	br.cache.Store(pre.bufferHash, pre.cursorHash, br.promptHash, out)
	br.dirty.PromoteIfDirtyBufferFractionExceeds(len(pre.text), false)
	return out, nil
}

// Refresh runs Render and submits the result to the controller,
// publishing a redraw event and draining the controller's own pending
// queue so the redraw completes before returning (spec.md §4.5.6). The
// refresh happens unconditionally, even for an empty buffer, so the
// prompt appears on session entry.
func (br *Bridge) Refresh(b *buffer.Buffer, promptContent []byte) error {
	const op = "display.Bridge.Refresh"

	if err := br.controller.SetPromptText(promptContent); err != nil {
		return lleerr.Wrap(lleerr.CollaboratorFailure, op, err)
	}

	out, err := br.Render(b, promptContent)
	if err != nil {
		return lleerr.Wrap(lleerr.CollaboratorFailure, op, err)
	}

	if !out.FromCache {
		br.dirty.Reset()
	}

	if err := br.submitWithRetry(out.Content); err != nil {
		return lleerr.Wrap(lleerr.CollaboratorFailure, op, err)
	}
	if err := br.controller.PublishRedrawEvent(); err != nil {
		return lleerr.Wrap(lleerr.CollaboratorFailure, op, err)
	}
	if err := br.controller.ProcessPendingEvents(); err != nil {
		return lleerr.Wrap(lleerr.CollaboratorFailure, op, err)
	}
	if err := br.controller.TerminalControl().MoveCursorToColumn(out.CursorCol); err != nil {
		return lleerr.Wrap(lleerr.CollaboratorFailure, op, err)
	}
	return nil
}

// submitWithRetry submits content once, retrying exactly once on
// failure before surfacing an error to the caller (spec.md §4.5.7).
func (br *Bridge) submitWithRetry(content []byte) error {
	err := br.controller.SubmitCommandText(content)
	if err == nil {
		return nil
	}
	return br.controller.SubmitCommandText(content)
}
