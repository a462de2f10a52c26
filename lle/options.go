package lle

import (
	"io"

	"github.com/berrym/lle/collab"
)

// Option configures a Session at construction time (functional options,
// matching the rest of this codebase's configuration style).
type Option func(*Session)

// WithInput sets the byte source the readline loop reads from (default
// os.Stdin).
func WithInput(r io.Reader) Option {
	return func(s *Session) { s.input = r }
}

// WithDisplayController attaches the mandatory external display
// controller (spec.md §6.3). Readline fails fast if this is never set.
func WithDisplayController(dc collab.DisplayController) Option {
	return func(s *Session) { s.controller = dc }
}

// WithAllocator attaches the mandatory arena/pool collaborator. Falls
// back to pool.NewArena if never set.
func WithAllocator(a collab.Allocator) Option {
	return func(s *Session) { s.allocator = a }
}

// WithSyntaxHighlighter attaches an optional per-pipeline-run
// highlighter.
func WithSyntaxHighlighter(h collab.SyntaxHighlighter) Option {
	return func(s *Session) { s.highlighter = h }
}

// WithCompletionSource attaches an optional Tab-completion collaborator.
func WithCompletionSource(c collab.CompletionSource) Option {
	return func(s *Session) { s.completion = c }
}

// WithHistoryStore attaches an optional Up/Down history collaborator.
func WithHistoryStore(h collab.HistoryStore) Option {
	return func(s *Session) { s.history = h }
}

// WithRenderCacheCapacity overrides the display bridge's render cache
// size (default 256 entries).
func WithRenderCacheCapacity(n int) Option {
	return func(s *Session) { s.cacheCapacity = n }
}

// WithKeymap overrides the default keybinding table.
func WithKeymap(km *Keymap) Option {
	return func(s *Session) { s.keymap = km }
}
