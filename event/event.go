// Package event implements the in-process priority event system: a
// bounded priority queue, a handler registry, and a single-threaded
// cooperative dispatcher with filters and pre/post-dispatch hooks.
package event

import "github.com/google/uuid"

// Priority orders events both in the queue and, implicitly, at
// dispatch boundaries (spec.md §4.4 "Queue").
type Priority int

const (
	PriorityLow Priority = iota
	PriorityNormal
	PriorityHigh
	PriorityCritical
)

// Type identifies what an Event represents; handlers register against a
// Type (spec.md §4.4 "Registration").
type Type string

// Event is a single typed occurrence carried through the queue and
// dispatcher. Payload is handler-defined; the event system never
// inspects it.
type Event struct {
	ID       uuid.UUID
	Type     Type
	Priority Priority
	Payload  any
}

// New creates an Event with a fresh ID.
func New(typ Type, priority Priority, payload any) Event {
	return Event{ID: uuid.New(), Type: typ, Priority: priority, Payload: payload}
}

// Result is what a filter, hook, or handler returns from processing an
// event (spec.md §4.4 "Dispatch algorithm").
type Result int

const (
	ResultPass Result = iota
	ResultBlock
	ResultError
)

// FilterResult additionally allows a filter to replace the event's
// payload in place of simply passing or blocking it.
type FilterResult struct {
	Result    Result
	Transform any // replacement payload, meaningful only when Result == ResultPass and non-nil
}

// Filter inspects (and may transform or block) an event before it
// reaches any handler.
type Filter func(Event) FilterResult

// PreHook runs before any handler is invoked; returning anything other
// than ResultPass vetoes the dispatch entirely (spec.md §4.4 step 2).
type PreHook func(Event) Result

// PostHook runs after all handlers have been invoked (or the dispatch
// was vetoed), receiving the aggregate result (spec.md §4.4 step 4).
type PostHook func(Event, Result)

// Handler processes one event. name and user data are carried by the
// Registration, not the callback signature, so the same function value
// can be registered multiple times under different names.
type Handler func(Event) Result
