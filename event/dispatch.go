package event

import (
	"log"

	"github.com/berrym/lle/lleerr"
)

// Stats accumulates dispatch failure counters (spec.md §4.4 "Failure
// semantics": handler and filter errors are logged and counted, never
// fatal to the loop).
type Stats struct {
	HandlerErrors uint64
	FilterErrors  uint64
	Blocked       uint64
}

// Dispatcher is the single-threaded cooperative event dispatcher
// (spec.md §4.4). It owns a Queue and Registry and drains the queue on
// demand via ProcessPending, never spawning goroutines or blocking on
// I/O itself.
type Dispatcher struct {
	queue    *Queue
	registry *Registry
	filters  []Filter
	preHook  PreHook
	postHook PostHook
	stats    Stats
}

// NewDispatcher wires a Queue and Registry together.
func NewDispatcher(queue *Queue, registry *Registry) *Dispatcher {
	return &Dispatcher{queue: queue, registry: registry}
}

// AddFilter appends a filter to the chain consulted before dispatch.
func (d *Dispatcher) AddFilter(f Filter) { d.filters = append(d.filters, f) }

// SetPreHook installs the pre-dispatch veto hook.
func (d *Dispatcher) SetPreHook(h PreHook) { d.preHook = h }

// SetPostHook installs the post-dispatch observation hook.
func (d *Dispatcher) SetPostHook(h PostHook) { d.postHook = h }

// Enqueue pushes ev onto the queue for later dispatch.
func (d *Dispatcher) Enqueue(ev Event) error { return d.queue.Push(ev) }

// Stats returns a copy of the accumulated failure counters.
func (d *Dispatcher) Stats() Stats { return d.stats }

// ProcessPending drains the queue, dispatching every event currently
// present (spec.md §4.4 "Dispatch algorithm"). Events enqueued by a
// handler during this call are processed in the same pass, preserving
// the "higher priorities preempt at the next dispatch boundary, not
// mid-handler" guarantee since each Pop always returns the
// highest-priority event available at that instant.
func (d *Dispatcher) ProcessPending() {
	for {
		ev, ok := d.queue.Pop()
		if !ok {
			return
		}
		d.dispatch(ev)
	}
}

func (d *Dispatcher) dispatch(ev Event) {
	for _, f := range d.filters {
		fr := f(ev)
		switch fr.Result {
		case ResultBlock:
			d.stats.Blocked++
			return
		case ResultError:
			d.stats.FilterErrors++
			log.Printf("event: filter error on %q event", ev.Type)
			return
		default:
			if fr.Transform != nil {
				ev.Payload = fr.Transform
			}
		}
	}

	if d.preHook != nil {
		if r := d.preHook(ev); r != ResultPass {
			if d.postHook != nil {
				d.postHook(ev, r)
			}
			return
		}
	}

	aggregate := ResultPass
	for _, reg := range d.registry.handlersFor(ev.Type) {
		r := reg.handler(ev)
		if r != ResultPass {
			aggregate = r
			if r == ResultError {
				d.stats.HandlerErrors++
				log.Printf("event: handler %q failed on %q event", reg.name, ev.Type)
			}
			break // first non-success short-circuits further handlers
		}
	}

	if d.postHook != nil {
		d.postHook(ev, aggregate)
	}
}

// Cancel removes a still-pending event before it reaches dispatch
// (spec.md §4.4 "Cancellation").
func (d *Dispatcher) Cancel(ev Event) error {
	if !d.queue.Cancel(ev.ID) {
		return lleerr.New(lleerr.StateError, "event.Dispatcher.Cancel", "event not found or already dispatched")
	}
	return nil
}
