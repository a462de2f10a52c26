package event

import (
	"github.com/google/uuid"

	"github.com/berrym/lle/lleerr"
)

// Queue is a bounded priority queue of Events: primarily ordered by
// Priority, secondarily FIFO within the same priority (spec.md §4.4
// "Queue"). It is backed by one ring per priority level rather than a
// single heap — with only four priority levels, per-level FIFO rings
// give the same ordering guarantee with O(1) enqueue/dequeue instead of
// O(log n), and overflow-eviction of "the lowest-priority queued event"
// is a simple scan of the lowest non-empty level.
type Queue struct {
	levels   [4][]Event
	capacity int
	dropped  uint64
}

// NewQueue returns a Queue that holds at most capacity events in total
// across all priority levels.
func NewQueue(capacity int) *Queue {
	return &Queue{capacity: capacity}
}

// Dropped returns how many events have been evicted due to overflow.
func (q *Queue) Dropped() uint64 { return q.dropped }

// Len returns the total number of queued events.
func (q *Queue) Len() int {
	n := 0
	for _, l := range q.levels {
		n += len(l)
	}
	return n
}

// Push enqueues ev. When the queue is full, it evicts the oldest event
// at the lowest populated priority level strictly below ev's own level;
// if no such victim exists (the queue is full of events at ev's
// priority or higher), ev itself is dropped (spec.md §4.4: "never the
// incoming one if it is higher").
func (q *Queue) Push(ev Event) error {
	if q.Len() < q.capacity {
		q.levels[ev.Priority] = append(q.levels[ev.Priority], ev)
		return nil
	}
	for lvl := PriorityLow; lvl < ev.Priority; lvl++ {
		if len(q.levels[lvl]) > 0 {
			q.levels[lvl] = q.levels[lvl][1:]
			q.dropped++
			q.levels[ev.Priority] = append(q.levels[ev.Priority], ev)
			return nil
		}
	}
	q.dropped++
	return lleerr.New(lleerr.ResourceExhausted, "event.Queue.Push", "queue full at or above incoming priority")
}

// Pop removes and returns the highest-priority, oldest-enqueued event.
// The second return is false when the queue is empty.
func (q *Queue) Pop() (Event, bool) {
	for lvl := PriorityCritical; lvl >= PriorityLow; lvl-- {
		if len(q.levels[lvl]) > 0 {
			ev := q.levels[lvl][0]
			q.levels[lvl] = q.levels[lvl][1:]
			return ev, true
		}
	}
	return Event{}, false
}

// Cancel removes a pending event by ID before it has been dispatched
// (spec.md §4.4 "Cancellation"). Reports whether an event was found.
func (q *Queue) Cancel(id uuid.UUID) bool {
	for lvl := range q.levels {
		for i, ev := range q.levels[lvl] {
			if ev.ID == id {
				q.levels[lvl] = append(q.levels[lvl][:i], q.levels[lvl][i+1:]...)
				return true
			}
		}
	}
	return false
}
