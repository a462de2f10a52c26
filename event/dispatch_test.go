package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_PopOrdersByPriorityThenFIFO(t *testing.T) {
	q := NewQueue(10)
	require.NoError(t, q.Push(New("a", PriorityNormal, 1)))
	require.NoError(t, q.Push(New("b", PriorityHigh, 2)))
	require.NoError(t, q.Push(New("c", PriorityNormal, 3)))

	ev, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, 2, ev.Payload) // high priority first

	ev, ok = q.Pop()
	require.True(t, ok)
	assert.Equal(t, 1, ev.Payload) // then normal, FIFO order

	ev, ok = q.Pop()
	require.True(t, ok)
	assert.Equal(t, 3, ev.Payload)
}

func TestQueue_OverflowDropsLowestPriority(t *testing.T) {
	q := NewQueue(2)
	require.NoError(t, q.Push(New("a", PriorityLow, 1)))
	require.NoError(t, q.Push(New("b", PriorityNormal, 2)))
	require.NoError(t, q.Push(New("c", PriorityHigh, 3))) // should evict the low-priority one

	assert.Equal(t, uint64(1), q.Dropped())
	ev, _ := q.Pop()
	assert.Equal(t, 3, ev.Payload)
	ev, _ = q.Pop()
	assert.Equal(t, 2, ev.Payload)
	_, ok := q.Pop()
	assert.False(t, ok)
}

func TestQueue_OverflowDropsIncomingWhenNoLowerVictim(t *testing.T) {
	q := NewQueue(1)
	require.NoError(t, q.Push(New("a", PriorityHigh, 1)))
	err := q.Push(New("b", PriorityHigh, 2))
	assert.Error(t, err)

	ev, _ := q.Pop()
	assert.Equal(t, 1, ev.Payload)
}

func TestDispatcher_HandlersFireInRegistrationOrderWithinPriority(t *testing.T) {
	q := NewQueue(10)
	reg := NewRegistry()
	var order []string
	reg.Register("t", "first", PriorityNormal, nil, func(Event) Result {
		order = append(order, "first")
		return ResultPass
	})
	reg.Register("t", "second", PriorityNormal, nil, func(Event) Result {
		order = append(order, "second")
		return ResultPass
	})
	d := NewDispatcher(q, reg)
	require.NoError(t, d.Enqueue(New("t", PriorityNormal, nil)))
	d.ProcessPending()

	assert.Equal(t, []string{"first", "second"}, order)
}

func TestDispatcher_HigherPriorityHandlerRunsFirst(t *testing.T) {
	q := NewQueue(10)
	reg := NewRegistry()
	var order []string
	reg.Register("t", "low", PriorityLow, nil, func(Event) Result {
		order = append(order, "low")
		return ResultPass
	})
	reg.Register("t", "high", PriorityCritical, nil, func(Event) Result {
		order = append(order, "high")
		return ResultPass
	})
	d := NewDispatcher(q, reg)
	require.NoError(t, d.Enqueue(New("t", PriorityNormal, nil)))
	d.ProcessPending()

	assert.Equal(t, []string{"high", "low"}, order)
}

func TestDispatcher_FirstNonSuccessShortCircuits(t *testing.T) {
	q := NewQueue(10)
	reg := NewRegistry()
	var ran []string
	reg.Register("t", "a", PriorityHigh, nil, func(Event) Result {
		ran = append(ran, "a")
		return ResultBlock
	})
	reg.Register("t", "b", PriorityNormal, nil, func(Event) Result {
		ran = append(ran, "b")
		return ResultPass
	})
	d := NewDispatcher(q, reg)
	require.NoError(t, d.Enqueue(New("t", PriorityNormal, nil)))
	d.ProcessPending()

	assert.Equal(t, []string{"a"}, ran)
}

func TestDispatcher_FilterBlocksEvent(t *testing.T) {
	q := NewQueue(10)
	reg := NewRegistry()
	fired := false
	reg.Register("t", "h", PriorityNormal, nil, func(Event) Result {
		fired = true
		return ResultPass
	})
	d := NewDispatcher(q, reg)
	d.AddFilter(func(Event) FilterResult { return FilterResult{Result: ResultBlock} })
	require.NoError(t, d.Enqueue(New("t", PriorityNormal, nil)))
	d.ProcessPending()

	assert.False(t, fired)
	assert.Equal(t, uint64(1), d.Stats().Blocked)
}

func TestDispatcher_FilterTransformsPayload(t *testing.T) {
	q := NewQueue(10)
	reg := NewRegistry()
	var got any
	reg.Register("t", "h", PriorityNormal, nil, func(ev Event) Result {
		got = ev.Payload
		return ResultPass
	})
	d := NewDispatcher(q, reg)
	d.AddFilter(func(Event) FilterResult { return FilterResult{Result: ResultPass, Transform: "transformed"} })
	require.NoError(t, d.Enqueue(New("t", PriorityNormal, "original")))
	d.ProcessPending()

	assert.Equal(t, "transformed", got)
}

func TestDispatcher_PreHookVetoesDispatch(t *testing.T) {
	q := NewQueue(10)
	reg := NewRegistry()
	fired := false
	reg.Register("t", "h", PriorityNormal, nil, func(Event) Result {
		fired = true
		return ResultPass
	})
	d := NewDispatcher(q, reg)
	d.SetPreHook(func(Event) Result { return ResultBlock })
	require.NoError(t, d.Enqueue(New("t", PriorityNormal, nil)))
	d.ProcessPending()

	assert.False(t, fired)
}

func TestDispatcher_PostHookReceivesAggregateResult(t *testing.T) {
	q := NewQueue(10)
	reg := NewRegistry()
	reg.Register("t", "h", PriorityNormal, nil, func(Event) Result { return ResultError })
	d := NewDispatcher(q, reg)
	var got Result
	d.SetPostHook(func(_ Event, r Result) { got = r })
	require.NoError(t, d.Enqueue(New("t", PriorityNormal, nil)))
	d.ProcessPending()

	assert.Equal(t, ResultError, got)
	assert.Equal(t, uint64(1), d.Stats().HandlerErrors)
}

func TestDispatcher_CancelRemovesPendingEvent(t *testing.T) {
	q := NewQueue(10)
	reg := NewRegistry()
	fired := false
	reg.Register("t", "h", PriorityNormal, nil, func(Event) Result {
		fired = true
		return ResultPass
	})
	d := NewDispatcher(q, reg)
	ev := New("t", PriorityNormal, nil)
	require.NoError(t, d.Enqueue(ev))
	require.NoError(t, d.Cancel(ev))
	d.ProcessPending()

	assert.False(t, fired)
}
