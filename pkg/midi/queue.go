package midi

import (
	"context"
	"sync"
	"sync/atomic"
)

// DefaultQueueSize bounds the events waiting for the script
const DefaultQueueSize = 256

// Queue hands events from the driver's listener goroutine to the script
// goroutine. The listener never blocks: events beyond the bound are dropped
// and counted.
type Queue struct {
	mu      sync.Mutex
	events  []Event
	spare   []Event
	max     int
	dropped atomic.Uint64
	wake    chan struct{}
}

func NewQueue(max int) *Queue {
	if max <= 0 {
		max = DefaultQueueSize
	}
	return &Queue{
		events: make([]Event, 0, max),
		spare:  make([]Event, 0, max),
		max:    max,
		wake:   make(chan struct{}, 1),
	}
}

// Add appends e and reports whether it was queued
func (q *Queue) Add(e Event) bool {
	q.mu.Lock()
	if len(q.events) >= q.max {
		q.mu.Unlock()
		q.dropped.Add(1)
		return false
	}
	q.events = append(q.events, e)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
	return true
}

// Drain passes every queued event to fn in arrival order and returns the
// count. Events added while fn runs wait for the next Drain.
func (q *Queue) Drain(fn func(Event)) int {
	q.mu.Lock()
	batch := q.events
	q.events = q.spare[:0]
	q.mu.Unlock()

	for _, e := range batch {
		fn(e)
	}

	q.mu.Lock()
	q.spare = batch[:0]
	q.mu.Unlock()
	return len(batch)
}

// Run drains events into fn until ctx is done
func (q *Queue) Run(ctx context.Context, fn func(Event)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-q.wake:
			q.Drain(fn)
		}
	}
}

func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

// Dropped returns how many events were discarded because the queue was full
func (q *Queue) Dropped() uint64 {
	return q.dropped.Load()
}
