// Package netstack is the cooperative event queue of the node. Library
// goroutines (the broker client, the resolver) never touch node state;
// they Post a closure, and the loop goroutine runs it from Poll. Handlers
// therefore run one at a time, on the same goroutine as the loop body.
package netstack

import "sync/atomic"

// DefaultDepth bounds the number of undelivered events.
const DefaultDepth = 64

type Stack struct {
	events    chan func()
	delivered atomic.Uint64
}

func New(depth int) *Stack {
	if depth <= 0 {
		depth = DefaultDepth
	}
	return &Stack{events: make(chan func(), depth)}
}

// Post queues fn for delivery on the next Poll. It may be called from any
// goroutine and blocks only while the queue is full.
func (s *Stack) Post(fn func()) {
	s.events <- fn
}

// Poll runs every event queued so far and returns how many ran. It never
// waits for new events. Events posted by a running handler are left for the
// next Poll.
func (s *Stack) Poll() int {
	n := len(s.events)
	for i := 0; i < n; i++ {
		fn := <-s.events
		fn()
	}
	s.delivered.Add(uint64(n))
	return n
}

// Pending reports the number of queued events.
func (s *Stack) Pending() int { return len(s.events) }

// Delivered reports the number of events run since New.
func (s *Stack) Delivered() uint64 { return s.delivered.Load() }
