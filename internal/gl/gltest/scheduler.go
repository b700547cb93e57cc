package gltest

import "time"

// Scheduler queues delayed callbacks until the test runs them. It
// satisfies webgl.Scheduler without real timers.
type Scheduler struct {
	queue   []func()
	Delays  []time.Duration
	Elapsed time.Duration
}

// AfterFunc queues fn. The delay is recorded but not waited for.
func (s *Scheduler) AfterFunc(d time.Duration, fn func()) {
	s.Delays = append(s.Delays, d)
	s.queue = append(s.queue, fn)
}

// Pending returns the number of queued callbacks.
func (s *Scheduler) Pending() int { return len(s.queue) }

// Step runs the callbacks queued before the call and returns how many ran.
// Callbacks they queue wait for the next Step.
func (s *Scheduler) Step() int {
	batch := s.queue
	s.queue = nil
	for i, fn := range batch {
		if i < len(s.Delays) {
			s.Elapsed += s.Delays[i]
		}
		fn()
	}
	s.Delays = s.Delays[len(batch):]
	return len(batch)
}

// Run steps until the queue is empty or limit steps have run, and returns
// the number of steps taken.
func (s *Scheduler) Run(limit int) int {
	steps := 0
	for steps < limit && len(s.queue) > 0 {
		s.Step()
		steps++
	}
	return steps
}
