package glgpu

import (
	"sync"
	"time"
)

// TimerScheduler delivers delayed callbacks to the goroutine that owns a
// Device. AfterFunc arms a time.Timer; when it fires the callback is
// queued, and it runs on the owner's next call to RunReady.
//
// The zero value is ready to use.
type TimerScheduler struct {
	mu      sync.Mutex
	ready   []func()
	pending int
}

// AfterFunc queues fn to become ready after d.
func (s *TimerScheduler) AfterFunc(d time.Duration, fn func()) {
	s.mu.Lock()
	s.pending++
	s.mu.Unlock()
	time.AfterFunc(d, func() {
		s.mu.Lock()
		s.ready = append(s.ready, fn)
		s.mu.Unlock()
	})
}

// RunReady runs the callbacks whose delay has elapsed and returns how many
// ran. Callbacks scheduled while it runs wait for a later call.
func (s *TimerScheduler) RunReady() int {
	s.mu.Lock()
	batch := s.ready
	s.ready = nil
	s.pending -= len(batch)
	s.mu.Unlock()

	for _, fn := range batch {
		fn()
	}
	return len(batch)
}

// Pending returns the number of callbacks that have not run yet.
func (s *TimerScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}
