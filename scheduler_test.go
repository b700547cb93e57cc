package glgpu

import (
	"testing"
	"time"
)

// waitReady drains s until want callbacks have run or the deadline passes.
func waitReady(t *testing.T, s *TimerScheduler, want int) int {
	t.Helper()
	ran := 0
	deadline := time.Now().Add(2 * time.Second)
	for ran < want && time.Now().Before(deadline) {
		ran += s.RunReady()
		time.Sleep(time.Millisecond)
	}
	return ran
}

func TestTimerScheduler_RunsOnOwner(t *testing.T) {
	var s TimerScheduler
	var order []int

	s.AfterFunc(time.Millisecond, func() { order = append(order, 1) })
	s.AfterFunc(time.Millisecond, func() { order = append(order, 2) })
	if got := s.Pending(); got != 2 {
		t.Errorf("Pending() = %d, want 2", got)
	}
	if got := waitReady(t, &s, 2); got != 2 {
		t.Fatalf("ran %d callbacks, want 2", got)
	}
	if len(order) != 2 {
		t.Errorf("order = %v, want two entries", order)
	}
	if got := s.Pending(); got != 0 {
		t.Errorf("Pending() = %d, want 0", got)
	}
}

func TestTimerScheduler_Reschedule(t *testing.T) {
	var s TimerScheduler
	polls := 0
	var poll func()
	poll = func() {
		polls++
		if polls < 3 {
			s.AfterFunc(time.Millisecond, poll)
		}
	}
	s.AfterFunc(time.Millisecond, poll)

	if got := waitReady(t, &s, 3); got != 3 {
		t.Fatalf("ran %d callbacks, want 3", got)
	}
	if polls != 3 {
		t.Errorf("polls = %d, want 3", polls)
	}
}

func TestTimerScheduler_DrivesReadBack(t *testing.T) {
	var s TimerScheduler
	d, _ := newTestDevice(t, WithScheduler(&s), WithPollInterval(time.Millisecond))
	b := mustBuffer(t, d, 4, readUsage)
	if err := d.WriteBuffer(b, 0, []byte{9, 8, 7, 6}); err != nil {
		t.Fatalf("WriteBuffer() error = %v", err)
	}
	f, err := d.ReadBufferAsync(b, 0, 4)
	if err != nil {
		t.Fatalf("ReadBufferAsync() error = %v", err)
	}
	waitReady(t, &s, 1)

	status, data, err := d.PollFuture(f)
	if status != FutureReady || err != nil {
		t.Fatalf("PollFuture() = %v, %v, want %v, nil", status, err, FutureReady)
	}
	if data[0] != 9 || data[3] != 6 {
		t.Errorf("PollFuture() data = %v, want [9 8 7 6]", data)
	}
}
