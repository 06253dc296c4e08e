package engine

import (
	"time"

	"github.com/zyedidia/generic/heap"
)

// Task is a pending deferred callback.
type Task interface {
	// Stop cancels the task. It reports false if the task already ran or was stopped.
	Stop() bool
}

// Scheduler runs single-shot callbacks after a delay. Implementations must
// invoke callbacks on the same goroutine that drives the engine.
type Scheduler interface {
	Schedule(delay time.Duration, fn func()) Task
}

type manualTask struct {
	owner   *ManualScheduler
	at      time.Duration
	seq     uint64
	fn      func()
	done    bool
	stopped bool
}

func (t *manualTask) Stop() bool {
	if t.done || t.stopped {
		return false
	}
	t.stopped = true
	t.owner.live--
	return true
}

// ManualScheduler is a virtual clock. Nothing runs until Advance is called,
// which makes transitions deterministic in tests and headless runs.
type ManualScheduler struct {
	now   time.Duration
	seq   uint64
	live  int
	queue *heap.Heap[*manualTask]
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{
		queue: heap.New[*manualTask](func(a, b *manualTask) bool {
			if a.at == b.at {
				return a.seq < b.seq
			}
			return a.at < b.at
		}),
	}
}

func (s *ManualScheduler) Schedule(delay time.Duration, fn func()) Task {
	if delay < 0 {
		delay = 0
	}
	s.seq++
	s.live++
	t := &manualTask{owner: s, at: s.now + delay, seq: s.seq, fn: fn}
	s.queue.Push(t)
	return t
}

// Now returns the virtual time elapsed since creation.
func (s *ManualScheduler) Now() time.Duration {
	return s.now
}

// Pending returns the number of scheduled tasks that have not run or been stopped.
func (s *ManualScheduler) Pending() int {
	return s.live
}

// Advance moves the clock forward by d, running every task that comes due in
// order. Tasks scheduled by a callback run in the same call if they fall
// inside the window.
func (s *ManualScheduler) Advance(d time.Duration) {
	until := s.now + d
	for {
		t, ok := s.queue.Peek()
		if !ok || t.at > until {
			break
		}
		s.queue.Pop()
		if t.stopped {
			continue
		}
		s.now = t.at
		t.done = true
		s.live--
		t.fn()
	}
	s.now = until
}

// RunAll runs tasks until none remain.
func (s *ManualScheduler) RunAll() {
	for {
		t, ok := s.queue.Peek()
		if !ok {
			return
		}
		s.Advance(t.at - s.now)
	}
}
