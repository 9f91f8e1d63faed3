// apps/go-server/internal/clock/scheduler.go
//
// Cancellable task scheduler for a single game session.
//
// Every timer a session needs (defense interval, threat conversions, power-up
// expiry, minigame countdowns, shooter frames, display polling) is a task on
// one Scheduler. Tasks are tagged with a group so a whole concern can be
// cancelled at once, and CancelAll tears down everything on reset/end.
//
// The scheduler never starts goroutines. The owner calls RunDue from its own
// loop (HTTP ticker in production, a manual clock in tests), so callbacks run
// on the caller's goroutine while the caller holds whatever lock it needs.

package clock

import (
	"time"

	"github.com/zyedidia/generic/heap"
)

// TaskID identifies a scheduled task. Zero is never issued.
type TaskID uint64

type task struct {
	id       TaskID
	group    string
	due      time.Time
	interval time.Duration // >0 for recurring tasks
	fn       func()
	dead     bool
}

// Scheduler is a priority queue of timed callbacks. Not safe for concurrent
// use; the owning session serialises access.
type Scheduler struct {
	clock Clock
	queue *heap.Heap[*task]
	tasks map[TaskID]*task
	next  TaskID
}

// NewScheduler creates an empty scheduler reading time from c.
func NewScheduler(c Clock) *Scheduler {
	return &Scheduler{
		clock: c,
		queue: heap.New(func(a, b *task) bool {
			if a.due.Equal(b.due) {
				return a.id < b.id
			}
			return a.due.Before(b.due)
		}),
		tasks: make(map[TaskID]*task),
	}
}

// Now returns the scheduler's current time.
func (s *Scheduler) Now() time.Time { return s.clock.Now() }

// After runs fn once, d from now.
func (s *Scheduler) After(group string, d time.Duration, fn func()) TaskID {
	return s.add(group, s.clock.Now().Add(d), 0, fn)
}

// Every runs fn every d, first firing d from now.
func (s *Scheduler) Every(group string, d time.Duration, fn func()) TaskID {
	if d <= 0 {
		d = time.Millisecond
	}
	return s.add(group, s.clock.Now().Add(d), d, fn)
}

func (s *Scheduler) add(group string, due time.Time, interval time.Duration, fn func()) TaskID {
	s.next++
	t := &task{id: s.next, group: group, due: due, interval: interval, fn: fn}
	s.tasks[t.id] = t
	s.queue.Push(t)
	return t.id
}

// Cancel stops a task. It reports whether the task was still pending.
func (s *Scheduler) Cancel(id TaskID) bool {
	t, ok := s.tasks[id]
	if !ok {
		return false
	}
	t.dead = true
	delete(s.tasks, id)
	return true
}

// CancelGroup stops every pending task in group and returns how many.
func (s *Scheduler) CancelGroup(group string) int {
	n := 0
	for id, t := range s.tasks {
		if t.group == group {
			t.dead = true
			delete(s.tasks, id)
			n++
		}
	}
	return n
}

// CancelAll stops every pending task.
func (s *Scheduler) CancelAll() int {
	n := len(s.tasks)
	for id, t := range s.tasks {
		t.dead = true
		delete(s.tasks, id)
	}
	return n
}

// Pending reports whether the task is still scheduled.
func (s *Scheduler) Pending(id TaskID) bool {
	_, ok := s.tasks[id]
	return ok
}

// Len returns the number of live tasks, optionally restricted to one group.
func (s *Scheduler) Len(group string) int {
	if group == "" {
		return len(s.tasks)
	}
	n := 0
	for _, t := range s.tasks {
		if t.group == group {
			n++
		}
	}
	return n
}

// RunDue fires every task whose due time is at or before Now, in due order.
// Tasks scheduled by a callback that are already due run in the same call.
// Recurring tasks catch up one interval at a time. Returns the number of
// callbacks invoked.
func (s *Scheduler) RunDue() int {
	now := s.clock.Now()
	ran := 0
	for {
		t, ok := s.queue.Peek()
		if !ok || t.due.After(now) {
			return ran
		}
		s.queue.Pop()
		if t.dead {
			continue
		}
		if t.interval > 0 {
			t.due = t.due.Add(t.interval)
			s.queue.Push(t)
		} else {
			delete(s.tasks, t.id)
		}
		t.fn()
		ran++
	}
}
