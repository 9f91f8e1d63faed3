package clock

import (
	"testing"
	"time"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestAfterFiresOnceWhenDue(t *testing.T) {
	mc := NewManual(epoch)
	s := NewScheduler(mc)
	fired := 0
	s.After("a", 5*time.Second, func() { fired++ })

	mc.Advance(4999 * time.Millisecond)
	if n := s.RunDue(); n != 0 || fired != 0 {
		t.Fatalf("fired early: ran=%d fired=%d", n, fired)
	}
	mc.Advance(time.Millisecond)
	s.RunDue()
	mc.Advance(time.Hour)
	s.RunDue()
	if fired != 1 {
		t.Fatalf("fired = %d, want 1", fired)
	}
	if s.Len("") != 0 {
		t.Fatalf("one-shot task still pending")
	}
}

func TestEveryCatchesUpInOrder(t *testing.T) {
	mc := NewManual(epoch)
	s := NewScheduler(mc)
	var order []string
	s.Every("tick", time.Second, func() { order = append(order, "tick") })
	s.After("once", 1500*time.Millisecond, func() { order = append(order, "once") })

	mc.Advance(3 * time.Second)
	s.RunDue()
	want := []string{"tick", "once", "tick", "tick"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestCancelGroupAndAll(t *testing.T) {
	mc := NewManual(epoch)
	s := NewScheduler(mc)
	fired := map[string]int{}
	s.Every("defense", time.Second, func() { fired["defense"]++ })
	s.After("powerup", time.Second, func() { fired["powerup"]++ })
	id := s.After("challenge", time.Second, func() { fired["challenge"]++ })

	if !s.Cancel(id) || s.Cancel(id) {
		t.Fatal("Cancel should succeed once")
	}
	if n := s.CancelGroup("defense"); n != 1 {
		t.Fatalf("CancelGroup = %d, want 1", n)
	}
	mc.Advance(2 * time.Second)
	s.RunDue()
	if fired["defense"] != 0 || fired["challenge"] != 0 || fired["powerup"] != 1 {
		t.Fatalf("fired = %v", fired)
	}

	s.Every("defense", time.Second, func() { fired["defense"]++ })
	s.CancelAll()
	mc.Advance(time.Minute)
	if n := s.RunDue(); n != 0 {
		t.Fatalf("RunDue after CancelAll ran %d tasks", n)
	}
}

func TestTaskCanCancelItselfAndScheduleMore(t *testing.T) {
	mc := NewManual(epoch)
	s := NewScheduler(mc)
	count := 0
	var id TaskID
	id = s.Every("loop", time.Second, func() {
		count++
		if count == 2 {
			s.Cancel(id)
			s.After("follow", 0, func() { count += 10 })
		}
	})
	mc.Advance(5 * time.Second)
	s.RunDue()
	if count != 12 {
		t.Fatalf("count = %d, want 12", count)
	}
}
