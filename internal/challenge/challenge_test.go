package challenge

import (
	"errors"
	"testing"
	"time"

	"github.com/robalobadob/netbreach/apps/go-server/internal/clock"
)

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type rig struct {
	clock   *clock.Manual
	sched   *clock.Scheduler
	wins    []Outcome
	losses  []Outcome
	updates int
}

func newRig() *rig {
	r := &rig{clock: clock.NewManual(epoch)}
	r.sched = clock.NewScheduler(r.clock)
	return r
}

func (r *rig) start(v Variant, seed uint64, difficulty int) {
	env := Env{Sched: r.sched, Seed: seed, OnUpdate: func() { r.updates++ }}
	v.Start(env, difficulty, Callbacks{
		OnSuccess: func(o Outcome) { r.wins = append(r.wins, o) },
		OnFailure: func(o Outcome) { r.losses = append(r.losses, o) },
	})
}

func (r *rig) advance(d time.Duration) {
	r.clock.Advance(d)
	r.sched.RunDue()
}

func (r *rig) outcomes() int { return len(r.wins) + len(r.losses) }

func TestModeCycle(t *testing.T) {
	m := ModePattern
	want := []Mode{ModeShooter, ModeCodeBreaker, ModePattern}
	for _, w := range want {
		m = m.Next()
		if m != w {
			t.Fatalf("Next = %s, want %s", m, w)
		}
	}
	if got, err := ParseMode(" CodeBreaker "); err != nil || got != ModeCodeBreaker {
		t.Fatalf("ParseMode = %q, %v", got, err)
	}
	if _, err := ParseMode("tetris"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestParamsScale(t *testing.T) {
	tests := []struct {
		d                         int
		patLen, codeLen, attempts int
		patTime                   time.Duration
		enemies                   int
		spawn                     time.Duration
	}{
		{1, 2, 3, 6, 9500 * time.Millisecond, 4, 1800 * time.Millisecond},
		{3, 4, 4, 6, 8500 * time.Millisecond, 6, 1400 * time.Millisecond},
		{6, 7, 5, 5, 7000 * time.Millisecond, 9, 800 * time.Millisecond},
		{10, 8, 6, 4, 5000 * time.Millisecond, 13, 500 * time.Millisecond},
		{0, 2, 3, 6, 9500 * time.Millisecond, 4, 1800 * time.Millisecond},
		{42, 8, 6, 4, 5000 * time.Millisecond, 13, 500 * time.Millisecond},
	}
	for _, tc := range tests {
		if got := PatternLength(tc.d); got != tc.patLen {
			t.Errorf("PatternLength(%d) = %d, want %d", tc.d, got, tc.patLen)
		}
		if got := PatternTime(tc.d); got != tc.patTime {
			t.Errorf("PatternTime(%d) = %v, want %v", tc.d, got, tc.patTime)
		}
		if got := CodeLength(tc.d); got != tc.codeLen {
			t.Errorf("CodeLength(%d) = %d, want %d", tc.d, got, tc.codeLen)
		}
		if got := CodeAttempts(tc.d); got != tc.attempts {
			t.Errorf("CodeAttempts(%d) = %d, want %d", tc.d, got, tc.attempts)
		}
		if got := ShooterEnemies(tc.d); got != tc.enemies {
			t.Errorf("ShooterEnemies(%d) = %d, want %d", tc.d, got, tc.enemies)
		}
		if got := ShooterSpawnInterval(tc.d); got != tc.spawn {
			t.Errorf("ShooterSpawnInterval(%d) = %v, want %v", tc.d, got, tc.spawn)
		}
	}
}

func TestNewReturnsVariantForMode(t *testing.T) {
	for _, m := range []Mode{ModePattern, ModeShooter, ModeCodeBreaker} {
		if got := New(m); got == nil {
			t.Fatalf("New(%s) = nil", m)
		}
	}
	r := newRig()
	v := New(ModeShooter)
	r.start(v, 1, 1)
	if v.Mode() != ModeShooter {
		t.Fatalf("Mode() = %s", v.Mode())
	}
}

func TestAbortSuppressesCallbacks(t *testing.T) {
	for _, m := range []Mode{ModePattern, ModeShooter, ModeCodeBreaker} {
		t.Run(string(m), func(t *testing.T) {
			r := newRig()
			v := New(m)
			r.start(v, 7, 5)
			v.Abort()
			r.advance(time.Minute)
			if r.outcomes() != 0 {
				t.Fatalf("aborted challenge reported %d outcomes", r.outcomes())
			}
			if r.sched.Len(Group) != 0 {
				t.Fatalf("aborted challenge left %d timers", r.sched.Len(Group))
			}
			if !v.Done() {
				t.Fatal("Done() = false after Abort")
			}
		})
	}
}

func TestWrongInputKindRejected(t *testing.T) {
	cases := []struct {
		mode Mode
		in   Input
	}{
		{ModePattern, GuessInput{Digits: []int{1, 2, 3}}},
		{ModeCodeBreaker, SymbolInput{Symbol: "◆"}},
		{ModeShooter, HintInput{}},
	}
	for _, tc := range cases {
		r := newRig()
		v := New(tc.mode)
		r.start(v, 3, 1)
		if err := v.Handle(tc.in); !errors.Is(err, ErrBadInput) {
			t.Errorf("%s: Handle(%T) = %v, want ErrBadInput", tc.mode, tc.in, err)
		}
	}
}
