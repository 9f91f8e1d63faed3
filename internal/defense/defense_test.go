package defense

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/robalobadob/netbreach/apps/go-server/internal/board"
	"github.com/robalobadob/netbreach/apps/go-server/internal/clock"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

type harness struct {
	clock    *clock.Manual
	sched    *clock.Scheduler
	board    *board.Board
	def      *Scheduler
	alive    bool
	warned   []int
	secured  []int
	deployed []int
	done     int
}

func newHarness(t *testing.T, cfg Config) *harness {
	t.Helper()
	h := &harness{clock: clock.NewManual(epoch), alive: true}
	h.sched = clock.NewScheduler(h.clock)
	h.board = board.Generate(rand.New(rand.NewPCG(11, 12)))
	h.def = New(cfg, h.sched, h.board, rand.New(rand.NewPCG(1, 2)), Hooks{
		Alive:      func() bool { return h.alive },
		Threatened: func(n int) { h.warned = append(h.warned, n) },
		Secured:    func(n int) { h.secured = append(h.secured, n) },
		Deployed:   func(n int) { h.deployed = append(h.deployed, n) },
		Exhausted:  func() { h.done++ },
	})
	return h
}

func (h *harness) advance(d time.Duration) {
	h.clock.Advance(d)
	h.sched.RunDue()
}

func TestSelectPrefersNodesNextToHackedTerritory(t *testing.T) {
	b := board.Generate(rand.New(rand.NewPCG(21, 22)))
	s := b.Starter()
	if _, err := b.MarkHacked(s); err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewPCG(5, 5))
	for i := 0; i < 100; i++ {
		n, ok := Select(b, rng, true)
		if !ok {
			t.Fatal("no candidate")
		}
		if !board.Near(n, s) {
			t.Fatalf("picked %d which does not touch hacked node %d", n, s)
		}
		if !b.ThreatEligible(n) {
			t.Fatalf("picked ineligible node %d", n)
		}
	}
}

func TestSelectNeverPicksProtectedNodes(t *testing.T) {
	b := board.Generate(rand.New(rand.NewPCG(8, 9)))
	rng := rand.New(rand.NewPCG(1, 1))
	for i := 0; i < 200; i++ {
		n, ok := Select(b, rng, true)
		if !ok {
			t.Fatal("no candidate")
		}
		if n == b.Starter() || b.IsValuable(n) || b.IsFirewall(n) {
			t.Fatalf("picked protected node %d", n)
		}
	}
}

func TestThreatThenConvert(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	h.def.Start()

	h.advance(15 * time.Second)
	if len(h.warned) != 1 {
		t.Fatalf("warned = %v, want one node", h.warned)
	}
	n := h.warned[0]
	if !h.board.IsThreatened(n) {
		t.Fatalf("node %d should be threatened", n)
	}
	h.advance(4999 * time.Millisecond)
	if h.board.IsFirewall(n) {
		t.Fatal("converted before warning time elapsed")
	}
	h.advance(time.Millisecond)
	if !h.board.IsFirewall(n) || h.board.IsThreatened(n) {
		t.Fatalf("node %d should be a firewall now", n)
	}
	if h.def.Conversions() != 1 || len(h.deployed) != 1 {
		t.Fatalf("conversions = %d, deployed = %v", h.def.Conversions(), h.deployed)
	}
	if h.board.FirewallCount() != board.FirewallCount+1 {
		t.Fatalf("firewalls = %d", h.board.FirewallCount())
	}
}

func TestHackDuringWarningSecuresNode(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	h.def.Start()
	h.advance(15 * time.Second)
	n := h.warned[0]

	h.advance(2 * time.Second)
	if _, err := h.board.MarkHacked(n); err != nil {
		t.Fatal(err)
	}
	h.advance(3 * time.Second)

	if h.board.IsFirewall(n) {
		t.Fatal("hacked node became a firewall")
	}
	if !h.board.IsHacked(n) || h.board.IsThreatened(n) {
		t.Fatalf("node %d should be hacked and no longer threatened", n)
	}
	if len(h.secured) != 1 || h.secured[0] != n || h.def.Conversions() != 0 {
		t.Fatalf("secured = %v, conversions = %d", h.secured, h.def.Conversions())
	}
}

func TestStopsAtMaxDefenses(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxDefenses = 2
	h := newHarness(t, cfg)
	h.def.Start()

	for i := 0; i < 10; i++ {
		h.advance(15 * time.Second)
	}
	if h.def.Conversions() != 2 {
		t.Fatalf("conversions = %d, want 2", h.def.Conversions())
	}
	if !h.def.Exhausted() || h.def.Running() || h.done != 1 {
		t.Fatalf("exhausted=%v running=%v done=%d", h.def.Exhausted(), h.def.Running(), h.done)
	}
	h.def.Resume()
	if h.def.Running() {
		t.Fatal("exhausted scheduler must not resume")
	}
}

func TestFreezeSuspendsIntervalOnly(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	h.def.Start()
	h.advance(15 * time.Second)
	n := h.warned[0]

	h.def.Freeze()
	h.advance(5 * time.Second)
	if !h.board.IsFirewall(n) {
		t.Fatal("in-flight conversion should still complete during a freeze")
	}
	h.advance(time.Minute)
	if len(h.warned) != 1 {
		t.Fatalf("interval kept running while frozen: %v", h.warned)
	}

	h.def.Resume()
	h.advance(15 * time.Second)
	if len(h.warned) != 2 {
		t.Fatalf("resume did not restart the interval: %v", h.warned)
	}
}

func TestDeadSessionIgnoresTimers(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	h.def.Start()
	h.advance(15 * time.Second)
	h.alive = false
	h.advance(time.Minute)
	if len(h.deployed) != 0 || len(h.warned) != 1 {
		t.Fatalf("callbacks ran after teardown: warned=%v deployed=%v", h.warned, h.deployed)
	}
	h.def.Stop()
	if h.sched.Len(Group) != 0 {
		t.Fatalf("Stop left %d defense tasks", h.sched.Len(Group))
	}
}
