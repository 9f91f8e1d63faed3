// apps/go-server/internal/defense/defense.go
//
// Network defense system: turns safe nodes into firewalls over time.
//
// Per node: Safe → Threatened → Firewall, with Threatened → Safe when the
// player hacks the node during the warning window.
//
// Every ConversionInterval the scheduler threatens one eligible node, biased
// towards nodes touching hacked territory, and converts it WarningTime later.
// After MaxDefenses conversions it stops for good. A freeze suspends the
// interval (not in-flight conversions); resume starts a fresh interval.
//
// All timing goes through the owning session's clock.Scheduler under the
// "defense" group so a session teardown cancels everything here.

package defense

import (
	"math/rand/v2"
	"time"

	"github.com/robalobadob/netbreach/apps/go-server/internal/board"
	"github.com/robalobadob/netbreach/apps/go-server/internal/clock"
)

// Group is the scheduler task group used for every defense timer.
const Group = "defense"

// Config tunes the defense system.
type Config struct {
	Enabled            bool
	ConversionInterval time.Duration
	WarningTime        time.Duration
	MaxDefenses        int
	SpreadFromHacked   bool
}

// DefaultConfig returns the standard tuning.
func DefaultConfig() Config {
	return Config{
		Enabled:            true,
		ConversionInterval: 15 * time.Second,
		WarningTime:        5 * time.Second,
		MaxDefenses:        20,
		SpreadFromHacked:   true,
	}
}

// Hooks are called as the defense state changes. Alive gates every timer
// callback; the rest are optional.
type Hooks struct {
	Alive      func() bool
	Threatened func(node int)
	Secured    func(node int)
	Deployed   func(node int)
	Exhausted  func()
}

// Scheduler drives conversions for one board.
type Scheduler struct {
	cfg   Config
	sched *clock.Scheduler
	board *board.Board
	rng   *rand.Rand
	hooks Hooks

	interval    clock.TaskID
	running     bool
	exhausted   bool
	conversions int
}

// New wires a defense scheduler to a board. It does not start it.
func New(cfg Config, sched *clock.Scheduler, b *board.Board, rng *rand.Rand, hooks Hooks) *Scheduler {
	return &Scheduler{cfg: cfg, sched: sched, board: b, rng: rng, hooks: hooks}
}

// Start begins the conversion interval. No-op when disabled, already
// running, or exhausted.
func (d *Scheduler) Start() {
	if !d.cfg.Enabled || d.running || d.exhausted {
		return
	}
	d.running = true
	d.interval = d.sched.Every(Group, d.cfg.ConversionInterval, d.step)
}

// Freeze suspends the interval. Conversions already counting down continue.
func (d *Scheduler) Freeze() {
	if !d.running {
		return
	}
	d.sched.Cancel(d.interval)
	d.running = false
}

// Resume restarts a fresh interval after a freeze.
func (d *Scheduler) Resume() { d.Start() }

// Stop cancels the interval and every pending conversion.
func (d *Scheduler) Stop() {
	d.sched.CancelGroup(Group)
	d.running = false
}

func (d *Scheduler) Running() bool    { return d.running }
func (d *Scheduler) Exhausted() bool  { return d.exhausted }
func (d *Scheduler) Conversions() int { return d.conversions }

func (d *Scheduler) alive() bool {
	return d.hooks.Alive == nil || d.hooks.Alive()
}

// step is one interval tick.
func (d *Scheduler) step() {
	if !d.alive() {
		return
	}
	if d.conversions >= d.cfg.MaxDefenses {
		d.exhausted = true
		d.Freeze()
		if d.hooks.Exhausted != nil {
			d.hooks.Exhausted()
		}
		return
	}
	target, ok := Select(d.board, d.rng, d.cfg.SpreadFromHacked)
	if !ok {
		return
	}
	d.board.Threaten(target)
	if d.hooks.Threatened != nil {
		d.hooks.Threatened(target)
	}
	d.sched.After(Group, d.cfg.WarningTime, func() { d.convert(target) })
}

// convert resolves a threat once the warning window has passed.
func (d *Scheduler) convert(node int) {
	if !d.alive() {
		return
	}
	if d.board.IsHacked(node) {
		d.board.ClearThreat(node)
		if d.hooks.Secured != nil {
			d.hooks.Secured(node)
		}
		return
	}
	if err := d.board.AddFirewall(node); err != nil {
		return
	}
	d.conversions++
	if d.hooks.Deployed != nil {
		d.hooks.Deployed(node)
	}
}

// Select picks the next node to threaten. Eligible nodes touching a hacked
// node (8-neighbourhood) have priority 2, the rest priority 1; ties among the
// top priority are broken uniformly at random.
func Select(b *board.Board, rng *rand.Rand, spread bool) (int, bool) {
	hacked := b.Hacked()
	var top []int
	best := 0
	for i := 0; i < board.Size; i++ {
		if !b.ThreatEligible(i) {
			continue
		}
		p := 1
		if spread && len(hacked) > 0 && touches(i, hacked) {
			p = 2
		}
		switch {
		case p > best:
			best = p
			top = append(top[:0], i)
		case p == best:
			top = append(top, i)
		}
	}
	if len(top) == 0 {
		return -1, false
	}
	return top[rng.IntN(len(top))], true
}

// Candidates lists every node the defense system could threaten right now.
func Candidates(b *board.Board) []int {
	var out []int
	for i := 0; i < board.Size; i++ {
		if b.ThreatEligible(i) {
			out = append(out, i)
		}
	}
	return out
}

func touches(i int, hacked []int) bool {
	for _, h := range hacked {
		if board.Near(i, h) {
			return true
		}
	}
	return false
}
