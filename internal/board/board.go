// apps/go-server/internal/board/board.go
//
// Board state for one game.
// Responsibilities:
//   - Own the node index sets (hacked, firewall, valuable, threatened, revealed).
//   - Track the starter node and the currently active node.
//   - Hold the power-up sitting on each node, keyed by node index.
//   - Keep hacked ∩ firewall empty at all times.
//
// The board knows nothing about timers, scoring or events; the game package
// drives it and reports transitions.

package board

import (
	"errors"
	"math"
	"slices"

	"github.com/zyedidia/generic/mapset"
)

// ErrFirewallHacked is returned when a firewall would overlap a hacked node.
var ErrFirewallHacked = errors.New("board: node already hacked")

// Board is the mutable grid of one game.
type Board struct {
	starter int
	active  int // -1 until the first breach

	kinds [Size]Kind   // base kind before firewall conversion
	hosts [Size]string // cosmetic names

	hacked     mapset.Set[int]
	firewall   mapset.Set[int]
	valuable   mapset.Set[int]
	threatened mapset.Set[int]
	revealed   mapset.Set[int]

	powerUps map[int]string // node index -> power-up id
}

func newBoard() *Board {
	return &Board{
		active:     -1,
		hacked:     mapset.New[int](),
		firewall:   mapset.New[int](),
		valuable:   mapset.New[int](),
		threatened: mapset.New[int](),
		revealed:   mapset.New[int](),
		powerUps:   make(map[int]string),
	}
}

// Starter returns the entry node, the only node that can be hacked first.
func (b *Board) Starter() int { return b.starter }

// Active returns the most recently hacked node, or -1.
func (b *Board) Active() int { return b.active }

// IsHacked reports whether i has been breached (active included).
func (b *Board) IsHacked(i int) bool { return b.hacked.Has(i) }

// IsFirewall reports whether i is a firewall, initial or deployed.
func (b *Board) IsFirewall(i int) bool { return b.firewall.Has(i) }

// IsValuable reports whether i carries the valuable bonus.
func (b *Board) IsValuable(i int) bool { return b.valuable.Has(i) }

// IsThreatened reports whether i is inside a defense warning window.
func (b *Board) IsThreatened(i int) bool { return b.threatened.Has(i) }

// IsRevealed reports whether a Reveal power-up flagged i.
func (b *Board) IsRevealed(i int) bool { return b.revealed.Has(i) }

// HackedCount is the number of breached nodes.
func (b *Board) HackedCount() int { return b.hacked.Size() }

// FirewallCount is the number of firewalls, initial plus deployed.
func (b *Board) FirewallCount() int { return b.firewall.Size() }

// ThreatenedCount is the number of nodes awaiting conversion.
func (b *Board) ThreatenedCount() int { return b.threatened.Size() }

// Hacked returns the hacked indices in ascending order.
func (b *Board) Hacked() []int { return sorted(b.hacked) }

// Firewalls returns the firewall indices in ascending order.
func (b *Board) Firewalls() []int { return sorted(b.firewall) }

// Valuables returns the valuable indices in ascending order.
func (b *Board) Valuables() []int { return sorted(b.valuable) }

// Threatened returns the threatened indices in ascending order.
func (b *Board) Threatened() []int { return sorted(b.threatened) }

// MarkHacked breaches node i and makes it the active node, clearing any
// threat on it. The previous active node (or -1) is returned so callers can
// report it losing the flag.
func (b *Board) MarkHacked(i int) (prev int, err error) {
	if b.firewall.Has(i) {
		return b.active, errors.New("board: cannot hack a firewall")
	}
	prev = b.active
	b.hacked.Put(i)
	b.threatened.Remove(i)
	b.active = i
	return prev, nil
}

// Threaten marks i as about to become a firewall.
func (b *Board) Threaten(i int) { b.threatened.Put(i) }

// ClearThreat removes the threatened mark.
func (b *Board) ClearThreat(i int) { b.threatened.Remove(i) }

// AddFirewall converts i into a firewall. Hacked nodes are never converted.
func (b *Board) AddFirewall(i int) error {
	if b.hacked.Has(i) {
		return ErrFirewallHacked
	}
	b.threatened.Remove(i)
	b.firewall.Put(i)
	delete(b.powerUps, i)
	return nil
}

// Reveal flags i as the next likely threat.
func (b *Board) Reveal(i int) { b.revealed.Put(i) }

// Unreveal clears the flag set by Reveal.
func (b *Board) Unreveal(i int) { b.revealed.Remove(i) }

// PlacePowerUp puts power-up id on node i.
func (b *Board) PlacePowerUp(i int, id string) { b.powerUps[i] = id }

// PowerUpAt returns the power-up on node i, if any.
func (b *Board) PowerUpAt(i int) (string, bool) {
	id, ok := b.powerUps[i]
	return id, ok
}

// TakePowerUp removes and returns the power-up on node i.
func (b *Board) TakePowerUp(i int) (string, bool) {
	id, ok := b.powerUps[i]
	if ok {
		delete(b.powerUps, i)
	}
	return id, ok
}

// PowerUpCount is the number of power-ups currently on the board.
func (b *Board) PowerUpCount() int { return len(b.powerUps) }

// ThreatEligible reports whether the defense system may target node i.
func (b *Board) ThreatEligible(i int) bool {
	return !b.firewall.Has(i) &&
		!b.hacked.Has(i) &&
		!b.threatened.Has(i) &&
		i != b.starter &&
		!b.valuable.Has(i)
}

// Won reports whether every non-firewall node is hacked.
func (b *Board) Won() bool {
	return b.hacked.Size() >= Size-b.firewall.Size()
}

// Progress is the percentage of the original target (Size - FirewallCount)
// that has been hacked, rounded.
func (b *Board) Progress() int {
	return int(math.Round(float64(b.hacked.Size()) / float64(Size-FirewallCount) * 100))
}

// Node builds the external view of node i.
func (b *Board) Node(i int) Node {
	n := Node{Index: i, Kind: b.kinds[i], Host: b.hosts[i], State: StateUntouched}
	switch {
	case b.firewall.Has(i):
		n.Kind = KindFirewall
	case i == b.active:
		n.State = StateActive
	case b.hacked.Has(i):
		n.State = StateHacked
	case b.threatened.Has(i):
		n.State = StateThreatened
	}
	if id, ok := b.powerUps[i]; ok {
		n.PowerUp = id
	}
	n.Revealed = b.revealed.Has(i)
	return n
}

// Nodes returns every node view in index order.
func (b *Board) Nodes() []Node {
	out := make([]Node, Size)
	for i := range out {
		out[i] = b.Node(i)
	}
	return out
}

func sorted(s mapset.Set[int]) []int {
	out := make([]int, 0, s.Size())
	s.Each(func(i int) { out = append(out, i) })
	slices.Sort(out)
	return out
}
