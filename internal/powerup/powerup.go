// apps/go-server/internal/powerup/powerup.go
//
// Power-up catalog and spawning.
// Responsibilities:
//   - Define the five power-up types and their durations.
//   - Roll drops on the neighbours of a freshly hacked node.
//   - Track which effects are active and when they expire (effects.go).
//
// Effects themselves (freezing defenses, doubling XP, ...) are applied by the
// game session; this package only decides what exists and for how long.

package powerup

import (
	"encoding/json"
	"math/rand/v2"
	"time"

	"github.com/robalobadob/netbreach/apps/go-server/internal/board"
)

// ID identifies a power-up type.
type ID string

const (
	TimeFreeze ID = "time_freeze"
	Shield     ID = "shield"
	DoubleXP   ID = "double_xp"
	EasyMode   ID = "easy_mode"
	Reveal     ID = "reveal"
)

// Type describes one power-up. Duration is zero for Shield (lasts until
// consumed) and Reveal (instantaneous).
type Type struct {
	ID          ID            `json:"id"`
	Name        string        `json:"name"`
	Icon        string        `json:"icon"`
	Duration    time.Duration `json:"durationMs"`
	Description string        `json:"description"`
}

// MarshalJSON writes Duration as whole milliseconds.
func (t Type) MarshalJSON() ([]byte, error) {
	type wire Type
	return json.Marshal(struct {
		wire
		Duration int64 `json:"durationMs"`
	}{wire(t), t.Duration.Milliseconds()})
}

// Catalog lists every power-up in spawn order.
var Catalog = []Type{
	{ID: TimeFreeze, Name: "TIME FREEZE", Icon: "⏸", Duration: 15 * time.Second, Description: "Pause defense timer for 15s"},
	{ID: Shield, Name: "SHIELD", Icon: "🛡", Description: "Next firewall hit is free"},
	{ID: DoubleXP, Name: "DOUBLE XP", Icon: "✨", Duration: 30 * time.Second, Description: "2x XP for 30s"},
	{ID: EasyMode, Name: "EASY MODE", Icon: "🎯", Duration: 20 * time.Second, Description: "Reduce difficulty for 20s"},
	{ID: Reveal, Name: "REVEAL", Icon: "👁", Description: "Show next threatened node"},
}

// Lookup finds a catalog entry by id.
func Lookup(id ID) (Type, bool) {
	for _, t := range Catalog {
		if t.ID == id {
			return t, true
		}
	}
	return Type{}, false
}

// Config tunes drops.
type Config struct {
	DropChance     float64
	ValuableBonus  float64
	MaxOnBoard     int
	RevealDuration time.Duration
}

// DefaultConfig returns the standard drop tuning.
func DefaultConfig() Config {
	return Config{
		DropChance:     0.15,
		ValuableBonus:  0.25,
		MaxOnBoard:     3,
		RevealDuration: 5 * time.Second,
	}
}

// Chance is the drop probability for one node.
func (c Config) Chance(valuable bool) float64 {
	if valuable {
		return c.DropChance + c.ValuableBonus
	}
	return c.DropChance
}

// Random picks a catalog entry uniformly.
func Random(rng *rand.Rand) Type {
	return Catalog[rng.IntN(len(Catalog))]
}

// Placement is a power-up dropped onto a node.
type Placement struct {
	Node int
	Type Type
}

// Spawn rolls a drop for every orthogonal neighbour of hacked that is not
// hacked, not a firewall and not already carrying a power-up. A successful
// roll only places something while fewer than MaxOnBoard are on the board.
func Spawn(b *board.Board, rng *rand.Rand, cfg Config, hacked int) []Placement {
	var out []Placement
	for _, n := range board.Adjacent(hacked) {
		if b.IsHacked(n) || b.IsFirewall(n) {
			continue
		}
		if _, taken := b.PowerUpAt(n); taken {
			continue
		}
		if rng.Float64() >= cfg.Chance(b.IsValuable(n)) {
			continue
		}
		if b.PowerUpCount() >= cfg.MaxOnBoard {
			continue
		}
		t := Random(rng)
		b.PlacePowerUp(n, string(t.ID))
		out = append(out, Placement{Node: n, Type: t})
	}
	return out
}
