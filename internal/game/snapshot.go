package game

import (
	"time"

	"github.com/robalobadob/netbreach/apps/go-server/internal/board"
	"github.com/robalobadob/netbreach/apps/go-server/internal/challenge"
	"github.com/robalobadob/netbreach/apps/go-server/internal/powerup"
	"github.com/robalobadob/netbreach/apps/go-server/internal/profile"
)

// Snapshot is the full client view of a session.
type Snapshot struct {
	ID         string           `json:"id"`
	Status     Status           `json:"status"`
	Daily      string           `json:"daily,omitempty"`
	Mode       challenge.Mode   `json:"mode"`
	Nodes      []board.Node     `json:"nodes"`
	Score      int              `json:"score"`
	Moves      int              `json:"moves"`
	Combo      int              `json:"combo"`
	MaxCombo   int              `json:"maxCombo"`
	Multiplier float64          `json:"multiplier"`
	SessionXP  int              `json:"sessionXP"`
	Hacked     int              `json:"hacked"`
	Firewalls  int              `json:"firewalls"`
	Progress   int              `json:"progress"`
	Difficulty int              `json:"difficulty"`
	ElapsedMs  int64            `json:"elapsedMs"`
	Won        bool             `json:"won"`
	PowerUps   []powerup.Status `json:"powerUps"`
	Defense    DefenseView      `json:"defense"`
	Challenge  *ChallengeView   `json:"challenge,omitempty"`
	Profile    profile.Data     `json:"profile"`
	WinRate    int              `json:"winRate"`
	Timers     map[string]int   `json:"timers"`
}

// DefenseView summarises the defense system.
type DefenseView struct {
	Running     bool  `json:"running"`
	Exhausted   bool  `json:"exhausted"`
	Conversions int   `json:"conversions"`
	Threatened  []int `json:"threatened"`
}

// ChallengeView is the open challenge.
type ChallengeView struct {
	Node       int            `json:"node"`
	Difficulty int            `json:"difficulty"`
	Mode       challenge.Mode `json:"mode"`
	State      any            `json:"state"`
}

// Snapshot captures the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	var elapsed time.Duration
	switch s.status {
	case StatusPlaying:
		elapsed = now.Sub(s.startedAt)
	case StatusEnded:
		elapsed = s.endedAt.Sub(s.startedAt)
	}

	snap := Snapshot{
		ID:         s.id,
		Status:     s.status,
		Daily:      s.daily,
		Mode:       s.mode,
		Nodes:      s.board.Nodes(),
		Score:      s.score,
		Moves:      s.moves,
		Combo:      s.combo,
		MaxCombo:   s.maxCombo,
		Multiplier: ComboMultiplier(s.combo),
		SessionXP:  s.sessionXP,
		Hacked:     s.board.HackedCount(),
		Firewalls:  s.board.FirewallCount(),
		Progress:   s.board.Progress(),
		Difficulty: s.difficulty(),
		ElapsedMs:  elapsed.Milliseconds(),
		Won:        s.won,
		PowerUps:   s.effects.Remaining(now),
		Defense: DefenseView{
			Running:     s.defense.Running(),
			Exhausted:   s.defense.Exhausted(),
			Conversions: s.defense.Conversions(),
			Threatened:  s.board.Threatened(),
		},
		Profile: s.prof.Data(),
		WinRate: s.prof.WinRate(),
		Timers:  s.timers(),
	}
	if p := s.pending; p != nil {
		snap.Challenge = &ChallengeView{
			Node:       p.Node,
			Difficulty: p.Difficulty,
			Mode:       p.Mode,
			State:      p.variant.View(),
		}
	}
	return snap
}
