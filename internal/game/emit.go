package game

import (
	"fmt"

	"github.com/robalobadob/netbreach/apps/go-server/internal/event"
)

// emit stamps and publishes e. Node defaults to -1 for session-wide events.
func (s *Session) emit(e event.Event) {
	if e.Node == 0 && !nodeScoped(e.Kind) {
		e.Node = -1
	}
	s.bus.Emit(e, s.clock.Now())
}

func nodeScoped(k event.Kind) bool {
	switch k {
	case event.NodeChanged, event.ChallengeStarted, event.ChallengeUpdated, event.ChallengeResolved,
		event.PowerUpSpawned, event.PowerUpCollected, event.DefenseWarning, event.DefenseSecured,
		event.DefenseDeployed, event.ThreatRevealed, event.XPGained:
		return true
	}
	return false
}

func (s *Session) logf(sev event.Severity, format string, args ...any) {
	s.emit(event.Event{Kind: event.Log, Severity: sev, Message: fmt.Sprintf(format, args...)})
}

func (s *Session) sound(c event.Cue) {
	s.emit(event.Event{Kind: event.Sound, Cue: c})
}

// reject reports a refused command to subscribers and returns err.
func (s *Session) reject(err error) error {
	s.sound(event.CueError)
	s.logf(event.Error, "%v", err)
	return err
}

func (s *Session) emitNode(i int) {
	n := s.board.Node(i)
	s.emit(event.Event{Kind: event.NodeChanged, Node: i, Data: map[string]any{"node": n}})
}

func (s *Session) emitScore() {
	s.emit(event.Event{Kind: event.ScoreChanged, Data: map[string]any{"score": s.score, "moves": s.moves}})
	s.emit(event.Event{Kind: event.ComboChanged, Data: map[string]any{
		"combo":      s.combo,
		"maxCombo":   s.maxCombo,
		"multiplier": ComboMultiplier(s.combo),
	}})
}

func (s *Session) emitChallenge(k event.Kind, p *Pending) {
	s.emit(event.Event{Kind: k, Node: p.Node, Data: map[string]any{
		"mode":       p.Mode,
		"difficulty": p.Difficulty,
		"view":       p.variant.View(),
	}})
}

func (s *Session) emitTick() {
	now := s.clock.Now()
	s.emit(event.Event{Kind: event.PowerUpTick, Data: map[string]any{
		"powerUps":  s.effects.Remaining(now),
		"elapsedMs": now.Sub(s.startedAt).Milliseconds(),
	}})
}
