// apps/go-server/internal/game/play.go
//
// Node clicks and hack challenges.
//
// Click validation, in order: game running, index on the grid, no challenge
// already open, first hack must be the entry node, node not yet hacked.
// Firewalls never open a challenge: a Shield absorbs the hit, otherwise the
// player loses FirewallPenalty points (floored at 0) and the combo.
//
// Every other valid click opens exactly one challenge. Its outcome is applied
// once, and only if the game that opened it is still the current one.

package game

import (
	"github.com/robalobadob/netbreach/apps/go-server/internal/board"
	"github.com/robalobadob/netbreach/apps/go-server/internal/challenge"
	"github.com/robalobadob/netbreach/apps/go-server/internal/defense"
	"github.com/robalobadob/netbreach/apps/go-server/internal/event"
	"github.com/robalobadob/netbreach/apps/go-server/internal/powerup"
)

// Click is the player selecting node i.
func (s *Session) Click(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	switch {
	case s.status != StatusPlaying:
		return s.reject(ErrNotStarted)
	case !board.InRange(i):
		return s.reject(ErrOutOfRange)
	case s.pending != nil:
		return s.reject(ErrChallengePending)
	case s.board.HackedCount() == 0 && i != s.board.Starter():
		return s.reject(ErrWrongEntry)
	case s.board.IsHacked(i):
		return s.reject(ErrAlreadyHacked)
	}

	s.sound(event.CueNodeClick)
	if s.board.IsFirewall(i) {
		s.firewallHit(i)
		return nil
	}
	s.openChallenge(i)
	return nil
}

func (s *Session) firewallHit(i int) {
	if s.effects.Consume(powerup.Shield) {
		s.emit(event.Event{Kind: event.PowerUpExpired, Node: i, Data: map[string]any{"id": powerup.Shield}})
		s.logf(event.Success, "shield absorbed firewall %s", s.board.Node(i).Host)
		return
	}
	s.score = max(0, s.score-s.cfg.FirewallPenalty)
	s.combo = 0
	s.sound(event.CueFirewallHit)
	s.emitScore()
	s.logf(event.Error, "firewall hit on %s, -%d", s.board.Node(i).Host, s.cfg.FirewallPenalty)
}

// Difficulty is the challenge difficulty a click would get right now.
func (s *Session) Difficulty() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.difficulty()
}

func (s *Session) difficulty() int {
	d := board.Difficulty(s.board.HackedCount())
	if s.effects.Has(powerup.EasyMode) {
		d = max(1, d-2)
	}
	return d
}

func (s *Session) openChallenge(i int) {
	p := &Pending{
		Node:       i,
		Difficulty: s.difficulty(),
		Mode:       s.mode,
		variant:    challenge.New(s.mode),
	}
	s.pending = p

	gen := s.generation
	env := challenge.Env{
		Sched: s.sched,
		Seed:  s.rng.Uint64(),
		OnUpdate: func() {
			if s.generation == gen && s.pending == p {
				s.emitChallenge(event.ChallengeUpdated, p)
			}
		},
	}
	resolve := func(o challenge.Outcome) { s.resolve(gen, p, o) }

	s.logf(event.Info, "hacking %s (difficulty %d, %s)", s.board.Node(i).Host, p.Difficulty, p.Mode)
	s.emitChallenge(event.ChallengeStarted, p)
	p.variant.Start(env, p.Difficulty, challenge.Callbacks{OnSuccess: resolve, OnFailure: resolve})
}

// Submit forwards player input to the open challenge.
func (s *Session) Submit(in challenge.Input) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if s.status != StatusPlaying {
		return s.reject(ErrNotStarted)
	}
	p := s.pending
	if p == nil {
		return s.reject(ErrNoChallenge)
	}
	if err := p.variant.Handle(in); err != nil {
		return s.reject(err)
	}
	if s.pending == p {
		s.emitChallenge(event.ChallengeUpdated, p)
	}
	return nil
}

// resolve applies a challenge outcome once.
func (s *Session) resolve(gen uint64, p *Pending, o challenge.Outcome) {
	if s.generation != gen || s.pending != p {
		return
	}
	s.pending = nil
	s.emit(event.Event{Kind: event.ChallengeResolved, Node: p.Node, Data: map[string]any{
		"mode":    o.Mode,
		"success": o.Success,
		"score":   o.Score,
		"reason":  o.Reason,
	}})

	switch {
	case !o.Success:
		s.hackFailed(p, o.Reason)
	case s.board.IsFirewall(p.Node):
		s.hackFailed(p, "firewall deployed during hack")
	default:
		s.hackSucceeded(p)
	}
}

func (s *Session) hackFailed(p *Pending, reason string) {
	s.combo = 0
	s.sound(event.CueHackFail)
	s.emit(event.Event{Kind: event.ComboChanged, Data: map[string]any{"combo": 0, "multiplier": 1.0}})
	s.logf(event.Error, "hack on %s failed: %s", s.board.Node(p.Node).Host, reason)
}

func (s *Session) hackSucceeded(p *Pending) {
	node := p.Node
	s.moves++
	s.combo++
	s.maxCombo = max(s.maxCombo, s.combo)

	if id, ok := s.board.TakePowerUp(node); ok {
		if t, known := powerup.Lookup(powerup.ID(id)); known {
			s.collect(node, t)
		}
	}

	valuable := s.board.IsValuable(node)
	prev := s.board.Active()
	adjacent := prev >= 0 && board.IsAdjacent(prev, node)
	bonus := Bonus(valuable, adjacent, s.combo)
	xp := XPGain(valuable, s.combo, s.effects.Has(powerup.DoubleXP))
	s.score += bonus
	s.sessionXP += xp

	if _, err := s.board.MarkHacked(node); err != nil {
		return
	}
	if prev >= 0 {
		s.emitNode(prev)
	}
	s.emitNode(node)

	s.sound(event.CueHackSuccess)
	if s.combo > 1 {
		s.sound(event.CueCombo)
	}
	s.emitScore()
	s.emit(event.Event{Kind: event.XPGained, Node: node, Data: map[string]any{
		"xp":        xp,
		"sessionXP": s.sessionXP,
	}})
	s.sound(event.CueXPGain)
	s.logf(event.Success, "%s compromised +%d (+%d XP)", s.board.Node(node).Host, bonus, xp)

	for _, pl := range powerup.Spawn(s.board, s.rng, s.cfg.PowerUps, node) {
		s.emit(event.Event{Kind: event.PowerUpSpawned, Node: pl.Node, Data: map[string]any{
			"id":   pl.Type.ID,
			"name": pl.Type.Name,
			"icon": pl.Type.Icon,
		}})
		s.emitNode(pl.Node)
	}

	for _, lv := range s.prof.AddXP(xp) {
		s.emit(event.Event{Kind: event.LevelUp, Data: map[string]any{"level": lv}})
		s.sound(event.CueLevelUp)
		s.logf(event.Success, "level up: %d", lv)
	}

	if s.board.Won() {
		s.finish(true)
	}
}

// collect activates a power-up picked up from node.
func (s *Session) collect(node int, t powerup.Type) {
	now := s.clock.Now()
	s.sound(event.CuePowerUpCollect)
	s.emit(event.Event{Kind: event.PowerUpCollected, Node: node, Data: map[string]any{
		"id":   t.ID,
		"name": t.Name,
	}})
	s.logf(event.Success, "power-up: %s", t.Name)

	switch t.ID {
	case powerup.Reveal:
		s.revealThreat()
		return
	case powerup.Shield:
		s.effects.Activate(t, now)
		return
	}

	expiry, _ := s.effects.Activate(t, now)
	if id, ok := s.effectTask[t.ID]; ok {
		s.sched.Cancel(id)
	}
	gen := s.generation
	s.effectTask[t.ID] = s.sched.After(groupPowerUp, expiry.Sub(now), func() { s.expire(gen, t) })

	if t.ID == powerup.TimeFreeze {
		s.defense.Freeze()
	}
}

func (s *Session) expire(gen uint64, t powerup.Type) {
	if !s.alive(gen) {
		return
	}
	if !s.effects.Expire(t.ID, s.clock.Now()) {
		return
	}
	delete(s.effectTask, t.ID)
	if t.ID == powerup.TimeFreeze {
		s.defense.Resume()
	}
	s.emit(event.Event{Kind: event.PowerUpExpired, Data: map[string]any{"id": t.ID}})
	s.logf(event.Info, "%s expired", t.Name)
}

// revealThreat flags one node the defense system could pick next.
func (s *Session) revealThreat() {
	cands := defense.Candidates(s.board)
	if len(cands) == 0 {
		s.logf(event.Info, "no vulnerable nodes detected")
		return
	}
	n := cands[s.rng.IntN(len(cands))]
	s.board.Reveal(n)
	s.emitNode(n)
	s.emit(event.Event{Kind: event.ThreatRevealed, Node: n})
	s.logf(event.Warning, "vulnerable node detected: %s", s.board.Node(n).Host)

	gen := s.generation
	s.sched.After(groupReveal, s.cfg.PowerUps.RevealDuration, func() {
		if s.generation != gen {
			return
		}
		s.board.Unreveal(n)
		s.emitNode(n)
	})
}

func (s *Session) onThreatened(n int) {
	s.emitNode(n)
	s.emit(event.Event{Kind: event.DefenseWarning, Node: n})
	s.sound(event.CueDefenseWarning)
	s.logf(event.Warning, "defense incoming at %s", s.board.Node(n).Host)
}

func (s *Session) onSecured(n int) {
	s.emitNode(n)
	s.emit(event.Event{Kind: event.DefenseSecured, Node: n})
	s.logf(event.Success, "%s secured before lockdown", s.board.Node(n).Host)
}

func (s *Session) onDeployed(n int) {
	s.emitNode(n)
	s.emit(event.Event{Kind: event.DefenseDeployed, Node: n})
	s.sound(event.CueDefenseActivated)
	s.logf(event.Error, "firewall deployed at %s", s.board.Node(n).Host)
	if s.board.Won() {
		s.finish(true)
	}
}

// timers counts pending tasks per scheduler group.
func (s *Session) timers() map[string]int {
	out := make(map[string]int)
	for _, g := range []string{groupDisplay, groupPowerUp, groupReveal, challenge.Group, defense.Group} {
		out[g] = s.sched.Len(g)
	}
	return out
}
