// apps/go-server/internal/game/session.go
//
// Session is one player's game: the board, the running score, the defense
// system, active power-ups, the pending hack challenge and every timer those
// need. It replaces the browser-global state of a single page with an
// explicit aggregate, so the server can host many games side by side.
//
// Concurrency:
//   - One mutex serialises player commands (Click, Submit, ...) and timer
//     ticks (Tick), giving each session a single logical event loop.
//   - All timers live on the session's clock.Scheduler. Reset and End cancel
//     every task and bump the generation, so late callbacks from an old game
//     are ignored even if they were already queued.
//
// Lifecycle: Idle → Playing → Ended. Start on an ended session deals a fresh
// board first.

package game

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/netbreach/apps/go-server/internal/board"
	"github.com/robalobadob/netbreach/apps/go-server/internal/challenge"
	"github.com/robalobadob/netbreach/apps/go-server/internal/clock"
	"github.com/robalobadob/netbreach/apps/go-server/internal/defense"
	"github.com/robalobadob/netbreach/apps/go-server/internal/event"
	"github.com/robalobadob/netbreach/apps/go-server/internal/powerup"
	"github.com/robalobadob/netbreach/apps/go-server/internal/profile"
)

// Scheduler groups owned by the session itself.
const (
	groupPowerUp = "powerup"
	groupDisplay = "display"
	groupReveal  = "reveal"
)

// Status of a session.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusPlaying Status = "playing"
	StatusEnded   Status = "ended"
)

// Config tunes a session.
type Config struct {
	Defense         defense.Config
	PowerUps        powerup.Config
	DisplayPoll     time.Duration
	FirewallPenalty int
}

// DefaultConfig returns the standard game tuning.
func DefaultConfig() Config {
	return Config{
		Defense:         defense.DefaultConfig(),
		PowerUps:        powerup.DefaultConfig(),
		DisplayPoll:     time.Second,
		FirewallPenalty: 50,
	}
}

// Summary describes a finished game.
type Summary struct {
	SessionID   string
	Player      string
	Daily       string
	Won         bool
	Score       int
	NodesHacked int
	MaxCombo    int
	Elapsed     time.Duration
}

// Options configure NewSession. Zero values pick sensible defaults.
type Options struct {
	Player  string
	Clock   clock.Clock
	Seed    uint64 // 0 draws a random seed
	Mode    challenge.Mode
	Config  *Config
	Profile *profile.Tracker
	// Daily pins every board of the session to Seed and tags results with
	// the date key.
	Daily string
	OnEnd func(Summary)
}

// Pending is the challenge guarding a node.
type Pending struct {
	Node       int
	Difficulty int
	Mode       challenge.Mode
	variant    challenge.Variant
}

// Session is one game. Safe for concurrent use.
type Session struct {
	mu sync.Mutex

	id     string
	player string
	daily  string
	seed   uint64
	cfg    Config
	clock  clock.Clock
	sched  *clock.Scheduler
	rng    *rand.Rand
	bus    *event.Bus
	prof   *profile.Tracker
	onEnd  func(Summary)

	status     Status
	generation uint64
	board      *board.Board
	defense    *defense.Scheduler
	effects    *powerup.Effects
	effectTask map[powerup.ID]clock.TaskID
	mode       challenge.Mode
	pending    *Pending

	score     int
	moves     int
	combo     int
	maxCombo  int
	sessionXP int
	startedAt time.Time
	endedAt   time.Time
	won       bool

	lastActive time.Time // last player command
}

// NewSession creates an idle session with a freshly dealt board.
func NewSession(opts Options) *Session {
	cfg := DefaultConfig()
	if opts.Config != nil {
		cfg = *opts.Config
	}
	c := opts.Clock
	if c == nil {
		c = clock.System{}
	}
	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	mode := opts.Mode
	if mode == "" {
		mode = challenge.ModePattern
	}
	prof := opts.Profile
	if prof == nil {
		prof = profile.Load(context.Background(), nil)
	}

	s := &Session{
		id:         uuid.NewString(),
		player:     opts.Player,
		daily:      opts.Daily,
		seed:       seed,
		cfg:        cfg,
		clock:      c,
		sched:      clock.NewScheduler(c),
		rng:        rand.New(rand.NewPCG(seed, seed^0x5851f42d4c957f2d)),
		prof:       prof,
		onEnd:      opts.OnEnd,
		mode:       mode,
		effects:    powerup.NewEffects(),
		effectTask: make(map[powerup.ID]clock.TaskID),
	}
	s.bus = event.NewBus(s.id)
	s.lastActive = c.Now()
	s.deal()
	return s
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Player returns the owning player id.
func (s *Session) Player() string { return s.player }

// Daily returns the daily date key, or "" for a free game.
func (s *Session) Daily() string { return s.daily }

// Profile returns the tracker the session reports progress to.
func (s *Session) Profile() *profile.Tracker { return s.prof }

// Status returns the lifecycle state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Subscribe attaches an event sink and returns its detach func.
func (s *Session) Subscribe(sink event.Sink) func() {
	return s.bus.Subscribe(sink)
}

// deal resets per-game state and generates a new board. Caller has torn down
// the previous game.
func (s *Session) deal() {
	boardSeed := s.rng.Uint64()
	if s.daily != "" {
		boardSeed = s.seed
	}
	s.board = board.Generate(rand.New(rand.NewPCG(boardSeed, boardSeed^0x14057b7ef767814f)))

	gen := s.generation
	s.defense = defense.New(s.cfg.Defense, s.sched, s.board, rand.New(rand.NewPCG(s.rng.Uint64(), 1)), defense.Hooks{
		Alive:      func() bool { return s.alive(gen) },
		Threatened: s.onThreatened,
		Secured:    s.onSecured,
		Deployed:   s.onDeployed,
		Exhausted: func() {
			s.logf(event.Warning, "maximum defenses deployed")
		},
	})
	s.effects.Clear()
	clear(s.effectTask)
	s.pending = nil
	s.status = StatusIdle
	s.score, s.moves, s.combo, s.maxCombo, s.sessionXP = 0, 0, 0, 0, 0
	s.startedAt, s.endedAt = time.Time{}, time.Time{}
	s.won = false
}

// teardown stops every timer and invalidates callbacks of the current game.
func (s *Session) teardown() {
	s.sched.CancelAll()
	if s.pending != nil {
		s.pending.variant.Abort()
		s.pending = nil
	}
	s.generation++
}

func (s *Session) alive(gen uint64) bool {
	return s.generation == gen && s.status == StatusPlaying
}

// Start begins the breach: the defense system and display poll start
// ticking. An ended session is redealt first.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	switch s.status {
	case StatusPlaying:
		return s.reject(ErrAlreadyPlaying)
	case StatusEnded:
		s.teardown()
		s.deal()
	}

	s.status = StatusPlaying
	s.startedAt = s.clock.Now()
	s.defense.Start()

	gen := s.generation
	s.sched.Every(groupDisplay, s.cfg.DisplayPoll, func() {
		if s.alive(gen) {
			s.emitTick()
		}
	})

	log.Info().Str("session", s.id).Str("player", s.player).Str("mode", string(s.mode)).Msg("game started")
	s.emit(event.Event{Kind: event.GameStarted, Data: map[string]any{
		"starter": s.board.Starter(),
		"mode":    s.mode,
	}})
	s.logf(event.Info, "breach initiated, entry point %s", s.board.Node(s.board.Starter()).Host)
	return nil
}

// Reset abandons the current game without recording it and deals a new board.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	s.teardown()
	s.deal()
	log.Info().Str("session", s.id).Msg("game reset")
	s.emit(event.Event{Kind: event.GameReset})
}

// End forfeits a running game. It counts as a loss.
func (s *Session) End() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if s.status != StatusPlaying {
		return s.reject(ErrNotStarted)
	}
	s.finish(false)
	return nil
}

// finish records the result and stops the game.
func (s *Session) finish(won bool) {
	s.teardown()
	s.status = StatusEnded
	s.won = won
	s.endedAt = s.clock.Now()

	elapsed := s.endedAt.Sub(s.startedAt)
	sum := Summary{
		SessionID:   s.id,
		Player:      s.player,
		Daily:       s.daily,
		Won:         won,
		Score:       s.score,
		NodesHacked: s.board.HackedCount(),
		MaxCombo:    s.maxCombo,
		Elapsed:     elapsed,
	}
	s.prof.UpdateStats(profile.Result{
		Won:         won,
		Score:       s.score,
		MaxCombo:    s.maxCombo,
		Seconds:     int(elapsed / time.Second),
		NodesHacked: sum.NodesHacked,
	})

	log.Info().Str("session", s.id).Bool("won", won).Int("score", s.score).
		Int("hacked", sum.NodesHacked).Dur("elapsed", elapsed).Msg("game ended")
	s.emit(event.Event{Kind: event.GameEnded, Data: map[string]any{
		"won":       won,
		"score":     s.score,
		"hacked":    sum.NodesHacked,
		"maxCombo":  s.maxCombo,
		"elapsedMs": elapsed.Milliseconds(),
	}})
	if won {
		s.sound(event.CueVictory)
		s.logf(event.Success, "network compromised in %s", elapsed.Round(time.Second))
	} else {
		s.logf(event.Error, "breach aborted")
	}
	if s.onEnd != nil {
		s.onEnd(sum)
	}
}

// SetMode picks the minigame for future challenges.
func (s *Session) SetMode(m challenge.Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.setModeLocked(m)
}

// CycleMode advances pattern → shooter → codebreaker → pattern.
func (s *Session) CycleMode() challenge.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.setModeLocked(s.mode.Next())
	return s.mode
}

func (s *Session) setModeLocked(m challenge.Mode) {
	if m == s.mode {
		return
	}
	s.mode = m
	s.emit(event.Event{Kind: event.ModeChanged, Data: map[string]any{"mode": m}})
	s.logf(event.Info, "minigame mode: %s", m)
}

// Tick runs every due timer. The server calls it on a fixed cadence.
func (s *Session) Tick() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sched.RunDue()
}

// LastActive is when the player last sent a command.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

func (s *Session) touch() { s.lastActive = s.clock.Now() }

// Close stops every timer and aborts the open challenge without recording a
// result. The server calls it before dropping an abandoned session.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teardown()
	log.Debug().Str("session", s.id).Msg("session closed")
}

// Pending returns the open challenge, if any.
func (s *Session) Pending() (Pending, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return Pending{}, false
	}
	return *s.pending, true
}
