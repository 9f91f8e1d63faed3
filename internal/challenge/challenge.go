// apps/go-server/internal/challenge/challenge.go
//
// Hack challenges: the minigames that guard every node.
//
// Three interchangeable variants share one contract:
//   - Start(env, difficulty, callbacks) seeds the variant's own rng from
//     env.Seed and schedules its timers on env.Sched (group "challenge").
//   - Handle(input) feeds player input; inputs a variant does not understand
//     are rejected with ErrBadInput.
//   - Exactly one of OnSuccess/OnFailure fires, exactly once. Abort makes sure
//     neither fires afterwards.
//
// Variants: pattern recall (pattern.go), code breaker (codebreaker.go) and
// the shooter arena (shooter.go). Difficulty scaling lives in params.go.

package challenge

import (
	"errors"
	"fmt"
	"strings"

	"github.com/robalobadob/netbreach/apps/go-server/internal/clock"
)

// Group is the scheduler task group for challenge timers.
const Group = "challenge"

// Input rejections. The game reports these to the player and changes nothing.
var (
	ErrBadInput        = errors.New("input not understood by this challenge")
	ErrIncomplete      = errors.New("incomplete submission")
	ErrHintUnavailable = errors.New("hint unavailable")
	ErrFinished        = errors.New("challenge already resolved")
)

// Mode selects the variant.
type Mode string

const (
	ModePattern     Mode = "pattern"
	ModeShooter     Mode = "shooter"
	ModeCodeBreaker Mode = "codebreaker"
)

// Next cycles pattern → shooter → codebreaker → pattern.
func (m Mode) Next() Mode {
	switch m {
	case ModePattern:
		return ModeShooter
	case ModeShooter:
		return ModeCodeBreaker
	default:
		return ModePattern
	}
}

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModePattern, ModeShooter, ModeCodeBreaker:
		return m, nil
	}
	return "", fmt.Errorf("unknown minigame mode %q", s)
}

// Outcome reports how a challenge ended.
type Outcome struct {
	Mode    Mode   `json:"mode"`
	Success bool   `json:"success"`
	Score   int    `json:"score"`
	Reason  string `json:"reason,omitempty"`
}

// Callbacks receive the single outcome of a challenge.
type Callbacks struct {
	OnSuccess func(Outcome)
	OnFailure func(Outcome)
}

// Env is what a variant gets from its session.
type Env struct {
	Sched    *clock.Scheduler
	Seed     uint64
	OnUpdate func() // optional; called when the visible state changes on a timer
}

// Input is a closed set of player inputs.
type Input interface{ input() }

// SymbolInput presses one key on the pattern keypad.
type SymbolInput struct{ Symbol string }

// GuessInput submits a full code-breaker guess.
type GuessInput struct{ Digits []int }

// HintInput asks the code breaker for its one hint.
type HintInput struct{}

// ControlInput steers the shooter. MoveX/MoveY are held directions in
// {-1, 0, 1}; Fire shoots once, subject to the cooldown.
type ControlInput struct {
	MoveX int
	MoveY int
	Fire  bool
}

func (SymbolInput) input()  {}
func (GuessInput) input()   {}
func (HintInput) input()    {}
func (ControlInput) input() {}

// Variant is one minigame instance. A variant is used for a single challenge.
type Variant interface {
	Mode() Mode
	Start(env Env, difficulty int, cb Callbacks)
	Handle(in Input) error
	Abort()
	Done() bool
	View() any
}

// New returns a fresh variant for mode.
func New(m Mode) Variant {
	switch m {
	case ModeShooter:
		return &Shooter{}
	case ModeCodeBreaker:
		return &CodeBreaker{}
	default:
		return &Pattern{}
	}
}

// resolver enforces the exactly-once outcome.
type resolver struct {
	mode  Mode
	sched *clock.Scheduler
	cb    Callbacks
	done  bool
}

func (r *resolver) begin(m Mode, env Env, cb Callbacks) {
	r.mode, r.sched, r.cb, r.done = m, env.Sched, cb, false
}

func (r *resolver) finish() bool {
	if r.done {
		return false
	}
	r.done = true
	if r.sched != nil {
		r.sched.CancelGroup(Group)
	}
	return true
}

func (r *resolver) succeed(score int) {
	if !r.finish() {
		return
	}
	if r.cb.OnSuccess != nil {
		r.cb.OnSuccess(Outcome{Mode: r.mode, Success: true, Score: score})
	}
}

func (r *resolver) fail(reason string) {
	if !r.finish() {
		return
	}
	if r.cb.OnFailure != nil {
		r.cb.OnFailure(Outcome{Mode: r.mode, Reason: reason})
	}
}

// Abort stops the challenge without calling back.
func (r *resolver) Abort() { r.finish() }

// Done reports whether the outcome is settled.
func (r *resolver) Done() bool { return r.done }

// Mode is the variant's minigame.
func (r *resolver) Mode() Mode { return r.mode }
