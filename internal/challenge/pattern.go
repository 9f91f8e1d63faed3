// apps/go-server/internal/challenge/pattern.go
//
// Pattern recall: a symbol sequence is shown, then hidden, and the player
// re-enters it on a shuffled keypad before the countdown runs out.
//
// Rules:
//   - Length and time limit scale with difficulty (PatternLength/PatternTime).
//   - The sequence is visible for RevealTime(length) after Start.
//   - Every keypress is checked immediately; the first wrong symbol fails.
//   - Entering the last correct symbol succeeds. Running out of time fails.

package challenge

import (
	"math/rand/v2"
	"slices"
	"time"
)

// Symbols is the pattern alphabet.
var Symbols = []string{"◆", "▲", "●", "■", "★", "✦", "◈", "◉"}

// RevealTime is how long a pattern of n symbols stays on screen.
func RevealTime(n int) time.Duration {
	return 1500*time.Millisecond + time.Duration(n)*250*time.Millisecond
}

// Pattern is the pattern-recall variant.
type Pattern struct {
	resolver
	difficulty int
	sequence   []string
	keypad     []string
	entered    []string
	visible    bool
	deadline   time.Time
	onUpdate   func()
}

// PatternView is the client-facing state. Sequence is only set while the
// pattern is still being shown.
type PatternView struct {
	Mode        Mode     `json:"mode"`
	Difficulty  int      `json:"difficulty"`
	Length      int      `json:"length"`
	Sequence    []string `json:"sequence,omitempty"`
	Entered     []string `json:"entered"`
	Keypad      []string `json:"keypad"`
	Showing     bool     `json:"showing"`
	RemainingMs int64    `json:"remainingMs"`
}

// Start deals the sequence and keypad and schedules the hide and timeout
// tasks.
func (p *Pattern) Start(env Env, difficulty int, cb Callbacks) {
	p.begin(ModePattern, env, cb)
	rng := rand.New(rand.NewPCG(env.Seed, env.Seed^0x9e3779b97f4a7c15))

	p.difficulty = clampDifficulty(difficulty)
	n := PatternLength(p.difficulty)
	p.sequence = make([]string, n)
	for i := range p.sequence {
		p.sequence[i] = Symbols[rng.IntN(len(Symbols))]
	}
	p.keypad = slices.Clone(Symbols)
	rng.Shuffle(len(p.keypad), func(i, j int) { p.keypad[i], p.keypad[j] = p.keypad[j], p.keypad[i] })
	p.entered = []string{}
	p.visible = true
	p.onUpdate = env.OnUpdate

	limit := PatternTime(p.difficulty)
	p.deadline = env.Sched.Now().Add(limit)
	env.Sched.After(Group, RevealTime(n), func() {
		p.visible = false
		if p.onUpdate != nil {
			p.onUpdate()
		}
	})
	env.Sched.After(Group, limit, func() { p.fail("time expired") })
}

// Handle accepts one SymbolInput per keypress.
func (p *Pattern) Handle(in Input) error {
	if p.done {
		return ErrFinished
	}
	sym, ok := in.(SymbolInput)
	if !ok || !slices.Contains(Symbols, sym.Symbol) {
		return ErrBadInput
	}
	pos := len(p.entered)
	p.entered = append(p.entered, sym.Symbol)
	p.visible = false
	if p.sequence[pos] != sym.Symbol {
		p.fail("wrong symbol")
		return nil
	}
	if len(p.entered) == len(p.sequence) {
		p.succeed(0)
	}
	return nil
}

// Sequence returns the target pattern.
func (p *Pattern) Sequence() []string { return slices.Clone(p.sequence) }

// View returns a PatternView.
func (p *Pattern) View() any {
	v := PatternView{
		Mode:       ModePattern,
		Difficulty: p.difficulty,
		Length:     len(p.sequence),
		Entered:    slices.Clone(p.entered),
		Keypad:     slices.Clone(p.keypad),
		Showing:    p.visible,
	}
	if p.visible {
		v.Sequence = slices.Clone(p.sequence)
	}
	if p.sched != nil && !p.done {
		v.RemainingMs = max(0, p.deadline.Sub(p.sched.Now()).Milliseconds())
	}
	return v
}
