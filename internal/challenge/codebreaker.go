// apps/go-server/internal/challenge/codebreaker.go
//
// Code breaker: guess a secret digit code with per-guess feedback.
//
// Rules:
//   - Code length and attempt budget scale with difficulty.
//   - A guess must supply exactly one digit 0..9 per position.
//   - Feedback counts correct positions, right digits in the wrong place and
//     digits not in the code. The three always add up to the code length.
//   - One hint is available once three guesses have been made. It reveals a
//     random position and costs 50 points.
//   - Cracking the code scores
//       100 + 50*(attempts left, counting the winning guess)
//           + time bonus (100 minus 2 per second, floored at 0)
//           - hint penalty
//           + 500 when cracked on the first guess.

package challenge

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"time"
)

const (
	hintAfter   = 3
	hintPenalty = 50
	firstTry    = 500
)

// Feedback is the result of one guess.
type Feedback struct {
	Correct       int `json:"correct"`
	WrongPosition int `json:"wrongPosition"`
	NotInCode     int `json:"notInCode"`
}

// Evaluate scores guess against code using two passes: exact matches first,
// then misplaced digits limited by how often each digit remains unmatched.
// Both slices must have the same length.
func Evaluate(code, guess []int) Feedback {
	var fb Feedback
	var freq [10]int
	for i := range code {
		if guess[i] == code[i] {
			fb.Correct++
		} else {
			freq[code[i]]++
		}
	}
	for i := range code {
		if guess[i] == code[i] {
			continue
		}
		if d := guess[i]; freq[d] > 0 {
			fb.WrongPosition++
			freq[d]--
		} else {
			fb.NotInCode++
		}
	}
	return fb
}

// Attempt is one submitted guess and its feedback.
type Attempt struct {
	Guess    []int    `json:"guess"`
	Feedback Feedback `json:"feedback"`
}

// Hint is a revealed code position.
type Hint struct {
	Position int `json:"position"`
	Digit    int `json:"digit"`
}

// CodeBreaker is the code-breaking variant.
type CodeBreaker struct {
	resolver
	rng        *rand.Rand
	difficulty int
	code       []int
	maxTries   int
	attempts   []Attempt
	hint       *Hint
	started    time.Time
}

// CodeBreakerView is the client-facing state; the code itself is never sent.
type CodeBreakerView struct {
	Mode        Mode      `json:"mode"`
	Difficulty  int       `json:"difficulty"`
	Length      int       `json:"length"`
	MaxAttempts int       `json:"maxAttempts"`
	Attempts    []Attempt `json:"attempts"`
	Hint        *Hint     `json:"hint,omitempty"`
	HintReady   bool      `json:"hintReady"`
}

// Start draws the secret code and starts the solve clock.
func (c *CodeBreaker) Start(env Env, difficulty int, cb Callbacks) {
	c.begin(ModeCodeBreaker, env, cb)
	c.rng = rand.New(rand.NewPCG(env.Seed, env.Seed^0x6a09e667f3bcc909))
	c.difficulty = clampDifficulty(difficulty)
	c.code = make([]int, CodeLength(c.difficulty))
	for i := range c.code {
		c.code[i] = c.rng.IntN(10)
	}
	c.maxTries = CodeAttempts(c.difficulty)
	c.attempts = nil
	c.hint = nil
	c.started = env.Sched.Now()
}

// Handle accepts GuessInput and HintInput.
func (c *CodeBreaker) Handle(in Input) error {
	if c.done {
		return ErrFinished
	}
	switch v := in.(type) {
	case GuessInput:
		return c.guess(v.Digits)
	case HintInput:
		return c.useHint()
	}
	return ErrBadInput
}

func (c *CodeBreaker) guess(digits []int) error {
	if len(digits) != len(c.code) {
		return fmt.Errorf("%w: need %d digits, got %d", ErrIncomplete, len(c.code), len(digits))
	}
	for _, d := range digits {
		if d < 0 || d > 9 {
			return fmt.Errorf("%w: digit %d", ErrBadInput, d)
		}
	}
	fb := Evaluate(c.code, digits)
	c.attempts = append(c.attempts, Attempt{Guess: slices.Clone(digits), Feedback: fb})

	if fb.Correct == len(c.code) {
		c.succeed(c.score())
		return nil
	}
	if len(c.attempts) >= c.maxTries {
		c.fail("out of attempts")
	}
	return nil
}

func (c *CodeBreaker) useHint() error {
	if c.hint != nil || len(c.attempts) < hintAfter {
		return ErrHintUnavailable
	}
	pos := c.rng.IntN(len(c.code))
	c.hint = &Hint{Position: pos, Digit: c.code[pos]}
	return nil
}

func (c *CodeBreaker) score() int {
	n := len(c.attempts)
	secs := c.sched.Now().Sub(c.started).Seconds()
	timeBonus := max(0, int(100-secs*2))
	s := 100 + (c.maxTries-n+1)*50 + timeBonus
	if c.hint != nil {
		s -= hintPenalty
	}
	if n == 1 {
		s += firstTry
	}
	return s
}

// Code returns the secret.
func (c *CodeBreaker) Code() []int { return slices.Clone(c.code) }

// View returns a CodeBreakerView. The code itself is never included.
func (c *CodeBreaker) View() any {
	return CodeBreakerView{
		Mode:        ModeCodeBreaker,
		Difficulty:  c.difficulty,
		Length:      len(c.code),
		MaxAttempts: c.maxTries,
		Attempts:    slices.Clone(c.attempts),
		Hint:        c.hint,
		HintReady:   c.hint == nil && len(c.attempts) >= hintAfter && !c.done,
	}
}
