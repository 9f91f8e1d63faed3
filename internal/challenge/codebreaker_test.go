package challenge

import (
	"errors"
	"math/rand/v2"
	"testing"
	"time"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		code, guess []int
		want        Feedback
	}{
		{[]int{1, 2, 3, 4}, []int{1, 2, 3, 4}, Feedback{4, 0, 0}},
		{[]int{1, 2, 3, 4}, []int{4, 3, 2, 1}, Feedback{0, 4, 0}},
		{[]int{1, 2, 3, 4}, []int{5, 6, 7, 8}, Feedback{0, 0, 4}},
		{[]int{1, 2, 1, 3}, []int{1, 1, 2, 2}, Feedback{1, 2, 1}},
		{[]int{7, 7, 0}, []int{7, 0, 0}, Feedback{2, 0, 1}},
		{[]int{5, 5, 5}, []int{5, 1, 1}, Feedback{1, 0, 2}},
	}
	for _, tc := range tests {
		if got := Evaluate(tc.code, tc.guess); got != tc.want {
			t.Errorf("Evaluate(%v, %v) = %+v, want %+v", tc.code, tc.guess, got, tc.want)
		}
	}
}

func TestEvaluateInvariants(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	for i := 0; i < 500; i++ {
		n := 3 + rng.IntN(4)
		code := make([]int, n)
		guess := make([]int, n)
		for j := range code {
			code[j] = rng.IntN(10)
			guess[j] = rng.IntN(10)
		}
		fb := Evaluate(code, guess)
		if fb.Correct+fb.WrongPosition+fb.NotInCode != n {
			t.Fatalf("Evaluate(%v, %v) = %+v does not sum to %d", code, guess, fb, n)
		}

		perm := append([]int(nil), code...)
		rng.Shuffle(n, func(a, b int) { perm[a], perm[b] = perm[b], perm[a] })
		fb = Evaluate(code, perm)
		if fb.Correct+fb.WrongPosition != n {
			t.Fatalf("permutation %v of %v scored %+v", perm, code, fb)
		}
	}
}

func wrongGuess(code []int) []int {
	g := append([]int(nil), code...)
	g[0] = (g[0] + 1) % 10
	return g
}

func TestCodeBreakerFirstTryScore(t *testing.T) {
	r := newRig()
	c := &CodeBreaker{}
	r.start(c, 42, 1)

	if err := c.Handle(GuessInput{Digits: c.Code()}); err != nil {
		t.Fatal(err)
	}
	if len(r.wins) != 1 {
		t.Fatalf("wins = %d", len(r.wins))
	}
	// 100 base + 6*50 attempts + 100 time + 500 first try
	if got := r.wins[0].Score; got != 1000 {
		t.Fatalf("score = %d, want 1000", got)
	}
}

func TestCodeBreakerHintRulesAndScore(t *testing.T) {
	r := newRig()
	c := &CodeBreaker{}
	r.start(c, 17, 1)
	code := c.Code()

	if err := c.Handle(HintInput{}); !errors.Is(err, ErrHintUnavailable) {
		t.Fatalf("early hint = %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := c.Handle(GuessInput{Digits: wrongGuess(code)}); err != nil {
			t.Fatal(err)
		}
	}
	if err := c.Handle(HintInput{}); err != nil {
		t.Fatalf("hint after 3 guesses: %v", err)
	}
	v := c.View().(CodeBreakerView)
	if v.Hint == nil || v.Hint.Digit != code[v.Hint.Position] {
		t.Fatalf("hint %+v does not match code %v", v.Hint, code)
	}
	if err := c.Handle(HintInput{}); !errors.Is(err, ErrHintUnavailable) {
		t.Fatalf("second hint = %v", err)
	}

	r.clock.Advance(10 * time.Second)
	if err := c.Handle(GuessInput{Digits: code}); err != nil {
		t.Fatal(err)
	}
	// 100 + (6-4+1)*50 + (100-20) - 50
	if len(r.wins) != 1 || r.wins[0].Score != 280 {
		t.Fatalf("wins = %+v, want score 280", r.wins)
	}
}

func TestCodeBreakerRunsOutOfAttempts(t *testing.T) {
	r := newRig()
	c := &CodeBreaker{}
	r.start(c, 9, 8)
	code := c.Code()
	for i := 0; i < CodeAttempts(8); i++ {
		if err := c.Handle(GuessInput{Digits: wrongGuess(code)}); err != nil {
			t.Fatal(err)
		}
	}
	if len(r.losses) != 1 || len(r.wins) != 0 {
		t.Fatalf("wins=%d losses=%d", len(r.wins), len(r.losses))
	}
	if err := c.Handle(GuessInput{Digits: code}); !errors.Is(err, ErrFinished) {
		t.Fatalf("guess after failure = %v", err)
	}
}

func TestCodeBreakerRejectsMalformedGuesses(t *testing.T) {
	r := newRig()
	c := &CodeBreaker{}
	r.start(c, 2, 4)
	if err := c.Handle(GuessInput{Digits: []int{1, 2}}); !errors.Is(err, ErrIncomplete) {
		t.Fatalf("short guess = %v", err)
	}
	if err := c.Handle(GuessInput{Digits: []int{1, 2, 3, 12}}); !errors.Is(err, ErrBadInput) {
		t.Fatalf("bad digit = %v", err)
	}
	if v := c.View().(CodeBreakerView); len(v.Attempts) != 0 {
		t.Fatal("rejected guesses were counted")
	}
}
