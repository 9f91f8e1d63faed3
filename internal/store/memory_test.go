package store

import (
	"context"
	"errors"
	"testing"

	"github.com/robalobadob/netbreach/apps/go-server/internal/game"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	a := game.NewSession(game.Options{Seed: 1})
	b := game.NewSession(game.Options{Seed: 2})

	for _, s := range []*game.Session{a, b} {
		if err := st.Save(ctx, s); err != nil {
			t.Fatal(err)
		}
	}
	got, err := st.Get(ctx, a.ID())
	if err != nil || got != a {
		t.Fatalf("Get = %v, %v", got, err)
	}
	if _, err := st.Get(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing id: %v", err)
	}

	seen := 0
	st.Each(func(s *game.Session) {
		// Locking a session inside Each must not deadlock with the registry.
		_ = st.Len()
		s.Tick()
		seen++
	})
	if seen != 2 {
		t.Fatalf("Each visited %d", seen)
	}

	_ = st.Delete(ctx, a.ID())
	_ = st.Delete(ctx, a.ID())
	if st.Len() != 1 {
		t.Fatalf("Len = %d", st.Len())
	}
}
