package board

import (
	"math/rand/v2"
	"slices"
	"testing"
)

func TestGenerateInvariants(t *testing.T) {
	for seed := uint64(1); seed <= 200; seed++ {
		b := Generate(rand.New(rand.NewPCG(seed, seed*7)))

		starters := 0
		for _, n := range b.Nodes() {
			if n.Kind == KindStarter {
				starters++
			}
		}
		if starters != 1 {
			t.Fatalf("seed %d: %d starters, want 1", seed, starters)
		}
		if got := b.FirewallCount(); got != FirewallCount {
			t.Fatalf("seed %d: %d firewalls, want %d", seed, got, FirewallCount)
		}
		if got := len(b.Valuables()); got != ValuableCount {
			t.Fatalf("seed %d: %d valuables, want %d", seed, got, ValuableCount)
		}
		s := b.Starter()
		if s < Size/2-4 || s >= Size/2+4 {
			t.Fatalf("seed %d: starter %d outside centre range", seed, s)
		}
		for _, f := range b.Firewalls() {
			if f == s || Near(f, s) {
				t.Fatalf("seed %d: firewall %d touches starter %d", seed, f, s)
			}
			if b.IsValuable(f) {
				t.Fatalf("seed %d: firewall %d is also valuable", seed, f)
			}
		}
		if b.IsValuable(s) || b.IsFirewall(s) {
			t.Fatalf("seed %d: starter %d overlaps firewall/valuable", seed, s)
		}
		if b.Active() != -1 || b.HackedCount() != 0 {
			t.Fatalf("seed %d: fresh board has progress", seed)
		}
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	a := Generate(rand.New(rand.NewPCG(42, 42)))
	b := Generate(rand.New(rand.NewPCG(42, 42)))
	if !slices.Equal(a.Nodes(), b.Nodes()) {
		t.Fatal("same seed produced different boards")
	}
}

func TestAdjacent(t *testing.T) {
	cases := []struct {
		name  string
		index int
		want  []int
	}{
		{"top-left corner", 0, []int{1, 8}},
		{"top-right corner", 7, []int{6, 15}},
		{"bottom-left corner", 40, []int{41, 32}},
		{"bottom-right corner", 47, []int{46, 39}},
		{"middle", 19, []int{18, 20, 11, 27}},
		{"left edge", 16, []int{17, 8, 24}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Adjacent(tc.index)
			if !slices.Equal(got, tc.want) {
				t.Fatalf("Adjacent(%d) = %v, want %v", tc.index, got, tc.want)
			}
		})
	}
}

func TestNear(t *testing.T) {
	if !Near(9, 0) || !Near(9, 18) || !Near(9, 17) {
		t.Fatal("diagonal neighbours should be near")
	}
	if Near(9, 9) {
		t.Fatal("a node is not near itself")
	}
	if Near(7, 8) {
		t.Fatal("row wrap must not count as adjacent")
	}
	if Near(0, 2) {
		t.Fatal("distance two is not near")
	}
}

func TestDifficulty(t *testing.T) {
	cases := map[int]int{0: 1, 4: 1, 5: 2, 9: 2, 10: 3, 44: 9, 45: 10, 48: 10, 100: 10}
	for hacked, want := range cases {
		if got := Difficulty(hacked); got != want {
			t.Errorf("Difficulty(%d) = %d, want %d", hacked, got, want)
		}
	}
}

func TestHackAndFirewallStayDisjoint(t *testing.T) {
	b := Generate(rand.New(rand.NewPCG(3, 4)))
	s := b.Starter()
	prev, err := b.MarkHacked(s)
	if err != nil || prev != -1 {
		t.Fatalf("MarkHacked(starter) = %d, %v", prev, err)
	}
	if err := b.AddFirewall(s); err != ErrFirewallHacked {
		t.Fatalf("AddFirewall on hacked node: err = %v", err)
	}
	f := b.Firewalls()[0]
	if _, err := b.MarkHacked(f); err == nil {
		t.Fatal("MarkHacked on a firewall should fail")
	}
	if b.Node(s).State != StateActive {
		t.Fatalf("starter state = %s, want active", b.Node(s).State)
	}
	n := Adjacent(s)[0]
	if !b.IsFirewall(n) {
		if _, err := b.MarkHacked(n); err != nil {
			t.Fatal(err)
		}
		if b.Node(s).State != StateHacked {
			t.Fatalf("previous active state = %s, want hacked", b.Node(s).State)
		}
	}
}

func TestHackClearsThreat(t *testing.T) {
	b := Generate(rand.New(rand.NewPCG(5, 6)))
	s := b.Starter()
	b.Threaten(s)
	if !b.IsThreatened(s) || b.ThreatenedCount() != 1 {
		t.Fatal("threat not recorded")
	}
	if _, err := b.MarkHacked(s); err != nil {
		t.Fatal(err)
	}
	if b.IsThreatened(s) || len(b.Threatened()) != 0 {
		t.Fatalf("hacked node still threatened: %v", b.Threatened())
	}
	if got := b.Node(s).State; got != StateActive {
		t.Fatalf("state = %s, want active", got)
	}
}

func TestPowerUpsOnNodes(t *testing.T) {
	b := Generate(rand.New(rand.NewPCG(5, 6)))
	b.PlacePowerUp(3, "shield")
	if id, ok := b.PowerUpAt(3); !ok || id != "shield" {
		t.Fatalf("PowerUpAt = %q, %v", id, ok)
	}
	if b.Node(3).PowerUp != "shield" {
		t.Fatal("node view should carry the power-up")
	}
	if id, ok := b.TakePowerUp(3); !ok || id != "shield" || b.PowerUpCount() != 0 {
		t.Fatalf("TakePowerUp = %q, %v (count %d)", id, ok, b.PowerUpCount())
	}
}
