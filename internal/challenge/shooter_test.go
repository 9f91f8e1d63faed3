package challenge

import (
	"math"
	"testing"
)

// quiet stops new spawns until the clock moves.
func quiet(s *Shooter) {
	s.enemies = nil
	s.lastSpawn = s.sched.Now()
}

func TestShooterBulletKillsEnemy(t *testing.T) {
	r := newRig()
	s := &Shooter{}
	r.start(s, 1, 1)
	quiet(s)

	s.enemies = []enemy{{pos: Vec3{0, 0, -1}}}
	s.bullets = []Vec3{{0, 0, -0.5}}
	s.step()

	if s.destroyed != 1 || s.score != 10 {
		t.Fatalf("destroyed=%d score=%d", s.destroyed, s.score)
	}
	if len(s.enemies) != 0 || len(s.bullets) != 0 {
		t.Fatalf("enemy or bullet not removed: %d %d", len(s.enemies), len(s.bullets))
	}
}

func TestShooterReachingTargetSucceeds(t *testing.T) {
	r := newRig()
	s := &Shooter{}
	r.start(s, 1, 1)
	quiet(s)

	for i := 0; i < ShooterEnemies(1); i++ {
		s.enemies = []enemy{{pos: Vec3{1, 1, -3}}}
		s.bullets = []Vec3{{1, 1, -2.5}}
		s.step()
	}
	if len(r.wins) != 1 || r.wins[0].Score != 10*ShooterEnemies(1) {
		t.Fatalf("wins = %+v", r.wins)
	}
	if r.sched.Len(Group) != 0 {
		t.Fatal("frame timer still running")
	}
}

func TestShooterBreachesDealDamage(t *testing.T) {
	r := newRig()
	s := &Shooter{}
	r.start(s, 1, 1)
	quiet(s)

	s.enemies = []enemy{{pos: Vec3{0, 0, 4.99}, vel: Vec3{0, 0, 0.05}}}
	s.step()
	if s.Health() != 80 || len(s.enemies) != 0 {
		t.Fatalf("health=%d enemies=%d", s.Health(), len(s.enemies))
	}

	for i := 0; i < 4; i++ {
		s.enemies = append(s.enemies, enemy{pos: Vec3{0, 0, 5}, vel: Vec3{0, 0, 0.05}})
	}
	s.step()
	if s.Health() != 0 {
		t.Fatalf("health = %d", s.Health())
	}
	if len(r.losses) != 1 || len(r.wins) != 0 {
		t.Fatalf("wins=%d losses=%d", len(r.wins), len(r.losses))
	}
}

func TestShooterFireCooldownAndMovement(t *testing.T) {
	r := newRig()
	s := &Shooter{}
	r.start(s, 1, 1)
	quiet(s)

	_ = s.Handle(ControlInput{Fire: true})
	_ = s.Handle(ControlInput{Fire: true})
	if len(s.bullets) != 1 {
		t.Fatalf("bullets = %d, want 1 inside cooldown", len(s.bullets))
	}
	r.clock.Advance(shotCooldown)
	_ = s.Handle(ControlInput{Fire: true, MoveX: 5, MoveY: -1})
	if len(s.bullets) != 2 {
		t.Fatalf("bullets = %d after cooldown", len(s.bullets))
	}

	s.lastSpawn = r.clock.Now()
	for i := 0; i < 200; i++ {
		s.step()
	}
	if s.player.X != arenaX || s.player.Y != -arenaY {
		t.Fatalf("player at %+v, want clamped to (%v, %v)", s.player, arenaX, -arenaY)
	}
	if len(s.bullets) != 0 {
		t.Fatalf("%d bullets survived past the far plane", len(s.bullets))
	}
}

func TestShooterIdlePlayerLoses(t *testing.T) {
	r := newRig()
	s := &Shooter{}
	r.start(s, 77, 1)

	for i := 0; i < 60*30 && r.outcomes() == 0; i++ {
		r.advance(FrameInterval)
	}
	if len(r.losses) != 1 {
		t.Fatalf("idle player: wins=%d losses=%d", len(r.wins), len(r.losses))
	}
	if s.frames == 0 || s.Health() != 0 {
		t.Fatalf("frames=%d health=%d", s.frames, s.Health())
	}
	v := s.View().(ShooterView)
	if v.Target != ShooterEnemies(1) {
		t.Fatalf("view target %d", v.Target)
	}
}

func TestShooterSpawnsOverTime(t *testing.T) {
	r := newRig()
	s := &Shooter{}
	r.start(s, 5, 10)
	r.advance(FrameInterval)
	if len(s.enemies) != 1 {
		t.Fatalf("first frame spawned %d enemies", len(s.enemies))
	}
	e := s.enemies[0]
	if e.pos.X < -5 || e.pos.X > 5 || e.pos.Y < -3 || e.pos.Y > 3 {
		t.Fatalf("spawn position %+v out of range", e.pos)
	}
	for i := 0; i < 60; i++ {
		r.advance(FrameInterval)
	}
	// 500ms spawn interval at difficulty 10.
	if n := len(s.enemies); n < 2 || n > 4 {
		t.Fatalf("after one second %d enemies alive", n)
	}
}

func TestShooterApproachSpeed(t *testing.T) {
	tests := []struct {
		d    int
		want float64
	}{
		{1, 0.055},
		{4, 0.07},
		{10, 0.1},
	}
	for _, tc := range tests {
		r := newRig()
		s := &Shooter{}
		r.start(s, 3, tc.d)
		r.advance(FrameInterval)
		if len(s.enemies) == 0 {
			t.Fatalf("d=%d: nothing spawned", tc.d)
		}
		if got := s.enemies[0].vel.Z; math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("d=%d: approach %v, want %v", tc.d, got, tc.want)
		}
	}
}
