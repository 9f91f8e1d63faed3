// apps/go-server/internal/challenge/shooter.go
//
// Shooter arena: enemies fly in from the distance and must be shot down
// before they reach the player.
//
// The simulation runs at a fixed 60 frames per second on the session
// scheduler. Per frame:
//   1. The player moves by the held direction, clamped to the arena.
//   2. A new enemy spawns if fewer than the target are alive and the spawn
//      interval has passed.
//   3. Bullets travel away from the player and vanish past z = -25.
//   4. Enemies drift and approach. One that passes z = 5 deals 20 damage;
//      at 100 damage the challenge fails.
//   5. At most one bullet/enemy collision (distance < 0.8) is resolved. Each
//      kill scores 10; reaching the target kill count succeeds.

package challenge

import (
	"math"
	"math/rand/v2"
	"time"
)

// Arena constants.
const (
	FrameInterval = time.Second / 60

	arenaX       = 8.0
	arenaY       = 4.0
	playerStep   = 0.1
	bulletStep   = 0.5
	bulletLimitZ = -25.0
	spawnZ       = -20.0
	breachZ      = 5.0
	approachStep = 0.05
	driftRange   = 0.005
	hitRadius    = 0.8
	breachDamage = 20
	maxDamage    = 100
	killScore    = 10
	shotCooldown = 150 * time.Millisecond
	spawnSpreadX = 10.0
	spawnSpreadY = 6.0
)

// Vec3 is a point or velocity in arena space.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (v Vec3) add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

func (v Vec3) dist(o Vec3) float64 {
	dx, dy, dz := v.X-o.X, v.Y-o.Y, v.Z-o.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

type enemy struct {
	pos Vec3
	vel Vec3
}

// Shooter is the arena variant.
type Shooter struct {
	resolver
	rng        *rand.Rand
	difficulty int
	target     int
	speed      float64
	spawnEvery time.Duration

	player    Vec3
	moveX     int
	moveY     int
	enemies   []enemy
	bullets   []Vec3
	damage    int
	destroyed int
	score     int
	lastSpawn time.Time
	lastShot  time.Time
	frames    int
}

// ShooterView is the client-facing state.
type ShooterView struct {
	Mode       Mode   `json:"mode"`
	Difficulty int    `json:"difficulty"`
	Target     int    `json:"target"`
	Destroyed  int    `json:"destroyed"`
	Health     int    `json:"health"`
	Score      int    `json:"score"`
	Player     Vec3   `json:"player"`
	Enemies    []Vec3 `json:"enemies"`
	Bullets    []Vec3 `json:"bullets"`
	Frame      int    `json:"frame"`
}

// Start places the ship and runs the frame loop every FrameInterval.
func (s *Shooter) Start(env Env, difficulty int, cb Callbacks) {
	s.begin(ModeShooter, env, cb)
	s.rng = rand.New(rand.NewPCG(env.Seed, env.Seed^0xbb67ae8584caa73b))
	s.difficulty = clampDifficulty(difficulty)
	s.target = ShooterEnemies(s.difficulty)
	s.speed = ShooterSpeed(s.difficulty)
	s.spawnEvery = ShooterSpawnInterval(s.difficulty)
	s.player = Vec3{}
	s.enemies, s.bullets = nil, nil
	s.damage, s.destroyed, s.score, s.frames = 0, 0, 0, 0
	s.lastSpawn, s.lastShot = time.Time{}, time.Time{}
	env.Sched.Every(Group, FrameInterval, s.step)
}

// Handle applies a ControlInput; movement is applied on the next frames.
func (s *Shooter) Handle(in Input) error {
	if s.done {
		return ErrFinished
	}
	ctl, ok := in.(ControlInput)
	if !ok {
		return ErrBadInput
	}
	s.moveX = sign(ctl.MoveX)
	s.moveY = sign(ctl.MoveY)
	if ctl.Fire {
		s.fire()
	}
	return nil
}

func (s *Shooter) fire() bool {
	now := s.sched.Now()
	if !s.lastShot.IsZero() && now.Sub(s.lastShot) < shotCooldown {
		return false
	}
	s.lastShot = now
	s.bullets = append(s.bullets, s.player)
	return true
}

func (s *Shooter) step() {
	if s.done {
		return
	}
	s.frames++
	now := s.sched.Now()

	s.player.X = clamp(s.player.X+float64(s.moveX)*playerStep, -arenaX, arenaX)
	s.player.Y = clamp(s.player.Y+float64(s.moveY)*playerStep, -arenaY, arenaY)

	if len(s.enemies) < s.target && (s.lastSpawn.IsZero() || now.Sub(s.lastSpawn) >= s.spawnEvery) {
		s.spawn()
		s.lastSpawn = now
	}

	kept := s.bullets[:0]
	for _, b := range s.bullets {
		b.Z -= bulletStep
		if b.Z >= bulletLimitZ {
			kept = append(kept, b)
		}
	}
	s.bullets = kept

	alive := s.enemies[:0]
	for _, e := range s.enemies {
		e.pos = e.pos.add(e.vel)
		if e.pos.Z > breachZ {
			s.damage += breachDamage
			continue
		}
		alive = append(alive, e)
	}
	s.enemies = alive
	if s.damage >= maxDamage {
		s.fail("firewall breached")
		return
	}

	s.collide()
}

// collide resolves the first bullet/enemy hit found this frame.
func (s *Shooter) collide() {
	for bi := len(s.bullets) - 1; bi >= 0; bi-- {
		for ei := len(s.enemies) - 1; ei >= 0; ei-- {
			if s.bullets[bi].dist(s.enemies[ei].pos) >= hitRadius {
				continue
			}
			s.bullets = append(s.bullets[:bi], s.bullets[bi+1:]...)
			s.enemies = append(s.enemies[:ei], s.enemies[ei+1:]...)
			s.destroyed++
			s.score += killScore
			if s.destroyed >= s.target {
				s.succeed(s.score)
			}
			return
		}
	}
}

func (s *Shooter) spawn() {
	pos := Vec3{
		X: (s.rng.Float64() - 0.5) * spawnSpreadX,
		Y: (s.rng.Float64() - 0.5) * spawnSpreadY,
		Z: spawnZ,
	}
	vel := Vec3{
		X: (s.rng.Float64() - 0.5) * driftRange,
		Y: (s.rng.Float64() - 0.5) * driftRange,
		Z: approachStep * s.speed,
	}
	s.enemies = append(s.enemies, enemy{pos: pos, vel: vel})
}

// Health is 100 minus damage taken, never negative.
func (s *Shooter) Health() int { return max(0, maxDamage-s.damage) }

// View returns a ShooterView.
func (s *Shooter) View() any {
	v := ShooterView{
		Mode:       ModeShooter,
		Difficulty: s.difficulty,
		Target:     s.target,
		Destroyed:  s.destroyed,
		Health:     s.Health(),
		Score:      s.score,
		Player:     s.player,
		Enemies:    make([]Vec3, 0, len(s.enemies)),
		Bullets:    append([]Vec3{}, s.bullets...),
		Frame:      s.frames,
	}
	for _, e := range s.enemies {
		v.Enemies = append(v.Enemies, e.pos)
	}
	return v
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
