// apps/go-server/internal/profile/profile.go
//
// Persistent player progression.
//
// Responsibilities:
//   - The XP curve: XPNeeded(level) = floor(100 * level^1.5).
//   - Tracker: AddXP (possibly several level-ups per call) and UpdateStats at
//     game end, saving after every mutation.
//   - Merge: combining two copies of a profile (guest + account, local +
//     remote) without losing progress.
//
// Invariant: CurrentLevelXP < XPNeeded(Level) after every operation.

package profile

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	baseXP      = 100
	xpExponent  = 1.5
	saveTimeout = 3 * time.Second
)

// XPNeeded is the XP required to advance from level to level+1.
func XPNeeded(level int) int {
	return int(math.Floor(baseXP * math.Pow(float64(level), xpExponent)))
}

// Data is the persisted profile. JSON names are the wire format.
type Data struct {
	Level            int  `json:"level"`
	TotalXP          int  `json:"totalXP"`
	CurrentLevelXP   int  `json:"currentLevelXP"`
	HighScore        int  `json:"highScore"`
	TotalGames       int  `json:"totalGames"`
	GamesWon         int  `json:"gamesWon"`
	BestCombo        int  `json:"bestCombo"`
	FastestWin       *int `json:"fastestWin"` // seconds
	TotalNodesHacked int  `json:"totalNodesHacked"`
}

// Default is a brand-new profile.
func Default() Data { return Data{Level: 1} }

// normalize repairs data loaded from storage so the level invariant holds.
func (d Data) normalize() Data {
	if d.Level < 1 {
		d.Level = 1
	}
	if d.CurrentLevelXP < 0 {
		d.CurrentLevelXP = 0
	}
	for d.CurrentLevelXP >= XPNeeded(d.Level) {
		d.CurrentLevelXP -= XPNeeded(d.Level)
		d.Level++
	}
	return d
}

// WinRate is games won over games played, as a rounded percentage.
func (d Data) WinRate() int {
	if d.TotalGames == 0 {
		return 0
	}
	return int(math.Round(float64(d.GamesWon) * 100 / float64(d.TotalGames)))
}

// Result summarises a finished game.
type Result struct {
	Won         bool
	Score       int
	MaxCombo    int
	Seconds     int
	NodesHacked int
}

// Merge combines two profiles. Counters take the maximum, fastest win the
// minimum of the values present. Level, TotalXP and CurrentLevelXP come as a
// unit from whichever side has more total XP.
func Merge(a, b Data) Data {
	out := a
	if b.TotalXP > a.TotalXP {
		out.Level, out.TotalXP, out.CurrentLevelXP = b.Level, b.TotalXP, b.CurrentLevelXP
	}
	out.HighScore = max(a.HighScore, b.HighScore)
	out.TotalGames = max(a.TotalGames, b.TotalGames)
	out.GamesWon = max(a.GamesWon, b.GamesWon)
	out.BestCombo = max(a.BestCombo, b.BestCombo)
	out.TotalNodesHacked = max(a.TotalNodesHacked, b.TotalNodesHacked)
	out.FastestWin = minPtr(a.FastestWin, b.FastestWin)
	return out.normalize()
}

func minPtr(a, b *int) *int {
	switch {
	case a == nil && b == nil:
		return nil
	case a == nil:
		v := *b
		return &v
	case b == nil:
		v := *a
		return &v
	}
	v := min(*a, *b)
	return &v
}

// Tracker owns one player's profile and writes it through to storage.
// Safe for concurrent use.
type Tracker struct {
	mu    sync.Mutex
	store Storage
	data  Data
}

// Load reads the profile from s. A load error or an empty store yields a
// default profile; the game keeps working either way.
func Load(ctx context.Context, s Storage) *Tracker {
	t := &Tracker{store: s, data: Default()}
	if s == nil {
		return t
	}
	d, err := s.Load(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("profile load failed, using defaults")
		return t
	}
	if d != nil {
		t.data = d.normalize()
	}
	return t
}

// Data returns a copy of the current profile.
func (t *Tracker) Data() Data {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.data
}

// WinRate of the tracked profile.
func (t *Tracker) WinRate() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.data.WinRate()
}

// AddXP adds n (negative values are ignored) and returns every level reached.
func (t *Tracker) AddXP(n int) []int {
	t.mu.Lock()
	defer t.mu.Unlock()

	var gained []int
	if n > 0 {
		t.data.TotalXP += n
		t.data.CurrentLevelXP += n
		for t.data.CurrentLevelXP >= XPNeeded(t.data.Level) {
			t.data.CurrentLevelXP -= XPNeeded(t.data.Level)
			t.data.Level++
			gained = append(gained, t.data.Level)
		}
	}
	t.saveLocked()
	return gained
}

// UpdateStats folds a finished game into the profile.
func (t *Tracker) UpdateStats(r Result) {
	t.mu.Lock()
	defer t.mu.Unlock()

	d := &t.data
	d.TotalGames++
	if r.Won {
		d.GamesWon++
		if d.FastestWin == nil || r.Seconds < *d.FastestWin {
			s := r.Seconds
			d.FastestWin = &s
		}
	}
	d.HighScore = max(d.HighScore, r.Score)
	d.BestCombo = max(d.BestCombo, r.MaxCombo)
	d.TotalNodesHacked += r.NodesHacked
	t.saveLocked()
}

// Absorb merges other into the tracked profile and saves the result.
func (t *Tracker) Absorb(other Data) Data {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.data = Merge(t.data, other)
	t.saveLocked()
	return t.data
}

func (t *Tracker) saveLocked() {
	if t.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := t.store.Save(ctx, t.data); err != nil {
		log.Warn().Err(err).Msg("profile save failed")
	}
}
