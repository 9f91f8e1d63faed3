// apps/go-server/internal/profile/storage.go
//
// Profile persistence backends:
//   - MemoryStorage: in-process, for guests without a database and for tests.
//   - SQLStore: the profiles table in SQLite, one row per player id.
//   - Synced: a local and a remote store kept in agreement by merging on load.

package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// Storage loads and saves one player's profile. Load returns (nil, nil) when
// nothing has been stored yet.
type Storage interface {
	Load(ctx context.Context) (*Data, error)
	Save(ctx context.Context, d Data) error
}

// MemoryStorage keeps a profile in memory.
type MemoryStorage struct {
	mu    sync.RWMutex
	data  *Data
	saves int
}

func NewMemoryStorage() *MemoryStorage { return &MemoryStorage{} }

func (m *MemoryStorage) Load(_ context.Context) (*Data, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.data == nil {
		return nil, nil
	}
	d := *m.data
	return &d, nil
}

func (m *MemoryStorage) Save(_ context.Context, d Data) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = &d
	m.saves++
	return nil
}

// Saves counts successful Save calls.
func (m *MemoryStorage) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

// SQLStore reads and writes the profiles table.
type SQLStore struct{ db *sql.DB }

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

// For returns the Storage of one player.
func (s *SQLStore) For(playerID string) Storage {
	return &sqlProfile{db: s.db, id: playerID}
}

type sqlProfile struct {
	db *sql.DB
	id string
}

func (p *sqlProfile) Load(ctx context.Context) (*Data, error) {
	var (
		d       Data
		fastest sql.NullInt64
	)
	err := p.db.QueryRowContext(ctx, `
        SELECT level, total_xp, current_level_xp, high_score, total_games,
               games_won, best_combo, fastest_win, total_nodes_hacked
        FROM profiles WHERE player_id=?`, p.id,
	).Scan(&d.Level, &d.TotalXP, &d.CurrentLevelXP, &d.HighScore, &d.TotalGames,
		&d.GamesWon, &d.BestCombo, &fastest, &d.TotalNodesHacked)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load profile %s: %w", p.id, err)
	}
	if fastest.Valid {
		v := int(fastest.Int64)
		d.FastestWin = &v
	}
	return &d, nil
}

func (p *sqlProfile) Save(ctx context.Context, d Data) error {
	var fastest sql.NullInt64
	if d.FastestWin != nil {
		fastest = sql.NullInt64{Int64: int64(*d.FastestWin), Valid: true}
	}
	_, err := p.db.ExecContext(ctx, `
        INSERT INTO profiles
            (player_id, level, total_xp, current_level_xp, high_score, total_games,
             games_won, best_combo, fastest_win, total_nodes_hacked, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, strftime('%Y-%m-%dT%H:%M:%SZ','now'))
        ON CONFLICT(player_id) DO UPDATE SET
            level=excluded.level,
            total_xp=excluded.total_xp,
            current_level_xp=excluded.current_level_xp,
            high_score=excluded.high_score,
            total_games=excluded.total_games,
            games_won=excluded.games_won,
            best_combo=excluded.best_combo,
            fastest_win=excluded.fastest_win,
            total_nodes_hacked=excluded.total_nodes_hacked,
            updated_at=excluded.updated_at`,
		p.id, d.Level, d.TotalXP, d.CurrentLevelXP, d.HighScore, d.TotalGames,
		d.GamesWon, d.BestCombo, fastest, d.TotalNodesHacked,
	)
	if err != nil {
		return fmt.Errorf("save profile %s: %w", p.id, err)
	}
	return nil
}

// Synced pairs a local store with a remote one. Load merges both copies and
// writes the merge back; Save writes to both. A failing remote never blocks
// the local copy.
type Synced struct {
	Local  Storage
	Remote Storage
}

func (s Synced) Load(ctx context.Context) (*Data, error) {
	local, lerr := s.Local.Load(ctx)
	if lerr != nil {
		log.Warn().Err(lerr).Msg("local profile unreadable")
	}
	remote, rerr := s.Remote.Load(ctx)
	if rerr != nil {
		log.Warn().Err(rerr).Msg("remote profile unreadable")
	}
	if lerr != nil && rerr != nil {
		return nil, errors.Join(lerr, rerr)
	}

	var merged Data
	switch {
	case local == nil && remote == nil:
		return nil, nil
	case local == nil:
		merged = *remote
	case remote == nil:
		merged = *local
	default:
		merged = Merge(*local, *remote)
	}
	if err := s.Save(ctx, merged); err != nil {
		log.Warn().Err(err).Msg("profile sync write-back failed")
	}
	return &merged, nil
}

func (s Synced) Save(ctx context.Context, d Data) error {
	lerr := s.Local.Save(ctx, d)
	rerr := s.Remote.Save(ctx, d)
	return errors.Join(lerr, rerr)
}
