package daily

import (
	"context"
	"database/sql"
)

// Result is one player's finished daily run.
type Result struct {
	PlayerID    string `json:"playerId"`
	Date        string `json:"date"`
	Score       int    `json:"score"`
	Won         bool   `json:"won"`
	NodesHacked int    `json:"nodesHacked"`
	ElapsedMs   int64  `json:"elapsedMs"`
}

// Store reads and writes daily_results.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// AlreadyPlayed reports whether the player has a result for date.
func (s *Store) AlreadyPlayed(ctx context.Context, playerID, date string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM daily_results WHERE player_id=? AND date=?",
		playerID, date,
	).Scan(&cnt)
	return cnt > 0, err
}

// InsertResult stores r. A second result for the same player and date is
// ignored.
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_results(player_id, date, score, won, nodes_hacked, elapsed_ms)
		 VALUES(?,?,?,?,?,?)`, r.PlayerID, r.Date, r.Score, r.Won, r.NodesHacked, r.ElapsedMs,
	)
	return err
}

// LBRow is one leaderboard line. Username is empty for guests.
type LBRow struct {
	PlayerID    string `json:"playerId"`
	Username    string `json:"username,omitempty"`
	Score       int    `json:"score"`
	Won         bool   `json:"won"`
	NodesHacked int    `json:"nodesHacked"`
	ElapsedMs   int64  `json:"elapsedMs"`
}

// Leaderboard lists the best runs of a date: highest score first, then the
// faster run, then whoever finished first.
func (s *Store) Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT d.player_id, COALESCE(u.username, ''), d.score, d.won, d.nodes_hacked, d.elapsed_ms
		 FROM daily_results d
		 LEFT JOIN users u ON u.id = d.player_id
		 WHERE d.date=?
		 ORDER BY d.score DESC, d.elapsed_ms ASC, d.created_at ASC
		 LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]LBRow, 0, limit)
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.PlayerID, &r.Username, &r.Score, &r.Won, &r.NodesHacked, &r.ElapsedMs); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
