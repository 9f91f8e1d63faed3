// apps/go-server/internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Breach" mode.
// Exposes two endpoints under /daily:
//   - POST /daily/new         → start today's breach (creates or reuses a session)
//   - GET  /daily/leaderboard → top 20 results for today (or ?date=YYYY-MM-DD)
//
// Every player gets the same board on a given date: the board seed is derived
// from the date and DAILY_SALT. The session itself is an ordinary session
// (driven through /session/{id}/*); its first finished run is persisted and
// later runs of the same day are ignored.

package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/netbreach/apps/go-server/internal/daily"
	"github.com/robalobadob/netbreach/apps/go-server/internal/game"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	salt     string
	sessions map[string]string // session id keyed by playerID|date
	mu       sync.Mutex        // guards sessions
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{
		srv:      s,
		store:    daily.NewStore(s.db),
		salt:     getEnv("DAILY_SALT", "local_dev_salt"),
		sessions: make(map[string]string),
	}
	s.daily = dd
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

// newRes is returned by /daily/new.
type newRes struct {
	SessionID string         `json:"sessionId"`
	Date      string         `json:"date"`
	Played    bool           `json:"played"`
	Session   *game.Snapshot `json:"session,omitempty"`
}

// handleNew creates or reuses today's daily session.
//   - If the player already has a stored result for today → Played=true.
//   - Otherwise reuse the in-memory session or create one.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	uid, _ := d.srv.playerID(w, r)
	now := d.srv.clock.Now()
	date := daily.DateKey(now)

	played, err := d.store.AlreadyPlayed(r.Context(), uid, date)
	if err != nil {
		log.Error().Err(err).Str("player", uid).Msg("daily lookup failed")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	if played {
		_ = json.NewEncoder(w).Encode(newRes{Date: date, Played: true})
		return
	}

	key := uid + "|" + date
	d.mu.Lock()
	defer d.mu.Unlock()
	if id, ok := d.sessions[key]; ok {
		if g, err := d.srv.store.Get(r.Context(), id); err == nil {
			snap := g.Snapshot()
			_ = json.NewEncoder(w).Encode(newRes{SessionID: id, Date: date, Session: &snap})
			return
		}
	}

	cfg := d.srv.gameCfg
	g := game.NewSession(game.Options{
		Player:  uid,
		Clock:   d.srv.clock,
		Seed:    daily.Seed(now, d.salt),
		Daily:   date,
		Config:  &cfg,
		Profile: d.srv.tracker(r.Context(), uid),
		OnEnd:   d.record,
	})
	if err := d.srv.store.Save(r.Context(), g); err != nil {
		writeError(w, http.StatusInternalServerError, "store_failed")
		return
	}
	d.sessions[key] = g.ID()
	log.Info().Str("player", uid).Str("date", date).Str("session", g.ID()).Msg("daily breach dealt")

	snap := g.Snapshot()
	_ = json.NewEncoder(w).Encode(newRes{SessionID: g.ID(), Date: date, Session: &snap})
}

// forgetEvicted drops entries whose session is no longer registered.
func (d *dailyServer) forgetEvicted(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for key, id := range d.sessions {
		if _, err := d.srv.store.Get(ctx, id); err != nil {
			delete(d.sessions, key)
		}
	}
}

// record persists a finished daily run. It runs from inside the session, so
// it must not call back into it.
func (d *dailyServer) record(sum game.Summary) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := d.store.InsertResult(ctx, daily.Result{
		PlayerID:    sum.Player,
		Date:        sum.Daily,
		Score:       sum.Score,
		Won:         sum.Won,
		NodesHacked: sum.NodesHacked,
		ElapsedMs:   sum.Elapsed.Milliseconds(),
	})
	if err != nil {
		log.Error().Err(err).Str("player", sum.Player).Str("date", sum.Daily).Msg("daily result not saved")
		return
	}
	log.Info().Str("player", sum.Player).Str("date", sum.Daily).Int("score", sum.Score).Bool("won", sum.Won).Msg("daily result saved")
}

// handleLeaderboard returns the top 20 results for the given date
// (or today if no date param).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(d.srv.clock.Now())
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		log.Error().Err(err).Str("date", date).Msg("leaderboard query failed")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"date": date, "rows": rows})
}
