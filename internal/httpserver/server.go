// apps/go-server/internal/httpserver/server.go
//
// HTTP server wiring for the Net Breach backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/debug/flavor".
//   - Session endpoints (optional auth, guests play under an anonymous
//     cookie): /session/* plus the websocket event stream.
//   - Daily breach endpoints: mounted under /daily.
//   - Auth + profile endpoints: /auth/*, /profile/me (routes_auth.go).
//   - The session ticker that drives every game's timers, and the sweep that
//     drops ended or idle sessions and unused profile trackers.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - The websocket route sits outside the request timeout.
//   - Every player (account or guest) has one profile tracker shared by all
//     of their sessions.
//   - Without a database only sessions and /profile/me are served; accounts
//     and the daily mode need sqlite.

package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/netbreach/apps/go-server/internal/clock"
	"github.com/robalobadob/netbreach/apps/go-server/internal/flavor"
	"github.com/robalobadob/netbreach/apps/go-server/internal/game"
	"github.com/robalobadob/netbreach/apps/go-server/internal/profile"
	"github.com/robalobadob/netbreach/apps/go-server/internal/store"
)

// Server bundles router, session registry, DB handle and profile trackers.
type Server struct {
	r        *chi.Mux
	store    store.Store
	db       *sql.DB
	profiles *profile.SQLStore
	clock    clock.Clock
	gameCfg  game.Config
	daily    *dailyServer // nil without a database

	idleTTL  time.Duration // unfinished sessions without commands
	endedTTL time.Duration // finished sessions, kept so clients can read results

	mu        sync.Mutex
	trackers  map[string]*trackerEntry
	lastSweep time.Time
}

type trackerEntry struct {
	t    *profile.Tracker
	used time.Time
}

// sweepEvery is how often TickAll looks for sessions to evict.
const sweepEvery = time.Minute

// Option customises a Server.
type Option func(*Server)

// WithClock swaps the time source of new sessions.
func WithClock(c clock.Clock) Option { return func(s *Server) { s.clock = c } }

// WithGameConfig overrides the tuning of new sessions.
func WithGameConfig(cfg game.Config) Option { return func(s *Server) { s.gameCfg = cfg } }

// WithSessionTTL sets how long idle and ended sessions stay registered.
func WithSessionTTL(idle, ended time.Duration) Option {
	return func(s *Server) { s.idleTTL, s.endedTTL = idle, ended }
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, db *sql.DB, opts ...Option) *Server {
	s := &Server{
		r:        chi.NewRouter(),
		store:    st,
		db:       db,
		profiles: profile.NewSQLStore(db),
		clock:    clock.System{},
		gameCfg:  game.DefaultConfig(),
		idleTTL:  envMinutes("SESSION_IDLE_MIN", 30),
		endedTTL: envMinutes("SESSION_ENDED_MIN", 5),
		trackers: make(map[string]*trackerEntry),
	}
	for _, o := range opts {
		o(s)
	}
	s.lastSweep = s.clock.Now()

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(jsonContentType)
	s.r.Use(corsFromEnv)

	// Long-lived event stream; no request timeout.
	s.r.With(s.withOptionalAuth()).Get("/session/{id}/events", s.handleEvents)

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second))

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"service":"netbreach-go","endpoints":["/health","POST /session/new","GET /session/{id}/events","/daily/*","/auth/*","/profile/me"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "sessions": s.store.Len()})
		})
		r.Get("/debug/flavor", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(flavor.Stats())
		})

		opt := r.With(s.withOptionalAuth())
		s.mountSessions(opt)
		opt.Get("/profile/me", s.handleProfile)
		if s.db == nil {
			log.Warn().Msg("no database: accounts and daily mode disabled")
			return
		}
		s.mountDaily(opt)
		s.mountAuthRoutes(r)
	})

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})
	return s
}

// Start runs the session ticker and serves HTTP on addr until ctx is done.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.r}
	go s.RunTicker(ctx, tickInterval())
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// RunTicker advances every session's timers every d until ctx is done.
func (s *Server) RunTicker(ctx context.Context, d time.Duration) {
	t := time.NewTicker(d)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.TickAll()
		}
	}
}

// TickAll runs due timers on every registered session and, once per
// sweepEvery, evicts stale sessions.
func (s *Server) TickAll() {
	s.store.Each(func(g *game.Session) { g.Tick() })

	now := s.clock.Now()
	s.mu.Lock()
	due := now.Sub(s.lastSweep) >= sweepEvery
	if due {
		s.lastSweep = now
	}
	s.mu.Unlock()
	if due {
		s.Sweep()
	}
}

// Sweep drops sessions that ended more than endedTTL ago or saw no command
// for idleTTL, then forgets daily entries and profile trackers nothing refers
// to any more. Returns the number of sessions evicted.
func (s *Server) Sweep() int {
	ctx := context.Background()
	now := s.clock.Now()
	live := make(map[string]bool)
	evicted := 0
	s.store.Each(func(g *game.Session) {
		idle := now.Sub(g.LastActive())
		if (g.Status() == game.StatusEnded && idle >= s.endedTTL) || idle >= s.idleTTL {
			g.Close()
			_ = s.store.Delete(ctx, g.ID())
			evicted++
			return
		}
		live[g.Player()] = true
	})
	if s.daily != nil {
		s.daily.forgetEvicted(ctx)
	}

	// Memory-backed profiles exist only in their tracker, so keep them.
	dropped := 0
	if s.db != nil {
		s.mu.Lock()
		for id, e := range s.trackers {
			if !live[id] && now.Sub(e.used) >= s.idleTTL {
				delete(s.trackers, id)
				dropped++
			}
		}
		s.mu.Unlock()
	}
	if evicted > 0 || dropped > 0 {
		log.Info().Int("sessions", evicted).Int("trackers", dropped).Int("remaining", s.store.Len()).Msg("swept stale state")
	}
	return evicted
}

func tickInterval() time.Duration {
	ms, err := strconv.Atoi(getEnv("TICK_MS", "50"))
	if err != nil || ms <= 0 {
		log.Warn().Str("TICK_MS", os.Getenv("TICK_MS")).Msg("invalid tick interval, using 50ms")
		ms = 50
	}
	return time.Duration(ms) * time.Millisecond
}

// tracker returns the shared profile tracker of a player, loading it on first
// use. Without a database, profiles live in memory.
func (s *Server) tracker(ctx context.Context, playerID string) *profile.Tracker {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()
	if e, ok := s.trackers[playerID]; ok {
		e.used = now
		return e.t
	}
	var st profile.Storage = profile.NewMemoryStorage()
	if s.db != nil {
		st = s.profiles.For(playerID)
	}
	t := profile.Load(ctx, st)
	s.trackers[playerID] = &trackerEntry{t: t, used: now}
	return t
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFromEnv enables credentialed CORS for a single origin.
// Uses CLIENT_ORIGIN env var; defaults to http://localhost:5173.
func corsFromEnv(next http.Handler) http.Handler {
	origin := clientOrigin()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientOrigin() string { return getEnv("CLIENT_ORIGIN", "http://localhost:5173") }

// ------------------------------- small util --------------------------------

// writeError sends {"error": msg} with the given status.
func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// envMinutes reads a positive number of minutes from k.
func envMinutes(k string, def int) time.Duration {
	n, err := strconv.Atoi(getEnv(k, strconv.Itoa(def)))
	if err != nil || n <= 0 {
		log.Warn().Str(k, os.Getenv(k)).Int("default", def).Msg("invalid duration, using default")
		n = def
	}
	return time.Duration(n) * time.Minute
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
