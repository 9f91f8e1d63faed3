// apps/go-server/internal/httpserver/routes_session.go
//
// HTTP routes for free-play breach sessions.
//   - POST /session/new           → create a session (optional "mode")
//   - GET  /session/{id}          → current snapshot
//   - POST /session/{id}/start    → begin the breach
//   - POST /session/{id}/reset    → abandon and deal a new board
//   - POST /session/{id}/end      → forfeit (recorded as a loss)
//   - POST /session/{id}/mode     → pick a minigame mode, or cycle when empty
//   - POST /session/{id}/click    → attempt to hack a node
//   - POST /session/{id}/input    → feed the open hack challenge
//
// Every command answers with the session snapshot. Sessions belong to the
// player that created them; other players get 404.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/netbreach/apps/go-server/internal/challenge"
	"github.com/robalobadob/netbreach/apps/go-server/internal/game"
)

type newSessionReq struct {
	Mode string `json:"mode"`
}

type modeReq struct {
	Mode string `json:"mode"`
}

type clickReq struct {
	Node *int `json:"node"`
}

// inputReq carries one challenge input. Kind selects which fields apply.
type inputReq struct {
	Kind   string `json:"kind"` // symbol | guess | hint | control
	Symbol string `json:"symbol"`
	Digits []int  `json:"digits"`
	MoveX  int    `json:"moveX"`
	MoveY  int    `json:"moveY"`
	Fire   bool   `json:"fire"`
}

func (in inputReq) toInput() (challenge.Input, error) {
	switch in.Kind {
	case "symbol":
		return challenge.SymbolInput{Symbol: in.Symbol}, nil
	case "guess":
		return challenge.GuessInput{Digits: in.Digits}, nil
	case "hint":
		return challenge.HintInput{}, nil
	case "control":
		return challenge.ControlInput{MoveX: in.MoveX, MoveY: in.MoveY, Fire: in.Fire}, nil
	}
	return nil, errors.New("unknown input kind")
}

// mountSessions registers flat /session/{id}/... routes; the events stream
// shares the {id} node from server.go.
func (s *Server) mountSessions(r chi.Router) {
	r.Post("/session/new", s.handleNewSession)
	r.Get("/session/{id}", s.withSession(func(w http.ResponseWriter, r *http.Request, g *game.Session) {
		writeSnapshot(w, g)
	}))
	r.Post("/session/{id}/start", s.withSession(func(w http.ResponseWriter, r *http.Request, g *game.Session) {
		respond(w, g, g.Start())
	}))
	r.Post("/session/{id}/reset", s.withSession(func(w http.ResponseWriter, r *http.Request, g *game.Session) {
		g.Reset()
		writeSnapshot(w, g)
	}))
	r.Post("/session/{id}/end", s.withSession(func(w http.ResponseWriter, r *http.Request, g *game.Session) {
		respond(w, g, g.End())
	}))
	r.Post("/session/{id}/mode", s.withSession(s.handleMode))
	r.Post("/session/{id}/click", s.withSession(s.handleClick))
	r.Post("/session/{id}/input", s.withSession(s.handleInput))
}

// handleNewSession creates and registers a session for the caller.
func (s *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	var req newSessionReq
	// An empty body means defaults.
	_ = json.NewDecoder(r.Body).Decode(&req)

	mode := challenge.ModePattern
	if req.Mode != "" {
		m, err := challenge.ParseMode(req.Mode)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		mode = m
	}

	player, _ := s.playerID(w, r)
	cfg := s.gameCfg
	g := game.NewSession(game.Options{
		Player:  player,
		Clock:   s.clock,
		Mode:    mode,
		Config:  &cfg,
		Profile: s.tracker(r.Context(), player),
		OnEnd: func(sum game.Summary) {
			log.Info().Str("session", sum.SessionID).Bool("won", sum.Won).Int("score", sum.Score).Msg("session finished")
		},
	})
	if err := s.store.Save(r.Context(), g); err != nil {
		writeError(w, http.StatusInternalServerError, "store_failed")
		return
	}
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(g.Snapshot())
}

func (s *Server) handleMode(w http.ResponseWriter, r *http.Request, g *game.Session) {
	var req modeReq
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.Mode == "" {
		g.CycleMode()
		writeSnapshot(w, g)
		return
	}
	m, err := challenge.ParseMode(req.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	g.SetMode(m)
	writeSnapshot(w, g)
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request, g *game.Session) {
	var req clickReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Node == nil {
		writeError(w, http.StatusBadRequest, "node required")
		return
	}
	respond(w, g, g.Click(*req.Node))
}

func (s *Server) handleInput(w http.ResponseWriter, r *http.Request, g *game.Session) {
	var req inputReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	respond(w, g, g.Submit(in))
}

// withSession resolves {id} and checks that the caller owns the session.
func (s *Server) withSession(h func(http.ResponseWriter, *http.Request, *game.Session)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, ok := s.ownedSession(w, r)
		if !ok {
			return
		}
		h(w, r, g)
	}
}

func (s *Server) ownedSession(w http.ResponseWriter, r *http.Request) (*game.Session, bool) {
	g, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	if player, _ := s.playerID(w, r); player != g.Player() {
		writeError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return g, true
}

// respond maps a command error to a status and otherwise writes the snapshot.
func respond(w http.ResponseWriter, g *game.Session, err error) {
	switch {
	case err == nil:
		writeSnapshot(w, g)
	case isRejection(err):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.Error().Err(err).Str("session", g.ID()).Msg("session command failed")
		writeError(w, http.StatusInternalServerError, "internal")
	}
}

func isRejection(err error) bool {
	return errors.Is(err, game.ErrRejected) ||
		errors.Is(err, challenge.ErrBadInput) ||
		errors.Is(err, challenge.ErrIncomplete) ||
		errors.Is(err, challenge.ErrHintUnavailable) ||
		errors.Is(err, challenge.ErrFinished)
}

func writeSnapshot(w http.ResponseWriter, g *game.Session) {
	_ = json.NewEncoder(w).Encode(g.Snapshot())
}
