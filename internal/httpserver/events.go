// apps/go-server/internal/httpserver/events.go
//
// GET /session/{id}/events upgrades to a websocket and streams every event of
// the session as JSON text frames, in emission order.
//
//   - Only the session owner may subscribe (404 otherwise).
//   - Events go through a buffered channel sink; a slow client loses events
//     instead of stalling the game. Clients resync with GET /session/{id}.
//   - A read loop notices when the client goes away; pings keep proxies from
//     closing an idle stream.

package httpserver

import (
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/netbreach/apps/go-server/internal/event"
)

const (
	eventBuffer  = 256
	pingInterval = 30 * time.Second
	writeTimeout = 10 * time.Second
	readTimeout  = 2 * pingInterval
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     checkOrigin,
}

// checkOrigin accepts the configured client origin and same-host requests.
func checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || origin == clientOrigin() {
		return true
	}
	u, err := url.Parse(origin)
	return err == nil && u.Host == r.Host
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	g, ok := s.ownedSession(w, r)
	if !ok {
		return
	}
	// Subscribe first so nothing emitted during the handshake is missed.
	sink := event.NewChannel(eventBuffer)
	unsubscribe := g.Subscribe(sink)
	defer unsubscribe()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied.
		log.Warn().Err(err).Str("session", g.ID()).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()
	log.Debug().Str("session", g.ID()).Msg("event stream opened")

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(4096)
		_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(readTimeout))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()
	for {
		select {
		case <-closed:
			log.Debug().Str("session", g.ID()).Int("dropped", sink.Dropped()).Msg("event stream closed")
			return
		case <-r.Context().Done():
			return
		case e := <-sink.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(e); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}
