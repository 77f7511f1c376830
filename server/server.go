// Package server implements a small live-streaming daemon: it holds one
// already-parsed replay's decoded frames in memory and streams them, one
// at a time at a configurable rate, to any client that connects over a
// websocket and presents a valid bearer token. This is additive to the
// core parser — a transport and auth wrapper around data netstream
// already decoded, grounded on ernie-trinity-tools' combination of
// gorilla/websocket and golang-jwt/jwt/v5.
package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/harrowgate/fnrep/netstream"
)

// Server streams one replay's decoded frames to any number of connected
// viewers.
type Server struct {
	frames []netstream.DemoFrame
	rate   time.Duration
	auth   *Authenticator

	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

// New builds a Server that will replay frames at the given rate (the
// delay between frames; zero means as fast as possible). auth may be nil
// to disable authentication.
func New(frames []netstream.DemoFrame, rate time.Duration, auth *Authenticator) *Server {
	if auth == nil {
		auth = NewAuthenticator(nil)
	}
	return &Server{
		frames: frames,
		rate:   rate,
		auth:   auth,
		conns:  make(map[*websocket.Conn]struct{}),
	}
}

// ServeHTTP upgrades the request to a websocket and streams every frame
// to it in order, then closes the connection.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := s.auth.Authenticate(r); err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("server: websocket upgrade failed")
		return
	}
	s.track(conn)
	defer s.untrack(conn)
	defer conn.Close()

	ticker := newPacer(s.rate)
	defer ticker.Stop()

	for _, frame := range s.frames {
		payload, err := json.Marshal(frame)
		if err != nil {
			log.Warn().Err(err).Msg("server: failed to marshal frame")
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Debug().Err(err).Msg("server: client disconnected mid-stream")
			return
		}
		ticker.wait()
	}
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "replay complete"))
}

// ActiveConnections returns the number of viewers currently streaming.
func (s *Server) ActiveConnections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

func (s *Server) track(c *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conns[c] = struct{}{}
}

func (s *Server) untrack(c *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, c)
}

// pacer ticks once per frame at the configured rate, or never blocks if
// the rate is zero.
type pacer struct {
	ticker *time.Ticker
}

func newPacer(rate time.Duration) *pacer {
	if rate <= 0 {
		return &pacer{}
	}
	return &pacer{ticker: time.NewTicker(rate)}
}

func (p *pacer) wait() {
	if p.ticker == nil {
		return
	}
	<-p.ticker.C
}

func (p *pacer) Stop() {
	if p.ticker != nil {
		p.ticker.Stop()
	}
}
