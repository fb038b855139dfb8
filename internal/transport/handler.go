package transport

import (
	"log"
	"net/http"
	"strings"
	"time"

	ws "nhooyr.io/websocket"

	"voxhire/agent/internal/auth"
	"voxhire/agent/internal/config"
	"voxhire/agent/internal/store"
)

// Sink receives connection lifecycle and decoded inbound events for a
// session. Implemented by the agent runner.
type Sink interface {
	OnConnected(sessionID string)
	OnMessage(sessionID string, msg Message)
	OnDisconnected(sessionID string, err error)
}

// Server accepts the per-session duplex websocket used as the transport
// channel.
type Server struct {
	Cfg   config.Config
	Store *store.Store
	Reg   *Registry
	Sink  Sink
}

func NewServer(cfg config.Config, st *store.Store, reg *Registry, sink Sink) *Server {
	return &Server{Cfg: cfg, Store: st, Reg: reg, Sink: sink}
}

func (s *Server) HandleSessionWS(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sessionID := q.Get("session_id")
	if sessionID == "" {
		http.Error(w, "missing session_id", http.StatusBadRequest)
		return
	}
	if s.Store.GetSession(sessionID) == nil {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}
	token := q.Get("token")
	if token == "" {
		authz := r.Header.Get("Authorization")
		token = strings.TrimPrefix(authz, "Bearer ")
	}
	if s.Cfg.Session.TokenSecret == "" {
		http.Error(w, "transport auth not configured", http.StatusUnauthorized)
		return
	}
	if _, _, err := auth.ValidateSessionToken(s.Cfg.Session.TokenSecret, token, sessionID, time.Now(), s.Cfg.Session.TokenSkewSecs); err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := ws.Accept(w, r, nil)
	if err != nil {
		log.Printf("[transport] ws accept: %v", err)
		return
	}
	ch := NewChannel(conn)
	if s.Reg.Replace(sessionID, ch) {
		s.Store.AppendEvent(sessionID, "transport_replaced", nil)
	}
	s.Store.AppendEvent(sessionID, "transport_connected", nil)
	gaugeConnections.Inc()
	s.Sink.OnConnected(sessionID)

	ctx := r.Context()
	var readErr error
	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			readErr = err
			break
		}
		if typ != ws.MessageText {
			continue
		}
		msg := Decode(data)
		if msg.Kind == KindUnknown {
			// Malformed or unrecognized frames are dropped silently.
			continue
		}
		s.Sink.OnMessage(sessionID, msg)
	}

	_ = ch.Close("done")
	gaugeConnections.Dec()
	// Only the session's live channel going away is a disconnect. A replaced
	// connection's read loop also ends up here when its successor closes it;
	// reporting that would error out a healthy session.
	if s.Reg.Remove(sessionID, ch) {
		s.Store.AppendEvent(sessionID, "transport_disconnected", nil)
		s.Sink.OnDisconnected(sessionID, readErr)
	}
}
