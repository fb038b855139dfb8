package transport

import (
	"context"
	"sync"
)

// Registry keeps at most one live channel per session. A reconnect replaces
// and closes the previous connection.
type Registry struct {
	mu    sync.Mutex
	conns map[string]*Channel
}

func NewRegistry() *Registry { return &Registry{conns: make(map[string]*Channel)} }

// Replace sets the channel for a session, closing the previous one if
// present.
func (r *Registry) Replace(sessionID string, c *Channel) (prevClosed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.conns[sessionID]; ok && old != nil {
		_ = old.Close("replaced")
		prevClosed = true
	}
	r.conns[sessionID] = c
	return
}

func (r *Registry) Get(sessionID string) *Channel {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.conns[sessionID]
}

// Remove drops the session's channel only if it is still the given one, so a
// replaced connection's teardown cannot evict its successor. Reports whether
// the channel was still the session's live one.
func (r *Registry) Remove(sessionID string, c *Channel) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conns[sessionID] == c {
		delete(r.conns, sessionID)
		return true
	}
	return false
}

// SendJSON delivers an event to the session's live channel; a missing
// channel is a silent no-op, matching best-effort delivery semantics.
func (r *Registry) SendJSON(ctx context.Context, sessionID string, ev Event) error {
	c := r.Get(sessionID)
	if c == nil {
		return nil
	}
	return c.SendJSON(ctx, ev)
}

// SendBinary delivers an audio chunk to the session's live channel.
func (r *Registry) SendBinary(ctx context.Context, sessionID string, b []byte) error {
	c := r.Get(sessionID)
	if c == nil {
		return nil
	}
	return c.SendBinary(ctx, b)
}

// CloseAll tears down every live channel; used at shutdown.
func (r *Registry) CloseAll(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.conns {
		_ = c.Close(reason)
		delete(r.conns, id)
	}
}
