package transport

import (
	"context"
	"encoding/json"
	"sync"

	ws "nhooyr.io/websocket"
)

// ConnState is the coarse connection lifecycle reported to the turn loop.
type ConnState int

const (
	StateConnected ConnState = iota
	StateDisconnected
)

func (s ConnState) String() string {
	if s == StateConnected {
		return "connected"
	}
	return "disconnected"
}

// Channel wraps one live websocket connection for a session. Writes are
// serialized; reads happen on the accept handler's goroutine.
type Channel struct {
	mu   sync.Mutex
	conn *ws.Conn
}

func NewChannel(conn *ws.Conn) *Channel { return &Channel{conn: conn} }

// SendJSON writes a structured event as a text frame.
func (c *Channel) SendJSON(ctx context.Context, ev Event) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.Write(ctx, ws.MessageText, b)
}

// SendBinary writes an audio chunk as a binary frame.
func (c *Channel) SendBinary(ctx context.Context, b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.Write(ctx, ws.MessageBinary, b)
}

// Close closes the underlying connection.
func (c *Channel) Close(reason string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.Close(ws.StatusNormalClosure, reason)
}
