// Package signaling carries JSON control messages over a WebSocket text
// connection.
package signaling

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/1ureka/roswebrtc/internal/protocol"
)

// closeGracePeriod bounds how long Close waits to deliver the close frame.
const closeGracePeriod = time.Second

// ErrConnClosed is returned by Send after Close.
var ErrConnClosed = errors.New("signaling connection closed")

// Conn is a full-duplex signaling connection. Send is safe for concurrent
// use; Receive must be called from a single reader goroutine.
type Conn struct {
	ws *websocket.Conn

	mu     sync.Mutex // serializes writes
	closed bool

	closeOnce sync.Once
	closeErr  error
}

// NewConn wraps an established WebSocket connection.
func NewConn(ws *websocket.Conn) *Conn {
	return &Conn{ws: ws}
}

// Dial connects to the signaling endpoint at url.
func Dial(ctx context.Context, url string) (*Conn, error) {
	dialer := websocket.DefaultDialer
	ws, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to signaling server: %w", err)
	}
	return NewConn(ws), nil
}

// Send encodes msg and writes it as one text frame.
func (c *Conn) Send(msg protocol.Message) error {
	data, err := protocol.Encode(msg)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrConnClosed
	}
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

// Receive blocks for the next message. Payloads that fail to decode are
// returned with an error wrapping protocol.ErrInvalidMessage; the connection
// remains usable after such errors. Any other error is terminal.
func (c *Conn) Receive() (*protocol.Message, error) {
	for {
		typ, data, err := c.ws.ReadMessage()
		if err != nil {
			return nil, err
		}
		if typ != websocket.TextMessage {
			continue
		}
		return protocol.Decode(data)
	}
}

// Close sends a normal-closure frame and closes the underlying connection.
// Calling Close more than once is safe.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		_ = c.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(closeGracePeriod))
		c.mu.Unlock()

		c.closeErr = c.ws.Close()
	})
	return c.closeErr
}

// IsClosedError reports whether err is the result of a normal or locally
// initiated shutdown rather than a transport failure.
func IsClosedError(err error) bool {
	if errors.Is(err, ErrConnClosed) || errors.Is(err, net.ErrClosed) {
		return true
	}
	return websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway)
}
