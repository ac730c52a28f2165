package signaling

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server is a loopback signaling endpoint that accepts a single peer. It
// plays the remote side of the protocol in local setups and tests.
type Server struct {
	path     string
	listener net.Listener
	connCh   chan *Conn
}

// NewServer creates a server that upgrades requests on path.
func NewServer(path string) *Server {
	return &Server{
		path:   path,
		connCh: make(chan *Conn, 1),
	}
}

// Start begins listening on a random loopback port. Returns the WebSocket
// URL peers should dial.
func (s *Server) Start() (string, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", fmt.Errorf("failed to start signaling server: %w", err)
	}
	s.listener = listener

	mux := http.NewServeMux()
	mux.HandleFunc(s.path, s.handleWS)

	go func() {
		_ = http.Serve(listener, mux)
	}()

	return fmt.Sprintf("ws://%s%s", listener.Addr().String(), s.path), nil
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	// Only accept the first peer.
	select {
	case s.connCh <- NewConn(ws):
	default:
		ws.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "already connected"))
		ws.Close()
	}
}

// WaitForPeer blocks until a peer connects or ctx is cancelled.
func (s *Server) WaitForPeer(ctx context.Context) (*Conn, error) {
	select {
	case conn := <-s.connCh:
		return conn, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close shuts down the listener, preventing new connections.
func (s *Server) Close() {
	if s.listener != nil {
		s.listener.Close()
	}
}
