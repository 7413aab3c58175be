package channel

import (
	"context"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
)

const maxMessageSize = 1024

// WebSocketDialer opens push connections with gorilla/websocket.
type WebSocketDialer struct {
	dialer websocket.Dialer
}

// NewWebSocketDialer creates a dialer with the given handshake timeout.
func NewWebSocketDialer(handshakeTimeout time.Duration) *WebSocketDialer {
	return &WebSocketDialer{
		dialer: websocket.Dialer{
			HandshakeTimeout: handshakeTimeout,
			ReadBufferSize:   1024,
			WriteBufferSize:  1024,
		},
	}
}

// Dial performs the websocket handshake against url.
func (d *WebSocketDialer) Dial(ctx context.Context, url string) (Conn, error) {
	conn, resp, err := d.dialer.DialContext(ctx, url, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("websocket handshake failed (%s): %w", resp.Status, err)
		}
		return nil, err
	}
	conn.SetReadLimit(maxMessageSize)
	return conn, nil
}
