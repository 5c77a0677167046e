// Package transport owns the websocket link to the game server. It is a
// thin shell: frames go out through SendMove and come back as raw bytes
// through Listen; all interpretation happens in the game session.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/coder/websocket"

	"clickchess/internal/logging"
	"clickchess/internal/protocol"
)

// ErrNotConnected is returned by SendMove after the connection is gone.
var ErrNotConnected = errors.New("websocket not connected")

const writeTimeout = 3 * time.Second

// Client is a connected websocket endpoint. Safe for concurrent use.
type Client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

// Dial opens a websocket connection to url (ws:// or wss://).
func Dial(ctx context.Context, url string) (*Client, error) {
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	logging.Infof("connected to %s", url)
	return &Client{conn: conn}, nil
}

// SendMove marshals and writes one move request.
func (c *Client) SendMove(req protocol.MoveRequest) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode move: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := conn.Write(ctx, websocket.MessageText, payload); err != nil {
		return fmt.Errorf("write move: %w", err)
	}
	return nil
}

// Listen reads frames until the connection closes or ctx is cancelled,
// handing each payload to handle. A clean close returns nil.
func (c *Client) Listen(ctx context.Context, handle func([]byte)) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			c.mu.Lock()
			closedLocally := c.conn == nil
			c.conn = nil
			c.mu.Unlock()

			if closedLocally {
				return nil
			}
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read: %w", err)
		}
		handle(data)
	}
}

// Close shuts the connection down cleanly. Safe to call more than once.
func (c *Client) Close() error {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()
	if conn == nil {
		return nil
	}
	return conn.Close(websocket.StatusNormalClosure, "bye")
}
