// pkg/network/feed_client.go
package network

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/igupta1/CannonShooter/pkg/config"
	"github.com/igupta1/CannonShooter/pkg/logging"
)

// FeedClient consumes a spectator feed. Connections go through the circuit
// breaker; a server that stays down trips the breaker and connect attempts
// fail fast until the cool-down passes.
type FeedClient struct {
	dialer *FeedDialer
	logger *logging.Logger

	mu   sync.Mutex
	conn *websocket.Conn

	// Messages delivers every decoded feed message. The channel closes when
	// the connection drops.
	Messages chan FeedMessage
}

// NewFeedClient creates a disconnected feed client.
func NewFeedClient(envConfig *config.EnvironmentConfig) *FeedClient {
	return &FeedClient{
		dialer: NewFeedDialer(envConfig),
		logger: logging.NewLogger(),
	}
}

// Connect dials the feed endpoint and starts the read loop. The URL should
// look like ws://host:port/feed.
func (c *FeedClient) Connect(ctx context.Context, url string) error {
	err := c.dialer.ExecuteWithRetry(ctx, func() error {
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
		if err != nil {
			return fmt.Errorf("dialing %s: %w", url, err)
		}
		c.mu.Lock()
		c.conn = conn
		c.mu.Unlock()
		return nil
	})
	if err != nil {
		return err
	}

	c.Messages = make(chan FeedMessage, 16)
	go c.readLoop(ctx)
	return nil
}

// Close shuts the connection down; the read loop exits and Messages closes.
func (c *FeedClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

func (c *FeedClient) readLoop(ctx context.Context) {
	defer close(c.Messages)

	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				c.logger.Warn(ctx, "feed read failed", "error", err)
			}
			return
		}

		var msg FeedMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.logger.Warn(ctx, "malformed feed message", "error", err)
			continue
		}

		select {
		case c.Messages <- msg:
		case <-ctx.Done():
			return
		}
	}
}
