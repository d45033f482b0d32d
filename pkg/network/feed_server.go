// Package network provides the one-way spectator feed: a WebSocket endpoint
// that streams game-state snapshots to connected viewers, and the client
// side used by the terminal spectator, protected by a circuit breaker.
package network

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/igupta1/CannonShooter/pkg/config"
	"github.com/igupta1/CannonShooter/pkg/engine"
	"github.com/igupta1/CannonShooter/pkg/logging"
	"github.com/igupta1/CannonShooter/pkg/validation"
)

const (
	writeWait = 10 * time.Second

	// Connection-attempt throttle per remote address.
	connectAttempts = 10
	connectWindow   = time.Minute
)

// spectator is one connected feed consumer. The per-connection mutex
// serializes writes; gorilla connections allow only one concurrent writer.
type spectator struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// FeedServer accepts spectator connections and broadcasts snapshots to all
// of them. Spectators never send gameplay input; inbound messages are
// drained and discarded to service control frames.
type FeedServer struct {
	game   *engine.Game
	cfg    *config.EnvironmentConfig
	logger *logging.Logger

	upgrader websocket.Upgrader
	server   *http.Server
	limiter  *validation.RateLimiter

	mu         sync.Mutex
	spectators map[uint64]*spectator
	nextID     uint64
	listenAddr string

	// OnCountChange, when set, is called with the spectator count after
	// every connect and disconnect.
	OnCountChange func(count int)
}

// NewFeedServer creates a feed server for the given game.
func NewFeedServer(game *engine.Game, cfg *config.EnvironmentConfig) *FeedServer {
	return &FeedServer{
		game:   game,
		cfg:    cfg,
		logger: logging.NewLogger(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		spectators: make(map[uint64]*spectator),
		limiter:    validation.NewRateLimiter(connectAttempts, connectWindow),
	}
}

// Start begins listening for spectator connections. It returns once the
// listener is bound; serving continues in the background.
func (s *FeedServer) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.ServerAddr, s.cfg.ServerPort)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("binding feed listener: %w", err)
	}

	s.mu.Lock()
	s.listenAddr = listener.Addr().String()
	s.mu.Unlock()

	mux := http.NewServeMux()
	mux.HandleFunc("/feed", s.handleFeed)

	s.server = &http.Server{
		Handler:      mux,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.logger.Error(context.Background(), "feed server stopped", err)
		}
	}()

	s.logger.Info(context.Background(), "feed server listening", "addr", s.listenAddr)
	return nil
}

// ListenerAddr returns the bound address, or "" before Start.
func (s *FeedServer) ListenerAddr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listenAddr
}

// SpectatorCount returns the number of connected spectators.
func (s *FeedServer) SpectatorCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.spectators)
}

// handleFeed upgrades a spectator connection, sends the greeting, and parks
// a reader draining control frames until the connection dies.
func (s *FeedServer) handleFeed(w http.ResponseWriter, r *http.Request) {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if !s.limiter.Allow(host) {
		s.logger.Warn(r.Context(), "connection attempt throttled", "remote", host)
		http.Error(w, "too many connection attempts", http.StatusTooManyRequests)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn(r.Context(), "feed upgrade failed", "error", err)
		return
	}

	s.mu.Lock()
	if len(s.spectators) >= s.cfg.MaxSpectators {
		s.mu.Unlock()
		msg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "spectator limit reached")
		conn.WriteMessage(websocket.CloseMessage, msg)
		conn.Close()
		return
	}
	s.nextID++
	id := s.nextID
	sub := &spectator{conn: conn}
	s.spectators[id] = sub
	count := len(s.spectators)
	s.mu.Unlock()

	s.notifyCount(count)
	s.logger.Info(r.Context(), "spectator connected", "id", id, "count", count)

	hello := FeedMessage{
		Type:       MessageHello,
		ServerTime: time.Now().UnixMilli(),
		Hello: &HelloPayload{
			RoundTime:     s.game.Config.RoundTime,
			ChestsTotal:   len(s.game.Config.Chests),
			BroadcastRate: s.cfg.BroadcastRate,
		},
	}
	if err := s.writeMessage(sub, &hello); err != nil {
		s.drop(id)
		return
	}

	go s.readLoop(id, conn)
}

// readLoop drains inbound frames so pings and close handshakes are serviced.
// Spectators have no gameplay input; payloads are ignored.
func (s *FeedServer) readLoop(id uint64, conn *websocket.Conn) {
	defer s.drop(id)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Broadcast marshals the snapshot once and sends it to every spectator.
// Spectators whose write fails are dropped.
func (s *FeedServer) Broadcast(state *engine.GameState) {
	msg := FeedMessage{
		Type:       MessageState,
		ServerTime: time.Now().UnixMilli(),
		State:      state,
	}
	data, err := json.Marshal(&msg)
	if err != nil {
		s.logger.Error(context.Background(), "marshaling feed state", err)
		return
	}

	s.mu.Lock()
	subs := make(map[uint64]*spectator, len(s.spectators))
	for id, sub := range s.spectators {
		subs[id] = sub
	}
	s.mu.Unlock()

	for id, sub := range subs {
		sub.mu.Lock()
		sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
		err := sub.conn.WriteMessage(websocket.TextMessage, data)
		sub.mu.Unlock()
		if err != nil {
			s.logger.Warn(context.Background(), "dropping spectator", "id", id, "error", err)
			s.drop(id)
		}
	}
}

// Stop closes every spectator connection and shuts the HTTP server down.
func (s *FeedServer) Stop(ctx context.Context) error {
	s.mu.Lock()
	for id, sub := range s.spectators {
		sub.conn.Close()
		delete(s.spectators, id)
	}
	s.listenAddr = ""
	s.mu.Unlock()

	s.limiter.Close()

	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *FeedServer) writeMessage(sub *spectator, msg *FeedMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	sub.mu.Lock()
	defer sub.mu.Unlock()
	sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return sub.conn.WriteMessage(websocket.TextMessage, data)
}

func (s *FeedServer) drop(id uint64) {
	s.mu.Lock()
	sub, ok := s.spectators[id]
	if ok {
		delete(s.spectators, id)
	}
	count := len(s.spectators)
	s.mu.Unlock()

	if !ok {
		return
	}
	sub.conn.Close()
	s.notifyCount(count)
}

func (s *FeedServer) notifyCount(count int) {
	if s.OnCountChange != nil {
		s.OnCountChange(count)
	}
}
