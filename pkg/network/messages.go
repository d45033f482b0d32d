// pkg/network/messages.go
package network

import "github.com/igupta1/CannonShooter/pkg/engine"

// Feed message types.
const (
	MessageHello = "hello"
	MessageState = "state"
)

// FeedMessage is the envelope for every frame sent over a spectator feed.
type FeedMessage struct {
	Type string `json:"type"`
	// ServerTime is the server's wall clock in Unix milliseconds.
	ServerTime int64 `json:"serverTime"`
	// Hello carries the one-time greeting on connect.
	Hello *HelloPayload `json:"hello,omitempty"`
	// State carries a full game snapshot on state messages.
	State *engine.GameState `json:"state,omitempty"`
}

// HelloPayload is sent once when a spectator connects.
type HelloPayload struct {
	RoundTime     float64 `json:"roundTime"`
	ChestsTotal   int     `json:"chestsTotal"`
	BroadcastRate int     `json:"broadcastRate"`
}
