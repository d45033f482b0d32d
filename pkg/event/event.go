// pkg/event/event.go
package event

import (
	"reflect"
	"sync"
)

// Type represents the type of event
type Type string

// Common event types emitted by the simulation core. Rendering, HUD and
// audio collaborators subscribe to these; the core never touches a render
// handle directly.
const (
	ProjectileFired   Type = "projectile_fired"
	ProjectileExpired Type = "projectile_expired"
	GuardHit          Type = "guard_hit"
	GuardDestroyed    Type = "guard_destroyed"
	GuardRespawned    Type = "guard_respawned"
	PlayerDamaged     Type = "player_damaged"
	ChestCollected    Type = "chest_collected"
	ScoreChanged      Type = "score_changed"
	RoundStarted      Type = "round_started"
	RoundEnded        Type = "round_ended"
	TrailFaded        Type = "trail_faded"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]Handler),
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Unsubscribe removes a handler for a specific event type
func (b *Bus) Unsubscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	handlers, ok := b.handlers[eventType]
	if !ok {
		return
	}

	target := reflect.ValueOf(handler).Pointer()
	for i, h := range handlers {
		if reflect.ValueOf(h).Pointer() == target {
			b.handlers[eventType] = append(handlers[:i], handlers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribed handlers
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	handlers, ok := b.handlers[event.GetType()]
	b.mu.RUnlock()

	if !ok {
		return
	}

	for _, handler := range handlers {
		handler(event)
	}
}

// Specific event implementations

// ProjectileEvent carries projectile lifecycle information.
type ProjectileEvent struct {
	BaseEvent
	ProjectileID uint64
	Owner        string
}

// NewProjectileEvent creates a new projectile event
func NewProjectileEvent(eventType Type, source interface{}, projectileID uint64, owner string) *ProjectileEvent {
	return &ProjectileEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		ProjectileID: projectileID,
		Owner:        owner,
	}
}

// GuardEvent carries guard hit/destruction/respawn information.
type GuardEvent struct {
	BaseEvent
	GuardID uint64
	Hits    int
	IsBoss  bool
}

// NewGuardEvent creates a new guard event
func NewGuardEvent(eventType Type, source interface{}, guardID uint64, hits int, isBoss bool) *GuardEvent {
	return &GuardEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		GuardID: guardID,
		Hits:    hits,
		IsBoss:  isBoss,
	}
}

// DamageEvent reports damage applied to the player.
type DamageEvent struct {
	BaseEvent
	Amount          int
	RemainingHealth int
}

// NewDamageEvent creates a new player damage event
func NewDamageEvent(source interface{}, amount, remaining int) *DamageEvent {
	return &DamageEvent{
		BaseEvent: BaseEvent{
			EventType: PlayerDamaged,
			Source:    source,
		},
		Amount:          amount,
		RemainingHealth: remaining,
	}
}

// ChestEvent reports a collected objective with running totals.
type ChestEvent struct {
	BaseEvent
	ChestID   uint64
	Collected int
	Total     int
}

// NewChestEvent creates a new chest collected event
func NewChestEvent(source interface{}, chestID uint64, collected, total int) *ChestEvent {
	return &ChestEvent{
		BaseEvent: BaseEvent{
			EventType: ChestCollected,
			Source:    source,
		},
		ChestID:   chestID,
		Collected: collected,
		Total:     total,
	}
}

// ScoreEvent reports a score change.
type ScoreEvent struct {
	BaseEvent
	Delta int
	Score int
}

// NewScoreEvent creates a new score event
func NewScoreEvent(source interface{}, delta, score int) *ScoreEvent {
	return &ScoreEvent{
		BaseEvent: BaseEvent{
			EventType: ScoreChanged,
			Source:    source,
		},
		Delta: delta,
		Score: score,
	}
}

// EndReason identifies why a round ended.
type EndReason string

const (
	ReasonTimeout   EndReason = "timeout"   // round timer expired
	ReasonHit       EndReason = "hit"       // player health depleted by enemy fire
	ReasonCollision EndReason = "collision" // player rammed a live guard
	ReasonCollected EndReason = "collected" // all chests collected
)

// RoundEvent reports a round transition.
type RoundEvent struct {
	BaseEvent
	Reason EndReason
	Score  int
}

// NewRoundEndedEvent creates a round ended event with a reason code
func NewRoundEndedEvent(source interface{}, reason EndReason, score int) *RoundEvent {
	return &RoundEvent{
		BaseEvent: BaseEvent{
			EventType: RoundEnded,
			Source:    source,
		},
		Reason: reason,
		Score:  score,
	}
}
