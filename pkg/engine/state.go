// pkg/engine/state.go
package engine

import (
	"github.com/igupta1/CannonShooter/pkg/entity"
	"github.com/igupta1/CannonShooter/pkg/physics"
)

// GameState is a point-in-time copy of everything a spectator needs to draw
// a frame. It is safe to serialize and hand to another goroutine; nothing in
// it aliases live registry storage.
type GameState struct {
	Tick            uint64            `json:"tick"`
	Elapsed         float64           `json:"elapsed"`
	Status          GameStatus        `json:"status"`
	EndReason       string            `json:"endReason,omitempty"`
	Score           int               `json:"score"`
	Player          PlayerState       `json:"player"`
	Projectiles     []ProjectileState `json:"projectiles"`
	Guards          []GuardState      `json:"guards"`
	Chests          []ChestState      `json:"chests"`
	Trails          []TrailState      `json:"trails"`
	ChestsCollected int               `json:"chestsCollected"`
	ChestsTotal     int               `json:"chestsTotal"`
}

// ProjectileState is the render-facing view of one projectile.
type ProjectileState struct {
	ID       entity.ID         `json:"id"`
	Owner    string            `json:"owner"`
	Position physics.Vector3   `json:"position"`
	Trail    []physics.Vector3 `json:"trail,omitempty"`
}

// GuardState is the render-facing view of one guard or the boss.
type GuardState struct {
	ID            entity.ID       `json:"id"`
	Boss          bool            `json:"boss"`
	Position      physics.Vector3 `json:"position"`
	Facing        float64         `json:"facing"`
	Hits          int             `json:"hits"`
	MaxHits       int             `json:"maxHits"`
	FlashFraction float64         `json:"flashFraction"`
}

// ChestState is the render-facing view of one chest.
type ChestState struct {
	ID        entity.ID       `json:"id"`
	Position  physics.Vector3 `json:"position"`
	Collected bool            `json:"collected"`
	AnimPhase float64         `json:"animPhase"`
}

// TrailState is the render-facing view of one detached fading trail.
type TrailState struct {
	ProjectileID entity.ID         `json:"projectileId"`
	Points       []physics.Vector3 `json:"points"`
	Opacity      float64           `json:"opacity"`
}

// GetGameState builds a deep snapshot of the current game state.
func (g *Game) GetGameState() *GameState {
	g.EntityLock.RLock()
	defer g.EntityLock.RUnlock()

	now := g.clock.Now()

	state := &GameState{
		Tick:            g.CurrentTick,
		Elapsed:         g.ElapsedTime,
		Status:          g.Status,
		EndReason:       string(g.EndReason),
		Score:           g.Score,
		Player:          g.player,
		ChestsCollected: g.chestsCollected,
		ChestsTotal:     len(g.Registry.Chests()),
	}

	for _, p := range g.Registry.Projectiles() {
		ps := ProjectileState{
			ID:       p.GetID(),
			Owner:    p.Owner.String(),
			Position: p.Position,
		}
		for _, pt := range p.Trail.Points {
			ps.Trail = append(ps.Trail, pt.Position)
		}
		state.Projectiles = append(state.Projectiles, ps)
	}

	for _, guard := range g.Registry.Guards() {
		state.Guards = append(state.Guards, GuardState{
			ID:            guard.GetID(),
			Boss:          guard.IsBoss,
			Position:      guard.Position,
			Facing:        guard.Facing,
			Hits:          guard.Hits,
			MaxHits:       guard.MaxHits,
			FlashFraction: guard.FlashFraction(now),
		})
	}

	for _, chest := range g.Registry.Chests() {
		state.Chests = append(state.Chests, ChestState{
			ID:        chest.GetID(),
			Position:  chest.Position,
			Collected: chest.Collected,
			AnimPhase: chest.AnimPhase,
		})
	}

	for _, trail := range g.Registry.FadingTrails() {
		ts := TrailState{
			ProjectileID: trail.ProjectileID,
			Opacity:      trail.Opacity(now),
		}
		for _, pt := range trail.Points {
			ts.Points = append(ts.Points, pt.Position)
		}
		state.Trails = append(state.Trails, ts)
	}

	return state
}
