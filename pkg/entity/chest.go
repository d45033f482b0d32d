// pkg/entity/chest.go
package entity

import (
	"github.com/igupta1/CannonShooter/pkg/physics"
)

// Chest is a collectible objective. Chests are consumed when the player
// enters their capture radius and are never destroyed by combat.
type Chest struct {
	BaseEntity
	Collected     bool
	CaptureRadius float64
	// AnimPhase drives the chest's idle bob animation; cosmetic only.
	AnimPhase float64
}

// NewChest creates a chest at the given position with the given capture
// radius.
func NewChest(position physics.Vector3, captureRadius float64) *Chest {
	return &Chest{
		BaseEntity:    NewBaseEntity(position),
		CaptureRadius: captureRadius,
	}
}

// Advance progresses the chest's idle animation.
func (c *Chest) Advance(dt float64) {
	c.AnimPhase += dt
}

// InCaptureRange reports whether the player position is close enough to
// collect the chest. Collected chests are collision-inert.
func (c *Chest) InCaptureRange(playerPos physics.Vector3) bool {
	if c.Collected {
		return false
	}
	return c.Position.Distance(playerPos) < c.CaptureRadius
}

// Render implements Entity.
func (c *Chest) Render(r Renderer) {
	r.RenderChest(c)
}
