// pkg/render/renderer.go
package render

import (
	"context"

	"github.com/igupta1/CannonShooter/pkg/entity"
	"github.com/igupta1/CannonShooter/pkg/logging"
)

// NullRenderer is a no-op implementation of entity.Renderer for headless
// runs; it logs each call at debug level.
type NullRenderer struct {
	logger *logging.Logger
}

// NewNullRenderer creates a NullRenderer with structured logging.
func NewNullRenderer() *NullRenderer {
	return &NullRenderer{
		logger: logging.NewLogger(),
	}
}

// Clear implements entity.Renderer.
func (d *NullRenderer) Clear() {
	d.logger.Debug(context.Background(), "Clear called")
}

// Present implements entity.Renderer.
func (d *NullRenderer) Present() {
	d.logger.Debug(context.Background(), "Present called")
}

// RenderGuard implements entity.Renderer.
func (d *NullRenderer) RenderGuard(guard *entity.Guard) {
	ctx := context.Background()
	if guard == nil {
		d.logger.Debug(ctx, "RenderGuard called with nil guard")
		return
	}
	d.logger.Debug(ctx, "RenderGuard called",
		"guard_id", guard.GetID(),
		"boss", guard.IsBoss,
	)
}

// RenderChest implements entity.Renderer.
func (d *NullRenderer) RenderChest(chest *entity.Chest) {
	ctx := context.Background()
	if chest == nil {
		d.logger.Debug(ctx, "RenderChest called with nil chest")
		return
	}
	d.logger.Debug(ctx, "RenderChest called",
		"chest_id", chest.GetID(),
		"collected", chest.Collected,
	)
}

// RenderProjectile implements entity.Renderer.
func (d *NullRenderer) RenderProjectile(projectile *entity.Projectile) {
	ctx := context.Background()
	if projectile == nil {
		d.logger.Debug(ctx, "RenderProjectile called with nil projectile")
		return
	}
	d.logger.Debug(ctx, "RenderProjectile called",
		"projectile_id", projectile.GetID(),
		"owner", projectile.Owner.String(),
	)
}

// RenderFadingTrail implements entity.Renderer.
func (d *NullRenderer) RenderFadingTrail(trail *entity.FadingTrail) {
	ctx := context.Background()
	if trail == nil {
		d.logger.Debug(ctx, "RenderFadingTrail called with nil trail")
		return
	}
	d.logger.Debug(ctx, "RenderFadingTrail called",
		"projectile_id", trail.ProjectileID,
		"points", len(trail.Points),
	)
}

// NullRendererInstance is a shared NullRenderer for convenience.
var NullRendererInstance entity.Renderer = NewNullRenderer()
