// pkg/engine/registry.go
package engine

import (
	"time"

	"github.com/igupta1/CannonShooter/pkg/entity"
	"github.com/igupta1/CannonShooter/pkg/gameclock"
	"github.com/igupta1/CannonShooter/pkg/physics"
)

// Registry owns the canonical live-entity collections. It is the sole
// mutator of those collections: AI and collision code only request changes,
// which the orchestrator applies between phases, so nothing ever mutates a
// collection while it is being iterated.
//
// Collections keep insertion order. Collision resolution depends on that
// order for its first-match tie-break, so map storage is not an option here.
type Registry struct {
	projectiles []*entity.Projectile
	guards      []*entity.Guard
	chests      []*entity.Chest
	trails      []*entity.FadingTrail

	clock gameclock.Clock
}

// NewRegistry creates an empty registry reading time from the given clock.
func NewRegistry(clock gameclock.Clock) *Registry {
	return &Registry{clock: clock}
}

// SpawnProjectile creates a projectile and adds it to the registry. bornTick
// is the orchestrator tick the spawn is applied on; integration and
// collision skip the projectile for the remainder of that tick.
func (r *Registry) SpawnProjectile(origin, direction physics.Vector3, speed float64, owner entity.Owner, bornTick uint64) *entity.Projectile {
	p := entity.NewProjectile(origin, direction, speed, owner, r.clock.Now())
	p.BornTick = bornTick
	r.projectiles = append(r.projectiles, p)
	return p
}

// SpawnGuard creates an orbiting guard and adds it to the registry.
func (r *Registry) SpawnGuard(params entity.GuardParams) *entity.Guard {
	g := entity.NewGuard(params)
	r.guards = append(r.guards, g)
	return g
}

// SpawnBoss creates the patrol boss and adds it to the registry.
func (r *Registry) SpawnBoss(params entity.BossParams) *entity.Guard {
	g := entity.NewBoss(params)
	r.guards = append(r.guards, g)
	return g
}

// SpawnChest creates a chest objective and adds it to the registry.
func (r *Registry) SpawnChest(position physics.Vector3, captureRadius float64) *entity.Chest {
	c := entity.NewChest(position, captureRadius)
	r.chests = append(r.chests, c)
	return c
}

// Projectiles returns the live projectile collection in spawn order.
func (r *Registry) Projectiles() []*entity.Projectile {
	return r.projectiles
}

// Guards returns the guard collection in spawn order.
func (r *Registry) Guards() []*entity.Guard {
	return r.guards
}

// Chests returns the chest collection in spawn order.
func (r *Registry) Chests() []*entity.Chest {
	return r.chests
}

// FadingTrails returns the detached trails still decaying.
func (r *Registry) FadingTrails() []*entity.FadingTrail {
	return r.trails
}

// FindProjectile looks up a live projectile by ID.
func (r *Registry) FindProjectile(id entity.ID) (*entity.Projectile, bool) {
	for _, p := range r.projectiles {
		if p.GetID() == id {
			return p, true
		}
	}
	return nil, false
}

// MarkDead soft-flags a projectile so a single collision pass cannot process
// it twice. The projectile stays in the registry until Remove. Unknown IDs
// are a no-op.
func (r *Registry) MarkDead(id entity.ID) {
	if p, ok := r.FindProjectile(id); ok {
		p.Alive = false
	}
}

// RemoveProjectile hard-removes a projectile. Its trail, if it has one, is
// not deleted synchronously: it detaches into a fading-trail record that
// decays over the fade duration. Unknown IDs are a no-op.
func (r *Registry) RemoveProjectile(id entity.ID) {
	for i, p := range r.projectiles {
		if p.GetID() != id {
			continue
		}
		if len(p.Trail.Points) > 0 {
			r.trails = append(r.trails, &entity.FadingTrail{
				ProjectileID: id,
				Points:       p.Trail.Points,
				StartedAt:    r.clock.Now(),
			})
		}
		r.projectiles = append(r.projectiles[:i], r.projectiles[i+1:]...)
		return
	}
}

// RemoveGuard hard-removes a guard. Unknown IDs are a no-op.
func (r *Registry) RemoveGuard(id entity.ID) {
	for i, g := range r.guards {
		if g.GetID() == id {
			r.guards = append(r.guards[:i], r.guards[i+1:]...)
			return
		}
	}
}

// PruneTrails removes fully faded trails and returns them so the caller can
// emit disposal notifications.
func (r *Registry) PruneTrails(now time.Time) []*entity.FadingTrail {
	var faded []*entity.FadingTrail
	remaining := r.trails[:0]
	for _, t := range r.trails {
		if t.Faded(now) {
			faded = append(faded, t)
		} else {
			remaining = append(remaining, t)
		}
	}
	r.trails = remaining
	return faded
}

// ClearAll unconditionally empties every collection, including fading-trail
// records. Used on restart; there is no graceful teardown of in-flight
// animations.
func (r *Registry) ClearAll() {
	r.projectiles = nil
	r.guards = nil
	r.chests = nil
	r.trails = nil
}

// Counts returns the live collection sizes for monitoring.
func (r *Registry) Counts() (projectiles, guards, chests, trails int) {
	return len(r.projectiles), len(r.guards), len(r.chests), len(r.trails)
}
