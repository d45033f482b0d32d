// pkg/entity/projectile.go
package entity

import (
	"time"

	"github.com/igupta1/CannonShooter/pkg/physics"
)

const (
	// MaxLifetime is how long a projectile may fly before it expires.
	MaxLifetime = 5 * time.Second
	// GroundY is the vertical threshold below which a projectile expires.
	GroundY = -1.0
	// TrailSampleDistance is the travel distance between trail samples.
	// Samples are distance-spaced, not time-spaced, so slow and fast shots
	// leave trails of the same density.
	TrailSampleDistance = 0.5
	// MaxTrailPoints caps a trail's length; the oldest point is dropped first.
	MaxTrailPoints = 24
	// TrailFadeDuration is how long a detached trail takes to fade out after
	// its projectile is removed.
	TrailFadeDuration = time.Second
)

// TrailPoint is one recorded sample of a projectile's path.
type TrailPoint struct {
	Position physics.Vector3
	Opacity  float64
}

// Trail holds the recent path samples of a live projectile.
type Trail struct {
	Points     []TrailPoint
	lastSample physics.Vector3
	hasSample  bool
}

// Sample records pos if the projectile has travelled at least
// TrailSampleDistance since the previous sample.
func (t *Trail) Sample(pos physics.Vector3) {
	if t.hasSample && pos.Distance(t.lastSample) < TrailSampleDistance {
		return
	}
	t.Points = append(t.Points, TrailPoint{Position: pos, Opacity: 1.0})
	if len(t.Points) > MaxTrailPoints {
		t.Points = t.Points[1:]
	}
	t.lastSample = pos
	t.hasSample = true
}

// Projectile is a ballistic shot fired by the player, a guard, or the boss.
type Projectile struct {
	BaseEntity
	Radius    float64
	Owner     Owner
	BirthTime time.Time
	// BornTick records the orchestrator tick the projectile was spawned on.
	// Integration and collision skip it on that tick so a shot can never
	// collide at the muzzle.
	BornTick uint64
	// Alive is soft-cleared when the projectile hits something or expires;
	// later phases in the same tick skip dead projectiles, and the removal
	// phase deletes them.
	Alive bool
	Trail Trail
}

// NewProjectile creates a projectile at origin travelling along direction at
// the given speed. A zero direction produces a stationary projectile that
// simply falls; it is not an error.
func NewProjectile(origin, direction physics.Vector3, speed float64, owner Owner, birth time.Time) *Projectile {
	base := NewBaseEntity(origin)
	base.Velocity = direction.Normalize().Scale(speed)

	return &Projectile{
		BaseEntity: base,
		Radius:     0.5,
		Owner:      owner,
		BirthTime:  birth,
		Alive:      true,
	}
}

// Update advances the projectile by dt seconds under gravity and records a
// trail sample when enough distance has been covered.
func (p *Projectile) Update(dt float64) {
	p.Position, p.Velocity = physics.Integrate(p.Position, p.Velocity, dt)
	p.Trail.Sample(p.Position)
}

// Expired reports whether the projectile has hit the ground plane or
// outlived its maximum lifetime.
func (p *Projectile) Expired(now time.Time) bool {
	if p.Position.Y < GroundY {
		return true
	}
	return now.Sub(p.BirthTime) > MaxLifetime
}

// Collider returns the projectile's spherical collision shape.
func (p *Projectile) Collider() physics.Sphere {
	return physics.Sphere{Center: p.Position, Radius: p.Radius}
}

// Render implements Entity.
func (p *Projectile) Render(r Renderer) {
	r.RenderProjectile(p)
}

// FadingTrail is the detached remnant of a removed projectile's trail,
// decaying to nothing over TrailFadeDuration.
type FadingTrail struct {
	ProjectileID ID
	Points       []TrailPoint
	StartedAt    time.Time
}

// Opacity returns the overall multiplier applied to the trail's points,
// falling linearly from 1 to 0 over the fade duration.
func (f *FadingTrail) Opacity(now time.Time) float64 {
	elapsed := now.Sub(f.StartedAt).Seconds()
	return physics.Clamp(1-elapsed/TrailFadeDuration.Seconds(), 0, 1)
}

// Faded reports whether the trail has fully decayed and can be disposed.
func (f *FadingTrail) Faded(now time.Time) bool {
	return now.Sub(f.StartedAt) >= TrailFadeDuration
}
