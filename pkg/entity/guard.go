// pkg/entity/guard.go
package entity

import (
	"math"
	"time"

	"github.com/igupta1/CannonShooter/pkg/physics"
)

const (
	// HitFlashDuration is the length of the cosmetic flash a guard shows
	// after taking damage. The flash never gates movement, fire control or
	// destruction, and it may finish after the guard is already destroyed.
	HitFlashDuration = 300 * time.Millisecond

	// Pitch bias applied to aimed shots so they fly a ballistic arc instead
	// of a flat line. The boss shoots flatter.
	guardPitchBias = 0.35
	bossPitchBias  = 0.18

	// Muzzle height above the hull that shots spawn from.
	guardMuzzleHeight = 1.5
	bossMuzzleHeight  = 2.5

	// BossSpreadYaw is the angular offset of the boss's side shots.
	BossSpreadYaw = 0.25

	// DefaultBossMaxHits is how many confirmed hits the boss absorbs before
	// it is destroyed.
	DefaultBossMaxHits = 4
)

// FireRequest asks the registry to spawn one enemy projectile. AI code only
// emits requests; the orchestrator applies them between phases, so guards
// never mutate the projectile collection while it is being iterated.
type FireRequest struct {
	Origin    physics.Vector3
	Direction physics.Vector3
	Speed     float64
	Owner     Owner
}

// Guard is an AI-controlled vessel protecting a chest. Regular guards orbit
// their chest; the boss sweeps a figure-eight patrol. Each runs a fire-control
// loop: cooldown counts down, and when the player is inside the detection
// radius with the cooldown spent, the guard fires and the cooldown resets.
type Guard struct {
	BaseEntity

	// Orbit state (regular guards)
	Center      physics.Vector3
	OrbitRadius float64
	OrbitAngle  float64
	OrbitSpeed  float64

	// Patrol state (boss)
	IsBoss       bool
	PatrolT      float64
	PatrolRadius float64
	PatrolSpeed  float64

	// Facing is the yaw the hull points along, tangent to the orbit or
	// along the patrol path.
	Facing float64

	DetectionRadius float64
	ShootCooldown   float64
	ShootInterval   float64
	ShotSpeed       float64

	Hits      int
	MaxHits   int
	Destroyed bool

	// HalfExtents define the guard's axis-aligned collision box.
	HalfExtents physics.Vector3

	// FlashUntil marks the end of the cosmetic hit flash.
	FlashUntil time.Time
}

// GuardParams configures a newly spawned guard.
type GuardParams struct {
	Center          physics.Vector3
	OrbitRadius     float64
	OrbitAngle      float64
	OrbitSpeed      float64
	DetectionRadius float64
	ShootInterval   float64
	ShotSpeed       float64
	HalfExtents     physics.Vector3
}

// NewGuard creates a regular orbiting guard placed at its initial orbit angle.
func NewGuard(p GuardParams) *Guard {
	g := &Guard{
		BaseEntity:      NewBaseEntity(orbitPosition(p.Center, p.OrbitRadius, p.OrbitAngle)),
		Center:          p.Center,
		OrbitRadius:     p.OrbitRadius,
		OrbitAngle:      p.OrbitAngle,
		OrbitSpeed:      p.OrbitSpeed,
		DetectionRadius: p.DetectionRadius,
		ShootInterval:   p.ShootInterval,
		ShotSpeed:       p.ShotSpeed,
		MaxHits:         1,
		HalfExtents:     p.HalfExtents,
	}
	g.Facing = p.OrbitAngle + math.Pi/2
	return g
}

// BossParams configures the boss guard.
type BossParams struct {
	Center          physics.Vector3
	PatrolRadius    float64
	PatrolSpeed     float64
	DetectionRadius float64
	ShootInterval   float64
	ShotSpeed       float64
	MaxHits         int
	HalfExtents     physics.Vector3
}

// NewBoss creates the boss guard on its figure-eight patrol path.
func NewBoss(p BossParams) *Guard {
	maxHits := p.MaxHits
	if maxHits <= 0 {
		maxHits = DefaultBossMaxHits
	}
	g := &Guard{
		BaseEntity:      NewBaseEntity(patrolPosition(p.Center, p.PatrolRadius, 0)),
		Center:          p.Center,
		IsBoss:          true,
		PatrolRadius:    p.PatrolRadius,
		PatrolSpeed:     p.PatrolSpeed,
		DetectionRadius: p.DetectionRadius,
		ShootInterval:   p.ShootInterval,
		ShotSpeed:       p.ShotSpeed,
		MaxHits:         maxHits,
		HalfExtents:     p.HalfExtents,
	}
	return g
}

// orbitPosition computes a point on the horizontal circle of the orbit.
func orbitPosition(center physics.Vector3, radius, angle float64) physics.Vector3 {
	return physics.Vector3{
		X: center.X + radius*math.Cos(angle),
		Y: center.Y,
		Z: center.Z + radius*math.Sin(angle),
	}
}

// patrolPosition evaluates the boss's figure-eight curve at parameter t.
func patrolPosition(center physics.Vector3, radius, t float64) physics.Vector3 {
	return physics.Vector3{
		X: center.X + radius*math.Sin(t),
		Y: center.Y,
		Z: center.Z + 0.5*radius*math.Sin(2*t),
	}
}

// Advance moves the guard along its orbit or patrol path. Destroyed guards
// do not move.
func (g *Guard) Advance(dt float64) {
	if g.Destroyed {
		return
	}

	if g.IsBoss {
		g.PatrolT += g.PatrolSpeed * dt
		g.Position = patrolPosition(g.Center, g.PatrolRadius, g.PatrolT)

		// Face along the path's instantaneous direction; hold the previous
		// facing if the derivative degenerates to zero.
		dx := g.PatrolRadius * math.Cos(g.PatrolT)
		dz := g.PatrolRadius * math.Cos(2*g.PatrolT)
		if dx != 0 || dz != 0 {
			g.Facing = math.Atan2(dz, dx)
		}
		return
	}

	g.OrbitAngle += g.OrbitSpeed * dt
	g.Position = orbitPosition(g.Center, g.OrbitRadius, g.OrbitAngle)
	g.Facing = g.OrbitAngle + math.Pi/2
}

// TickFireControl advances the cooldown and returns fire requests when the
// guard shoots at the player this tick. Regular guards fire a single aimed
// shot; the boss fires a three-shot spread. Destroyed guards never fire.
func (g *Guard) TickFireControl(dt float64, playerPos physics.Vector3) []FireRequest {
	if g.Destroyed {
		return nil
	}

	if g.ShootCooldown > 0 {
		g.ShootCooldown -= dt
	}
	if g.ShootCooldown > 0 {
		return nil
	}
	if g.Position.Distance(playerPos) >= g.DetectionRadius {
		return nil
	}

	flat := physics.Vector3{
		X: playerPos.X - g.Position.X,
		Z: playerPos.Z - g.Position.Z,
	}.Normalize()
	if flat == (physics.Vector3{}) {
		// Player directly above or at the guard's position; no aim this tick.
		return nil
	}

	g.ShootCooldown = g.ShootInterval

	if g.IsBoss {
		return g.spreadRequests(flat)
	}

	origin := g.Position.Add(physics.Vector3{Y: guardMuzzleHeight})
	return []FireRequest{{
		Origin:    origin,
		Direction: pitched(flat, guardPitchBias),
		Speed:     g.ShotSpeed,
		Owner:     OwnerEnemy,
	}}
}

// spreadRequests builds the boss's three-shot spread around the aim yaw.
func (g *Guard) spreadRequests(flat physics.Vector3) []FireRequest {
	origin := g.Position.Add(physics.Vector3{Y: bossMuzzleHeight})
	yaw := math.Atan2(flat.Z, flat.X)

	requests := make([]FireRequest, 0, 3)
	for _, offset := range []float64{-BossSpreadYaw, 0, BossSpreadYaw} {
		requests = append(requests, FireRequest{
			Origin:    origin,
			Direction: physics.FromYawPitch(yaw+offset, bossPitchBias),
			Speed:     g.ShotSpeed,
			Owner:     OwnerBoss,
		})
	}
	return requests
}

// pitched tilts a flat unit direction upward by the given pitch angle.
func pitched(flat physics.Vector3, pitch float64) physics.Vector3 {
	return physics.FromYawPitch(math.Atan2(flat.Z, flat.X), pitch)
}

// TakeHit registers one confirmed hit at the given instant and reports
// whether the guard is destroyed by it. Regular guards die on the first hit;
// the boss absorbs MaxHits hits. The hit flash starts regardless.
func (g *Guard) TakeHit(now time.Time) bool {
	if g.Destroyed {
		return false
	}

	g.Hits++
	g.FlashUntil = now.Add(HitFlashDuration)

	if g.Hits >= g.MaxHits {
		g.Destroyed = true
	}
	return g.Destroyed
}

// Flashing reports whether the cosmetic hit flash is active.
func (g *Guard) Flashing(now time.Time) bool {
	return now.Before(g.FlashUntil)
}

// FlashFraction returns how far through the flash the guard is, 1 at the
// moment of the hit falling to 0 as it ends. Renderers lerp the hull color
// toward white and pulse the scale by this amount.
func (g *Guard) FlashFraction(now time.Time) float64 {
	remaining := g.FlashUntil.Sub(now).Seconds()
	return physics.Clamp(remaining/HitFlashDuration.Seconds(), 0, 1)
}

// Collider returns the guard's axis-aligned collision box.
func (g *Guard) Collider() physics.AABB {
	return physics.AABBFromCenter(g.Position, g.HalfExtents)
}

// Render implements Entity.
func (g *Guard) Render(r Renderer) {
	r.RenderGuard(g)
}
