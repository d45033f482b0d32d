// pkg/engine/game.go
package engine

import (
	"errors"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/igupta1/CannonShooter/pkg/config"
	"github.com/igupta1/CannonShooter/pkg/entity"
	"github.com/igupta1/CannonShooter/pkg/event"
	"github.com/igupta1/CannonShooter/pkg/gameclock"
	"github.com/igupta1/CannonShooter/pkg/physics"
)

// GameStatus describes the round lifecycle.
type GameStatus int

const (
	GameStatusWaiting GameStatus = iota
	GameStatusActive
	GameStatusEnded
)

const (
	// defaultDeltaTime is used on the first tick, when there is no previous
	// tick to measure against.
	defaultDeltaTime = 1.0 / 60.0
	// maxDeltaTime caps a single step so a stalled host loop cannot produce
	// a huge integration jump.
	maxDeltaTime = 0.1
)

// PlayerState is the per-tick snapshot of the externally-owned player. The
// core reads position for AI targeting and collision and emits damage events
// that the external owner applies; the health here is the core's working
// copy between snapshots.
type PlayerState struct {
	Position  physics.Vector3 `json:"position"`
	Health    int             `json:"health"`
	MaxHealth int             `json:"maxHealth"`
}

// pendingRespawn schedules a replacement guard after a destroyed one, used
// in respawn mode only.
type pendingRespawn struct {
	dueAt  time.Time
	params entity.GuardParams
}

// Game is the frame orchestrator: it owns the registry, drives the fixed
// per-tick phase order, and reports terminal conditions to collaborators
// through the event bus.
type Game struct {
	Config   *config.GameConfig
	Registry *Registry
	EventBus *event.Bus

	// EntityLock guards the whole tick against concurrent snapshot reads
	// from serving goroutines. All entity mutation happens synchronously
	// inside one Update call.
	EntityLock sync.RWMutex

	Status      GameStatus
	CurrentTick uint64
	StartTime   time.Time
	ElapsedTime float64
	Score       int
	EndReason   event.EndReason

	clock      gameclock.Clock
	lastUpdate time.Time
	firstTick  bool

	player          PlayerState
	chestsCollected int

	pendingFire        []entity.FireRequest
	projectileRemovals []entity.ID
	guardRemovals      []entity.ID
	pendingRespawns    []pendingRespawn
	ramDetected        bool
}

// NewGame creates a game with the specified configuration and time source,
// populated with the configured chests, guard rings, and boss.
func NewGame(cfg *config.GameConfig, clock gameclock.Clock) *Game {
	game := &Game{
		Config:   cfg,
		Registry: NewRegistry(clock),
		EventBus: event.NewEventBus(),
		clock:    clock,
		player: PlayerState{
			Health:    cfg.PlayerMaxHealth,
			MaxHealth: cfg.PlayerMaxHealth,
		},
		firstTick: true,
	}

	game.populate()

	return game
}

// populate spawns the round-start entities: every chest, a ring of guards
// around each chest, and the boss if enabled.
func (g *Game) populate() {
	for _, chestCfg := range g.Config.Chests {
		center := physics.Vector3{X: chestCfg.X, Z: chestCfg.Z}
		g.Registry.SpawnChest(center, chestCfg.CaptureRadius)

		for i := 0; i < g.Config.Guards.PerChest; i++ {
			angle := 2 * math.Pi * float64(i) / float64(g.Config.Guards.PerChest)
			g.Registry.SpawnGuard(g.guardParams(center, angle))
		}
	}

	if g.Config.Boss.Enabled {
		bossCfg := g.Config.Boss
		half := bossCfg.HullHalfExtent
		g.Registry.SpawnBoss(entity.BossParams{
			Center:          physics.Vector3{X: bossCfg.X, Z: bossCfg.Z},
			PatrolRadius:    bossCfg.PatrolRadius,
			PatrolSpeed:     bossCfg.PatrolSpeed,
			DetectionRadius: bossCfg.DetectionRadius,
			ShootInterval:   bossCfg.ShootInterval,
			ShotSpeed:       bossCfg.ShotSpeed,
			MaxHits:         bossCfg.MaxHits,
			HalfExtents:     physics.Vector3{X: half, Y: half, Z: half},
		})
	}
}

// guardParams builds the spawn parameters for one guard orbiting center at
// the given initial angle.
func (g *Game) guardParams(center physics.Vector3, angle float64) entity.GuardParams {
	guardCfg := g.Config.Guards
	half := guardCfg.HullHalfExtent
	return entity.GuardParams{
		Center:          center,
		OrbitRadius:     guardCfg.OrbitRadius,
		OrbitAngle:      angle,
		OrbitSpeed:      guardCfg.OrbitSpeed,
		DetectionRadius: guardCfg.DetectionRadius,
		ShootInterval:   guardCfg.ShootInterval,
		ShotSpeed:       guardCfg.ShotSpeed,
		HalfExtents:     physics.Vector3{X: half, Y: half, Z: half},
	}
}

// Start begins the round.
func (g *Game) Start() {
	g.EntityLock.Lock()
	defer g.EntityLock.Unlock()

	g.Status = GameStatusActive
	g.StartTime = g.clock.Now()
	g.lastUpdate = g.StartTime
	g.firstTick = true
	g.EventBus.Publish(&event.BaseEvent{
		EventType: event.RoundStarted,
		Source:    g,
	})
}

// Reset clears every registry collection and fading-trail record
// unconditionally and rebuilds the round-start population. The round is left
// waiting; call Start to begin it.
func (g *Game) Reset() {
	g.EntityLock.Lock()
	defer g.EntityLock.Unlock()

	g.Registry.ClearAll()
	g.pendingFire = nil
	g.projectileRemovals = nil
	g.guardRemovals = nil
	g.pendingRespawns = nil
	g.ramDetected = false

	g.Status = GameStatusWaiting
	g.CurrentTick = 0
	g.ElapsedTime = 0
	g.Score = 0
	g.chestsCollected = 0
	g.EndReason = ""
	g.firstTick = true
	g.player.Health = g.Config.PlayerMaxHealth
	g.player.MaxHealth = g.Config.PlayerMaxHealth

	g.populate()
}

// SetPlayer consumes the per-tick player snapshot from the external owner.
func (g *Game) SetPlayer(state PlayerState) {
	g.EntityLock.Lock()
	defer g.EntityLock.Unlock()

	g.player = state
}

// Player returns the core's current view of the player.
func (g *Game) Player() PlayerState {
	g.EntityLock.RLock()
	defer g.EntityLock.RUnlock()

	return g.player
}

// FireCannon queues a player shot. The charge fraction maps linearly onto
// the configured power range. The spawn is applied on the next tick, so the
// shot is never integrated or collision-tested on the tick it was requested.
func (g *Game) FireCannon(origin, direction physics.Vector3, charge float64) error {
	g.EntityLock.Lock()
	defer g.EntityLock.Unlock()

	if g.Status != GameStatusActive {
		return errors.New("round is not active")
	}

	g.pendingFire = append(g.pendingFire, entity.FireRequest{
		Origin:    origin,
		Direction: direction,
		Speed:     physics.LaunchSpeed(charge, g.Config.MinPower, g.Config.MaxPower),
		Owner:     entity.OwnerPlayer,
	})
	return nil
}

// Update advances the game state by one tick. Phases run in a fixed order:
// AI, spawn application, integration, collision, removal application,
// terminal conditions.
func (g *Game) Update() {
	g.EntityLock.Lock()
	defer g.EntityLock.Unlock()

	deltaTime := g.calculateDeltaTime()
	if g.Status != GameStatusActive {
		return
	}

	g.ElapsedTime = g.clock.Now().Sub(g.StartTime).Seconds()

	g.advanceAI(deltaTime)
	g.applyQueuedSpawns()
	g.integrateProjectiles(deltaTime)
	g.detectCollisions()
	g.applyRemovals()
	g.checkTerminalConditions()

	g.CurrentTick++
}

// calculateDeltaTime measures the wall-clock step since the previous tick.
// The first tick has no previous tick and uses the default step; oversized
// steps are capped.
func (g *Game) calculateDeltaTime() float64 {
	now := g.clock.Now()

	var deltaTime float64
	if g.firstTick {
		deltaTime = defaultDeltaTime
		g.firstTick = false
	} else {
		deltaTime = now.Sub(g.lastUpdate).Seconds()
	}
	g.lastUpdate = now

	if deltaTime > maxDeltaTime {
		deltaTime = maxDeltaTime
	}
	if deltaTime < 0 {
		deltaTime = 0
	}
	return deltaTime
}

// advanceAI moves every guard along its orbit or patrol, runs fire control,
// and progresses chest animations. Fire control emits requests into the
// spawn queue; nothing is added to the projectile collection here.
func (g *Game) advanceAI(deltaTime float64) {
	for _, guard := range g.Registry.Guards() {
		guard.Advance(deltaTime)
		requests := guard.TickFireControl(deltaTime, g.player.Position)
		g.pendingFire = append(g.pendingFire, requests...)
	}

	for _, chest := range g.Registry.Chests() {
		chest.Advance(deltaTime)
	}
}

// applyQueuedSpawns drains the fire-request queue into the registry.
func (g *Game) applyQueuedSpawns() {
	for _, req := range g.pendingFire {
		p := g.Registry.SpawnProjectile(req.Origin, req.Direction, req.Speed, req.Owner, g.CurrentTick)
		g.EventBus.Publish(event.NewProjectileEvent(
			event.ProjectileFired, g, p.GetID(), req.Owner.String(),
		))
	}
	g.pendingFire = g.pendingFire[:0]
}

// integrateProjectiles advances every live projectile under gravity and
// queues expirations. Projectiles spawned this tick are skipped.
func (g *Game) integrateProjectiles(deltaTime float64) {
	now := g.clock.Now()

	for _, p := range g.Registry.Projectiles() {
		if !p.Alive || p.BornTick == g.CurrentTick {
			continue
		}

		p.Update(deltaTime)

		if p.Expired(now) {
			p.Alive = false
			g.projectileRemovals = append(g.projectileRemovals, p.GetID())
			g.EventBus.Publish(event.NewProjectileEvent(
				event.ProjectileExpired, g, p.GetID(), p.Owner.String(),
			))
		}
	}
}

// detectCollisions runs the brute-force pairwise collision pass: player
// shots against guard hulls, enemy shots against the player, the player
// hull against live guards, and chest capture.
func (g *Game) detectCollisions() {
	g.collidePlayerShots()
	g.collideEnemyShots()
	g.checkPlayerRam()
	g.captureChests()
}

// collidePlayerShots tests every live player projectile against the guards
// in registry order. The first positive test wins; the projectile is marked
// dead immediately so a second overlapping guard in the same frame is not
// scored.
func (g *Game) collidePlayerShots() {
	now := g.clock.Now()

	for _, p := range g.Registry.Projectiles() {
		if !p.Alive || p.Owner != entity.OwnerPlayer || p.BornTick == g.CurrentTick {
			continue
		}

		for _, guard := range g.Registry.Guards() {
			if guard.Destroyed {
				continue
			}
			if !physics.SphereVsAABB(p.Position, p.Radius, guard.Collider()) {
				continue
			}

			p.Alive = false
			g.projectileRemovals = append(g.projectileRemovals, p.GetID())
			g.scoreGuardHit(guard, now)
			break
		}
	}
}

// scoreGuardHit applies one confirmed hit to a guard: score, events, and
// destruction handling including optional respawn scheduling.
func (g *Game) scoreGuardHit(guard *entity.Guard, now time.Time) {
	destroyed := guard.TakeHit(now)

	g.Score += g.Config.GuardHitScore
	g.EventBus.Publish(event.NewGuardEvent(
		event.GuardHit, g, guard.GetID(), guard.Hits, guard.IsBoss,
	))
	g.EventBus.Publish(event.NewScoreEvent(g, g.Config.GuardHitScore, g.Score))

	if !destroyed {
		return
	}

	g.guardRemovals = append(g.guardRemovals, guard.GetID())
	g.EventBus.Publish(event.NewGuardEvent(
		event.GuardDestroyed, g, guard.GetID(), guard.Hits, guard.IsBoss,
	))

	if g.Config.Guards.Respawn && !guard.IsBoss {
		g.pendingRespawns = append(g.pendingRespawns, pendingRespawn{
			dueAt:  now.Add(time.Duration(g.Config.Guards.RespawnDelay * float64(time.Second))),
			params: g.guardParams(guard.Center, rand.Float64()*2*math.Pi),
		})
	}
}

// collideEnemyShots tests every live enemy and boss projectile against the
// player's spherical hit volume.
func (g *Game) collideEnemyShots() {
	playerSphere := physics.Sphere{
		Center: g.player.Position,
		Radius: g.Config.PlayerHitRadius,
	}

	for _, p := range g.Registry.Projectiles() {
		if !p.Alive || p.Owner == entity.OwnerPlayer || p.BornTick == g.CurrentTick {
			continue
		}
		if !playerSphere.Collides(p.Collider()) {
			continue
		}

		p.Alive = false
		g.projectileRemovals = append(g.projectileRemovals, p.GetID())

		g.player.Health -= g.Config.EnemyShotDamage
		g.EventBus.Publish(event.NewDamageEvent(g, g.Config.EnemyShotDamage, g.player.Health))
	}
}

// checkPlayerRam flags direct contact between the player hull and a live
// guard; the round ends with the collision reason in the terminal phase.
func (g *Game) checkPlayerRam() {
	for _, guard := range g.Registry.Guards() {
		if guard.Destroyed {
			continue
		}
		if physics.SphereVsAABB(g.player.Position, g.Config.PlayerHitRadius, guard.Collider()) {
			g.ramDetected = true
			return
		}
	}
}

// captureChests collects any chest whose capture radius the player entered.
func (g *Game) captureChests() {
	total := len(g.Registry.Chests())
	for _, chest := range g.Registry.Chests() {
		if !chest.InCaptureRange(g.player.Position) {
			continue
		}

		chest.Collected = true
		g.chestsCollected++
		g.EventBus.Publish(event.NewChestEvent(
			g, chest.GetID(), g.chestsCollected, total,
		))
	}
}

// applyRemovals drains the removal queues, applies due guard respawns, and
// prunes fully faded trails. This is the only phase that mutates the
// registry collections structurally.
func (g *Game) applyRemovals() {
	for _, id := range g.projectileRemovals {
		g.Registry.RemoveProjectile(id)
	}
	g.projectileRemovals = g.projectileRemovals[:0]

	for _, id := range g.guardRemovals {
		g.Registry.RemoveGuard(id)
	}
	g.guardRemovals = g.guardRemovals[:0]

	now := g.clock.Now()

	due := g.pendingRespawns[:0]
	for _, respawn := range g.pendingRespawns {
		if now.Before(respawn.dueAt) {
			due = append(due, respawn)
			continue
		}
		guard := g.Registry.SpawnGuard(respawn.params)
		g.EventBus.Publish(event.NewGuardEvent(
			event.GuardRespawned, g, guard.GetID(), 0, false,
		))
	}
	g.pendingRespawns = due

	for _, trail := range g.Registry.PruneTrails(now) {
		g.EventBus.Publish(&event.BaseEvent{
			EventType: event.TrailFaded,
			Source:    trail,
		})
	}
}

// checkTerminalConditions ends the round when a terminal state is reached.
// Contact and destruction outrank the timer so a lethal final tick reports
// what killed the player rather than the clock.
func (g *Game) checkTerminalConditions() {
	if g.Status != GameStatusActive {
		return
	}

	switch {
	case g.ramDetected:
		g.endRound(event.ReasonCollision)
	case g.player.Health <= 0:
		g.endRound(event.ReasonHit)
	case g.chestsCollected == len(g.Registry.Chests()) && g.chestsCollected > 0:
		g.endRound(event.ReasonCollected)
	case g.Config.RoundTime > 0 && g.ElapsedTime >= g.Config.RoundTime:
		g.endRound(event.ReasonTimeout)
	}
}

// endRound transitions to the ended state exactly once.
func (g *Game) endRound(reason event.EndReason) {
	if g.Status == GameStatusEnded {
		return
	}
	g.Status = GameStatusEnded
	g.EndReason = reason
	g.EventBus.Publish(event.NewRoundEndedEvent(g, reason, g.Score))
}
