// pkg/engine/game_test.go
package engine

import (
	"testing"
	"time"

	"github.com/igupta1/CannonShooter/pkg/config"
	"github.com/igupta1/CannonShooter/pkg/entity"
	"github.com/igupta1/CannonShooter/pkg/event"
	"github.com/igupta1/CannonShooter/pkg/gameclock"
	"github.com/igupta1/CannonShooter/pkg/physics"
)

// testConfig returns a quiet single-chest layout: one static guard that
// never detects the player, no boss. Tests that want firing or the boss
// adjust what they need.
func testConfig() *config.GameConfig {
	cfg := config.DefaultConfig()
	cfg.Chests = []config.ChestConfig{{X: 10, Z: 10, CaptureRadius: 2}}
	cfg.Guards.PerChest = 1
	cfg.Guards.OrbitRadius = 5
	cfg.Guards.OrbitSpeed = 0
	cfg.Guards.DetectionRadius = 1
	cfg.Guards.HullHalfExtent = 1
	cfg.Boss.Enabled = false
	return cfg
}

func newTestGame(cfg *config.GameConfig) (*Game, *gameclock.FakeClock) {
	clock := gameclock.NewFakeClock(time.Unix(5000, 0))
	game := NewGame(cfg, clock)
	game.Start()
	return game, clock
}

// step advances the clock by one nominal frame and runs one tick.
func step(g *Game, clock *gameclock.FakeClock) {
	clock.Advance(time.Second / 60)
	g.Update()
}

// guardPos is where testConfig's single guard sits: chest center plus the
// orbit radius along +X at angle zero.
func guardPos() physics.Vector3 {
	return physics.Vector3{X: 15, Z: 10}
}

func TestGame_PopulatesFromConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Boss.Enabled = true
	g, _ := newTestGame(cfg)

	projectiles, guards, chests, trails := g.Registry.Counts()
	if projectiles != 0 || trails != 0 {
		t.Errorf("fresh game has %d projectiles and %d trails", projectiles, trails)
	}
	if chests != 1 {
		t.Errorf("chests = %d, want 1", chests)
	}
	if guards != 2 { // one ring guard plus the boss
		t.Errorf("guards = %d, want 2", guards)
	}

	var boss *entity.Guard
	for _, guard := range g.Registry.Guards() {
		if guard.IsBoss {
			boss = guard
		}
	}
	if boss == nil {
		t.Fatal("boss not spawned")
	}
	if boss.MaxHits != cfg.Boss.MaxHits {
		t.Errorf("boss MaxHits = %d, want %d", boss.MaxHits, cfg.Boss.MaxHits)
	}
}

func TestGame_FireCannonRequiresActiveRound(t *testing.T) {
	clock := gameclock.NewFakeClock(time.Unix(5000, 0))
	g := NewGame(testConfig(), clock)

	if err := g.FireCannon(physics.Vector3{}, physics.Vector3{X: 1}, 0.5); err == nil {
		t.Error("FireCannon succeeded before Start")
	}
}

func TestGame_FireCannonChargeMapping(t *testing.T) {
	cfg := testConfig()
	g, clock := newTestGame(cfg)

	if err := g.FireCannon(physics.Vector3{Y: 50}, physics.Vector3{X: 1}, 0.5); err != nil {
		t.Fatalf("FireCannon: %v", err)
	}
	step(g, clock)

	projectiles := g.Registry.Projectiles()
	if len(projectiles) != 1 {
		t.Fatalf("got %d projectiles, want 1", len(projectiles))
	}
	wantSpeed := physics.Lerp(cfg.MinPower, cfg.MaxPower, 0.5)
	if got := projectiles[0].Velocity.Length(); !almostEqual(got, wantSpeed) {
		t.Errorf("launch speed = %v, want %v", got, wantSpeed)
	}
	if projectiles[0].Owner != entity.OwnerPlayer {
		t.Errorf("owner = %v, want player", projectiles[0].Owner)
	}
}

func TestGame_SpawnTickSkipsIntegration(t *testing.T) {
	g, clock := newTestGame(testConfig())
	origin := physics.Vector3{Y: 50}

	g.FireCannon(origin, physics.Vector3{X: 1}, 1.0)
	step(g, clock)

	p := g.Registry.Projectiles()[0]
	if p.Position != origin {
		t.Errorf("projectile moved on its spawn tick: %v", p.Position)
	}

	step(g, clock)
	if p.Position == origin {
		t.Error("projectile did not move on the tick after spawning")
	}
}

func TestGame_SpawnTickSkipsCollision(t *testing.T) {
	// A shot spawned inside a guard hull must not register a hit on its
	// birth tick; the hit lands one tick later.
	g, clock := newTestGame(testConfig())

	g.FireCannon(guardPos(), physics.Vector3{}, 0)
	step(g, clock)

	if g.Score != 0 {
		t.Fatalf("score = %d on the spawn tick, want 0", g.Score)
	}

	step(g, clock)
	if g.Score != g.Config.GuardHitScore {
		t.Errorf("score after collision tick = %d, want %d", g.Score, g.Config.GuardHitScore)
	}
}

func TestGame_FirstMatchTieBreak(t *testing.T) {
	// Two guards share one position. A single shot must damage exactly one
	// of them, and it must be the earlier-spawned one.
	cfg := testConfig()
	cfg.Guards.PerChest = 2
	cfg.Guards.OrbitRadius = 0 // both guards collapse onto the chest center
	g, clock := newTestGame(cfg)

	guards := g.Registry.Guards()
	if len(guards) != 2 {
		t.Fatalf("got %d guards, want 2", len(guards))
	}
	firstID, secondID := guards[0].GetID(), guards[1].GetID()

	g.FireCannon(physics.Vector3{X: 10, Z: 10}, physics.Vector3{}, 0)
	step(g, clock)
	step(g, clock)

	remaining := g.Registry.Guards()
	if len(remaining) != 1 {
		t.Fatalf("%d guards remain, want 1", len(remaining))
	}
	if remaining[0].GetID() != secondID {
		t.Errorf("surviving guard is %d, want %d (first-spawned %d should have died)",
			remaining[0].GetID(), secondID, firstID)
	}
	if g.Score != g.Config.GuardHitScore {
		t.Errorf("score = %d, want a single hit's worth %d", g.Score, g.Config.GuardHitScore)
	}
}

func TestGame_BossDurability(t *testing.T) {
	cfg := testConfig()
	cfg.Guards.PerChest = 0
	cfg.Boss.Enabled = true
	cfg.Boss.X, cfg.Boss.Z = 20, 20
	cfg.Boss.PatrolSpeed = 0 // figure-eight at t=0 is the patrol center
	cfg.Boss.DetectionRadius = 1
	cfg.Boss.MaxHits = 4
	g, clock := newTestGame(cfg)

	bossCenter := physics.Vector3{X: 20, Z: 20}
	destroyedAt := 0
	for shot := 1; shot <= 4; shot++ {
		g.FireCannon(bossCenter, physics.Vector3{}, 0)
		step(g, clock) // spawn
		step(g, clock) // collide
		if _, guards, _, _ := g.Registry.Counts(); guards == 0 {
			destroyedAt = shot
			break
		}
	}

	if destroyedAt != 4 {
		t.Errorf("boss destroyed on shot %d, want 4", destroyedAt)
	}
}

func TestGame_GuardRespawns(t *testing.T) {
	cfg := testConfig()
	cfg.Guards.Respawn = true
	cfg.Guards.RespawnDelay = 0.5
	g, clock := newTestGame(cfg)

	g.FireCannon(guardPos(), physics.Vector3{}, 0)
	step(g, clock)
	step(g, clock)

	if _, guards, _, _ := g.Registry.Counts(); guards != 0 {
		t.Fatalf("guard not removed after destruction, count = %d", guards)
	}

	clock.Advance(600 * time.Millisecond)
	g.Update()

	if _, guards, _, _ := g.Registry.Counts(); guards != 1 {
		t.Errorf("guard count after respawn delay = %d, want 1", guards)
	}
}

func TestGame_EnemyShotDamagesPlayer(t *testing.T) {
	g, clock := newTestGame(testConfig())
	step(g, clock) // tick past zero so a birth tick of zero is in the past
	playerPos := g.Player().Position

	// Plant an enemy shot on the player with an already-elapsed birth tick
	// so the next pass collides it.
	g.Registry.SpawnProjectile(playerPos, physics.Vector3{}, 0, entity.OwnerEnemy, 0)
	step(g, clock)

	want := g.Config.PlayerMaxHealth - g.Config.EnemyShotDamage
	if got := g.Player().Health; got != want {
		t.Errorf("player health = %d, want %d", got, want)
	}
	if projectiles, _, _, _ := g.Registry.Counts(); projectiles != 0 {
		t.Errorf("enemy shot survived its hit, %d projectiles remain", projectiles)
	}
}

func TestGame_ProjectileExpiryLeavesFadingTrail(t *testing.T) {
	g, clock := newTestGame(testConfig())

	g.FireCannon(physics.Vector3{Y: 2}, physics.Vector3{X: 1}, 1.0)
	step(g, clock)

	// Fast horizontal shot from low altitude: gravity drags it below the
	// ground threshold well within its lifetime.
	expired := false
	for i := 0; i < 120; i++ {
		step(g, clock)
		if projectiles, _, _, _ := g.Registry.Counts(); projectiles == 0 {
			expired = true
			break
		}
	}
	if !expired {
		t.Fatal("projectile never expired")
	}

	if _, _, _, trails := g.Registry.Counts(); trails != 1 {
		t.Errorf("fading trails = %d, want 1", trails)
	}

	clock.Advance(entity.TrailFadeDuration + 50*time.Millisecond)
	g.Update()
	if _, _, _, trails := g.Registry.Counts(); trails != 0 {
		t.Errorf("faded trail not pruned, %d remain", trails)
	}
}

func TestGame_DeltaTimeCapped(t *testing.T) {
	g, clock := newTestGame(testConfig())

	g.FireCannon(physics.Vector3{Y: 200}, physics.Vector3{X: 1}, 1.0)
	step(g, clock)
	p := g.Registry.Projectiles()[0]
	speedX := p.Velocity.X

	// A ten-second stall must integrate as a single capped step, not a
	// ten-second jump.
	clock.Advance(10 * time.Second)
	g.Update()

	if got, want := p.Position.X, speedX*maxDeltaTime; !almostEqual(got, want) {
		t.Errorf("x after stalled tick = %v, want %v", got, want)
	}
}

func TestGame_TerminalReasons(t *testing.T) {
	t.Run("timeout", func(t *testing.T) {
		cfg := testConfig()
		cfg.RoundTime = 1
		g, clock := newTestGame(cfg)

		clock.Advance(1100 * time.Millisecond)
		g.Update()

		assertEnded(t, g, event.ReasonTimeout)
	})

	t.Run("player destroyed", func(t *testing.T) {
		g, clock := newTestGame(testConfig())
		g.SetPlayer(PlayerState{Health: 0, MaxHealth: 100})
		step(g, clock)

		assertEnded(t, g, event.ReasonHit)
	})

	t.Run("guard contact", func(t *testing.T) {
		g, clock := newTestGame(testConfig())
		g.SetPlayer(PlayerState{Position: guardPos(), Health: 100, MaxHealth: 100})
		step(g, clock)

		assertEnded(t, g, event.ReasonCollision)
	})

	t.Run("all chests collected", func(t *testing.T) {
		g, clock := newTestGame(testConfig())
		g.SetPlayer(PlayerState{Position: physics.Vector3{X: 10, Z: 10}, Health: 100, MaxHealth: 100})
		step(g, clock)

		assertEnded(t, g, event.ReasonCollected)
	})
}

func assertEnded(t *testing.T, g *Game, want event.EndReason) {
	t.Helper()
	if g.Status != GameStatusEnded {
		t.Fatalf("status = %v, want ended", g.Status)
	}
	if g.EndReason != want {
		t.Errorf("end reason = %q, want %q", g.EndReason, want)
	}
}

func TestGame_EndedRoundRejectsFire(t *testing.T) {
	cfg := testConfig()
	cfg.RoundTime = 1
	g, clock := newTestGame(cfg)

	clock.Advance(2 * time.Second)
	g.Update()

	if err := g.FireCannon(physics.Vector3{}, physics.Vector3{X: 1}, 1.0); err == nil {
		t.Error("FireCannon succeeded after the round ended")
	}
}

func TestGame_ResetRestoresInitialState(t *testing.T) {
	g, clock := newTestGame(testConfig())

	g.FireCannon(guardPos(), physics.Vector3{}, 0)
	step(g, clock)
	step(g, clock) // guard destroyed, score earned
	g.SetPlayer(PlayerState{Position: physics.Vector3{X: 10, Z: 10}, Health: 40, MaxHealth: 100})
	step(g, clock) // chest collected, round ends

	g.Reset()

	if g.Status != GameStatusWaiting {
		t.Errorf("status after reset = %v, want waiting", g.Status)
	}
	if g.Score != 0 || g.CurrentTick != 0 || g.EndReason != "" {
		t.Errorf("score/tick/reason not cleared: %d/%d/%q", g.Score, g.CurrentTick, g.EndReason)
	}
	if got := g.Player().Health; got != g.Config.PlayerMaxHealth {
		t.Errorf("player health after reset = %d, want %d", got, g.Config.PlayerMaxHealth)
	}

	projectiles, guards, chests, trails := g.Registry.Counts()
	if projectiles != 0 || trails != 0 {
		t.Errorf("leftover projectiles/trails after reset: %d/%d", projectiles, trails)
	}
	if guards != 1 || chests != 1 {
		t.Errorf("population after reset = %d guards, %d chests; want 1 and 1", guards, chests)
	}
	for _, chest := range g.Registry.Chests() {
		if chest.Collected {
			t.Error("chest still collected after reset")
		}
	}
}

func TestGame_EventsPublishedOnDestruction(t *testing.T) {
	g, clock := newTestGame(testConfig())

	var destroyed int
	g.EventBus.Subscribe(event.GuardDestroyed, func(e event.Event) {
		destroyed++
	})

	g.FireCannon(guardPos(), physics.Vector3{}, 0)
	step(g, clock)
	step(g, clock)
	step(g, clock)

	if destroyed != 1 {
		t.Errorf("GuardDestroyed published %d times, want exactly 1", destroyed)
	}
}

func TestGame_SnapshotIsDetached(t *testing.T) {
	g, clock := newTestGame(testConfig())
	g.FireCannon(physics.Vector3{Y: 50}, physics.Vector3{X: 1}, 1.0)
	step(g, clock)

	state := g.GetGameState()
	if len(state.Projectiles) != 1 || len(state.Guards) != 1 || len(state.Chests) != 1 {
		t.Fatalf("snapshot counts %d/%d/%d, want 1/1/1",
			len(state.Projectiles), len(state.Guards), len(state.Chests))
	}

	before := state.Projectiles[0].Position
	step(g, clock)
	if state.Projectiles[0].Position != before {
		t.Error("snapshot mutated by a later tick")
	}
}

func almostEqual(a, b float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < 1e-9
}
