// pkg/render/terminal_test.go
package render

import (
	"strings"
	"testing"
	"time"

	"github.com/igupta1/CannonShooter/pkg/entity"
	"github.com/igupta1/CannonShooter/pkg/physics"
)

func TestTerminalRenderer_PlotsEntities(t *testing.T) {
	r := NewTerminalRenderer(21, 21, 1.0)
	r.Clear()

	guard := entity.NewGuard(entity.GuardParams{
		Center:      physics.Vector3{X: 5, Z: 0},
		OrbitRadius: 0,
	})
	r.RenderGuard(guard)

	boss := entity.NewBoss(entity.BossParams{
		Center: physics.Vector3{X: -5, Z: 0},
	})
	r.RenderGuard(boss)

	chest := entity.NewChest(physics.Vector3{X: 0, Z: 5}, 2)
	r.RenderChest(chest)

	p := entity.NewProjectile(physics.Vector3{Z: -5}, physics.Vector3{X: 1}, 10, entity.OwnerPlayer, time.Now())
	r.RenderProjectile(p)

	frame := r.Frame()
	for _, symbol := range []string{"G", "B", "C", "o"} {
		if !strings.Contains(frame, symbol) {
			t.Errorf("frame missing %q:\n%s", symbol, frame)
		}
	}
}

func TestTerminalRenderer_CollectedChestSymbol(t *testing.T) {
	r := NewTerminalRenderer(11, 11, 1.0)
	r.Clear()

	chest := entity.NewChest(physics.Vector3{}, 2)
	chest.Collected = true
	r.RenderChest(chest)

	if !strings.Contains(r.Frame(), "c") {
		t.Error("collected chest not drawn as lowercase c")
	}
}

func TestTerminalRenderer_OffscreenIgnored(t *testing.T) {
	r := NewTerminalRenderer(11, 11, 1.0)
	r.Clear()

	p := entity.NewProjectile(physics.Vector3{X: 1000}, physics.Vector3{X: 1}, 10, entity.OwnerEnemy, time.Now())
	r.RenderProjectile(p)

	if strings.Contains(r.Frame(), "*") {
		t.Error("offscreen projectile was drawn")
	}
}

func TestTerminalRenderer_ClearEmptiesBuffer(t *testing.T) {
	r := NewTerminalRenderer(11, 11, 1.0)
	r.Clear()
	r.RenderChest(entity.NewChest(physics.Vector3{}, 2))
	r.Clear()

	if strings.Contains(r.Frame(), "C") {
		t.Error("chest survived Clear")
	}
}

func TestNullRenderer_NilSafe(t *testing.T) {
	r := NewNullRenderer()

	// Nil entities must not panic.
	r.RenderGuard(nil)
	r.RenderChest(nil)
	r.RenderProjectile(nil)
	r.RenderFadingTrail(nil)
	r.Clear()
	r.Present()
}
