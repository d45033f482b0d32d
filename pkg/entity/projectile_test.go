// pkg/entity/projectile_test.go
package entity

import (
	"math"
	"testing"
	"time"

	"github.com/igupta1/CannonShooter/pkg/physics"
)

var testBirth = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func TestNewProjectile_VelocityFromChargeDirection(t *testing.T) {
	p := NewProjectile(physics.Vector3{}, physics.Vector3{X: 2}, 40, OwnerPlayer, testBirth)

	if p.Velocity != (physics.Vector3{X: 40}) {
		t.Errorf("Velocity = %v, expected {40 0 0} (direction normalized then scaled)", p.Velocity)
	}
	if !p.Alive {
		t.Error("new projectile should be alive")
	}
	if p.Owner != OwnerPlayer {
		t.Errorf("Owner = %v, expected player", p.Owner)
	}
}

func TestNewProjectile_ZeroDirection(t *testing.T) {
	// A zero-length direction must not panic; the shot simply falls.
	p := NewProjectile(physics.Vector3{Y: 10}, physics.Vector3{}, 40, OwnerEnemy, testBirth)
	if p.Velocity != (physics.Vector3{}) {
		t.Errorf("Velocity = %v, expected zero", p.Velocity)
	}
}

func TestProjectile_BallisticDrop(t *testing.T) {
	// Zero initial vertical velocity: after t seconds of simulation the
	// vertical position must match 0.5*g*t² within the integrator's
	// per-step tolerance.
	p := NewProjectile(physics.Vector3{}, physics.Vector3{X: 1}, 20, OwnerPlayer, testBirth)

	const dt = 1.0 / 240.0
	elapsed := 0.0
	for elapsed < 0.4 { // stop before the ground threshold
		p.Update(dt)
		elapsed += dt
	}

	expected := 0.5 * -9.8 * elapsed * elapsed
	if math.Abs(p.Position.Y-expected) > 9.8*dt*elapsed {
		t.Errorf("y after %.2fs = %v, expected %v", elapsed, p.Position.Y, expected)
	}
}

func TestProjectile_Expired(t *testing.T) {
	tests := []struct {
		name     string
		position physics.Vector3
		age      time.Duration
		expected bool
	}{
		{name: "fresh_in_air", position: physics.Vector3{Y: 5}, age: time.Second, expected: false},
		{name: "below_ground", position: physics.Vector3{Y: -1.01}, age: time.Second, expected: true},
		{name: "at_threshold", position: physics.Vector3{Y: -1.0}, age: time.Second, expected: false},
		{name: "lifetime_exceeded", position: physics.Vector3{Y: 5}, age: 5001 * time.Millisecond, expected: true},
		{name: "at_lifetime", position: physics.Vector3{Y: 5}, age: 5 * time.Second, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProjectile(physics.Vector3{}, physics.Vector3{X: 1}, 10, OwnerPlayer, testBirth)
			p.Position = tt.position
			if got := p.Expired(testBirth.Add(tt.age)); got != tt.expected {
				t.Errorf("Expired() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestTrail_DistanceSpacedSampling(t *testing.T) {
	var trail Trail

	trail.Sample(physics.Vector3{})
	if len(trail.Points) != 1 {
		t.Fatalf("first sample should always record, got %d points", len(trail.Points))
	}

	// Movement below the sample interval records nothing.
	trail.Sample(physics.Vector3{X: TrailSampleDistance * 0.9})
	if len(trail.Points) != 1 {
		t.Errorf("sub-interval movement recorded a point, got %d", len(trail.Points))
	}

	// Crossing the interval records.
	trail.Sample(physics.Vector3{X: TrailSampleDistance * 1.1})
	if len(trail.Points) != 2 {
		t.Errorf("expected 2 points after crossing interval, got %d", len(trail.Points))
	}
}

func TestTrail_CapDropsOldest(t *testing.T) {
	var trail Trail

	for i := 0; i <= MaxTrailPoints+5; i++ {
		trail.Sample(physics.Vector3{X: float64(i) * TrailSampleDistance})
	}

	if len(trail.Points) != MaxTrailPoints {
		t.Fatalf("trail has %d points, expected cap %d", len(trail.Points), MaxTrailPoints)
	}
	// Oldest points discarded first: the first surviving point is not x=0.
	if trail.Points[0].Position.X == 0 {
		t.Error("oldest point should have been discarded")
	}
	last := trail.Points[len(trail.Points)-1]
	if last.Position.X != float64(MaxTrailPoints+5)*TrailSampleDistance {
		t.Errorf("newest point = %v, expected most recent sample", last.Position)
	}
}

func TestFadingTrail_OpacityDecay(t *testing.T) {
	f := &FadingTrail{
		ProjectileID: 1,
		Points:       []TrailPoint{{Opacity: 1}},
		StartedAt:    testBirth,
	}

	if got := f.Opacity(testBirth); got != 1 {
		t.Errorf("Opacity at start = %v, expected 1", got)
	}
	if got := f.Opacity(testBirth.Add(TrailFadeDuration / 2)); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("Opacity at half fade = %v, expected 0.5", got)
	}
	if got := f.Opacity(testBirth.Add(2 * TrailFadeDuration)); got != 0 {
		t.Errorf("Opacity past fade = %v, expected 0", got)
	}

	if f.Faded(testBirth.Add(TrailFadeDuration / 2)) {
		t.Error("trail reported faded at half duration")
	}
	if !f.Faded(testBirth.Add(TrailFadeDuration)) {
		t.Error("trail not faded at full duration")
	}
}

func TestEntityIDs_Unique(t *testing.T) {
	seen := make(map[ID]bool)
	for i := 0; i < 100; i++ {
		p := NewProjectile(physics.Vector3{}, physics.Vector3{X: 1}, 10, OwnerPlayer, testBirth)
		if seen[p.GetID()] {
			t.Fatalf("duplicate entity ID %d", p.GetID())
		}
		seen[p.GetID()] = true
	}
}
