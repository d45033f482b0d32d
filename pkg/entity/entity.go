// pkg/entity/entity.go
package entity

import (
	"github.com/EngoEngine/ecs"

	"github.com/igupta1/CannonShooter/pkg/physics"
)

// ID is a unique identifier for an entity. IDs come from the ecs package's
// atomic counter, so an ID is never reused for a different live entity
// within the same process, which keeps cached IDs in AI and collision code
// from ever aliasing a new entity.
type ID = uint64

// Owner identifies who fired a projectile.
type Owner int

const (
	OwnerPlayer Owner = iota
	OwnerEnemy
	OwnerBoss
)

// String returns a human-readable owner name for events and logs.
func (o Owner) String() string {
	switch o {
	case OwnerPlayer:
		return "player"
	case OwnerEnemy:
		return "enemy"
	case OwnerBoss:
		return "boss"
	default:
		return "unknown"
	}
}

// Entity is the base interface for all simulated objects
type Entity interface {
	GetID() ID
	GetPosition() physics.Vector3
	Render(r Renderer)
}

// BaseEntity contains common functionality for all entities
type BaseEntity struct {
	ecs.BasicEntity
	Position physics.Vector3
	Velocity physics.Vector3
	Alive    bool
}

// NewBaseEntity creates a BaseEntity with a fresh unique identity at the
// given position.
func NewBaseEntity(position physics.Vector3) BaseEntity {
	return BaseEntity{
		BasicEntity: ecs.NewBasic(),
		Position:    position,
		Alive:       true,
	}
}

// GetID returns the entity's unique identifier
func (e *BaseEntity) GetID() ID {
	return e.BasicEntity.ID()
}

// GetPosition returns the entity's position
func (e *BaseEntity) GetPosition() physics.Vector3 {
	return e.Position
}
