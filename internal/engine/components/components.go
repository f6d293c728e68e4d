// Package components defines the component types shared by engine systems.
package components

import "github.com/vovakirdan/rigel/internal/core"

// WorldPosition is the top-left corner of an entity in world units.
type WorldPosition = core.Point

// BoundingBox is the collision box relative to WorldPosition.
type BoundingBox = core.Rect

// Physical marks an entity as moved by the physics system.
type Physical struct {
	Velocity        core.Vec2f
	GravityAffected bool
}

// SolidBody marks an immovable body other physical entities collide with.
type SolidBody struct{}

// CollidedWithWorld is present for the tick in which the entity's movement
// was blocked. The physics system clears it at the start of every tick.
type CollidedWithWorld struct{}

// Direction of travel for projectiles.
type Direction int

const (
	DirectionLeft Direction = iota
	DirectionRight
	DirectionUp
	DirectionDown
)

// Projectile marks a player or enemy shot. Adding it claims a projectile slot.
type Projectile struct {
	Damage    int
	Direction Direction
}

// BehaviorController gives an actor per-tick behavior. Adding it claims an
// actor slot.
type BehaviorController struct {
	Name string
}

// EffectSprite is a short-lived visual effect (explosion, smoke, debris).
// Adding it claims an effect slot.
type EffectSprite struct {
	Frames   int
	Lifetime int
}

// DamageInflicting marks anything that hurts the player on contact.
type DamageInflicting struct {
	Amount int
}
