package component

import "github.com/walter-rpg/walter/internal/core/ecs"

// Closed set of component tags known to the world.
const (
	TypePosition ecs.ComponentType = iota
	TypeVelocity
	TypeFighter
	TypeSprite
	TypePlayable
)

// Types lists every tag in dispatch order.
var Types = []ecs.ComponentType{TypePosition, TypeVelocity, TypeFighter, TypeSprite, TypePlayable}

// Component is the sum type of insertable component values. BuildEntity routes
// each value to its store by concrete type.
type Component interface {
	ComponentType() ecs.ComponentType
}

func TypeName(t ecs.ComponentType) string {
	switch t {
	case TypePosition:
		return "position"
	case TypeVelocity:
		return "velocity"
	case TypeFighter:
		return "fighter"
	case TypeSprite:
		return "sprite"
	case TypePlayable:
		return "playable"
	default:
		return "unknown"
	}
}
