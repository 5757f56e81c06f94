package component

import "github.com/walter-rpg/walter/internal/core/ecs"

type Position struct {
	X, Y float64
}

type Velocity struct {
	DX, DY float64 // units per second
}

// Sprite references a texture owned by the presentation layer.
type Sprite struct {
	Path   string
	Handle uint32
}

// Playable marks an entity driven by the human player.
type Playable struct{}

func (Position) ComponentType() ecs.ComponentType { return TypePosition }
func (Velocity) ComponentType() ecs.ComponentType { return TypeVelocity }
func (Sprite) ComponentType() ecs.ComponentType   { return TypeSprite }
func (Playable) ComponentType() ecs.ComponentType { return TypePlayable }
