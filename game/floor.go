// Package game holds the arena's gameplay entities and the bootstrap that puts
// them in a scene.
package game

import (
	"github.com/Carmen-Shannon/oxy-arena/common"
	"github.com/Carmen-Shannon/oxy-arena/engine/graphics"
	"github.com/Carmen-Shannon/oxy-arena/engine/mesh"
	"github.com/Carmen-Shannon/oxy-arena/engine/scene"
	"github.com/Carmen-Shannon/oxy-arena/engine/systems"
)

// Floor is the square playing field centered on its position.
type Floor struct {
	scene.Base
	size float32
}

// NewFloor creates a floor of side length size. m must span [-1, 1] on X and Z.
//
// Parameters:
//   - m: the floor mesh
//   - center: the floor center
//   - size: side length
//
// Returns:
//   - *Floor: the floor
func NewFloor(m mesh.Mesh, center common.Vec3, size float32) *Floor {
	f := &Floor{
		Base: scene.NewBase(scene.WithPosition(center), scene.WithScale(size/2)),
		size: size,
	}
	f.AddGraphics(graphics.NewSimple(m, f.Transform(), graphics.WithLabel("Floor")))
	return f
}

// Size returns the side length.
func (f *Floor) Size() float32 {
	return f.size
}

// Bounds returns the floor rectangle.
func (f *Floor) Bounds() systems.Rect {
	return systems.NewRect(*f.Transform().Position(), f.size, f.size)
}
