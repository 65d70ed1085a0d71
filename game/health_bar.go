package game

import (
	"math"

	"github.com/Carmen-Shannon/oxy-arena/common"
	"github.com/Carmen-Shannon/oxy-arena/engine/controls"
	"github.com/Carmen-Shannon/oxy-arena/engine/graphics"
	"github.com/Carmen-Shannon/oxy-arena/engine/mesh"
	"github.com/Carmen-Shannon/oxy-arena/engine/scene"
	"github.com/Carmen-Shannon/oxy-arena/engine/systems"
)

const (
	healthBarHeight  = 3
	healthBrickGap   = 1
	healthBrickScale = 0.5
)

// HealthBar is a row of bricks hovering over its owner, one brick per point of
// health. Lost health hides bricks from the end of the row.
type HealthBar struct {
	scene.Base
	owner  *common.Vec3
	health int
	bricks []*HealthBrick
}

// NewHealthBar creates a full bar following owner. The bricks are spawned as children.
//
// Parameters:
//   - m: the brick mesh
//   - maxHealth: number of bricks
//   - owner: position the bar follows
//
// Returns:
//   - *HealthBar: the bar
func NewHealthBar(m mesh.Mesh, maxHealth int, owner *common.Vec3) *HealthBar {
	h := &HealthBar{
		Base:   scene.NewBase(),
		owner:  owner,
		health: maxHealth,
		bricks: make([]*HealthBrick, maxHealth),
	}
	for i := range h.bricks {
		h.bricks[i] = newHealthBrick(m, h.brickPosition(i))
		h.Spawn(h.bricks[i])
	}
	return h
}

// Health returns the remaining health.
func (h *HealthBar) Health() int {
	return h.health
}

// MaxHealth returns the number of bricks.
func (h *HealthBar) MaxHealth() int {
	return len(h.bricks)
}

// Bricks returns the bricks in row order.
func (h *HealthBar) Bricks() []*HealthBrick {
	return h.bricks
}

// TakeDamage lowers health, clamped to [0, max], rounding damage to whole bricks.
// Negative damage heals.
func (h *HealthBar) TakeDamage(damage float32) {
	h.health -= int(math.Round(float64(damage)))
	h.health = max(0, min(h.health, len(h.bricks)))
	for i, b := range h.bricks {
		b.graphics.SetActive(i < h.health)
	}
}

// Follow moves the visible bricks over the owner.
func (h *HealthBar) Follow() {
	for i := 0; i < h.health; i++ {
		*h.bricks[i].Transform().Position() = h.brickPosition(i)
	}
}

// brickPosition lays the row out diagonally so it reads left to right from the top camera.
func (h *HealthBar) brickPosition(i int) common.Vec3 {
	start := healthBrickGap * float32(len(h.bricks)) / 2 / math.Sqrt2
	offset := common.Vec3{-start + healthBrickGap*float32(i), healthBarHeight, start - healthBrickGap*float32(i)}
	return h.owner.Add(offset)
}

// Destroy deletes the bricks with the bar.
func (h *HealthBar) Destroy(*systems.Systems, *controls.Controls) {
	for _, b := range h.bricks {
		b.MarkForDeletion()
	}
}

// HealthBrick is one point of health.
type HealthBrick struct {
	scene.Base
	color    common.Color
	graphics *graphics.DecoratedShading
}

func newHealthBrick(m mesh.Mesh, position common.Vec3) *HealthBrick {
	b := &HealthBrick{
		Base:  scene.NewBase(scene.WithPosition(position), scene.WithScale(healthBrickScale)),
		color: common.Color{1, 0.2, 0.2, 1},
	}
	b.graphics = graphics.NewDecoratedShading(m, b.Transform(), &b.color, graphics.WithLabel("Health Brick"))
	b.AddGraphics(b.graphics)
	return b
}

// Visible reports whether the brick is drawn.
func (b *HealthBrick) Visible() bool {
	return b.graphics.Active()
}
