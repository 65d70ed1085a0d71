package controls

import (
	"github.com/Carmen-Shannon/oxy-arena/common"
	"go.uber.org/zap"
)

// Projector turns normalized device coordinates into a world-space ray.
type Projector interface {
	Unproject(ndcX, ndcY float32) (origin, dir common.Vec3)
}

// WorldPointAcceptor receives the ground point under a right click.
type WorldPointAcceptor interface {
	AcceptWorldPoint(p common.Vec3)
}

// worldPointInput casts right clicks onto the y = 0 plane.
type worldPointInput struct {
	projector Projector
	acceptors receivers[WorldPointAcceptor]
	viewport  func() (int, int)
}

func newWorldPointInput(logger *zap.Logger) *worldPointInput {
	return &worldPointInput{acceptors: receivers[WorldPointAcceptor]{name: "world point", logger: logger}}
}

func (wi *worldPointInput) listen(c *Controls) {
	wi.viewport = c.Viewport
	c.OnMouseDown(func(button int, x, y float32) {
		if button != common.MouseButtonRight {
			return
		}
		p, ok := wi.cast(x, y)
		if !ok {
			return
		}
		for _, a := range wi.acceptors.items {
			a.AcceptWorldPoint(p)
		}
	})
}

// cast returns the ground point under the cursor, or false if there is none.
func (wi *worldPointInput) cast(x, y float32) (common.Vec3, bool) {
	w, h := wi.viewport()
	if wi.projector == nil || w <= 0 || h <= 0 {
		return common.Vec3{}, false
	}
	ndcX := 2*x/float32(w) - 1
	ndcY := 1 - 2*y/float32(h)
	origin, dir := wi.projector.Unproject(ndcX, ndcY)
	return IntersectGround(origin, dir)
}

func (wi *worldPointInput) reset() {
	wi.acceptors.items = nil
	wi.projector = nil
}

// IntersectGround intersects a ray with the y = 0 plane. Rays that do not point
// down never reach it.
//
// Parameters:
//   - origin: the ray origin
//   - dir: the ray direction
//
// Returns:
//   - common.Vec3: the hit point
//   - bool: false if the ray misses
func IntersectGround(origin, dir common.Vec3) (common.Vec3, bool) {
	if dir[1] >= 0 {
		return common.Vec3{}, false
	}
	t := -origin[1] / dir[1]
	if t < 0 {
		return common.Vec3{}, false
	}
	p := origin.Add(dir.Scale(t))
	p[1] = 0
	return p, true
}
