package systems

import (
	"github.com/Carmen-Shannon/oxy-arena/common"
	"go.uber.org/zap"
)

// Clampable is an entity kept on the playable region, such as the camera's focus.
type Clampable interface {
	Positioned

	// ReturnToWorld is called with the clamped point when the entity drifted out.
	ReturnToWorld(p common.Vec3)
}

// WorldClamp moves registered entities back onto its bounds.
type WorldClamp struct {
	bounds  Bounds
	entries *registry[Clampable]
}

func newWorldClamp(logger *zap.Logger) *WorldClamp {
	return &WorldClamp{entries: newRegistry[Clampable]("clamp", logger)}
}

// SetBounds replaces the region. A nil region disables clamping.
func (w *WorldClamp) SetBounds(bounds Bounds) {
	w.bounds = bounds
}

// Register adds c.
func (w *WorldClamp) Register(c Clampable) {
	w.entries.register(c)
}

// Remove drops c.
func (w *WorldClamp) Remove(c Clampable) {
	w.entries.remove(c)
}

// Contains reports whether c is registered.
func (w *WorldClamp) Contains(c Clampable) bool {
	return w.entries.contains(c)
}

// Len returns the number of registered entities.
func (w *WorldClamp) Len() int {
	return w.entries.len()
}

// Execute returns every entity outside the bounds to the closest valid point.
func (w *WorldClamp) Execute() {
	if w.bounds == nil {
		return
	}
	for _, c := range w.entries.items {
		p := c.WorldPosition()
		if q := w.bounds.ClosestValidPoint(p); q != p {
			c.ReturnToWorld(q)
		}
	}
}
