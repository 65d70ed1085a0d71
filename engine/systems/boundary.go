package systems

import "go.uber.org/zap"

// Leaver is an entity that must stay inside the playable region.
type Leaver interface {
	Positioned

	// OnLeave is called every frame the entity is outside the region.
	OnLeave()
}

// BoundaryChecker calls OnLeave on every registered entity outside its bounds.
type BoundaryChecker struct {
	bounds  Bounds
	entries *registry[Leaver]
}

func newBoundaryChecker(logger *zap.Logger) *BoundaryChecker {
	return &BoundaryChecker{entries: newRegistry[Leaver]("boundary", logger)}
}

// SetBounds replaces the region. A nil region disables the check.
func (b *BoundaryChecker) SetBounds(bounds Bounds) {
	b.bounds = bounds
}

// Bounds returns the current region, or nil.
func (b *BoundaryChecker) Bounds() Bounds {
	return b.bounds
}

// Register adds l.
func (b *BoundaryChecker) Register(l Leaver) {
	b.entries.register(l)
}

// Remove drops l.
func (b *BoundaryChecker) Remove(l Leaver) {
	b.entries.remove(l)
}

// Contains reports whether l is registered.
func (b *BoundaryChecker) Contains(l Leaver) bool {
	return b.entries.contains(l)
}

// Len returns the number of registered entities.
func (b *BoundaryChecker) Len() int {
	return b.entries.len()
}

// Execute calls OnLeave on entities outside the bounds.
func (b *BoundaryChecker) Execute() {
	if b.bounds == nil {
		return
	}
	for _, l := range b.entries.items {
		if !b.bounds.Contains(l.WorldPosition()) {
			l.OnLeave()
		}
	}
}
