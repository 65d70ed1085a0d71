// Package systems holds the cross-entity passes that run once per frame after
// every entity has updated: player/enemy collision, the boundary check and the
// clamp-to-world pass.
package systems

import "go.uber.org/zap"

// Systems aggregates the per-frame systems of a scene.
type Systems struct {
	Collision *CollisionSystem
	Boundary  *BoundaryChecker
	Clamp     *WorldClamp
}

// NewSystems creates empty systems with no bounds.
//
// Parameters:
//   - options: builder options
//
// Returns:
//   - *Systems: the systems
func NewSystems(options ...SystemsBuilderOption) *Systems {
	cfg := systemsConfig{logger: zap.NewNop()}
	for _, option := range options {
		option(&cfg)
	}
	s := &Systems{
		Collision: newCollisionSystem(cfg.logger),
		Boundary:  newBoundaryChecker(cfg.logger),
		Clamp:     newWorldClamp(cfg.logger),
	}
	if cfg.boundary != nil {
		s.Boundary.SetBounds(cfg.boundary)
	}
	if cfg.clamp != nil {
		s.Clamp.SetBounds(cfg.clamp)
	}
	return s
}

// Execute runs collision, then the boundary check, then clamping.
func (s *Systems) Execute() {
	s.Collision.Execute()
	s.Boundary.Execute()
	s.Clamp.Execute()
}
