package scene

import (
	"github.com/Carmen-Shannon/oxy-arena/engine/systems"
	"go.uber.org/zap"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithLogger sets the logger shared by the scene's organizer, systems and controls.
//
// Parameters:
//   - logger: the zap logger
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLogger(logger *zap.Logger) SceneBuilderOption {
	return func(s *scene) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithViewport sets the initial canvas size.
//
// Parameters:
//   - width: canvas width in pixels
//   - height: canvas height in pixels
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithViewport(width, height int) SceneBuilderOption {
	return func(s *scene) {
		s.width, s.height = width, height
	}
}

// WithSystems passes options through to the scene's systems, e.g. boundary and clamp bounds.
//
// Parameters:
//   - options: the systems options
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithSystems(options ...systems.SystemsBuilderOption) SceneBuilderOption {
	return func(s *scene) {
		s.systemOptions = append(s.systemOptions, options...)
	}
}
