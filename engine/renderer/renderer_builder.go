package renderer

import (
	"github.com/Carmen-Shannon/oxy-arena/engine/device"
	"go.uber.org/zap"
)

// DefaultClearColor is the mid grey the surface is cleared to.
var DefaultClearColor = device.ClearColor{R: 0.5, G: 0.5, B: 0.5, A: 1}

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithLogger sets the logger for setup failures, skipped frames and resizes.
//
// Parameters:
//   - logger: the zap logger
//
// Returns:
//   - RendererBuilderOption: a function that applies the logger option to a renderer
func WithLogger(logger *zap.Logger) RendererBuilderOption {
	return func(r *renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithClearColor sets the color the surface is cleared to every frame.
//
// Parameters:
//   - color: the clear color
//
// Returns:
//   - RendererBuilderOption: a function that applies the clear color option to a renderer
func WithClearColor(color device.ClearColor) RendererBuilderOption {
	return func(r *renderer) {
		r.clearColor = color
	}
}

// WithShaderValidation compiles every shader with naga before building pipelines.
// Invalid WGSL then fails setup with shader.ErrInvalid.
//
// Parameters:
//   - validate: true to validate
//
// Returns:
//   - RendererBuilderOption: a function that applies the validation option to a renderer
func WithShaderValidation(validate bool) RendererBuilderOption {
	return func(r *renderer) {
		r.validateShaders = validate
	}
}
