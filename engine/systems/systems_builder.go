package systems

import "go.uber.org/zap"

type systemsConfig struct {
	logger   *zap.Logger
	boundary Bounds
	clamp    Bounds
}

// SystemsBuilderOption is a functional option for NewSystems.
type SystemsBuilderOption func(*systemsConfig)

// WithLogger sets the logger for stale registration warnings.
//
// Parameters:
//   - logger: the zap logger
//
// Returns:
//   - SystemsBuilderOption: a function that applies the logger option
func WithLogger(logger *zap.Logger) SystemsBuilderOption {
	return func(c *systemsConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithBoundary sets the region the boundary checker tests against.
//
// Parameters:
//   - b: the region
//
// Returns:
//   - SystemsBuilderOption: a function that applies the boundary option
func WithBoundary(b Bounds) SystemsBuilderOption {
	return func(c *systemsConfig) {
		c.boundary = b
	}
}

// WithClamp sets the region entities are clamped onto.
//
// Parameters:
//   - b: the region
//
// Returns:
//   - SystemsBuilderOption: a function that applies the clamp option
func WithClamp(b Bounds) SystemsBuilderOption {
	return func(c *systemsConfig) {
		c.clamp = b
	}
}
