package controls

import "go.uber.org/zap"

// ControlsBuilderOption is a functional option for NewControls.
type ControlsBuilderOption func(*Controls)

// WithLogger sets the logger for stale receiver warnings.
//
// Parameters:
//   - logger: the zap logger
//
// Returns:
//   - ControlsBuilderOption: a function that applies the logger option
func WithLogger(logger *zap.Logger) ControlsBuilderOption {
	return func(c *Controls) {
		if logger != nil {
			c.logger = logger
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
//   - ControlsBuilderOption: a function that applies the viewport option
func WithViewport(width, height int) ControlsBuilderOption {
	return func(c *Controls) {
		c.width, c.height = width, height
	}
}
