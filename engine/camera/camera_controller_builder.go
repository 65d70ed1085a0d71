package camera

import "github.com/Carmen-Shannon/oxy-arena/common"

// ControllerBuilderOption is a functional option for configuring a Controller.
type ControllerBuilderOption func(*controllerImpl)

// WithDistance sets the eye's distance from the target.
//
// Parameters:
//   - distance: distance in world units
//
// Returns:
//   - ControllerBuilderOption: functional option to set the distance
func WithDistance(distance float32) ControllerBuilderOption {
	return func(c *controllerImpl) {
		c.distance = distance
	}
}

// WithYaw sets the rotation around the Y axis.
//
// Parameters:
//   - yaw: angle in radians (0 = eye on +Z)
//
// Returns:
//   - ControllerBuilderOption: functional option to set the yaw
func WithYaw(yaw float32) ControllerBuilderOption {
	return func(c *controllerImpl) {
		c.yaw = yaw
	}
}

// WithPitch sets the tilt around the camera's X axis. Negative values look down.
//
// Parameters:
//   - pitch: angle in radians
//
// Returns:
//   - ControllerBuilderOption: functional option to set the pitch
func WithPitch(pitch float32) ControllerBuilderOption {
	return func(c *controllerImpl) {
		c.pitch = pitch
	}
}

// WithTarget sets the initial look-at point.
//
// Parameters:
//   - p: world-space target position
//
// Returns:
//   - ControllerBuilderOption: functional option to set the target position
func WithTarget(p common.Vec3) ControllerBuilderOption {
	return func(c *controllerImpl) {
		c.target = p
	}
}
