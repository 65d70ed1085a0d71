package camera

import (
	"math"

	"github.com/Carmen-Shannon/oxy-arena/common"
)

// Default framing of the top-down controller.
const (
	DefaultDistance = 50.0
	DefaultYaw      = math.Pi / 4
	DefaultPitch    = -1.0
)

// Controller defines the interface for a top-down camera rig. The rig looks at a
// target point on the ground from a fixed yaw, pitch and distance; panning moves
// the target across the ground plane and drags the eye with it.
type Controller interface {
	// Position returns the eye position: target + back * distance.
	//
	// Returns:
	//   - common.Vec3: world-space eye position
	Position() common.Vec3

	// Target returns the look-at point.
	//
	// Returns:
	//   - common.Vec3: world-space target position
	Target() common.Vec3

	// SetTarget moves the look-at point and the eye with it.
	//
	// Parameters:
	//   - p: world-space target position
	SetTarget(p common.Vec3)

	// Distance returns the eye's distance from the target.
	//
	// Returns:
	//   - float32: distance in world units
	Distance() float32

	// Back returns the unit vector from the target toward the eye.
	//
	// Returns:
	//   - common.Vec3: the back direction
	Back() common.Vec3

	// Forward returns the horizontal unit vector the camera faces on the ground plane.
	//
	// Returns:
	//   - common.Vec3: the planar forward direction
	Forward() common.Vec3

	// Right returns the horizontal unit vector to the camera's right on the ground plane.
	//
	// Returns:
	//   - common.Vec3: the planar right direction
	Right() common.Vec3

	// Pan translates the target along the planar forward and right axes.
	//
	// Parameters:
	//   - forward: distance along Forward
	//   - right: distance along Right
	Pan(forward, right float32)
}

type controllerImpl struct {
	target   common.Vec3
	distance float32
	yaw      float32
	pitch    float32
}

var _ Controller = &controllerImpl{}

// NewController creates a top-down Controller looking at the origin.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - Controller: the newly created controller
func NewController(options ...ControllerBuilderOption) Controller {
	c := &controllerImpl{
		distance: DefaultDistance,
		yaw:      DefaultYaw,
		pitch:    DefaultPitch,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *controllerImpl) Position() common.Vec3 {
	return c.target.Add(c.Back().Scale(c.distance))
}

func (c *controllerImpl) Target() common.Vec3 {
	return c.target
}

func (c *controllerImpl) SetTarget(p common.Vec3) {
	c.target = p
}

func (c *controllerImpl) Distance() float32 {
	return c.distance
}

func (c *controllerImpl) Back() common.Vec3 {
	sy, cy := sincos(c.yaw)
	sp, cp := sincos(c.pitch)
	return common.Vec3{cp * sy, -sp, cp * cy}
}

func (c *controllerImpl) Forward() common.Vec3 {
	sy, cy := sincos(c.yaw)
	return common.Vec3{-sy, 0, -cy}
}

func (c *controllerImpl) Right() common.Vec3 {
	sy, cy := sincos(c.yaw)
	return common.Vec3{cy, 0, -sy}
}

func (c *controllerImpl) Pan(forward, right float32) {
	c.target = c.target.Add(c.Forward().Scale(forward)).Add(c.Right().Scale(right))
}

func sincos(a float32) (float32, float32) {
	s, co := math.Sincos(float64(a))
	return float32(s), float32(co)
}
