package game

import (
	"github.com/Carmen-Shannon/oxy-arena/common"
	"github.com/Carmen-Shannon/oxy-arena/engine/camera"
	"github.com/Carmen-Shannon/oxy-arena/engine/controls"
	"github.com/Carmen-Shannon/oxy-arena/engine/graphics"
	"github.com/Carmen-Shannon/oxy-arena/engine/scene"
	"github.com/Carmen-Shannon/oxy-arena/engine/systems"
)

// TopCamera looks down on a target point from a fixed distance and pitch. Arrow
// keys pan the target across the ground, scrolling zooms and the world clamp
// keeps the target on the floor.
type TopCamera struct {
	scene.Base
	camera     camera.Camera
	controller camera.Controller
	graphics   *graphics.Camera
	speed      float32
	velocity   common.Vec3
}

var (
	_ controls.CameraReceiver = &TopCamera{}
	_ controls.Projector      = &TopCamera{}
	_ systems.Clampable       = &TopCamera{}
)

// NewTopCamera creates a camera framing target.
//
// Parameters:
//   - target: the initial ground point looked at
//   - distance: distance from the target
//   - fov: the widest field of view in radians
//   - speed: pan speed in units per second
//   - width, height: canvas size for the aspect ratio
//
// Returns:
//   - *TopCamera: the camera
func NewTopCamera(target common.Vec3, distance, fov, speed float32, width, height int) *TopCamera {
	c := &TopCamera{
		Base:  scene.NewBase(),
		speed: speed,
	}
	c.controller = camera.NewController(camera.WithTarget(target), camera.WithDistance(distance))
	c.camera = camera.NewCamera(camera.WithFov(fov), camera.WithController(c.controller))
	c.camera.Resize(width, height)
	c.syncTransform()
	c.graphics = graphics.NewCamera(c.camera.ViewProjection(), graphics.WithLabel("Top Camera"))
	c.AddGraphics(c.graphics)
	return c
}

// Camera returns the underlying projection.
func (c *TopCamera) Camera() camera.Camera {
	return c.camera
}

// ReceiveDirection sets the pan velocity from the held arrow keys.
func (c *TopCamera) ReceiveDirection(forward, right float32) {
	dir := c.controller.Forward().Scale(forward).Add(c.controller.Right().Scale(right))
	c.velocity = dir.Normalize().Scale(c.speed)
}

// Zoom scales the field of view by 1 + 0.1*amount within the camera's limits.
func (c *TopCamera) Zoom(amount float32) {
	c.camera.Zoom(amount)
}

func (c *TopCamera) Unproject(ndcX, ndcY float32) (origin, dir common.Vec3) {
	return c.camera.Unproject(ndcX, ndcY)
}

func (c *TopCamera) Update(dt float32) {
	if c.velocity != (common.Vec3{}) {
		c.controller.SetTarget(c.controller.Target().Add(c.velocity.Scale(dt)))
	}
	c.camera.Update()
	c.syncTransform()
}

// WorldPosition is the ground point the camera looks at.
func (c *TopCamera) WorldPosition() common.Vec3 {
	return c.controller.Target()
}

// ReturnToWorld moves the look-at point back onto the floor and reframes.
func (c *TopCamera) ReturnToWorld(p common.Vec3) {
	c.controller.SetTarget(p)
	c.camera.Update()
	c.syncTransform()
}

func (c *TopCamera) OnResize(width, height int) {
	c.camera.Resize(width, height)
}

func (c *TopCamera) AttachControls(ctl *controls.Controls) {
	ctl.AddCameraReceiver(c)
	ctl.SetProjector(c)
}

func (c *TopCamera) RegisterSystems(s *systems.Systems) {
	s.Clamp.Register(c)
}

func (c *TopCamera) Destroy(s *systems.Systems, ctl *controls.Controls) {
	ctl.RemoveCameraReceiver(c)
	ctl.SetProjector(nil)
	s.Clamp.Remove(c)
}

// syncTransform keeps the entity transform at the eye position.
func (c *TopCamera) syncTransform() {
	*c.Transform().Position() = c.controller.Position()
}
