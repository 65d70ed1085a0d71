package camera

import "github.com/Carmen-Shannon/oxy-arena/common"

// Default perspective settings.
const (
	DefaultFov  = 1.0
	DefaultNear = 1.0
	DefaultFar  = 100.0
	// MinFovDivisor bounds zoom: the field of view never drops below MaxFov / MinFovDivisor.
	MinFovDivisor = 20
)

type cameraImpl struct {
	up common.Vec3

	fov    float32
	maxFov float32
	aspect float32
	near   float32
	far    float32

	viewMatrix            [16]float32
	projectionMatrix      [16]float32
	viewProjectionMatrix  [16]float32
	inverseViewProjection [16]float32

	controller Controller
}

// Camera defines the interface for the camera system.
// The camera holds perspective settings and computes view/projection matrices
// from an attached Controller each time Update is called.
//
// Camera is not safe for concurrent use; it lives on the frame thread.
type Camera interface {
	// Fov returns the current field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// MaxFov returns the widest field of view zoom allows.
	//
	// Returns:
	//   - float32: maximum field of view in radians
	MaxFov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// ViewMatrix returns the current 4x4 view matrix (column-major).
	//
	// Returns:
	//   - [16]float32: the view matrix
	ViewMatrix() [16]float32

	// ProjectionMatrix returns the current 4x4 projection matrix (column-major).
	//
	// Returns:
	//   - [16]float32: the projection matrix
	ProjectionMatrix() [16]float32

	// ViewProjection returns a pointer to the combined view-projection matrix.
	// The pointer is stable for the camera's lifetime and is what the camera
	// graphics component uploads every frame.
	//
	// Returns:
	//   - *[16]float32: the view-projection matrix
	ViewProjection() *[16]float32

	// Controller returns the attached Controller, or nil.
	//
	// Returns:
	//   - Controller: the attached controller or nil
	Controller() Controller

	// SetController attaches a Controller and recomputes matrices.
	//
	// Parameters:
	//   - ctrl: the controller to attach
	SetController(ctrl Controller)

	// SetFov sets the field of view in radians, clamped to the zoom range.
	//
	// Parameters:
	//   - fov: field of view in radians
	SetFov(fov float32)

	// Zoom scales the field of view by 1 + 0.1*amount, clamped to
	// [MaxFov/MinFovDivisor, MaxFov]. Positive amounts zoom out.
	//
	// Parameters:
	//   - amount: scroll amount
	Zoom(amount float32)

	// Resize updates the aspect ratio from a canvas size. Zero sizes are ignored.
	//
	// Parameters:
	//   - width: canvas width in pixels
	//   - height: canvas height in pixels
	Resize(width, height int)

	// Update reads position and target from the controller and recomputes the
	// matrices. Without a controller only the projection is recomputed.
	Update()

	// Unproject returns the world-space ray through a point in normalized device
	// coordinates, starting on the near plane.
	//
	// Parameters:
	//   - ndcX: x in [-1, 1], left to right
	//   - ndcY: y in [-1, 1], bottom to top
	//
	// Returns:
	//   - origin: the ray origin on the near plane
	//   - dir: the normalized ray direction
	Unproject(ndcX, ndcY float32) (origin, dir common.Vec3)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera with default perspective settings.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		up:     common.Vec3{0, 1, 0},
		fov:    DefaultFov,
		aspect: 1.0,
		near:   DefaultNear,
		far:    DefaultFar,
	}
	for _, option := range options {
		option(c)
	}
	if c.maxFov == 0 {
		c.maxFov = c.fov
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Fov() float32    { return c.fov }
func (c *cameraImpl) MaxFov() float32 { return c.maxFov }
func (c *cameraImpl) Aspect() float32 { return c.aspect }
func (c *cameraImpl) Near() float32   { return c.near }
func (c *cameraImpl) Far() float32    { return c.far }

func (c *cameraImpl) ViewMatrix() [16]float32 {
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() [16]float32 {
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjection() *[16]float32 {
	return &c.viewProjectionMatrix
}

func (c *cameraImpl) Controller() Controller {
	return c.controller
}

func (c *cameraImpl) SetController(ctrl Controller) {
	c.controller = ctrl
	c.updateMatrices()
}

func (c *cameraImpl) SetFov(fov float32) {
	c.fov = common.Clamp(fov, c.maxFov/MinFovDivisor, c.maxFov)
	c.updateMatrices()
}

func (c *cameraImpl) Zoom(amount float32) {
	c.SetFov(c.fov * (1 + 0.1*amount))
}

func (c *cameraImpl) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.aspect = float32(width) / float32(height)
	c.updateMatrices()
}

func (c *cameraImpl) Update() {
	c.updateMatrices()
}

func (c *cameraImpl) Unproject(ndcX, ndcY float32) (origin, dir common.Vec3) {
	origin = common.MulPoint(&c.inverseViewProjection, common.Vec3{ndcX, ndcY, 0})
	far := common.MulPoint(&c.inverseViewProjection, common.Vec3{ndcX, ndcY, 1})
	return origin, far.Sub(origin).Normalize()
}

// updateMatrices recalculates the view, projection, view-projection and inverse
// view-projection matrices. The view is left alone when there is no controller.
func (c *cameraImpl) updateMatrices() {
	if c.controller != nil {
		c.viewMatrix = common.LookAt(c.controller.Position(), c.controller.Target(), c.up)
	} else if c.viewMatrix == ([16]float32{}) {
		c.viewMatrix = common.IdentityMatrix()
	}
	c.projectionMatrix = common.Perspective(c.fov, c.aspect, c.near, c.far)
	c.viewProjectionMatrix = common.Mul4(&c.projectionMatrix, &c.viewMatrix)
	common.Invert4(&c.inverseViewProjection, &c.viewProjectionMatrix)
}
