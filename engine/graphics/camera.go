package graphics

import (
	"github.com/Carmen-Shannon/oxy-arena/common"
	"github.com/Carmen-Shannon/oxy-arena/engine/device"
)

// Camera uploads a view-projection matrix owned by a camera entity.
type Camera struct {
	base
	viewProjection *[16]float32
	bindings       *bindingSet
}

var (
	_ Component = &Camera{}
	_ Binder    = &Camera{}
)

// NewCamera creates a camera component reading viewProjection every frame.
//
// Parameters:
//   - viewProjection: the matrix owned by the camera entity
//   - options: common component options
//
// Returns:
//   - *Camera: the component
func NewCamera(viewProjection *[16]float32, options ...Option) *Camera {
	return &Camera{
		base:           newBase(KindCamera, options),
		viewProjection: viewProjection,
	}
}

func (c *Camera) Initialize(res Resources) error {
	if err := c.checkInit(); err != nil {
		return err
	}
	set, err := newBindingSet(res.Device, c.label, res.Layouts.Camera,
		uniform{binding: 0, size: MatrixSize, name: "View Projection"})
	if err != nil {
		return err
	}
	c.bindings = set
	c.state = StateReady
	return nil
}

func (c *Camera) AppendWrites(dst []BufferWrite) []BufferWrite {
	if !c.ready() {
		return dst
	}
	return append(dst, BufferWrite{Buffer: c.bindings.Buffer(0), Data: common.StructToBytes(c.viewProjection)})
}

// Draw does nothing; the camera is bound, not drawn.
func (c *Camera) Draw(device.RenderPass) {}

func (c *Camera) Bind(pass device.RenderPass, group uint32) {
	if !c.ready() {
		return
	}
	pass.SetBindGroup(group, c.bindings.BindGroup())
}

func (c *Camera) Destroy() {
	if !c.markDestroyed() {
		return
	}
	if c.bindings != nil {
		c.bindings.Release()
		c.bindings = nil
	}
	c.viewProjection = nil
}
