package graphics

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-arena/engine/device"
	"github.com/Carmen-Shannon/oxy-arena/engine/light"
	"github.com/Carmen-Shannon/oxy-arena/engine/mesh"
)

// PointLight uploads a point light owned by an entity and draws a small gizmo
// ball at its position. Its bind group is also bound by the shaded-normal pass.
type PointLight struct {
	base
	light      *light.PointLight
	mesh       mesh.Mesh
	meshBuffer device.Buffer
	bindings   *bindingSet
	staging    [light.GPUPointLightSize]byte
}

var (
	_ Component = &PointLight{}
	_ Binder    = &PointLight{}
)

// NewPointLight creates a point light component.
//
// Parameters:
//   - l: the light, read every frame
//   - gizmo: a mesh in mesh.LayoutColored drawn at the light, usually mesh.NameBall
//   - options: common component options
//
// Returns:
//   - *PointLight: the component
func NewPointLight(l *light.PointLight, gizmo mesh.Mesh, options ...Option) *PointLight {
	return &PointLight{
		base:  newBase(KindPointLight, options),
		light: l,
		mesh:  gizmo,
	}
}

// Light returns the light the component uploads.
func (p *PointLight) Light() *light.PointLight {
	return p.light
}

func (p *PointLight) Initialize(res Resources) error {
	if err := p.checkInit(); err != nil {
		return err
	}
	if p.mesh.Layout() != mesh.LayoutColored {
		return fmt.Errorf("%w: %s %q got %s mesh %q", ErrLayoutMismatch, p.kind, p.label, p.mesh.Layout(), p.mesh.Name())
	}
	buf, err := res.Meshes.Buffer(p.mesh)
	if err != nil {
		return err
	}
	set, err := newBindingSet(res.Device, p.label, res.Layouts.PointLight,
		uniform{binding: 0, size: LightSize, name: "Point Light"})
	if err != nil {
		return err
	}
	p.meshBuffer = buf
	p.bindings = set
	p.state = StateReady
	return nil
}

func (p *PointLight) AppendWrites(dst []BufferWrite) []BufferWrite {
	if !p.ready() {
		return dst
	}
	g := p.light.GPU()
	return append(dst, BufferWrite{Buffer: p.bindings.Buffer(0), Data: g.MarshalTo(p.staging[:])})
}

func (p *PointLight) Draw(pass device.RenderPass) {
	if !p.ready() {
		return
	}
	pass.SetVertexBuffer(0, p.meshBuffer)
	p.Bind(pass, 1)
	pass.Draw(uint32(p.mesh.VertexCount()))
}

func (p *PointLight) Bind(pass device.RenderPass, group uint32) {
	if !p.ready() {
		return
	}
	pass.SetBindGroup(group, p.bindings.BindGroup())
}

func (p *PointLight) Destroy() {
	if !p.markDestroyed() {
		return
	}
	if p.bindings != nil {
		p.bindings.Release()
		p.bindings = nil
	}
	p.meshBuffer = nil
	p.light = nil
}
