package graphics

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-arena/common"
	"github.com/Carmen-Shannon/oxy-arena/engine/device"
	"github.com/Carmen-Shannon/oxy-arena/engine/mesh"
)

// tinted is the shared implementation of the techniques that draw a cached mesh
// with a model matrix and a color: decal, shaded-normal and decorated-shading.
// The vertex buffer is borrowed from the mesh cache and never destroyed here.
type tinted struct {
	base
	mesh       mesh.Mesh
	layout     mesh.Layout
	transform  *common.Transform
	color      *common.Color
	meshBuffer device.Buffer
	bindings   *bindingSet
}

func newTinted(kind Kind, layout mesh.Layout, m mesh.Mesh, transform *common.Transform, color *common.Color, options []Option) tinted {
	return tinted{
		base:      newBase(kind, options),
		mesh:      m,
		layout:    layout,
		transform: transform,
		color:     color,
	}
}

// Mesh returns the mesh the component draws.
func (t *tinted) Mesh() mesh.Mesh {
	return t.mesh
}

func (t *tinted) Initialize(res Resources) error {
	if err := t.checkInit(); err != nil {
		return err
	}
	if t.mesh.Layout() != t.layout {
		return fmt.Errorf("%w: %s %q got %s mesh %q", ErrLayoutMismatch, t.kind, t.label, t.mesh.Layout(), t.mesh.Name())
	}
	buf, err := res.Meshes.Buffer(t.mesh)
	if err != nil {
		return err
	}
	set, err := newBindingSet(res.Device, t.label, res.Layouts.TransformColor,
		uniform{binding: 0, size: MatrixSize, name: "Transform"},
		uniform{binding: 1, size: ColorSize, name: "Color"})
	if err != nil {
		return err
	}
	t.meshBuffer = buf
	t.bindings = set
	t.state = StateReady
	return nil
}

func (t *tinted) AppendWrites(dst []BufferWrite) []BufferWrite {
	if !t.ready() {
		return dst
	}
	return append(dst,
		BufferWrite{Buffer: t.bindings.Buffer(0), Data: t.transform.Bytes()},
		BufferWrite{Buffer: t.bindings.Buffer(1), Data: common.StructToBytes(t.color)},
	)
}

func (t *tinted) Draw(pass device.RenderPass) {
	if !t.ready() {
		return
	}
	pass.SetVertexBuffer(0, t.meshBuffer)
	pass.SetBindGroup(1, t.bindings.BindGroup())
	pass.Draw(uint32(t.mesh.VertexCount()))
}

func (t *tinted) Destroy() {
	if !t.markDestroyed() {
		return
	}
	if t.bindings != nil {
		t.bindings.Release()
		t.bindings = nil
	}
	t.meshBuffer = nil
	t.transform = nil
	t.color = nil
}

// Decal draws a flat colored quad on the ground, such as a click target or a
// pickup marker.
type Decal struct{ tinted }

// NewDecal creates a decal component.
//
// Parameters:
//   - m: a mesh in mesh.LayoutColored, usually mesh.NameDecalQuad
//   - transform: the entity's transform
//   - color: the entity's color
//   - options: common component options
//
// Returns:
//   - *Decal: the component
func NewDecal(m mesh.Mesh, transform *common.Transform, color *common.Color, options ...Option) *Decal {
	return &Decal{newTinted(KindDecal, mesh.LayoutColored, m, transform, color, options)}
}

// ShadedNormal draws a mesh with normals lit by the active point light.
type ShadedNormal struct{ tinted }

// NewShadedNormal creates a shaded-normal component.
//
// Parameters:
//   - m: a mesh in mesh.LayoutNormal
//   - transform: the entity's transform
//   - color: the entity's base color
//   - options: common component options
//
// Returns:
//   - *ShadedNormal: the component
func NewShadedNormal(m mesh.Mesh, transform *common.Transform, color *common.Color, options ...Option) *ShadedNormal {
	return &ShadedNormal{newTinted(KindShadedNormal, mesh.LayoutNormal, m, transform, color, options)}
}

// DecoratedShading draws a vertex-colored mesh in a single blended color,
// used for fireballs.
type DecoratedShading struct{ tinted }

// NewDecoratedShading creates a decorated-shading component.
//
// Parameters:
//   - m: a mesh in mesh.LayoutColored, usually mesh.NameBall
//   - transform: the entity's transform
//   - color: the entity's color, alpha included
//   - options: common component options
//
// Returns:
//   - *DecoratedShading: the component
func NewDecoratedShading(m mesh.Mesh, transform *common.Transform, color *common.Color, options ...Option) *DecoratedShading {
	return &DecoratedShading{newTinted(KindDecoratedShading, mesh.LayoutColored, m, transform, color, options)}
}

var (
	_ Component = &Decal{}
	_ Component = &ShadedNormal{}
	_ Component = &DecoratedShading{}
)
