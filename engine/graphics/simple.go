package graphics

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-arena/common"
	"github.com/Carmen-Shannon/oxy-arena/engine/device"
	"github.com/Carmen-Shannon/oxy-arena/engine/mesh"
)

// Simple draws a vertex-colored mesh from its own vertex buffer with a model matrix.
// Unlike the shared techniques it owns its vertex buffer and destroys it.
type Simple struct {
	base
	mesh         mesh.Mesh
	transform    *common.Transform
	vertexBuffer device.Buffer
	bindings     *bindingSet
}

var _ Component = &Simple{}

// NewSimple creates a simple component.
//
// Parameters:
//   - m: a mesh in mesh.LayoutColored
//   - transform: the entity's transform, read every frame
//   - options: common component options
//
// Returns:
//   - *Simple: the component
func NewSimple(m mesh.Mesh, transform *common.Transform, options ...Option) *Simple {
	return &Simple{
		base:      newBase(KindSimple, options),
		mesh:      m,
		transform: transform,
	}
}

// Mesh returns the mesh the component draws.
func (s *Simple) Mesh() mesh.Mesh {
	return s.mesh
}

func (s *Simple) Initialize(res Resources) error {
	if err := s.checkInit(); err != nil {
		return err
	}
	if s.mesh.Layout() != mesh.LayoutColored {
		return fmt.Errorf("%w: %s %q got %s mesh %q", ErrLayoutMismatch, s.kind, s.label, s.mesh.Layout(), s.mesh.Name())
	}

	data := s.mesh.VertexData()
	vb, err := res.Device.CreateBuffer(&device.BufferDescriptor{
		Label: "Vertex Buffer for " + s.label,
		Size:  uint64(len(data)),
		Usage: device.BufferUsageVertex | device.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("failed to create vertex buffer for %q: %w", s.label, err)
	}
	set, err := newBindingSet(res.Device, s.label, res.Layouts.Transform,
		uniform{binding: 0, size: MatrixSize, name: "Transform"})
	if err != nil {
		vb.Destroy()
		return err
	}
	res.Device.WriteBuffer(vb, 0, data)

	s.vertexBuffer = vb
	s.bindings = set
	s.state = StateReady
	return nil
}

func (s *Simple) AppendWrites(dst []BufferWrite) []BufferWrite {
	if !s.ready() {
		return dst
	}
	return append(dst, BufferWrite{Buffer: s.bindings.Buffer(0), Data: s.transform.Bytes()})
}

func (s *Simple) Draw(pass device.RenderPass) {
	if !s.ready() {
		return
	}
	pass.SetVertexBuffer(0, s.vertexBuffer)
	pass.SetBindGroup(1, s.bindings.BindGroup())
	pass.Draw(uint32(s.mesh.VertexCount()))
}

func (s *Simple) Destroy() {
	if !s.markDestroyed() {
		return
	}
	if s.vertexBuffer != nil {
		s.vertexBuffer.Destroy()
		s.vertexBuffer = nil
	}
	if s.bindings != nil {
		s.bindings.Release()
		s.bindings = nil
	}
	s.transform = nil
}
