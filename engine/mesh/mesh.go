package mesh

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-arena/common"
	"github.com/Carmen-Shannon/oxy-arena/engine/device"
	"github.com/cespare/xxhash/v2"
)

// ErrInvalidVertexData is returned when a vertex array is empty or not a whole
// number of vertices for its layout.
var ErrInvalidVertexData = errors.New("mesh: invalid vertex data")

// Layout identifies the interleaved vertex format of a mesh.
type Layout int

const (
	// LayoutColored is float4 position, float4 color, float2 uv.
	LayoutColored Layout = iota
	// LayoutNormal is float4 position, float4 normal, float2 uv.
	LayoutNormal
)

// FloatsPerVertex is the number of float32 values in one vertex of either layout.
const FloatsPerVertex = 10

// VertexStride is the byte size of one vertex of either layout.
const VertexStride = FloatsPerVertex * 4

// String returns the layout name.
func (l Layout) String() string {
	switch l {
	case LayoutColored:
		return "colored"
	case LayoutNormal:
		return "normal"
	default:
		return fmt.Sprintf("Layout(%d)", int(l))
	}
}

// VertexLayout returns the device vertex buffer layout for l.
// Location 0 is the position, 1 the color or normal, 2 the uv.
func (l Layout) VertexLayout() device.VertexLayout {
	return device.VertexLayout{
		Stride: VertexStride,
		Attributes: []device.VertexAttribute{
			{Location: 0, Offset: 0, Format: device.VertexFormatFloat32x4},
			{Location: 1, Offset: 16, Format: device.VertexFormatFloat32x4},
			{Location: 2, Offset: 32, Format: device.VertexFormatFloat32x2},
		},
	}
}

// mesh is the implementation of the Mesh interface.
type mesh struct {
	name           string
	key            uint64
	layout         Layout
	vertices       []float32
	vertexCount    int
	boundingRadius float32
}

// Mesh is immutable interleaved vertex data together with its identity.
// Meshes are shared freely between graphics components; GPU buffers for them are
// owned by a Cache, never by the components that draw them.
type Mesh interface {
	// Name returns the mesh identifier.
	//
	// Returns:
	//   - string: the mesh name
	Name() string

	// Key returns the xxhash of the name, layout and vertex data, used to key
	// shared GPU buffers. Meshes with equal content share a key.
	//
	// Returns:
	//   - uint64: the mesh key
	Key() uint64

	// Layout returns the vertex format of the mesh.
	//
	// Returns:
	//   - Layout: the vertex layout
	Layout() Layout

	// Vertices returns the flat vertex array. Callers must not modify it.
	//
	// Returns:
	//   - []float32: the interleaved vertex data
	Vertices() []float32

	// VertexData returns a byte view of the vertex array for buffer uploads.
	//
	// Returns:
	//   - []byte: the vertex data
	VertexData() []byte

	// VertexCount returns the number of vertices to draw.
	//
	// Returns:
	//   - int: the vertex count
	VertexCount() int

	// BoundingRadius returns the largest vertex distance from the mesh origin.
	//
	// Returns:
	//   - float32: the bounding radius
	BoundingRadius() float32
}

var _ Mesh = &mesh{}

// NewMesh creates a Mesh from the given options. The vertex array is validated
// against the layout stride.
//
// Parameters:
//   - options: a variadic list of MeshBuilderOption functions to configure the Mesh
//
// Returns:
//   - Mesh: the new mesh
//   - error: ErrInvalidVertexData if the vertex array is empty or ragged
func NewMesh(options ...MeshBuilderOption) (Mesh, error) {
	m := &mesh{}
	for _, opt := range options {
		opt(m)
	}
	if len(m.vertices) == 0 || len(m.vertices)%FloatsPerVertex != 0 {
		return nil, fmt.Errorf("%w: %q has %d floats, want a non-zero multiple of %d",
			ErrInvalidVertexData, m.name, len(m.vertices), FloatsPerVertex)
	}
	m.key = KeyOf(m.name, m.layout, m.vertices)
	m.vertexCount = len(m.vertices) / FloatsPerVertex
	m.boundingRadius = boundingRadius(m.vertices)
	return m, nil
}

// MustMesh is NewMesh for built-in data that is known to be valid.
func MustMesh(options ...MeshBuilderOption) Mesh {
	m, err := NewMesh(options...)
	if err != nil {
		panic(err)
	}
	return m
}

// KeyOf returns the cache key for a mesh with the given content.
func KeyOf(name string, layout Layout, vertices []float32) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(name)
	_, _ = d.Write([]byte{0, byte(layout)})
	_, _ = d.Write(common.SliceToBytes(vertices))
	return d.Sum64()
}

// sameContent reports whether a and b hold the same name, layout and vertices.
func sameContent(a, b Mesh) bool {
	if a == b {
		return true
	}
	return a.Name() == b.Name() &&
		a.Layout() == b.Layout() &&
		bytes.Equal(a.VertexData(), b.VertexData())
}

func (m *mesh) Name() string {
	return m.name
}

func (m *mesh) Key() uint64 {
	return m.key
}

func (m *mesh) Layout() Layout {
	return m.layout
}

func (m *mesh) Vertices() []float32 {
	return m.vertices
}

func (m *mesh) VertexData() []byte {
	return common.SliceToBytes(m.vertices)
}

func (m *mesh) VertexCount() int {
	return m.vertexCount
}

func (m *mesh) BoundingRadius() float32 {
	return m.boundingRadius
}

func boundingRadius(vertices []float32) float32 {
	var maxSq float32
	for i := 0; i+2 < len(vertices); i += FloatsPerVertex {
		p := common.Vec3{vertices[i], vertices[i+1], vertices[i+2]}
		if d := p.LengthSq(); d > maxSq {
			maxSq = d
		}
	}
	return float32(math.Sqrt(float64(maxSq)))
}
