// Package device abstracts the GPU device the renderer and graphics components
// talk to. The wgpu implementation lives in wgpu_device.go; tests use devicetest.
package device

import "context"

// BufferUsage is a bit set describing how a buffer will be bound.
type BufferUsage uint32

const (
	BufferUsageVertex BufferUsage = 1 << iota
	BufferUsageUniform
	BufferUsageCopyDst
)

// ShaderStage is a bit set of shader stages a binding is visible to.
type ShaderStage uint32

const (
	ShaderStageVertex ShaderStage = 1 << iota
	ShaderStageFragment
)

// VertexFormat is the per-attribute format of a vertex buffer element.
type VertexFormat int

const (
	VertexFormatFloat32x2 VertexFormat = iota
	VertexFormatFloat32x3
	VertexFormatFloat32x4
)

// BlendMode selects the color target blend state of a pipeline.
type BlendMode int

const (
	BlendOpaque BlendMode = iota
	BlendAlpha
	BlendAdditive
)

// Buffer is a device buffer handle. Destroy releases the device memory.
type Buffer interface {
	Label() string
	Size() uint64
	Destroy()
}

// Texture is a device texture handle.
type Texture interface {
	Label() string
	Width() int
	Height() int
	Destroy()
}

// BindGroupLayout describes the shape of a BindGroup.
type BindGroupLayout interface {
	Label() string
}

// BindGroup is a set of resources bound together for a draw call.
type BindGroup interface {
	Label() string
	Destroy()
}

// RenderPipeline is a compiled render pipeline.
type RenderPipeline interface {
	Label() string
}

// BufferDescriptor describes a buffer to create.
type BufferDescriptor struct {
	Label string
	Size  uint64
	Usage BufferUsage
}

// BindGroupLayoutEntry describes one uniform buffer binding.
type BindGroupLayoutEntry struct {
	Binding        uint32
	Visibility     ShaderStage
	MinBindingSize uint64
}

// BindGroupLayoutDescriptor describes a bind group layout to create.
type BindGroupLayoutDescriptor struct {
	Label   string
	Entries []BindGroupLayoutEntry
}

// BindGroupEntry binds a whole buffer at a binding index.
type BindGroupEntry struct {
	Binding uint32
	Buffer  Buffer
}

// BindGroupDescriptor describes a bind group to create.
type BindGroupDescriptor struct {
	Label   string
	Layout  BindGroupLayout
	Entries []BindGroupEntry
}

// VertexAttribute is one attribute inside an interleaved vertex.
type VertexAttribute struct {
	Location uint32
	Offset   uint64
	Format   VertexFormat
}

// VertexLayout describes an interleaved vertex buffer.
type VertexLayout struct {
	Stride     uint64
	Attributes []VertexAttribute
}

// RenderPipelineDescriptor describes a render pipeline built from one WGSL module
// holding both the vertex and fragment entry points.
type RenderPipelineDescriptor struct {
	Label            string
	Source           string
	VertexEntry      string
	FragmentEntry    string
	VertexLayout     VertexLayout
	BindGroupLayouts []BindGroupLayout
	Blend            BlendMode
	DepthWrite       bool
	CullBack         bool
}

// ClearColor is the color the render pass clears the surface to.
type ClearColor struct {
	R, G, B, A float64
}

// RenderPass records draw commands for one frame.
type RenderPass interface {
	SetPipeline(p RenderPipeline)
	SetBindGroup(index uint32, bg BindGroup)
	SetVertexBuffer(slot uint32, buf Buffer)
	Draw(vertexCount uint32)
}

// Device is the subset of a WebGPU device the engine needs.
// All calls are made from the frame thread; the device only enqueues the work.
type Device interface {
	// CreateBuffer allocates a buffer.
	CreateBuffer(desc *BufferDescriptor) (Buffer, error)

	// CreateBindGroupLayout creates a layout of uniform buffer bindings.
	CreateBindGroupLayout(desc *BindGroupLayoutDescriptor) (BindGroupLayout, error)

	// CreateBindGroup binds buffers against a layout.
	CreateBindGroup(desc *BindGroupDescriptor) (BindGroup, error)

	// CreateRenderPipeline compiles a pipeline targeting the configured surface.
	CreateRenderPipeline(desc *RenderPipelineDescriptor) (RenderPipeline, error)

	// CreateDepthTexture allocates a depth attachment of the given size.
	CreateDepthTexture(width, height int) (Texture, error)

	// WriteBuffer enqueues a copy of data into buf at offset.
	WriteBuffer(buf Buffer, offset uint64, data []byte)

	// ConfigureSurface (re)configures the presentation surface size.
	ConfigureSurface(width, height int) error

	// BeginRenderPass acquires the next surface image and opens a pass that
	// clears it and the depth attachment.
	BeginRenderPass(depth Texture, clear ClearColor) (RenderPass, error)

	// Submit ends the pass, submits its single command buffer and presents.
	Submit(pass RenderPass) error

	// Release frees the device and everything it owns.
	Release()
}

// Acquirer obtains a Device. Renderers call it from a goroutine so slow adapter
// negotiation does not hold up window creation.
type Acquirer func(ctx context.Context) (Device, error)
