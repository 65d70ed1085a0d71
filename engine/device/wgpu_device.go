package device

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
)

// PresentMode controls how frames are delivered to the display.
type PresentMode int

const (
	// PresentModeVSync waits for vertical blank (Fifo).
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents as soon as a frame is ready (Immediate).
	PresentModeUncapped
)

// WGPUOption is a functional option for the wgpu backed Device.
type WGPUOption func(d *wgpuDevice)

// WithPresentMode sets the surface present mode.
//
// Parameters:
//   - mode: the PresentMode to use
//
// Returns:
//   - WGPUOption: option function to apply
func WithPresentMode(mode PresentMode) WGPUOption {
	return func(d *wgpuDevice) {
		switch mode {
		case PresentModeVSync:
			d.presentMode = wgpu.PresentModeFifo
		default:
			d.presentMode = wgpu.PresentModeImmediate
		}
	}
}

// WithForceFallbackAdapter requests the software adapter.
//
// Parameters:
//   - force: true to force the fallback adapter
//
// Returns:
//   - WGPUOption: option function to apply
func WithForceFallbackAdapter(force bool) WGPUOption {
	return func(d *wgpuDevice) {
		d.forceFallback = force
	}
}

type wgpuDevice struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface
	device   *wgpu.Device
	queue    *wgpu.Queue

	surfaceFormat wgpu.TextureFormat
	presentMode   wgpu.PresentMode
	forceFallback bool
}

var _ Device = &wgpuDevice{}

// NewWGPUAcquirer returns an Acquirer that negotiates an adapter and device for
// the surface described by surfaceDescriptor.
//
// Parameters:
//   - surfaceDescriptor: platform surface descriptor, usually from window.Window
//   - options: functional options (present mode, fallback adapter)
//
// Returns:
//   - Acquirer: the acquisition function
func NewWGPUAcquirer(surfaceDescriptor *wgpu.SurfaceDescriptor, options ...WGPUOption) Acquirer {
	return func(ctx context.Context) (Device, error) {
		if surfaceDescriptor == nil {
			return nil, errors.New("device: nil surface descriptor")
		}
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		d := &wgpuDevice{
			instance:    wgpu.CreateInstance(nil),
			presentMode: wgpu.PresentModeFifo,
		}
		for _, opt := range options {
			opt(d)
		}
		d.surface = d.instance.CreateSurface(surfaceDescriptor)

		a, err := d.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
			ForceFallbackAdapter: d.forceFallback,
			CompatibleSurface:    d.surface,
		})
		if err != nil {
			d.Release()
			return nil, fmt.Errorf("device: request adapter: %w", err)
		}
		d.adapter = a

		if err := ctx.Err(); err != nil {
			d.Release()
			return nil, err
		}

		dev, err := a.RequestDevice(&wgpu.DeviceDescriptor{
			Label: "Arena Device",
			RequiredLimits: &wgpu.RequiredLimits{
				Limits: wgpu.DefaultLimits(),
			},
		})
		if err != nil {
			d.Release()
			return nil, fmt.Errorf("device: request device: %w", err)
		}
		d.device = dev
		d.queue = dev.GetQueue()

		capabilities := d.surface.GetCapabilities(d.adapter)
		if len(capabilities.Formats) == 0 || len(capabilities.AlphaModes) == 0 {
			d.Release()
			return nil, errors.New("device: surface reports no formats")
		}
		d.surfaceFormat = capabilities.Formats[0]

		return d, nil
	}
}

func (d *wgpuDevice) CreateBuffer(desc *BufferDescriptor) (Buffer, error) {
	buf, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: desc.Label,
		Size:  desc.Size,
		Usage: toWGPUBufferUsage(desc.Usage),
	})
	if err != nil {
		return nil, fmt.Errorf("device: create buffer %q: %w", desc.Label, err)
	}
	return &wgpuBuffer{label: desc.Label, size: desc.Size, buf: buf}, nil
}

func (d *wgpuDevice) CreateBindGroupLayout(desc *BindGroupLayoutDescriptor) (BindGroupLayout, error) {
	entries := make([]wgpu.BindGroupLayoutEntry, len(desc.Entries))
	for i, e := range desc.Entries {
		entries[i] = wgpu.BindGroupLayoutEntry{
			Binding:    e.Binding,
			Visibility: toWGPUShaderStage(e.Visibility),
		}
		entries[i].Buffer.Type = wgpu.BufferBindingTypeUniform
		entries[i].Buffer.MinBindingSize = e.MinBindingSize
	}
	layout, err := d.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   desc.Label,
		Entries: entries,
	})
	if err != nil {
		return nil, fmt.Errorf("device: create bind group layout %q: %w", desc.Label, err)
	}
	return &wgpuBindGroupLayout{label: desc.Label, layout: layout}, nil
}

func (d *wgpuDevice) CreateBindGroup(desc *BindGroupDescriptor) (BindGroup, error) {
	layout, ok := desc.Layout.(*wgpuBindGroupLayout)
	if !ok || layout == nil {
		return nil, fmt.Errorf("device: bind group %q has a foreign layout", desc.Label)
	}
	entries := make([]wgpu.BindGroupEntry, len(desc.Entries))
	for i, e := range desc.Entries {
		buf, ok := e.Buffer.(*wgpuBuffer)
		if !ok || buf == nil || buf.buf == nil {
			return nil, fmt.Errorf("device: bind group %q binding %d has no live buffer", desc.Label, e.Binding)
		}
		entries[i] = wgpu.BindGroupEntry{
			Binding: e.Binding,
			Buffer:  buf.buf,
			Offset:  0,
			Size:    wgpu.WholeSize,
		}
	}
	bg, err := d.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   desc.Label,
		Layout:  layout.layout,
		Entries: entries,
	})
	if err != nil {
		return nil, fmt.Errorf("device: create bind group %q: %w", desc.Label, err)
	}
	return &wgpuBindGroup{label: desc.Label, bg: bg}, nil
}

func (d *wgpuDevice) CreateRenderPipeline(desc *RenderPipelineDescriptor) (RenderPipeline, error) {
	module, err := d.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: desc.Label,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: desc.Source,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("device: shader module %q: %w", desc.Label, err)
	}
	defer module.Release()

	layouts := make([]*wgpu.BindGroupLayout, len(desc.BindGroupLayouts))
	for i, l := range desc.BindGroupLayouts {
		wl, ok := l.(*wgpuBindGroupLayout)
		if !ok || wl == nil {
			return nil, fmt.Errorf("device: pipeline %q group %d has a foreign layout", desc.Label, i)
		}
		layouts[i] = wl.layout
	}
	pipelineLayout, err := d.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            desc.Label,
		BindGroupLayouts: layouts,
	})
	if err != nil {
		return nil, fmt.Errorf("device: pipeline layout %q: %w", desc.Label, err)
	}
	defer pipelineLayout.Release()

	attrs := make([]wgpu.VertexAttribute, len(desc.VertexLayout.Attributes))
	for i, a := range desc.VertexLayout.Attributes {
		attrs[i] = wgpu.VertexAttribute{
			Format:         toWGPUVertexFormat(a.Format),
			Offset:         a.Offset,
			ShaderLocation: a.Location,
		}
	}

	target := wgpu.ColorTargetState{
		Format:    d.surfaceFormat,
		WriteMask: wgpu.ColorWriteMaskAll,
	}
	target.Blend = toWGPUBlendState(desc.Blend)

	cull := wgpu.CullModeNone
	if desc.CullBack {
		cull = wgpu.CullModeBack
	}

	created, err := d.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  desc.Label + " Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: desc.VertexEntry,
			Buffers: []wgpu.VertexBufferLayout{{
				ArrayStride: desc.VertexLayout.Stride,
				StepMode:    wgpu.VertexStepModeVertex,
				Attributes:  attrs,
			}},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: desc.FragmentEntry,
			Targets:    []wgpu.ColorTargetState{target},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  cull,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled: desc.DepthWrite,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("device: create render pipeline %q: %w", desc.Label, err)
	}
	return &wgpuPipeline{label: desc.Label, pipeline: created}, nil
}

func (d *wgpuDevice) CreateDepthTexture(width, height int) (Texture, error) {
	tex, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Depth Texture",
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return nil, fmt.Errorf("device: create depth texture: %w", err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, fmt.Errorf("device: create depth view: %w", err)
	}
	return &wgpuTexture{label: "Depth Texture", width: width, height: height, tex: tex, view: view}, nil
}

func (d *wgpuDevice) WriteBuffer(buf Buffer, offset uint64, data []byte) {
	b, ok := buf.(*wgpuBuffer)
	if !ok || b == nil || b.buf == nil {
		return
	}
	d.queue.WriteBuffer(b.buf, offset, data)
}

func (d *wgpuDevice) ConfigureSurface(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("device: invalid surface size %dx%d", width, height)
	}
	capabilities := d.surface.GetCapabilities(d.adapter)
	d.surface.Configure(d.adapter, d.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      d.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: d.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})
	return nil
}

func (d *wgpuDevice) BeginRenderPass(depth Texture, clear ClearColor) (RenderPass, error) {
	dt, ok := depth.(*wgpuTexture)
	if !ok || dt == nil || dt.view == nil {
		return nil, errors.New("device: render pass needs a live depth texture")
	}

	surfaceTexture, err := d.surface.GetCurrentTexture()
	if err != nil {
		return nil, err
	}
	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return nil, err
	}
	encoder, err := d.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return nil, err
	}

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:    view,
			LoadOp:  wgpu.LoadOpClear,
			StoreOp: wgpu.StoreOpStore,
			ClearValue: wgpu.Color{
				R: clear.R, G: clear.G, B: clear.B, A: clear.A,
			},
		}},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            dt.view,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1.0,
		},
	})

	return &wgpuPass{encoder: encoder, pass: pass, surface: surfaceTexture, view: view}, nil
}

func (d *wgpuDevice) Submit(rp RenderPass) error {
	p, ok := rp.(*wgpuPass)
	if !ok || p == nil {
		return errors.New("device: submit of a foreign render pass")
	}
	defer p.release()

	p.pass.End()
	commandBuffer, err := p.encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("device: finish encoder: %w", err)
	}
	d.queue.Submit(commandBuffer)
	commandBuffer.Release()

	d.surface.Present()
	return nil
}

func (d *wgpuDevice) Release() {
	if d.queue != nil {
		d.queue.Release()
		d.queue = nil
	}
	if d.device != nil {
		d.device.Release()
		d.device = nil
	}
	if d.adapter != nil {
		d.adapter.Release()
		d.adapter = nil
	}
	if d.surface != nil {
		d.surface.Release()
		d.surface = nil
	}
	if d.instance != nil {
		d.instance.Release()
		d.instance = nil
	}
}

type wgpuBuffer struct {
	label string
	size  uint64
	buf   *wgpu.Buffer
}

func (b *wgpuBuffer) Label() string { return b.label }
func (b *wgpuBuffer) Size() uint64  { return b.size }

func (b *wgpuBuffer) Destroy() {
	if b.buf != nil {
		b.buf.Release()
		b.buf = nil
	}
}

type wgpuTexture struct {
	label         string
	width, height int
	tex           *wgpu.Texture
	view          *wgpu.TextureView
}

func (t *wgpuTexture) Label() string { return t.label }
func (t *wgpuTexture) Width() int    { return t.width }
func (t *wgpuTexture) Height() int   { return t.height }

func (t *wgpuTexture) Destroy() {
	if t.view != nil {
		t.view.Release()
		t.view = nil
	}
	if t.tex != nil {
		t.tex.Release()
		t.tex = nil
	}
}

type wgpuBindGroupLayout struct {
	label  string
	layout *wgpu.BindGroupLayout
}

func (l *wgpuBindGroupLayout) Label() string { return l.label }

type wgpuBindGroup struct {
	label string
	bg    *wgpu.BindGroup
}

func (g *wgpuBindGroup) Label() string { return g.label }

func (g *wgpuBindGroup) Destroy() {
	if g.bg != nil {
		g.bg.Release()
		g.bg = nil
	}
}

type wgpuPipeline struct {
	label    string
	pipeline *wgpu.RenderPipeline
}

func (p *wgpuPipeline) Label() string { return p.label }

type wgpuPass struct {
	encoder *wgpu.CommandEncoder
	pass    *wgpu.RenderPassEncoder
	surface *wgpu.Texture
	view    *wgpu.TextureView
}

func (p *wgpuPass) SetPipeline(rp RenderPipeline) {
	if wp, ok := rp.(*wgpuPipeline); ok && wp != nil {
		p.pass.SetPipeline(wp.pipeline)
	}
}

func (p *wgpuPass) SetBindGroup(index uint32, bg BindGroup) {
	if wg, ok := bg.(*wgpuBindGroup); ok && wg != nil && wg.bg != nil {
		p.pass.SetBindGroup(index, wg.bg, nil)
	}
}

func (p *wgpuPass) SetVertexBuffer(slot uint32, buf Buffer) {
	if wb, ok := buf.(*wgpuBuffer); ok && wb != nil && wb.buf != nil {
		p.pass.SetVertexBuffer(slot, wb.buf, 0, wgpu.WholeSize)
	}
}

func (p *wgpuPass) Draw(vertexCount uint32) {
	p.pass.Draw(vertexCount, 1, 0, 0)
}

func (p *wgpuPass) release() {
	if p.encoder != nil {
		p.encoder.Release()
		p.encoder = nil
	}
	if p.view != nil {
		p.view.Release()
		p.view = nil
	}
	if p.surface != nil {
		p.surface.Release()
		p.surface = nil
	}
}

func toWGPUBufferUsage(u BufferUsage) wgpu.BufferUsage {
	var out wgpu.BufferUsage
	if u&BufferUsageVertex != 0 {
		out |= wgpu.BufferUsageVertex
	}
	if u&BufferUsageUniform != 0 {
		out |= wgpu.BufferUsageUniform
	}
	if u&BufferUsageCopyDst != 0 {
		out |= wgpu.BufferUsageCopyDst
	}
	return out
}

func toWGPUShaderStage(s ShaderStage) wgpu.ShaderStage {
	out := wgpu.ShaderStageNone
	if s&ShaderStageVertex != 0 {
		out |= wgpu.ShaderStageVertex
	}
	if s&ShaderStageFragment != 0 {
		out |= wgpu.ShaderStageFragment
	}
	return out
}

func toWGPUVertexFormat(f VertexFormat) wgpu.VertexFormat {
	switch f {
	case VertexFormatFloat32x2:
		return wgpu.VertexFormatFloat32x2
	case VertexFormatFloat32x3:
		return wgpu.VertexFormatFloat32x3
	default:
		return wgpu.VertexFormatFloat32x4
	}
}

func toWGPUBlendState(mode BlendMode) *wgpu.BlendState {
	switch mode {
	case BlendAlpha:
		return &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
		}
	case BlendAdditive:
		return &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOne,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOne,
				Operation: wgpu.BlendOperationAdd,
			},
		}
	default:
		return nil
	}
}
