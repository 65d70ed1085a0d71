// Package devicetest provides a recording device.Device for tests. Every resource
// it hands out remembers its lifecycle, and misuse (writes to destroyed buffers,
// double destroys, passes drawn against a depth texture of the wrong size) is
// collected in Violations instead of crashing.
package devicetest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-arena/engine/device"
)

// Op names a recorded render pass command.
type Op string

const (
	OpSetPipeline     Op = "set_pipeline"
	OpSetBindGroup    Op = "set_bind_group"
	OpSetVertexBuffer Op = "set_vertex_buffer"
	OpDraw            Op = "draw"
)

// Command is one recorded render pass command.
type Command struct {
	Op    Op
	Label string
	Index uint32
	Count uint32
}

// Submission is everything recorded between BeginRenderPass and Submit.
type Submission struct {
	Commands    []Command
	DepthWidth  int
	DepthHeight int
}

// Write is one recorded WriteBuffer call.
type Write struct {
	Label  string
	Offset uint64
	Data   []byte
}

// ErrInjected is returned by creation calls when a Fail* switch is set.
var ErrInjected = errors.New("devicetest: injected failure")

// Device is a recording device.Device.
type Device struct {
	mu sync.Mutex

	buffers    []*Buffer
	textures   []*Texture
	bindGroups []*BindGroup
	layouts    []*BindGroupLayout
	pipelines  []*Pipeline

	writes      []Write
	submissions []Submission
	violations  []string

	surfaceWidth  int
	surfaceHeight int
	open          *Pass
	released      bool

	// FailCreateBuffer makes CreateBuffer return ErrInjected.
	FailCreateBuffer bool
}

var _ device.Device = &Device{}

// New returns an empty recording device.
func New() *Device {
	return &Device{}
}

// Acquirer returns a device.Acquirer handing out d.
func (d *Device) Acquirer() device.Acquirer {
	return func(ctx context.Context) (device.Device, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return d, nil
	}
}

// FailingAcquirer returns a device.Acquirer that always fails with err.
func FailingAcquirer(err error) device.Acquirer {
	return func(context.Context) (device.Device, error) {
		return nil, err
	}
}

func (d *Device) violate(format string, args ...any) {
	d.violations = append(d.violations, fmt.Sprintf(format, args...))
}

func (d *Device) CreateBuffer(desc *device.BufferDescriptor) (device.Buffer, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.FailCreateBuffer {
		return nil, ErrInjected
	}
	b := &Buffer{dev: d, label: desc.Label, size: desc.Size, usage: desc.Usage}
	d.buffers = append(d.buffers, b)
	return b, nil
}

func (d *Device) CreateBindGroupLayout(desc *device.BindGroupLayoutDescriptor) (device.BindGroupLayout, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	l := &BindGroupLayout{label: desc.Label, entries: append([]device.BindGroupLayoutEntry(nil), desc.Entries...)}
	d.layouts = append(d.layouts, l)
	return l, nil
}

func (d *Device) CreateBindGroup(desc *device.BindGroupDescriptor) (device.BindGroup, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	layout, ok := desc.Layout.(*BindGroupLayout)
	if !ok || layout == nil {
		return nil, fmt.Errorf("devicetest: bind group %q without layout", desc.Label)
	}
	if len(desc.Entries) != len(layout.entries) {
		d.violate("bind group %q has %d entries, layout %q wants %d", desc.Label, len(desc.Entries), layout.label, len(layout.entries))
	}
	for _, e := range desc.Entries {
		b, ok := e.Buffer.(*Buffer)
		if !ok || b == nil || b.destroyed > 0 {
			d.violate("bind group %q binding %d references a dead buffer", desc.Label, e.Binding)
		}
	}
	bg := &BindGroup{dev: d, label: desc.Label}
	d.bindGroups = append(d.bindGroups, bg)
	return bg, nil
}

func (d *Device) CreateRenderPipeline(desc *device.RenderPipelineDescriptor) (device.RenderPipeline, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if desc.Source == "" {
		return nil, fmt.Errorf("devicetest: pipeline %q has no shader source", desc.Label)
	}
	p := &Pipeline{label: desc.Label, groups: len(desc.BindGroupLayouts), stride: desc.VertexLayout.Stride}
	d.pipelines = append(d.pipelines, p)
	return p, nil
}

func (d *Device) CreateDepthTexture(width, height int) (device.Texture, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	t := &Texture{dev: d, label: "Depth Texture", width: width, height: height}
	d.textures = append(d.textures, t)
	return t, nil
}

func (d *Device) WriteBuffer(buf device.Buffer, offset uint64, data []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	b, ok := buf.(*Buffer)
	if !ok || b == nil {
		d.violate("write to a nil or foreign buffer")
		return
	}
	if b.destroyed > 0 {
		d.violate("write to destroyed buffer %q", b.label)
		return
	}
	if offset+uint64(len(data)) > b.size {
		d.violate("write of %d bytes at %d overflows buffer %q (%d bytes)", len(data), offset, b.label, b.size)
		return
	}
	cp := append([]byte(nil), data...)
	b.writes++
	d.writes = append(d.writes, Write{Label: b.label, Offset: offset, Data: cp})
}

func (d *Device) ConfigureSurface(width, height int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if width <= 0 || height <= 0 {
		return fmt.Errorf("devicetest: invalid surface size %dx%d", width, height)
	}
	d.surfaceWidth, d.surfaceHeight = width, height
	return nil
}

func (d *Device) BeginRenderPass(depth device.Texture, _ device.ClearColor) (device.RenderPass, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	t, ok := depth.(*Texture)
	if !ok || t == nil || t.destroyed > 0 {
		return nil, errors.New("devicetest: render pass without a live depth texture")
	}
	if d.open != nil {
		d.violate("render pass opened while another is open")
	}
	if t.width != d.surfaceWidth || t.height != d.surfaceHeight {
		d.violate("depth %dx%d does not match surface %dx%d", t.width, t.height, d.surfaceWidth, d.surfaceHeight)
	}
	p := &Pass{dev: d, sub: Submission{DepthWidth: t.width, DepthHeight: t.height}}
	d.open = p
	return p, nil
}

func (d *Device) Submit(rp device.RenderPass) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := rp.(*Pass)
	if !ok || p == nil || p != d.open {
		return errors.New("devicetest: submit of a pass that is not open")
	}
	d.open = nil
	d.submissions = append(d.submissions, p.sub)
	return nil
}

func (d *Device) Release() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.released = true
}

// Buffers returns every buffer created so far, in creation order.
func (d *Device) Buffers() []*Buffer {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*Buffer(nil), d.buffers...)
}

// LiveBuffers returns the buffers not yet destroyed.
func (d *Device) LiveBuffers() []*Buffer {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []*Buffer
	for _, b := range d.buffers {
		if b.destroyed == 0 {
			out = append(out, b)
		}
	}
	return out
}

// Textures returns every texture created so far.
func (d *Device) Textures() []*Texture {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*Texture(nil), d.textures...)
}

// BindGroups returns every bind group created so far.
func (d *Device) BindGroups() []*BindGroup {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*BindGroup(nil), d.bindGroups...)
}

// Pipelines returns every pipeline created so far.
func (d *Device) Pipelines() []*Pipeline {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*Pipeline(nil), d.pipelines...)
}

// Writes returns every recorded buffer write.
func (d *Device) Writes() []Write {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Write(nil), d.writes...)
}

// Submissions returns every submitted pass.
func (d *Device) Submissions() []Submission {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Submission(nil), d.submissions...)
}

// Violations returns every recorded misuse.
func (d *Device) Violations() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.violations...)
}

// SurfaceSize returns the last configured surface size.
func (d *Device) SurfaceSize() (int, int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.surfaceWidth, d.surfaceHeight
}

// Released reports whether Release was called.
func (d *Device) Released() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.released
}

// ResetLog clears writes and submissions, keeping resources.
func (d *Device) ResetLog() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.writes = nil
	d.submissions = nil
}

// Buffer is a recorded buffer.
type Buffer struct {
	dev       *Device
	label     string
	size      uint64
	usage     device.BufferUsage
	destroyed int
	writes    int
}

func (b *Buffer) Label() string { return b.label }
func (b *Buffer) Size() uint64  { return b.size }

// Usage returns the usage flags the buffer was created with.
func (b *Buffer) Usage() device.BufferUsage { return b.usage }

// Destroyed reports how many times Destroy was called.
func (b *Buffer) Destroyed() int {
	b.dev.mu.Lock()
	defer b.dev.mu.Unlock()
	return b.destroyed
}

// WriteCount reports how many writes landed in the buffer.
func (b *Buffer) WriteCount() int {
	b.dev.mu.Lock()
	defer b.dev.mu.Unlock()
	return b.writes
}

func (b *Buffer) Destroy() {
	b.dev.mu.Lock()
	defer b.dev.mu.Unlock()
	b.destroyed++
	if b.destroyed > 1 {
		b.dev.violate("buffer %q destroyed %d times", b.label, b.destroyed)
	}
}

// Texture is a recorded texture.
type Texture struct {
	dev           *Device
	label         string
	width, height int
	destroyed     int
}

func (t *Texture) Label() string { return t.label }
func (t *Texture) Width() int    { return t.width }
func (t *Texture) Height() int   { return t.height }

// Destroyed reports how many times Destroy was called.
func (t *Texture) Destroyed() int {
	t.dev.mu.Lock()
	defer t.dev.mu.Unlock()
	return t.destroyed
}

func (t *Texture) Destroy() {
	t.dev.mu.Lock()
	defer t.dev.mu.Unlock()
	t.destroyed++
	if t.destroyed > 1 {
		t.dev.violate("texture %q destroyed %d times", t.label, t.destroyed)
	}
}

// BindGroupLayout is a recorded layout.
type BindGroupLayout struct {
	label   string
	entries []device.BindGroupLayoutEntry
}

func (l *BindGroupLayout) Label() string { return l.label }

// BindGroup is a recorded bind group.
type BindGroup struct {
	dev       *Device
	label     string
	destroyed int
}

func (g *BindGroup) Label() string { return g.label }

// Destroyed reports how many times Destroy was called.
func (g *BindGroup) Destroyed() int {
	g.dev.mu.Lock()
	defer g.dev.mu.Unlock()
	return g.destroyed
}

func (g *BindGroup) Destroy() {
	g.dev.mu.Lock()
	defer g.dev.mu.Unlock()
	g.destroyed++
	if g.destroyed > 1 {
		g.dev.violate("bind group %q destroyed %d times", g.label, g.destroyed)
	}
}

// Pipeline is a recorded pipeline.
type Pipeline struct {
	label  string
	groups int
	stride uint64
}

func (p *Pipeline) Label() string { return p.label }

// Groups returns the number of bind group layouts the pipeline was built with.
func (p *Pipeline) Groups() int { return p.groups }

// Pass records commands until submitted.
type Pass struct {
	dev *Device
	sub Submission
}

func (p *Pass) record(c Command) {
	p.dev.mu.Lock()
	defer p.dev.mu.Unlock()
	p.sub.Commands = append(p.sub.Commands, c)
}

func (p *Pass) SetPipeline(rp device.RenderPipeline) {
	p.record(Command{Op: OpSetPipeline, Label: rp.Label()})
}

func (p *Pass) SetBindGroup(index uint32, bg device.BindGroup) {
	if g, ok := bg.(*BindGroup); ok && g.destroyed > 0 {
		p.dev.mu.Lock()
		p.dev.violate("destroyed bind group %q bound at %d", g.label, index)
		p.dev.mu.Unlock()
	}
	p.record(Command{Op: OpSetBindGroup, Label: bg.Label(), Index: index})
}

func (p *Pass) SetVertexBuffer(slot uint32, buf device.Buffer) {
	if b, ok := buf.(*Buffer); ok && b.destroyed > 0 {
		p.dev.mu.Lock()
		p.dev.violate("destroyed vertex buffer %q bound at %d", b.label, slot)
		p.dev.mu.Unlock()
	}
	p.record(Command{Op: OpSetVertexBuffer, Label: buf.Label(), Index: slot})
}

func (p *Pass) Draw(vertexCount uint32) {
	p.record(Command{Op: OpDraw, Count: vertexCount})
}
