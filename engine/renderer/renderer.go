// Package renderer draws a graphics.Organizer. It owns the device, one pipeline
// per drawable kind, the depth texture and the shared mesh buffer cache.
package renderer

import (
	"context"
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-arena/engine/device"
	"github.com/Carmen-Shannon/oxy-arena/engine/graphics"
	"github.com/Carmen-Shannon/oxy-arena/engine/light"
	"github.com/Carmen-Shannon/oxy-arena/engine/mesh"
	"github.com/Carmen-Shannon/oxy-arena/engine/renderer/pipeline"
	"go.uber.org/zap"
)

// ErrNotReady is returned by calls that need the device before acquisition has finished.
var ErrNotReady = errors.New("renderer: device not ready")

// renderer is the implementation of the Renderer interface.
//
// Everything except ready and setupErr is owned by the setup goroutine until ready
// is closed and by the frame thread afterwards.
type renderer struct {
	logger          *zap.Logger
	clearColor      device.ClearColor
	validateShaders bool

	ready    chan struct{}
	setupErr error

	dev       device.Device
	layouts   *graphics.Layouts
	meshes    *mesh.Cache
	pipelines map[graphics.Kind]pipeline.Pipeline
	depth     device.Texture
	fallback  *graphics.PointLight

	// canvas size requested by Resize; the depth texture follows it lazily
	width, height int

	writes   []graphics.BufferWrite
	released bool
}

// Renderer defines the interface for the rendering system.
//
// The device is acquired asynchronously by NewRenderer. Until that completes,
// Render logs and returns without drawing. All other calls are made from the
// frame thread.
type Renderer interface {
	// Await blocks until device acquisition and setup have finished.
	//
	// Parameters:
	//   - ctx: bounds the wait
	//
	// Returns:
	//   - error: the setup error, or ctx.Err() if ctx ends first
	Await(ctx context.Context) error

	// Ready reports whether setup finished successfully.
	//
	// Returns:
	//   - bool: true once Render can draw
	Ready() bool

	// Render draws one frame of org. See the package documentation for the order of work.
	//
	// Parameters:
	//   - org: the organizer holding the components to draw
	Render(org *graphics.Organizer)

	// Resize records a new canvas size. The surface and depth texture follow on the next Render.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	Resize(width, height int)

	// Size returns the last recorded canvas size.
	//
	// Returns:
	//   - width, height: the canvas size in pixels
	Size() (width, height int)

	// Resources returns what components need to initialize.
	//
	// Returns:
	//   - graphics.Resources: the device, layouts and mesh cache
	//   - error: ErrNotReady before setup finished
	Resources() (graphics.Resources, error)

	// Meshes returns the shared mesh buffer cache, or nil before setup finished.
	//
	// Returns:
	//   - *mesh.Cache: the cache
	Meshes() *mesh.Cache

	// Pipeline returns the pipeline drawing kind, or nil for kinds that are not drawn.
	//
	// Parameters:
	//   - kind: the component kind
	//
	// Returns:
	//   - pipeline.Pipeline: the pipeline
	Pipeline(kind graphics.Kind) pipeline.Pipeline

	// Release destroys the depth texture, fallback light and mesh buffers, then
	// releases the device. Components still registered must be removed first.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer starts acquiring a device and returns immediately.
//
// Parameters:
//   - ctx: cancels acquisition
//   - acquire: obtains the device
//   - width: initial canvas width in pixels
//   - height: initial canvas height in pixels
//   - options: builder options
//
// Returns:
//   - Renderer: the renderer
func NewRenderer(ctx context.Context, acquire device.Acquirer, width, height int, options ...RendererBuilderOption) Renderer {
	if acquire == nil {
		panic("renderer: acquirer must not be nil")
	}
	r := &renderer{
		logger:     zap.NewNop(),
		clearColor: DefaultClearColor,
		ready:      make(chan struct{}),
		width:      width,
		height:     height,
	}
	for _, option := range options {
		option(r)
	}
	go r.setup(ctx, acquire, width, height)
	return r
}

func (r *renderer) setup(ctx context.Context, acquire device.Acquirer, width, height int) {
	defer close(r.ready)

	dev, err := acquire(ctx)
	if err != nil {
		r.setupErr = fmt.Errorf("failed to acquire device: %w", err)
		r.logger.Error("renderer setup failed", zap.Error(r.setupErr))
		return
	}
	if err := r.build(dev, width, height); err != nil {
		r.setupErr = err
		r.logger.Error("renderer setup failed", zap.Error(err))
		dev.Release()
		return
	}
	r.logger.Debug("renderer ready", zap.Int("width", width), zap.Int("height", height))
}

func (r *renderer) build(dev device.Device, width, height int) error {
	layouts, err := graphics.NewLayouts(dev)
	if err != nil {
		return err
	}
	pipelines, err := buildPipelines(dev, layouts, r.validateShaders)
	if err != nil {
		return err
	}
	if err := dev.ConfigureSurface(width, height); err != nil {
		return fmt.Errorf("failed to configure surface: %w", err)
	}
	depth, err := dev.CreateDepthTexture(width, height)
	if err != nil {
		return fmt.Errorf("failed to create depth texture: %w", err)
	}

	meshes := mesh.NewCache(dev, r.logger)
	fallback := graphics.NewPointLight(
		light.NewPointLight(light.WithEnabled(false)),
		mesh.Ball(),
		graphics.WithLabel("Fallback Light"),
		graphics.WithLogger(r.logger),
	)
	res := graphics.Resources{Device: dev, Layouts: layouts, Meshes: meshes}
	if err := fallback.Initialize(res); err != nil {
		depth.Destroy()
		meshes.Release()
		return fmt.Errorf("failed to create fallback light: %w", err)
	}
	graphics.Flush(dev, fallback.AppendWrites(nil))

	r.dev = dev
	r.layouts = layouts
	r.pipelines = pipelines
	r.depth = depth
	r.meshes = meshes
	r.fallback = fallback
	return nil
}

func (r *renderer) Await(ctx context.Context) error {
	select {
	case <-r.ready:
		return r.setupErr
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *renderer) Ready() bool {
	select {
	case <-r.ready:
		return r.setupErr == nil && !r.released
	default:
		return false
	}
}

func (r *renderer) Resize(width, height int) {
	r.width, r.height = width, height
}

func (r *renderer) Size() (int, int) {
	return r.width, r.height
}

func (r *renderer) Resources() (graphics.Resources, error) {
	if !r.Ready() {
		return graphics.Resources{}, ErrNotReady
	}
	return graphics.Resources{Device: r.dev, Layouts: r.layouts, Meshes: r.meshes}, nil
}

func (r *renderer) Meshes() *mesh.Cache {
	if !r.Ready() {
		return nil
	}
	return r.meshes
}

func (r *renderer) Pipeline(kind graphics.Kind) pipeline.Pipeline {
	if !r.Ready() {
		return nil
	}
	return r.pipelines[kind]
}

func (r *renderer) Render(org *graphics.Organizer) {
	res, err := r.Resources()
	if err != nil {
		r.logger.Warn("render skipped", zap.Error(err))
		return
	}

	org.DrainPending(func(c graphics.Component) {
		r.initialize(c, res)
	})
	org.WriteEverything(r.dev)

	camera := org.ActiveCamera()
	if camera == nil {
		r.logger.Warn("no active camera, skipping frame")
		return
	}
	if !r.resizeDepth() {
		return
	}

	pass, err := r.dev.BeginRenderPass(r.depth, r.clearColor)
	if err != nil {
		r.logger.Error("failed to begin render pass", zap.Error(err))
		return
	}
	camera.Bind(pass, 0)

	lamp := org.ActiveLight()
	if lamp == nil {
		lamp = r.fallback
	}
	for _, kind := range graphics.DrawOrder {
		r.drawBucket(pass, org.Bucket(kind), kind, lamp, res)
	}

	if err := r.dev.Submit(pass); err != nil {
		r.logger.Error("failed to submit frame", zap.Error(err))
	}
}

// drawBucket draws every active component of one kind with that kind's pipeline.
// The pipeline is set only when the bucket has something to draw.
func (r *renderer) drawBucket(pass device.RenderPass, bucket []graphics.Component, kind graphics.Kind, lamp *graphics.PointLight, res graphics.Resources) {
	p := r.pipelines[kind]
	bound := false
	for _, c := range bucket {
		if !c.Active() {
			continue
		}
		if c.State() == graphics.StateUninitialized && r.initialize(c, res) {
			r.writes = c.AppendWrites(r.writes[:0])
			graphics.Flush(r.dev, r.writes)
			clear(r.writes)
		}
		if c.State() != graphics.StateReady {
			continue
		}
		if !bound {
			pass.SetPipeline(p.RenderPipeline())
			if kind == graphics.KindShadedNormal {
				lamp.Bind(pass, 2)
			}
			bound = true
		}
		c.Draw(pass)
	}
}

// initialize creates c's resources and logs failures. It reports whether c is ready.
func (r *renderer) initialize(c graphics.Component, res graphics.Resources) bool {
	if err := c.Initialize(res); err != nil {
		r.logger.Error("failed to initialize graphics component",
			zap.Stringer("kind", c.Kind()),
			zap.String("label", c.Label()),
			zap.Error(err))
		return false
	}
	return true
}

// resizeDepth makes the surface and depth texture match the canvas size. The old
// texture is destroyed before the new one is created. It reports whether the frame
// can be drawn.
func (r *renderer) resizeDepth() bool {
	if r.width <= 0 || r.height <= 0 {
		r.logger.Debug("canvas has no area, skipping frame", zap.Int("width", r.width), zap.Int("height", r.height))
		return false
	}
	if r.depth != nil && r.depth.Width() == r.width && r.depth.Height() == r.height {
		return true
	}
	if err := r.dev.ConfigureSurface(r.width, r.height); err != nil {
		r.logger.Error("failed to configure surface", zap.Error(err))
		return false
	}
	if r.depth != nil {
		r.depth.Destroy()
		r.depth = nil
	}
	depth, err := r.dev.CreateDepthTexture(r.width, r.height)
	if err != nil {
		r.logger.Error("failed to create depth texture", zap.Error(err))
		return false
	}
	r.depth = depth
	r.logger.Debug("resized depth texture", zap.Int("width", r.width), zap.Int("height", r.height))
	return true
}

func (r *renderer) Release() {
	if !r.Ready() {
		return
	}
	r.released = true
	if r.depth != nil {
		r.depth.Destroy()
		r.depth = nil
	}
	r.fallback.Destroy()
	r.meshes.Release()
	r.dev.Release()
}
