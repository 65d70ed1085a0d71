package main

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Carmen-Shannon/oxy-arena/engine"
	"github.com/Carmen-Shannon/oxy-arena/engine/config"
	"github.com/Carmen-Shannon/oxy-arena/engine/device"
	"github.com/Carmen-Shannon/oxy-arena/engine/loader"
	"github.com/Carmen-Shannon/oxy-arena/engine/logger"
	"github.com/Carmen-Shannon/oxy-arena/engine/mesh"
	"github.com/Carmen-Shannon/oxy-arena/engine/profiler"
	"github.com/Carmen-Shannon/oxy-arena/engine/renderer"
	"github.com/Carmen-Shannon/oxy-arena/engine/window"
	"github.com/Carmen-Shannon/oxy-arena/game"
	"github.com/google/wire"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// App is everything main needs to run the arena.
type App struct {
	cfg      config.Config
	logger   *zap.Logger
	renderer renderer.Renderer
	loaders  *Loaders
	engine   engine.Engine
}

// Loaders holds one mesh loader per supported file format. Both publish into
// the same library.
type Loaders struct {
	OBJ  loader.Loader
	GLTF loader.Loader
}

var providerSet = wire.NewSet(
	ProvideLogger,
	ProvideWindow,
	ProvideAcquirer,
	ProvideRenderer,
	ProvideLibrary,
	ProvideLoaders,
	ProvideEngine,
	wire.Struct(new(App), "*"),
)

// ProvideLogger builds the process logger from the log section.
func ProvideLogger(cfg config.Config) (*zap.Logger, func(), error) {
	l, err := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		return nil, nil, err
	}
	return l, func() { _ = l.Sync() }, nil
}

// ProvideWindow opens the game window.
func ProvideWindow(cfg config.Config, l *zap.Logger) (window.Window, func(), error) {
	w, err := window.NewWindow(
		window.WithLogger(l),
		window.WithTitle(cfg.Window.Title),
		window.WithWidth(cfg.Window.Width),
		window.WithHeight(cfg.Window.Height),
		window.WithMinWidth(cfg.Window.MinWidth),
		window.WithMinHeight(cfg.Window.MinHeight),
		window.WithMaxWidth(cfg.Window.MaxWidth),
		window.WithMaxHeight(cfg.Window.MaxHeight),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open window: %w", err)
	}
	return w, func() {
		if w.IsRunning() {
			_ = w.Close()
		}
	}, nil
}

// ProvideAcquirer negotiates the GPU device for the window surface.
func ProvideAcquirer(cfg config.Config, w window.Window) device.Acquirer {
	return device.NewWGPUAcquirer(w.SurfaceDescriptor(),
		device.WithPresentMode(cfg.Render.Mode()),
		device.WithForceFallbackAdapter(cfg.Render.ForceFallback),
	)
}

// ProvideRenderer starts device acquisition in the background.
func ProvideRenderer(ctx context.Context, cfg config.Config, w window.Window, acquire device.Acquirer, l *zap.Logger) renderer.Renderer {
	return renderer.NewRenderer(ctx, acquire, w.Width(), w.Height(),
		renderer.WithLogger(l),
		renderer.WithClearColor(cfg.Render.Clear()),
		renderer.WithShaderValidation(cfg.Render.ValidateShaders),
	)
}

// ProvideLibrary returns a library holding the built-in primitives.
func ProvideLibrary() *mesh.Library {
	return mesh.NewLibrary()
}

// ProvideLoaders returns the OBJ and glTF loaders publishing into lib.
func ProvideLoaders(lib *mesh.Library, l *zap.Logger) *Loaders {
	return &Loaders{
		OBJ:  loader.NewLoader(loader.BackendTypeOBJ, loader.WithLibrary(lib), loader.WithLogger(l)),
		GLTF: loader.NewLoader(loader.BackendTypeGLTF, loader.WithLibrary(lib), loader.WithLogger(l)),
	}
}

// ProvideEngine wires the arena game into the frame loop.
func ProvideEngine(cfg config.Config, w window.Window, r renderer.Renderer, lib *mesh.Library, l *zap.Logger) engine.Engine {
	interval := time.Duration(float64(cfg.Loop.ProfileInterval) * float64(time.Second))
	return engine.NewEngine(r, game.Factory(cfg.Arena, lib, cfg.Window.Width, cfg.Window.Height, l),
		engine.WithWindow(w),
		engine.WithLogger(l),
		engine.WithMaxFrameDelta(cfg.Loop.MaxFrameDelta),
		engine.WithProfiling(interval > 0),
		engine.WithProfiler(profiler.NewProfiler(profiler.WithLogger(l), profiler.WithInterval(interval))),
	)
}

// Run waits for the device and the configured meshes together, then runs the
// engine until the window closes or ctx ends.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.renderer.Await(gctx)
	})
	obj, gltf := meshSources(a.cfg.Meshes)
	g.Go(func() error {
		_, err := a.loaders.OBJ.LoadAll(gctx, obj...)
		return err
	})
	g.Go(func() error {
		_, err := a.loaders.GLTF.LoadAll(gctx, gltf...)
		return err
	})
	if err := g.Wait(); err != nil {
		a.renderer.Release()
		return fmt.Errorf("startup failed: %w", err)
	}
	a.logger.Info("startup complete", zap.Int("meshes", len(a.cfg.Meshes)))
	return a.engine.Run(ctx)
}

// meshSources turns the meshes section into loader sources in name order, split
// into OBJ text and glTF (.gltf, .glb) documents by file extension.
func meshSources(paths map[string]string) (obj, gltf []loader.Source) {
	names := make([]string, 0, len(paths))
	for name := range paths {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		src := loader.FileSource(name, paths[name])
		switch strings.ToLower(filepath.Ext(paths[name])) {
		case ".gltf", ".glb":
			gltf = append(gltf, src)
		default:
			obj = append(obj, src)
		}
	}
	return obj, gltf
}
