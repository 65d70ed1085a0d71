package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-arena/engine/profiler"
	"github.com/Carmen-Shannon/oxy-arena/engine/renderer"
	"github.com/Carmen-Shannon/oxy-arena/engine/scene"
	"github.com/Carmen-Shannon/oxy-arena/engine/window"
	"go.uber.org/zap"
)

// DefaultMaxFrameDelta is the longest frame, in seconds, that still advances the simulation.
const DefaultMaxFrameDelta float32 = 1.0 / 20

// ErrNotStarted is returned by Frame before Start has succeeded.
var ErrNotStarted = errors.New("engine not started")

// Game is one playthrough: a scene plus the condition that ends it.
type Game interface {
	// Scene returns the scene the game populates.
	Scene() scene.Scene

	// GameOver reports whether the game has ended and should be rebuilt.
	GameOver() bool
}

// GameFactory builds a fresh game. The engine calls it on start and after every game over.
type GameFactory func(ctx context.Context) (Game, error)

// engine implements the Engine interface.
// Everything after Start runs on the thread that drives the window.
type engine struct {
	logger *zap.Logger
	now    func() time.Time

	window   window.Window
	renderer renderer.Renderer
	factory  GameFactory

	profiler         *profiler.Profiler
	profilingEnabled bool
	maxFrameDelta    float32

	ctx      context.Context
	game     Game
	last     time.Time
	frames   uint64
	restarts int
	paused   bool
	err      error

	quitOnce sync.Once
	quit     chan struct{}
}

// Engine is the main entry point for the engine.
// It drives one frame per window message loop iteration: simulation, render, then restart on game over.
type Engine interface {
	// Window returns the underlying window, or nil when running headless.
	Window() window.Window

	// Renderer returns the renderer frames are drawn with.
	Renderer() renderer.Renderer

	// Game returns the current game, or nil before Start.
	Game() Game

	// EnableProfiler enables periodic frame statistics in the log.
	EnableProfiler()

	// DisableProfiler disables frame statistics.
	DisableProfiler()

	// Start waits for the renderer, then builds the first game and sizes its scene.
	//
	// Parameters:
	//   - ctx: bounds the wait and is handed to every GameFactory call
	//
	// Returns:
	//   - error: an error if the renderer or the first game could not be set up
	Start(ctx context.Context) error

	// Pause stops the simulation until Resume. Paused frames still render. The
	// window pauses the engine when it loses focus.
	Pause()

	// Resume restarts the simulation. The window resumes the engine on the next
	// mouse press, which is still delivered to the scene.
	Resume()

	// Paused reports whether the simulation is paused.
	Paused() bool

	// Frame runs one frame. Frames longer than the max frame delta, and every frame
	// while paused, render without advancing the simulation. A panic is recovered,
	// logged and turned into Quit.
	//
	// Returns:
	//   - error: ErrNotStarted before Start, the factory error if a restart failed,
	//     or the recovered panic
	Frame() error

	// Resize forwards a canvas size change to the renderer and the current scene.
	//
	// Parameters:
	//   - width: canvas width in pixels
	//   - height: canvas height in pixels
	Resize(width, height int)

	// Run starts the engine and drives it from the window's message loop until the
	// window closes, ctx ends or Quit is called.
	//
	// Parameters:
	//   - ctx: cancelling it closes the window
	//
	// Returns:
	//   - error: the first error that stopped the engine, nil on a normal close
	Run(ctx context.Context) error

	// Quit stops the engine. Safe to call multiple times; subsequent calls are no-ops.
	Quit()

	// Done is closed once Quit has been called.
	Done() <-chan struct{}
}

// NewEngine creates a new Engine with the provided options.
//
// Panics if r or factory is nil.
//
// Parameters:
//   - r: the renderer frames are drawn with
//   - factory: builds each game
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(r renderer.Renderer, factory GameFactory, options ...EngineBuilderOption) Engine {
	if r == nil {
		panic("engine: NewEngine requires a non-nil Renderer")
	}
	if factory == nil {
		panic("engine: NewEngine requires a non-nil GameFactory")
	}

	e := &engine{
		logger:        zap.NewNop(),
		now:           time.Now,
		renderer:      r,
		factory:       factory,
		maxFrameDelta: DefaultMaxFrameDelta,
		quit:          make(chan struct{}),
	}
	for _, opt := range options {
		opt(e)
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler(profiler.WithLogger(e.logger))
	}
	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Game() Game {
	return e.game
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) Pause() {
	if !e.paused {
		e.logger.Info("simulation paused")
	}
	e.paused = true
}

func (e *engine) Resume() {
	if e.paused {
		e.logger.Info("simulation resumed")
	}
	e.paused = false
}

func (e *engine) Paused() bool {
	return e.paused
}

func (e *engine) Start(ctx context.Context) error {
	if err := e.renderer.Await(ctx); err != nil {
		return fmt.Errorf("failed to start renderer: %w", err)
	}
	e.ctx = ctx
	g, err := e.factory(ctx)
	if err != nil {
		return fmt.Errorf("failed to build game: %w", err)
	}
	e.game = g
	w, h := e.renderer.Size()
	g.Scene().OnResize(w, h)
	e.last = e.now()
	e.logger.Info("engine started", zap.Int("width", w), zap.Int("height", h))
	return nil
}

func (e *engine) Frame() (err error) {
	if e.game == nil {
		return ErrNotStarted
	}
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("frame recovered from panic", zap.Any("panic", r), zap.Uint64("frame", e.frames))
			err = fmt.Errorf("frame panicked: %v", r)
			e.fail(err)
		}
	}()

	now := e.now()
	dt := float32(now.Sub(e.last).Seconds())
	e.last = now
	e.frames++

	s := e.game.Scene()
	if e.paused {
		e.renderer.Render(s.Organizer())
		return nil
	}
	if dt <= e.maxFrameDelta {
		s.Update(dt)
	} else {
		e.logger.Debug("frame delta too large, skipping simulation", zap.Float32("dt", dt))
	}
	e.renderer.Render(s.Organizer())

	if e.game.GameOver() {
		if err := e.restart(); err != nil {
			e.fail(err)
			return err
		}
	}

	if e.profilingEnabled {
		e.profiler.Tick()
	}
	return nil
}

// restart tears the current game down and builds the next one.
func (e *engine) restart() error {
	e.logger.Info("game over, restarting", zap.Int("restarts", e.restarts))
	e.game.Scene().Teardown()
	g, err := e.factory(e.ctx)
	if err != nil {
		return fmt.Errorf("failed to rebuild game: %w", err)
	}
	e.game = g
	e.restarts++
	w, h := e.renderer.Size()
	g.Scene().OnResize(w, h)
	return nil
}

func (e *engine) Resize(width, height int) {
	e.renderer.Resize(width, height)
	if e.game != nil {
		e.game.Scene().OnResize(width, height)
	}
}

func (e *engine) Run(ctx context.Context) error {
	if e.window == nil {
		return errors.New("engine: Run requires a window")
	}
	if err := e.Start(ctx); err != nil {
		return err
	}
	e.bindWindow()
	defer func() {
		e.Quit()
		e.game.Scene().Teardown()
		e.renderer.Release()
	}()

	e.window.SetUpdateCallback(func() {
		select {
		case <-ctx.Done():
			e.logger.Info("context done, closing window", zap.Error(ctx.Err()))
			e.closeWindow()
			return
		case <-e.quit:
			e.closeWindow()
			return
		default:
		}
		_ = e.Frame()
	})
	e.window.ProcessMessages()
	return e.err
}

// bindWindow forwards window events to the renderer and the current scene's controls.
func (e *engine) bindWindow() {
	e.window.SetResizeCallback(e.Resize)
	e.window.SetKeyDownCallback(func(key uint32) {
		e.game.Scene().Controls().HandleKeyDown(key)
	})
	e.window.SetKeyUpCallback(func(key uint32) {
		e.game.Scene().Controls().HandleKeyUp(key)
	})
	e.window.SetScrollCallback(func(delta float32) {
		e.game.Scene().Controls().HandleScroll(delta)
	})
	e.window.SetMouseDownCallback(func(button int, x, y float32) {
		e.Resume()
		e.game.Scene().Controls().HandleMouseDown(button, x, y)
	})
	e.window.SetFocusCallback(func(focused bool) {
		if !focused {
			e.Pause()
		}
	})
}

func (e *engine) closeWindow() {
	if e.window.IsRunning() {
		if err := e.window.Close(); err != nil {
			e.logger.Warn("failed to close window", zap.Error(err))
		}
	}
}

// fail records the first error and quits.
func (e *engine) fail(err error) {
	if e.err == nil {
		e.err = err
	}
	e.Quit()
}

// Quit closes the quit channel. Safe to call multiple times due to sync.Once.
func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quit)
	})
}

func (e *engine) Done() <-chan struct{} {
	return e.quit
}
