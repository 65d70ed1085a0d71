package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-arena/engine/device/devicetest"
	"github.com/Carmen-Shannon/oxy-arena/engine/renderer"
	"github.com/Carmen-Shannon/oxy-arena/common"
	"github.com/Carmen-Shannon/oxy-arena/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type counter struct {
	scene.Base
	dts   []float32
	boom  bool
	sizes [][2]int
}

func (c *counter) Update(dt float32) {
	if c.boom {
		panic("boom")
	}
	c.dts = append(c.dts, dt)
}

func (c *counter) OnResize(width, height int) {
	c.sizes = append(c.sizes, [2]int{width, height})
}

type fakeGame struct {
	scene   scene.Scene
	counter *counter
	over    bool
}

func (g *fakeGame) Scene() scene.Scene { return g.scene }
func (g *fakeGame) GameOver() bool     { return g.over }

type harness struct {
	games []*fakeGame
	fail  error
	clock time.Time
}

func (h *harness) factory(ctx context.Context) (Game, error) {
	if h.fail != nil {
		return nil, h.fail
	}
	g := &fakeGame{scene: scene.NewScene(ctx, "test"), counter: &counter{Base: scene.NewBase()}}
	g.scene.AddEntity(g.counter)
	h.games = append(h.games, g)
	return g, nil
}

func (h *harness) now() time.Time { return h.clock }

// scriptedWindow runs one scripted event per message loop iteration, then the
// update callback, until the script ends or the window closes.
type scriptedWindow struct {
	running bool
	script  []func(w *scriptedWindow)

	onUpdate    func()
	onResize    func(width, height int)
	onScroll    func(delta float32)
	onKeyDown   func(keyCode uint32)
	onKeyUp     func(keyCode uint32)
	onMouseDown func(button int, x, y float32)
	onFocus     func(focused bool)
}

func (w *scriptedWindow) SetUpdateCallback(cb func())                            { w.onUpdate = cb }
func (w *scriptedWindow) SetResizeCallback(cb func(width, height int))           { w.onResize = cb }
func (w *scriptedWindow) SetScrollCallback(cb func(delta float32))               { w.onScroll = cb }
func (w *scriptedWindow) SetKeyDownCallback(cb func(keyCode uint32))             { w.onKeyDown = cb }
func (w *scriptedWindow) SetKeyUpCallback(cb func(keyCode uint32))               { w.onKeyUp = cb }
func (w *scriptedWindow) SetMouseDownCallback(cb func(button int, x, y float32)) { w.onMouseDown = cb }
func (w *scriptedWindow) SetFocusCallback(cb func(focused bool))                 { w.onFocus = cb }
func (w *scriptedWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor             { return nil }
func (w *scriptedWindow) IsRunning() bool                                        { return w.running }
func (w *scriptedWindow) Width() int                                             { return 640 }
func (w *scriptedWindow) Height() int                                            { return 480 }

func (w *scriptedWindow) Close() error {
	w.running = false
	return nil
}

func (w *scriptedWindow) ProcessMessages() {
	for _, step := range w.script {
		if !w.running {
			return
		}
		step(w)
		if w.onUpdate != nil {
			w.onUpdate()
		}
	}
}

func (h *harness) step(d time.Duration) { h.clock = h.clock.Add(d) }

func newStarted(t *testing.T, options ...EngineBuilderOption) (*harness, Engine) {
	t.Helper()
	h := &harness{clock: time.Unix(100, 0)}
	r := renderer.NewRenderer(context.Background(), devicetest.New().Acquirer(), 640, 480)
	e := NewEngine(r, h.factory, append([]EngineBuilderOption{WithClock(h.now)}, options...)...)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	require.NoError(t, e.Start(ctx))
	return h, e
}

func TestFrameBeforeStart(t *testing.T) {
	h := &harness{}
	r := renderer.NewRenderer(context.Background(), devicetest.New().Acquirer(), 640, 480)
	e := NewEngine(r, h.factory)
	require.ErrorIs(t, e.Frame(), ErrNotStarted)
	assert.Nil(t, e.Game())
}

func TestStartFailsWhenDeviceFails(t *testing.T) {
	h := &harness{}
	injected := errors.New("no adapter")
	r := renderer.NewRenderer(context.Background(), devicetest.FailingAcquirer(injected), 640, 480)
	e := NewEngine(r, h.factory)
	require.ErrorIs(t, e.Start(context.Background()), injected)
	assert.Empty(t, h.games)
}

func TestStartSizesFirstScene(t *testing.T) {
	h, e := newStarted(t)
	require.Len(t, h.games, 1)
	assert.Equal(t, [][2]int{{640, 480}}, h.games[0].counter.sizes)
	w, ht := e.Game().Scene().Size()
	assert.Equal(t, 640, w)
	assert.Equal(t, 480, ht)
}

func TestLongFramesSkipSimulation(t *testing.T) {
	h, e := newStarted(t)
	c := h.games[0].counter

	h.step(16 * time.Millisecond)
	require.NoError(t, e.Frame())
	h.step(200 * time.Millisecond)
	require.NoError(t, e.Frame())
	h.step(50 * time.Millisecond)
	require.NoError(t, e.Frame())

	require.Len(t, c.dts, 2)
	assert.InDelta(t, 0.016, c.dts[0], 1e-6)
	assert.InDelta(t, 0.05, c.dts[1], 1e-6, "a frame exactly at the limit still simulates")
	assert.Zero(t, e.Game().Scene().Organizer().Pending(), "every frame renders")
}

func TestGameOverRebuildsGame(t *testing.T) {
	h, e := newStarted(t)
	first := h.games[0]
	first.over = true

	h.step(16 * time.Millisecond)
	require.NoError(t, e.Frame())
	require.Len(t, h.games, 2)
	assert.Same(t, h.games[1], e.Game())
	assert.True(t, first.scene.Controls().Aborted())
	assert.Empty(t, first.scene.Entities())
	assert.Equal(t, [][2]int{{640, 480}}, h.games[1].counter.sizes)

	e.Resize(320, 200)
	assert.Equal(t, [][2]int{{640, 480}, {320, 200}}, h.games[1].counter.sizes)
	w, ht := e.Renderer().Size()
	assert.Equal(t, 320, w)
	assert.Equal(t, 200, ht)
}

func TestRestartFailureQuits(t *testing.T) {
	h, e := newStarted(t)
	h.games[0].over = true
	h.fail = errors.New("no arena")

	h.step(16 * time.Millisecond)
	require.ErrorIs(t, e.Frame(), h.fail)
	select {
	case <-e.Done():
	default:
		t.Fatal("engine did not quit")
	}
}

func TestFramePanicIsRecovered(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	h, e := newStarted(t, WithLogger(zap.New(core)))
	h.games[0].counter.boom = true

	h.step(16 * time.Millisecond)
	require.Error(t, e.Frame())
	assert.Equal(t, 1, logs.FilterMessage("frame recovered from panic").Len())
	select {
	case <-e.Done():
	default:
		t.Fatal("engine did not quit")
	}
	e.Quit()
}

func TestRunRequiresWindow(t *testing.T) {
	h := &harness{}
	r := renderer.NewRenderer(context.Background(), devicetest.New().Acquirer(), 640, 480)
	require.Error(t, NewEngine(r, h.factory).Run(context.Background()))
}

func TestNewEnginePanicsWithoutCollaborators(t *testing.T) {
	h := &harness{}
	r := renderer.NewRenderer(context.Background(), devicetest.New().Acquirer(), 640, 480)
	assert.Panics(t, func() { NewEngine(nil, h.factory) })
	assert.Panics(t, func() { NewEngine(r, nil) })
}

func TestPauseRendersWithoutSimulating(t *testing.T) {
	h, e := newStarted(t)
	c := h.games[0].counter

	e.Pause()
	assert.True(t, e.Paused())
	h.step(16 * time.Millisecond)
	require.NoError(t, e.Frame())
	assert.Empty(t, c.dts)

	h.games[0].over = true
	h.step(16 * time.Millisecond)
	require.NoError(t, e.Frame())
	assert.Len(t, h.games, 1, "a paused game is not rebuilt")

	h.games[0].over = false
	e.Resume()
	assert.False(t, e.Paused())
	h.step(16 * time.Millisecond)
	require.NoError(t, e.Frame())
	require.Len(t, c.dts, 1)
	assert.InDelta(t, 0.016, c.dts[0], 1e-6, "time spent paused is not simulated")
}

func TestFocusLossPausesUntilMousePress(t *testing.T) {
	h := &harness{clock: time.Unix(100, 0)}
	var clicks [][2]float32
	tick := func(event func(w *scriptedWindow)) func(w *scriptedWindow) {
		return func(w *scriptedWindow) {
			h.step(16 * time.Millisecond)
			if event != nil {
				event(w)
			}
		}
	}
	w := &scriptedWindow{running: true}
	w.script = []func(w *scriptedWindow){
		tick(nil),
		tick(func(w *scriptedWindow) { w.onFocus(false) }),
		tick(nil),
		tick(func(w *scriptedWindow) { w.onFocus(true) }),
		tick(func(w *scriptedWindow) {
			h.games[0].scene.Controls().OnMouseDown(func(button int, x, y float32) {
				clicks = append(clicks, [2]float32{x, y})
			})
			w.onMouseDown(common.MouseButtonRight, 3, 4)
		}),
		tick(nil),
	}

	r := renderer.NewRenderer(context.Background(), devicetest.New().Acquirer(), 640, 480)
	e := NewEngine(r, h.factory, WithClock(h.now), WithWindow(w))
	require.NoError(t, e.Run(context.Background()))

	require.Len(t, h.games, 1)
	assert.Len(t, h.games[0].counter.dts, 3, "frames 2 to 4 are paused")
	assert.Equal(t, [][2]float32{{3, 4}}, clicks, "the resuming press still reaches the scene")
	assert.False(t, e.Paused())
}
