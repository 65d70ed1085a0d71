// Package controls routes window input to the entities of one scene. Every
// listener is bound to the scene's abort handle: Abort detaches all of them at
// once and later input is dropped.
package controls

import (
	"context"

	"go.uber.org/zap"
)

// KeyListener receives a key code.
type KeyListener func(key uint32)

// ScrollListener receives a scroll delta. Positive scrolls up.
type ScrollListener func(delta float32)

// MouseListener receives a button index and a cursor position in pixels.
type MouseListener func(button int, x, y float32)

// Controls is the input hub of one scene. It is used from the frame thread only.
type Controls struct {
	logger *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc

	keyDown   []KeyListener
	keyUp     []KeyListener
	scroll    []ScrollListener
	mouseDown []MouseListener

	width, height int
	dropped       bool

	camera *cameraInput
	world  *worldPointInput
}

// NewControls creates a hub bound to a fresh abort handle derived from parent.
// The camera and screen-to-world interpreters are installed as listeners.
//
// Parameters:
//   - parent: cancelling it aborts the hub
//   - options: builder options
//
// Returns:
//   - *Controls: the hub
func NewControls(parent context.Context, options ...ControlsBuilderOption) *Controls {
	ctx, cancel := context.WithCancel(parent)
	c := &Controls{
		logger: zap.NewNop(),
		ctx:    ctx,
		cancel: cancel,
	}
	for _, option := range options {
		option(c)
	}
	c.camera = newCameraInput(c.logger)
	c.world = newWorldPointInput(c.logger)
	c.camera.listen(c)
	c.world.listen(c)
	return c
}

// Context returns the abort handle. It is done once Abort is called.
func (c *Controls) Context() context.Context {
	return c.ctx
}

// Aborted reports whether Abort was called or the parent context ended.
func (c *Controls) Aborted() bool {
	return c.ctx.Err() != nil
}

// Abort cancels the abort handle and drops every listener and receiver. Calling
// it again does nothing.
func (c *Controls) Abort() {
	if c.dropped {
		return
	}
	c.dropped = true
	c.cancel()
	c.keyDown, c.keyUp, c.scroll, c.mouseDown = nil, nil, nil, nil
	c.camera.reset()
	c.world.reset()
	c.logger.Debug("controls aborted")
}

// OnKeyDown registers a key press listener. Ignored after Abort.
func (c *Controls) OnKeyDown(l KeyListener) {
	if !c.Aborted() {
		c.keyDown = append(c.keyDown, l)
	}
}

// OnKeyUp registers a key release listener. Ignored after Abort.
func (c *Controls) OnKeyUp(l KeyListener) {
	if !c.Aborted() {
		c.keyUp = append(c.keyUp, l)
	}
}

// OnScroll registers a scroll listener. Ignored after Abort.
func (c *Controls) OnScroll(l ScrollListener) {
	if !c.Aborted() {
		c.scroll = append(c.scroll, l)
	}
}

// OnMouseDown registers a mouse button listener. Ignored after Abort.
func (c *Controls) OnMouseDown(l MouseListener) {
	if !c.Aborted() {
		c.mouseDown = append(c.mouseDown, l)
	}
}

// HandleKeyDown dispatches a key press.
func (c *Controls) HandleKeyDown(key uint32) {
	for _, l := range c.keyDown {
		if c.Aborted() {
			return
		}
		l(key)
	}
}

// HandleKeyUp dispatches a key release.
func (c *Controls) HandleKeyUp(key uint32) {
	for _, l := range c.keyUp {
		if c.Aborted() {
			return
		}
		l(key)
	}
}

// HandleScroll dispatches a scroll delta.
func (c *Controls) HandleScroll(delta float32) {
	for _, l := range c.scroll {
		if c.Aborted() {
			return
		}
		l(delta)
	}
}

// HandleMouseDown dispatches a mouse button press at a cursor position in pixels.
func (c *Controls) HandleMouseDown(button int, x, y float32) {
	for _, l := range c.mouseDown {
		if c.Aborted() {
			return
		}
		l(button, x, y)
	}
}

// SetViewport records the canvas size used to convert cursor positions.
func (c *Controls) SetViewport(width, height int) {
	c.width, c.height = width, height
}

// Viewport returns the canvas size.
func (c *Controls) Viewport() (width, height int) {
	return c.width, c.height
}

// AddCameraReceiver subscribes r to arrow key direction and scroll zoom.
func (c *Controls) AddCameraReceiver(r CameraReceiver) {
	if !c.Aborted() {
		c.camera.receivers.add(r)
	}
}

// RemoveCameraReceiver unsubscribes r. A missing receiver is logged unless the
// hub was already aborted.
func (c *Controls) RemoveCameraReceiver(r CameraReceiver) {
	if !c.dropped {
		c.camera.receivers.remove(r)
	}
}

// AddWorldPointAcceptor subscribes a to right click ground points.
func (c *Controls) AddWorldPointAcceptor(a WorldPointAcceptor) {
	if !c.Aborted() {
		c.world.acceptors.add(a)
	}
}

// RemoveWorldPointAcceptor unsubscribes a. A missing acceptor is logged unless
// the hub was already aborted.
func (c *Controls) RemoveWorldPointAcceptor(a WorldPointAcceptor) {
	if !c.dropped {
		c.world.acceptors.remove(a)
	}
}

// SetProjector sets the camera used to turn clicks into rays. Nil disables clicks.
func (c *Controls) SetProjector(p Projector) {
	c.world.projector = p
}

// receivers is an ordered identity list that warns on stale removal.
type receivers[T comparable] struct {
	name   string
	logger *zap.Logger
	items  []T
}

func (r *receivers[T]) add(item T) {
	r.items = append(r.items, item)
}

func (r *receivers[T]) remove(item T) {
	for i, x := range r.items {
		if x == item {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return
		}
	}
	r.logger.Warn("tried to remove receiver that is not registered", zap.String("receiver", r.name))
}
