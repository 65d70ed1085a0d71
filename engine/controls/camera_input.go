package controls

import (
	"github.com/Carmen-Shannon/oxy-arena/common"
	"go.uber.org/zap"
)

// CameraReceiver is steered by the arrow keys and zoomed by the scroll wheel.
type CameraReceiver interface {
	// ReceiveDirection gets the held arrow keys as axis values in {-1, 0, 1}:
	// forward is up minus down, right is right minus left.
	ReceiveDirection(forward, right float32)

	// Zoom gets the scroll delta with the sign flipped, so scrolling up zooms in.
	Zoom(amount float32)
}

// cameraInput tracks held arrow keys.
type cameraInput struct {
	up, down, left, right bool
	receivers             receivers[CameraReceiver]
}

func newCameraInput(logger *zap.Logger) *cameraInput {
	return &cameraInput{receivers: receivers[CameraReceiver]{name: "camera", logger: logger}}
}

func (ci *cameraInput) listen(c *Controls) {
	c.OnKeyDown(func(key uint32) { ci.set(key, true) })
	c.OnKeyUp(func(key uint32) { ci.set(key, false) })
	c.OnScroll(func(delta float32) {
		for _, r := range ci.receivers.items {
			r.Zoom(-delta)
		}
	})
}

func (ci *cameraInput) set(key uint32, held bool) {
	switch key {
	case common.KeyUp:
		ci.up = held
	case common.KeyDown:
		ci.down = held
	case common.KeyLeft:
		ci.left = held
	case common.KeyRight:
		ci.right = held
	default:
		return
	}
	forward, right := axis(ci.up, ci.down), axis(ci.right, ci.left)
	for _, r := range ci.receivers.items {
		r.ReceiveDirection(forward, right)
	}
}

func (ci *cameraInput) reset() {
	ci.up, ci.down, ci.left, ci.right = false, false, false, false
	ci.receivers.items = nil
}

func axis(pos, neg bool) float32 {
	var v float32
	if pos {
		v++
	}
	if neg {
		v--
	}
	return v
}
