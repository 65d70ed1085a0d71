package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuilderOptions(t *testing.T) {
	w := &engineWindow{}
	for _, opt := range []WindowBuilderOption{
		WithTitle("arena"),
		WithWidth(800),
		WithHeight(600),
		WithMinWidth(320),
		WithMinHeight(240),
		WithMaxWidth(1920),
		WithMaxHeight(1080),
		WithLogger(nil),
	} {
		opt(w)
	}

	assert.Equal(t, "arena", w.title)
	assert.Equal(t, 800, w.width)
	assert.Equal(t, 600, w.height)
	assert.Equal(t, [4]int{320, 240, 1920, 1080}, [4]int{w.minWidth, w.minHeight, w.maxWidth, w.maxHeight})
	assert.Nil(t, w.logger, "a nil logger is ignored")
}

func TestCallbacksAreStored(t *testing.T) {
	w := &engineWindow{}
	var focus []bool
	w.SetFocusCallback(func(focused bool) { focus = append(focus, focused) })
	w.onFocus(false)
	w.onFocus(true)
	assert.Equal(t, []bool{false, true}, focus)

	assert.False(t, w.IsRunning(), "no platform window yet")
	assert.Error(t, w.Close())
}
