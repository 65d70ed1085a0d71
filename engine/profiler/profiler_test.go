package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestTickReportsOncePerInterval(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	now := time.Unix(0, 0)
	p := NewProfiler(
		WithLogger(zap.New(core)),
		WithInterval(time.Second),
		WithClock(func() time.Time { return now }))

	for range 49 {
		now = now.Add(20 * time.Millisecond)
		assert.False(t, p.Tick())
	}
	now = now.Add(20 * time.Millisecond)
	assert.True(t, p.Tick())
	assert.InDelta(t, 50, p.Last().FPS, 1e-9)
	assert.Equal(t, 1, logs.FilterMessage("frame stats").Len())

	now = now.Add(20 * time.Millisecond)
	assert.False(t, p.Tick(), "the window restarts after a report")
}
