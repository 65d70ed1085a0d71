package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		encoding string
		enabled  zapcore.Level
		wantErr  bool
	}{
		{"defaults", "", "", zapcore.InfoLevel, false},
		{"debug json", "debug", EncodingJSON, zapcore.DebugLevel, false},
		{"warn console", "warn", EncodingConsole, zapcore.WarnLevel, false},
		{"bad level", "loud", "", 0, true},
		{"bad encoding", "info", "xml", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.level, tt.encoding)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, l.Core().Enabled(tt.enabled))
			assert.False(t, l.Core().Enabled(tt.enabled-1))
		})
	}
}

func TestNop(t *testing.T) {
	assert.False(t, Nop().Core().Enabled(zapcore.FatalLevel))
}
