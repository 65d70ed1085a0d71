// Package logger builds the zap logger shared by the engine.
package logger

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-arena/common"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Encoding names accepted by New.
const (
	EncodingJSON    = "json"
	EncodingConsole = "console"
)

// New builds a production zap logger writing to stderr.
//
// Parameters:
//   - level: one of debug, info, warn, error; empty means info
//   - encoding: EncodingJSON or EncodingConsole; empty means console
//
// Returns:
//   - *zap.Logger: the logger
//   - error: an error if level or encoding is unknown
func New(level, encoding string) (*zap.Logger, error) {
	lvl := zapcore.InfoLevel
	if level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
	}
	encoding = common.Coalesce(encoding, EncodingConsole)
	switch encoding {
	case EncodingJSON, EncodingConsole:
	default:
		return nil, fmt.Errorf("invalid log encoding %q", encoding)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if encoding == EncodingConsole {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	config := zap.Config{
		Level:       zap.NewAtomicLevelAt(lvl),
		Development: false,
		Sampling: &zap.SamplingConfig{
			Initial:    100,
			Thereafter: 100,
		},
		Encoding:         encoding,
		EncoderConfig:    encoderConfig,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		DisableCaller:    true,
	}
	return config.Build()
}

// Nop returns a logger that discards everything.
func Nop() *zap.Logger {
	return zap.NewNop()
}
