// internal/logger/rotating.go
package logger

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type RotationConfig struct {
	LogFile    string
	MaxSize    int // megabytes
	MaxAge     int // days
	MaxBackups int
	Compress   bool
}

// DefaultRotationConfig returns rotation settings for path.
func DefaultRotationConfig(path string) RotationConfig {
	return RotationConfig{
		LogFile:    path,
		MaxSize:    10,
		MaxAge:     7,
		MaxBackups: 3,
		Compress:   true,
	}
}

// NewRotating returns a size rotated log file writer. The file and its
// directory are created on first write.
func NewRotating(cfg RotationConfig) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}
}

// WithFile tees l into a JSON encoded core writing to w.
func WithFile(l *zap.Logger, w io.Writer, debug bool) *zap.Logger {
	if w == nil {
		return l
	}
	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(jsonEncoderConfig()),
		zapcore.AddSync(w),
		levelFor(debug),
	)
	return l.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return zapcore.NewTee(c, fileCore)
	}))
}
