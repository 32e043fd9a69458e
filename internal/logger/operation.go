package logger

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WithOperation returns a logger tagged with the operation name and a fresh correlation id.
func WithOperation(l *zap.Logger, operation string) *zap.Logger {
	return l.With(
		zap.String("operation", operation),
		zap.String("correlation_id", uuid.New().String()),
	)
}

// TrackPerformance logs the start and duration of an operation at debug level.
func TrackPerformance(l *zap.Logger, operation string) (opLogger *zap.Logger, end func()) {
	start := time.Now()
	opLogger = WithOperation(l, operation)
	opLogger.Debug("Starting operation")

	return opLogger, func() {
		duration := time.Since(start)
		opLogger.Debug("Operation completed",
			zap.Duration("duration", duration),
			zap.Float64("duration_ms", float64(duration.Microseconds())/1000))
	}
}
