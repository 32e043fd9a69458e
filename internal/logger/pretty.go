// internal/logger/pretty.go
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Colors for terminal output
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorCyan   = "\033[36m"
	ColorBold   = "\033[1m"
)

func prettyEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		MessageKey:     "msg",
		LevelKey:       "level",
		TimeKey:        "time",
		CallerKey:      "",
		StacktraceKey:  "",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    customLevelEncoder,
		EncodeTime:     customTimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
}

// PrettyEncoder creates a user-friendly console encoder
func PrettyEncoder() zapcore.Encoder {
	return zapcore.NewConsoleEncoder(prettyEncoderConfig())
}

// customLevelEncoder formats log levels with colors
func customLevelEncoder(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	switch level {
	case zapcore.DebugLevel:
		enc.AppendString(fmt.Sprintf("%s[DEBUG]%s", ColorCyan, ColorReset))
	case zapcore.InfoLevel:
		enc.AppendString(fmt.Sprintf("%s[INFO]%s", ColorGreen, ColorReset))
	case zapcore.WarnLevel:
		enc.AppendString(fmt.Sprintf("%s[WARN]%s", ColorYellow, ColorReset))
	case zapcore.ErrorLevel:
		enc.AppendString(fmt.Sprintf("%s[ERROR]%s", ColorRed, ColorReset))
	case zapcore.FatalLevel:
		enc.AppendString(fmt.Sprintf("%s[FATAL]%s", ColorRed+ColorBold, ColorReset))
	default:
		enc.AppendString(fmt.Sprintf("[%s]", level.CapitalString()))
	}
}

// customTimeEncoder formats time in a readable way
func customTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("15:04:05"))
}

func levelFor(debug bool) zapcore.Level {
	if debug {
		return zap.DebugLevel
	}
	return zap.InfoLevel
}

// CreatePrettyLogger creates a logger with user-friendly output on stderr.
// Without debug, structured fields are dropped and known messages are reworded.
func CreatePrettyLogger(debug bool) (*zap.Logger, error) {
	return NewPrettyLogger(os.Stderr, debug), nil
}

// NewPrettyLogger is CreatePrettyLogger with an explicit destination.
func NewPrettyLogger(w io.Writer, debug bool) *zap.Logger {
	core := zapcore.NewCore(
		PrettyEncoder(),
		zapcore.AddSync(zapcore.Lock(zapcore.AddSync(w))),
		levelFor(debug),
	)
	if debug {
		return zap.New(core)
	}
	return zap.New(&FieldFilterCore{core: core})
}

// FormatMessage creates user-friendly log messages
func FormatMessage(msg string, fields ...zapcore.Field) string {
	switch {
	case strings.Contains(msg, "Prices fetched"):
		ids := extractField(fields, "ids")
		return fmt.Sprintf("%s↓ Prices fetched for %s%s", ColorBlue, ids, ColorReset)

	case strings.Contains(msg, "Market list fetched"):
		count := extractField(fields, "count")
		return fmt.Sprintf("%s↓ Loaded %s markets%s", ColorBlue, count, ColorReset)

	case strings.Contains(msg, "Price unavailable"):
		asset := extractField(fields, "asset")
		return fmt.Sprintf("%s⚠ Price unavailable for %s%s", ColorYellow, asset, ColorReset)

	case strings.Contains(msg, "Result exported"):
		file := extractField(fields, "file")
		return fmt.Sprintf("%s✓ Result exported to %s%s", ColorGreen, file, ColorReset)

	case strings.Contains(msg, "Calculation unavailable"):
		reason := extractField(fields, "error")
		return fmt.Sprintf("%s✗ Calculation unavailable: %s%s", ColorRed, reason, ColorReset)

	default:
		return msg
	}
}

func extractField(fields []zapcore.Field, key string) string {
	for _, field := range fields {
		if field.Key != key {
			continue
		}
		switch {
		case field.String != "":
			return field.String
		case field.Interface != nil:
			if err, ok := field.Interface.(error); ok {
				return err.Error()
			}
			return fmt.Sprintf("%v", field.Interface)
		default:
			return fmt.Sprintf("%d", field.Integer)
		}
	}
	return ""
}

// FieldFilterCore wraps a zapcore.Core, drops structured fields and rewords
// the message with FormatMessage.
type FieldFilterCore struct {
	core   zapcore.Core
	fields []zapcore.Field
}

func (c *FieldFilterCore) Enabled(level zapcore.Level) bool {
	return c.core.Enabled(level)
}

func (c *FieldFilterCore) With(fields []zapcore.Field) zapcore.Core {
	merged := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	merged = append(merged, c.fields...)
	merged = append(merged, fields...)
	return &FieldFilterCore{core: c.core, fields: merged}
}

func (c *FieldFilterCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}
	return checked
}

func (c *FieldFilterCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	all := append(append([]zapcore.Field{}, c.fields...), fields...)
	cleanEntry := entry
	cleanEntry.Message = FormatMessage(entry.Message, all...)
	return c.core.Write(cleanEntry, nil)
}

func (c *FieldFilterCore) Sync() error {
	return c.core.Sync()
}

// CreateTUILoggerWithBuffer creates a TUI-compatible logger that writes to the
// buffer and, when file is non-nil, to a JSON log file. Nothing goes to the terminal.
func CreateTUILoggerWithBuffer(debug bool, buffer *LogBuffer, file io.Writer) (*zap.Logger, error) {
	if buffer == nil {
		return nil, fmt.Errorf("buffer is required for TUI logger")
	}

	level := levelFor(debug)
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewJSONEncoder(jsonEncoderConfig()), zapcore.AddSync(buffer), level),
	}
	if file != nil {
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(jsonEncoderConfig()), zapcore.AddSync(file), level))
	}

	return zap.New(zapcore.NewTee(cores...)), nil
}

func jsonEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		MessageKey:     "msg",
		LevelKey:       "level",
		TimeKey:        "time",
		NameKey:        "logger",
		CallerKey:      "",
		StacktraceKey:  "",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	}
}
