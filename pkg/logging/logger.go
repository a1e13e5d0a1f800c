package logging

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Fields represents structured log fields
type Fields map[string]interface{}

type ctxKey string

// RequestIDKey is the context key under which the request middleware stores
// the per-request identifier.
const RequestIDKey ctxKey = "request_id"

// StructuredLogger provides structured JSON logging with context.
// It keeps a small Fields-based API over a zap core so call sites stay
// independent of the logging backend.
type StructuredLogger struct {
	base    *zap.Logger
	service string
	version string
}

// ParseLevel converts a config level string to a zap level, defaulting to info.
func ParseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// NewStructuredLogger creates a new structured logger for the given service.
func NewStructuredLogger(service, version string, level zapcore.Level) *StructuredLogger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "timestamp"
	encCfg.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	encCfg.MessageKey = "message"

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encCfg),
		zapcore.Lock(os.Stdout),
		level,
	)

	hostname, _ := os.Hostname()

	base := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).With(
		zap.String("service", service),
		zap.String("version", version),
		zap.String("hostname", hostname),
	)

	return &StructuredLogger{
		base:    base,
		service: service,
		version: version,
	}
}

// NewNop returns a logger that discards everything. Intended for tests.
func NewNop() *StructuredLogger {
	return &StructuredLogger{base: zap.NewNop()}
}

// Debug logs a debug message with structured fields
func (l *StructuredLogger) Debug(ctx context.Context, message string, fields Fields) {
	l.base.Debug(message, l.zapFields(ctx, fields, nil)...)
}

// Info logs an info message with structured fields
func (l *StructuredLogger) Info(ctx context.Context, message string, fields Fields) {
	l.base.Info(message, l.zapFields(ctx, fields, nil)...)
}

// Warn logs a warning message with structured fields
func (l *StructuredLogger) Warn(ctx context.Context, message string, fields Fields) {
	l.base.Warn(message, l.zapFields(ctx, fields, nil)...)
}

// Error logs an error message with structured fields and error details
func (l *StructuredLogger) Error(ctx context.Context, message string, fields Fields, err error) {
	l.base.Error(message, l.zapFields(ctx, fields, err)...)
}

// Fatal logs a fatal message and exits the program
func (l *StructuredLogger) Fatal(ctx context.Context, message string, fields Fields, err error) {
	l.base.Fatal(message, l.zapFields(ctx, fields, err)...)
}

// Sync flushes buffered log entries.
func (l *StructuredLogger) Sync() {
	_ = l.base.Sync()
}

func (l *StructuredLogger) zapFields(ctx context.Context, fields Fields, err error) []zap.Field {
	out := make([]zap.Field, 0, len(fields)+2)

	if ctx != nil {
		if requestID, ok := ctx.Value(RequestIDKey).(string); ok && requestID != "" {
			out = append(out, zap.String("request_id", requestID))
		}
	}

	for k, v := range fields {
		out = append(out, zap.Any(k, v))
	}

	if err != nil {
		out = append(out, zap.Error(err))
	}

	return out
}

// WithFields creates a new logger with additional fields attached to every entry
func (l *StructuredLogger) WithFields(fields Fields) *StructuredLogger {
	zf := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		zf = append(zf, zap.Any(k, v))
	}
	return &StructuredLogger{
		base:    l.base.With(zf...),
		service: l.service,
		version: l.version,
	}
}
