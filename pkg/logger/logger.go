package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

// Logger is the process-wide structured logger. It is a disabled logger until Init runs.
var Logger = zerolog.Nop()

// Options configures Init
type Options struct {
	Level  string
	Pretty bool
	Output io.Writer
}

type viewerKey struct{}

// Init initializes the global logger for the given service
func Init(serviceName string, opts Options) {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	output := opts.Output
	if output == nil {
		output = os.Stdout
	}

	if opts.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: "15:04:05",
		}
	}

	Logger = zerolog.New(output).
		Level(ParseLevel(opts.Level)).
		With().
		Timestamp().
		Str("service", serviceName).
		Logger()

	log.Logger = Logger
}

// ParseLevel maps a config level name to a zerolog level, defaulting to info
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// ContextWithViewer tags ctx so that WithContext adds the viewer id to every line
func ContextWithViewer(ctx context.Context, viewerID string) context.Context {
	return context.WithValue(ctx, viewerKey{}, viewerID)
}

// WithContext returns a logger enriched with trace and viewer information from ctx
func WithContext(ctx context.Context) *zerolog.Logger {
	lc := Logger.With()

	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		lc = lc.
			Str("trace_id", span.SpanContext().TraceID().String()).
			Str("span_id", span.SpanContext().SpanID().String())
	}

	if viewerID, ok := ctx.Value(viewerKey{}).(string); ok && viewerID != "" {
		lc = lc.Str("viewer_id", viewerID)
	}

	l := lc.Logger()
	return &l
}

// Info logs at info level with context
func Info(ctx context.Context) *zerolog.Event {
	return WithContext(ctx).Info()
}

// Error logs at error level with context
func Error(ctx context.Context) *zerolog.Event {
	return WithContext(ctx).Error()
}

// Debug logs at debug level with context
func Debug(ctx context.Context) *zerolog.Event {
	return WithContext(ctx).Debug()
}

// Warn logs at warn level with context
func Warn(ctx context.Context) *zerolog.Event {
	return WithContext(ctx).Warn()
}
