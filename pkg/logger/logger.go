package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger wraps slog.Logger with additional functionality
type Logger struct {
	*slog.Logger
}

// New creates a new logger instance
func New() *Logger {
	level := getLogLevel(os.Getenv("LOG_LEVEL"))

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	// Text handler for development, JSON for production
	var handler slog.Handler
	if gin.Mode() == gin.DebugMode {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// getLogLevel converts string to slog.Level
func getLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithCartID adds the caller's cart id to logger context
func (l *Logger) WithCartID(cartID string) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("cart_id", cartID)),
	}
}

// WithError adds error to logger context
func (l *Logger) WithError(err error) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("error", err.Error())),
	}
}

// WithFields adds multiple fields to logger context
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	return &Logger{
		Logger: l.Logger.With(args...),
	}
}

// HTTP logging methods

// LogHTTPRequest logs an HTTP request
func (l *Logger) LogHTTPRequest(c *gin.Context, duration time.Duration) {
	l.Logger.InfoContext(c.Request.Context(),
		"HTTP Request",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("query", c.Request.URL.RawQuery),
		slog.Int("status", c.Writer.Status()),
		slog.Duration("duration", duration),
		slog.String("ip", c.ClientIP()),
		slog.Int("size", c.Writer.Size()),
	)
}

// Business logic logging methods

// LogAssignmentCommitted logs a committed seat assignment batch
func (l *Logger) LogAssignmentCommitted(ctx context.Context, eventID, cartID string, seats int) {
	l.Logger.InfoContext(ctx,
		"Seat Assignment Committed",
		slog.String("event_id", eventID),
		slog.String("cart_id", cartID),
		slog.Int("seats", seats),
	)
}

// LogAssignmentRejected logs a rejected seat assignment batch
func (l *Logger) LogAssignmentRejected(ctx context.Context, eventID, cartID, reason string) {
	l.Logger.WarnContext(ctx,
		"Seat Assignment Rejected",
		slog.String("event_id", eventID),
		slog.String("cart_id", cartID),
		slog.String("reason", reason),
	)
}

// LogSeatsGenerated logs seat generation at plan activation
func (l *Logger) LogSeatsGenerated(ctx context.Context, eventID, planID string, count int) {
	l.Logger.InfoContext(ctx,
		"Seats Generated",
		slog.String("event_id", eventID),
		slog.String("plan_id", planID),
		slog.Int("count", count),
	)
}

// LogLayoutParseFailure logs an unparsable layout payload. The caller
// degrades to the empty layout, so this is the only trace of the problem.
func (l *Logger) LogLayoutParseFailure(ctx context.Context, planID string, err error) {
	l.Logger.WarnContext(ctx,
		"Layout Parse Failure",
		slog.String("plan_id", planID),
		slog.String("error", err.Error()),
	)
}

// LogCartSweep logs a sweeper pass over expired cart rows
func (l *Logger) LogCartSweep(ctx context.Context, reclaimed int64) {
	l.Logger.DebugContext(ctx,
		"Cart Sweep",
		slog.Int64("reclaimed", reclaimed),
	)
}

// Helper methods for common patterns

// InfoWithContext logs an info message with context
func (l *Logger) InfoWithContext(ctx context.Context, msg string, fields map[string]interface{}) {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	l.Logger.InfoContext(ctx, msg, args...)
}

// ErrorWithContext logs an error message with context
func (l *Logger) ErrorWithContext(ctx context.Context, msg string, err error, fields map[string]interface{}) {
	args := make([]interface{}, 0, len(fields)*2+2)
	args = append(args, slog.String("error", err.Error()))
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	l.Logger.ErrorContext(ctx, msg, args...)
}

// Global logger instance (can be replaced with dependency injection)
var defaultLogger = New()

// GetDefault returns the default logger instance
func GetDefault() *Logger {
	return defaultLogger
}

// SetDefault sets the default logger instance
func SetDefault(logger *Logger) {
	defaultLogger = logger
}
