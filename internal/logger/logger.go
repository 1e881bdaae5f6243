// Package logger configures the process-wide zap logger and hands out
// request-scoped loggers.
package logger

import (
	"context"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RequestIDKey is both the header and the echo context key carrying the
// request id.
const RequestIDKey = "X-Request-ID"

const contextKey = "logger"

// Init builds the logger for env ("production" gives JSON output, anything
// else a coloured console) at the given level, installs it as the zap
// global and returns it.  An unknown level falls back to info.
func Init(level, env string) (*zap.Logger, error) {
	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level.SetLevel(lvl)

	log, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(log)
	return log, nil
}

// Attach stores a request-scoped logger on c.
func Attach(c echo.Context, log *zap.Logger) { c.Set(contextKey, log) }

// FromEcho returns the request-scoped logger, or the global logger tagged
// with whatever request id is known.
func FromEcho(c echo.Context) *zap.Logger {
	if log, ok := c.Get(contextKey).(*zap.Logger); ok {
		return log
	}
	id, _ := c.Get(RequestIDKey).(string)
	if id == "" {
		id = c.Request().Header.Get(RequestIDKey)
	}
	if id == "" {
		return zap.L()
	}
	return zap.L().With(zap.String("request_id", id))
}

type requestIDCtxKey struct{}

// WithRequestID returns ctx carrying the request id, for code that only
// sees the standard context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDCtxKey{}, id)
}

// RequestIDFrom returns the request id stored by WithRequestID, or "".
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDCtxKey{}).(string)
	return id
}
