package middleware

import (
    "time"

    "github.com/labstack/echo/v4"
    "go.uber.org/zap"

    "github.com/marketplace/grocery-api/internal/logger"
)

// RequestLogger attaches a request-scoped logger (tagged with the request
// id) and logs one line per request once the handler returns.
func RequestLogger(base *zap.Logger) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            start := time.Now()
            id, _ := c.Get(logger.RequestIDKey).(string)
            log := base.With(zap.String("request_id", id))
            logger.Attach(c, log)

            err := next(c)
            if err != nil {
                // let echo write the error response so the status below is final
                c.Error(err)
            }

            fields := []zap.Field{
                zap.String("method", c.Request().Method),
                zap.String("path", c.Request().URL.Path),
                zap.Int("status", c.Response().Status),
                zap.Duration("latency", time.Since(start)),
                zap.String("ip", c.RealIP()),
            }
            if err != nil {
                log.Error("HTTP request failed", append(fields, zap.Error(err))...)
            } else {
                log.Info("HTTP request completed", fields...)
            }
            return nil
        }
    }
}
