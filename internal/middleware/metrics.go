package middleware

import (
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/marketplace/grocery-api/internal/metrics"
)

// Metrics records request count and latency by method, route and status.
// The route template is used as label so ids do not explode cardinality.
func Metrics(m *metrics.Metrics) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            start := time.Now()
            err := next(c)
            status := c.Response().Status
            if err != nil {
                if he, ok := err.(*echo.HTTPError); ok {
                    status = he.Code
                } else {
                    status = 500
                }
            }
            path := c.Path()
            if path == "" {
                path = "unmatched"
            }
            labels := []string{c.Request().Method, path, strconv.Itoa(status)}
            m.HTTPRequestsTotal.WithLabelValues(labels...).Inc()
            m.HTTPRequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
            return err
        }
    }
}
