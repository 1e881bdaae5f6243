package middleware

import (
    "github.com/google/uuid"
    "github.com/labstack/echo/v4"

    "github.com/marketplace/grocery-api/internal/logger"
)

// RequestID makes sure every request carries an X-Request-ID, generating
// one when the client sent none, and echoes it on the response.
func RequestID(next echo.HandlerFunc) echo.HandlerFunc {
    return func(c echo.Context) error {
        id := c.Request().Header.Get(logger.RequestIDKey)
        if id == "" {
            id = uuid.NewString()
            c.Request().Header.Set(logger.RequestIDKey, id)
        }
        c.Response().Header().Set(logger.RequestIDKey, id)
        c.Set(logger.RequestIDKey, id)
        c.SetRequest(c.Request().WithContext(logger.WithRequestID(c.Request().Context(), id)))
        return next(c)
    }
}
