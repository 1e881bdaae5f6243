package middleware

import (
    "net/http"

    "github.com/labstack/echo/v4"
)

// RequireRole lets the request through only when the authenticated admin
// holds one of roles.  It must run after Authenticate; callers without an
// identity get 401, callers with another role (or users) get 403.
func RequireRole(roles ...string) echo.MiddlewareFunc {
    allowed := make(map[string]bool, len(roles))
    for _, r := range roles {
        allowed[r] = true
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            id := CurrentIdentity(c)
            if id == nil {
                return unauthorized(c, "Unauthorized User")
            }
            if !allowed[id.Role] {
                return c.JSON(http.StatusForbidden, echo.Map{"success": false, "message": "Forbidden: insufficient role"})
            }
            return next(c)
        }
    }
}
