package middleware

import (
    "github.com/labstack/echo/v4"

    "github.com/marketplace/grocery-api/internal/model"
)

// identityKey is the echo context key the Auth Gate stores the caller under.
const identityKey = "identity"

// SetIdentity attaches id to the request.
func SetIdentity(c echo.Context, id *model.Identity) { c.Set(identityKey, id) }

// CurrentIdentity returns the authenticated caller, or nil on public routes.
func CurrentIdentity(c echo.Context) *model.Identity {
    id, _ := c.Get(identityKey).(*model.Identity)
    return id
}

// CurrentAdmin returns the calling admin, or nil when the caller is not one.
func CurrentAdmin(c echo.Context) *model.Admin {
    if id := CurrentIdentity(c); id != nil && id.Kind == model.SubjectAdmin {
        return id.Admin
    }
    return nil
}

// CurrentUser returns the calling user, or nil when the caller is not one.
func CurrentUser(c echo.Context) *model.User {
    if id := CurrentIdentity(c); id != nil && id.Kind == model.SubjectUser {
        return id.User
    }
    return nil
}
