package middleware

import (
    "context"
    "errors"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"
    "go.uber.org/zap"

    "github.com/marketplace/grocery-api/internal/logger"
    "github.com/marketplace/grocery-api/internal/metrics"
    "github.com/marketplace/grocery-api/internal/model"
    "github.com/marketplace/grocery-api/internal/repository"
)

// TokenCookie is the cookie login sets.
const TokenCookie = "token"

// TokenSource selects where the Auth Gate looks for the token.
type TokenSource int

const (
    // CookieFirst reads the token cookie and falls back to the
    // Authorization header.
    CookieFirst TokenSource = iota
    // HeaderOnly accepts only "Authorization: Bearer <token>".
    HeaderOnly
)

// Verifier checks a raw token for the expected subject kind and returns
// the subject id.
type Verifier interface {
    Verify(raw string, want model.SubjectKind) (uint64, error)
}

// Resolver loads the identity for a subject id.  It returns
// repository.ErrNotFound when the subject no longer exists.
type Resolver func(ctx context.Context, id uint64) (*model.Identity, error)

// Authenticate is the Auth Gate.  It extracts the token from source,
// verifies it was issued for kind, resolves the subject with one lookup and
// attaches the identity to the request.  Missing, invalid, expired or
// unresolvable tokens are rejected with 401.  m may be nil.
func Authenticate(kind model.SubjectKind, verifier Verifier, resolve Resolver, source TokenSource, m *metrics.Metrics) echo.MiddlewareFunc {
    observe := func(outcome string) {
        if m != nil {
            m.AuthAttempts.WithLabelValues(string(kind), outcome).Inc()
        }
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            raw := extractToken(c, source)
            if raw == "" {
                observe("missing")
                return unauthorized(c, "Unauthorized User")
            }
            id, err := verifier.Verify(raw, kind)
            if err != nil {
                observe("invalid")
                return unauthorized(c, "Invalid token")
            }
            ident, err := resolve(c.Request().Context(), id)
            switch {
            case errors.Is(err, repository.ErrNotFound):
                observe("unknown_subject")
                return unauthorized(c, "User not found")
            case err != nil:
                observe(metrics.Fail)
                logger.FromEcho(c).Error("resolve identity", zap.Error(err))
                return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Internal server error"})
            }
            observe(metrics.OK)
            SetIdentity(c, ident)
            return next(c)
        }
    }
}

func extractToken(c echo.Context, source TokenSource) string {
    if source == CookieFirst {
        if ck, err := c.Cookie(TokenCookie); err == nil && ck.Value != "" {
            return ck.Value
        }
    }
    h := c.Request().Header.Get(echo.HeaderAuthorization)
    if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
        return strings.TrimSpace(h[7:])
    }
    return ""
}

func unauthorized(c echo.Context, msg string) error {
    return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": msg})
}

// Optional runs gate only when the request carries a token, so anonymous
// callers pass through with no identity while a bad token is still
// rejected.
func Optional(gate echo.MiddlewareFunc, source TokenSource) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        gated := gate(next)
        return func(c echo.Context) error {
            if extractToken(c, source) == "" {
                return next(c)
            }
            return gated(c)
        }
    }
}
