package middleware

import (
    "context"
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/alicebob/miniredis/v2"
    "github.com/labstack/echo/v4"
    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/testutil"
    "github.com/redis/go-redis/v9"

    "github.com/marketplace/grocery-api/internal/config"
    "github.com/marketplace/grocery-api/internal/metrics"
    "github.com/marketplace/grocery-api/internal/model"
    "github.com/marketplace/grocery-api/internal/repository"
    "github.com/marketplace/grocery-api/internal/service"
)

func resolveAdmin(role string) Resolver {
    return func(_ context.Context, id uint64) (*model.Identity, error) {
        if id != 7 {
            return nil, repository.ErrNotFound
        }
        a := &model.Admin{ID: id, Role: role}
        return &model.Identity{Kind: model.SubjectAdmin, ID: id, Role: role, Admin: a}, nil
    }
}

func gateServer(t *testing.T, source TokenSource, role string, roles ...string) (*echo.Echo, *service.TokenIssuer, *metrics.Metrics) {
    t.Helper()
    issuer := service.NewTokenIssuer("test-secret", time.Hour)
    m := metrics.New(prometheus.NewRegistry(), "test")
    e := echo.New()
    mws := []echo.MiddlewareFunc{Authenticate(model.SubjectAdmin, issuer, resolveAdmin(role), source, m)}
    if len(roles) > 0 {
        mws = append(mws, RequireRole(roles...))
    }
    e.GET("/p", func(c echo.Context) error {
        return c.JSON(http.StatusOK, echo.Map{"id": CurrentAdmin(c).ID})
    }, mws...)
    return e, issuer, m
}

func do(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, req)
    return rec
}

func TestAuthenticateRejects(t *testing.T) {
    e, issuer, m := gateServer(t, CookieFirst, model.RoleAdmin)
    userTok, _ := issuer.Issue(model.SubjectUser, 7, "")
    ghostTok, _ := issuer.Issue(model.SubjectAdmin, 99, model.RoleAdmin)
    expired, _ := service.NewTokenIssuer("test-secret", -time.Minute).Issue(model.SubjectAdmin, 7, model.RoleAdmin)

    cases := map[string]string{
        "missing":        "",
        "garbage":        "Bearer not-a-token",
        "wrong kind":     "Bearer " + userTok.Token,
        "unknown":        "Bearer " + ghostTok.Token,
        "expired":        "Bearer " + expired.Token,
    }
    for name, header := range cases {
        req := httptest.NewRequest(http.MethodGet, "/p", nil)
        if header != "" {
            req.Header.Set(echo.HeaderAuthorization, header)
        }
        if rec := do(e, req); rec.Code != http.StatusUnauthorized {
            t.Errorf("%s: got %d, want 401", name, rec.Code)
        }
    }
    if got := testutil.ToFloat64(m.AuthAttempts.WithLabelValues("admin", "invalid")); got != 3 {
        t.Errorf("invalid attempts = %v, want 3", got)
    }
}

func TestAuthenticateSources(t *testing.T) {
    e, issuer, _ := gateServer(t, CookieFirst, model.RoleAdmin)
    tok, _ := issuer.Issue(model.SubjectAdmin, 7, model.RoleAdmin)

    req := httptest.NewRequest(http.MethodGet, "/p", nil)
    req.AddCookie(&http.Cookie{Name: TokenCookie, Value: tok.Token})
    req.Header.Set(echo.HeaderAuthorization, "Bearer junk")
    if rec := do(e, req); rec.Code != http.StatusOK {
        t.Fatalf("cookie should win: %d %s", rec.Code, rec.Body)
    }

    h, _, _ := gateServer(t, HeaderOnly, model.RoleAdmin)
    req = httptest.NewRequest(http.MethodGet, "/p", nil)
    req.AddCookie(&http.Cookie{Name: TokenCookie, Value: tok.Token})
    if rec := do(h, req); rec.Code != http.StatusUnauthorized {
        t.Fatalf("header-only gate accepted a cookie: %d", rec.Code)
    }
    req.Header.Set(echo.HeaderAuthorization, "bearer "+tok.Token)
    if rec := do(h, req); rec.Code != http.StatusOK {
        t.Fatalf("header token rejected: %d", rec.Code)
    }
}

func TestRequireRole(t *testing.T) {
    e, issuer, _ := gateServer(t, CookieFirst, model.RoleAdmin, model.RoleSuperAdmin)
    tok, _ := issuer.Issue(model.SubjectAdmin, 7, model.RoleAdmin)
    req := httptest.NewRequest(http.MethodGet, "/p", nil)
    req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok.Token)
    if rec := do(e, req); rec.Code != http.StatusForbidden {
        t.Fatalf("got %d, want 403", rec.Code)
    }

    e, issuer, _ = gateServer(t, CookieFirst, model.RoleSuperAdmin, model.RoleSuperAdmin)
    tok, _ = issuer.Issue(model.SubjectAdmin, 7, model.RoleSuperAdmin)
    req = httptest.NewRequest(http.MethodGet, "/p", nil)
    req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok.Token)
    if rec := do(e, req); rec.Code != http.StatusOK {
        t.Fatalf("got %d, want 200", rec.Code)
    }
}

func TestRequestIDEchoed(t *testing.T) {
    e := echo.New()
    e.Use(RequestID)
    e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

    rec := do(e, httptest.NewRequest(http.MethodGet, "/", nil))
    if rec.Header().Get("X-Request-ID") == "" {
        t.Fatal("no request id generated")
    }
    req := httptest.NewRequest(http.MethodGet, "/", nil)
    req.Header.Set("X-Request-ID", "abc")
    if got := do(e, req).Header().Get("X-Request-ID"); got != "abc" {
        t.Fatalf("request id = %q", got)
    }
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
    t.Helper()
    mr := miniredis.RunT(t)
    rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
    t.Cleanup(func() { rdb.Close() })
    return mr, rdb
}

func TestCacheHitAndPurge(t *testing.T) {
    mr, rdb := newRedis(t)
    cfg := config.CacheConfig{Enabled: true, Methods: map[string]bool{"GET": true}, TTL: time.Minute, Prefix: "t:cache"}

    calls := 0
    e := echo.New()
    e.Use(NewRedisCache(cfg, rdb))
    e.GET("/markets", func(c echo.Context) error {
        calls++
        return c.JSON(http.StatusOK, echo.Map{"calls": calls})
    })
    e.DELETE("/markets/:id", func(c echo.Context) error { return c.JSON(http.StatusOK, echo.Map{"success": true}) })

    first := do(e, httptest.NewRequest(http.MethodGet, "/markets", nil))
    second := do(e, httptest.NewRequest(http.MethodGet, "/markets", nil))
    if second.Header().Get("X-Cache") != "HIT" || second.Body.String() != first.Body.String() {
        t.Fatalf("expected cached body, got %q (%s)", second.Body, second.Header().Get("X-Cache"))
    }
    if calls != 1 {
        t.Fatalf("handler ran %d times", calls)
    }

    do(e, httptest.NewRequest(http.MethodDelete, "/markets/1", nil))
    if keys := mr.Keys(); len(keys) != 0 {
        t.Fatalf("cache not purged: %v", keys)
    }
    do(e, httptest.NewRequest(http.MethodGet, "/markets", nil))
    if calls != 2 {
        t.Fatalf("handler ran %d times after purge", calls)
    }

    req := httptest.NewRequest(http.MethodGet, "/markets", nil)
    req.Header.Set(echo.HeaderAuthorization, "Bearer x")
    if rec := do(e, req); rec.Header().Get("X-Cache") != "" {
        t.Fatalf("authenticated read went through the cache")
    }
}

func TestTokenBucket(t *testing.T) {
    _, rdb := newRedis(t)
    cfg := config.RateLimitConfig{Enabled: true, Capacity: 2, RefillTokens: 1, RefillInterval: time.Hour, TTL: time.Hour, Prefix: "t:rl"}

    e := echo.New()
    e.Use(NewTokenBucket(cfg, rdb))
    e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

    for i := 0; i < 2; i++ {
        if rec := do(e, httptest.NewRequest(http.MethodGet, "/", nil)); rec.Code != http.StatusNoContent {
            t.Fatalf("request %d: %d", i, rec.Code)
        }
    }
    rec := do(e, httptest.NewRequest(http.MethodGet, "/", nil))
    if rec.Code != http.StatusTooManyRequests || rec.Header().Get("Retry-After") == "" {
        t.Fatalf("got %d, retry-after %q", rec.Code, rec.Header().Get("Retry-After"))
    }
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
    m := metrics.New(prometheus.NewRegistry(), "test")
    e := echo.New()
    e.Use(Metrics(m))
    e.GET("/markets/:id", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

    do(e, httptest.NewRequest(http.MethodGet, "/markets/1", nil))
    do(e, httptest.NewRequest(http.MethodGet, "/markets/2", nil))
    if got := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/markets/:id", "200")); got != 2 {
        t.Fatalf("requests = %v", got)
    }
}
