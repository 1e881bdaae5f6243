package handler

import (
    "context"
    "errors"
    "mime/multipart"
    "net/http"
    "net/url"
    "strconv"
    "strings"

    "github.com/labstack/echo/v4"
    "go.uber.org/zap"

    "github.com/marketplace/grocery-api/internal/logger"
    "github.com/marketplace/grocery-api/internal/repository"
    "github.com/marketplace/grocery-api/internal/validation"
)

var errBadID = errors.New("invalid id")

// success writes {success:true, message, key: value}.  An empty key omits
// the payload.
func success(c echo.Context, status int, msg, key string, value any) error {
    body := echo.Map{"success": true, "message": msg}
    if key != "" {
        body[key] = value
    }
    return c.JSON(status, body)
}

// fail writes {success:false, message}.
func fail(c echo.Context, status int, msg string) error {
    return c.JSON(status, echo.Map{"success": false, "message": msg})
}

// respondError maps err onto the error taxonomy.  notFound is the message
// used for a missing entity.
func respondError(c echo.Context, err error, notFound string) error {
    var verrs validation.Errors
    switch {
    case errors.As(err, &verrs):
        return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Validation failed", "errors": verrs})
    case errors.Is(err, errBadID):
        return fail(c, http.StatusBadRequest, "Invalid id")
    case errors.Is(err, repository.ErrNotFound):
        return fail(c, http.StatusNotFound, notFound)
    case errors.Is(err, repository.ErrForbidden):
        return fail(c, http.StatusForbidden, "Forbidden")
    case errors.Is(err, repository.ErrConflict):
        return fail(c, http.StatusBadRequest, "Already exists")
    case errors.Is(err, repository.ErrDuplicate):
        return fail(c, http.StatusBadRequest, "Duplicate value")
    }
    logger.FromEcho(c).Error("request failed", zap.Error(err))
    return fail(c, http.StatusInternalServerError, "Internal server error")
}

// runChain returns the chain's failures as a validation.Errors error.
func runChain(ctx context.Context, ch validation.Chain) error {
    errs, err := ch.Run(ctx)
    if err != nil {
        return err
    }
    if errs != nil {
        return errs
    }
    return nil
}

// idParam parses the named path parameter.
func idParam(c echo.Context, name string) (uint64, error) {
    id, err := strconv.ParseUint(c.Param(name), 10, 64)
    if err != nil || id == 0 {
        return 0, errBadID
    }
    return id, nil
}

// form gives trimmed access to urlencoded or multipart fields.
type form struct {
    c    echo.Context
    vals url.Values
}

func readForm(c echo.Context) (*form, error) {
    vals, err := c.FormParams()
    if err != nil && !errors.Is(err, http.ErrNotMultipart) {
        return nil, validation.Errors{{Msg: "malformed form body", Param: "body", Location: validation.Body}}
    }
    if vals == nil {
        vals = url.Values{}
    }
    return &form{c: c, vals: vals}, nil
}

func (f *form) get(name string) string { return strings.TrimSpace(f.vals.Get(name)) }

func (f *form) has(name string) bool { _, ok := f.vals[name]; return ok }

// file returns the uploaded file for name, or nil.
func (f *form) file(name string) *multipart.FileHeader {
    fh, err := f.c.FormFile(name)
    if err != nil {
        return nil
    }
    return fh
}

// intPtr returns the parsed integer when name was sent and parses.
func (f *form) intPtr(name string) *int {
    n, err := strconv.Atoi(f.get(name))
    if err != nil {
        return nil
    }
    return &n
}

// idPtr is intPtr for identifiers.
func (f *form) idPtr(name string) *uint64 {
    n, err := strconv.ParseUint(f.get(name), 10, 64)
    if err != nil {
        return nil
    }
    return &n
}

// excluding adapts a (value, excludeID) uniqueness probe to validation.Unique.
func excluding(taken func(context.Context, string, uint64) (bool, error), id uint64) func(context.Context, string) (bool, error) {
    return func(ctx context.Context, v string) (bool, error) { return taken(ctx, v, id) }
}

// HTTPErrorHandler writes errors that escape the handlers (unknown routes,
// wrong methods, recovered panics) in the same {success:false, message}
// shape as respondError.
func HTTPErrorHandler(err error, c echo.Context) {
    if c.Response().Committed {
        return
    }
    status, msg := http.StatusInternalServerError, "Internal server error"
    var he *echo.HTTPError
    if errors.As(err, &he) {
        status = he.Code
        if m, ok := he.Message.(string); ok && m != "" {
            msg = m
        } else {
            msg = http.StatusText(status)
        }
    }
    if status >= http.StatusInternalServerError {
        logger.FromEcho(c).Error("request failed", zap.Error(err))
        msg = "Internal server error"
    }

    var werr error
    if c.Request().Method == http.MethodHead {
        werr = c.NoContent(status)
    } else {
        werr = fail(c, status, msg)
    }
    if werr != nil {
        logger.FromEcho(c).Warn("write error response", zap.Error(werr))
    }
}
