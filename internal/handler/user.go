package handler

import (
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/marketplace/grocery-api/internal/media"
    "github.com/marketplace/grocery-api/internal/model"
    "github.com/marketplace/grocery-api/internal/repository"
    "github.com/marketplace/grocery-api/internal/utils"
    "github.com/marketplace/grocery-api/internal/validation"
)

// UserHandler serves /api/users.
type UserHandler struct{ *Deps }

func NewUserHandler(d *Deps) *UserHandler { return &UserHandler{d} }

// Register handles POST /api/users/register.
func (h *UserHandler) Register(c echo.Context) error {
    ctx := c.Request().Context()
    f, err := readForm(c)
    if err != nil {
        return respondError(c, err, "")
    }
    p := readPerson(f)
    pic := f.file("profilePic")
    ch := personRules(p, personCreate, h.Users.UsernameTaken, h.Users.EmailTaken, 0)
    if pic != nil {
        ch = append(ch, validation.ImageFile("profilePic", pic, false, model.Image{}, ""))
    }
    if err := runChain(ctx, ch); err != nil {
        return respondError(c, err, "")
    }
    hash, err := utils.HashPassword(p.Password, h.BcryptCost)
    if err != nil {
        return respondError(c, err, "")
    }
    u := &model.User{PasswordHash: hash}
    applyPerson(u, p, model.ReplaceAll)
    if pic != nil {
        if u.ProfilePic, err = h.Media.Upload(ctx, pic, media.FolderProfiles); err != nil {
            return respondError(c, err, "")
        }
    }
    if err := h.Users.Create(ctx, u); err != nil {
        if errors.Is(err, repository.ErrDuplicate) {
            return fail(c, http.StatusBadRequest, "User name or email already taken")
        }
        return respondError(c, err, "")
    }
    return success(c, http.StatusCreated, "Registration successful, please login", "user", u)
}

// List handles GET /api/users/get.
func (h *UserHandler) List(c echo.Context) error {
    users, err := h.Users.List(c.Request().Context())
    if err != nil {
        return respondError(c, err, "")
    }
    return c.JSON(http.StatusOK, users)
}

// Get handles GET /api/users/getUserId/:id.
func (h *UserHandler) Get(c echo.Context) error {
    id, err := idParam(c, "id")
    if err != nil {
        return respondError(c, err, "")
    }
    u, err := h.Users.GetByID(c.Request().Context(), id)
    if err != nil {
        return respondError(c, err, "User not found")
    }
    return c.JSON(http.StatusOK, u)
}

// Update handles PUT /api/users/:id.  Empty fields keep their value; a
// non-empty password is re-hashed.
func (h *UserHandler) Update(c echo.Context) error {
    ctx := c.Request().Context()
    id, err := idParam(c, "id")
    if err != nil {
        return respondError(c, err, "")
    }
    u, err := h.Users.GetByID(ctx, id)
    if err != nil {
        return respondError(c, err, "User not found")
    }
    f, err := readForm(c)
    if err != nil {
        return respondError(c, err, "")
    }
    p := readPerson(f)
    pic := f.file("profilePic")
    ch := personRules(p, personMerge, h.Users.UsernameTaken, h.Users.EmailTaken, u.ID)
    if pic != nil {
        ch = append(ch, validation.ImageFile("profilePic", pic, false, u.ProfilePic, ""))
    }
    if err := runChain(ctx, ch); err != nil {
        return respondError(c, err, "")
    }
    applyPerson(u, p, model.MergeProvided)
    if u.ProfilePic, err = h.Media.Keep(ctx, u.ProfilePic, pic, media.FolderProfiles); err != nil {
        return respondError(c, err, "")
    }
    var hash string
    if p.Password != "" {
        if hash, err = utils.HashPassword(p.Password, h.BcryptCost); err != nil {
            return respondError(c, err, "")
        }
    }
    if err := h.Users.Update(ctx, u, hash); err != nil {
        return respondError(c, err, "User not found")
    }
    return success(c, http.StatusOK, "User updated successfully", "user", u)
}

// Delete handles DELETE /api/users/:id together with the user's carts,
// favorites and detection log.
func (h *UserHandler) Delete(c echo.Context) error {
    id, err := idParam(c, "id")
    if err != nil {
        return respondError(c, err, "")
    }
    res, err := h.Cascade.Delete(c.Request().Context(), repository.KindUser, id)
    if err != nil {
        return respondError(c, err, "User not found")
    }
    return success(c, http.StatusOK, "User and related data deleted successfully", "removed", res.Removed)
}
