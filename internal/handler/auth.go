package handler

import (
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/marketplace/grocery-api/internal/media"
    "github.com/marketplace/grocery-api/internal/middleware"
    "github.com/marketplace/grocery-api/internal/model"
    "github.com/marketplace/grocery-api/internal/repository"
    "github.com/marketplace/grocery-api/internal/utils"
    "github.com/marketplace/grocery-api/internal/validation"
)

// AuthHandler serves the user session routes under /api/auth.
type AuthHandler struct{ *Deps }

func NewAuthHandler(d *Deps) *AuthHandler { return &AuthHandler{d} }

// Login handles POST /api/auth/login.  A failed login answers 401 and never
// sets the token cookie.
func (h *AuthHandler) Login(c echo.Context) error {
    var in credentials
    if err := c.Bind(&in); err != nil || in.Username == "" || in.Password == "" {
        return fail(c, http.StatusBadRequest, "Please add user name and password")
    }
    u, err := h.Users.GetByUsername(c.Request().Context(), in.Username)
    if errors.Is(err, repository.ErrNotFound) {
        return fail(c, http.StatusUnauthorized, "Invalid credentials")
    }
    if err != nil {
        return respondError(c, err, "")
    }
    if utils.CheckPassword(u.PasswordHash, in.Password) != nil {
        return fail(c, http.StatusUnauthorized, "Invalid credentials")
    }
    s, err := h.Tokens.Issue(model.SubjectUser, u.ID, "")
    if err != nil {
        return respondError(c, err, "")
    }
    h.setTokenCookie(c, s)
    return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Login successfully", "token": s.Token, "user": u})
}

// VerifyToken handles GET /api/auth/verifyToken; the gate in front of it
// already did the work.
func (h *AuthHandler) VerifyToken(c echo.Context) error {
    u := middleware.CurrentUser(c)
    return c.JSON(http.StatusOK, echo.Map{"success": true, "user": echo.Map{"id": u.ID}})
}

// Profile handles GET /api/auth/profile.
func (h *AuthHandler) Profile(c echo.Context) error {
    return success(c, http.StatusOK, "User Profile Fetched Successfully", "user", middleware.CurrentUser(c))
}

// UpdateProfile handles PUT /api/auth/profile-update.  Empty fields keep
// their value; a password is changed through update-password only.
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
    ctx := c.Request().Context()
    u := *middleware.CurrentUser(c)
    f, err := readForm(c)
    if err != nil {
        return respondError(c, err, "")
    }
    p := readPerson(f)
    p.Password = ""
    pic := f.file("profilePic")
    ch := personRules(p, personMerge, h.Users.UsernameTaken, h.Users.EmailTaken, u.ID)
    if pic != nil {
        ch = append(ch, validation.ImageFile("profilePic", pic, false, u.ProfilePic, ""))
    }
    if err := runChain(ctx, ch); err != nil {
        return respondError(c, err, "")
    }
    applyPerson(&u, p, model.MergeProvided)
    if u.ProfilePic, err = h.Media.Keep(ctx, u.ProfilePic, pic, media.FolderProfiles); err != nil {
        return respondError(c, err, "")
    }
    if err := h.Users.Update(ctx, &u, ""); err != nil {
        return respondError(c, err, "User not found")
    }
    return success(c, http.StatusOK, "User Profile Update", "user", u)
}

// UpdatePassword handles PUT /api/auth/update-password.
func (h *AuthHandler) UpdatePassword(c echo.Context) error {
    u := middleware.CurrentUser(c)
    return changePassword(c, h.Deps, u.PasswordHash, func(hash string) error {
        return h.Users.UpdatePassword(c.Request().Context(), u.ID, hash)
    })
}

// UpdatePicture handles PUT /api/auth/update-picture.
func (h *AuthHandler) UpdatePicture(c echo.Context) error {
    u := *middleware.CurrentUser(c)
    img, err := replacePicture(c, h.Deps, u.ProfilePic)
    if err != nil {
        return respondError(c, err, "")
    }
    u.ProfilePic = img
    if err := h.Users.Update(c.Request().Context(), &u, ""); err != nil {
        return respondError(c, err, "User not found")
    }
    return success(c, http.StatusOK, "Profile Picture Updated", "profilePic", img)
}

func applyPerson(u *model.User, p personInput, mode model.UpdateMode) {
    u.Name = model.Pick(mode, p.Name, u.Name)
    u.Surname = model.Pick(mode, p.Surname, u.Surname)
    u.Username = model.Pick(mode, p.Username, u.Username)
    u.Email = model.Pick(mode, p.Email, u.Email)
    u.City = model.Pick(mode, p.City, u.City)
    u.PhoneNumber = model.Pick(mode, p.Phone, u.PhoneNumber)
}
