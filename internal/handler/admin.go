package handler

import (
    "context"
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

// AdminHandler serves /api/admin.
type AdminHandler struct{ *Deps }

func NewAdminHandler(d *Deps) *AdminHandler { return &AdminHandler{d} }

func roleRule(role string, required bool) validation.Rule {
    r := validation.Custom("adminRole", func(_ context.Context) (string, error) {
        if !model.ValidAdminRole(role) {
            return "Admin role must be admin or super-admin", nil
        }
        return "", nil
    })
    if required {
        return r
    }
    return validation.Optional(role, r)
}

// Register handles POST /api/admin/register.  The first admin may register
// without a token and always becomes super-admin; afterwards only a
// super-admin may register others.
func (h *AdminHandler) Register(c echo.Context) error {
    ctx := c.Request().Context()
    n, err := h.Admins.Count(ctx)
    if err != nil {
        return respondError(c, err, "")
    }
    caller := middleware.CurrentAdmin(c)
    if n > 0 {
        if caller == nil {
            return fail(c, http.StatusUnauthorized, "Unauthorized User")
        }
        if caller.Role != model.RoleSuperAdmin {
            return fail(c, http.StatusForbidden, "Only a super-admin can register admins")
        }
    }

    f, err := readForm(c)
    if err != nil {
        return respondError(c, err, "")
    }
    p := readPerson(f)
    role := f.get("adminRole")
    if n == 0 {
        role = model.RoleSuperAdmin
    }
    pic := f.file("profilePic")
    ch := personRules(p, personCreate, h.Admins.UsernameTaken, h.Admins.EmailTaken, 0)
    ch = append(ch, roleRule(role, true))
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
    a := &model.Admin{
        Name: p.Name, Surname: p.Surname, Username: p.Username, Email: p.Email,
        PasswordHash: hash, City: p.City, PhoneNumber: p.Phone, Role: role,
    }
    if pic != nil {
        if a.ProfilePic, err = h.Media.Upload(ctx, pic, media.FolderProfiles); err != nil {
            return respondError(c, err, "")
        }
    }
    if err := h.Admins.Create(ctx, a); err != nil {
        if errors.Is(err, repository.ErrDuplicate) {
            return fail(c, http.StatusBadRequest, "Admin name or email already taken")
        }
        return respondError(c, err, "")
    }
    return success(c, http.StatusCreated, "Registration successful, please login", "admin", a)
}

// Login handles POST /api/admin/login.  Unknown usernames and wrong
// passwords are indistinguishable and set no cookie.
func (h *AdminHandler) Login(c echo.Context) error {
    var in credentials
    if err := c.Bind(&in); err != nil || in.Username == "" || in.Password == "" {
        return fail(c, http.StatusBadRequest, "Please add user name and password")
    }
    a, err := h.Admins.GetByUsername(c.Request().Context(), in.Username)
    if errors.Is(err, repository.ErrNotFound) {
        return fail(c, http.StatusUnauthorized, "Invalid credentials")
    }
    if err != nil {
        return respondError(c, err, "")
    }
    if utils.CheckPassword(a.PasswordHash, in.Password) != nil {
        return fail(c, http.StatusUnauthorized, "Invalid credentials")
    }
    s, err := h.Tokens.Issue(model.SubjectAdmin, a.ID, a.Role)
    if err != nil {
        return respondError(c, err, "")
    }
    h.setTokenCookie(c, s)
    return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Login successfully", "token": s.Token, "admin": a})
}

// List handles GET /api/admin/get.
func (h *AdminHandler) List(c echo.Context) error {
    admins, err := h.Admins.List(c.Request().Context())
    if err != nil {
        return respondError(c, err, "")
    }
    return c.JSON(http.StatusOK, admins)
}

// Get handles GET /api/admin/getAdminId/:id.
func (h *AdminHandler) Get(c echo.Context) error {
    id, err := idParam(c, "id")
    if err != nil {
        return respondError(c, err, "")
    }
    a, err := h.Admins.GetByID(c.Request().Context(), id)
    if err != nil {
        return respondError(c, err, "Admin not found")
    }
    return c.JSON(http.StatusOK, a)
}

// Profile handles GET /api/admin/profile.
func (h *AdminHandler) Profile(c echo.Context) error {
    return success(c, http.StatusOK, "Admin Profile Fetched Successfully", "admin", middleware.CurrentAdmin(c))
}

// UpdateProfile handles PUT /api/admin/profile-update.  Empty fields keep
// their value; only a super-admin may change their own role.
func (h *AdminHandler) UpdateProfile(c echo.Context) error {
    cur := *middleware.CurrentAdmin(c)
    return h.update(c, &cur, model.MergeProvided, cur.Role == model.RoleSuperAdmin, "Admin profile updated")
}

// Replace handles PUT /api/admin/updateAdmin/:id.  Every profile field is
// overwritten; the password only when one is sent.
func (h *AdminHandler) Replace(c echo.Context) error {
    id, err := idParam(c, "id")
    if err != nil {
        return respondError(c, err, "")
    }
    cur, err := h.Admins.GetByID(c.Request().Context(), id)
    if err != nil {
        return respondError(c, err, "Admin not found")
    }
    return h.update(c, cur, model.ReplaceAll, true, "Admin updated successfully")
}

func (h *AdminHandler) update(c echo.Context, a *model.Admin, mode model.UpdateMode, roleEditable bool, msg string) error {
    ctx := c.Request().Context()
    f, err := readForm(c)
    if err != nil {
        return respondError(c, err, "")
    }
    p := readPerson(f)
    role := f.get("adminRole")
    pic := f.file("profilePic")

    pm := personMerge
    if mode == model.ReplaceAll {
        pm = personReplace
    }
    ch := personRules(p, pm, h.Admins.UsernameTaken, h.Admins.EmailTaken, a.ID)
    ch = append(ch, roleRule(role, mode == model.ReplaceAll))
    if pic != nil {
        ch = append(ch, validation.ImageFile("profilePic", pic, false, a.ProfilePic, ""))
    }
    if err := runChain(ctx, ch); err != nil {
        return respondError(c, err, "")
    }

    a.Name = model.Pick(mode, p.Name, a.Name)
    a.Surname = model.Pick(mode, p.Surname, a.Surname)
    a.Username = model.Pick(mode, p.Username, a.Username)
    a.Email = model.Pick(mode, p.Email, a.Email)
    a.City = model.Pick(mode, p.City, a.City)
    a.PhoneNumber = model.Pick(mode, p.Phone, a.PhoneNumber)
    if roleEditable {
        a.Role = model.Pick(mode, role, a.Role)
    }
    if a.ProfilePic, err = h.Media.Keep(ctx, a.ProfilePic, pic, media.FolderProfiles); err != nil {
        return respondError(c, err, "")
    }
    var hash string
    if p.Password != "" {
        if hash, err = utils.HashPassword(p.Password, h.BcryptCost); err != nil {
            return respondError(c, err, "")
        }
    }
    if err := h.Admins.Update(ctx, a, hash); err != nil {
        return respondError(c, err, "Admin not found")
    }
    return success(c, http.StatusOK, msg, "admin", a)
}

// Delete handles DELETE /api/admin/deleteAdmin/:id, removing the admin's
// market and its listings with it.
func (h *AdminHandler) Delete(c echo.Context) error {
    id, err := idParam(c, "id")
    if err != nil {
        return respondError(c, err, "")
    }
    res, err := h.Cascade.Delete(c.Request().Context(), repository.KindAdmin, id)
    if err != nil {
        return respondError(c, err, "Admin not found")
    }
    return success(c, http.StatusOK, "Admin and associated market deleted successfully", "removed", res.Removed)
}

// UpdatePassword handles PUT /api/admin/update-password.
func (h *AdminHandler) UpdatePassword(c echo.Context) error {
    a := middleware.CurrentAdmin(c)
    return changePassword(c, h.Deps, a.PasswordHash, func(hash string) error {
        return h.Admins.UpdatePassword(c.Request().Context(), a.ID, hash)
    })
}

// UpdatePicture handles PUT /api/admin/update-picture.
func (h *AdminHandler) UpdatePicture(c echo.Context) error {
    a := *middleware.CurrentAdmin(c)
    img, err := replacePicture(c, h.Deps, a.ProfilePic)
    if err != nil {
        return respondError(c, err, "")
    }
    a.ProfilePic = img
    if err := h.Admins.Update(c.Request().Context(), &a, ""); err != nil {
        return respondError(c, err, "Admin not found")
    }
    return success(c, http.StatusOK, "Profile Picture Updated", "profilePic", img)
}
