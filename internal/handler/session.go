package handler

import (
    "context"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/marketplace/grocery-api/internal/media"
    "github.com/marketplace/grocery-api/internal/middleware"
    "github.com/marketplace/grocery-api/internal/model"
    "github.com/marketplace/grocery-api/internal/service"
    "github.com/marketplace/grocery-api/internal/utils"
    "github.com/marketplace/grocery-api/internal/validation"
)

// credentials is the login and password-change body.
type credentials struct {
    Username    string `json:"username" form:"username"`
    Password    string `json:"password" form:"password"`
    OldPassword string `json:"oldPassword" form:"oldPassword"`
    NewPassword string `json:"newPassword" form:"newPassword"`
}

func (d *Deps) setTokenCookie(c echo.Context, s service.Session) {
    c.SetCookie(&http.Cookie{
        Name:     middleware.TokenCookie,
        Value:    s.Token,
        Path:     "/",
        Expires:  s.ExpiresAt,
        MaxAge:   int(d.sessionCookieTTL() / time.Second),
        HttpOnly: true,
        Secure:   d.CookieSecure,
        SameSite: http.SameSiteLaxMode,
    })
}

func (d *Deps) clearTokenCookie(c echo.Context) {
    c.SetCookie(&http.Cookie{
        Name:     middleware.TokenCookie,
        Value:    "",
        Path:     "/",
        Expires:  time.Unix(0, 0),
        MaxAge:   -1,
        HttpOnly: true,
        Secure:   d.CookieSecure,
        SameSite: http.SameSiteLaxMode,
    })
}

// Logout clears the session cookie.  Tokens are stateless, so nothing is
// revoked server side.
func (d *Deps) Logout(c echo.Context) error {
    d.clearTokenCookie(c)
    return success(c, http.StatusOK, "Logout Successfully", "", nil)
}

// taken probes uniqueness of a column excluding one row id.
type taken func(ctx context.Context, value string, excludeID uint64) (bool, error)

// personInput is the profile part shared by admins and users.
type personInput struct {
    Name, Surname, Username, Email, Password, City, Phone string
}

func readPerson(f *form) personInput {
    phone := f.get("phoneNumber")
    if phone == "" {
        phone = f.get("phone")
    }
    return personInput{
        Name:     f.get("name"),
        Surname:  f.get("surname"),
        Username: f.get("username"),
        Email:    f.get("email"),
        Password: f.vals.Get("password"),
        City:     f.get("city"),
        Phone:    phone,
    }
}

// personMode selects which profile fields must be present.
type personMode int

const (
    personCreate  personMode = iota // everything, password included
    personReplace                   // everything but the password
    personMerge                     // nothing; empty fields keep their value
)

// personRules validates p.  Uniqueness ignores the row excludeID.
func personRules(p personInput, mode personMode, usernameTaken, emailTaken taken, excludeID uint64) validation.Chain {
    field := func(value string, r validation.Rule, requiredMsg string, required bool) []validation.Rule {
        if required {
            return []validation.Rule{validation.Required(r.Param, value, requiredMsg), validation.Optional(value, r)}
        }
        return []validation.Rule{validation.Optional(value, r)}
    }
    all := mode != personMerge
    var ch validation.Chain
    ch = append(ch, field(p.Name, validation.Var("name", p.Name, "min=2,max=50", "Name must be 2-50 characters"), "Name is required", all)...)
    ch = append(ch, field(p.Surname, validation.Var("surname", p.Surname, "min=2,max=50", "Surname must be 2-50 characters"), "Surname is required", all)...)
    ch = append(ch, field(p.Username, validation.Var("username", p.Username, "min=3,max=30", "Username must be 3-30 characters"), "Username is required", all)...)
    ch = append(ch, validation.Unique("username", p.Username, excluding(usernameTaken, excludeID), "Username is already in use"))
    ch = append(ch, field(p.Email, validation.Var("email", p.Email, "email", "Enter a valid e-mail address"), "E-mail is required", all)...)
    ch = append(ch, validation.Unique("email", p.Email, excluding(emailTaken, excludeID), "E-mail is already in use"))
    ch = append(ch, field(p.Password, validation.Var("password", p.Password, "strongpassword", weakPassword), "Password is required", mode == personCreate)...)
    ch = append(ch, field(p.City, validation.Var("city", p.City, "min=3,max=50", "City must be 3-50 characters"), "City is required", all)...)
    ch = append(ch, field(p.Phone, validation.Var("phoneNumber", p.Phone, "phone", "Enter a valid phone number"), "Phone number is required", all)...)
    return ch
}

const weakPassword = "Password needs at least 8 characters with upper and lower case letters, a digit and one of @$!%?&."

// passwordRules validates a password change.
func passwordRules(in credentials) validation.Chain {
    return validation.Chain{
        validation.Required("oldPassword", in.OldPassword, "Please provide old and new password"),
        validation.Required("newPassword", in.NewPassword, "Please provide old and new password"),
        validation.Optional(in.NewPassword, validation.Var("newPassword", in.NewPassword, "strongpassword", weakPassword)),
    }
}

// changePassword checks the old password against hash and stores the new
// one through save.
func changePassword(c echo.Context, d *Deps, hash string, save func(newHash string) error) error {
    var in credentials
    if err := c.Bind(&in); err != nil {
        return fail(c, http.StatusBadRequest, "Please provide old and new password")
    }
    if err := runChain(c.Request().Context(), passwordRules(in)); err != nil {
        return respondError(c, err, "")
    }
    if utils.CheckPassword(hash, in.OldPassword) != nil {
        return fail(c, http.StatusBadRequest, "Invalid Old Password")
    }
    newHash, err := utils.HashPassword(in.NewPassword, d.BcryptCost)
    if err != nil {
        return respondError(c, err, "")
    }
    if err := save(newHash); err != nil {
        return respondError(c, err, "Not found")
    }
    return success(c, http.StatusOK, "Password Updated Successfully", "", nil)
}

// replacePicture validates the required profilePic upload and swaps it in
// for current.
func replacePicture(c echo.Context, d *Deps, current model.Image) (model.Image, error) {
    f, err := readForm(c)
    if err != nil {
        return model.Image{}, err
    }
    pic := f.file("profilePic")
    ch := validation.Chain{validation.ImageFile("profilePic", pic, true, model.Image{}, "Profile picture is required")}
    if err := runChain(c.Request().Context(), ch); err != nil {
        return model.Image{}, err
    }
    return d.Media.Replace(c.Request().Context(), current, pic, media.FolderProfiles)
}
