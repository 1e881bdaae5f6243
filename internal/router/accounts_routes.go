package router

import (
	"github.com/labstack/echo/v4"

	"github.com/marketplace/grocery-api/internal/handler"
)

// RegisterAccounts registers /auth, /admin and /users.
func RegisterAccounts(api *echo.Group, d *handler.Deps, g Gates) {
	auth := handler.NewAuthHandler(d)
	a := api.Group("/auth")
	a.POST("/login", auth.Login)
	a.GET("/logout", d.Logout)
	a.GET("/verifyToken", auth.VerifyToken, g.UserHeader)
	a.GET("/profile", auth.Profile, g.User)
	a.PUT("/profile-update", auth.UpdateProfile, g.User)
	a.PUT("/update-password", auth.UpdatePassword, g.User)
	a.PUT("/update-picture", auth.UpdatePicture, g.User)

	admins := handler.NewAdminHandler(d)
	ad := api.Group("/admin")
	// open until the first admin exists; the handler checks the role after
	ad.POST("/register", admins.Register, g.MaybeAdmin)
	ad.POST("/login", admins.Login)
	ad.GET("/logout", d.Logout)
	ad.GET("/get", admins.List, g.Admin)
	ad.GET("/getAdminId/:id", admins.Get, g.Admin)
	ad.GET("/profile", admins.Profile, g.Admin)
	ad.PUT("/profile-update", admins.UpdateProfile, g.Admin)
	ad.PUT("/update-password", admins.UpdatePassword, g.Admin)
	ad.PUT("/update-picture", admins.UpdatePicture, g.Admin)
	ad.PUT("/updateAdmin/:id", admins.Replace, g.SuperAdmin...)
	ad.DELETE("/deleteAdmin/:id", admins.Delete, g.SuperAdmin...)

	users := handler.NewUserHandler(d)
	u := api.Group("/users")
	u.POST("/register", users.Register)
	u.GET("/get", users.List, g.Admin)
	u.GET("/getUserId/:id", users.Get, g.Admin)
	u.PUT("/:id", users.Update, g.Admin)
	u.DELETE("/:id", users.Delete, g.Admin)
}
