package router

import (
	"github.com/labstack/echo/v4"

	"github.com/marketplace/grocery-api/internal/handler"
)

// RegisterShopping registers the user-facing /cart, /favorite and /images
// routes.  The global listings are admin-only.
func RegisterShopping(api *echo.Group, d *handler.Deps, g Gates) {
	carts := handler.NewCartHandler(d)
	c := api.Group("/cart")
	c.POST("", carts.Add, g.User)
	c.GET("/get", carts.List, g.Admin)
	c.GET("/getCartData", carts.Mine, g.User)
	c.GET("/getCartDataAdmin", carts.Baskets, g.Admin)
	c.GET("/:id", carts.Get, g.User)
	c.PUT("/:id", carts.Update, g.User)
	c.DELETE("/:id", carts.Delete, g.User)

	favorites := handler.NewFavoriteHandler(d)
	f := api.Group("/favorite")
	f.POST("", favorites.Add, g.User)
	f.GET("/get", favorites.List, g.Admin)
	f.GET("/getFavData", favorites.Mine, g.User)
	f.GET("/:id", favorites.Get, g.User)
	f.PUT("/:id", favorites.Update, g.User)
	f.DELETE("/:id", favorites.Delete, g.User)

	images := handler.NewImageHandler(d)
	i := api.Group("/images")
	i.POST("/upload", images.Upload, g.User)
	i.GET("/latest-image", images.Latest, g.User)
}
