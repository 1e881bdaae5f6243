package router

import (
	"github.com/labstack/echo/v4"

	"github.com/marketplace/grocery-api/internal/handler"
)

// RegisterCatalog registers /markets, /categories, /brands, /products and
// /productMarket.  Reads are public; writes need an admin.
func RegisterCatalog(api *echo.Group, d *handler.Deps, g Gates) {
	markets := handler.NewMarketHandler(d)
	m := api.Group("/markets")
	m.POST("", markets.Create, g.Admin)
	m.GET("", markets.List)
	m.GET("/getMarketName/:id", markets.GetName)
	m.GET("/getAdminMarket", markets.Mine, g.Admin)
	m.GET("/getAdminData", markets.WithAdmins)
	m.GET("/:id", markets.Get)
	m.PUT("/:id", markets.Update, g.Admin)
	m.DELETE("/:id", markets.Delete, g.Admin)

	categories := handler.NewCategoryHandler(d)
	c := api.Group("/categories")
	c.POST("", categories.Create, g.Admin)
	c.GET("", categories.List)
	c.GET("/:id", categories.Get)
	c.PUT("/:id", categories.Update, g.Admin)
	c.DELETE("/:id", categories.Delete, g.Admin)

	brands := handler.NewBrandHandler(d)
	b := api.Group("/brands")
	b.POST("", brands.Create, g.Admin)
	b.GET("", brands.List)
	b.GET("/:id", brands.Get)
	b.PUT("/:id", brands.Update, g.Admin)
	b.DELETE("/:id", brands.Delete, g.Admin)

	products := handler.NewProductHandler(d)
	p := api.Group("/products")
	p.POST("", products.Create, g.Admin)
	p.GET("", products.List)
	p.GET("/getProductData", products.ListWithCatalog)
	p.GET("/:id", products.Get)
	p.PUT("/:id", products.Update, g.Admin)
	p.DELETE("/:id", products.Delete, g.Admin)

	listings := handler.NewListingHandler(d)
	l := api.Group("/productMarket")
	l.POST("", listings.Create, g.Admin)
	l.GET("/get", listings.Search)
	l.GET("/getBySearch", listings.Search)
	l.GET("/get-product", listings.Mine, g.Admin)
	l.GET("/productMarketData", listings.All)
	l.GET("/discountProducts", listings.Discounted)
	l.GET("/getLowStockProducts", listings.LowStock)
	l.GET("/filter", listings.Filter)
	l.GET("/get-product-market/:id", listings.ByAdmin)
	l.GET("/by-category/:categoryId", listings.ByCategory)
	l.GET("/:id", listings.Get)
	l.PUT("/:id", listings.Update, g.Admin)
	l.DELETE("/:id", listings.Delete, g.Admin)
}
