package handler

import (
    "mime/multipart"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/marketplace/grocery-api/internal/media"
    "github.com/marketplace/grocery-api/internal/model"
    "github.com/marketplace/grocery-api/internal/repository"
    "github.com/marketplace/grocery-api/internal/validation"
)

// ProductHandler serves /api/products.  Updates replace every field.
type ProductHandler struct{ *Deps }

func NewProductHandler(d *Deps) *ProductHandler { return &ProductHandler{d} }

type productInput struct {
    Name, Gram, Contents, CategoryID, BrandID string
}

func readProduct(f *form) productInput {
    return productInput{
        Name:       f.get("productName"),
        Gram:       f.get("productGr"),
        Contents:   f.get("productContents"),
        CategoryID: f.get("categoryId"),
        BrandID:    f.get("brandId"),
    }
}

func parseID(s string) uint64 {
    id, _ := strconv.ParseUint(s, 10, 64)
    return id
}

// rules validates a create or a full replacement; both need every field.
func (h *ProductHandler) rules(in productInput, img *multipart.FileHeader, current model.Image, excludeID uint64) validation.Chain {
    return validation.Chain{
        validation.Required("productName", in.Name, "Product name is required"),
        validation.Optional(in.Name, validation.Var("productName", in.Name, "min=3", "Product name must be at least 3 characters")),
        validation.Unique("productName", in.Name, excluding(h.Products.NameTaken, excludeID), "Product name is already in use"),
        validation.IntAtLeast("productGr", in.Gram, 1, "Product weight must be a positive whole number"),
        validation.Required("productContents", in.Contents, "Product contents are required"),
        validation.Optional(in.Contents, validation.Var("productContents", in.Contents, "min=5", "Product contents must be at least 5 characters")),
        validation.Exists("categoryId", parseID(in.CategoryID), h.Categories.Exists, "Category does not exist"),
        validation.Exists("brandId", parseID(in.BrandID), h.Brands.Exists, "Brand does not exist"),
        validation.ImageFile("productImage", img, excludeID == 0, current, "Product image is required"),
    }
}

func (in productInput) apply(p *model.Product) {
    p.Name = model.Pick(model.ReplaceAll, in.Name, p.Name)
    p.Contents = model.Pick(model.ReplaceAll, in.Contents, p.Contents)
    gram, _ := strconv.Atoi(in.Gram)
    p.Gram = model.PickInt(model.ReplaceAll, &gram, p.Gram)
    p.CategoryID = parseID(in.CategoryID)
    p.BrandID = parseID(in.BrandID)
}

// Create handles POST /api/products.
func (h *ProductHandler) Create(c echo.Context) error {
    ctx := c.Request().Context()
    f, err := readForm(c)
    if err != nil {
        return respondError(c, err, "")
    }
    in, img := readProduct(f), f.file("productImage")
    if err := runChain(ctx, h.rules(in, img, model.Image{}, 0)); err != nil {
        return respondError(c, err, "")
    }
    p := &model.Product{}
    in.apply(p)
    if p.Image, err = h.Media.Upload(ctx, img, media.FolderProducts); err != nil {
        return respondError(c, err, "")
    }
    if err := h.Products.Create(ctx, p); err != nil {
        return respondError(c, err, "")
    }
    return success(c, http.StatusCreated, "Product created successfully", "product", p)
}

// List handles GET /api/products.
func (h *ProductHandler) List(c echo.Context) error {
    items, err := h.Products.List(c.Request().Context())
    if err != nil {
        return respondError(c, err, "")
    }
    return c.JSON(http.StatusOK, items)
}

// ListWithCatalog handles GET /api/products/getProductData.
func (h *ProductHandler) ListWithCatalog(c echo.Context) error {
    items, err := h.Products.ListWithCatalog(c.Request().Context())
    if err != nil {
        return respondError(c, err, "")
    }
    return c.JSON(http.StatusOK, echo.Map{"success": true, "data": items})
}

// Get handles GET /api/products/:id.
func (h *ProductHandler) Get(c echo.Context) error {
    id, err := idParam(c, "id")
    if err != nil {
        return respondError(c, err, "")
    }
    p, err := h.Products.GetByID(c.Request().Context(), id)
    if err != nil {
        return respondError(c, err, "Product not found")
    }
    return c.JSON(http.StatusOK, p)
}

// Update handles PUT /api/products/:id.  A product may keep its own name.
func (h *ProductHandler) Update(c echo.Context) error {
    ctx := c.Request().Context()
    id, err := idParam(c, "id")
    if err != nil {
        return respondError(c, err, "")
    }
    p, err := h.Products.GetByID(ctx, id)
    if err != nil {
        return respondError(c, err, "Product not found")
    }
    f, err := readForm(c)
    if err != nil {
        return respondError(c, err, "")
    }
    in, img := readProduct(f), f.file("productImage")
    if err := runChain(ctx, h.rules(in, img, p.Image, p.ID)); err != nil {
        return respondError(c, err, "")
    }
    in.apply(p)
    if p.Image, err = h.Media.Keep(ctx, p.Image, img, media.FolderProducts); err != nil {
        return respondError(c, err, "")
    }
    if err := h.Products.Update(ctx, p); err != nil {
        return respondError(c, err, "Product not found")
    }
    return success(c, http.StatusOK, "Product updated successfully", "product", p)
}

// Delete handles DELETE /api/products/:id together with its listings.
func (h *ProductHandler) Delete(c echo.Context) error {
    id, err := idParam(c, "id")
    if err != nil {
        return respondError(c, err, "")
    }
    res, err := h.Cascade.Delete(c.Request().Context(), repository.KindProduct, id)
    if err != nil {
        return respondError(c, err, "Product not found")
    }
    return success(c, http.StatusOK, "Product deleted successfully", "removed", res.Removed)
}
