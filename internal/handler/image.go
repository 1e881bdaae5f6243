package handler

import (
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"
    "go.uber.org/zap"

    "github.com/marketplace/grocery-api/internal/logger"
    "github.com/marketplace/grocery-api/internal/media"
    "github.com/marketplace/grocery-api/internal/middleware"
    "github.com/marketplace/grocery-api/internal/model"
    "github.com/marketplace/grocery-api/internal/repository"
    "github.com/marketplace/grocery-api/internal/validation"
)

// ImageHandler serves /api/images: photo lookup of products.
type ImageHandler struct{ *Deps }

func NewImageHandler(d *Deps) *ImageHandler { return &ImageHandler{d} }

// Upload handles POST /api/images/upload.  The photo is stored, sent to
// the detection service, logged with the first label found, and the label
// is matched exactly against product names.  A match answers 201 with
// every listing of the product; no match answers 200 with none.
func (h *ImageHandler) Upload(c echo.Context) error {
    ctx := c.Request().Context()
    u := middleware.CurrentUser(c)
    f, err := readForm(c)
    if err != nil {
        return respondError(c, err, "")
    }
    file := f.file("productImage")
    ch := validation.Chain{validation.ImageFile("productImage", file, true, model.Image{}, "No file uploaded")}
    if err := runChain(ctx, ch); err != nil {
        return respondError(c, err, "")
    }

    img, err := h.Media.Upload(ctx, file, media.FolderDetections)
    if err != nil {
        return respondError(c, err, "")
    }
    det, err := h.Detector.Detect(ctx, img.URL, u.ID)
    if err != nil {
        logger.FromEcho(c).Error("detection failed", zap.String("image", img.ID), zap.Error(err))
        return fail(c, http.StatusInternalServerError, "Image analysis failed")
    }

    label := det.FirstLabel()
    entry := &model.ProductImage{Image: img, Match: label, UploadedBy: u.ID}
    if label == "" {
        entry.Match = model.NoMatch
    }
    if err := h.ProductImages.Create(ctx, entry); err != nil {
        return respondError(c, err, "")
    }

    var product *model.Product
    if label != "" {
        product, err = h.Products.GetByName(ctx, label)
        if err != nil && !errors.Is(err, repository.ErrNotFound) {
            return respondError(c, err, "")
        }
    }
    if product == nil {
        return c.JSON(http.StatusOK, echo.Map{
            "success":         true,
            "message":         "No product matches the detected label",
            "data":            entry,
            "detectionResult": det,
            "markets":         []any{},
        })
    }
    listings, err := h.Listings.Details(ctx, repository.ListingFilter{ProductID: product.ID})
    if err != nil {
        return respondError(c, err, "")
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "success":         true,
        "message":         "Image uploaded, analysed and markets found",
        "data":            entry,
        "matchedProduct":  echo.Map{"id": product.ID, "name": product.Name},
        "products":        listings,
        "detectionResult": det,
    })
}

// Latest handles GET /api/images/latest-image.
func (h *ImageHandler) Latest(c echo.Context) error {
    u := middleware.CurrentUser(c)
    pi, err := h.ProductImages.Latest(c.Request().Context(), u.ID)
    if err != nil {
        return respondError(c, err, "Image not found")
    }
    return c.JSON(http.StatusOK, echo.Map{"imageId": pi.ID, "imageUrl": pi.Image.URL, "userId": u.ID})
}
