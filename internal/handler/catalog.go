package handler

import (
    "context"
    "mime/multipart"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/marketplace/grocery-api/internal/media"
    "github.com/marketplace/grocery-api/internal/model"
    "github.com/marketplace/grocery-api/internal/repository"
    "github.com/marketplace/grocery-api/internal/validation"
)

// labelRepo is what categories and brands have in common.
type labelRepo[T any] interface {
    Create(ctx context.Context, v *T) error
    GetByID(ctx context.Context, id uint64) (*T, error)
    List(ctx context.Context) ([]*T, error)
    Update(ctx context.Context, v *T) error
    NameTaken(ctx context.Context, name string, excludeID uint64) (bool, error)
}

// LabelHandler serves a name-and-picture resource: /api/categories or
// /api/brands.  Updates merge provided fields.
type LabelHandler[T any] struct {
    *Deps
    repo   labelRepo[T]
    kind   repository.Kind
    folder string
    noun   string // "Category"
    field  string // request prefix, "category"
    key    string // response key, "category"
    fields func(v *T) (name *string, img *model.Image)
}

func NewCategoryHandler(d *Deps) *LabelHandler[model.Category] {
    return &LabelHandler[model.Category]{
        Deps: d, repo: d.Categories, kind: repository.KindCategory, folder: media.FolderCategories,
        noun: "Category", field: "category", key: "category",
        fields: func(v *model.Category) (*string, *model.Image) { return &v.Name, &v.Image },
    }
}

func NewBrandHandler(d *Deps) *LabelHandler[model.Brand] {
    return &LabelHandler[model.Brand]{
        Deps: d, repo: d.Brands, kind: repository.KindBrand, folder: media.FolderBrands,
        noun: "Brand", field: "brand", key: "brand",
        fields: func(v *model.Brand) (*string, *model.Image) { return &v.Name, &v.Image },
    }
}

func (h *LabelHandler[T]) nameParam() string  { return h.field + "Name" }
func (h *LabelHandler[T]) imageParam() string { return h.field + "Image" }

func (h *LabelHandler[T]) rules(name string, img *multipart.FileHeader, create bool, current model.Image, excludeID uint64) validation.Chain {
    ch := validation.Chain{
        validation.Optional(name, validation.Var(h.nameParam(), name, "min=2", h.noun+" name must be at least 2 characters")),
        validation.Unique(h.nameParam(), name, excluding(h.repo.NameTaken, excludeID), h.noun+" name is already in use"),
        validation.ImageFile(h.imageParam(), img, create, current, h.noun+" image is required"),
    }
    if create {
        ch = append(ch, validation.Required(h.nameParam(), name, h.noun+" name is required"))
    }
    return ch
}

// Create handles POST.
func (h *LabelHandler[T]) Create(c echo.Context) error {
    ctx := c.Request().Context()
    f, err := readForm(c)
    if err != nil {
        return respondError(c, err, "")
    }
    name, img := f.get(h.nameParam()), f.file(h.imageParam())
    if err := runChain(ctx, h.rules(name, img, true, model.Image{}, 0)); err != nil {
        return respondError(c, err, "")
    }

    v := new(T)
    vName, vImg := h.fields(v)
    *vName = name
    if *vImg, err = h.Media.Upload(ctx, img, h.folder); err != nil {
        return respondError(c, err, "")
    }
    if err := h.repo.Create(ctx, v); err != nil {
        return respondError(c, err, "")
    }
    return success(c, http.StatusCreated, h.noun+" created successfully", h.key, v)
}

// List handles GET.
func (h *LabelHandler[T]) List(c echo.Context) error {
    items, err := h.repo.List(c.Request().Context())
    if err != nil {
        return respondError(c, err, "")
    }
    return c.JSON(http.StatusOK, items)
}

// Get handles GET /:id.
func (h *LabelHandler[T]) Get(c echo.Context) error {
    id, err := idParam(c, "id")
    if err != nil {
        return respondError(c, err, "")
    }
    v, err := h.repo.GetByID(c.Request().Context(), id)
    if err != nil {
        return respondError(c, err, h.noun+" not found")
    }
    return c.JSON(http.StatusOK, v)
}

// Update handles PUT /:id.
func (h *LabelHandler[T]) Update(c echo.Context) error {
    ctx := c.Request().Context()
    id, err := idParam(c, "id")
    if err != nil {
        return respondError(c, err, "")
    }
    v, err := h.repo.GetByID(ctx, id)
    if err != nil {
        return respondError(c, err, h.noun+" not found")
    }
    f, err := readForm(c)
    if err != nil {
        return respondError(c, err, "")
    }
    vName, vImg := h.fields(v)
    name, img := f.get(h.nameParam()), f.file(h.imageParam())
    if err := runChain(ctx, h.rules(name, img, false, *vImg, id)); err != nil {
        return respondError(c, err, "")
    }

    *vName = model.Pick(model.MergeProvided, name, *vName)
    if *vImg, err = h.Media.Keep(ctx, *vImg, img, h.folder); err != nil {
        return respondError(c, err, "")
    }
    if err := h.repo.Update(ctx, v); err != nil {
        return respondError(c, err, h.noun+" not found")
    }
    return success(c, http.StatusOK, h.noun+" updated successfully", h.key, v)
}

// Delete handles DELETE /:id, removing the products filed under it.
func (h *LabelHandler[T]) Delete(c echo.Context) error {
    id, err := idParam(c, "id")
    if err != nil {
        return respondError(c, err, "")
    }
    res, err := h.Cascade.Delete(c.Request().Context(), h.kind, id)
    if err != nil {
        return respondError(c, err, h.noun+" not found")
    }
    return success(c, http.StatusOK, h.noun+" and its products deleted successfully", "removed", res.Removed)
}
