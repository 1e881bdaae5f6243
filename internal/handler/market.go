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
    "github.com/marketplace/grocery-api/internal/validation"
)

// MarketHandler serves /api/markets.
type MarketHandler struct{ *Deps }

func NewMarketHandler(d *Deps) *MarketHandler { return &MarketHandler{d} }

type marketInput struct {
    Name, Location, Phone string
    AdminID               *uint64
}

func readMarket(f *form) marketInput {
    return marketInput{Name: f.get("marketName"), Location: f.get("marketLocation"), Phone: f.get("marketPhone"), AdminID: f.idPtr("adminId")}
}

func (h *MarketHandler) rules(in marketInput, create bool, excludeID uint64) validation.Chain {
    ch := validation.Chain{
        validation.Optional(in.Name, validation.Var("marketName", in.Name, "min=2", "Market name must be at least 2 characters")),
        validation.Unique("marketName", in.Name, excluding(h.Markets.NameTaken, excludeID), "Market name is already in use"),
        validation.Optional(in.Location, validation.Var("marketLocation", in.Location, "min=2", "Market location is not valid")),
        validation.Optional(in.Phone, validation.Var("marketPhone", in.Phone, "phone", "Enter a valid phone number")),
    }
    if create {
        ch = append(ch,
            validation.Required("marketName", in.Name, "Market name is required"),
            validation.Required("marketLocation", in.Location, "Market location is required"),
            validation.Required("marketPhone", in.Phone, "Phone number is required"),
        )
    }
    if in.AdminID != nil {
        ch = append(ch, validation.Exists("adminId", *in.AdminID, h.adminExists, "Admin does not exist"))
    }
    return ch
}

func (h *MarketHandler) adminExists(ctx context.Context, id uint64) (bool, error) {
    _, err := h.Admins.GetByID(ctx, id)
    if errors.Is(err, repository.ErrNotFound) {
        return false, nil
    }
    return err == nil, err
}

// Create handles POST /api/markets.  The market belongs to adminId when
// given, otherwise to the calling admin.
func (h *MarketHandler) Create(c echo.Context) error {
    ctx := c.Request().Context()
    f, err := readForm(c)
    if err != nil {
        return respondError(c, err, "")
    }
    in := readMarket(f)
    if in.AdminID == nil {
        id := middleware.CurrentAdmin(c).ID
        in.AdminID = &id
    }
    img := f.file("marketImage")
    ch := h.rules(in, true, 0)
    ch = append(ch, validation.ImageFile("marketImage", img, true, model.Image{}, "Market image is required"))
    if err := runChain(ctx, ch); err != nil {
        return respondError(c, err, "")
    }

    m := &model.Market{Name: in.Name, Location: in.Location, Phone: in.Phone, AdminID: *in.AdminID}
    if m.Image, err = h.Media.Upload(ctx, img, media.FolderMarkets); err != nil {
        return respondError(c, err, "")
    }
    if err := h.Markets.Create(ctx, m); err != nil {
        return respondError(c, err, "")
    }
    return success(c, http.StatusCreated, "Market created successfully", "market", m)
}

// List handles GET /api/markets.
func (h *MarketHandler) List(c echo.Context) error {
    markets, err := h.Markets.List(c.Request().Context())
    if err != nil {
        return respondError(c, err, "")
    }
    return c.JSON(http.StatusOK, markets)
}

// Get handles GET /api/markets/:id.
func (h *MarketHandler) Get(c echo.Context) error {
    m, err := h.byParam(c)
    if err != nil {
        return respondError(c, err, "Market not found")
    }
    return success(c, http.StatusOK, "Market fetched", "market", m)
}

// GetName handles GET /api/markets/getMarketName/:id.
func (h *MarketHandler) GetName(c echo.Context) error {
    m, err := h.byParam(c)
    if err != nil {
        return respondError(c, err, "Market not found")
    }
    return c.JSON(http.StatusOK, echo.Map{"success": true, "data": m})
}

// Mine handles GET /api/markets/getAdminMarket: the caller's own market.
func (h *MarketHandler) Mine(c echo.Context) error {
    m, err := h.Markets.GetByAdmin(c.Request().Context(), middleware.CurrentAdmin(c).ID)
    if err != nil {
        return respondError(c, err, "No market is owned by this admin")
    }
    return c.JSON(http.StatusOK, echo.Map{"success": true, "data": m})
}

// WithAdmins handles GET /api/markets/getAdminData.
func (h *MarketHandler) WithAdmins(c echo.Context) error {
    markets, err := h.Markets.ListWithAdmin(c.Request().Context())
    if err != nil {
        return respondError(c, err, "")
    }
    return c.JSON(http.StatusOK, echo.Map{"success": true, "data": markets})
}

// Update handles PUT /api/markets/:id.  Empty fields keep their value.
func (h *MarketHandler) Update(c echo.Context) error {
    ctx := c.Request().Context()
    m, err := h.byParam(c)
    if err != nil {
        return respondError(c, err, "Market not found")
    }
    f, err := readForm(c)
    if err != nil {
        return respondError(c, err, "")
    }
    in := readMarket(f)
    img := f.file("marketImage")
    ch := h.rules(in, false, m.ID)
    ch = append(ch, validation.ImageFile("marketImage", img, false, m.Image, "Market image is required"))
    if err := runChain(ctx, ch); err != nil {
        return respondError(c, err, "")
    }

    m.Name = model.Pick(model.MergeProvided, in.Name, m.Name)
    m.Location = model.Pick(model.MergeProvided, in.Location, m.Location)
    m.Phone = model.Pick(model.MergeProvided, in.Phone, m.Phone)
    m.AdminID = model.PickID(model.MergeProvided, in.AdminID, m.AdminID)
    if m.Image, err = h.Media.Keep(ctx, m.Image, img, media.FolderMarkets); err != nil {
        return respondError(c, err, "")
    }
    if err := h.Markets.Update(ctx, m); err != nil {
        return respondError(c, err, "Market not found")
    }
    return success(c, http.StatusOK, "Market updated successfully", "market", m)
}

// Delete handles DELETE /api/markets/:id together with its listings.
func (h *MarketHandler) Delete(c echo.Context) error {
    id, err := idParam(c, "id")
    if err != nil {
        return respondError(c, err, "")
    }
    res, err := h.Cascade.Delete(c.Request().Context(), repository.KindMarket, id)
    if err != nil {
        return respondError(c, err, "Market not found")
    }
    return success(c, http.StatusOK, "Market and its products deleted successfully", "removed", res.Removed)
}

func (h *MarketHandler) byParam(c echo.Context) (*model.Market, error) {
    id, err := idParam(c, "id")
    if err != nil {
        return nil, err
    }
    return h.Markets.GetByID(c.Request().Context(), id)
}
