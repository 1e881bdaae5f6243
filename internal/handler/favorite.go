package handler

import (
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/marketplace/grocery-api/internal/middleware"
    "github.com/marketplace/grocery-api/internal/model"
    "github.com/marketplace/grocery-api/internal/repository"
    "github.com/marketplace/grocery-api/internal/validation"
)

// FavoriteHandler serves /api/favorite.
type FavoriteHandler struct{ *Deps }

func NewFavoriteHandler(d *Deps) *FavoriteHandler { return &FavoriteHandler{d} }

// Add handles POST /api/favorite.  A listing can be favorited once.
func (h *FavoriteHandler) Add(c echo.Context) error {
    ctx := c.Request().Context()
    var in cartBody
    if err := c.Bind(&in); err != nil {
        return fail(c, http.StatusBadRequest, "Please provide all fields")
    }
    pmID := parseID(in.ProductMarketID.String())
    ch := validation.Chain{validation.Exists("productMarketId", pmID, h.Listings.Exists, "Product market does not exist")}
    if err := runChain(ctx, ch); err != nil {
        return respondError(c, err, "")
    }
    fav, err := h.Favorites.Add(ctx, middleware.CurrentUser(c).ID, pmID)
    if errors.Is(err, repository.ErrConflict) {
        return fail(c, http.StatusBadRequest, "Product is already in favorites")
    }
    if err != nil {
        return respondError(c, err, "")
    }
    return success(c, http.StatusCreated, "Favorite added", "favorite", fav)
}

// List handles GET /api/favorite/get.
func (h *FavoriteHandler) List(c echo.Context) error {
    favs, err := h.Favorites.List(c.Request().Context())
    if err != nil {
        return respondError(c, err, "")
    }
    return c.JSON(http.StatusOK, favs)
}

// Mine handles GET /api/favorite/getFavData.
func (h *FavoriteHandler) Mine(c echo.Context) error {
    ctx := c.Request().Context()
    favs, err := h.Favorites.ListByUser(ctx, middleware.CurrentUser(c).ID)
    if err != nil {
        return respondError(c, err, "")
    }
    ids := make([]uint64, len(favs))
    for i, f := range favs {
        ids[i] = f.ProductMarketID
    }
    details, err := h.Listings.DetailsByID(ctx, ids)
    if err != nil {
        return respondError(c, err, "")
    }
    out := make([]model.FavoriteDetail, len(favs))
    for i, f := range favs {
        out[i] = model.FavoriteDetail{Favorite: *f, Listing: details[f.ProductMarketID]}
    }
    return c.JSON(http.StatusOK, out)
}

func (h *FavoriteHandler) owned(c echo.Context) (*model.Favorite, error) {
    id, err := idParam(c, "id")
    if err != nil {
        return nil, err
    }
    f, err := h.Favorites.GetByID(c.Request().Context(), id)
    if err != nil {
        return nil, err
    }
    if f.UserID != middleware.CurrentUser(c).ID {
        return nil, repository.ErrForbidden
    }
    return f, nil
}

// Get handles GET /api/favorite/:id.
func (h *FavoriteHandler) Get(c echo.Context) error {
    f, err := h.owned(c)
    if err != nil {
        return respondError(c, err, "Favorite not found")
    }
    return success(c, http.StatusOK, "Favorite fetched", "favorite", f)
}

// Update handles PUT /api/favorite/:id, pointing the favorite at another
// listing.
func (h *FavoriteHandler) Update(c echo.Context) error {
    ctx := c.Request().Context()
    f, err := h.owned(c)
    if err != nil {
        return respondError(c, err, "Favorite not found")
    }
    var in cartBody
    if err := c.Bind(&in); err != nil {
        return fail(c, http.StatusBadRequest, "Please provide all fields")
    }
    pmID := parseID(in.ProductMarketID.String())
    ch := validation.Chain{validation.Exists("productMarketId", pmID, h.Listings.Exists, "Product market does not exist")}
    if err := runChain(ctx, ch); err != nil {
        return respondError(c, err, "")
    }
    f, err = h.Favorites.Move(ctx, f.ID, pmID)
    if errors.Is(err, repository.ErrConflict) || errors.Is(err, repository.ErrDuplicate) {
        return fail(c, http.StatusBadRequest, "Product is already in favorites")
    }
    if err != nil {
        return respondError(c, err, "Favorite not found")
    }
    return success(c, http.StatusOK, "Favorite updated successfully", "favorite", f)
}

// Delete handles DELETE /api/favorite/:id.
func (h *FavoriteHandler) Delete(c echo.Context) error {
    f, err := h.owned(c)
    if err != nil {
        return respondError(c, err, "Favorite not found")
    }
    if err := h.Favorites.Delete(c.Request().Context(), f.ID); err != nil {
        return respondError(c, err, "Favorite not found")
    }
    return success(c, http.StatusOK, "Favourite deleted successfully", "", nil)
}
