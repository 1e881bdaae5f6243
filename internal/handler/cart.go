package handler

import (
    "encoding/json"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/marketplace/grocery-api/internal/middleware"
    "github.com/marketplace/grocery-api/internal/model"
    "github.com/marketplace/grocery-api/internal/repository"
    "github.com/marketplace/grocery-api/internal/validation"
)

// CartHandler serves /api/cart.
type CartHandler struct{ *Deps }

func NewCartHandler(d *Deps) *CartHandler { return &CartHandler{d} }

// cartBody accepts numbers or numeric strings.
type cartBody struct {
    ProductMarketID json.Number `json:"productMarketId" form:"productMarketId"`
    Quantity        json.Number `json:"quantity" form:"quantity"`
}

// Add handles POST /api/cart.  Adding a listing that is already in the
// caller's cart adds to its quantity and answers 200; a new line answers
// 201.
func (h *CartHandler) Add(c echo.Context) error {
    ctx := c.Request().Context()
    var in cartBody
    if err := c.Bind(&in); err != nil {
        return fail(c, http.StatusBadRequest, "Please provide all fields")
    }
    pmID := parseID(in.ProductMarketID.String())
    ch := validation.Chain{
        validation.Exists("productMarketId", pmID, h.Listings.Exists, "Product market does not exist"),
        validation.IntAtLeast("quantity", in.Quantity.String(), 1, "Quantity must be a positive whole number"),
    }
    if err := runChain(ctx, ch); err != nil {
        return respondError(c, err, "")
    }
    qty, _ := strconv.Atoi(in.Quantity.String())
    cart, created, err := h.Carts.Add(ctx, middleware.CurrentUser(c).ID, pmID, qty)
    if err != nil {
        return respondError(c, err, "")
    }
    if created {
        return success(c, http.StatusCreated, "Cart added", "cart", cart)
    }
    return success(c, http.StatusOK, "Cart updated", "cart", cart)
}

// List handles GET /api/cart/get.
func (h *CartHandler) List(c echo.Context) error {
    carts, err := h.Carts.List(c.Request().Context())
    if err != nil {
        return respondError(c, err, "")
    }
    return c.JSON(http.StatusOK, carts)
}

// Mine handles GET /api/cart/getCartData: the caller's lines with listing
// details.
func (h *CartHandler) Mine(c echo.Context) error {
    ctx := c.Request().Context()
    carts, err := h.Carts.ListByUser(ctx, middleware.CurrentUser(c).ID)
    if err != nil {
        return respondError(c, err, "")
    }
    ids := make([]uint64, len(carts))
    for i, ct := range carts {
        ids[i] = ct.ProductMarketID
    }
    details, err := h.Listings.DetailsByID(ctx, ids)
    if err != nil {
        return respondError(c, err, "")
    }
    out := make([]model.CartDetail, len(carts))
    for i, ct := range carts {
        out[i] = model.CartDetail{Cart: *ct, Listing: details[ct.ProductMarketID]}
    }
    return c.JSON(http.StatusOK, out)
}

// Baskets handles GET /api/cart/getCartDataAdmin: every user's cart with
// quantities summed per listing.
func (h *CartHandler) Baskets(c echo.Context) error {
    baskets, err := h.Carts.Baskets(c.Request().Context())
    if err != nil {
        return respondError(c, err, "")
    }
    if len(baskets) == 0 {
        return fail(c, http.StatusNotFound, "No data found")
    }
    return c.JSON(http.StatusOK, baskets)
}

// owned loads the :id cart line and checks it belongs to the caller.
func (h *CartHandler) owned(c echo.Context) (*model.Cart, error) {
    id, err := idParam(c, "id")
    if err != nil {
        return nil, err
    }
    ct, err := h.Carts.GetByID(c.Request().Context(), id)
    if err != nil {
        return nil, err
    }
    if ct.UserID != middleware.CurrentUser(c).ID {
        return nil, repository.ErrForbidden
    }
    return ct, nil
}

// Get handles GET /api/cart/:id.
func (h *CartHandler) Get(c echo.Context) error {
    ct, err := h.owned(c)
    if err != nil {
        return respondError(c, err, "Cart not found")
    }
    return success(c, http.StatusOK, "Cart fetched", "cart", ct)
}

// Update handles PUT /api/cart/:id, setting the quantity.
func (h *CartHandler) Update(c echo.Context) error {
    ct, err := h.owned(c)
    if err != nil {
        return respondError(c, err, "Cart not found")
    }
    var in cartBody
    if err := c.Bind(&in); err != nil {
        return fail(c, http.StatusBadRequest, "Please provide all fields")
    }
    ch := validation.Chain{validation.IntAtLeast("quantity", in.Quantity.String(), 1, "Quantity must be a positive whole number")}
    if err := runChain(c.Request().Context(), ch); err != nil {
        return respondError(c, err, "")
    }
    qty, _ := strconv.Atoi(in.Quantity.String())
    ct, err = h.Carts.SetQuantity(c.Request().Context(), ct.ID, qty)
    if err != nil {
        return respondError(c, err, "Cart not found")
    }
    return success(c, http.StatusOK, "Cart updated", "cart", ct)
}

// Delete handles DELETE /api/cart/:id.
func (h *CartHandler) Delete(c echo.Context) error {
    ct, err := h.owned(c)
    if err != nil {
        return respondError(c, err, "Cart not found")
    }
    if err := h.Carts.Delete(c.Request().Context(), ct.ID); err != nil {
        return respondError(c, err, "Cart not found")
    }
    return success(c, http.StatusOK, "Cart deleted successfully", "", nil)
}
