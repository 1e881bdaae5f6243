package handler

import (
    "bytes"
    "context"
    "encoding/json"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/marketplace/grocery-api/internal/middleware"
    "github.com/marketplace/grocery-api/internal/model"
    "github.com/marketplace/grocery-api/internal/repository"
    "github.com/marketplace/grocery-api/internal/validation"
)

// ListingHandler serves /api/productMarket.
type ListingHandler struct{ *Deps }

func NewListingHandler(d *Deps) *ListingHandler { return &ListingHandler{d} }

// fields is a request body that remembers which keys were sent and which
// were sent as null.
type fields map[string]json.RawMessage

var jsonNull = []byte("null")

func readFields(c echo.Context) (fields, error) {
    if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
        m := fields{}
        if err := json.NewDecoder(c.Request().Body).Decode(&m); err != nil {
            return nil, validation.Errors{{Msg: "malformed JSON body", Param: "body", Location: validation.Body}}
        }
        return m, nil
    }
    f, err := readForm(c)
    if err != nil {
        return nil, err
    }
    m := fields{}
    for k := range f.vals {
        raw, _ := json.Marshal(f.get(k))
        m[k] = raw
    }
    return m, nil
}

func (f fields) sent(k string) bool { _, ok := f[k]; return ok }

func (f fields) null(k string) bool { return bytes.Equal(bytes.TrimSpace(f[k]), jsonNull) }

// text returns the value as text: strings unquoted, numbers verbatim, ""
// when absent or null.
func (f fields) text(k string) string {
    raw, ok := f[k]
    if !ok || f.null(k) {
        return ""
    }
    var s string
    if json.Unmarshal(raw, &s) == nil {
        return strings.TrimSpace(s)
    }
    return strings.TrimSpace(string(raw))
}

// given reports whether k carries a value, as opposed to absent or null.
func (f fields) given(k string) bool { return f.sent(k) && !f.null(k) && f.text(k) != "" }

func (f fields) float(k string) *float64 {
    v, err := strconv.ParseFloat(f.text(k), 64)
    if err != nil {
        return nil
    }
    return &v
}

func (f fields) date(k string) *time.Time {
    t, err := time.Parse(model.DateLayout, f.text(k))
    if err != nil {
        return nil
    }
    return &t
}

func dateText(t *time.Time) string {
    if t == nil {
        return ""
    }
    return t.Format(model.DateLayout)
}

// rules validates the listing body.  cur is nil on create; on update only
// sent fields are checked and the pair and date order are checked against
// the merged result.
func (h *ListingHandler) rules(f fields, cur *model.ProductMarket) validation.Chain {
    create := cur == nil
    if cur == nil {
        cur = &model.ProductMarket{}
    }
    productID := cur.ProductID
    if f.given("productId") {
        productID = parseID(f.text("productId"))
    }
    marketID := cur.MarketID
    if f.given("marketId") {
        marketID = parseID(f.text("marketId"))
    }
    start, end := dateText(cur.StartDate), dateText(cur.EndDate)
    if f.sent("startDate") {
        start = f.text("startDate")
    }
    if f.sent("endDate") {
        end = f.text("endDate")
    }

    must := func(k string) bool { return create || f.sent(k) }
    var ch validation.Chain
    if must("productId") {
        ch = append(ch, validation.Exists("productId", parseID(f.text("productId")), h.Products.Exists, "Product does not exist"))
    }
    if must("marketId") {
        ch = append(ch, validation.Exists("marketId", parseID(f.text("marketId")), h.Markets.Exists, "Market does not exist"))
    }
    ch = append(ch, validation.Custom("productId", func(ctx context.Context) (string, error) {
        if productID == 0 || marketID == 0 {
            return "", nil
        }
        used, err := h.Listings.PairTaken(ctx, productID, marketID, cur.ID)
        if err != nil || !used {
            return "", err
        }
        return "This product is already listed in this market", nil
    }))
    if must("regularPrice") {
        ch = append(ch, validation.Positive("regularPrice", f.text("regularPrice"), "Regular price must be a positive number"))
    }
    if must("stockAmount") {
        ch = append(ch, validation.IntAtLeast("stockAmount", f.text("stockAmount"), 0, "Stock amount must be a whole number of at least 0"))
    }
    if f.given("discountPrice") {
        ch = append(ch, validation.Positive("discountPrice", f.text("discountPrice"), "Discount price must be a positive number"))
    }
    if f.given("discountRate") {
        ch = append(ch, validation.Positive("discountRate", f.text("discountRate"), "Discount rate must be a positive number"))
    }
    if f.given("startDate") {
        ch = append(ch, validation.Date("startDate", f.text("startDate"), "Start date must be YYYY-MM-DD"))
    }
    if f.given("endDate") {
        ch = append(ch, validation.Date("endDate", f.text("endDate"), "End date must be YYYY-MM-DD"))
    }
    if start != "" && end != "" {
        ch = append(ch, validation.DateOrder("endDate", start, end, "End date cannot be before start date"))
    }
    return ch
}

// merge applies f onto pm.  Absent fields keep their value; an explicit
// null clears an optional field.
func (f fields) merge(pm *model.ProductMarket) {
    if f.given("productId") {
        pm.ProductID = parseID(f.text("productId"))
    }
    if f.given("marketId") {
        pm.MarketID = parseID(f.text("marketId"))
    }
    if v := f.float("regularPrice"); v != nil {
        pm.RegularPrice = *v
    }
    if f.given("stockAmount") {
        n, _ := strconv.Atoi(f.text("stockAmount"))
        pm.StockAmount = model.PickInt(model.MergeProvided, &n, pm.StockAmount)
    }
    if f.sent("discountPrice") {
        pm.DiscountPrice = f.float("discountPrice")
    }
    if f.sent("discountRate") {
        pm.DiscountRate = f.float("discountRate")
    }
    if f.sent("startDate") {
        pm.StartDate = f.date("startDate")
    }
    if f.sent("endDate") {
        pm.EndDate = f.date("endDate")
    }
}

// ownMarket enforces that a plain admin only touches listings of a market
// they own.  Super-admins pass.
func (h *ListingHandler) ownMarket(c echo.Context, marketID uint64) error {
    a := middleware.CurrentAdmin(c)
    if a == nil || a.Role == model.RoleSuperAdmin {
        return nil
    }
    m, err := h.Markets.GetByID(c.Request().Context(), marketID)
    if err != nil {
        return err
    }
    if m.AdminID != a.ID {
        return repository.ErrForbidden
    }
    return nil
}

// Create handles POST /api/productMarket.
func (h *ListingHandler) Create(c echo.Context) error {
    ctx := c.Request().Context()
    f, err := readFields(c)
    if err != nil {
        return respondError(c, err, "")
    }
    if err := runChain(ctx, h.rules(f, nil)); err != nil {
        return respondError(c, err, "")
    }
    pm := &model.ProductMarket{}
    f.merge(pm)
    if err := h.ownMarket(c, pm.MarketID); err != nil {
        return respondError(c, err, "Market not found")
    }
    if err := h.Listings.Create(ctx, pm); err != nil {
        return respondError(c, err, "")
    }
    return success(c, http.StatusCreated, "Product added to market successfully", "productMarket", pm)
}

// Update handles PUT /api/productMarket/:id.
func (h *ListingHandler) Update(c echo.Context) error {
    ctx := c.Request().Context()
    id, err := idParam(c, "id")
    if err != nil {
        return respondError(c, err, "")
    }
    pm, err := h.Listings.GetByID(ctx, id)
    if err != nil {
        return respondError(c, err, "Product market not found")
    }
    if err := h.ownMarket(c, pm.MarketID); err != nil {
        return respondError(c, err, "Market not found")
    }
    f, err := readFields(c)
    if err != nil {
        return respondError(c, err, "")
    }
    if err := runChain(ctx, h.rules(f, pm)); err != nil {
        return respondError(c, err, "")
    }
    f.merge(pm)
    if err := h.ownMarket(c, pm.MarketID); err != nil {
        return respondError(c, err, "Market not found")
    }
    if err := h.Listings.Update(ctx, pm); err != nil {
        return respondError(c, err, "Product market not found")
    }
    return success(c, http.StatusOK, "Product market updated successfully", "productMarket", pm)
}

// Delete handles DELETE /api/productMarket/:id with its carts and favorites.
func (h *ListingHandler) Delete(c echo.Context) error {
    ctx := c.Request().Context()
    id, err := idParam(c, "id")
    if err != nil {
        return respondError(c, err, "")
    }
    pm, err := h.Listings.GetByID(ctx, id)
    if err != nil {
        return respondError(c, err, "Product market not found")
    }
    if err := h.ownMarket(c, pm.MarketID); err != nil {
        return respondError(c, err, "Market not found")
    }
    res, err := h.Cascade.Delete(ctx, repository.KindProductMarket, id)
    if err != nil {
        return respondError(c, err, "Product market not found")
    }
    return success(c, http.StatusOK, "Product market deleted successfully", "removed", res.Removed)
}

// Get handles GET /api/productMarket/:id.
func (h *ListingHandler) Get(c echo.Context) error {
    id, err := idParam(c, "id")
    if err != nil {
        return respondError(c, err, "")
    }
    d, err := h.Listings.Detail(c.Request().Context(), id)
    if err != nil {
        return respondError(c, err, "Product market not found")
    }
    return c.JSON(http.StatusOK, d)
}

func (h *ListingHandler) details(c echo.Context, f repository.ListingFilter) ([]*model.ListingDetail, error) {
    return h.Listings.Details(c.Request().Context(), f)
}

// Search handles GET /api/productMarket/get and /getBySearch; ?search=
// matches a substring of the product name.
func (h *ListingHandler) Search(c echo.Context) error {
    items, err := h.details(c, repository.ListingFilter{Search: strings.TrimSpace(c.QueryParam("search"))})
    if err != nil {
        return respondError(c, err, "")
    }
    return c.JSON(http.StatusOK, items)
}

// All handles GET /api/productMarket/productMarketData.
func (h *ListingHandler) All(c echo.Context) error {
    items, err := h.details(c, repository.ListingFilter{})
    if err != nil {
        return respondError(c, err, "")
    }
    return c.JSON(http.StatusOK, echo.Map{"success": true, "data": items})
}

// Mine handles GET /api/productMarket/get-product: the caller's markets.
func (h *ListingHandler) Mine(c echo.Context) error {
    items, err := h.details(c, repository.ListingFilter{AdminID: middleware.CurrentAdmin(c).ID})
    if err != nil {
        return respondError(c, err, "")
    }
    return c.JSON(http.StatusOK, echo.Map{"success": true, "data": items})
}

// ByAdmin handles GET /api/productMarket/get-product-market/:id.
func (h *ListingHandler) ByAdmin(c echo.Context) error {
    id, err := idParam(c, "id")
    if err != nil {
        return respondError(c, err, "")
    }
    items, err := h.details(c, repository.ListingFilter{AdminID: id})
    if err != nil {
        return respondError(c, err, "")
    }
    return c.JSON(http.StatusOK, echo.Map{"success": true, "data": items})
}

// Discounted handles GET /api/productMarket/discountProducts.
func (h *ListingHandler) Discounted(c echo.Context) error {
    items, err := h.details(c, repository.ListingFilter{Discounted: true})
    if err != nil {
        return respondError(c, err, "")
    }
    return c.JSON(http.StatusOK, echo.Map{"products": items})
}

// LowStock handles GET /api/productMarket/getLowStockProducts.
func (h *ListingHandler) LowStock(c echo.Context) error {
    items, err := h.details(c, repository.ListingFilter{LowStock: true})
    if err != nil {
        return respondError(c, err, "")
    }
    return c.JSON(http.StatusOK, echo.Map{"products": items})
}

// Filter handles GET /api/productMarket/filter?categoryId=&brandId=.
func (h *ListingHandler) Filter(c echo.Context) error {
    items, err := h.details(c, repository.ListingFilter{
        CategoryID: parseID(c.QueryParam("categoryId")),
        BrandID:    parseID(c.QueryParam("brandId")),
    })
    if err != nil {
        return respondError(c, err, "")
    }
    return c.JSON(http.StatusOK, items)
}

// ByCategory handles GET /api/productMarket/by-category/:categoryId.  The
// brands returned are those present in the category before ?brandId=
// narrows the listings.
func (h *ListingHandler) ByCategory(c echo.Context) error {
    categoryID, err := idParam(c, "categoryId")
    if err != nil {
        return respondError(c, err, "")
    }
    all, err := h.details(c, repository.ListingFilter{CategoryID: categoryID})
    if err != nil {
        return respondError(c, err, "")
    }
    brands := []*model.Brand{}
    seen := map[uint64]bool{}
    for _, d := range all {
        if b := d.Product.Brand; b != nil && !seen[b.ID] {
            seen[b.ID] = true
            brands = append(brands, b)
        }
    }
    items := all
    if brandID := parseID(c.QueryParam("brandId")); brandID != 0 {
        items = make([]*model.ListingDetail, 0, len(all))
        for _, d := range all {
            if d.Product.BrandID == brandID {
                items = append(items, d)
            }
        }
    }
    return c.JSON(http.StatusOK, echo.Map{"products": items, "brands": brands})
}
