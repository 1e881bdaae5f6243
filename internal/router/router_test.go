package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/marketplace/grocery-api/internal/database"
	"github.com/marketplace/grocery-api/internal/handler"
	"github.com/marketplace/grocery-api/internal/media"
	"github.com/marketplace/grocery-api/internal/model"
	"github.com/marketplace/grocery-api/internal/repository"
	"github.com/marketplace/grocery-api/internal/service"
	"github.com/marketplace/grocery-api/internal/utils"
)

const testPassword = "Str0ng@pass"

// pngHeader is enough of a PNG for content sniffing.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type memStore struct{ n int }

func (s *memStore) Upload(_ context.Context, r io.Reader, _ string, folder string) (model.Image, error) {
	_, _ = io.Copy(io.Discard, r)
	s.n++
	id := folder + "/" + strconv.Itoa(s.n)
	return model.Image{ID: id, URL: "http://media.test/" + id}, nil
}

func (s *memStore) Destroy(context.Context, string) error { return nil }

type stubDetector struct {
	label string
	err   error
}

func (d stubDetector) Detect(_ context.Context, _ string, userID uint64) (*service.Detection, error) {
	if d.err != nil {
		return nil, d.err
	}
	det := &service.Detection{Status: "ok", UserID: userID}
	if d.label != "" {
		det.Objects = []service.DetectedObject{{Label: d.label, Score: 0.9}}
	}
	return det, nil
}

type testAPI struct {
	t    *testing.T
	e    *echo.Echo
	deps *handler.Deps
}

func newTestAPI(t *testing.T, det handler.Detector) *testAPI {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.Migrate(context.Background(), db, database.DialectSQLite); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	d := handler.NewDeps(db, repository.NewCascade(db, repository.DefaultPlan(false)))
	d.Log = zap.NewNop()
	d.Media = media.NewRelay(&memStore{}, zap.NewNop(), nil)
	d.Tokens = service.NewTokenIssuer("router-test", time.Hour)
	d.Detector = det
	d.BcryptCost = 4

	e := echo.New()
	e.HTTPErrorHandler = handler.HTTPErrorHandler
	RegisterRoutes(e, db, nil, "", "")
	RegisterAPI(e, d, NewGates(d, nil))
	return &testAPI{t: t, e: e, deps: d}
}

func (a *testAPI) must(err error) {
	a.t.Helper()
	if err != nil {
		a.t.Fatal(err)
	}
}

func (a *testAPI) hash() string {
	h, err := utils.HashPassword(testPassword, 4)
	a.must(err)
	return h
}

func (a *testAPI) admin(username, role string) *model.Admin {
	adm := &model.Admin{Name: "Ada", Surname: "Admin", Username: username, Email: username + "@example.com",
		PasswordHash: a.hash(), City: "Izmir", PhoneNumber: "5551234567", Role: role}
	a.must(a.deps.Admins.Create(context.Background(), adm))
	return adm
}

func (a *testAPI) user(username string) *model.User {
	u := &model.User{Name: "Uma", Surname: "User", Username: username, Email: username + "@example.com",
		PasswordHash: a.hash(), City: "Izmir", PhoneNumber: "5551234567"}
	a.must(a.deps.Users.Create(context.Background(), u))
	return u
}

// catalog seeds one market owned by owner with one listed product.
func (a *testAPI) catalog(owner *model.Admin, productName string) (*model.Market, *model.Product, *model.ProductMarket) {
	ctx := context.Background()
	m := &model.Market{Name: "Market of " + owner.Username, Location: "Main St", Phone: "5551234567", AdminID: owner.ID}
	a.must(a.deps.Markets.Create(ctx, m))
	cat := &model.Category{Name: "Category for " + productName}
	a.must(a.deps.Categories.Create(ctx, cat))
	br := &model.Brand{Name: "Brand for " + productName}
	a.must(a.deps.Brands.Create(ctx, br))
	p := &model.Product{Name: productName, Gram: 1000, Contents: "whole milk", CategoryID: cat.ID, BrandID: br.ID,
		Image: model.Image{ID: "products/seed", URL: "http://media.test/products/seed"}}
	a.must(a.deps.Products.Create(ctx, p))
	discount := 8.5
	pm := &model.ProductMarket{ProductID: p.ID, MarketID: m.ID, RegularPrice: 10, DiscountPrice: &discount, StockAmount: 5}
	a.must(a.deps.Listings.Create(ctx, pm))
	return m, p, pm
}

func (a *testAPI) token(kind model.SubjectKind, id uint64, role string) string {
	s, err := a.deps.Tokens.Issue(kind, id, role)
	a.must(err)
	return s.Token
}

func (a *testAPI) do(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func jsonReq(method, target string, body any) *http.Request {
	bs, _ := json.Marshal(body)
	req := httptest.NewRequest(method, target, bytes.NewReader(bs))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func formReq(method, target string, vals url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(vals.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return req
}

func multipartReq(t *testing.T, method, target string, vals map[string]string, fileField string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range vals {
		_ = w.WriteField(k, v)
	}
	if fileField != "" {
		part, err := w.CreateFormFile(fileField, "photo.png")
		if err != nil {
			t.Fatal(err)
		}
		_, _ = part.Write(pngHeader)
	}
	_ = w.Close()
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func expect(t *testing.T, rec *httptest.ResponseRecorder, status int) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d; body %s", rec.Code, status, rec.Body.String())
	}
}

func TestHealthz(t *testing.T) {
	a := newTestAPI(t, stubDetector{})
	expect(t, a.do(httptest.NewRequest(http.MethodGet, "/healthz", nil), ""), http.StatusOK)
}

func TestAdminRegisterBootstrap(t *testing.T) {
	a := newTestAPI(t, stubDetector{})
	fields := func(username string) map[string]string {
		return map[string]string{
			"name": "Grace", "surname": "Hopper", "username": username, "email": username + "@example.com",
			"password": testPassword, "city": "Izmir", "phoneNumber": "5551234567", "adminRole": "admin",
		}
	}

	rec := a.do(multipartReq(t, http.MethodPost, "/api/admin/register", fields("grace"), ""), "")
	expect(t, rec, http.StatusCreated)
	var body struct {
		Admin model.Admin `json:"admin"`
	}
	decode(t, rec, &body)
	if body.Admin.Role != model.RoleSuperAdmin {
		t.Fatalf("first admin role = %q, want %q", body.Admin.Role, model.RoleSuperAdmin)
	}

	expect(t, a.do(multipartReq(t, http.MethodPost, "/api/admin/register", fields("linus"), ""), ""), http.StatusUnauthorized)

	plain := a.admin("plain", model.RoleAdmin)
	plainTok := a.token(model.SubjectAdmin, plain.ID, plain.Role)
	expect(t, a.do(multipartReq(t, http.MethodPost, "/api/admin/register", fields("linus"), ""), plainTok), http.StatusForbidden)

	superTok := a.token(model.SubjectAdmin, body.Admin.ID, model.RoleSuperAdmin)
	rec = a.do(multipartReq(t, http.MethodPost, "/api/admin/register", fields("linus"), ""), superTok)
	expect(t, rec, http.StatusCreated)
	decode(t, rec, &body)
	if body.Admin.Role != model.RoleAdmin {
		t.Fatalf("registered role = %q, want %q", body.Admin.Role, model.RoleAdmin)
	}
}

func TestLoginWrongPasswordSetsNoCookie(t *testing.T) {
	a := newTestAPI(t, stubDetector{})
	a.admin("ada", model.RoleAdmin)
	a.user("uma")

	for _, path := range []string{"/api/admin/login", "/api/auth/login"} {
		username := "ada"
		if path == "/api/auth/login" {
			username = "uma"
		}
		rec := a.do(jsonReq(http.MethodPost, path, echo.Map{"username": username, "password": "Wr0ng@pass"}), "")
		expect(t, rec, http.StatusUnauthorized)
		if c := rec.Header().Get("Set-Cookie"); c != "" {
			t.Fatalf("%s: failed login set cookie %q", path, c)
		}

		rec = a.do(jsonReq(http.MethodPost, path, echo.Map{"username": "nobody", "password": testPassword}), "")
		expect(t, rec, http.StatusUnauthorized)

		rec = a.do(jsonReq(http.MethodPost, path, echo.Map{"username": username}), "")
		expect(t, rec, http.StatusBadRequest)

		rec = a.do(jsonReq(http.MethodPost, path, echo.Map{"username": username, "password": testPassword}), "")
		expect(t, rec, http.StatusOK)
		if !strings.HasPrefix(rec.Header().Get("Set-Cookie"), "token=") {
			t.Fatalf("%s: login did not set the token cookie", path)
		}
	}
}

func TestVerifyTokenReadsHeaderOnly(t *testing.T) {
	a := newTestAPI(t, stubDetector{})
	u := a.user("uma")
	tok := a.token(model.SubjectUser, u.ID, "")

	req := httptest.NewRequest(http.MethodGet, "/api/auth/verifyToken", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: tok})
	expect(t, a.do(req, ""), http.StatusUnauthorized)

	rec := a.do(httptest.NewRequest(http.MethodGet, "/api/auth/verifyToken", nil), tok)
	expect(t, rec, http.StatusOK)
	var body struct {
		User struct {
			ID uint64 `json:"id"`
		} `json:"user"`
	}
	decode(t, rec, &body)
	if body.User.ID != u.ID {
		t.Fatalf("verified id = %d, want %d", body.User.ID, u.ID)
	}
}

func TestMarketDuplicateNameRejected(t *testing.T) {
	a := newTestAPI(t, stubDetector{})
	adm := a.admin("ada", model.RoleAdmin)
	tok := a.token(model.SubjectAdmin, adm.ID, adm.Role)
	fields := map[string]string{"marketName": "Corner Shop", "marketLocation": "Main St", "marketPhone": "5551234567"}

	expect(t, a.do(multipartReq(t, http.MethodPost, "/api/markets", fields, "marketImage"), ""), http.StatusUnauthorized)

	rec := a.do(multipartReq(t, http.MethodPost, "/api/markets", fields, "marketImage"), tok)
	expect(t, rec, http.StatusCreated)
	var created struct {
		Market model.Market `json:"market"`
	}
	decode(t, rec, &created)
	if created.Market.AdminID != adm.ID || created.Market.Image.Empty() {
		t.Fatalf("unexpected market %+v", created.Market)
	}

	rec = a.do(multipartReq(t, http.MethodPost, "/api/markets", fields, "marketImage"), tok)
	expect(t, rec, http.StatusBadRequest)
	if !strings.Contains(rec.Body.String(), "Market name is already in use") {
		t.Fatalf("missing duplicate message: %s", rec.Body.String())
	}

	delete(fields, "marketPhone")
	fields["marketName"] = "Other Shop"
	expect(t, a.do(multipartReq(t, http.MethodPost, "/api/markets", fields, ""), tok), http.StatusBadRequest)
}

func TestProductRenameUniqueness(t *testing.T) {
	a := newTestAPI(t, stubDetector{})
	adm := a.admin("ada", model.RoleAdmin)
	tok := a.token(model.SubjectAdmin, adm.ID, adm.Role)
	_, milk, _ := a.catalog(adm, "Milk")
	ctx := context.Background()
	bread := &model.Product{Name: "Bread", Gram: 500, Contents: "wheat flour", CategoryID: milk.CategoryID, BrandID: milk.BrandID,
		Image: model.Image{ID: "products/bread", URL: "http://media.test/products/bread"}}
	a.must(a.deps.Products.Create(ctx, bread))

	vals := url.Values{
		"productName":     {"Bread"},
		"productGr":       {"750"},
		"productContents": {"semi skimmed milk"},
		"categoryId":      {strconv.FormatUint(milk.CategoryID, 10)},
		"brandId":         {strconv.FormatUint(milk.BrandID, 10)},
	}
	target := "/api/products/" + strconv.FormatUint(milk.ID, 10)
	rec := a.do(formReq(http.MethodPut, target, vals), tok)
	expect(t, rec, http.StatusBadRequest)
	if !strings.Contains(rec.Body.String(), "Product name is already in use") {
		t.Fatalf("missing uniqueness message: %s", rec.Body.String())
	}

	vals.Set("productName", "Milk")
	rec = a.do(formReq(http.MethodPut, target, vals), tok)
	expect(t, rec, http.StatusOK)
	got, err := a.deps.Products.GetByID(ctx, milk.ID)
	a.must(err)
	if got.Gram != 750 || got.Contents != "semi skimmed milk" || got.Image != milk.Image {
		t.Fatalf("product not replaced as expected: %+v", got)
	}

	vals.Del("productContents")
	expect(t, a.do(formReq(http.MethodPut, target, vals), tok), http.StatusBadRequest)
}

func TestAdminDeleteRemovesMarketTree(t *testing.T) {
	a := newTestAPI(t, stubDetector{})
	root := a.admin("root", model.RoleSuperAdmin)
	owner := a.admin("owner", model.RoleAdmin)
	m, p, pm := a.catalog(owner, "Milk")
	u := a.user("uma")
	u2 := a.user("otto")
	ctx := context.Background()
	for _, id := range []uint64{u.ID, u2.ID} {
		_, _, err := a.deps.Carts.Add(ctx, id, pm.ID, 2)
		a.must(err)
	}
	_, err := a.deps.Favorites.Add(ctx, u.ID, pm.ID)
	a.must(err)

	target := "/api/admin/deleteAdmin/" + strconv.FormatUint(owner.ID, 10)
	ownerTok := a.token(model.SubjectAdmin, owner.ID, owner.Role)
	expect(t, a.do(httptest.NewRequest(http.MethodDelete, target, nil), ownerTok), http.StatusForbidden)

	rootTok := a.token(model.SubjectAdmin, root.ID, root.Role)
	rec := a.do(httptest.NewRequest(http.MethodDelete, target, nil), rootTok)
	expect(t, rec, http.StatusOK)
	var body struct {
		Removed map[string]int64 `json:"removed"`
	}
	decode(t, rec, &body)
	want := map[string]int64{"admin": 1, "market": 1, "productMarket": 1, "cart": 2, "favorite": 1}
	for k, n := range want {
		if body.Removed[k] != n {
			t.Fatalf("removed[%s] = %d, want %d (%v)", k, body.Removed[k], n, body.Removed)
		}
	}

	if _, err := a.deps.Markets.GetByID(ctx, m.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("market survived: %v", err)
	}
	if _, err := a.deps.Products.GetByID(ctx, p.ID); err != nil {
		t.Fatalf("product should survive an admin delete: %v", err)
	}
	if _, err := a.deps.Categories.GetByID(ctx, p.CategoryID); err != nil {
		t.Fatalf("category should survive an admin delete: %v", err)
	}
	if _, err := a.deps.Brands.GetByID(ctx, p.BrandID); err != nil {
		t.Fatalf("brand should survive an admin delete: %v", err)
	}
	for _, id := range []uint64{u.ID, u2.ID} {
		carts, err := a.deps.Carts.ListByUser(ctx, id)
		a.must(err)
		if len(carts) != 0 {
			t.Fatalf("carts of user %d survived: %d", id, len(carts))
		}
	}

	expect(t, a.do(httptest.NewRequest(http.MethodDelete, target, nil), rootTok), http.StatusNotFound)
	expect(t, a.do(httptest.NewRequest(http.MethodGet, "/api/admin/profile", nil), ownerTok), http.StatusUnauthorized)
}

func TestCartAddMergesQuantity(t *testing.T) {
	a := newTestAPI(t, stubDetector{})
	_, _, pm := a.catalog(a.admin("ada", model.RoleAdmin), "Milk")
	u := a.user("uma")
	tok := a.token(model.SubjectUser, u.ID, "")

	body := echo.Map{"productMarketId": pm.ID, "quantity": 2}
	expect(t, a.do(jsonReq(http.MethodPost, "/api/cart", body), tok), http.StatusCreated)

	rec := a.do(jsonReq(http.MethodPost, "/api/cart", body), tok)
	expect(t, rec, http.StatusOK)
	var out struct {
		Cart model.Cart `json:"cart"`
	}
	decode(t, rec, &out)
	if out.Cart.Quantity != 4 {
		t.Fatalf("merged quantity = %d, want 4", out.Cart.Quantity)
	}

	expect(t, a.do(jsonReq(http.MethodPost, "/api/cart", echo.Map{"productMarketId": pm.ID, "quantity": 0}), tok), http.StatusBadRequest)
	expect(t, a.do(jsonReq(http.MethodPost, "/api/cart", echo.Map{"productMarketId": 999, "quantity": 1}), tok), http.StatusBadRequest)

	other := a.user("otto")
	otherTok := a.token(model.SubjectUser, other.ID, "")
	target := "/api/cart/" + strconv.FormatUint(out.Cart.ID, 10)
	expect(t, a.do(httptest.NewRequest(http.MethodGet, target, nil), otherTok), http.StatusForbidden)
	expect(t, a.do(httptest.NewRequest(http.MethodGet, target, nil), tok), http.StatusOK)
}

func TestFavoriteAddedOnce(t *testing.T) {
	a := newTestAPI(t, stubDetector{})
	_, _, pm := a.catalog(a.admin("ada", model.RoleAdmin), "Milk")
	u := a.user("uma")
	tok := a.token(model.SubjectUser, u.ID, "")

	body := echo.Map{"productMarketId": pm.ID}
	expect(t, a.do(jsonReq(http.MethodPost, "/api/favorite", body), tok), http.StatusCreated)
	rec := a.do(jsonReq(http.MethodPost, "/api/favorite", body), tok)
	expect(t, rec, http.StatusBadRequest)
	if !strings.Contains(rec.Body.String(), "Product is already in favorites") {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}

	rec = a.do(httptest.NewRequest(http.MethodGet, "/api/favorite/getFavData", nil), tok)
	expect(t, rec, http.StatusOK)
	var favs []model.FavoriteDetail
	decode(t, rec, &favs)
	if len(favs) != 1 {
		t.Fatalf("favorites = %d, want 1", len(favs))
	}
}

func TestListingUpdateNullClearsOptionalFields(t *testing.T) {
	a := newTestAPI(t, stubDetector{})
	owner := a.admin("owner", model.RoleAdmin)
	_, _, pm := a.catalog(owner, "Milk")
	target := "/api/productMarket/" + strconv.FormatUint(pm.ID, 10)

	stranger := a.admin("stranger", model.RoleAdmin)
	strangerTok := a.token(model.SubjectAdmin, stranger.ID, stranger.Role)
	expect(t, a.do(jsonReq(http.MethodPut, target, echo.Map{"stockAmount": 1}), strangerTok), http.StatusForbidden)

	tok := a.token(model.SubjectAdmin, owner.ID, owner.Role)
	rec := a.do(jsonReq(http.MethodPut, target, map[string]any{"discountPrice": nil, "stockAmount": 9}), tok)
	expect(t, rec, http.StatusOK)

	got, err := a.deps.Listings.GetByID(context.Background(), pm.ID)
	a.must(err)
	if got.DiscountPrice != nil {
		t.Fatalf("discount price not cleared: %v", *got.DiscountPrice)
	}
	if got.StockAmount != 9 || got.RegularPrice != 10 {
		t.Fatalf("merge changed the wrong fields: %+v", got)
	}

	rec = a.do(jsonReq(http.MethodPut, target, echo.Map{"startDate": "2026-05-10", "endDate": "2026-05-01"}), tok)
	expect(t, rec, http.StatusBadRequest)
	if !strings.Contains(rec.Body.String(), "End date cannot be before start date") {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestImageUploadMatchesProductName(t *testing.T) {
	a := newTestAPI(t, stubDetector{label: "Milk"})
	a.catalog(a.admin("ada", model.RoleAdmin), "Milk")
	u := a.user("uma")
	tok := a.token(model.SubjectUser, u.ID, "")

	rec := a.do(multipartReq(t, http.MethodPost, "/api/images/upload", nil, "productImage"), tok)
	expect(t, rec, http.StatusCreated)
	var body struct {
		Products []model.ListingDetail `json:"products"`
	}
	decode(t, rec, &body)
	if len(body.Products) != 1 || body.Products[0].Product.Name != "Milk" {
		t.Fatalf("unexpected listings %+v", body.Products)
	}

	rec = a.do(httptest.NewRequest(http.MethodGet, "/api/images/latest-image", nil), tok)
	expect(t, rec, http.StatusOK)

	expect(t, a.do(multipartReq(t, http.MethodPost, "/api/images/upload", nil, ""), tok), http.StatusBadRequest)
}

func TestImageUploadWithoutMatch(t *testing.T) {
	a := newTestAPI(t, stubDetector{label: "Bread"})
	a.catalog(a.admin("ada", model.RoleAdmin), "Milk")
	tok := a.token(model.SubjectUser, a.user("uma").ID, "")

	rec := a.do(multipartReq(t, http.MethodPost, "/api/images/upload", nil, "productImage"), tok)
	expect(t, rec, http.StatusOK)
	var body struct {
		Markets []any `json:"markets"`
	}
	decode(t, rec, &body)
	if body.Markets == nil || len(body.Markets) != 0 {
		t.Fatalf("markets = %v, want empty list", body.Markets)
	}
}

func TestImageUploadDetectionFailure(t *testing.T) {
	a := newTestAPI(t, stubDetector{err: errors.New("service down")})
	tok := a.token(model.SubjectUser, a.user("uma").ID, "")
	rec := a.do(multipartReq(t, http.MethodPost, "/api/images/upload", nil, "productImage"), tok)
	expect(t, rec, http.StatusInternalServerError)
}

func TestListingRejectsNonFinitePrices(t *testing.T) {
	a := newTestAPI(t, stubDetector{})
	owner := a.admin("owner", model.RoleAdmin)
	m, p, pm := a.catalog(owner, "Milk")
	tok := a.token(model.SubjectAdmin, owner.ID, owner.Role)
	target := "/api/productMarket/" + strconv.FormatUint(pm.ID, 10)

	for _, body := range []echo.Map{
		{"regularPrice": "Inf"},
		{"regularPrice": "NaN"},
		{"discountPrice": "+Infinity"},
		{"discountRate": "NaN"},
	} {
		rec := a.do(jsonReq(http.MethodPut, target, body), tok)
		expect(t, rec, http.StatusBadRequest)
		if !strings.Contains(rec.Body.String(), "Validation failed") {
			t.Fatalf("%v: unexpected body %s", body, rec.Body.String())
		}
	}

	cat := &model.Category{Name: "Bakery"}
	a.must(a.deps.Categories.Create(context.Background(), cat))
	bread := &model.Product{Name: "Bread", Gram: 500, Contents: "wheat flour", CategoryID: cat.ID, BrandID: p.BrandID,
		Image: model.Image{ID: "products/bread", URL: "http://media.test/products/bread"}}
	a.must(a.deps.Products.Create(context.Background(), bread))
	create := echo.Map{"productId": bread.ID, "marketId": m.ID, "regularPrice": "Infinity", "stockAmount": 3}
	expect(t, a.do(jsonReq(http.MethodPost, "/api/productMarket", create), tok), http.StatusBadRequest)

	got, err := a.deps.Listings.GetByID(context.Background(), pm.ID)
	a.must(err)
	if got.RegularPrice != 10 || got.DiscountPrice == nil || *got.DiscountPrice != 8.5 {
		t.Fatalf("rejected update changed the listing: %+v", got)
	}
	expect(t, a.do(httptest.NewRequest(http.MethodGet, "/api/productMarket/productMarketData", nil), ""), http.StatusOK)
}

func TestFrameworkErrorsUseFailureShape(t *testing.T) {
	a := newTestAPI(t, stubDetector{})
	a.e.GET("/boom", func(echo.Context) error { return errors.New("store exploded") })

	cases := []struct {
		method, target string
		status         int
		message        string
	}{
		{http.MethodGet, "/api/nope", http.StatusNotFound, "Not Found"},
		{http.MethodPatch, "/api/markets/1", http.StatusMethodNotAllowed, "Method Not Allowed"},
		{http.MethodGet, "/boom", http.StatusInternalServerError, "Internal server error"},
	}
	for _, tc := range cases {
		rec := a.do(httptest.NewRequest(tc.method, tc.target, nil), "")
		expect(t, rec, tc.status)
		var body struct {
			Success *bool  `json:"success"`
			Message string `json:"message"`
		}
		decode(t, rec, &body)
		if body.Success == nil || *body.Success || body.Message != tc.message {
			t.Fatalf("%s %s: body %s", tc.method, tc.target, rec.Body.String())
		}
	}
}
