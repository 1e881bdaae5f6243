package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/marketplace/grocery-api/internal/model"
)

func TestCascadeMarketRemovesListings(t *testing.T) {
	db := newTestDB(t)
	f := seed(t, db)
	ctx := context.Background()
	_, _, err := NewCartRepo(db).Add(ctx, f.users[0].ID, f.listing.ID, 1)
	must(t, err)

	res, err := NewCascade(db, DefaultPlan(false)).Delete(ctx, KindMarket, f.market.ID)
	if err != nil {
		t.Fatalf("delete market: %v", err)
	}
	if n := count(t, db, "SELECT COUNT(*) FROM product_markets WHERE market_id = ?", f.market.ID); n != 0 {
		t.Fatalf("listings left for market: %d", n)
	}
	if n := count(t, db, "SELECT COUNT(*) FROM carts"); n != 0 {
		t.Fatalf("carts left: %d", n)
	}
	if res.Removed[KindMarket] != 1 || res.Removed[KindProductMarket] != 1 || res.Removed[KindCart] != 1 {
		t.Fatalf("unexpected removed counts: %v", res.Removed)
	}
}

func TestCascadeListingRemovesCartsAndFavorites(t *testing.T) {
	db := newTestDB(t)
	f := seed(t, db)
	ctx := context.Background()
	for _, u := range f.users {
		_, _, err := NewCartRepo(db).Add(ctx, u.ID, f.listing.ID, 2)
		must(t, err)
		_, err = NewFavoriteRepo(db).Add(ctx, u.ID, f.listing.ID)
		must(t, err)
	}

	if _, err := NewCascade(db, DefaultPlan(false)).Delete(ctx, KindProductMarket, f.listing.ID); err != nil {
		t.Fatalf("delete listing: %v", err)
	}
	if n := count(t, db, "SELECT COUNT(*) FROM carts WHERE product_market_id = ?", f.listing.ID); n != 0 {
		t.Fatalf("carts left: %d", n)
	}
	if n := count(t, db, "SELECT COUNT(*) FROM favorites WHERE product_market_id = ?", f.listing.ID); n != 0 {
		t.Fatalf("favorites left: %d", n)
	}
	if n := count(t, db, "SELECT COUNT(*) FROM products"); n != 1 {
		t.Fatalf("product should survive, got %d", n)
	}
}

func TestCascadeUserRemovesOwnedRows(t *testing.T) {
	db := newTestDB(t)
	f := seed(t, db)
	ctx := context.Background()
	victim, other := f.users[0], f.users[1]
	for _, u := range f.users {
		_, _, err := NewCartRepo(db).Add(ctx, u.ID, f.listing.ID, 1)
		must(t, err)
		_, err = NewFavoriteRepo(db).Add(ctx, u.ID, f.listing.ID)
		must(t, err)
	}
	must(t, NewProductImageRepo(db).Create(ctx, &model.ProductImage{Match: model.NoMatch, UploadedBy: victim.ID}))

	if _, err := NewCascade(db, DefaultPlan(false)).Delete(ctx, KindUser, victim.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	for _, q := range []string{
		"SELECT COUNT(*) FROM carts WHERE user_id = ?",
		"SELECT COUNT(*) FROM favorites WHERE user_id = ?",
		"SELECT COUNT(*) FROM product_images WHERE uploaded_by = ?",
		"SELECT COUNT(*) FROM users WHERE id = ?",
	} {
		if n := count(t, db, q, victim.ID); n != 0 {
			t.Errorf("%s = %d, want 0", q, n)
		}
	}
	if n := count(t, db, "SELECT COUNT(*) FROM carts WHERE user_id = ?", other.ID); n != 1 {
		t.Fatalf("other user's cart touched: %d", n)
	}
}

func TestCascadeAdminScenario(t *testing.T) {
	db := newTestDB(t)
	f := seed(t, db)
	ctx := context.Background()
	for _, u := range f.users {
		_, _, err := NewCartRepo(db).Add(ctx, u.ID, f.listing.ID, 1)
		must(t, err)
	}

	if _, err := NewCascade(db, DefaultPlan(false)).Delete(ctx, KindAdmin, f.admin.ID); err != nil {
		t.Fatalf("delete admin: %v", err)
	}
	gone := map[string]uint64{
		"SELECT COUNT(*) FROM admins WHERE id = ?":               f.admin.ID,
		"SELECT COUNT(*) FROM markets WHERE id = ?":              f.market.ID,
		"SELECT COUNT(*) FROM product_markets WHERE id = ?":      f.listing.ID,
		"SELECT COUNT(*) FROM carts WHERE product_market_id = ?": f.listing.ID,
	}
	for q, id := range gone {
		if n := count(t, db, q, id); n != 0 {
			t.Errorf("%s = %d, want 0", q, n)
		}
	}
	kept := map[string]uint64{
		"SELECT COUNT(*) FROM products WHERE id = ?":   f.product.ID,
		"SELECT COUNT(*) FROM categories WHERE id = ?": f.category.ID,
		"SELECT COUNT(*) FROM brands WHERE id = ?":     f.brand.ID,
	}
	for q, id := range kept {
		if n := count(t, db, q, id); n != 1 {
			t.Errorf("%s = %d, want 1", q, n)
		}
	}
}

func TestCascadeCategoryShallowAndDeep(t *testing.T) {
	t.Run("shallow", func(t *testing.T) {
		db := newTestDB(t)
		f := seed(t, db)
		if _, err := NewCascade(db, DefaultPlan(false)).Delete(context.Background(), KindCategory, f.category.ID); err != nil {
			t.Fatal(err)
		}
		if n := count(t, db, "SELECT COUNT(*) FROM products"); n != 0 {
			t.Fatalf("products left: %d", n)
		}
		if n := count(t, db, "SELECT COUNT(*) FROM product_markets"); n != 1 {
			t.Fatalf("shallow delete should leave the listing, got %d", n)
		}
	})
	t.Run("deep", func(t *testing.T) {
		db := newTestDB(t)
		f := seed(t, db)
		ctx := context.Background()
		_, err := NewFavoriteRepo(db).Add(ctx, f.users[0].ID, f.listing.ID)
		must(t, err)
		if _, err := NewCascade(db, DefaultPlan(true)).Delete(ctx, KindBrand, f.brand.ID); err != nil {
			t.Fatal(err)
		}
		for _, table := range []string{"products", "product_markets", "favorites", "brands"} {
			if n := count(t, db, "SELECT COUNT(*) FROM "+table); n != 0 {
				t.Errorf("%s left: %d", table, n)
			}
		}
	})
}

func TestCascadeMissingRowIsNotFound(t *testing.T) {
	db := newTestDB(t)
	seed(t, db)
	c := NewCascade(db, DefaultPlan(false))
	called := false
	c.Committed = func(context.Context, CascadeResult) { called = true }

	if _, err := c.Delete(context.Background(), KindMarket, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if called {
		t.Fatal("commit hook ran for a missing row")
	}
	if n := count(t, db, "SELECT COUNT(*) FROM product_markets"); n != 1 {
		t.Fatalf("side effects on missing row: %d listings", n)
	}
}

func TestCascadeRollsBackOnFailure(t *testing.T) {
	db := newTestDB(t)
	f := seed(t, db)
	ctx := context.Background()
	_, err := NewFavoriteRepo(db).Add(ctx, f.users[0].ID, f.listing.ID)
	must(t, err)

	// favorites are removed before carts, so the missing table fails the
	// cascade after one statement has already run
	if _, err := db.Exec("DROP TABLE carts"); err != nil {
		t.Fatal(err)
	}
	if _, err := NewCascade(db, DefaultPlan(false)).Delete(ctx, KindProductMarket, f.listing.ID); err == nil {
		t.Fatal("expected the cascade to fail")
	}
	if n := count(t, db, "SELECT COUNT(*) FROM favorites"); n != 1 {
		t.Fatalf("favorite delete was not rolled back: %d", n)
	}
	if n := count(t, db, "SELECT COUNT(*) FROM product_markets WHERE id = ?", f.listing.ID); n != 1 {
		t.Fatalf("listing delete was not rolled back: %d", n)
	}
}

func TestCascadeCommittedHook(t *testing.T) {
	db := newTestDB(t)
	f := seed(t, db)
	c := NewCascade(db, DefaultPlan(false))
	var got CascadeResult
	c.Committed = func(_ context.Context, r CascadeResult) { got = r }

	if _, err := c.Delete(context.Background(), KindProduct, f.product.ID); err != nil {
		t.Fatal(err)
	}
	if got.Kind != KindProduct || got.ID != f.product.ID || got.Removed[KindProductMarket] != 1 {
		t.Fatalf("unexpected hook payload: %+v", got)
	}
	if got.DeletedAt.IsZero() {
		t.Fatal("DeletedAt not set")
	}
}
