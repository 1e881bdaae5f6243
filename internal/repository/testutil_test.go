package repository

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/marketplace/grocery-api/internal/database"
	"github.com/marketplace/grocery-api/internal/model"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.Migrate(context.Background(), db, database.DialectSQLite); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// fixture is a small catalog: one admin with one market, one product
// (category + brand) listed in that market, and two users.
type fixture struct {
	admin    *model.Admin
	market   *model.Market
	category *model.Category
	brand    *model.Brand
	product  *model.Product
	listing  *model.ProductMarket
	users    []*model.User
}

func seed(t *testing.T, db *sql.DB) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{}

	f.admin = &model.Admin{Name: "Ada", Surname: "Admin", Username: "ada", Email: "ada@example.com",
		PasswordHash: "x", Role: model.RoleAdmin}
	must(t, NewAdminRepo(db).Create(ctx, f.admin))

	f.market = &model.Market{Name: "Corner", Location: "Main St", AdminID: f.admin.ID}
	must(t, NewMarketRepo(db).Create(ctx, f.market))

	f.category = &model.Category{Name: "Dairy"}
	must(t, NewCategoryRepo(db).Create(ctx, f.category))
	f.brand = &model.Brand{Name: "Moo"}
	must(t, NewBrandRepo(db).Create(ctx, f.brand))

	f.product = &model.Product{Name: "Milk", Gram: 1000, Contents: "whole milk",
		CategoryID: f.category.ID, BrandID: f.brand.ID}
	must(t, NewProductRepo(db).Create(ctx, f.product))

	f.listing = &model.ProductMarket{ProductID: f.product.ID, MarketID: f.market.ID, RegularPrice: 10, StockAmount: 5}
	must(t, NewListingRepo(db).Create(ctx, f.listing))

	for i := 0; i < 2; i++ {
		u := &model.User{Name: "User", Surname: "Test", Username: fmt.Sprintf("user%d", i),
			Email: fmt.Sprintf("user%d@example.com", i), PasswordHash: "x"}
		must(t, NewUserRepo(db).Create(ctx, u))
		f.users = append(f.users, u)
	}
	return f
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}

func count(t *testing.T, db *sql.DB, q string, args ...any) int {
	t.Helper()
	var n int
	if err := db.QueryRow(q, args...).Scan(&n); err != nil {
		t.Fatalf("count %q: %v", q, err)
	}
	return n
}
