package repository

import (
	"context"
	"testing"
)

func TestCartAddMergesQuantities(t *testing.T) {
	db := newTestDB(t)
	f := seed(t, db)
	ctx := context.Background()
	repo := NewCartRepo(db)
	u := f.users[0].ID

	first, created, err := repo.Add(ctx, u, f.listing.ID, 2)
	must(t, err)
	if !created || first.Quantity != 2 {
		t.Fatalf("first add: created=%v quantity=%d", created, first.Quantity)
	}
	second, created, err := repo.Add(ctx, u, f.listing.ID, 3)
	must(t, err)
	if created {
		t.Fatal("second add should merge into the existing line")
	}
	if second.ID != first.ID || second.Quantity != 5 {
		t.Fatalf("merged line = %+v, want id %d quantity 5", second, first.ID)
	}
	if n := count(t, db, "SELECT COUNT(*) FROM carts WHERE user_id = ?", u); n != 1 {
		t.Fatalf("cart rows = %d, want 1", n)
	}
}

func TestCartBasketsGroupByUser(t *testing.T) {
	db := newTestDB(t)
	f := seed(t, db)
	ctx := context.Background()
	repo := NewCartRepo(db)
	_, _, err := repo.Add(ctx, f.users[0].ID, f.listing.ID, 1)
	must(t, err)
	_, _, err = repo.Add(ctx, f.users[1].ID, f.listing.ID, 4)
	must(t, err)

	baskets, err := repo.Baskets(ctx)
	must(t, err)
	if len(baskets) != 2 {
		t.Fatalf("baskets = %d, want 2", len(baskets))
	}
	b := baskets[1]
	if b.ID != f.users[1].ID || len(b.Items) != 1 || b.Items[0].Quantity != 4 {
		t.Fatalf("unexpected basket: %+v", b)
	}
	if b.Items[0].Listing == nil || b.Items[0].Listing.Product.Name != "Milk" {
		t.Fatalf("listing detail missing: %+v", b.Items[0].Listing)
	}
}

func TestCartDeleteMissingLine(t *testing.T) {
	db := newTestDB(t)
	if err := NewCartRepo(db).Delete(context.Background(), 42); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
