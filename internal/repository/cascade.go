package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Kind names an entity kind the cascade executor knows about.
type Kind string

const (
	KindAdmin         Kind = "admin"
	KindUser          Kind = "user"
	KindMarket        Kind = "market"
	KindCategory      Kind = "category"
	KindBrand         Kind = "brand"
	KindProduct       Kind = "product"
	KindProductMarket Kind = "productMarket"
	KindCart          Kind = "cart"
	KindFavorite      Kind = "favorite"
	KindProductImage  Kind = "productImage"
)

var kindTables = map[Kind]string{
	KindAdmin:         "admins",
	KindUser:          "users",
	KindMarket:        "markets",
	KindCategory:      "categories",
	KindBrand:         "brands",
	KindProduct:       "products",
	KindProductMarket: "product_markets",
	KindCart:          "carts",
	KindFavorite:      "favorites",
	KindProductImage:  "product_images",
}

// Edge says that rows of Child reference the parent through Column.  A
// deep edge removes the children through their own edges first; a shallow
// edge deletes the children with a single statement.
type Edge struct {
	Child  Kind
	Column string
	Deep   bool
}

// Plan lists, per parent kind, the dependents to remove in order before the
// parent row itself.
type Plan map[Kind][]Edge

// DefaultPlan returns the deletion order for every kind.  With deepCatalog
// false, removing a category or brand deletes its products only and leaves
// their listings in place; with it true the products are removed together
// with their listings, carts and favorites.
func DefaultPlan(deepCatalog bool) Plan {
	return Plan{
		KindAdmin:    {{Child: KindMarket, Column: "admin_id", Deep: true}},
		KindMarket:   {{Child: KindProductMarket, Column: "market_id", Deep: true}},
		KindProduct:  {{Child: KindProductMarket, Column: "product_id", Deep: true}},
		KindCategory: {{Child: KindProduct, Column: "category_id", Deep: deepCatalog}},
		KindBrand:    {{Child: KindProduct, Column: "brand_id", Deep: deepCatalog}},
		KindProductMarket: {
			{Child: KindFavorite, Column: "product_market_id"},
			{Child: KindCart, Column: "product_market_id"},
		},
		KindUser: {
			{Child: KindFavorite, Column: "user_id"},
			{Child: KindCart, Column: "user_id"},
			{Child: KindProductImage, Column: "uploaded_by"},
		},
	}
}

// CascadeResult describes one successful cascade.
type CascadeResult struct {
	Kind      Kind           `json:"kind"`
	ID        uint64         `json:"id"`
	Removed   map[Kind]int64 `json:"removed"`
	DeletedAt time.Time      `json:"deletedAt"`
}

// Cascade deletes a row together with every row that references it, in one
// transaction.  Either the whole tree goes or nothing does.
type Cascade struct {
	db   *sql.DB
	plan Plan

	// Committed, when set, is called after a cascade commits.
	Committed func(ctx context.Context, r CascadeResult)
}

func NewCascade(db *sql.DB, plan Plan) *Cascade {
	return &Cascade{db: db, plan: plan}
}

// Delete removes the kind row with the given id and its dependents.  It
// returns ErrNotFound, without opening a transaction, when the row does not
// exist.  Any failure rolls back every deletion and is returned wrapped.
func (c *Cascade) Delete(ctx context.Context, kind Kind, id uint64) (*CascadeResult, error) {
	table, ok := kindTables[kind]
	if !ok {
		return nil, fmt.Errorf("cascade: unknown kind %q", kind)
	}
	found, err := exists(ctx, c.db, table, id)
	if err != nil {
		return nil, fmt.Errorf("cascade %s %d: %w", kind, id, err)
	}
	if !found {
		return nil, ErrNotFound
	}

	res := &CascadeResult{Kind: kind, ID: id, Removed: map[Kind]int64{}}
	err = WithinTx(ctx, c.db, func(tx *sql.Tx) error {
		return c.remove(ctx, tx, kind, []uint64{id}, res.Removed)
	})
	if err != nil {
		return nil, fmt.Errorf("cascade %s %d: %w", kind, id, err)
	}
	res.DeletedAt = time.Now().UTC()
	if c.Committed != nil {
		c.Committed(ctx, *res)
	}
	return res, nil
}

// remove deletes the kind rows in ids after their dependents.
func (c *Cascade) remove(ctx context.Context, tx *sql.Tx, kind Kind, ids []uint64, removed map[Kind]int64) error {
	if len(ids) == 0 {
		return nil
	}
	in := " IN (" + placeholders(len(ids)) + ")"
	args := idArgs(ids)

	for _, e := range c.plan[kind] {
		child := kindTables[e.Child]
		if e.Deep {
			childIDs, err := selectIDs(ctx, tx, "SELECT id FROM "+child+" WHERE "+e.Column+in, args...)
			if err != nil {
				return fmt.Errorf("select %s: %w", child, err)
			}
			if err := c.remove(ctx, tx, e.Child, childIDs, removed); err != nil {
				return err
			}
			continue
		}
		n, err := execCount(ctx, tx, "DELETE FROM "+child+" WHERE "+e.Column+in, args...)
		if err != nil {
			return fmt.Errorf("delete %s: %w", child, err)
		}
		removed[e.Child] += n
	}

	table := kindTables[kind]
	n, err := execCount(ctx, tx, "DELETE FROM "+table+" WHERE id"+in, args...)
	if err != nil {
		return fmt.Errorf("delete %s: %w", table, err)
	}
	removed[kind] += n
	return nil
}

func selectIDs(ctx context.Context, tx *sql.Tx, q string, args ...any) ([]uint64, error) {
	rows, err := tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func execCount(ctx context.Context, tx *sql.Tx, q string, args ...any) (int64, error) {
	res, err := tx.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
