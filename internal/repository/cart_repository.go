package repository

import (
	"context"
	"errors"

	"github.com/marketplace/grocery-api/internal/model"
)

const cartColumns = "id, user_id, product_market_id, quantity, created_at, updated_at"

// CartRepo reads and writes the carts table.
type CartRepo struct{ db Querier }

func NewCartRepo(db Querier) *CartRepo { return &CartRepo{db: db} }

func scanCart(s rowScanner) (*model.Cart, error) {
	var c model.Cart
	if err := s.Scan(&c.ID, &c.UserID, &c.ProductMarketID, &c.Quantity, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *CartRepo) listWhere(ctx context.Context, where string, args ...any) ([]*model.Cart, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+cartColumns+" FROM carts"+where+" ORDER BY id", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*model.Cart{}
	for rows.Next() {
		c, err := scanCart(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CartRepo) find(ctx context.Context, userID, pmID uint64) (*model.Cart, error) {
	return scanCart(r.db.QueryRowContext(ctx,
		"SELECT "+cartColumns+" FROM carts WHERE user_id = ? AND product_market_id = ?", userID, pmID))
}

func (r *CartRepo) increment(ctx context.Context, id uint64, quantity int) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE carts SET quantity = quantity + ?, updated_at = ? WHERE id = ?", quantity, now(), id)
	return err
}

// Add puts quantity units of a listing into the user's cart.  An existing
// line for the same listing has its quantity increased instead, so the
// pair (user, listing) never appears twice.  created reports whether a new
// line was inserted.
func (r *CartRepo) Add(ctx context.Context, userID, pmID uint64, quantity int) (c *model.Cart, created bool, err error) {
	existing, err := r.find(ctx, userID, pmID)
	switch {
	case err == nil:
		if err := r.increment(ctx, existing.ID, quantity); err != nil {
			return nil, false, err
		}
		c, err = r.GetByID(ctx, existing.ID)
		return c, false, err
	case !errors.Is(err, ErrNotFound):
		return nil, false, err
	}

	ts := now()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO carts (user_id, product_market_id, quantity, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`, userID, pmID, quantity, ts, ts)
	if isDuplicate(err) {
		// another request inserted the line between find and insert
		existing, err = r.find(ctx, userID, pmID)
		if err != nil {
			return nil, false, err
		}
		if err := r.increment(ctx, existing.ID, quantity); err != nil {
			return nil, false, err
		}
		c, err = r.GetByID(ctx, existing.ID)
		return c, false, err
	}
	if err != nil {
		return nil, false, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, false, err
	}
	return &model.Cart{ID: uint64(id), UserID: userID, ProductMarketID: pmID, Quantity: quantity,
		CreatedAt: ts, UpdatedAt: ts}, true, nil
}

func (r *CartRepo) GetByID(ctx context.Context, id uint64) (*model.Cart, error) {
	return scanCart(r.db.QueryRowContext(ctx, "SELECT "+cartColumns+" FROM carts WHERE id = ?", id))
}

func (r *CartRepo) List(ctx context.Context) ([]*model.Cart, error) {
	return r.listWhere(ctx, "")
}

func (r *CartRepo) ListByUser(ctx context.Context, userID uint64) ([]*model.Cart, error) {
	return r.listWhere(ctx, " WHERE user_id = ?", userID)
}

// SetQuantity overwrites the quantity of one line.
func (r *CartRepo) SetQuantity(ctx context.Context, id uint64, quantity int) (*model.Cart, error) {
	if _, err := r.db.ExecContext(ctx,
		"UPDATE carts SET quantity = ?, updated_at = ? WHERE id = ?", quantity, now(), id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes one line.  Lines have no dependents.
func (r *CartRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM carts WHERE id = ?", id)
	if err != nil {
		return err
	}
	return affected(res)
}

// Baskets groups every cart line by user for the admin overview.  Lines
// for the same listing are merged with their quantities summed and the
// latest update time kept.  Users without lines are omitted.
func (r *CartRepo) Baskets(ctx context.Context) ([]*model.UserBasket, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.user_id, u.name, u.surname, u.email, c.product_market_id, c.quantity, c.updated_at
		FROM carts c
		JOIN users u ON u.id = c.user_id
		ORDER BY c.user_id, c.id`)
	if err != nil {
		return nil, err
	}
	var (
		out     []*model.UserBasket
		pmIDs   []uint64
		byUser  = map[uint64]*model.UserBasket{}
		itemIdx = map[[2]uint64]int{}
	)
	for rows.Next() {
		var (
			ub   model.UserBasket
			item model.BasketItem
		)
		if err := rows.Scan(&ub.ID, &ub.Name, &ub.Surname, &ub.Email,
			&item.ProductMarketID, &item.Quantity, &item.UpdatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		basket, ok := byUser[ub.ID]
		if !ok {
			basket = &ub
			basket.Items = []model.BasketItem{}
			byUser[ub.ID] = basket
			out = append(out, basket)
		}
		key := [2]uint64{ub.ID, item.ProductMarketID}
		if i, ok := itemIdx[key]; ok {
			merged := &basket.Items[i]
			merged.Quantity += item.Quantity
			if item.UpdatedAt.After(merged.UpdatedAt) {
				merged.UpdatedAt = item.UpdatedAt
			}
			continue
		}
		itemIdx[key] = len(basket.Items)
		basket.Items = append(basket.Items, item)
		pmIDs = append(pmIDs, item.ProductMarketID)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, err
	}

	details, err := NewListingRepo(r.db).DetailsByID(ctx, pmIDs)
	if err != nil {
		return nil, err
	}
	for _, b := range out {
		for i := range b.Items {
			b.Items[i].Listing = details[b.Items[i].ProductMarketID]
		}
	}
	return out, nil
}
