package repository

import (
	"context"

	"github.com/marketplace/grocery-api/internal/model"
)

const favoriteColumns = "id, user_id, product_market_id, created_at, updated_at"

// FavoriteRepo reads and writes the favorites table.
type FavoriteRepo struct{ db Querier }

func NewFavoriteRepo(db Querier) *FavoriteRepo { return &FavoriteRepo{db: db} }

func scanFavorite(s rowScanner) (*model.Favorite, error) {
	var f model.Favorite
	if err := s.Scan(&f.ID, &f.UserID, &f.ProductMarketID, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, notFound(err)
	}
	return &f, nil
}

// Add marks a listing as a favorite of the user.  A second call for the
// same pair fails with ErrConflict and leaves the existing row alone.
func (r *FavoriteRepo) Add(ctx context.Context, userID, pmID uint64) (*model.Favorite, error) {
	var n int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM favorites WHERE user_id = ? AND product_market_id = ?",
		userID, pmID).Scan(&n); err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, ErrConflict
	}
	f := &model.Favorite{UserID: userID, ProductMarketID: pmID, CreatedAt: now()}
	f.UpdatedAt = f.CreatedAt
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO favorites (user_id, product_market_id, created_at, updated_at) VALUES (?, ?, ?, ?)",
		userID, pmID, f.CreatedAt, f.UpdatedAt)
	if isDuplicate(err) {
		return nil, ErrConflict
	}
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	f.ID = uint64(id)
	return f, nil
}

func (r *FavoriteRepo) GetByID(ctx context.Context, id uint64) (*model.Favorite, error) {
	return scanFavorite(r.db.QueryRowContext(ctx, "SELECT "+favoriteColumns+" FROM favorites WHERE id = ?", id))
}

func (r *FavoriteRepo) listWhere(ctx context.Context, where string, args ...any) ([]*model.Favorite, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+favoriteColumns+" FROM favorites"+where+" ORDER BY id", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*model.Favorite{}
	for rows.Next() {
		f, err := scanFavorite(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *FavoriteRepo) List(ctx context.Context) ([]*model.Favorite, error) {
	return r.listWhere(ctx, "")
}

func (r *FavoriteRepo) ListByUser(ctx context.Context, userID uint64) ([]*model.Favorite, error) {
	return r.listWhere(ctx, " WHERE user_id = ?", userID)
}

// Move points a favorite at another listing.  Moving onto a listing the
// user already likes fails with ErrConflict.
func (r *FavoriteRepo) Move(ctx context.Context, id, pmID uint64) (*model.Favorite, error) {
	_, err := r.db.ExecContext(ctx,
		"UPDATE favorites SET product_market_id = ?, updated_at = ? WHERE id = ?", pmID, now(), id)
	if isDuplicate(err) {
		return nil, ErrConflict
	}
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *FavoriteRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM favorites WHERE id = ?", id)
	if err != nil {
		return err
	}
	return affected(res)
}
