package repository

import (
	"context"

	"github.com/marketplace/grocery-api/internal/model"
)

const productImageColumns = "id, image_id, image_url, product_match, uploaded_by, created_at, updated_at"

// ProductImageRepo stores the detection log: one row per uploaded photo.
type ProductImageRepo struct{ db Querier }

func NewProductImageRepo(db Querier) *ProductImageRepo { return &ProductImageRepo{db: db} }

func (r *ProductImageRepo) Create(ctx context.Context, pi *model.ProductImage) error {
	if err := pi.Image.Validate(); err != nil {
		return err
	}
	pi.CreatedAt = now()
	pi.UpdatedAt = pi.CreatedAt
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO product_images (image_id, image_url, product_match, uploaded_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		pi.Image.ID, pi.Image.URL, pi.Match, pi.UploadedBy, pi.CreatedAt, pi.UpdatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	pi.ID = uint64(id)
	return nil
}

// Latest returns the most recent upload of a user.
func (r *ProductImageRepo) Latest(ctx context.Context, userID uint64) (*model.ProductImage, error) {
	var pi model.ProductImage
	err := r.db.QueryRowContext(ctx,
		"SELECT "+productImageColumns+" FROM product_images WHERE uploaded_by = ? ORDER BY id DESC LIMIT 1",
		userID).Scan(&pi.ID, &pi.Image.ID, &pi.Image.URL, &pi.Match, &pi.UploadedBy, &pi.CreatedAt, &pi.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &pi, nil
}
