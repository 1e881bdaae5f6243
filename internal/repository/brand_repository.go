package repository

import (
	"context"

	"github.com/marketplace/grocery-api/internal/model"
)

// BrandRepo reads and writes the brands table.
type BrandRepo struct{ s labelStore }

func NewBrandRepo(db Querier) *BrandRepo {
	return &BrandRepo{s: labelStore{db: db, table: "brands"}}
}

func toBrand(l *label) *model.Brand {
	return &model.Brand{ID: l.ID, Name: l.Name, Image: l.Image, CreatedAt: l.CreatedAt, UpdatedAt: l.UpdatedAt}
}

func (r *BrandRepo) Create(ctx context.Context, b *model.Brand) error {
	l := &label{Name: b.Name, Image: b.Image}
	if err := r.s.create(ctx, l); err != nil {
		return err
	}
	*b = *toBrand(l)
	return nil
}

func (r *BrandRepo) GetByID(ctx context.Context, id uint64) (*model.Brand, error) {
	l, err := r.s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toBrand(l), nil
}

func (r *BrandRepo) List(ctx context.Context) ([]*model.Brand, error) {
	ls, err := r.s.list(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*model.Brand, 0, len(ls))
	for _, l := range ls {
		out = append(out, toBrand(l))
	}
	return out, nil
}

func (r *BrandRepo) Update(ctx context.Context, b *model.Brand) error {
	l := &label{ID: b.ID, Name: b.Name, Image: b.Image}
	if err := r.s.update(ctx, l); err != nil {
		return err
	}
	b.UpdatedAt = l.UpdatedAt
	return nil
}

func (r *BrandRepo) NameTaken(ctx context.Context, name string, excludeID uint64) (bool, error) {
	return r.s.nameTaken(ctx, name, excludeID)
}

func (r *BrandRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	return r.s.exists(ctx, id)
}
