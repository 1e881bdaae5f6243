package repository

import (
	"context"

	"github.com/marketplace/grocery-api/internal/model"
)

// CategoryRepo reads and writes the categories table.
type CategoryRepo struct{ s labelStore }

func NewCategoryRepo(db Querier) *CategoryRepo {
	return &CategoryRepo{s: labelStore{db: db, table: "categories"}}
}

func toCategory(l *label) *model.Category {
	return &model.Category{ID: l.ID, Name: l.Name, Image: l.Image, CreatedAt: l.CreatedAt, UpdatedAt: l.UpdatedAt}
}

func (r *CategoryRepo) Create(ctx context.Context, c *model.Category) error {
	l := &label{Name: c.Name, Image: c.Image}
	if err := r.s.create(ctx, l); err != nil {
		return err
	}
	*c = *toCategory(l)
	return nil
}

func (r *CategoryRepo) GetByID(ctx context.Context, id uint64) (*model.Category, error) {
	l, err := r.s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCategory(l), nil
}

func (r *CategoryRepo) List(ctx context.Context) ([]*model.Category, error) {
	ls, err := r.s.list(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*model.Category, 0, len(ls))
	for _, l := range ls {
		out = append(out, toCategory(l))
	}
	return out, nil
}

func (r *CategoryRepo) Update(ctx context.Context, c *model.Category) error {
	l := &label{ID: c.ID, Name: c.Name, Image: c.Image}
	if err := r.s.update(ctx, l); err != nil {
		return err
	}
	c.UpdatedAt = l.UpdatedAt
	return nil
}

func (r *CategoryRepo) NameTaken(ctx context.Context, name string, excludeID uint64) (bool, error) {
	return r.s.nameTaken(ctx, name, excludeID)
}

func (r *CategoryRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	return r.s.exists(ctx, id)
}
