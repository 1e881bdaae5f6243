package repository

import (
	"context"
	"time"

	"github.com/marketplace/grocery-api/internal/model"
)

// label is the shape shared by categories and brands: a unique name and a
// picture.
type label struct {
	ID        uint64
	Name      string
	Image     model.Image
	CreatedAt time.Time
	UpdatedAt time.Time
}

// labelStore implements the queries for one label table.
type labelStore struct {
	db    Querier
	table string
}

const labelColumns = "id, name, image_id, image_url, created_at, updated_at"

func scanLabel(s rowScanner) (*label, error) {
	var l label
	if err := s.Scan(&l.ID, &l.Name, &l.Image.ID, &l.Image.URL, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, notFound(err)
	}
	return &l, nil
}

func (s labelStore) create(ctx context.Context, l *label) error {
	if err := l.Image.Validate(); err != nil {
		return err
	}
	l.CreatedAt = now()
	l.UpdatedAt = l.CreatedAt
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO "+s.table+" (name, image_id, image_url, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		l.Name, l.Image.ID, l.Image.URL, l.CreatedAt, l.UpdatedAt)
	if err != nil {
		return duplicateOr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	l.ID = uint64(id)
	return nil
}

func (s labelStore) get(ctx context.Context, id uint64) (*label, error) {
	return scanLabel(s.db.QueryRowContext(ctx, "SELECT "+labelColumns+" FROM "+s.table+" WHERE id = ?", id))
}

func (s labelStore) list(ctx context.Context) ([]*label, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+labelColumns+" FROM "+s.table+" ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*label
	for rows.Next() {
		l, err := scanLabel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s labelStore) update(ctx context.Context, l *label) error {
	if err := l.Image.Validate(); err != nil {
		return err
	}
	l.UpdatedAt = now()
	_, err := s.db.ExecContext(ctx,
		"UPDATE "+s.table+" SET name = ?, image_id = ?, image_url = ?, updated_at = ? WHERE id = ?",
		l.Name, l.Image.ID, l.Image.URL, l.UpdatedAt, l.ID)
	return duplicateOr(err)
}

func (s labelStore) nameTaken(ctx context.Context, name string, excludeID uint64) (bool, error) {
	return taken(ctx, s.db, s.table, "name", name, excludeID)
}

func (s labelStore) exists(ctx context.Context, id uint64) (bool, error) {
	return exists(ctx, s.db, s.table, id)
}
