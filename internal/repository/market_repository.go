package repository

import (
	"context"

	"github.com/marketplace/grocery-api/internal/model"
)

const marketColumns = "id, name, location, phone, image_id, image_url, admin_id, created_at, updated_at"

// MarketRepo reads and writes the markets table.
type MarketRepo struct{ db Querier }

func NewMarketRepo(db Querier) *MarketRepo { return &MarketRepo{db: db} }

func scanMarket(s rowScanner) (*model.Market, error) {
	var m model.Market
	err := s.Scan(&m.ID, &m.Name, &m.Location, &m.Phone, &m.Image.ID, &m.Image.URL,
		&m.AdminID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &m, nil
}

func (r *MarketRepo) Create(ctx context.Context, m *model.Market) error {
	if err := m.Image.Validate(); err != nil {
		return err
	}
	m.CreatedAt = now()
	m.UpdatedAt = m.CreatedAt
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO markets (name, location, phone, image_id, image_url, admin_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.Name, m.Location, m.Phone, m.Image.ID, m.Image.URL, m.AdminID, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return duplicateOr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return nil
}

func (r *MarketRepo) GetByID(ctx context.Context, id uint64) (*model.Market, error) {
	return scanMarket(r.db.QueryRowContext(ctx, "SELECT "+marketColumns+" FROM markets WHERE id = ?", id))
}

// GetByAdmin returns the first market owned by adminID.
func (r *MarketRepo) GetByAdmin(ctx context.Context, adminID uint64) (*model.Market, error) {
	return scanMarket(r.db.QueryRowContext(ctx,
		"SELECT "+marketColumns+" FROM markets WHERE admin_id = ? ORDER BY id LIMIT 1", adminID))
}

func (r *MarketRepo) List(ctx context.Context) ([]*model.Market, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+marketColumns+" FROM markets ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*model.Market{}
	for rows.Next() {
		m, err := scanMarket(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ListWithAdmin returns every market joined with its owning admin.  A
// market whose admin row is missing carries a nil Admin.
func (r *MarketRepo) ListWithAdmin(ctx context.Context) ([]*model.MarketWithAdmin, error) {
	markets, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	admins, err := NewAdminRepo(r.db).List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint64]*model.Admin, len(admins))
	for _, a := range admins {
		byID[a.ID] = a
	}
	out := make([]*model.MarketWithAdmin, 0, len(markets))
	for _, m := range markets {
		out = append(out, &model.MarketWithAdmin{Market: *m, Admin: byID[m.AdminID]})
	}
	return out, nil
}

// Update writes every column of m.
func (r *MarketRepo) Update(ctx context.Context, m *model.Market) error {
	if err := m.Image.Validate(); err != nil {
		return err
	}
	m.UpdatedAt = now()
	_, err := r.db.ExecContext(ctx,
		`UPDATE markets SET name = ?, location = ?, phone = ?, image_id = ?, image_url = ?, admin_id = ?, updated_at = ?
		 WHERE id = ?`,
		m.Name, m.Location, m.Phone, m.Image.ID, m.Image.URL, m.AdminID, m.UpdatedAt, m.ID)
	return duplicateOr(err)
}

// NameTaken compares names case-sensitively on both dialects.
func (r *MarketRepo) NameTaken(ctx context.Context, name string, excludeID uint64) (bool, error) {
	return taken(ctx, r.db, "markets", "name", name, excludeID)
}

func (r *MarketRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	return exists(ctx, r.db, "markets", id)
}
