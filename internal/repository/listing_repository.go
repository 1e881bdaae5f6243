package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/marketplace/grocery-api/internal/model"
)

// LowStockThreshold is the stock level under which a listing is reported
// by the low-stock query.
const LowStockThreshold = 10

const listingColumns = `id, product_id, market_id, regular_price, discount_price, discount_rate,
	stock_amount, start_date, end_date, created_at, updated_at`

// ListingRepo reads and writes product_markets, the price and stock rows
// that put a product on sale in a market.
type ListingRepo struct{ db Querier }

func NewListingRepo(db Querier) *ListingRepo { return &ListingRepo{db: db} }

// listingRow holds the nullable columns of a listing during a scan.
type listingRow struct {
	pm            model.ProductMarket
	discountPrice sql.NullFloat64
	discountRate  sql.NullFloat64
	startDate     sql.NullTime
	endDate       sql.NullTime
}

func (l *listingRow) dest() []any {
	return []any{&l.pm.ID, &l.pm.ProductID, &l.pm.MarketID, &l.pm.RegularPrice,
		&l.discountPrice, &l.discountRate, &l.pm.StockAmount, &l.startDate, &l.endDate,
		&l.pm.CreatedAt, &l.pm.UpdatedAt}
}

func (l *listingRow) listing() model.ProductMarket {
	pm := l.pm
	pm.DiscountPrice = floatPtr(l.discountPrice)
	pm.DiscountRate = floatPtr(l.discountRate)
	pm.StartDate = timePtr(l.startDate)
	pm.EndDate = timePtr(l.endDate)
	return pm
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func timePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time.UTC()
	return &t
}

func (r *ListingRepo) Create(ctx context.Context, pm *model.ProductMarket) error {
	pm.CreatedAt = now()
	pm.UpdatedAt = pm.CreatedAt
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO product_markets (product_id, market_id, regular_price, discount_price, discount_rate,
			stock_amount, start_date, end_date, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		pm.ProductID, pm.MarketID, pm.RegularPrice, pm.DiscountPrice, pm.DiscountRate,
		pm.StockAmount, pm.StartDate, pm.EndDate, pm.CreatedAt, pm.UpdatedAt)
	if err != nil {
		return duplicateOr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	pm.ID = uint64(id)
	return nil
}

func (r *ListingRepo) GetByID(ctx context.Context, id uint64) (*model.ProductMarket, error) {
	var l listingRow
	if err := r.db.QueryRowContext(ctx,
		"SELECT "+listingColumns+" FROM product_markets WHERE id = ?", id).Scan(l.dest()...); err != nil {
		return nil, notFound(err)
	}
	pm := l.listing()
	return &pm, nil
}

// Update writes every column of pm; nil optional fields are stored as NULL.
func (r *ListingRepo) Update(ctx context.Context, pm *model.ProductMarket) error {
	pm.UpdatedAt = now()
	_, err := r.db.ExecContext(ctx,
		`UPDATE product_markets SET product_id = ?, market_id = ?, regular_price = ?, discount_price = ?,
			discount_rate = ?, stock_amount = ?, start_date = ?, end_date = ?, updated_at = ?
		 WHERE id = ?`,
		pm.ProductID, pm.MarketID, pm.RegularPrice, pm.DiscountPrice, pm.DiscountRate,
		pm.StockAmount, pm.StartDate, pm.EndDate, pm.UpdatedAt, pm.ID)
	return duplicateOr(err)
}

func (r *ListingRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	return exists(ctx, r.db, "product_markets", id)
}

// PairTaken reports whether productID is already listed in marketID by a
// listing other than excludeID.
func (r *ListingRepo) PairTaken(ctx context.Context, productID, marketID, excludeID uint64) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM product_markets WHERE product_id = ? AND market_id = ? AND id <> ?",
		productID, marketID, excludeID).Scan(&n)
	return n > 0, err
}

// ListingFilter narrows Details.  Zero values do not filter.
type ListingFilter struct {
	ID         uint64
	IDs        []uint64
	ProductID  uint64
	Search     string // substring of the product name
	AdminID    uint64 // listings of markets owned by this admin
	CategoryID uint64
	BrandID    uint64
	LowStock   bool
	Discounted bool
}

func (f ListingFilter) where() (string, []any) {
	var conds []string
	var args []any
	if f.ID != 0 {
		conds = append(conds, "pm.id = ?")
		args = append(args, f.ID)
	}
	if len(f.IDs) > 0 {
		conds = append(conds, "pm.id IN ("+placeholders(len(f.IDs))+")")
		args = append(args, idArgs(f.IDs)...)
	}
	if f.ProductID != 0 {
		conds = append(conds, "pm.product_id = ?")
		args = append(args, f.ProductID)
	}
	if f.Search != "" {
		conds = append(conds, "p.name LIKE ? ESCAPE '!'")
		args = append(args, containsPattern(f.Search))
	}
	if f.AdminID != 0 {
		conds = append(conds, "m.admin_id = ?")
		args = append(args, f.AdminID)
	}
	if f.CategoryID != 0 {
		conds = append(conds, "p.category_id = ?")
		args = append(args, f.CategoryID)
	}
	if f.BrandID != 0 {
		conds = append(conds, "p.brand_id = ?")
		args = append(args, f.BrandID)
	}
	if f.LowStock {
		conds = append(conds, "pm.stock_amount < ?")
		args = append(args, LowStockThreshold)
	}
	if f.Discounted {
		conds = append(conds, "pm.discount_price IS NOT NULL")
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// nullLabel scans a LEFT JOINed category or brand.
type nullLabel struct {
	id       sql.NullInt64
	name     sql.NullString
	imageID  sql.NullString
	imageURL sql.NullString
}

func (n nullLabel) category() *model.Category {
	if !n.id.Valid {
		return nil
	}
	return &model.Category{ID: uint64(n.id.Int64), Name: n.name.String,
		Image: model.Image{ID: n.imageID.String, URL: n.imageURL.String}}
}

func (n nullLabel) brand() *model.Brand {
	if !n.id.Valid {
		return nil
	}
	return &model.Brand{ID: uint64(n.id.Int64), Name: n.name.String,
		Image: model.Image{ID: n.imageID.String, URL: n.imageURL.String}}
}

// Details returns listings joined with product, category, brand and market.
func (r *ListingRepo) Details(ctx context.Context, f ListingFilter) ([]*model.ListingDetail, error) {
	where, args := f.where()
	rows, err := r.db.QueryContext(ctx, `
		SELECT pm.id, pm.product_id, pm.market_id, pm.regular_price, pm.discount_price, pm.discount_rate,
		       pm.stock_amount, pm.start_date, pm.end_date, pm.created_at, pm.updated_at,
		       p.id, p.name, p.gram, p.contents, p.image_id, p.image_url, p.category_id, p.brand_id,
		       c.id, c.name, c.image_id, c.image_url, b.id, b.name, b.image_id, b.image_url,
		       m.id, m.name, m.location
		FROM product_markets pm
		JOIN products p ON p.id = pm.product_id
		JOIN markets m ON m.id = pm.market_id
		LEFT JOIN categories c ON c.id = p.category_id
		LEFT JOIN brands b ON b.id = p.brand_id`+where+`
		ORDER BY pm.id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*model.ListingDetail{}
	for rows.Next() {
		var (
			l          listingRow
			d          model.ListingDetail
			cat, brand nullLabel
		)
		dest := append(l.dest(),
			&d.Product.ID, &d.Product.Name, &d.Product.Gram, &d.Product.Contents,
			&d.Product.Image.ID, &d.Product.Image.URL, &d.Product.CategoryID, &d.Product.BrandID,
			&cat.id, &cat.name, &cat.imageID, &cat.imageURL,
			&brand.id, &brand.name, &brand.imageID, &brand.imageURL,
			&d.Market.ID, &d.Market.Name, &d.Market.Location)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		d.ProductMarket = l.listing()
		d.Product.Category = cat.category()
		d.Product.Brand = brand.brand()
		out = append(out, &d)
	}
	return out, rows.Err()
}

// Detail returns one joined listing or ErrNotFound.
func (r *ListingRepo) Detail(ctx context.Context, id uint64) (*model.ListingDetail, error) {
	ds, err := r.Details(ctx, ListingFilter{ID: id})
	if err != nil {
		return nil, err
	}
	if len(ds) == 0 {
		return nil, ErrNotFound
	}
	return ds[0], nil
}

// DetailsByID returns joined listings keyed by id for the given ids.
func (r *ListingRepo) DetailsByID(ctx context.Context, ids []uint64) (map[uint64]*model.ListingDetail, error) {
	out := make(map[uint64]*model.ListingDetail, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	ds, err := r.Details(ctx, ListingFilter{IDs: ids})
	if err != nil {
		return nil, err
	}
	for _, d := range ds {
		out[d.ID] = d
	}
	return out, nil
}
