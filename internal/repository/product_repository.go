package repository

import (
	"context"

	"github.com/marketplace/grocery-api/internal/model"
)

const productColumns = "id, name, gram, contents, image_id, image_url, category_id, brand_id, created_at, updated_at"

// ProductRepo reads and writes the products table.
type ProductRepo struct{ db Querier }

func NewProductRepo(db Querier) *ProductRepo { return &ProductRepo{db: db} }

func scanProduct(s rowScanner) (*model.Product, error) {
	var p model.Product
	err := s.Scan(&p.ID, &p.Name, &p.Gram, &p.Contents, &p.Image.ID, &p.Image.URL,
		&p.CategoryID, &p.BrandID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *ProductRepo) Create(ctx context.Context, p *model.Product) error {
	if err := p.Image.Validate(); err != nil {
		return err
	}
	p.CreatedAt = now()
	p.UpdatedAt = p.CreatedAt
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO products (name, gram, contents, image_id, image_url, category_id, brand_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.Gram, p.Contents, p.Image.ID, p.Image.URL, p.CategoryID, p.BrandID, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return duplicateOr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

func (r *ProductRepo) GetByID(ctx context.Context, id uint64) (*model.Product, error) {
	return scanProduct(r.db.QueryRowContext(ctx, "SELECT "+productColumns+" FROM products WHERE id = ?", id))
}

// GetByName matches the name exactly; the detection flow uses it to map a
// label onto a product.
func (r *ProductRepo) GetByName(ctx context.Context, name string) (*model.Product, error) {
	return scanProduct(r.db.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE name = ? LIMIT 1", name))
}

func (r *ProductRepo) List(ctx context.Context) ([]*model.Product, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+productColumns+" FROM products ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListWithCatalog returns products with their category and brand attached.
func (r *ProductRepo) ListWithCatalog(ctx context.Context) ([]*model.ProductSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT p.id, p.name, p.gram, p.contents, p.image_id, p.image_url, p.category_id, p.brand_id,
		       c.id, c.name, c.image_id, c.image_url, b.id, b.name, b.image_id, b.image_url
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		LEFT JOIN brands b ON b.id = p.brand_id
		ORDER BY p.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*model.ProductSummary{}
	for rows.Next() {
		var p model.ProductSummary
		var cat, brand nullLabel
		if err := rows.Scan(&p.ID, &p.Name, &p.Gram, &p.Contents, &p.Image.ID, &p.Image.URL,
			&p.CategoryID, &p.BrandID,
			&cat.id, &cat.name, &cat.imageID, &cat.imageURL,
			&brand.id, &brand.name, &brand.imageID, &brand.imageURL); err != nil {
			return nil, err
		}
		p.Category = cat.category()
		p.Brand = brand.brand()
		out = append(out, &p)
	}
	return out, rows.Err()
}

// Update writes every column of p.
func (r *ProductRepo) Update(ctx context.Context, p *model.Product) error {
	if err := p.Image.Validate(); err != nil {
		return err
	}
	p.UpdatedAt = now()
	_, err := r.db.ExecContext(ctx,
		`UPDATE products SET name = ?, gram = ?, contents = ?, image_id = ?, image_url = ?,
			category_id = ?, brand_id = ?, updated_at = ?
		 WHERE id = ?`,
		p.Name, p.Gram, p.Contents, p.Image.ID, p.Image.URL, p.CategoryID, p.BrandID, p.UpdatedAt, p.ID)
	return duplicateOr(err)
}

func (r *ProductRepo) NameTaken(ctx context.Context, name string, excludeID uint64) (bool, error) {
	return taken(ctx, r.db, "products", "name", name, excludeID)
}

func (r *ProductRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	return exists(ctx, r.db, "products", id)
}
