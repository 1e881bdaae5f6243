package repository

import (
	"context"

	"github.com/marketplace/grocery-api/internal/model"
)

const adminColumns = `id, name, surname, username, email, password_hash, city, phone_number,
	admin_role, image_id, image_url, created_at, updated_at`

// AdminRepo reads and writes the admins table.
type AdminRepo struct{ db Querier }

func NewAdminRepo(db Querier) *AdminRepo { return &AdminRepo{db: db} }

func scanAdmin(s rowScanner) (*model.Admin, error) {
	var a model.Admin
	err := s.Scan(&a.ID, &a.Name, &a.Surname, &a.Username, &a.Email, &a.PasswordHash,
		&a.City, &a.PhoneNumber, &a.Role, &a.ProfilePic.ID, &a.ProfilePic.URL,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

// Create inserts a and fills in its ID and timestamps.  PasswordHash must
// already hold the bcrypt hash.
func (r *AdminRepo) Create(ctx context.Context, a *model.Admin) error {
	if err := a.ProfilePic.Validate(); err != nil {
		return err
	}
	a.CreatedAt = now()
	a.UpdatedAt = a.CreatedAt
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO admins (name, surname, username, email, password_hash, city, phone_number,
			admin_role, image_id, image_url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.Name, a.Surname, a.Username, a.Email, a.PasswordHash, a.City, a.PhoneNumber,
		a.Role, a.ProfilePic.ID, a.ProfilePic.URL, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return duplicateOr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return nil
}

func (r *AdminRepo) GetByID(ctx context.Context, id uint64) (*model.Admin, error) {
	return scanAdmin(r.db.QueryRowContext(ctx, "SELECT "+adminColumns+" FROM admins WHERE id = ?", id))
}

// GetByUsername is the login lookup.
func (r *AdminRepo) GetByUsername(ctx context.Context, username string) (*model.Admin, error) {
	return scanAdmin(r.db.QueryRowContext(ctx,
		"SELECT "+adminColumns+" FROM admins WHERE username = ? LIMIT 1", username))
}

func (r *AdminRepo) List(ctx context.Context) ([]*model.Admin, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+adminColumns+" FROM admins ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*model.Admin{}
	for rows.Next() {
		a, err := scanAdmin(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Count returns how many admins exist.  Registration is open while it is 0.
func (r *AdminRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM admins").Scan(&n)
	return n, err
}

// Update writes every profile column of a, including role and picture, in
// one statement.  A non-empty newHash replaces the stored password hash.
func (r *AdminRepo) Update(ctx context.Context, a *model.Admin, newHash string) error {
	if err := a.ProfilePic.Validate(); err != nil {
		return err
	}
	a.UpdatedAt = now()
	_, err := r.db.ExecContext(ctx,
		`UPDATE admins SET name = ?, surname = ?, username = ?, email = ?, city = ?,
			phone_number = ?, admin_role = ?, image_id = ?, image_url = ?,
			password_hash = COALESCE(NULLIF(?, ''), password_hash), updated_at = ?
		 WHERE id = ?`,
		a.Name, a.Surname, a.Username, a.Email, a.City, a.PhoneNumber, a.Role,
		a.ProfilePic.ID, a.ProfilePic.URL, newHash, a.UpdatedAt, a.ID)
	if err != nil {
		return duplicateOr(err)
	}
	if newHash != "" {
		a.PasswordHash = newHash
	}
	return nil
}

func (r *AdminRepo) UpdatePassword(ctx context.Context, id uint64, hash string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE admins SET password_hash = ?, updated_at = ? WHERE id = ?", hash, now(), id)
	return err
}

func (r *AdminRepo) UsernameTaken(ctx context.Context, username string, excludeID uint64) (bool, error) {
	return taken(ctx, r.db, "admins", "username", username, excludeID)
}

func (r *AdminRepo) EmailTaken(ctx context.Context, email string, excludeID uint64) (bool, error) {
	return taken(ctx, r.db, "admins", "email", email, excludeID)
}
