package repository

import (
	"context"

	"github.com/marketplace/grocery-api/internal/model"
)

const userColumns = `id, name, surname, username, email, password_hash, city, phone_number,
	image_id, image_url, created_at, updated_at`

// UserRepo mirrors AdminRepo for end customers.
type UserRepo struct{ db Querier }

func NewUserRepo(db Querier) *UserRepo { return &UserRepo{db: db} }

func scanUser(s rowScanner) (*model.User, error) {
	var u model.User
	err := s.Scan(&u.ID, &u.Name, &u.Surname, &u.Username, &u.Email, &u.PasswordHash,
		&u.City, &u.PhoneNumber, &u.ProfilePic.ID, &u.ProfilePic.URL, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// Create inserts u and fills in its ID and timestamps.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	if err := u.ProfilePic.Validate(); err != nil {
		return err
	}
	u.CreatedAt = now()
	u.UpdatedAt = u.CreatedAt
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (name, surname, username, email, password_hash, city, phone_number,
			image_id, image_url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.Name, u.Surname, u.Username, u.Email, u.PasswordHash, u.City, u.PhoneNumber,
		u.ProfilePic.ID, u.ProfilePic.URL, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return duplicateOr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id))
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username = ? LIMIT 1", username))
}

func (r *UserRepo) List(ctx context.Context) ([]*model.User, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Update writes every profile column of u in one statement.  A non-empty
// newHash replaces the stored password hash.
func (r *UserRepo) Update(ctx context.Context, u *model.User, newHash string) error {
	if err := u.ProfilePic.Validate(); err != nil {
		return err
	}
	u.UpdatedAt = now()
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET name = ?, surname = ?, username = ?, email = ?, city = ?,
			phone_number = ?, image_id = ?, image_url = ?,
			password_hash = COALESCE(NULLIF(?, ''), password_hash), updated_at = ?
		 WHERE id = ?`,
		u.Name, u.Surname, u.Username, u.Email, u.City, u.PhoneNumber,
		u.ProfilePic.ID, u.ProfilePic.URL, newHash, u.UpdatedAt, u.ID)
	if err != nil {
		return duplicateOr(err)
	}
	if newHash != "" {
		u.PasswordHash = newHash
	}
	return nil
}

func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, hash string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?", hash, now(), id)
	return err
}

func (r *UserRepo) UsernameTaken(ctx context.Context, username string, excludeID uint64) (bool, error) {
	return taken(ctx, r.db, "users", "username", username, excludeID)
}

func (r *UserRepo) EmailTaken(ctx context.Context, email string, excludeID uint64) (bool, error) {
	return taken(ctx, r.db, "users", "email", email, excludeID)
}
