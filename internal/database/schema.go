package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// There are deliberately no FOREIGN KEY clauses: dependents are removed by
// the cascade executor in the repository package, inside one transaction.
var tables = []string{
	`CREATE TABLE IF NOT EXISTS admins (
		id {{pk}},
		name VARCHAR(50) NOT NULL,
		surname VARCHAR(50) NOT NULL,
		username VARCHAR(30) NOT NULL,
		email VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		city VARCHAR(50) NOT NULL DEFAULT '',
		phone_number VARCHAR(32) NOT NULL DEFAULT '',
		admin_role VARCHAR(16) NOT NULL DEFAULT 'admin',
		image_id VARCHAR(255) NOT NULL DEFAULT '',
		image_url VARCHAR(1024) NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		UNIQUE (username),
		UNIQUE (email)
	){{suffix}}`,
	`CREATE TABLE IF NOT EXISTS users (
		id {{pk}},
		name VARCHAR(50) NOT NULL,
		surname VARCHAR(50) NOT NULL,
		username VARCHAR(30) NOT NULL,
		email VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		city VARCHAR(50) NOT NULL DEFAULT '',
		phone_number VARCHAR(32) NOT NULL DEFAULT '',
		image_id VARCHAR(255) NOT NULL DEFAULT '',
		image_url VARCHAR(1024) NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		UNIQUE (username),
		UNIQUE (email)
	){{suffix}}`,
	`CREATE TABLE IF NOT EXISTS markets (
		id {{pk}},
		name VARCHAR(255){{bin}} NOT NULL,
		location VARCHAR(255) NOT NULL,
		phone VARCHAR(32) NOT NULL DEFAULT '',
		image_id VARCHAR(255) NOT NULL DEFAULT '',
		image_url VARCHAR(1024) NOT NULL DEFAULT '',
		admin_id BIGINT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		UNIQUE (name)
	){{suffix}}`,
	`CREATE TABLE IF NOT EXISTS categories (
		id {{pk}},
		name VARCHAR(255){{bin}} NOT NULL,
		image_id VARCHAR(255) NOT NULL DEFAULT '',
		image_url VARCHAR(1024) NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		UNIQUE (name)
	){{suffix}}`,
	`CREATE TABLE IF NOT EXISTS brands (
		id {{pk}},
		name VARCHAR(255){{bin}} NOT NULL,
		image_id VARCHAR(255) NOT NULL DEFAULT '',
		image_url VARCHAR(1024) NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		UNIQUE (name)
	){{suffix}}`,
	`CREATE TABLE IF NOT EXISTS products (
		id {{pk}},
		name VARCHAR(255){{bin}} NOT NULL,
		gram INT NOT NULL,
		contents TEXT NOT NULL,
		image_id VARCHAR(255) NOT NULL DEFAULT '',
		image_url VARCHAR(1024) NOT NULL DEFAULT '',
		category_id BIGINT NOT NULL,
		brand_id BIGINT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		UNIQUE (name)
	){{suffix}}`,
	`CREATE TABLE IF NOT EXISTS product_markets (
		id {{pk}},
		product_id BIGINT NOT NULL,
		market_id BIGINT NOT NULL,
		regular_price DOUBLE NOT NULL,
		discount_price DOUBLE NULL,
		discount_rate DOUBLE NULL,
		stock_amount INT NOT NULL DEFAULT 0,
		start_date DATE NULL,
		end_date DATE NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		UNIQUE (product_id, market_id)
	){{suffix}}`,
	`CREATE TABLE IF NOT EXISTS carts (
		id {{pk}},
		user_id BIGINT NOT NULL,
		product_market_id BIGINT NOT NULL,
		quantity INT NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		UNIQUE (user_id, product_market_id)
	){{suffix}}`,
	`CREATE TABLE IF NOT EXISTS favorites (
		id {{pk}},
		user_id BIGINT NOT NULL,
		product_market_id BIGINT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		UNIQUE (user_id, product_market_id)
	){{suffix}}`,
	`CREATE TABLE IF NOT EXISTS product_images (
		id {{pk}},
		image_id VARCHAR(255) NOT NULL DEFAULT '',
		image_url VARCHAR(1024) NOT NULL DEFAULT '',
		product_match VARCHAR(255) NOT NULL DEFAULT '',
		uploaded_by BIGINT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	){{suffix}}`,
}

// Migrate creates every table that does not exist yet.  It is safe to run
// on each start.
func Migrate(ctx context.Context, db *sql.DB, dialect string) error {
	var pk, suffix, bin string
	switch dialect {
	case DialectMySQL:
		pk = "BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY"
		suffix = " ENGINE=InnoDB DEFAULT CHARSET=utf8mb4"
		bin = " COLLATE utf8mb4_bin" // unique names compare case-sensitively
	case DialectSQLite:
		pk = "INTEGER PRIMARY KEY AUTOINCREMENT"
	default:
		return fmt.Errorf("migrate: unknown dialect %q", dialect)
	}
	r := strings.NewReplacer("{{pk}}", pk, "{{suffix}}", suffix, "{{bin}}", bin)
	for _, ddl := range tables {
		if _, err := db.ExecContext(ctx, r.Replace(ddl)); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
