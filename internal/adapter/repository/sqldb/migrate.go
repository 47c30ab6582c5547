package sqldb

import (
	"context"
	"fmt"
)

// Timestamps are stored as unix seconds so the same queries work on both
// sqlite and postgres.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		seller_id INTEGER NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		price TEXT NOT NULL,
		contact TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		expires_at INTEGER NOT NULL,
		last_extended_at INTEGER NULL,
		last_checked_at INTEGER NOT NULL,
		expiry_notified BOOLEAN NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_expires_at ON products(expires_at)`,
	`CREATE INDEX IF NOT EXISTS idx_products_seller_created ON products(seller_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS users (
		user_id INTEGER PRIMARY KEY,
		username TEXT NULL,
		first_name TEXT NULL,
		last_name TEXT NULL,
		is_banned BOOLEAN NOT NULL DEFAULT 0,
		ban_reason TEXT NULL,
		is_whitelisted BOOLEAN NOT NULL DEFAULT 0,
		daily_limit INTEGER NOT NULL DEFAULT 0,
		registered_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS reviews (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		seller_id INTEGER NOT NULL,
		buyer_id INTEGER NOT NULL,
		product_id INTEGER NULL,
		rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
		comment TEXT NULL,
		is_moderated BOOLEAN NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_reviews_seller ON reviews(seller_id, is_moderated)`,
	`CREATE TABLE IF NOT EXISTS admin_actions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		admin_id INTEGER NOT NULL,
		action_type TEXT NOT NULL,
		target_id INTEGER NULL,
		target_type TEXT NULL,
		reason TEXT NULL,
		details TEXT NULL,
		created_at INTEGER NOT NULL
	)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id BIGSERIAL PRIMARY KEY,
		seller_id BIGINT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		price TEXT NOT NULL,
		contact TEXT NOT NULL,
		created_at BIGINT NOT NULL,
		expires_at BIGINT NOT NULL,
		last_extended_at BIGINT NULL,
		last_checked_at BIGINT NOT NULL,
		expiry_notified BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_expires_at ON products(expires_at)`,
	`CREATE INDEX IF NOT EXISTS idx_products_seller_created ON products(seller_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS users (
		user_id BIGINT PRIMARY KEY,
		username TEXT NULL,
		first_name TEXT NULL,
		last_name TEXT NULL,
		is_banned BOOLEAN NOT NULL DEFAULT FALSE,
		ban_reason TEXT NULL,
		is_whitelisted BOOLEAN NOT NULL DEFAULT FALSE,
		daily_limit INTEGER NOT NULL DEFAULT 0,
		registered_at BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS reviews (
		id BIGSERIAL PRIMARY KEY,
		seller_id BIGINT NOT NULL,
		buyer_id BIGINT NOT NULL,
		product_id BIGINT NULL,
		rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
		comment TEXT NULL,
		is_moderated BOOLEAN NOT NULL DEFAULT FALSE,
		created_at BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_reviews_seller ON reviews(seller_id, is_moderated)`,
	`CREATE TABLE IF NOT EXISTS admin_actions (
		id BIGSERIAL PRIMARY KEY,
		admin_id BIGINT NOT NULL,
		action_type TEXT NOT NULL,
		target_id BIGINT NULL,
		target_type TEXT NULL,
		reason TEXT NULL,
		details TEXT NULL,
		created_at BIGINT NOT NULL
	)`,
}

// Migrate creates the tables idempotently. There is no versioned
// migration history.
func (db *DB) Migrate(ctx context.Context) error {
	stmts := sqliteSchema
	if db.driver == DriverPostgres {
		stmts = postgresSchema
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec %.40q: %w", stmt, err)
		}
	}
	return nil
}
