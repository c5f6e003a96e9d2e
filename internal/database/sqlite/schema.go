package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS product_groups (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		parent_id INTEGER REFERENCES product_groups(id),
		created_at TEXT NOT NULL DEFAULT (datetime('now'))
	)`,
	`CREATE TABLE IF NOT EXISTS items (
		id INTEGER PRIMARY KEY,
		code TEXT UNIQUE,
		name TEXT NOT NULL,
		group_id INTEGER REFERENCES product_groups(id),
		unit TEXT NOT NULL DEFAULT 'pcs',
		barcode TEXT UNIQUE,
		current_stock INTEGER NOT NULL DEFAULT 0,
		active INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL DEFAULT (datetime('now')),
		updated_at TEXT NOT NULL DEFAULT (datetime('now'))
	)`,
	`CREATE INDEX IF NOT EXISTS idx_items_name ON items(name)`,
	`CREATE INDEX IF NOT EXISTS idx_items_code ON items(code)`,
	`CREATE INDEX IF NOT EXISTS idx_items_barcode ON items(barcode)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id INTEGER PRIMARY KEY,
		transaction_number TEXT UNIQUE NOT NULL,
		person_name TEXT NOT NULL,
		transaction_type TEXT NOT NULL CHECK (transaction_type IN ('OUT','IN','ADJUST')),
		notes TEXT,
		created_at TEXT NOT NULL DEFAULT (datetime('now'))
	)`,
	`CREATE TABLE IF NOT EXISTS transaction_items (
		id INTEGER PRIMARY KEY,
		transaction_id INTEGER NOT NULL REFERENCES transactions(id) ON DELETE CASCADE,
		item_id INTEGER NOT NULL REFERENCES items(id),
		quantity INTEGER NOT NULL,
		stock_before INTEGER NOT NULL,
		stock_after INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_trx_items_trx ON transaction_items(transaction_id)`,
	`CREATE TABLE IF NOT EXISTS stock_adjustments (
		id INTEGER PRIMARY KEY,
		item_id INTEGER NOT NULL REFERENCES items(id),
		old_stock INTEGER NOT NULL,
		new_stock INTEGER NOT NULL,
		adjustment INTEGER NOT NULL,
		reason TEXT,
		created_at TEXT NOT NULL DEFAULT (datetime('now'))
	)`,
}

// Initialize creates every table and index that does not exist yet. It is
// safe to call on an already initialized database.
func Initialize(ctx context.Context, db *sqlx.DB) error {
	return WithTx(ctx, db, func(tx *sqlx.Tx) error {
		for _, stmt := range schema {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("sqlite: apply schema: %w", err)
			}
		}
		return nil
	})
}

type Object struct {
	Type      string `db:"type" json:"type"`
	Name      string `db:"name" json:"name"`
	TableName string `db:"tbl_name" json:"tbl_name"`
}

// Objects lists user tables and indexes, ordered by type then name.
func Objects(ctx context.Context, db *sqlx.DB) ([]Object, error) {
	var objs []Object
	err := db.SelectContext(ctx, &objs, `
		SELECT type, name, tbl_name FROM sqlite_master
		WHERE type IN ('table', 'index') AND name NOT LIKE 'sqlite_%'
		ORDER BY type, name
	`)
	return objs, err
}
