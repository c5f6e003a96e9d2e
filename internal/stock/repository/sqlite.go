package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fekuna/gudang-pos/internal/database/sqlite"
	"github.com/fekuna/gudang-pos/internal/model"
	"github.com/jmoiron/sqlx"
)

type SQLiteRepository struct {
	DB *sqlx.DB
}

func NewSQLiteRepository(db *sqlx.DB) *SQLiteRepository {
	return &SQLiteRepository{DB: db}
}

func (r *SQLiteRepository) ApplyMovement(ctx context.Context, trx *model.Transaction, items []model.TransactionItem) (int64, error) {
	var trxID int64
	err := sqlite.WithTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		res, err := tx.NamedExecContext(ctx, `
            INSERT INTO transactions (transaction_number, person_name, transaction_type, notes)
            VALUES (:transaction_number, :person_name, :transaction_type, :notes)
        `, trx)
		if err != nil {
			return fmt.Errorf("failed to insert transaction: %w", err)
		}
		trxID, err = res.LastInsertId()
		if err != nil {
			return err
		}

		for i := range items {
			items[i].TransactionID = trxID
			res, err := tx.NamedExecContext(ctx, `
                INSERT INTO transaction_items (transaction_id, item_id, quantity, stock_before, stock_after)
                VALUES (:transaction_id, :item_id, :quantity, :stock_before, :stock_after)
            `, items[i])
			if err != nil {
				return fmt.Errorf("failed to insert transaction item: %w", err)
			}
			if items[i].ID, err = res.LastInsertId(); err != nil {
				return err
			}

			_, err = tx.ExecContext(ctx,
				`UPDATE items SET current_stock = ?, updated_at = datetime('now') WHERE id = ?`,
				items[i].StockAfter, items[i].ItemID)
			if err != nil {
				return fmt.Errorf("failed to update stock: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	trx.ID = trxID
	return trxID, nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, number string) (*model.Transaction, error) {
	var trx model.Transaction
	err := r.DB.GetContext(ctx, &trx, `SELECT * FROM transactions WHERE transaction_number = ?`, number)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &trx, nil
}

func (r *SQLiteRepository) ListTransactionItems(ctx context.Context, transactionID int64) ([]model.TransactionItem, error) {
	items := []model.TransactionItem{}
	err := r.DB.SelectContext(ctx, &items,
		`SELECT * FROM transaction_items WHERE transaction_id = ? ORDER BY id`, transactionID)
	return items, err
}

// DeleteTransaction removes the header; its lines go with it through the
// ON DELETE CASCADE foreign key.
func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id int64) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	return err
}

func (r *SQLiteRepository) AdjustStockWithRecord(ctx context.Context, adj *model.StockAdjustment) (int64, error) {
	var id int64
	err := sqlite.WithTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx,
			`UPDATE items SET current_stock = ?, updated_at = datetime('now') WHERE id = ?`,
			adj.NewStock, adj.ItemID)
		if err != nil {
			return fmt.Errorf("failed to update stock: %w", err)
		}

		res, err := tx.NamedExecContext(ctx, `
            INSERT INTO stock_adjustments (item_id, old_stock, new_stock, adjustment, reason)
            VALUES (:item_id, :old_stock, :new_stock, :adjustment, :reason)
        `, adj)
		if err != nil {
			return fmt.Errorf("failed to log adjustment: %w", err)
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return 0, err
	}
	adj.ID = id
	return id, nil
}

func (r *SQLiteRepository) ListAdjustments(ctx context.Context, itemID int64) ([]model.StockAdjustment, error) {
	adjs := []model.StockAdjustment{}
	err := r.DB.SelectContext(ctx, &adjs,
		`SELECT * FROM stock_adjustments WHERE item_id = ? ORDER BY id`, itemID)
	return adjs, err
}
