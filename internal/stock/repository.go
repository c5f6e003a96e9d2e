package stock

import (
	"context"

	"github.com/fekuna/gudang-pos/internal/model"
)

type Repository interface {
	// ApplyMovement writes the transaction header, its audit lines, and the
	// resulting item stock levels in a single transaction.
	ApplyMovement(ctx context.Context, trx *model.Transaction, items []model.TransactionItem) (int64, error)
	GetTransaction(ctx context.Context, number string) (*model.Transaction, error)
	ListTransactionItems(ctx context.Context, transactionID int64) ([]model.TransactionItem, error)
	DeleteTransaction(ctx context.Context, id int64) error

	// AdjustStockWithRecord sets the item stock and logs the adjustment atomically.
	AdjustStockWithRecord(ctx context.Context, adj *model.StockAdjustment) (int64, error)
	ListAdjustments(ctx context.Context, itemID int64) ([]model.StockAdjustment, error)
}
