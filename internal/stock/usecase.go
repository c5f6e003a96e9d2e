package stock

import (
	"context"
	"errors"

	"github.com/fekuna/gudang-pos/internal/model"
	"github.com/fekuna/gudang-pos/internal/stock/dto"
)

var (
	ErrItemNotFound      = errors.New("item not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidMovement   = errors.New("invalid stock movement")
)

type UseCase interface {
	AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.StockAdjustment, error)
	RecordMovement(ctx context.Context, input *dto.MovementInput) (*model.Transaction, []model.TransactionItem, error)
	ListAdjustments(ctx context.Context, itemID int64) ([]model.StockAdjustment, error)
	ListTransactionItems(ctx context.Context, transactionID int64) ([]model.TransactionItem, error)
	DeleteTransaction(ctx context.Context, id int64) error
}
