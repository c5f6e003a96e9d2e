package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/fekuna/gudang-pos/internal/item"
	"github.com/fekuna/gudang-pos/internal/model"
	"github.com/fekuna/gudang-pos/internal/stock"
	"github.com/fekuna/gudang-pos/internal/stock/dto"
	"github.com/fekuna/gudang-pos/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type stockUseCase struct {
	items  item.Repository
	repo   stock.Repository
	logger logger.ZapLogger
}

func NewStockUseCase(items item.Repository, repo stock.Repository, log logger.ZapLogger) stock.UseCase {
	return &stockUseCase{
		items:  items,
		repo:   repo,
		logger: log,
	}
}

func (uc *stockUseCase) AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.StockAdjustment, error) {
	it, err := uc.items.GetByID(ctx, input.ItemID)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, fmt.Errorf("%w: id %d", stock.ErrItemNotFound, input.ItemID)
	}
	if input.NewStock < 0 {
		return nil, fmt.Errorf("%w: %s cannot go to %d", stock.ErrInsufficientStock, it.Name, input.NewStock)
	}

	var reason *string
	if r := strings.TrimSpace(input.Reason); r != "" {
		reason = &r
	}

	adj := &model.StockAdjustment{
		ItemID:     it.ID,
		OldStock:   it.CurrentStock,
		NewStock:   input.NewStock,
		Adjustment: input.NewStock - it.CurrentStock,
		Reason:     reason,
	}
	if _, err := uc.repo.AdjustStockWithRecord(ctx, adj); err != nil {
		return nil, err
	}

	uc.logger.Info("stock adjusted",
		zap.Int64("item_id", it.ID),
		zap.String("item", it.Name),
		zap.Int("old_stock", adj.OldStock),
		zap.Int("new_stock", adj.NewStock),
	)
	return adj, nil
}

func (uc *stockUseCase) RecordMovement(ctx context.Context, input *dto.MovementInput) (*model.Transaction, []model.TransactionItem, error) {
	if !input.Type.Valid() {
		return nil, nil, fmt.Errorf("%w: unknown type %q", stock.ErrInvalidMovement, input.Type)
	}
	if strings.TrimSpace(input.PersonName) == "" {
		return nil, nil, fmt.Errorf("%w: person name is required", stock.ErrInvalidMovement)
	}
	if len(input.Lines) == 0 {
		return nil, nil, fmt.Errorf("%w: no lines", stock.ErrInvalidMovement)
	}

	// Running levels so repeated lines for one item chain correctly.
	levels := map[int64]int{}
	lines := make([]model.TransactionItem, 0, len(input.Lines))
	for _, l := range input.Lines {
		if l.Quantity <= 0 && input.Type != model.TransactionAdjust {
			return nil, nil, fmt.Errorf("%w: quantity must be positive, got %d", stock.ErrInvalidMovement, l.Quantity)
		}

		before, seen := levels[l.ItemID]
		if !seen {
			it, err := uc.items.GetByID(ctx, l.ItemID)
			if err != nil {
				return nil, nil, err
			}
			if it == nil {
				return nil, nil, fmt.Errorf("%w: id %d", stock.ErrItemNotFound, l.ItemID)
			}
			before = it.CurrentStock
		}

		after := before
		switch input.Type {
		case model.TransactionOut:
			after = before - l.Quantity
		case model.TransactionIn, model.TransactionAdjust:
			after = before + l.Quantity
		}
		if after < 0 {
			return nil, nil, fmt.Errorf("%w: item %d has %d, needs %d", stock.ErrInsufficientStock, l.ItemID, before, l.Quantity)
		}
		levels[l.ItemID] = after

		lines = append(lines, model.TransactionItem{
			ItemID:      l.ItemID,
			Quantity:    l.Quantity,
			StockBefore: before,
			StockAfter:  after,
		})
	}

	var notes *string
	if n := strings.TrimSpace(input.Notes); n != "" {
		notes = &n
	}
	trx := &model.Transaction{
		TransactionNumber: newTransactionNumber(),
		PersonName:        strings.TrimSpace(input.PersonName),
		TransactionType:   input.Type,
		Notes:             notes,
	}

	if _, err := uc.repo.ApplyMovement(ctx, trx, lines); err != nil {
		return nil, nil, err
	}

	uc.logger.Info("stock movement recorded",
		zap.String("transaction_number", trx.TransactionNumber),
		zap.String("type", string(trx.TransactionType)),
		zap.Int("lines", len(lines)),
	)
	return trx, lines, nil
}

func (uc *stockUseCase) ListAdjustments(ctx context.Context, itemID int64) ([]model.StockAdjustment, error) {
	return uc.repo.ListAdjustments(ctx, itemID)
}

func (uc *stockUseCase) ListTransactionItems(ctx context.Context, transactionID int64) ([]model.TransactionItem, error) {
	return uc.repo.ListTransactionItems(ctx, transactionID)
}

func (uc *stockUseCase) DeleteTransaction(ctx context.Context, id int64) error {
	return uc.repo.DeleteTransaction(ctx, id)
}

func newTransactionNumber() string {
	return "TRX-" + strings.ToUpper(uuid.New().String()[:8])
}
