package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/fekuna/gudang-pos/internal/cart"
	"github.com/fekuna/gudang-pos/internal/metrics"
	"github.com/fekuna/gudang-pos/internal/model"
	"github.com/fekuna/gudang-pos/internal/operator"
	"github.com/fekuna/gudang-pos/internal/pos"
	"github.com/fekuna/gudang-pos/internal/printer"
	"github.com/fekuna/gudang-pos/pkg/logger"
	"go.uber.org/zap"
)

type posUseCase struct {
	mu   sync.Mutex
	deps pos.Components
	cart *cart.Cart

	logger  logger.ZapLogger
	metrics *metrics.Metrics
}

func NewPOSUseCase(deps pos.Components, log logger.ZapLogger, m *metrics.Metrics) pos.UseCase {
	return &posUseCase{
		deps:    deps,
		cart:    cart.New(),
		logger:  log,
		metrics: m,
	}
}

func (uc *posUseCase) log(ctx context.Context) logger.ZapLogger {
	if op := operator.GetOperator(ctx); op != "" {
		return uc.logger.With(zap.String("operator", op))
	}
	return uc.logger
}

func (uc *posUseCase) Suggest(keyword string) []string {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.deps.Inventory.Search(keyword)
}

func (uc *posUseCase) AddToCart(ctx context.Context, keyword, qtyText string) (*cart.Line, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	row, ok := uc.deps.Inventory.GetFirstMatch(keyword)
	if !ok {
		return nil, fmt.Errorf("%w matching: %s", pos.ErrNotFound, strings.TrimSpace(keyword))
	}
	qty, err := cart.ParseQuantity(qtyText)
	if err != nil {
		return nil, err
	}

	unit := row.Unit
	if unit == "" {
		unit = uc.deps.DefaultUnit
	}
	line := uc.cart.Add(row.Name, row.Stock, qty, unit)

	uc.log(ctx).Debug("added to cart",
		zap.String("item", line.Name),
		zap.Int("quantity", qty),
		zap.Int("line_quantity", line.Quantity),
	)
	return &line, nil
}

func (uc *posUseCase) EditQuantity(ctx context.Context, name, qtyText string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	qty, err := cart.ParseEditQuantity(qtyText)
	if err != nil {
		return err
	}
	return uc.cart.SetQuantity(name, qty)
}

func (uc *posUseCase) RemoveLine(ctx context.Context, name string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.cart.Remove(name)
}

func (uc *posUseCase) ClearCart(ctx context.Context) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.cart.Clear()
}

func (uc *posUseCase) Cart() []cart.Line {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.cart.Lines()
}

func (uc *posUseCase) Stock() []model.StockRow {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.deps.Inventory.Rows()
}

func (uc *posUseCase) Checkout(ctx context.Context, confirmed bool) (*pos.CheckoutResult, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	log := uc.log(ctx)

	if !confirmed {
		return nil, pos.ErrNotConfirmed
	}
	if uc.cart.Len() == 0 {
		return nil, pos.ErrEmptyCart
	}

	lines := uc.cart.Lines()
	res := &pos.CheckoutResult{
		Lines:         lines,
		TotalQuantity: uc.cart.TotalQuantity(),
		Updates:       make([]pos.StockUpdate, 0, len(lines)),
	}
	receipt := make([]printer.ReceiptLine, 0, len(lines))

	// Deductions are taken from the stock seen when the line was added.
	for _, l := range lines {
		after := l.Remaining()
		if after < 0 {
			uc.metrics.ObserveCheckout("rejected")
			return nil, fmt.Errorf("%w: %s has %d %s, cart wants %d", pos.ErrInsufficientStock, l.Name, l.Stock, l.Unit, l.Quantity)
		}
		if cur, ok := uc.deps.Inventory.GetByName(l.Name); ok && cur.Stock != l.Stock {
			log.Warn("stock changed since item was added to cart",
				zap.String("item", l.Name),
				zap.Int("snapshot", l.Stock),
				zap.Int("current", cur.Stock),
			)
		}
		res.Updates = append(res.Updates, pos.StockUpdate{Name: l.Name, Before: l.Stock, After: after})
		receipt = append(receipt, printer.ReceiptLine{Name: l.Name, Stock: l.Stock, Quantity: l.Quantity, Unit: l.Unit})
	}

	if !uc.deps.Printer.Print(ctx, receipt) {
		uc.metrics.ObserveCheckout("print_failed")
		return nil, pos.ErrPrintFailed
	}

	for _, u := range res.Updates {
		if err := uc.deps.Inventory.UpdateStock(u.Name, u.After); err != nil {
			log.Error("failed to apply stock update", zap.String("item", u.Name), zap.Error(err))
		}
	}

	// The receipt is out, so the cart goes regardless of the save result.
	uc.cart.Clear()

	if err := uc.deps.Inventory.Save(ctx); err != nil {
		uc.metrics.ObserveCheckout("persist_failed")
		log.Error("checkout printed but inventory was not saved", zap.Error(err))
		return res, fmt.Errorf("%w: %w", pos.ErrPersistFailed, err)
	}

	uc.metrics.ObserveCheckout("success")
	log.Info("checkout completed",
		zap.Int("lines", len(lines)),
		zap.Int("total_quantity", res.TotalQuantity),
	)
	return res, nil
}

func (uc *posUseCase) Reload(c pos.Components) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.deps = c
	uc.logger.Info("session components reloaded")
}
