package pos

import (
	"context"
	"errors"

	"github.com/fekuna/gudang-pos/internal/cart"
	"github.com/fekuna/gudang-pos/internal/inventory"
	"github.com/fekuna/gudang-pos/internal/model"
	"github.com/fekuna/gudang-pos/internal/printer"
)

var (
	ErrNotFound          = errors.New("no item found")
	ErrNotConfirmed      = errors.New("checkout not confirmed")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrPrintFailed       = errors.New("receipt could not be printed")
	ErrPersistFailed     = errors.New("stock updated in memory but could not be saved")
)

// Printer prints a receipt and reports whether it succeeded.
type Printer interface {
	Print(ctx context.Context, lines []printer.ReceiptLine) bool
}

// Components are the collaborators built from one settings snapshot.
type Components struct {
	Inventory   inventory.Repository
	Printer     Printer
	DefaultUnit string
}

type StockUpdate struct {
	Name   string `json:"name"`
	Before int    `json:"before"`
	After  int    `json:"after"`
}

type CheckoutResult struct {
	Lines         []cart.Line   `json:"lines"`
	TotalQuantity int           `json:"total_quantity"`
	Updates       []StockUpdate `json:"updates"`
}

// UseCase is one terminal session: a cart over an inventory store.
type UseCase interface {
	Suggest(keyword string) []string
	AddToCart(ctx context.Context, keyword, qtyText string) (*cart.Line, error)
	EditQuantity(ctx context.Context, name, qtyText string) error
	RemoveLine(ctx context.Context, name string) error
	ClearCart(ctx context.Context)
	Cart() []cart.Line
	Stock() []model.StockRow

	// Checkout prints the cart and, only once printing succeeded, deducts the
	// quantities from the store and saves it.
	Checkout(ctx context.Context, confirmed bool) (*CheckoutResult, error)
	Reload(c Components)
}
