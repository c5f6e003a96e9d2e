package inventory

import (
	"context"
	"errors"

	"github.com/fekuna/gudang-pos/internal/model"
)

var (
	// ErrInvalidSchema is returned by Load when the file exists but cannot be
	// used. The in-memory table is left empty and the file is not touched.
	ErrInvalidSchema = errors.New("invalid inventory file")
	ErrNegativeStock = errors.New("stock cannot be negative")
)

// Repository is the flat-file item table used by the POS session.
type Repository interface {
	Load(ctx context.Context) error
	Save(ctx context.Context) error

	// Search returns item names containing keyword, case-insensitively, in
	// table order. A blank keyword matches nothing.
	Search(keyword string) []string
	GetFirstMatch(keyword string) (*model.StockRow, bool)
	GetByName(name string) (*model.StockRow, bool)

	// UpdateStock sets the stock of every row named exactly name.
	UpdateStock(name string, newStock int) error
	Rows() []model.StockRow
	Path() string
}
