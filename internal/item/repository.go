package item

import (
	"context"
	"errors"

	"github.com/fekuna/gudang-pos/internal/item/dto"
	"github.com/fekuna/gudang-pos/internal/model"
)

// ErrDuplicate reports a code or barcode that already belongs to another item.
var ErrDuplicate = errors.New("item code or barcode already exists")

type Repository interface {
	GetByID(ctx context.Context, id int64) (*model.Item, error)
	GetByName(ctx context.Context, name string) (*model.Item, error)
	Search(ctx context.Context, filters *dto.ItemFilters) ([]model.Item, error)

	Insert(ctx context.Context, input *dto.CreateItemInput) (int64, error)
	// InsertBatch inserts all rows in one transaction. A failing row is
	// reported in the result and does not stop the remaining rows.
	InsertBatch(ctx context.Context, inputs []dto.CreateItemInput) (*dto.BatchResult, error)
	Update(ctx context.Context, id int64, input *dto.UpdateItemInput) error
	SetActive(ctx context.Context, id int64, active bool) error
	UpdateStock(ctx context.Context, id int64, newStock int) error
	Delete(ctx context.Context, id int64) error

	// Product groups
	CreateGroup(ctx context.Context, name string, parentID *int64) (int64, error)
	ListGroups(ctx context.Context) ([]model.ProductGroup, error)
}
