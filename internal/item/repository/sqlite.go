package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/gudang-pos/internal/database/sqlite"
	"github.com/fekuna/gudang-pos/internal/item"
	"github.com/fekuna/gudang-pos/internal/item/dto"
	"github.com/fekuna/gudang-pos/internal/model"
	"github.com/jmoiron/sqlx"
)

const itemColumns = `id, code, name, group_id, unit, barcode, current_stock, active, created_at, updated_at`

type SQLiteRepository struct {
	DB *sqlx.DB
}

func NewSQLiteRepository(db *sqlx.DB) *SQLiteRepository {
	return &SQLiteRepository{DB: db}
}

type itemRow struct {
	Code         *string `db:"code"`
	Name         string  `db:"name"`
	GroupID      *int64  `db:"group_id"`
	Unit         string  `db:"unit"`
	Barcode      *string `db:"barcode"`
	CurrentStock int     `db:"current_stock"`
	Active       bool    `db:"active"`
}

func newItemRow(in *dto.CreateItemInput) itemRow {
	row := itemRow{
		Code:         in.Code,
		Name:         in.Name,
		GroupID:      in.GroupID,
		Unit:         strings.TrimSpace(in.Unit),
		Barcode:      in.Barcode,
		CurrentStock: in.CurrentStock,
		Active:       true,
	}
	if row.Unit == "" {
		row.Unit = "pcs"
	}
	if in.Active != nil {
		row.Active = *in.Active
	}
	return row
}

const insertItemQuery = `
	INSERT INTO items (code, name, group_id, unit, barcode, current_stock, active)
	VALUES (:code, :name, :group_id, :unit, :barcode, :current_stock, :active)
`

func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*model.Item, error) {
	return r.getOne(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ?`, id)
}

func (r *SQLiteRepository) GetByName(ctx context.Context, name string) (*model.Item, error) {
	return r.getOne(ctx, `SELECT `+itemColumns+` FROM items WHERE name = ? ORDER BY id LIMIT 1`, name)
}

func (r *SQLiteRepository) getOne(ctx context.Context, query string, arg interface{}) (*model.Item, error) {
	var it model.Item
	err := r.DB.GetContext(ctx, &it, query, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &it, nil
}

func (r *SQLiteRepository) Search(ctx context.Context, f *dto.ItemFilters) ([]model.Item, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = dto.DefaultSearchLimit
	}
	pattern := "*" + escapeGlob(f.Keyword) + "*"

	// GLOB is the case-sensitive counterpart of LIKE in SQLite.
	query := `
        SELECT ` + itemColumns + `
        FROM items
        WHERE name GLOB ? OR code GLOB ? OR barcode GLOB ?
        ORDER BY name ASC
        LIMIT ?
    `
	items := []model.Item{}
	err := r.DB.SelectContext(ctx, &items, query, pattern, pattern, pattern, limit)
	return items, err
}

// escapeGlob makes glob metacharacters in s match literally.
func escapeGlob(s string) string {
	var b strings.Builder
	for _, c := range s {
		switch c {
		case '*', '?', '[':
			b.WriteByte('[')
			b.WriteRune(c)
			b.WriteByte(']')
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}

func (r *SQLiteRepository) Insert(ctx context.Context, in *dto.CreateItemInput) (int64, error) {
	res, err := r.DB.NamedExecContext(ctx, insertItemQuery, newItemRow(in))
	if err != nil {
		return 0, mapError(err)
	}
	return res.LastInsertId()
}

func (r *SQLiteRepository) InsertBatch(ctx context.Context, inputs []dto.CreateItemInput) (*dto.BatchResult, error) {
	result := &dto.BatchResult{}
	err := sqlite.WithTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		for i := range inputs {
			// A savepoint per row keeps one bad row from poisoning the batch.
			if _, err := tx.ExecContext(ctx, `SAVEPOINT batch_row`); err != nil {
				return err
			}
			_, err := tx.NamedExecContext(ctx, insertItemQuery, newItemRow(&inputs[i]))
			if err != nil {
				if _, rbErr := tx.ExecContext(ctx, `ROLLBACK TO batch_row`); rbErr != nil {
					return rbErr
				}
				result.Conflicts = append(result.Conflicts, dto.RowConflict{
					Index: i,
					Name:  inputs[i].Name,
					Err:   mapError(err),
				})
			} else {
				result.Inserted++
			}
			if _, err := tx.ExecContext(ctx, `RELEASE batch_row`); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("insert batch: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, id int64, in *dto.UpdateItemInput) error {
	fields := []string{}
	args := []interface{}{}

	if in.Code != nil {
		fields = append(fields, "code = ?")
		args = append(args, *in.Code)
	}
	if in.Name != nil {
		fields = append(fields, "name = ?")
		args = append(args, *in.Name)
	}
	if in.GroupID != nil {
		fields = append(fields, "group_id = ?")
		args = append(args, *in.GroupID)
	}
	if in.Unit != nil {
		fields = append(fields, "unit = ?")
		args = append(args, *in.Unit)
	}
	if in.Barcode != nil {
		fields = append(fields, "barcode = ?")
		args = append(args, *in.Barcode)
	}
	if in.CurrentStock != nil {
		fields = append(fields, "current_stock = ?")
		args = append(args, *in.CurrentStock)
	}
	if in.Active != nil {
		fields = append(fields, "active = ?")
		args = append(args, *in.Active)
	}
	if len(fields) == 0 {
		return nil
	}

	query := "UPDATE items SET " + strings.Join(fields, ", ") + ", updated_at = datetime('now') WHERE id = ?"
	args = append(args, id)
	_, err := r.DB.ExecContext(ctx, query, args...)
	return mapError(err)
}

func (r *SQLiteRepository) SetActive(ctx context.Context, id int64, active bool) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE items SET active = ?, updated_at = datetime('now') WHERE id = ?`, active, id)
	return err
}

func (r *SQLiteRepository) UpdateStock(ctx context.Context, id int64, newStock int) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE items SET current_stock = ?, updated_at = datetime('now') WHERE id = ?`, newStock, id)
	return err
}

func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM items WHERE id = ?", id)
	return err
}

func (r *SQLiteRepository) CreateGroup(ctx context.Context, name string, parentID *int64) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `INSERT INTO product_groups (name, parent_id) VALUES (?, ?)`, name, parentID)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *SQLiteRepository) ListGroups(ctx context.Context) ([]model.ProductGroup, error) {
	groups := []model.ProductGroup{}
	err := r.DB.SelectContext(ctx, &groups, `SELECT id, name, parent_id, created_at FROM product_groups ORDER BY name ASC`)
	return groups, err
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if sqlite.IsUniqueViolation(err) {
		return fmt.Errorf("%w: %v", item.ErrDuplicate, err)
	}
	return err
}
