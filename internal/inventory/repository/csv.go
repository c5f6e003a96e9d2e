package repository

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/fekuna/gudang-pos/internal/inventory"
	"github.com/fekuna/gudang-pos/internal/model"
	"github.com/fekuna/gudang-pos/pkg/logger"
	"github.com/natefinch/atomic"
	"go.uber.org/zap"
)

const (
	colItem  = "Item"
	colStock = "Stock"
	colUnit  = "Unit"
)

var header = []string{colItem, colStock, colUnit}

type CSVRepository struct {
	path        string
	defaultUnit string
	logger      logger.ZapLogger

	mu   sync.RWMutex
	rows []model.StockRow
}

func NewCSVRepository(path, defaultUnit string, log logger.ZapLogger) *CSVRepository {
	if strings.TrimSpace(defaultUnit) == "" {
		defaultUnit = "pcs"
	}
	return &CSVRepository{
		path:        path,
		defaultUnit: defaultUnit,
		logger:      log,
	}
}

func (r *CSVRepository) Path() string { return r.path }

func (r *CSVRepository) Load(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.Open(r.path)
	if errors.Is(err, os.ErrNotExist) {
		r.logger.Warn("inventory file not found, creating a new one", zap.String("path", r.path))
		r.mu.Lock()
		r.rows = nil
		r.mu.Unlock()
		return r.Save(ctx)
	}
	if err != nil {
		r.reset()
		return fmt.Errorf("failed to open inventory %s: %w", r.path, err)
	}
	defer f.Close()

	rows, err := r.parse(f)
	if err != nil {
		r.reset()
		r.logger.Error("failed reading inventory", zap.String("path", r.path), zap.Error(err))
		return err
	}

	r.mu.Lock()
	r.rows = rows
	r.mu.Unlock()

	r.logger.Info("loaded inventory", zap.String("path", r.path), zap.Int("rows", len(rows)))
	return nil
}

func (r *CSVRepository) reset() {
	r.mu.Lock()
	r.rows = nil
	r.mu.Unlock()
}

func (r *CSVRepository) parse(src io.Reader) ([]model.StockRow, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	head, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty file", inventory.ErrInvalidSchema)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", inventory.ErrInvalidSchema, err)
	}

	itemIdx, stockIdx, unitIdx := -1, -1, -1
	for i, name := range head {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		switch {
		case strings.EqualFold(name, colItem):
			itemIdx = i
		case strings.EqualFold(name, colStock):
			stockIdx = i
		case strings.EqualFold(name, colUnit):
			unitIdx = i
		}
	}
	if itemIdx < 0 || stockIdx < 0 {
		return nil, fmt.Errorf("%w: missing required columns %s and %s", inventory.ErrInvalidSchema, colItem, colStock)
	}

	var rows []model.StockRow
	for line := 2; ; line++ {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", inventory.ErrInvalidSchema, err)
		}

		row := model.StockRow{
			Name: strings.TrimSpace(field(rec, itemIdx)),
			Unit: strings.TrimSpace(field(rec, unitIdx)),
		}
		if s := strings.TrimSpace(field(rec, stockIdx)); s != "" {
			stock, ok := parseStock(s)
			if !ok {
				return nil, fmt.Errorf("%w: line %d: stock %q is not an integer", inventory.ErrInvalidSchema, line, s)
			}
			if stock < 0 {
				return nil, fmt.Errorf("%w: line %d: negative stock %d", inventory.ErrInvalidSchema, line, stock)
			}
			row.Stock = stock
		}
		if row.Unit == "" {
			row.Unit = r.defaultUnit
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// parseStock accepts whole numbers written either as integers or as floats
// with no fractional part ("10.0").
func parseStock(s string) (int, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

func field(rec []string, idx int) string {
	if idx < 0 || idx >= len(rec) {
		return ""
	}
	return rec[idx]
}

func (r *CSVRepository) Save(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.RLock()
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(header)
	for _, row := range r.rows {
		_ = w.Write([]string{row.Name, strconv.Itoa(row.Stock), row.Unit})
	}
	w.Flush()
	n := len(r.rows)
	r.mu.RUnlock()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to encode inventory: %w", err)
	}

	if dir := filepath.Dir(r.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create inventory directory: %w", err)
		}
	}
	if err := atomic.WriteFile(r.path, &buf); err != nil {
		r.logger.Error("failed saving inventory", zap.String("path", r.path), zap.Error(err))
		return fmt.Errorf("failed to save inventory to %s: %w", r.path, err)
	}

	r.logger.Info("saved inventory", zap.String("path", r.path), zap.Int("rows", n))
	return nil
}

func (r *CSVRepository) Search(keyword string) []string {
	kw := strings.ToLower(strings.TrimSpace(keyword))
	if kw == "" {
		return []string{}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	names := []string{}
	for _, row := range r.rows {
		if strings.Contains(strings.ToLower(row.Name), kw) {
			names = append(names, row.Name)
		}
	}
	return names
}

func (r *CSVRepository) GetFirstMatch(keyword string) (*model.StockRow, bool) {
	kw := strings.ToLower(strings.TrimSpace(keyword))
	if kw == "" {
		return nil, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, row := range r.rows {
		if strings.Contains(strings.ToLower(row.Name), kw) {
			found := row
			return &found, true
		}
	}
	return nil, false
}

func (r *CSVRepository) GetByName(name string) (*model.StockRow, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, row := range r.rows {
		if row.Name == name {
			found := row
			return &found, true
		}
	}
	return nil, false
}

func (r *CSVRepository) UpdateStock(name string, newStock int) error {
	if newStock < 0 {
		return fmt.Errorf("%w: %s -> %d", inventory.ErrNegativeStock, name, newStock)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.rows {
		if r.rows[i].Name == name {
			r.rows[i].Stock = newStock
		}
	}
	return nil
}

func (r *CSVRepository) Rows() []model.StockRow {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.StockRow, len(r.rows))
	copy(out, r.rows)
	return out
}
