package migration

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const defaultUnit = "pcs"

var (
	ErrSourceNotFound = errors.New("source csv not found")
	ErrMissingColumn  = errors.New("csv missing required column 'Item'")
)

// Row is a normalized source row ready for insertion.
type Row struct {
	Name         string
	Unit         string
	CurrentStock int
}

// ReadSource reads the inventory CSV and normalizes every row. Stock values
// that do not parse as numbers become 0 and blank units become pcs.
func ReadSource(path string) ([]Row, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	head, err := r.Read()
	if err == io.EOF {
		return nil, ErrMissingColumn
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	itemIdx, stockIdx, unitIdx := -1, -1, -1
	for i, h := range head {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		switch h {
		case "item":
			itemIdx = i
		case "stock":
			stockIdx = i
		case "unit":
			unitIdx = i
		}
	}
	if itemIdx < 0 {
		return nil, ErrMissingColumn
	}

	var rows []Row
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(rows)+2, err)
		}
		row := Row{
			Name:         strings.TrimSpace(cell(rec, itemIdx)),
			Unit:         strings.TrimSpace(cell(rec, unitIdx)),
			CurrentStock: parseStock(cell(rec, stockIdx)),
		}
		if row.Unit == "" {
			row.Unit = defaultUnit
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func cell(rec []string, idx int) string {
	if idx < 0 || idx >= len(rec) {
		return ""
	}
	return rec[idx]
}

func parseStock(s string) int {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(f)
}

// Transform drops rows without a name and keeps the first row per name.
func Transform(rows []Row) ([]Row, []Duplicate) {
	seen := make(map[string]struct{}, len(rows))
	kept := make([]Row, 0, len(rows))
	dups := []Duplicate{}
	for _, row := range rows {
		if row.Name == "" {
			continue
		}
		if _, ok := seen[row.Name]; ok {
			dups = append(dups, Duplicate{Name: row.Name})
			continue
		}
		seen[row.Name] = struct{}{}
		kept = append(kept, row)
	}
	return kept, dups
}

// BackupPath is <stem>.backup.csv next to the source.
func BackupPath(src string) string {
	stem := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	return filepath.Join(filepath.Dir(src), stem+".backup.csv")
}

// Backup copies src to its backup path, keeping the modification time.
func Backup(src string) (string, error) {
	dst := BackupPath(src)

	in, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return "", err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return "", err
	}
	if err := out.Close(); err != nil {
		return "", err
	}
	if err := os.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return "", err
	}
	return dst, nil
}
