package migration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fekuna/gudang-pos/internal/database/sqlite"
	"github.com/fekuna/gudang-pos/internal/item"
	"github.com/fekuna/gudang-pos/internal/item/dto"
	"github.com/fekuna/gudang-pos/internal/metrics"
	"github.com/fekuna/gudang-pos/pkg/logger"
	"github.com/jmoiron/sqlx"
	"github.com/natefinch/atomic"
	"go.uber.org/zap"
)

const (
	DefaultBatchSize = 200
	spotCheckCount   = 5
)

type Options struct {
	CSVPath    string
	DBPath     string
	DryRun     bool
	BatchSize  int
	ReportPath string
}

type Duplicate struct {
	Name string `json:"name"`
}

type Conflict struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

type LoadSummary struct {
	Inserted  int        `json:"inserted"`
	Skipped   int        `json:"skipped"`
	Conflicts []Conflict `json:"conflicts"`
}

type SpotCheck struct {
	Name         string `json:"name"`
	Unit         string `json:"unit"`
	CurrentStock int    `json:"current_stock"`
}

type Report struct {
	CSV                 string      `json:"csv"`
	DB                  string      `json:"db"`
	DryRun              bool        `json:"dry_run"`
	TotalSourceRows     int         `json:"total_source_rows"`
	TotalAfterTransform int         `json:"total_after_transform"`
	DuplicatesByName    []Duplicate `json:"duplicates_by_name"`
	Load                LoadSummary `json:"load"`
	SpotChecks          []SpotCheck `json:"spot_checks"`
}

// Migrator copies the CSV inventory into the relational items table.
type Migrator struct {
	db      *sqlx.DB
	items   item.Repository
	logger  logger.ZapLogger
	metrics *metrics.Metrics
}

func NewMigrator(db *sqlx.DB, items item.Repository, log logger.ZapLogger, m *metrics.Metrics) *Migrator {
	return &Migrator{
		db:      db,
		items:   items,
		logger:  log,
		metrics: m,
	}
}

// Run executes backup, normalization, loading and verification, then writes
// the report. A dry run makes no backup and inserts nothing.
func (m *Migrator) Run(ctx context.Context, opts Options) (*Report, error) {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	log := m.logger.With(zap.String("csv", opts.CSVPath), zap.Bool("dry_run", opts.DryRun))

	if _, err := os.Stat(opts.CSVPath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, opts.CSVPath)
	}

	if !opts.DryRun {
		backup, err := Backup(opts.CSVPath)
		if err != nil {
			return nil, fmt.Errorf("backup failed: %w", err)
		}
		log.Info("csv backed up", zap.String("backup", backup))
	}

	src, err := ReadSource(opts.CSVPath)
	if err != nil {
		return nil, fmt.Errorf("read/transform failed: %w", err)
	}
	rows, dups := Transform(src)

	if err := sqlite.Initialize(ctx, m.db); err != nil {
		return nil, err
	}

	report := &Report{
		CSV:                 opts.CSVPath,
		DB:                  opts.DBPath,
		DryRun:              opts.DryRun,
		TotalSourceRows:     len(src),
		TotalAfterTransform: len(rows),
		DuplicatesByName:    dups,
		Load:                LoadSummary{Conflicts: []Conflict{}},
		SpotChecks:          []SpotCheck{},
	}

	if !opts.DryRun {
		load, err := m.load(ctx, rows, opts.BatchSize)
		if err != nil {
			return nil, err
		}
		report.Load = *load
		m.metrics.ObserveMigration(load.Inserted, load.Skipped)

		names := make([]string, 0, spotCheckCount)
		for i := 0; i < len(rows) && i < spotCheckCount; i++ {
			names = append(names, rows[i].Name)
		}
		if report.SpotChecks, err = m.spotCheck(ctx, names); err != nil {
			return nil, err
		}
	}

	if opts.ReportPath != "" {
		if err := WriteReport(opts.ReportPath, report); err != nil {
			return nil, err
		}
	}

	log.Info("migration finished",
		zap.Int("source_rows", report.TotalSourceRows),
		zap.Int("inserted", report.Load.Inserted),
		zap.Int("skipped", report.Load.Skipped),
		zap.Int("duplicates", len(dups)),
	)
	return report, nil
}

// load inserts rows batch by batch. Names already present in the database
// are skipped so the migration can be re-run.
func (m *Migrator) load(ctx context.Context, rows []Row, batchSize int) (*LoadSummary, error) {
	sum := &LoadSummary{Conflicts: []Conflict{}}

	for start := 0; start < len(rows); start += batchSize {
		end := start + batchSize
		if end > len(rows) {
			end = len(rows)
		}

		inputs := make([]dto.CreateItemInput, 0, end-start)
		for _, row := range rows[start:end] {
			existing, err := m.items.GetByName(ctx, row.Name)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				sum.Skipped++
				sum.Conflicts = append(sum.Conflicts, Conflict{Name: row.Name, Error: "item already exists"})
				continue
			}
			inputs = append(inputs, dto.CreateItemInput{
				Name:         row.Name,
				Unit:         row.Unit,
				CurrentStock: row.CurrentStock,
			})
		}
		if len(inputs) == 0 {
			continue
		}

		res, err := m.items.InsertBatch(ctx, inputs)
		if err != nil {
			return nil, fmt.Errorf("batch starting at row %d: %w", start, err)
		}
		sum.Inserted += res.Inserted
		for _, c := range res.Conflicts {
			sum.Skipped++
			sum.Conflicts = append(sum.Conflicts, Conflict{Name: c.Name, Error: c.Err.Error()})
		}
		m.logger.Debug("batch loaded", zap.Int("start", start), zap.Int("inserted", res.Inserted))
	}
	return sum, nil
}

func (m *Migrator) spotCheck(ctx context.Context, names []string) ([]SpotCheck, error) {
	checks := []SpotCheck{}
	for _, name := range names {
		it, err := m.items.GetByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if it != nil {
			checks = append(checks, SpotCheck{Name: it.Name, Unit: it.Unit, CurrentStock: it.CurrentStock})
		}
	}
	return checks, nil
}

func WriteReport(path string, report *Report) error {
	b, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(b)); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
