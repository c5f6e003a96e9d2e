package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fekuna/gudang-pos/config"
	"github.com/fekuna/gudang-pos/internal/database/sqlite"
	"github.com/fekuna/gudang-pos/internal/inventory"
	invRepoPkg "github.com/fekuna/gudang-pos/internal/inventory/repository"
	"github.com/fekuna/gudang-pos/internal/metrics"
	"github.com/fekuna/gudang-pos/internal/pos"
	"github.com/fekuna/gudang-pos/internal/printer"
	"github.com/fekuna/gudang-pos/pkg/logger"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// app carries what every subcommand shares.
type app struct {
	cfg          *config.Config
	settingsPath string
	logger       logger.ZapLogger
	metrics      *metrics.Metrics

	mu       sync.RWMutex
	settings *config.Settings
}

func newApp(settingsPath string) (*app, error) {
	cfg := config.LoadEnv()
	if settingsPath == "" {
		settingsPath = cfg.Paths.Settings
	}

	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
		FilePath:          cfg.Logger.FilePath,
		MaxSizeMB:         cfg.Logger.MaxSizeMB,
		MaxBackups:        cfg.Logger.MaxBackups,
	}
	if cfg.Server.AppEnv == "development" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = "console"
		logConfig.Level = "debug"
	}
	appLogger := logger.NewZapLogger(logConfig)

	settings, err := config.LoadSettings(settingsPath)
	if err != nil {
		if !errors.Is(err, config.ErrCorruptSettings) {
			return nil, err
		}
		appLogger.Warn("settings file is malformed, using defaults", zap.String("path", settingsPath), zap.Error(err))
	}

	return &app{
		cfg:          cfg,
		settingsPath: settingsPath,
		settings:     settings,
		logger:       appLogger,
	}, nil
}

func (a *app) currentSettings() *config.Settings {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.settings
}

func (a *app) setSettings(s *config.Settings) {
	a.mu.Lock()
	a.settings = s
	a.mu.Unlock()
}

func (a *app) retryDelay() time.Duration {
	return time.Duration(a.cfg.Printer.RetryDelayMs) * time.Millisecond
}

// components builds the session collaborators for a settings snapshot.
// When prev already serves the configured CSV path it is kept as is, so stock
// deducted in memory but not yet saved survives a reload.
func (a *app) components(ctx context.Context, s *config.Settings, notify printer.Notifier, prev inventory.Repository) pos.Components {
	var store inventory.Repository
	if prev != nil && prev.Path() == s.Data.CSVPath {
		store = prev
	} else {
		store = a.loadInventory(ctx, s, notify)
	}

	return pos.Components{
		Inventory:   store,
		Printer:     a.printerFor(s, notify),
		DefaultUnit: s.Unit(),
	}
}

// loadInventory opens the CSV store. An unreadable inventory file leaves the
// store empty and is reported, not fatal.
func (a *app) loadInventory(ctx context.Context, s *config.Settings, notify printer.Notifier) inventory.Repository {
	store := invRepoPkg.NewCSVRepository(s.Data.CSVPath, s.Unit(), a.logger)
	if err := store.Load(ctx); err != nil {
		if notify != nil {
			notify.Notify("Inventory Error", fmt.Sprintf("Failed to read inventory at %s. Initializing empty list.\n%v", s.Data.CSVPath, err))
		}
		if !errors.Is(err, inventory.ErrInvalidSchema) {
			a.logger.Error("inventory load failed", zap.Error(err))
		}
	}
	return store
}

func (a *app) printerFor(s *config.Settings, notify printer.Notifier) *printer.ReceiptPrinter {
	dialer := printer.NewSerialDialer(printer.SerialConfig{
		Port:     s.Printer.Port,
		BaudRate: s.Printer.Baudrate,
		Timeout:  s.PrinterTimeout(),
	})
	return printer.NewReceiptPrinter(dialer, printer.Config{
		AppName:    s.AppName,
		RetryDelay: a.retryDelay(),
	}, a.logger).WithNotifier(notify).WithMetrics(a.metrics)
}

func (a *app) openDB(path string) (*sqlx.DB, error) {
	if path == "" {
		path = a.currentSettings().Data.DBPath
	}
	db, err := sqlite.NewSQLite(&sqlite.Config{Path: path})
	if err != nil {
		return nil, fmt.Errorf("could not open database %s: %w", path, err)
	}
	return db, nil
}
