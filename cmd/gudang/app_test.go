package main

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/fekuna/gudang-pos/config"
	stockDto "github.com/fekuna/gudang-pos/internal/stock/dto"
	"github.com/fekuna/gudang-pos/pkg/logger"
)

func testApp(t *testing.T) *app {
	t.Helper()
	return &app{
		cfg:      &config.Config{Printer: config.PrinterConfig{RetryDelayMs: 1}},
		logger:   logger.NewNop(),
		settings: config.DefaultSettings(),
	}
}

func settingsFor(csvPath string) *config.Settings {
	s := config.DefaultSettings()
	s.Data.CSVPath = csvPath
	return s
}

type notice struct{ title, message string }

type recorder struct {
	mu      sync.Mutex
	notices []notice
}

func (r *recorder) Notify(title, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, notice{title, message})
}

func TestParseMovementLines(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []stockDto.MovementLine
		wantErr string
	}{
		{
			name: "several lines",
			args: []string{"3:2", "7:1"},
			want: []stockDto.MovementLine{{ItemID: 3, Quantity: 2}, {ItemID: 7, Quantity: 1}},
		},
		{
			name: "negative quantity is left to the use case",
			args: []string{"4:-5"},
			want: []stockDto.MovementLine{{ItemID: 4, Quantity: -5}},
		},
		{name: "missing separator", args: []string{"3"}, wantErr: "expected <item-id>:<qty>"},
		{name: "bad id", args: []string{"x:2"}, wantErr: "invalid item id"},
		{name: "zero id", args: []string{"0:2"}, wantErr: "invalid item id"},
		{name: "bad quantity", args: []string{"3:two"}, wantErr: "invalid quantity"},
		{name: "empty quantity", args: []string{"3:"}, wantErr: "invalid quantity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseMovementLines(tt.args)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("err = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseMovementLines: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("lines = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestComponentsBadCSVNotifies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "barang.csv")
	content := "Item,Stock\nBolt,ten\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	a := testApp(t)
	rec := &recorder{}

	c := a.components(context.Background(), settingsFor(path), rec, nil)

	if len(c.Inventory.Rows()) != 0 {
		t.Errorf("rows = %+v, want empty", c.Inventory.Rows())
	}
	if len(rec.notices) != 1 || rec.notices[0].title != "Inventory Error" {
		t.Fatalf("notices = %+v", rec.notices)
	}
	if !strings.Contains(rec.notices[0].message, path) {
		t.Errorf("message %q does not name the file", rec.notices[0].message)
	}
	if b, _ := os.ReadFile(path); string(b) != content {
		t.Errorf("file was modified: %q", b)
	}
	if c.Printer == nil || c.DefaultUnit != config.DefaultUnit {
		t.Errorf("components = %+v", c)
	}
}

func TestComponentsKeepStoreAcrossReload(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "barang.csv")
	if err := os.WriteFile(path, []byte("Item,Stock,Unit\nBolt,10,pcs\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	a := testApp(t)

	first := a.components(ctx, settingsFor(path), nil, nil)
	if err := first.Inventory.UpdateStock("Bolt", 3); err != nil {
		t.Fatal(err)
	}

	same := a.components(ctx, settingsFor(path), nil, first.Inventory)
	if same.Inventory != first.Inventory {
		t.Fatal("store was rebuilt although the CSV path did not change")
	}
	if row, ok := same.Inventory.GetByName("Bolt"); !ok || row.Stock != 3 {
		t.Errorf("unsaved stock lost: %+v", row)
	}

	other := filepath.Join(dir, "other.csv")
	moved := a.components(ctx, settingsFor(other), nil, first.Inventory)
	if moved.Inventory == first.Inventory {
		t.Fatal("store kept although the CSV path changed")
	}
	if moved.Inventory.Path() != other {
		t.Errorf("path = %s, want %s", moved.Inventory.Path(), other)
	}
}

func TestSettingsSwapIsSynchronized(t *testing.T) {
	a := testApp(t)
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			a.setSettings(config.DefaultSettings())
		}()
		go func() {
			defer wg.Done()
			_ = a.currentSettings().Title()
		}()
	}
	wg.Wait()
	if a.currentSettings() == nil {
		t.Error("settings lost")
	}
}
