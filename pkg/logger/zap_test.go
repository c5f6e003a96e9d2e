package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNewZapLoggerWritesFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	log := NewZapLogger(&ZapLoggerConfig{
		Encoding:          "console",
		Level:             "debug",
		DisableStacktrace: true,
		FilePath:          path,
	})
	log.With(zap.String("component", "test")).Info("inventory loaded", zap.Int("rows", 3))
	_ = log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	out := string(data)
	for _, want := range []string{"inventory loaded", `"rows":3`, `"component":"test"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log file missing %q:\n%s", want, out)
		}
	}
}

func TestNewZapLoggerRespectsLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	log := NewZapLogger(&ZapLoggerConfig{Level: "warn", FilePath: path})
	log.Info("hidden")
	log.Warn("shown")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Contains(string(data), "hidden") {
		t.Errorf("info entry written at warn level")
	}
	if !strings.Contains(string(data), "shown") {
		t.Errorf("warn entry missing")
	}
}
