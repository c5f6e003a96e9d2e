package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/natefinch/atomic"
)

const (
	DefaultAppName         = "Barang Gudang"
	DefaultPrinterPort     = "COM6"
	DefaultPrinterBaudrate = 9600
	DefaultPrinterTimeout  = 1
	DefaultCSVPath         = "data/barang.csv"
	DefaultDBPath          = "db/app.db"
	DefaultUnit            = "pcs"

	// fallbackTitle is what the settings editor stores for a blank app name.
	fallbackTitle = "Inventory App"
)

var (
	ErrCorruptSettings = errors.New("settings file is malformed")
	ErrInvalidSettings = errors.New("invalid settings")
	ErrUnknownSetting  = errors.New("unknown setting")
)

// Settings is an immutable snapshot of the JSON settings document. Callers
// that want changes build a new snapshot with Clone and Set, then Save it.
type Settings struct {
	AppName     string          `json:"app_name"`
	CompanyName string          `json:"company_name"`
	Printer     PrinterSettings `json:"printer"`
	Data        DataSettings    `json:"data"`
}

type PrinterSettings struct {
	Port     string `json:"port"`
	Baudrate int    `json:"baudrate"`
	Timeout  int    `json:"timeout"`
}

type DataSettings struct {
	CSVPath     string `json:"csv_path"`
	DBPath      string `json:"db_path"`
	DefaultUnit string `json:"default_unit"`
}

func DefaultSettings() *Settings {
	return &Settings{
		AppName:     DefaultAppName,
		CompanyName: "",
		Printer: PrinterSettings{
			Port:     DefaultPrinterPort,
			Baudrate: DefaultPrinterBaudrate,
			Timeout:  DefaultPrinterTimeout,
		},
		Data: DataSettings{
			CSVPath:     DefaultCSVPath,
			DBPath:      DefaultDBPath,
			DefaultUnit: DefaultUnit,
		},
	}
}

// LoadSettings reads the settings document at path.
//
// A missing file is created with defaults. A malformed file yields the
// defaults together with an error wrapping ErrCorruptSettings; the file on
// disk is left as it is so the operator can repair it.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		s := DefaultSettings()
		if errors.Is(err, fs.ErrNotExist) {
			if err := s.Save(path); err != nil {
				return s, fmt.Errorf("write default settings: %w", err)
			}
			return s, nil
		}
		return s, fmt.Errorf("read settings %s: %w", path, err)
	}

	// Keys absent from the document keep their default value.
	s := DefaultSettings()
	if err := json.Unmarshal(data, s); err != nil {
		return DefaultSettings(), fmt.Errorf("%w: %s: %v", ErrCorruptSettings, path, err)
	}
	return s, nil
}

// Reload returns a fresh snapshot from disk; the receiver is not modified.
func (s *Settings) Reload(path string) (*Settings, error) {
	return LoadSettings(path)
}

func (s *Settings) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return atomic.WriteFile(path, bytes.NewReader(data))
}

func (s *Settings) Clone() *Settings {
	c := *s
	return &c
}

// Normalize applies the editor rules: blank values fall back to defaults.
func (s *Settings) Normalize() {
	s.AppName = strings.TrimSpace(s.AppName)
	if s.AppName == "" {
		s.AppName = fallbackTitle
	}
	s.CompanyName = strings.TrimSpace(s.CompanyName)
	s.Printer.Port = orDefault(s.Printer.Port, DefaultPrinterPort)
	s.Data.CSVPath = orDefault(s.Data.CSVPath, DefaultCSVPath)
	s.Data.DBPath = orDefault(s.Data.DBPath, DefaultDBPath)
	s.Data.DefaultUnit = orDefault(s.Data.DefaultUnit, DefaultUnit)
}

func (s *Settings) Validate() error {
	if s.Printer.Baudrate <= 0 {
		return fmt.Errorf("%w: baudrate must be positive, got %d", ErrInvalidSettings, s.Printer.Baudrate)
	}
	if s.Printer.Timeout < 0 {
		return fmt.Errorf("%w: timeout must not be negative, got %d", ErrInvalidSettings, s.Printer.Timeout)
	}
	return nil
}

// Set assigns a dotted key such as "printer.port" on a copy of the settings.
func (s *Settings) Set(key, value string) (*Settings, error) {
	c := s.Clone()
	switch key {
	case "app_name":
		c.AppName = value
	case "company_name":
		c.CompanyName = value
	case "printer.port":
		c.Printer.Port = value
	case "printer.baudrate", "printer.timeout":
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be an integer", ErrInvalidSettings, key)
		}
		if key == "printer.baudrate" {
			c.Printer.Baudrate = n
		} else {
			c.Printer.Timeout = n
		}
	case "data.csv_path":
		c.Data.CSVPath = value
	case "data.db_path":
		c.Data.DBPath = value
	case "data.default_unit":
		c.Data.DefaultUnit = value
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownSetting, key)
	}
	c.Normalize()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Title is the window/receipt title: app name, then company when present.
func (s *Settings) Title() string {
	title := s.AppName
	if title == "" {
		title = fallbackTitle
	}
	if s.CompanyName != "" {
		title = title + " - " + s.CompanyName
	}
	return title
}

func (s *Settings) PrinterTimeout() time.Duration {
	return time.Duration(s.Printer.Timeout) * time.Second
}

func (s *Settings) Unit() string {
	return orDefault(s.Data.DefaultUnit, DefaultUnit)
}

func orDefault(v, def string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return def
	}
	return v
}
