package config

import (
	"os"
	"strconv"
)

type Config struct {
	Server    ServerConfig
	Logger    LoggerConfig
	Paths     PathsConfig
	Printer   PrinterConfig
	Migration MigrationConfig
}

type ServerConfig struct {
	AppEnv      string
	GRPCPort    string
	MetricsPort string
}

type LoggerConfig struct {
	Level             string
	Encoding          string
	DisableCaller     bool
	DisableStacktrace bool
	FilePath          string
	MaxSizeMB         int
	MaxBackups        int
}

type PathsConfig struct {
	// Settings is the JSON settings document (app name, printer, data paths).
	Settings string
}

type PrinterConfig struct {
	RetryDelayMs int
}

type MigrationConfig struct {
	ReportPath string
	BatchSize  int
}

// LoadEnv reads process configuration from the environment. Business
// settings live in the JSON document pointed to by Paths.Settings.
func LoadEnv() *Config {
	return &Config{
		Server: ServerConfig{
			AppEnv:      getEnv("APP_ENV", "production"),
			GRPCPort:    getEnv("GRPC_PORT", ":8090"),
			MetricsPort: getEnv("METRICS_PORT", ":9090"),
		},
		Logger: LoggerConfig{
			Level:             getEnv("LOGGER_LEVEL", "info"),
			Encoding:          getEnv("LOGGER_ENCODING", "console"),
			DisableCaller:     getEnvBool("LOGGER_DISABLE_CALLER", false),
			DisableStacktrace: getEnvBool("LOGGER_DISABLE_STACKTRACE", true),
			FilePath:          getEnv("LOGGER_FILE", "logs/app.log"),
			MaxSizeMB:         getEnvInt("LOGGER_MAX_SIZE_MB", 1),
			MaxBackups:        getEnvInt("LOGGER_MAX_BACKUPS", 3),
		},
		Paths: PathsConfig{
			Settings: getEnv("GUDANG_CONFIG", "config/config.json"),
		},
		Printer: PrinterConfig{
			RetryDelayMs: getEnvInt("PRINTER_RETRY_DELAY_MS", 1000),
		},
		Migration: MigrationConfig{
			ReportPath: getEnv("MIGRATION_REPORT", "logs/migration_report.json"),
			BatchSize:  getEnvInt("MIGRATION_BATCH_SIZE", 200),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}
