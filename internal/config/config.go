package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server ServerConfig `yaml:"server" toml:"server"`
	DB     DBConfig     `yaml:"db" toml:"db"`
	Log    LogConfig    `yaml:"log" toml:"log"`
	Auth   AuthConfig   `yaml:"auth" toml:"auth"`
	Ingest IngestConfig `yaml:"ingest" toml:"ingest"`
}

type ServerConfig struct {
	Host string `yaml:"host" toml:"host"`
	Port int    `yaml:"port" toml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path" toml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level" toml:"level"`
	Path  string `yaml:"path" toml:"path"`
}

type AuthConfig struct {
	Enabled bool `yaml:"enabled" toml:"enabled"`
}

// IngestConfig describes the fixed workbook layout read by the importer.
type IngestConfig struct {
	Cells          CellsConfig `yaml:"cells" toml:"cells"`
	FirstRow       int         `yaml:"first_row" toml:"first_row"`
	LastRow        int         `yaml:"last_row" toml:"last_row"`
	FactorColumn   string      `yaml:"factor_column" toml:"factor_column"`
	BaseColumn     string      `yaml:"base_column" toml:"base_column"`
	ExtensionCol   string      `yaml:"extension_column" toml:"extension_column"`
	MaxUploadBytes int64       `yaml:"max_upload_bytes" toml:"max_upload_bytes"`
}

// CellsConfig holds the fixed cell addresses of the project header values.
type CellsConfig struct {
	ProjID                   string `yaml:"proj_id" toml:"proj_id"`
	Name                     string `yaml:"name" toml:"name"`
	Location                 string `yaml:"location" toml:"location"`
	StartDate                string `yaml:"start_date" toml:"start_date"`
	ReportDate               string `yaml:"report_date" toml:"report_date"`
	AccomplishedToDate       string `yaml:"accomplished_to_date" toml:"accomplished_to_date"`
	AccomplishedBeforePeriod string `yaml:"accomplished_before_period" toml:"accomplished_before_period"`
	ApprovedContract         string `yaml:"approved_contract" toml:"approved_contract"`
	ProgressReportLabel      string `yaml:"progress_report_label" toml:"progress_report_label"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "powermason.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Ingest: DefaultIngest(),
	}
}

// DefaultIngest returns the layout of the progress report workbook.
func DefaultIngest() IngestConfig {
	return IngestConfig{
		Cells: CellsConfig{
			ProjID:                   "B1",
			Name:                     "B2",
			Location:                 "B3",
			StartDate:                "B4",
			ReportDate:               "H1",
			AccomplishedToDate:       "H2",
			AccomplishedBeforePeriod: "H3",
			ProgressReportLabel:      "H4",
			ApprovedContract:         "E117",
		},
		FirstRow:       10,
		LastRow:        113,
		FactorColumn:   "F",
		BaseColumn:     "C",
		ExtensionCol:   "E",
		MaxUploadBytes: 20 << 20,
	}
}

// Load reads configuration from an optional YAML or TOML file and environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("POWERMASON_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("POWERMASON_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("POWERMASON_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid POWERMASON_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("POWERMASON_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("POWERMASON_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("POWERMASON_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	if auth := os.Getenv("POWERMASON_AUTH_ENABLED"); auth != "" {
		enabled, err := strconv.ParseBool(auth)
		if err != nil {
			return Config{}, fmt.Errorf("invalid POWERMASON_AUTH_ENABLED: %w", err)
		}
		cfg.Auth.Enabled = enabled
	}

	if err := cfg.Ingest.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks that every configured address and column is well formed.
func (c IngestConfig) Validate() error {
	cells := map[string]string{
		"proj_id":                    c.Cells.ProjID,
		"name":                       c.Cells.Name,
		"location":                   c.Cells.Location,
		"start_date":                 c.Cells.StartDate,
		"report_date":                c.Cells.ReportDate,
		"accomplished_to_date":       c.Cells.AccomplishedToDate,
		"accomplished_before_period": c.Cells.AccomplishedBeforePeriod,
		"approved_contract":          c.Cells.ApprovedContract,
		"progress_report_label":      c.Cells.ProgressReportLabel,
	}
	for field, addr := range cells {
		if _, _, err := excelize.CellNameToCoordinates(addr); err != nil {
			return fmt.Errorf("invalid ingest cell %s %q: %w", field, addr, err)
		}
	}
	for _, col := range []string{c.FactorColumn, c.BaseColumn, c.ExtensionCol} {
		if _, err := excelize.ColumnNameToNumber(col); err != nil {
			return fmt.Errorf("invalid ingest column %q: %w", col, err)
		}
	}
	if c.FirstRow < 1 || c.LastRow < c.FirstRow {
		return fmt.Errorf("invalid ingest row window %d-%d", c.FirstRow, c.LastRow)
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
