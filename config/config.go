// Package config loads the ledgerdash settings: a TOML file, a .env file and
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/etnz/ledgerdash"
	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// DefaultFile is the settings file looked up in the working directory when
// no path is given.
const DefaultFile = "ledgerdash.toml"

// Config holds all configuration for ledgerdash.
type Config struct {
	LedgerFile     string        `toml:"ledger_file"`
	Currency       string        `toml:"currency"`        // ISO 4217 code
	CurrencySymbol string        `toml:"currency_symbol"` // overrides the code's symbol
	Classification string        `toml:"classification"`  // "exact" or "substring"
	LiabilitySign  string        `toml:"liability_sign"`  // "as-recorded" or "negated"
	Server         ServerConfig  `toml:"server"`
	Logging        LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns the host:port the server listens on.
func (s ServerConfig) Addr() string { return fmt.Sprintf("%s:%d", s.Host, s.Port) }

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `toml:"level"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		LedgerFile:     "main.ledger",
		Currency:       "CNY",
		Classification: ledgerdash.Exact.String(),
		LiabilitySign:  ledgerdash.AsRecorded.String(),
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 9999,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the .env file of the working directory, then the settings file
// at path, then applies the environment overrides.
//
// An empty path means $LEDGERDASH_CONFIG, then DefaultFile. A missing
// settings file is only an error when path was given explicitly.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	explicit := path != ""
	if !explicit {
		path = os.Getenv("LEDGERDASH_CONFIG")
		explicit = path != ""
	}
	if path == "" {
		path = DefaultFile
	}

	cfg := NewDefaultConfig()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	case err != nil:
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	cfg.LedgerFile = expandHome(cfg.LedgerFile)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("LEDGERDASH_LEDGER_FILE"); v != "" {
		cfg.LedgerFile = v
	}
	if v := os.Getenv("LEDGERDASH_CURRENCY"); v != "" {
		cfg.Currency = v
	}
	if v := os.Getenv("LEDGERDASH_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LEDGERDASH_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid LEDGERDASH_PORT %q: %w", v, err)
		}
		cfg.Server.Port = port
	}
	return nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.LedgerFile == "" {
		return errors.New("ledger_file is required")
	}
	if _, err := c.Classifier(); err != nil {
		return err
	}
	if _, err := ledgerdash.ParseLiabilitySign(c.LiabilitySign); err != nil {
		return err
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}

// Classifier returns the account classifier of the classification setting.
func (c *Config) Classifier() (ledgerdash.Classifier, error) {
	mode, err := ledgerdash.ParseClassificationMode(c.Classification)
	return ledgerdash.Classifier{Mode: mode}, err
}

// Sign returns the liability sign setting. Invalid values read as
// AsRecorded.
func (c *Config) Sign() ledgerdash.LiabilitySign {
	s, _ := ledgerdash.ParseLiabilitySign(c.LiabilitySign)
	return s
}

// Money returns the currency amounts are written and displayed in.
func (c *Config) Money() ledgerdash.Currency {
	return ledgerdash.NewCurrency(c.Currency, c.CurrencySymbol)
}
