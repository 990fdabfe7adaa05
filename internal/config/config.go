package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config represents the complete blackjack configuration
type Config struct {
	Table  TableSettings
	Log    LogSettings
	Server ServerSettings
	Store  StoreSettings
}

// fileConfig is the on-disk layout. Every block is optional.
type fileConfig struct {
	Table  *TableSettings  `hcl:"table,block"`
	Log    *LogSettings    `hcl:"log,block"`
	Server *ServerSettings `hcl:"server,block"`
	Store  *StoreSettings  `hcl:"store,block"`
}

// TableSettings contains the rules of the table
type TableSettings struct {
	Players        []string `hcl:"players,optional" env:"PLAYERS" envSeparator:","`
	DealerStandsOn int      `hcl:"dealer_stands_on,optional" env:"DEALER_STANDS_ON"`
	HitSoft17      bool     `hcl:"hit_soft_17,optional" env:"HIT_SOFT_17"`
	Seed           int64    `hcl:"seed,optional" env:"SEED"`
	ResetThreshold int      `hcl:"reset_threshold,optional" env:"RESET_THRESHOLD"`
}

// LogSettings contains logging settings
type LogSettings struct {
	Level string `hcl:"level,optional" env:"LOG_LEVEL"`
	File  string `hcl:"file,optional" env:"LOG_FILE"`
}

// ServerSettings contains websocket table server settings
type ServerSettings struct {
	Addr          string `hcl:"addr,optional" env:"SERVER_ADDR"`
	ActionTimeout int    `hcl:"action_timeout,optional" env:"ACTION_TIMEOUT"`
	Seats         int    `hcl:"seats,optional" env:"SEATS"`
}

// StoreSettings contains round history settings
type StoreSettings struct {
	Path string `hcl:"path,optional" env:"STORE_PATH"`
}

// EnvPrefix is prepended to every environment override, e.g. BLACKJACK_LOG_LEVEL.
const EnvPrefix = "BLACKJACK_"

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Table: TableSettings{
			DealerStandsOn: 17,
			HitSoft17:      false,
			Seed:           0,
			ResetThreshold: 0,
		},
		Log: LogSettings{
			Level: "info",
		},
		Server: ServerSettings{
			Addr:          ":8080",
			ActionTimeout: 30,
			Seats:         4,
		},
		Store: StoreSettings{
			Path: "blackjack.db",
		},
	}
}

// Load reads an HCL file (missing file means defaults), fills unset values
// from the defaults and then applies BLACKJACK_* environment overrides.
func Load(filename string) (*Config, error) {
	cfg, err := loadFile(filename)
	if err != nil {
		return nil, err
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func loadFile(filename string) (*Config, error) {
	if filename == "" {
		return Default(), nil
	}
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var fc fileConfig
	diags = gohcl.DecodeBody(file.Body, nil, &fc)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg := Default()
	if fc.Table != nil {
		cfg.Table = *fc.Table
	}
	if fc.Log != nil {
		cfg.Log = *fc.Log
	}
	if fc.Server != nil {
		cfg.Server = *fc.Server
	}
	if fc.Store != nil {
		cfg.Store = *fc.Store
	}
	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults fills zero values from Default
func (c *Config) applyDefaults() {
	defaults := Default()

	if c.Table.DealerStandsOn == 0 {
		c.Table.DealerStandsOn = defaults.Table.DealerStandsOn
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
	if c.Server.Addr == "" {
		c.Server.Addr = defaults.Server.Addr
	}
	if c.Server.ActionTimeout == 0 {
		c.Server.ActionTimeout = defaults.Server.ActionTimeout
	}
	if c.Server.Seats == 0 {
		c.Server.Seats = defaults.Server.Seats
	}
	if c.Store.Path == "" {
		c.Store.Path = defaults.Store.Path
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Table.DealerStandsOn < 2 || c.Table.DealerStandsOn > 21 {
		return fmt.Errorf("dealer_stands_on must be between 2 and 21, got %d", c.Table.DealerStandsOn)
	}
	if c.Table.ResetThreshold < 0 || c.Table.ResetThreshold > 52 {
		return fmt.Errorf("reset_threshold must be between 0 and 52, got %d", c.Table.ResetThreshold)
	}

	if err := ValidatePlayerNames(c.Table.Players); err != nil {
		return err
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}

	if c.Server.ActionTimeout <= 0 {
		return fmt.Errorf("action_timeout must be positive")
	}
	if c.Server.Seats <= 0 {
		return fmt.Errorf("seats must be positive")
	}
	return nil
}

// ValidatePlayerNames rejects empty, reserved and duplicate seat names.
// Names are compared after trimming surrounding space.
func ValidatePlayerNames(names []string) error {
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			return fmt.Errorf("player names cannot be empty")
		}
		if strings.EqualFold(name, "dealer") {
			return fmt.Errorf("player name %q is reserved", name)
		}
		if seen[name] {
			return fmt.Errorf("duplicate player name: %s", name)
		}
		seen[name] = true
	}
	return nil
}

// LogLevel returns the parsed log level, falling back to info
func (c *Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}
