package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stockmcp/stockmcp/internal/core"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Provider.Name != "yahoo" {
		t.Errorf("Provider.Name = %s, want yahoo", cfg.Provider.Name)
	}
	if cfg.Backtest.InitialCash != 100_000 {
		t.Errorf("InitialCash = %f, want 100000", cfg.Backtest.InitialCash)
	}
	if cfg.Strategy.ShortWindow != 20 || cfg.Strategy.LongWindow != 50 || cfg.Strategy.RSIWindow != 14 {
		t.Error("unexpected default strategy windows")
	}
}

func TestLoad(t *testing.T) {
	content := []byte(`
server:
  host: 127.0.0.1
  port: 9090
provider:
  name: mock
backtest:
  initial_cash: 50000
  risk_fraction: 0.2
`)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Host = %s, want 127.0.0.1", cfg.Server.Host)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Provider.Name != "mock" {
		t.Errorf("Provider.Name = %s, want mock", cfg.Provider.Name)
	}
	if cfg.Backtest.InitialCash != 50000 {
		t.Errorf("InitialCash = %f, want 50000", cfg.Backtest.InitialCash)
	}

	// Unset keys keep their defaults.
	if cfg.Strategy.LongWindow != 50 {
		t.Errorf("LongWindow = %d, want default 50", cfg.Strategy.LongWindow)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/does/not/exist.yaml"); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"missing provider", func(c *Config) { c.Provider.Name = "" }},
		{"short >= long", func(c *Config) { c.Strategy.ShortWindow = 50 }},
		{"zero rsi window", func(c *Config) { c.Strategy.RSIWindow = 0 }},
		{"negative cash", func(c *Config) { c.Backtest.InitialCash = -1 }},
		{"risk fraction too high", func(c *Config) { c.Backtest.RiskFraction = 1.5 }},
		{"zero risk fraction", func(c *Config) { c.Backtest.RiskFraction = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, core.ErrConfigInvalid) && !errors.Is(err, core.ErrConfigMissing) {
				t.Errorf("expected a config error, got %v", err)
			}
		})
	}
}
