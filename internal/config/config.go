package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/stockmcp/stockmcp/internal/core"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Provider ProviderConfig `mapstructure:"provider"`
	Strategy StrategyConfig `mapstructure:"strategy"`
	Backtest BacktestConfig `mapstructure:"backtest"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

type ServerConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	APIKey      string `mapstructure:"api_key"`
	JobTTLHours int    `mapstructure:"job_ttl_hours"`
	MaxJobs     int    `mapstructure:"max_jobs"`
}

type ProviderConfig struct {
	Name    string        `mapstructure:"name"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// StrategyConfig holds the reference strategy windows.
type StrategyConfig struct {
	ShortWindow int `mapstructure:"short_window"`
	LongWindow  int `mapstructure:"long_window"`
	RSIWindow   int `mapstructure:"rsi_window"`
}

type BacktestConfig struct {
	InitialCash  float64 `mapstructure:"initial_cash"`
	RiskFraction float64 `mapstructure:"risk_fraction"`
}

// MetricsConfig holds Prometheus exposition settings.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Load reads configuration from file
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Support environment variable overrides
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	cfg := Defaults()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return cfg, nil
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8080,
			JobTTLHours: 1,
			MaxJobs:     100,
		},
		Provider: ProviderConfig{
			Name:    "yahoo",
			Timeout: 10 * time.Second,
		},
		Strategy: StrategyConfig{
			ShortWindow: 20,
			LongWindow:  50,
			RSIWindow:   14,
		},
		Backtest: BacktestConfig{
			InitialCash:  100_000,
			RiskFraction: 0.1,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("port must be between 1 and 65535, got %d", c.Server.Port))
	}

	if c.Provider.Name == "" {
		return core.WrapError(core.ErrConfigMissing,
			fmt.Errorf("provider name is required"))
	}

	if c.Strategy.ShortWindow >= c.Strategy.LongWindow {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("strategy short_window %d must be < long_window %d",
				c.Strategy.ShortWindow, c.Strategy.LongWindow))
	}
	if c.Strategy.ShortWindow < 1 || c.Strategy.RSIWindow < 1 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("strategy windows must be positive"))
	}

	if c.Backtest.InitialCash <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("initial_cash must be positive, got %f", c.Backtest.InitialCash))
	}
	if c.Backtest.RiskFraction <= 0 || c.Backtest.RiskFraction > 1 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("risk_fraction must be in (0, 1], got %f", c.Backtest.RiskFraction))
	}

	return nil
}
