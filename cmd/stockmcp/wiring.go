package main

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/stockmcp/stockmcp/internal/config"
	"github.com/stockmcp/stockmcp/internal/provider"
	"github.com/stockmcp/stockmcp/internal/provider/mock"
	"github.com/stockmcp/stockmcp/internal/provider/yahoo"
	"github.com/stockmcp/stockmcp/internal/strategy"
	"github.com/stockmcp/stockmcp/internal/strategy/smarsi"
)

// loadConfig loads and validates configuration, falling back to
// defaults when no file is given.
func loadConfig(log *zap.Logger) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	} else {
		cfg = config.Defaults()
		log.Warn("no config file specified, using defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// buildProviders registers the available market data providers.
func buildProviders(cfg *config.Config) *provider.Registry {
	registry := provider.NewRegistry()
	registry.Register(yahoo.New(yahoo.WithHTTPClient(&http.Client{
		Timeout: cfg.Provider.Timeout,
	})))
	registry.Register(&mock.Synthetic{StartPrice: 100})
	return registry
}

// buildProvider resolves the configured market data provider.
func buildProvider(cfg *config.Config) (provider.MarketDataProvider, error) {
	p, ok := buildProviders(cfg).Get(cfg.Provider.Name)
	if !ok {
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider.Name)
	}
	return p, nil
}

// buildStrategies registers the configured strategies.
func buildStrategies(cfg *config.Config, log *zap.Logger) (*strategy.Engine, error) {
	engine := strategy.NewEngine(log)

	smaRsi, err := smarsi.New(
		cfg.Strategy.ShortWindow,
		cfg.Strategy.LongWindow,
		cfg.Strategy.RSIWindow,
	)
	if err != nil {
		return nil, fmt.Errorf("building sma_rsi strategy: %w", err)
	}
	engine.Register(smaRsi)

	return engine, nil
}
