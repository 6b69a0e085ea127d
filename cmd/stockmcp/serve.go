package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stockmcp/stockmcp/internal/api"
	"github.com/stockmcp/stockmcp/internal/api/handler"
	"github.com/stockmcp/stockmcp/internal/api/job"
	"github.com/stockmcp/stockmcp/internal/backtest"
	"github.com/stockmcp/stockmcp/internal/logger"
	"github.com/stockmcp/stockmcp/internal/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the stockmcp API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	dataProvider, err := buildProvider(cfg)
	if err != nil {
		return err
	}

	strategies, err := buildStrategies(cfg, log)
	if err != nil {
		return err
	}

	reg := metrics.NewRegistry()
	jobs := job.NewStore(cfg.Server.MaxJobs,
		time.Duration(cfg.Server.JobTTLHours)*time.Hour)
	runner := backtest.NewEngine(cfg.Backtest.RiskFraction, log)

	log.Info("starting stockmcp server",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
		zap.String("provider", dataProvider.Name()),
	)

	server := api.NewServer(api.Config{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		APIKey:         cfg.Server.APIKey,
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsPath:    cfg.Metrics.Path,
	}, api.Handlers{
		Backtest: handler.NewBacktestHandler(
			dataProvider, strategies, runner, jobs, reg,
			"sma_rsi", cfg.Backtest.InitialCash, log),
		Strategies: handler.NewStrategiesHandler(strategies),
		Health:     handler.NewHealthHandler(Version),
	}, reg, log)

	go func() {
		if err := server.Start(); err != nil {
			log.Error("server error", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down stockmcp server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
