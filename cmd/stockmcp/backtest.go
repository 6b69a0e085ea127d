package main

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/spf13/cobra"

	"github.com/stockmcp/stockmcp/internal/backtest"
	"github.com/stockmcp/stockmcp/internal/logger"
	"github.com/stockmcp/stockmcp/internal/portfolio"
	"github.com/stockmcp/stockmcp/internal/provider"
)

var (
	backtestSymbol string
	backtestFrom   string
	backtestTo     string
	backtestCash   float64
	backtestMock   bool
)

var backtestCmd = &cobra.Command{
	Use:   "backtest [strategy]",
	Short: "Run a strategy against historical data",
	Long:  "Run a strategy against historical daily bars and print the performance report and recommendation",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBacktestCmd,
}

func init() {
	backtestCmd.Flags().StringVar(&backtestSymbol, "symbol", "", "Symbol to backtest (required)")
	backtestCmd.Flags().StringVar(&backtestFrom, "from", "", "Start date YYYY-MM-DD, inclusive (required)")
	backtestCmd.Flags().StringVar(&backtestTo, "to", "", "End date YYYY-MM-DD, exclusive (required)")
	backtestCmd.Flags().Float64Var(&backtestCash, "cash", 0, "Initial cash (defaults to configured value)")
	backtestCmd.Flags().BoolVar(&backtestMock, "mock", false, "Use the synthetic offline provider instead of the configured one")

	backtestCmd.MarkFlagRequired("symbol")
	backtestCmd.MarkFlagRequired("from")
	backtestCmd.MarkFlagRequired("to")

	rootCmd.AddCommand(backtestCmd)
}

func runBacktestCmd(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	strategyName := "sma_rsi"
	if len(args) == 1 {
		strategyName = args[0]
	}

	fromDate, err := time.Parse("2006-01-02", backtestFrom)
	if err != nil {
		return fmt.Errorf("invalid from date format (expected YYYY-MM-DD): %w", err)
	}
	toDate, err := time.Parse("2006-01-02", backtestTo)
	if err != nil {
		return fmt.Errorf("invalid to date format (expected YYYY-MM-DD): %w", err)
	}
	if err := provider.ValidateRequest(backtestSymbol, fromDate, toDate); err != nil {
		return err
	}

	if backtestMock {
		cfg.Provider.Name = "mock"
	}
	dataProvider, err := buildProvider(cfg)
	if err != nil {
		return err
	}

	strategies, err := buildStrategies(cfg, log)
	if err != nil {
		return err
	}
	strat, ok := strategies.Get(strategyName)
	if !ok {
		return fmt.Errorf("unknown strategy %q", strategyName)
	}

	cash := cfg.Backtest.InitialCash
	if backtestCash > 0 {
		cash = backtestCash
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Provider.Timeout+time.Minute)
	defer cancel()

	bars, err := dataProvider.FetchDailyBars(ctx, backtestSymbol, fromDate, toDate)
	if err != nil {
		return fmt.Errorf("fetching bars: %w", err)
	}

	runner := backtest.NewEngine(cfg.Backtest.RiskFraction, log)
	res := runner.Run(bars, strat, cash)
	res.Symbol = backtestSymbol
	res.Strategy = strat.Name()

	printReport(res, len(bars), fromDate, toDate)
	return nil
}

func printReport(res *backtest.Result, barCount int, from, to time.Time) {
	fmt.Println("=== stockmcp Backtest ===")
	fmt.Printf("Strategy: %s\n", res.Strategy)
	fmt.Printf("Symbol:   %s\n", res.Symbol)
	fmt.Printf("Period:   %s to %s (%d bars)\n",
		from.Format("2006-01-02"), to.Format("2006-01-02"), barCount)
	fmt.Println()

	fmt.Printf("Initial cash:   %12.2f\n", res.InitialCash)
	fmt.Printf("Total P&L:      %12.2f\n", res.TotalPnL)
	fmt.Printf("Total trades:   %12d\n", res.TotalTrades)
	fmt.Printf("Win rate:       %11.1f%%\n", res.WinRate*100)
	fmt.Printf("Max drawdown:   %11.1f%%\n", res.MaxDrawdown*100)
	fmt.Println()

	m := res.Metrics
	fmt.Printf("CAGR:           %11.2f%%\n", m.CAGR*100)
	fmt.Printf("Volatility:     %11.2f%%\n", m.Volatility*100)
	fmt.Printf("Sharpe:         %12.2f\n", m.Sharpe)
	fmt.Printf("Sortino:        %12.2f\n", m.Sortino)
	if math.IsInf(m.ProfitFactor, 0) {
		fmt.Printf("Profit factor:  %12s\n", "n/a")
	} else {
		fmt.Printf("Profit factor:  %12.2f\n", m.ProfitFactor)
	}
	fmt.Printf("Time in market: %11.1f%%\n", m.TimeInMarket*100)

	if len(res.EquityCurve) > 0 {
		peak := res.EquityCurve[0].Equity
		for _, p := range res.EquityCurve {
			if p.Equity > peak {
				peak = p.Equity
			}
		}
		last := res.EquityCurve[len(res.EquityCurve)-1].Equity
		if exceeded, err := portfolio.DrawdownExceeded(peak, last, portfolio.DefaultMaxDrawdown); err == nil && exceeded {
			fmt.Printf("Risk guard:     drawdown limit of %.0f%% exceeded\n", portfolio.DefaultMaxDrawdown*100)
		}
	}
	fmt.Println()

	d := res.Decision
	fmt.Printf("Recommendation: %s (score %.1f)\n", d.Category, d.Score)
	for _, reason := range d.Reasons {
		fmt.Printf("  - %s\n", reason)
	}
}
