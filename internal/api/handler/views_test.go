// internal/api/handler/views_test.go
package handler

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stockmcp/stockmcp/internal/backtest"
	"github.com/stockmcp/stockmcp/internal/core"
	"github.com/stockmcp/stockmcp/internal/decision"
)

func TestNewResultView_Dates(t *testing.T) {
	entry := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	exit := time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)
	pnl := 50.0
	price := 105.0

	res := &backtest.Result{
		Symbol: "AAPL",
		Trades: []backtest.Trade{
			{Symbol: "AAPL", Quantity: 10, EntryDate: entry, EntryPrice: 100},
			{Symbol: "AAPL", Quantity: 10, EntryDate: entry, EntryPrice: 100,
				ExitDate: &exit, ExitPrice: &price, PnL: &pnl},
		},
		EquityCurve: []backtest.EquityPoint{
			{Date: entry, Equity: 10000, Drawdown: 0},
		},
	}

	view := NewResultView(res)

	if view.Trades[0].EntryDate != "2024-03-04" {
		t.Errorf("entry date = %s, want 2024-03-04", view.Trades[0].EntryDate)
	}
	if view.Trades[0].ExitDate != nil {
		t.Error("open trade must have null exit date")
	}
	if view.Trades[1].ExitDate == nil || *view.Trades[1].ExitDate != "2024-03-08" {
		t.Errorf("exit date = %v, want 2024-03-08", view.Trades[1].ExitDate)
	}
	if view.EquityCurve[0].Date != "2024-03-04" {
		t.Errorf("curve date = %s, want 2024-03-04", view.EquityCurve[0].Date)
	}
}

func TestNewResultView_ProfitFactor(t *testing.T) {
	res := &backtest.Result{
		Metrics: decision.Metrics{ProfitFactor: math.Inf(1)},
	}
	view := NewResultView(res)
	if view.Metrics.ProfitFactor != nil {
		t.Errorf("infinite profit factor must map to null, got %v", *view.Metrics.ProfitFactor)
	}

	res.Metrics.ProfitFactor = 1.75
	view = NewResultView(res)
	if view.Metrics.ProfitFactor == nil || *view.Metrics.ProfitFactor != 1.75 {
		t.Errorf("finite profit factor must pass through, got %v", view.Metrics.ProfitFactor)
	}
}

func TestNewResultView_AllWinningRunMarshals(t *testing.T) {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := []core.OHLCV{
		{Symbol: "AAPL", Date: start, Open: 100, High: 100, Low: 100, Close: 100, Volume: 1000},
		{Symbol: "AAPL", Date: start.AddDate(0, 0, 1), Open: 110, High: 110, Low: 110, Close: 110, Volume: 1000},
	}
	strat := &scriptedStrategy{actions: []core.Action{core.ActionBuy, core.ActionSell}}

	res := backtest.NewEngine(0.1).Run(bars, strat, 10000)
	if !math.IsInf(res.Metrics.ProfitFactor, 1) {
		t.Fatalf("expected infinite profit factor, got %v", res.Metrics.ProfitFactor)
	}

	view := NewResultView(res)

	var pfCheck *RuleCheckView
	for i := range view.Decision.Checks {
		if view.Decision.Checks[i].Name == "profit_factor_above_1" {
			pfCheck = &view.Decision.Checks[i]
		}
	}
	if pfCheck == nil {
		t.Fatal("expected a profit factor check")
	}
	if pfCheck.Value != nil {
		t.Errorf("infinite check value must map to null, got %v", *pfCheck.Value)
	}

	// The whole report must survive JSON encoding.
	if _, err := json.Marshal(view); err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
}
