// internal/api/handler/views.go
package handler

import (
	"math"

	"github.com/stockmcp/stockmcp/internal/backtest"
	"github.com/stockmcp/stockmcp/internal/decision"
)

// dateLayout is the wire format for calendar dates.
const dateLayout = "2006-01-02"

// TradeView is the wire representation of a simulated trade. Exit
// fields are null while the trade is still open.
type TradeView struct {
	Symbol     string   `json:"symbol"`
	Quantity   int64    `json:"quantity"`
	EntryDate  string   `json:"entry_date"`
	EntryPrice float64  `json:"entry_price"`
	ExitDate   *string  `json:"exit_date"`
	ExitPrice  *float64 `json:"exit_price"`
	PnL        *float64 `json:"pnl"`
}

// EquityPointView is one equity curve sample on the wire.
type EquityPointView struct {
	Date     string  `json:"date"`
	Equity   float64 `json:"equity"`
	Drawdown float64 `json:"drawdown"`
}

// MetricsView is the wire representation of the metrics bundle. The
// profit factor is null when the run had gains but no losses, since
// JSON has no representation for +Inf.
type MetricsView struct {
	CAGR                 float64  `json:"cagr"`
	Volatility           float64  `json:"volatility"`
	Sharpe               float64  `json:"sharpe"`
	Sortino              float64  `json:"sortino"`
	ProfitFactor         *float64 `json:"profit_factor"`
	TimeInMarket         float64  `json:"time_in_market"`
	AvgTradeDurationDays float64  `json:"avg_trade_duration_days"`
	MaxConsecutiveLosses int      `json:"max_consecutive_losses"`
	MaxDrawdown          float64  `json:"max_drawdown"`
	TotalPnL             float64  `json:"total_pnl"`
}

// RuleCheckView is one hard gate outcome on the wire. Value is null
// when the underlying metric has no finite value (infinite profit
// factor), like MetricsView.ProfitFactor.
type RuleCheckView struct {
	Name      string   `json:"name"`
	Passed    bool     `json:"passed"`
	Value     *float64 `json:"value"`
	Threshold float64  `json:"threshold"`
}

// DecisionView is the wire representation of the recommendation.
type DecisionView struct {
	Category      string             `json:"category"`
	Score         float64            `json:"score"`
	Reasons       []string           `json:"reasons"`
	Checks        []RuleCheckView    `json:"checks"`
	Contributions map[string]float64 `json:"contributions"`
}

// ResultView is the full backtest report on the wire.
type ResultView struct {
	Symbol      string            `json:"symbol"`
	Strategy    string            `json:"strategy"`
	InitialCash float64           `json:"initial_cash"`
	TotalTrades int               `json:"total_trades"`
	TotalPnL    float64           `json:"total_pnl"`
	WinRate     float64           `json:"win_rate"`
	MaxDrawdown float64           `json:"max_drawdown"`
	Trades      []TradeView       `json:"trades"`
	EquityCurve []EquityPointView `json:"equity_curve"`
	Metrics     MetricsView       `json:"metrics"`
	Decision    DecisionView      `json:"decision"`
}

// NewResultView converts an engine result into its wire form.
func NewResultView(res *backtest.Result) ResultView {
	trades := make([]TradeView, 0, len(res.Trades))
	for _, tr := range res.Trades {
		trades = append(trades, newTradeView(tr))
	}

	curve := make([]EquityPointView, 0, len(res.EquityCurve))
	for _, p := range res.EquityCurve {
		curve = append(curve, EquityPointView{
			Date:     p.Date.Format(dateLayout),
			Equity:   p.Equity,
			Drawdown: p.Drawdown,
		})
	}

	return ResultView{
		Symbol:      res.Symbol,
		Strategy:    res.Strategy,
		InitialCash: res.InitialCash,
		TotalTrades: res.TotalTrades,
		TotalPnL:    res.TotalPnL,
		WinRate:     res.WinRate,
		MaxDrawdown: res.MaxDrawdown,
		Trades:      trades,
		EquityCurve: curve,
		Metrics:     newMetricsView(res.Metrics),
		Decision:    newDecisionView(res.Decision),
	}
}

func newTradeView(tr backtest.Trade) TradeView {
	v := TradeView{
		Symbol:     tr.Symbol,
		Quantity:   tr.Quantity,
		EntryDate:  tr.EntryDate.Format(dateLayout),
		EntryPrice: tr.EntryPrice,
		ExitPrice:  tr.ExitPrice,
		PnL:        tr.PnL,
	}
	if tr.ExitDate != nil {
		s := tr.ExitDate.Format(dateLayout)
		v.ExitDate = &s
	}
	return v
}

func newMetricsView(m decision.Metrics) MetricsView {
	return MetricsView{
		CAGR:                 m.CAGR,
		Volatility:           m.Volatility,
		Sharpe:               m.Sharpe,
		Sortino:              m.Sortino,
		ProfitFactor:         finiteOrNull(m.ProfitFactor),
		TimeInMarket:         m.TimeInMarket,
		AvgTradeDurationDays: m.AvgTradeDurationDays,
		MaxConsecutiveLosses: m.MaxConsecutiveLosses,
		MaxDrawdown:          m.MaxDrawdown,
		TotalPnL:             m.TotalPnL,
	}
}

func newDecisionView(d decision.Result) DecisionView {
	checks := make([]RuleCheckView, 0, len(d.Checks))
	for _, c := range d.Checks {
		checks = append(checks, RuleCheckView{
			Name:      c.Name,
			Passed:    c.Passed,
			Value:     finiteOrNull(c.Value),
			Threshold: c.Threshold,
		})
	}
	return DecisionView{
		Category:      string(d.Category),
		Score:         d.Score,
		Reasons:       d.Reasons,
		Checks:        checks,
		Contributions: d.Contributions,
	}
}

func finiteOrNull(v float64) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}
