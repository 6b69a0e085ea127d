package backtest

import (
	"time"

	"github.com/stockmcp/stockmcp/internal/decision"
)

// Trade represents one simulated round trip. A trade is created OPEN
// when a BUY opens a position and becomes CLOSED when the matching SELL
// removes it; once closed it is never mutated again. A position still
// open at the final bar stays an open trade with nil exit fields.
type Trade struct {
	Symbol     string
	Quantity   int64
	EntryDate  time.Time
	EntryPrice float64
	ExitDate   *time.Time
	ExitPrice  *float64
	PnL        *float64
}

// IsClosed returns true if the trade has an exit
func (t Trade) IsClosed() bool {
	return t.ExitDate != nil
}

// IsWin returns true if the trade closed with a positive pnl
func (t Trade) IsWin() bool {
	return t.PnL != nil && *t.PnL > 0
}

// DurationDays returns the whole days between entry and exit for a
// closed trade, 0 otherwise.
func (t Trade) DurationDays() float64 {
	if !t.IsClosed() {
		return 0
	}
	return t.ExitDate.Sub(t.EntryDate).Hours() / 24
}

// EquityPoint is one point of the equity curve: the post-transition
// equity and the drawdown fraction at that bar's date.
type EquityPoint struct {
	Date     time.Time
	Equity   float64
	Drawdown float64
}

// Result holds the complete backtest output
type Result struct {
	Symbol      string
	Strategy    string
	InitialCash float64
	TotalTrades int
	TotalPnL    float64
	WinRate     float64
	MaxDrawdown float64
	Trades      []Trade
	EquityCurve []EquityPoint
	Metrics     decision.Metrics
	Decision    decision.Result
}
