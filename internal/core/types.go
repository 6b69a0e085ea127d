package core

import "time"

// Action represents a trading signal action
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
	ActionHold Action = "HOLD"
)

// OHLCV represents one daily candle. Bars are immutable once produced
// and ordered ascending by date within a series.
type OHLCV struct {
	Symbol string
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// IsValid checks if the bar has required fields
func (b OHLCV) IsValid() bool {
	return b.Symbol != "" && b.Close > 0 && !b.Date.IsZero()
}

// TradingSignal represents a single strategy verdict for one bar.
// A fresh signal is produced per bar; it carries no state across calls.
type TradingSignal struct {
	Symbol   string
	Action   Action
	Reason   string
	Strategy string
}

// Closes extracts the closing prices from a bar series.
func Closes(bars []OHLCV) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}
