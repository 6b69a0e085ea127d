// Package portfolio owns the cash/position state machine mutated by the
// backtest engine. All transitions go through ApplySignal; nothing else
// touches cash or positions.
package portfolio

import (
	"time"

	"github.com/stockmcp/stockmcp/internal/core"
)

// Position represents a single open holding.
// At most one position per symbol exists at any time.
type Position struct {
	Symbol    string
	Quantity  int64
	AvgPrice  float64
	EntryDate time.Time
}

// Portfolio holds cash, open positions and derived equity.
type Portfolio struct {
	Cash      float64
	Positions map[string]Position
	Equity    float64
}

// New creates a portfolio holding only cash.
func New(initialCash float64) *Portfolio {
	return &Portfolio{
		Cash:      initialCash,
		Positions: make(map[string]Position),
		Equity:    initialCash,
	}
}

// Holds reports whether the portfolio has an open position for symbol.
func (p *Portfolio) Holds(symbol string) bool {
	_, ok := p.Positions[symbol]
	return ok
}

// Snapshot returns a deep copy, used by the engine to compare position
// membership before and after a transition.
func (p *Portfolio) Snapshot() *Portfolio {
	positions := make(map[string]Position, len(p.Positions))
	for sym, pos := range p.Positions {
		positions[sym] = pos
	}
	return &Portfolio{
		Cash:      p.Cash,
		Positions: positions,
		Equity:    p.Equity,
	}
}

// ApplySignal applies one trading signal to the portfolio at the given
// price and date, then recomputes equity.
//
// BUY with no open position sizes via FixedFractionalSize and opens one
// if at least a single share is affordable. SELL with an open position
// closes it. Everything else, including a BUY while already holding or a
// SELL while flat, is a silent no-op.
//
// Positions are marked to the incoming transition price. With the
// single-symbol walk only one position can exist; a multi-symbol
// extension must mark each position to its own last-seen price instead.
func (p *Portfolio) ApplySignal(symbol string, action core.Action, price float64, date time.Time, riskFraction float64) {
	switch action {
	case core.ActionBuy:
		if !p.Holds(symbol) {
			qty := FixedFractionalSize(p.Cash, price, riskFraction)
			if qty > 0 {
				p.Positions[symbol] = Position{
					Symbol:    symbol,
					Quantity:  qty,
					AvgPrice:  price,
					EntryDate: date,
				}
				p.Cash -= float64(qty) * price
			}
		}
	case core.ActionSell:
		if pos, ok := p.Positions[symbol]; ok {
			p.Cash += float64(pos.Quantity) * price
			delete(p.Positions, symbol)
		}
	}

	p.Equity = p.Cash
	for _, pos := range p.Positions {
		p.Equity += float64(pos.Quantity) * price
	}
}
