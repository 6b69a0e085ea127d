package portfolio

import "fmt"

// DefaultMaxDrawdown is the default drawdown limit for the guard.
const DefaultMaxDrawdown = 0.2

// DrawdownExceeded reports whether the decline from the equity peak to
// the current equity has reached the maxDrawdown fraction. Hosts can use
// it to halt a live strategy that a backtest would have stopped out.
func DrawdownExceeded(equityPeak, currentEquity, maxDrawdown float64) (bool, error) {
	if equityPeak <= 0 {
		return false, fmt.Errorf("equity peak must be positive, got %f", equityPeak)
	}

	drawdown := (equityPeak - currentEquity) / equityPeak
	return drawdown >= maxDrawdown, nil
}
