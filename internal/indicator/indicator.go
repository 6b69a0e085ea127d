package indicator

import "github.com/stockmcp/stockmcp/internal/core"

// minAvgLoss keeps the RSI denominator non-zero when a window has no
// losing days, so the oscillator approaches but never reaches 100.
const minAvgLoss = 0.0001

// TrendAverage returns the arithmetic mean of the last window values.
// Returns ErrInsufficientData when fewer than window values are available.
func TrendAverage(values []float64, window int) (float64, error) {
	if len(values) < window {
		return 0, core.ErrInsufficientData
	}

	var sum float64
	for _, v := range values[len(values)-window:] {
		sum += v
	}
	return sum / float64(window), nil
}

// RSI computes a Wilder-style relative strength index over the last
// window day-over-day deltas. Returns ErrInsufficientData when fewer than
// window+1 values are available.
func RSI(values []float64, window int) (float64, error) {
	if len(values) < window+1 {
		return 0, core.ErrInsufficientData
	}

	var gains, losses float64
	for i := len(values) - window; i < len(values); i++ {
		delta := values[i] - values[i-1]
		if delta >= 0 {
			gains += delta
		} else {
			losses += -delta
		}
	}

	avgGain := gains / float64(window)
	avgLoss := losses / float64(window)
	if avgLoss == 0 {
		avgLoss = minAvgLoss
	}

	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs)), nil
}
