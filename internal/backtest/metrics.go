package backtest

import (
	"math"
	"time"

	"github.com/montanaflynn/stats"
)

// tradingDaysPerYear annualizes daily return volatility.
const tradingDaysPerYear = 252

// Drawdowns computes the peak-to-date drawdown fraction for every point
// of an equity series. Drawdown is 0 wherever the running peak is not
// positive.
func Drawdowns(equity []float64) []float64 {
	drawdowns := make([]float64, len(equity))
	var peak float64
	for i, eq := range equity {
		if eq > peak {
			peak = eq
		}
		if peak > 0 {
			drawdowns[i] = (peak - eq) / peak
		}
	}
	return drawdowns
}

// Returns computes pairwise percentage changes of consecutive equity
// values, skipping points whose prior value is not positive. Empty if
// fewer than two points.
func Returns(equity []float64) []float64 {
	if len(equity) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(equity)-1)
	for t := 1; t < len(equity); t++ {
		if equity[t-1] <= 0 {
			continue
		}
		returns = append(returns, (equity[t]-equity[t-1])/equity[t-1])
	}
	return returns
}

// CAGR computes the compound annual growth rate over the run's date
// span. Returns 0 when the span is not positive or the initial equity
// is not positive.
func CAGR(initial, final float64, start, end time.Time) float64 {
	days := end.Sub(start).Hours() / 24
	if days <= 0 || initial <= 0 {
		return 0
	}
	return math.Pow(final/initial, 365.25/days) - 1
}

// Volatility is the Bessel-corrected standard deviation of the returns
// series annualized by sqrt(252). Returns 0 with fewer than 2 returns.
func Volatility(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	stdev, err := stats.StandardDeviationSample(returns)
	if err != nil {
		return 0
	}
	return stdev * math.Sqrt(tradingDaysPerYear)
}

// Sharpe is CAGR over annualized volatility, 0 when volatility is 0.
func Sharpe(cagr, volatility float64) float64 {
	if volatility == 0 {
		return 0
	}
	return cagr / volatility
}

// Sortino is CAGR over the annualized downside deviation, where the
// downside deviation is the population standard deviation of only the
// negative returns. Returns 0 when there are no negative returns or the
// downside deviation is 0.
func Sortino(cagr float64, returns []float64) float64 {
	var negatives []float64
	for _, r := range returns {
		if r < 0 {
			negatives = append(negatives, r)
		}
	}
	if len(negatives) == 0 {
		return 0
	}
	stdev, err := stats.StandardDeviationPopulation(negatives)
	if err != nil {
		return 0
	}
	downside := stdev * math.Sqrt(tradingDaysPerYear)
	if downside == 0 {
		return 0
	}
	return cagr / downside
}

// ProfitFactor is gross winning pnl over the magnitude of gross losing
// pnl across closed trades. When there are no losses it is +Inf if
// there is any profit, 0 otherwise.
func ProfitFactor(trades []Trade) float64 {
	var grossProfit, grossLoss float64
	for _, t := range trades {
		if !t.IsClosed() || t.PnL == nil {
			continue
		}
		if *t.PnL > 0 {
			grossProfit += *t.PnL
		} else {
			grossLoss += -*t.PnL
		}
	}
	if grossLoss == 0 {
		if grossProfit > 0 {
			return math.Inf(1)
		}
		return 0
	}
	return grossProfit / grossLoss
}

// TimeInMarket is the total closed-trade holding time in days divided
// by the number of equity points. 0 with no trades or no equity points.
func TimeInMarket(trades []Trade, equityPoints int) float64 {
	if equityPoints == 0 {
		return 0
	}
	var daysHeld float64
	for _, t := range trades {
		daysHeld += t.DurationDays()
	}
	return daysHeld / float64(equityPoints)
}

// AvgTradeDuration is the mean holding time in days across closed
// trades, 0 if there are none.
func AvgTradeDuration(trades []Trade) float64 {
	var durations []float64
	for _, t := range trades {
		if t.IsClosed() {
			durations = append(durations, t.DurationDays())
		}
	}
	if len(durations) == 0 {
		return 0
	}
	mean, err := stats.Mean(durations)
	if err != nil {
		return 0
	}
	return mean
}

// MaxConsecutiveLosses is the longest run of consecutive losing closed
// trades in trade-list order. Any non-loss, including breakeven or an
// open trade, resets the streak.
func MaxConsecutiveLosses(trades []Trade) int {
	var longest, current int
	for _, t := range trades {
		if t.IsClosed() && t.PnL != nil && *t.PnL < 0 {
			current++
			if current > longest {
				longest = current
			}
		} else {
			current = 0
		}
	}
	return longest
}
