// Package mock provides a deterministic market data provider for tests
// and offline backtests.
package mock

import (
	"context"
	"time"

	"github.com/stockmcp/stockmcp/internal/core"
	"github.com/stockmcp/stockmcp/internal/provider"
)

// Mock serves canned daily bars filtered to the requested range.
type Mock struct {
	bars []core.OHLCV
}

// New creates a mock provider serving the given bars.
func New(bars []core.OHLCV) *Mock {
	return &Mock{bars: bars}
}

// NewTrending creates a mock provider generating days synthetic daily
// bars for symbol: a gentle sawtooth uptrend starting at startPrice,
// one bar per calendar day from start.
func NewTrending(symbol string, start time.Time, days int, startPrice float64) *Mock {
	bars := make([]core.OHLCV, days)
	price := startPrice
	for i := 0; i < days; i++ {
		bars[i] = core.OHLCV{
			Symbol: symbol,
			Date:   start.AddDate(0, 0, i),
			Open:   price,
			High:   price + 1,
			Low:    price - 1,
			Close:  price,
			Volume: 1_000_000,
		}
		if i%2 == 0 {
			price += 2
		} else {
			price -= 1
		}
	}
	return &Mock{bars: bars}
}

func (m *Mock) Name() string {
	return "mock"
}

// Synthetic generates the sawtooth series on demand for any symbol and
// range, so it can stand in for a live provider in offline mode.
type Synthetic struct {
	StartPrice float64
}

func (s *Synthetic) Name() string {
	return "mock"
}

// FetchDailyBars generates one bar per calendar day in [start, end).
func (s *Synthetic) FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]core.OHLCV, error) {
	if err := provider.ValidateRequest(symbol, start, end); err != nil {
		return nil, err
	}

	price := s.StartPrice
	if price <= 0 {
		price = 100
	}
	days := int(end.Sub(start).Hours() / 24)
	return NewTrending(symbol, start, days, price).FetchDailyBars(ctx, symbol, start, end)
}

// FetchDailyBars returns the canned bars for symbol within [start, end).
func (m *Mock) FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]core.OHLCV, error) {
	if err := provider.ValidateRequest(symbol, start, end); err != nil {
		return nil, err
	}

	result := make([]core.OHLCV, 0, len(m.bars))
	for _, bar := range m.bars {
		if bar.Symbol != symbol {
			continue
		}
		if bar.Date.Before(start) || !bar.Date.Before(end) {
			continue
		}
		result = append(result, bar)
	}
	return result, nil
}
