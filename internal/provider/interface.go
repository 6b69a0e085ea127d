package provider

import (
	"context"
	"time"

	"github.com/stockmcp/stockmcp/internal/core"
)

// MarketDataProvider defines the interface for historical price sources.
//
// FetchDailyBars returns daily candles for symbol between start
// (inclusive) and end (exclusive), ordered ascending by date. An empty
// result is valid. Implementations fail with core.ErrInvalidRequest when
// symbol is empty or start is after end, and do not retry internally;
// retry and backoff belong to the host.
type MarketDataProvider interface {
	Name() string
	FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]core.OHLCV, error)
}

// ValidateRequest applies the request checks shared by providers.
func ValidateRequest(symbol string, start, end time.Time) error {
	if symbol == "" {
		return core.WrapError(core.ErrInvalidRequest, errSymbolEmpty)
	}
	if start.After(end) {
		return core.WrapError(core.ErrInvalidRequest, errStartAfterEnd)
	}
	return nil
}
