package strategy

import (
	"github.com/stockmcp/stockmcp/internal/core"
)

// Strategy defines the interface for signal-generating strategies.
// GenerateSignal receives all bars up to and including "today" and returns
// a single verdict for the latest bar. Implementations must not look past
// the end of the slice and may return core.ErrInsufficientData while their
// indicators are still warming up; the backtest engine treats that as an
// abstention, not a failure.
type Strategy interface {
	Name() string
	Description() string
	GenerateSignal(bars []core.OHLCV) (core.TradingSignal, error)
}
