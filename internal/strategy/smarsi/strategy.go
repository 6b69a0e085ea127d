// Package smarsi implements the reference swing strategy: an SMA trend
// crossover gated by an RSI overbought/oversold filter.
package smarsi

import (
	"fmt"

	"github.com/stockmcp/stockmcp/internal/core"
	"github.com/stockmcp/stockmcp/internal/indicator"
	"github.com/stockmcp/stockmcp/internal/strategy"
)

// Default windows for the reference configuration.
const (
	DefaultShortWindow = 20
	DefaultLongWindow  = 50
	DefaultRSIWindow   = 14
)

const (
	rsiOverbought = 70.0
	rsiOversold   = 30.0
)

// SMARsi is the SMA-crossover + RSI-filter strategy
type SMARsi struct {
	shortWindow int
	longWindow  int
	rsiWindow   int
}

var _ strategy.Strategy = (*SMARsi)(nil)

// New creates a new SMARsi strategy. The short window must be strictly
// smaller than the long window.
func New(shortWindow, longWindow, rsiWindow int) (*SMARsi, error) {
	if shortWindow >= longWindow {
		return nil, core.WrapError(core.ErrInvalidConfig,
			fmt.Errorf("short window %d must be < long window %d", shortWindow, longWindow))
	}
	if shortWindow < 1 || rsiWindow < 1 {
		return nil, core.WrapError(core.ErrInvalidConfig,
			fmt.Errorf("windows must be positive, got short=%d rsi=%d", shortWindow, rsiWindow))
	}
	return &SMARsi{
		shortWindow: shortWindow,
		longWindow:  longWindow,
		rsiWindow:   rsiWindow,
	}, nil
}

// NewDefault creates the strategy with the reference 20/50/14 windows.
func NewDefault() *SMARsi {
	s, err := New(DefaultShortWindow, DefaultLongWindow, DefaultRSIWindow)
	if err != nil {
		panic(err) // unreachable with the default windows
	}
	return s
}

func (s *SMARsi) Name() string {
	return "sma_rsi"
}

func (s *SMARsi) Description() string {
	return fmt.Sprintf("SMA crossover (%d/%d) with RSI(%d) filter", s.shortWindow, s.longWindow, s.rsiWindow)
}

// GenerateSignal evaluates the latest bar of the given history.
// Propagates core.ErrInsufficientData from the indicators while the
// history is shorter than the long window or rsi window + 1.
func (s *SMARsi) GenerateSignal(bars []core.OHLCV) (core.TradingSignal, error) {
	if len(bars) == 0 {
		return core.TradingSignal{}, core.ErrInsufficientData
	}

	closes := core.Closes(bars)
	latest := bars[len(bars)-1]

	shortSMA, err := indicator.TrendAverage(closes, s.shortWindow)
	if err != nil {
		return core.TradingSignal{}, err
	}
	longSMA, err := indicator.TrendAverage(closes, s.longWindow)
	if err != nil {
		return core.TradingSignal{}, err
	}
	rsi, err := indicator.RSI(closes, s.rsiWindow)
	if err != nil {
		return core.TradingSignal{}, err
	}

	if shortSMA > longSMA && rsi < rsiOverbought {
		return core.TradingSignal{
			Symbol:   latest.Symbol,
			Action:   core.ActionBuy,
			Reason:   "Uptrend confirmed (SMA crossover) and RSI below 70",
			Strategy: s.Name(),
		}, nil
	}

	if shortSMA < longSMA && rsi > rsiOversold {
		return core.TradingSignal{
			Symbol:   latest.Symbol,
			Action:   core.ActionSell,
			Reason:   "Downtrend confirmed (SMA crossover) and RSI above 30",
			Strategy: s.Name(),
		}, nil
	}

	return core.TradingSignal{
		Symbol:   latest.Symbol,
		Action:   core.ActionHold,
		Reason:   "No strong trend or RSI extreme",
		Strategy: s.Name(),
	}, nil
}
