package backtest

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/stockmcp/stockmcp/internal/core"
	"github.com/stockmcp/stockmcp/internal/decision"
	"github.com/stockmcp/stockmcp/internal/portfolio"
	"github.com/stockmcp/stockmcp/internal/strategy"
)

// Engine drives the day-by-day walk-forward simulation. One Run is one
// sequential pass over the input series; the engine shares no state
// between runs, so separate runs are independent.
type Engine struct {
	riskFraction float64
	decider      *decision.Engine
	logger       *zap.Logger
}

// NewEngine creates a backtest engine. A riskFraction <= 0 falls back
// to the default fixed-fractional sizing rule.
func NewEngine(riskFraction float64, logger ...*zap.Logger) *Engine {
	var l *zap.Logger
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	} else {
		l = zap.NewNop()
	}
	if riskFraction <= 0 {
		riskFraction = portfolio.DefaultRiskFraction
	}
	return &Engine{
		riskFraction: riskFraction,
		decider:      decision.NewEngine(),
		logger:       l,
	}
}

// Run executes a backtest of strat over the full ordered bar series.
// It never fails: an empty series degrades to an all-zero result, and
// per-bar ErrInsufficientData from the strategy is an abstention for
// that bar, not an error. The input series is never mutated.
func (e *Engine) Run(bars []core.OHLCV, strat strategy.Strategy, initialCash float64) *Result {
	pf := portfolio.New(initialCash)

	var trades []Trade
	equityValues := make([]float64, 0, len(bars))
	curveDates := make([]time.Time, 0, len(bars))

	for i, bar := range bars {
		// The strategy only ever sees the prefix up to and including
		// today: no future data leaks into the signal.
		sig, err := strat.GenerateSignal(bars[:i+1])
		if err != nil {
			if !errors.Is(err, core.ErrInsufficientData) {
				e.logger.Warn("strategy error, abstaining for bar",
					zap.String("strategy", strat.Name()),
					zap.Time("date", bar.Date),
					zap.Error(err),
				)
			}
			equityValues = append(equityValues, pf.Equity)
			curveDates = append(curveDates, bar.Date)
			continue
		}

		before := pf.Snapshot()
		pf.ApplySignal(bar.Symbol, sig.Action, bar.Close, bar.Date, e.riskFraction)

		// Compare position membership around the transition to tell an
		// executed trade from a no-op.
		switch {
		case sig.Action == core.ActionBuy && !before.Holds(bar.Symbol) && pf.Holds(bar.Symbol):
			pos := pf.Positions[bar.Symbol]
			trades = append(trades, Trade{
				Symbol:     bar.Symbol,
				Quantity:   pos.Quantity,
				EntryDate:  bar.Date,
				EntryPrice: bar.Close,
			})
		case sig.Action == core.ActionSell && before.Holds(bar.Symbol) && !pf.Holds(bar.Symbol):
			last := &trades[len(trades)-1]
			exitDate := bar.Date
			exitPrice := bar.Close
			pnl := (exitPrice - last.EntryPrice) * float64(last.Quantity)
			last.ExitDate = &exitDate
			last.ExitPrice = &exitPrice
			last.PnL = &pnl
		}

		equityValues = append(equityValues, pf.Equity)
		curveDates = append(curveDates, bar.Date)
	}

	drawdowns := Drawdowns(equityValues)

	equityCurve := make([]EquityPoint, len(equityValues))
	for i := range equityValues {
		equityCurve[i] = EquityPoint{
			Date:     curveDates[i],
			Equity:   equityValues[i],
			Drawdown: drawdowns[i],
		}
	}

	var maxDD float64
	for _, dd := range drawdowns {
		if dd > maxDD {
			maxDD = dd
		}
	}

	var cagr float64
	if len(bars) > 0 {
		cagr = CAGR(initialCash, pf.Equity, bars[0].Date, bars[len(bars)-1].Date)
	}

	returns := Returns(equityValues)
	volatility := Volatility(returns)

	metrics := decision.Metrics{
		CAGR:                 cagr,
		Volatility:           volatility,
		Sharpe:               Sharpe(cagr, volatility),
		Sortino:              Sortino(cagr, returns),
		ProfitFactor:         ProfitFactor(trades),
		TimeInMarket:         TimeInMarket(trades, len(equityCurve)),
		AvgTradeDurationDays: AvgTradeDuration(trades),
		MaxConsecutiveLosses: MaxConsecutiveLosses(trades),
		MaxDrawdown:          maxDD,
		TotalPnL:             pf.Equity - initialCash,
	}

	var winning int
	for _, t := range trades {
		if t.IsWin() {
			winning++
		}
	}
	var winRate float64
	if len(trades) > 0 {
		winRate = float64(winning) / float64(len(trades))
	}

	var symbol string
	if len(bars) > 0 {
		symbol = bars[0].Symbol
	}

	return &Result{
		Symbol:      symbol,
		Strategy:    strat.Name(),
		InitialCash: initialCash,
		TotalTrades: len(trades),
		TotalPnL:    metrics.TotalPnL,
		WinRate:     winRate,
		MaxDrawdown: maxDD,
		Trades:      trades,
		EquityCurve: equityCurve,
		Metrics:     metrics,
		Decision:    e.decider.Evaluate(metrics),
	}
}
