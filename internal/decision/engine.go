// Package decision classifies a backtest metrics bundle into a discrete
// investment recommendation. The classifier is deterministic and
// stateless: the same bundle always yields the same result.
package decision

import (
	"fmt"
	"math"
)

// Category is the discrete investment recommendation.
type Category string

const (
	CategoryReject  Category = "REJECT"
	CategoryCaution Category = "CAUTION"
	CategoryInvest  Category = "INVEST"
)

// Thresholds for the hard-reject gates and the INVEST classification.
const (
	// FDReturn is the fixed-deposit baseline: a strategy that cannot
	// beat 7% a year is not worth the risk.
	FDReturn = 0.07

	minProfitFactor = 1.0
	minSharpe       = 0.5
	maxDrawdownCap  = 0.35

	investMinCAGR         = 0.12
	investMinSharpe       = 1.0
	investMinSortino      = 1.2
	investMaxDrawdown     = 0.20
	investMaxConsecLosses = 5
)

// Metrics is the flat bundle of scalar results derived from one backtest
// run. It is recomputed fresh each run and never mutated incrementally.
type Metrics struct {
	CAGR                 float64
	Volatility           float64
	Sharpe               float64
	Sortino              float64
	ProfitFactor         float64
	TimeInMarket         float64
	AvgTradeDurationDays float64
	MaxConsecutiveLosses int
	MaxDrawdown          float64
	TotalPnL             float64
}

// RuleCheck reports one hard gate outcome for explainability.
type RuleCheck struct {
	Name      string
	Passed    bool
	Value     float64
	Threshold float64
}

// Result is the classifier output.
type Result struct {
	Category      Category
	Score         float64
	Reasons       []string
	Checks        []RuleCheck
	Contributions map[string]float64
	Metrics       Metrics
}

// Engine is the rule-based classifier
type Engine struct{}

// NewEngine creates a new decision engine
func NewEngine() *Engine {
	return &Engine{}
}

// Evaluate maps a metrics bundle to a recommendation. Hard-reject gates
// run first in a fixed order; the first tripped gate short-circuits
// scoring. Otherwise a weighted score out of 100 is computed, each term
// capped at its own weight, and the category is classified independently
// of the score.
func (e *Engine) Evaluate(m Metrics) Result {
	checks := e.ruleChecks(m)
	contributions := e.contributions(m)

	for _, c := range checks {
		if !c.Passed {
			return Result{
				Category:      CategoryReject,
				Score:         0.0,
				Reasons:       []string{c.rejectReason()},
				Checks:        checks,
				Contributions: contributions,
				Metrics:       m,
			}
		}
	}

	var score float64
	for _, v := range contributions {
		score += v
	}

	var category Category
	reasons := []string{}
	if m.CAGR >= investMinCAGR &&
		m.Sharpe >= investMinSharpe &&
		m.Sortino >= investMinSortino &&
		m.MaxDrawdown <= investMaxDrawdown &&
		m.MaxConsecutiveLosses <= investMaxConsecLosses {
		category = CategoryInvest
		reasons = append(reasons, "Strong risk-adjusted performance across key metrics")
	} else {
		category = CategoryCaution
		reasons = append(reasons, "Returns are positive but risk metrics are mixed")
	}

	reasons = append(reasons,
		fmt.Sprintf("CAGR: %.2f%%", m.CAGR*100),
		fmt.Sprintf("Sharpe Ratio: %.2f", m.Sharpe),
		fmt.Sprintf("Sortino Ratio: %.2f", m.Sortino),
		fmt.Sprintf("Max Drawdown: %.2f%%", m.MaxDrawdown*100),
		fmt.Sprintf("Profit Factor: %.2f", m.ProfitFactor),
		fmt.Sprintf("Max Consecutive Losses: %d", m.MaxConsecutiveLosses),
	)

	return Result{
		Category:      category,
		Score:         math.Round(score*10) / 10,
		Reasons:       reasons,
		Checks:        checks,
		Contributions: contributions,
		Metrics:       m,
	}
}

// ruleChecks evaluates the hard-reject gates in their fixed order.
func (e *Engine) ruleChecks(m Metrics) []RuleCheck {
	return []RuleCheck{
		{Name: "cagr_above_fd", Passed: m.CAGR >= FDReturn, Value: m.CAGR, Threshold: FDReturn},
		{Name: "profit_factor_above_1", Passed: m.ProfitFactor >= minProfitFactor, Value: m.ProfitFactor, Threshold: minProfitFactor},
		{Name: "sharpe_acceptable", Passed: m.Sharpe >= minSharpe, Value: m.Sharpe, Threshold: minSharpe},
		{Name: "drawdown_within_limit", Passed: m.MaxDrawdown <= maxDrawdownCap, Value: m.MaxDrawdown, Threshold: maxDrawdownCap},
	}
}

// contributions computes the weighted score terms, each capped at its
// weight so no single metric can dominate past its share.
func (e *Engine) contributions(m Metrics) map[string]float64 {
	return map[string]float64{
		"cagr":          clamp01(m.CAGR/0.25) * 30,
		"sharpe":        clamp01(m.Sharpe/2.0) * 25,
		"sortino":       clamp01(m.Sortino/2.5) * 20,
		"drawdown":      (1 - clamp01(m.MaxDrawdown/0.35)) * 15,
		"profit_factor": clamp01(m.ProfitFactor/2.0) * 10,
	}
}

func (c RuleCheck) rejectReason() string {
	switch c.Name {
	case "cagr_above_fd":
		return "CAGR below FD return"
	case "profit_factor_above_1":
		return "Profit factor below 1 (losing edge)"
	case "sharpe_acceptable":
		return "Sharpe ratio below acceptable risk threshold"
	case "drawdown_within_limit":
		return "Maximum drawdown exceeds 35%"
	}
	return "Rejected"
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
