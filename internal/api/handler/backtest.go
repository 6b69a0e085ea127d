// internal/api/handler/backtest.go
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/stockmcp/stockmcp/internal/api/job"
	"github.com/stockmcp/stockmcp/internal/api/response"
	"github.com/stockmcp/stockmcp/internal/backtest"
	"github.com/stockmcp/stockmcp/internal/core"
	"github.com/stockmcp/stockmcp/internal/metrics"
	"github.com/stockmcp/stockmcp/internal/provider"
	"github.com/stockmcp/stockmcp/internal/strategy"
)

const backtestTimeout = 5 * time.Minute

// BacktestRequest is the request body for running a backtest. Start is
// inclusive, End exclusive; both are calendar dates. Strategy and
// InitialCash fall back to configured defaults when omitted.
type BacktestRequest struct {
	Symbol      string  `json:"symbol"`
	Strategy    string  `json:"strategy,omitempty"`
	Start       string  `json:"start"`
	End         string  `json:"end"`
	InitialCash float64 `json:"initial_cash,omitempty"`
}

// BacktestHandler serves the backtest API routes.
type BacktestHandler struct {
	provider    provider.MarketDataProvider
	strategies  *strategy.Engine
	runner      *backtest.Engine
	jobs        *job.Store
	metrics     *metrics.Registry
	defaultName string
	initialCash float64
	logger      *zap.Logger
}

// NewBacktestHandler creates a new backtest handler. defaultStrategy
// and initialCash are used when the request leaves them blank.
func NewBacktestHandler(
	p provider.MarketDataProvider,
	strategies *strategy.Engine,
	runner *backtest.Engine,
	jobs *job.Store,
	reg *metrics.Registry,
	defaultStrategy string,
	initialCash float64,
	logger *zap.Logger,
) *BacktestHandler {
	return &BacktestHandler{
		provider:    p,
		strategies:  strategies,
		runner:      runner,
		jobs:        jobs,
		metrics:     reg,
		defaultName: defaultStrategy,
		initialCash: initialCash,
		logger:      logger,
	}
}

// RunSync runs a backtest inline and returns the full report.
func (h *BacktestHandler) RunSync(w http.ResponseWriter, r *http.Request) {
	req, strat, start, end, err := h.parseRequest(r)
	if err != nil {
		response.Error(w, response.StatusFor(err), err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), backtestTimeout)
	defer cancel()

	view, err := h.execute(ctx, req, strat, start, end)
	if err != nil {
		response.Error(w, response.StatusFor(err), err)
		return
	}

	response.JSON(w, http.StatusOK, view)
}

// Create starts an async backtest job and returns its ID.
func (h *BacktestHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, strat, start, end, err := h.parseRequest(r)
	if err != nil {
		response.Error(w, response.StatusFor(err), err)
		return
	}

	j := h.jobs.Create("backtest")
	h.metrics.SetJobsActive("backtest", h.jobs.Active())

	// Copy the fields before starting the goroutine to avoid a race
	jobID := j.ID
	status := j.Status

	go h.runJob(jobID, req, strat, start, end)

	response.JSON(w, http.StatusAccepted, map[string]any{
		"job_id": jobID,
		"status": status,
	})
}

// GetStatus returns the status of a backtest job.
func (h *BacktestHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	j, err := h.jobs.Get(r.PathValue("id"))
	if err != nil {
		response.Error(w, response.StatusFor(err), err)
		return
	}

	resp := map[string]any{
		"job_id":   j.ID,
		"status":   j.Status,
		"progress": j.Progress,
	}

	if j.Status == job.StatusComplete {
		resp["result"] = j.Result
	}
	if j.Status == job.StatusFailed && j.Error != nil {
		resp["error"] = map[string]string{
			"code":    j.Error.Code,
			"message": j.Error.Message,
		}
	}

	response.JSON(w, http.StatusOK, resp)
}

// parseRequest decodes and validates the request body, resolving the
// strategy and date range.
func (h *BacktestHandler) parseRequest(r *http.Request) (BacktestRequest, strategy.Strategy, time.Time, time.Time, error) {
	var req BacktestRequest
	var zero time.Time

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, nil, zero, zero, core.WrapError(core.ErrInvalidRequest, err)
	}

	if req.Strategy == "" {
		req.Strategy = h.defaultName
	}
	if req.InitialCash == 0 {
		req.InitialCash = h.initialCash
	}
	if req.InitialCash < 0 {
		return req, nil, zero, zero, core.WrapError(core.ErrInvalidRequest, nil)
	}

	start, err := time.Parse(dateLayout, req.Start)
	if err != nil {
		return req, nil, zero, zero, core.WrapError(core.ErrInvalidRequest, err)
	}
	end, err := time.Parse(dateLayout, req.End)
	if err != nil {
		return req, nil, zero, zero, core.WrapError(core.ErrInvalidRequest, err)
	}

	if err := provider.ValidateRequest(req.Symbol, start, end); err != nil {
		return req, nil, zero, zero, err
	}

	strat, ok := h.strategies.Get(req.Strategy)
	if !ok {
		return req, nil, zero, zero, core.ErrStrategyNotFound
	}

	return req, strat, start, end, nil
}

// execute fetches the bars and runs the backtest, recording business
// metrics either way.
func (h *BacktestHandler) execute(ctx context.Context, req BacktestRequest, strat strategy.Strategy, start, end time.Time) (ResultView, error) {
	began := time.Now()

	bars, err := h.provider.FetchDailyBars(ctx, req.Symbol, start, end)
	if err != nil {
		h.metrics.RecordBacktest("error", time.Since(began).Seconds())
		return ResultView{}, err
	}

	res := h.runner.Run(bars, strat, req.InitialCash)
	res.Symbol = req.Symbol
	res.Strategy = strat.Name()

	h.metrics.RecordBacktest("success", time.Since(began).Seconds())
	h.metrics.RecordDecision(string(res.Decision.Category))
	h.metrics.RecordTrades(res.TotalTrades)

	h.logger.Info("backtest complete",
		zap.String("symbol", req.Symbol),
		zap.String("strategy", strat.Name()),
		zap.Int("bars", len(bars)),
		zap.Int("trades", res.TotalTrades),
		zap.String("category", string(res.Decision.Category)))

	return NewResultView(res), nil
}

// runJob executes an async backtest and updates the job record. The job
// may have been evicted or purged while the run was in flight; the
// update then lands nowhere and is logged as lost.
func (h *BacktestHandler) runJob(jobID string, req BacktestRequest, strat strategy.Strategy, start, end time.Time) {
	h.updateJob(jobID, func(j *job.Job) {
		j.Status = job.StatusRunning
	})

	ctx, cancel := context.WithTimeout(context.Background(), backtestTimeout)
	defer cancel()

	view, err := h.execute(ctx, req, strat, start, end)

	if err != nil {
		var coreErr *core.Error
		if !errors.As(err, &coreErr) {
			coreErr = core.WrapError(core.ErrProviderFailed, err)
		}
		h.updateJob(jobID, func(j *job.Job) {
			j.Status = job.StatusFailed
			j.Error = coreErr
		})
		h.metrics.SetJobsActive("backtest", h.jobs.Active())
		return
	}

	h.updateJob(jobID, func(j *job.Job) {
		j.Status = job.StatusComplete
		j.Progress = 100
		j.Result = view
	})
	h.metrics.SetJobsActive("backtest", h.jobs.Active())
}

func (h *BacktestHandler) updateJob(jobID string, fn func(*job.Job)) {
	if err := h.jobs.Update(jobID, fn); err != nil {
		h.logger.Warn("job update lost", zap.String("job_id", jobID), zap.Error(err))
	}
}
