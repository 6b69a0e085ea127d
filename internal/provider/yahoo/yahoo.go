package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/stockmcp/stockmcp/internal/core"
	"github.com/stockmcp/stockmcp/internal/provider"
)

const (
	baseURL        = "https://query1.finance.yahoo.com/v8/finance/chart"
	defaultTimeout = 10 * time.Second
)

// validSymbol matches stock symbols like AAPL, MSFT, WIPRO.NS, 0700.HK
var validSymbol = regexp.MustCompile(`^[A-Za-z0-9]{1,10}(\.[A-Za-z]{1,4})?$`)

// Yahoo implements the Yahoo Finance market data provider
type Yahoo struct {
	client  *http.Client
	baseURL string
}

// Option configures the provider.
type Option func(*Yahoo)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(y *Yahoo) { y.client = client }
}

// WithBaseURL overrides the chart API endpoint, used by tests.
func WithBaseURL(url string) Option {
	return func(y *Yahoo) { y.baseURL = url }
}

// New creates a new Yahoo provider
func New(opts ...Option) *Yahoo {
	y := &Yahoo{
		client: &http.Client{
			Timeout: defaultTimeout,
		},
		baseURL: baseURL,
	}
	for _, opt := range opts {
		opt(y)
	}
	return y
}

func (y *Yahoo) Name() string {
	return "yahoo"
}

// FetchDailyBars fetches daily OHLCV candles for symbol in [start, end).
// Network and upstream failures are returned unchanged apart from the
// PROVIDER_FAILED wrapper; the provider never retries.
func (y *Yahoo) FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]core.OHLCV, error) {
	if err := provider.ValidateRequest(symbol, start, end); err != nil {
		return nil, err
	}
	if !validSymbol.MatchString(symbol) {
		return nil, core.WrapError(core.ErrInvalidRequest,
			fmt.Errorf("invalid symbol format: %s", symbol))
	}

	url := fmt.Sprintf("%s/%s?interval=1d&period1=%d&period2=%d",
		y.baseURL, normalizeSymbol(symbol), start.Unix(), end.Unix())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, core.WrapError(core.ErrProviderFailed, err)
	}

	resp, err := y.client.Do(req)
	if err != nil {
		return nil, core.WrapError(core.ErrProviderFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, core.WrapError(core.ErrProviderFailed,
			fmt.Errorf("unexpected status: %d", resp.StatusCode))
	}

	var result chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, core.WrapError(core.ErrProviderFailed,
			fmt.Errorf("decoding response: %w", err))
	}

	if result.Chart.Error != nil {
		return nil, core.WrapError(core.ErrProviderFailed,
			fmt.Errorf("yahoo error: %s", result.Chart.Error.Description))
	}

	if len(result.Chart.Result) == 0 {
		return []core.OHLCV{}, nil
	}

	r := result.Chart.Result[0]
	if len(r.Indicators.Quote) == 0 {
		return []core.OHLCV{}, nil
	}

	timestamps := r.Timestamp
	quotes := r.Indicators.Quote[0]

	bars := make([]core.OHLCV, 0, len(timestamps))
	for i, ts := range timestamps {
		if !quotes.complete(i) {
			continue // Skip missing data
		}
		day := time.Unix(int64(ts), 0).UTC()
		bars = append(bars, core.OHLCV{
			Symbol: symbol,
			Date:   time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC),
			Open:   *quotes.Open[i],
			High:   *quotes.High[i],
			Low:    *quotes.Low[i],
			Close:  *quotes.Close[i],
			Volume: int64(*quotes.Volume[i]),
		})
	}

	return bars, nil
}

// normalizeSymbol maps exchange suffix aliases to Yahoo's format
func normalizeSymbol(symbol string) string {
	// Shanghai stocks: 600519.SH -> 600519.SS
	if strings.HasSuffix(symbol, ".SH") {
		return strings.TrimSuffix(symbol, ".SH") + ".SS"
	}
	return symbol
}

// Yahoo API response types
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Timestamp  []int      `json:"timestamp"`
	Indicators indicators `json:"indicators"`
}

type indicators struct {
	Quote []quoteIndicator `json:"quote"`
}

type quoteIndicator struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*int     `json:"volume"`
}

// complete reports whether every field of row i is present. Yahoo uses
// null entries for halted or partial days in any of the five arrays.
func (q quoteIndicator) complete(i int) bool {
	if i >= len(q.Open) || i >= len(q.High) || i >= len(q.Low) ||
		i >= len(q.Close) || i >= len(q.Volume) {
		return false
	}
	return q.Open[i] != nil && q.High[i] != nil && q.Low[i] != nil &&
		q.Close[i] != nil && q.Volume[i] != nil
}
