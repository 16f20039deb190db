package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	yfgo "github.com/komsit37/yf-go"
	"go.uber.org/zap"

	"ValueScope/internal/model"
)

const (
	defaultChartURL   = "https://query1.finance.yahoo.com/v8/finance/chart"
	defaultSummaryURL = "https://query2.finance.yahoo.com/v10/finance/quoteSummary"
	defaultUserAgent  = "Mozilla/5.0"
)

// YahooFetcher implements Provider and currency.RateSource on Yahoo Finance.
type YahooFetcher struct {
	Client     *http.Client
	ChartURL   string
	SummaryURL string
	UserAgent  string
	MaxRetries int
	Backoff    time.Duration
	SymbolMap  map[string]string // maps user aliases to Yahoo tickers

	// Summaries supplies the quoteSummary document; the direct SummaryURL
	// request is the fallback. Nil uses SummaryURL only.
	Summaries SummarySource
	// Prices is consulted when quoteSummary omits a price. Nil disables it.
	Prices PriceLookup

	logger *zap.Logger
}

// Options configures NewYahooFetcher.
type Options struct {
	ProxyURL   string
	Timeout    time.Duration
	MaxRetries int
	UserAgent  string
}

// NewYahooFetcher creates a Yahoo Finance fetcher with optional proxy support.
func NewYahooFetcher(opts Options, logger *zap.Logger) *YahooFetcher {
	transport := &http.Transport{}
	if opts.ProxyURL != "" {
		if u, err := url.Parse(opts.ProxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	yf := yfgo.NewClient(yfgo.WithHTTPClient(&http.Client{
		Timeout:   opts.Timeout,
		Transport: transport,
	}))
	return &YahooFetcher{
		Client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		ChartURL:   defaultChartURL,
		SummaryURL: defaultSummaryURL,
		UserAgent:  opts.UserAgent,
		MaxRetries: opts.MaxRetries,
		Backoff:    time.Second,
		SymbolMap: map[string]string{
			"SPX":   "^GSPC",
			"SP500": "^GSPC",
		},
		Summaries: &yfSummarySource{client: yf},
		Prices:    &yfPriceLookup{client: yf},
		logger: logger,
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// get performs a GET and classifies failures. 429 responses are retried with
// exponential backoff before ErrRateLimited is returned.
func (f *YahooFetcher) get(ctx context.Context, rawURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= f.MaxRetries; attempt++ {
		body, err := f.getOnce(ctx, rawURL)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !isRateLimited(err) || attempt == f.MaxRetries {
			break
		}
		backoff := f.Backoff * time.Duration(1<<uint(attempt))
		f.logger.Warn("yahoo rate limited, retrying",
			zap.Int("attempt", attempt+1),
			zap.Int("max_attempts", f.MaxRetries+1),
			zap.Duration("backoff", backoff))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
	return nil, lastErr
}

func (f *YahooFetcher) getOnce(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.UserAgent)

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrProviderUnavailable, err)
	}
	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrTickerNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, ErrRateLimited
	default:
		return nil, fmt.Errorf("%w: status %d, body: %s", ErrProviderUnavailable, resp.StatusCode, truncate(string(body), 200))
	}
}

func isRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// yahooChart is the response structure from the chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency           string   `json:"currency"`
				Symbol             string   `json:"symbol"`
				InstrumentType     string   `json:"instrumentType"`
				RegularMarketPrice *float64 `json:"regularMarketPrice"`
				LongName           string   `json:"longName"`
				ShortName          string   `json:"shortName"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (f *YahooFetcher) fetchChart(ctx context.Context, symbol, interval string, rng model.HistoryRange) (*yahooChart, error) {
	u := fmt.Sprintf("%s/%s?interval=%s&range=%s",
		f.ChartURL, url.PathEscape(f.yahooSymbol(symbol)), interval, rng)

	body, err := f.get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("yahoo chart %s: %w", symbol, err)
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo chart %s: %w: decode: %v", symbol, ErrProviderUnavailable, err)
	}
	if e := chart.Chart.Error; e != nil {
		if strings.EqualFold(e.Code, "Not Found") {
			return nil, fmt.Errorf("yahoo chart %s: %w", symbol, ErrTickerNotFound)
		}
		return nil, fmt.Errorf("yahoo chart %s: %w: %s", symbol, ErrProviderUnavailable, e.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, fmt.Errorf("yahoo chart %s: %w", symbol, ErrNoData)
	}
	return &chart, nil
}

// FetchHistory returns daily closes for rng. Null closes (holidays) are skipped.
func (f *YahooFetcher) FetchHistory(ctx context.Context, ticker string, rng model.HistoryRange) (*model.PriceSeries, error) {
	chart, err := f.fetchChart(ctx, ticker, "1d", rng)
	if err != nil {
		return nil, err
	}
	result := chart.Chart.Result[0]
	var points []model.PricePoint
	if len(result.Indicators.Quote) > 0 {
		closes := result.Indicators.Quote[0].Close
		for i, ts := range result.Timestamp {
			if i >= len(closes) || closes[i] == nil {
				continue
			}
			points = append(points, model.PricePoint{Time: time.Unix(ts, 0).UTC(), Close: *closes[i]})
		}
	}
	series := model.NewPriceSeries(strings.ToUpper(ticker), result.Meta.Currency, points)
	if series.Len() == 0 {
		return nil, fmt.Errorf("yahoo chart %s: %w", ticker, ErrNoData)
	}
	return series, nil
}

// FetchRate returns the latest close of the "<pair>=X" chart, e.g. USDCAD.
func (f *YahooFetcher) FetchRate(ctx context.Context, pair string) (float64, error) {
	series, err := f.FetchHistory(ctx, pair+"=X", model.Range1d)
	if err != nil {
		return 0, err
	}
	last, _ := series.Last()
	return last.Close, nil
}
