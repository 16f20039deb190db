package collector

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"ValueScope/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Quote      *model.Quote
	History    *model.PriceSeries
	QuoteErr   error
	HistoryErr error
	Rates      map[string]float64 // pair → rate, e.g. "USDCAD"
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchQuote(_ context.Context, ticker string) (*model.Quote, error) {
	if m.QuoteErr != nil {
		return nil, m.QuoteErr
	}
	if m.Quote != nil {
		q := *m.Quote
		return &q, nil
	}
	return &model.Quote{
		Symbol:    strings.ToUpper(ticker),
		Name:      strings.ToUpper(ticker),
		Currency:  "USD",
		QuoteType: "EQUITY",
		Price:     model.Float(100),
	}, nil
}

func (m *MockFetcher) FetchHistory(_ context.Context, ticker string, rng model.HistoryRange) (*model.PriceSeries, error) {
	if m.HistoryErr != nil {
		return nil, m.HistoryErr
	}
	if m.History != nil {
		return m.History, nil
	}
	years := 10
	switch rng {
	case model.Range1d:
		years = 0
	case model.Range1y:
		years = 1
	case model.Range5y:
		years = 5
	}
	return GenerateMockSeries(strings.ToUpper(ticker), "USD", 100, years, time.Now()), nil
}

func (m *MockFetcher) FetchRate(_ context.Context, pair string) (float64, error) {
	if v, ok := m.Rates[pair]; ok {
		return v, nil
	}
	return 0, fmt.Errorf("mock: %w: %s", ErrNoData, pair)
}

// GenerateMockSeries builds weekday closes ending at end, growing about 8% a
// year with a small oscillation.
func GenerateMockSeries(symbol, currency string, lastPrice float64, years int, end time.Time) *model.PriceSeries {
	start := end.AddDate(-years, 0, 0)
	if years == 0 {
		start = end.AddDate(0, 0, -1)
	}
	total := end.Sub(start).Hours() / 24 / 365.25
	var points []model.PricePoint
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		elapsed := d.Sub(start).Hours() / 24 / 365.25
		p := lastPrice * math.Pow(1.08, elapsed-total) * (1 + 0.01*math.Sin(float64(d.YearDay())))
		points = append(points, model.PricePoint{Time: d, Close: p})
	}
	return model.NewPriceSeries(symbol, currency, points)
}

// Snapshot is the raw market data behind one analysis.
type Snapshot struct {
	Quote   *model.Quote
	History *model.PriceSeries // full history, may be empty
	Recent  *model.PriceSeries // trailing five years, may be empty
	// HistoryErr is the provider failure behind an empty History, if any.
	HistoryErr error
}

// Collector fetches the quote and history for a ticker, degrading history
// failures to an empty series.
type Collector struct {
	Provider Provider
	logger   *zap.Logger
}

// NewCollector creates a new Collector.
func NewCollector(provider Provider, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{Provider: provider, logger: logger}
}

// Collect fetches market data. Only quote failures and history failures that
// mean the ticker is unusable (not found, rate limited) are returned.
func (c *Collector) Collect(ctx context.Context, ticker string) (*Snapshot, error) {
	q, err := c.Provider.FetchQuote(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("fetch quote: %w", err)
	}

	snap := &Snapshot{Quote: q}
	snap.History, err = c.Provider.FetchHistory(ctx, ticker, model.RangeMax)
	switch {
	case err == nil:
	case errors.Is(err, ErrRateLimited):
		return nil, fmt.Errorf("fetch history: %w", err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return nil, err
	default:
		c.logger.Warn("history unavailable, continuing with empty series",
			zap.String("ticker", ticker), zap.Error(err))
		snap.History = &model.PriceSeries{Symbol: strings.ToUpper(ticker), Currency: q.Currency}
		snap.HistoryErr = fmt.Errorf("fetch history: %w", err)
	}
	if snap.History.Len() == 0 {
		snap.Recent = snap.History
		return snap, nil
	}

	last, _ := snap.History.Last()
	snap.Recent = &model.PriceSeries{
		Symbol:    snap.History.Symbol,
		Currency:  snap.History.Currency,
		Points:    snap.History.Since(last.Time.AddDate(-5, 0, 0)),
		FetchedAt: snap.History.FetchedAt,
	}

	if q.Currency == "" && snap.History.Currency != "" {
		q.Currency = snap.History.Currency
	}
	return snap, nil
}
