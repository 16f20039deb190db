package collector

import (
	"context"
	"errors"

	"ValueScope/internal/model"
)

var (
	ErrTickerNotFound      = errors.New("ticker not found")
	ErrRateLimited         = errors.New("rate limited by data provider")
	ErrProviderUnavailable = errors.New("data provider unavailable")
	ErrNoData              = errors.New("no data returned")
)

// Provider fetches quotes and price history for a ticker.
type Provider interface {
	FetchQuote(ctx context.Context, ticker string) (*model.Quote, error)
	FetchHistory(ctx context.Context, ticker string, rng model.HistoryRange) (*model.PriceSeries, error)
	Name() string
}
