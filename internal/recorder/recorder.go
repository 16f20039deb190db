package recorder

import (
	"context"
	"time"

	"ValueScope/internal/currency"
)

// RatePoint is one stored rate observation.
type RatePoint struct {
	Time     time.Time
	Currency string
	Rate     float64
	Source   string
}

// DigestEvent records one scheduled watchlist digest.
type DigestEvent struct {
	Tickers  int
	Failures int
	Sent     bool
	Note     string
}

// Recorder keeps an audit trail of exchange-rate snapshots and digests.
type Recorder interface {
	RecordRates(ctx context.Context, t *currency.Table) error
	RecordDigest(ctx context.Context, evt *DigestEvent) error
	RecentRates(ctx context.Context, code string, limit int) ([]RatePoint, error)
	Close() error
}
