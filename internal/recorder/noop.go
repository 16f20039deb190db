package recorder

import (
	"context"

	"ValueScope/internal/currency"
)

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRates(context.Context, *currency.Table) error { return nil }
func (n *NoopRecorder) RecordDigest(context.Context, *DigestEvent) error   { return nil }
func (n *NoopRecorder) RecentRates(context.Context, string, int) ([]RatePoint, error) {
	return nil, nil
}
func (n *NoopRecorder) Close() error { return nil }
