package currency

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// RateSource fetches one exchange rate for a pair such as "USDCAD".
type RateSource interface {
	FetchRate(ctx context.Context, pair string) (float64, error)
}

// SnapshotSink receives every table the service publishes.
type SnapshotSink interface {
	RecordRates(ctx context.Context, t *Table) error
}

// RateService owns the shared rate table. Readers always see a complete
// snapshot; a refresh builds a new table and swaps it in.
type RateService struct {
	source     RateSource
	currencies []string
	ttl        time.Duration
	sink       SnapshotSink
	logger     *zap.Logger

	current   atomic.Pointer[Table]
	refreshMu sync.Mutex
	now       func() time.Time
}

// NewRateService creates a service that tracks the given currencies against USD.
func NewRateService(source RateSource, currencies []string, ttl time.Duration, logger *zap.Logger) *RateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	seen := map[string]bool{Base: true}
	var tracked []string
	for _, c := range currencies {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		tracked = append(tracked, c)
	}
	return &RateService{
		source:     source,
		currencies: tracked,
		ttl:        ttl,
		logger:     logger,
		now:        time.Now,
	}
}

// WithSink registers a recorder for published snapshots.
func (s *RateService) WithSink(sink SnapshotSink) *RateService {
	s.sink = sink
	return s
}

// Current returns the live table, refreshing it first when missing or older than the TTL.
func (s *RateService) Current(ctx context.Context) *Table {
	t := s.current.Load()
	if t != nil && (s.ttl <= 0 || s.now().Sub(t.FetchedAt) < s.ttl) {
		return t
	}
	return s.Refresh(ctx)
}

// Refresh fetches every tracked pair. Any failure publishes the default table instead.
func (s *RateService) Refresh(ctx context.Context) *Table {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	t, err := s.fetchAll(ctx)
	if err != nil {
		s.logger.Warn("exchange rate refresh failed, using default table", zap.Error(err))
		t = DefaultTable()
		t.FetchedAt = s.now()
	} else {
		s.logger.Info("exchange rates refreshed", zap.Int("currencies", len(t.Rates)))
	}
	s.current.Store(t)

	if s.sink != nil {
		if err := s.sink.RecordRates(ctx, t); err != nil {
			s.logger.Error("record exchange rates", zap.Error(err))
		}
	}
	return t
}

func (s *RateService) fetchAll(ctx context.Context) (*Table, error) {
	if s.source == nil {
		return nil, fmt.Errorf("no rate source configured")
	}
	rates := Rates{Base: 1.0}
	for _, code := range s.currencies {
		pair := Base + code
		v, err := s.source.FetchRate(ctx, pair)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", pair, err)
		}
		rates[code] = v
	}
	if err := rates.Validate(); err != nil {
		return nil, err
	}
	return &Table{Rates: rates, FetchedAt: s.now(), Source: SourceLive}, nil
}
