package recorder

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"ValueScope/internal/currency"
)

func openTestDB(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "audit.db"), nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestSQLiteRecorder_RatesRoundTrip(t *testing.T) {
	r := openTestDB(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, cad := range []float64{1.35, 1.36, 1.37} {
		tbl := &currency.Table{
			Rates:     currency.Rates{"USD": 1, "CAD": cad},
			FetchedAt: base.Add(time.Duration(i) * time.Hour),
			Source:    currency.SourceLive,
		}
		if err := r.RecordRates(ctx, tbl); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	if err := r.RecordRates(ctx, currency.DefaultTable()); err != nil {
		t.Fatalf("record default: %v", err)
	}

	got, err := r.RecentRates(ctx, "cad", 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 points, got %d", len(got))
	}
	if got[0].Source != currency.SourceDefault || got[0].Rate != 1.40 {
		t.Errorf("expected newest default snapshot first, got %+v", got[0])
	}
	if got[1].Rate != 1.37 {
		t.Errorf("expected 1.37 second, got %+v", got[1])
	}
}

func TestSQLiteRecorder_Digest(t *testing.T) {
	r := openTestDB(t)
	if err := r.RecordDigest(context.Background(), &DigestEvent{Tickers: 3, Failures: 1, Sent: true}); err != nil {
		t.Fatalf("record digest: %v", err)
	}
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM digest_runs WHERE sent = 1`).Scan(&n); err != nil || n != 1 {
		t.Errorf("expected one sent digest, got %d (%v)", n, err)
	}
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	if err := r.RecordRates(context.Background(), currency.DefaultTable()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if pts, err := r.RecentRates(context.Background(), "CAD", 5); err != nil || pts != nil {
		t.Errorf("expected nothing, got %v %v", pts, err)
	}
}
