package analysis

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"testing"
	"time"

	"ValueScope/internal/annotator"
	"ValueScope/internal/collector"
	"ValueScope/internal/currency"
	"ValueScope/internal/model"
	"ValueScope/internal/simulation"
)

type fixedRates struct{ table *currency.Table }

func (f fixedRates) Current(context.Context) *currency.Table { return f.table }

type stubAnnotator struct {
	ann *model.Annotation
	err error
}

func (s stubAnnotator) Annotate(context.Context, annotator.Input) (*model.Annotation, error) {
	return s.ann, s.err
}

var now = time.Date(2024, 6, 28, 12, 0, 0, 0, time.UTC)

func request(ticker string) model.Request {
	return model.Request{
		Ticker:          ticker,
		DisplayCurrency: "USD",
		Language:        model.LangEN,
		HorizonYears:    10,
		InitialAmount:   1000,
		MonthlyAmount:   200,
		Now:             now,
	}
}

func equityQuote() *model.Quote {
	return &model.Quote{
		Symbol:            "ACME",
		Name:              "Acme Corp",
		Currency:          "USD",
		QuoteType:         "EQUITY",
		Price:             model.Float(100),
		ForwardPE:         model.Float(18),
		ReturnOnEquity:    model.Float(0.21),
		ForwardEPS:        model.Float(5),
		OperatingCashflow: model.Float(2e9),
		SharesOutstanding: model.Float(3e8),
		EarningsGrowth:    model.Float(0.09),
		RevenueGrowth:     model.Float(0.07),
	}
}

func newAnalyzer(m *collector.MockFetcher, ann annotator.Annotator) *Analyzer {
	a := New(m, fixedRates{currency.DefaultTable()}, ann, nil)
	a.NewRandom = func() simulation.Normal { return rand.New(rand.NewSource(1)) }
	return a
}

func TestRun_FullReport(t *testing.T) {
	m := &collector.MockFetcher{
		Quote:   equityQuote(),
		History: collector.GenerateMockSeries("ACME", "USD", 100, 15, now),
	}
	r, err := newAnalyzer(m, nil).Run(context.Background(), request("acme"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Ticker != "ACME" || r.RunID == "" {
		t.Errorf("unexpected report header: %+v", r)
	}
	if r.Valuation.Graham == nil || r.Valuation.DCF == nil || r.Valuation.Verdict == model.VerdictNotApplicable {
		t.Errorf("expected both models and a verdict, got %+v", r.Valuation)
	}
	if r.Replay == nil || r.StartYear != 2009 {
		t.Errorf("expected replay from listing year 2009, got %v (notes %v)", r.StartYear, r.Notes)
	}
	if r.Projection == nil || len(r.Projection.Paths) != 3 {
		t.Fatalf("expected three projection paths, notes %v", r.Notes)
	}
	if r.Projection.FinalPrincipal() != 25000 {
		t.Errorf("expected principal 25000, got %v", r.Projection.FinalPrincipal())
	}
	if r.Overview.VolatilityPct == nil || r.Overview.CAGRPct == nil || r.Overview.ListingYear != 2009 {
		t.Errorf("incomplete overview: %+v", r.Overview)
	}
	if r.Overview.High52w == nil || r.Overview.Position52wPct == nil {
		t.Errorf("expected 52-week range from history, got %+v", r.Overview)
	}
	if r.Overview.ROEPct == nil || *r.Overview.ROEPct != 21 {
		t.Errorf("expected ROE 21%%, got %v", r.Overview.ROEPct)
	}
}

func TestRun_EmptyHistoryDegradesGracefully(t *testing.T) {
	q := equityQuote()
	q.OperatingCashflow = nil
	q.ForwardEPS = nil
	m := &collector.MockFetcher{Quote: q, HistoryErr: collector.ErrNoData}
	r, err := newAnalyzer(m, nil).Run(context.Background(), request("ACME"))
	if err != nil {
		t.Fatalf("expected graceful degradation, got %v", err)
	}
	if r.Replay != nil || r.Projection != nil {
		t.Error("expected replay and projection to be absent")
	}
	for _, s := range []string{model.SectionReplay, model.SectionProjection, model.SectionValuation} {
		if r.Notes[s] == "" {
			t.Errorf("expected note for %s", s)
		}
	}
	if r.Valuation.Verdict != model.VerdictNotApplicable {
		t.Errorf("expected not applicable, got %s", r.Valuation.Verdict)
	}
}

func TestRun_HistoryOutageIsDistinct(t *testing.T) {
	m := &collector.MockFetcher{Quote: equityQuote(), HistoryErr: collector.ErrProviderUnavailable}
	req := request("ACME")
	req.Language = model.LangKO
	r, err := newAnalyzer(m, nil).Run(context.Background(), req)
	if err != nil {
		t.Fatalf("expected graceful degradation, got %v", err)
	}
	want := UserMessage(collector.ErrProviderUnavailable, model.LangKO)
	for _, s := range []string{model.SectionReplay, model.SectionProjection} {
		if r.Notes[s] != want {
			t.Errorf("%s: expected %q, got %q", s, want, r.Notes[s])
		}
	}
	if !r.Retryable {
		t.Error("expected retryable report")
	}

	m = &collector.MockFetcher{Quote: equityQuote(), HistoryErr: collector.ErrNoData}
	r, err = newAnalyzer(m, nil).Run(context.Background(), request("ACME"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Retryable || r.Notes[model.SectionReplay] != "no price history" {
		t.Errorf("expected permanent no-history note, got retryable=%v notes=%v", r.Retryable, r.Notes)
	}
}

func TestRun_FundSkipsValuation(t *testing.T) {
	q := equityQuote()
	q.QuoteType = "ETF"
	m := &collector.MockFetcher{Quote: q, History: collector.GenerateMockSeries("SPY", "USD", 500, 6, now)}
	r, err := newAnalyzer(m, nil).Run(context.Background(), request("SPY"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Valuation.Verdict != model.VerdictNotApplicable || r.Valuation.Graham != nil || r.Valuation.DCF != nil {
		t.Errorf("expected valuation skipped, got %+v", r.Valuation)
	}
	if r.Projection == nil || r.Replay == nil {
		t.Error("expected replay and projection for a fund")
	}
}

func TestRun_NegativeEPSKeepsDCF(t *testing.T) {
	q := equityQuote()
	q.ForwardEPS = model.Float(-2)
	m := &collector.MockFetcher{Quote: q, History: collector.GenerateMockSeries("ACME", "USD", 100, 5, now)}
	r, err := newAnalyzer(m, nil).Run(context.Background(), request("ACME"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Valuation.Graham != nil || r.Valuation.DCF == nil {
		t.Errorf("expected DCF only, got %+v", r.Valuation)
	}
}

func TestRun_AnnotatorMultiplierAndFailure(t *testing.T) {
	history := collector.GenerateMockSeries("ACME", "USD", 100, 10, now)

	m := &collector.MockFetcher{Quote: equityQuote(), History: history}
	base, _ := newAnalyzer(m, nil).Run(context.Background(), request("ACME"))
	boosted, _ := newAnalyzer(m, stubAnnotator{ann: &model.Annotation{
		Commentary:      "ok",
		DriftMultiplier: model.Float(9),
	}}).Run(context.Background(), request("ACME"))

	b, _ := base.Projection.Path(simulation.Realistic)
	x, _ := boosted.Projection.Path(simulation.Realistic)
	if x.Drift <= b.Drift || x.Drift > b.Drift*1.5+1e-12 {
		t.Errorf("expected drift scaled by at most 1.5, got %v vs %v", x.Drift, b.Drift)
	}

	failed, err := newAnalyzer(m, stubAnnotator{err: errors.New("quota")}).Run(context.Background(), request("ACME"))
	if err != nil || failed.Annotation != nil || failed.Projection == nil {
		t.Errorf("annotator failure must not block other sections: %v", err)
	}
}

func TestRun_DisplayCurrency(t *testing.T) {
	m := &collector.MockFetcher{Quote: equityQuote(), History: collector.GenerateMockSeries("ACME", "USD", 100, 10, now)}
	req := request("ACME")
	req.DisplayCurrency = "krw"
	r, err := newAnalyzer(m, nil).Run(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.DisplayCurrency != "KRW" || r.Overview.Price == nil || *r.Overview.Price != 140000 {
		t.Errorf("expected price converted to KRW, got %v", r.Overview.Price)
	}
}

func TestRun_ProviderErrors(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{collector.ErrTickerNotFound, "check the symbol"},
		{fmt.Errorf("wrapped: %w", collector.ErrRateLimited), "try again later"},
	}
	for _, tt := range tests {
		m := &collector.MockFetcher{QuoteErr: tt.err}
		_, err := newAnalyzer(m, nil).Run(context.Background(), request("ZZZ"))
		if !errors.Is(err, tt.err) && !errors.Is(err, errors.Unwrap(tt.err)) {
			t.Errorf("expected %v, got %v", tt.err, err)
		}
		if msg := UserMessage(err, model.LangEN); !strings.Contains(msg, tt.want) {
			t.Errorf("expected message containing %q, got %q", tt.want, msg)
		}
	}
}

func TestRun_InvalidRequest(t *testing.T) {
	req := request("ACME")
	req.HorizonYears = 31
	_, err := newAnalyzer(&collector.MockFetcher{}, nil).Run(context.Background(), req)
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
	if msg := UserMessage(err, model.LangEN); !strings.Contains(msg, "horizon") {
		t.Errorf("expected horizon detail, got %q", msg)
	}
}

// Two years of smooth ~10000% annual growth: finite statistics whose
// projection overflows float64.
func explosiveSeries() *model.PriceSeries {
	s := &model.PriceSeries{Symbol: "BOOM", Currency: "USD"}
	k := math.Log(101) / 365
	start := now.AddDate(-2, 0, 0)
	for i := 0; i <= 730; i++ {
		s.Points = append(s.Points, model.PricePoint{Time: start.AddDate(0, 0, i), Close: math.Exp(k * float64(i))})
	}
	return s
}

func TestRun_ProjectionOverflowIsNoted(t *testing.T) {
	m := &collector.MockFetcher{Quote: equityQuote(), History: explosiveSeries()}
	r, err := newAnalyzer(m, nil).Run(context.Background(), request("boom"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Projection != nil {
		t.Errorf("expected no projection, got %+v", r.Projection)
	}
	if note := r.Notes[model.SectionProjection]; !strings.Contains(note, "overflow") {
		t.Errorf("expected overflow note, got %q", note)
	}
	if r.Overview.CAGRPct == nil || math.IsInf(*r.Overview.CAGRPct, 0) {
		t.Errorf("expected finite CAGR, got %v", r.Overview.CAGRPct)
	}
}
