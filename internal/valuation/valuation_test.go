package valuation

import (
	"math"
	"testing"

	"ValueScope/internal/currency"
	"ValueScope/internal/model"
)

func TestGraham(t *testing.T) {
	p := DefaultParams()
	tests := []struct {
		eps, growth, want float64
		ok                bool
	}{
		{2, 10, 2 * (8.5 + 20), true},
		{2, 1, 2 * (8.5 + 10), true},  // growth clamped up to 5
		{2, 50, 2 * (8.5 + 40), true}, // growth clamped down to 20
		{-2, 10, 0, false},
		{0, 10, 0, false},
	}
	for _, tt := range tests {
		got, ok := Graham(tt.eps, tt.growth, p)
		if ok != tt.ok || math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Graham(%v, %v): expected (%v, %v), got (%v, %v)", tt.eps, tt.growth, tt.want, tt.ok, got, ok)
		}
	}
}

func TestGraham_Monotonic(t *testing.T) {
	p := DefaultParams()
	prev := 0.0
	for eps := 0.5; eps < 20; eps += 0.5 {
		v, _ := Graham(eps, 10, p)
		if v <= prev {
			t.Fatalf("not increasing in eps at %v", eps)
		}
		prev = v
	}
	prev = 0
	for g := 5.0; g <= 20; g += 0.5 {
		v, _ := Graham(3, g, p)
		if v <= prev {
			t.Fatalf("not increasing in growth at %v", g)
		}
		prev = v
	}
}

func TestDCF_DefinedIffPositiveInputs(t *testing.T) {
	p := DefaultParams()
	tests := []struct {
		ocf, shares float64
		ok          bool
	}{
		{1e9, 1e8, true},
		{0, 1e8, false},
		{-5e8, 1e8, false},
		{1e9, 0, false},
		{1, 1, true},
	}
	for _, tt := range tests {
		v, ok := DCF(tt.ocf, tt.shares, 8, p)
		if ok != tt.ok {
			t.Errorf("DCF(%v, %v): expected ok=%v", tt.ocf, tt.shares, tt.ok)
		}
		if ok && v <= 0 {
			t.Errorf("DCF(%v, %v): expected positive value, got %v", tt.ocf, tt.shares, v)
		}
	}
}

func TestDCF_ZeroGrowthMatchesClosedForm(t *testing.T) {
	p := DefaultParams()
	got, _ := DCF(100, 10, -5, p) // clamped to 0% growth
	var want float64
	for y := 1; y <= 10; y++ {
		want += 10 / math.Pow(1.12, float64(y))
	}
	want += 10 * 1.04 / 0.08 / math.Pow(1.12, 10)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestDCF_DegenerateRates(t *testing.T) {
	p := DefaultParams()
	p.DiscountRate = 4
	if _, ok := DCF(1e9, 1e8, 8, p); ok {
		t.Error("expected abstention when discount rate equals terminal growth")
	}
}

func TestClassify(t *testing.T) {
	p := DefaultParams()
	tests := []struct {
		gap  float64
		want model.Verdict
	}{
		{-30, model.VerdictUndervalued},
		{-15, model.VerdictFair},
		{0, model.VerdictFair},
		{15, model.VerdictFair},
		{15.01, model.VerdictOvervalued},
	}
	for _, tt := range tests {
		if got := Classify(tt.gap, p); got != tt.want {
			t.Errorf("Classify(%v): expected %s, got %s", tt.gap, tt.want, got)
		}
	}
}

func TestEvaluate_NegativeEPSKeepsDCF(t *testing.T) {
	q := &model.Quote{
		Currency:          "USD",
		QuoteType:         "EQUITY",
		Price:             model.Float(50),
		TrailingEPS:       model.Float(-2),
		OperatingCashflow: model.Float(1e9),
		SharesOutstanding: model.Float(1e8),
	}
	got := Evaluate(q, 8, currency.DefaultRates(), "USD", DefaultParams())
	if got.Graham != nil {
		t.Errorf("expected Graham absent, got %v", *got.Graham)
	}
	if got.DCF == nil || *got.DCF <= 0 {
		t.Fatal("expected DCF present")
	}
	if got.Average == nil || *got.Average != *got.DCF {
		t.Errorf("expected average equal to DCF alone")
	}
	if got.Verdict == model.VerdictNotApplicable {
		t.Errorf("expected a verdict, got %s", got.Verdict)
	}
}

func TestEvaluate_FundSkipped(t *testing.T) {
	q := &model.Quote{
		Currency:          "USD",
		QuoteType:         "ETF",
		Price:             model.Float(400),
		ForwardEPS:        model.Float(20),
		OperatingCashflow: model.Float(1e9),
		SharesOutstanding: model.Float(1e8),
	}
	got := Evaluate(q, 8, currency.DefaultRates(), "USD", DefaultParams())
	if got.Verdict != model.VerdictNotApplicable || got.Skipped != SkipFund {
		t.Errorf("expected fund skip, got %+v", got)
	}
	if got.Graham != nil || got.DCF != nil || got.Average != nil {
		t.Error("expected no model values for a fund")
	}
}

func TestEvaluate_ConvertsToDisplayCurrency(t *testing.T) {
	q := &model.Quote{
		Currency:   "USD",
		QuoteType:  "EQUITY",
		Price:      model.Float(100),
		ForwardEPS: model.Float(4),
	}
	rates := currency.Rates{"USD": 1, "KRW": 1000}
	usd := Evaluate(q, 10, rates, "USD", DefaultParams())
	krw := Evaluate(q, 10, rates, "KRW", DefaultParams())
	if math.Abs(*krw.Graham-*usd.Graham*1000) > 1e-6 {
		t.Errorf("expected KRW value 1000x USD, got %v vs %v", *krw.Graham, *usd.Graham)
	}
	if math.Abs(*krw.GapPct-*usd.GapPct) > 1e-9 {
		t.Errorf("gap must not depend on display currency")
	}
	// 4 × 28.5 = 114 vs price 100: gap ≈ -12.3%
	if usd.Verdict != model.VerdictFair {
		t.Errorf("expected fair, got %s", usd.Verdict)
	}
}

func TestEvaluate_NoModels(t *testing.T) {
	q := &model.Quote{Currency: "USD", QuoteType: "EQUITY", Price: model.Float(10)}
	got := Evaluate(q, 8, currency.DefaultRates(), "USD", DefaultParams())
	if got.Verdict != model.VerdictNotApplicable || got.Skipped != SkipNoModels {
		t.Errorf("expected not applicable, got %+v", got)
	}
}
