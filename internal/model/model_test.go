package model

import (
	"math"
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func TestNewPriceSeries_SortsAndDropsBadCloses(t *testing.T) {
	s := NewPriceSeries("ABC", "USD", []PricePoint{
		{Time: day(2020, 3, 1), Close: 12},
		{Time: day(2020, 1, 1), Close: 10},
		{Time: day(2020, 2, 1), Close: 0},
		{Time: day(2020, 4, 1), Close: -1},
	})
	if err := s.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 points, got %d", s.Len())
	}
	first, _ := s.First()
	if first.Close != 10 {
		t.Errorf("expected listing close 10, got %.2f", first.Close)
	}
}

func TestPriceSeries_EmptyIsInvalid(t *testing.T) {
	var s *PriceSeries
	if err := s.Validate(); err != ErrEmptySeries {
		t.Errorf("expected ErrEmptySeries, got %v", err)
	}
	if _, ok := s.Last(); ok {
		t.Error("expected no last point on nil series")
	}
}

func TestPriceSeries_Since(t *testing.T) {
	s := NewPriceSeries("ABC", "USD", []PricePoint{
		{Time: day(2019, 12, 31), Close: 1},
		{Time: day(2020, 1, 2), Close: 2},
		{Time: day(2020, 1, 3), Close: 3},
	})
	got := s.Since(day(2020, 1, 1))
	if len(got) != 2 || got[0].Close != 2 {
		t.Errorf("unexpected window: %+v", got)
	}
	if len(s.Since(day(2021, 1, 1))) != 0 {
		t.Error("expected empty window past the last date")
	}
}

func TestQuote_Kind(t *testing.T) {
	tests := []struct {
		quoteType string
		want      SecurityKind
	}{
		{"EQUITY", KindEquity},
		{"etf", KindFund},
		{"MUTUALFUND", KindFund},
		{"INDEX", KindFund},
		{"", KindEquity},
	}
	for _, tt := range tests {
		q := Quote{QuoteType: tt.quoteType}
		if got := q.Kind(); got != tt.want {
			t.Errorf("%q: expected %s, got %s", tt.quoteType, tt.want, got)
		}
	}
}

func TestQuote_EPSPrefersForward(t *testing.T) {
	q := Quote{ForwardEPS: Float(5), TrailingEPS: Float(4)}
	v, src, ok := q.EPS()
	if !ok || v != 5 || src != "forwardEps" {
		t.Errorf("expected forwardEps=5, got %v %s %v", v, src, ok)
	}

	q = Quote{TrailingEPS: Float(-2)}
	v, src, ok = q.EPS()
	if !ok || v != -2 || src != "trailingEps" {
		t.Errorf("expected trailingEps=-2, got %v %s %v", v, src, ok)
	}

	q = Quote{}
	if _, _, ok := q.EPS(); ok {
		t.Error("expected no EPS when both fields are absent")
	}
}

func TestRequest_Validate(t *testing.T) {
	base := Request{Ticker: "AAPL", DisplayCurrency: "USD", HorizonYears: 10, Now: day(2026, 6, 1)}
	if err := base.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := base
	bad.HorizonYears = 31
	if bad.Validate() == nil {
		t.Error("expected horizon error")
	}
	bad = base
	bad.StartYear = 2027
	if bad.Validate() == nil {
		t.Error("expected future start year error")
	}
	bad = base
	bad.MonthlyAmount = -1
	if bad.Validate() == nil {
		t.Error("expected negative amount error")
	}
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		bad = base
		bad.InitialAmount = v
		if bad.Validate() == nil {
			t.Errorf("expected error for initial amount %v", v)
		}
		bad = base
		bad.MonthlyAmount = v
		if bad.Validate() == nil {
			t.Errorf("expected error for monthly amount %v", v)
		}
	}
}
