package currency

import (
	"math"
	"testing"
)

func TestConvert_RoundTrip(t *testing.T) {
	tables := []Rates{
		DefaultRates(),
		{"USD": 1, "CAD": 1.3712, "KRW": 1388.25},
		{"USD": 1, "CAD": 0.0001, "KRW": 1e6},
	}
	amounts := []float64{0.01, 1, 1234.56, 1e9}
	for _, rates := range tables {
		for _, a := range rates.Codes() {
			for _, b := range rates.Codes() {
				for _, x := range amounts {
					got := Convert(Convert(x, a, b, rates), b, a, rates)
					if math.Abs(got-x) > 1e-9*math.Max(1, x) {
						t.Errorf("%s->%s->%s: expected %v, got %v", a, b, a, x, got)
					}
				}
			}
		}
	}
}

func TestConvert_Pivot(t *testing.T) {
	rates := Rates{"USD": 1, "CAD": 1.4, "KRW": 1400}
	if got := Convert(100, "USD", "KRW", rates); got != 140000 {
		t.Errorf("expected 140000, got %v", got)
	}
	if got := Convert(140, "CAD", "USD", rates); math.Abs(got-100) > 1e-9 {
		t.Errorf("expected 100, got %v", got)
	}
	if got := Convert(1400, "KRW", "CAD", rates); math.Abs(got-1.4) > 1e-9 {
		t.Errorf("expected 1.4, got %v", got)
	}
}

func TestConvert_UnknownSourceAssumesUSD(t *testing.T) {
	rates := Rates{"USD": 1, "CAD": 1.4}
	if got := Convert(10, "CHF", "CAD", rates); math.Abs(got-14) > 1e-9 {
		t.Errorf("expected CHF treated as USD (14), got %v", got)
	}
}

func TestConvertPtr_KeepsAbsence(t *testing.T) {
	if ConvertPtr(nil, "USD", "CAD", DefaultRates()) != nil {
		t.Error("expected nil to stay nil")
	}
}

func TestRates_Validate(t *testing.T) {
	if err := DefaultRates().Validate(); err != nil {
		t.Fatalf("default table invalid: %v", err)
	}
	if err := (Rates{"CAD": 1.4}).Validate(); err == nil {
		t.Error("expected error for missing base")
	}
	if err := (Rates{"USD": 1, "CAD": 0}).Validate(); err == nil {
		t.Error("expected error for zero rate")
	}
	if err := (Rates{"USD": 1, "CAD": math.NaN()}).Validate(); err == nil {
		t.Error("expected error for NaN rate")
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		amount float64
		code   string
		want   string
	}{
		{1234.5, "USD", "$1,234.50"},
		{25000, "USD", "$25,000.00"},
	}
	for _, tt := range tests {
		if got := Format(tt.amount, tt.code); got != tt.want {
			t.Errorf("Format(%v, %s): expected %q, got %q", tt.amount, tt.code, tt.want, got)
		}
	}
	if got := FormatWhole(24999.6, "USD"); got != "$25,000" {
		t.Errorf("FormatWhole: expected $25,000, got %q", got)
	}
}

func TestRound(t *testing.T) {
	if got := Round(1234.567, "USD"); got != 1234.57 {
		t.Errorf("expected 1234.57, got %v", got)
	}
	if got := Round(1234.567, "KRW"); got != 1235 {
		t.Errorf("expected 1235, got %v", got)
	}
	if got := RoundPct(12.3456); got != 12.35 {
		t.Errorf("expected 12.35, got %v", got)
	}
}

func TestNonFiniteAmounts(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if got := Round(v, "USD"); !(math.IsNaN(got) || math.IsInf(got, 0)) {
			t.Errorf("Round(%v): expected passthrough, got %v", v, got)
		}
		if got := RoundPct(v); !(math.IsNaN(got) || math.IsInf(got, 0)) {
			t.Errorf("RoundPct(%v): expected passthrough, got %v", v, got)
		}
		for _, code := range []string{"USD", "XYZ"} {
			if got := Format(v, code); got != Placeholder {
				t.Errorf("Format(%v, %s): expected %q, got %q", v, code, Placeholder, got)
			}
			if got := FormatWhole(v, code); got != Placeholder {
				t.Errorf("FormatWhole(%v, %s): expected %q, got %q", v, code, Placeholder, got)
			}
		}
	}
}
