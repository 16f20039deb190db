package annotator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"ValueScope/internal/model"
)

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantMult *float64
		wantText string
	}{
		{"json", `{"commentary":"Solid.","drift_multiplier":1.2}`, model.Float(1.2), "Solid."},
		{"clamped high", `{"commentary":"Hot.","drift_multiplier":3}`, model.Float(1.5), "Hot."},
		{"clamped low", `{"commentary":"Cold.","drift_multiplier":0.1}`, model.Float(0.5), "Cold."},
		{"fenced", "```json\n{\"commentary\":\"Fenced.\"}\n```", nil, "Fenced."},
		{"prose", "Just words.", nil, "Just words."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := parseResponse(tt.text)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if a.Commentary != tt.wantText {
				t.Errorf("expected %q, got %q", tt.wantText, a.Commentary)
			}
			switch {
			case tt.wantMult == nil && a.DriftMultiplier != nil:
				t.Errorf("expected no multiplier, got %v", *a.DriftMultiplier)
			case tt.wantMult != nil && (a.DriftMultiplier == nil || *a.DriftMultiplier != *tt.wantMult):
				t.Errorf("expected multiplier %v, got %v", *tt.wantMult, a.DriftMultiplier)
			}
		})
	}
}

func TestParseResponse_Empty(t *testing.T) {
	for _, text := range []string{"", "  ", "```json\n```", `{"commentary":""}`} {
		if _, err := parseResponse(text); !errors.Is(err, ErrEmptyResponse) {
			t.Errorf("%q: expected ErrEmptyResponse, got %v", text, err)
		}
	}
}

func TestBuildPrompt(t *testing.T) {
	p := buildPrompt(Input{
		Ticker:          "AAPL",
		Language:        model.LangKO,
		DisplayCurrency: "KRW",
		Overview:        model.Overview{Name: "Apple Inc.", PE: model.Float(28.5)},
		Growth:          model.GrowthEstimate{Rate: 9.5},
		Valuation:       model.IntrinsicValue{Verdict: model.VerdictFair},
	})
	for _, want := range []string{"Korean", "AAPL", "Apple Inc.", "KRW", "P/E: 28.50", "9.50%", "verdict: fair", "drift_multiplier"} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if strings.Contains(p, "Graham value") {
		t.Error("absent values must not be listed")
	}
}

func TestNoop(t *testing.T) {
	a, err := Noop{}.Annotate(context.Background(), Input{})
	if a != nil || err != nil {
		t.Errorf("expected nil annotation, got %v %v", a, err)
	}
}
