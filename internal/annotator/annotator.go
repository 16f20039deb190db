// Package annotator adds optional free-text commentary to a report and may
// suggest a bounded adjustment to the simulation drift.
package annotator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"ValueScope/internal/model"
)

const (
	MinMultiplier = 0.5
	MaxMultiplier = 1.5
)

// Input carries the computed metrics the annotator may comment on.
type Input struct {
	Ticker          string
	Language        model.Language
	DisplayCurrency string
	Overview        model.Overview
	Growth          model.GrowthEstimate
	Valuation       model.IntrinsicValue
}

// Annotator returns commentary for a finished analysis.
type Annotator interface {
	Annotate(ctx context.Context, in Input) (*model.Annotation, error)
}

// Noop is used when no annotator is configured.
type Noop struct{}

func (Noop) Annotate(context.Context, Input) (*model.Annotation, error) { return nil, nil }

var ErrEmptyResponse = errors.New("annotator returned an empty response")

type response struct {
	Commentary      string   `json:"commentary"`
	DriftMultiplier *float64 `json:"drift_multiplier"`
}

// parseResponse decodes a JSON reply, tolerating a fenced code block, and
// clamps the multiplier.
func parseResponse(text string) (*model.Annotation, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyResponse
	}

	var r response
	if err := json.Unmarshal([]byte(text), &r); err != nil {
		// plain prose is still usable commentary
		return &model.Annotation{Commentary: text}, nil
	}
	a := &model.Annotation{Commentary: strings.TrimSpace(r.Commentary)}
	if r.DriftMultiplier != nil && !math.IsNaN(*r.DriftMultiplier) {
		m := Clamp(*r.DriftMultiplier)
		a.DriftMultiplier = &m
	}
	if a.Commentary == "" && a.DriftMultiplier == nil {
		return nil, ErrEmptyResponse
	}
	return a, nil
}

// Clamp bounds a drift multiplier to [MinMultiplier, MaxMultiplier].
func Clamp(m float64) float64 {
	return math.Max(MinMultiplier, math.Min(MaxMultiplier, m))
}

func buildPrompt(in Input) string {
	var b strings.Builder
	lang := "English"
	if in.Language == model.LangKO {
		lang = "Korean"
	}
	fmt.Fprintf(&b, "Write a short investment commentary in %s for %s", lang, in.Ticker)
	if in.Overview.Name != "" {
		fmt.Fprintf(&b, " (%s)", in.Overview.Name)
	}
	b.WriteString(".\n\nMetrics (monetary values in " + in.DisplayCurrency + "):\n")
	writeMetric(&b, "kind", in.Overview.Kind)
	writeMetric(&b, "sector", in.Overview.Sector)
	writeFloat(&b, "price", in.Overview.Price)
	writeFloat(&b, "P/E", in.Overview.PE)
	writeFloat(&b, "ROE %", in.Overview.ROEPct)
	writeFloat(&b, "annualized volatility %", in.Overview.VolatilityPct)
	writeFloat(&b, "historical CAGR %", in.Overview.CAGRPct)
	fmt.Fprintf(&b, "- estimated growth: %.2f%%\n", in.Growth.Rate)
	writeFloat(&b, "Graham value", in.Valuation.Graham)
	writeFloat(&b, "DCF value", in.Valuation.DCF)
	writeFloat(&b, "gap vs intrinsic %", in.Valuation.GapPct)
	writeMetric(&b, "verdict", string(in.Valuation.Verdict))
	fmt.Fprintf(&b, "\nRespond with JSON only: {\"commentary\": string (markdown, at most 120 words), "+
		"\"drift_multiplier\": number between %.1f and %.1f scaling the expected return (1.0 = neutral)}.\n",
		MinMultiplier, MaxMultiplier)
	return b.String()
}

func writeMetric(b *strings.Builder, name, v string) {
	if v != "" {
		fmt.Fprintf(b, "- %s: %s\n", name, v)
	}
}

func writeFloat(b *strings.Builder, name string, v *float64) {
	if v != nil {
		fmt.Fprintf(b, "- %s: %.2f\n", name, *v)
	}
}
