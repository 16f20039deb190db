// Package valuation estimates intrinsic value per share with the Graham
// formula and a ten-year discounted cash flow model.
package valuation

import (
	"math"

	"ValueScope/internal/currency"
	"ValueScope/internal/model"
)

// Params holds the model constants. Rates are in percent.
type Params struct {
	GrahamBase      float64
	GrahamGrowthMin float64
	GrahamGrowthMax float64
	DCFGrowthMin    float64
	DCFGrowthMax    float64
	DCFYears        int
	DiscountRate    float64
	TerminalGrowth  float64
	Threshold       float64 // gap beyond ±Threshold flips the verdict
}

// DefaultParams returns the stock model constants.
func DefaultParams() Params {
	return Params{
		GrahamBase:      8.5,
		GrahamGrowthMin: 5,
		GrahamGrowthMax: 20,
		DCFGrowthMin:    0,
		DCFGrowthMax:    20,
		DCFYears:        10,
		DiscountRate:    12,
		TerminalGrowth:  4,
		Threshold:       15,
	}
}

// Graham returns eps × (8.5 + 2g) with g clamped, or false when eps is not positive.
func Graham(eps, growthPct float64, p Params) (float64, bool) {
	if eps <= 0 || math.IsNaN(eps) || math.IsInf(eps, 0) {
		return 0, false
	}
	g := clamp(growthPct, p.GrahamGrowthMin, p.GrahamGrowthMax)
	return eps * (p.GrahamBase + 2*g), true
}

// DCF discounts free cash flow per share over p.DCFYears and adds a Gordon
// terminal value. It abstains when inputs are not positive or the discount
// rate does not exceed terminal growth.
func DCF(operatingCashflow, shares, growthPct float64, p Params) (float64, bool) {
	if operatingCashflow <= 0 || shares <= 0 || math.IsInf(operatingCashflow, 0) || math.IsInf(shares, 0) {
		return 0, false
	}
	if p.DiscountRate <= p.TerminalGrowth || p.DCFYears <= 0 {
		return 0, false
	}
	fcf := operatingCashflow / shares
	g := clamp(growthPct, p.DCFGrowthMin, p.DCFGrowthMax) / 100
	r := p.DiscountRate / 100
	tg := p.TerminalGrowth / 100

	var pv float64
	cf := fcf
	for year := 1; year <= p.DCFYears; year++ {
		cf *= 1 + g
		pv += cf / math.Pow(1+r, float64(year))
	}
	terminal := cf * (1 + tg) / (r - tg)
	pv += terminal / math.Pow(1+r, float64(p.DCFYears))
	return pv, true
}

// Classify maps a gap percentage to a verdict.
func Classify(gapPct float64, p Params) model.Verdict {
	switch {
	case gapPct < -p.Threshold:
		return model.VerdictUndervalued
	case gapPct > p.Threshold:
		return model.VerdictOvervalued
	default:
		return model.VerdictFair
	}
}

// Skip reasons reported in IntrinsicValue.Skipped.
const (
	SkipFund     = "fund"
	SkipNoModels = "no_models"
	SkipNoPrice  = "no_price"
)

// Evaluate runs both models for q and compares their average with the market
// price. All output values are in displayCcy.
func Evaluate(q *model.Quote, growthPct float64, rates currency.Rates, displayCcy string, p Params) model.IntrinsicValue {
	if q == nil {
		return model.IntrinsicValue{Verdict: model.VerdictNotApplicable, Skipped: SkipNoModels}
	}
	if q.Kind() == model.KindFund {
		return model.IntrinsicValue{Verdict: model.VerdictNotApplicable, Skipped: SkipFund}
	}

	var out model.IntrinsicValue
	var present []float64

	if eps, _, ok := q.EPS(); ok {
		if v, ok := Graham(eps, growthPct, p); ok {
			v = currency.Convert(v, q.Currency, displayCcy, rates)
			out.Graham = &v
			present = append(present, v)
		}
	}
	if q.OperatingCashflow != nil && q.SharesOutstanding != nil {
		if v, ok := DCF(*q.OperatingCashflow, *q.SharesOutstanding, growthPct, p); ok {
			v = currency.Convert(v, q.Currency, displayCcy, rates)
			out.DCF = &v
			present = append(present, v)
		}
	}

	if len(present) == 0 {
		out.Verdict = model.VerdictNotApplicable
		out.Skipped = SkipNoModels
		return out
	}
	var sum float64
	for _, v := range present {
		sum += v
	}
	avg := sum / float64(len(present))
	out.Average = &avg

	if q.Price == nil || *q.Price <= 0 || avg <= 0 {
		out.Verdict = model.VerdictNotApplicable
		out.Skipped = SkipNoPrice
		return out
	}
	price := currency.Convert(*q.Price, q.Currency, displayCcy, rates)
	gap := (price - avg) / avg * 100
	out.GapPct = &gap
	out.Verdict = Classify(gap, p)
	return out
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
