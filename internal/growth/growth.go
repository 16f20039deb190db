// Package growth blends fundamental and historical signals into one annual
// growth rate suitable for the valuation models.
package growth

import (
	"math"
	"time"

	"ValueScope/internal/calculator"
	"ValueScope/internal/model"
)

// Policy holds the filtering and dampening breakpoints, all in percent.
type Policy struct {
	MaxSignalAbs  float64 // fundamental signals beyond ±this are bad data
	MinHistory    time.Duration
	CAGRWindow    int // years
	CAGRMin       float64
	CAGRMax       float64
	PoolMin       float64 // open interval lower bound
	PoolMax       float64 // open interval upper bound
	Tiers         []Tier
	NegativeFloor float64
	Default       float64
}

// Tier dampens means strictly above Above: Flat replaces the mean when set,
// otherwise the mean is multiplied by Scale.
type Tier struct {
	Above float64
	Flat  *float64
	Scale float64
}

// DefaultPolicy returns the stock breakpoints.
func DefaultPolicy() Policy {
	return Policy{
		MaxSignalAbs: 100,
		MinHistory:   2 * 365 * 24 * time.Hour,
		CAGRWindow:   5,
		CAGRMin:      0,
		CAGRMax:      50,
		PoolMin:      -20,
		PoolMax:      40,
		Tiers: []Tier{
			{Above: 20, Flat: model.Float(12)},
			{Above: 15, Scale: 0.7},
		},
		NegativeFloor: 5,
		Default:       8,
	}
}

// Estimate returns the dampened growth rate for q and its price history.
// history may be nil.
func Estimate(q *model.Quote, history *model.PriceSeries, p Policy) model.GrowthEstimate {
	var pool []model.GrowthSignal

	if q != nil {
		for _, c := range []model.Candidate{
			{Source: "earningsGrowth", Value: q.EarningsGrowth},
			{Source: "revenueGrowth", Value: q.RevenueGrowth},
			{Source: "earningsQuarterlyGrowth", Value: q.EarningsQuarterlyGrowth},
		} {
			if c.Value == nil {
				continue
			}
			pct := *c.Value * 100
			if math.IsNaN(pct) || math.Abs(pct) > p.MaxSignalAbs {
				continue
			}
			pool = append(pool, model.GrowthSignal{Source: c.Source, Pct: pct})
		}
	}

	if history.Len() > 1 && history.Span() > p.MinHistory {
		if cagr, err := calculator.CAGRSince(history, p.CAGRWindow); err == nil {
			pct := cagr * 100
			if pct > p.CAGRMin && pct < p.CAGRMax {
				pool = append(pool, model.GrowthSignal{Source: "historicalCAGR", Pct: pct})
			}
		}
	}

	accepted := pool[:0]
	for _, s := range pool {
		if s.Pct > p.PoolMin && s.Pct < p.PoolMax {
			accepted = append(accepted, s)
		}
	}
	if len(accepted) == 0 {
		return model.GrowthEstimate{Rate: p.Default, Raw: p.Default, Defaulted: true}
	}

	var sum float64
	for _, s := range accepted {
		sum += s.Pct
	}
	mean := sum / float64(len(accepted))
	return model.GrowthEstimate{Rate: p.dampen(mean), Raw: mean, Signals: accepted}
}

func (p Policy) dampen(mean float64) float64 {
	for _, t := range p.Tiers {
		if mean > t.Above {
			if t.Flat != nil {
				return *t.Flat
			}
			return mean * t.Scale
		}
	}
	if mean < 0 {
		return p.NegativeFloor
	}
	return mean
}
