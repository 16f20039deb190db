// Package simulation projects portfolio value forward with a monthly-step
// geometric Brownian motion under several drift/volatility scenarios.
package simulation

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"ValueScope/internal/currency"
	"ValueScope/internal/model"
)

const (
	MinYears = model.MinHorizonYears
	MaxYears = model.MaxHorizonYears

	stepsPerYear = 12
)

// Normal is a source of standard normal draws. *rand.Rand satisfies it.
type Normal interface {
	NormFloat64() float64
}

// NewRandom returns a time-seeded source.
func NewRandom() Normal {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// Scenario scales the base drift and volatility.
type Scenario struct {
	Name            string
	DriftMultiplier float64
	VolMultiplier   float64
}

const (
	Realistic = "realistic"
	Bullish   = "bullish"
	Bearish   = "bearish"
)

// DefaultScenarios returns realistic, bullish and bearish in that order.
func DefaultScenarios() []Scenario {
	return []Scenario{
		{Name: Realistic, DriftMultiplier: 1.0, VolMultiplier: 0.7},
		{Name: Bullish, DriftMultiplier: 1.3, VolMultiplier: 0.5},
		{Name: Bearish, DriftMultiplier: 0.6, VolMultiplier: 1.2},
	}
}

var (
	ErrHorizon   = errors.New("horizon out of range")
	ErrNonFinite = errors.New("projection overflowed")
)

// Input describes one projection. Amounts are in DisplayCurrency; Drift and
// Volatility are annualized fractions.
type Input struct {
	Years           int
	Initial         float64
	Monthly         float64
	Drift           float64
	Volatility      float64
	NativeCurrency  string
	DisplayCurrency string
	Rates           currency.Rates
	Scenarios       []Scenario
}

// Run simulates every scenario with its own draws from rng.
func Run(in Input, rng Normal) (*model.Projection, error) {
	if in.Years < MinYears || in.Years > MaxYears {
		return nil, fmt.Errorf("%w: %d not in [%d, %d]", ErrHorizon, in.Years, MinYears, MaxYears)
	}
	if !finite(in.Drift, in.Volatility, in.Initial, in.Monthly) {
		return nil, fmt.Errorf("%w: drift %v, volatility %v", ErrNonFinite, in.Drift, in.Volatility)
	}
	if rng == nil {
		rng = NewRandom()
	}
	scenarios := in.Scenarios
	if len(scenarios) == 0 {
		scenarios = DefaultScenarios()
	}

	initial := currency.Convert(in.Initial, in.DisplayCurrency, in.NativeCurrency, in.Rates)
	monthly := currency.Convert(in.Monthly, in.DisplayCurrency, in.NativeCurrency, in.Rates)

	out := &model.Projection{Years: in.Years, Principal: Principal(in.Initial, in.Monthly, in.Years)}
	if !finite(out.Principal...) {
		return nil, fmt.Errorf("%w: principal", ErrNonFinite)
	}
	for _, sc := range scenarios {
		drift := in.Drift * sc.DriftMultiplier
		vol := in.Volatility * sc.VolMultiplier
		values := Path(initial, monthly, drift, vol, in.Years, rng)
		for i, v := range values {
			values[i] = currency.Convert(v, in.NativeCurrency, in.DisplayCurrency, in.Rates)
		}
		if !finite(values...) {
			return nil, fmt.Errorf("%w: %s scenario (drift %.2f, volatility %.2f)", ErrNonFinite, sc.Name, drift, vol)
		}
		out.Paths = append(out.Paths, model.ScenarioPath{
			Name:       sc.Name,
			Drift:      drift,
			Volatility: vol,
			Values:     values,
		})
	}
	return out, nil
}

// Path returns year-end values for one GBM walk, index 0 being initial.
func Path(initial, monthly, drift, vol float64, years int, rng Normal) []float64 {
	const dt = 1.0 / stepsPerYear
	mu := (drift - 0.5*vol*vol) * dt
	sigma := vol * math.Sqrt(dt)

	values := make([]float64, years+1)
	values[0] = initial
	v := initial
	for y := 1; y <= years; y++ {
		for m := 0; m < stepsPerYear; m++ {
			v = math.Max(0, (v+monthly)*math.Exp(mu+sigma*rng.NormFloat64()))
		}
		values[y] = v
	}
	return values
}

// Principal returns initial + monthly×12×y for every year, without growth.
func Principal(initial, monthly float64, years int) []float64 {
	out := make([]float64, years+1)
	for y := range out {
		out[y] = initial + monthly*stepsPerYear*float64(y)
	}
	return out
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
