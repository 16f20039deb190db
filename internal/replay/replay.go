// Package replay reconstructs what a lump sum plus fixed monthly purchases
// would be worth today had they started on a past date.
package replay

import (
	"errors"
	"fmt"
	"time"

	"ValueScope/internal/calculator"
	"ValueScope/internal/currency"
	"ValueScope/internal/model"
)

var (
	ErrStartInFuture      = errors.New("start date is in the future")
	ErrStartBeforeListing = errors.New("start date precedes the first listing year")
	ErrNotComputable      = errors.New("replay window is empty")
)

// Input describes one replay. Amounts are in DisplayCurrency.
type Input struct {
	Series          *model.PriceSeries
	Start           time.Time
	Now             time.Time
	Initial         float64
	Monthly         float64
	NativeCurrency  string
	DisplayCurrency string
	Rates           currency.Rates
}

// Run buys Initial at the first close on or after Start and Monthly at every
// month-end close of the window, then values the position at the last close.
func Run(in Input) (*model.ReplayResult, error) {
	first, ok := in.Series.First()
	if !ok {
		return nil, ErrNotComputable
	}
	if !in.Now.IsZero() && in.Start.After(in.Now) {
		return nil, ErrStartInFuture
	}
	if in.Start.Year() < first.Time.Year() {
		return nil, fmt.Errorf("%w: listed in %d", ErrStartBeforeListing, first.Time.Year())
	}

	window := in.Series.Since(in.Start)
	if len(window) == 0 {
		return nil, ErrNotComputable
	}

	initialNative := currency.Convert(in.Initial, in.DisplayCurrency, in.NativeCurrency, in.Rates)
	monthlyNative := currency.Convert(in.Monthly, in.DisplayCurrency, in.NativeCurrency, in.Rates)

	shares := initialNative / window[0].Close
	monthEnds := calculator.MonthEnds(window)
	for _, p := range monthEnds {
		shares += monthlyNative / p.Close
	}

	principal := in.Initial + in.Monthly*float64(len(monthEnds))
	if principal <= 0 {
		return nil, ErrNotComputable
	}

	last := window[len(window)-1]
	final := currency.Convert(shares*last.Close, in.NativeCurrency, in.DisplayCurrency, in.Rates)
	return &model.ReplayResult{
		Start:          window[0].Time,
		End:            last.Time,
		Contributions:  len(monthEnds),
		Shares:         shares,
		TotalPrincipal: principal,
		FinalValue:     final,
		NetProfit:      final - principal,
		ReturnPct:      (final - principal) / principal * 100,
	}, nil
}

// DefaultStart returns January 1st of max(listing year, floorYear).
func DefaultStart(s *model.PriceSeries, floorYear int) time.Time {
	year := floorYear
	if first, ok := s.First(); ok && first.Time.Year() > year {
		year = first.Time.Year()
	}
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
}
