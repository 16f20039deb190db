package model

import (
	"errors"
	"sort"
	"time"
)

// HistoryRange is the lookback window requested from a provider.
type HistoryRange string

const (
	Range1d  HistoryRange = "1d"
	Range1y  HistoryRange = "1y"
	Range5y  HistoryRange = "5y"
	Range10y HistoryRange = "10y"
	RangeMax HistoryRange = "max"
)

// PricePoint is a single daily close in the security's native currency.
type PricePoint struct {
	Time  time.Time
	Close float64
}

// PriceSeries holds ascending daily closes for one symbol.
type PriceSeries struct {
	Symbol    string
	Currency  string
	Points    []PricePoint
	FetchedAt time.Time
}

var (
	ErrEmptySeries    = errors.New("price series is empty")
	ErrUnsortedSeries = errors.New("price series is not in ascending date order")
)

// NewPriceSeries drops non-positive closes and sorts the remaining points by time.
func NewPriceSeries(symbol, currency string, points []PricePoint) *PriceSeries {
	clean := make([]PricePoint, 0, len(points))
	for _, p := range points {
		if p.Close > 0 {
			clean = append(clean, p)
		}
	}
	sort.SliceStable(clean, func(i, j int) bool { return clean[i].Time.Before(clean[j].Time) })
	return &PriceSeries{Symbol: symbol, Currency: currency, Points: clean, FetchedAt: time.Now()}
}

// Validate reports whether the series can be used for computation.
func (s *PriceSeries) Validate() error {
	if s == nil || len(s.Points) == 0 {
		return ErrEmptySeries
	}
	for i := 1; i < len(s.Points); i++ {
		if s.Points[i].Time.Before(s.Points[i-1].Time) {
			return ErrUnsortedSeries
		}
	}
	return nil
}

// Len is safe on a nil series.
func (s *PriceSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Points)
}

// First returns the listing observation.
func (s *PriceSeries) First() (PricePoint, bool) {
	if s.Len() == 0 {
		return PricePoint{}, false
	}
	return s.Points[0], true
}

// Last returns the most recent observation.
func (s *PriceSeries) Last() (PricePoint, bool) {
	if s.Len() == 0 {
		return PricePoint{}, false
	}
	return s.Points[len(s.Points)-1], true
}

// Span is the time between the first and last observation.
func (s *PriceSeries) Span() time.Duration {
	first, ok := s.First()
	if !ok {
		return 0
	}
	last, _ := s.Last()
	return last.Time.Sub(first.Time)
}

// Since returns the points at or after t, sharing the underlying array.
func (s *PriceSeries) Since(t time.Time) []PricePoint {
	if s.Len() == 0 {
		return nil
	}
	i := sort.Search(len(s.Points), func(i int) bool { return !s.Points[i].Time.Before(t) })
	return s.Points[i:]
}
