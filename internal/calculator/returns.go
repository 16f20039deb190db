package calculator

import (
	"errors"
	"math"

	"ValueScope/internal/model"
)

const (
	daysPerYear  = 365.25
	tradingDays  = 252
	minCAGRYears = 1.0
)

var ErrInsufficientData = errors.New("not enough data")

// Years returns the elapsed time between the first and last point in years.
func Years(points []model.PricePoint) float64 {
	if len(points) < 2 {
		return 0
	}
	return points[len(points)-1].Time.Sub(points[0].Time).Hours() / 24 / daysPerYear
}

// CAGR returns the compound annual growth rate between the first and last
// point as a fraction. Spans shorter than a year are treated as one year.
func CAGR(points []model.PricePoint) (float64, error) {
	if len(points) < 2 {
		return 0, ErrInsufficientData
	}
	first, last := points[0].Close, points[len(points)-1].Close
	if first <= 0 || last <= 0 {
		return 0, errors.New("closes must be positive")
	}
	years := math.Max(minCAGRYears, Years(points))
	return math.Pow(last/first, 1/years) - 1, nil
}

// CAGRSince computes CAGR over the trailing window of at most maxYears.
func CAGRSince(s *model.PriceSeries, maxYears int) (float64, error) {
	last, ok := s.Last()
	if !ok {
		return 0, ErrInsufficientData
	}
	return CAGR(s.Since(last.Time.AddDate(-maxYears, 0, 0)))
}

// DailyReturns returns simple close-to-close returns.
func DailyReturns(points []model.PricePoint) []float64 {
	if len(points) < 2 {
		return nil
	}
	out := make([]float64, 0, len(points)-1)
	for i := 1; i < len(points); i++ {
		out = append(out, points[i].Close/points[i-1].Close-1)
	}
	return out
}

// AnnualizedVolatility is the sample standard deviation of daily returns scaled by √252.
func AnnualizedVolatility(points []model.PricePoint) (float64, error) {
	returns := DailyReturns(points)
	if len(returns) < 2 {
		return 0, ErrInsufficientData
	}
	return StdDev(returns) * math.Sqrt(tradingDays), nil
}

// StdDev is the sample (n-1) standard deviation.
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := Mean(values)
	var sq float64
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	return math.Sqrt(sq / float64(len(values)-1))
}

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
