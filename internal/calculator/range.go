package calculator

import (
	"errors"
	"math"
	"time"

	"ValueScope/internal/model"
)

// Range52Week scans the closes of the last 52 weeks ending at the most recent point.
func Range52Week(points []model.PricePoint) (high, low float64, err error) {
	if len(points) == 0 {
		return 0, 0, errors.New("no price points provided")
	}
	cutoff := points[len(points)-1].Time.AddDate(0, 0, -7*52)
	high = math.Inf(-1)
	low = math.Inf(1)
	for i := len(points) - 1; i >= 0 && !points[i].Time.Before(cutoff); i-- {
		if points[i].Close > high {
			high = points[i].Close
		}
		if points[i].Close < low {
			low = points[i].Close
		}
	}
	return high, low, nil
}

// RangePosition returns where price sits within [low, high] (0.0~1.0).
func RangePosition(price, high, low float64) (float64, error) {
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, errors.New("high must be >= low")
	}
	pos := (price - low) / (high - low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos, nil
}

// MonthEnds returns the last point of every calendar month present in points.
// The final month is included even when it is not yet complete.
func MonthEnds(points []model.PricePoint) []model.PricePoint {
	var out []model.PricePoint
	for i, p := range points {
		if i == len(points)-1 || !sameMonth(p.Time, points[i+1].Time) {
			out = append(out, p)
		}
	}
	return out
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
