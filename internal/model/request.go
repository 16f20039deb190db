package model

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Language selects the label catalog used by presentation surfaces.
type Language string

const (
	LangKO Language = "KO"
	LangEN Language = "EN"
)

// ParseLanguage accepts ko/en in any case and defaults to English.
func ParseLanguage(s string) Language {
	if strings.EqualFold(strings.TrimSpace(s), string(LangKO)) {
		return LangKO
	}
	return LangEN
}

const (
	MinHorizonYears = 1
	MaxHorizonYears = 30
)

// Request carries every user choice for one analysis run. It is built once
// by a presentation surface and never mutated by the engine.
type Request struct {
	Ticker          string
	DisplayCurrency string
	Language        Language
	HorizonYears    int
	InitialAmount   float64 // display currency
	MonthlyAmount   float64 // display currency
	StartYear       int     // 0 selects max(listing year, 2000)
	Now             time.Time
}

// Validate checks the request bounds.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Ticker) == "" {
		return fmt.Errorf("ticker is required")
	}
	if r.DisplayCurrency == "" {
		return fmt.Errorf("display currency is required")
	}
	if r.HorizonYears < MinHorizonYears || r.HorizonYears > MaxHorizonYears {
		return fmt.Errorf("horizon must be between %d and %d years, got %d", MinHorizonYears, MaxHorizonYears, r.HorizonYears)
	}
	for _, v := range []float64{r.InitialAmount, r.MonthlyAmount} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("amounts must be finite numbers")
		}
	}
	if r.InitialAmount < 0 || r.MonthlyAmount < 0 {
		return fmt.Errorf("amounts must not be negative")
	}
	if r.StartYear != 0 && !r.Now.IsZero() && r.StartYear > r.Now.Year() {
		return fmt.Errorf("start year %d is in the future", r.StartYear)
	}
	return nil
}

// Normalized upper-cases the ticker and currency and fills Now.
func (r Request) Normalized() Request {
	r.Ticker = strings.ToUpper(strings.TrimSpace(r.Ticker))
	r.DisplayCurrency = strings.ToUpper(strings.TrimSpace(r.DisplayCurrency))
	if r.Language == "" {
		r.Language = LangEN
	}
	if r.Now.IsZero() {
		r.Now = time.Now()
	}
	return r
}
