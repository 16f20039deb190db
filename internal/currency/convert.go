// Package currency converts monetary amounts through a USD-pivot rate table.
package currency

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// Base is the pivot currency of every rate table.
const Base = "USD"

// Rates maps a currency code to its units per one USD.
type Rates map[string]float64

// Source values for Table.Source.
const (
	SourceLive    = "live"
	SourceDefault = "default"
)

// Table is an immutable rate snapshot.
type Table struct {
	Rates     Rates
	FetchedAt time.Time
	Source    string
}

// DefaultRates is the fixed table used whenever the live source fails.
func DefaultRates() Rates {
	return Rates{
		"USD": 1.0,
		"CAD": 1.40,
		"KRW": 1400.0,
		"EUR": 0.92,
		"GBP": 0.79,
		"JPY": 150.0,
	}
}

// DefaultTable wraps DefaultRates.
func DefaultTable() *Table {
	return &Table{Rates: DefaultRates(), FetchedAt: time.Now(), Source: SourceDefault}
}

// Rate returns the units-per-USD for code, or 1.0 when the code is unknown.
func (r Rates) Rate(code string) float64 {
	if v, ok := r[strings.ToUpper(code)]; ok && v > 0 {
		return v
	}
	return 1.0
}

// Has reports whether code has an explicit rate.
func (r Rates) Has(code string) bool {
	_, ok := r[strings.ToUpper(code)]
	return ok
}

// Codes returns the sorted currency codes.
func (r Rates) Codes() []string {
	codes := make([]string, 0, len(r))
	for c := range r {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// Validate enforces the base entry and strictly positive finite rates.
func (r Rates) Validate() error {
	if v, ok := r[Base]; !ok || v != 1.0 {
		return fmt.Errorf("base currency %s must be present with rate 1.0", Base)
	}
	for code, v := range r {
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("rate for %s must be positive, got %v", code, v)
		}
	}
	return nil
}

// Convert moves amount from one currency to another through the USD pivot.
// A currency missing from the table is treated as USD.
func Convert(amount float64, from, to string, rates Rates) float64 {
	if strings.EqualFold(from, to) {
		return amount
	}
	return amount / rates.Rate(from) * rates.Rate(to)
}

// ConvertPtr converts an optional amount, keeping absence.
func ConvertPtr(amount *float64, from, to string, rates Rates) *float64 {
	if amount == nil {
		return nil
	}
	v := Convert(*amount, from, to, rates)
	return &v
}
