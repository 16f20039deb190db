package currency

import (
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Fraction returns the number of minor-unit digits for code (2 for USD, 0 for KRW).
func Fraction(code string) int {
	cur := money.GetCurrency(strings.ToUpper(code))
	if cur == nil {
		return 2
	}
	return cur.Fraction
}

// Placeholder is rendered for amounts that are NaN or infinite.
const Placeholder = "-"

func nonFinite(v float64) bool { return math.IsNaN(v) || math.IsInf(v, 0) }

// Round rounds amount to the minor unit of code. NaN and ±Inf pass through.
func Round(amount float64, code string) float64 {
	if nonFinite(amount) {
		return amount
	}
	return decimal.NewFromFloat(amount).Round(int32(Fraction(code))).InexactFloat64()
}

// RoundPct rounds a percentage to two decimals for presentation.
func RoundPct(pct float64) float64 {
	if nonFinite(pct) {
		return pct
	}
	return decimal.NewFromFloat(pct).Round(2).InexactFloat64()
}

// Format renders amount with the currency's symbol and grouping, e.g. "$1,234.50" or "₩1,400,000".
func Format(amount float64, code string) string {
	if nonFinite(amount) {
		return Placeholder
	}
	code = strings.ToUpper(code)
	if money.GetCurrency(code) == nil {
		return decimal.NewFromFloat(amount).StringFixed(2) + " " + code
	}
	minor := decimal.NewFromFloat(amount).Shift(int32(Fraction(code))).Round(0).IntPart()
	return money.New(minor, code).Display()
}

// FormatWhole renders amount without minor units, e.g. "$25,000".
func FormatWhole(amount float64, code string) string {
	if nonFinite(amount) {
		return Placeholder
	}
	code = strings.ToUpper(code)
	cur := money.GetCurrency(code)
	if cur == nil {
		return decimal.NewFromFloat(amount).StringFixed(0) + " " + code
	}
	whole := decimal.NewFromFloat(amount).Round(0).IntPart()
	f := money.NewFormatter(0, cur.Decimal, cur.Thousand, cur.Grapheme, cur.Template)
	return f.Format(whole)
}
