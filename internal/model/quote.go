package model

import "strings"

// SecurityKind separates ordinary equities from funds and other baskets.
type SecurityKind string

const (
	KindEquity SecurityKind = "equity"
	KindFund   SecurityKind = "fund"
)

// Quote is a snapshot of a security's price and fundamentals.
// A nil pointer field means the provider did not report the value.
type Quote struct {
	Symbol    string
	Name      string
	Currency  string
	QuoteType string
	Exchange  string
	Sector    string
	Industry  string

	Price             *float64
	ForwardPE         *float64
	TrailingPE        *float64
	ReturnOnEquity    *float64 // fraction, 0.25 = 25%
	PriceToBook       *float64
	High52w           *float64
	Low52w            *float64
	ForwardEPS        *float64
	TrailingEPS       *float64
	OperatingCashflow *float64
	SharesOutstanding *float64

	// Growth signals as fractions, 0.12 = 12%.
	EarningsGrowth          *float64
	RevenueGrowth           *float64
	EarningsQuarterlyGrowth *float64

	// PriceSource names the provider field that satisfied Price.
	PriceSource string
}

var fundTypes = map[string]bool{
	"ETF":            true,
	"MUTUALFUND":     true,
	"INDEX":          true,
	"FUTURE":         true,
	"CRYPTOCURRENCY": true,
	"CURRENCY":       true,
	"MONEYMARKET":    true,
}

// Kind classifies the quote. Unknown types are treated as equities.
func (q *Quote) Kind() SecurityKind {
	if fundTypes[strings.ToUpper(strings.TrimSpace(q.QuoteType))] {
		return KindFund
	}
	return KindEquity
}

// EPS resolves forward EPS, then trailing EPS.
func (q *Quote) EPS() (float64, string, bool) {
	return Resolve(
		Candidate{Source: "forwardEps", Value: q.ForwardEPS},
		Candidate{Source: "trailingEps", Value: q.TrailingEPS},
	)
}

// PE resolves forward P/E, then trailing P/E.
func (q *Quote) PE() (float64, string, bool) {
	return Resolve(
		Candidate{Source: "forwardPE", Value: q.ForwardPE},
		Candidate{Source: "trailingPE", Value: q.TrailingPE},
	)
}

// Candidate is one optional value in an ordered preference list.
type Candidate struct {
	Source string
	Value  *float64
}

// Resolve returns the first present candidate together with its source.
func Resolve(candidates ...Candidate) (float64, string, bool) {
	for _, c := range candidates {
		if c.Value != nil {
			return *c.Value, c.Source, true
		}
	}
	return 0, "", false
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }
