package model

import "time"

// GrowthSignal is one accepted candidate of the growth estimate.
type GrowthSignal struct {
	Source string  `json:"source"`
	Pct    float64 `json:"pct"`
}

// GrowthEstimate is the blended annual growth rate, in percent.
type GrowthEstimate struct {
	Rate      float64        `json:"rate"`
	Raw       float64        `json:"raw"`
	Signals   []GrowthSignal `json:"signals"`
	Defaulted bool           `json:"defaulted"`
}

// Verdict classifies the gap between market price and intrinsic value.
type Verdict string

const (
	VerdictUndervalued   Verdict = "undervalued"
	VerdictFair          Verdict = "fair"
	VerdictOvervalued    Verdict = "overvalued"
	VerdictNotApplicable Verdict = "not_applicable"
)

// IntrinsicValue holds per-share estimates in display currency.
type IntrinsicValue struct {
	Graham  *float64 `json:"graham,omitempty"`
	DCF     *float64 `json:"dcf,omitempty"`
	Average *float64 `json:"average,omitempty"`
	GapPct  *float64 `json:"gap_pct,omitempty"`
	Verdict Verdict  `json:"verdict"`
	Skipped string   `json:"skipped,omitempty"`
}

// ReplayResult is the outcome of a historical periodic-contribution replay.
type ReplayResult struct {
	Start          time.Time `json:"start"`
	End            time.Time `json:"end"`
	Contributions  int       `json:"contributions"`
	Shares         float64   `json:"shares"`
	TotalPrincipal float64   `json:"total_principal"`
	FinalValue     float64   `json:"final_value"`
	NetProfit      float64   `json:"net_profit"`
	ReturnPct      float64   `json:"return_pct"`
}

// ScenarioPath is one simulated value sequence, index = year.
type ScenarioPath struct {
	Name       string    `json:"name"`
	Drift      float64   `json:"drift"`
	Volatility float64   `json:"volatility"`
	Values     []float64 `json:"values"`
}

// Final returns the value at the horizon.
func (p ScenarioPath) Final() float64 {
	if len(p.Values) == 0 {
		return 0
	}
	return p.Values[len(p.Values)-1]
}

// Projection is the forward simulation output in display currency.
type Projection struct {
	Years     int            `json:"years"`
	Paths     []ScenarioPath `json:"paths"`
	Principal []float64      `json:"principal"`
}

// Path looks up a scenario by name.
func (p *Projection) Path(name string) (ScenarioPath, bool) {
	for _, s := range p.Paths {
		if s.Name == name {
			return s, true
		}
	}
	return ScenarioPath{}, false
}

// FinalPrincipal returns the principal at the horizon.
func (p *Projection) FinalPrincipal() float64 {
	if len(p.Principal) == 0 {
		return 0
	}
	return p.Principal[len(p.Principal)-1]
}

// Annotation is optional commentary returned by a report annotator.
type Annotation struct {
	Commentary      string   `json:"commentary"`
	DriftMultiplier *float64 `json:"drift_multiplier,omitempty"`
	Model           string   `json:"model,omitempty"`
}

// Overview is the headline metrics block, monetary fields in display currency.
type Overview struct {
	Name           string   `json:"name"`
	Kind           string   `json:"kind"`
	Sector         string   `json:"sector,omitempty"`
	Industry       string   `json:"industry,omitempty"`
	NativeCurrency string   `json:"native_currency"`
	Price          *float64 `json:"price,omitempty"`
	PE             *float64 `json:"pe,omitempty"`
	ROEPct         *float64 `json:"roe_pct,omitempty"`
	PriceToBook    *float64 `json:"price_to_book,omitempty"`
	High52w        *float64 `json:"high_52w,omitempty"`
	Low52w         *float64 `json:"low_52w,omitempty"`
	Position52wPct *float64 `json:"position_52w_pct,omitempty"`
	VolatilityPct  *float64 `json:"volatility_pct,omitempty"`
	CAGRPct        *float64 `json:"cagr_pct,omitempty"`
	ListingYear    int      `json:"listing_year,omitempty"`
	ListingPrice   *float64 `json:"listing_price,omitempty"`
}

// Section names used in Report.Notes.
const (
	SectionOverview   = "overview"
	SectionValuation  = "valuation"
	SectionReplay     = "replay"
	SectionProjection = "projection"
	SectionAnnotation = "annotation"
)

// Report is the complete, display-ready result of one analysis run.
type Report struct {
	RunID           string            `json:"run_id"`
	Ticker          string            `json:"ticker"`
	DisplayCurrency string            `json:"display_currency"`
	Language        Language          `json:"language"`
	GeneratedAt     time.Time         `json:"generated_at"`
	RatesSource     string            `json:"rates_source"`
	StartYear       int               `json:"start_year,omitempty"`
	Overview        Overview          `json:"overview"`
	Growth          GrowthEstimate    `json:"growth"`
	Valuation       IntrinsicValue    `json:"valuation"`
	Replay          *ReplayResult     `json:"replay,omitempty"`
	Projection      *Projection       `json:"projection,omitempty"`
	Annotation      *Annotation       `json:"annotation,omitempty"`
	Notes           map[string]string `json:"notes,omitempty"`
	// Retryable marks a report degraded by a transient provider failure.
	Retryable       bool              `json:"retryable,omitempty"`
}

// Note records why a section could not be computed.
func (r *Report) Note(section, reason string) {
	if r.Notes == nil {
		r.Notes = make(map[string]string)
	}
	r.Notes[section] = reason
}
