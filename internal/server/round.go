package server

import (
	"ValueScope/internal/currency"
	"ValueScope/internal/model"
)

// roundReport rounds money to the display currency's minor unit and
// percentages and ratios to two decimals, in place.
func roundReport(r *model.Report) {
	ccy := r.DisplayCurrency
	money := func(v *float64) {
		if v != nil {
			*v = currency.Round(*v, ccy)
		}
	}
	pct := func(v *float64) {
		if v != nil {
			*v = currency.RoundPct(*v)
		}
	}

	o := &r.Overview
	for _, v := range []*float64{o.Price, o.High52w, o.Low52w, o.ListingPrice} {
		money(v)
	}
	for _, v := range []*float64{o.PE, o.ROEPct, o.PriceToBook, o.Position52wPct, o.VolatilityPct, o.CAGRPct} {
		pct(v)
	}

	pct(&r.Growth.Rate)
	pct(&r.Growth.Raw)

	money(r.Valuation.Graham)
	money(r.Valuation.DCF)
	money(r.Valuation.Average)
	pct(r.Valuation.GapPct)

	if rp := r.Replay; rp != nil {
		money(&rp.TotalPrincipal)
		money(&rp.FinalValue)
		money(&rp.NetProfit)
		pct(&rp.ReturnPct)
	}
	if p := r.Projection; p != nil {
		for i := range p.Principal {
			money(&p.Principal[i])
		}
		for _, path := range p.Paths {
			for i := range path.Values {
				money(&path.Values[i])
			}
		}
	}
}
