package notifier

import (
	"fmt"
	"html"
	"strings"

	"ValueScope/internal/currency"
	"ValueScope/internal/i18n"
	"ValueScope/internal/model"
)

const missing = "-"

// FormatReport formats an analysis report into a Telegram HTML message.
func FormatReport(r *model.Report) string {
	lang := r.Language
	ccy := r.DisplayCurrency
	o := r.Overview
	var b strings.Builder

	b.WriteString(fmt.Sprintf("<b>%s</b> | %s\n", html.EscapeString(i18n.Tf(lang, i18n.TitleOverview, r.Ticker)), r.GeneratedAt.Format("2006-01-02")))
	if o.Name != "" {
		b.WriteString(html.EscapeString(o.Name) + "\n")
	}
	if o.Sector != "" {
		b.WriteString(fmt.Sprintf("%s: %s", i18n.T(lang, i18n.Sector), html.EscapeString(o.Sector)))
		if o.Industry != "" {
			b.WriteString(fmt.Sprintf(" | %s: %s", i18n.T(lang, i18n.Industry), html.EscapeString(o.Industry)))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s: %s\n", i18n.T(lang, i18n.CurrentPrice), money(o.Price, ccy)))
	b.WriteString(fmt.Sprintf("%s: %s | %s: %s\n",
		i18n.T(lang, i18n.PE), ratio(o.PE),
		i18n.T(lang, i18n.PriceToBook), ratio(o.PriceToBook)))
	b.WriteString(fmt.Sprintf("%s: %s | %s: %s | %s: %s\n",
		i18n.T(lang, i18n.ROE), pct(o.ROEPct),
		i18n.T(lang, i18n.Volatility), pct(o.VolatilityPct),
		i18n.T(lang, i18n.CAGR), pct(o.CAGRPct)))
	if o.Low52w != nil && o.High52w != nil {
		b.WriteString(fmt.Sprintf("%s: %s ~ %s", i18n.T(lang, i18n.Range52w), money(o.Low52w, ccy), money(o.High52w, ccy)))
		if o.Position52wPct != nil {
			b.WriteString(fmt.Sprintf(" (%.0f%%)", *o.Position52wPct))
		}
		b.WriteString("\n")
	}
	if o.ListingYear > 0 {
		b.WriteString(fmt.Sprintf("%s: %d (%s)\n", i18n.T(lang, i18n.ListingYear), o.ListingYear, money(o.ListingPrice, ccy)))
	}

	writeValuation(&b, r)
	writeReplay(&b, r)
	writeProjection(&b, r)

	if r.Annotation != nil && r.Annotation.Commentary != "" {
		b.WriteString(fmt.Sprintf("\n<b>%s</b>\n%s\n", i18n.T(lang, i18n.TitleCommentary), html.EscapeString(r.Annotation.Commentary)))
	}
	if r.RatesSource == currency.SourceDefault && ccy != currency.Base {
		b.WriteString(fmt.Sprintf("\n⚠️ %s\n", i18n.T(lang, i18n.RatesDefault)))
	}
	b.WriteString(fmt.Sprintf("\n<i>%s</i>", i18n.T(lang, i18n.Disclaimer)))
	return b.String()
}

func writeValuation(b *strings.Builder, r *model.Report) {
	lang := r.Language
	v := r.Valuation
	b.WriteString(fmt.Sprintf("\n<b>%s</b>\n", i18n.T(lang, i18n.TitleValuation)))
	if v.Skipped != "" {
		reason := i18n.T(lang, i18n.NoteNotComputable)
		if r.Overview.Kind == string(model.KindFund) {
			reason = i18n.T(lang, i18n.NoteFund)
		}
		b.WriteString(fmt.Sprintf("%s: %s (%s)\n", i18n.T(lang, i18n.Verdict), i18n.VerdictLabel(lang, v.Verdict), reason))
		return
	}
	b.WriteString(fmt.Sprintf("%s: %.1f%%\n", i18n.T(lang, i18n.GrowthRate), r.Growth.Rate))
	b.WriteString(fmt.Sprintf("%s: %s | %s: %s\n",
		i18n.T(lang, i18n.GrahamValue), money(v.Graham, r.DisplayCurrency),
		i18n.T(lang, i18n.DCFValue), money(v.DCF, r.DisplayCurrency)))
	b.WriteString(fmt.Sprintf("%s: %s\n", i18n.T(lang, i18n.IntrinsicAverage), money(v.Average, r.DisplayCurrency)))
	b.WriteString(fmt.Sprintf("%s: %s → <b>%s</b>\n", i18n.T(lang, i18n.Gap), signedPct(v.GapPct), i18n.VerdictLabel(lang, v.Verdict)))
}

func writeReplay(b *strings.Builder, r *model.Report) {
	lang := r.Language
	b.WriteString(fmt.Sprintf("\n<b>%s</b>\n", i18n.T(lang, i18n.TitleWhatIf)))
	rp := r.Replay
	if rp == nil {
		b.WriteString(i18n.T(lang, i18n.NoteNotComputable) + "\n")
		return
	}
	ccy := r.DisplayCurrency
	b.WriteString(fmt.Sprintf("%s: %d (%d)\n", i18n.T(lang, i18n.StartYear), rp.Start.Year(), rp.Contributions))
	b.WriteString(fmt.Sprintf("%s: %s\n", i18n.T(lang, i18n.TotalPrincipal), currency.FormatWhole(rp.TotalPrincipal, ccy)))
	b.WriteString(fmt.Sprintf("%s: %s\n", i18n.T(lang, i18n.FinalAsset), currency.FormatWhole(rp.FinalValue, ccy)))
	b.WriteString(fmt.Sprintf("%s: %s (%+.1f%%)\n", i18n.T(lang, i18n.NetProfit), currency.FormatWhole(rp.NetProfit, ccy), rp.ReturnPct))
}

func writeProjection(b *strings.Builder, r *model.Report) {
	lang := r.Language
	b.WriteString(fmt.Sprintf("\n<b>%s</b>\n", i18n.T(lang, i18n.TitleProjection)))
	p := r.Projection
	if p == nil {
		b.WriteString(i18n.T(lang, i18n.NoteNotComputable) + "\n")
		return
	}
	ccy := r.DisplayCurrency
	principal := p.FinalPrincipal()
	b.WriteString(fmt.Sprintf("%s: %d | %s: %s\n", i18n.T(lang, i18n.Period), p.Years, i18n.T(lang, i18n.TotalPrincipal), currency.FormatWhole(principal, ccy)))
	for _, path := range p.Paths {
		final := path.Final()
		b.WriteString(fmt.Sprintf("  %s: %s (%s %s)\n",
			i18n.ScenarioLabel(lang, path.Name),
			currency.FormatWhole(final, ccy),
			i18n.T(lang, i18n.NetProfit),
			currency.FormatWhole(final-principal, ccy)))
	}
}

// FormatRates formats the exchange-rate table.
func FormatRates(t *currency.Table, lang model.Language) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("<b>%s</b>\n\n", i18n.T(lang, i18n.TitleRates)))
	for _, code := range t.Rates.Codes() {
		b.WriteString(fmt.Sprintf("%s: %.4f\n", code, t.Rates[code]))
	}
	b.WriteString(fmt.Sprintf("\n%s: %s", i18n.T(lang, i18n.RatesUpdated), t.FetchedAt.Format("2006-01-02 15:04")))
	if t.Source == currency.SourceDefault {
		b.WriteString(fmt.Sprintf("\n⚠️ %s", i18n.T(lang, i18n.RatesDefault)))
	}
	return b.String()
}

// DigestLine is one watchlist entry: either a report or the user message of its failure.
type DigestLine struct {
	Ticker string
	Report *model.Report
	Error  string
}

// FormatDigest formats the watchlist summary.
func FormatDigest(lines []DigestLine, lang model.Language) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("<b>%s</b>\n\n", i18n.T(lang, i18n.TitleDigest)))
	for _, l := range lines {
		if l.Report == nil {
			b.WriteString(fmt.Sprintf("❌ <b>%s</b>: %s\n", html.EscapeString(l.Ticker), html.EscapeString(l.Error)))
			continue
		}
		r := l.Report
		b.WriteString(fmt.Sprintf("%s <b>%s</b> %s | %s %s (%s)\n",
			verdictIcon(r.Valuation.Verdict),
			html.EscapeString(r.Ticker),
			money(r.Overview.Price, r.DisplayCurrency),
			i18n.T(lang, i18n.Gap),
			signedPct(r.Valuation.GapPct),
			i18n.VerdictLabel(lang, r.Valuation.Verdict)))
	}
	b.WriteString(fmt.Sprintf("\n<i>%s</i>", i18n.T(lang, i18n.Disclaimer)))
	return b.String()
}

func verdictIcon(v model.Verdict) string {
	switch v {
	case model.VerdictUndervalued:
		return "🟢"
	case model.VerdictOvervalued:
		return "🔴"
	case model.VerdictFair:
		return "🟡"
	default:
		return "⚪"
	}
}

func money(v *float64, ccy string) string {
	if v == nil {
		return missing
	}
	return currency.Format(*v, ccy)
}

func ratio(v *float64) string {
	if v == nil {
		return missing
	}
	return fmt.Sprintf("%.2f", *v)
}

func pct(v *float64) string {
	if v == nil {
		return missing
	}
	return fmt.Sprintf("%.1f%%", *v)
}

func signedPct(v *float64) string {
	if v == nil {
		return missing
	}
	return fmt.Sprintf("%+.1f%%", *v)
}
