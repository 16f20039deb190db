// Package render prints reports to a terminal.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"ValueScope/internal/currency"
	"ValueScope/internal/i18n"
	"ValueScope/internal/model"
	"ValueScope/internal/recorder"
)

const missing = "-"

// Options control terminal output.
type Options struct {
	Color bool
	// Style is a glamour standard style name such as "dark", "light" or "notty".
	Style string
	Width int
}

func (o Options) style() string {
	if o.Style != "" {
		return o.Style
	}
	if o.Color {
		return "dark"
	}
	return "notty"
}

func (o Options) width() int {
	if o.Width > 0 {
		return o.Width
	}
	return 80
}

func newTable(w io.Writer, title string, opts Options) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	if opts.Color {
		tw.SetStyle(table.StyleColoredDark)
	} else {
		tw.SetStyle(table.StyleLight)
	}
	tw.SetTitle(title)
	return tw
}

// Report renders every section of r.
func Report(w io.Writer, r *model.Report, opts Options) error {
	overview(w, r, opts)
	fmt.Fprintln(w)
	valuation(w, r, opts)
	fmt.Fprintln(w)
	whatIf(w, r, opts)
	fmt.Fprintln(w)
	projection(w, r, opts)

	if r.Annotation != nil && strings.TrimSpace(r.Annotation.Commentary) != "" {
		md := fmt.Sprintf("## %s\n\n%s\n", i18n.T(r.Language, i18n.TitleCommentary), r.Annotation.Commentary)
		out, err := Markdown(md, opts)
		if err != nil {
			return fmt.Errorf("render commentary: %w", err)
		}
		fmt.Fprint(w, out)
	}
	if r.RatesSource == currency.SourceDefault && r.DisplayCurrency != currency.Base {
		fmt.Fprintln(w, warn(i18n.T(r.Language, i18n.RatesDefault), opts))
	}
	fmt.Fprintln(w, i18n.T(r.Language, i18n.Disclaimer))
	return nil
}

// Markdown renders md with glamour.
func Markdown(md string, opts Options) (string, error) {
	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(opts.style()),
		glamour.WithWordWrap(opts.width()),
	)
	if err != nil {
		return "", err
	}
	return tr.Render(md)
}

func overview(w io.Writer, r *model.Report, opts Options) {
	lang := r.Language
	o := r.Overview
	ccy := r.DisplayCurrency
	tw := newTable(w, i18n.Tf(lang, i18n.TitleOverview, r.Ticker), opts)
	if o.Name != "" {
		tw.AppendRow(table.Row{"", o.Name})
	}
	if o.Sector != "" {
		tw.AppendRow(table.Row{i18n.T(lang, i18n.Sector), o.Sector})
	}
	if o.Industry != "" {
		tw.AppendRow(table.Row{i18n.T(lang, i18n.Industry), o.Industry})
	}
	tw.AppendRow(table.Row{i18n.T(lang, i18n.CurrentPrice), money(o.Price, ccy)})
	tw.AppendRow(table.Row{i18n.T(lang, i18n.PE), ratio(o.PE)})
	tw.AppendRow(table.Row{i18n.T(lang, i18n.PriceToBook), ratio(o.PriceToBook)})
	tw.AppendRow(table.Row{i18n.T(lang, i18n.ROE), pct(o.ROEPct)})
	tw.AppendRow(table.Row{i18n.T(lang, i18n.Volatility), pct(o.VolatilityPct)})
	tw.AppendRow(table.Row{i18n.T(lang, i18n.CAGR), pct(o.CAGRPct)})
	if o.Low52w != nil && o.High52w != nil {
		rng := money(o.Low52w, ccy) + " ~ " + money(o.High52w, ccy)
		if o.Position52wPct != nil {
			rng += fmt.Sprintf(" (%.0f%%)", *o.Position52wPct)
		}
		tw.AppendRow(table.Row{i18n.T(lang, i18n.Range52w), rng})
	}
	if o.ListingYear > 0 {
		tw.AppendRow(table.Row{i18n.T(lang, i18n.ListingYear), o.ListingYear})
		tw.AppendRow(table.Row{i18n.T(lang, i18n.ListingPrice), money(o.ListingPrice, ccy)})
	}
	tw.Render()
}

func valuation(w io.Writer, r *model.Report, opts Options) {
	lang := r.Language
	v := r.Valuation
	ccy := r.DisplayCurrency
	tw := newTable(w, i18n.T(lang, i18n.TitleValuation), opts)
	if v.Skipped != "" {
		reason := i18n.T(lang, i18n.NoteNotComputable)
		if r.Overview.Kind == string(model.KindFund) {
			reason = i18n.T(lang, i18n.NoteFund)
		}
		tw.AppendRow(table.Row{i18n.T(lang, i18n.Verdict), i18n.VerdictLabel(lang, v.Verdict)})
		tw.AppendFooter(table.Row{"", reason})
		tw.Render()
		return
	}
	tw.AppendRow(table.Row{i18n.T(lang, i18n.GrowthRate), fmt.Sprintf("%.1f%%", r.Growth.Rate)})
	tw.AppendRow(table.Row{i18n.T(lang, i18n.GrahamValue), money(v.Graham, ccy)})
	tw.AppendRow(table.Row{i18n.T(lang, i18n.DCFValue), money(v.DCF, ccy)})
	tw.AppendRow(table.Row{i18n.T(lang, i18n.IntrinsicAverage), money(v.Average, ccy)})
	tw.AppendRow(table.Row{i18n.T(lang, i18n.Gap), signedPct(v.GapPct)})
	tw.AppendRow(table.Row{i18n.T(lang, i18n.Verdict), colorVerdict(v.Verdict, i18n.VerdictLabel(lang, v.Verdict), opts)})
	tw.Render()
}

func whatIf(w io.Writer, r *model.Report, opts Options) {
	lang := r.Language
	tw := newTable(w, i18n.T(lang, i18n.TitleWhatIf), opts)
	rp := r.Replay
	if rp == nil {
		tw.AppendRow(table.Row{i18n.T(lang, i18n.NoteNotComputable)})
		tw.Render()
		return
	}
	ccy := r.DisplayCurrency
	tw.AppendRow(table.Row{i18n.T(lang, i18n.StartYear), rp.Start.Year()})
	tw.AppendRow(table.Row{i18n.T(lang, i18n.TotalPrincipal), currency.FormatWhole(rp.TotalPrincipal, ccy)})
	tw.AppendRow(table.Row{i18n.T(lang, i18n.FinalAsset), currency.FormatWhole(rp.FinalValue, ccy)})
	tw.AppendRow(table.Row{i18n.T(lang, i18n.NetProfit), signedMoney(rp.NetProfit, ccy, opts)})
	tw.AppendRow(table.Row{i18n.T(lang, i18n.ReturnPct), fmt.Sprintf("%+.1f%%", rp.ReturnPct)})
	tw.Render()
}

func projection(w io.Writer, r *model.Report, opts Options) {
	lang := r.Language
	tw := newTable(w, i18n.T(lang, i18n.TitleProjection), opts)
	p := r.Projection
	if p == nil {
		tw.AppendRow(table.Row{i18n.T(lang, i18n.NoteNotComputable)})
		tw.Render()
		return
	}
	ccy := r.DisplayCurrency

	hdr := table.Row{i18n.T(lang, i18n.Year), i18n.T(lang, i18n.TotalPrincipal)}
	cfgs := []table.ColumnConfig{{Number: 1, Align: text.AlignRight}, {Number: 2, Align: text.AlignRight}}
	for i, path := range p.Paths {
		hdr = append(hdr, i18n.ScenarioLabel(lang, path.Name))
		cfgs = append(cfgs, table.ColumnConfig{Number: i + 3, Align: text.AlignRight})
	}
	tw.AppendHeader(hdr)
	tw.SetColumnConfigs(cfgs)

	for y := 0; y <= p.Years; y++ {
		row := table.Row{y, currency.FormatWhole(at(p.Principal, y), ccy)}
		for _, path := range p.Paths {
			row = append(row, currency.FormatWhole(at(path.Values, y), ccy))
		}
		tw.AppendRow(row)
	}

	principal := p.FinalPrincipal()
	footer := table.Row{i18n.T(lang, i18n.NetProfit), ""}
	for _, path := range p.Paths {
		footer = append(footer, signedMoney(path.Final()-principal, ccy, opts))
	}
	tw.AppendFooter(footer)
	tw.Render()
}

// Rates renders the current exchange-rate table.
func Rates(w io.Writer, t *currency.Table, lang model.Language, opts Options) {
	tw := newTable(w, i18n.T(lang, i18n.TitleRates), opts)
	tw.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
	for _, code := range t.Rates.Codes() {
		tw.AppendRow(table.Row{code, fmt.Sprintf("%.4f", t.Rates[code])})
	}
	tw.AppendFooter(table.Row{i18n.T(lang, i18n.RatesUpdated), t.FetchedAt.Format("2006-01-02 15:04")})
	tw.Render()
	if t.Source == currency.SourceDefault {
		fmt.Fprintln(w, warn(i18n.T(lang, i18n.RatesDefault), opts))
	}
}

// RateHistory renders stored observations for one currency, newest first.
func RateHistory(w io.Writer, code string, points []recorder.RatePoint, opts Options) {
	tw := newTable(w, "USD/"+strings.ToUpper(code), opts)
	tw.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
	for _, p := range points {
		tw.AppendRow(table.Row{p.Time.Format("2006-01-02 15:04"), fmt.Sprintf("%.4f", p.Rate), p.Source})
	}
	tw.Render()
}

func at(values []float64, i int) float64 {
	if i < len(values) {
		return values[i]
	}
	return 0
}

func colorVerdict(v model.Verdict, label string, opts Options) string {
	if !opts.Color {
		return label
	}
	switch v {
	case model.VerdictUndervalued:
		return text.Colors{text.FgGreen, text.Bold}.Sprint(label)
	case model.VerdictOvervalued:
		return text.Colors{text.FgRed, text.Bold}.Sprint(label)
	default:
		return text.Bold.Sprint(label)
	}
}

func signedMoney(amount float64, ccy string, opts Options) string {
	s := currency.FormatWhole(amount, ccy)
	if !opts.Color {
		return s
	}
	if amount < 0 {
		return text.FgRed.Sprint(s)
	}
	return text.FgGreen.Sprint(s)
}

func warn(msg string, opts Options) string {
	if opts.Color {
		return text.FgYellow.Sprint("! " + msg)
	}
	return "! " + msg
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
