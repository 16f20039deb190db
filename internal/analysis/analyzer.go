// Package analysis runs one request end to end: fetch, estimate growth,
// value, replay and project, collecting whatever sections can be computed.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ValueScope/internal/annotator"
	"ValueScope/internal/calculator"
	"ValueScope/internal/collector"
	"ValueScope/internal/currency"
	"ValueScope/internal/growth"
	"ValueScope/internal/model"
	"ValueScope/internal/replay"
	"ValueScope/internal/simulation"
	"ValueScope/internal/valuation"
)

// DefaultStartFloor is the earliest default replay start year.
const DefaultStartFloor = 2000

var ErrInvalidRequest = errors.New("invalid request")

// RateTable supplies the current exchange-rate snapshot.
type RateTable interface {
	Current(ctx context.Context) *currency.Table
}

// Analyzer is safe for concurrent use; it holds no per-request state.
type Analyzer struct {
	collector *collector.Collector
	rates     RateTable
	annotator annotator.Annotator
	logger    *zap.Logger

	GrowthPolicy    growth.Policy
	ValuationParams valuation.Params
	Scenarios       []simulation.Scenario
	NewRandom       func() simulation.Normal
}

// New creates an Analyzer with default model parameters. ann may be nil.
func New(provider collector.Provider, rates RateTable, ann annotator.Annotator, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ann == nil {
		ann = annotator.Noop{}
	}
	return &Analyzer{
		collector:       collector.NewCollector(provider, logger),
		rates:           rates,
		annotator:       ann,
		logger:          logger,
		GrowthPolicy:    growth.DefaultPolicy(),
		ValuationParams: valuation.DefaultParams(),
		Scenarios:       simulation.DefaultScenarios(),
		NewRandom:       simulation.NewRandom,
	}
}

// Run analyzes req. Only an invalid request or a provider failure that makes
// the ticker unusable returns an error; every other problem becomes a note on
// the affected section.
func (a *Analyzer) Run(ctx context.Context, req model.Request) (*model.Report, error) {
	req = req.Normalized()
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	runID := uuid.NewString()
	log := a.logger.With(zap.String("run_id", runID), zap.String("ticker", req.Ticker))
	started := time.Now()

	table := a.rates.Current(ctx)
	rates := table.Rates
	if !rates.Has(req.DisplayCurrency) {
		log.Warn("display currency missing from rate table, assuming USD", zap.String("currency", req.DisplayCurrency))
	}

	snap, err := a.collector.Collect(ctx, req.Ticker)
	if err != nil {
		log.Warn("collect market data failed", zap.Error(err))
		return nil, err
	}
	q := snap.Quote
	if !rates.Has(q.Currency) {
		log.Warn("native currency missing from rate table, assuming USD", zap.String("currency", q.Currency))
	}

	report := &model.Report{
		RunID:           runID,
		Ticker:          req.Ticker,
		DisplayCurrency: req.DisplayCurrency,
		Language:        req.Language,
		GeneratedAt:     req.Now,
		RatesSource:     table.Source,
	}

	if snap.HistoryErr != nil {
		report.Retryable = Retryable(snap.HistoryErr)
	}
	report.Overview = a.overview(q, snap, rates, req.DisplayCurrency)
	report.Growth = growth.Estimate(q, snap.History, a.GrowthPolicy)
	report.Valuation = valuation.Evaluate(q, report.Growth.Rate, rates, req.DisplayCurrency, a.ValuationParams)
	if report.Valuation.Skipped != "" {
		report.Note(model.SectionValuation, report.Valuation.Skipped)
	}

	report.Annotation = a.annotate(ctx, log, req, report)
	if report.Annotation == nil {
		report.Note(model.SectionAnnotation, "unavailable")
	}

	a.replay(req, snap, rates, report)
	a.project(req, snap, rates, report)

	log.Info("analysis finished",
		zap.String("verdict", string(report.Valuation.Verdict)),
		zap.Int("notes", len(report.Notes)),
		zap.Duration("elapsed", time.Since(started)))
	return report, nil
}

func (a *Analyzer) overview(q *model.Quote, snap *collector.Snapshot, rates currency.Rates, display string) model.Overview {
	conv := func(v *float64) *float64 { return currency.ConvertPtr(v, q.Currency, display, rates) }
	o := model.Overview{
		Name:           q.Name,
		Kind:           string(q.Kind()),
		Sector:         q.Sector,
		Industry:       q.Industry,
		NativeCurrency: q.Currency,
		Price:          conv(q.Price),
		PriceToBook:    q.PriceToBook,
		High52w:        conv(q.High52w),
		Low52w:         conv(q.Low52w),
	}
	if pe, _, ok := q.PE(); ok {
		o.PE = &pe
	}
	if q.ReturnOnEquity != nil {
		o.ROEPct = model.Float(*q.ReturnOnEquity * 100)
	}
	if o.High52w == nil || o.Low52w == nil {
		if high, low, err := calculator.Range52Week(snap.History.Points); err == nil {
			o.High52w = conv(&high)
			o.Low52w = conv(&low)
		}
	}
	if vol, err := calculator.AnnualizedVolatility(snap.Recent.Points); err == nil && finite(vol) {
		o.VolatilityPct = model.Float(vol * 100)
	}
	if snap.History.Len() > 1 {
		if cagr, err := calculator.CAGR(snap.History.Points); err == nil && finite(cagr) {
			o.CAGRPct = model.Float(cagr * 100)
		}
	}
	if first, ok := snap.History.First(); ok {
		o.ListingYear = first.Time.Year()
		o.ListingPrice = conv(&first.Close)
	}
	if o.Price == nil {
		if last, ok := snap.History.Last(); ok {
			o.Price = conv(&last.Close)
		}
	}
	if o.Price != nil && o.High52w != nil && o.Low52w != nil {
		if pos, err := calculator.RangePosition(*o.Price, *o.High52w, *o.Low52w); err == nil {
			o.Position52wPct = model.Float(pos * 100)
		}
	}
	return o
}

func (a *Analyzer) annotate(ctx context.Context, log *zap.Logger, req model.Request, r *model.Report) *model.Annotation {
	ann, err := a.annotator.Annotate(ctx, annotator.Input{
		Ticker:          req.Ticker,
		Language:        req.Language,
		DisplayCurrency: req.DisplayCurrency,
		Overview:        r.Overview,
		Growth:          r.Growth,
		Valuation:       r.Valuation,
	})
	if err != nil {
		log.Warn("annotator failed, continuing without commentary", zap.Error(err))
		return nil
	}
	return ann
}

func (a *Analyzer) replay(req model.Request, snap *collector.Snapshot, rates currency.Rates, r *model.Report) {
	if snap.History.Len() == 0 {
		r.Note(model.SectionReplay, historyNote(snap, req.Language))
		return
	}
	start := replay.DefaultStart(snap.History, DefaultStartFloor)
	if req.StartYear != 0 {
		start = time.Date(req.StartYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	r.StartYear = start.Year()

	res, err := replay.Run(replay.Input{
		Series:          snap.History,
		Start:           start,
		Now:             req.Now,
		Initial:         req.InitialAmount,
		Monthly:         req.MonthlyAmount,
		NativeCurrency:  snap.Quote.Currency,
		DisplayCurrency: req.DisplayCurrency,
		Rates:           rates,
	})
	if err != nil {
		r.Note(model.SectionReplay, err.Error())
		return
	}
	r.Replay = res
}

func (a *Analyzer) project(req model.Request, snap *collector.Snapshot, rates currency.Rates, r *model.Report) {
	if snap.History.Len() == 0 {
		r.Note(model.SectionProjection, historyNote(snap, req.Language))
		return
	}
	if r.Overview.CAGRPct == nil || r.Overview.VolatilityPct == nil {
		r.Note(model.SectionProjection, "not enough price history for drift and volatility")
		return
	}
	drift := *r.Overview.CAGRPct / 100
	if r.Annotation != nil && r.Annotation.DriftMultiplier != nil {
		drift *= annotator.Clamp(*r.Annotation.DriftMultiplier)
	}

	var rng simulation.Normal
	if a.NewRandom != nil {
		rng = a.NewRandom()
	}
	p, err := simulation.Run(simulation.Input{
		Years:           req.HorizonYears,
		Initial:         req.InitialAmount,
		Monthly:         req.MonthlyAmount,
		Drift:           drift,
		Volatility:      *r.Overview.VolatilityPct / 100,
		NativeCurrency:  snap.Quote.Currency,
		DisplayCurrency: req.DisplayCurrency,
		Rates:           rates,
		Scenarios:       a.Scenarios,
	}, rng)
	if err != nil {
		r.Note(model.SectionProjection, err.Error())
		return
	}
	r.Projection = p
}

// historyNote explains an empty history: a transient provider failure gets the
// localized retry message, anything else means the ticker has no history.
func historyNote(snap *collector.Snapshot, lang model.Language) string {
	if snap.HistoryErr != nil && Retryable(snap.HistoryErr) {
		return UserMessage(snap.HistoryErr, lang)
	}
	return "no price history"
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
