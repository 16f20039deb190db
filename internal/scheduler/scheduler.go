// Package scheduler runs the long-lived cron jobs and answers bot commands.
package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"ValueScope/internal/analysis"
	"ValueScope/internal/config"
	"ValueScope/internal/currency"
	"ValueScope/internal/i18n"
	"ValueScope/internal/model"
	"ValueScope/internal/notifier"
	"ValueScope/internal/recorder"
)

const sendRetries = 3

// Analyzer runs one analysis request.
type Analyzer interface {
	Run(ctx context.Context, req model.Request) (*model.Report, error)
}

// RateRefresher owns the shared exchange-rate table.
type RateRefresher interface {
	Current(ctx context.Context) *currency.Table
	Refresh(ctx context.Context) *currency.Table
}

// Sender delivers a formatted message.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron      *cron.Cron
	Analyzer  Analyzer
	Rates     RateRefresher
	Notifier  Sender
	Recorder  recorder.Recorder
	Defaults  config.Defaults
	Watchlist []string
	Ctx       context.Context

	logger *zap.Logger
}

// NewScheduler creates a new Scheduler. tn may be nil when Telegram is disabled.
func NewScheduler(ctx context.Context, an Analyzer, rates RateRefresher, tn Sender, rec recorder.Recorder, cfg *config.Config, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Analyzer:  an,
		Rates:     rates,
		Notifier:  tn,
		Recorder:  rec,
		Defaults:  cfg.Defaults,
		Watchlist: cfg.Schedule.Watchlist,
		Ctx:       ctx,
		logger:    logger,
	}
}

// RegisterAll registers the FX refresh and, when a watchlist is configured, the digest.
func (s *Scheduler) RegisterAll(refreshCron, digestCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshRates); err != nil {
		return fmt.Errorf("register fx refresh: %w", err)
	}
	if len(s.Watchlist) == 0 || digestCron == "" {
		s.logger.Info("watchlist empty, digest disabled")
		return nil
	}
	if _, err := s.Cron.AddFunc(digestCron, s.digestTask); err != nil {
		return fmt.Errorf("register digest task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.logger.Info("scheduler started", zap.Int("jobs", len(s.Cron.Entries())))
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// RunDigestNow executes the digest immediately (for RUN_ON_START).
func (s *Scheduler) RunDigestNow() {
	s.digestTask()
}

func (s *Scheduler) refreshRates() {
	t := s.Rates.Refresh(s.Ctx)
	s.logger.Info("scheduled fx refresh", zap.String("source", t.Source))
}

func (s *Scheduler) digestTask() {
	s.logger.Info("running watchlist digest", zap.Int("tickers", len(s.Watchlist)))
	lang := model.ParseLanguage(s.Defaults.Language)
	lines := s.Digest(s.Ctx)

	failures := 0
	for _, l := range lines {
		if l.Report == nil {
			failures++
		}
	}
	evt := &recorder.DigestEvent{Tickers: len(lines), Failures: failures}
	if s.Notifier != nil {
		if err := s.Notifier.SendWithRetry(s.Ctx, notifier.FormatDigest(lines, lang), sendRetries); err != nil {
			s.logger.Error("send digest", zap.Error(err))
			evt.Note = err.Error()
		} else {
			evt.Sent = true
		}
	}
	if err := s.Recorder.RecordDigest(s.Ctx, evt); err != nil {
		s.logger.Error("record digest", zap.Error(err))
	}
}

// Digest analyzes every watchlist ticker with the configured defaults.
// A failing ticker becomes a line carrying its user message.
func (s *Scheduler) Digest(ctx context.Context) []notifier.DigestLine {
	lang := model.ParseLanguage(s.Defaults.Language)
	lines := make([]notifier.DigestLine, 0, len(s.Watchlist))
	for _, ticker := range s.Watchlist {
		if ctx.Err() != nil {
			break
		}
		req := s.Defaults.Request(ticker)
		req.Now = time.Now()
		report, err := s.Analyzer.Run(ctx, req)
		if err != nil {
			s.logger.Warn("digest analysis failed", zap.String("ticker", ticker), zap.Error(err))
			lines = append(lines, notifier.DigestLine{Ticker: strings.ToUpper(ticker), Error: analysis.UserMessage(err, lang)})
			continue
		}
		lines = append(lines, notifier.DigestLine{Ticker: report.Ticker, Report: report})
	}
	return lines
}

// HandleCommand processes a bot command and returns a reply.
//
//	/analyze TICKER [CCY]
//	/rates
//	/help
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	lang := model.ParseLanguage(s.Defaults.Language)
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return i18n.T(lang, i18n.HelpText)
	}
	// Telegram appends @botname in group chats.
	name, _, _ := strings.Cut(strings.ToLower(fields[0]), "@")

	switch name {
	case "/analyze", "/a":
		if len(fields) < 2 {
			return i18n.T(lang, i18n.UsageAnalyze)
		}
		req := s.Defaults.Request(fields[1])
		if len(fields) > 2 {
			if !currency.DefaultRates().Has(fields[2]) {
				return i18n.T(lang, i18n.UsageAnalyze)
			}
			req.DisplayCurrency = fields[2]
		}
		req.Now = time.Now()
		report, err := s.Analyzer.Run(ctx, req)
		if err != nil {
			return analysis.UserMessage(err, lang)
		}
		return notifier.FormatReport(report)
	case "/rates":
		return notifier.FormatRates(s.Rates.Current(ctx), lang)
	default:
		return i18n.T(lang, i18n.HelpText)
	}
}
