package main

import (
	"context"
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"ValueScope/internal/analysis"
	"ValueScope/internal/annotator"
	"ValueScope/internal/collector"
	"ValueScope/internal/config"
	"ValueScope/internal/currency"
	"ValueScope/internal/logging"
	"ValueScope/internal/recorder"
	"ValueScope/internal/render"
)

// app holds the components shared by every subcommand.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	fetcher  *collector.YahooFetcher
	rates    *currency.RateService
	recorder recorder.Recorder
	analyzer *analysis.Analyzer
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(viper.GetString("config"))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	fetcher := collector.NewYahooFetcher(collector.Options{
		ProxyURL:   cfg.Proxy,
		Timeout:    cfg.DataSource.Timeout,
		MaxRetries: cfg.DataSource.MaxRetries,
		UserAgent:  cfg.DataSource.UserAgent,
	}, logger)
	logger.Info("data source ready", zap.String("provider", fetcher.Name()))

	var rec recorder.Recorder = recorder.NewNoopRecorder()
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, logger)
		if err != nil {
			logger.Warn("init sqlite recorder failed, using noop", zap.Error(err))
		} else {
			rec = sr
		}
	}

	rates := currency.NewRateService(fetcher, cfg.FX.Currencies, cfg.FX.TTL, logger).WithSink(rec)

	var ann annotator.Annotator = annotator.Noop{}
	if cfg.Annotator.APIKey != "" {
		g, err := annotator.NewGemini(ctx, cfg.Annotator.APIKey, cfg.Annotator.Model)
		if err != nil {
			logger.Warn("init gemini annotator failed, continuing without commentary", zap.Error(err))
		} else {
			ann = g
		}
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		fetcher:  fetcher,
		rates:    rates,
		recorder: rec,
		analyzer: analysis.New(fetcher, rates, ann, logger),
	}, nil
}

func (a *app) Close() {
	if err := a.recorder.Close(); err != nil {
		a.logger.Error("close recorder", zap.Error(err))
	}
	_ = a.logger.Sync()
}

func renderOptions() render.Options {
	return render.Options{Color: viper.GetBool("color")}
}
