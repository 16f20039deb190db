package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ValueScope/internal/notifier"
	"ValueScope/internal/scheduler"
	"ValueScope/internal/server"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, scheduled jobs and the Telegram bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()
			log := a.logger
			log.Info("ValueScope starting")

			a.rates.Refresh(ctx)

			var tn *notifier.TelegramNotifier
			var sender scheduler.Sender
			if a.cfg.TelegramEnabled() {
				tn = notifier.NewTelegramNotifier(a.cfg.Telegram.BotToken, a.cfg.Telegram.ChatID, a.cfg.Proxy, log)
				sender = tn
			} else {
				log.Info("telegram not configured, bot disabled")
			}

			sched := scheduler.NewScheduler(ctx, a.analyzer, a.rates, sender, a.recorder, a.cfg, log)
			if err := sched.RegisterAll(a.cfg.FX.RefreshCron, a.cfg.Schedule.DigestCron); err != nil {
				return err
			}
			sched.Start()
			defer sched.Stop()

			if tn != nil {
				go tn.StartPolling(ctx, sched.HandleCommand)
				log.Info("telegram polling started")
				if os.Getenv("RUN_ON_START") == "true" {
					log.Info("RUN_ON_START enabled, executing digest now")
					go sched.RunDigestNow()
				}
			}

			srv := server.New(a.cfg.Server.Addr, server.Handler{
				Analyzer: a.analyzer,
				Rates:    a.rates,
				Defaults: a.cfg.Defaults,
				Logger:   log,
			})
			errCh := make(chan error, 1)
			go func() {
				log.Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			select {
			case <-sigCh:
				log.Info("shutdown signal received, stopping")
			case err := <-errCh:
				log.Error("http server failed", zap.Error(err))
				cancel()
				return err
			}

			cancel()
			shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
			defer done()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Warn("http server shutdown", zap.Error(err))
			}
			log.Info("ValueScope stopped")
			return nil
		},
	}
}
