package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ValueScope/internal/analysis"
	"ValueScope/internal/config"
	"ValueScope/internal/model"
	"ValueScope/internal/render"
)

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze TICKER",
		Short: "Analyze one ticker and print the report",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("requires exactly 1 ticker argument")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			req := requestFromFlags(a.cfg.Defaults, args[0])
			report, err := a.analyzer.Run(cmd.Context(), req)
			if err != nil {
				return errors.New(analysis.UserMessage(err, req.Language))
			}

			if viper.GetBool("json") {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			return render.Report(os.Stdout, report, renderOptions())
		},
	}

	f := cmd.Flags()
	f.String("currency", "", "display currency (USD, CAD, KRW, EUR, GBP, JPY)")
	f.Int("years", 0, fmt.Sprintf("projection horizon in years (%d-%d)", model.MinHorizonYears, model.MaxHorizonYears))
	f.Float64("initial", 0, "initial principal in display currency")
	f.Float64("monthly", 0, "monthly deposit in display currency")
	f.Int("start", 0, "replay start year (default max(listing year, 2000))")
	f.Bool("json", false, "print the report as JSON")
	for _, name := range []string{"currency", "years", "initial", "monthly", "start", "json"} {
		_ = viper.BindPFlag(name, f.Lookup(name))
	}
	return cmd
}

// requestFromFlags starts from the configured defaults and applies every
// flag or VALUESCOPE_* variable that was set.
func requestFromFlags(d config.Defaults, ticker string) model.Request {
	req := d.Request(ticker)
	req.Now = time.Now()
	if viper.IsSet("currency") {
		req.DisplayCurrency = strings.ToUpper(viper.GetString("currency"))
	}
	if viper.IsSet("lang") {
		req.Language = model.ParseLanguage(viper.GetString("lang"))
	}
	if viper.IsSet("years") {
		req.HorizonYears = viper.GetInt("years")
	}
	if viper.IsSet("initial") {
		req.InitialAmount = viper.GetFloat64("initial")
	}
	if viper.IsSet("monthly") {
		req.MonthlyAmount = viper.GetFloat64("monthly")
	}
	if viper.IsSet("start") {
		req.StartYear = viper.GetInt("start")
	}
	return req
}
