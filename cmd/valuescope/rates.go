package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ValueScope/internal/model"
	"ValueScope/internal/render"
)

func newRatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Refresh and print exchange rates against USD",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			lang := model.ParseLanguage(a.cfg.Defaults.Language)
			if viper.IsSet("lang") {
				lang = model.ParseLanguage(viper.GetString("lang"))
			}
			opts := renderOptions()
			render.Rates(os.Stdout, a.rates.Refresh(cmd.Context()), lang, opts)

			code := strings.ToUpper(viper.GetString("history"))
			if code == "" {
				return nil
			}
			points, err := a.recorder.RecentRates(cmd.Context(), code, viper.GetInt("limit"))
			if err != nil {
				return err
			}
			render.RateHistory(os.Stdout, code, points, opts)
			return nil
		},
	}

	f := cmd.Flags()
	f.String("history", "", "also print stored snapshots for this currency")
	f.Int("limit", 24, "number of stored snapshots to print")
	_ = viper.BindPFlag("history", f.Lookup("history"))
	_ = viper.BindPFlag("limit", f.Lookup("limit"))
	return cmd
}
