package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultConfigPath = "configs/config.yaml"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "valuescope",
		Short:         "Valuation, what-if replay and growth projection for a ticker",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			viper.SetEnvPrefix("VALUESCOPE")
			viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
			viper.AutomaticEnv()
		},
	}

	cfgPath := defaultConfigPath
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	root.PersistentFlags().String("config", cfgPath, "path to the YAML config file")
	root.PersistentFlags().Bool("color", true, "colorize terminal output")
	root.PersistentFlags().String("lang", "", "label language (ko, en)")
	for _, name := range []string{"config", "color", "lang"} {
		_ = viper.BindPFlag(name, root.PersistentFlags().Lookup(name))
	}

	root.AddCommand(newAnalyzeCmd(), newRatesCmd(), newServeCmd())
	return root
}
