// internal/cli/root.go
package cli

import (
	"context"
	"errors"
	"time"

	"github.com/rovshanmuradov/cryptocalc/internal/app"
	"github.com/rovshanmuradov/cryptocalc/internal/config"
	"github.com/rovshanmuradov/cryptocalc/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const Version = "1.0.0"

// globalFlags are the persistent flags of the root command.
type globalFlags struct {
	configFile  string
	verbose     bool
	metricsFile string
}

// NewRootCommand builds the cryptocalc command tree.
func NewRootCommand() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "cryptocalc",
		Short: "Mining, staking and ROI calculators with live prices",
		Long: `cryptocalc computes mining profitability, staking rewards and the return
on a buy/sell position. Prices come from CoinGecko unless given explicitly.
Run cryptocalc-tui for the interactive version.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&flags.configFile, "config", "", "config file (JSON or YAML)")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&flags.metricsFile, "metrics-file", "", "write prometheus metrics to this file on exit")

	rootCmd.AddCommand(
		newMiningCommand(flags),
		newStakingCommand(flags),
		newROICommand(flags),
		newMarketsCommand(flags),
		newPriceCommand(flags),
	)
	return rootCmd
}

// withApp loads the configuration, runs fn with the wired application and
// flushes metrics afterwards, also when fn fails.
func withApp(cmd *cobra.Command, flags *globalFlags, fn func(a *app.App) error) error {
	cfg, err := config.LoadConfig(flags.configFile)
	if err != nil {
		return err
	}

	log := logger.NewPrettyLogger(cmd.ErrOrStderr(), flags.verbose || cfg.DebugLogging)
	defer func() { _ = log.Sync() }()

	a := app.New(cfg, log)
	runErr := fn(a)
	if runErr != nil {
		log.Debug("Command failed", zap.String("command", cmd.Name()), zap.Error(runErr))
	}
	return errors.Join(runErr, a.FlushMetrics(flags.metricsFile))
}

// fetchContext bounds one price request including retries.
func fetchContext(cmd *cobra.Command, cfg *config.Config) (context.Context, context.CancelFunc) {
	timeout := cfg.RequestTimeout() * time.Duration(cfg.PriceRetries+1)
	return context.WithTimeout(cmd.Context(), timeout)
}
