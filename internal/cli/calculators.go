package cli

import (
	"fmt"
	"strings"

	"github.com/rovshanmuradov/cryptocalc/internal/app"
	"github.com/rovshanmuradov/cryptocalc/internal/calc"
	"github.com/rovshanmuradov/cryptocalc/internal/export"
	"github.com/spf13/cobra"
)

// Calculator flags are kept as raw text so the CLI and the TUI share one
// parse policy.

func newMiningCommand(global *globalFlags) *cobra.Command {
	var (
		asset  string
		fields calc.MiningFields
		out    exportFlags
	)

	cmd := &cobra.Command{
		Use:   "mining",
		Short: "Daily mining revenue, energy cost and profit",
		Example: `  cryptocalc mining --hashrate 100 --power 3000 --electricity 0.1
  cryptocalc mining --asset ethereum --hashrate 500 --power 1200 --electricity 0.08 --price 2500`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := out.validate(); err != nil {
				return err
			}
			return withApp(cmd, global, func(a *app.App) error {
				sess := a.Mining()
				if asset != "" {
					sess.SetAsset(asset)
				}

				// The fetched price only matters without an override.
				if strings.TrimSpace(fields.PriceOverride) == "" {
					ctx, cancel := fetchContext(cmd, a.Config)
					_, _ = sess.Select(ctx, sess.Asset())
					cancel()
				}

				if _, err := sess.Calculate(fields); err != nil {
					return fmt.Errorf("mining result unavailable: %w", err)
				}
				return emitReport(cmd, a, &out, sess.Report)
			})
		},
	}

	cmd.Flags().StringVar(&asset, "asset", "", "price id of the mined coin (default from config)")
	cmd.Flags().StringVar(&fields.Hashrate, "hashrate", "", "hashrate in MH/s")
	cmd.Flags().StringVar(&fields.Power, "power", "", "power consumption in W")
	cmd.Flags().StringVar(&fields.ElectricityCost, "electricity", "", "electricity cost per kWh")
	cmd.Flags().StringVar(&fields.BlockReward, "block-reward", "", "block reward (default 6.25)")
	cmd.Flags().StringVar(&fields.Difficulty, "difficulty", "", "network difficulty (default 1000000)")
	cmd.Flags().StringVar(&fields.PriceOverride, "price", "", "coin price; skips the price lookup")
	out.register(cmd)
	return cmd
}

func newStakingCommand(global *globalFlags) *cobra.Command {
	var (
		symbol string
		fields calc.StakingFields
		out    exportFlags
	)

	cmd := &cobra.Command{
		Use:     "staking",
		Short:   "Projected staking reward after the validator fee",
		Example: `  cryptocalc staking --symbol ETH --amount 32 --apy 4 --months 12 --fee 10`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := out.validate(); err != nil {
				return err
			}
			return withApp(cmd, global, func(a *app.App) error {
				sess := a.Staking()
				if strings.TrimSpace(fields.Price) == "" {
					ctx, cancel := fetchContext(cmd, a.Config)
					_, _ = sess.Select(ctx, symbol)
					cancel()
				} else {
					sess.SetSymbol(symbol)
				}

				if _, err := sess.Calculate(fields); err != nil {
					return fmt.Errorf("staking result unavailable: %w", err)
				}
				return emitReport(cmd, a, &out, sess.Report)
			})
		},
	}

	cmd.Flags().StringVar(&symbol, "symbol", "ETH", "ticker of the staked coin")
	cmd.Flags().StringVar(&fields.Amount, "amount", "", "stake amount in coins")
	cmd.Flags().StringVar(&fields.APY, "apy", "", "annual percentage yield")
	cmd.Flags().StringVar(&fields.Days, "days", "", "holding period in days")
	cmd.Flags().StringVar(&fields.Months, "months", "", "holding period in months of 30 days")
	cmd.Flags().StringVar(&fields.Fee, "fee", "", "validator fee in percent")
	cmd.Flags().StringVar(&fields.Price, "price", "", "coin price; skips the price lookup")
	out.register(cmd)
	return cmd
}

func newROICommand(global *globalFlags) *cobra.Command {
	var (
		asset  string
		fields calc.ROIFields
		out    exportFlags
	)

	cmd := &cobra.Command{
		Use:   "roi",
		Short: "Return on a buy/sell position with optional monthly buys",
		Example: `  cryptocalc roi --investment 1000 --buy 100 --sell 150
  cryptocalc roi --asset solana --investment 500 --sell 300 --hold-months 12 --monthly 100`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := out.validate(); err != nil {
				return err
			}
			return withApp(cmd, global, func(a *app.App) error {
				sess := a.ROI()
				if asset != "" {
					sess.SetAsset(asset)
				}

				// Without a buy price the current price is used.
				if strings.TrimSpace(fields.BuyPrice) == "" {
					ctx, cancel := fetchContext(cmd, a.Config)
					_, _ = sess.Select(ctx, sess.Asset())
					cancel()
				}

				if _, err := sess.Calculate(fields); err != nil {
					return fmt.Errorf("ROI result unavailable: %w", err)
				}
				return emitReport(cmd, a, &out, sess.Report)
			})
		},
	}

	cmd.Flags().StringVar(&asset, "asset", "", "price id used for the buy price (default from config)")
	cmd.Flags().StringVar(&fields.Investment, "investment", "", "amount invested")
	cmd.Flags().StringVar(&fields.BuyPrice, "buy", "", "buy price; fetched when omitted")
	cmd.Flags().StringVar(&fields.SellPrice, "sell", "", "sell price")
	cmd.Flags().StringVar(&fields.HoldDays, "hold-days", "", "holding period in days")
	cmd.Flags().StringVar(&fields.HoldMonths, "hold-months", "", "holding period in months of 30 days")
	cmd.Flags().StringVar(&fields.Monthly, "monthly", "", "monthly contribution")
	out.register(cmd)
	return cmd
}

func emitReport(cmd *cobra.Command, a *app.App, out *exportFlags, report func() (export.Report, error)) error {
	r, err := report()
	if err != nil {
		return err
	}
	if err := out.emit(cmd, a.Exporter, r); err != nil {
		a.Metrics.RecordExport(out.format, err)
		return err
	}
	if out.path != "" {
		a.Metrics.RecordExport(out.format, nil)
	}
	return nil
}
