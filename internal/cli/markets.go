package cli

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/rovshanmuradov/cryptocalc/internal/app"
	"github.com/rovshanmuradov/cryptocalc/internal/price"
	"github.com/spf13/cobra"
)

func newMarketsCommand(global *globalFlags) *cobra.Command {
	var (
		count int
		ids   []string
	)

	cmd := &cobra.Command{
		Use:   "markets",
		Short: "Top assets by market cap, with prices of selected ids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, global, func(a *app.App) error {
				if count <= 0 {
					count = a.Config.MarketListSize
				}
				if len(ids) == 0 {
					ids = []string{a.Config.DefaultAsset}
				}

				ctx, cancel := fetchContext(cmd, a.Config)
				defer cancel()

				snap, err := price.Snapshot(ctx, a.Provider, ids, count)
				if err != nil {
					return fmt.Errorf("markets unavailable: %w", err)
				}

				quote := quoteLabel(a.Config.QuoteCurrency)
				rows := make([][]string, len(snap.Markets))
				for i, m := range snap.Markets {
					rows[i] = []string{
						fmt.Sprintf("%d", i+1),
						m.ID,
						m.Symbol,
						m.Name,
						humanize.CommafWithDigits(m.CurrentPrice, 2),
					}
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"#", "ID", "Symbol", "Name", "Price " + quote}, rows))
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"ID", "Price " + quote}, priceRows(ids, snap.Prices)))
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&count, "count", 0, "number of assets (default from config)")
	cmd.Flags().StringSliceVar(&ids, "ids", nil, "price ids to quote alongside the list")
	return cmd
}

func newPriceCommand(global *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "price <id>...",
		Short:   "Current price of one or more assets",
		Example: `  cryptocalc price bitcoin ethereum`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, ids []string) error {
			return withApp(cmd, global, func(a *app.App) error {
				ctx, cancel := fetchContext(cmd, a.Config)
				defer cancel()

				prices, err := a.Provider.GetPrices(ctx, ids)
				if err != nil {
					return fmt.Errorf("prices unavailable: %w", err)
				}

				quote := quoteLabel(a.Config.QuoteCurrency)
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"ID", "Price " + quote}, priceRows(ids, prices)))

				var missing []error
				for _, id := range ids {
					if _, ok := prices[id]; !ok {
						missing = append(missing, &price.MissingError{AssetID: id})
					}
				}
				return errors.Join(missing...)
			})
		},
	}
}

// priceRows lists ids in the requested order followed by any extra ids the
// source returned. Missing prices render as n/a.
func priceRows(ids []string, prices map[string]float64) [][]string {
	seen := make(map[string]bool, len(ids))
	rows := make([][]string, 0, len(ids))
	for _, id := range ids {
		seen[id] = true
		if v, ok := prices[id]; ok {
			rows = append(rows, []string{id, humanize.CommafWithDigits(v, 2)})
		} else {
			rows = append(rows, []string{id, "n/a"})
		}
	}

	var extra []string
	for id := range prices {
		if !seen[id] {
			extra = append(extra, id)
		}
	}
	sort.Strings(extra)
	for _, id := range extra {
		rows = append(rows, []string{id, humanize.CommafWithDigits(prices[id], 2)})
	}
	return rows
}
