// internal/price/snapshot.go
package price

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// MarketSnapshot combines the asset selector list with prices for a fixed set of ids.
type MarketSnapshot struct {
	Markets []Market
	Prices  map[string]float64
}

// Snapshot fetches the market list and the prices of ids concurrently.
// The first failure cancels the other request.
func Snapshot(ctx context.Context, p Provider, ids []string, count int) (MarketSnapshot, error) {
	var snap MarketSnapshot

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		markets, err := p.GetMarketList(gctx, count)
		if err != nil {
			return fmt.Errorf("market list: %w", err)
		}
		snap.Markets = markets
		return nil
	})

	g.Go(func() error {
		prices, err := p.GetPrices(gctx, ids)
		if err != nil {
			return fmt.Errorf("prices: %w", err)
		}
		snap.Prices = prices
		return nil
	})

	if err := g.Wait(); err != nil {
		return MarketSnapshot{}, err
	}
	return snap, nil
}
