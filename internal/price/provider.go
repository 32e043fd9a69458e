// internal/price/provider.go
package price

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable wraps every failure to obtain prices: network errors,
// non-2xx responses and payloads that cannot be decoded.
var ErrUnavailable = errors.New("price unavailable")

// Provider returns current unit prices and the list of tradable assets.
type Provider interface {
	// GetPrices returns the unit price of each requested asset in the quote currency.
	// Assets the source does not know are absent from the map.
	GetPrices(ctx context.Context, ids []string) (map[string]float64, error)

	// GetMarketList returns up to count assets ordered by market capitalisation.
	GetMarketList(ctx context.Context, count int) ([]Market, error)
}

// Market is one entry of the asset selector.
type Market struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Symbol       string  `json:"symbol"`
	ImageURL     string  `json:"image"`
	CurrentPrice float64 `json:"current_price"`
}

// AssetPrice is the unit price of one asset at the moment it was fetched.
type AssetPrice struct {
	AssetID   string
	Quote     string
	Price     float64
	FetchedAt time.Time
}

// Lookup fetches a single asset price. A missing or non-positive entry is reported
// as ErrUnavailable so callers can treat it like a failed fetch.
func Lookup(ctx context.Context, p Provider, id, quote string) (AssetPrice, error) {
	prices, err := p.GetPrices(ctx, []string{id})
	if err != nil {
		return AssetPrice{}, err
	}
	v, ok := prices[id]
	if !ok || v <= 0 {
		return AssetPrice{}, &MissingError{AssetID: id}
	}
	return AssetPrice{AssetID: id, Quote: quote, Price: v, FetchedAt: time.Now()}, nil
}

// MissingError reports an asset the price source returned no price for.
type MissingError struct {
	AssetID string
}

func (e *MissingError) Error() string {
	return "no price returned for " + e.AssetID
}

func (e *MissingError) Unwrap() error {
	return ErrUnavailable
}
