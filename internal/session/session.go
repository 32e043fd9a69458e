// internal/session/session.go
package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rovshanmuradov/cryptocalc/internal/calc"
	"github.com/rovshanmuradov/cryptocalc/internal/logger"
	"github.com/rovshanmuradov/cryptocalc/internal/price"
	"go.uber.org/zap"
)

// ErrNothingToExport is returned by Report when no result is displayed.
var ErrNothingToExport = errors.New("nothing to export: calculate a result first")

// Recorder receives one call per calculation. *metrics.Collector implements it.
type Recorder interface {
	RecordCalculation(calculator string, duration time.Duration, err error, unavailable bool)
}

type noopRecorder struct{}

func (noopRecorder) RecordCalculation(string, time.Duration, error, bool) {}

// Deps are the collaborators shared by all calculator sessions.
type Deps struct {
	Provider price.Provider
	Quote    string
	Logger   *zap.Logger
	Recorder Recorder
}

func (d Deps) withDefaults() Deps {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Recorder == nil {
		d.Recorder = noopRecorder{}
	}
	if d.Quote == "" {
		d.Quote = price.DefaultQuote
	}
	return d
}

// PriceHolder keeps the most recently fetched price of the selected asset, or none.
type PriceHolder struct {
	current *price.AssetPrice
}

func (h *PriceHolder) Set(p price.AssetPrice) {
	h.current = &p
}

func (h *PriceHolder) Clear() {
	h.current = nil
}

// Current returns the held price, if any.
func (h *PriceHolder) Current() (price.AssetPrice, bool) {
	if h.current == nil {
		return price.AssetPrice{}, false
	}
	return *h.current, true
}

// Value returns the held unit price or nil.
func (h *PriceHolder) Value() *float64 {
	if h.current == nil {
		return nil
	}
	v := h.current.Price
	return &v
}

// base carries the state every calculator session has: the selected asset
// and its held price.
type base struct {
	name   string
	deps   Deps
	logger *zap.Logger
	asset  string
	holder PriceHolder
}

func newBase(name string, deps Deps) base {
	deps = deps.withDefaults()
	return base{
		name:   name,
		deps:   deps,
		logger: deps.Logger.Named(name),
	}
}

// Asset returns the selected asset id.
func (b *base) Asset() string {
	return b.asset
}

// Price returns the held price of the selected asset.
func (b *base) Price() (price.AssetPrice, bool) {
	return b.holder.Current()
}

// SetAsset changes the selected asset and drops the held price.
func (b *base) SetAsset(id string) {
	b.asset = strings.TrimSpace(id)
	b.holder.Clear()
}

// Fetch looks up the price of id without touching the session state, so it
// can run outside the goroutine that owns the session. Failures are logged.
func (b *base) Fetch(ctx context.Context, id string) (price.AssetPrice, error) {
	if b.deps.Provider == nil {
		return price.AssetPrice{}, price.ErrUnavailable
	}

	p, err := price.Lookup(ctx, b.deps.Provider, id, b.deps.Quote)
	if err != nil {
		b.logger.Warn("Price unavailable",
			zap.String("asset", id),
			zap.Error(err))
		return price.AssetPrice{}, err
	}
	return p, nil
}

// selectAsset refetches the price for id. On failure the held price stays
// cleared and the error is returned.
func (b *base) selectAsset(ctx context.Context, id string) (price.AssetPrice, error) {
	b.SetAsset(id)

	p, err := b.Fetch(ctx, b.asset)
	if err != nil {
		return price.AssetPrice{}, err
	}

	b.holder.Set(p)
	b.logger.Debug("Price updated",
		zap.String("asset", b.asset),
		zap.Float64("price", p.Price))
	return p, nil
}

// SetPrice installs a price obtained elsewhere, e.g. from a market list entry.
func (b *base) SetPrice(p price.AssetPrice) {
	b.asset = p.AssetID
	b.holder.Set(p)
}

// run wraps a computation with a correlation id, timing and metrics.
func (b *base) run(compute func() error) error {
	start := time.Now()
	opLogger, end := logger.TrackPerformance(b.logger, b.name)
	defer end()

	err := compute()
	b.deps.Recorder.RecordCalculation(b.name, time.Since(start), err, errors.Is(err, calc.ErrUnavailable))

	if err != nil {
		opLogger.Info("Calculation unavailable", zap.String("asset", b.asset), zap.Error(err))
		return err
	}
	opLogger.Debug("Calculation finished", zap.String("asset", b.asset))
	return nil
}
