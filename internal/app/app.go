// internal/app/app.go
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rovshanmuradov/cryptocalc/internal/config"
	"github.com/rovshanmuradov/cryptocalc/internal/export"
	"github.com/rovshanmuradov/cryptocalc/internal/metrics"
	"github.com/rovshanmuradov/cryptocalc/internal/price"
	"github.com/rovshanmuradov/cryptocalc/internal/session"
	"go.uber.org/zap"
)

// App wires the collaborators shared by the TUI and the CLI.
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	Metrics  *metrics.Collector
	Provider price.Provider
	Exporter *export.ResultExporter
}

// New builds the price client, metrics and exporter from cfg.
func New(cfg *config.Config, logger *zap.Logger) *App {
	collector := metrics.NewCollector()

	client := price.NewCoinGecko(price.Options{
		BaseURL:   cfg.PriceAPIURL,
		Quote:     cfg.QuoteCurrency,
		APIKey:    cfg.APIKey,
		Timeout:   cfg.RequestTimeout(),
		RateLimit: cfg.RateLimitPerMinute,
		Retries:   cfg.PriceRetries,
	}, logger)
	client.SetObserver(collector)

	return &App{
		Config:   cfg,
		Logger:   logger,
		Metrics:  collector,
		Provider: client,
		Exporter: export.NewResultExporter(logger),
	}
}

// Deps returns the session dependencies.
func (a *App) Deps() session.Deps {
	return session.Deps{
		Provider: a.Provider,
		Quote:    a.Config.QuoteCurrency,
		Logger:   a.Logger,
		Recorder: a.Metrics,
	}
}

// Mining returns a mining session with the default asset selected.
func (a *App) Mining() *session.Mining {
	m := session.NewMining(a.Deps())
	m.SetAsset(a.Config.DefaultAsset)
	return m
}

// Staking returns a staking session over the configured ticker table.
func (a *App) Staking() *session.Staking {
	return session.NewStaking(a.Deps(), a.Config.StakingAssets)
}

// ROI returns an ROI session with the default asset selected.
func (a *App) ROI() *session.ROI {
	r := session.NewROI(a.Deps())
	r.SetAsset(a.Config.DefaultAsset)
	return r
}

// Markets fetches the configured number of top assets.
func (a *App) Markets(ctx context.Context) ([]price.Market, error) {
	ctx, cancel := context.WithTimeout(ctx, a.fetchTimeout())
	defer cancel()

	markets, err := a.Provider.GetMarketList(ctx, a.Config.MarketListSize)
	if err != nil {
		a.Logger.Warn("Market list unavailable", zap.Error(err))
		return nil, err
	}
	return markets, nil
}

// fetchTimeout bounds a whole fetch including retries.
func (a *App) fetchTimeout() time.Duration {
	return a.Config.RequestTimeout() * time.Duration(a.Config.PriceRetries+1)
}

// FlushMetrics writes the metrics textfile when path is set.
func (a *App) FlushMetrics(path string) error {
	if path == "" {
		return nil
	}
	if err := a.Metrics.WriteToTextfile(path); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
