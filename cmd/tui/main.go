package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rovshanmuradov/cryptocalc/internal/app"
	"github.com/rovshanmuradov/cryptocalc/internal/config"
	"github.com/rovshanmuradov/cryptocalc/internal/logger"
	"github.com/rovshanmuradov/cryptocalc/internal/ui"
	"github.com/rovshanmuradov/cryptocalc/internal/ui/router"
	"github.com/rovshanmuradov/cryptocalc/internal/ui/screen"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (JSON or YAML)")
	metricsFile := flag.String("metrics-file", "", "Write prometheus metrics to this file on exit")
	flag.Parse()

	if err := run(*configPath, *metricsFile); err != nil {
		log.Fatal(err)
	}
}

func run(configPath, metricsFile string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// The terminal belongs to the UI: logs go to the ring buffer and the file.
	var file io.Writer
	if cfg.LogFile != "" {
		rotating := logger.NewRotating(logger.DefaultRotationConfig(cfg.LogFile))
		defer rotating.Close()
		file = rotating
	}

	buffer, err := logger.NewLogBuffer(cfg.LogBufferSize, nil, nil)
	if err != nil {
		return fmt.Errorf("failed to create log buffer: %w", err)
	}
	defer buffer.Close()

	appLogger, err := logger.CreateTUILoggerWithBuffer(cfg.DebugLogging, buffer, file)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer func() {
		_ = appLogger.Sync()
	}()

	appLogger.Info("Starting calculator TUI",
		zap.String("price_api", cfg.PriceAPIURL),
		zap.String("quote", cfg.QuoteCurrency))

	a := app.New(cfg, appLogger)
	mining, staking, roi := a.Mining(), a.Staking(), a.ROI()

	createUI := func() (tea.Model, []tea.ProgramOption) {
		env := screen.Env{
			Exporter:     a.Exporter,
			ExportDir:    cfg.ExportDir,
			Recorder:     a.Metrics,
			FetchTimeout: cfg.RequestTimeout() * 2,
			Assets:       []string{cfg.DefaultAsset},
		}
		screens := map[ui.Route]router.Screen{
			ui.RouteMining:  screen.NewMiningScreen(mining, env),
			ui.RouteStaking: screen.NewStakingScreen(staking, env),
			ui.RouteROI:     screen.NewROIScreen(roi, env),
			ui.RouteLogs:    screen.NewLogsScreen(buffer),
		}
		model := NewAppModel(screen.NewMainMenuScreen(cfg.QuoteCurrency), screens, loadMarkets(a))
		return ui.NewSafeUIWrapper(model, appLogger), []tea.ProgramOption{tea.WithAltScreen()}
	}

	err = ui.NewRecoveryHandler(appLogger, createUI).RunWithRecovery()
	if err != nil {
		appLogger.Error("TUI application failed", zap.Error(err))
	}

	if ferr := a.FlushMetrics(metricsFile); ferr != nil {
		appLogger.Error("Failed to write metrics", zap.Error(ferr))
	}
	appLogger.Info("Calculator TUI stopped")
	return err
}

// loadMarkets fetches the asset list that fills the selectors.
func loadMarkets(a *app.App) tea.Cmd {
	return func() tea.Msg {
		markets, err := a.Markets(context.Background())
		return ui.MarketListMsg{Markets: markets, Err: err}
	}
}
