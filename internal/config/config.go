// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvPrefix = "CRYPTOCALC"

type Config struct {
	PriceAPIURL        string            `mapstructure:"price_api_url"`
	QuoteCurrency      string            `mapstructure:"quote_currency"`
	APIKey             string            `mapstructure:"api_key"`
	RequestTimeoutMs   int               `mapstructure:"request_timeout_ms"`
	PriceRetries       int               `mapstructure:"price_retries"`
	RateLimitPerMinute int               `mapstructure:"rate_limit_per_minute"`
	MarketListSize     int               `mapstructure:"market_list_size"`
	DefaultAsset       string            `mapstructure:"default_asset"`
	StakingAssets      map[string]string `mapstructure:"staking_assets"`
	ExportDir          string            `mapstructure:"export_dir"`
	DebugLogging       bool              `mapstructure:"debug_logging"`
	LogFile            string            `mapstructure:"log_file"`
	LogBufferSize      int               `mapstructure:"log_buffer_size"`
}

const (
	DefaultPriceAPIURL        = "https://api.coingecko.com/api/v3"
	DefaultQuoteCurrency      = "usd"
	DefaultRequestTimeoutMs   = 10000
	DefaultPriceRetries       = 0
	DefaultRateLimitPerMinute = 30
	DefaultMarketListSize     = 10
	DefaultAsset              = "bitcoin"
	DefaultExportDir          = "exports"
	DefaultLogFile            = "logs/cryptocalc.log"
	DefaultLogBufferSize      = 500

	maxMarketListSize = 250
)

// DefaultStakingAssets maps the staking selector symbols to price ids.
func DefaultStakingAssets() map[string]string {
	return map[string]string{
		"ETH": "ethereum",
		"BNB": "binancecoin",
		"ADA": "cardano",
		"SOL": "solana",
		"DOT": "polkadot",
	}
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		PriceAPIURL:        DefaultPriceAPIURL,
		QuoteCurrency:      DefaultQuoteCurrency,
		RequestTimeoutMs:   DefaultRequestTimeoutMs,
		PriceRetries:       DefaultPriceRetries,
		RateLimitPerMinute: DefaultRateLimitPerMinute,
		MarketListSize:     DefaultMarketListSize,
		DefaultAsset:       DefaultAsset,
		StakingAssets:      DefaultStakingAssets(),
		ExportDir:          DefaultExportDir,
		LogFile:            DefaultLogFile,
		LogBufferSize:      DefaultLogBufferSize,
	}
}

// RequestTimeout returns the HTTP timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMs) * time.Millisecond
}

// LoadConfig reads path (JSON or YAML, optional), then .env files, then
// CRYPTOCALC_* environment variables. Later sources win.
func LoadConfig(path string, dotenvFiles ...string) (*Config, error) {
	if err := loadDotEnv(dotenvFiles...); err != nil {
		return nil, err
	}

	v := viper.New()

	defaults := map[string]interface{}{
		"price_api_url":         DefaultPriceAPIURL,
		"quote_currency":        DefaultQuoteCurrency,
		"api_key":               "",
		"request_timeout_ms":    DefaultRequestTimeoutMs,
		"price_retries":         DefaultPriceRetries,
		"rate_limit_per_minute": DefaultRateLimitPerMinute,
		"market_list_size":      DefaultMarketListSize,
		"default_asset":         DefaultAsset,
		"export_dir":            DefaultExportDir,
		"debug_logging":         false,
		"log_file":              DefaultLogFile,
		"log_buffer_size":       DefaultLogBufferSize,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := loadEnvironmentVariables(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	normalize(&cfg)

	return &cfg, validateConfig(&cfg)
}

func loadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

func loadEnvironmentVariables(v *viper.Viper) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// SYMBOL=id pairs, e.g. "ETH=ethereum,ATOM=cosmos"
	raw := strings.TrimSpace(os.Getenv(EnvPrefix + "_STAKING_ASSETS"))
	if raw == "" {
		return nil
	}
	assets := make(map[string]interface{})
	for _, pair := range strings.Split(raw, ",") {
		symbol, id, ok := strings.Cut(strings.TrimSpace(pair), "=")
		symbol, id = strings.TrimSpace(symbol), strings.TrimSpace(id)
		if !ok || symbol == "" || id == "" {
			return fmt.Errorf("invalid %s_STAKING_ASSETS entry %q", EnvPrefix, pair)
		}
		assets[symbol] = id
	}
	v.Set("staking_assets", assets)
	return nil
}

func normalize(cfg *Config) {
	cfg.QuoteCurrency = strings.ToLower(strings.TrimSpace(cfg.QuoteCurrency))
	cfg.PriceAPIURL = strings.TrimRight(strings.TrimSpace(cfg.PriceAPIURL), "/")

	// viper lower-cases map keys; selector symbols are shown upper-case.
	assets := make(map[string]string, len(cfg.StakingAssets))
	for symbol, id := range cfg.StakingAssets {
		assets[strings.ToUpper(symbol)] = id
	}
	if len(assets) == 0 {
		assets = DefaultStakingAssets()
	}
	cfg.StakingAssets = assets
}

func validateConfig(cfg *Config) error {
	parsed, err := url.Parse(cfg.PriceAPIURL)
	if err != nil || parsed.Host == "" {
		return errors.New("invalid price_api_url")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return errors.New("price_api_url must use http or https")
	}
	if cfg.QuoteCurrency == "" {
		return errors.New("missing quote_currency")
	}
	if cfg.DefaultAsset == "" {
		return errors.New("missing default_asset")
	}
	return validateNumericParams(cfg)
}

func validateNumericParams(cfg *Config) error {
	if cfg.RequestTimeoutMs <= 0 {
		return errors.New("invalid request_timeout_ms")
	}
	if cfg.PriceRetries < 0 {
		return errors.New("invalid price_retries")
	}
	if cfg.RateLimitPerMinute < 0 {
		return errors.New("invalid rate_limit_per_minute")
	}
	if cfg.MarketListSize <= 0 || cfg.MarketListSize > maxMarketListSize {
		return fmt.Errorf("market_list_size must be between 1 and %d", maxMarketListSize)
	}
	if cfg.LogBufferSize <= 0 {
		return errors.New("invalid log_buffer_size")
	}
	return nil
}
