// internal/price/coingecko.go
package price

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL   = "https://api.coingecko.com/api/v3"
	DefaultQuote     = "usd"
	DefaultTimeout   = 10 * time.Second
	DefaultRateLimit = 30 // requests per minute, public tier

	apiKeyHeader = "x-cg-demo-api-key"
	maxBodyBytes = 4 << 20
)

// Options configures a CoinGecko client.
type Options struct {
	BaseURL   string
	Quote     string
	APIKey    string
	Timeout   time.Duration
	RateLimit int // requests per minute, 0 disables limiting
	Retries   int // extra attempts after the first, 0 means a single attempt
	// RetryInterval is the first backoff delay.
	RetryInterval time.Duration
	HTTPClient    *http.Client
}

// Observer receives the outcome of each request. It is optional.
type Observer interface {
	ObserveFetch(endpoint string, duration time.Duration, err error)
}

// CoinGecko implements Provider against the public CoinGecko REST API.
type CoinGecko struct {
	client   *http.Client
	baseURL  string
	quote    string
	apiKey   string
	retries  int
	interval time.Duration
	limiter  *rate.Limiter
	observer Observer
	logger   *zap.Logger
}

// NewCoinGecko creates a client. Zero option values take package defaults.
func NewCoinGecko(opts Options, logger *zap.Logger) *CoinGecko {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Quote == "" {
		opts.Quote = DefaultQuote
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = 500 * time.Millisecond
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}

	cg := &CoinGecko{
		client:   client,
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		quote:    strings.ToLower(opts.Quote),
		apiKey:   opts.APIKey,
		retries:  opts.Retries,
		interval: opts.RetryInterval,
		logger:   logger.Named("coingecko"),
	}
	if opts.RateLimit > 0 {
		cg.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RateLimit)), 1)
	}
	return cg
}

// SetObserver attaches a request observer, typically the metrics collector.
func (c *CoinGecko) SetObserver(o Observer) {
	c.observer = o
}

// Quote returns the quote currency code prices are expressed in.
func (c *CoinGecko) Quote() string {
	return c.quote
}

// GetPrices calls /simple/price for the given ids.
func (c *CoinGecko) GetPrices(ctx context.Context, ids []string) (map[string]float64, error) {
	if len(ids) == 0 {
		return map[string]float64{}, nil
	}

	q := url.Values{}
	q.Set("ids", strings.Join(ids, ","))
	q.Set("vs_currencies", c.quote)

	var payload map[string]map[string]float64
	if err := c.get(ctx, "/simple/price", q, &payload); err != nil {
		return nil, err
	}

	prices := make(map[string]float64, len(ids))
	for _, id := range ids {
		quotes, ok := payload[id]
		if !ok {
			continue
		}
		if v, ok := quotes[c.quote]; ok {
			prices[id] = v
		}
	}

	c.logger.Debug("Prices fetched",
		zap.Strings("ids", ids),
		zap.Int("returned", len(prices)))

	return prices, nil
}

// GetMarketList calls /coins/markets ordered by market cap.
func (c *CoinGecko) GetMarketList(ctx context.Context, count int) ([]Market, error) {
	if count <= 0 {
		count = 10
	}

	q := url.Values{}
	q.Set("vs_currency", c.quote)
	q.Set("order", "market_cap_desc")
	q.Set("per_page", strconv.Itoa(count))
	q.Set("page", "1")

	var markets []Market
	if err := c.get(ctx, "/coins/markets", q, &markets); err != nil {
		return nil, err
	}
	if len(markets) > count {
		markets = markets[:count]
	}

	c.logger.Debug("Market list fetched", zap.Int("count", len(markets)))
	return markets, nil
}

// get performs a GET with rate limiting and optional retries, decoding JSON into out.
func (c *CoinGecko) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	endpoint := c.baseURL + path + "?" + query.Encode()
	start := time.Now()

	operation := func() (struct{}, error) {
		return struct{}{}, c.doRequest(ctx, endpoint, out)
	}

	notify := func(err error, d time.Duration) {
		c.logger.Debug("Retrying price request",
			zap.String("path", path),
			zap.Duration("backoff", d),
			zap.Error(err))
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.interval
	policy.MaxInterval = c.interval * 10

	_, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(uint(c.retries+1)),
		backoff.WithMaxElapsedTime(time.Minute),
		backoff.WithNotify(notify))

	if c.observer != nil {
		c.observer.ObserveFetch(path, time.Since(start), err)
	}
	if err != nil {
		if errors.Is(err, ErrUnavailable) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}

func (c *CoinGecko) doRequest(ctx context.Context, endpoint string, out interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return backoff.Permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return backoff.Permanent(fmt.Errorf("execute request: %w", err))
		}
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		statusErr := &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return statusErr
		}
		return backoff.Permanent(statusErr)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		return backoff.Permanent(fmt.Errorf("%w: decode response: %w", ErrUnavailable, err))
	}
	return nil
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status code: %d", e.Code)
	}
	return fmt.Sprintf("unexpected status code: %d, body: %s", e.Code, e.Body)
}
