package price

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts Options) *CoinGecko {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	opts.BaseURL = srv.URL
	opts.RetryInterval = time.Millisecond
	return NewCoinGecko(opts, zap.NewNop())
}

func TestCoinGecko_GetPrices(t *testing.T) {
	var gotQuery, gotKey string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/simple/price", r.URL.Path)
		gotQuery = r.URL.RawQuery
		gotKey = r.Header.Get(apiKeyHeader)
		_, _ = w.Write([]byte(`{"bitcoin":{"usd":64000.5},"ethereum":{"usd":3100}}`))
	}, Options{APIKey: "secret"})

	prices, err := c.GetPrices(context.Background(), []string{"bitcoin", "ethereum"})
	require.NoError(t, err)

	assert.Equal(t, map[string]float64{"bitcoin": 64000.5, "ethereum": 3100}, prices)
	assert.Contains(t, gotQuery, "vs_currencies=usd")
	assert.Contains(t, gotQuery, "ids=bitcoin%2Cethereum")
	assert.Equal(t, "secret", gotKey)
}

func TestCoinGecko_GetPrices_Partial(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"bitcoin":{"usd":64000},"cardano":{"eur":0.4}}`))
	}, Options{})

	prices, err := c.GetPrices(context.Background(), []string{"bitcoin", "cardano", "nope"})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"bitcoin": 64000}, prices)

	_, err = Lookup(context.Background(), c, "nope", c.Quote())
	var missing *MissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "nope", missing.AssetID)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestCoinGecko_GetPrices_NoIDs(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}, Options{})

	prices, err := c.GetPrices(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, prices)
	assert.Zero(t, calls.Load())
}

func TestCoinGecko_GetMarketList(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/coins/markets", r.URL.Path)
		assert.Equal(t, "market_cap_desc", r.URL.Query().Get("order"))
		assert.Equal(t, "2", r.URL.Query().Get("per_page"))
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		_, _ = w.Write([]byte(`[
			{"id":"bitcoin","name":"Bitcoin","symbol":"btc","image":"https://img/btc.png","current_price":64000},
			{"id":"ethereum","name":"Ethereum","symbol":"eth","image":"https://img/eth.png","current_price":3100},
			{"id":"tether","name":"Tether","symbol":"usdt","image":"","current_price":1}
		]`))
	}, Options{})

	markets, err := c.GetMarketList(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, markets, 2)
	assert.Equal(t, Market{
		ID:           "bitcoin",
		Name:         "Bitcoin",
		Symbol:       "btc",
		ImageURL:     "https://img/btc.png",
		CurrentPrice: 64000,
	}, markets[0])
}

func TestCoinGecko_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		status  int
	}{
		{
			name: "non 2xx",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
			status: http.StatusInternalServerError,
		},
		{
			name: "bad request",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "invalid vs_currency", http.StatusBadRequest)
			},
			status: http.StatusBadRequest,
		},
		{
			name: "malformed json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"bitcoin":`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.handler, Options{})

			_, err := c.GetPrices(context.Background(), []string{"bitcoin"})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUnavailable)

			var se *StatusError
			if tt.status != 0 {
				require.ErrorAs(t, err, &se)
				assert.Equal(t, tt.status, se.Code)
			} else {
				assert.False(t, errors.As(err, &se))
			}
		})
	}
}

func TestCoinGecko_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewCoinGecko(Options{BaseURL: url}, zap.NewNop())
	_, err := c.GetMarketList(context.Background(), 5)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestCoinGecko_RetryOnTooManyRequests(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"bitcoin":{"usd":1}}`))
	}, Options{Retries: 3})

	prices, err := c.GetPrices(context.Background(), []string{"bitcoin"})
	require.NoError(t, err)
	assert.Equal(t, 1.0, prices["bitcoin"])
	assert.Equal(t, int32(3), calls.Load())
}

func TestCoinGecko_NoRetryByDefault(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}, Options{})

	_, err := c.GetPrices(context.Background(), []string{"bitcoin"})
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, int32(1), calls.Load())
}

func TestCoinGecko_PermanentStatusNotRetried(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}, Options{Retries: 5})

	_, err := c.GetPrices(context.Background(), []string{"bitcoin"})
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, int32(1), calls.Load())
}

type recordingObserver struct {
	paths []string
	errs  []error
}

func (o *recordingObserver) ObserveFetch(endpoint string, _ time.Duration, err error) {
	o.paths = append(o.paths, endpoint)
	o.errs = append(o.errs, err)
}

func TestCoinGecko_Observer(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}, Options{})
	obs := &recordingObserver{}
	c.SetObserver(obs)

	_, err := c.GetMarketList(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"/coins/markets"}, obs.paths)
	assert.Equal(t, []error{nil}, obs.errs)
}
