package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rovshanmuradov/cryptocalc/internal/calc"
	"github.com/rovshanmuradov/cryptocalc/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/simple/price":
			_, _ = w.Write([]byte(`{"bitcoin":{"usd":60000},"ethereum":{"usd":2500}}`))
		case "/coins/markets":
			_, _ = w.Write([]byte(`[{"id":"bitcoin","name":"Bitcoin","symbol":"btc","current_price":60000},
				{"id":"ethereum","name":"Ethereum","symbol":"eth","current_price":2500}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(url string) *config.Config {
	cfg := config.Default()
	cfg.PriceAPIURL = url
	cfg.RateLimitPerMinute = 0
	cfg.MarketListSize = 2
	return cfg
}

func TestApp_SessionsShareProviderAndMetrics(t *testing.T) {
	srv := newTestServer(t)
	a := New(testConfig(srv.URL), zap.NewNop())

	m := a.Mining()
	assert.Equal(t, "bitcoin", m.Asset())

	_, err := m.Select(context.Background(), m.Asset())
	require.NoError(t, err)
	_, err = m.Calculate(calc.MiningFields{Hashrate: "100", Power: "3000", ElectricityCost: "0.1"})
	require.NoError(t, err)

	s := a.Staking()
	assert.Contains(t, s.Symbols(), "ETH")
	_, err = s.Select(context.Background(), "ETH")
	require.NoError(t, err)
	assert.Equal(t, "2500", s.PrefillPrice())

	assert.Equal(t, "bitcoin", a.ROI().Asset())

	n, err := testutil.GatherAndCount(a.Metrics.Registry(), "cryptocalc_calculations_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n, "one mining success series")

	n, err = testutil.GatherAndCount(a.Metrics.Registry(), "cryptocalc_price_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n, "both lookups hit /simple/price")
}

func TestApp_Markets(t *testing.T) {
	srv := newTestServer(t)
	a := New(testConfig(srv.URL), zap.NewNop())

	markets, err := a.Markets(context.Background())
	require.NoError(t, err)
	require.Len(t, markets, 2)
	assert.Equal(t, "ethereum", markets[1].ID)
}

func TestApp_FlushMetrics(t *testing.T) {
	srv := newTestServer(t)
	a := New(testConfig(srv.URL), zap.NewNop())

	require.NoError(t, a.FlushMetrics(""))

	path := filepath.Join(t.TempDir(), "metrics", "cryptocalc.prom")
	require.NoError(t, a.FlushMetrics(path))
	assert.FileExists(t, path)
}
