package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rovshanmuradov/cryptocalc/internal/calc"
	"github.com/rovshanmuradov/cryptocalc/internal/price"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var testPrices = map[string]float64{"bitcoin": 60000, "ethereum": 2500}

type priceServer struct {
	*httptest.Server
	requests atomic.Int32
}

func newPriceServer(t *testing.T, status int) *priceServer {
	t.Helper()
	ps := &priceServer{}
	ps.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ps.requests.Add(1)
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/simple/price":
			out := map[string]map[string]float64{}
			for _, id := range strings.Split(r.URL.Query().Get("ids"), ",") {
				if v, ok := testPrices[id]; ok {
					out[id] = map[string]float64{"usd": v}
				}
			}
			_ = json.NewEncoder(w).Encode(out)
		case "/coins/markets":
			_, _ = w.Write([]byte(`[{"id":"bitcoin","name":"Bitcoin","symbol":"btc","current_price":60000},
				{"id":"ethereum","name":"Ethereum","symbol":"eth","current_price":2500}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(ps.Close)
	return ps
}

func writeConfig(t *testing.T, url string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "price_api_url: " + url + "\n" +
		"rate_limit_per_minute: 0\n" +
		"request_timeout_ms: 2000\n" +
		"market_list_size: 2\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func rowsOf(doc reportDocument) map[string]string {
	out := make(map[string]string, len(doc.Rows))
	for _, r := range doc.Rows {
		out[r.Parameter] = r.Value
	}
	return out
}

func TestMiningCommand_FetchedPriceJSON(t *testing.T) {
	srv := newPriceServer(t, http.StatusOK)
	cfg := writeConfig(t, srv.URL)

	stdout, _, err := runCLI(t, "mining", "--config", cfg,
		"--hashrate", "100", "--power", "3000", "--electricity", "0.1", "-o", "json")
	require.NoError(t, err)

	var doc reportDocument
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	assert.Equal(t, "mining_calculation", doc.Report)

	rows := rowsOf(doc)
	assert.Equal(t, "bitcoin", rows["Selected cryptocurrency"])
	assert.Equal(t, "60000.00", rows["Coin price ($)"])
	assert.Equal(t, "7.20", rows["Energy costs ($)"])
}

func TestMiningCommand_OverrideSkipsLookup(t *testing.T) {
	srv := newPriceServer(t, http.StatusInternalServerError)
	cfg := writeConfig(t, srv.URL)

	stdout, _, err := runCLI(t, "mining", "--config", cfg,
		"--hashrate", "100", "--power", "3000", "--electricity", "0", "--price", "40000")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Coin price, manual ($)")
	assert.Contains(t, stdout, "n/a", "ROI is undefined without energy cost")
	assert.Zero(t, srv.requests.Load())
}

func TestMiningCommand_UnavailableWithoutPrice(t *testing.T) {
	srv := newPriceServer(t, http.StatusInternalServerError)
	cfg := writeConfig(t, srv.URL)

	stdout, _, err := runCLI(t, "mining", "--config", cfg,
		"--hashrate", "100", "--power", "3000", "--electricity", "0.1")
	require.Error(t, err)
	assert.ErrorIs(t, err, calc.ErrUnavailable)
	assert.Contains(t, err.Error(), "mining result unavailable")
	assert.Empty(t, stdout)
}

func TestMiningCommand_FieldError(t *testing.T) {
	srv := newPriceServer(t, http.StatusOK)
	cfg := writeConfig(t, srv.URL)

	_, _, err := runCLI(t, "mining", "--config", cfg, "--hashrate", "abc", "--power", "3000", "--electricity", "0.1")
	var fe *calc.FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "hashrate", fe.Field)
	assert.ErrorIs(t, err, calc.ErrInputParse)
}

func TestMiningCommand_InvalidOverrideIsFieldError(t *testing.T) {
	srv := newPriceServer(t, http.StatusOK)
	cfg := writeConfig(t, srv.URL)

	for _, override := range []string{"-5", "abc"} {
		stdout, _, err := runCLI(t, "mining", "--config", cfg,
			"--hashrate", "100", "--power", "3000", "--electricity", "0.1", "--price="+override)
		var fe *calc.FieldError
		require.ErrorAs(t, err, &fe, override)
		assert.Equal(t, "price", fe.Field)
		assert.Empty(t, stdout)
	}
}

func TestStakingCommand_TableAndExport(t *testing.T) {
	srv := newPriceServer(t, http.StatusOK)
	cfg := writeConfig(t, srv.URL)
	exportPath := filepath.Join(t.TempDir(), "out", "staking.csv")

	stdout, stderr, err := runCLI(t, "staking", "--config", cfg,
		"--symbol", "eth", "--amount", "1000", "--apy", "10", "--days", "30",
		"--export", exportPath)
	require.NoError(t, err)

	assert.Contains(t, stdout, "Expected profit ($)")
	assert.Contains(t, stdout, "20547.95")
	assert.Contains(t, stderr, "Exported to "+exportPath)

	data, err := os.ReadFile(exportPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Parameter,Value\n"))
	assert.Contains(t, string(data), "Cryptocurrency,ETH")
}

func TestROICommand_YAML(t *testing.T) {
	srv := newPriceServer(t, http.StatusOK)
	cfg := writeConfig(t, srv.URL)

	stdout, _, err := runCLI(t, "roi", "--config", cfg,
		"--investment", "1000", "--buy", "100", "--sell", "150", "--hold-days", "365", "-o", "yaml")
	require.NoError(t, err)

	var doc reportDocument
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &doc))
	assert.Equal(t, "roi-result", doc.Report)

	rows := rowsOf(doc)
	assert.Equal(t, "50.00%", rows["ROI (%)"])
	assert.Equal(t, "500.00", rows["Profit ($)"])
	assert.Equal(t, "365", rows["Holding period (days)"])
	assert.Zero(t, srv.requests.Load(), "explicit buy price skips the lookup")
}

func TestROICommand_FetchesBuyPrice(t *testing.T) {
	srv := newPriceServer(t, http.StatusOK)
	cfg := writeConfig(t, srv.URL)

	stdout, _, err := runCLI(t, "roi", "--config", cfg,
		"--asset", "ethereum", "--investment", "2500", "--sell", "5000", "-o", "json")
	require.NoError(t, err)

	var doc reportDocument
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	rows := rowsOf(doc)
	assert.Equal(t, "2500.00", rows["Buy price ($)"])
	assert.Equal(t, "100.00%", rows["ROI (%)"])
}

func TestCalculatorCommand_RejectsBadFormat(t *testing.T) {
	_, _, err := runCLI(t, "roi", "--investment", "1", "--buy", "1", "--sell", "1", "--format", "xml")
	assert.ErrorContains(t, err, "unsupported format")

	_, _, err = runCLI(t, "roi", "--investment", "1", "--buy", "1", "--sell", "1", "-o", "xml")
	assert.ErrorContains(t, err, "unsupported output")
}

func TestPriceCommand(t *testing.T) {
	srv := newPriceServer(t, http.StatusOK)
	cfg := writeConfig(t, srv.URL)

	stdout, _, err := runCLI(t, "price", "--config", cfg, "bitcoin", "ethereum")
	require.NoError(t, err)
	assert.Contains(t, stdout, "60,000")
	assert.Contains(t, stdout, "2,500")

	stdout, _, err = runCLI(t, "price", "--config", cfg, "bitcoin", "nope")
	assert.ErrorIs(t, err, price.ErrUnavailable)
	assert.Contains(t, err.Error(), "nope")
	assert.Contains(t, stdout, "n/a")

	_, _, err = runCLI(t, "price", "--config", cfg)
	assert.Error(t, err, "at least one id is required")
}

func TestMarketsCommand(t *testing.T) {
	srv := newPriceServer(t, http.StatusOK)
	cfg := writeConfig(t, srv.URL)

	stdout, _, err := runCLI(t, "markets", "--config", cfg, "--ids", "ethereum")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Bitcoin")
	assert.Contains(t, stdout, "Price USD")
	assert.Contains(t, stdout, "2,500")
}

func TestMarketsCommand_Unavailable(t *testing.T) {
	srv := newPriceServer(t, http.StatusBadGateway)
	cfg := writeConfig(t, srv.URL)

	_, _, err := runCLI(t, "markets", "--config", cfg)
	assert.ErrorIs(t, err, price.ErrUnavailable)
	assert.ErrorContains(t, err, "markets unavailable")
}

func TestMetricsFileWrittenOnFailure(t *testing.T) {
	srv := newPriceServer(t, http.StatusOK)
	cfg := writeConfig(t, srv.URL)
	metricsPath := filepath.Join(t.TempDir(), "cryptocalc.prom")

	_, _, err := runCLI(t, "staking", "--config", cfg, "--metrics-file", metricsPath,
		"--amount", "1000", "--apy", "10", "--price", "1")
	require.Error(t, err, "holding period is missing")

	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `cryptocalc_calculations_total{calculator="staking",outcome="unavailable"} 1`)
}
