// internal/metrics/collector.go
package metrics

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "cryptocalc"

// Outcome labels
const (
	OutcomeSuccess     = "success"
	OutcomeUnavailable = "unavailable"
	OutcomeFailure     = "failure"
)

// Collector records calculator, price API and export metrics in its own registry.
type Collector struct {
	registry *prometheus.Registry

	calculations        *prometheus.CounterVec
	calculationDuration *prometheus.HistogramVec
	priceRequests       *prometheus.CounterVec
	priceLatency        *prometheus.HistogramVec
	exports             *prometheus.CounterVec
}

// NewCollector creates a collector with all metrics registered.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		calculations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "calculations_total",
				Help:      "Calculator runs by outcome",
			},
			[]string{"calculator", "outcome"},
		),
		calculationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "calculation_duration_seconds",
				Help:      "Time spent parsing input and computing a result",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
			},
			[]string{"calculator"},
		),
		priceRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "price_requests_total",
				Help:      "Requests to the price API by endpoint and outcome",
			},
			[]string{"endpoint", "outcome"},
		),
		priceLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "price_request_duration_seconds",
				Help:      "Price API latency including retries",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
			},
			[]string{"endpoint"},
		),
		exports: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "exports_total",
				Help:      "Result exports by format and outcome",
			},
			[]string{"format", "outcome"},
		),
	}

	c.registry.MustRegister(
		c.calculations,
		c.calculationDuration,
		c.priceRequests,
		c.priceLatency,
		c.exports,
		collectors.NewGoCollector(),
	)
	return c
}

// Registry exposes the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordCalculation counts one calculator run. unavailable marks input or
// price problems as opposed to unexpected failures.
func (c *Collector) RecordCalculation(calculator string, duration time.Duration, err error, unavailable bool) {
	outcome := OutcomeSuccess
	switch {
	case err != nil && unavailable:
		outcome = OutcomeUnavailable
	case err != nil:
		outcome = OutcomeFailure
	}
	c.calculations.WithLabelValues(calculator, outcome).Inc()
	c.calculationDuration.WithLabelValues(calculator).Observe(duration.Seconds())
}

// ObserveFetch records a price API request.
func (c *Collector) ObserveFetch(endpoint string, duration time.Duration, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	c.priceRequests.WithLabelValues(endpoint, outcome).Inc()
	c.priceLatency.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordExport counts one export attempt.
func (c *Collector) RecordExport(format string, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	c.exports.WithLabelValues(format, outcome).Inc()
}

// Reset clears all recorded values.
func (c *Collector) Reset() {
	c.calculations.Reset()
	c.calculationDuration.Reset()
	c.priceRequests.Reset()
	c.priceLatency.Reset()
	c.exports.Reset()
}

// WriteToTextfile dumps the registry in the text exposition format.
func (c *Collector) WriteToTextfile(path string) error {
	if path == "" {
		return errors.New("metrics file path is empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create metrics directory: %w", err)
		}
	}
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
