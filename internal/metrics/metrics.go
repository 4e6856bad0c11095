// Package metrics provides an optional Prometheus sidecar for a
// breakwatch run: counters for break-ins, suspects and malformed records,
// and a throughput gauge. It stays dark until Serve is called with a
// non-empty address.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	BreakinsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "breakwatch_breakins_total",
		Help: "Total number of break-ins detected",
	})
	SuspectsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "breakwatch_suspects_total",
		Help: "Total number of suspects raised by the count-window aggregator",
	})
	MalformedLinesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "breakwatch_malformed_lines_total",
		Help: "Total number of raw log lines that failed to parse",
	})
	MalformedFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "breakwatch_malformed_failures_total",
		Help: "Total number of authentication-failure messages that failed field extraction",
	})
	MalformedSuccessesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "breakwatch_malformed_successes_total",
		Help: "Total number of successful-login messages that failed field extraction",
	})
	ThroughputLinesPerSecond = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "breakwatch_throughput_lines_per_second",
		Help: "Most recently reported lines-per-second throughput",
	})
)

func init() {
	prometheus.MustRegister(BreakinsTotal, SuspectsTotal, MalformedLinesTotal, MalformedFailuresTotal, MalformedSuccessesTotal, ThroughputLinesPerSecond)
}

// Serve starts a /metrics HTTP endpoint on addr and returns a shutdown
// function the caller must invoke once the run completes.
func Serve(addr string) func(context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		_ = server.ListenAndServe()
	}()

	return server.Shutdown
}
