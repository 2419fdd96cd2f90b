package metrics

import (
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var (
	CyclesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "xau_cycles_total", Help: "Polling cycles executed"},
	)
	SignalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "xau_signals_total", Help: "Signals emitted"},
		[]string{"bias"},
	)
	FetchErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "xau_fetch_errors_total", Help: "Market data fetch failures"},
		[]string{"timeframe"},
	)
	CommandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "xau_commands_total", Help: "Operator commands handled"},
		[]string{"command"},
	)
	MonitoringActive = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "xau_monitoring_active", Help: "1 while signal monitoring is on"},
	)
)

func init() {
	prometheus.MustRegister(CyclesTotal, SignalsTotal, FetchErrorsTotal, CommandsTotal, MonitoringActive)
}

// Serve binds addr and exposes /metrics in the background. Bind errors are
// returned; later serve errors are logged.
func Serve(addr string, log zerolog.Logger) (*http.Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen metrics on %s: %w", addr, err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: ln.Addr().String(), Handler: mux}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Str("addr", srv.Addr).Msg("metrics server stopped")
		}
	}()
	return srv, nil
}
