// Package metrics exposes Prometheus instrumentation for the universe
// service's session, dispatch, and presence subsystems.
package metrics

import (
	"net/http"

	"github.com/Faultbox/universed/internal/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var (
	SessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "universe_sessions_active",
		Help: "Number of currently connected sessions.",
	})

	PacketsReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "universe_packets_received_total",
		Help: "Packets received, by opcode.",
	}, []string{"opcode"})

	PacketsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "universe_packets_sent_total",
		Help: "Packets sent, by opcode.",
	}, []string{"opcode"})

	LoginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "universe_logins_total",
		Help: "Login attempts, by result reason code.",
	}, []string{"reason"})

	PurgeTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "universe_purge_total",
		Help: "Sessions removed by the dead-connection purge sweep.",
	})

	HeartbeatsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "universe_heartbeats_sent_total",
		Help: "Heartbeat packets sent to connected sessions.",
	})
)

// Serve starts the metrics HTTP endpoint on addr. It runs until the
// process exits; callers typically launch it in its own goroutine from
// main.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	logger.Named("metrics").Info("metrics endpoint listening", zap.String("addr", addr))
	return http.ListenAndServe(addr, mux)
}
