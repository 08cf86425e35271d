// Package metrics exposes streaming counters for the server role.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "djremote"

var (
	// FramesSent counts frames that made it onto the wire.
	FramesSent = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "frames_sent_total",
		Help:      "Encoded frames written to the connection.",
	})

	// FramesDropped counts frames lost to capture or encode failures.
	FramesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "frames_dropped_total",
		Help:      "Frames skipped due to capture or encode errors.",
	})

	// FrameBytes totals encoded payload bytes sent.
	FrameBytes = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "frame_bytes_total",
		Help:      "Encoded frame payload bytes written to the connection.",
	})

	// EncodeQuality tracks the adaptive controller's current level.
	EncodeQuality = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "encode_quality",
		Help:      "Current JPEG quality level chosen by the adaptive controller.",
	})

	// InputEventsApplied counts remote input events replayed on the host.
	InputEventsApplied = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "input_events_applied_total",
		Help:      "Remote input events replayed on the host.",
	})

	// InputEventsSkipped counts events that failed to replay.
	InputEventsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "input_events_skipped_total",
		Help:      "Remote input events that failed to replay or were blocked.",
	})

	// Sessions counts accepted client sessions.
	Sessions = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_total",
		Help:      "Client sessions accepted.",
	})
)

// Serve exposes /metrics on addr in a background goroutine.
func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		_ = srv.ListenAndServe()
	}()
	return srv
}
