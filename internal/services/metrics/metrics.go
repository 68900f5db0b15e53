package metrics

import (
	"errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.td.teradata.com/sandbox/led-ctl/internal/log"
	"github.td.teradata.com/sandbox/led-ctl/internal/services/events"
	"net/http"
	"time"
)

var (
	patternRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ledctl",
		Subsystem: "pattern",
		Name:      "runs_total",
		Help:      "Pattern runs started",
	}, []string{"pattern"})

	patternStops = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ledctl",
		Subsystem: "pattern",
		Name:      "stops_total",
		Help:      "Pattern runs ended, by how they ended",
	}, []string{"pattern", "reason"})

	speedChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ledctl",
		Subsystem: "speed",
		Name:      "changes_total",
		Help:      "Accepted speed keys",
	}, []string{"direction"})

	currentDelay = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "ledctl",
		Subsystem: "speed",
		Name:      "delay_ms",
		Help:      "Delay of the running or last run pattern",
	})

	running = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "ledctl",
		Subsystem: "pattern",
		Name:      "running",
		Help:      "1 while a pattern owns the bank",
	})
)

// Attach feeds bus events into the collectors. The returned func detaches.
func Attach(bus *events.Bus) func() {
	unsubs := []func(){
		bus.Subscribe(func(e events.PatternStartedEvent) {
			patternRuns.WithLabelValues(e.Pattern).Inc()
			currentDelay.Set(float64(e.Delay))
			running.Set(1)
		}),
		bus.Subscribe(func(e events.PatternStoppedEvent) {
			reason := "completed"
			if e.Cancelled {
				reason = "cancelled"
			}
			patternStops.WithLabelValues(e.Pattern, reason).Inc()
			currentDelay.Set(float64(e.Delay))
			running.Set(0)
		}),
		bus.Subscribe(func(e events.SpeedChangedEvent) {
			direction := "slower"
			if e.To < e.From {
				direction = "faster"
			}
			speedChanges.WithLabelValues(direction).Inc()
			currentDelay.Set(float64(e.To))
		}),
	}
	return func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}
}

// Serve exposes /metrics on listen in the background. An empty address
// disables the endpoint and returns nil.
func Serve(listen string) *http.Server {
	if listen == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Infof("Serving metrics on %s", listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("Metrics endpoint stopped: %v", err)
		}
	}()
	return srv
}
