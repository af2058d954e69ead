package trigger

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// runsTotal counts finished runs by exit code.
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_trigger_runs_total",
		Help: "Total number of triggered runs by exit code",
	}, []string{"code"})

	// runDuration tracks the wall time of triggered runs.
	runDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_trigger_run_duration_seconds",
		Help:    "Duration of triggered runs",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
	})
)

func observeRun(code int, d time.Duration) {
	runsTotal.WithLabelValues(strconv.Itoa(code)).Inc()
	runDuration.Observe(d.Seconds())
}
