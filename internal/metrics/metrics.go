package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RemoteRequestsHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "profile_storage",
			Name:      "remote_requests",
			Help:      "Time taken to process requests to the remote profile store",
			Buckets:   []float64{.005, .01, .025, .05, .075, .1, .15, .2, .25, .5, 1, 2.5, 5, 10, 15, 30},
		},
		[]string{"client", "method", "error"},
	)

	CacheEventsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "profile_storage",
			Name:      "cache_events",
			Help:      "Number of local cache operations by result",
		}, []string{"op", "result"},
	)
)

func CollectRequestsMetric(client, method string, err error, start time.Time) {
	RemoteRequestsHistogram.
		WithLabelValues(client, method, errLabelValue(err)).
		Observe(time.Since(start).Seconds())
}

func CollectCacheEvent(op, result string) {
	CacheEventsCounter.
		WithLabelValues(op, result).
		Inc()
}

// ErrLabelValue returns string representation of error label value
func errLabelValue(err error) string {
	if err != nil {
		return "true"
	}
	return "false"
}
