package api

import (
	"sync"
	"time"

	foundation "github.com/estafette/estafette-foundation"
	"github.com/go-kit/kit/metrics"
	kitprometheus "github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

func UpdateMetrics(requestCount metrics.Counter, requestLatency metrics.Histogram, funcName string, begin time.Time) {
	funcName = foundation.ToLowerSnakeCase(funcName)

	requestCount.With("func", funcName).Add(1)
	requestLatency.With("func", funcName).Observe(time.Since(begin).Seconds())
}

var (
	metricsMutex      sync.Mutex
	requestCounters   = map[string]metrics.Counter{}
	requestHistograms = map[string]metrics.Histogram{}
	gauges            = map[string]metrics.Gauge{}
)

func NewRequestCounter(subsystem string) metrics.Counter {
	metricsMutex.Lock()
	defer metricsMutex.Unlock()

	if _, ok := requestCounters[subsystem]; !ok {
		requestCounters[subsystem] = kitprometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: "buildagent",
			Subsystem: subsystem,
			Name:      "request_count",
			Help:      "Number of requests received.",
		}, []string{"func"})
	}

	return requestCounters[subsystem]
}

func NewRequestHistogram(subsystem string) metrics.Histogram {
	metricsMutex.Lock()
	defer metricsMutex.Unlock()

	if _, ok := requestHistograms[subsystem]; !ok {
		requestHistograms[subsystem] = kitprometheus.NewHistogramFrom(stdprometheus.HistogramOpts{
			Namespace: "buildagent",
			Subsystem: subsystem,
			Name:      "request_latency_seconds",
			Help:      "Total duration of requests in seconds.",
		}, []string{"func"})
	}

	return requestHistograms[subsystem]
}

// NewGauge returns a prometheus backed gauge, registered once per subsystem and name
func NewGauge(subsystem, name, help string) metrics.Gauge {
	metricsMutex.Lock()
	defer metricsMutex.Unlock()

	key := subsystem + "_" + name
	if _, ok := gauges[key]; !ok {
		gauges[key] = kitprometheus.NewGaugeFrom(stdprometheus.GaugeOpts{
			Namespace: "buildagent",
			Subsystem: subsystem,
			Name:      name,
			Help:      help,
		}, []string{})
	}

	return gauges[key]
}
