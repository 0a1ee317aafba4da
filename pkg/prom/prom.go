package prom

import (
	"fmt"
	"sync"

	xhttp "github.com/OrtegaGeovanny/tiendex/pkg/http"
	"github.com/OrtegaGeovanny/tiendex/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

const (
	SystemLedger        = "ledger"
	SystemNotifications = "notifications"
	SystemEvents        = "events"
)

const (
	MetricTransactionsTotal     = "transactions_total"
	MetricRecordDuration        = "record_duration_seconds"
	MetricNotificationsCreated  = "created_total"
	MetricEventsPublishFailures = "publish_failures_total"
	MetricEventsProcessed       = "processed_total"
)

const (
	OutcomeRecorded        = "recorded"
	OutcomeRejected        = "rejected"
	OutcomeBalanceExceeded = "balance_exceeded"
	OutcomeConflict        = "conflict"
	OutcomeFailed          = "failed"
)

const (
	TypeCounter      = "counter"
	TypeCounterVec   = "counterVec"
	TypeHistogram    = "histogram"
	TypeHistogramVec = "histogramVec"
	TypeGaugeVec     = "gaugeVec"
)

var (
	metricsMu sync.RWMutex
	namespace = "none"
	enabled   = false

	counters      = make(map[string]prometheus.Counter)
	counterVecs   = make(map[string]*prometheus.CounterVec)
	gaugeVecs     = make(map[string]*prometheus.GaugeVec)
	histograms    = make(map[string]prometheus.Histogram)
	histogramVecs = make(map[string]*prometheus.HistogramVec)

	defaultLabels prometheus.Labels
)

// Create registers the service metrics. Until it is called every recording
// helper is a no-op, which is what tests rely on.
func Create(host string, env string, nameSpace string) error {
	metricsMu.Lock()
	defaultLabels = prometheus.Labels{"env": env, "instance": host}
	namespace = nameSpace
	metricsMu.Unlock()

	var err error
	hasError := func(e error) {
		if err == nil && e != nil {
			err = e
		}
	}

	hasError(CreateMetric(TypeCounterVec, SystemLedger, MetricTransactionsTotal, "type", "outcome"))
	hasError(CreateMetric(TypeHistogramVec, SystemLedger, MetricRecordDuration, "type"))
	hasError(CreateMetric(TypeCounterVec, SystemNotifications, MetricNotificationsCreated, "trigger"))
	hasError(CreateMetric(TypeCounter, SystemEvents, MetricEventsPublishFailures))
	hasError(CreateMetric(TypeCounterVec, SystemEvents, MetricEventsProcessed, "outcome"))

	metricsMu.Lock()
	enabled = err == nil
	metricsMu.Unlock()
	return err
}

func CreateMetric(metricType, metricSubsystem, metricName string, labels ...string) error {
	metricsMu.Lock()
	defer metricsMu.Unlock()

	key := metricSubsystem + metricName
	switch metricType {
	case TypeCounter:
		c := prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: metricSubsystem, Name: metricName, ConstLabels: defaultLabels,
		})
		counters[key] = c
		return prometheus.Register(c)
	case TypeCounterVec:
		c := prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: metricSubsystem, Name: metricName, ConstLabels: defaultLabels,
		}, labels)
		counterVecs[key] = c
		return prometheus.Register(c)
	case TypeHistogram:
		h := prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: metricSubsystem, Name: metricName, ConstLabels: defaultLabels,
			Buckets: prometheus.DefBuckets,
		})
		histograms[key] = h
		return prometheus.Register(h)
	case TypeHistogramVec:
		h := prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: metricSubsystem, Name: metricName, ConstLabels: defaultLabels,
			Buckets: prometheus.DefBuckets,
		}, labels)
		histogramVecs[key] = h
		return prometheus.Register(h)
	case TypeGaugeVec:
		g := prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: metricSubsystem, Name: metricName, ConstLabels: defaultLabels,
		}, labels)
		gaugeVecs[key] = g
		return prometheus.Register(g)
	}
	return fmt.Errorf("metric type %s is not defined", metricType)
}

// ListenAndServe exposes /metrics on its own fasthttp server. It blocks.
func ListenAndServe(addr string, url string) {
	hh := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	s := xhttp.CreateServer()
	s.GET(url, hh)
	logger.Info("[metrics-server] listening...", "addr", addr, "url", url)
	if err := s.ListenAndServe(addr); err != nil {
		logger.Panic("[metrics-server] http listen error", "error", err)
	}
}

func isEnabled() bool {
	metricsMu.RLock()
	defer metricsMu.RUnlock()
	return enabled
}

func IncCounter(subsystem, name string) {
	if !isEnabled() {
		return
	}
	metricsMu.RLock()
	c, ok := counters[subsystem+name]
	metricsMu.RUnlock()
	if !ok {
		logger.Warn("[metrics-server] counter not found", "subsystem", subsystem, "name", name)
		return
	}
	c.Inc()
}

func IncCounterVec(subsystem, name string, labelValues ...string) {
	if !isEnabled() {
		return
	}
	metricsMu.RLock()
	c, ok := counterVecs[subsystem+name]
	metricsMu.RUnlock()
	if !ok {
		logger.Warn("[metrics-server] counter vec not found", "subsystem", subsystem, "name", name)
		return
	}
	c.WithLabelValues(labelValues...).Inc()
}

func AddHistogramVec(subsystem, name string, number float64, labelValues ...string) {
	if !isEnabled() {
		return
	}
	metricsMu.RLock()
	h, ok := histogramVecs[subsystem+name]
	metricsMu.RUnlock()
	if !ok {
		logger.Warn("[metrics-server] histogram vec not found", "subsystem", subsystem, "name", name)
		return
	}
	h.WithLabelValues(labelValues...).Observe(number)
}

func RecordTransaction(txType, outcome string, seconds float64) {
	IncCounterVec(SystemLedger, MetricTransactionsTotal, txType, outcome)
	if outcome == OutcomeRecorded {
		AddHistogramVec(SystemLedger, MetricRecordDuration, seconds, txType)
	}
}

func AddNotificationsCreated(trigger string, n int) {
	for i := 0; i < n; i++ {
		IncCounterVec(SystemNotifications, MetricNotificationsCreated, trigger)
	}
}

func IncEventPublishFailure() {
	IncCounter(SystemEvents, MetricEventsPublishFailures)
}

func IncEventProcessed(outcome string) {
	IncCounterVec(SystemEvents, MetricEventsProcessed, outcome)
}
