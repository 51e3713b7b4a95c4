// Package metrics defines the Prometheus collectors for calculations, ledger
// operations and HTTP traffic.
package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/iwvelando/gold-scheme/pkg/redemption"
	"github.com/prometheus/client_golang/prometheus"
)

// Result label values.
const (
	ResultOK      = "ok"
	ResultInvalid = "invalid"
	ResultError   = "error"
)

// Metrics groups the collectors. All methods are safe on a nil receiver so
// callers without metrics can pass nil.
type Metrics struct {
	Calculations     *prometheus.CounterVec
	DiscountLimits   *prometheus.CounterVec
	Payable          prometheus.Histogram
	LedgerOperations *prometheus.CounterVec
	ReqTotal         *prometheus.CounterVec
	ReqDur           *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg, reusing collectors
// that are already registered under the same name. A nil reg uses the
// default registerer.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		Calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calculations_total",
			Help:      "Count of redemption calculations by source and outcome.",
		}, []string{"source", "result"}),
		DiscountLimits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discount_limit_total",
			Help:      "Count of calculations by the bound that decided the making-charge discount.",
		}, []string{"limit"}),
		Payable: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "final_amount_to_pay_rupees",
			Help:      "Distribution of the payable amount per calculation.",
			Buckets:   []float64{0, 1000, 5000, 10000, 25000, 50000, 100000, 250000, 500000},
		}),
		LedgerOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_operations_total",
			Help:      "Count of scheme ledger operations by outcome.",
		}, []string{"operation", "result"}),
		ReqTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests handled by the server.",
		}, []string{"method", "route", "status"}),
		ReqDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency distribution in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		}, []string{"method", "route"}),
	}

	mustRegisterCollector(reg, m.Calculations, func(existing prometheus.Collector) {
		if v, ok := existing.(*prometheus.CounterVec); ok {
			m.Calculations = v
		}
	})
	mustRegisterCollector(reg, m.DiscountLimits, func(existing prometheus.Collector) {
		if v, ok := existing.(*prometheus.CounterVec); ok {
			m.DiscountLimits = v
		}
	})
	mustRegisterCollector(reg, m.Payable, func(existing prometheus.Collector) {
		if v, ok := existing.(prometheus.Histogram); ok {
			m.Payable = v
		}
	})
	mustRegisterCollector(reg, m.LedgerOperations, func(existing prometheus.Collector) {
		if v, ok := existing.(*prometheus.CounterVec); ok {
			m.LedgerOperations = v
		}
	})
	mustRegisterCollector(reg, m.ReqTotal, func(existing prometheus.Collector) {
		if v, ok := existing.(*prometheus.CounterVec); ok {
			m.ReqTotal = v
		}
	})
	mustRegisterCollector(reg, m.ReqDur, func(existing prometheus.Collector) {
		if v, ok := existing.(*prometheus.HistogramVec); ok {
			m.ReqDur = v
		}
	})
	return m
}

// ObserveCalculation records one engine call. result is ignored when err is set.
func (m *Metrics) ObserveCalculation(source string, result redemption.Result, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.Calculations.WithLabelValues(source, ResultInvalid).Inc()
		return
	}
	m.Calculations.WithLabelValues(source, ResultOK).Inc()
	m.DiscountLimits.WithLabelValues(string(result.DiscountLimit)).Inc()
	m.Payable.Observe(result.FinalAmountToPay)
}

// ObserveLedger records one ledger operation. classify maps an error to a
// result label; nil errors are always ok.
func (m *Metrics) ObserveLedger(operation string, err error, classify func(error) string) {
	if m == nil {
		return
	}
	result := ResultOK
	if err != nil {
		result = ResultError
		if classify != nil {
			result = classify(err)
		}
	}
	m.LedgerOperations.WithLabelValues(operation, result).Inc()
}

// Middleware counts requests and their latency by chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := "unknown"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.ReqTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.ReqDur.WithLabelValues(r.Method, route).Observe(float64(time.Since(start)) / float64(time.Millisecond))
	})
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register metric: %w", err))
	}
}
