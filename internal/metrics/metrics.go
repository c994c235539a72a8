// Package metrics exposes Prometheus collectors for the launchpad node.
//
// Each Metrics owns its own registry so several nodes (or tests) can live
// in one process. All recording methods are safe on a nil *Metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultNamespace is used when New is given an empty namespace.
const DefaultNamespace = "launchpad"

// Metrics holds the node's collectors.
type Metrics struct {
	registry *prometheus.Registry

	// Ledger
	TxTotal    *prometheus.CounterVec
	TxDuration *prometheus.HistogramVec

	// Sales
	SalesInitialized prometheus.Counter
	TokensSold       prometheus.Counter
	PaymentRaised    prometheus.Counter
	PurchasesFailed  *prometheus.CounterVec

	// RPC
	RPCRequests *prometheus.CounterVec
}

// New creates a Metrics with every collector registered.
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		TxTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "transactions_total",
			Help:      "Executed transactions by instruction kind and result",
		}, []string{"kind", "result"}),
		TxDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "transaction_duration_seconds",
			Help:      "Transaction execution time including commit",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		}, []string{"kind"}),
		SalesInitialized: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sale",
			Name:      "initialized_total",
			Help:      "Sales created",
		}),
		TokensSold: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sale",
			Name:      "tokens_sold_total",
			Help:      "Sale-token base units paid out to buyers",
		}),
		PaymentRaised: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sale",
			Name:      "payment_raised_total",
			Help:      "Reference-token base units collected",
		}),
		PurchasesFailed: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sale",
			Name:      "purchases_failed_total",
			Help:      "Rejected purchases by reason",
		}, []string{"reason"}),
		RPCRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rpc",
			Name:      "requests_total",
			Help:      "JSON-RPC requests by method and outcome",
		}, []string{"method", "outcome"}),
	}
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveTx records one executed transaction.
func (m *Metrics) ObserveTx(kind string, err error, d time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.TxTotal.WithLabelValues(kind, result).Inc()
	m.TxDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// SaleInitialized records a newly created sale.
func (m *Metrics) SaleInitialized() {
	if m == nil {
		return
	}
	m.SalesInitialized.Inc()
}

// Purchase records a successful purchase.
func (m *Metrics) Purchase(amount, cost uint64) {
	if m == nil {
		return
	}
	m.TokensSold.Add(float64(amount))
	m.PaymentRaised.Add(float64(cost))
}

// PurchaseFailed records a rejected purchase.
func (m *Metrics) PurchaseFailed(reason string) {
	if m == nil {
		return
	}
	m.PurchasesFailed.WithLabelValues(reason).Inc()
}

// RPCRequest records one JSON-RPC call.
func (m *Metrics) RPCRequest(method, outcome string) {
	if m == nil {
		return
	}
	m.RPCRequests.WithLabelValues(method, outcome).Inc()
}
