// Package metrics holds the prometheus collectors shared by the query cache, the module
// variants and the simulator. All methods are safe on a nil *Metrics.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "daoclient"

// Result labels.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Metrics groups the client collectors.
type Metrics struct {
	cacheHits     prometheus.Counter
	cacheMisses   prometheus.Counter
	queryFailures *prometheus.CounterVec
	transactions  *prometheus.CounterVec
	simulations   *prometheus.CounterVec
	moduleInits   *prometheus.CounterVec

	registerOnce sync.Once
}

// New returns Metrics registered with registry. A nil registry yields unregistered collectors
// that still count, which is convenient in tests.
func New(registry prometheus.Registerer) *Metrics {
	m := &Metrics{}
	m.Register(registry)

	return m
}

// Register creates the collectors and registers them with registry. Only the first call has
// an effect.
func (m *Metrics) Register(registry prometheus.Registerer) {
	m.registerOnce.Do(func() {
		factory := promauto.With(registry)

		m.cacheHits = factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "query_cache_hits_total",
			Help:      "Total number of query cache hits",
		})
		m.cacheMisses = factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "query_cache_misses_total",
			Help:      "Total number of query cache misses",
		})
		m.queryFailures = factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "query_failures_total",
			Help:      "Total number of failed query fetches by query name",
		}, []string{"query"})
		m.transactions = factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_total",
			Help:      "Total number of submitted module transactions by action and result",
		}, []string{"action", "result"})
		m.simulations = factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "simulations_total",
			Help:      "Total number of message simulations by chain and result",
		}, []string{"chain_id", "result"})
		m.moduleInits = factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "module_inits_total",
			Help:      "Total number of module initializations by variant and result",
		}, []string{"variant", "result"})
	})
}

func (m *Metrics) CacheHit() {
	if m == nil || m.cacheHits == nil {
		return
	}
	m.cacheHits.Inc()
}

func (m *Metrics) CacheMiss() {
	if m == nil || m.cacheMisses == nil {
		return
	}
	m.cacheMisses.Inc()
}

func (m *Metrics) QueryFailure(query string) {
	if m == nil || m.queryFailures == nil {
		return
	}
	m.queryFailures.WithLabelValues(query).Inc()
}

func (m *Metrics) Transaction(action string, err error) {
	if m == nil || m.transactions == nil {
		return
	}
	m.transactions.WithLabelValues(action, result(err)).Inc()
}

func (m *Metrics) Simulation(chainID string, err error) {
	if m == nil || m.simulations == nil {
		return
	}
	m.simulations.WithLabelValues(chainID, result(err)).Inc()
}

func (m *Metrics) ModuleInit(variant string, err error) {
	if m == nil || m.moduleInits == nil {
		return
	}
	m.moduleInits.WithLabelValues(variant, result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return ResultFailure
	}

	return ResultSuccess
}
