package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// namespace общий префикс всех метрик сервиса
const namespace = "appointment_service"

// Metrics набор prometheus-коллекторов сервиса
// Все методы безопасны для конкурентного использования
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbQueriesTotal  *prometheus.CounterVec
	dbQueryDuration *prometheus.HistogramVec

	dbPoolOpenConnections  *prometheus.GaugeVec
	dbPoolInUseConnections *prometheus.GaugeVec
	dbPoolIdleConnections  *prometheus.GaugeVec

	eventsEmittedTotal *prometheus.CounterVec
	eventsDroppedTotal *prometheus.CounterVec
}

// New создает и регистрирует коллекторы в default registry
func New(serviceName string) *Metrics {
	m := &Metrics{
		httpRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"service", "method", "path", "status"}),

		httpRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"service", "method", "path"}),

		dbQueriesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "db_queries_total",
			Help:      "Total number of database queries",
		}, []string{"service", "operation", "status"}),

		dbQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "db_query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"service", "operation"}),

		dbPoolOpenConnections: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_pool_open_connections",
			Help:      "Number of open connections in the pool",
		}, []string{"service"}),

		dbPoolInUseConnections: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_pool_in_use_connections",
			Help:      "Number of connections currently in use",
		}, []string{"service"}),

		dbPoolIdleConnections: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_pool_idle_connections",
			Help:      "Number of idle connections in the pool",
		}, []string{"service"}),

		eventsEmittedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "domain_events_total",
			Help:      "Total number of emitted domain events",
		}, []string{"service", "event"}),

		eventsDroppedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "domain_events_dropped_total",
			Help:      "Total number of dropped domain events (dispatcher buffer full)",
		}, []string{"service"}),
	}

	// Прогреваем gauge-метрики, чтобы они были видны сразу после старта
	m.dbPoolOpenConnections.WithLabelValues(serviceName).Set(0)
	m.dbPoolInUseConnections.WithLabelValues(serviceName).Set(0)
	m.dbPoolIdleConnections.WithLabelValues(serviceName).Set(0)

	return m
}

// IncHTTPRequest увеличивает счётчик HTTP запросов
func (m *Metrics) IncHTTPRequest(service, method, path, status string) {
	m.httpRequestsTotal.WithLabelValues(service, method, path, status).Inc()
}

// ObserveHTTPRequestDuration записывает длительность HTTP запроса
func (m *Metrics) ObserveHTTPRequestDuration(service, method, path string, seconds float64) {
	m.httpRequestDuration.WithLabelValues(service, method, path).Observe(seconds)
}

// IncDBQuery увеличивает счётчик запросов к БД
func (m *Metrics) IncDBQuery(service, operation, status string) {
	m.dbQueriesTotal.WithLabelValues(service, operation, status).Inc()
}

// ObserveDBQueryDuration записывает длительность запроса к БД
func (m *Metrics) ObserveDBQueryDuration(service, operation string, seconds float64) {
	m.dbQueryDuration.WithLabelValues(service, operation).Observe(seconds)
}

// SetDBPoolStats обновляет gauge-метрики connection pool
func (m *Metrics) SetDBPoolStats(service string, open, inUse, idle int) {
	m.dbPoolOpenConnections.WithLabelValues(service).Set(float64(open))
	m.dbPoolInUseConnections.WithLabelValues(service).Set(float64(inUse))
	m.dbPoolIdleConnections.WithLabelValues(service).Set(float64(idle))
}

// IncEventEmitted увеличивает счётчик доменных событий
func (m *Metrics) IncEventEmitted(service, event string) {
	m.eventsEmittedTotal.WithLabelValues(service, event).Inc()
}

// IncEventDropped увеличивает счётчик потерянных событий
func (m *Metrics) IncEventDropped(service string) {
	m.eventsDroppedTotal.WithLabelValues(service).Inc()
}
