package services

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	currency "github.com/malusev998/currency-converter"
)

type (
	Metrics struct {
		RequestCount   *prometheus.CounterVec
		RequestLatency *prometheus.HistogramVec
		CacheHits      *prometheus.CounterVec
		CacheMisses    *prometheus.CounterVec
	}

	instrumentingService struct {
		metrics *Metrics
		next    currency.RateService
	}
)

func NewMetrics(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)

	return &Metrics{
		RequestCount: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "currency",
			Name:      "rate_requests_total",
			Help:      "Number of rate lookups by method and outcome.",
		}, []string{"method", "outcome"}),
		RequestLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "currency",
			Name:      "rate_request_duration_seconds",
			Help:      "Duration of rate lookups.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		CacheHits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "currency",
			Name:      "cache_hits_total",
			Help:      "Number of rate lookups served from cache.",
		}, []string{"method"}),
		CacheMisses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "currency",
			Name:      "cache_misses_total",
			Help:      "Number of rate lookups not found in cache.",
		}, []string{"method"}),
	}
}

func (m *Metrics) Hit(method string) {
	m.CacheHits.WithLabelValues(method).Inc()
}

func (m *Metrics) Miss(method string) {
	m.CacheMisses.WithLabelValues(method).Inc()
}

func NewInstrumentingService(metrics *Metrics, s currency.RateService) currency.RateService {
	return &instrumentingService{metrics: metrics, next: s}
}

func (s *instrumentingService) GetRate(ctx context.Context, source, target currency.Code) (rate float64, err error) {
	defer s.observe("get_rate", time.Now(), &err)

	return s.next.GetRate(ctx, source, target)
}

func (s *instrumentingService) GetRates(ctx context.Context, source currency.Code) (rates currency.RateSet, err error) {
	defer s.observe("get_rates", time.Now(), &err)

	return s.next.GetRates(ctx, source)
}

func (s *instrumentingService) observe(method string, begin time.Time, err *error) {
	s.metrics.RequestCount.WithLabelValues(method, outcome(*err)).Inc()
	s.metrics.RequestLatency.WithLabelValues(method).Observe(time.Since(begin).Seconds())
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, currency.ErrInvalidSourceCurrency), errors.Is(err, currency.ErrInvalidTargetCurrency):
		return "invalid_currency"
	}

	return "unavailable"
}
