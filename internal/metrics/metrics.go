// Package metrics registers the Prometheus collectors of the API.
package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wardrobe_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wardrobe_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	generationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wardrobe_generations_total",
			Help: "Recommendation generations committed against the quota, by tier",
		},
		[]string{"tier"},
	)

	outfitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wardrobe_outfits_total",
			Help: "Total number of outfit recommendations persisted",
		},
	)

	fallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wardrobe_fallbacks_total",
			Help: "Upstream failures answered with a local fallback, by service",
		},
		[]string{"service"},
	)

	quotaRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wardrobe_quota_rejections_total",
			Help: "Generation requests rejected by the daily quota, by tier",
		},
		[]string{"tier"},
	)
)

// ObserveGeneration records one committed generation call and its outfits.
func ObserveGeneration(tier string, outfits int) {
	generationsTotal.WithLabelValues(tier).Inc()
	outfitsTotal.Add(float64(outfits))
}

// ObserveFallback records that service failed and a fallback was used.
func ObserveFallback(service string) {
	fallbacksTotal.WithLabelValues(service).Inc()
}

func ObserveQuotaRejection(tier string) {
	quotaRejectionsTotal.WithLabelValues(tier).Inc()
}

// Middleware counts requests by route pattern, so ids do not explode the
// label space.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			var e *fiber.Error
			if errors.As(err, &e) {
				status = e.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		path := c.Route().Path
		httpRequestsTotal.WithLabelValues(c.Method(), path, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(c.Method(), path).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler exposes the default registry.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
