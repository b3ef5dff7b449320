package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/kdudkov/tilecull/pkg/geometry"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tilecull",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tilecull",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"method", "path"})

	classifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tilecull",
		Subsystem: "overlap",
		Name:      "classifications_total",
		Help:      "Feature/tile pairs classified, by result",
	}, []string{"result"})

	FeaturesLoaded = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "tilecull",
		Subsystem: "features",
		Name:      "loaded",
		Help:      "Features currently loaded",
	})

	FeatureReloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tilecull",
		Subsystem: "features",
		Name:      "reloads_total",
		Help:      "Feature file reloads, by outcome",
	}, []string{"status"})

	CoverTiles = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "tilecull",
		Subsystem: "cover",
		Name:      "tiles",
		Help:      "Tiles returned by one cover computation",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
	})
)

func Classified(o geometry.Overlap) {
	classifications.WithLabelValues(o.String()).Inc()
}

// Middleware records request metrics. Requests matching no route share the
// "unmatched" path label.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		own := c.Route()

		err := c.Next()

		duration := time.Since(start).Seconds()

		code := c.Response().StatusCode()
		if err != nil {
			code = fiber.StatusInternalServerError

			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
			}
		}

		status := strconv.Itoa(code)
		path := c.Route().Path
		if c.Route() == own || path == "" {
			path = "unmatched"
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)

		return err
	}
}

// Handler serves the prometheus registry.
func Handler() fiber.Handler {
	handler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())

	return func(c *fiber.Ctx) error {
		handler(c.Context())
		return nil
	}
}
