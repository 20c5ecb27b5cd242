package pipeline

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics are process-wide pipeline counters. They register once on the
// default registry and are shared by every pipeline instance, so tests that
// build multiple pipelines do not trip duplicate registration.
type metrics struct {
	imagesProcessed prometheus.Counter
	linesDetected   prometheus.Counter
	variantFailures prometheus.Counter
	processDuration prometheus.Histogram
}

var (
	metricsOnce sync.Once
	metricsInst *metrics
)

func sharedMetrics() *metrics {
	metricsOnce.Do(func() {
		metricsInst = &metrics{
			imagesProcessed: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "expiryocr",
				Name:      "images_processed_total",
				Help:      "Images that completed a pipeline pass.",
			}),
			linesDetected: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "expiryocr",
				Name:      "lines_detected_total",
				Help:      "Text line regions produced by detection.",
			}),
			variantFailures: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "expiryocr",
				Name:      "variant_failures_total",
				Help:      "Ensemble variants excluded due to recognition failure.",
			}),
			processDuration: promauto.NewHistogram(prometheus.HistogramOpts{
				Namespace: "expiryocr",
				Name:      "process_duration_seconds",
				Help:      "Wall time of one pipeline pass.",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
			}),
		}
	})
	return metricsInst
}
