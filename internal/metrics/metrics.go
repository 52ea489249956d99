package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ModeSingle = "single"
	ModeBatch  = "batch"
)

var (
	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "temperature_predictions_total",
			Help: "Successful prediction requests by mode",
		},
		[]string{"mode"},
	)

	PredictionFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "temperature_prediction_failures_total",
			Help: "Failed prediction requests by mode and error kind",
		},
		[]string{"mode", "kind"},
	)

	BatchRows = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "temperature_batch_rows",
			Help:    "Rows per successfully processed batch file",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	InferenceDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "temperature_inference_duration_seconds",
			Help:    "Wall time of a single-row or whole-batch prediction by mode",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"mode"},
	)
)
