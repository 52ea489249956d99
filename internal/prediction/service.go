package prediction

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/temperature-prediction/internal/logger"
	"github.com/i474232898/temperature-prediction/internal/metrics"
)

// BatchResult is the outcome of one processed batch file.
type BatchResult struct {
	ID          string             `json:"batch_id" yaml:"batch_id"`
	Predictions []PredictionRecord `json:"predictions" yaml:"predictions"`
}

// Service is the application entry point for predictions. It holds the
// loaded parameters and model for the whole process lifetime and never
// mutates them.
type Service struct {
	pipeline *Pipeline
	batch    *BatchProcessor
}

// NewService wires a pipeline and batch processor around params and predictor.
func NewService(params *Parameters, predictor Predictor) *Service {
	p := NewPipeline(params, NewEngine(predictor))
	return &Service{
		pipeline: p,
		batch:    NewBatchProcessor(p),
	}
}

// Parameters returns the loaded normalization ranges.
func (s *Service) Parameters() *Parameters {
	return s.pipeline.Parameters()
}

// Predict returns the temperature predicted for a single observation.
func (s *Service) Predict(ctx context.Context, fv FeatureVector) (float64, error) {
	log := logger.Get(ctx)
	start := time.Now()

	temp, err := s.pipeline.PredictFromInput(ctx, fv)
	metrics.InferenceDuration.WithLabelValues(metrics.ModeSingle).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.PredictionFailures.WithLabelValues(metrics.ModeSingle, string(KindOf(err))).Inc()
		log.Warnw("single prediction failed", "kind", KindOf(err), "error", err)
		return 0, err
	}

	metrics.PredictionsTotal.WithLabelValues(metrics.ModeSingle).Inc()
	log.Debugw("single prediction", "input", fv, "temperature", temp)
	return temp, nil
}

// PredictFile processes an uploaded or local batch file. On any failure no
// predictions are returned.
func (s *Service) PredictFile(ctx context.Context, filename string, r io.Reader) (BatchResult, error) {
	id := uuid.NewString()
	log := logger.Get(ctx).With("batch_id", id, "file", filename)
	start := time.Now()

	records, err := s.batch.ProcessFile(ctx, filename, r)
	metrics.InferenceDuration.WithLabelValues(metrics.ModeBatch).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.PredictionFailures.WithLabelValues(metrics.ModeBatch, string(KindOf(err))).Inc()
		log.Warnw("batch prediction aborted", "kind", KindOf(err), "error", err)
		return BatchResult{}, err
	}

	metrics.PredictionsTotal.WithLabelValues(metrics.ModeBatch).Inc()
	metrics.BatchRows.Observe(float64(len(records)))
	log.Infow("batch prediction completed", "rows", len(records), "elapsed", time.Since(start))

	return BatchResult{ID: id, Predictions: records}, nil
}
