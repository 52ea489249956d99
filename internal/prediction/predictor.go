package prediction

import (
	"context"
	"fmt"
)

// Predictor abstracts a trained regression model (tree ensemble, linear model,
// remote model server). It receives a matrix of rows, each holding the
// normalized features in canonical order, and returns one output per row.
type Predictor interface {
	Predict(ctx context.Context, rows [][]float64) ([]float64, error)
}

// PredictorFunc adapts a plain function to the Predictor interface.
type PredictorFunc func(ctx context.Context, rows [][]float64) ([]float64, error)

func (f PredictorFunc) Predict(ctx context.Context, rows [][]float64) ([]float64, error) {
	return f(ctx, rows)
}

// Engine presents a normalized vector to the predictor as a single-row
// matrix and unwraps the scalar result.
type Engine struct {
	predictor Predictor
}

// NewEngine creates an Engine around the given predictor.
func NewEngine(p Predictor) *Engine {
	return &Engine{predictor: p}
}

// Predict returns the normalized model output for v. Any predictor failure,
// including a result of the wrong length, is an inference error.
func (e *Engine) Predict(ctx context.Context, v NormalizedVector) (float64, error) {
	if e == nil || e.predictor == nil {
		return 0, &Error{Op: "prediction.infer", Kind: KindInference, Err: fmt.Errorf("no predictor loaded")}
	}

	row := make([]float64, NumFeatures)
	copy(row, v[:])

	out, err := e.predictor.Predict(ctx, [][]float64{row})
	if err != nil {
		return 0, &Error{Op: "prediction.infer", Kind: KindInference, Err: err}
	}
	if len(out) == 0 {
		return 0, &Error{Op: "prediction.infer", Kind: KindInference, Err: fmt.Errorf("predictor returned no output")}
	}
	return out[0], nil
}
