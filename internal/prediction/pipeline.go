package prediction

import "context"

// Pipeline runs normalize -> infer -> denormalize for a single observation.
// It only reads its parameters and engine, so one Pipeline may serve
// concurrent requests.
type Pipeline struct {
	params *Parameters
	engine *Engine
}

// NewPipeline creates a Pipeline from loaded parameters and an engine.
func NewPipeline(params *Parameters, engine *Engine) *Pipeline {
	return &Pipeline{params: params, engine: engine}
}

// Parameters returns the ranges the pipeline was built with.
func (p *Pipeline) Parameters() *Parameters {
	return p.params
}

// PredictFromInput returns the predicted temperature in physical units.
func (p *Pipeline) PredictFromInput(ctx context.Context, fv FeatureVector) (float64, error) {
	v, err := Normalize(fv, p.params)
	if err != nil {
		return 0, err
	}

	y, err := p.engine.Predict(ctx, v)
	if err != nil {
		return 0, err
	}

	target := p.params.TargetRange()
	return Denormalize(y, target.Min, target.Max), nil
}
