package prediction

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// scenarioParams returns the reference ranges: every midpoint input
// normalizes to exactly 0.5.
func scenarioParams(t *testing.T) *Parameters {
	t.Helper()
	p, err := NewParameters(map[Feature]Range{
		Precipitation: {Min: 0, Max: 10},
		Humidity:      {Min: 0, Max: 100},
		WindGust:      {Min: 0, Max: 50},
		WindSpeed:     {Min: 0, Max: 30},
		CloudCover:    {Min: 0, Max: 100},
		Pressure:      {Min: 990, Max: 1030},
	}, Range{Min: -10, Max: 40})
	require.NoError(t, err)
	return p
}

func midpointFeatures() FeatureVector {
	return FeatureVector{
		Precipitation: 5,
		Humidity:      50,
		WindGust:      25,
		WindSpeed:     15,
		CloudCover:    50,
		Pressure:      1010,
	}
}

// constPredictor always answers v and records the matrices it saw.
type constPredictor struct {
	v     float64
	calls [][][]float64
}

func (p *constPredictor) Predict(_ context.Context, rows [][]float64) ([]float64, error) {
	p.calls = append(p.calls, rows)
	out := make([]float64, len(rows))
	for i := range out {
		out[i] = p.v
	}
	return out, nil
}

// firstColumn echoes the normalized precipitation back as the prediction.
var firstColumn = PredictorFunc(func(_ context.Context, rows [][]float64) ([]float64, error) {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = r[0]
	}
	return out, nil
})
