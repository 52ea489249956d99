package prediction

import (
	"fmt"
	"math"
)

// NormalizeValue rescales x linearly so that min maps to 0 and max to 1.
// Inputs outside [min, max] extrapolate; nothing is clamped.
func NormalizeValue(x, min, max float64) float64 {
	return (x - min) / (max - min)
}

// Denormalize maps a normalized model output back to physical units.
func Denormalize(value, min, max float64) float64 {
	return value*(max-min) + min
}

// Normalize maps a feature vector into model space using the stored ranges.
// The result is always in canonical order; the predictor reads columns by
// position.
func Normalize(fv FeatureVector, params *Parameters) (NormalizedVector, error) {
	var out NormalizedVector
	if params == nil {
		return out, &Error{Op: "prediction.normalize", Kind: KindConfig, Err: fmt.Errorf("parameters not loaded")}
	}

	values := fv.Values()
	for _, f := range Features {
		x := values[f]
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return NormalizedVector{}, &Error{
				Op:    "prediction.normalize",
				Kind:  KindValidation,
				Field: f.String(),
				Err:   fmt.Errorf("value %v is not a finite number", x),
			}
		}

		rng := params.FeatureRange(f)
		if err := rng.Validate(); err != nil {
			return NormalizedVector{}, &Error{Op: "prediction.normalize", Kind: KindConfig, Field: f.String(), Err: err}
		}
		out[f] = NormalizeValue(x, rng.Min, rng.Max)
	}
	return out, nil
}
