package prediction

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
)

// Range is a closed min/max interval used for linear rescaling.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Validate fails unless Max > Min and both bounds are finite.
func (r Range) Validate() error {
	if math.IsNaN(r.Min) || math.IsNaN(r.Max) || math.IsInf(r.Min, 0) || math.IsInf(r.Max, 0) {
		return fmt.Errorf("range [%v, %v] is not finite", r.Min, r.Max)
	}
	if r.Max <= r.Min {
		return fmt.Errorf("range max %v must be greater than min %v", r.Max, r.Min)
	}
	return nil
}

// Parameters holds the normalization ranges of every feature and of the
// target. It is read-only once built and safe for concurrent readers.
type Parameters struct {
	features [NumFeatures]Range
	target   Range
}

// NewParameters validates and assembles a parameter set. Every feature must
// have a range.
func NewParameters(features map[Feature]Range, target Range) (*Parameters, error) {
	p := &Parameters{target: target}
	for _, f := range Features {
		r, ok := features[f]
		if !ok {
			return nil, &Error{
				Op:    "prediction.new_parameters",
				Kind:  KindConfig,
				Field: f.String(),
				Err:   fmt.Errorf("missing range"),
			}
		}
		if err := r.Validate(); err != nil {
			return nil, &Error{Op: "prediction.new_parameters", Kind: KindConfig, Field: f.String(), Err: err}
		}
		p.features[f] = r
	}
	if err := target.Validate(); err != nil {
		return nil, &Error{Op: "prediction.new_parameters", Kind: KindConfig, Field: "temperature", Err: err}
	}
	return p, nil
}

// FeatureRange returns the training range of f.
func (p *Parameters) FeatureRange(f Feature) Range {
	return p.features[f]
}

// FeatureRangeByName looks a range up by canonical feature name.
func (p *Parameters) FeatureRangeByName(name string) (Range, error) {
	f, ok := ParseFeature(name)
	if !ok {
		return Range{}, &Error{
			Op:    "prediction.feature_range",
			Kind:  KindValidation,
			Field: name,
			Err:   fmt.Errorf("unknown feature"),
		}
	}
	return p.features[f], nil
}

// TargetRange returns the temperature range used to denormalize predictions.
func (p *Parameters) TargetRange() Range {
	return p.target
}

// ParameterKeys returns the configuration keys holding the range of f.
// The pressure maximum lives under "data_pressuremax", without the
// underscore the other features use.
func ParameterKeys(f Feature) (minKey, maxKey string) {
	minKey = "data_" + f.String() + "_min"
	maxKey = "data_" + f.String() + "_max"
	if f == Pressure {
		maxKey = "data_pressuremax"
	}
	return minKey, maxKey
}

const (
	targetMinKey = "data_temperature_min"
	targetMaxKey = "data_temperature_max"
)

// LoadParameters decodes a JSON parameters object. Missing keys, non-numeric
// values and degenerate ranges are all configuration errors.
func LoadParameters(r io.Reader) (*Parameters, error) {
	var raw map[string]any
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, &Error{Op: "prediction.load_parameters", Kind: KindConfig, Err: err}
	}

	features := make(map[Feature]Range, NumFeatures)
	for _, f := range Features {
		minKey, maxKey := ParameterKeys(f)
		rng, err := rangeFromKeys(raw, minKey, maxKey)
		if err != nil {
			return nil, err
		}
		features[f] = rng
	}

	target, err := rangeFromKeys(raw, targetMinKey, targetMaxKey)
	if err != nil {
		return nil, err
	}

	return NewParameters(features, target)
}

// LoadParametersFile reads parameters from a JSON file on disk.
func LoadParametersFile(path string) (*Parameters, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &Error{Op: "prediction.load_parameters", Kind: KindConfig, Field: path, Err: err}
	}
	defer f.Close()

	return LoadParameters(f)
}

func rangeFromKeys(raw map[string]any, minKey, maxKey string) (Range, error) {
	lo, err := numberAt(raw, minKey)
	if err != nil {
		return Range{}, err
	}
	hi, err := numberAt(raw, maxKey)
	if err != nil {
		return Range{}, err
	}
	rng := Range{Min: lo, Max: hi}
	if err := rng.Validate(); err != nil {
		return Range{}, &Error{
			Op:    "prediction.load_parameters",
			Kind:  KindConfig,
			Field: minKey + "/" + maxKey,
			Err:   err,
		}
	}
	return rng, nil
}

func numberAt(raw map[string]any, key string) (float64, error) {
	v, ok := raw[key]
	if !ok {
		return 0, &Error{
			Op:    "prediction.load_parameters",
			Kind:  KindConfig,
			Field: key,
			Err:   fmt.Errorf("required key is missing"),
		}
	}
	n, ok := v.(float64)
	if !ok {
		return 0, &Error{
			Op:    "prediction.load_parameters",
			Kind:  KindConfig,
			Field: key,
			Err:   fmt.Errorf("value %v is not a number", v),
		}
	}
	return n, nil
}
