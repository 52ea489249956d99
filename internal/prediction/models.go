package prediction

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Feature identifies one of the six model inputs. The numeric value is the
// column position the predictor was trained with.
type Feature int

const (
	Precipitation Feature = iota
	Humidity
	WindGust
	WindSpeed
	CloudCover
	Pressure

	NumFeatures = 6
)

// Features lists every feature in canonical (model column) order.
var Features = [NumFeatures]Feature{
	Precipitation,
	Humidity,
	WindGust,
	WindSpeed,
	CloudCover,
	Pressure,
}

var featureNames = [NumFeatures]string{
	"precipitation",
	"humidity",
	"wind_gust",
	"wind_speed",
	"cloud_cover",
	"pressure",
}

// String returns the canonical feature name, e.g. "wind_gust".
func (f Feature) String() string {
	if f < 0 || int(f) >= NumFeatures {
		return fmt.Sprintf("feature(%d)", int(f))
	}
	return featureNames[f]
}

// ParseFeature maps a canonical name back to its Feature.
func ParseFeature(name string) (Feature, bool) {
	for i, n := range featureNames {
		if n == name {
			return Feature(i), true
		}
	}
	return 0, false
}

// FeatureVector is one point-in-time weather observation used as model input.
type FeatureVector struct {
	Precipitation float64 `json:"precipitation" yaml:"precipitation"`
	Humidity      float64 `json:"humidity" yaml:"humidity"`
	WindGust      float64 `json:"wind_gust" yaml:"wind_gust"`
	WindSpeed     float64 `json:"wind_speed" yaml:"wind_speed"`
	CloudCover    float64 `json:"cloud_cover" yaml:"cloud_cover"`
	Pressure      float64 `json:"pressure" yaml:"pressure"`
}

// Values returns the raw inputs in canonical order.
func (v FeatureVector) Values() [NumFeatures]float64 {
	return [NumFeatures]float64{
		v.Precipitation,
		v.Humidity,
		v.WindGust,
		v.WindSpeed,
		v.CloudCover,
		v.Pressure,
	}
}

// Value returns a single input by feature.
func (v FeatureVector) Value(f Feature) float64 {
	vals := v.Values()
	return vals[f]
}

// ParseFeatures builds a FeatureVector from name -> text pairs, as submitted by
// an HTML form. Every feature must be present and parse as a float.
func ParseFeatures(values map[string]string) (FeatureVector, error) {
	var raw [NumFeatures]float64
	for _, f := range Features {
		s, ok := values[f.String()]
		if !ok || strings.TrimSpace(s) == "" {
			return FeatureVector{}, &Error{
				Op:    "prediction.parse_features",
				Kind:  KindValidation,
				Field: f.String(),
				Err:   fmt.Errorf("value is required"),
			}
		}
		n, err := parseNumber(s)
		if err != nil {
			return FeatureVector{}, &Error{
				Op:    "prediction.parse_features",
				Kind:  KindValidation,
				Field: f.String(),
				Err:   err,
			}
		}
		raw[f] = n
	}
	return featureVectorFrom(raw), nil
}

func featureVectorFrom(raw [NumFeatures]float64) FeatureVector {
	return FeatureVector{
		Precipitation: raw[Precipitation],
		Humidity:      raw[Humidity],
		WindGust:      raw[WindGust],
		WindSpeed:     raw[WindSpeed],
		CloudCover:    raw[CloudCover],
		Pressure:      raw[Pressure],
	}
}

// parseNumber accepts any finite float literal, surrounding spaces allowed.
func parseNumber(s string) (float64, error) {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("%q is not a finite number", s)
	}
	return n, nil
}

// NormalizedVector holds the six inputs rescaled into model space, in
// canonical order. Values are not clamped to [0, 1].
type NormalizedVector [NumFeatures]float64

// PredictionRecord is one batch output row.
type PredictionRecord struct {
	Timestamp   string  `json:"timestamp" yaml:"timestamp"`
	Temperature float64 `json:"temperature" yaml:"temperature"`
}
