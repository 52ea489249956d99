package predictors

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// LinearModel is an ordinary least-squares style regressor.
type LinearModel struct {
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

// LoadLinearModel decodes {"coefficients": [...], "intercept": c}.
func LoadLinearModel(r io.Reader) (*LinearModel, error) {
	var m LinearModel
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("decode linear model: %w", err)
	}
	if len(m.Coefficients) == 0 {
		return nil, fmt.Errorf("linear model has no coefficients")
	}
	return &m, nil
}

// LoadLinearModelFile reads a linear model from disk.
func LoadLinearModelFile(path string) (*LinearModel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadLinearModel(f)
}

func (m *LinearModel) Predict(_ context.Context, rows [][]float64) ([]float64, error) {
	if err := checkShape(rows, len(m.Coefficients)); err != nil {
		return nil, err
	}

	out := make([]float64, len(rows))
	for i, row := range rows {
		y := m.Intercept
		for j, w := range m.Coefficients {
			y += w * row[j]
		}
		out[i] = y
	}
	return out, nil
}
