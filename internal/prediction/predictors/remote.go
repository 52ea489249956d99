package predictors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// RemotePredictor delegates inference to a model server speaking
// {"instances": [[...]]} -> {"predictions": [...]}.
type RemotePredictor struct {
	name   string
	url    string
	client *modelClient
}

// NewRemotePredictor creates a predictor for the model server at url.
func NewRemotePredictor(client *http.Client, url string, maxRetries int) *RemotePredictor {
	const name = "model-server"
	return &RemotePredictor{
		name:   name,
		url:    url,
		client: newModelClient(name, client, maxRetries),
	}
}

func (p *RemotePredictor) Name() string {
	return p.name
}

func (p *RemotePredictor) Predict(ctx context.Context, rows [][]float64) ([]float64, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("input matrix has no rows")
	}

	body, err := json.Marshal(struct {
		Instances [][]float64 `json:"instances"`
	}{Instances: rows})
	if err != nil {
		return nil, err
	}

	resp, err := p.client.post(ctx, p.url, body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.name, err)
	}
	defer resp.Body.Close()

	var payload struct {
		Predictions []float64 `json:"predictions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%s: decode response: %w", p.name, err)
	}
	if len(payload.Predictions) != len(rows) {
		return nil, fmt.Errorf("%s: got %d predictions for %d rows", p.name, len(payload.Predictions), len(rows))
	}
	return payload.Predictions, nil
}
