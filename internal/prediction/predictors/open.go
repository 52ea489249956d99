package predictors

import (
	"fmt"
	"net/http"
	"time"

	"github.com/i474232898/temperature-prediction/internal/prediction"
)

const defaultWidth = prediction.NumFeatures

// Model kinds accepted by Open.
const (
	KindXGBoost = "xgboost"
	KindLinear  = "linear"
	KindRemote  = "remote"
)

// Options selects and locates the model to load.
type Options struct {
	Kind       string
	Path       string
	URL        string
	Timeout    time.Duration
	MaxRetries int
}

// Open loads the configured predictor.
func Open(opts Options) (prediction.Predictor, error) {
	switch opts.Kind {
	case KindXGBoost, "":
		m, err := LoadTreeEnsembleFile(opts.Path)
		if err != nil {
			return nil, err
		}
		return m, nil
	case KindLinear:
		m, err := LoadLinearModelFile(opts.Path)
		if err != nil {
			return nil, err
		}
		return m, nil
	case KindRemote:
		if opts.URL == "" {
			return nil, fmt.Errorf("remote model requires a URL")
		}
		client := &http.Client{Timeout: opts.Timeout}
		return NewRemotePredictor(client, opts.URL, opts.MaxRetries), nil
	default:
		return nil, fmt.Errorf("unknown model kind %q", opts.Kind)
	}
}
