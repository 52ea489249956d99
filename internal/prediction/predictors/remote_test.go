package predictors

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemotePredictor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req struct {
			Instances [][]float64 `json:"instances"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		preds := make([]float64, len(req.Instances))
		for i, row := range req.Instances {
			preds[i] = row[0] + row[5]
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"predictions": preds})
	}))
	defer srv.Close()

	p := NewRemotePredictor(srv.Client(), srv.URL, 0)
	out, err := p.Predict(context.Background(), [][]float64{{0.25, 0, 0, 0, 0, 0.5}})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.75}, out)
}

func TestRemotePredictorDoesNotRetryByDefault(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewRemotePredictor(srv.Client(), srv.URL, 0)
	_, err := p.Predict(context.Background(), [][]float64{{0, 0, 0, 0, 0, 0}})
	require.Error(t, err)
	assert.ErrorIs(t, err, errServerError)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestRemotePredictorRetries(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"predictions": [0.4]}`))
	}))
	defer srv.Close()

	p := NewRemotePredictor(srv.Client(), srv.URL, 1)
	p.client.backoff.initial = time.Millisecond

	out, err := p.Predict(context.Background(), [][]float64{{0, 0, 0, 0, 0, 0}})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.4}, out)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestRemotePredictorRejectionIsFinal(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// Enough rejections to trip the breaker if they counted as failures.
		if atomic.AddInt32(&hits, 1) <= 8 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"predictions": [0.1]}`))
	}))
	defer srv.Close()

	p := NewRemotePredictor(srv.Client(), srv.URL, 3)
	p.client.backoff.initial = time.Millisecond

	for i := 0; i < 8; i++ {
		_, err := p.Predict(context.Background(), [][]float64{{0, 0, 0, 0, 0, 0}})
		require.ErrorIs(t, err, errRejected)
	}
	assert.Equal(t, int32(8), atomic.LoadInt32(&hits))

	out, err := p.Predict(context.Background(), [][]float64{{0, 0, 0, 0, 0, 0}})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1}, out)
}

func TestBackoffDelay(t *testing.T) {
	b := backoff{initial: 200 * time.Millisecond, max: time.Second}
	assert.Equal(t, 200*time.Millisecond, b.delay(0))
	assert.Equal(t, 800*time.Millisecond, b.delay(2))
	assert.Equal(t, time.Second, b.delay(3))
	assert.Equal(t, time.Second, b.delay(70))
}

func TestRemotePredictorBadResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"predictions": []}`))
	}))
	defer srv.Close()

	p := NewRemotePredictor(srv.Client(), srv.URL, 0)
	_, err := p.Predict(context.Background(), [][]float64{{0, 0, 0, 0, 0, 0}})
	assert.ErrorContains(t, err, "got 0 predictions for 1 rows")

	_, err = p.Predict(context.Background(), nil)
	assert.Error(t, err)
}

func TestOpenRemote(t *testing.T) {
	p, err := Open(Options{Kind: KindRemote, URL: "http://localhost:9000/predict", Timeout: time.Second})
	require.NoError(t, err)
	assert.IsType(t, &RemotePredictor{}, p)
}
