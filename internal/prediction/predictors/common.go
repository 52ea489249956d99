package predictors

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

var (
	errRateLimited = errors.New("model server rate limited the request")
	errServerError = errors.New("model server error")
	errRejected    = errors.New("model server rejected the request")
	errCircuitOpen = errors.New("circuit breaker open")
)

// backoff controls how failed inference calls are retried. maxRetries 0
// means a single attempt.
type backoff struct {
	maxRetries int
	initial    time.Duration
	max        time.Duration
}

func (b backoff) delay(attempt int) time.Duration {
	d := b.initial << attempt
	if b.max > 0 && (d > b.max || d <= 0) {
		d = b.max
	}
	return d
}

// modelClient posts inference requests to a model server through a circuit
// breaker.
type modelClient struct {
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	backoff backoff
}

func newModelClient(name string, client *http.Client, maxRetries int) *modelClient {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     30 * time.Second,
		// A rejected payload says nothing about the server's health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errRejected)
		},
	})

	return &modelClient{
		http:    client,
		breaker: breaker,
		backoff: backoff{
			maxRetries: maxRetries,
			initial:    200 * time.Millisecond,
			max:        2 * time.Second,
		},
	}
}

// post sends a JSON body to url. Rejections (4xx other than 429) fail at
// once; rate limiting, 5xx and transport errors are retried with
// exponential backoff.
func (c *modelClient) post(ctx context.Context, url string, body []byte) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := c.breaker.Execute(func() (interface{}, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
			if err != nil {
				return nil, fmt.Errorf("%w: %v", errRejected, err)
			}
			req.Header.Set("Content-Type", "application/json")

			resp, err := c.http.Do(req)
			if err != nil {
				return nil, err
			}
			if err := checkStatus(resp.StatusCode); err != nil {
				resp.Body.Close()
				return nil, err
			}
			return resp, nil
		})
		if err == nil {
			return result.(*http.Response), nil
		}

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", errCircuitOpen, err)
		}
		if errors.Is(err, errRejected) || attempt >= c.backoff.maxRetries {
			return nil, err
		}

		timer := time.NewTimer(c.backoff.delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func checkStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusTooManyRequests:
		return errRateLimited
	case code >= 500:
		return fmt.Errorf("%w: status %d", errServerError, code)
	default:
		return fmt.Errorf("%w: status %d", errRejected, code)
	}
}

// checkShape verifies that there is at least one row and every row has
// exactly width columns.
func checkShape(rows [][]float64, width int) error {
	if len(rows) == 0 {
		return errors.New("input matrix has no rows")
	}
	for i, row := range rows {
		if len(row) != width {
			return fmt.Errorf("shape mismatch: row %d has %d columns, model expects %d", i, len(row), width)
		}
	}
	return nil
}
