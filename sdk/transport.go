package sdk

import (
	"context"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"time"
)

// doRequestWithRetry performs an HTTP request with exponential backoff retry
// logic. It retries on network errors and 5xx server errors; 2xx and 4xx
// responses are returned to the caller immediately.
func (c *Client) doRequestWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	var resp *http.Response
	var err error

	for attempt := 0; attempt <= c.retryAttempts; attempt++ {
		resp, err = c.httpClient.Do(req.WithContext(ctx))

		// If successful (2xx or 4xx), return immediately
		if err == nil && resp.StatusCode < 500 {
			return resp, nil
		}

		// Last attempt: keep the response for the caller's status check
		if attempt == c.retryAttempts {
			break
		}

		// Close response body if present
		if resp != nil {
			resp.Body.Close()
		}

		// Wait for backoff duration or until context is cancelled
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.calculateBackoff(attempt)):
		}
	}

	if err != nil {
		return nil, fmt.Errorf("request failed after %d attempts: %w", c.retryAttempts+1, err)
	}

	// Retries exhausted on a 5xx; the caller maps the status to an error.
	return resp, nil
}

// calculateBackoff calculates the backoff duration for a retry attempt.
// It uses exponential backoff with jitter to avoid thundering herd.
func (c *Client) calculateBackoff(attempt int) time.Duration {
	// Exponential backoff: min * (2 ^ attempt)
	backoff := float64(c.retryWaitMin) * math.Pow(2, float64(attempt))

	// Cap at maximum wait time
	if backoff > float64(c.retryWaitMax) {
		backoff = float64(c.retryWaitMax)
	}

	// Add jitter (random value between 0 and backoff)
	jitter := rand.Float64() * backoff

	return time.Duration(jitter)
}

// drainAndCloseBody reads and closes the response body to ensure connection reuse.
func drainAndCloseBody(resp *http.Response) {
	if resp != nil && resp.Body != nil {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}
}
