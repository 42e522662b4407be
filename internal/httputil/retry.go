// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the stages that talk to
// scholarly metadata APIs (CrossRef, NCBI, OpenAlex).
package httputil

import (
	"context"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"
)

// RetryBaseDelay is the base duration for exponential backoff when a
// throttled response carries no Retry-After header. Tests override this to
// avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

const defaultMaxRetries = 5

// retryable reports whether a status code indicates a transient condition
// worth retrying. The metadata APIs signal throttling with 429 and brief
// outages with 503.
func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable
}

// DoWithRetry executes an HTTP request, retrying throttled (429) and
// temporarily unavailable (503) responses. The wait honors the response's
// Retry-After header when present; otherwise it backs off exponentially
// from RetryBaseDelay.
//
// When maxRetries is 0 the default (5) is used. Before each retry the
// response body is drained and closed. A context cancellation during a
// wait returns ctx.Err(). After exhausting retries the last response is
// returned so the caller can inspect it.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}

		if !retryable(resp.StatusCode) || attempt >= maxRetries {
			return resp, nil
		}

		wait := retryAfter(resp)
		if wait <= 0 {
			wait = time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
}

// retryAfter reads a delay from the Retry-After header. Only the
// delta-seconds form is interpreted; HTTP-date values and absent headers
// report zero.
func retryAfter(resp *http.Response) time.Duration {
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
