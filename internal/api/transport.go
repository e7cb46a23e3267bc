package api

import (
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/HammerMeetNail/suggestly/internal/logging"
)

// loggingTransport logs every backend request with its timing.
type loggingTransport struct {
	next   http.RoundTripper
	logger *logging.Logger
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.next.RoundTrip(req)

	fields := map[string]interface{}{
		"method":      req.Method,
		"path":        req.URL.Path,
		"duration_ms": time.Since(start).Milliseconds(),
	}
	if id := req.Header.Get(requestIDHeader); id != "" {
		fields["request_id"] = id
	}
	if req.URL.RawQuery != "" {
		fields["query"] = req.URL.RawQuery
	}

	if err != nil {
		fields["error"] = err.Error()
		t.logger.Error("API request failed", fields)
		return nil, err
	}

	fields["status"] = resp.StatusCode
	switch {
	case resp.StatusCode >= 500:
		t.logger.Error("API request", fields)
	case resp.StatusCode >= 400:
		t.logger.Warn("API request", fields)
	default:
		t.logger.Debug("API request", fields)
	}
	return resp, nil
}

// rateLimitTransport holds each request until the limiter admits it.
type rateLimitTransport struct {
	next    http.RoundTripper
	limiter *rate.Limiter
}

func newRateLimitTransport(next http.RoundTripper, rps float64, burst int) *rateLimitTransport {
	if burst < 1 {
		burst = 1
	}
	return &rateLimitTransport{next: next, limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

func (t *rateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("waiting for rate limiter: %w", err)
	}
	return t.next.RoundTrip(req)
}
