package httpx

import (
	"context"
	"errors"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// StatusError is implemented by errors that carry an HTTP response status.
type StatusError interface {
	HTTPStatusCode() int
}

func RetryableStatus(code int) bool {
	switch {
	case code == http.StatusRequestTimeout, code == http.StatusTooManyRequests:
		return true
	default:
		return code >= 500 && code <= 599
	}
}

// Retryable reports whether a failed call may succeed when repeated:
// timeouts and 408/429/5xx statuses. Cancellation is final.
func Retryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var se StatusError
	if errors.As(err, &se) {
		return RetryableStatus(se.HTTPStatusCode())
	}
	return false
}

type RetryPolicy struct {
	MaxRetries int
	Base       time.Duration
	Max        time.Duration
}

// Delay is the wait before retry n (0-based). A Retry-After header in
// seconds replaces the exponential step. The result is capped at Max and
// jittered by 20%.
func (p RetryPolicy) Delay(n int, resp *http.Response) time.Duration {
	d := p.Base
	for i := 0; i < n && (p.Max <= 0 || d < p.Max); i++ {
		d *= 2
	}
	if secs := retryAfterSeconds(resp); secs > 0 {
		d = time.Duration(secs) * time.Second
	}
	if p.Max > 0 && d > p.Max {
		d = p.Max
	}
	return jitter(d)
}

func retryAfterSeconds(resp *http.Response) int {
	if resp == nil {
		return 0
	}
	secs, err := strconv.Atoi(strings.TrimSpace(resp.Header.Get("Retry-After")))
	if err != nil {
		return 0
	}
	return secs
}

func jitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	spread := float64(d) * 0.2
	return time.Duration(float64(d) - spread + rand.Float64()*2*spread)
}

// Do runs call until it succeeds, returns a non-retryable error, or the
// policy runs out of retries. onRetry may be nil.
func Do(ctx context.Context, p RetryPolicy, call func(context.Context) (*http.Response, error), onRetry func(attempt int, wait time.Duration, err error)) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		resp, err := call(ctx)
		if err == nil {
			return resp, nil
		}
		if attempt >= p.MaxRetries || !Retryable(err) {
			return resp, err
		}
		wait := p.Delay(attempt, resp)
		if onRetry != nil {
			onRetry(attempt+1, wait, err)
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}
