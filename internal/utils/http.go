package utils

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrTimeout marks an outbound call that hit its deadline. Timeouts are the
// only failures the shared HTTP client retries.
var ErrTimeout = errors.New("outbound call timed out")

const userAgent = "technews-newsletter/1.0 (+https://github.com/bilgisen/technews)"

// NewHTTPClient returns a resty client with a bounded per-request timeout.
// Requests are retried only on timeouts and 5xx responses.
func NewHTTPClient(timeout time.Duration, retries int) *resty.Client {
	return resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent).
		SetRetryCount(retries).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			if err != nil {
				return IsTimeout(err)
			}
			return resp != nil && resp.StatusCode() >= http.StatusInternalServerError
		})
}

// IsTimeout reports whether err is a deadline or network timeout.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// ClassifyError wraps timeouts with ErrTimeout and everything else with the
// operation name.
func ClassifyError(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsTimeout(err) {
		return fmt.Errorf("%s: %w: %v", op, ErrTimeout, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// CheckStatus turns a non-2xx response into an error.
func CheckStatus(op string, resp *resty.Response) error {
	if resp.IsSuccess() {
		return nil
	}
	return fmt.Errorf("%s: unexpected status code %d", op, resp.StatusCode())
}
