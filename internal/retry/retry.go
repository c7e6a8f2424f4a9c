package retry

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultRetries is the attempt budget applied when Options.Retries is zero-valued.
	DefaultRetries = 3
	// DefaultDelay is the initial backoff delay; it doubles after every retry.
	DefaultDelay = 2 * time.Second
)

// Options controls the backoff behavior of Do.
type Options struct {
	Retries int           // additional attempts after the first call
	Delay   time.Duration // initial delay before the first retry
}

// DefaultOptions mirrors the budget the news pipeline uses: three retries
// starting at two seconds.
func DefaultOptions() Options {
	return Options{Retries: DefaultRetries, Delay: DefaultDelay}
}

// Do invokes fn, retrying with exponential backoff while the returned error
// carries a rate-limit signature and the attempt budget lasts. Any other
// error, or an exhausted budget, propagates the error unchanged.
func Do(ctx context.Context, fn func() error, opts Options) error {
	retries := opts.Retries
	if retries < 0 {
		retries = 0
	}
	delay := opts.Delay
	if delay <= 0 {
		delay = DefaultDelay
	}

	for {
		err := fn()
		if err == nil {
			return nil
		}
		if !IsQuotaError(err) || retries <= 0 {
			return err
		}
		slog.Warn("retry: quota exceeded, backing off", "delay", delay, "retries_left", retries)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
		retries--
	}
}

// IsQuotaError reports whether err carries a rate-limit / resource-exhausted
// signature: an HTTP 429 status from the provider, or the strings "429" /
// "RESOURCE_EXHAUSTED" anywhere in the error chain text.
func IsQuotaError(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == 429 {
		return true
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == 429 {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, strconv.Itoa(429)) || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}
