package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

func TestDoRetriesQuotaErrorExactly(t *testing.T) {
	for _, budget := range []int{0, 1, 3} {
		opErr := errors.New("RESOURCE_EXHAUSTED: quota exceeded")
		calls := 0
		err := Do(context.Background(), func() error {
			calls++
			return opErr
		}, Options{Retries: budget, Delay: time.Millisecond})
		want := budget + 1
		if calls != want {
			t.Errorf("budget %d: got %d calls, want %d", budget, calls, want)
		}
		if err != opErr {
			t.Errorf("budget %d: propagated error %v, want original", budget, err)
		}
	}
}

func TestDoNoRetriesWithNegativeBudget(t *testing.T) {
	calls := 0
	opErr := errors.New("429 too many requests")
	err := Do(context.Background(), func() error {
		calls++
		return opErr
	}, Options{Retries: -1, Delay: time.Millisecond})
	if calls != 1 {
		t.Errorf("got %d calls, want 1", calls)
	}
	if err != opErr {
		t.Errorf("propagated error %v, want original", err)
	}
}

func TestDoNonQuotaErrorPropagatesImmediately(t *testing.T) {
	calls := 0
	opErr := errors.New("connection refused")
	err := Do(context.Background(), func() error {
		calls++
		return opErr
	}, Options{Retries: 5, Delay: time.Millisecond})
	if calls != 1 {
		t.Errorf("got %d calls, want 1", calls)
	}
	if err != opErr {
		t.Errorf("propagated error %v, want original", err)
	}
}

func TestDoSucceedsAfterRetry(t *testing.T) {
	calls := 0
	err := Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("status 429")
		}
		return nil
	}, Options{Retries: 5, Delay: time.Millisecond})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("got %d calls, want 3", calls)
	}
}

func TestDoRespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Do(ctx, func() error {
		return errors.New("RESOURCE_EXHAUSTED")
	}, Options{Retries: 3, Delay: time.Hour})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestIsQuotaError(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("plain failure"), false},
		{errors.New("got 429 from upstream"), true},
		{errors.New("RESOURCE_EXHAUSTED"), true},
		{fmt.Errorf("fetch: %w", errors.New("RESOURCE_EXHAUSTED")), true},
		{&openai.APIError{HTTPStatusCode: 429, Message: "rate limited"}, true},
		{&openai.APIError{HTTPStatusCode: 500, Message: "boom"}, false},
	}
	for _, c := range cases {
		if got := IsQuotaError(c.err); got != c.want {
			t.Errorf("IsQuotaError(%v) = %v, want %v", c.err, got, c.want)
		}
	}
}
