package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/amishk599/jobquery/internal/ai"
	"github.com/amishk599/jobquery/internal/model"
)

// RetryProvider is a decorator that bounds each LLM call with a timeout and
// retries transient failures with exponential backoff and jitter.
type RetryProvider struct {
	inner      ai.LLMProvider
	maxRetries int
	baseDelay  time.Duration
	timeout    time.Duration
	logger     *slog.Logger
}

// NewRetryProvider wraps an LLMProvider with retry logic.
// maxRetries is the number of additional attempts after the first failure (default: 2).
// baseDelay is the delay before the first retry (default: 1s), doubled on each subsequent retry.
// timeout bounds every attempt; zero disables the per-attempt deadline.
func NewRetryProvider(inner ai.LLMProvider, maxRetries int, baseDelay, timeout time.Duration, logger *slog.Logger) *RetryProvider {
	return &RetryProvider{
		inner:      inner,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		timeout:    timeout,
		logger:     logger,
	}
}

// Complete calls the wrapped provider, retrying on transient errors.
func (p *RetryProvider) Complete(ctx context.Context, prompt string) (string, error) {
	out, err := p.attempt(ctx, prompt)
	if err == nil {
		return out, nil
	}
	if !isRetryable(ctx, err) {
		return "", err
	}

	lastErr := err
	for attempt := 1; attempt <= p.maxRetries; attempt++ {
		delay := p.backoffDelay(attempt, lastErr)

		p.logger.Warn("retrying llm call after transient error",
			"attempt", attempt,
			"max_retries", p.maxRetries,
			"delay", delay,
			"error", lastErr,
		)

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}

		out, err = p.attempt(ctx, prompt)
		if err == nil {
			return out, nil
		}
		if !isRetryable(ctx, err) {
			return "", err
		}
		lastErr = err
	}

	return "", fmt.Errorf("llm call failed after %d attempts: %w", p.maxRetries+1, lastErr)
}

func (p *RetryProvider) attempt(ctx context.Context, prompt string) (string, error) {
	if p.timeout <= 0 {
		return p.inner.Complete(ctx, prompt)
	}
	attemptCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.inner.Complete(attemptCtx, prompt)
}

// backoffDelay computes the delay for a given attempt with ±30% jitter.
// If the error includes a Retry-After duration (HTTP 429), that takes precedence.
func (p *RetryProvider) backoffDelay(attempt int, err error) time.Duration {
	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) && httpErr.RetryAfter > 0 {
		return httpErr.RetryAfter
	}

	// Exponential: baseDelay * 2^(attempt-1)
	delay := p.baseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
	}

	jitter := float64(delay) * 0.3
	return time.Duration(float64(delay) + (rand.Float64()*2-1)*jitter)
}

// isRetryable reports whether err is a transient failure worth another
// attempt. Nothing is retried once the caller's context is done; a deadline
// hit by a single attempt is retried.
func isRetryable(ctx context.Context, err error) bool {
	if err == nil || ctx.Err() != nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}

	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Temporary()
	}

	// Network, DNS and per-attempt timeouts.
	return true
}
