package sync

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/qj0r9j0vc2/calendar-bridge/internal/domain/entity"
	domainerrors "github.com/qj0r9j0vc2/calendar-bridge/internal/domain/errors"
)

// RetryPolicy defines the retry behavior for failed publish attempts.
type RetryPolicy struct {
	MaxAttempts     int           // Maximum number of attempts (including first try)
	InitialInterval time.Duration // Initial backoff interval
	MaxInterval     time.Duration // Maximum backoff interval
	Multiplier      float64       // Backoff multiplier
	JitterFactor    float64       // Random jitter factor (0.0-1.0)
}

// DefaultRetryPolicy returns a sensible default retry policy.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:     3,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		Multiplier:      2.0,
		JitterFactor:    0.1,
	}
}

// RetryablePublisher wraps a Publisher with retry logic for transient
// failures. Permanent failures (bad credentials, missing channel) are
// returned immediately. The at-most-one-message guarantee still holds per
// attempt only: a message that was posted but whose response was lost will
// be retried and may double-post, which the next run's index absorbs.
type RetryablePublisher struct {
	publisher Publisher
	policy    RetryPolicy
	logger    Logger
}

// NewRetryablePublisher creates a RetryablePublisher with the given policy.
func NewRetryablePublisher(publisher Publisher, policy RetryPolicy, logger Logger) *RetryablePublisher {
	return &RetryablePublisher{
		publisher: publisher,
		policy:    policy,
		logger:    logger,
	}
}

// Publish posts the event message, retrying transient failures with
// exponential backoff.
func (r *RetryablePublisher) Publish(ctx context.Context, event entity.Event) (entity.MessageRef, error) {
	var lastErr error
	var ref entity.MessageRef

	for attempt := 1; attempt <= r.policy.MaxAttempts; attempt++ {
		ref, lastErr = r.publisher.Publish(ctx, event)

		if lastErr == nil {
			if attempt > 1 {
				r.logger.Info("publish succeeded after retry",
					"publisher", r.publisher.Name(),
					"event_id", event.ID,
					"attempt", attempt,
				)
			}
			return ref, nil
		}

		if !domainerrors.IsTransientError(lastErr) {
			r.logger.Warn("publish failed with permanent error",
				"publisher", r.publisher.Name(),
				"event_id", event.ID,
				"error", lastErr,
			)
			return "", lastErr
		}

		if attempt == r.policy.MaxAttempts {
			r.logger.Error("publish failed after max retries",
				"publisher", r.publisher.Name(),
				"event_id", event.ID,
				"attempts", attempt,
				"error", lastErr,
			)
			break
		}

		backoff := r.calculateBackoff(attempt)
		r.logger.Warn("publish failed, retrying",
			"publisher", r.publisher.Name(),
			"event_id", event.ID,
			"attempt", attempt,
			"backoff", backoff,
			"error", lastErr,
		)

		select {
		case <-time.After(backoff):
			// Continue to next attempt
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	return "", lastErr
}

// Name returns the underlying publisher name.
func (r *RetryablePublisher) Name() string {
	return r.publisher.Name()
}

// calculateBackoff calculates the backoff duration with exponential growth
// and jitter. Formula: min(InitialInterval * Multiplier^(attempt-1) * (1 ± jitter), MaxInterval)
func (r *RetryablePublisher) calculateBackoff(attempt int) time.Duration {
	backoff := float64(r.policy.InitialInterval) * math.Pow(r.policy.Multiplier, float64(attempt-1))

	jitter := 1.0 + (rand.Float64()*2.0-1.0)*r.policy.JitterFactor
	backoff *= jitter

	if backoff > float64(r.policy.MaxInterval) {
		backoff = float64(r.policy.MaxInterval)
	}

	return time.Duration(backoff)
}
