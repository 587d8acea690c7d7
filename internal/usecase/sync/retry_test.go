package sync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qj0r9j0vc2/calendar-bridge/internal/domain/entity"
	domainerrors "github.com/qj0r9j0vc2/calendar-bridge/internal/domain/errors"
)

type flakyPublisher struct {
	failures int
	err      error

	calls int
}

func (p *flakyPublisher) Publish(_ context.Context, event entity.Event) (entity.MessageRef, error) {
	p.calls++
	if p.calls <= p.failures {
		return "", p.err
	}
	return entity.MessageRef("C1:" + event.ID), nil
}

func (p *flakyPublisher) Name() string { return "flaky" }

func fastPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:     3,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
		Multiplier:      2.0,
		JitterFactor:    0,
	}
}

func TestRetryablePublisher_RetriesTransient(t *testing.T) {
	inner := &flakyPublisher{
		failures: 2,
		err:      domainerrors.NewTransientError("rate limited", errors.New("429")),
	}
	publisher := NewRetryablePublisher(inner, fastPolicy(), noopLogger{})

	ref, err := publisher.Publish(context.Background(), entity.Event{ID: "e1"})

	require.NoError(t, err)
	assert.Equal(t, entity.MessageRef("C1:e1"), ref)
	assert.Equal(t, 3, inner.calls)
}

func TestRetryablePublisher_PermanentNotRetried(t *testing.T) {
	inner := &flakyPublisher{
		failures: 5,
		err:      domainerrors.NewPermanentError("invalid_auth", errors.New("401")),
	}
	publisher := NewRetryablePublisher(inner, fastPolicy(), noopLogger{})

	_, err := publisher.Publish(context.Background(), entity.Event{ID: "e1"})

	require.Error(t, err)
	assert.Equal(t, 1, inner.calls)
}

func TestRetryablePublisher_ExhaustsAttempts(t *testing.T) {
	transient := domainerrors.NewTransientError("slack server error", errors.New("503"))
	inner := &flakyPublisher{failures: 10, err: transient}
	publisher := NewRetryablePublisher(inner, fastPolicy(), noopLogger{})

	_, err := publisher.Publish(context.Background(), entity.Event{ID: "e1"})

	require.Error(t, err)
	assert.True(t, domainerrors.IsTransientError(err))
	assert.Equal(t, 3, inner.calls)
}

func TestRetryablePublisher_ContextCancellation(t *testing.T) {
	inner := &flakyPublisher{
		failures: 10,
		err:      domainerrors.NewTransientError("network error", errors.New("timeout")),
	}
	policy := fastPolicy()
	policy.InitialInterval = time.Hour // force the ctx branch during backoff
	publisher := NewRetryablePublisher(inner, policy, noopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := publisher.Publish(ctx, entity.Event{ID: "e1"})

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, inner.calls)
}

func TestRetryablePublisher_Name(t *testing.T) {
	publisher := NewRetryablePublisher(&flakyPublisher{}, DefaultRetryPolicy(), noopLogger{})
	assert.Equal(t, "flaky", publisher.Name())
}
