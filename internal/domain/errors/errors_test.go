package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassification(t *testing.T) {
	cause := errors.New("connection refused")

	transient := NewTransientError("posting message", cause)
	if !IsTransientError(transient) {
		t.Error("expected transient classification")
	}
	if IsPermanentError(transient) {
		t.Error("transient error must not be permanent")
	}

	permanent := NewPermanentError("invalid_auth", cause)
	if !IsPermanentError(permanent) {
		t.Error("expected permanent classification")
	}
	if IsTransientError(permanent) {
		t.Error("permanent error must not be transient")
	}
}

func TestClassificationSurvivesWrapping(t *testing.T) {
	err := NewTransientError("rate limited", errors.New("429"))
	wrapped := fmt.Errorf("publishing event: %w", err)

	if !IsTransientError(wrapped) {
		t.Error("classification should survive fmt.Errorf wrapping")
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := NewPermanentError("channel_not_found", cause)

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to reach the cause")
	}
}

func TestUnclassifiedError(t *testing.T) {
	err := errors.New("plain error")
	if IsTransientError(err) || IsPermanentError(err) {
		t.Error("plain errors carry no classification")
	}
}

func TestErrorMessage(t *testing.T) {
	err := NewTransientError("scanning history", errors.New("timeout"))
	want := "scanning history: timeout"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}

	bare := NewPermanentError("no cause", nil)
	if bare.Error() != "no cause" {
		t.Errorf("expected bare message, got %q", bare.Error())
	}
}
