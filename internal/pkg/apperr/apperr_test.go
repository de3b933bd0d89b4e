package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelMatchingThroughWrapping(t *testing.T) {
	err := Wrap(CodeInsufficientCredits, "balance 2, need 5", ErrInsufficientFunds)
	wrapped := fmt.Errorf("debit failed: %w", err)

	if !errors.Is(wrapped, ErrInsufficientFunds) {
		t.Fatal("expected wrapped error to match the sentinel")
	}
	if errors.Is(wrapped, ErrInvalidInput) {
		t.Fatal("sentinels with different codes must not match")
	}
}

func TestCodesMatchRegardlessOfMessage(t *testing.T) {
	a := New(CodeDuplicateEvent, "session cs_1 already credited")
	b := New(CodeDuplicateEvent, "different message")

	if !errors.Is(a, b) {
		t.Fatal("errors with equal codes should match")
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(ErrRateLimited); got != CodeRateLimited {
		t.Fatalf("CodeOf = %s, want %s", got, CodeRateLimited)
	}
	if got := CodeOf(errors.New("plain")); got != CodeUnknown {
		t.Fatalf("CodeOf(plain) = %s, want %s", got, CodeUnknown)
	}
	if got := CodeOf(fmt.Errorf("outer: %w", ErrNotFound)); got != CodeNotFound {
		t.Fatalf("CodeOf(wrapped) = %s, want %s", got, CodeNotFound)
	}
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: ErrInsufficientFunds, want: 402},
		{err: ErrInvalidInput, want: 400},
		{err: ErrUnauthorized, want: 401},
		{err: ErrNotFound, want: 404},
		{err: ErrRateLimited, want: 429},
		{err: ErrConfiguration, want: 500},
		{err: errors.New("plain"), want: 500},
	}

	for _, tt := range tests {
		if got := StatusOf(tt.err); got != tt.want {
			t.Fatalf("StatusOf(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
