package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorFormat(t *testing.T) {
	err := New(CodeSheetError, "update failed")
	if got := err.Error(); got != "[SHEET_ERROR] update failed" {
		t.Errorf("unexpected message: %q", got)
	}

	wrapped := Wrap(fmt.Errorf("boom"), CodeSheetError, "update failed")
	if got := wrapped.Error(); got != "[SHEET_ERROR] update failed: boom" {
		t.Errorf("unexpected wrapped message: %q", got)
	}
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := Wrap(cause, CodeStorageError, "write failed")
	if !stderrors.Is(err, cause) {
		t.Error("expected wrapped cause to be reachable")
	}
}

func TestSentinelMatchSurvivesCopies(t *testing.T) {
	err := ErrCrossReferenceMissing.WithMetadata("exercise", "BOAT_BOAT_POSE")
	if !stderrors.Is(err, ErrCrossReferenceMissing) {
		t.Error("expected metadata copy to match the sentinel")
	}
	if stderrors.Is(err, ErrTransport) {
		t.Error("expected no match across codes")
	}
	if err.Metadata["exercise"] != "BOAT_BOAT_POSE" {
		t.Errorf("unexpected metadata: %v", err.Metadata)
	}
}

func TestIsRetryable(t *testing.T) {
	if !IsRetryable(NewRetryable(CodeTransportError, "fetch failed")) {
		t.Error("expected retryable")
	}
	if IsRetryable(New(CodeValidationError, "bad input")) {
		t.Error("expected not retryable")
	}
	if IsRetryable(nil) {
		t.Error("nil is never retryable")
	}
	// Retryability survives fmt.Errorf wrapping.
	wrapped := fmt.Errorf("context: %w", WrapRetryable(fmt.Errorf("boom"), CodeTransportError, "fetch"))
	if !IsRetryable(wrapped) {
		t.Error("expected retryable through wrapping")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(CodePubSubError, "publish failed")); got != CodePubSubError {
		t.Errorf("unexpected code: %v", got)
	}
	if got := GetCode(fmt.Errorf("plain")); got != CodeInternalError {
		t.Errorf("expected INTERNAL_ERROR for plain errors, got %v", got)
	}
	if got := GetCode(nil); got != "" {
		t.Errorf("expected empty code for nil, got %v", got)
	}
}
