package inbound

import (
	"errors"
	"net/http"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-bookings/core"
)

func TestInboundBadInput_CarriesEnvelope(t *testing.T) {
	err := inboundBadInput("inbound: request body exceeds limit", map[string]any{"limit_bytes": 64})

	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected categorized error, got %T", err)
	}
	if rich.Category != goerrors.CategoryBadInput {
		t.Fatalf("unexpected category: %v", rich.Category)
	}
	if rich.Code != http.StatusBadRequest {
		t.Fatalf("unexpected code: %d", rich.Code)
	}
	if rich.TextCode != core.BookingErrorBadInput {
		t.Fatalf("unexpected text code: %q", rich.TextCode)
	}
	if rich.Metadata["limit_bytes"] != 64 {
		t.Fatalf("expected metadata to survive, got %#v", rich.Metadata)
	}
}

func TestInboundReadFailed_WrapsSource(t *testing.T) {
	source := errors.New("unexpected EOF")
	err := inboundReadFailed(source)

	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected categorized error, got %T", err)
	}
	if rich.Category != goerrors.CategoryBadInput {
		t.Fatalf("unexpected category: %v", rich.Category)
	}
	if rich.Code != http.StatusBadRequest {
		t.Fatalf("unexpected code: %d", rich.Code)
	}
	if rich.TextCode != core.BookingErrorBadInput {
		t.Fatalf("unexpected text code: %q", rich.TextCode)
	}
}

func TestInboundMethodNotAllowed_CarriesEnvelope(t *testing.T) {
	err := inboundMethodNotAllowed(http.MethodDelete)

	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected categorized error, got %T", err)
	}
	if rich.Code != http.StatusMethodNotAllowed {
		t.Fatalf("unexpected code: %d", rich.Code)
	}
	if rich.Metadata["method"] != http.MethodDelete {
		t.Fatalf("expected method metadata, got %#v", rich.Metadata)
	}
}

func TestInboundInternal_CarriesEnvelope(t *testing.T) {
	err := inboundInternal("inbound: handler requires verifier and engine", nil)

	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected categorized error, got %T", err)
	}
	if rich.Category != goerrors.CategoryInternal {
		t.Fatalf("unexpected category: %v", rich.Category)
	}
	if rich.Code != http.StatusInternalServerError {
		t.Fatalf("unexpected code: %d", rich.Code)
	}
	if rich.TextCode != core.BookingErrorInternal {
		t.Fatalf("unexpected text code: %q", rich.TextCode)
	}
}
