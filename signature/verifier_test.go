package signature

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-bookings/core"
)

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerify_AcceptsBodyScheme(t *testing.T) {
	body := []byte(`{"triggerEvent":"BOOKING_CREATED"}`)
	verifier := NewVerifier("topsecret")

	err := verifier.Verify(context.Background(), core.InboundRequest{
		Headers: map[string]string{"X-Cal-Signature-256": sign("topsecret", body)},
		Body:    body,
	})
	if err != nil {
		t.Fatalf("expected valid signature, got %v", err)
	}
}

func TestVerify_AcceptsTimestampedScheme(t *testing.T) {
	body := []byte(`{"triggerEvent":"BOOKING_CREATED"}`)
	timestamp := "1700000000"
	signed := append([]byte(timestamp+"."), body...)
	verifier := NewVerifier("topsecret")

	err := verifier.Verify(context.Background(), core.InboundRequest{
		Headers: map[string]string{
			"X-Webhook-Signature": "t=" + timestamp + ",v1=" + sign("topsecret", signed),
		},
		Body: body,
	})
	if err != nil {
		t.Fatalf("expected valid timestamped signature, got %v", err)
	}
}

func TestVerify_RejectsTamperedBody(t *testing.T) {
	body := []byte(`{"triggerEvent":"BOOKING_CREATED"}`)
	verifier := NewVerifier("topsecret")

	err := verifier.Verify(context.Background(), core.InboundRequest{
		Headers: map[string]string{"X-Cal-Signature-256": sign("topsecret", body)},
		Body:    []byte(`{"triggerEvent":"BOOKING_CANCELLED"}`),
	})
	if err == nil {
		t.Fatalf("expected rejection for tampered body")
	}
	assertRejectedAsUnauthorized(t, err)
}

func TestVerify_RejectsWrongSecret(t *testing.T) {
	body := []byte(`{}`)
	verifier := NewVerifier("topsecret")

	err := verifier.Verify(context.Background(), core.InboundRequest{
		Headers: map[string]string{"X-Signature": sign("othersecret", body)},
		Body:    body,
	})
	if err == nil {
		t.Fatalf("expected rejection for wrong secret")
	}
	assertRejectedAsUnauthorized(t, err)
}

func TestVerify_RejectsMissingHeader(t *testing.T) {
	verifier := NewVerifier("topsecret")
	err := verifier.Verify(context.Background(), core.InboundRequest{Body: []byte(`{}`)})
	if err == nil {
		t.Fatalf("expected rejection for missing header")
	}
	assertRejectedAsUnauthorized(t, err)
}

func TestVerify_MissingSecretFailsClosed(t *testing.T) {
	body := []byte(`{}`)
	verifier := NewVerifier("")

	err := verifier.Verify(context.Background(), core.InboundRequest{
		Headers: map[string]string{"X-Cal-Signature-256": sign("", body)},
		Body:    body,
	})
	if err == nil {
		t.Fatalf("expected failure for missing secret")
	}
	var typed *goerrors.Error
	if !goerrors.As(err, &typed) {
		t.Fatalf("expected categorized error, got %T", err)
	}
	if typed.Category != goerrors.CategoryInternal {
		t.Fatalf("expected internal category, got %v", typed.Category)
	}
	if typed.TextCode != core.BookingErrorSecretMissing {
		t.Fatalf("unexpected text code: %q", typed.TextCode)
	}
}

func TestVerify_HeaderNameIsCaseInsensitive(t *testing.T) {
	body := []byte(`{"uid":"evt-1"}`)
	verifier := NewVerifier("topsecret")

	err := verifier.Verify(context.Background(), core.InboundRequest{
		Headers: map[string]string{"x-cal-signature-256": sign("topsecret", body)},
		Body:    body,
	})
	if err != nil {
		t.Fatalf("expected case-insensitive header match, got %v", err)
	}
}

func TestVerify_DigestComparisonIgnoresHexCase(t *testing.T) {
	body := []byte(`{"uid":"evt-1"}`)
	verifier := NewVerifier("topsecret")

	err := verifier.Verify(context.Background(), core.InboundRequest{
		Headers: map[string]string{"X-Signature-256": strings.ToUpper(sign("topsecret", body))},
		Body:    body,
	})
	if err != nil {
		t.Fatalf("expected uppercase hex digest to match, got %v", err)
	}
}

func TestVerify_CustomHeaderList(t *testing.T) {
	body := []byte(`{}`)
	verifier := NewVerifier("topsecret")
	verifier.Headers = []string{"X-Custom-Sig"}

	err := verifier.Verify(context.Background(), core.InboundRequest{
		Headers: map[string]string{"X-Cal-Signature-256": sign("topsecret", body)},
		Body:    body,
	})
	if err == nil {
		t.Fatalf("expected default header to be ignored when overridden")
	}

	err = verifier.Verify(context.Background(), core.InboundRequest{
		Headers: map[string]string{"X-Custom-Sig": sign("topsecret", body)},
		Body:    body,
	})
	if err != nil {
		t.Fatalf("expected custom header to verify, got %v", err)
	}
}

func TestParseSignatureHeader(t *testing.T) {
	cases := []struct {
		name          string
		value         string
		wantHash      string
		wantTimestamp string
	}{
		{name: "bare hex", value: "abc123", wantHash: "abc123"},
		{name: "v1 pair", value: "v1=abc123", wantHash: "abc123"},
		{
			name:          "timestamped",
			value:         "t=1700000000,v1=abc123",
			wantHash:      "abc123",
			wantTimestamp: "1700000000",
		},
		{name: "sha256 key", value: "sha256=abc123", wantHash: "abc123"},
		{name: "whitespace", value: "  t=1 , signature=def456  ", wantHash: "def456", wantTimestamp: "1"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := parseSignatureHeader(tc.value)
			if got.Hash != tc.wantHash {
				t.Fatalf("hash: want %q, got %q", tc.wantHash, got.Hash)
			}
			if got.Timestamp != tc.wantTimestamp {
				t.Fatalf("timestamp: want %q, got %q", tc.wantTimestamp, got.Timestamp)
			}
		})
	}
}

func assertRejectedAsUnauthorized(t *testing.T, err error) {
	t.Helper()
	var typed *goerrors.Error
	if !goerrors.As(err, &typed) {
		t.Fatalf("expected categorized error, got %T", err)
	}
	if typed.Category != goerrors.CategoryAuth {
		t.Fatalf("expected auth category, got %v", typed.Category)
	}
	if typed.TextCode != core.BookingErrorUnauthorized {
		t.Fatalf("unexpected text code: %q", typed.TextCode)
	}
}
