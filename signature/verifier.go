// Package signature authenticates raw webhook deliveries against a shared
// HMAC-SHA256 secret.
package signature

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-bookings/core"
)

// defaultSignatureHeaders is the ordered list of header names scanned for a
// signature value. Scheduling providers have shipped the same HMAC under
// several spellings across webhook versions; the first present header wins.
var defaultSignatureHeaders = []string{
	"X-Cal-Signature-256",
	"X-Webhook-Signature",
	"X-Signature-256",
	"X-Hub-Signature-256",
	"X-Signature",
}

type Verifier struct {
	Secret string
	// Headers overrides the accepted signature header names. Order matters.
	Headers []string
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{Secret: strings.TrimSpace(secret)}
}

// Verify authenticates req.Body against the shared secret. Two signing
// schemes are accepted: HMAC-SHA256(secret, body) and, when the header carries
// a timestamp, HMAC-SHA256(secret, "{timestamp}.{body}").
//
// A missing secret fails closed: every delivery is rejected as a server
// misconfiguration rather than as an invalid request.
func (v *Verifier) Verify(_ context.Context, req core.InboundRequest) error {
	if v == nil || strings.TrimSpace(v.Secret) == "" {
		return goerrors.New("signature: webhook secret is not configured", goerrors.CategoryInternal).
			WithCode(http.StatusInternalServerError).
			WithTextCode(core.BookingErrorSecretMissing)
	}

	header, value := v.findSignatureHeader(req.Headers)
	if value == "" {
		return rejected("signature: no signature header present", nil)
	}

	provided := parseSignatureHeader(value)
	if provided.Hash == "" {
		return rejected("signature: header carries no signature value", map[string]any{
			"header": header,
		})
	}

	if matchesDigest(provided.Hash, digest(v.Secret, req.Body)) {
		return nil
	}
	if provided.Timestamp != "" {
		signed := append([]byte(provided.Timestamp+"."), req.Body...)
		if matchesDigest(provided.Hash, digest(v.Secret, signed)) {
			return nil
		}
	}
	return rejected("signature: digest mismatch", map[string]any{
		"header": header,
	})
}

func (v *Verifier) findSignatureHeader(headers map[string]string) (string, string) {
	accepted := v.Headers
	if len(accepted) == 0 {
		accepted = defaultSignatureHeaders
	}
	for _, name := range accepted {
		for key, value := range headers {
			if strings.EqualFold(strings.TrimSpace(key), strings.TrimSpace(name)) {
				if trimmed := strings.TrimSpace(value); trimmed != "" {
					return name, trimmed
				}
			}
		}
	}
	return "", ""
}

type signatureValue struct {
	Hash      string
	Timestamp string
}

// parseSignatureHeader accepts either a bare hex digest or a comma-separated
// key=value list in the style of "t=1700000000,v1=abcdef".
func parseSignatureHeader(value string) signatureValue {
	value = strings.TrimSpace(value)
	if !strings.Contains(value, "=") {
		return signatureValue{Hash: value}
	}

	parsed := signatureValue{}
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, val, found := strings.Cut(part, "=")
		if !found {
			if parsed.Hash == "" {
				parsed.Hash = part
			}
			continue
		}
		val = strings.TrimSpace(val)
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "v1", "sha256", "signature":
			if parsed.Hash == "" {
				parsed.Hash = val
			}
		case "t", "timestamp":
			if parsed.Timestamp == "" {
				parsed.Timestamp = val
			}
		}
	}
	return parsed
}

func digest(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// matchesDigest compares in constant time over the decoded bytes when the
// candidate parses as hex. Malformed candidates fall back to a normalized
// string comparison; timing leakage on garbage input is not security-relevant.
func matchesDigest(candidate string, expected string) bool {
	candidate = strings.TrimSpace(candidate)
	candidateBytes, err := hex.DecodeString(strings.ToLower(candidate))
	if err == nil {
		expectedBytes, decodeErr := hex.DecodeString(expected)
		if decodeErr == nil {
			return hmac.Equal(candidateBytes, expectedBytes)
		}
	}
	return strings.EqualFold(candidate, expected)
}

func rejected(message string, metadata map[string]any) error {
	err := goerrors.New(message, goerrors.CategoryAuth).
		WithCode(http.StatusUnauthorized).
		WithTextCode(core.BookingErrorUnauthorized)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

var _ core.WebhookVerifier = (*Verifier)(nil)
