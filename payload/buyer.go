package payload

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"
)

const maxEmailScanDepth = 4

var emailShapedPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var (
	attendeeArrayKeys    = []string{"attendees", "invitees"}
	attendeeSingularKeys = []string{"attendee", "invitee"}
	responseMapKeys      = []string{"responses", "answers", "fields"}
)

func emailShaped(value string) bool {
	return emailShapedPattern.MatchString(strings.TrimSpace(value))
}

// ResolveBuyerEmail finds the buyer's email on the booking object. Resolution
// is ordered, first match wins:
//
//  1. first attendee/invitee array entry exposing an email key
//  2. singular attendee/invitee objects, or a flat attendeeEmail key
//  3. common form-response maps and metadata.buyerEmail
//  4. a depth-bounded scan of the object graph for any email-shaped value
//     under a key containing "email", skipping the organizer sub-object so the
//     staff member's address is never mistaken for the buyer's
func ResolveBuyerEmail(booking map[string]any) string {
	for _, key := range attendeeArrayKeys {
		if email := firstArrayEntryEmail(booking[key]); email != "" {
			return email
		}
	}

	for _, key := range attendeeSingularKeys {
		if email := readFirstString(mapValue(booking, key), "email", "emailAddress"); email != "" {
			return email
		}
	}
	if email := readString(booking["attendeeEmail"]); email != "" {
		return email
	}

	for _, key := range responseMapKeys {
		if email := answerString(mapValue(booking, key), "email"); email != "" {
			return email
		}
	}
	if email := readString(booking["email"]); email != "" {
		return email
	}
	if email := readString(mapValue(booking, "metadata")["buyerEmail"]); email != "" {
		return email
	}

	return scanForEmail(booking)
}

func firstArrayEntryEmail(value any) string {
	entries, ok := value.([]any)
	if !ok || len(entries) == 0 {
		return ""
	}
	entry, ok := entries[0].(map[string]any)
	if !ok {
		return ""
	}
	return readFirstString(entry, "email", "emailAddress")
}

type scanItem struct {
	value any
	depth int
}

// scanForEmail walks the object graph breadth-first with an explicit worklist
// and a depth bound, so adversarially nested payloads cannot blow the stack.
// Map keys are visited in sorted order to keep resolution deterministic.
func scanForEmail(root map[string]any) string {
	worklist := []scanItem{{value: root, depth: 0}}
	for len(worklist) > 0 {
		item := worklist[0]
		worklist = worklist[1:]
		if item.depth > maxEmailScanDepth {
			continue
		}

		switch typed := item.value.(type) {
		case map[string]any:
			keys := make([]string, 0, len(typed))
			for key := range typed {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			for _, key := range keys {
				if strings.EqualFold(key, "organizer") {
					continue
				}
				child := typed[key]
				if strings.Contains(strings.ToLower(key), "email") {
					if candidate := readString(child); emailShaped(candidate) {
						return candidate
					}
				}
				worklist = append(worklist, scanItem{value: child, depth: item.depth + 1})
			}
		case []any:
			for _, child := range typed {
				worklist = append(worklist, scanItem{value: child, depth: item.depth + 1})
			}
		}
	}
	return ""
}

// ResolveBuyerID finds the buyer's opaque identifier. Resolution is ordered:
// explicit metadata.buyerId, top-level buyerId, the custom-buyerId field,
// userId, attendee/invitee id fields, a JSON-string-encoded metadata blob,
// then form-response maps.
//
// Buyer identity must be an opaque id, never PII. If a candidate from an id
// field turns out to be email-shaped it is discarded and only an explicit
// metadata.buyerId is trusted instead.
func ResolveBuyerID(booking map[string]any) string {
	if id := readString(mapValue(booking, "metadata")["buyerId"]); id != "" {
		return id
	}

	candidates := []string{
		readString(booking["buyerId"]),
		readString(booking["custom-buyerId"]),
		readString(booking["userId"]),
		participantID(booking),
	}
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		if emailShaped(candidate) {
			return encodedMetadataBuyerID(booking)
		}
		return candidate
	}

	if id := encodedMetadataBuyerID(booking); id != "" {
		return id
	}

	for _, key := range responseMapKeys {
		candidate := answerString(mapValue(booking, key), "buyerId")
		if candidate == "" {
			continue
		}
		if emailShaped(candidate) {
			return ""
		}
		return candidate
	}
	return ""
}

func participantID(booking map[string]any) string {
	for _, key := range attendeeSingularKeys {
		if id := readString(mapValue(booking, key)["id"]); id != "" {
			return id
		}
	}
	for _, key := range attendeeArrayKeys {
		entries, ok := booking[key].([]any)
		if !ok || len(entries) == 0 {
			continue
		}
		if entry, ok := entries[0].(map[string]any); ok {
			if id := readString(entry["id"]); id != "" {
				return id
			}
		}
	}
	return ""
}

// encodedMetadataBuyerID recovers buyerId from providers that forward the
// metadata object serialized as a JSON string.
func encodedMetadataBuyerID(booking map[string]any) string {
	raw, ok := booking["metadata"].(string)
	if !ok || strings.TrimSpace(raw) == "" {
		return ""
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return ""
	}
	return readString(decoded["buyerId"])
}
