// Package payload extracts canonical booking fields from the provider's
// loosely-structured webhook payloads. The provider's schema has drifted
// across webhook versions and event types, so every field is resolved through
// an ordered chain of known locations and aliases; the first match wins and
// unresolved fields stay absent.
package payload

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-bookings/core"
)

var (
	providerEventIDKeys = []string{"uid", "bookingId", "id", "reference", "uuid", "eventId"}
	startTimeKeys       = []string{"startTime", "start_time", "start", "startsAt", "startDate"}
	endTimeKeys         = []string{"endTime", "end_time", "end", "endsAt", "endDate"}
	joinURLKeys         = []string{"joinUrl", "join_url", "meetingUrl", "videoCallUrl", "hangoutLink"}
	timezoneKeys        = []string{"timezone", "timeZone", "time_zone", "tz"}
	eventTypeIDKeys     = []string{"eventTypeId", "event_type_id", "eventTypeSlug", "typeId"}
	eventTypeKeys       = []string{"triggerEvent", "trigger_event", "type", "event", "eventType"}
)

// Parse decodes a raw webhook body into a generic JSON tree.
func Parse(body []byte) (map[string]any, error) {
	var tree map[string]any
	if err := json.Unmarshal(body, &tree); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "payload: body is not a JSON object").
			WithCode(http.StatusBadRequest).
			WithTextCode(core.BookingErrorBadInput)
	}
	return tree, nil
}

// Normalize resolves the canonical booking fields from a decoded payload.
// Normalization is best-effort and never fails: fields that cannot be
// resolved are left empty for the reconciliation engine to judge.
func Normalize(tree map[string]any) core.NormalizedEvent {
	booking := locateBooking(tree)
	return core.NormalizedEvent{
		ProviderEventID:     readFirstString(booking, providerEventIDKeys...),
		EventType:           readFirstString(tree, eventTypeKeys...),
		StartTime:           readFirstString(booking, startTimeKeys...),
		EndTime:             readFirstString(booking, endTimeKeys...),
		Timezone:            readFirstString(booking, timezoneKeys...),
		JoinURL:             readFirstString(booking, joinURLKeys...),
		ProviderEventTypeID: readFirstString(booking, eventTypeIDKeys...),
		BuyerEmail:          ResolveBuyerEmail(booking),
		BuyerID:             ResolveBuyerID(booking),
	}
}

// locateBooking finds the booking sub-object. Webhook versions have nested it
// under data.booking, payload.booking, booking, data, or payload; some send it
// at the root. The first non-empty object wins.
func locateBooking(tree map[string]any) map[string]any {
	candidates := []map[string]any{
		nestedMap(tree, "data", "booking"),
		nestedMap(tree, "payload", "booking"),
		mapValue(tree, "booking"),
		mapValue(tree, "data"),
		mapValue(tree, "payload"),
		tree,
	}
	for _, candidate := range candidates {
		if len(candidate) > 0 {
			return candidate
		}
	}
	return map[string]any{}
}

func mapValue(tree map[string]any, key string) map[string]any {
	if tree == nil {
		return nil
	}
	value, _ := tree[key].(map[string]any)
	return value
}

func nestedMap(tree map[string]any, keys ...string) map[string]any {
	current := tree
	for _, key := range keys {
		current = mapValue(current, key)
		if current == nil {
			return nil
		}
	}
	return current
}

func readFirstString(tree map[string]any, keys ...string) string {
	for _, key := range keys {
		if value := readString(tree[key]); value != "" {
			return value
		}
	}
	return ""
}

func readString(value any) string {
	switch typed := value.(type) {
	case string:
		return strings.TrimSpace(typed)
	case fmt.Stringer:
		return strings.TrimSpace(typed.String())
	case json.Number:
		return strings.TrimSpace(typed.String())
	case int:
		return strconv.Itoa(typed)
	case int64:
		return strconv.FormatInt(typed, 10)
	case float64:
		if typed == float64(int64(typed)) {
			return strconv.FormatInt(int64(typed), 10)
		}
		return strconv.FormatFloat(typed, 'f', -1, 64)
	default:
		return ""
	}
}

// answerString reads a form-response value that providers ship either as a
// bare scalar or wrapped in a {label, value} object.
func answerString(answers map[string]any, key string) string {
	if answers == nil {
		return ""
	}
	value := answers[key]
	if wrapped, ok := value.(map[string]any); ok {
		return readString(wrapped["value"])
	}
	return readString(value)
}
