package payload

import "testing"

func TestResolveBuyerEmail_AttendeeArrayWins(t *testing.T) {
	booking := mustParse(t, `{
		"attendees": [{"email": "ada@example.com"}, {"email": "second@example.com"}],
		"email": "other@example.com"
	}`)
	if got := ResolveBuyerEmail(booking); got != "ada@example.com" {
		t.Fatalf("expected first attendee email, got %q", got)
	}
}

func TestResolveBuyerEmail_SingularAttendee(t *testing.T) {
	booking := mustParse(t, `{"invitee": {"emailAddress": "grace@example.com"}}`)
	if got := ResolveBuyerEmail(booking); got != "grace@example.com" {
		t.Fatalf("expected invitee email, got %q", got)
	}
}

func TestResolveBuyerEmail_FormResponses(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{name: "bare value", body: `{"responses": {"email": "ada@example.com"}}`},
		{name: "wrapped value", body: `{"responses": {"email": {"label": "Email", "value": "ada@example.com"}}}`},
		{name: "answers map", body: `{"answers": {"email": "ada@example.com"}}`},
		{name: "metadata", body: `{"metadata": {"buyerEmail": "ada@example.com"}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ResolveBuyerEmail(mustParse(t, tc.body)); got != "ada@example.com" {
				t.Fatalf("expected resolved email, got %q", got)
			}
		})
	}
}

func TestResolveBuyerEmail_DeepScanSkipsOrganizer(t *testing.T) {
	booking := mustParse(t, `{
		"organizer": {"email": "host@staff.example.com"},
		"details": {"contact": {"customerEmail": "ada@example.com"}}
	}`)
	if got := ResolveBuyerEmail(booking); got != "ada@example.com" {
		t.Fatalf("expected buyer email from deep scan, got %q", got)
	}

	organizerOnly := mustParse(t, `{"organizer": {"email": "host@staff.example.com"}}`)
	if got := ResolveBuyerEmail(organizerOnly); got != "" {
		t.Fatalf("organizer email must never be picked, got %q", got)
	}
}

func TestResolveBuyerEmail_DeepScanRequiresEmailShape(t *testing.T) {
	booking := mustParse(t, `{"details": {"emailPreference": "daily-digest"}}`)
	if got := ResolveBuyerEmail(booking); got != "" {
		t.Fatalf("non-email-shaped value must be ignored, got %q", got)
	}
}

func TestResolveBuyerEmail_DeepScanHonorsDepthBound(t *testing.T) {
	booking := mustParse(t, `{"a":{"b":{"c":{"d":{"e":{"buyerEmail":"deep@example.com"}}}}}}`)
	if got := ResolveBuyerEmail(booking); got != "" {
		t.Fatalf("values beyond the depth bound must be ignored, got %q", got)
	}
}

func TestResolveBuyerID_MetadataWins(t *testing.T) {
	booking := mustParse(t, `{
		"metadata": {"buyerId": "buyer-77"},
		"buyerId": "buyer-override",
		"userId": "user-1"
	}`)
	if got := ResolveBuyerID(booking); got != "buyer-77" {
		t.Fatalf("expected metadata buyer id, got %q", got)
	}
}

func TestResolveBuyerID_OrderedFallbacks(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{name: "buyerId", body: `{"buyerId": "buyer-1"}`, want: "buyer-1"},
		{name: "custom-buyerId", body: `{"custom-buyerId": "buyer-2"}`, want: "buyer-2"},
		{name: "userId", body: `{"userId": "user-3"}`, want: "user-3"},
		{name: "attendee id", body: `{"attendee": {"id": 44}}`, want: "44"},
		{name: "attendees array id", body: `{"attendees": [{"id": "att-5"}]}`, want: "att-5"},
		{name: "responses", body: `{"responses": {"buyerId": "buyer-6"}}`, want: "buyer-6"},
		{name: "nothing", body: `{}`, want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ResolveBuyerID(mustParse(t, tc.body)); got != tc.want {
				t.Fatalf("want %q, got %q", tc.want, got)
			}
		})
	}
}

func TestResolveBuyerID_RejectsEmailShapedCandidates(t *testing.T) {
	booking := mustParse(t, `{"buyerId": "ada@example.com"}`)
	if got := ResolveBuyerID(booking); got != "" {
		t.Fatalf("email-shaped id must be discarded, got %q", got)
	}

	withMetadata := mustParse(t, `{
		"buyerId": "ada@example.com",
		"metadata": "{\"buyerId\":\"buyer-9\"}"
	}`)
	if got := ResolveBuyerID(withMetadata); got != "buyer-9" {
		t.Fatalf("expected encoded metadata fallback, got %q", got)
	}

	fromResponses := mustParse(t, `{"responses": {"buyerId": "ada@example.com"}}`)
	if got := ResolveBuyerID(fromResponses); got != "" {
		t.Fatalf("email-shaped response id must be discarded, got %q", got)
	}
}

func TestResolveBuyerID_EncodedMetadataString(t *testing.T) {
	booking := mustParse(t, `{"metadata": "{\"buyerId\":\"buyer-42\"}"}`)
	if got := ResolveBuyerID(booking); got != "buyer-42" {
		t.Fatalf("expected buyer id from encoded metadata, got %q", got)
	}

	malformed := mustParse(t, `{"metadata": "not-json"}`)
	if got := ResolveBuyerID(malformed); got != "" {
		t.Fatalf("malformed encoded metadata must resolve to empty, got %q", got)
	}
}
