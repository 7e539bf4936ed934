package reconcile

import (
	"testing"

	"github.com/goliatone/go-bookings/core"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		eventType string
		want      core.BookingStatus
	}{
		{eventType: "BOOKING_CREATED", want: core.BookingStatusBooked},
		{eventType: "booking.created", want: core.BookingStatusBooked},
		{eventType: "booking_rescheduled", want: core.BookingStatusBooked},
		{eventType: "BOOKING.RESCHEDULED", want: core.BookingStatusBooked},
		{eventType: "booking_requested", want: core.BookingStatusBooked},
		{eventType: "booking_approved", want: core.BookingStatusBooked},
		{eventType: "booking_paid", want: core.BookingStatusBooked},
		{eventType: "invitee.created", want: core.BookingStatusBooked},
		{eventType: "BOOKING_CANCELLED", want: core.BookingStatusCanceled},
		{eventType: "booking_canceled", want: core.BookingStatusCanceled},
		{eventType: "booking.cancelled", want: core.BookingStatusCanceled},
		{eventType: "booking_rejected", want: core.BookingStatusCanceled},
		{eventType: "invitee.canceled", want: core.BookingStatusCanceled},
		{eventType: "  booking_created  ", want: core.BookingStatusBooked},
		// Unknown and absent event types fail open.
		{eventType: "MEETING_STARTED", want: core.BookingStatusBooked},
		{eventType: "", want: core.BookingStatusBooked},
	}

	for _, tc := range cases {
		if got := Classify(tc.eventType); got != tc.want {
			t.Fatalf("classify(%q): want %q, got %q", tc.eventType, tc.want, got)
		}
	}
}
