package reconcile

import (
	"strings"

	"github.com/goliatone/go-bookings/core"
)

// statusByEventType maps the provider's event-type spellings to a canonical
// booking status. Creations and reschedules both land on BOOKED: each event is
// a full-state snapshot, so a reschedule simply carries the new times.
var statusByEventType = map[string]core.BookingStatus{
	"booking_created":     core.BookingStatusBooked,
	"booking.created":     core.BookingStatusBooked,
	"booking_rescheduled": core.BookingStatusBooked,
	"booking.rescheduled": core.BookingStatusBooked,
	"booking_requested":   core.BookingStatusBooked,
	"booking_approved":    core.BookingStatusBooked,
	"booking_paid":        core.BookingStatusBooked,
	"invitee.created":     core.BookingStatusBooked,

	"booking_cancelled": core.BookingStatusCanceled,
	"booking_canceled":  core.BookingStatusCanceled,
	"booking.cancelled": core.BookingStatusCanceled,
	"booking.canceled":  core.BookingStatusCanceled,
	"booking_rejected":  core.BookingStatusCanceled,
	"invitee.canceled":  core.BookingStatusCanceled,
}

// Classify maps a free-form provider event type to a booking status.
// Unrecognized event types fail open to BOOKED: retaining availability
// information beats silently dropping an event we cannot name.
func Classify(eventType string) core.BookingStatus {
	normalized := strings.ToLower(strings.TrimSpace(eventType))
	if status, ok := statusByEventType[normalized]; ok {
		return status
	}
	return core.BookingStatusBooked
}
