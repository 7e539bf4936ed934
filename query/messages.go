package query

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-bookings/core"
)

const (
	TypeGetBooking        = "bookings.query.booking.get"
	TypeListBookings      = "bookings.query.booking.list"
	TypeFindActiveBooking = "bookings.query.booking.find_active"
)

type GetBookingMessage struct {
	BookingID string
}

func (GetBookingMessage) Type() string { return TypeGetBooking }

func (m GetBookingMessage) Validate() error {
	if strings.TrimSpace(m.BookingID) == "" {
		return fmt.Errorf("query: booking id is required")
	}
	return nil
}

type ListBookingsMessage struct {
	Filter core.ListFilter
	Page   core.Pagination
}

func (ListBookingsMessage) Type() string { return TypeListBookings }

func (m ListBookingsMessage) Validate() error {
	if m.Page.Limit < 0 {
		return fmt.Errorf("query: limit must be >= 0")
	}
	return nil
}

// FindActiveBookingMessage looks up the buyer's current BOOKED record by id
// or, failing that, by email.
type FindActiveBookingMessage struct {
	BuyerID    string
	BuyerEmail string
}

func (FindActiveBookingMessage) Type() string { return TypeFindActiveBooking }

func (m FindActiveBookingMessage) Validate() error {
	if strings.TrimSpace(m.BuyerID) == "" && strings.TrimSpace(m.BuyerEmail) == "" {
		return fmt.Errorf("query: buyer id or buyer email is required")
	}
	return nil
}
