package query

import (
	gocmd "github.com/goliatone/go-command"

	"github.com/goliatone/go-bookings/core"
)

var (
	_ gocmd.Querier[GetBookingMessage, core.BookingRecord]        = (*GetBookingQuery)(nil)
	_ gocmd.Querier[ListBookingsMessage, core.ListPage]           = (*ListBookingsQuery)(nil)
	_ gocmd.Querier[FindActiveBookingMessage, core.BookingRecord] = (*FindActiveBookingQuery)(nil)
)
