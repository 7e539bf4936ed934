package query

import (
	"context"
	"strings"

	"github.com/goliatone/go-bookings/core"
)

type GetBookingQuery struct {
	reader core.BookingReader
}

func NewGetBookingQuery(reader core.BookingReader) *GetBookingQuery {
	return &GetBookingQuery{reader: reader}
}

func (q *GetBookingQuery) Query(ctx context.Context, msg GetBookingMessage) (core.BookingRecord, error) {
	if q == nil || q.reader == nil {
		return core.BookingRecord{}, queryDependencyError("query: booking reader is required")
	}
	return q.reader.GetBooking(ctx, msg.BookingID)
}

type ListBookingsQuery struct {
	reader core.BookingReader
}

func NewListBookingsQuery(reader core.BookingReader) *ListBookingsQuery {
	return &ListBookingsQuery{reader: reader}
}

func (q *ListBookingsQuery) Query(ctx context.Context, msg ListBookingsMessage) (core.ListPage, error) {
	if q == nil || q.reader == nil {
		return core.ListPage{}, queryDependencyError("query: booking reader is required")
	}
	return q.reader.ListBookings(ctx, msg.Filter, msg.Page)
}

type FindActiveBookingQuery struct {
	reader core.BookingReader
}

func NewFindActiveBookingQuery(reader core.BookingReader) *FindActiveBookingQuery {
	return &FindActiveBookingQuery{reader: reader}
}

// Query walks every result page for the buyer id filter first, then the email
// filter, returning the first BOOKED record it finds.
func (q *FindActiveBookingQuery) Query(
	ctx context.Context,
	msg FindActiveBookingMessage,
) (core.BookingRecord, error) {
	if q == nil || q.reader == nil {
		return core.BookingRecord{}, queryDependencyError("query: booking reader is required")
	}

	filters := make([]core.ListFilter, 0, 2)
	if buyerID := strings.TrimSpace(msg.BuyerID); buyerID != "" {
		filters = append(filters, core.ListFilter{BuyerID: buyerID, Status: core.BookingStatusBooked})
	}
	if buyerEmail := strings.TrimSpace(msg.BuyerEmail); buyerEmail != "" {
		filters = append(filters, core.ListFilter{BuyerEmail: buyerEmail, Status: core.BookingStatusBooked})
	}

	for _, filter := range filters {
		token := ""
		for {
			page, err := q.reader.ListBookings(ctx, filter, core.Pagination{Token: token})
			if err != nil {
				return core.BookingRecord{}, err
			}
			if len(page.Records) > 0 {
				return page.Records[0], nil
			}
			token = page.NextToken
			if token == "" {
				break
			}
		}
	}
	return core.BookingRecord{}, queryNotFoundError("query: no active booking for buyer")
}
