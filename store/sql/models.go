package sqlstore

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-bookings/core"
)

type bookingRecord struct {
	bun.BaseModel `bun:"table:bookings,alias:b"`

	ID                  string    `bun:"id,pk"`
	BuyerID             string    `bun:"buyer_id,notnull"`
	BuyerEmail          string    `bun:"buyer_email"`
	StartTimeUTC        time.Time `bun:"start_time_utc,notnull"`
	EndTimeUTC          time.Time `bun:"end_time_utc,notnull"`
	Timezone            string    `bun:"timezone"`
	Provider            string    `bun:"provider,notnull"`
	ProviderEventID     string    `bun:"provider_event_id,notnull,unique"`
	ProviderEventTypeID string    `bun:"provider_event_type_id"`
	JoinURL             string    `bun:"join_url"`
	Status              string    `bun:"status,notnull"`
	CreatedAt           time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt           time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

func newBookingRecord(in core.BookingRecord, now time.Time) *bookingRecord {
	return &bookingRecord{
		ID:                  in.ID,
		BuyerID:             in.BuyerID,
		BuyerEmail:          in.BuyerEmail,
		StartTimeUTC:        in.StartTimeUTC.UTC(),
		EndTimeUTC:          in.EndTimeUTC.UTC(),
		Timezone:            in.Timezone,
		Provider:            in.Provider,
		ProviderEventID:     in.ProviderEventID,
		ProviderEventTypeID: in.ProviderEventTypeID,
		JoinURL:             in.JoinURL,
		Status:              string(in.Status),
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

func (r *bookingRecord) toDomain() core.BookingRecord {
	if r == nil {
		return core.BookingRecord{}
	}
	return core.BookingRecord{
		ID:                  r.ID,
		BuyerID:             r.BuyerID,
		BuyerEmail:          r.BuyerEmail,
		StartTimeUTC:        r.StartTimeUTC.UTC(),
		EndTimeUTC:          r.EndTimeUTC.UTC(),
		Timezone:            r.Timezone,
		Provider:            r.Provider,
		ProviderEventID:     r.ProviderEventID,
		ProviderEventTypeID: r.ProviderEventTypeID,
		JoinURL:             r.JoinURL,
		Status:              core.BookingStatus(r.Status),
		CreatedAt:           r.CreatedAt.UTC(),
		UpdatedAt:           r.UpdatedAt.UTC(),
	}
}
