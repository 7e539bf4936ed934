package core

import (
	"strings"
	"time"
)

type BookingStatus string

const (
	BookingStatusBooked   BookingStatus = "BOOKED"
	BookingStatusCanceled BookingStatus = "CANCELED"
)

const (
	ActionCreated          = "created"
	ActionUpdated          = "updated"
	ActionDuplicateSkipped = "duplicate-skipped"
)

// placeholderBuyerPrefix marks records created before buyer identity could be
// resolved. The buyer id may be backfilled from a later event for the same
// provider event.
const placeholderBuyerPrefix = "unknown-"

// BookingRecord is the persisted, canonical representation of one booking.
// ProviderEventID is the provider-assigned idempotency anchor: at most one
// record exists per provider event id, and later deliveries for the same id
// update the record in place.
type BookingRecord struct {
	ID                  string
	BuyerID             string
	BuyerEmail          string
	StartTimeUTC        time.Time
	EndTimeUTC          time.Time
	Timezone            string
	Provider            string
	ProviderEventID     string
	ProviderEventTypeID string
	JoinURL             string
	Status              BookingStatus
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (r BookingRecord) HasPlaceholderBuyer() bool {
	return strings.HasPrefix(strings.TrimSpace(r.BuyerID), placeholderBuyerPrefix)
}

// PlaceholderBuyerID returns the deterministic buyer id assigned when no
// identity was resolvable from the event payload.
func PlaceholderBuyerID(providerEventID string) string {
	return placeholderBuyerPrefix + strings.TrimSpace(providerEventID)
}

// IngestResult reports the outcome of one reconciled webhook delivery.
type IngestResult struct {
	Action   string
	RecordID string
}

// BookingUpdate carries the mutable fields of a booking record. Zero values
// mean "leave unchanged": the reconciliation engine never overwrites a present
// value with an empty one.
type BookingUpdate struct {
	BuyerID             string
	BuyerEmail          string
	StartTimeUTC        *time.Time
	EndTimeUTC          *time.Time
	Timezone            string
	ProviderEventID     string
	ProviderEventTypeID string
	JoinURL             string
	Status              BookingStatus
}

func (u BookingUpdate) IsZero() bool {
	return u.BuyerID == "" &&
		u.BuyerEmail == "" &&
		u.StartTimeUTC == nil &&
		u.EndTimeUTC == nil &&
		u.Timezone == "" &&
		u.ProviderEventID == "" &&
		u.ProviderEventTypeID == "" &&
		u.JoinURL == "" &&
		u.Status == ""
}
