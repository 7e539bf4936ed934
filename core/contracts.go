package core

import (
	"context"

	glog "github.com/goliatone/go-logger/glog"
)

// ListFilter narrows a booking listing. Empty fields are ignored.
type ListFilter struct {
	ProviderEventID string
	BuyerID         string
	BuyerEmail      string
	Status          BookingStatus
}

// Pagination selects one result page. An empty token requests the first page;
// the store hands back an opaque continuation token while more pages remain.
type Pagination struct {
	Token string
	Limit int
}

type ListPage struct {
	Records   []BookingRecord
	NextToken string
}

// BookingStore is the persisted-store contract consumed by the reconciliation
// engine. Result ordering across pages is not guaranteed; callers that search
// for a record must walk every page.
type BookingStore interface {
	List(ctx context.Context, filter ListFilter, page Pagination) (ListPage, error)
	Create(ctx context.Context, record BookingRecord) (BookingRecord, error)
	Update(ctx context.Context, id string, update BookingUpdate) (BookingRecord, error)
}

// BookingReader is the read-only slice of the store surfaced to queries.
type BookingReader interface {
	GetBooking(ctx context.Context, id string) (BookingRecord, error)
	ListBookings(ctx context.Context, filter ListFilter, page Pagination) (ListPage, error)
}

// InboundRequest is one raw webhook delivery as captured at the HTTP boundary.
type InboundRequest struct {
	Headers map[string]string
	Body    []byte
}

type WebhookVerifier interface {
	Verify(ctx context.Context, req InboundRequest) error
}

// Ingestor reconciles one normalized event against the booking store.
type Ingestor interface {
	Ingest(ctx context.Context, event NormalizedEvent) (IngestResult, error)
}

// NormalizedEvent carries whichever canonical fields the payload normalizer
// could resolve. Empty strings mean "unresolved"; the engine treats them as
// absent rather than as explicit empties.
type NormalizedEvent struct {
	ProviderEventID     string
	EventType           string
	StartTime           string
	EndTime             string
	Timezone            string
	JoinURL             string
	ProviderEventTypeID string
	BuyerEmail          string
	BuyerID             string
}

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger
