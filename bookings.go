// Package bookings ingests provider webhook deliveries and reconciles them
// into a canonical booking store. The root package re-exports the core surface
// and wires the command/query facade; the heavy lifting lives in signature,
// payload, reconcile, and inbound.
package bookings

import "github.com/goliatone/go-bookings/core"

type Config = core.Config

type ServerConfig = core.ServerConfig

type WebhookConfig = core.WebhookConfig

type PersistenceConfig = core.PersistenceConfig

type BookingRecord = core.BookingRecord

type BookingUpdate = core.BookingUpdate

type BookingStatus = core.BookingStatus

type NormalizedEvent = core.NormalizedEvent

type IngestResult = core.IngestResult

type InboundRequest = core.InboundRequest

type ListFilter = core.ListFilter

type Pagination = core.Pagination

type ListPage = core.ListPage

type BookingStore = core.BookingStore

type BookingReader = core.BookingReader

type WebhookVerifier = core.WebhookVerifier

type Ingestor = core.Ingestor

type Logger = core.Logger

const (
	BookingStatusBooked   = core.BookingStatusBooked
	BookingStatusCanceled = core.BookingStatusCanceled

	ActionCreated          = core.ActionCreated
	ActionUpdated          = core.ActionUpdated
	ActionDuplicateSkipped = core.ActionDuplicateSkipped
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}

var MapError = core.MapError
