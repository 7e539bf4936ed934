package command

import (
	"context"
	"strings"

	gocmd "github.com/goliatone/go-command"

	"github.com/goliatone/go-bookings/core"
)

// IngestService runs the reconciliation pipeline for one normalized event.
type IngestService interface {
	Ingest(ctx context.Context, event core.NormalizedEvent) (core.IngestResult, error)
}

type IngestEventCommand struct {
	service IngestService
}

func NewIngestEventCommand(service IngestService) *IngestEventCommand {
	return &IngestEventCommand{service: service}
}

func (c *IngestEventCommand) Execute(ctx context.Context, msg IngestEventMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: ingest service is required")
	}
	out, err := c.service.Ingest(ctx, msg.Event)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type CancelBookingCommand struct {
	store core.BookingStore
}

func NewCancelBookingCommand(store core.BookingStore) *CancelBookingCommand {
	return &CancelBookingCommand{store: store}
}

// Execute marks the booking tied to the provider event as canceled. Used by
// operator tooling when the provider never delivered the cancellation webhook.
func (c *CancelBookingCommand) Execute(ctx context.Context, msg CancelBookingMessage) error {
	if c == nil || c.store == nil {
		return commandDependencyError("command: booking store is required")
	}

	eventID := strings.TrimSpace(msg.ProviderEventID)
	page, err := c.store.List(ctx, core.ListFilter{ProviderEventID: eventID}, core.Pagination{Limit: 1})
	if err != nil {
		return err
	}
	if len(page.Records) == 0 {
		return commandNotFoundError("command: no booking for provider event " + eventID)
	}

	record, err := c.store.Update(ctx, page.Records[0].ID, core.BookingUpdate{
		Status: core.BookingStatusCanceled,
	})
	if err != nil {
		return err
	}
	storeResult(ctx, record)
	return nil
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
