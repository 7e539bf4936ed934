package command

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-bookings/core"
)

const (
	TypeIngestEvent   = "bookings.command.event.ingest"
	TypeCancelBooking = "bookings.command.booking.cancel"
)

// IngestEventMessage carries one normalized webhook event through the command
// bus. Deeper validation (time parsing, ordering) happens in the engine.
type IngestEventMessage struct {
	Event core.NormalizedEvent
}

func (IngestEventMessage) Type() string { return TypeIngestEvent }

func (m IngestEventMessage) Validate() error {
	if strings.TrimSpace(m.Event.ProviderEventID) == "" {
		return fmt.Errorf("command: provider event id is required")
	}
	if strings.TrimSpace(m.Event.StartTime) == "" {
		return fmt.Errorf("command: start time is required")
	}
	if strings.TrimSpace(m.Event.EndTime) == "" {
		return fmt.Errorf("command: end time is required")
	}
	return nil
}

type CancelBookingMessage struct {
	ProviderEventID string
	Reason          string
}

func (CancelBookingMessage) Type() string { return TypeCancelBooking }

func (m CancelBookingMessage) Validate() error {
	if strings.TrimSpace(m.ProviderEventID) == "" {
		return fmt.Errorf("command: provider event id is required")
	}
	return nil
}
