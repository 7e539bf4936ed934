package bookings

import (
	"fmt"

	bookingscommand "github.com/goliatone/go-bookings/command"
	"github.com/goliatone/go-bookings/core"
	bookingsquery "github.com/goliatone/go-bookings/query"
)

type Commands struct {
	IngestEvent   *bookingscommand.IngestEventCommand
	CancelBooking *bookingscommand.CancelBookingCommand
}

type Queries struct {
	GetBooking        *bookingsquery.GetBookingQuery
	ListBookings      *bookingsquery.ListBookingsQuery
	FindActiveBooking *bookingsquery.FindActiveBookingQuery
}

// Facade bundles the command and query handlers around one store and one
// ingest pipeline so hosts wire a single value into their dispatcher.
type Facade struct {
	ingestor core.Ingestor
	store    core.BookingStore
	commands Commands
	queries  Queries
}

type FacadeOption func(*facadeOptions)

type facadeOptions struct {
	reader core.BookingReader
}

// WithBookingReader overrides the read side of the facade. By default the
// store itself must implement core.BookingReader.
func WithBookingReader(reader core.BookingReader) FacadeOption {
	return func(options *facadeOptions) {
		options.reader = reader
	}
}

func NewFacade(ingestor core.Ingestor, store core.BookingStore, opts ...FacadeOption) (*Facade, error) {
	if ingestor == nil {
		return nil, fmt.Errorf("bookings: ingestor is required")
	}
	if store == nil {
		return nil, fmt.Errorf("bookings: booking store is required")
	}
	cfg := facadeOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	reader := cfg.reader
	if reader == nil {
		candidate, ok := store.(core.BookingReader)
		if !ok {
			return nil, fmt.Errorf("bookings: store does not implement BookingReader; use WithBookingReader")
		}
		reader = candidate
	}

	facade := &Facade{ingestor: ingestor, store: store}
	facade.commands = Commands{
		IngestEvent:   bookingscommand.NewIngestEventCommand(ingestor),
		CancelBooking: bookingscommand.NewCancelBookingCommand(store),
	}
	facade.queries = Queries{
		GetBooking:        bookingsquery.NewGetBookingQuery(reader),
		ListBookings:      bookingsquery.NewListBookingsQuery(reader),
		FindActiveBooking: bookingsquery.NewFindActiveBookingQuery(reader),
	}

	return facade, nil
}

func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

func (f *Facade) Ingestor() core.Ingestor {
	if f == nil {
		return nil
	}
	return f.ingestor
}

func (f *Facade) Store() core.BookingStore {
	if f == nil {
		return nil
	}
	return f.store
}
