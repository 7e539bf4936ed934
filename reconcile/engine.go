// Package reconcile applies normalized booking events to the persisted store:
// it validates required fields, recovers buyer identity, guards the
// one-active-booking-per-buyer invariant, and performs an idempotent upsert
// keyed by the provider's event id.
package reconcile

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-bookings/core"
)

const (
	defaultProvider  = "calcom"
	defaultPageLimit = 50
	// maxPageWalk bounds the paged store walks against a runaway store.
	maxPageWalk = 1000
)

// Engine is the only writer of booking records. Every invocation re-derives
// state from the store: there is no cross-delivery memory, and coordination
// between concurrent deliveries happens only through the store itself.
type Engine struct {
	Store    core.BookingStore
	Provider string
	// ForceCreate skips the upsert lookup and always creates. Troubleshooting
	// override wired from configuration, never set in normal operation.
	ForceCreate bool
	PageLimit   int
	Logger      core.Logger
	Now         func() time.Time
}

func NewEngine(store core.BookingStore) *Engine {
	return &Engine{
		Store:     store,
		Provider:  defaultProvider,
		PageLimit: defaultPageLimit,
		Now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Ingest reconciles one delivery. Replaying the same event any number of
// times converges on a single record whose fields equal the last-applied
// payload; a second active booking attempt for an already-booked buyer is
// reported as duplicate-skipped without writing.
func (e *Engine) Ingest(ctx context.Context, event core.NormalizedEvent) (core.IngestResult, error) {
	if e == nil || e.Store == nil {
		return core.IngestResult{}, reconcileInternal("reconcile: engine requires a booking store", nil)
	}

	eventID := strings.TrimSpace(event.ProviderEventID)
	if eventID == "" {
		return core.IngestResult{}, reconcileValidation("reconcile: provider event id is required", nil)
	}
	start, ok := parseInstant(event.StartTime)
	if !ok {
		return core.IngestResult{}, reconcileValidation("reconcile: start time is missing or unparseable", map[string]any{
			"provider_event_id": eventID,
			"start_time":        event.StartTime,
		})
	}
	end, ok := parseInstant(event.EndTime)
	if !ok {
		return core.IngestResult{}, reconcileValidation("reconcile: end time is missing or unparseable", map[string]any{
			"provider_event_id": eventID,
			"end_time":          event.EndTime,
		})
	}
	if !start.Before(end) {
		return core.IngestResult{}, reconcileValidation("reconcile: start time must be before end time", map[string]any{
			"provider_event_id": eventID,
		})
	}

	status := Classify(event.EventType)
	buyerID := strings.TrimSpace(event.BuyerID)
	buyerEmail := strings.TrimSpace(event.BuyerEmail)

	// Providers drop custom fields on reschedules; recover identity
	// continuity from the most recent record sharing the buyer's email.
	if buyerID == "" && buyerEmail != "" {
		recovered, err := e.recoverBuyerID(ctx, buyerEmail)
		if err != nil {
			return core.IngestResult{}, err
		}
		buyerID = recovered
	}

	if status == core.BookingStatusBooked && (buyerID != "" || buyerEmail != "") {
		existing, err := e.findActiveBooking(ctx, buyerID, buyerEmail)
		if err != nil {
			return core.IngestResult{}, err
		}
		if existing != nil && existing.ProviderEventID != eventID {
			if existing.ProviderEventID == "" {
				if _, err := e.Store.Update(ctx, existing.ID, core.BookingUpdate{ProviderEventID: eventID}); err != nil {
					return core.IngestResult{}, reconcileStoreError(err, "reconcile: backfill provider event id", map[string]any{
						"record_id": existing.ID,
					})
				}
			}
			result := core.IngestResult{Action: core.ActionDuplicateSkipped, RecordID: existing.ID}
			e.logOutcome(ctx, result, eventID, buyerID)
			return result, nil
		}
	}

	if !e.ForceCreate {
		existing, err := e.findByProviderEventID(ctx, eventID)
		if err != nil {
			return core.IngestResult{}, err
		}
		if existing != nil {
			update := core.BookingUpdate{
				StartTimeUTC: &start,
				EndTimeUTC:   &end,
				Status:       status,
			}
			if event.JoinURL != "" {
				update.JoinURL = event.JoinURL
			}
			if event.Timezone != "" {
				update.Timezone = event.Timezone
			}
			if event.ProviderEventTypeID != "" {
				update.ProviderEventTypeID = event.ProviderEventTypeID
			}
			if buyerEmail != "" {
				update.BuyerEmail = buyerEmail
			}
			if buyerID != "" && buyerID != existing.BuyerID {
				update.BuyerID = buyerID
			}
			updated, err := e.Store.Update(ctx, existing.ID, update)
			if err != nil {
				return core.IngestResult{}, reconcileStoreError(err, "reconcile: update booking record", map[string]any{
					"record_id":         existing.ID,
					"provider_event_id": eventID,
				})
			}
			result := core.IngestResult{Action: core.ActionUpdated, RecordID: updated.ID}
			e.logOutcome(ctx, result, eventID, buyerID)
			return result, nil
		}
	}

	if buyerID == "" {
		buyerID = core.PlaceholderBuyerID(eventID)
	}
	created, err := e.Store.Create(ctx, core.BookingRecord{
		BuyerID:             buyerID,
		BuyerEmail:          buyerEmail,
		StartTimeUTC:        start,
		EndTimeUTC:          end,
		Timezone:            event.Timezone,
		Provider:            e.provider(),
		ProviderEventID:     eventID,
		ProviderEventTypeID: event.ProviderEventTypeID,
		JoinURL:             event.JoinURL,
		Status:              status,
	})
	if err != nil {
		return core.IngestResult{}, reconcileStoreError(err, "reconcile: create booking record", map[string]any{
			"provider_event_id": eventID,
		})
	}
	result := core.IngestResult{Action: core.ActionCreated, RecordID: created.ID}
	e.logOutcome(ctx, result, eventID, buyerID)
	return result, nil
}

// recoverBuyerID returns the buyer id of the most recently updated record
// carrying the given email, ignoring placeholder ids.
func (e *Engine) recoverBuyerID(ctx context.Context, buyerEmail string) (string, error) {
	var (
		latest    time.Time
		recovered string
	)
	err := e.walkPages(ctx, core.ListFilter{BuyerEmail: buyerEmail}, func(record core.BookingRecord) bool {
		if record.BuyerID == "" || record.HasPlaceholderBuyer() {
			return false
		}
		if recovered == "" || record.UpdatedAt.After(latest) {
			latest = record.UpdatedAt
			recovered = record.BuyerID
		}
		return false
	})
	if err != nil {
		return "", reconcileStoreError(err, "reconcile: recover buyer id by email", nil)
	}
	return recovered, nil
}

// findActiveBooking locates a BOOKED record for the buyer, preferring the
// opaque buyer id and falling back to the email when identity is unresolved.
func (e *Engine) findActiveBooking(ctx context.Context, buyerID string, buyerEmail string) (*core.BookingRecord, error) {
	filter := core.ListFilter{Status: core.BookingStatusBooked}
	if buyerID != "" {
		filter.BuyerID = buyerID
	} else {
		filter.BuyerEmail = buyerEmail
	}

	var found *core.BookingRecord
	err := e.walkPages(ctx, filter, func(record core.BookingRecord) bool {
		match := record
		found = &match
		return true
	})
	if err != nil {
		return nil, reconcileStoreError(err, "reconcile: look up active booking", map[string]any{
			"buyer_id": buyerID,
		})
	}
	return found, nil
}

func (e *Engine) findByProviderEventID(ctx context.Context, eventID string) (*core.BookingRecord, error) {
	var found *core.BookingRecord
	err := e.walkPages(ctx, core.ListFilter{ProviderEventID: eventID}, func(record core.BookingRecord) bool {
		if record.ProviderEventID != eventID {
			return false
		}
		match := record
		found = &match
		return true
	})
	if err != nil {
		return nil, reconcileStoreError(err, "reconcile: look up booking by provider event id", map[string]any{
			"provider_event_id": eventID,
		})
	}
	return found, nil
}

// walkPages visits every result page. Pagination order is not guaranteed by
// the store contract, so callers must not assume the first page holds their
// match. visit returns true to stop early.
func (e *Engine) walkPages(ctx context.Context, filter core.ListFilter, visit func(core.BookingRecord) bool) error {
	page := core.Pagination{Limit: e.pageLimit()}
	for range maxPageWalk {
		result, err := e.Store.List(ctx, filter, page)
		if err != nil {
			return err
		}
		for _, record := range result.Records {
			if visit(record) {
				return nil
			}
		}
		if result.NextToken == "" {
			return nil
		}
		page.Token = result.NextToken
	}
	return nil
}

func (e *Engine) provider() string {
	if e != nil && strings.TrimSpace(e.Provider) != "" {
		return strings.TrimSpace(e.Provider)
	}
	return defaultProvider
}

func (e *Engine) pageLimit() int {
	if e != nil && e.PageLimit > 0 {
		return e.PageLimit
	}
	return defaultPageLimit
}

func (e *Engine) logOutcome(ctx context.Context, result core.IngestResult, eventID string, buyerID string) {
	if e == nil || e.Logger == nil {
		return
	}
	logger := e.Logger
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	fields := map[string]any{
		"provider_event_id": eventID,
		"buyer_id":          buyerID,
		"action":            result.Action,
		"record_id":         result.RecordID,
	}
	if fieldsLogger, ok := logger.(core.FieldsLogger); ok {
		logger = fieldsLogger.WithFields(fields)
	}
	logger.Info("booking event reconciled",
		"action", result.Action,
		"provider_event_id", eventID,
		"record_id", result.RecordID,
	)
}

var instantLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// parseInstant accepts the timestamp spellings observed across provider
// webhook versions: RFC 3339 with or without fractional seconds or zone, and
// unix epoch seconds or milliseconds.
func parseInstant(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range instantLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC(), true
		}
	}
	if epoch, err := strconv.ParseInt(value, 10, 64); err == nil && epoch > 0 {
		if epoch > 1e12 {
			return time.UnixMilli(epoch).UTC(), true
		}
		return time.Unix(epoch, 0).UTC(), true
	}
	return time.Time{}, false
}

var _ core.Ingestor = (*Engine)(nil)
