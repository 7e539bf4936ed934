package reconcile

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-bookings/core"
)

// InMemoryBookingStore implements core.BookingStore for tests and local runs.
// Pagination tokens are plain offsets into insertion order.
type InMemoryBookingStore struct {
	mu      sync.Mutex
	records []core.BookingRecord
	Now     func() time.Time
}

func NewInMemoryBookingStore() *InMemoryBookingStore {
	return &InMemoryBookingStore{
		Now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

func (s *InMemoryBookingStore) List(
	_ context.Context,
	filter core.ListFilter,
	page core.Pagination,
) (core.ListPage, error) {
	if s == nil {
		return core.ListPage{}, reconcileInternal("reconcile: in-memory booking store is nil", nil)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]core.BookingRecord, 0, len(s.records))
	for _, record := range s.records {
		if matchesFilter(record, filter) {
			matched = append(matched, record)
		}
	}

	offset := 0
	if token := strings.TrimSpace(page.Token); token != "" {
		parsed, err := strconv.Atoi(token)
		if err != nil || parsed < 0 {
			return core.ListPage{}, reconcileValidation("reconcile: invalid pagination token", map[string]any{
				"token": page.Token,
			})
		}
		offset = parsed
	}
	limit := page.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}

	if offset >= len(matched) {
		return core.ListPage{}, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	out := core.ListPage{
		Records: append([]core.BookingRecord(nil), matched[offset:end]...),
	}
	if end < len(matched) {
		out.NextToken = strconv.Itoa(end)
	}
	return out, nil
}

func (s *InMemoryBookingStore) Create(_ context.Context, record core.BookingRecord) (core.BookingRecord, error) {
	if s == nil {
		return core.BookingRecord{}, reconcileInternal("reconcile: in-memory booking store is nil", nil)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(record.ID) == "" {
		record.ID = uuid.NewString()
	}
	now := s.now()
	record.CreatedAt = now
	record.UpdatedAt = now
	s.records = append(s.records, record)
	return record, nil
}

func (s *InMemoryBookingStore) Update(
	_ context.Context,
	id string,
	update core.BookingUpdate,
) (core.BookingRecord, error) {
	if s == nil {
		return core.BookingRecord{}, reconcileInternal("reconcile: in-memory booking store is nil", nil)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].ID != id {
			continue
		}
		record := &s.records[i]
		if update.BuyerID != "" {
			record.BuyerID = update.BuyerID
		}
		if update.BuyerEmail != "" {
			record.BuyerEmail = update.BuyerEmail
		}
		if update.StartTimeUTC != nil {
			record.StartTimeUTC = update.StartTimeUTC.UTC()
		}
		if update.EndTimeUTC != nil {
			record.EndTimeUTC = update.EndTimeUTC.UTC()
		}
		if update.Timezone != "" {
			record.Timezone = update.Timezone
		}
		if update.ProviderEventID != "" {
			record.ProviderEventID = update.ProviderEventID
		}
		if update.ProviderEventTypeID != "" {
			record.ProviderEventTypeID = update.ProviderEventTypeID
		}
		if update.JoinURL != "" {
			record.JoinURL = update.JoinURL
		}
		if update.Status != "" {
			record.Status = update.Status
		}
		record.UpdatedAt = s.now()
		return *record, nil
	}
	return core.BookingRecord{}, reconcileNotFound("reconcile: booking record not found", map[string]any{
		"record_id": id,
	})
}

func (s *InMemoryBookingStore) GetBooking(_ context.Context, id string) (core.BookingRecord, error) {
	if s == nil {
		return core.BookingRecord{}, reconcileInternal("reconcile: in-memory booking store is nil", nil)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, record := range s.records {
		if record.ID == id {
			return record, nil
		}
	}
	return core.BookingRecord{}, reconcileNotFound("reconcile: booking record not found", map[string]any{
		"record_id": id,
	})
}

func (s *InMemoryBookingStore) ListBookings(
	ctx context.Context,
	filter core.ListFilter,
	page core.Pagination,
) (core.ListPage, error) {
	return s.List(ctx, filter, page)
}

func (s *InMemoryBookingStore) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func matchesFilter(record core.BookingRecord, filter core.ListFilter) bool {
	if filter.ProviderEventID != "" && record.ProviderEventID != filter.ProviderEventID {
		return false
	}
	if filter.BuyerID != "" && record.BuyerID != filter.BuyerID {
		return false
	}
	if filter.BuyerEmail != "" && !strings.EqualFold(record.BuyerEmail, filter.BuyerEmail) {
		return false
	}
	if filter.Status != "" && record.Status != filter.Status {
		return false
	}
	return true
}

var (
	_ core.BookingStore  = (*InMemoryBookingStore)(nil)
	_ core.BookingReader = (*InMemoryBookingStore)(nil)
)
