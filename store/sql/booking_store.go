// Package sqlstore implements the booking store contract over a bun-managed
// SQL database (postgres in production, sqlite in tests).
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-bookings/core"
)

const defaultListLimit = 50

type BookingStore struct {
	db   *bun.DB
	repo repository.Repository[*bookingRecord]
}

func NewBookingStore(db *bun.DB) (*BookingStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*bookingRecord](db, bookingHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid booking repository wiring: %w", err)
		}
	}
	return &BookingStore{
		db:   db,
		repo: repo,
	}, nil
}

// List returns one page of bookings matching the filter. The continuation
// token is an opaque offset; callers walk pages until the token comes back
// empty.
func (s *BookingStore) List(
	ctx context.Context,
	filter core.ListFilter,
	page core.Pagination,
) (core.ListPage, error) {
	if s == nil || s.repo == nil {
		return core.ListPage{}, fmt.Errorf("sqlstore: booking store is not configured")
	}

	offset := 0
	if token := strings.TrimSpace(page.Token); token != "" {
		parsed, err := strconv.Atoi(token)
		if err != nil || parsed < 0 {
			return core.ListPage{}, fmt.Errorf("sqlstore: invalid pagination token %q", page.Token)
		}
		offset = parsed
	}
	limit := page.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	criteria := make([]repository.SelectCriteria, 0, 6)
	if value := strings.TrimSpace(filter.ProviderEventID); value != "" {
		criteria = append(criteria, repository.SelectBy("provider_event_id", "=", value))
	}
	if value := strings.TrimSpace(filter.BuyerID); value != "" {
		criteria = append(criteria, repository.SelectBy("buyer_id", "=", value))
	}
	if value := strings.TrimSpace(filter.BuyerEmail); value != "" {
		criteria = append(criteria, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("lower(?TableAlias.buyer_email) = lower(?)", value)
		}))
	}
	if value := strings.TrimSpace(string(filter.Status)); value != "" {
		criteria = append(criteria, repository.SelectBy("status", "=", value))
	}
	criteria = append(criteria,
		repository.OrderBy("updated_at DESC"),
		repository.OrderBy("id ASC"),
		repository.SelectPaginate(limit, offset),
	)

	records, _, err := s.repo.List(ctx, criteria...)
	if err != nil {
		return core.ListPage{}, err
	}

	out := core.ListPage{Records: make([]core.BookingRecord, 0, len(records))}
	for _, record := range records {
		out.Records = append(out.Records, record.toDomain())
	}
	if len(records) == limit {
		out.NextToken = strconv.Itoa(offset + limit)
	}
	return out, nil
}

func (s *BookingStore) Create(ctx context.Context, in core.BookingRecord) (core.BookingRecord, error) {
	if s == nil || s.repo == nil {
		return core.BookingRecord{}, fmt.Errorf("sqlstore: booking store is not configured")
	}
	if strings.TrimSpace(in.ProviderEventID) == "" {
		return core.BookingRecord{}, fmt.Errorf("sqlstore: provider event id is required")
	}
	if strings.TrimSpace(in.BuyerID) == "" {
		return core.BookingRecord{}, fmt.Errorf("sqlstore: buyer id is required")
	}

	record := newBookingRecord(in, time.Now().UTC())
	if strings.TrimSpace(record.ID) == "" {
		record.ID = uuid.NewString()
	}
	created, err := s.repo.Create(ctx, record)
	if err != nil {
		if isUniqueViolation(err) {
			return core.BookingRecord{}, fmt.Errorf(
				"sqlstore: booking already exists for provider event %q: %w",
				in.ProviderEventID,
				err,
			)
		}
		return core.BookingRecord{}, err
	}
	return created.toDomain(), nil
}

// Update loads the record, applies the non-zero fields of the update, and
// saves the full row. Zero-valued fields are left untouched.
func (s *BookingStore) Update(
	ctx context.Context,
	id string,
	update core.BookingUpdate,
) (core.BookingRecord, error) {
	if s == nil || s.repo == nil {
		return core.BookingRecord{}, fmt.Errorf("sqlstore: booking store is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return core.BookingRecord{}, fmt.Errorf("sqlstore: booking record id is required")
	}

	record, err := s.getRecord(ctx, id)
	if err != nil {
		return core.BookingRecord{}, err
	}
	if update.IsZero() {
		return record.toDomain(), nil
	}

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
		record.Status = string(update.Status)
	}
	record.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, record, repository.UpdateByID(id))
	if err != nil {
		if isUniqueViolation(err) {
			return core.BookingRecord{}, fmt.Errorf(
				"sqlstore: booking already exists for provider event %q: %w",
				record.ProviderEventID,
				err,
			)
		}
		return core.BookingRecord{}, err
	}
	return updated.toDomain(), nil
}

func (s *BookingStore) GetBooking(ctx context.Context, id string) (core.BookingRecord, error) {
	if s == nil || s.repo == nil {
		return core.BookingRecord{}, fmt.Errorf("sqlstore: booking store is not configured")
	}
	record, err := s.getRecord(ctx, strings.TrimSpace(id))
	if err != nil {
		return core.BookingRecord{}, err
	}
	return record.toDomain(), nil
}

func (s *BookingStore) ListBookings(
	ctx context.Context,
	filter core.ListFilter,
	page core.Pagination,
) (core.ListPage, error) {
	return s.List(ctx, filter, page)
}

func (s *BookingStore) getRecord(ctx context.Context, id string) (*bookingRecord, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("sqlstore: booking record %q not found", id)
		}
		return nil, err
	}
	return record, nil
}

func isNotFound(err error) bool {
	if errors.Is(err, sql.ErrNoRows) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no rows")
}

func isUniqueViolation(err error) bool {
	message := strings.ToLower(strings.TrimSpace(err.Error()))
	return strings.Contains(message, "unique constraint failed") ||
		strings.Contains(message, "duplicate key value violates unique constraint")
}

var (
	_ core.BookingStore  = (*BookingStore)(nil)
	_ core.BookingReader = (*BookingStore)(nil)
)
