package core

import (
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	BookingErrorBadInput        = "BOOKING_BAD_INPUT"
	BookingErrorUnauthorized    = "BOOKING_SIGNATURE_REJECTED"
	BookingErrorSecretMissing   = "BOOKING_SECRET_NOT_CONFIGURED"
	BookingErrorNotFound        = "BOOKING_NOT_FOUND"
	BookingErrorStoreFailed     = "BOOKING_STORE_OPERATION_FAILED"
	BookingErrorConflict        = "BOOKING_CONFLICT"
	BookingErrorInternal        = "BOOKING_INTERNAL_ERROR"
)

func bookingErrorMapper(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return ensureBookingErrorEnvelope(richErr)
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "signature"), strings.Contains(msg, "unauthorized"):
		return newBookingError(err.Error(), goerrors.CategoryAuth, BookingErrorUnauthorized)
	case strings.Contains(msg, "not found"):
		return newBookingError(err.Error(), goerrors.CategoryNotFound, BookingErrorNotFound)
	case strings.Contains(msg, "unique constraint"), strings.Contains(msg, "duplicate key"):
		return newBookingError(err.Error(), goerrors.CategoryConflict, BookingErrorConflict)
	case strings.Contains(msg, "required"), strings.Contains(msg, "invalid"), strings.Contains(msg, "unparseable"):
		return newBookingError(err.Error(), goerrors.CategoryBadInput, BookingErrorBadInput)
	}

	mapped := goerrors.MapToError(err, goerrors.DefaultErrorMappers())
	return ensureBookingErrorEnvelope(mapped)
}

// MapError normalizes any error into the module's error envelope with an HTTP
// status code and text code derived from its category.
func MapError(err error) *goerrors.Error {
	return bookingErrorMapper(err)
}

func newBookingError(message string, category goerrors.Category, textCode string) *goerrors.Error {
	return ensureBookingErrorEnvelope(
		goerrors.New(message, category).
			WithTextCode(textCode),
	)
}

func ensureBookingErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = bookingHTTPStatus(err.Category)
	}
	if strings.TrimSpace(err.TextCode) == "" {
		err.TextCode = defaultBookingTextCode(err.Category)
	}
	if err.Category == goerrors.CategoryInternal && strings.TrimSpace(err.Message) == "" {
		err.Message = "An unexpected error occurred"
	}
	return err
}

func defaultBookingTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return BookingErrorBadInput
	case goerrors.CategoryNotFound:
		return BookingErrorNotFound
	case goerrors.CategoryAuth, goerrors.CategoryAuthz:
		return BookingErrorUnauthorized
	case goerrors.CategoryConflict:
		return BookingErrorConflict
	case goerrors.CategoryOperation:
		return BookingErrorStoreFailed
	default:
		return BookingErrorInternal
	}
}

func bookingHTTPStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return http.StatusForbidden
	case goerrors.CategoryConflict:
		return http.StatusConflict
	case goerrors.CategoryRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
