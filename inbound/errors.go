package inbound

import (
	"net/http"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-bookings/core"
)

func inboundBadInput(message string, metadata map[string]any) error {
	err := goerrors.New(message, goerrors.CategoryBadInput).
		WithCode(http.StatusBadRequest).
		WithTextCode(core.BookingErrorBadInput)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func inboundReadFailed(source error) error {
	return goerrors.Wrap(source, goerrors.CategoryBadInput, "inbound: read request body").
		WithCode(http.StatusBadRequest).
		WithTextCode(core.BookingErrorBadInput)
}

func inboundMethodNotAllowed(method string) error {
	return goerrors.New("inbound: method not allowed", goerrors.CategoryBadInput).
		WithCode(http.StatusMethodNotAllowed).
		WithTextCode(core.BookingErrorBadInput).
		WithMetadata(map[string]any{"method": method})
}

func inboundInternal(message string, metadata map[string]any) error {
	err := goerrors.New(message, goerrors.CategoryInternal).
		WithCode(http.StatusInternalServerError).
		WithTextCode(core.BookingErrorInternal)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}
