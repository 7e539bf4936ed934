package inbound

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/goliatone/go-bookings/core"
	"github.com/goliatone/go-bookings/payload"
)

const defaultMaxBodyBytes int64 = 1 << 20 // 1 MiB

// Handler serves the webhook endpoint. GET answers the provider's
// connectivity check; POST runs the full ingestion pipeline. The handler
// itself never writes to the store; the engine is the only writer.
type Handler struct {
	Verifier     core.WebhookVerifier
	Engine       core.Ingestor
	Logger       core.Logger
	MaxBodyBytes int64
}

func NewHandler(verifier core.WebhookVerifier, engine core.Ingestor) *Handler {
	return &Handler{
		Verifier:     verifier,
		Engine:       engine,
		MaxBodyBytes: defaultMaxBodyBytes,
	}
}

type ingestResponse struct {
	OK         bool   `json:"ok"`
	ID         string `json:"id,omitempty"`
	ExistingID string `json:"existingId,omitempty"`
	Action     string `json:"action,omitempty"`
}

type errorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	case http.MethodPost:
		h.handleDelivery(w, r)
	default:
		w.Header().Set("Allow", "GET, HEAD, POST")
		h.writeError(w, r, inboundMethodNotAllowed(r.Method))
	}
}

func (h *Handler) handleDelivery(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Verifier == nil || h.Engine == nil {
		h.writeError(w, r, inboundInternal("inbound: handler requires verifier and engine", nil))
		return
	}

	limit := h.MaxBodyBytes
	if limit <= 0 {
		limit = defaultMaxBodyBytes
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, limit+1))
	if err != nil {
		h.writeError(w, r, inboundReadFailed(err))
		return
	}
	if int64(len(body)) > limit {
		h.writeError(w, r, inboundBadInput("inbound: request body exceeds limit", map[string]any{
			"limit_bytes": limit,
		}))
		return
	}

	req := core.InboundRequest{
		Headers: flattenHeaders(r.Header),
		Body:    body,
	}
	if err := h.Verifier.Verify(r.Context(), req); err != nil {
		h.writeError(w, r, err)
		return
	}

	tree, err := payload.Parse(body)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.Engine.Ingest(r.Context(), payload.Normalize(tree))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response := ingestResponse{OK: true, Action: result.Action}
	if result.Action == core.ActionDuplicateSkipped {
		response.ExistingID = result.RecordID
	} else {
		response.ID = result.RecordID
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	mapped := core.MapError(err)
	status := http.StatusInternalServerError
	message := "An unexpected error occurred"
	code := core.BookingErrorInternal
	if mapped != nil {
		if mapped.Code > 0 {
			status = mapped.Code
		}
		if strings.TrimSpace(mapped.Message) != "" {
			message = mapped.Message
		}
		if strings.TrimSpace(mapped.TextCode) != "" {
			code = mapped.TextCode
		}
	}
	h.logRejection(r, status, message)
	writeJSON(w, status, errorResponse{OK: false, Error: message, Code: code})
}

func (h *Handler) logRejection(r *http.Request, status int, message string) {
	if h == nil || h.Logger == nil {
		return
	}
	logger := h.Logger
	if r != nil {
		logger = logger.WithContext(r.Context())
	}
	logger.Error("webhook delivery rejected",
		"status", status,
		"error", message,
	)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func flattenHeaders(header http.Header) map[string]string {
	out := make(map[string]string, len(header))
	for key, values := range header {
		if len(values) == 0 {
			continue
		}
		out[key] = values[0]
	}
	return out
}
