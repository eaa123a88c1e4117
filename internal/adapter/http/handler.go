package httpadapter

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"market-ads/internal/core/port"
)

// Handler contains dependencies and routes. It is an inbound adapter for
// HTTP. It holds the campaign usecase to execute business logic, a validator
// for request DTOs and a logger for structured logging.
type Handler struct {
	svc      port.CampaignUseCase
	validate *validator.Validate
	logger   *slog.Logger
	router   chi.Router
}

// NewHandler creates a handler with all routes configured. Auth middleware
// is out of scope: owner and admin identities arrive as opaque headers set
// by the gateway in front of this service.
func NewHandler(svc port.CampaignUseCase, logger *slog.Logger) *Handler {
	h := &Handler{
		svc:      svc,
		validate: validator.New(),
		logger:   logger,
	}
	r := chi.NewRouter()

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/ads/quote", h.handleQuote)
		r.Get("/ads/slots", h.handleAvailableSlots)

		r.Post("/campaigns", h.handleCreate)
		r.Get("/campaigns/{id}", h.handleGet)
		r.Post("/campaigns/{id}/payment", h.handlePaymentCompleted)
		r.Post("/campaigns/{id}/approve", h.handleApprove)
		r.Post("/campaigns/{id}/reject", h.handleReject)
		r.Post("/campaigns/{id}/cancel", h.handleCancel)
		r.Post("/campaigns/{id}/renew", h.handleRenew)
		r.Patch("/campaigns/{id}/auto-renew", h.handleSetAutoRenew)
		r.Patch("/campaigns/{id}/content", h.handleUpdateContent)

		r.Post("/campaigns/{id}/view", h.handleRecordView)
		r.Post("/campaigns/{id}/click", h.handleRecordClick)
	})
	h.router = r
	return h
}

// Router returns the underlying http.Handler.
func (h *Handler) Router() http.Handler {
	return h.router
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encode response error", slog.Any("error", err))
	}
}

// writeError maps engine errors onto HTTP statuses. Validation failures are
// 400, ownership mismatches 403, missing campaigns 404, state and slot
// conflicts 409, everything unknown 500.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, port.ErrCampaignNotFound):
		status = http.StatusNotFound
	case errors.Is(err, port.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, port.ErrInvalidTransition),
		errors.Is(err, port.ErrSlotUnavailable):
		status = http.StatusConflict
	case errors.Is(err, port.ErrInvalidAdType),
		errors.Is(err, port.ErrInvalidDuration),
		errors.Is(err, port.ErrNotSlotBased),
		errors.Is(err, port.ErrSlotRequired),
		errors.Is(err, port.ErrMediaRequired),
		errors.Is(err, port.ErrLinkTargetInvalid),
		errors.Is(err, port.ErrPaymentNotCompleted):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		h.logger.Error("internal error", slog.Any("error", err))
		http.Error(w, "internal error", status)
		return
	}
	h.writeJSON(w, status, map[string]string{"error": err.Error()})
}

// ownerID extracts the authenticated owner identity from the gateway header.
func ownerID(r *http.Request) string {
	return r.Header.Get("X-Owner-ID")
}

// adminID extracts the authenticated admin identity from the gateway header.
func adminID(r *http.Request) string {
	return r.Header.Get("X-Admin-ID")
}
