package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/caioav/lead-relay/internal/infra/http/middleware"
	"github.com/caioav/lead-relay/internal/usecase"
)

type BookingConfirmer interface {
	Execute(ctx context.Context, input usecase.ConfirmBookingInput) (*usecase.ConfirmBookingOutput, error)
}

type WebhookHandler struct {
	ConfirmBooking BookingConfirmer
}

func NewWebhookHandler(confirmBooking BookingConfirmer) *WebhookHandler {
	return &WebhookHandler{ConfirmBooking: confirmBooking}
}

// Handle receives Calendly webhooks. Only invitee.created triggers a
// dispatch; every other event type is acknowledged and dropped.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var event struct {
		Event   string `json:"event"`
		Payload struct {
			Invitee struct {
				Email string `json:"email"`
			} `json:"invitee"`
		} `json:"payload"`
	}

	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	log.Printf("Received Calendly webhook: %s", event.Event)

	output, err := h.ConfirmBooking.Execute(r.Context(), usecase.ConfirmBookingInput{
		Event:        event.Event,
		InviteeEmail: event.Payload.Invitee.Email,
	})
	if err != nil {
		var domainErr *usecase.DomainError
		if errors.As(err, &domainErr) && domainErr.Code == usecase.CodeLeadNotFound {
			middleware.RecordBookingMiss()
			writeError(w, http.StatusNotFound, domainErr.Message)
			return
		}

		log.Printf("❌ Webhook error: %v", err)
		middleware.RecordIntegrationError(serviceFor(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if output.Dispatched {
		middleware.RecordBookingCorrelated()
		for _, channel := range output.Channels {
			middleware.RecordNotificationSent(channel)
		}
	}

	writeSuccess(w)
}

func serviceFor(err error) string {
	var techErr *usecase.TechnicalError
	if !errors.As(err, &techErr) {
		return "unknown"
	}

	switch techErr.Code {
	case usecase.CodeEmailFailed:
		return "email"
	case usecase.CodeSMSFailed:
		return "twilio"
	default:
		return "lead_store"
	}
}
