package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/caioav/lead-relay/internal/entity"
	"github.com/caioav/lead-relay/internal/infra/queue"
)

// EventInviteeCreated is the only Calendly event type that triggers a
// dispatch; everything else is acknowledged and dropped.
const EventInviteeCreated = "invitee.created"

const confirmationSubject = "AI Agent Demo Booking Confirmation"

type ConfirmBookingUseCase struct {
	Leads        entity.LeadRepositoryInterface
	EmailService EmailService
	SMSService   SMSService
	Audit        AuditProducerInterface // optional, may be nil
	FromPhone    string
	FromWhatsApp string
}

func NewConfirmBookingUseCase(
	leads entity.LeadRepositoryInterface,
	emailService EmailService,
	smsService SMSService,
	audit AuditProducerInterface,
	fromPhone, fromWhatsApp string,
) *ConfirmBookingUseCase {
	return &ConfirmBookingUseCase{
		Leads:        leads,
		EmailService: emailService,
		SMSService:   smsService,
		Audit:        audit,
		FromPhone:    fromPhone,
		FromWhatsApp: fromWhatsApp,
	}
}

// Execute correlates a booking event with a stored lead and dispatches the
// confirmation. The lead is removed only after every send succeeded, so a
// redelivered webhook can retry a failed dispatch.
func (uc *ConfirmBookingUseCase) Execute(ctx context.Context, input ConfirmBookingInput) (*ConfirmBookingOutput, error) {
	if input.Event != EventInviteeCreated {
		return &ConfirmBookingOutput{Dispatched: false}, nil
	}

	lead, err := uc.Leads.FindByEmail(ctx, input.InviteeEmail)
	if err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			log.Printf("⚠️ No matching lead found for email: %s", input.InviteeEmail)
			return nil, &DomainError{Code: CodeLeadNotFound, Message: "Lead not found"}
		}
		return nil, &TechnicalError{Code: CodeStoreFailed, Message: "failed to look up lead", Err: err}
	}

	message := fmt.Sprintf("Hi %s, thanks for booking your AI Agent demo! We'll see you soon.", lead.Name)

	if err := uc.EmailService.SendConfirmation(ctx, input.InviteeEmail, confirmationSubject, message); err != nil {
		return nil, &TechnicalError{Code: CodeEmailFailed, Message: err.Error(), Err: err}
	}
	channels := []string{"email"}

	if lead.Phone != "" {
		if err := uc.SMSService.SendMessage(ctx, uc.FromPhone, lead.Phone, message); err != nil {
			return nil, &TechnicalError{Code: CodeSMSFailed, Message: err.Error(), Err: err}
		}
		channels = append(channels, "sms")

		if err := uc.SMSService.SendMessage(ctx, uc.FromWhatsApp, "whatsapp:"+lead.Phone, message); err != nil {
			return nil, &TechnicalError{Code: CodeSMSFailed, Message: err.Error(), Err: err}
		}
		channels = append(channels, "whatsapp")
	}

	if err := uc.Leads.Delete(ctx, input.InviteeEmail); err != nil {
		log.Printf("⚠️ Failed to remove lead %s after dispatch: %v", input.InviteeEmail, err)
	}

	if uc.Audit != nil {
		event := queue.DispatchedEvent{
			ID:           uuid.NewString(),
			Email:        input.InviteeEmail,
			Name:         lead.Name,
			Channels:     channels,
			DispatchedAt: time.Now(),
		}
		if err := uc.Audit.PublishDispatched(ctx, event); err != nil {
			log.Printf("⚠️ Audit publish failed for %s: %v", input.InviteeEmail, err)
		}
	}

	log.Printf("🚀 Booking confirmation sent to %s via %v", input.InviteeEmail, channels)
	return &ConfirmBookingOutput{Dispatched: true, Channels: channels}, nil
}
