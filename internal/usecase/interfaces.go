package usecase

import (
	"context"

	"github.com/caioav/lead-relay/internal/infra/queue"
)

type EmailService interface {
	SendConfirmation(ctx context.Context, to, subject, body string) error
}

type SMSService interface {
	SendMessage(ctx context.Context, from, to, body string) error
}

type AuditProducerInterface interface {
	PublishDispatched(ctx context.Context, event queue.DispatchedEvent) error
}
