package entity

import (
	"context"
	"errors"
	"time"
)

var ErrLeadNotFound = errors.New("lead not found")

type Lead struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Business  string    `json:"business,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// LeadRepositoryInterface keeps at most one lead per email.
// Save overwrites any previous entry for the same email.
// Delete of a missing email is a no-op.
type LeadRepositoryInterface interface {
	Save(ctx context.Context, lead *Lead) error
	FindByEmail(ctx context.Context, email string) (*Lead, error)
	Delete(ctx context.Context, email string) error
}
