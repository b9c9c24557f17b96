package usecase

import (
	"context"
	"log"
	"strings"

	"github.com/caioav/lead-relay/internal/entity"
)

type StoreLeadUseCase struct {
	Leads entity.LeadRepositoryInterface
}

func NewStoreLeadUseCase(leads entity.LeadRepositoryInterface) *StoreLeadUseCase {
	return &StoreLeadUseCase{Leads: leads}
}

// Execute validates and stores a captured lead, keyed by email. Phone and
// business are optional and never validated. Re-submitting an email
// overwrites the earlier lead without merging.
func (uc *StoreLeadUseCase) Execute(ctx context.Context, input StoreLeadInput) error {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Email) == "" {
		return &DomainError{Code: CodeMissingFields, Message: "Missing required fields"}
	}

	lead := &entity.Lead{
		Email:    input.Email,
		Name:     input.Name,
		Phone:    input.Phone,
		Business: input.Business,
	}

	if err := uc.Leads.Save(ctx, lead); err != nil {
		return &TechnicalError{Code: CodeStoreFailed, Message: "failed to store lead", Err: err}
	}

	log.Printf("Stored lead: %s", input.Email)
	return nil
}
