package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/caioav/lead-relay/internal/infra/http/middleware"
	"github.com/caioav/lead-relay/internal/usecase"
)

type LeadHandler struct {
	StoreLead *usecase.StoreLeadUseCase
}

func NewLeadHandler(uc *usecase.StoreLeadUseCase) *LeadHandler {
	return &LeadHandler{StoreLead: uc}
}

// Handle accepts a lead-capture submission and holds it until the matching
// booking webhook arrives.
func (h *LeadHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var input usecase.StoreLeadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	if err := h.StoreLead.Execute(r.Context(), input); err != nil {
		var domainErr *usecase.DomainError
		if errors.As(err, &domainErr) {
			writeError(w, http.StatusBadRequest, domainErr.Message)
			return
		}

		middleware.RecordIntegrationError("lead_store")
		writeError(w, http.StatusInternalServerError, "Failed to store lead")
		return
	}

	middleware.RecordLeadStored()
	writeSuccess(w)
}
