package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/caioav/lead-relay/internal/entity"
)

// MemoryLeadStore is the default lead store: a guarded map keyed by email,
// alive for the lifetime of the process. Leads never matched to a booking
// stay here until restart (or use the Postgres store, which sweeps them).
type MemoryLeadStore struct {
	mu    sync.Mutex
	leads map[string]*entity.Lead
}

func NewMemoryLeadStore() *MemoryLeadStore {
	return &MemoryLeadStore{
		leads: make(map[string]*entity.Lead),
	}
}

func (s *MemoryLeadStore) Save(ctx context.Context, lead *entity.Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if lead.ID == "" {
		lead.ID = uuid.NewString()
	}
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = time.Now()
	}

	stored := *lead
	s.leads[lead.Email] = &stored
	return nil
}

func (s *MemoryLeadStore) FindByEmail(ctx context.Context, email string) (*entity.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lead, ok := s.leads[email]
	if !ok {
		return nil, entity.ErrLeadNotFound
	}

	found := *lead
	return &found, nil
}

func (s *MemoryLeadStore) Delete(ctx context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.leads, email)
	return nil
}

// Len reports how many leads are currently waiting for a booking.
func (s *MemoryLeadStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.leads)
}
