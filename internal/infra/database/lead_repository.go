package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/caioav/lead-relay/internal/entity"
)

// LeadRepository is the persistent variant of the lead store, used when
// DATABASE_URL is set. A re-submission for the same email replaces the
// previous row wholesale, no field merging.
type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

func (r *LeadRepository) Save(ctx context.Context, lead *entity.Lead) error {
	if lead.ID == "" {
		lead.ID = uuid.NewString()
	}

	query := `
		INSERT INTO leads (id, email, name, phone, business, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (email)
		DO UPDATE SET
			name = EXCLUDED.name,
			phone = EXCLUDED.phone,
			business = EXCLUDED.business,
			created_at = NOW()
		RETURNING id, created_at
	`

	return r.DB.QueryRowContext(
		ctx,
		query,
		lead.ID,
		lead.Email,
		nullString(lead.Name),
		nullString(lead.Phone),
		nullString(lead.Business),
	).Scan(&lead.ID, &lead.CreatedAt)
}

func (r *LeadRepository) FindByEmail(ctx context.Context, email string) (*entity.Lead, error) {
	query := `
		SELECT id, name, COALESCE(phone, ''), COALESCE(business, ''), created_at
		FROM leads
		WHERE email = $1
	`

	lead := &entity.Lead{Email: email}
	err := r.DB.QueryRowContext(ctx, query, email).Scan(
		&lead.ID,
		&lead.Name,
		&lead.Phone,
		&lead.Business,
		&lead.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrLeadNotFound
	}
	if err != nil {
		return nil, err
	}

	return lead, nil
}

func (r *LeadRepository) Delete(ctx context.Context, email string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM leads WHERE email = $1`, email)
	return err
}

// DeleteExpired removes leads that never matched a booking. Keeps the table
// from growing without bound, which the in-memory store cannot avoid.
func (r *LeadRepository) DeleteExpired(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)

	result, err := r.DB.ExecContext(ctx, `DELETE FROM leads WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
