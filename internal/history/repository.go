package history

import (
	"context"
	"time"

	"buyer_leads_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository stores history entries.
type Repository interface {
	Append(ctx context.Context, entry Entry) error
	Recent(ctx context.Context, leadID uuid.UUID, limit int) ([]Entry, error)
	DeleteForLead(ctx context.Context, leadID uuid.UUID) error
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a Postgres-backed history repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Append(ctx context.Context, entry Entry) error {
	const op = "history.Append"

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO lead_history (id, lead_id, action, changes, changed_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		entry.ID, entry.LeadID, entry.Action, entry.Changes, entry.ChangedBy, entry.CreatedAt,
	)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "could not record history", err).WithOp(op)
	}
	return nil
}

func (r *postgresRepository) Recent(ctx context.Context, leadID uuid.UUID, limit int) ([]Entry, error) {
	const op = "history.Recent"

	rows, err := r.pool.Query(ctx, `
		SELECT id, lead_id, action, changes, changed_by, created_at
		FROM lead_history
		WHERE lead_id = $1
		ORDER BY created_at DESC
		LIMIT $2`,
		leadID, limit,
	)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "could not load history", err).WithOp(op)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		if err := rows.Scan(&entry.ID, &entry.LeadID, &entry.Action, &entry.Changes,
			&entry.ChangedBy, &entry.CreatedAt); err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "could not load history", err).WithOp(op)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "could not load history", err).WithOp(op)
	}
	return entries, nil
}

func (r *postgresRepository) DeleteForLead(ctx context.Context, leadID uuid.UUID) error {
	const op = "history.DeleteForLead"

	if _, err := r.pool.Exec(ctx, `DELETE FROM lead_history WHERE lead_id = $1`, leadID); err != nil {
		return apperr.Wrap(apperr.KindInternal, "could not delete history", err).WithOp(op)
	}
	return nil
}
