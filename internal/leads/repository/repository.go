// Package repository persists leads in Postgres.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"buyer_leads_backend/internal/leads/domain"
	"buyer_leads_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ListParams filters and pages the lead list. Zero values mean "no filter".
type ListParams struct {
	Search       string
	City         *domain.City
	PropertyType *domain.PropertyType
	Status       *domain.Status
	Timeline     *domain.Timeline
	Ordering     string
	Page         int
	PageSize     int
}

// Repository is the lead store. Reports and the history module read leads
// through narrower interfaces satisfied by this one.
type Repository interface {
	Create(ctx context.Context, lead domain.Lead) (domain.Lead, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error)
	Update(ctx context.Context, lead domain.Lead) (domain.Lead, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params ListParams) ([]domain.Lead, int64, error)
	ListFiltered(ctx context.Context, params ListParams) ([]domain.Lead, error)
	ListAll(ctx context.Context) ([]domain.Lead, error)
	ListCreatedBetween(ctx context.Context, from, to time.Time) ([]domain.Lead, error)
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

// New creates a Postgres-backed lead repository.
func New(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

const leadColumns = `id, full_name, email, phone, city, property_type, bhk, purpose,
	budget_min, budget_max, timeline, source, status, notes, tags, created_at, updated_at`

// Ordering values the list endpoint accepts; a leading "-" flips direction.
var orderableColumns = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"full_name":  "full_name",
	"budget_min": "budget_min",
	"budget_max": "budget_max",
}

const defaultOrdering = "-updated_at"

func (r *postgresRepository) Create(ctx context.Context, lead domain.Lead) (domain.Lead, error) {
	const op = "repository.Create"

	lead.ID = uuid.New()
	now := time.Now().UTC()
	lead.CreatedAt = now
	lead.UpdatedAt = now

	propertyType, bhk := lead.Intent.Columns()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO leads (id, full_name, email, phone, city, property_type, bhk, purpose,
			budget_min, budget_max, timeline, source, status, notes, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		lead.ID, lead.FullName, lead.Email, lead.Phone, lead.City, propertyType, bhkValue(bhk),
		lead.Purpose, lead.BudgetMin, lead.BudgetMax, lead.Timeline, lead.Source, lead.Status,
		lead.Notes, lead.Tags, lead.CreatedAt, lead.UpdatedAt,
	)
	if err != nil {
		return domain.Lead{}, apperr.Wrap(apperr.KindInternal, "could not save lead", err).WithOp(op)
	}
	return lead, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error) {
	const op = "repository.GetByID"

	row := r.pool.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)
	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, apperr.NotFound("lead not found").WithOp(op)
	}
	if err != nil {
		return domain.Lead{}, apperr.Wrap(apperr.KindInternal, "could not load lead", err).WithOp(op)
	}
	return lead, nil
}

func (r *postgresRepository) Update(ctx context.Context, lead domain.Lead) (domain.Lead, error) {
	const op = "repository.Update"

	lead.UpdatedAt = time.Now().UTC()
	propertyType, bhk := lead.Intent.Columns()
	tag, err := r.pool.Exec(ctx, `
		UPDATE leads
		SET full_name = $2, email = $3, phone = $4, city = $5, property_type = $6, bhk = $7,
			purpose = $8, budget_min = $9, budget_max = $10, timeline = $11, source = $12,
			status = $13, notes = $14, tags = $15, updated_at = $16
		WHERE id = $1`,
		lead.ID, lead.FullName, lead.Email, lead.Phone, lead.City, propertyType, bhkValue(bhk),
		lead.Purpose, lead.BudgetMin, lead.BudgetMax, lead.Timeline, lead.Source, lead.Status,
		lead.Notes, lead.Tags, lead.UpdatedAt,
	)
	if err != nil {
		return domain.Lead{}, apperr.Wrap(apperr.KindInternal, "could not update lead", err).WithOp(op)
	}
	if tag.RowsAffected() == 0 {
		return domain.Lead{}, apperr.NotFound("lead not found").WithOp(op)
	}
	return lead, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "repository.Delete"

	tag, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "could not delete lead", err).WithOp(op)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("lead not found").WithOp(op)
	}
	return nil
}

func (r *postgresRepository) List(ctx context.Context, params ListParams) ([]domain.Lead, int64, error) {
	const op = "repository.List"

	where, args := buildFilters(params)

	var total int64
	countQuery := `SELECT COUNT(*) FROM leads` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, apperr.Wrap(apperr.KindInternal, "could not count leads", err).WithOp(op)
	}

	page := params.Page
	if page < 1 {
		page = 1
	}
	pageSize := params.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	query := fmt.Sprintf(`SELECT %s FROM leads%s ORDER BY %s LIMIT $%d OFFSET $%d`,
		leadColumns, where, orderClause(params.Ordering), len(args)+1, len(args)+2)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.KindInternal, "could not list leads", err).WithOp(op)
	}
	defer rows.Close()

	leads, err := collectLeads(rows)
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.KindInternal, "could not list leads", err).WithOp(op)
	}
	return leads, total, nil
}

// ListFiltered applies the list filters and ordering without pagination.
// The export endpoint uses it so a filtered view exports exactly what it shows.
func (r *postgresRepository) ListFiltered(ctx context.Context, params ListParams) ([]domain.Lead, error) {
	const op = "repository.ListFiltered"

	where, args := buildFilters(params)
	query := fmt.Sprintf(`SELECT %s FROM leads%s ORDER BY %s`,
		leadColumns, where, orderClause(params.Ordering))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "could not list leads", err).WithOp(op)
	}
	defer rows.Close()

	leads, err := collectLeads(rows)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "could not list leads", err).WithOp(op)
	}
	return leads, nil
}

func (r *postgresRepository) ListAll(ctx context.Context) ([]domain.Lead, error) {
	const op = "repository.ListAll"

	rows, err := r.pool.Query(ctx, `SELECT `+leadColumns+` FROM leads ORDER BY created_at`)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "could not list leads", err).WithOp(op)
	}
	defer rows.Close()

	leads, err := collectLeads(rows)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "could not list leads", err).WithOp(op)
	}
	return leads, nil
}

func (r *postgresRepository) ListCreatedBetween(ctx context.Context, from, to time.Time) ([]domain.Lead, error) {
	const op = "repository.ListCreatedBetween"

	rows, err := r.pool.Query(ctx,
		`SELECT `+leadColumns+` FROM leads WHERE created_at >= $1 AND created_at < $2 ORDER BY created_at`,
		from, to,
	)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "could not list leads", err).WithOp(op)
	}
	defer rows.Close()

	leads, err := collectLeads(rows)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "could not list leads", err).WithOp(op)
	}
	return leads, nil
}

func buildFilters(params ListParams) (string, []any) {
	var clauses []string
	var args []any

	add := func(clause string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if search := strings.TrimSpace(params.Search); search != "" {
		args = append(args, "%"+search+"%")
		n := len(args)
		clauses = append(clauses, fmt.Sprintf(
			"(full_name ILIKE $%d OR email ILIKE $%d OR phone ILIKE $%d)", n, n, n))
	}
	if params.City != nil {
		add("city = $%d", *params.City)
	}
	if params.PropertyType != nil {
		add("property_type = $%d", *params.PropertyType)
	}
	if params.Status != nil {
		add("status = $%d", *params.Status)
	}
	if params.Timeline != nil {
		add("timeline = $%d", *params.Timeline)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func orderClause(ordering string) string {
	if ordering == "" {
		ordering = defaultOrdering
	}
	direction := "ASC"
	if strings.HasPrefix(ordering, "-") {
		direction = "DESC"
		ordering = ordering[1:]
	}
	column, ok := orderableColumns[ordering]
	if !ok {
		return "updated_at DESC"
	}
	return column + " " + direction
}

func bhkValue(bhk *domain.BHK) *string {
	if bhk == nil {
		return nil
	}
	value := string(*bhk)
	return &value
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (domain.Lead, error) {
	var (
		lead         domain.Lead
		propertyType domain.PropertyType
		bhk          *string
	)
	err := row.Scan(
		&lead.ID, &lead.FullName, &lead.Email, &lead.Phone, &lead.City, &propertyType, &bhk,
		&lead.Purpose, &lead.BudgetMin, &lead.BudgetMax, &lead.Timeline, &lead.Source,
		&lead.Status, &lead.Notes, &lead.Tags, &lead.CreatedAt, &lead.UpdatedAt,
	)
	if err != nil {
		return domain.Lead{}, err
	}

	var bhkTyped *domain.BHK
	if bhk != nil {
		typed := domain.BHK(*bhk)
		bhkTyped = &typed
	}
	intent, err := domain.IntentFromColumns(propertyType, bhkTyped)
	if err != nil {
		return domain.Lead{}, fmt.Errorf("lead %s: %w", lead.ID, err)
	}
	lead.Intent = intent
	return lead, nil
}

func collectLeads(rows pgx.Rows) ([]domain.Lead, error) {
	var leads []domain.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}
