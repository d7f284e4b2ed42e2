// Package service holds the lead business logic: validation, persistence,
// change tracking, and the bulk import and export flows.
package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"buyer_leads_backend/internal/events"
	"buyer_leads_backend/internal/leads/csvio"
	"buyer_leads_backend/internal/leads/domain"
	"buyer_leads_backend/internal/leads/importer"
	"buyer_leads_backend/internal/leads/repository"
	"buyer_leads_backend/internal/leads/schema"
	"buyer_leads_backend/platform/apperr"
	"buyer_leads_backend/platform/config"
	"buyer_leads_backend/platform/logger"
	"buyer_leads_backend/platform/phone"

	"github.com/google/uuid"
)

// Plausibility band for budgets. Values outside it are stored as-is but
// logged, since they usually mean the caller mixed up units.
const (
	budgetWarnLow  = 50_000
	budgetWarnHigh = 500_000_000
)

const changedByAnonymous = "anonymous"

type Service struct {
	repo     repository.Repository
	bus      events.Bus
	importer *importer.Importer
	limits   csvio.Limits
	log      *logger.Logger
}

func New(repo repository.Repository, bus events.Bus, cfg config.ImportConfig, log *logger.Logger) *Service {
	s := &Service{
		repo: repo,
		bus:  bus,
		limits: csvio.Limits{
			MaxFileBytes: cfg.GetImportMaxFileBytes(),
			MaxRows:      cfg.GetImportMaxRows(),
		},
		log: log,
	}
	s.importer = importer.New(importCreator{s}, cfg.GetImportWorkers(), log)
	return s
}

// Create validates the record and persists a new lead. Validation failures
// carry the full ordered field-error list in the error details.
func (s *Service) Create(ctx context.Context, record schema.Record) (domain.Lead, error) {
	candidate, errs := schema.Validate(record)
	if len(errs) > 0 {
		return domain.Lead{}, apperr.Validation("lead validation failed").WithDetails(errs)
	}
	return s.createFromCandidate(ctx, candidate, "created")
}

func (s *Service) createFromCandidate(ctx context.Context, candidate schema.Candidate, action string) (domain.Lead, error) {
	lead := leadFromCandidate(candidate)
	lead.Phone = phone.NormalizeE164(lead.Phone)
	s.warnImplausibleBudget(lead)

	created, err := s.repo.Create(ctx, lead)
	if err != nil {
		return domain.Lead{}, err
	}

	s.bus.Publish(ctx, events.LeadCreated{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    created.ID,
		LeadName:  created.FullName,
		Action:    action,
		ChangedBy: changedByAnonymous,
	})
	return created, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (domain.Lead, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, params repository.ListParams) ([]domain.Lead, int64, error) {
	return s.repo.List(ctx, params)
}

// Update validates the full replacement record, persists it, and reports
// which fields changed. An update that changes nothing publishes no event.
func (s *Service) Update(ctx context.Context, id uuid.UUID, record schema.Record) (domain.Lead, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Lead{}, err
	}

	candidate, errs := schema.Validate(record)
	if len(errs) > 0 {
		return domain.Lead{}, apperr.Validation("lead validation failed").WithDetails(errs)
	}

	updated := leadFromCandidate(candidate)
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.Phone = phone.NormalizeE164(updated.Phone)
	s.warnImplausibleBudget(updated)

	changes := diffLeads(existing, updated)

	saved, err := s.repo.Update(ctx, updated)
	if err != nil {
		return domain.Lead{}, err
	}

	if len(changes) > 0 {
		s.bus.Publish(ctx, events.LeadUpdated{
			BaseEvent: events.NewBaseEvent(),
			LeadID:    saved.ID,
			Changes:   changes,
			ChangedBy: changedByAnonymous,
		})
	}
	return saved, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.bus.Publish(ctx, events.LeadDeleted{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    existing.ID,
		LeadName:  existing.FullName,
		ChangedBy: changedByAnonymous,
	})
	return nil
}

// Import parses and runs a bulk CSV import. File-level problems reject the
// whole upload; row-level problems are reported in the result.
func (s *Service) Import(ctx context.Context, file io.Reader, filename string) (importer.Result, error) {
	records, fileErr := csvio.Parse(file, filename, s.limits)
	if fileErr != nil {
		return importer.Result{}, apperr.BadRequest(fileErr.Message).WithDetails(fileErr)
	}

	result := s.importer.Run(ctx, records)

	ids := make([]uuid.UUID, len(result.Created))
	for i, lead := range result.Created {
		ids[i] = lead.ID
	}
	s.bus.Publish(ctx, events.LeadsImported{
		BaseEvent:   events.NewBaseEvent(),
		LeadIDs:     ids,
		TotalRows:   result.TotalRows,
		ValidRows:   result.ValidRows,
		InvalidRows: result.InvalidRows,
	})
	return result, nil
}

// Export writes the leads matching the filters as CSV, unpaginated.
func (s *Service) Export(ctx context.Context, w io.Writer, params repository.ListParams) error {
	leads, err := s.repo.ListFiltered(ctx, params)
	if err != nil {
		return err
	}
	return csvio.Export(w, leads)
}

// Template returns the import template file.
func (s *Service) Template() []byte {
	return csvio.Template()
}

// importCreator routes importer rows through the service so imported leads
// get the same normalization and events as API-created ones.
type importCreator struct {
	s *Service
}

func (c importCreator) Create(ctx context.Context, candidate schema.Candidate) (domain.Lead, error) {
	return c.s.createFromCandidate(ctx, candidate, "imported_from_csv")
}

func (s *Service) warnImplausibleBudget(lead domain.Lead) {
	for _, budget := range []int64{lead.BudgetMin, lead.BudgetMax} {
		if budget < budgetWarnLow || budget > budgetWarnHigh {
			s.log.Warn("budget outside plausible range",
				"lead", lead.FullName, "budget", budget)
			return
		}
	}
}

func leadFromCandidate(candidate schema.Candidate) domain.Lead {
	return domain.Lead{
		FullName:  candidate.FullName,
		Email:     candidate.Email,
		Phone:     candidate.Phone,
		City:      candidate.City,
		Intent:    candidate.Intent,
		Purpose:   candidate.Purpose,
		BudgetMin: candidate.BudgetMin,
		BudgetMax: candidate.BudgetMax,
		Timeline:  candidate.Timeline,
		Source:    candidate.Source,
		Status:    candidate.Status,
		Notes:     candidate.Notes,
		Tags:      candidate.Tags,
	}
}

// diffLeads reports changed fields as "old → new" transitions, keyed by
// field name and sorted for stable output.
func diffLeads(before, after domain.Lead) map[string]string {
	changes := make(map[string]string)

	compare := func(field, oldValue, newValue string) {
		if oldValue != newValue {
			changes[field] = fmt.Sprintf("%s → %s", displayValue(oldValue), displayValue(newValue))
		}
	}

	beforeType, beforeBHK := before.Intent.Columns()
	afterType, afterBHK := after.Intent.Columns()

	compare("full_name", before.FullName, after.FullName)
	compare("email", before.Email, after.Email)
	compare("phone", before.Phone, after.Phone)
	compare("city", string(before.City), string(after.City))
	compare("property_type", string(beforeType), string(afterType))
	compare("bhk", bhkString(beforeBHK), bhkString(afterBHK))
	compare("purpose", string(before.Purpose), string(after.Purpose))
	compare("budget_min", strconv.FormatInt(before.BudgetMin, 10), strconv.FormatInt(after.BudgetMin, 10))
	compare("budget_max", strconv.FormatInt(before.BudgetMax, 10), strconv.FormatInt(after.BudgetMax, 10))
	compare("timeline", string(before.Timeline), string(after.Timeline))
	compare("source", string(before.Source), string(after.Source))
	compare("status", string(before.Status), string(after.Status))
	compare("notes", before.Notes, after.Notes)
	compare("tags", strings.Join(sortedCopy(before.Tags), ","), strings.Join(sortedCopy(after.Tags), ","))

	if len(changes) == 0 {
		return nil
	}
	return changes
}

func bhkString(bhk *domain.BHK) string {
	if bhk == nil {
		return ""
	}
	return string(*bhk)
}

func displayValue(value string) string {
	if value == "" {
		return "(empty)"
	}
	return value
}

func sortedCopy(values []string) []string {
	out := make([]string, len(values))
	copy(out, values)
	sort.Strings(out)
	return out
}
