// Package transport defines the HTTP request and response shapes for the
// leads module.
package transport

import (
	"strconv"
	"strings"
	"time"

	"buyer_leads_backend/internal/leads/domain"
	"buyer_leads_backend/internal/leads/importer"
	"buyer_leads_backend/internal/leads/schema"

	"github.com/google/uuid"
)

// LeadPayload is the create/update request body. Field presence matters for
// validation, so optional and numeric fields are pointers; the real rules run
// in the validation engine, not here.
type LeadPayload struct {
	FullName     string   `json:"full_name"`
	Email        string   `json:"email"`
	Phone        string   `json:"phone"`
	City         string   `json:"city"`
	PropertyType string   `json:"property_type"`
	BHK          string   `json:"bhk"`
	Purpose      string   `json:"purpose"`
	BudgetMin    *float64 `json:"budget_min"`
	BudgetMax    *float64 `json:"budget_max"`
	Timeline     string   `json:"timeline"`
	Source       string   `json:"source"`
	Status       string   `json:"status"`
	Notes        string   `json:"notes"`
	Tags         []string `json:"tags"`
}

// Record flattens the payload into the validation engine's raw form.
func (p LeadPayload) Record() schema.Record {
	record := schema.Record{
		"full_name":     p.FullName,
		"email":         p.Email,
		"phone":         p.Phone,
		"city":          p.City,
		"property_type": p.PropertyType,
		"bhk":           p.BHK,
		"purpose":       p.Purpose,
		"timeline":      p.Timeline,
		"source":        p.Source,
		"status":        p.Status,
		"notes":         p.Notes,
		"tags":          strings.Join(p.Tags, ","),
	}
	if p.BudgetMin != nil {
		record["budget_min"] = strconv.FormatFloat(*p.BudgetMin, 'f', -1, 64)
	}
	if p.BudgetMax != nil {
		record["budget_max"] = strconv.FormatFloat(*p.BudgetMax, 'f', -1, 64)
	}
	return record
}

// ListLeadsQuery carries the list endpoint's filters.
type ListLeadsQuery struct {
	Search       string `form:"search"`
	City         string `form:"city" validate:"omitempty,oneof=mumbai delhi bangalore pune hyderabad"`
	PropertyType string `form:"property_type" validate:"omitempty,oneof=apartment villa plot commercial"`
	Status       string `form:"status" validate:"omitempty,oneof=new contacted qualified converted lost"`
	Timeline     string `form:"timeline" validate:"omitempty,oneof=immediate 1month 3months 6months 1year"`
	Ordering     string `form:"ordering" validate:"omitempty,oneof=created_at -created_at updated_at -updated_at full_name -full_name budget_min -budget_min budget_max -budget_max"`
	Page         int    `form:"page" validate:"omitempty,min=1"`
	PageSize     int    `form:"page_size" validate:"omitempty,min=1,max=100"`
}

// LeadResponse is the API view of a lead. Display fields carry the human
// names of the enum codes.
type LeadResponse struct {
	ID                  uuid.UUID `json:"id"`
	FullName            string    `json:"full_name"`
	Email               string    `json:"email"`
	Phone               string    `json:"phone"`
	City                string    `json:"city"`
	CityDisplay         string    `json:"city_display"`
	PropertyType        string    `json:"property_type"`
	PropertyTypeDisplay string    `json:"property_type_display"`
	BHK                 *string   `json:"bhk"`
	BHKDisplay          *string   `json:"bhk_display"`
	Purpose             string    `json:"purpose"`
	BudgetMin           int64     `json:"budget_min"`
	BudgetMax           int64     `json:"budget_max"`
	Timeline            string    `json:"timeline"`
	TimelineDisplay     string    `json:"timeline_display"`
	Source              string    `json:"source"`
	SourceDisplay       string    `json:"source_display"`
	Status              string    `json:"status"`
	StatusDisplay       string    `json:"status_display"`
	Notes               string    `json:"notes"`
	Tags                []string  `json:"tags"`
	CreatedAt           string    `json:"created_at"`
	UpdatedAt           string    `json:"updated_at"`
}

// NewLeadResponse maps a stored lead to its API shape.
func NewLeadResponse(lead domain.Lead) LeadResponse {
	propertyType, bhk := lead.Intent.Columns()

	resp := LeadResponse{
		ID:                  lead.ID,
		FullName:            lead.FullName,
		Email:               lead.Email,
		Phone:               lead.Phone,
		City:                string(lead.City),
		CityDisplay:         lead.City.DisplayName(),
		PropertyType:        string(propertyType),
		PropertyTypeDisplay: propertyType.DisplayName(),
		Purpose:             string(lead.Purpose),
		BudgetMin:           lead.BudgetMin,
		BudgetMax:           lead.BudgetMax,
		Timeline:            string(lead.Timeline),
		TimelineDisplay:     lead.Timeline.DisplayName(),
		Source:              string(lead.Source),
		SourceDisplay:       lead.Source.DisplayName(),
		Status:              string(lead.Status),
		StatusDisplay:       lead.Status.DisplayName(),
		Notes:               lead.Notes,
		Tags:                lead.Tags,
		CreatedAt:           lead.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:           lead.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	if bhk != nil {
		code := string(*bhk)
		display := bhk.DisplayName()
		resp.BHK = &code
		resp.BHKDisplay = &display
	}
	return resp
}

// NewLeadResponses maps a list of leads, never returning null.
func NewLeadResponses(leads []domain.Lead) []LeadResponse {
	out := make([]LeadResponse, len(leads))
	for i, lead := range leads {
		out[i] = NewLeadResponse(lead)
	}
	return out
}

// ListLeadsResponse pages the lead list.
type ListLeadsResponse struct {
	Count    int64          `json:"count"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
	Results  []LeadResponse `json:"results"`
}

// ImportResponse summarizes one CSV import run.
type ImportResponse struct {
	TotalRows      int                 `json:"total_rows"`
	ValidRows      int                 `json:"valid_rows"`
	InvalidRows    int                 `json:"invalid_rows"`
	Errors         []importer.RowError `json:"errors"`
	CreatedLeadIDs []uuid.UUID         `json:"created_lead_ids"`
}

// NewImportResponse maps an import result to its API shape.
func NewImportResponse(result importer.Result) ImportResponse {
	resp := ImportResponse{
		TotalRows:      result.TotalRows,
		ValidRows:      result.ValidRows,
		InvalidRows:    result.InvalidRows,
		Errors:         result.Errors,
		CreatedLeadIDs: make([]uuid.UUID, len(result.Created)),
	}
	for i, lead := range result.Created {
		resp.CreatedLeadIDs[i] = lead.ID
	}
	if resp.Errors == nil {
		resp.Errors = []importer.RowError{}
	}
	return resp
}
