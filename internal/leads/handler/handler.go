// Package handler exposes the leads module over HTTP.
package handler

import (
	"net/http"

	"buyer_leads_backend/internal/leads/domain"
	"buyer_leads_backend/internal/leads/repository"
	"buyer_leads_backend/internal/leads/service"
	"buyer_leads_backend/internal/leads/transport"
	"buyer_leads_backend/platform/httpkit"
	"buyer_leads_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest = "invalid request"
	msgInvalidLeadID  = "invalid lead id"
)

// Handler handles HTTP requests for leads.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new leads handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// CreateLead handles POST /leads.
func (h *Handler) CreateLead(c *gin.Context) {
	var payload transport.LeadPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	lead, err := h.svc.Create(c.Request.Context(), payload.Record())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, transport.NewLeadResponse(lead))
}

// GetLead handles GET /leads/:id.
func (h *Handler) GetLead(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}
	lead, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.NewLeadResponse(lead))
}

// ListLeads handles GET /leads.
func (h *Handler) ListLeads(c *gin.Context) {
	var query transport.ListLeadsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(query); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	leads, total, err := h.svc.List(c.Request.Context(), listParams(query))
	if httpkit.HandleError(c, err) {
		return
	}

	page := query.Page
	if page < 1 {
		page = 1
	}
	pageSize := query.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	httpkit.OK(c, transport.ListLeadsResponse{
		Count:    total,
		Page:     page,
		PageSize: pageSize,
		Results:  transport.NewLeadResponses(leads),
	})
}

// UpdateLead handles PUT /leads/:id.
func (h *Handler) UpdateLead(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}
	var payload transport.LeadPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	lead, err := h.svc.Update(c.Request.Context(), id, payload.Record())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.NewLeadResponse(lead))
}

// DeleteLead handles DELETE /leads/:id.
func (h *Handler) DeleteLead(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}
	if httpkit.HandleError(c, h.svc.Delete(c.Request.Context(), id)) {
		return
	}
	c.Status(http.StatusNoContent)
}

// ImportLeads handles POST /leads/import with a multipart "file" part.
func (h *Handler) ImportLeads(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "file is required", nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "could not read file", nil)
		return
	}
	defer file.Close()

	result, err := h.svc.Import(c.Request.Context(), file, fileHeader.Filename)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.NewImportResponse(result))
}

// ExportLeads handles GET /leads/export as a CSV download. It honors the same
// filters as the list endpoint, so a filtered view exports what it shows.
func (h *Handler) ExportLeads(c *gin.Context) {
	var query transport.ListLeadsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(query); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="leads_export.csv"`)
	if err := h.svc.Export(c.Request.Context(), c.Writer, listParams(query)); err != nil {
		// Headers may already be out; nothing more useful to send.
		_ = c.Error(err)
	}
}

// DownloadTemplate handles GET /leads/template.
func (h *Handler) DownloadTemplate(c *gin.Context) {
	c.Header("Content-Disposition", `attachment; filename="leads_import_template.csv"`)
	c.Data(http.StatusOK, "text/csv", h.svc.Template())
}

func listParams(query transport.ListLeadsQuery) repository.ListParams {
	params := repository.ListParams{
		Search:   query.Search,
		Ordering: query.Ordering,
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	if query.City != "" {
		city := domain.City(query.City)
		params.City = &city
	}
	if query.PropertyType != "" {
		propertyType := domain.PropertyType(query.PropertyType)
		params.PropertyType = &propertyType
	}
	if query.Status != "" {
		status := domain.Status(query.Status)
		params.Status = &status
	}
	if query.Timeline != "" {
		timeline := domain.Timeline(query.Timeline)
		params.Timeline = &timeline
	}
	return params
}

func leadID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidLeadID, nil)
		return uuid.Nil, false
	}
	return id, true
}
