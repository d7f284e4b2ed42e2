// Package handler exposes the analytics reports over HTTP.
package handler

import (
	"net/http"

	"buyer_leads_backend/internal/analytics/service"
	"buyer_leads_backend/platform/httpkit"
	"buyer_leads_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// daysQuery bounds the range reports' lookback window.
type daysQuery struct {
	Days int `form:"days" validate:"omitempty,min=1,max=365"`
}

// Handler handles HTTP requests for analytics.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new analytics handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Dashboard handles GET /analytics/dashboard.
func (h *Handler) Dashboard(c *gin.Context) {
	stats, err := h.svc.Dashboard(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, stats)
}

// Range handles GET /analytics?days=N.
func (h *Handler) Range(c *gin.Context) {
	days, ok := h.days(c)
	if !ok {
		return
	}
	report, err := h.svc.Range(c.Request.Context(), days)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, report)
}

// Trends handles GET /analytics/trends.
func (h *Handler) Trends(c *gin.Context) {
	report, err := h.svc.Trends(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, report)
}

// Conversion handles GET /analytics/conversion?days=N.
func (h *Handler) Conversion(c *gin.Context) {
	days, ok := h.days(c)
	if !ok {
		return
	}
	report, err := h.svc.Conversion(c.Request.Context(), days)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, report)
}

func (h *Handler) days(c *gin.Context) (int, bool) {
	var query daysQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return 0, false
	}
	if err := h.val.Struct(query); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", err.Error())
		return 0, false
	}
	if query.Days == 0 {
		return service.DefaultRangeDays, true
	}
	return query.Days, true
}
