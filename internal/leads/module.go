// Package leads wires the lead CRUD, import, and export surface.
package leads

import (
	"buyer_leads_backend/internal/events"
	apphttp "buyer_leads_backend/internal/http"
	"buyer_leads_backend/internal/leads/handler"
	"buyer_leads_backend/internal/leads/repository"
	"buyer_leads_backend/internal/leads/service"
	"buyer_leads_backend/platform/config"
	"buyer_leads_backend/platform/logger"
	"buyer_leads_backend/platform/validator"
)

// Module is the leads bounded context.
type Module struct {
	svc     *service.Service
	handler *handler.Handler
}

// NewModule assembles the leads module.
func NewModule(repo repository.Repository, bus events.Bus, cfg config.ImportConfig, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(repo, bus, cfg, log)
	return &Module{svc: svc, handler: handler.New(svc, val)}
}

// Name implements http.Module.
func (m *Module) Name() string { return "leads" }

// Service exposes the lead service to sibling modules.
func (m *Module) Service() *service.Service { return m.svc }

// RegisterRoutes mounts the lead routes. Writes are rate limited per IP.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/leads")

	group.GET("", m.handler.ListLeads)
	group.POST("", ctx.CreateLimiter.RateLimit(), m.handler.CreateLead)
	group.GET("/export", m.handler.ExportLeads)
	group.GET("/template", m.handler.DownloadTemplate)
	group.POST("/import", ctx.ImportLimiter.RateLimit(), m.handler.ImportLeads)
	group.GET("/:id", m.handler.GetLead)
	group.PUT("/:id", ctx.UpdateLimiter.RateLimit(), m.handler.UpdateLead)
	group.DELETE("/:id", m.handler.DeleteLead)
}
