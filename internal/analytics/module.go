// Package analytics wires the reporting surface.
package analytics

import (
	"buyer_leads_backend/internal/analytics/handler"
	"buyer_leads_backend/internal/analytics/service"
	apphttp "buyer_leads_backend/internal/http"
	"buyer_leads_backend/platform/validator"
)

// Module is the analytics bounded context. It only reads leads, through the
// service's LeadSource port.
type Module struct {
	handler *handler.Handler
}

// NewModule assembles the analytics module.
func NewModule(src service.LeadSource, val *validator.Validator) *Module {
	return &Module{handler: handler.New(service.New(src), val)}
}

// Name implements http.Module.
func (m *Module) Name() string { return "analytics" }

// RegisterRoutes mounts the report routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/analytics")

	group.GET("", m.handler.Range)
	group.GET("/dashboard", m.handler.Dashboard)
	group.GET("/trends", m.handler.Trends)
	group.GET("/conversion", m.handler.Conversion)
}
