package history

import (
	"net/http"
	"time"

	"buyer_leads_backend/internal/events"
	apphttp "buyer_leads_backend/internal/http"
	"buyer_leads_backend/platform/httpkit"
	"buyer_leads_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the lead-history bounded context.
type Module struct {
	repo Repository
}

// NewModule assembles the history module and subscribes it to lead events.
func NewModule(pool *pgxpool.Pool, bus events.Bus, log *logger.Logger) *Module {
	repo := NewRepository(pool)
	NewSubscriber(repo, log).Register(bus)
	return &Module{repo: repo}
}

// Name implements http.Module.
func (m *Module) Name() string { return "history" }

// RegisterRoutes mounts the history endpoint.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/leads/:id/history", m.getLeadHistory)
}

// entryResponse is the API view of a history entry.
type entryResponse struct {
	ID        uuid.UUID         `json:"id"`
	Action    string            `json:"action"`
	Changes   map[string]string `json:"changes"`
	ChangedBy string            `json:"changed_by"`
	CreatedAt string            `json:"created_at"`
}

func (m *Module) getLeadHistory(c *gin.Context) {
	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid lead id", nil)
		return
	}

	entries, err := m.repo.Recent(c.Request.Context(), leadID, RecentLimit)
	if httpkit.HandleError(c, err) {
		return
	}

	out := make([]entryResponse, len(entries))
	for i, entry := range entries {
		changes := entry.Changes
		if changes == nil {
			changes = map[string]string{}
		}
		out[i] = entryResponse{
			ID:        entry.ID,
			Action:    entry.Action,
			Changes:   changes,
			ChangedBy: entry.ChangedBy,
			CreatedAt: entry.CreatedAt.UTC().Format(time.RFC3339),
		}
	}
	httpkit.OK(c, gin.H{"results": out})
}
