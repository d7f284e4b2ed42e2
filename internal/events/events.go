// Package events defines the application's domain events and re-exports the
// bus types so modules never import the platform package directly.
package events

import (
	platformevents "buyer_leads_backend/platform/events"

	"github.com/google/uuid"
)

// Re-exported bus types.
type (
	Event       = platformevents.Event
	BaseEvent   = platformevents.BaseEvent
	Handler     = platformevents.Handler
	HandlerFunc = platformevents.HandlerFunc
	Bus         = platformevents.Bus
	InMemoryBus = platformevents.InMemoryBus
)

var (
	NewBaseEvent   = platformevents.NewBaseEvent
	NewInMemoryBus = platformevents.NewInMemoryBus
)

// Event names.
const (
	LeadCreatedName   = "leads.lead.created"
	LeadUpdatedName   = "leads.lead.updated"
	LeadDeletedName   = "leads.lead.deleted"
	LeadsImportedName = "leads.import.completed"
)

// LeadCreated fires after a lead is persisted, whether from the API or a CSV
// import row. Action distinguishes the two.
type LeadCreated struct {
	BaseEvent
	LeadID    uuid.UUID
	LeadName  string
	Action    string // "created" or "imported_from_csv"
	ChangedBy string
}

func (LeadCreated) EventName() string { return LeadCreatedName }

// LeadUpdated fires after an update that changed at least one field.
// Changes maps field name to a human-readable "old → new" transition.
type LeadUpdated struct {
	BaseEvent
	LeadID    uuid.UUID
	Changes   map[string]string
	ChangedBy string
}

func (LeadUpdated) EventName() string { return LeadUpdatedName }

// LeadDeleted fires after a lead is removed.
type LeadDeleted struct {
	BaseEvent
	LeadID    uuid.UUID
	LeadName  string
	ChangedBy string
}

func (LeadDeleted) EventName() string { return LeadDeletedName }

// LeadsImported fires once per import run after all rows are processed.
type LeadsImported struct {
	BaseEvent
	LeadIDs     []uuid.UUID
	TotalRows   int
	ValidRows   int
	InvalidRows int
}

func (LeadsImported) EventName() string { return LeadsImportedName }
