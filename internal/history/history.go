// Package history keeps the per-lead audit trail. Entries are written by
// subscribing to lead events, never by the leads module directly.
package history

import (
	"time"

	"github.com/google/uuid"
)

// Entry is one recorded change to a lead. Changes maps field name to an
// "old → new" transition and is empty for create entries.
type Entry struct {
	ID        uuid.UUID
	LeadID    uuid.UUID
	Action    string
	Changes   map[string]string
	ChangedBy string
	CreatedAt time.Time
}

// Actions recorded in the trail.
const (
	ActionCreated  = "created"
	ActionUpdated  = "updated"
	ActionImported = "imported_from_csv"
)

// RecentLimit is how many entries the history endpoint returns.
const RecentLimit = 5
