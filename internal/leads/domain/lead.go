package domain

import (
	"time"

	"github.com/google/uuid"
)

// Lead is a stored buyer lead. Identity and timestamps belong to the store;
// everything else is validated input.
type Lead struct {
	ID        uuid.UUID
	FullName  string
	Email     string
	Phone     string
	City      City
	Intent    PropertyIntent
	Purpose   Purpose
	BudgetMin int64
	BudgetMax int64
	Timeline  Timeline
	Source    Source
	Status    Status
	Notes     string
	Tags      []string
	CreatedAt time.Time
	UpdatedAt time.Time
}
