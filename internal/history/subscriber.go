package history

import (
	"context"
	"fmt"

	"buyer_leads_backend/internal/events"
	"buyer_leads_backend/platform/logger"
)

// Subscriber turns lead events into history entries.
type Subscriber struct {
	repo Repository
	log  *logger.Logger
}

// NewSubscriber creates a history subscriber.
func NewSubscriber(repo Repository, log *logger.Logger) *Subscriber {
	return &Subscriber{repo: repo, log: log}
}

// Register subscribes the history handlers on the bus.
func (s *Subscriber) Register(bus events.Bus) {
	bus.Subscribe(events.LeadCreatedName, events.HandlerFunc(s.onLeadCreated))
	bus.Subscribe(events.LeadUpdatedName, events.HandlerFunc(s.onLeadUpdated))
	bus.Subscribe(events.LeadDeletedName, events.HandlerFunc(s.onLeadDeleted))
}

func (s *Subscriber) onLeadCreated(ctx context.Context, event events.Event) error {
	created, ok := event.(events.LeadCreated)
	if !ok {
		return fmt.Errorf("unexpected event %T", event)
	}
	action := ActionCreated
	if created.Action == ActionImported {
		action = ActionImported
	}
	return s.repo.Append(ctx, Entry{
		LeadID:    created.LeadID,
		Action:    action,
		ChangedBy: created.ChangedBy,
		CreatedAt: created.OccurredAt(),
	})
}

func (s *Subscriber) onLeadUpdated(ctx context.Context, event events.Event) error {
	updated, ok := event.(events.LeadUpdated)
	if !ok {
		return fmt.Errorf("unexpected event %T", event)
	}
	return s.repo.Append(ctx, Entry{
		LeadID:    updated.LeadID,
		Action:    ActionUpdated,
		Changes:   updated.Changes,
		ChangedBy: updated.ChangedBy,
		CreatedAt: updated.OccurredAt(),
	})
}

// onLeadDeleted removes the trail with the lead; dangling history has no
// lead to show it under.
func (s *Subscriber) onLeadDeleted(ctx context.Context, event events.Event) error {
	deleted, ok := event.(events.LeadDeleted)
	if !ok {
		return fmt.Errorf("unexpected event %T", event)
	}
	return s.repo.DeleteForLead(ctx, deleted.LeadID)
}
