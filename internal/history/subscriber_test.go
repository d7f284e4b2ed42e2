package history

import (
	"context"
	"testing"

	"buyer_leads_backend/internal/events"
	"buyer_leads_backend/platform/logger"

	"github.com/google/uuid"
)

type memoryHistoryRepo struct {
	entries []Entry
}

func (m *memoryHistoryRepo) Append(_ context.Context, entry Entry) error {
	m.entries = append(m.entries, entry)
	return nil
}

func (m *memoryHistoryRepo) Recent(_ context.Context, leadID uuid.UUID, limit int) ([]Entry, error) {
	var out []Entry
	for i := len(m.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if m.entries[i].LeadID == leadID {
			out = append(out, m.entries[i])
		}
	}
	return out, nil
}

func (m *memoryHistoryRepo) DeleteForLead(_ context.Context, leadID uuid.UUID) error {
	var kept []Entry
	for _, entry := range m.entries {
		if entry.LeadID != leadID {
			kept = append(kept, entry)
		}
	}
	m.entries = kept
	return nil
}

func newTestSubscriber() (*Subscriber, *memoryHistoryRepo, events.Bus) {
	repo := &memoryHistoryRepo{}
	sub := NewSubscriber(repo, logger.New("test"))
	bus := events.NewInMemoryBus(logger.New("test"))
	sub.Register(bus)
	return sub, repo, bus
}

func TestCreatedEventRecordsEntry(t *testing.T) {
	_, repo, bus := newTestSubscriber()
	leadID := uuid.New()

	err := bus.PublishSync(context.Background(), events.LeadCreated{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    leadID,
		Action:    "created",
		ChangedBy: "anonymous",
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(repo.entries) != 1 {
		t.Fatalf("entries = %d", len(repo.entries))
	}
	entry := repo.entries[0]
	if entry.LeadID != leadID || entry.Action != ActionCreated || len(entry.Changes) != 0 {
		t.Fatalf("entry = %+v", entry)
	}
}

func TestImportedActionPreserved(t *testing.T) {
	_, repo, bus := newTestSubscriber()

	err := bus.PublishSync(context.Background(), events.LeadCreated{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    uuid.New(),
		Action:    "imported_from_csv",
		ChangedBy: "anonymous",
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if repo.entries[0].Action != ActionImported {
		t.Fatalf("action = %q", repo.entries[0].Action)
	}
}

func TestUpdatedEventRecordsChanges(t *testing.T) {
	_, repo, bus := newTestSubscriber()
	leadID := uuid.New()

	err := bus.PublishSync(context.Background(), events.LeadUpdated{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    leadID,
		Changes:   map[string]string{"status": "new → contacted"},
		ChangedBy: "anonymous",
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	entry := repo.entries[0]
	if entry.Action != ActionUpdated || entry.Changes["status"] != "new → contacted" {
		t.Fatalf("entry = %+v", entry)
	}
}

func TestDeletedEventClearsTrail(t *testing.T) {
	_, repo, bus := newTestSubscriber()
	leadID := uuid.New()
	repo.entries = []Entry{
		{LeadID: leadID, Action: ActionCreated},
		{LeadID: uuid.New(), Action: ActionCreated},
	}

	err := bus.PublishSync(context.Background(), events.LeadDeleted{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    leadID,
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(repo.entries) != 1 || repo.entries[0].LeadID == leadID {
		t.Fatalf("trail not cleared: %+v", repo.entries)
	}
}
