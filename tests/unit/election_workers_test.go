package unit

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	accessmemory "chainvotes/contexts/election-core/access-registry/adapters/memory"
	accesserrors "chainvotes/contexts/election-core/access-registry/domain/errors"
	structureworkers "chainvotes/contexts/election-core/structure-store/application/workers"
	structureports "chainvotes/contexts/election-core/structure-store/ports"
	ledgermemory "chainvotes/contexts/election-core/vote-ledger/adapters/memory"
	ledgerworkers "chainvotes/contexts/election-core/vote-ledger/application/workers"
	ledgerports "chainvotes/contexts/election-core/vote-ledger/ports"
	"chainvotes/internal/platform/messaging"
	"chainvotes/internal/shared/events"
)

type ledgerStubPublisher struct {
	topics []string
	events []ledgerports.EventEnvelope
	failOn string
}

func (p *ledgerStubPublisher) Publish(_ context.Context, topic string, envelope ledgerports.EventEnvelope) error {
	if p.failOn != "" && envelope.EventID == p.failOn {
		return errors.New("broker unavailable")
	}
	p.topics = append(p.topics, topic)
	p.events = append(p.events, envelope)
	return nil
}

type structureStubPublisher struct {
	topics []string
}

func (p *structureStubPublisher) Publish(_ context.Context, topic string, _ structureports.EventEnvelope) error {
	p.topics = append(p.topics, topic)
	return nil
}

func appendLedgerEvent(t *testing.T, store *ledgermemory.Store, eventID string, occurredAt time.Time) {
	t.Helper()

	payload, err := json.Marshal(map[string]any{"ballot_id": eventID})
	if err != nil {
		t.Fatalf("marshal event payload failed: %v", err)
	}
	if err := store.AppendOutbox(context.Background(), ledgerports.EventEnvelope{
		EventID:       eventID,
		EventType:     "vote.cast",
		OccurredAt:    occurredAt,
		SourceService: "vote-ledger",
		SchemaVersion: 1,
		PartitionKey:  "1",
		Data:          payload,
	}); err != nil {
		t.Fatalf("append outbox failed: %v", err)
	}
}

func TestLedgerRelayPublishesPendingInOrder(t *testing.T) {
	store := ledgermemory.NewStore(nil)
	base := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	appendLedgerEvent(t, store, "event-2", base.Add(time.Minute))
	appendLedgerEvent(t, store, "event-1", base)
	appendLedgerEvent(t, store, "event-3", base.Add(2*time.Minute))

	publisher := &ledgerStubPublisher{}
	relay := ledgerworkers.OutboxRelay{
		Outbox:    store,
		Publisher: publisher,
		Clock:     &manualClock{now: base.Add(time.Hour)},
		BatchSize: 10,
	}

	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("relay run failed: %v", err)
	}

	if len(publisher.events) != 3 {
		t.Fatalf("expected 3 published events, got %d", len(publisher.events))
	}
	for i, want := range []string{"event-1", "event-2", "event-3"} {
		if publisher.events[i].EventID != want {
			t.Fatalf("expected %s at slot %d, got %s", want, i, publisher.events[i].EventID)
		}
		if publisher.topics[i] != "vote.cast" {
			t.Fatalf("expected topic named after event type, got %q", publisher.topics[i])
		}
	}

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected drained outbox, got %d pending rows", len(pending))
	}

	// A second cycle finds nothing to republish.
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("idle relay run failed: %v", err)
	}
	if len(publisher.events) != 3 {
		t.Fatalf("idle cycle must not republish, got %d events", len(publisher.events))
	}
}

func TestLedgerRelayStopsOnFirstPublishFailure(t *testing.T) {
	store := ledgermemory.NewStore(nil)
	base := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	appendLedgerEvent(t, store, "event-1", base)
	appendLedgerEvent(t, store, "event-2", base.Add(time.Minute))
	appendLedgerEvent(t, store, "event-3", base.Add(2*time.Minute))

	publisher := &ledgerStubPublisher{failOn: "event-2"}
	relay := ledgerworkers.OutboxRelay{
		Outbox:    store,
		Publisher: publisher,
		Clock:     &manualClock{now: base.Add(time.Hour)},
		BatchSize: 10,
	}

	if err := relay.RunOnce(context.Background()); err == nil {
		t.Fatalf("expected relay to surface the publish failure")
	}
	if len(publisher.events) != 1 || publisher.events[0].EventID != "event-1" {
		t.Fatalf("expected only event-1 published before the failure, got %+v", publisher.events)
	}

	// Rows behind the failure stay pending; the published row does not.
	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 2 || pending[0].OutboxID != "event-2" || pending[1].OutboxID != "event-3" {
		t.Fatalf("expected event-2 and event-3 pending, got %+v", pending)
	}

	// Once the broker recovers, the retry cycle resumes after the gap
	// without republishing event-1.
	publisher.failOn = ""
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("retry relay run failed: %v", err)
	}
	if len(publisher.events) != 3 {
		t.Fatalf("expected 3 events after retry, got %d", len(publisher.events))
	}
	if publisher.events[1].EventID != "event-2" || publisher.events[2].EventID != "event-3" {
		t.Fatalf("expected retry to publish the remaining rows in order, got %+v", publisher.events)
	}
}

func TestStructureRelayDrainsCommandEvents(t *testing.T) {
	module, _, _ := newElection(t)

	publisher := &structureStubPublisher{}
	relay := structureworkers.OutboxRelay{
		Outbox:    module.Structure.Store,
		Publisher: publisher,
		Clock:     module.Structure.Store,
		BatchSize: 20,
	}

	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("structure relay run failed: %v", err)
	}

	types := map[string]int{}
	for _, topic := range publisher.topics {
		types[topic]++
	}
	if types["campaign.created"] != 1 || types["position.created"] != 2 || types["candidate.created"] != 4 {
		t.Fatalf("unexpected published topics: %v", types)
	}

	pending, err := module.Structure.Store.ListPendingOutbox(context.Background(), 20)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected drained structure outbox, got %d rows", len(pending))
	}
}

func TestMarkingUnknownOutboxRowIsConflict(t *testing.T) {
	store := accessmemory.NewStore("owner@example.com")

	err := store.MarkOutboxPublished(context.Background(), "missing-row", time.Now().UTC())
	if !errors.Is(err, accesserrors.ErrOutboxConflict) {
		t.Fatalf("expected outbox conflict for unknown row, got %v", err)
	}
}

func TestEventBusDeliversPerTopic(t *testing.T) {
	bus, err := messaging.NewKafka(nil, nil)
	if err != nil {
		t.Fatalf("build bus failed: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan events.Envelope, 1)
	if err := bus.Subscribe(ctx, "vote.cast", "test-cg",
		func(_ context.Context, event events.Envelope) error {
			received <- event
			return nil
		},
	); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	if err := bus.Publish(ctx, "admin.added", events.Envelope{EventID: "other-topic"}); err != nil {
		t.Fatalf("publish to other topic failed: %v", err)
	}
	if err := bus.Publish(ctx, "vote.cast", events.Envelope{EventID: "event-1", EventType: "vote.cast"}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	select {
	case event := <-received:
		if event.EventID != "event-1" {
			t.Fatalf("expected event-1, got %q", event.EventID)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("expected subscriber to receive the published event")
	}
}
