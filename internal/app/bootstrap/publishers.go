package bootstrap

import (
	"context"

	accessports "chainvotes/contexts/election-core/access-registry/ports"
	structureports "chainvotes/contexts/election-core/structure-store/ports"
	ledgerports "chainvotes/contexts/election-core/vote-ledger/ports"
	"chainvotes/internal/platform/messaging"
	"chainvotes/internal/shared/events"
)

// Each context declares its own envelope type so it never imports shared
// packages. These adapters convert at the composition boundary.

type accessPublisher struct {
	bus *messaging.Kafka
}

func (p accessPublisher) Publish(ctx context.Context, topic string, envelope accessports.EventEnvelope) error {
	return p.bus.Publish(ctx, topic, events.Envelope{
		EventID:          envelope.EventID,
		EventType:        envelope.EventType,
		OccurredAt:       envelope.OccurredAt,
		SourceService:    envelope.SourceService,
		TraceID:          envelope.TraceID,
		SchemaVersion:    envelope.SchemaVersion,
		PartitionKeyPath: envelope.PartitionKeyPath,
		PartitionKey:     envelope.PartitionKey,
		Data:             envelope.Data,
	})
}

type structurePublisher struct {
	bus *messaging.Kafka
}

func (p structurePublisher) Publish(ctx context.Context, topic string, envelope structureports.EventEnvelope) error {
	return p.bus.Publish(ctx, topic, events.Envelope{
		EventID:          envelope.EventID,
		EventType:        envelope.EventType,
		OccurredAt:       envelope.OccurredAt,
		SourceService:    envelope.SourceService,
		TraceID:          envelope.TraceID,
		SchemaVersion:    envelope.SchemaVersion,
		PartitionKeyPath: envelope.PartitionKeyPath,
		PartitionKey:     envelope.PartitionKey,
		Data:             envelope.Data,
	})
}

type ledgerPublisher struct {
	bus *messaging.Kafka
}

func (p ledgerPublisher) Publish(ctx context.Context, topic string, envelope ledgerports.EventEnvelope) error {
	return p.bus.Publish(ctx, topic, events.Envelope{
		EventID:          envelope.EventID,
		EventType:        envelope.EventType,
		OccurredAt:       envelope.OccurredAt,
		SourceService:    envelope.SourceService,
		TraceID:          envelope.TraceID,
		SchemaVersion:    envelope.SchemaVersion,
		PartitionKeyPath: envelope.PartitionKeyPath,
		PartitionKey:     envelope.PartitionKey,
		Data:             envelope.Data,
	})
}
