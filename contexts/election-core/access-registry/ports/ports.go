package ports

import (
	"context"
	"time"
)

// Admin is the stored view of one authorized identity.
type Admin struct {
	Identity  string
	IsOwner   bool
	GrantedBy string
	GrantedAt time.Time
}

type AdminRepository interface {
	Owner(ctx context.Context) (string, error)
	IsAdmin(ctx context.Context, identity string) (bool, error)
	// PutAdmin adds identity to the admin set. It reports false when the
	// identity was already present (the grant is idempotent).
	PutAdmin(ctx context.Context, admin Admin) (bool, error)
	// DeleteAdmin removes identity from the admin set. It reports false when
	// the identity was absent. Implementations must refuse to delete the owner.
	DeleteAdmin(ctx context.Context, identity string) (bool, error)
	ListAdmins(ctx context.Context) ([]Admin, error)
}

type EventEnvelope struct {
	EventID          string    `json:"event_id"`
	EventType        string    `json:"event_type"`
	OccurredAt       time.Time `json:"occurred_at"`
	SourceService    string    `json:"source_service"`
	TraceID          string    `json:"trace_id,omitempty"`
	SchemaVersion    int       `json:"schema_version"`
	PartitionKeyPath string    `json:"partition_key_path"`
	PartitionKey     string    `json:"partition_key"`
	Data             []byte    `json:"data"`
}

type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

type OutboxRepository interface {
	OutboxWriter
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, envelope EventEnvelope) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
