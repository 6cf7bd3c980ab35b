package ports

import (
	"context"
	"time"

	"chainvotes/contexts/election-core/structure-store/domain/entities"
)

type StructureRepository interface {
	// CreateCampaign assigns the next sequential campaign id and stores the
	// record. Ids are never reused.
	CreateCampaign(ctx context.Context, campaign entities.Campaign) (uint64, error)
	UpdateCampaignStatus(ctx context.Context, campaignID uint64, isActive bool) error
	GetCampaign(ctx context.Context, campaignID uint64) (entities.Campaign, error)
	CampaignCount(ctx context.Context) (int, error)
	CampaignIDAt(ctx context.Context, index int) (uint64, error)
	ListCampaigns(ctx context.Context) ([]entities.Campaign, error)
	// AddPosition assigns the next position id scoped to the campaign.
	AddPosition(ctx context.Context, position entities.Position) (uint64, error)
	GetPosition(ctx context.Context, campaignID uint64, positionID uint64) (entities.Position, error)
	// AddCandidate assigns the next candidate id scoped to the position.
	AddCandidate(ctx context.Context, candidate entities.Candidate) (uint64, error)
	GetCandidate(ctx context.Context, campaignID uint64, positionID uint64, candidateID uint64) (entities.Candidate, error)
}

// AdminRegistry is the authorization dependency satisfied by the
// access-registry module. Every structural mutation consults it first.
type AdminRegistry interface {
	IsAdmin(ctx context.Context, identity string) (bool, error)
}

// VoteTarget is the projection the vote-ledger resolves before accepting a
// vote: a correctly nested (campaign, position, candidate) triple plus the
// campaign fields that gate voting.
type VoteTarget struct {
	CampaignID  uint64
	PositionID  uint64
	CandidateID uint64
	IsActive    bool
	StartTime   time.Time
	EndTime     time.Time
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
