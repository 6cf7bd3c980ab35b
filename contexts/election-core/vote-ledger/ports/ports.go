package ports

import (
	"context"
	"time"

	"chainvotes/contexts/election-core/vote-ledger/domain/entities"
)

// VoteTarget is the projection of a (campaign, position, candidate) triple
// the ledger needs to admit a ballot.
type VoteTarget struct {
	CampaignID  uint64
	PositionID  uint64
	CandidateID uint64
	IsActive    bool
	StartTime   time.Time
	EndTime     time.Time
}

// StructureReader resolves vote targets from the structure store. A nested
// lookup failure surfaces as the most specific ledger not-found error.
type StructureReader interface {
	GetVoteTarget(ctx context.Context, campaignID, positionID, candidateID uint64) (VoteTarget, error)
}

// TallyMutator applies the tally side of an accepted ballot: candidate vote
// count plus campaign voter count, exactly once per ballot.
type TallyMutator interface {
	ApplyVoteTally(ctx context.Context, campaignID, positionID, candidateID uint64) error
}

type BallotRepository interface {
	HasVoted(ctx context.Context, campaignID uint64, voter string) (bool, error)
	// AppendBallot records the ballot and the voter's campaign participation
	// atomically. It returns ErrAlreadyVoted when the voter already holds a
	// ballot in the campaign, even under concurrent casts.
	AppendBallot(ctx context.Context, ballot entities.Ballot) error
	GetParticipation(ctx context.Context, campaignID uint64, voter string) (entities.Participation, bool, error)
	ListBallotsByCampaign(ctx context.Context, campaignID uint64) ([]entities.Ballot, error)
	CountBallotsByCampaign(ctx context.Context, campaignID uint64) (int, error)
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
