package postgresadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"chainvotes/contexts/election-core/vote-ledger/domain/entities"
	domainerrors "chainvotes/contexts/election-core/vote-ledger/domain/errors"
	"chainvotes/contexts/election-core/vote-ledger/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) HasVoted(ctx context.Context, campaignID uint64, voter string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&participationModel{}).
		Where("campaign_id = ? AND voter = ?", campaignID, normalize(voter)).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// AppendBallot records the ballot, participation and tally in one
// transaction. The campaign row is locked first so the voter-count update and
// the uniqueness check serialize; the unique (campaign_id, voter) index backs
// the check up under concurrent casts.
func (r *Repository) AppendBallot(ctx context.Context, ballot entities.Ballot) error {
	voter := normalize(ballot.Voter)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var campaign struct{ CampaignID uint64 }
		if err := tx.Table("election_campaigns").
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("campaign_id").
			Where("campaign_id = ?", ballot.CampaignID).
			Take(&campaign).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrCampaignNotFound
			}
			return err
		}

		participation := participationModel{
			CampaignID: ballot.CampaignID,
			Voter:      voter,
			VotedAt:    ballot.CastAt.UTC(),
		}
		if err := tx.Create(&participation).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrAlreadyVoted
			}
			return err
		}

		row := ballotModel{
			BallotID:    strings.TrimSpace(ballot.BallotID),
			CampaignID:  ballot.CampaignID,
			PositionID:  ballot.PositionID,
			CandidateID: ballot.CandidateID,
			Voter:       voter,
			CastAt:      ballot.CastAt.UTC(),
		}
		if row.BallotID == "" {
			row.BallotID = uuid.NewString()
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}

		tallyResult := tx.Table("election_candidates").
			Where("campaign_id = ? AND position_id = ? AND candidate_id = ?",
				ballot.CampaignID, ballot.PositionID, ballot.CandidateID).
			Update("vote_count", gorm.Expr("vote_count + 1"))
		if tallyResult.Error != nil {
			return tallyResult.Error
		}
		if tallyResult.RowsAffected == 0 {
			return domainerrors.ErrCandidateNotFound
		}

		return tx.Table("election_campaigns").
			Where("campaign_id = ?", ballot.CampaignID).
			Update("voter_count", gorm.Expr("voter_count + 1")).
			Error
	})
}

func (r *Repository) GetParticipation(
	ctx context.Context,
	campaignID uint64,
	voter string,
) (entities.Participation, bool, error) {
	var row participationModel
	err := r.db.WithContext(ctx).
		Where("campaign_id = ? AND voter = ?", campaignID, normalize(voter)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Participation{}, false, nil
		}
		return entities.Participation{}, false, err
	}
	return entities.Participation{
		CampaignID: row.CampaignID,
		Voter:      row.Voter,
		VotedAt:    row.VotedAt.UTC(),
	}, true, nil
}

func (r *Repository) ListBallotsByCampaign(ctx context.Context, campaignID uint64) ([]entities.Ballot, error) {
	var rows []ballotModel
	if err := r.db.WithContext(ctx).
		Where("campaign_id = ?", campaignID).
		Order("cast_at ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]entities.Ballot, 0, len(rows))
	for _, row := range rows {
		items = append(items, entities.Ballot{
			BallotID:    row.BallotID,
			CampaignID:  row.CampaignID,
			PositionID:  row.PositionID,
			CandidateID: row.CandidateID,
			Voter:       row.Voter,
			CastAt:      row.CastAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) CountBallotsByCampaign(ctx context.Context, campaignID uint64) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&ballotModel{}).
		Where("campaign_id = ?", campaignID).
		Count(&count).
		Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	row := outboxModel{
		OutboxID:     strings.TrimSpace(envelope.EventID),
		EventType:    strings.TrimSpace(envelope.EventType),
		PartitionKey: strings.TrimSpace(envelope.PartitionKey),
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	if row.OutboxID == "" {
		row.OutboxID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}

	createResult := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "outbox_id"}},
			DoNothing: true,
		}).
		Create(&row)
	if createResult.Error != nil {
		return createResult.Error
	}
	if createResult.RowsAffected > 0 {
		return nil
	}

	var existing outboxModel
	if err := r.db.WithContext(ctx).
		Select("payload").
		Where("outbox_id = ?", row.OutboxID).
		First(&existing).
		Error; err != nil {
		return err
	}
	if !bytes.Equal(existing.Payload, row.Payload) {
		return domainerrors.ErrOutboxConflict
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}

	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      append([]byte(nil), row.Payload...),
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrOutboxConflict
	}
	return nil
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

type ballotModel struct {
	BallotID    string    `gorm:"column:ballot_id;primaryKey"`
	CampaignID  uint64    `gorm:"column:campaign_id"`
	PositionID  uint64    `gorm:"column:position_id"`
	CandidateID uint64    `gorm:"column:candidate_id"`
	Voter       string    `gorm:"column:voter"`
	CastAt      time.Time `gorm:"column:cast_at"`
}

func (ballotModel) TableName() string {
	return "election_ballots"
}

type participationModel struct {
	CampaignID uint64    `gorm:"column:campaign_id;primaryKey"`
	Voter      string    `gorm:"column:voter;primaryKey"`
	VotedAt    time.Time `gorm:"column:voted_at"`
}

func (participationModel) TableName() string {
	return "election_participation"
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "vote_ledger_outbox"
}

func normalize(identity string) string {
	return strings.ToLower(strings.TrimSpace(identity))
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
