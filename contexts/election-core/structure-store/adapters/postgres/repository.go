package postgresadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"chainvotes/contexts/election-core/structure-store/domain/entities"
	domainerrors "chainvotes/contexts/election-core/structure-store/domain/errors"
	"chainvotes/contexts/election-core/structure-store/ports"

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

func (r *Repository) CreateCampaign(ctx context.Context, campaign entities.Campaign) (uint64, error) {
	row := campaignModel{
		Name:        strings.TrimSpace(campaign.Name),
		Description: strings.TrimSpace(campaign.Description),
		StartTime:   campaign.StartTime.UTC(),
		EndTime:     campaign.EndTime.UTC(),
		IsActive:    campaign.IsActive,
		VoterCount:  campaign.VoterCount,
		CreatedBy:   strings.TrimSpace(campaign.CreatedBy),
		CreatedAt:   campaign.CreatedAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return 0, err
	}
	return row.CampaignID, nil
}

func (r *Repository) UpdateCampaignStatus(ctx context.Context, campaignID uint64, isActive bool) error {
	result := r.db.WithContext(ctx).
		Model(&campaignModel{}).
		Where("campaign_id = ?", campaignID).
		Update("is_active", isActive)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrCampaignNotFound
	}
	return nil
}

func (r *Repository) GetCampaign(ctx context.Context, campaignID uint64) (entities.Campaign, error) {
	var row campaignModel
	err := r.db.WithContext(ctx).
		Where("campaign_id = ?", campaignID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Campaign{}, domainerrors.ErrCampaignNotFound
		}
		return entities.Campaign{}, err
	}

	positionIDs, err := r.positionIDs(ctx, campaignID)
	if err != nil {
		return entities.Campaign{}, err
	}
	campaign := row.toEntity()
	campaign.PositionIDs = positionIDs
	return campaign, nil
}

func (r *Repository) CampaignCount(ctx context.Context) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&campaignModel{}).
		Count(&count).
		Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *Repository) CampaignIDAt(ctx context.Context, index int) (uint64, error) {
	if index < 0 {
		return 0, domainerrors.ErrCampaignNotFound
	}
	var row campaignModel
	err := r.db.WithContext(ctx).
		Select("campaign_id").
		Order("campaign_id ASC").
		Offset(index).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, domainerrors.ErrCampaignNotFound
		}
		return 0, err
	}
	return row.CampaignID, nil
}

func (r *Repository) ListCampaigns(ctx context.Context) ([]entities.Campaign, error) {
	var rows []campaignModel
	if err := r.db.WithContext(ctx).
		Order("campaign_id ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]entities.Campaign, 0, len(rows))
	for _, row := range rows {
		positionIDs, err := r.positionIDs(ctx, row.CampaignID)
		if err != nil {
			return nil, err
		}
		campaign := row.toEntity()
		campaign.PositionIDs = positionIDs
		items = append(items, campaign)
	}
	return items, nil
}

func (r *Repository) AddPosition(ctx context.Context, position entities.Position) (uint64, error) {
	var assigned uint64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock the parent row so concurrent adds assign distinct scoped ids.
		var campaign campaignModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("campaign_id = ?", position.CampaignID).
			First(&campaign).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrCampaignNotFound
			}
			return err
		}

		var count int64
		if err := tx.Model(&positionModel{}).
			Where("campaign_id = ?", position.CampaignID).
			Count(&count).
			Error; err != nil {
			return err
		}

		row := positionModel{
			CampaignID:  position.CampaignID,
			PositionID:  uint64(count) + 1,
			Name:        strings.TrimSpace(position.Name),
			Description: strings.TrimSpace(position.Description),
			CreatedAt:   position.CreatedAt.UTC(),
		}
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrInvalidStructureInput
			}
			return err
		}
		assigned = row.PositionID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return assigned, nil
}

func (r *Repository) GetPosition(ctx context.Context, campaignID uint64, positionID uint64) (entities.Position, error) {
	var row positionModel
	err := r.db.WithContext(ctx).
		Where("campaign_id = ? AND position_id = ?", campaignID, positionID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Position{}, r.positionMissingError(ctx, campaignID)
		}
		return entities.Position{}, err
	}

	candidateIDs, err := r.candidateIDs(ctx, campaignID, positionID)
	if err != nil {
		return entities.Position{}, err
	}
	position := row.toEntity()
	position.CandidateIDs = candidateIDs
	return position, nil
}

func (r *Repository) AddCandidate(ctx context.Context, candidate entities.Candidate) (uint64, error) {
	var assigned uint64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var position positionModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("campaign_id = ? AND position_id = ?", candidate.CampaignID, candidate.PositionID).
			First(&position).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return r.positionMissingError(ctx, candidate.CampaignID)
			}
			return err
		}

		var count int64
		if err := tx.Model(&candidateModel{}).
			Where("campaign_id = ? AND position_id = ?", candidate.CampaignID, candidate.PositionID).
			Count(&count).
			Error; err != nil {
			return err
		}

		row := candidateModel{
			CampaignID:  candidate.CampaignID,
			PositionID:  candidate.PositionID,
			CandidateID: uint64(count) + 1,
			Name:        strings.TrimSpace(candidate.Name),
			Description: strings.TrimSpace(candidate.Description),
			VoteCount:   0,
			CreatedAt:   candidate.CreatedAt.UTC(),
		}
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrInvalidStructureInput
			}
			return err
		}
		assigned = row.CandidateID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return assigned, nil
}

func (r *Repository) GetCandidate(
	ctx context.Context,
	campaignID uint64,
	positionID uint64,
	candidateID uint64,
) (entities.Candidate, error) {
	var row candidateModel
	err := r.db.WithContext(ctx).
		Where("campaign_id = ? AND position_id = ? AND candidate_id = ?", campaignID, positionID, candidateID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if _, perr := r.GetPosition(ctx, campaignID, positionID); perr != nil {
				return entities.Candidate{}, perr
			}
			return entities.Candidate{}, domainerrors.ErrCandidateNotFound
		}
		return entities.Candidate{}, err
	}
	return row.toEntity(), nil
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

func (r *Repository) positionIDs(ctx context.Context, campaignID uint64) ([]uint64, error) {
	var rows []positionModel
	if err := r.db.WithContext(ctx).
		Select("position_id").
		Where("campaign_id = ?", campaignID).
		Order("position_id ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.PositionID)
	}
	return ids, nil
}

func (r *Repository) candidateIDs(ctx context.Context, campaignID uint64, positionID uint64) ([]uint64, error) {
	var rows []candidateModel
	if err := r.db.WithContext(ctx).
		Select("candidate_id").
		Where("campaign_id = ? AND position_id = ?", campaignID, positionID).
		Order("candidate_id ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.CandidateID)
	}
	return ids, nil
}

// positionMissingError distinguishes an unknown campaign from an unknown
// position so callers get the most specific not-found case.
func (r *Repository) positionMissingError(ctx context.Context, campaignID uint64) error {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&campaignModel{}).
		Where("campaign_id = ?", campaignID).
		Count(&count).
		Error; err != nil {
		return err
	}
	if count == 0 {
		return domainerrors.ErrCampaignNotFound
	}
	return domainerrors.ErrPositionNotFound
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

type campaignModel struct {
	CampaignID  uint64    `gorm:"column:campaign_id;primaryKey;autoIncrement"`
	Name        string    `gorm:"column:name"`
	Description string    `gorm:"column:description"`
	StartTime   time.Time `gorm:"column:start_time"`
	EndTime     time.Time `gorm:"column:end_time"`
	IsActive    bool      `gorm:"column:is_active"`
	VoterCount  int       `gorm:"column:voter_count"`
	CreatedBy   string    `gorm:"column:created_by"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (campaignModel) TableName() string {
	return "election_campaigns"
}

func (m campaignModel) toEntity() entities.Campaign {
	return entities.Campaign{
		CampaignID:  m.CampaignID,
		Name:        m.Name,
		Description: m.Description,
		StartTime:   m.StartTime.UTC(),
		EndTime:     m.EndTime.UTC(),
		IsActive:    m.IsActive,
		VoterCount:  m.VoterCount,
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt.UTC(),
	}
}

type positionModel struct {
	CampaignID  uint64    `gorm:"column:campaign_id;primaryKey"`
	PositionID  uint64    `gorm:"column:position_id;primaryKey"`
	Name        string    `gorm:"column:name"`
	Description string    `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (positionModel) TableName() string {
	return "election_positions"
}

func (m positionModel) toEntity() entities.Position {
	return entities.Position{
		PositionID:  m.PositionID,
		CampaignID:  m.CampaignID,
		Name:        m.Name,
		Description: m.Description,
		CreatedAt:   m.CreatedAt.UTC(),
	}
}

type candidateModel struct {
	CampaignID  uint64    `gorm:"column:campaign_id;primaryKey"`
	PositionID  uint64    `gorm:"column:position_id;primaryKey"`
	CandidateID uint64    `gorm:"column:candidate_id;primaryKey"`
	Name        string    `gorm:"column:name"`
	Description string    `gorm:"column:description"`
	VoteCount   int       `gorm:"column:vote_count"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (candidateModel) TableName() string {
	return "election_candidates"
}

func (m candidateModel) toEntity() entities.Candidate {
	return entities.Candidate{
		CandidateID: m.CandidateID,
		PositionID:  m.PositionID,
		CampaignID:  m.CampaignID,
		Name:        m.Name,
		Description: m.Description,
		VoteCount:   m.VoteCount,
		CreatedAt:   m.CreatedAt.UTC(),
	}
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
	return "structure_store_outbox"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
